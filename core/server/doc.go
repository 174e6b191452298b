// Package server runs an http.Handler as a long-lived process with graceful
// shutdown.
//
// The server owns the listen/accept loop; each connection is handled
// concurrently by net/http. Stop drains in-flight requests within a
// configurable window and force-closes whatever remains, reporting
// ErrShutdownTimeout when the window is exceeded.
//
// Basic usage:
//
//	srv := server.New(":8080", server.WithLogger(logger))
//	if err := srv.Start(ctx, router); err != nil {
//		log.Fatal(err)
//	}
//
// Configuration can come from the environment or a YAML file:
//
//	cfg, err := server.LoadConfig()
//	srv, err := server.NewFromConfig(cfg)
//
// For coordinated lifecycles with errgroup:
//
//	g, ctx := errgroup.WithContext(ctx)
//	g.Go(srv.Run(ctx, router))
package server
