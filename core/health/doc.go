// Package health provides liveness and readiness handlers for the
// router.
//
// Liveness answers as long as the process runs; Readiness runs a set
// of dependency checks and fails the probe when any of them errors:
//
//	r.Get("/health/live", health.Liveness[*router.Context])
//	r.Get("/health/ready", health.Readiness[*router.Context](log,
//		func(ctx context.Context) error { return db.PingContext(ctx) },
//	))
//	r.Get("/ping", health.NoContent[*router.Context])
package health
