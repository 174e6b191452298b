// Package logger provides typed slog attribute constructors so log fields
// keep consistent names across the codebase.
//
//	log.LogAttrs(ctx, slog.LevelInfo, "request complete",
//		logger.Method(r.Method),
//		logger.Path(r.URL.Path),
//		logger.StatusCode(status),
//		logger.Duration(elapsed),
//	)
package logger
