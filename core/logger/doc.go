// Package logger builds the zap logger used across the service.
//
// log.level selects the minimum level and log.format picks json or console
// output. The debug level switches to zap's development settings.
//
// Request and run scoped loggers carry their identifier as a field:
//
//	l := logger.WithRayID(log, c)
//	l.Error("Handler failed", zap.Error(err))
//
//	rl := logger.WithRunID(log, report.RunID)
//	rl.Info("Run completed")
package logger
