// Package logging provides structured logging for forescout-tools.
//
// This package wraps a global zap logger with convenience functions. Library
// packages log through it unconditionally; whether anything is printed is
// decided once at startup by the CLI.
//
// # Sinks
//
// The console sink is silent unless a level is given, either through
// --log-level or the FORESCOUT_LOG_LEVEL environment variable:
//
//	FORESCOUT_LOG_LEVEL=debug forescout-tools update-segments
//
// The file sink records everything at debug level as JSON lines, by default
// in forescout.log inside the workspace:
//
//	if err := logging.Setup(logging.Options{Level: "", File: "forescout.log"}); err != nil {
//	    return err
//	}
//	defer logging.Sync()
//
// # Structured Logging
//
// All log functions use structured fields:
//
//	logging.Info("Segments backed up",
//	    zap.String("path", path),
//	)
//
// Workflows attach their run ID once with With:
//
//	log := logging.With(zap.String("run_id", id))
//	log.Info("State changed", zap.Stringer("state", next))
package logging
