// Package logger provides structured logging for starpipe using zerolog.
//
// It supports JSON and console output, level configuration, and
// component-scoped loggers with structured fields. Logs go to stderr by
// default so that stdout stays reserved for rewritten source.
//
// # Configuration
//
//	logging:
//	  level: "debug"
//	  format: "json"
//
// # Usage
//
//	log := logger.Get("rewrite")
//	log.Debug("stage classified", logger.Fields("stage", 1, "shape", "named-call"))
package logger
