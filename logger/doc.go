// Package logger provides structured logging for cliproc using zerolog.
//
// It supports JSON and console output, level configuration, and
// component-scoped loggers with structured fields. Logs go to stderr by
// default so that stdout stays free for execution reports.
//
// # Configuration
//
//	logging:
//	  level: "debug"
//	  format: "json"
//
// # Usage
//
//	log := logger.Get("command")
//	log.Debug("running command", logger.Fields(logger.FieldCommand, "ls -l"))
package logger
