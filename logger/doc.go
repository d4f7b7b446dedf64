// Package logger provides structured logging using zerolog.
//
// It supports JSON and console output, level configuration, and
// component-scoped loggers with structured fields. Logs go to stderr by
// default so command output on stdout stays clean.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "console"
//
// # Usage
//
//	log := logger.NewDefault("datafixture").WithComponent("executor")
//	log.Info("fixture applied", logger.Fields(logger.FieldFixture, "users"))
package logger
