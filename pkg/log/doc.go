// Package log provides the structured logging facade used across the log
// ingestor.
//
// # Overview
//
// The package exposes a small Logger interface with leveled methods and a
// Field type for structured context. Internally it is backed by the standard
// library's log/slog via a bridge handler that renders each record with a
// pluggable Formatter (text or JSON) and writes it to one or more Outputs.
// Code that speaks slog directly can obtain the bridged slog.Logger from
// (*BaseLogger).Slog.
//
// Quick start
//
//	l := log.NewLogger(
//	    log.WithLevel(log.InfoLevel),
//	    log.WithFormatter(&log.TextFormatter{}),
//	    log.WithOutput(log.NewConsoleOutput()),
//	)
//	l = l.With(log.Component("buffer"))
//	l.Info("flush complete", log.Int("count", 1000))
//
// # Configuration
//
// Use ApplyConfig to build a logger from a declarative Config with a level
// and format name. To integrate with libraries that write through the
// standard library logger (such as pebble), use RedirectStdLog.
package log
