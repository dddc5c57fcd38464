// Package logger provides structured logging for fanarchive built on zerolog.
//
// A package-level default logger is available through GetLogger and is
// configured once at startup with Initialize. Components receive a Logger
// value and attach contextual fields with WithField/WithFields, so a crawl
// run produces a consistent stream like:
//
//	12:04:05 INF scanning listing page app=fanarchive fanclub=12345 page=3
//
// The Logger interface is deliberately small; tests use NewTestLogger to
// capture messages instead of parsing console output.
package logger
