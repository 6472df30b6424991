// Package logging provides structured logging for the treebrowse tools.
//
// This package wraps zap logger with convenience functions for common logging
// patterns used throughout the browser and the listing server. It provides
// both general logging functions and helpers for listing traffic.
//
// # Log Levels
//
// The package supports standard log levels:
//   - Debug: Detailed debugging info (listing requests, skipped duplicate nodes)
//   - Info: Normal operations (server startup, served requests)
//   - Warn: Non-fatal issues (fetch retries, unknown uids)
//   - Error: Fatal issues (startup failures, listing failures)
//
// # Silent By Default
//
// Nothing is written unless a level is passed to Initialize or the
// TREEBROWSE_LOG_LEVEL environment variable is set:
//
//	TREEBROWSE_LOG_LEVEL=debug treebrowse ls
//
// The interactive browser owns the terminal, so it logs through
// InitializeFile into a file instead of stdout:
//
//	if err := logging.InitializeFile("debug", "/tmp/treebrowse.log"); err != nil {
//	    log.Fatal(err)
//	}
//	defer logging.Sync()
//
// # Structured Logging
//
// All log functions use structured fields:
//
//	logging.Info("Listing server started",
//	    zap.String("addr", ":8080"),
//	    zap.String("root", "/srv/files"),
//	)
//
// # Thread Safety
//
// All logging functions are safe for concurrent use. The underlying zap logger
// handles synchronization automatically.
package logging
