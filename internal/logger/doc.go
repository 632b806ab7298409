// Package logger provides the leveled logger used across the harness.
//
// The logger supports four levels: Debug, Info, Warn, and Error.
// Each log entry includes a timestamp, level, optional component name, and message.
// Entries are encoded by zap's console encoder.
//
// # Basic Usage
//
// Using the default logger:
//
//	logger.Info("", "Harness started")
//	logger.Info("discovery", "Resolved %s", endpoint)
//	logger.Error("bench", "Pass failed: %v", err)
//
// Creating a custom logger:
//
//	l := logger.New(os.Stderr, logger.LevelDebug)
//	l.Debug("corpus", "Debug message")
//
// # Log Levels
//
// Messages below the configured level are filtered:
//   - LevelDebug: all messages
//   - LevelInfo: Info, Warn, Error
//   - LevelWarn: Warn, Error
//   - LevelError: Error only
//
// The level can be parsed from configuration with ParseLevel and changed at
// runtime with SetLevel.
//
// # Thread Safety
//
// All logging operations are safe for concurrent use.
package logger
