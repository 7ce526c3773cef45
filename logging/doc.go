// Package logging provides a minimal logging interface and adapters for the harness.
//
// The Logger interface defines the standard logging methods (Debug, Info, Warn, Error)
// that the registry, tools, runner and transports use for observability. This package includes:
//
//   - Logger interface for dependency injection
//   - SlogAdapter wrapping Go's structured logging
//   - HarnessLogger with component/run scoping and tool call helpers
//   - NoOpLogger for silent operation (testing, minimal setups)
//
// Usage:
//
//	logger := logging.NewSlogLogger(logging.LogLevelInfo, "json", false)
//	reg, _ := builtin.NewRegistry(func(o *builtin.Options) { o.Logger = logger })
//
// The interface is kept minimal so callers can plug any structured logger.
package logging
