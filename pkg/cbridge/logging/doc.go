// Package logging provides a minimal logging facade for the boundary packages.
//
// This package defines a Logger interface that wraps a subset of the standard
// library's log/slog functionality. The interface is intentionally small to
// allow applications to provide custom implementations for testing, redaction,
// or integration with existing logging systems.
//
// # Logger Interface
//
// The Logger interface provides context-aware logging methods:
//
//	type Logger interface {
//	    Debug(ctx context.Context, msg string, args ...any)
//	    Info(ctx context.Context, msg string, args ...any)
//	    Warn(ctx context.Context, msg string, args ...any)
//	    Error(ctx context.Context, msg string, args ...any)
//	    With(args ...any) Logger
//	}
//
// # Default Implementation
//
// The package provides a default slog-backed implementation:
//
//	import (
//	    "log/slog"
//	    "github.com/hsiuhsiu/cbridge-go/pkg/cbridge/logging"
//	)
//
//	// Use default logger (slog.Default())
//	logger := logging.New(nil)
//
//	// Use custom slog.Logger
//	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})
//	customLogger := logging.New(slog.New(handler))
//
// # Redaction Support
//
// The package provides utilities for redacting sensitive information:
//
//	// Mark an attribute as redacted
//	logger.Info(ctx, "key loaded", logging.Redacted("key_bytes"))
//	// Logs: key_bytes="[redacted]"
//
//	// Get the redaction placeholder
//	placeholder := logging.Placeholder() // Returns "[redacted]"
//
// # Usage in Boundary Code
//
// Loggers are threaded through cbridge.Config into every component:
//
//	logger := logging.New(nil)
//	logger.Info(ctx, "heap opened", "kind", "wasm", "heap_id", id)
//
//	// Log with redaction for sensitive data
//	logger.Debug(ctx, "public key derived",
//	    logging.Redacted("private_key"),
//	    "compressed", true,
//	)
//
// # Zap
//
// Applications already standardized on zap can wrap their logger:
//
//	logger := logging.NewZap(zapLogger)
//
// Library components default to logging.Nop() when no logger is configured.
//
// # Custom Implementations
//
// Applications can provide custom Logger implementations:
//
//	type customLogger struct {
//	    // ... your fields
//	}
//
//	func (l *customLogger) Debug(ctx context.Context, msg string, args ...any) {
//	    // Custom debug logic
//	}
//	// ... implement other methods
//
//	logger := &customLogger{}
//	// Pass it through cbridge.Config.Logger
//
// # Security Considerations
//
//   - Never log private keys or raw buffers that crossed the boundary
//   - Use logging.Redacted() to mark sensitive attributes
//   - Consider using structured logging for better auditability
//   - Ensure log storage is secure and access-controlled
package logging
