// Package logger provides structured logging utilities built on Go's standard slog package.
//
// # Features
//
//   - Built on Go's standard slog for compatibility and performance
//   - Environment-specific configurations (development, production)
//   - Attribute helpers for the dispatch core (event types, policies, depths, counters)
//   - Support for both JSON and text output formats
//   - Type-safe attribute creation with nil safety
//
// # Basic Usage
//
//	import "github.com/dmitrymomot/eventflow/core/logger"
//
//	// Development: text format, debug level
//	log := logger.New(logger.WithDevelopment("flowdemo"))
//
//	// Production: JSON format, info level
//	log := logger.New(logger.WithProduction("flowdemo"))
//
//	// Custom configuration
//	log := logger.New(
//		logger.WithLevelName("warn"),
//		logger.WithJSONFormatter(),
//		logger.WithAttr(slog.String("service", "billing")),
//		logger.WithOutput(os.Stderr),
//	)
//
// # Attribute Helpers
//
//	log.Debug("event queued",
//		logger.Component("scheduler"),
//		logger.EventType(reflect.TypeFor[OrderPlaced]()),
//		logger.EventID(id),
//		logger.Policy(dispatch.Queue),
//		logger.Depth(2),
//	)
//
// Helpers return an empty slog.Attr for nil or empty inputs, which slog drops,
// so callers never need nil checks:
//
//	log.Error("flush failed", logger.Error(err))
package logger
