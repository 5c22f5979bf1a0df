package logger

import (
	"fmt"
	"log/slog"
	"reflect"
	"time"
)

// Attribute helpers use the empty Attr pattern for nil safety.
// This allows calls like log.Debug("msg", logger.Error(err)) without explicit nil checks,
// following the principle of making zero values useful.

// Group creates a group of attributes under a single key.
func Group(name string, attrs ...slog.Attr) slog.Attr {
	return slog.Attr{Key: name, Value: slog.GroupValue(attrs...)}
}

// ============================================================================
// Error Handling
// ============================================================================

// Error creates an attribute for a single error under the key "error".
// Returns empty Attr for nil errors, enabling safe usage without nil checks.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// ============================================================================
// Timing
// ============================================================================

// Duration creates an attribute for a duration.
func Duration(d time.Duration) slog.Attr {
	return slog.Duration("duration", d)
}

// Elapsed calculates and logs the duration since the start time.
func Elapsed(start time.Time) slog.Attr {
	return slog.Duration("elapsed", time.Since(start))
}

// ============================================================================
// Identifiers
// ============================================================================

// EventID creates an attribute for a queued event identifier.
func EventID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("event_id", id)
}

// SubscriptionID creates an attribute for a subscription identifier.
func SubscriptionID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("subscription_id", id)
}

// ============================================================================
// Generic Metadata
// ============================================================================

// Component creates an attribute for component names.
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Event creates an attribute for event names.
func Event(name string) slog.Attr {
	return slog.String("event", name)
}

// Type creates an attribute for type classification.
func Type(t string) slog.Attr {
	return slog.String("type", t)
}

// EventType creates an attribute naming a Go type. A nil type yields an empty Attr.
func EventType(t reflect.Type) slog.Attr {
	if t == nil {
		return slog.Attr{}
	}
	return slog.String("event_type", t.String())
}

// Action creates an attribute for action names.
func Action(action string) slog.Attr {
	return slog.String("action", action)
}

// Count creates a generic counter attribute.
func Count(key string, n int) slog.Attr {
	return slog.Int(key, n)
}

// Depth creates an attribute for a nesting depth (scheduler frames, block counter).
func Depth(n int) slog.Attr {
	return slog.Int("depth", n)
}

// Policy creates an attribute for a delivery policy. Any fmt.Stringer is accepted.
func Policy(p fmt.Stringer) slog.Attr {
	if p == nil {
		return slog.Attr{}
	}
	return slog.String("policy", p.String())
}

