package demo

import (
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"time"

	"github.com/dmitrymomot/eventflow/core/dispatch"
	"github.com/dmitrymomot/eventflow/core/logger"
)

// ErrHandlerPanic wraps a panic recovered from a demo handler.
var ErrHandlerPanic = errors.New("handler panicked")

// traced logs every invocation of the wrapped handler at debug level.
func traced[T any](log *slog.Logger, name string) dispatch.Decorator[T] {
	return func(next dispatch.Handler[T]) dispatch.Handler[T] {
		return func(event T) error {
			start := time.Now()
			err := next(event)
			log.Debug("handler finished",
				logger.Component("demo"),
				logger.Event(name),
				logger.EventType(reflect.TypeFor[T]()),
				logger.Duration(time.Since(start)),
				logger.Error(err))
			return err
		}
	}
}

// recovered converts a panic in the wrapped handler into an error, so one
// faulty handler fails its raise instead of unwinding the caller.
func recovered[T any]() dispatch.Decorator[T] {
	return func(next dispatch.Handler[T]) dispatch.Handler[T] {
		return func(event T) (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("%w: %v", ErrHandlerPanic, r)
				}
			}()
			return next(event)
		}
	}
}
