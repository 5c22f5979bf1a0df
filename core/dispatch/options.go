package dispatch

import (
	"log/slog"

	"github.com/dmitrymomot/eventflow/core/logger"
)

const defaultQueueCapacity = 64

// Config holds the environment-tunable settings of the flow-control wrappers.
//
// Example:
//
//	var cfg dispatch.Config
//	config.MustLoad(&cfg)
//	sched := dispatch.NewScheduler(dispatch.WithConfig(cfg))
type Config struct {
	// QueueCapacity preallocates the pending queue.
	QueueCapacity int `env:"DISPATCH_QUEUE_CAPACITY" envDefault:"64"`
	// RootPolicy is the default policy of a Scheduler's root frame.
	RootPolicy Policy `env:"DISPATCH_ROOT_POLICY" envDefault:"deliver"`
}

type options struct {
	logger        *slog.Logger
	dispatcher    *Dispatcher
	queueCapacity int
	rootPolicy    Policy
}

// Option configures a Dispatcher, Scheduler, Blockable or Piped.
type Option func(*options)

func buildOptions(opts []Option) options {
	o := options{
		logger:        logger.Discard(),
		queueCapacity: defaultQueueCapacity,
		rootPolicy:    Deliver,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// coreFor returns the shared dispatcher from options or builds a new one.
func (o options) coreFor() *Dispatcher {
	if o.dispatcher != nil {
		return o.dispatcher
	}
	return newDispatcher(o.logger)
}

// WithLogger configures debug logging. Nil is ignored; the default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithDispatcher makes a flow-control wrapper deliver through an existing
// dispatcher instead of creating its own, so several wrappers can share one
// set of registrations. Ignored by New.
func WithDispatcher(d *Dispatcher) Option {
	return func(o *options) {
		if d != nil {
			o.dispatcher = d
		}
	}
}

// WithQueueCapacity preallocates room for n pending events. Non-positive values are ignored.
func WithQueueCapacity(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.queueCapacity = n
		}
	}
}

// WithRootPolicy sets the default policy of a Scheduler's root frame.
// Equivalent to calling SetDefault right after NewScheduler.
func WithRootPolicy(p Policy) Option {
	return func(o *options) {
		o.rootPolicy = p
	}
}

// WithConfig applies every setting from cfg.
func WithConfig(cfg Config) Option {
	return func(o *options) {
		WithQueueCapacity(cfg.QueueCapacity)(o)
		WithRootPolicy(cfg.RootPolicy)(o)
	}
}
