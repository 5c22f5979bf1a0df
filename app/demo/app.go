package demo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/dmitrymomot/eventflow/core/config"
	"github.com/dmitrymomot/eventflow/core/dispatch"
	"github.com/dmitrymomot/eventflow/core/logger"
)

// App wires one shared Dispatcher with a Scheduler, a Blockable and a Piped
// delivering through it, and runs the demonstration scenarios against them.
type App struct {
	config Config
	logger *slog.Logger
	out    io.Writer
	color  *bool
	trace  *tracer

	core  *dispatch.Dispatcher
	sched *dispatch.Scheduler
	gate  *dispatch.Blockable
	pipe  *dispatch.Piped
}

type AppOption func(*App) error

func NewApp(opts ...AppOption) (*App, error) {
	var cfg Config
	if err := config.Load(&cfg); err != nil {
		return nil, err
	}

	app := &App{
		config: cfg,
		out:    os.Stdout,
	}

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	if app.logger == nil {
		app.logger = newLogger(app.config)
	}

	useColor := app.config.Color
	if app.color != nil {
		useColor = *app.color
	}
	app.trace = newTracer(app.out, useColor)

	app.core = dispatch.New(dispatch.WithLogger(app.logger))
	shared := []dispatch.Option{
		dispatch.WithDispatcher(app.core),
		dispatch.WithLogger(app.logger),
		dispatch.WithConfig(app.config.Dispatch),
	}
	app.sched = dispatch.NewScheduler(shared...)
	app.gate = dispatch.NewBlockable(shared...)
	app.pipe = dispatch.NewPiped(shared...)

	return app, nil
}

func newLogger(cfg Config) *slog.Logger {
	opts := []logger.Option{
		logger.WithOutput(os.Stderr),
		logger.WithLevelName(cfg.LogLevel),
		logger.WithAttr(slog.String("service", cfg.AppName), slog.String("env", cfg.Env)),
	}
	if strings.EqualFold(cfg.LogFormat, "json") {
		opts = append(opts, logger.WithJSONFormatter())
	}
	return logger.New(opts...)
}

func WithLogger(logger *slog.Logger) AppOption {
	return func(app *App) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		app.logger = logger
		return nil
	}
}

// WithOutput sets where the delivery trace is written. Defaults to stdout.
func WithOutput(w io.Writer) AppOption {
	return func(app *App) error {
		if w == nil {
			return errors.New("output writer cannot be nil")
		}
		app.out = w
		return nil
	}
}

// WithColor forces colored trace output on or off, overriding DEMO_COLOR.
func WithColor(enabled bool) AppOption {
	return func(app *App) error {
		app.color = &enabled
		return nil
	}
}

// WithConfig replaces the configuration loaded from the environment.
func WithConfig(cfg Config) AppOption {
	return func(app *App) error {
		app.config = cfg
		return nil
	}
}

func (a *App) Logger() *slog.Logger {
	return a.logger
}

func (a *App) Dispatcher() *dispatch.Dispatcher {
	return a.core
}

// Run executes every scenario in order and stops at the first failure or
// when ctx is done.
func (a *App) Run(ctx context.Context) error {
	scenarios := []struct {
		name string
		run  func() error
	}{
		{"direct dispatch", a.directDispatch},
		{"scheduled delivery", a.scheduledDelivery},
		{"blocked batch", a.blockedBatch},
		{"piped frames", a.pipedFrames},
	}

	a.logger.Info("demo started",
		logger.Component("demo"),
		logger.Count("scenarios", len(scenarios)),
		logger.Group("dispatch",
			logger.Count("queue_capacity", a.config.Dispatch.QueueCapacity),
			logger.Policy(a.config.Dispatch.RootPolicy)))

	for _, s := range scenarios {
		if err := ctx.Err(); err != nil {
			return err
		}
		start := time.Now()
		if err := s.run(); err != nil {
			a.logger.Error("scenario failed",
				logger.Component("demo"),
				logger.Action(s.name),
				logger.Error(err))
			return fmt.Errorf("%s: %w", s.name, err)
		}
		a.logger.Debug("scenario finished",
			logger.Component("demo"),
			logger.Action(s.name),
			logger.Elapsed(start))
	}

	a.logger.Info("demo finished", logger.Component("demo"))
	return nil
}
