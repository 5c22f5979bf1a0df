package demo

import "github.com/dmitrymomot/eventflow/core/dispatch"

type Config struct {
	Dispatch dispatch.Config

	AppName   string `env:"APP_NAME" envDefault:"flowdemo"`
	Env       string `env:"APP_ENV" envDefault:"development"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`
	Color     bool   `env:"DEMO_COLOR" envDefault:"true"`
}
