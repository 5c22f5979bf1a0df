// Package config provides type-safe environment variable loading with caching
// using Go generics. Each configuration type is loaded once and cached for
// subsequent calls.
//
// The package loads .env files on first use and uses the caarlos0/env library
// for parsing environment variables into struct fields.
//
// Basic usage:
//
//	import "github.com/dmitrymomot/eventflow/core/config"
//
//	type DispatchConfig struct {
//		QueueCapacity int             `env:"DISPATCH_QUEUE_CAPACITY" envDefault:"64"`
//		RootPolicy    dispatch.Policy `env:"DISPATCH_ROOT_POLICY" envDefault:"deliver"`
//	}
//
//	func main() {
//		var cfg DispatchConfig
//
//		if err := config.Load(&cfg); err != nil {
//			log.Fatal(err)
//		}
//
//		// Or panic on failure (useful for startup)
//		config.MustLoad(&cfg)
//	}
//
// # Caching Behavior
//
// Each configuration type is loaded only once per process:
//
//	var a DispatchConfig
//	config.Load(&a) // parses the environment
//
//	var b DispatchConfig
//	config.Load(&b) // copies the cached value, a == b
//
// Different types are cached independently. Any field type implementing
// encoding.TextUnmarshaler (such as dispatch.Policy) is parsed through it.
package config
