package config

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var (
	dotenvOnce sync.Once
	cache      sync.Map // reflect.Type -> any (a value of the config type)
)

// Load populates cfg from the environment. The first call for a given type
// parses the environment; later calls copy the cached value.
// cfg must be a non-nil pointer to a struct.
func Load[T any](cfg *T) error {
	if cfg == nil {
		return fmt.Errorf("config: nil target for %s", reflect.TypeFor[T]())
	}

	// A missing .env file is normal outside local development.
	dotenvOnce.Do(func() {
		_ = godotenv.Load()
	})

	key := reflect.TypeFor[T]()
	if cached, ok := cache.Load(key); ok {
		*cfg = cached.(T)
		return nil
	}

	var loaded T
	if err := env.Parse(&loaded); err != nil {
		return fmt.Errorf("config: parse %s: %w", key, err)
	}

	actual, _ := cache.LoadOrStore(key, loaded)
	*cfg = actual.(T)
	return nil
}

// MustLoad is like Load but panics on error.
func MustLoad[T any](cfg *T) {
	if err := Load(cfg); err != nil {
		panic(err)
	}
}
