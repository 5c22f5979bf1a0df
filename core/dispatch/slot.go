package dispatch

import (
	"fmt"
	"reflect"
)

// sink is the uniform capability every concrete registry is stored behind.
// The dispatcher raises through it without knowing the event type.
type sink interface {
	raise(event any) error
	len() int
}

// slots holds the three registries of one event type. A registry is created
// on the first registration of its kind.
type slots struct {
	typ         reflect.Type
	conditional sink
	value       sink
	general     sink
}

// raise runs the registries in fixed order: conditional, value-keyed, general.
// Registries created by handlers of this raise are not visited.
func (s *slots) raise(event any) error {
	order := [...]sink{s.conditional, s.value, s.general}
	for _, reg := range order {
		if reg == nil {
			continue
		}
		if err := reg.raise(event); err != nil {
			return err
		}
	}
	return nil
}

func (s *slots) len() int {
	n := 0
	for _, reg := range [...]sink{s.conditional, s.value, s.general} {
		if reg != nil {
			n += reg.len()
		}
	}
	return n
}

// recoverSink returns the concrete registry held by reg. A registry can only
// be recovered as the exact type it was created with.
func recoverSink[R sink](reg sink) R {
	r, ok := reg.(R)
	if !ok {
		panic(fmt.Sprintf("dispatch: registry slot holds %T, not %s", reg, reflect.TypeFor[R]()))
	}
	return r
}
