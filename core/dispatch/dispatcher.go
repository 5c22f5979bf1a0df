package dispatch

import (
	"fmt"
	"log/slog"
	"reflect"

	"github.com/dmitrymomot/eventflow/core/logger"
)

// Router is anything events can be raised through and handlers registered on:
// *Dispatcher, *Scheduler, *Blockable and *Piped. Registrations always land in
// the underlying Dispatcher; routing decides between delivering and queueing.
type Router interface {
	dispatcher() *Dispatcher
	route(p *pendingEvent) error
}

// Dispatcher delivers raised events synchronously to the handlers registered
// for their type. For each event it runs, in this order, the conditional
// handlers, the value-keyed handlers and the general handlers, each group in
// subscription order.
//
// Handlers may raise events, subscribe and unsubscribe while they run.
// A Dispatcher is not safe for concurrent use.
//
// Example:
//
//	d := dispatch.New()
//	sub := dispatch.Subscribe(d, func(evt UserCreated) error {
//	    return mailer.Welcome(evt.Email)
//	})
//	defer sub.Unsubscribe()
//
//	err := dispatch.Raise(d, UserCreated{Email: "user@example.com"})
type Dispatcher struct {
	types  map[reflect.Type]*slots
	logger *slog.Logger
}

// New creates an empty dispatcher.
func New(opts ...Option) *Dispatcher {
	o := buildOptions(opts)
	return newDispatcher(o.logger)
}

func newDispatcher(l *slog.Logger) *Dispatcher {
	return &Dispatcher{
		types:  make(map[reflect.Type]*slots),
		logger: l,
	}
}

func (d *Dispatcher) dispatcher() *Dispatcher {
	return d
}

func (d *Dispatcher) route(p *pendingEvent) error {
	return d.deliver(p.typ, p.value)
}

func (d *Dispatcher) deliver(typ reflect.Type, event any) error {
	s, ok := d.types[typ]
	if !ok {
		return nil
	}
	if err := s.raise(event); err != nil {
		return fmt.Errorf("dispatch %s: %w", typ, err)
	}
	return nil
}

func (d *Dispatcher) slotsFor(typ reflect.Type) *slots {
	s, ok := d.types[typ]
	if !ok {
		s = &slots{typ: typ}
		d.types[typ] = s
	}
	return s
}

func (d *Dispatcher) subscribed(typ reflect.Type, kind string, remove func()) *Subscription {
	var sub *Subscription
	sub = newSubscription(typ, func() {
		remove()
		d.logger.Debug("handler unsubscribed",
			logger.Component("dispatcher"),
			logger.EventType(typ),
			logger.SubscriptionID(sub.id))
	})
	d.logger.Debug("handler subscribed",
		logger.Component("dispatcher"),
		logger.EventType(typ),
		logger.Type(kind),
		logger.SubscriptionID(sub.id))
	return sub
}

// Subscribe registers h for every event of type T.
// It panics with ErrNilHandler if h is nil.
func Subscribe[T any](r Router, h Handler[T]) *Subscription {
	if h == nil {
		panic(ErrNilHandler)
	}
	d := r.dispatcher()
	s := d.slotsFor(reflect.TypeFor[T]())
	if s.general == nil {
		s.general = &generalRegistry[T]{}
	}
	reg := recoverSink[*generalRegistry[T]](s.general)
	return d.subscribed(s.typ, "general", reg.add(h))
}

// SubscribeValue registers h for events of type T equal to value.
// It panics with ErrNilHandler if h is nil.
//
// Example:
//
//	dispatch.SubscribeValue(d, "Hello", func(s string) error {
//	    fmt.Println("greeted")
//	    return nil
//	})
func SubscribeValue[T comparable](r Router, value T, h Handler[T]) *Subscription {
	if h == nil {
		panic(ErrNilHandler)
	}
	d := r.dispatcher()
	s := d.slotsFor(reflect.TypeFor[T]())
	if s.value == nil {
		s.value = newValueRegistry[T]()
	}
	reg := recoverSink[*valueRegistry[T]](s.value)
	return d.subscribed(s.typ, "value", reg.add(value, h))
}

// SubscribeWhen registers h for events of type T accepted by when.
// It panics with ErrNilHandler if h or when is nil.
//
// Example:
//
//	dispatch.SubscribeWhen(d,
//	    func(n int) bool { return n%2 == 0 },
//	    func(n int) error { fmt.Println("even", n); return nil },
//	)
func SubscribeWhen[T any](r Router, when Predicate[T], h Handler[T]) *Subscription {
	if h == nil || when == nil {
		panic(ErrNilHandler)
	}
	d := r.dispatcher()
	s := d.slotsFor(reflect.TypeFor[T]())
	if s.conditional == nil {
		s.conditional = &conditionalRegistry[T]{}
	}
	reg := recoverSink[*conditionalRegistry[T]](s.conditional)
	return d.subscribed(s.typ, "conditional", reg.add(when, h))
}

// Raise routes event through r. On a Dispatcher every matching handler runs
// before Raise returns; the flow-control wrappers may queue the event instead.
// The first handler error stops delivery of the event and is returned wrapped.
//
// The event type is the static type argument: Raise[any] and Raise[int]
// address different registrations.
func Raise[T any](r Router, event T) error {
	return r.route(&pendingEvent{
		typ:   reflect.TypeFor[T](),
		value: event,
	})
}

// Count returns the number of live registrations for events of type T.
func Count[T any](r Router) int {
	s, ok := r.dispatcher().types[reflect.TypeFor[T]()]
	if !ok {
		return 0
	}
	return s.len()
}
