package dispatch

import (
	"reflect"

	"github.com/google/uuid"
)

// Subscription owns the removal rights of exactly one registration.
//
// Unsubscribe may be called at any time, including from inside the handler it
// controls: the registration turns inert before Unsubscribe returns and is
// never invoked again, not even by the raise currently in progress.
type Subscription struct {
	id      string
	typ     reflect.Type
	release func()
}

func newSubscription(typ reflect.Type, release func()) *Subscription {
	return &Subscription{
		id:      uuid.NewString(),
		typ:     typ,
		release: release,
	}
}

// ID returns the unique subscription identifier.
func (s *Subscription) ID() string {
	return s.id
}

// EventType returns the event type the registration listens to.
func (s *Subscription) EventType() reflect.Type {
	return s.typ
}

// Active reports whether the registration is still in place.
func (s *Subscription) Active() bool {
	return s != nil && s.release != nil
}

// Unsubscribe removes the registration. Calls after the first are no-ops.
func (s *Subscription) Unsubscribe() {
	if s == nil || s.release == nil {
		return
	}
	release := s.release
	s.release = nil
	release()
}

// Subscriptions releases a set of subscriptions together, typically when the
// object owning the handlers goes away.
//
// Example:
//
//	type Mailer struct {
//	    subs dispatch.Subscriptions
//	}
//
//	func (m *Mailer) Attach(d *dispatch.Dispatcher) {
//	    m.subs.Add(
//	        dispatch.Subscribe(d, m.onSignup),
//	        dispatch.Subscribe(d, m.onReset),
//	    )
//	}
//
//	func (m *Mailer) Close() { m.subs.Unsubscribe() }
type Subscriptions struct {
	subs []*Subscription
}

// Add appends subscriptions to the set. Nil entries are ignored.
func (g *Subscriptions) Add(subs ...*Subscription) {
	for _, s := range subs {
		if s != nil {
			g.subs = append(g.subs, s)
		}
	}
}

// Len returns the number of subscriptions held.
func (g *Subscriptions) Len() int {
	return len(g.subs)
}

// Unsubscribe releases every held subscription, most recent first, and empties the set.
func (g *Subscriptions) Unsubscribe() {
	subs := g.subs
	g.subs = nil
	for i := len(subs) - 1; i >= 0; i-- {
		subs[i].Unsubscribe()
	}
}
