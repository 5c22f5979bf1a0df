// Package dispatch is an in-process, strongly typed publish/subscribe core with
// flow control. Application code raises plain Go values; handlers registered for
// the value's type run synchronously on the caller's goroutine.
//
// # Registration
//
// Handlers are registered by type, by exact value, or by predicate:
//
//	d := dispatch.New()
//
//	// Every int.
//	all := dispatch.Subscribe(d, func(n int) error { ... })
//
//	// Only the int 69.
//	nice := dispatch.SubscribeValue(d, 69, func(n int) error { ... })
//
//	// Only even ints.
//	even := dispatch.SubscribeWhen(d,
//	    func(n int) bool { return n%2 == 0 },
//	    func(n int) error { ... },
//	)
//
// Each call returns a *Subscription; Unsubscribe removes exactly that
// registration. It is safe to unsubscribe from inside any handler, including
// the one being removed: the registration is skipped for the rest of the
// current raise and never invoked again.
//
// # Delivery order
//
// For one raised event the dispatcher runs the conditional handlers, then the
// value-keyed handlers, then the general handlers, each group in subscription
// order. Handlers subscribed while an event is being delivered do not receive
// that event.
//
// A handler error stops delivery of the event and is returned, wrapped, from
// Raise. Panics propagate untouched. There is no isolation between handlers:
// wrap a handler with Decorate if one failure must not affect the others.
//
// # Flow control
//
// Three wrappers share the dispatcher's registration API and can defer delivery:
//
//   - Scheduler keeps a stack of frames with per-type Deliver/Queue policies.
//     Queue in any active frame holds the event; Flush delivers what the
//     current policies allow, in raise order.
//   - Blockable has a nested block counter. While blocked, or while older
//     events are pending, raised events are queued. Unblocking to zero flushes.
//   - Piped always queues. Handlers only run on an explicit Flush.
//
// All three keep one FIFO across every event type. Pass WithDispatcher to let
// several wrappers deliver through the same registrations:
//
//	core := dispatch.New()
//	sched := dispatch.NewScheduler(dispatch.WithDispatcher(core))
//	gate := dispatch.NewBlockable(dispatch.WithDispatcher(core))
//
// # Scope guards
//
// ScopedBlock and WithBlock pair every Block with exactly one Unblock, on every
// exit path. ScopedFrame and WithFrame do the same for Scheduler Push/Pop.
//
//	err := dispatch.WithBlock(gate, func() error {
//	    return importBatch(gate, rows) // events raised here wait
//	}) // and are delivered here
//
// # Misuse
//
// Unblock without a matching Block panics with ErrUnbalancedUnblock; Pop on the
// root frame panics with ErrUnbalancedPop. These are programming errors.
//
// # Concurrency
//
// Nothing in this package starts goroutines or takes locks. Blocking is a
// logical state and never suspends the caller. Confine each Dispatcher and
// wrapper to a single goroutine.
package dispatch
