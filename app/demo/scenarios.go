package demo

import (
	"errors"
	"fmt"

	"github.com/dmitrymomot/eventflow/core/dispatch"
)

// directDispatch raises straight through the shared dispatcher: every
// matching handler runs before Raise returns.
func (a *App) directDispatch() error {
	a.trace.section("direct dispatch")

	var subs dispatch.Subscriptions
	defer subs.Unsubscribe()

	subs.Add(
		dispatch.SubscribeWhen(a.core,
			func(n int) bool { return n%2 == 0 },
			dispatch.Func(func(n int) { a.trace.line("even", n) }),
		),
		dispatch.SubscribeValue(a.core, "Hello", dispatch.Func(func(s string) {
			a.trace.line("value", s)
		})),
		dispatch.Subscribe(a.core, dispatch.Func(func(f float64) {
			a.trace.line("float", f)
		})),
		dispatch.SubscribeWhen(a.core,
			func(g Greeting) bool { return g.Text == "" },
			dispatch.Decorate(
				dispatch.Func(func(g Greeting) { panic("empty greeting from " + g.From) }),
				traced[Greeting](a.logger, "reject empty greeting"),
				recovered[Greeting](),
			),
		),
		dispatch.Subscribe(a.core, dispatch.Decorate(
			dispatch.Func(func(g Greeting) {
				a.trace.line("greeting", fmt.Sprintf("%s says %q", g.From, g.Text))
			}),
			traced[Greeting](a.logger, "print greeting"),
		)),
	)

	for n := 1; n <= 4; n++ {
		if err := dispatch.Raise(a.core, n); err != nil {
			return err
		}
	}
	err := errors.Join(
		dispatch.Raise(a.core, "Hello"),
		dispatch.Raise(a.core, "World!"),
		dispatch.Raise(a.core, 3.14),
		dispatch.Raise(a.core, Greeting{From: "alice", Text: "hi"}),
	)
	if err != nil {
		return err
	}

	// The panicking handler is isolated by its decorator: the raise fails,
	// the scenario goes on.
	if err := dispatch.Raise(a.core, Greeting{From: "bob"}); err != nil {
		if !errors.Is(err, ErrHandlerPanic) {
			return err
		}
		a.trace.line("rejected", err)
	}
	return nil
}

// scheduledDelivery holds two event types in a pushed frame while a third is
// delivered at once, then flushes the held ones in raise order.
func (a *App) scheduledDelivery() error {
	a.trace.section("scheduled delivery")

	var subs dispatch.Subscriptions
	defer subs.Unsubscribe()

	var order []int
	record := func(label string, n int) {
		order = append(order, n)
		a.trace.line(label, n)
	}
	subs.Add(
		dispatch.Subscribe(a.sched, dispatch.Func(func(e Indexed) { record("indexed", int(e)) })),
		dispatch.Subscribe(a.sched, dispatch.Func(func(e Cached) { record("cached", int(e)) })),
		dispatch.Subscribe(a.sched, dispatch.Func(func(e Notified) { record("notified", int(e)) })),
	)

	err := dispatch.WithFrame(a.sched, func() error {
		dispatch.SetPolicy[Indexed](a.sched, dispatch.Queue)
		dispatch.SetPolicy[Cached](a.sched, dispatch.Queue)
		return errors.Join(
			dispatch.Raise(a.sched, Indexed(1)),
			dispatch.Raise(a.sched, Cached(2)),
			dispatch.Raise(a.sched, Indexed(3)),
			dispatch.Raise(a.sched, Cached(4)),
			dispatch.Raise(a.sched, Notified(5)),
			dispatch.Raise(a.sched, Notified(6)),
		)
	})
	if err != nil {
		return err
	}

	a.trace.line("pending", a.sched.Len())
	n, err := a.sched.Flush()
	if err != nil {
		return err
	}
	a.trace.line("flushed", n)
	a.trace.line("order", order)
	return nil
}

// blockedBatch raises a batch while the Blockable is held; handlers run only
// once the block is released.
func (a *App) blockedBatch() error {
	a.trace.section("blocked batch")

	var subs dispatch.Subscriptions
	defer subs.Unsubscribe()

	subs.Add(dispatch.Subscribe(a.gate, dispatch.Func(func(p PriceChanged) {
		a.trace.line("price", fmt.Sprintf("%s=%.2f", p.SKU, p.Price))
	})))

	batch := []PriceChanged{
		{SKU: "A-1", Price: 9.99},
		{SKU: "B-2", Price: 19.5},
		{SKU: "C-3", Price: 4},
	}
	err := dispatch.WithBlock(a.gate, func() error {
		for _, p := range batch {
			if err := dispatch.Raise(a.gate, p); err != nil {
				return err
			}
		}
		a.trace.line("held", a.gate.Len())
		return nil
	})
	if err != nil {
		return err
	}
	a.trace.line("pending", a.gate.Len())
	return nil
}

// pipedFrames queues every frame and delivers them on an explicit flush.
func (a *App) pipedFrames() error {
	a.trace.section("piped frames")

	var subs dispatch.Subscriptions
	defer subs.Unsubscribe()

	subs.Add(dispatch.Subscribe(a.pipe, dispatch.Func(func(f Frame) {
		a.trace.line("frame", f.Seq)
	})))

	for seq := 1; seq <= 3; seq++ {
		if err := dispatch.Raise(a.pipe, Frame{Seq: seq}); err != nil {
			return err
		}
	}
	a.trace.line("queued", a.pipe.Len())

	n, err := a.pipe.Flush()
	if err != nil {
		return err
	}
	a.trace.line("flushed", n)
	return nil
}
