package dispatch

import (
	"log/slog"

	"github.com/dmitrymomot/eventflow/core/logger"
)

// gate is the block counter and pending queue shared by Blockable and Piped.
type gate struct {
	core      *Dispatcher
	queue     queue
	blocked   int
	flushing  bool
	logger    *slog.Logger
	component string
}

func newGate(component string, opts []Option) gate {
	o := buildOptions(opts)
	return gate{
		core:      o.coreFor(),
		queue:     newQueue(o.queueCapacity),
		logger:    o.logger,
		component: component,
	}
}

func (g *gate) dispatcher() *Dispatcher {
	return g.core
}

// Dispatcher returns the dispatcher events are delivered through.
func (g *gate) Dispatcher() *Dispatcher {
	return g.core
}

// Block increments the block counter. Blocks nest: every Block needs its own Unblock.
func (g *gate) Block() {
	g.blocked++
	g.logger.Debug("blocked", logger.Component(g.component), logger.Depth(g.blocked))
}

// IsBlocked reports whether the block counter is above zero.
func (g *gate) IsBlocked() bool {
	return g.blocked > 0
}

// Len returns the number of pending events.
func (g *gate) Len() int {
	return g.queue.len()
}

// Pending returns the pending events in queue order.
func (g *gate) Pending() []PendingEvent {
	return g.queue.view()
}

func (g *gate) release() {
	if g.blocked <= 0 {
		panic(ErrUnbalancedUnblock)
	}
	g.blocked--
	g.logger.Debug("unblocked", logger.Component(g.component), logger.Depth(g.blocked))
}

func (g *gate) enqueue(p *pendingEvent) {
	g.queue.push(p)
	g.logger.Debug("event queued",
		logger.Component(g.component),
		logger.EventType(p.typ),
		logger.EventID(p.id),
		logger.Count("pending", g.queue.len()))
}

// Flush delivers pending events from the front of the queue until the queue
// is empty or a handler blocks again, and returns how many were delivered.
// A Flush started while another is running is a no-op returning 0, so a
// handler cannot drain the queue out from under the active Flush.
func (g *gate) Flush() (int, error) {
	if g.flushing {
		return 0, nil
	}
	g.flushing = true
	defer func() { g.flushing = false }()

	delivered := 0
	for !g.IsBlocked() && g.queue.len() > 0 {
		if err := g.deliverFront(); err != nil {
			return delivered, err
		}
		delivered++
	}

	if delivered > 0 {
		g.logger.Debug("queue flushed",
			logger.Component(g.component),
			logger.Count("delivered", delivered),
			logger.Count("pending", g.queue.len()))
	}
	return delivered, nil
}

// deliverFront dispatches the front event. It stays queued while its handlers
// run so events they raise line up behind it, and leaves the queue on every
// exit path.
func (g *gate) deliverFront() error {
	p := g.queue.front()
	defer g.queue.remove(p)
	return g.core.route(p)
}
