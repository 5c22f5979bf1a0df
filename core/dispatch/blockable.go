package dispatch

import "errors"

// Blockable delivers raised events immediately unless it is blocked or
// earlier events are still pending; then the event joins the back of the
// queue. Unblocking to zero flushes the queue, so events are always handled
// in the order they were raised.
//
// A backlog can exist while unblocked when a handler raises during a Flush:
// the new event waits behind the one being handled.
// A Blockable is not safe for concurrent use.
//
// Example:
//
//	b := dispatch.NewBlockable()
//	dispatch.Subscribe(b, onPriceChanged)
//
//	err := dispatch.WithBlock(b, func() error {
//	    for _, p := range batch {
//	        if err := dispatch.Raise(b, PriceChanged{SKU: p.SKU}); err != nil {
//	            return err
//	        }
//	    }
//	    return nil
//	}) // handlers run here, after the batch is complete
type Blockable struct {
	gate
}

// NewBlockable creates an unblocked Blockable.
func NewBlockable(opts ...Option) *Blockable {
	return &Blockable{gate: newGate("blockable", opts)}
}

func (b *Blockable) route(p *pendingEvent) error {
	// Drain any backlog first so the new event does not overtake it.
	_, flushErr := b.Flush()
	if b.IsBlocked() || b.queue.len() > 0 {
		b.enqueue(p)
		return flushErr
	}
	return errors.Join(flushErr, b.core.route(p))
}

// Unblock decrements the block counter and, once it reaches zero, flushes the
// queue. It returns the flush's delivered count and first handler error.
// It panics with ErrUnbalancedUnblock if the Blockable is not blocked.
func (b *Blockable) Unblock() (int, error) {
	b.release()
	if b.IsBlocked() {
		return 0, nil
	}
	return b.Flush()
}
