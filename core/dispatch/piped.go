package dispatch

// Piped queues every raised event. Handlers run only when Flush is called,
// in the order the events were raised. Blocking stops a Flush at the next
// event boundary; unblocking never flushes by itself.
// A Piped is not safe for concurrent use.
//
// Example:
//
//	p := dispatch.NewPiped()
//	dispatch.Subscribe(p, onFrame)
//
//	for frame := range frames {
//	    _ = dispatch.Raise(p, frame) // queued
//	}
//	n, err := p.Flush() // handlers run here
type Piped struct {
	gate
}

// NewPiped creates an unblocked Piped.
func NewPiped(opts ...Option) *Piped {
	return &Piped{gate: newGate("piped", opts)}
}

func (p *Piped) route(ev *pendingEvent) error {
	p.enqueue(ev)
	return nil
}

// Unblock decrements the block counter. It never flushes and always returns 0, nil;
// the results exist so Piped satisfies Blocker.
// It panics with ErrUnbalancedUnblock if the Piped is not blocked.
func (p *Piped) Unblock() (int, error) {
	p.release()
	return 0, nil
}
