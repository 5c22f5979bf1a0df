package dispatch

import "errors"

// Blocker is anything with nested block/unblock semantics. *Blockable and
// *Piped implement it.
type Blocker interface {
	Block()
	Unblock() (int, error)
}

// ScopedBlock holds one Block on a Blocker until Release. However many times
// Release is called, the Blocker sees exactly one matching Unblock.
//
// Example:
//
//	guard := dispatch.NewScopedBlock(b)
//	defer guard.Release()
type ScopedBlock struct {
	target Blocker
	held   bool
}

// NewScopedBlock blocks b and returns the guard that will unblock it.
func NewScopedBlock(b Blocker) *ScopedBlock {
	b.Block()
	return &ScopedBlock{target: b, held: true}
}

// Held reports whether the guard still holds its block.
func (g *ScopedBlock) Held() bool {
	return g.held
}

// Release unblocks the target on the first call and returns what Unblock
// returned. Later calls return 0, nil.
func (g *ScopedBlock) Release() (int, error) {
	if !g.held {
		return 0, nil
	}
	g.held = false
	return g.target.Unblock()
}

// WithBlock runs fn with b blocked and unblocks it on every exit path,
// including a panic in fn. Errors from fn and from the unblock are joined.
func WithBlock(b Blocker, fn func() error) (err error) {
	guard := NewScopedBlock(b)
	defer func() {
		_, unblockErr := guard.Release()
		err = errors.Join(err, unblockErr)
	}()
	return fn()
}

// ScopedFrame holds one Scheduler frame until Release.
//
// Example:
//
//	frame := dispatch.NewScopedFrame(sched)
//	defer frame.Release()
//	dispatch.SetPolicy[Reindex](sched, dispatch.Queue)
type ScopedFrame struct {
	sched *Scheduler
	frame *frame
	held  bool
}

// NewScopedFrame pushes a frame onto s and returns the guard that pops it.
func NewScopedFrame(s *Scheduler) *ScopedFrame {
	s.Push()
	return &ScopedFrame{sched: s, frame: s.top(), held: true}
}

// Held reports whether the guard's frame is still on the stack.
func (g *ScopedFrame) Held() bool {
	return g.held
}

// Release pops the guarded frame on the first call; later calls do nothing.
// It panics with ErrFrameOrder if frames pushed after it are still in place.
func (g *ScopedFrame) Release() {
	if !g.held {
		return
	}
	if g.sched.top() != g.frame {
		panic(ErrFrameOrder)
	}
	g.held = false
	g.sched.Pop()
}

// WithFrame runs fn inside a fresh frame of s and pops it on every exit path.
// fn typically sets policies on the new frame before raising.
func WithFrame(s *Scheduler, fn func() error) error {
	guard := NewScopedFrame(s)
	defer guard.Release()
	return fn()
}
