package dispatch

import (
	"log/slog"
	"reflect"

	"github.com/dmitrymomot/eventflow/core/logger"
)

// frame is one level of the scheduling stack.
type frame struct {
	def       Policy
	overrides map[reflect.Type]Policy
}

func (f *frame) policyFor(typ reflect.Type) Policy {
	if p, ok := f.overrides[typ]; ok {
		return p
	}
	return f.def
}

// Scheduler decides per event type whether a raised event is delivered
// immediately or held in a pending queue.
//
// Policies live on a stack of frames. Each frame has a default policy and
// per-type overrides; a type's policy in a frame is its override if present,
// else the frame default. The effective policy folds every frame, bottom to
// top, and Queue dominates: an event is delivered only if no active frame
// queues its type. The root frame is always present and defaults to Deliver.
//
// Queued events wait in one FIFO across all types and are delivered by Flush.
// A Scheduler is not safe for concurrent use.
//
// Example:
//
//	sched := dispatch.NewScheduler()
//	dispatch.Subscribe(sched, onReindex)
//
//	sched.Push()
//	dispatch.SetPolicy[Reindex](sched, dispatch.Queue)
//	_ = dispatch.Raise(sched, Reindex{ID: 1}) // held
//	sched.Pop()
//	n, err := sched.Flush() // delivers Reindex{ID: 1}
type Scheduler struct {
	core   *Dispatcher
	frames []*frame
	queue  queue
	logger *slog.Logger
}

// NewScheduler creates a scheduler with only the root frame.
func NewScheduler(opts ...Option) *Scheduler {
	o := buildOptions(opts)
	return &Scheduler{
		core:   o.coreFor(),
		frames: []*frame{{def: o.rootPolicy}},
		queue:  newQueue(o.queueCapacity),
		logger: o.logger,
	}
}

func (s *Scheduler) dispatcher() *Dispatcher {
	return s.core
}

// Dispatcher returns the dispatcher events are delivered through.
func (s *Scheduler) Dispatcher() *Dispatcher {
	return s.core
}

func (s *Scheduler) route(p *pendingEvent) error {
	if s.EffectivePolicy(p.typ) == Deliver {
		return s.core.route(p)
	}
	s.queue.push(p)
	s.logger.Debug("event queued",
		logger.Component("scheduler"),
		logger.EventType(p.typ),
		logger.EventID(p.id),
		logger.Count("pending", s.queue.len()))
	return nil
}

// Push adds a frame with a Deliver default and no overrides.
func (s *Scheduler) Push() {
	s.frames = append(s.frames, &frame{def: Deliver})
	s.logger.Debug("frame pushed", logger.Component("scheduler"), logger.Depth(len(s.frames)))
}

// Pop removes the top frame. It panics with ErrUnbalancedPop when only the
// root frame is left.
func (s *Scheduler) Pop() {
	if len(s.frames) <= 1 {
		panic(ErrUnbalancedPop)
	}
	top := len(s.frames) - 1
	s.frames[top] = nil
	s.frames = s.frames[:top]
	s.logger.Debug("frame popped", logger.Component("scheduler"), logger.Depth(len(s.frames)))
}

// Depth returns the number of frames, root included.
func (s *Scheduler) Depth() int {
	return len(s.frames)
}

func (s *Scheduler) top() *frame {
	return s.frames[len(s.frames)-1]
}

// SetDefault sets the default policy of the top frame.
func (s *Scheduler) SetDefault(p Policy) {
	s.top().def = p
	s.logger.Debug("frame default set",
		logger.Component("scheduler"),
		logger.Depth(len(s.frames)),
		logger.Policy(p))
}

// SetOverride sets the policy of typ in the top frame.
func (s *Scheduler) SetOverride(typ reflect.Type, p Policy) {
	f := s.top()
	if f.overrides == nil {
		f.overrides = make(map[reflect.Type]Policy)
	}
	f.overrides[typ] = p
	s.logger.Debug("frame override set",
		logger.Component("scheduler"),
		logger.Depth(len(s.frames)),
		logger.EventType(typ),
		logger.Policy(p))
}

// ClearOverride removes the override for typ from the top frame.
func (s *Scheduler) ClearOverride(typ reflect.Type) {
	delete(s.top().overrides, typ)
}

// EffectivePolicy folds the policy of typ over every frame; Queue dominates.
// The result is always Deliver or Queue; an undefined Policy value counts as Queue.
func (s *Scheduler) EffectivePolicy(typ reflect.Type) Policy {
	p := Deliver
	for _, f := range s.frames {
		p = p.restrict(f.policyFor(typ))
	}
	return p
}

// Flush makes one forward pass over the events pending when it starts.
// Each event's policy is evaluated now: deliverable events are removed and
// dispatched, the rest stay in place. Events queued during the pass are left
// for a later Flush. Returns the number of events delivered; the first
// handler error ends the pass.
func (s *Scheduler) Flush() (int, error) {
	if s.queue.len() == 0 {
		return 0, nil
	}

	delivered := 0
	for _, p := range s.queue.snapshot() {
		// A nested Flush from a handler may have delivered it already.
		if !p.queued {
			continue
		}
		if s.EffectivePolicy(p.typ) == Queue {
			continue
		}
		s.queue.remove(p)
		if err := s.core.route(p); err != nil {
			s.logger.Debug("flush interrupted",
				logger.Component("scheduler"),
				logger.EventID(p.id),
				logger.Count("delivered", delivered),
				logger.Error(err))
			return delivered, err
		}
		delivered++
	}

	s.logger.Debug("queue flushed",
		logger.Component("scheduler"),
		logger.Count("delivered", delivered),
		logger.Count("pending", s.queue.len()))
	return delivered, nil
}

// Len returns the number of pending events.
func (s *Scheduler) Len() int {
	return s.queue.len()
}

// Pending returns the pending events in queue order.
func (s *Scheduler) Pending() []PendingEvent {
	return s.queue.view()
}

// SetPolicy overrides the policy of T in the top frame of s.
func SetPolicy[T any](s *Scheduler, p Policy) {
	s.SetOverride(reflect.TypeFor[T](), p)
}

// PolicyOf returns the effective policy of T.
func PolicyOf[T any](s *Scheduler) Policy {
	return s.EffectivePolicy(reflect.TypeFor[T]())
}
