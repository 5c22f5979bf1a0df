package dispatch

import (
	"reflect"
	"time"

	"github.com/google/uuid"
)

// pendingEvent is a raised event captured together with its type.
// ID and QueuedAt are only assigned when the event actually enters a queue.
type pendingEvent struct {
	id       string
	typ      reflect.Type
	value    any
	queuedAt time.Time
	queued   bool
	pos      int
}

// PendingEvent is a read-only view of an event waiting in a pending queue.
type PendingEvent struct {
	ID       string
	Type     reflect.Type
	Value    any
	QueuedAt time.Time
}

// compactMin is the number of vacated slots tolerated before the queue
// considers reclaiming them.
const compactMin = 32

// queue is a single FIFO shared by every event type. Entries leave it only
// through delivery; there is no expiry and no drop policy.
//
// Removal vacates the entry's slot in place, so taking the front and taking
// an entry from the middle both cost O(1). Vacated slots are reclaimed once
// they outnumber the live entries.
type queue struct {
	items []*pendingEvent // nil marks a vacated slot
	head  int             // first slot that may be live
	live  int
}

func newQueue(capacity int) queue {
	return queue{items: make([]*pendingEvent, 0, capacity)}
}

func (q *queue) push(p *pendingEvent) {
	p.id = uuid.NewString()
	p.queuedAt = time.Now()
	p.queued = true
	p.pos = len(q.items)
	q.items = append(q.items, p)
	q.live++
}

func (q *queue) len() int {
	return q.live
}

func (q *queue) front() *pendingEvent {
	if q.live == 0 {
		return nil
	}
	return q.items[q.head]
}

// remove takes p out of the queue, preserving the order of the rest.
// It reports whether p was queued.
func (q *queue) remove(p *pendingEvent) bool {
	if p == nil || !p.queued {
		return false
	}
	q.items[p.pos] = nil
	p.queued = false
	q.live--
	for q.head < len(q.items) && q.items[q.head] == nil {
		q.head++
	}
	q.reclaim()
	return true
}

// reclaim packs the live entries to the start of the slice once vacated
// slots dominate, keeping each entry's position current.
func (q *queue) reclaim() {
	if q.live == 0 {
		clear(q.items)
		q.items = q.items[:0]
		q.head = 0
		return
	}
	vacated := len(q.items) - q.live
	if vacated < compactMin || vacated < q.live {
		return
	}
	n := 0
	for _, p := range q.items[q.head:] {
		if p == nil {
			continue
		}
		p.pos = n
		q.items[n] = p
		n++
	}
	clear(q.items[n:])
	q.items = q.items[:n]
	q.head = 0
}

// snapshot copies the current entries so callers can walk them while the
// queue changes underneath.
func (q *queue) snapshot() []*pendingEvent {
	out := make([]*pendingEvent, 0, q.live)
	for _, p := range q.items[q.head:] {
		if p != nil {
			out = append(out, p)
		}
	}
	return out
}

func (q *queue) view() []PendingEvent {
	out := make([]PendingEvent, 0, q.live)
	for _, p := range q.items[q.head:] {
		if p == nil {
			continue
		}
		out = append(out, PendingEvent{
			ID:       p.id,
			Type:     p.typ,
			Value:    p.value,
			QueuedAt: p.queuedAt,
		})
	}
	return out
}
