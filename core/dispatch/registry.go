package dispatch

// entry is one registration. An inert entry is never invoked again and is
// physically removed once no iteration over its list is active.
type entry[T any] struct {
	handler Handler[T]
	when    Predicate[T]
	inert   bool
}

// handlerList keeps registrations in subscription order and tolerates
// removal while it is being iterated, including from nested raises.
type handlerList[T any] struct {
	entries []*entry[T]
	active  int
	dirty   bool
}

func (l *handlerList[T]) add(e *entry[T]) {
	l.entries = append(l.entries, e)
}

func (l *handlerList[T]) remove(e *entry[T]) {
	if e.inert {
		return
	}
	e.inert = true
	if l.active > 0 {
		l.dirty = true
		return
	}
	l.compact()
}

func (l *handlerList[T]) compact() {
	live := l.entries[:0]
	for _, e := range l.entries {
		if !e.inert {
			live = append(live, e)
		}
	}
	clear(l.entries[len(live):])
	l.entries = live
	l.dirty = false
}

// raise invokes every live entry present when the call started. The predicate
// runs first; the entry is checked again afterwards since the predicate may
// release it.
func (l *handlerList[T]) raise(event T) error {
	l.active++
	defer l.leave()

	n := len(l.entries)
	for i := 0; i < n; i++ {
		e := l.entries[i]
		if e.inert {
			continue
		}
		if e.when != nil && (!e.when(event) || e.inert) {
			continue
		}
		if err := e.handler(event); err != nil {
			return err
		}
	}
	return nil
}

func (l *handlerList[T]) leave() {
	l.active--
	if l.active == 0 && l.dirty {
		l.compact()
	}
}

func (l *handlerList[T]) len() int {
	n := 0
	for _, e := range l.entries {
		if !e.inert {
			n++
		}
	}
	return n
}

// typed recovers the event from its erased form. A nil interface value maps
// to the zero value of T.
func typed[T any](event any) T {
	v, _ := event.(T)
	return v
}

// generalRegistry delivers every event of its type.
type generalRegistry[T any] struct {
	list handlerList[T]
}

func (r *generalRegistry[T]) add(h Handler[T]) func() {
	e := &entry[T]{handler: h}
	r.list.add(e)
	return func() { r.list.remove(e) }
}

func (r *generalRegistry[T]) raise(event any) error {
	return r.list.raise(typed[T](event))
}

func (r *generalRegistry[T]) len() int {
	return r.list.len()
}

// conditionalRegistry delivers an event to a handler only when its predicate accepts it.
type conditionalRegistry[T any] struct {
	list handlerList[T]
}

func (r *conditionalRegistry[T]) add(when Predicate[T], h Handler[T]) func() {
	e := &entry[T]{handler: h, when: when}
	r.list.add(e)
	return func() { r.list.remove(e) }
}

func (r *conditionalRegistry[T]) raise(event any) error {
	return r.list.raise(typed[T](event))
}

func (r *conditionalRegistry[T]) len() int {
	return r.list.len()
}

// valueRegistry delivers an event to the handlers registered for an equal value.
// Matching is by == alone; an interface-typed T holding an uncomparable dynamic
// value panics like any map lookup would.
//
// A value that is not equal to itself, such as a NaN float, can never match a
// raise and is not usable as a map key; its registrations live in unmatched.
type valueRegistry[T comparable] struct {
	lists     map[T]*handlerList[T]
	unmatched handlerList[T]
}

func newValueRegistry[T comparable]() *valueRegistry[T] {
	return &valueRegistry[T]{lists: make(map[T]*handlerList[T])}
}

func (r *valueRegistry[T]) add(value T, h Handler[T]) func() {
	e := &entry[T]{handler: h}
	if value != value {
		r.unmatched.add(e)
		return func() { r.unmatched.remove(e) }
	}

	l, ok := r.lists[value]
	if !ok {
		l = &handlerList[T]{}
		r.lists[value] = l
	}
	l.add(e)
	return func() {
		l.remove(e)
		r.prune(value, l)
	}
}

func (r *valueRegistry[T]) raise(event any) error {
	value := typed[T](event)
	l, ok := r.lists[value]
	if !ok {
		return nil
	}
	defer r.prune(value, l)
	return l.raise(value)
}

// prune drops the list for value once it is empty and idle.
func (r *valueRegistry[T]) prune(value T, l *handlerList[T]) {
	if l.active > 0 || len(l.entries) > 0 {
		return
	}
	if r.lists[value] == l {
		delete(r.lists, value)
	}
}

func (r *valueRegistry[T]) len() int {
	n := r.unmatched.len()
	for _, l := range r.lists {
		n += l.len()
	}
	return n
}
