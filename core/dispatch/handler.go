package dispatch

// Handler receives one event of type T. A non-nil error stops delivery of that
// event to the remaining handlers and is returned from Raise or Flush.
type Handler[T any] func(event T) error

// Predicate selects the events a conditional handler receives.
type Predicate[T any] func(event T) bool

// Func adapts a handler that cannot fail.
//
// Example:
//
//	dispatch.Subscribe(d, dispatch.Func(func(evt OrderPlaced) {
//	    fmt.Println("order", evt.ID)
//	}))
func Func[T any](fn func(T)) Handler[T] {
	if fn == nil {
		return nil
	}
	return func(event T) error {
		fn(event)
		return nil
	}
}

// Decorator wraps a Handler to add cross-cutting behaviour such as logging
// or panic recovery. Handlers are not isolated from each other by the
// dispatcher; a decorator is where callers opt into that.
//
// Example:
//
//	func timed[T any](next dispatch.Handler[T]) dispatch.Handler[T] {
//	    return func(event T) error {
//	        start := time.Now()
//	        err := next(event)
//	        metrics.Observe(time.Since(start))
//	        return err
//	    }
//	}
type Decorator[T any] func(Handler[T]) Handler[T]

// Decorate wraps h with decorators. The first decorator becomes the
// outermost wrapper and runs first. Nil decorators are skipped; a nil h
// stays nil so subscribing it still fails.
//
// Example:
//
//	dispatch.Subscribe(d, dispatch.Decorate(onOrder, timed[OrderPlaced], recovered[OrderPlaced]))
func Decorate[T any](h Handler[T], decorators ...Decorator[T]) Handler[T] {
	if h == nil {
		return nil
	}
	for i := len(decorators) - 1; i >= 0; i-- {
		if decorators[i] != nil {
			h = decorators[i](h)
		}
	}
	return h
}
