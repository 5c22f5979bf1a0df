package demo

// Greeting is a struct event delivered to general handlers.
type Greeting struct {
	From string
	Text string
}

// Scheduler demo events. Indexed and Cached are held by the demo frame,
// Notified is always delivered immediately.
type (
	Indexed  int
	Cached   int
	Notified int
)

// PriceChanged is raised in batches through the Blockable.
type PriceChanged struct {
	SKU   string
	Price float64
}

// Frame is produced by a simulation step and consumed through the Piped.
type Frame struct {
	Seq int
}
