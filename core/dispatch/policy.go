package dispatch

import (
	"fmt"
	"strings"
)

// Policy decides whether a raised event is delivered now or held in the pending queue.
type Policy uint8

const (
	// Deliver dispatches the event immediately.
	Deliver Policy = iota
	// Queue appends the event to the pending queue until a Flush permits delivery.
	Queue
)

// String returns the lower-case policy name.
func (p Policy) String() string {
	switch p {
	case Deliver:
		return "deliver"
	case Queue:
		return "queue"
	default:
		return fmt.Sprintf("policy(%d)", uint8(p))
	}
}

// ParsePolicy parses "deliver" or "queue", case-insensitively.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "deliver":
		return Deliver, nil
	case "queue":
		return Queue, nil
	default:
		return Deliver, fmt.Errorf("%w: %q", ErrInvalidPolicy, s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (p Policy) MarshalText() ([]byte, error) {
	if p != Deliver && p != Queue {
		return nil, fmt.Errorf("%w: %d", ErrInvalidPolicy, uint8(p))
	}
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler, so a Policy can be read
// straight from environment configuration.
func (p *Policy) UnmarshalText(text []byte) error {
	parsed, err := ParsePolicy(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// restrict combines two policies; Queue dominates. Values outside the
// defined range count as Queue, so a corrupt policy holds events rather
// than releasing them.
func (p Policy) restrict(other Policy) Policy {
	if p != Deliver || other != Deliver {
		return Queue
	}
	return Deliver
}
