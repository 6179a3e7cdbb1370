// Package concurrency models two classic synchronization problems as
// deterministic state machines: the bounded-buffer producer/consumer and the
// dining philosophers.
package concurrency

import (
	"errors"
	"fmt"

	"github.com/sarchlab/oslab/sim"
)

// DefaultBufferCapacity is the number of slots in the shared buffer.
const DefaultBufferCapacity = 5

// LogSize is the number of recent events kept.
const LogSize = 6

var (
	// ErrBufferFull is returned when a producer finds no free slot.
	ErrBufferFull = errors.New("buffer full")

	// ErrBufferEmpty is returned when a consumer finds nothing to take.
	ErrBufferEmpty = errors.New("buffer empty")
)

// Rand is the source of randomness for the auto-pilot steps. *rand.Rand from
// math/rand/v2 satisfies it.
type Rand interface {
	Float64() float64
	IntN(n int) int
}

// EventKind classifies log entries.
type EventKind string

// Event kinds.
const (
	EventSystem   EventKind = "system"
	EventProducer EventKind = "producer"
	EventConsumer EventKind = "consumer"
	EventError    EventKind = "error"
)

// An Event is one line of the activity log.
type Event struct {
	Kind    EventKind `json:"kind"`
	Message string    `json:"message"`
}

// ProducerConsumer is a bounded buffer shared by one producer and one
// consumer.
type ProducerConsumer struct {
	Buffer *sim.Buffer[int]
	Events []Event
}

// NewProducerConsumer creates an empty buffer with the given capacity.
func NewProducerConsumer(capacity int) *ProducerConsumer {
	pc := &ProducerConsumer{
		Buffer: sim.NewBuffer[int]("ProducerConsumer.Buffer", capacity),
	}
	pc.record(EventSystem, "System: concurrency engine standby")

	return pc
}

// Produce places item at the tail of the buffer.
func (pc *ProducerConsumer) Produce(item int) error {
	if !pc.Buffer.Push(item) {
		pc.record(EventError, "Producer: buffer full, waiting on empty slot")
		return fmt.Errorf("%w: %d of %d slots used",
			ErrBufferFull, pc.Buffer.Size(), pc.Buffer.Capacity())
	}

	pc.record(EventProducer, fmt.Sprintf("Producer: produced item #%d", item))

	return nil
}

// Consume removes the item at the head of the buffer.
func (pc *ProducerConsumer) Consume() (int, error) {
	item, ok := pc.Buffer.Pop()
	if !ok {
		pc.record(EventError, "Consumer: buffer empty, waiting on full slot")
		return 0, ErrBufferEmpty
	}

	pc.record(EventConsumer, fmt.Sprintf("Consumer: consumed item #%d", item))

	return item, nil
}

// Step lets either the producer or the consumer act, with equal
// probability. A produced item is drawn from [0, 99). A blocked actor is
// not an error for the auto-pilot; it shows up in the log instead.
func (pc *ProducerConsumer) Step(rng Rand) {
	if rng.Float64() > 0.5 {
		_ = pc.Produce(rng.IntN(99))
		return
	}

	_, _ = pc.Consume()
}

// Items returns the buffered items, oldest first.
func (pc *ProducerConsumer) Items() []int {
	return pc.Buffer.Elements()
}

// Log returns the recent events, newest first.
func (pc *ProducerConsumer) Log() []Event {
	out := make([]Event, len(pc.Events))
	copy(out, pc.Events)

	return out
}

func (pc *ProducerConsumer) record(kind EventKind, msg string) {
	pc.Events = append([]Event{{Kind: kind, Message: msg}}, pc.Events...)
	if len(pc.Events) > LogSize {
		pc.Events = pc.Events[:LogSize]
	}
}
