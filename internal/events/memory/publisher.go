package memory

import (
	"sync"

	"leaveledger/internal/interfaces"
)

// Published is one recorded Publish call.
type Published struct {
	Topic string
	Event any
}

// Publisher records events in memory. It backs broker-less runs and tests.
type Publisher struct {
	mu     sync.Mutex
	events []Published
}

func NewPublisher() *Publisher {
	return &Publisher{}
}

func (p *Publisher) Publish(topic string, event any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, Published{Topic: topic, Event: event})
	return nil
}

// Events returns a copy of everything published so far.
func (p *Publisher) Events() []Published {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Published, len(p.events))
	copy(out, p.events)
	return out
}

var _ interfaces.EventPublisher = (*Publisher)(nil)
