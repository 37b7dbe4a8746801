package testutil

import (
	"context"
	"sync"

	ierr "github.com/funnytourism/tourprice/internal/errors"
	"github.com/funnytourism/tourprice/internal/publisher"
	"github.com/samber/lo"
)

// InMemoryPublisher records published ledger events
type InMemoryPublisher struct {
	mu     sync.RWMutex
	events []*publisher.LedgerEvent
	// Fail makes every Publish return an error
	Fail bool
}

var _ publisher.EventPublisher = (*InMemoryPublisher)(nil)

func NewInMemoryPublisher() *InMemoryPublisher {
	return &InMemoryPublisher{events: make([]*publisher.LedgerEvent, 0)}
}

func (p *InMemoryPublisher) Publish(ctx context.Context, event *publisher.LedgerEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.Fail {
		return ierr.NewError("publisher unavailable").Mark(ierr.ErrSystem)
	}
	p.events = append(p.events, event)
	return nil
}

// Events returns the published events with the given name, or all when name is empty
func (p *InMemoryPublisher) Events(name string) []*publisher.LedgerEvent {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return lo.Filter(p.events, func(e *publisher.LedgerEvent, _ int) bool {
		return name == "" || e.EventName == name
	})
}

func (p *InMemoryPublisher) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = make([]*publisher.LedgerEvent, 0)
	p.Fail = false
}
