package testutil

import (
	"context"

	"github.com/funnytourism/tourprice/internal/domain/agent"
)

// InMemoryAgentStore implements agent.Repository
type InMemoryAgentStore struct {
	*InMemoryStore[*agent.Agent]
}

func NewInMemoryAgentStore() *InMemoryAgentStore {
	return &InMemoryAgentStore{
		InMemoryStore: NewInMemoryStore[*agent.Agent](),
	}
}

func (s *InMemoryAgentStore) Create(ctx context.Context, a *agent.Agent) error {
	c := *a
	return s.InMemoryStore.Create(ctx, a.ID, &c)
}

func (s *InMemoryAgentStore) Get(ctx context.Context, id string) (*agent.Agent, error) {
	a, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	c := *a
	return &c, nil
}
