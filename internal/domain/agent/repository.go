package agent

import "context"

// Repository defines the interface for agent persistence
type Repository interface {
	Create(ctx context.Context, agent *Agent) error
	Get(ctx context.Context, id string) (*Agent, error)
}
