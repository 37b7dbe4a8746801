package postgres

import (
	"context"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/funnytourism/tourprice/internal/domain/agent"
	"github.com/funnytourism/tourprice/internal/logger"
	"github.com/funnytourism/tourprice/internal/postgres"
	"github.com/funnytourism/tourprice/internal/types"
)

type agentRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

// NewAgentRepository creates a new instance of agent repository
func NewAgentRepository(db *postgres.DB, logger *logger.Logger) agent.Repository {
	return &agentRepository{db: db, logger: logger}
}

func (r *agentRepository) Create(ctx context.Context, a *agent.Agent) error {
	query := `
		INSERT INTO agents (
			id, company_name, email, commission_rate, net_rate, is_active,
			status, created_at, updated_at, created_by, updated_by
		) VALUES (
			:id, :company_name, :email, :commission_rate, :net_rate, :is_active,
			:status, :created_at, :updated_at, :created_by, :updated_by
		)`

	r.logger.Debugw("creating agent", "agent_id", a.ID, "net_rate", a.NetRate)
	return insert(ctx, r.db, query, a, "agent")
}

func (r *agentRepository) Get(ctx context.Context, id string) (*agent.Agent, error) {
	sel := selectFrom(postgres.TableAgents)
	sel.Where(entsql.And(
		entsql.EQ("id", id),
		entsql.EQ("status", types.StatusPublished),
	))

	var a agent.Agent
	if err := getOne(ctx, r.db, &a, sel); err != nil {
		return nil, err
	}
	return &a, nil
}
