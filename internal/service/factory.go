package service

import (
	"github.com/funnytourism/tourprice/internal/cache"
	"github.com/funnytourism/tourprice/internal/config"
	"github.com/funnytourism/tourprice/internal/domain/agent"
	"github.com/funnytourism/tourprice/internal/domain/booking"
	"github.com/funnytourism/tourprice/internal/domain/commission"
	"github.com/funnytourism/tourprice/internal/domain/item"
	"github.com/funnytourism/tourprice/internal/logger"
	"github.com/funnytourism/tourprice/internal/postgres"
	"github.com/funnytourism/tourprice/internal/publisher"
	"github.com/funnytourism/tourprice/internal/sentry"
)

// ServiceParams holds common dependencies for services
type ServiceParams struct {
	Logger *logger.Logger
	Config *config.Configuration
	DB     postgres.Transactioner
	Cache  cache.Cache
	Sentry *sentry.Service

	// Repositories
	ItemRepo    item.Repository
	AgentRepo   agent.Repository
	BookingRepo booking.Repository
	LedgerRepo  commission.Repository

	// Publishers
	EventPublisher publisher.EventPublisher
}

// NewServiceParams creates common service dependencies
func NewServiceParams(
	logger *logger.Logger,
	config *config.Configuration,
	db *postgres.DB,
	cache cache.Cache,
	sentry *sentry.Service,
	itemRepo item.Repository,
	agentRepo agent.Repository,
	bookingRepo booking.Repository,
	ledgerRepo commission.Repository,
	eventPublisher publisher.EventPublisher,
) ServiceParams {
	return ServiceParams{
		Logger:         logger,
		Config:         config,
		DB:             db,
		Cache:          cache,
		Sentry:         sentry,
		ItemRepo:       itemRepo,
		AgentRepo:      agentRepo,
		BookingRepo:    bookingRepo,
		LedgerRepo:     ledgerRepo,
		EventPublisher: eventPublisher,
	}
}
