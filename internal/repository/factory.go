package repository

import (
	"github.com/funnytourism/tourprice/internal/domain/agent"
	"github.com/funnytourism/tourprice/internal/domain/booking"
	"github.com/funnytourism/tourprice/internal/domain/commission"
	"github.com/funnytourism/tourprice/internal/domain/item"
	"github.com/funnytourism/tourprice/internal/logger"
	"github.com/funnytourism/tourprice/internal/postgres"
	postgresRepo "github.com/funnytourism/tourprice/internal/repository/postgres"
)

func NewItemRepository(db *postgres.DB, logger *logger.Logger) item.Repository {
	return postgresRepo.NewItemRepository(db, logger)
}

func NewAgentRepository(db *postgres.DB, logger *logger.Logger) agent.Repository {
	return postgresRepo.NewAgentRepository(db, logger)
}

func NewBookingRepository(db *postgres.DB, logger *logger.Logger) booking.Repository {
	return postgresRepo.NewBookingRepository(db, logger)
}

func NewLedgerRepository(db *postgres.DB, logger *logger.Logger) commission.Repository {
	return postgresRepo.NewLedgerRepository(db, logger)
}
