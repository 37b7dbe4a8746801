package testutil

import (
	"context"
	"time"

	"github.com/funnytourism/tourprice/internal/cache"
	"github.com/funnytourism/tourprice/internal/config"
	"github.com/funnytourism/tourprice/internal/logger"
	"github.com/funnytourism/tourprice/internal/types"
	"github.com/funnytourism/tourprice/internal/validator"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// Stores holds all the in-memory repositories for testing
type Stores struct {
	ItemRepo    *InMemoryItemStore
	AgentRepo   *InMemoryAgentStore
	BookingRepo *InMemoryBookingStore
	LedgerRepo  *InMemoryLedgerStore
}

// BaseServiceTestSuite provides common functionality for all service test suites
type BaseServiceTestSuite struct {
	suite.Suite
	ctx       context.Context
	stores    Stores
	publisher *InMemoryPublisher
	db        *NoopTransactioner
	cache     cache.Cache
	logger    *logger.Logger
	logs      *observer.ObservedLogs
	config    *config.Configuration
	now       time.Time
}

// SetupSuite is called once before running the tests in the suite
func (s *BaseServiceTestSuite) SetupSuite() {
	validator.NewValidator()

	s.config = config.GetDefaultConfig()
	s.config.Logging.Level = types.LogLevelInfo
}

// SetupTest is called before each test
func (s *BaseServiceTestSuite) SetupTest() {
	s.ctx = SetupContext()
	s.now = time.Now().UTC()

	core, logs := observer.New(zap.DebugLevel)
	s.logger = &logger.Logger{SugaredLogger: zap.New(core).Sugar()}
	s.logs = logs

	s.stores = Stores{
		ItemRepo:    NewInMemoryItemStore(),
		AgentRepo:   NewInMemoryAgentStore(),
		BookingRepo: NewInMemoryBookingStore(),
		LedgerRepo:  NewInMemoryLedgerStore(),
	}
	s.publisher = NewInMemoryPublisher()
	s.db = &NoopTransactioner{}
	s.cache = cache.NewInMemoryCache(s.config, s.logger)
}

// TearDownTest is called after each test
func (s *BaseServiceTestSuite) TearDownTest() {
	s.stores.ItemRepo.Clear()
	s.stores.AgentRepo.Clear()
	s.stores.BookingRepo.Clear()
	s.stores.LedgerRepo.Clear()
	s.publisher.Clear()
	s.cache.Flush(s.ctx)
}

// GetContext returns the test context
func (s *BaseServiceTestSuite) GetContext() context.Context {
	return s.ctx
}

// GetConfig returns the test configuration
func (s *BaseServiceTestSuite) GetConfig() *config.Configuration {
	return s.config
}

// GetLogger returns the test logger
func (s *BaseServiceTestSuite) GetLogger() *logger.Logger {
	return s.logger
}

// GetLogs returns the entries logged during the current test
func (s *BaseServiceTestSuite) GetLogs() *observer.ObservedLogs {
	return s.logs
}

// GetStores returns all test repositories
func (s *BaseServiceTestSuite) GetStores() Stores {
	return s.stores
}

// GetPublisher returns the test event publisher
func (s *BaseServiceTestSuite) GetPublisher() *InMemoryPublisher {
	return s.publisher
}

// GetDB returns the test transactioner
func (s *BaseServiceTestSuite) GetDB() *NoopTransactioner {
	return s.db
}

// GetCache returns the test cache
func (s *BaseServiceTestSuite) GetCache() cache.Cache {
	return s.cache
}

// GetNow returns the current test time
func (s *BaseServiceTestSuite) GetNow() time.Time {
	return s.now
}
