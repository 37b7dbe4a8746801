package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/funnytourism/tourprice/internal/api"
	v1 "github.com/funnytourism/tourprice/internal/api/v1"
	"github.com/funnytourism/tourprice/internal/cache"
	"github.com/funnytourism/tourprice/internal/config"
	"github.com/funnytourism/tourprice/internal/logger"
	"github.com/funnytourism/tourprice/internal/postgres"
	"github.com/funnytourism/tourprice/internal/publisher"
	"github.com/funnytourism/tourprice/internal/repository"
	"github.com/funnytourism/tourprice/internal/sentry"
	"github.com/funnytourism/tourprice/internal/service"
	"github.com/funnytourism/tourprice/internal/types"
	"github.com/funnytourism/tourprice/internal/validator"
	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
)

// @title Tourprice API
// @version 1.0
// @description Catalog pricing, bookings and agent commission ledgers
// @BasePath /v1
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Enter the token in the format **Bearer &lt;token&gt;**

func init() {
	// Set UTC timezone for the entire application
	time.Local = time.UTC
}

func main() {
	var opts []fx.Option

	// Core dependencies
	opts = append(opts,
		fx.Provide(
			// Validator
			validator.NewValidator,

			// Config
			config.NewConfig,

			// Logger
			logger.NewLogger,

			// Monitoring
			sentry.NewSentryService,

			// Cache
			cache.NewInMemoryCache,

			// Postgres
			postgres.NewDB,

			// Event Publisher
			publisher.NewEventPublisher,

			// Repositories
			repository.NewItemRepository,
			repository.NewAgentRepository,
			repository.NewBookingRepository,
			repository.NewLedgerRepository,
		),
	)

	// Service layer
	opts = append(opts,
		fx.Provide(
			service.NewServiceParams,
			service.NewPricingService,
			service.NewBookingService,
			service.NewCommissionService,
		),
	)

	// API
	opts = append(opts,
		fx.Provide(
			provideHandlers,
			provideRouter,
		),
		fx.Invoke(
			sentry.RegisterHooks,
			closeDB,
			startAPIServer,
		),
	)

	app := fx.New(opts...)
	app.Run()
}

func provideHandlers(
	logger *logger.Logger,
	pricingService service.PricingService,
	bookingService service.BookingService,
	commissionService service.CommissionService,
) api.Handlers {
	return api.Handlers{
		Health:     v1.NewHealthHandler(),
		Pricing:    v1.NewPricingHandler(pricingService, logger),
		Booking:    v1.NewBookingHandler(bookingService, commissionService, logger),
		Commission: v1.NewCommissionHandler(commissionService, logger),
	}
}

func provideRouter(handlers api.Handlers, cfg *config.Configuration, logger *logger.Logger) *gin.Engine {
	if cfg.Deployment.Environment != types.EnvLocal {
		gin.SetMode(gin.ReleaseMode)
	}
	return api.NewRouter(handlers, cfg, logger)
}

func closeDB(lc fx.Lifecycle, db *postgres.DB) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			db.Close()
			return nil
		},
	})
}

func startAPIServer(
	lc fx.Lifecycle,
	r *gin.Engine,
	cfg *config.Configuration,
	log *logger.Logger,
) {
	srv := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infow("starting API server", "address", cfg.Server.Address)
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("shutting down server...")
			ctx, cancel := context.WithTimeout(ctx, cfg.Server.ShutdownTimeout)
			defer cancel()
			return srv.Shutdown(ctx)
		},
	})
}
