package api

import (
	v1 "github.com/funnytourism/tourprice/internal/api/v1"
	"github.com/funnytourism/tourprice/internal/config"
	"github.com/funnytourism/tourprice/internal/logger"
	"github.com/funnytourism/tourprice/internal/rest/middleware"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type Handlers struct {
	Health     *v1.HealthHandler
	Pricing    *v1.PricingHandler
	Booking    *v1.BookingHandler
	Commission *v1.CommissionHandler
}

func NewRouter(handlers Handlers, cfg *config.Configuration, logger *logger.Logger) *gin.Engine {
	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.SentryMiddleware(cfg),
		middleware.RequestIDMiddleware,
		middleware.LoggingMiddleware(logger),
		middleware.CORSMiddleware,
		middleware.RateLimitMiddleware(cfg),
		middleware.ErrorHandler(logger),
	)

	router.GET("/health", handlers.Health.Health)
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	public := router.Group("/v1", middleware.GuestAuthenticateMiddleware)
	private := router.Group("/v1", middleware.AuthenticateMiddleware(cfg, logger))

	// Catalog pricing is public
	items := public.Group("/items")
	{
		items.GET("/from-prices", handlers.Pricing.ListFromPrices)
		items.GET("/:id/from-price", handlers.Pricing.GetFromPrice)
		items.GET("/:id/tiers", handlers.Pricing.GetTierTable)
		items.POST("/:id/quote", handlers.Pricing.Quote)
	}

	// Agent quotes need the agent identity from the token
	private.POST("/agent/items/:id/quote", handlers.Pricing.Quote)

	bookings := private.Group("/bookings")
	{
		bookings.POST("", handlers.Booking.CreateBooking)
		bookings.GET("", handlers.Booking.ListBookings)
		bookings.GET("/:id", handlers.Booking.GetBooking)
		bookings.GET("/:id/ledger", handlers.Booking.GetBookingLedger)
	}

	ledgers := private.Group("/ledgers")
	{
		ledgers.POST("", handlers.Commission.CreateLedger)
		ledgers.GET("", handlers.Commission.ListLedgers)
		ledgers.GET("/:id", handlers.Commission.GetLedger)
		ledgers.POST("/:id/payments", handlers.Commission.RecordPayment)
		ledgers.GET("/:id/payments", handlers.Commission.ListPayments)
	}

	return router
}
