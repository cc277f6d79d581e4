package router

import (
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/nordpay/billing/internal/server/http/handlers"
	"github.com/nordpay/billing/internal/server/http/middleware"
)

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.BillingServiceFacade, trigger handlers.CycleTrigger, health handlers.HealthChecker, parser middleware.TokenParser, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.DecompressRequest())
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	healthHandler := handlers.NewHealthHandler(health)
	invoiceHandler := handlers.NewInvoiceHandler(facade)
	customerHandler := handlers.NewCustomerHandler(facade)
	billingHandler := handlers.NewBillingHandler(trigger)

	api := engine.Group("/api/v1")
	api.GET("/health", healthHandler.Check)

	protected := api.Group("")
	protected.Use(middleware.AuthRequired(parser))
	protected.GET("/invoices", invoiceHandler.List)
	protected.GET("/invoices/:id", invoiceHandler.Get)
	protected.POST("/invoices/charge", billingHandler.Charge)
	protected.GET("/customers", customerHandler.List)
	protected.GET("/customers/:id", customerHandler.Get)

	return engine
}
