package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"lekhak-backend-go/internal/config"
	"lekhak-backend-go/internal/core"
)

// SetupRoutes configures all the application routes with their handlers.
// Global middleware (logging, recovery, CORS) is applied to the router in
// main.go before this is called. waitlistService and paymentService may be
// nil when their integrations are not configured; their routes are then not
// registered and answer 404.
func SetupRoutes(
	router *gin.Engine,
	appConfig *config.Config,
	logger *zap.Logger,
	quotaService core.QuotaService,
	planService core.PlanService,
	waitlistService core.WaitlistService,
	paymentService core.PaymentService,
) {
	// The extension treats anything but POST on /users/identify as a client
	// bug; answer 405 instead of gin's default 404.
	router.HandleMethodNotAllowed = true
	router.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, ErrorResponse{Error: "Method not allowed"})
	})

	identifyHandler := NewIdentifyHandler(quotaService)
	planHandler := NewPlanHandler(planService)
	healthHandler := NewHealthHandler(appConfig)

	users := router.Group("/users")
	{
		users.POST("/identify", identifyHandler.Identify)
	}

	router.GET("/plans", planHandler.ListPlans)

	if waitlistService != nil {
		waitlistHandler := NewWaitlistHandler(waitlistService)
		router.POST("/waitlist", waitlistHandler.Join)
	} else {
		logger.Warn("Waitlist routes SKIPPED: Google Sheets is not configured.")
	}

	if paymentService != nil {
		paymentHandler := NewPaymentHandler(paymentService)
		payments := router.Group("/payments")
		{
			payments.POST("/create", paymentHandler.CreateOrder)
			payments.GET("/verify/:merchantOrderId", paymentHandler.VerifyOrder)
		}
		// The gateway authenticates webhook deliveries via signature; no
		// other auth applies here.
		router.POST("/webhooks/phonepe", paymentHandler.HandleWebhook)
	} else {
		logger.Warn("Payment routes SKIPPED: PhonePe is not configured.")
	}

	router.GET("/health", healthHandler.Status)

	logger.Info("API routes configured successfully.")
}
