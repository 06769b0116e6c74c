package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"lekhak-backend-go/internal/config"
)

// HealthHandler reports service liveness plus which optional integrations are
// configured, so a glance at /health explains why a surface is unavailable.
type HealthHandler struct {
	appConfig *config.Config
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(appConfig *config.Config) *HealthHandler {
	return &HealthHandler{appConfig: appConfig}
}

// Status handles GET /health.
func (h *HealthHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "UP",
		"service":   "lekhak-backend",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"integrations": gin.H{
			"firestore": h.appConfig.FirebaseProjectID != "",
			"redis":     h.appConfig.RedisAddr != "",
			"rabbitmq":  h.appConfig.RabbitMQURL != "",
			"waitlist":  h.appConfig.WaitlistConfigured(),
			"payments":  h.appConfig.PhonePeConfigured(),
			"mailer":    h.appConfig.MailerConfigured(),
		},
	})
}
