package config

import (
	"errors"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	Port    string `mapstructure:"PORT"`
	GinMode string `mapstructure:"GIN_MODE"`

	// ClientURL is the marketing-site origin; used for CORS and as the base
	// of upgrade/manage URLs handed back to the extension.
	ClientURL string `mapstructure:"CLIENT_URL"`

	FirebaseProjectID                string `mapstructure:"FIREBASE_PROJECT_ID"`
	GoogleApplicationCredentials     string `mapstructure:"GOOGLE_APPLICATION_CREDENTIALS"`
	FirebaseServiceAccountJSONBase64 string `mapstructure:"FIREBASE_SERVICE_ACCOUNT_JSON_BASE64"`

	// FreeDailyLimit is the fixed free-tier daily allowance.
	FreeDailyLimit int `mapstructure:"FREE_DAILY_LIMIT"`

	// Redis plan-catalog cache. Optional: when REDIS_ADDR is empty the
	// catalog is read from Firestore on every request.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`

	// RabbitMQ usage-event queue. Optional: when RABBITMQ_URL is empty usage
	// events are not published.
	RabbitMQURL    string `mapstructure:"RABBITMQ_URL"`
	UsageQueueName string `mapstructure:"USAGE_QUEUE_NAME"`

	// Google Sheets waitlist.
	GoogleSheetID             string `mapstructure:"GOOGLE_SHEET_ID"`
	GoogleServiceAccountEmail string `mapstructure:"GOOGLE_SERVICE_ACCOUNT_EMAIL"`
	GooglePrivateKey          string `mapstructure:"GOOGLE_PRIVATE_KEY"`

	// PhonePe payment gateway.
	PhonePeClientID        string `mapstructure:"PHONEPE_CLIENT_ID"`
	PhonePeClientSecret    string `mapstructure:"PHONEPE_CLIENT_SECRET"`
	PhonePeClientVersion   string `mapstructure:"PHONEPE_CLIENT_VERSION"`
	PhonePeMerchantID      string `mapstructure:"PHONEPE_MERCHANT_ID"`
	PhonePeAuthURL         string `mapstructure:"PHONEPE_AUTH_URL"`
	PhonePeCheckoutURL     string `mapstructure:"PHONEPE_CHECKOUT_URL"`
	PhonePeStatusURL       string `mapstructure:"PHONEPE_STATUS_URL"`
	PhonePeWebhookPassword string `mapstructure:"PHONEPE_WEBHOOK_PASSWORD"`

	// SMTP for the best-effort waitlist welcome email. Optional.
	SMTPHost        string `mapstructure:"SMTP_HOST"`
	SMTPPort        string `mapstructure:"SMTP_PORT"`
	SMTPUser        string `mapstructure:"SMTP_USER"`
	SMTPPassword    string `mapstructure:"SMTP_PASSWORD"`
	SMTPSenderEmail string `mapstructure:"SMTP_SENDER_EMAIL"`
}

var appConfig *Config

// LoadConfig loads configuration from environment variables using Viper.
func LoadConfig() (*Config, error) {
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Set default values
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("GIN_MODE", "debug")
	viper.SetDefault("FREE_DAILY_LIMIT", 7)
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("USAGE_QUEUE_NAME", "usage_events")
	viper.SetDefault("PHONEPE_CLIENT_VERSION", "1")
	viper.SetDefault("SMTP_HOST", "smtp.mailtrap.io")
	viper.SetDefault("SMTP_PORT", "2525")

	// Bind environment variables
	for _, key := range []string{
		"PORT", "GIN_MODE", "CLIENT_URL",
		"FIREBASE_PROJECT_ID", "GOOGLE_APPLICATION_CREDENTIALS", "FIREBASE_SERVICE_ACCOUNT_JSON_BASE64",
		"FREE_DAILY_LIMIT",
		"REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB",
		"RABBITMQ_URL", "USAGE_QUEUE_NAME",
		"GOOGLE_SHEET_ID", "GOOGLE_SERVICE_ACCOUNT_EMAIL", "GOOGLE_PRIVATE_KEY",
		"PHONEPE_CLIENT_ID", "PHONEPE_CLIENT_SECRET", "PHONEPE_CLIENT_VERSION", "PHONEPE_MERCHANT_ID",
		"PHONEPE_AUTH_URL", "PHONEPE_CHECKOUT_URL", "PHONEPE_STATUS_URL", "PHONEPE_WEBHOOK_PASSWORD",
		"SMTP_HOST", "SMTP_PORT", "SMTP_USER", "SMTP_PASSWORD", "SMTP_SENDER_EMAIL",
	} {
		viper.BindEnv(key)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, errors.New("failed to unmarshal config: " + err.Error())
	}

	// Validate required fields
	if cfg.FirebaseProjectID == "" {
		return nil, errors.New("FIREBASE_PROJECT_ID is required")
	}
	if cfg.GoogleApplicationCredentials == "" && cfg.FirebaseServiceAccountJSONBase64 == "" {
		return nil, errors.New("either GOOGLE_APPLICATION_CREDENTIALS or FIREBASE_SERVICE_ACCOUNT_JSON_BASE64 is required")
	}
	if cfg.ClientURL == "" {
		return nil, errors.New("CLIENT_URL is required")
	}
	if cfg.FreeDailyLimit <= 0 {
		return nil, errors.New("FREE_DAILY_LIMIT must be positive")
	}

	appConfig = &cfg
	return appConfig, nil
}

// GetConfig returns the loaded application configuration.
// It will panic if LoadConfig has not been called successfully.
func GetConfig() *Config {
	if appConfig == nil {
		panic("config not loaded; call LoadConfig first")
	}
	return appConfig
}

// PhonePeConfigured reports whether the payment endpoints can be served.
func (c *Config) PhonePeConfigured() bool {
	return c.PhonePeClientID != "" && c.PhonePeClientSecret != "" &&
		c.PhonePeAuthURL != "" && c.PhonePeCheckoutURL != "" && c.PhonePeStatusURL != ""
}

// WaitlistConfigured reports whether the waitlist endpoint can be served.
func (c *Config) WaitlistConfigured() bool {
	return c.GoogleSheetID != "" && c.GoogleServiceAccountEmail != "" && c.GooglePrivateKey != ""
}

// MailerConfigured reports whether welcome emails can be sent.
func (c *Config) MailerConfigured() bool {
	return c.SMTPUser != "" && c.SMTPPassword != "" && c.SMTPSenderEmail != ""
}
