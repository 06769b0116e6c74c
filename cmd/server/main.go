package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"lekhak-backend-go/internal/api"
	"lekhak-backend-go/internal/config"
	"lekhak-backend-go/internal/core"
	"lekhak-backend-go/internal/db"
	"lekhak-backend-go/internal/middleware"
	"lekhak-backend-go/pkg/cache"
	"lekhak-backend-go/pkg/mailer"
	"lekhak-backend-go/pkg/messagequeue"
	"lekhak-backend-go/pkg/phonepe"
	"lekhak-backend-go/pkg/sheets"
)

func main() {
	// --- 1. Load .env (optional, for local development) ---
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables.")
	}

	// --- 2. Initialize Logger (Zap) ---
	zapLogger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("CRITICAL_ERROR: Failed to initialize Zap logger: %v", err)
	}
	defer zapLogger.Sync()
	zapLogger.Info("Zap logger initialized successfully.")

	// --- 3. Load Application Configuration ---
	appConfig, err := config.LoadConfig()
	if err != nil {
		zapLogger.Fatal("CRITICAL_ERROR: Failed to load application configuration", zap.Error(err))
	}
	zapLogger.Info("Application configuration loaded successfully.")

	// --- 4. Initialize Firestore ---
	initCtx, cancelInitCtx := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelInitCtx()
	if err := db.InitFirestore(initCtx, appConfig); err != nil {
		zapLogger.Fatal("CRITICAL_ERROR: Failed to initialize Firestore", zap.Error(err))
	}
	firestoreClient := db.GetFirestoreClient()
	if firestoreClient == nil {
		zapLogger.Fatal("CRITICAL_ERROR: Firestore client is nil after initialization. Application cannot start.")
	}
	zapLogger.Info("Firestore client initialized successfully.")

	// --- 5. Initialize Repositories ---
	userRepo := db.NewFirestoreUserRepository(firestoreClient)
	quotaRepo := db.NewFirestoreQuotaRepository(firestoreClient, appConfig.FreeDailyLimit)
	usageLogRepo := db.NewFirestoreUsageLogRepository(firestoreClient)
	planRepo := db.NewFirestorePlanRepository(firestoreClient)
	subscriptionRepo := db.NewFirestoreSubscriptionRepository(firestoreClient)
	paymentRepo := db.NewFirestorePaymentRepository(firestoreClient)
	zapLogger.Info("Repositories initialized successfully.")

	// --- 6. Optional infrastructure: Redis, RabbitMQ ---
	// Both are soft dependencies. The quota workflow itself only needs
	// Firestore; a missing cache or queue degrades, never blocks, startup.
	var planCache cache.Cache
	if appConfig.RedisAddr != "" {
		planCache, err = cache.NewRedisCache(cache.NewRedisCacheConfig{
			Address:  appConfig.RedisAddr,
			Password: appConfig.RedisPassword,
			DB:       appConfig.RedisDB,
		})
		if err != nil {
			zapLogger.Warn("Redis unavailable, plan catalog will be served uncached", zap.Error(err))
			planCache = nil
		}
	}

	var usageQueue messagequeue.MessageQueue
	if appConfig.RabbitMQURL != "" {
		usageQueue, err = messagequeue.NewRabbitMQService(messagequeue.NewRabbitMQServiceConfig{URL: appConfig.RabbitMQURL})
		if err != nil {
			zapLogger.Warn("RabbitMQ unavailable, usage events will not be published", zap.Error(err))
			usageQueue = nil
		} else {
			defer usageQueue.Close()
		}
	}

	// --- 7. Initialize Core Services ---
	usageRecorder := core.NewUsageRecorder(userRepo, usageLogRepo, usageQueue, appConfig.UsageQueueName)
	quotaService := core.NewQuotaService(quotaRepo, usageRecorder, appConfig.ClientURL)
	planService := core.NewPlanService(planRepo, planCache)

	var waitlistService core.WaitlistService
	if appConfig.WaitlistConfigured() {
		sheetClient, err := sheets.NewClient(initCtx, sheets.NewClientConfig{
			SpreadsheetID:       appConfig.GoogleSheetID,
			ServiceAccountEmail: appConfig.GoogleServiceAccountEmail,
			PrivateKey:          appConfig.GooglePrivateKey,
		})
		if err != nil {
			zapLogger.Fatal("CRITICAL_ERROR: Failed to initialize Google Sheets client", zap.Error(err))
		}
		var welcomeMailer *mailer.Mailer
		if appConfig.MailerConfigured() {
			welcomeMailer = mailer.New(mailer.Config{
				Host:     appConfig.SMTPHost,
				Port:     appConfig.SMTPPort,
				Username: appConfig.SMTPUser,
				Password: appConfig.SMTPPassword,
				Sender:   appConfig.SMTPSenderEmail,
			})
		}
		waitlistService = core.NewWaitlistService(sheetClient, welcomeMailer)
	}

	var paymentService core.PaymentService
	if appConfig.PhonePeConfigured() {
		phonepeClient, err := phonepe.NewClient(phonepe.Config{
			ClientID:      appConfig.PhonePeClientID,
			ClientSecret:  appConfig.PhonePeClientSecret,
			ClientVersion: appConfig.PhonePeClientVersion,
			AuthURL:       appConfig.PhonePeAuthURL,
			CheckoutURL:   appConfig.PhonePeCheckoutURL,
			StatusURL:     appConfig.PhonePeStatusURL,
		}, nil)
		if err != nil {
			zapLogger.Fatal("CRITICAL_ERROR: Failed to initialize PhonePe client", zap.Error(err))
		}
		paymentService = core.NewPaymentService(phonepeClient, paymentRepo, subscriptionRepo, planRepo, appConfig.PhonePeWebhookPassword)
	}
	zapLogger.Info("Core services initialized successfully.")

	// --- 8. Setup Gin HTTP Engine ---
	if strings.ToLower(appConfig.GinMode) == "release" {
		gin.SetMode(gin.ReleaseMode)
		zapLogger.Info("Gin mode set to 'release'.")
	} else {
		gin.SetMode(gin.DebugMode)
		zapLogger.Info("Gin mode set to 'debug'.")
	}
	router := gin.New()

	// --- 9. Apply Global Middleware (order matters) ---
	router.Use(middleware.RequestLogger(zapLogger))
	router.Use(middleware.RecoveryMiddleware(zapLogger))
	router.Use(middleware.CORSMiddleware(appConfig.ClientURL))
	zapLogger.Info("CORS Middleware enabled", zap.String("clientURL", appConfig.ClientURL))

	// --- 10. Setup API Routes ---
	api.SetupRoutes(
		router,
		appConfig,
		zapLogger,
		quotaService,
		planService,
		waitlistService,
		paymentService,
	)

	// --- 11. Configure and Start HTTP Server ---
	serverAddr := fmt.Sprintf(":%s", appConfig.Port)
	httpServer := &http.Server{
		Addr:    serverAddr,
		Handler: router,
	}

	zapLogger.Info("Starting HTTP server...", zap.String("address", serverAddr), zap.String("ginMode", gin.Mode()))

	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	}()

	// --- 12. Graceful Shutdown Handling ---
	quitChannel := make(chan os.Signal, 1)
	signal.Notify(quitChannel, syscall.SIGINT, syscall.SIGTERM)

	sig := <-quitChannel
	zapLogger.Info("Received shutdown signal", zap.String("signal", sig.String()))

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()

	zapLogger.Info("Attempting graceful shutdown of HTTP server...")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zapLogger.Fatal("Server forced to shutdown due to error during graceful shutdown", zap.Error(err))
	}

	zapLogger.Info("Server exiting gracefully.")
}
