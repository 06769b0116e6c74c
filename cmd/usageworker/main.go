// The usage worker drains the usage-event queue the API server publishes to.
// Today it only logs the events; downstream analytics can consume the same
// queue without touching the API server.
package main

import (
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"lekhak-backend-go/internal/config"
	"lekhak-backend-go/internal/core"
	"lekhak-backend-go/pkg/messagequeue"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables.")
	}

	zapLogger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("CRITICAL_ERROR: Failed to initialize Zap logger: %v", err)
	}
	defer zapLogger.Sync()

	appConfig, err := config.LoadConfig()
	if err != nil {
		zapLogger.Fatal("CRITICAL_ERROR: Failed to load application configuration", zap.Error(err))
	}
	if appConfig.RabbitMQURL == "" {
		zapLogger.Fatal("CRITICAL_ERROR: RABBITMQ_URL is required for the usage worker.")
	}

	queue, err := messagequeue.NewRabbitMQService(messagequeue.NewRabbitMQServiceConfig{URL: appConfig.RabbitMQURL})
	if err != nil {
		zapLogger.Fatal("CRITICAL_ERROR: Failed to connect to RabbitMQ", zap.Error(err))
	}
	defer queue.Close()

	go func() {
		quitChannel := make(chan os.Signal, 1)
		signal.Notify(quitChannel, syscall.SIGINT, syscall.SIGTERM)
		sig := <-quitChannel
		zapLogger.Info("Received shutdown signal, closing queue", zap.String("signal", sig.String()))
		queue.Close()
		os.Exit(0)
	}()

	zapLogger.Info("Usage worker consuming", zap.String("queue", appConfig.UsageQueueName))

	// Consume blocks until the channel is closed.
	err = queue.Consume(appConfig.UsageQueueName, func(body []byte) {
		var event core.UsageEvent
		if err := json.Unmarshal(body, &event); err != nil {
			zapLogger.Warn("Discarding malformed usage event", zap.Error(err))
			return
		}
		zapLogger.Info("Usage event",
			zap.String("user_id", event.UserID),
			zap.String("extension_id", event.ExtensionID),
			zap.String("action_type", event.ActionType),
			zap.Int("input_length", event.InputLength),
			zap.Int("output_length", event.OutputLength),
			zap.Time("timestamp", event.Timestamp),
		)
	})
	if err != nil {
		zapLogger.Fatal("Usage worker stopped with error", zap.Error(err))
	}
}
