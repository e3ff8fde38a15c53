package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-hrops/internal/config"
	"go-hrops/internal/messaging/kafka"
	"go-hrops/internal/messaging/kafka/producer"
	"go-hrops/internal/shared/connection"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// RunWorker relays pending outbox rows to Kafka until SIGINT/SIGTERM.
func RunWorker(cfg *config.Configuration) error {
	logger := zap.L().Named("app.worker")

	_, sqlDB, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	if cfg.Kafka.Broker == "" {
		return errors.New("KAFKA_BROKER is required")
	}

	kafkaWriter, err := connection.ConnectKafkaWithRetry(cfg.Kafka.Broker, 5)
	if err != nil {
		return err
	}
	defer kafkaWriter.Close()

	outboxRepo := kafka.NewOutboxRepository(sqlDB)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go producer.ProcessOutboxEvents(
		ctx,
		outboxRepo,
		kafkaWriter,
		logger,
		3*time.Second,
	)

	waitForSignal()
	logger.Info("worker shutting down")
	return nil
}

func waitForSignal() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
}
