package app

import (
	"context"

	"go-hrops/internal/config"
	"go-hrops/internal/events"
	"go-hrops/internal/leavebalance"
	"go-hrops/internal/messaging/kafka/consumer"

	"github.com/pkg/errors"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// RunConsumer allocates balances for leave types announced on the leave
// type topic until SIGINT/SIGTERM.
func RunConsumer(cfg *config.Configuration) error {
	logger := zap.L().Named("app.consumer")

	gormDB, sqlDB, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	if cfg.Kafka.Broker == "" {
		return errors.New("KAFKA_BROKER is required")
	}

	balanceService := leavebalance.NewService(sqlDB, leavebalance.NewRepository(gormDB), nil)

	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        []string{cfg.Kafka.Broker},
		Topic:          events.LeaveTypeTopic,
		GroupID:        cfg.Kafka.GroupID,
		CommitInterval: 0,
		StartOffset:    kafkago.FirstOffset,
	})
	defer reader.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go consumer.ConsumeLeaveTypeCreated(ctx, reader, balanceService, logger)

	waitForSignal()
	logger.Info("consumer shutting down")
	return nil
}
