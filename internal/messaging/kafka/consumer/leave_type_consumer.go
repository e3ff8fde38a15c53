package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go-hrops/internal/events"
	"go-hrops/internal/leavebalance"
	leavebalanceerrors "go-hrops/internal/leavebalance/errors"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

var (
	retryBackoff    = time.Second
	maxRetryBackoff = 30 * time.Second
)

// MessageReader is the part of *kafkago.Reader the consumers use.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
}

// Allocator is satisfied by leavebalance.Service.
type Allocator interface {
	AllocateLeaveType(ctx context.Context, leaveTypeID string, year int) (leavebalance.AllocationSummary, error)
}

// ConsumeLeaveTypeCreated allocates balances of a freshly created leave type
// to all active employees. Offsets are committed only after the allocation
// succeeds; a redelivered event is harmless because allocation skips
// existing rows.
func ConsumeLeaveTypeCreated(
	ctx context.Context,
	reader MessageReader,
	allocator Allocator,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.leave_type")
	log.Info("leave type consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("leave type consumer stopped")
				return
			}
			log.Error("fetch leave type message failed", zap.Error(err))
			continue
		}

		handleLeaveTypeMessage(ctx, reader, allocator, msg, log)
	}
}

func handleLeaveTypeMessage(ctx context.Context, reader MessageReader, allocator Allocator, msg kafkago.Message, log *zap.Logger) {
	var event events.LeaveTypeCreatedEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		log.Error("decode leave_type event failed", zap.Error(err))
		_ = reader.CommitMessages(ctx, msg)
		return
	}
	if event.EventType != events.EventLeaveTypeCreated {
		_ = reader.CommitMessages(ctx, msg)
		return
	}

	summary, err := allocateWithRetry(ctx, allocator, event, log)
	if err != nil {
		if errors.Is(err, leavebalanceerrors.ErrLeaveTypeNotFound) {
			log.Warn("leave type from event no longer exists, skipping", zap.String("leave_type_id", event.LeaveTypeID))
			_ = reader.CommitMessages(ctx, msg)
		}
		return
	}

	if err := reader.CommitMessages(ctx, msg); err != nil {
		log.Error("commit leave type message failed", zap.Error(err))
		return
	}

	log.Info("leave type allocated from leave_type.created event",
		zap.String("leave_type_id", event.LeaveTypeID),
		zap.Int("year", summary.Year),
		zap.Int("created", summary.Created),
		zap.Int("skipped", summary.Skipped),
	)
}

// allocateWithRetry retries on the same message until it succeeds, ctx ends
// or the leave type is gone. Offsets commit cumulatively, so fetching the
// next message first would lose this one.
func allocateWithRetry(ctx context.Context, allocator Allocator, event events.LeaveTypeCreatedEvent, log *zap.Logger) (leavebalance.AllocationSummary, error) {
	backoff := retryBackoff
	for attempt := 1; ; attempt++ {
		summary, err := allocator.AllocateLeaveType(ctx, event.LeaveTypeID, event.Year)
		if err == nil || errors.Is(err, leavebalanceerrors.ErrLeaveTypeNotFound) {
			return summary, err
		}

		if ctx.Err() != nil {
			return leavebalance.AllocationSummary{}, ctx.Err()
		}
		log.Error("allocate leave type failed, retrying",
			zap.String("leave_type_id", event.LeaveTypeID),
			zap.String("request_id", event.RequestID),
			zap.Int("attempt", attempt),
			zap.Duration("backoff", backoff),
			zap.Error(err),
		)

		select {
		case <-ctx.Done():
			return leavebalance.AllocationSummary{}, ctx.Err()
		case <-time.After(backoff):
		}
		backoff = min(backoff*2, maxRetryBackoff)
	}
}
