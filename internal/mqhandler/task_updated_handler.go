package mqhandler

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	mqcontracts "github.com/coffeeassessoria/sparkboard-automation/contracts/mq"
	"github.com/coffeeassessoria/sparkboard-automation/internal/automation"
	"github.com/coffeeassessoria/sparkboard-automation/pkg/util"
)

type TaskUpdatedHandler struct {
	engine       *automation.Engine
	deduper      EventDeduper
	retryCounter *util.RetryCounter
	dlq          DLQPublisher
	logger       *zap.Logger
}

func NewTaskUpdatedHandler(
	engine *automation.Engine,
	deduper EventDeduper,
	retryCounter *util.RetryCounter,
	dlq DLQPublisher,
	logger *zap.Logger,
) *TaskUpdatedHandler {
	return &TaskUpdatedHandler{
		engine:       engine,
		deduper:      deduper,
		retryCounter: retryCounter,
		dlq:          dlq,
		logger:       logger,
	}
}

func (h *TaskUpdatedHandler) Handle(ctx context.Context, raw json.RawMessage) error {
	var p mqcontracts.TaskUpdatedPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		h.logger.Error("Failed to unmarshal TaskUpdatedPayload (non-retryable)", zap.Error(err))
		h.park(mqcontracts.RoutingKeyTaskUpdated, raw, err)
		return nil
	}

	if p.Task.ID == "" {
		h.logger.Error("task.updated event without task id")
		return nil
	}

	// Same task can legitimately update many times; dedup on the mutation,
	// not the task.
	eventKey := fmt.Sprintf("%s:%d", p.Task.ID, p.Task.UpdatedAt.UnixNano())
	if h.deduper != nil && !h.deduper.AcquireOnce(ctx, "task_updated", eventKey) {
		return nil
	}

	h.logger.Info("Handling task.updated event",
		zap.String("task_id", p.Task.ID),
		zap.String("status", p.Task.Status),
		zap.String("previous_status", p.Previous.Status),
	)

	if err := h.engine.OnTaskUpdated(ctx, p.Task, p.Previous, p.Context); err != nil {
		isRetryable, errType := util.IsRetryableError(err)

		retryCount := int64(0)
		if h.retryCounter != nil {
			retryCount, _ = h.retryCounter.IncrementAndGet(ctx, util.FormatRetryKey("task_updated", eventKey))
		}

		h.logger.Error("Dispatch failed",
			zap.String("routing_key", mqcontracts.RoutingKeyTaskUpdated),
			zap.String("task_id", p.Task.ID),
			zap.String("error_type", errType),
			zap.Bool("retryable", isRetryable),
			zap.Int64("retry_count", retryCount),
			zap.Error(err),
		)

		if util.ShouldRetry(retryCount, maxRetries, isRetryable) {
			// Free the dedup key, or the requeued delivery is dropped as
			// a duplicate.
			if h.deduper != nil {
				if relErr := h.deduper.Release(ctx, "task_updated", eventKey); relErr != nil {
					h.logger.Warn("Failed to release dedup key before requeue",
						zap.String("event_key", eventKey),
						zap.Error(relErr),
					)
				}
			}
			return err // nack and requeue
		}

		h.park(mqcontracts.RoutingKeyTaskUpdated, raw, err)
		return nil
	}

	if h.retryCounter != nil {
		if err := h.retryCounter.Reset(ctx, util.FormatRetryKey("task_updated", eventKey)); err != nil {
			h.logger.Warn("Failed to reset retry counter", zap.String("task_id", p.Task.ID), zap.Error(err))
		}
	}
	return nil
}

func (h *TaskUpdatedHandler) park(routingKey string, raw []byte, cause error) {
	if h.dlq == nil {
		return
	}
	if err := h.dlq.PublishToDLQ(routingKey, raw, cause.Error()); err != nil {
		h.logger.Error("Failed to publish to DLQ",
			zap.String("routing_key", routingKey),
			zap.Error(err),
		)
	}
}
