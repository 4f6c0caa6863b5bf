package mqhandler

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	mqcontracts "github.com/coffeeassessoria/sparkboard-automation/contracts/mq"
	"github.com/coffeeassessoria/sparkboard-automation/internal/automation"
	"github.com/coffeeassessoria/sparkboard-automation/pkg/util"
)

type TaskCreatedHandler struct {
	engine       *automation.Engine
	deduper      EventDeduper
	retryCounter *util.RetryCounter
	dlq          DLQPublisher
	logger       *zap.Logger
}

// DLQPublisher parks poison messages; pkg/mq.Publisher implements it.
type DLQPublisher interface {
	PublishToDLQ(routingKey string, payload []byte, originalError string) error
}

// EventDeduper guards each handler + event key so at-least-once deliveries are
// processed once; pkg/util.Deduper implements it. Release undoes the guard
// when a delivery is requeued, otherwise the redelivery would be skipped as a
// duplicate and the event lost.
type EventDeduper interface {
	AcquireOnce(ctx context.Context, handler, eventKey string) bool
	Release(ctx context.Context, handler, eventKey string) error
}

const maxRetries = 5

// NewTaskCreatedHandler builds the handler. deduper, retryCounter and dlq may
// be nil when Redis or the broker are not configured; the handler then
// processes every delivery and requeues retryable failures indefinitely.
func NewTaskCreatedHandler(
	engine *automation.Engine,
	deduper EventDeduper,
	retryCounter *util.RetryCounter,
	dlq DLQPublisher,
	logger *zap.Logger,
) *TaskCreatedHandler {
	return &TaskCreatedHandler{
		engine:       engine,
		deduper:      deduper,
		retryCounter: retryCounter,
		dlq:          dlq,
		logger:       logger,
	}
}

func (h *TaskCreatedHandler) Handle(ctx context.Context, raw json.RawMessage) error {
	var p mqcontracts.TaskCreatedPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		// Malformed payloads never get better on retry: park and ack.
		h.logger.Error("Failed to unmarshal TaskCreatedPayload (non-retryable)", zap.Error(err))
		h.park(mqcontracts.RoutingKeyTaskCreated, raw, err)
		return nil
	}

	if p.Task.ID == "" {
		h.logger.Error("task.created event without task id")
		return nil
	}

	if h.deduper != nil && !h.deduper.AcquireOnce(ctx, "task_created", p.Task.ID) {
		return nil
	}

	h.logger.Info("Handling task.created event",
		zap.String("task_id", p.Task.ID),
		zap.String("title", p.Task.Title),
		zap.String("priority", p.Task.Priority),
	)

	if err := h.engine.OnTaskCreated(ctx, p.Task, p.Context); err != nil {
		return h.handleDispatchError(ctx, mqcontracts.RoutingKeyTaskCreated, "task_created", p.Task.ID, raw, err)
	}

	h.resetRetries(ctx, "task_created", p.Task.ID)
	return nil
}

// handleDispatchError applies the retry policy: retryable errors are nacked
// (requeued) until the budget runs out, everything else goes to the DLQ and
// gets acked.
func (h *TaskCreatedHandler) handleDispatchError(ctx context.Context, routingKey, handlerName, taskID string, raw []byte, err error) error {
	isRetryable, errType := util.IsRetryableError(err)

	retryCount := int64(0)
	if h.retryCounter != nil {
		retryCount, _ = h.retryCounter.IncrementAndGet(ctx, util.FormatRetryKey(handlerName, taskID))
	}

	h.logger.Error("Dispatch failed",
		zap.String("routing_key", routingKey),
		zap.String("task_id", taskID),
		zap.String("error_type", errType),
		zap.Bool("retryable", isRetryable),
		zap.Int64("retry_count", retryCount),
		zap.Error(err),
	)

	if util.ShouldRetry(retryCount, maxRetries, isRetryable) {
		h.release(ctx, handlerName, taskID)
		return err // nack and requeue
	}

	h.park(routingKey, raw, err)
	return nil // ack
}

// release frees the dedup key before a nack, so the requeued delivery is not
// skipped as a duplicate.
func (h *TaskCreatedHandler) release(ctx context.Context, handlerName, eventKey string) {
	if h.deduper == nil {
		return
	}
	if err := h.deduper.Release(ctx, handlerName, eventKey); err != nil {
		h.logger.Warn("Failed to release dedup key before requeue",
			zap.String("event_key", eventKey),
			zap.Error(err),
		)
	}
}

func (h *TaskCreatedHandler) park(routingKey string, raw []byte, cause error) {
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

func (h *TaskCreatedHandler) resetRetries(ctx context.Context, handlerName, taskID string) {
	if h.retryCounter == nil {
		return
	}
	if err := h.retryCounter.Reset(ctx, util.FormatRetryKey(handlerName, taskID)); err != nil {
		h.logger.Warn("Failed to reset retry counter", zap.String("task_id", taskID), zap.Error(err))
	}
}
