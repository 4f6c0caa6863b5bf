package effects

import (
	"context"

	"go.uber.org/zap"

	mqcontracts "github.com/coffeeassessoria/sparkboard-automation/contracts/mq"
	"github.com/coffeeassessoria/sparkboard-automation/internal/model"
	"github.com/coffeeassessoria/sparkboard-automation/pkg/mq"
)

// MQEffects publishes every effect as an event on the bus so the host CRM can
// apply the actual task mutation. Publish failures are returned but the
// executor treats each action as fire-and-forget.
type MQEffects struct {
	publisher *mq.Publisher
	logger    *zap.Logger
}

func NewMQEffects(publisher *mq.Publisher, logger *zap.Logger) *MQEffects {
	return &MQEffects{publisher: publisher, logger: logger}
}

func (e *MQEffects) AssignUser(ctx context.Context, task model.Task, userID string) error {
	e.logger.Info("Publishing task.assigned event",
		zap.String("task_id", task.ID),
		zap.String("user_id", userID),
	)
	return e.publisher.Publish(mqcontracts.RoutingKeyTaskAssigned, mqcontracts.TaskAssignedPayload{
		TaskID: task.ID,
		UserID: userID,
	})
}

func (e *MQEffects) ChangeStatus(ctx context.Context, task model.Task, status string) error {
	e.logger.Info("Publishing task.status_change event",
		zap.String("task_id", task.ID),
		zap.String("to", status),
	)
	return e.publisher.Publish(mqcontracts.RoutingKeyTaskStatusChange, mqcontracts.TaskStatusChangePayload{
		TaskID: task.ID,
		From:   task.Status,
		To:     status,
	})
}

func (e *MQEffects) AddTag(ctx context.Context, task model.Task, tag string) error {
	e.logger.Info("Publishing task.tagged event",
		zap.String("task_id", task.ID),
		zap.String("tag", tag),
	)
	return e.publisher.Publish(mqcontracts.RoutingKeyTaskTagged, mqcontracts.TaskTaggedPayload{
		TaskID: task.ID,
		Tag:    tag,
	})
}

func (e *MQEffects) SendEmail(ctx context.Context, task model.Task, params model.EmailParams) error {
	e.logger.Info("Publishing notification.email event",
		zap.String("task_id", task.ID),
		zap.String("to", params.To),
	)
	return e.publisher.Publish(mqcontracts.RoutingKeyNotificationEmail, mqcontracts.NotificationEmailPayload{
		TaskID:  task.ID,
		To:      params.To,
		Subject: params.Subject,
		Body:    params.Body,
	})
}
