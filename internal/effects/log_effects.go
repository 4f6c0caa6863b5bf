package effects

import (
	"context"

	"go.uber.org/zap"

	"github.com/coffeeassessoria/sparkboard-automation/internal/model"
)

// LogEffects only logs each effect. It is the default implementation when the
// service runs without a message broker and mirrors the stubbed behavior of
// the original automation pipeline: effects are visible in the logs but no
// task is mutated.
type LogEffects struct {
	logger *zap.Logger
}

func NewLogEffects(logger *zap.Logger) *LogEffects {
	return &LogEffects{logger: logger}
}

func (e *LogEffects) AssignUser(ctx context.Context, task model.Task, userID string) error {
	e.logger.Info("Assigning user to task",
		zap.String("task_id", task.ID),
		zap.String("task_title", task.Title),
		zap.String("user_id", userID),
	)
	return nil
}

func (e *LogEffects) ChangeStatus(ctx context.Context, task model.Task, status string) error {
	e.logger.Info("Changing task status",
		zap.String("task_id", task.ID),
		zap.String("from", task.Status),
		zap.String("to", status),
	)
	return nil
}

func (e *LogEffects) AddTag(ctx context.Context, task model.Task, tag string) error {
	e.logger.Info("Adding tag to task",
		zap.String("task_id", task.ID),
		zap.String("tag", tag),
	)
	return nil
}

func (e *LogEffects) SendEmail(ctx context.Context, task model.Task, params model.EmailParams) error {
	// TODO: wire a real mail provider (SMTP, SendGrid) once ops picks one.
	e.logger.Info("Sending email",
		zap.String("task_id", task.ID),
		zap.String("to", params.To),
		zap.String("subject", params.Subject),
	)
	return nil
}
