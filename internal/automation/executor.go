package automation

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/coffeeassessoria/sparkboard-automation/internal/model"
	"github.com/coffeeassessoria/sparkboard-automation/pkg/metrics"
)

// runActions performs each action of a matched rule in declared order.
// Actions are independent fire-and-forget: a failed action is logged and the
// remaining actions still run, and there is no rollback. Afterwards the
// rule's trigger counter is bumped exactly once.
func (e *Engine) runActions(ctx context.Context, rule model.AutomationRule, task model.Task, ectx model.EventContext) {
	for _, action := range rule.Actions {
		if err := e.runAction(ctx, rule, action, task, ectx); err != nil {
			metrics.IncrementActionExecuted(string(action.Type), "failed")
			e.logger.Error("Automation action failed",
				zap.String("rule_id", rule.ID),
				zap.String("action", string(action.Type)),
				zap.String("task_id", task.ID),
				zap.Error(err),
			)
			continue
		}
		metrics.IncrementActionExecuted(string(action.Type), "success")
	}

	ok, err := e.rules.RecordTriggered(ctx, rule.ID, e.now())
	if err != nil {
		e.logger.Error("Failed to record rule trigger", zap.String("rule_id", rule.ID), zap.Error(err))
		return
	}
	if !ok {
		// Rule was deleted while its actions ran; nothing to record.
		e.logger.Warn("Triggered rule no longer exists", zap.String("rule_id", rule.ID))
	}
}

func (e *Engine) runAction(ctx context.Context, rule model.AutomationRule, action model.Action, task model.Task, ectx model.EventContext) error {
	switch action.Type {
	case model.ActionSendNotification:
		if action.Notification == nil {
			return fmt.Errorf("send_notification action without parameters")
		}
		return e.sendNotification(ctx, rule, *action.Notification, task, ectx)

	case model.ActionAssignUser:
		if action.Assignment == nil {
			return fmt.Errorf("assign_user action without parameters")
		}
		userID := action.Assignment.UserID
		if action.Assignment.Role == model.RoleManager && ectx.Project != nil && ectx.Project.ManagerID != "" {
			userID = ectx.Project.ManagerID
		}
		if userID == "" {
			e.logger.Warn("assign_user action has no resolvable assignee",
				zap.String("rule_id", rule.ID),
				zap.String("task_id", task.ID),
			)
			return nil
		}
		return e.effects.AssignUser(ctx, task, userID)

	case model.ActionChangeStatus:
		if action.Status == nil {
			return fmt.Errorf("change_status action without parameters")
		}
		return e.effects.ChangeStatus(ctx, task, action.Status.Status)

	case model.ActionAddTag:
		if action.Tag == nil {
			return fmt.Errorf("add_tag action without parameters")
		}
		for _, t := range task.Tags {
			if t == action.Tag.Tag {
				return nil
			}
		}
		return e.effects.AddTag(ctx, task, action.Tag.Tag)

	case model.ActionSendEmail:
		if action.Email == nil {
			return fmt.Errorf("send_email action without parameters")
		}
		return e.effects.SendEmail(ctx, task, *action.Email)

	default:
		// Unknown action types are skipped, not fatal: a rule edited by a
		// newer UI version must not crash an older engine.
		e.logger.Warn("Unknown action type skipped",
			zap.String("rule_id", rule.ID),
			zap.String("action", string(action.Type)),
		)
		return nil
	}
}

func (e *Engine) sendNotification(ctx context.Context, rule model.AutomationRule, params model.NotificationParams, task model.Task, ectx model.EventContext) error {
	severity := params.Severity
	if severity == "" {
		severity = model.NotificationAutomation
	}

	n := model.Notification{
		ID:        uuid.NewString(),
		Type:      severity,
		Title:     renderTemplate(params.Title, task, ectx),
		Message:   renderTemplate(params.Message, task, ectx),
		TaskID:    task.ID,
		ProjectID: task.ProjectID,
		IsRead:    false,
		CreatedAt: e.now(),
		RuleID:    rule.ID,
		RuleName:  rule.Name,
	}

	if err := e.sink.Append(ctx, n); err != nil {
		return fmt.Errorf("failed to store notification: %w", err)
	}
	metrics.IncrementNotificationCreated(string(severity))

	e.logger.Info("Notification created",
		zap.String("notification_id", n.ID),
		zap.String("rule_id", rule.ID),
		zap.String("task_id", task.ID),
		zap.String("severity", string(severity)),
	)

	e.broadcast(n)
	return nil
}
