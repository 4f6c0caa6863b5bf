package mq

import "time"

// Routing keys for effect events published by the automation service. The
// host CRM consumes these and applies the actual task mutations.
const (
	RoutingKeyTaskAssigned        = "task.assigned"
	RoutingKeyTaskStatusChange    = "task.status_change"
	RoutingKeyTaskTagged          = "task.tagged"
	RoutingKeyNotificationEmail   = "notification.email"
	RoutingKeyNotificationCreated = "notification.created"
)

type TaskAssignedPayload struct {
	TaskID string `json:"task_id"`
	UserID string `json:"user_id"`
}

type TaskStatusChangePayload struct {
	TaskID string `json:"task_id"`
	From   string `json:"from"`
	To     string `json:"to"`
}

type TaskTaggedPayload struct {
	TaskID string `json:"task_id"`
	Tag    string `json:"tag"`
}

type NotificationEmailPayload struct {
	TaskID  string `json:"task_id,omitempty"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

type NotificationCreatedPayload struct {
	NotificationID string    `json:"notification_id"`
	Type           string    `json:"type"`
	Title          string    `json:"title"`
	Message        string    `json:"message"`
	TaskID         string    `json:"task_id,omitempty"`
	RuleID         string    `json:"rule_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}
