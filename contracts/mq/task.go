package mq

import (
	"github.com/coffeeassessoria/sparkboard-automation/internal/model"
)

// Routing keys for task lifecycle events consumed by the automation service.
const (
	RoutingKeyTaskCreated = "task.created"
	RoutingKeyTaskUpdated = "task.updated"
)

// TaskCreatedPayload is published by the host CRM whenever a task is created.
type TaskCreatedPayload struct {
	Task    model.Task         `json:"task"`
	Context model.EventContext `json:"context,omitempty"`
}

// TaskUpdatedPayload carries both snapshots so the automation service can
// detect status transitions and completions.
type TaskUpdatedPayload struct {
	Task     model.Task         `json:"task"`
	Previous model.Task         `json:"previous"`
	Context  model.EventContext `json:"context,omitempty"`
}
