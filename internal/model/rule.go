package model

import "time"

// TriggerType is the event category that makes a rule eligible for evaluation.
type TriggerType string

const (
	TriggerTaskCreated        TriggerType = "task_created"
	TriggerTaskUpdated        TriggerType = "task_updated"
	TriggerTaskCompleted      TriggerType = "task_completed"
	TriggerDueDateApproaching TriggerType = "due_date_approaching"
	TriggerStatusChanged      TriggerType = "status_changed"
)

// Operator compares a resolved task field against a condition value.
type Operator string

const (
	OpEquals      Operator = "equals"
	OpNotEquals   Operator = "not_equals"
	OpContains    Operator = "contains"
	OpGreaterThan Operator = "greater_than"
	OpLessThan    Operator = "less_than"
)

// Condition fields. FieldDueDate does not resolve to the raw date: it resolves
// to the signed number of hours until the task is due (negative = overdue),
// so `dueDate less_than 24` means "due within 24 hours" and
// `dueDate less_than 0` means "already overdue".
const (
	FieldPriority    = "priority"
	FieldStatus      = "status"
	FieldResponsible = "responsible"
	FieldDueDate     = "dueDate"
	FieldTags        = "tags"
)

type Condition struct {
	Field    string   `json:"field" validate:"required,oneof=priority status responsible dueDate tags"`
	Operator Operator `json:"operator" validate:"required,oneof=equals not_equals contains greater_than less_than"`
	Value    string   `json:"value"`
}

// Trigger pairs a trigger type with its conditions. Conditions are combined
// with logical AND; an empty list always matches.
type Trigger struct {
	Type       TriggerType `json:"type" validate:"required,oneof=task_created task_updated task_completed due_date_approaching status_changed"`
	Conditions []Condition `json:"conditions,omitempty" validate:"dive"`
}

type ActionType string

const (
	ActionSendNotification ActionType = "send_notification"
	ActionAssignUser       ActionType = "assign_user"
	ActionChangeStatus     ActionType = "change_status"
	ActionAddTag           ActionType = "add_tag"
	ActionSendEmail        ActionType = "send_email"
)

// Action is a tagged union: Type selects which parameter struct applies and
// exactly one of the parameter fields is expected to be non-nil.
type Action struct {
	Type         ActionType          `json:"type" validate:"required,oneof=send_notification assign_user change_status add_tag send_email"`
	Notification *NotificationParams `json:"notification,omitempty"`
	Assignment   *AssignmentParams   `json:"assignment,omitempty"`
	Status       *StatusParams       `json:"status,omitempty"`
	Tag          *TagParams          `json:"tag,omitempty"`
	Email        *EmailParams        `json:"email,omitempty"`
}

// NotificationParams drive the send_notification action. Title and Message
// may contain {{placeholder}} tokens resolved at execution time.
type NotificationParams struct {
	Title    string           `json:"title"`
	Message  string           `json:"message"`
	Severity NotificationType `json:"severity,omitempty"`
}

// AssignmentParams select an assignee: RoleManager resolves to the project
// manager from the event context, otherwise UserID is used directly.
type AssignmentParams struct {
	Role   string `json:"role,omitempty"`
	UserID string `json:"user_id,omitempty"`
}

const RoleManager = "manager"

type StatusParams struct {
	Status string `json:"status"`
}

type TagParams struct {
	Tag string `json:"tag"`
}

type EmailParams struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// AutomationRule is a named trigger-condition-action tuple defining one
// automation behavior.
type AutomationRule struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Description   string     `json:"description,omitempty"`
	Trigger       Trigger    `json:"trigger"`
	Actions       []Action   `json:"actions"`
	IsActive      bool       `json:"is_active"`
	CreatedAt     time.Time  `json:"created_at"`
	LastTriggered *time.Time `json:"last_triggered,omitempty"`
	TriggerCount  int        `json:"trigger_count"`
}
