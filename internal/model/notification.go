package model

import "time"

type NotificationType string

const (
	NotificationInfo       NotificationType = "info"
	NotificationWarning    NotificationType = "warning"
	NotificationSuccess    NotificationType = "success"
	NotificationAutomation NotificationType = "automation"
)

// Notification is a user-facing message record. The automation engine is the
// only producer; the UI marks as read or deletes. RuleID/RuleName link back
// to the originating rule and may outlive it: there is no referential cleanup
// when a rule is removed.
type Notification struct {
	ID        string           `json:"id"`
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	TaskID    string           `json:"task_id,omitempty"`
	ProjectID string           `json:"project_id,omitempty"`
	IsRead    bool             `json:"is_read"`
	CreatedAt time.Time        `json:"created_at"`
	RuleID    string           `json:"automation_rule_id,omitempty"`
	RuleName  string           `json:"automation_rule_name,omitempty"`
}
