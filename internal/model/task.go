package model

import "time"

// Task statuses as used across the sparkboard board views. StatusDone is the
// terminal status: entering it is what makes a task "completed".
const (
	StatusTodo       = "todo"
	StatusInProgress = "in_progress"
	StatusReview     = "review"
	StatusDone       = "done"
)

// Task priorities, lowest to highest.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// Task is the read-only snapshot the automation engine receives from the host
// application. The engine never mutates it; side effects go through the
// effects port instead.
type Task struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Status      string    `json:"status"`
	Priority    string    `json:"priority"`
	Responsible string    `json:"responsible,omitempty"`
	DueDate     string    `json:"due_date,omitempty"` // YYYY-MM-DD
	DueTime     string    `json:"due_time,omitempty"` // HH:MM, defaults to end of day
	Tags        []string  `json:"tags,omitempty"`
	ProjectID   string    `json:"project_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type User struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Project struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	ManagerID string `json:"manager_id,omitempty"`
}

// EventContext carries the optional user/project context the host supplies
// alongside a task lifecycle event. Both fields may be nil.
type EventContext struct {
	User    *User    `json:"user,omitempty"`
	Project *Project `json:"project,omitempty"`
}
