// Package effects defines the side-effect port the action executor writes
// through. The engine depends only on the interface; the host application
// decides whether effects are logged, published to the event bus, or applied
// directly.
package effects

import (
	"context"

	"github.com/coffeeassessoria/sparkboard-automation/internal/model"
)

type Effects interface {
	// AssignUser records the intent to assign the task to the given user.
	AssignUser(ctx context.Context, task model.Task, userID string) error
	// ChangeStatus records an intended status transition for the task.
	ChangeStatus(ctx context.Context, task model.Task, status string) error
	// AddTag records the addition of a tag. The executor only calls this for
	// tags not already present on the task.
	AddTag(ctx context.Context, task model.Task, tag string) error
	// SendEmail records an intended email dispatch.
	SendEmail(ctx context.Context, task model.Task, params model.EmailParams) error
}
