package automation

import (
	"strings"

	"github.com/coffeeassessoria/sparkboard-automation/internal/model"
)

// renderTemplate substitutes {{placeholder}} tokens in notification titles
// and messages. Placeholders without a value in the current context render
// as empty strings.
func renderTemplate(s string, task model.Task, ectx model.EventContext) string {
	userName := ""
	if ectx.User != nil {
		userName = ectx.User.Name
	}
	projectName := ""
	if ectx.Project != nil {
		projectName = ectx.Project.Name
	}

	r := strings.NewReplacer(
		"{{taskTitle}}", task.Title,
		"{{taskId}}", task.ID,
		"{{taskStatus}}", task.Status,
		"{{taskPriority}}", task.Priority,
		"{{userName}}", userName,
		"{{projectName}}", projectName,
	)
	return r.Replace(s)
}
