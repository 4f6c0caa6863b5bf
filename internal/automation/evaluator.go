package automation

import (
	"strconv"
	"strings"
	"time"

	"github.com/coffeeassessoria/sparkboard-automation/internal/model"
)

// Due time defaults to end of day when a task has a due date but no due time.
const defaultDueTime = "23:59"

// conditionsMatch reports whether every condition holds for the task.
// Conditions are combined with logical AND; an empty list matches everything.
func conditionsMatch(conds []model.Condition, task model.Task, now time.Time) bool {
	for _, c := range conds {
		if !conditionMatches(c, task, now) {
			return false
		}
	}
	return true
}

func conditionMatches(c model.Condition, task model.Task, now time.Time) bool {
	resolved, ok := resolveField(c.Field, task, now)
	if !ok {
		return false
	}
	return compare(c.Operator, resolved, c.Value)
}

// resolveField maps a condition field to its comparison value. Tags are
// joined with "," so `contains` can probe them. dueDate resolves to the
// signed hours until the task is due; a task without a due date resolves to
// not-ok, which fails the condition without failing the rule loop. Unknown
// fields also resolve to not-ok (fail closed).
func resolveField(field string, task model.Task, now time.Time) (string, bool) {
	switch field {
	case model.FieldPriority:
		return task.Priority, true
	case model.FieldStatus:
		return task.Status, true
	case model.FieldResponsible:
		return task.Responsible, true
	case model.FieldTags:
		return strings.Join(task.Tags, ","), true
	case model.FieldDueDate:
		hours, ok := hoursUntilDue(task, now)
		if !ok {
			return "", false
		}
		return strconv.FormatFloat(hours, 'f', -1, 64), true
	default:
		return "", false
	}
}

// hoursUntilDue computes the signed hours between now and the task's due
// moment (due date plus due time, end of day when no time is set). Negative
// means overdue.
func hoursUntilDue(task model.Task, now time.Time) (float64, bool) {
	if task.DueDate == "" {
		return 0, false
	}
	dueTime := task.DueTime
	if dueTime == "" {
		dueTime = defaultDueTime
	}
	due, err := time.ParseInLocation("2006-01-02 15:04", task.DueDate+" "+dueTime, now.Location())
	if err != nil {
		return 0, false
	}
	return due.Sub(now).Hours(), true
}

// compare applies the condition operator. equals/not_equals are strict string
// comparisons, contains is a substring probe, and the ordering operators
// compare both sides numerically. Non-numeric operands under an ordering
// operator compare false, as does an unknown operator.
func compare(op model.Operator, resolved, value string) bool {
	switch op {
	case model.OpEquals:
		return resolved == value
	case model.OpNotEquals:
		return resolved != value
	case model.OpContains:
		return strings.Contains(resolved, value)
	case model.OpGreaterThan:
		a, b, ok := parsePair(resolved, value)
		return ok && a > b
	case model.OpLessThan:
		a, b, ok := parsePair(resolved, value)
		return ok && a < b
	default:
		return false
	}
}

func parsePair(resolved, value string) (float64, float64, bool) {
	a, err := strconv.ParseFloat(resolved, 64)
	if err != nil {
		return 0, 0, false
	}
	b, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, 0, false
	}
	return a, b, true
}
