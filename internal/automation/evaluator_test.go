package automation

import (
	"testing"
	"time"

	"github.com/coffeeassessoria/sparkboard-automation/internal/model"
)

func TestConditionMatches(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		condition model.Condition
		task      model.Task
		wantMatch bool
	}{
		{
			name:      "priority equals match",
			condition: model.Condition{Field: model.FieldPriority, Operator: model.OpEquals, Value: "urgent"},
			task:      model.Task{Priority: model.PriorityUrgent},
			wantMatch: true,
		},
		{
			name:      "priority equals mismatch",
			condition: model.Condition{Field: model.FieldPriority, Operator: model.OpEquals, Value: "urgent"},
			task:      model.Task{Priority: model.PriorityLow},
			wantMatch: false,
		},
		{
			name:      "equals is strict, no numeric coercion",
			condition: model.Condition{Field: model.FieldStatus, Operator: model.OpEquals, Value: "1.0"},
			task:      model.Task{Status: "1"},
			wantMatch: false,
		},
		{
			name:      "not_equals match",
			condition: model.Condition{Field: model.FieldStatus, Operator: model.OpNotEquals, Value: "done"},
			task:      model.Task{Status: model.StatusInProgress},
			wantMatch: true,
		},
		{
			name:      "not_equals mismatch",
			condition: model.Condition{Field: model.FieldStatus, Operator: model.OpNotEquals, Value: "done"},
			task:      model.Task{Status: model.StatusDone},
			wantMatch: false,
		},
		{
			name:      "responsible contains substring",
			condition: model.Condition{Field: model.FieldResponsible, Operator: model.OpContains, Value: "ana"},
			task:      model.Task{Responsible: "mariana"},
			wantMatch: true,
		},
		{
			name:      "tags contains probes the joined list",
			condition: model.Condition{Field: model.FieldTags, Operator: model.OpContains, Value: "design"},
			task:      model.Task{Tags: []string{"design", "urgente"}},
			wantMatch: true,
		},
		{
			name:      "tags contains mismatch",
			condition: model.Condition{Field: model.FieldTags, Operator: model.OpContains, Value: "backend"},
			task:      model.Task{Tags: []string{"design"}},
			wantMatch: false,
		},
		{
			name:      "greater_than numeric",
			condition: model.Condition{Field: model.FieldStatus, Operator: model.OpGreaterThan, Value: "2"},
			task:      model.Task{Status: "3"},
			wantMatch: true,
		},
		{
			name:      "greater_than with non-numeric field is false",
			condition: model.Condition{Field: model.FieldPriority, Operator: model.OpGreaterThan, Value: "1"},
			task:      model.Task{Priority: model.PriorityHigh},
			wantMatch: false,
		},
		{
			name:      "less_than with non-numeric value is false",
			condition: model.Condition{Field: model.FieldStatus, Operator: model.OpLessThan, Value: "abc"},
			task:      model.Task{Status: "1"},
			wantMatch: false,
		},
		{
			name:      "unknown field fails closed",
			condition: model.Condition{Field: "assignee", Operator: model.OpEquals, Value: "x"},
			task:      model.Task{Responsible: "x"},
			wantMatch: false,
		},
		{
			name:      "unknown operator fails closed",
			condition: model.Condition{Field: model.FieldStatus, Operator: "matches", Value: "done"},
			task:      model.Task{Status: model.StatusDone},
			wantMatch: false,
		},
		{
			name:      "dueDate less_than 24 for task due in 6 hours",
			condition: model.Condition{Field: model.FieldDueDate, Operator: model.OpLessThan, Value: "24"},
			task:      model.Task{DueDate: "2026-03-10", DueTime: "18:00"},
			wantMatch: true,
		},
		{
			name:      "dueDate greater_than 0 for task due in 6 hours",
			condition: model.Condition{Field: model.FieldDueDate, Operator: model.OpGreaterThan, Value: "0"},
			task:      model.Task{DueDate: "2026-03-10", DueTime: "18:00"},
			wantMatch: true,
		},
		{
			name:      "dueDate less_than 0 for overdue task",
			condition: model.Condition{Field: model.FieldDueDate, Operator: model.OpLessThan, Value: "0"},
			task:      model.Task{DueDate: "2026-03-09", DueTime: "09:00"},
			wantMatch: true,
		},
		{
			name:      "dueDate without a due date fails the condition",
			condition: model.Condition{Field: model.FieldDueDate, Operator: model.OpLessThan, Value: "24"},
			task:      model.Task{},
			wantMatch: false,
		},
		{
			name:      "dueDate with malformed date fails the condition",
			condition: model.Condition{Field: model.FieldDueDate, Operator: model.OpLessThan, Value: "24"},
			task:      model.Task{DueDate: "10/03/2026"},
			wantMatch: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := conditionMatches(tt.condition, tt.task, now)
			if got != tt.wantMatch {
				t.Errorf("conditionMatches() = %v, want %v", got, tt.wantMatch)
			}
		})
	}
}

func TestConditionsMatchAND(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	task := model.Task{Priority: model.PriorityUrgent, Status: model.StatusTodo}

	t.Run("empty condition list matches everything", func(t *testing.T) {
		if !conditionsMatch(nil, task, now) {
			t.Error("expected nil conditions to match")
		}
		if !conditionsMatch([]model.Condition{}, task, now) {
			t.Error("expected empty conditions to match")
		}
	})

	t.Run("all conditions must hold", func(t *testing.T) {
		conds := []model.Condition{
			{Field: model.FieldPriority, Operator: model.OpEquals, Value: "urgent"},
			{Field: model.FieldStatus, Operator: model.OpEquals, Value: "todo"},
		}
		if !conditionsMatch(conds, task, now) {
			t.Error("expected both conditions to hold")
		}

		conds[1].Value = "done"
		if conditionsMatch(conds, task, now) {
			t.Error("expected one failing condition to fail the set")
		}
	})
}

func TestHoursUntilDue(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		task      model.Task
		wantHours float64
		wantOK    bool
	}{
		{
			name:      "explicit due time",
			task:      model.Task{DueDate: "2026-03-10", DueTime: "18:00"},
			wantHours: 6,
			wantOK:    true,
		},
		{
			name:      "due time defaults to end of day",
			task:      model.Task{DueDate: "2026-03-10"},
			wantHours: 11 + 59.0/60,
			wantOK:    true,
		},
		{
			name:      "overdue is negative",
			task:      model.Task{DueDate: "2026-03-09", DueTime: "12:00"},
			wantHours: -24,
			wantOK:    true,
		},
		{
			name:   "no due date",
			task:   model.Task{},
			wantOK: false,
		},
		{
			name:   "malformed due date",
			task:   model.Task{DueDate: "next friday"},
			wantOK: false,
		},
		{
			name:   "malformed due time",
			task:   model.Task{DueDate: "2026-03-10", DueTime: "6pm"},
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := hoursUntilDue(tt.task, now)
			if ok != tt.wantOK {
				t.Fatalf("hoursUntilDue() ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if diff := got - tt.wantHours; diff > 1e-9 || diff < -1e-9 {
				t.Errorf("hoursUntilDue() = %v, want %v", got, tt.wantHours)
			}
		})
	}
}
