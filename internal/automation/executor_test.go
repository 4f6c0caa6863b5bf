package automation

import (
	"context"
	"errors"
	"testing"

	"github.com/coffeeassessoria/sparkboard-automation/internal/model"
	"github.com/coffeeassessoria/sparkboard-automation/internal/store"
)

func seedRule(t *testing.T, rules *store.MemoryRuleStore, rule model.AutomationRule) model.AutomationRule {
	t.Helper()
	added, err := rules.Add(context.Background(), rule)
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	return added
}

func TestRunActions_OrderAndEffects(t *testing.T) {
	rules := store.NewMemoryRuleStore()
	engine, sink, fx := newTestEngine(rules)

	rule := seedRule(t, rules, model.AutomationRule{
		Name:     "tudo",
		IsActive: true,
		Trigger:  model.Trigger{Type: model.TriggerTaskCreated},
		Actions: []model.Action{
			{Type: model.ActionAssignUser, Assignment: &model.AssignmentParams{UserID: "u-7"}},
			{Type: model.ActionChangeStatus, Status: &model.StatusParams{Status: model.StatusInProgress}},
			{Type: model.ActionAddTag, Tag: &model.TagParams{Tag: "novo"}},
			{Type: model.ActionSendEmail, Email: &model.EmailParams{To: "time@agencia.com", Subject: "s", Body: "b"}},
		},
	})

	task := model.Task{ID: "t-1", Title: "Tarefa"}
	engine.runActions(context.Background(), rule, task, model.EventContext{})

	want := []string{"assign:u-7", "status:in_progress", "tag:novo", "email:time@agencia.com"}
	calls := fx.callList()
	if len(calls) != len(want) {
		t.Fatalf("effect calls = %v, want %v", calls, want)
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Errorf("call %d = %q, want %q", i, calls[i], want[i])
		}
	}

	notifications, _ := sink.List(context.Background())
	if len(notifications) != 0 {
		t.Errorf("got %d notifications, want 0", len(notifications))
	}

	got, _, _ := rules.Get(context.Background(), rule.ID)
	if got.TriggerCount != 1 {
		t.Errorf("trigger count = %d, want 1 regardless of action count", got.TriggerCount)
	}
}

func TestRunActions_FailedActionDoesNotStopTheRest(t *testing.T) {
	rules := store.NewMemoryRuleStore()
	engine, sink, fx := newTestEngine(rules)
	fx.fail["assign"] = errors.New("task service unavailable")

	rule := seedRule(t, rules, model.AutomationRule{
		Name:     "meio quebrada",
		IsActive: true,
		Trigger:  model.Trigger{Type: model.TriggerTaskCreated},
		Actions: []model.Action{
			{Type: model.ActionAssignUser, Assignment: &model.AssignmentParams{UserID: "u-1"}},
			{Type: model.ActionSendNotification, Notification: &model.NotificationParams{Title: "ainda roda", Message: "m"}},
		},
	})

	engine.runActions(context.Background(), rule, model.Task{ID: "t-2"}, model.EventContext{})

	notifications, _ := sink.List(context.Background())
	if len(notifications) != 1 || notifications[0].Title != "ainda roda" {
		t.Errorf("notifications = %v, want the second action's output", notifications)
	}

	got, _, _ := rules.Get(context.Background(), rule.ID)
	if got.TriggerCount != 1 {
		t.Errorf("trigger count = %d, want 1 even with a failed action", got.TriggerCount)
	}
}

func TestRunAction_MissingParams(t *testing.T) {
	rules := store.NewMemoryRuleStore()
	engine, _, fx := newTestEngine(rules)

	actions := []model.Action{
		{Type: model.ActionSendNotification},
		{Type: model.ActionAssignUser},
		{Type: model.ActionChangeStatus},
		{Type: model.ActionAddTag},
		{Type: model.ActionSendEmail},
	}
	for _, a := range actions {
		if err := engine.runAction(context.Background(), model.AutomationRule{ID: "r"}, a, model.Task{}, model.EventContext{}); err == nil {
			t.Errorf("runAction(%s) with nil params: expected error", a.Type)
		}
	}
	if calls := fx.callList(); len(calls) != 0 {
		t.Errorf("effect calls = %v, want none", calls)
	}
}

func TestRunAction_UnknownTypeSkipped(t *testing.T) {
	rules := store.NewMemoryRuleStore()
	engine, _, fx := newTestEngine(rules)

	err := engine.runAction(context.Background(), model.AutomationRule{ID: "r"}, model.Action{Type: "archive_task"}, model.Task{}, model.EventContext{})
	if err != nil {
		t.Errorf("unknown action type should be skipped, got error %v", err)
	}
	if calls := fx.callList(); len(calls) != 0 {
		t.Errorf("effect calls = %v, want none", calls)
	}
}

func TestRunAction_AddTagSkipsPresentTag(t *testing.T) {
	rules := store.NewMemoryRuleStore()
	engine, _, fx := newTestEngine(rules)

	task := model.Task{ID: "t-3", Tags: []string{"atrasada"}}
	action := model.Action{Type: model.ActionAddTag, Tag: &model.TagParams{Tag: "atrasada"}}
	if err := engine.runAction(context.Background(), model.AutomationRule{ID: "r"}, action, task, model.EventContext{}); err != nil {
		t.Fatalf("runAction() error = %v", err)
	}
	if calls := fx.callList(); len(calls) != 0 {
		t.Errorf("effect calls = %v, want none for an already-present tag", calls)
	}
}

func TestRunAction_AssignUser(t *testing.T) {
	tests := []struct {
		name     string
		params   model.AssignmentParams
		ectx     model.EventContext
		wantCall string
	}{
		{
			name:     "explicit user id",
			params:   model.AssignmentParams{UserID: "u-9"},
			wantCall: "assign:u-9",
		},
		{
			name:     "manager role resolves from project context",
			params:   model.AssignmentParams{Role: model.RoleManager, UserID: "fallback"},
			ectx:     model.EventContext{Project: &model.Project{ID: "p", ManagerID: "mgr-2"}},
			wantCall: "assign:mgr-2",
		},
		{
			name:     "manager role without project context falls back to user id",
			params:   model.AssignmentParams{Role: model.RoleManager, UserID: "u-3"},
			wantCall: "assign:u-3",
		},
		{
			name:   "no resolvable assignee is a no-op",
			params: model.AssignmentParams{Role: model.RoleManager},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rules := store.NewMemoryRuleStore()
			engine, _, fx := newTestEngine(rules)

			action := model.Action{Type: model.ActionAssignUser, Assignment: &tt.params}
			if err := engine.runAction(context.Background(), model.AutomationRule{ID: "r"}, action, model.Task{ID: "t"}, tt.ectx); err != nil {
				t.Fatalf("runAction() error = %v", err)
			}

			calls := fx.callList()
			if tt.wantCall == "" {
				if len(calls) != 0 {
					t.Errorf("effect calls = %v, want none", calls)
				}
				return
			}
			if len(calls) != 1 || calls[0] != tt.wantCall {
				t.Errorf("effect calls = %v, want [%s]", calls, tt.wantCall)
			}
		})
	}
}

func TestSendNotification_DefaultSeverity(t *testing.T) {
	rules := store.NewMemoryRuleStore()
	engine, sink, _ := newTestEngine(rules)

	rule := model.AutomationRule{ID: "r-1", Name: "padrão"}
	params := model.NotificationParams{Title: "t", Message: "m"}
	if err := engine.sendNotification(context.Background(), rule, params, model.Task{ID: "t-4", ProjectID: "p-4"}, model.EventContext{}); err != nil {
		t.Fatalf("sendNotification() error = %v", err)
	}

	notifications, _ := sink.List(context.Background())
	if len(notifications) != 1 {
		t.Fatalf("got %d notifications, want 1", len(notifications))
	}
	n := notifications[0]
	if n.Type != model.NotificationAutomation {
		t.Errorf("severity = %q, want automation default", n.Type)
	}
	if n.ID == "" {
		t.Error("notification id not assigned")
	}
	if n.ProjectID != "p-4" {
		t.Errorf("project id = %q, want p-4", n.ProjectID)
	}
	if n.RuleID != "r-1" || n.RuleName != "padrão" {
		t.Errorf("rule linkage = %q/%q", n.RuleID, n.RuleName)
	}
	if n.IsRead {
		t.Error("new notification must be unread")
	}
}
