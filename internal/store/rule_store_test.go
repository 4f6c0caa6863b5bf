package store

import (
	"context"
	"testing"
	"time"

	"github.com/coffeeassessoria/sparkboard-automation/internal/model"
)

func newRule(name string) model.AutomationRule {
	return model.AutomationRule{
		Name:     name,
		IsActive: true,
		Trigger:  model.Trigger{Type: model.TriggerTaskCreated},
		Actions: []model.Action{
			{Type: model.ActionAddTag, Tag: &model.TagParams{Tag: "x"}},
		},
	}
}

func TestMemoryRuleStore_Add(t *testing.T) {
	s := NewMemoryRuleStore()
	ctx := context.Background()

	dirty := newRule("nova")
	dirty.ID = "caller-chosen"
	dirty.TriggerCount = 42
	stamp := time.Now()
	dirty.LastTriggered = &stamp

	added, err := s.Add(ctx, dirty)
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if added.ID == "" || added.ID == "caller-chosen" {
		t.Errorf("Add() must assign a fresh id, got %q", added.ID)
	}
	if added.TriggerCount != 0 || added.LastTriggered != nil {
		t.Errorf("Add() must zero trigger bookkeeping, got count=%d last=%v", added.TriggerCount, added.LastTriggered)
	}
	if added.CreatedAt.IsZero() {
		t.Error("Add() must stamp CreatedAt")
	}

	got, ok, err := s.Get(ctx, added.ID)
	if err != nil || !ok {
		t.Fatalf("Get() = %v, %v after Add", ok, err)
	}
	if got.Name != "nova" {
		t.Errorf("Get() name = %q", got.Name)
	}
}

func TestMemoryRuleStore_ListOrderAndIsolation(t *testing.T) {
	s := NewMemoryRuleStore()
	ctx := context.Background()

	first, _ := s.Add(ctx, newRule("primeira"))
	s.Add(ctx, newRule("segunda"))

	list, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(list) != 2 || list[0].Name != "primeira" || list[1].Name != "segunda" {
		t.Fatalf("List() = %v, want insertion order", list)
	}

	// Mutating the returned slice must not leak into the store.
	list[0].Name = "alterada"
	got, _, _ := s.Get(ctx, first.ID)
	if got.Name != "primeira" {
		t.Errorf("List() did not return a copy: stored name = %q", got.Name)
	}
}

func TestMemoryRuleStore_Update(t *testing.T) {
	s := NewMemoryRuleStore()
	ctx := context.Background()
	rule, _ := s.Add(ctx, newRule("original"))

	name := "renomeada"
	active := false
	ok, err := s.Update(ctx, rule.ID, RulePatch{Name: &name, IsActive: &active})
	if err != nil || !ok {
		t.Fatalf("Update() = %v, %v", ok, err)
	}

	got, _, _ := s.Get(ctx, rule.ID)
	if got.Name != "renomeada" {
		t.Errorf("name = %q, want renomeada", got.Name)
	}
	if got.IsActive {
		t.Error("IsActive not updated")
	}
	// Untouched fields survive a partial patch.
	if got.Description != rule.Description || got.Trigger.Type != rule.Trigger.Type || len(got.Actions) != 1 {
		t.Errorf("partial patch clobbered untouched fields: %+v", got)
	}

	ok, err = s.Update(ctx, "missing", RulePatch{Name: &name})
	if err != nil {
		t.Fatalf("Update(missing) error = %v", err)
	}
	if ok {
		t.Error("Update(missing) = true, want false")
	}
}

func TestMemoryRuleStore_Remove(t *testing.T) {
	s := NewMemoryRuleStore()
	ctx := context.Background()
	rule, _ := s.Add(ctx, newRule("descartável"))

	ok, err := s.Remove(ctx, rule.ID)
	if err != nil || !ok {
		t.Fatalf("Remove() = %v, %v", ok, err)
	}
	if _, found, _ := s.Get(ctx, rule.ID); found {
		t.Error("rule still present after Remove")
	}

	ok, _ = s.Remove(ctx, rule.ID)
	if ok {
		t.Error("second Remove() = true, want false")
	}
}

func TestMemoryRuleStore_ToggleActive(t *testing.T) {
	s := NewMemoryRuleStore()
	ctx := context.Background()
	rule, _ := s.Add(ctx, newRule("liga desliga"))

	for i, want := range []bool{false, true} {
		ok, err := s.ToggleActive(ctx, rule.ID)
		if err != nil || !ok {
			t.Fatalf("ToggleActive() #%d = %v, %v", i, ok, err)
		}
		got, _, _ := s.Get(ctx, rule.ID)
		if got.IsActive != want {
			t.Errorf("after toggle #%d IsActive = %v, want %v", i, got.IsActive, want)
		}
	}

	if ok, _ := s.ToggleActive(ctx, "missing"); ok {
		t.Error("ToggleActive(missing) = true, want false")
	}
}

func TestMemoryRuleStore_RecordTriggered(t *testing.T) {
	s := NewMemoryRuleStore()
	ctx := context.Background()
	rule, _ := s.Add(ctx, newRule("contada"))

	first := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	second := first.Add(time.Hour)

	for i, at := range []time.Time{first, second} {
		ok, err := s.RecordTriggered(ctx, rule.ID, at)
		if err != nil || !ok {
			t.Fatalf("RecordTriggered() #%d = %v, %v", i, ok, err)
		}
	}

	got, _, _ := s.Get(ctx, rule.ID)
	if got.TriggerCount != 2 {
		t.Errorf("trigger count = %d, want 2", got.TriggerCount)
	}
	if got.LastTriggered == nil || !got.LastTriggered.Equal(second) {
		t.Errorf("last triggered = %v, want %v", got.LastTriggered, second)
	}

	if ok, _ := s.RecordTriggered(ctx, "missing", first); ok {
		t.Error("RecordTriggered(missing) = true, want false")
	}
}

func TestNewMemoryRuleStore_Seed(t *testing.T) {
	seeded := newRule("semente")
	s := NewMemoryRuleStore(seeded)

	list, _ := s.List(context.Background())
	if len(list) != 1 {
		t.Fatalf("got %d rules, want 1", len(list))
	}
	if list[0].ID == "" {
		t.Error("seed rule did not get an id")
	}
	if list[0].CreatedAt.IsZero() {
		t.Error("seed rule did not get a creation timestamp")
	}
}
