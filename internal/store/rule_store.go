package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/coffeeassessoria/sparkboard-automation/internal/model"
)

// RulePatch holds the fields a partial rule update may change. Nil fields are
// left untouched.
type RulePatch struct {
	Name        *string
	Description *string
	Trigger     *model.Trigger
	Actions     []model.Action
	IsActive    *bool
}

// RuleStore is the authoritative collection of automation rules. Unknown ids
// are reported through the bool return, never as an error; the error return
// is reserved for backend failures (the in-memory store never produces one).
type RuleStore interface {
	List(ctx context.Context) ([]model.AutomationRule, error)
	Get(ctx context.Context, id string) (model.AutomationRule, bool, error)
	Add(ctx context.Context, rule model.AutomationRule) (model.AutomationRule, error)
	Update(ctx context.Context, id string, patch RulePatch) (bool, error)
	Remove(ctx context.Context, id string) (bool, error)
	ToggleActive(ctx context.Context, id string) (bool, error)
	RecordTriggered(ctx context.Context, id string, at time.Time) (bool, error)
}

// MemoryRuleStore keeps rules in memory for the lifetime of the process.
type MemoryRuleStore struct {
	mu    sync.RWMutex
	rules []model.AutomationRule
}

// NewMemoryRuleStore creates a store pre-populated with the given seed rules.
// Seed rules without an id get one assigned.
func NewMemoryRuleStore(seed ...model.AutomationRule) *MemoryRuleStore {
	s := &MemoryRuleStore{}
	for _, r := range seed {
		if r.ID == "" {
			r.ID = uuid.NewString()
		}
		if r.CreatedAt.IsZero() {
			r.CreatedAt = time.Now()
		}
		s.rules = append(s.rules, r)
	}
	return s
}

// List returns a defensive copy of all rules in insertion order.
func (s *MemoryRuleStore) List(ctx context.Context) ([]model.AutomationRule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.AutomationRule, len(s.rules))
	copy(out, s.rules)
	return out, nil
}

func (s *MemoryRuleStore) Get(ctx context.Context, id string) (model.AutomationRule, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, r := range s.rules {
		if r.ID == id {
			return r, true, nil
		}
	}
	return model.AutomationRule{}, false, nil
}

// Add assigns a fresh id and creation timestamp, zeroes the trigger counters
// and appends the rule.
func (s *MemoryRuleStore) Add(ctx context.Context, rule model.AutomationRule) (model.AutomationRule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rule.ID = uuid.NewString()
	rule.CreatedAt = time.Now()
	rule.TriggerCount = 0
	rule.LastTriggered = nil
	s.rules = append(s.rules, rule)
	return rule, nil
}

func (s *MemoryRuleStore) Update(ctx context.Context, id string, patch RulePatch) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.rules {
		if s.rules[i].ID != id {
			continue
		}
		if patch.Name != nil {
			s.rules[i].Name = *patch.Name
		}
		if patch.Description != nil {
			s.rules[i].Description = *patch.Description
		}
		if patch.Trigger != nil {
			s.rules[i].Trigger = *patch.Trigger
		}
		if patch.Actions != nil {
			s.rules[i].Actions = patch.Actions
		}
		if patch.IsActive != nil {
			s.rules[i].IsActive = *patch.IsActive
		}
		return true, nil
	}
	return false, nil
}

func (s *MemoryRuleStore) Remove(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.rules {
		if s.rules[i].ID == id {
			s.rules = append(s.rules[:i], s.rules[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (s *MemoryRuleStore) ToggleActive(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.rules {
		if s.rules[i].ID == id {
			s.rules[i].IsActive = !s.rules[i].IsActive
			return true, nil
		}
	}
	return false, nil
}

// RecordTriggered increments the trigger count and stamps the last-triggered
// time. Called once per rule match, after all actions ran.
func (s *MemoryRuleStore) RecordTriggered(ctx context.Context, id string, at time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.rules {
		if s.rules[i].ID == id {
			s.rules[i].TriggerCount++
			t := at
			s.rules[i].LastTriggered = &t
			return true, nil
		}
	}
	return false, nil
}
