package automation

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/coffeeassessoria/sparkboard-automation/internal/model"
	"github.com/coffeeassessoria/sparkboard-automation/internal/store"
)

// fakeEffects records every effect call and can be told to fail specific
// effect kinds.
type fakeEffects struct {
	mu    sync.Mutex
	calls []string
	fail  map[string]error
}

func newFakeEffects() *fakeEffects {
	return &fakeEffects{fail: map[string]error{}}
}

func (f *fakeEffects) record(kind, detail string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, fmt.Sprintf("%s:%s", kind, detail))
	return f.fail[kind]
}

func (f *fakeEffects) AssignUser(ctx context.Context, task model.Task, userID string) error {
	return f.record("assign", userID)
}

func (f *fakeEffects) ChangeStatus(ctx context.Context, task model.Task, status string) error {
	return f.record("status", status)
}

func (f *fakeEffects) AddTag(ctx context.Context, task model.Task, tag string) error {
	return f.record("tag", tag)
}

func (f *fakeEffects) SendEmail(ctx context.Context, task model.Task, params model.EmailParams) error {
	return f.record("email", params.To)
}

func (f *fakeEffects) callList() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.calls))
	copy(out, f.calls)
	return out
}

// fakeTaskSource serves a fixed task list for due-date checks.
type fakeTaskSource struct {
	tasks []model.Task
	err   error
}

func (f *fakeTaskSource) ListActive(ctx context.Context) ([]model.Task, error) {
	return f.tasks, f.err
}

// brokenRuleStore fails every read, standing in for a lost db connection.
type brokenRuleStore struct {
	store.RuleStore
}

var errStoreDown = errors.New("connection refused")

func (brokenRuleStore) List(ctx context.Context) ([]model.AutomationRule, error) {
	return nil, errStoreDown
}

// failOnceRuleStore fails the first List call, then recovers.
type failOnceRuleStore struct {
	store.RuleStore
	failed bool
}

func (s *failOnceRuleStore) List(ctx context.Context) ([]model.AutomationRule, error) {
	if !s.failed {
		s.failed = true
		return nil, errStoreDown
	}
	return s.RuleStore.List(ctx)
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
