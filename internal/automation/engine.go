// Package automation implements the rule engine behind sparkboard's
// task automations: lifecycle events are dispatched against the active rules,
// matching rules run their actions, and generated notifications land in the
// sink and fan out to subscribers.
package automation

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/coffeeassessoria/sparkboard-automation/internal/effects"
	"github.com/coffeeassessoria/sparkboard-automation/internal/model"
	"github.com/coffeeassessoria/sparkboard-automation/internal/store"
	"github.com/coffeeassessoria/sparkboard-automation/pkg/metrics"
)

// TaskSource supplies the set of active tasks for the periodic due-date
// check. The host application owns the task data; the engine only reads it.
type TaskSource interface {
	ListActive(ctx context.Context) ([]model.Task, error)
}

// Listener receives every notification the engine creates, synchronously.
type Listener func(model.Notification)

type Engine struct {
	rules   store.RuleStore
	sink    store.NotificationSink
	effects effects.Effects
	tasks   TaskSource
	logger  *zap.Logger
	now     func() time.Time

	mu        sync.Mutex
	listeners map[int]Listener
	nextID    int
}

type Option func(*Engine)

// WithClock replaces the engine's time source, so tests can pin "now" instead
// of waiting on the wall clock.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithTaskSource supplies the active-task enumeration used by CheckDueDates.
// Without one the due-date check is a no-op.
func WithTaskSource(ts TaskSource) Option {
	return func(e *Engine) { e.tasks = ts }
}

func NewEngine(rules store.RuleStore, sink store.NotificationSink, fx effects.Effects, logger *zap.Logger, opts ...Option) *Engine {
	e := &Engine{
		rules:     rules,
		sink:      sink,
		effects:   fx,
		logger:    logger,
		now:       time.Now,
		listeners: make(map[int]Listener),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// OnTaskCreated dispatches the task_created trigger for a freshly created
// task. The returned error reports infrastructure failures (rule listing)
// only; rule and action failures never propagate.
func (e *Engine) OnTaskCreated(ctx context.Context, task model.Task, ectx model.EventContext) error {
	return e.dispatch(ctx, model.TriggerTaskCreated, task, ectx)
}

// OnTaskUpdated dispatches every trigger the mutation implies: status_changed
// when the status differs, task_completed when the task just entered the
// terminal status, and task_updated always. The dispatches are cumulative,
// not mutually exclusive; a failing dispatch does not stop the later ones.
func (e *Engine) OnTaskUpdated(ctx context.Context, task, previous model.Task, ectx model.EventContext) error {
	var errs []error
	if task.Status != previous.Status {
		if err := e.dispatch(ctx, model.TriggerStatusChanged, task, ectx); err != nil {
			errs = append(errs, err)
		}
	}
	if task.Status == model.StatusDone && previous.Status != model.StatusDone {
		if err := e.dispatch(ctx, model.TriggerTaskCompleted, task, ectx); err != nil {
			errs = append(errs, err)
		}
	}
	if err := e.dispatch(ctx, model.TriggerTaskUpdated, task, ectx); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// CheckDueDates dispatches due_date_approaching for every active task. This
// is a polling design: it runs once per scheduler tick and deliberately does
// not deduplicate across ticks, so a rule whose condition stays true refires
// every interval.
func (e *Engine) CheckDueDates(ctx context.Context) error {
	if e.tasks == nil {
		e.logger.Debug("Due-date check skipped: no task source configured")
		return nil
	}

	tasks, err := e.tasks.ListActive(ctx)
	if err != nil {
		e.logger.Error("Failed to list active tasks for due-date check", zap.Error(err))
		return err
	}

	for _, task := range tasks {
		if err := e.dispatch(ctx, model.TriggerDueDateApproaching, task, model.EventContext{}); err != nil {
			return err
		}
	}

	e.logger.Debug("Due-date check completed", zap.Int("task_count", len(tasks)))
	return nil
}

// dispatch routes one lifecycle event to every active rule of the matching
// trigger type.
func (e *Engine) dispatch(ctx context.Context, trigger model.TriggerType, task model.Task, ectx model.EventContext) error {
	rules, err := e.rules.List(ctx)
	if err != nil {
		e.logger.Error("Failed to list rules for dispatch",
			zap.String("trigger", string(trigger)),
			zap.Error(err),
		)
		return err
	}

	now := e.now()
	for _, rule := range rules {
		if !rule.IsActive || rule.Trigger.Type != trigger {
			continue
		}
		metrics.IncrementRuleEvaluated(string(trigger))
		if !e.ruleMatches(rule, task, now) {
			continue
		}

		e.logger.Info("Automation rule matched",
			zap.String("rule_id", rule.ID),
			zap.String("rule_name", rule.Name),
			zap.String("trigger", string(trigger)),
			zap.String("task_id", task.ID),
		)
		metrics.IncrementRuleMatched(string(trigger))
		e.runActions(ctx, rule, task, ectx)
	}
	return nil
}

// ruleMatches evaluates one rule's conditions, recovering from panics so a
// malformed rule cannot abort the remaining rules in the dispatch loop.
func (e *Engine) ruleMatches(rule model.AutomationRule, task model.Task, now time.Time) (matched bool) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("Rule evaluation panic recovered",
				zap.String("rule_id", rule.ID),
				zap.Any("panic", r),
			)
			matched = false
		}
	}()
	return conditionsMatch(rule.Trigger.Conditions, task, now)
}

// Subscribe registers a listener for every newly created notification. The
// returned func removes the listener again.
func (e *Engine) Subscribe(fn Listener) func() {
	e.mu.Lock()
	defer e.mu.Unlock()

	id := e.nextID
	e.nextID++
	e.listeners[id] = fn
	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		delete(e.listeners, id)
	}
}

func (e *Engine) broadcast(n model.Notification) {
	e.mu.Lock()
	fns := make([]Listener, 0, len(e.listeners))
	for _, fn := range e.listeners {
		fns = append(fns, fn)
	}
	e.mu.Unlock()

	for _, fn := range fns {
		fn(n)
	}
}
