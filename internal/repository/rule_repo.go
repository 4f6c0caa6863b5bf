package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/coffeeassessoria/sparkboard-automation/internal/model"
	"github.com/coffeeassessoria/sparkboard-automation/internal/store"
)

// RuleRepository is the Postgres-backed rule store. Trigger and actions are
// stored as jsonb so rule shape changes don't need migrations.
type RuleRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

var _ store.RuleStore = (*RuleRepository)(nil)

func NewRuleRepository(db *pgxpool.Pool, logger *zap.Logger) *RuleRepository {
	return &RuleRepository{db: db, logger: logger}
}

const ruleColumns = `id, name, description, trigger, actions, is_active, created_at, last_triggered, trigger_count`

func (r *RuleRepository) List(ctx context.Context) ([]model.AutomationRule, error) {
	query := `SELECT ` + ruleColumns + ` FROM automation_rules ORDER BY created_at, id`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.logger.Error("Failed to list rules", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var rules []model.AutomationRule
	for rows.Next() {
		rule, err := scanRule(rows.Scan)
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	return rules, rows.Err()
}

func (r *RuleRepository) Get(ctx context.Context, id string) (model.AutomationRule, bool, error) {
	query := `SELECT ` + ruleColumns + ` FROM automation_rules WHERE id = $1`

	rule, err := scanRule(r.db.QueryRow(ctx, query, id).Scan)
	if err != nil {
		if isNoRows(err) {
			return model.AutomationRule{}, false, nil
		}
		return model.AutomationRule{}, false, err
	}
	return rule, true, nil
}

func (r *RuleRepository) Add(ctx context.Context, rule model.AutomationRule) (model.AutomationRule, error) {
	rule.ID = uuid.NewString()
	rule.CreatedAt = time.Now()
	rule.TriggerCount = 0
	rule.LastTriggered = nil

	triggerJSON, err := json.Marshal(rule.Trigger)
	if err != nil {
		return model.AutomationRule{}, fmt.Errorf("failed to marshal trigger: %w", err)
	}
	actionsJSON, err := json.Marshal(rule.Actions)
	if err != nil {
		return model.AutomationRule{}, fmt.Errorf("failed to marshal actions: %w", err)
	}

	query := `
        INSERT INTO automation_rules (id, name, description, trigger, actions, is_active, created_at, trigger_count)
        VALUES ($1, $2, $3, $4, $5, $6, $7, 0)
    `
	if _, err := r.db.Exec(ctx, query, rule.ID, rule.Name, rule.Description, triggerJSON, actionsJSON, rule.IsActive, rule.CreatedAt); err != nil {
		r.logger.Error("Failed to insert rule", zap.String("name", rule.Name), zap.Error(err))
		return model.AutomationRule{}, err
	}

	r.logger.Info("Rule inserted", zap.String("id", rule.ID), zap.String("name", rule.Name))
	return rule, nil
}

// Update applies a partial patch in a read-modify-write transaction.
func (r *RuleRepository) Update(ctx context.Context, id string, patch store.RulePatch) (bool, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer tx.Rollback(ctx)

	query := `SELECT ` + ruleColumns + ` FROM automation_rules WHERE id = $1 FOR UPDATE`
	rule, err := scanRule(tx.QueryRow(ctx, query, id).Scan)
	if err != nil {
		if isNoRows(err) {
			return false, nil
		}
		return false, err
	}

	if patch.Name != nil {
		rule.Name = *patch.Name
	}
	if patch.Description != nil {
		rule.Description = *patch.Description
	}
	if patch.Trigger != nil {
		rule.Trigger = *patch.Trigger
	}
	if patch.Actions != nil {
		rule.Actions = patch.Actions
	}
	if patch.IsActive != nil {
		rule.IsActive = *patch.IsActive
	}

	triggerJSON, err := json.Marshal(rule.Trigger)
	if err != nil {
		return false, fmt.Errorf("failed to marshal trigger: %w", err)
	}
	actionsJSON, err := json.Marshal(rule.Actions)
	if err != nil {
		return false, fmt.Errorf("failed to marshal actions: %w", err)
	}

	update := `
        UPDATE automation_rules
        SET name = $2, description = $3, trigger = $4, actions = $5, is_active = $6
        WHERE id = $1
    `
	if _, err := tx.Exec(ctx, update, id, rule.Name, rule.Description, triggerJSON, actionsJSON, rule.IsActive); err != nil {
		return false, err
	}

	return true, tx.Commit(ctx)
}

func (r *RuleRepository) Remove(ctx context.Context, id string) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM automation_rules WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *RuleRepository) ToggleActive(ctx context.Context, id string) (bool, error) {
	tag, err := r.db.Exec(ctx, `UPDATE automation_rules SET is_active = NOT is_active WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *RuleRepository) RecordTriggered(ctx context.Context, id string, at time.Time) (bool, error) {
	query := `
        UPDATE automation_rules
        SET trigger_count = trigger_count + 1, last_triggered = $2
        WHERE id = $1
    `
	tag, err := r.db.Exec(ctx, query, id, at)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// scanRule reads one rule row; works for both Query and QueryRow scans.
func scanRule(scan func(dest ...any) error) (model.AutomationRule, error) {
	var (
		rule        model.AutomationRule
		triggerJSON []byte
		actionsJSON []byte
	)
	err := scan(
		&rule.ID,
		&rule.Name,
		&rule.Description,
		&triggerJSON,
		&actionsJSON,
		&rule.IsActive,
		&rule.CreatedAt,
		&rule.LastTriggered,
		&rule.TriggerCount,
	)
	if err != nil {
		return model.AutomationRule{}, err
	}

	if err := json.Unmarshal(triggerJSON, &rule.Trigger); err != nil {
		return model.AutomationRule{}, fmt.Errorf("failed to unmarshal trigger: %w", err)
	}
	if len(actionsJSON) > 0 {
		if err := json.Unmarshal(actionsJSON, &rule.Actions); err != nil {
			return model.AutomationRule{}, fmt.Errorf("failed to unmarshal actions: %w", err)
		}
	}
	return rule, nil
}
