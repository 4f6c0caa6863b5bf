package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/coffeeassessoria/sparkboard-automation/internal/model"
	"github.com/coffeeassessoria/sparkboard-automation/internal/store"
)

// NotificationRepository is the Postgres-backed notification sink.
type NotificationRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

var _ store.NotificationSink = (*NotificationRepository)(nil)

func NewNotificationRepository(db *pgxpool.Pool, logger *zap.Logger) *NotificationRepository {
	return &NotificationRepository{db: db, logger: logger}
}

func (r *NotificationRepository) Append(ctx context.Context, n model.Notification) error {
	query := `
        INSERT INTO notifications (id, type, title, message, task_id, project_id, is_read, created_at, rule_id, rule_name)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
    `
	_, err := r.db.Exec(ctx, query,
		n.ID, string(n.Type), n.Title, n.Message, n.TaskID, n.ProjectID, n.IsRead, n.CreatedAt, n.RuleID, n.RuleName,
	)
	if err != nil {
		r.logger.Error("Failed to insert notification",
			zap.String("id", n.ID),
			zap.String("rule_id", n.RuleID),
			zap.Error(err),
		)
		return err
	}

	r.logger.Info("Notification inserted",
		zap.String("id", n.ID),
		zap.String("task_id", n.TaskID),
	)
	return nil
}

func (r *NotificationRepository) List(ctx context.Context) ([]model.Notification, error) {
	query := `
        SELECT id, type, title, message, task_id, project_id, is_read, created_at, rule_id, rule_name
        FROM notifications
        ORDER BY created_at, id
    `
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.logger.Error("Failed to list notifications", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var out []model.Notification
	for rows.Next() {
		var n model.Notification
		var typ string
		if err := rows.Scan(&n.ID, &typ, &n.Title, &n.Message, &n.TaskID, &n.ProjectID, &n.IsRead, &n.CreatedAt, &n.RuleID, &n.RuleName); err != nil {
			return nil, err
		}
		n.Type = model.NotificationType(typ)
		out = append(out, n)
	}
	return out, rows.Err()
}

func (r *NotificationRepository) MarkRead(ctx context.Context, id string) (bool, error) {
	tag, err := r.db.Exec(ctx, `UPDATE notifications SET is_read = TRUE WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *NotificationRepository) Delete(ctx context.Context, id string) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM notifications WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
