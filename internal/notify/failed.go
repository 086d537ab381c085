package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"tableserve/internal/domain"
)

// FailedStore records notification tasks that exhausted their delivery
// attempts so an operator can retry them later.
type FailedStore interface {
	Record(ctx context.Context, task domain.NotificationTask, lastErr string) error
	ListFailed(ctx context.Context) ([]domain.NotificationTask, error)
	MarkQueued(ctx context.Context, taskID string) error
}

type FailedPG struct {
	pool *pgxpool.Pool
}

func NewFailedPG(pool *pgxpool.Pool) *FailedPG { return &FailedPG{pool: pool} }

func (f *FailedPG) Migrate(ctx context.Context) error {
	_, err := f.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS failed_notifications (
			task_id    text PRIMARY KEY,
			channel    text NOT NULL,
			recipient  text NOT NULL DEFAULT '',
			attempts   int NOT NULL,
			payload    jsonb NOT NULL,
			last_error text NOT NULL DEFAULT '',
			status     text NOT NULL DEFAULT 'failed',
			failed_at  timestamptz NOT NULL DEFAULT now()
		)`)
	if err != nil {
		return fmt.Errorf("migrate failed_notifications: %w", err)
	}
	return nil
}

func (f *FailedPG) Record(ctx context.Context, task domain.NotificationTask, lastErr string) error {
	payload, err := json.Marshal(task.Order)
	if err != nil {
		return fmt.Errorf("encode order: %w", err)
	}
	_, err = f.pool.Exec(ctx, `
		INSERT INTO failed_notifications (task_id, channel, recipient, attempts, payload, last_error, status, failed_at)
		VALUES ($1, $2, $3, $4, $5, $6, 'failed', $7)
		ON CONFLICT (task_id) DO UPDATE
		SET attempts = EXCLUDED.attempts, last_error = EXCLUDED.last_error, status = 'failed', failed_at = EXCLUDED.failed_at`,
		task.TaskID, string(task.Channel), task.Recipient, task.Attempts, payload, lastErr, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("record failed notification %s: %w", task.TaskID, err)
	}
	return nil
}

func (f *FailedPG) ListFailed(ctx context.Context) ([]domain.NotificationTask, error) {
	rows, err := f.pool.Query(ctx, `
		SELECT task_id, channel, recipient, attempts, payload
		FROM failed_notifications
		WHERE status = 'failed'
		ORDER BY failed_at`)
	if err != nil {
		return nil, fmt.Errorf("list failed notifications: %w", err)
	}
	defer rows.Close()

	var tasks []domain.NotificationTask
	for rows.Next() {
		var task domain.NotificationTask
		var channel string
		var payload []byte
		if err := rows.Scan(&task.TaskID, &channel, &task.Recipient, &task.Attempts, &payload); err != nil {
			return nil, fmt.Errorf("scan failed notification: %w", err)
		}
		task.Channel = domain.NotificationChannel(channel)
		if err := json.Unmarshal(payload, &task.Order); err != nil {
			return nil, fmt.Errorf("decode order for task %s: %w", task.TaskID, err)
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

func (f *FailedPG) MarkQueued(ctx context.Context, taskID string) error {
	_, err := f.pool.Exec(ctx, `UPDATE failed_notifications SET status = 'queued' WHERE task_id = $1`, taskID)
	if err != nil {
		return fmt.Errorf("mark notification %s queued: %w", taskID, err)
	}
	return nil
}
