package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"tableserve/internal/common/logger"
	"tableserve/internal/common/mq"
	"tableserve/internal/domain"
)

var (
	ErrRequeue = errors.New("requeue")     // nack(requeue=true)
	ErrDLQ     = errors.New("dead_letter") // nack(requeue=false)
)

// Worker drains the notification queue and delivers each task over its
// channel. A task that keeps failing is parked in the failed store after
// MaxAttempts tries instead of circulating forever.
type Worker struct {
	client   *mq.Client
	pub      Publisher
	mailer   Mailer
	telegram TelegramSender
	failed   FailedStore
	lg       *logger.Logger

	Restaurant  string
	Tagline     string
	OwnerChatID int64
	Name        string
	Prefetch    int
}

func NewWorker(client *mq.Client, mailer Mailer, telegram TelegramSender, failed FailedStore, lg *logger.Logger) *Worker {
	return &Worker{
		client:   client,
		pub:      client,
		mailer:   mailer,
		telegram: telegram,
		failed:   failed,
		lg:       lg,
		Name:     "notify-worker",
		Prefetch: 1,
	}
}

func (w *Worker) Run(ctx context.Context) error {
	msgs, err := w.client.Consume(mq.NotificationsQueue, w.Name, w.Prefetch)
	if err != nil {
		return fmt.Errorf("consume %s: %w", mq.NotificationsQueue, err)
	}
	w.lg.Info("worker_started", map[string]any{"queue": mq.NotificationsQueue, "prefetch": w.Prefetch})

	done := make(chan struct{})
	go func() {
		defer close(done)
		for d := range msgs {
			err := w.processOne(ctx, d)
			switch {
			case err == nil:
				_ = d.Ack(false)
			case errors.Is(err, ErrDLQ):
				_ = d.Nack(false, false)
			default:
				_ = d.Nack(false, true)
			}
		}
	}()

	select {
	case <-ctx.Done():
	case <-done:
	}
	w.lg.Info("worker_stopped", nil)
	return nil
}

func (w *Worker) processOne(ctx context.Context, d amqp.Delivery) error {
	var task domain.NotificationTask
	if err := json.Unmarshal(d.Body, &task); err != nil {
		w.lg.Error("task_decode_failed", err, map[string]any{"correlation_id": d.CorrelationId})
		return ErrDLQ
	}
	return w.handleTask(ctx, task)
}

// handleTask delivers one task. Delivery failures are retried by
// republishing with an incremented attempt count; the original message is
// acked either way so prefetch never clogs on a broken recipient.
func (w *Worker) handleTask(ctx context.Context, task domain.NotificationTask) error {
	err := w.deliver(task)
	if err == nil {
		w.lg.Info("notification_sent", map[string]any{
			"task_id":  task.TaskID,
			"order_id": task.Order.OrderID,
			"channel":  string(task.Channel),
		})
		return nil
	}
	if errors.Is(err, ErrDLQ) {
		return err
	}

	task.Attempts++
	if task.Attempts < MaxAttempts {
		w.lg.Warn("notification_retry", map[string]any{
			"task_id":  task.TaskID,
			"attempts": task.Attempts,
			"error":    err.Error(),
		})
		body, merr := json.Marshal(task)
		if merr != nil {
			return ErrDLQ
		}
		headers := amqp.Table{"x-channel": string(task.Channel)}
		if perr := w.pub.PublishPersistent(ctx, mq.NotificationsExchange, mq.NotificationsKey, task.Order.OrderID, headers, body); perr != nil {
			return ErrRequeue
		}
		return nil
	}

	w.lg.Error("notification_failed", err, map[string]any{
		"task_id":  task.TaskID,
		"order_id": task.Order.OrderID,
		"channel":  string(task.Channel),
		"attempts": task.Attempts,
	})
	if w.failed != nil {
		if serr := w.failed.Record(ctx, task, err.Error()); serr != nil {
			return ErrRequeue
		}
	}
	return nil
}

func (w *Worker) deliver(task domain.NotificationTask) error {
	switch task.Channel {
	case domain.ChannelCustomerEmail:
		if w.mailer == nil {
			return ErrDLQ
		}
		return w.mailer.Send(task.Recipient, CustomerSubject(task.Order), CustomerBody(w.Restaurant, w.Tagline, task.Order))
	case domain.ChannelOwnerEmail:
		if w.mailer == nil {
			return ErrDLQ
		}
		return w.mailer.Send(task.Recipient, OwnerSubject(task.Order), OwnerBody(w.Restaurant, task.Order))
	case domain.ChannelOwnerTelegram:
		if w.telegram == nil {
			return ErrDLQ
		}
		return w.telegram.SendText(w.OwnerChatID, TelegramOrderText(w.Restaurant, task.Order))
	default:
		return ErrDLQ
	}
}

// RetryFailed re-enqueues every parked notification and marks it queued.
// Returns how many tasks went back on the queue.
func (d *Dispatcher) RetryFailed(ctx context.Context, store FailedStore) (int, error) {
	tasks, err := store.ListFailed(ctx)
	if err != nil {
		return 0, err
	}
	requeued := 0
	for _, task := range tasks {
		task.Attempts = 0
		body, err := json.Marshal(task)
		if err != nil {
			continue
		}
		headers := amqp.Table{"x-channel": string(task.Channel)}
		if err := d.pub.PublishPersistent(ctx, mq.NotificationsExchange, mq.NotificationsKey, task.Order.OrderID, headers, body); err != nil {
			return requeued, fmt.Errorf("republish task %s: %w", task.TaskID, err)
		}
		if err := store.MarkQueued(ctx, task.TaskID); err != nil {
			return requeued, err
		}
		requeued++
	}
	d.lg.Info("failed_notifications_requeued", map[string]any{"count": requeued})
	return requeued, nil
}
