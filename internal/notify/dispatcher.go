// Package notify delivers order confirmations to customers and owners.
// The API process only enqueues tasks; actual delivery happens in the
// notify worker so a slow SMTP server never blocks order placement.
package notify

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"tableserve/internal/common/logger"
	"tableserve/internal/common/mq"
	"tableserve/internal/domain"
)

const MaxAttempts = 3

// Publisher is the slice of the queue client the dispatcher needs.
type Publisher interface {
	PublishPersistent(ctx context.Context, exchange, key, correlationID string, headers amqp.Table, body []byte) error
}

// Dispatcher fans one accepted order out into per-channel queue tasks.
type Dispatcher struct {
	pub Publisher
	lg  *logger.Logger

	customerEmail bool
	ownerEmail    string
	ownerChatID   int64
}

type DispatcherOptions struct {
	CustomerEmailEnabled bool
	OwnerEmail           string
	OwnerTelegramChatID  int64
}

func NewDispatcher(pub Publisher, opts DispatcherOptions, lg *logger.Logger) *Dispatcher {
	return &Dispatcher{
		pub:           pub,
		lg:            lg,
		customerEmail: opts.CustomerEmailEnabled,
		ownerEmail:    opts.OwnerEmail,
		ownerChatID:   opts.OwnerTelegramChatID,
	}
}

// Tasks builds the delivery tasks an order produces given the configured
// channels. An order with no customer email simply skips that channel.
func (d *Dispatcher) Tasks(order domain.Order) []domain.NotificationTask {
	var tasks []domain.NotificationTask
	if d.customerEmail && order.Email != "" {
		tasks = append(tasks, domain.NotificationTask{
			TaskID:    uuid.NewString(),
			Channel:   domain.ChannelCustomerEmail,
			Recipient: order.Email,
			Order:     order,
		})
	}
	if d.ownerEmail != "" {
		tasks = append(tasks, domain.NotificationTask{
			TaskID:    uuid.NewString(),
			Channel:   domain.ChannelOwnerEmail,
			Recipient: d.ownerEmail,
			Order:     order,
		})
	}
	if d.ownerChatID != 0 {
		tasks = append(tasks, domain.NotificationTask{
			TaskID:    uuid.NewString(),
			Channel:   domain.ChannelOwnerTelegram,
			Order:     order,
		})
	}
	return tasks
}

// Dispatch enqueues every task for the order. Failures are logged and
// swallowed; the order itself already succeeded.
func (d *Dispatcher) Dispatch(ctx context.Context, order domain.Order) {
	for _, task := range d.Tasks(order) {
		body, err := json.Marshal(task)
		if err != nil {
			d.lg.Error("notification_encode_failed", err, map[string]any{"order_id": order.OrderID})
			continue
		}
		headers := amqp.Table{"x-channel": string(task.Channel)}
		if err := d.pub.PublishPersistent(ctx, mq.NotificationsExchange, mq.NotificationsKey, order.OrderID, headers, body); err != nil {
			d.lg.Error("notification_publish_failed", err, map[string]any{
				"order_id": order.OrderID,
				"channel":  string(task.Channel),
			})
			continue
		}
		d.lg.Debug("notification_enqueued", map[string]any{
			"order_id": order.OrderID,
			"task_id":  task.TaskID,
			"channel":  string(task.Channel),
		})
	}
}
