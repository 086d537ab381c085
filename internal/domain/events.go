package domain

// NotificationChannel names a delivery transport for order confirmations.
type NotificationChannel string

const (
	ChannelCustomerEmail NotificationChannel = "customer_email"
	ChannelOwnerEmail    NotificationChannel = "owner_email"
	ChannelOwnerTelegram NotificationChannel = "owner_telegram"
)

// NotificationTask is the queue message carried between the order recorder
// and the notify worker. Attempts counts delivery tries already made.
type NotificationTask struct {
	TaskID    string              `json:"task_id"`
	Channel   NotificationChannel `json:"channel"`
	Recipient string              `json:"recipient"`
	Attempts  int                 `json:"attempts"`
	Order     Order               `json:"order"`
}
