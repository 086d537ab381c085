package notify

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"tableserve/internal/domain"
)

// TelegramSender pushes a text message to a chat. Satisfied by OwnerBot
// and by fakes in tests.
type TelegramSender interface {
	SendText(chatID int64, text string) error
}

// OwnerBot wraps the bot API for one-way owner alerts. It never polls
// for updates.
type OwnerBot struct {
	api *tgbotapi.BotAPI
}

func NewOwnerBot(token string) (*OwnerBot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram auth: %w", err)
	}
	return &OwnerBot{api: api}, nil
}

func (b *OwnerBot) SendText(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	return nil
}

// TelegramOrderText renders the owner alert for an accepted order.
func TelegramOrderText(restaurant string, order domain.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "New order at %s\n\n", restaurant)
	fmt.Fprintf(&b, "Order: %s\nTable: %s\nCustomer: %s\n", order.OrderID, order.TableNumber, order.CustomerName)
	if order.Mobile != "" {
		fmt.Fprintf(&b, "Mobile: %s\n", order.Mobile)
	}
	b.WriteString("\n")
	for _, item := range order.Items {
		fmt.Fprintf(&b, "- %s x%d (₹%.2f)\n", item.Name, item.Quantity, item.Price*float64(item.Quantity))
	}
	fmt.Fprintf(&b, "\nTotal: ₹%.2f\nPlaced: %s", order.Total, order.Timestamp)
	return b.String()
}
