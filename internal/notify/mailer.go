package notify

import (
	"fmt"
	"net/smtp"
	"strings"

	"tableserve/internal/domain"
)

// Mailer sends a single email. Satisfied by SMTPMailer in production and
// by fakes in tests.
type Mailer interface {
	Send(to, subject, htmlBody string) error
}

// SMTPMailer delivers mail over plain SMTP with AUTH.
type SMTPMailer struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string

	Restaurant string
	Tagline    string
}

func (m *SMTPMailer) Send(to, subject, htmlBody string) error {
	addr := fmt.Sprintf("%s:%d", m.Host, m.Port)
	auth := smtp.PlainAuth("", m.User, m.Password, m.Host)

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %q <%s>\r\n", m.Restaurant, m.From)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(htmlBody)

	if err := smtp.SendMail(addr, auth, m.From, []string{to}, []byte(msg.String())); err != nil {
		return fmt.Errorf("smtp send to %s: %w", to, err)
	}
	return nil
}

// CustomerSubject and CustomerBody render the confirmation mail sent to
// the customer after a successful order.
func CustomerSubject(order domain.Order) string {
	return "Order Confirmation - " + order.OrderID
}

func CustomerBody(restaurant, tagline string, order domain.Order) string {
	var b strings.Builder
	b.WriteString(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">`)
	fmt.Fprintf(&b, `<div style="background: #ff6b35; padding: 30px; text-align: center; color: white;"><h1 style="margin: 0;">%s</h1><p style="margin: 10px 0 0 0;">Order Confirmation</p></div>`, restaurant)
	b.WriteString(`<div style="padding: 30px; background: #f9f9f9;">`)

	name := order.CustomerName
	if name == "" {
		name = "Valued Customer"
	}
	fmt.Fprintf(&b, `<h2 style="color: #ff6b35;">Order Placed Successfully!</h2><p>Thank you for your order, <strong>%s</strong>!</p><p>Your order has been received and is being prepared.</p>`, name)

	b.WriteString(`<table style="width: 100%; border-collapse: collapse;">`)
	fmt.Fprintf(&b, `<tr><td style="padding: 8px 0; color: #666;"><strong>Order ID:</strong></td><td style="padding: 8px 0; text-align: right;">%s</td></tr>`, order.OrderID)
	fmt.Fprintf(&b, `<tr><td style="padding: 8px 0; color: #666;"><strong>Table Number:</strong></td><td style="padding: 8px 0; text-align: right;">%s</td></tr>`, order.TableNumber)
	fmt.Fprintf(&b, `<tr><td style="padding: 8px 0; color: #666;"><strong>Order Time:</strong></td><td style="padding: 8px 0; text-align: right;">%s</td></tr>`, order.Timestamp)
	b.WriteString(`</table>`)

	b.WriteString(`<h3 style="color: #333;">Your Items</h3><ul style="list-style: none; padding: 0;">`)
	for _, item := range order.Items {
		fmt.Fprintf(&b, `<li style="padding: 10px 0; border-bottom: 1px solid #eee;"><strong>%s</strong> x%d <span style="float: right; color: #ff6b35;">&#8377;%.2f</span></li>`,
			item.Name, item.Quantity, item.Price*float64(item.Quantity))
	}
	b.WriteString(`</ul>`)
	fmt.Fprintf(&b, `<p style="border-top: 2px solid #ff6b35; padding-top: 15px;"><strong style="font-size: 1.2em;">Total Amount: &#8377;%.2f</strong></p>`, order.Total)

	b.WriteString(`</div>`)
	fmt.Fprintf(&b, `<div style="background: #333; padding: 20px; text-align: center; color: white;"><p style="margin: 0; font-size: 0.9em;">Thank you for dining with us!</p><p style="margin: 5px 0 0 0; font-size: 0.8em; color: #999;">%s | %s</p></div>`, restaurant, tagline)
	b.WriteString(`</div>`)
	return b.String()
}

// OwnerSubject and OwnerBody render the new-order alert sent to the owner.
func OwnerSubject(order domain.Order) string {
	return fmt.Sprintf("New Order %s - Table %s", order.OrderID, order.TableNumber)
}

func OwnerBody(restaurant string, order domain.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<div style="font-family: Arial, sans-serif;"><h2>%s - New Order</h2>`, restaurant)
	fmt.Fprintf(&b, `<p><strong>Order:</strong> %s<br><strong>Table:</strong> %s<br><strong>Customer:</strong> %s<br><strong>Mobile:</strong> %s<br><strong>Placed:</strong> %s</p>`,
		order.OrderID, order.TableNumber, order.CustomerName, order.Mobile, order.Timestamp)
	b.WriteString(`<ul>`)
	for _, item := range order.Items {
		fmt.Fprintf(&b, `<li>%s x%d (&#8377;%.2f)</li>`, item.Name, item.Quantity, item.Price*float64(item.Quantity))
	}
	b.WriteString(`</ul>`)
	fmt.Fprintf(&b, `<p><strong>Total: &#8377;%.2f</strong></p></div>`, order.Total)
	return b.String()
}
