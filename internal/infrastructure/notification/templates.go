package notification

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/DanielPopoola/gymfit-backoffice/internal/application"
)

type messageText struct {
	Subject string
	Heading string
	Intro   string
}

var messageCopy = map[application.NotificationKind]messageText{
	application.NotificationOrderConfirmation: {
		Subject: "Your GymFit order %s is confirmed",
		Heading: "Thanks for your order",
		Intro:   "We received your payment and are preparing your supplements.",
	},
	application.NotificationOrderDelivered: {
		Subject: "Your GymFit order %s was delivered",
		Heading: "Your order has arrived",
		Intro:   "Your order has been marked as delivered. Enjoy your training.",
	},
	application.NotificationOrderCancelled: {
		Subject: "Your GymFit order %s was cancelled",
		Heading: "Your order was cancelled",
		Intro:   "Your order has been cancelled and any payment has been refunded.",
	},
	application.NotificationAdminNewOrder: {
		Subject: "[Back office] New order %s",
		Heading: "New order received",
		Intro:   "A member completed checkout. The order is waiting to be fulfilled.",
	},
	application.NotificationAdminCancelled: {
		Subject: "[Back office] Order %s cancelled",
		Heading: "Order cancelled",
		Intro:   "An order was cancelled and refunded.",
	},
}

// one layout for every kind; messageCopy supplies the wording
var orderTemplate = template.Must(template.New("order").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: -apple-system, 'Segoe UI', Roboto, sans-serif; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
	<h1 style="font-size: 22px;">{{.Heading}}</h1>
	{{if .RecipientName}}<p>Hi {{.RecipientName}},</p>{{end}}
	<p>{{.Intro}}</p>
	<p style="font-family: monospace;">Order {{.OrderID}}</p>
	<table style="width: 100%; border-collapse: collapse;">
		<thead>
			<tr>
				<th style="text-align: left;">Product</th>
				<th style="text-align: center;">Qty</th>
				<th style="text-align: right;">Unit price</th>
				<th style="text-align: right;">Subtotal</th>
			</tr>
		</thead>
		<tbody>
			{{range .Items}}<tr>
				<td>#{{.ProductID}}</td>
				<td style="text-align: center;">{{.Quantity}}</td>
				<td style="text-align: right;">{{.UnitPrice}}</td>
				<td style="text-align: right;">{{.LineTotal}}</td>
			</tr>{{end}}
		</tbody>
	</table>
	<p style="text-align: right; font-size: 18px; font-weight: bold;">Total {{.Total}}</p>
	{{if .Reason}}<p>Reason: {{.Reason}}</p>{{end}}
</body>
</html>`))

type itemView struct {
	ProductID int64
	Quantity  int
	UnitPrice string
	LineTotal string
}

type orderView struct {
	Heading       string
	Intro         string
	RecipientName string
	OrderID       string
	Items         []itemView
	Total         string
	Reason        string
}

// renderMessage builds the subject and HTML body for n.
func renderMessage(n application.Notification, recipientName string) (string, string, error) {
	text, ok := messageCopy[n.Kind]
	if !ok {
		return "", "", fmt.Errorf("no template for notification kind %q", n.Kind)
	}
	if n.Order == nil {
		return "", "", fmt.Errorf("notification %q has no order", n.Kind)
	}

	view := orderView{
		Heading:       text.Heading,
		Intro:         text.Intro,
		RecipientName: recipientName,
		OrderID:       n.Order.ID,
		Total:         n.Order.TotalAmount.StringFixed(2),
	}
	for _, item := range n.Order.Items {
		view.Items = append(view.Items, itemView{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPriceAtPurchase.StringFixed(2),
			LineTotal: item.LineTotal().StringFixed(2),
		})
	}
	if n.Order.CancellationReason != nil {
		view.Reason = *n.Order.CancellationReason
	}

	var buf bytes.Buffer
	if err := orderTemplate.Execute(&buf, view); err != nil {
		return "", "", fmt.Errorf("render %s: %w", n.Kind, err)
	}

	return fmt.Sprintf(text.Subject, shortID(n.Order.ID)), buf.String(), nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
