package mail

import (
	"strings"
	"testing"

	"github.com/fairyhunter13/printshop/internal/model"
)

func sampleOrder() *model.Order {
	return &model.Order{
		OrderNumber:   "ORD-ABC123-XY9Z",
		CustomerName:  "Ada",
		CustomerEmail: "ada@example.com",
		Subtotal:      2499,
		ShippingCost:  500,
		Total:         2999,
		Items: []model.OrderItem{
			{ProductName: "Dragon Figurine", PriceAtTime: 2499, Quantity: 1},
		},
	}
}

func TestOrderConfirmation(t *testing.T) {
	msg, err := OrderConfirmation(sampleOrder(), "3D Print Shop", "usd")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if msg.To != "ada@example.com" {
		t.Fatalf("to: %q", msg.To)
	}
	if msg.Subject != "Order Confirmed - ORD-ABC123-XY9Z" {
		t.Fatalf("subject: %q", msg.Subject)
	}
	for _, want := range []string{"Dragon Figurine", "$24.99", "$29.99", "3D Print Shop"} {
		if !strings.Contains(msg.HTML, want) {
			t.Fatalf("body missing %q:\n%s", want, msg.HTML)
		}
	}
}

func TestShippingUpdate(t *testing.T) {
	msg, err := ShippingUpdate(sampleOrder(), "3D Print Shop", "usd")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if msg.Subject != "Your Order Has Shipped - ORD-ABC123-XY9Z" {
		t.Fatalf("subject: %q", msg.Subject)
	}
	if !strings.Contains(msg.HTML, "Dragon Figurine") {
		t.Fatalf("body missing item:\n%s", msg.HTML)
	}
}
