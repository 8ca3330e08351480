// Package shop implements the storefront's order and payment flows on top of
// the store, the payment gateway and the notification dispatcher.
package shop

import (
	"context"
	"encoding/json"

	"github.com/fairyhunter13/printshop/internal/model"
	"github.com/fairyhunter13/printshop/internal/payment"
	"github.com/fairyhunter13/printshop/internal/store"
)

// Fallbacks applied at checkout when the shop has never been configured.
const (
	fallbackShippingFee = 500
	fallbackCurrency    = "usd"
)

// Notifier queues transactional email without blocking the caller. The
// returned bool reports whether the job was accepted.
type Notifier interface {
	NotifyOrderConfirmation(orderID string) bool
	NotifyShippingUpdate(orderID string) bool
}

// Service drives the order lifecycle.
type Service struct {
	st       *store.Store
	gateway  payment.Gateway
	notifier Notifier
}

// NewService wires the service's collaborators together.
func NewService(st *store.Store, gateway payment.Gateway, notifier Notifier) *Service {
	return &Service{st: st, gateway: gateway, notifier: notifier}
}

// CheckoutItem is one cart line submitted at checkout.
type CheckoutItem struct {
	ID       string `json:"id"`
	Quantity int64  `json:"quantity"`
}

// CheckoutCustomer identifies the buyer. Address is kept as submitted and
// stored verbatim on the order.
type CheckoutCustomer struct {
	Name    string          `json:"name"`
	Email   string          `json:"email"`
	Address json.RawMessage `json:"address"`
}

// CheckoutInput is a request to open an order for the submitted cart.
type CheckoutInput struct {
	Items    []CheckoutItem   `json:"items"`
	Customer CheckoutCustomer `json:"customer"`
}

// CheckoutResult carries what the browser needs to complete payment.
type CheckoutResult struct {
	ClientSecret string `json:"clientSecret"`
	OrderNumber  string `json:"orderNumber"`
	OrderID      string `json:"orderId"`
}

// Checkout validates the cart, persists the order with item snapshots and
// registers a payment intent for the total. The order row and the intent are
// created inside one transaction: a gateway failure rolls the order back so
// no payment-less order is ever left behind.
//
// Stock is only checked here, not reserved; it is decremented when the
// payment confirmation arrives.
func (s *Service) Checkout(ctx context.Context, in CheckoutInput) (*CheckoutResult, error) {
	if len(in.Items) == 0 || in.Customer.Name == "" || in.Customer.Email == "" {
		return nil, model.ErrMissingFields
	}
	ids := make([]string, 0, len(in.Items))
	for _, it := range in.Items {
		if it.ID == "" || it.Quantity < 1 {
			return nil, model.ErrMissingFields
		}
		ids = append(ids, it.ID)
	}

	var result *CheckoutResult
	err := s.st.Transaction(ctx, func(tx *store.Store) error {
		products, err := tx.VisibleProductsByIDs(ctx, ids)
		if err != nil {
			return err
		}
		for _, it := range in.Items {
			if _, ok := products[it.ID]; !ok {
				return model.Errorf(model.ENOTFOUND, "Product not found: %s", it.ID)
			}
		}
		for _, it := range in.Items {
			p := products[it.ID]
			if p.Stock < it.Quantity {
				return model.Errorf(model.ESTOCK, "Insufficient stock for %s. Available: %d", p.Name, p.Stock)
			}
		}

		var subtotal int64
		items := make([]model.OrderItem, 0, len(in.Items))
		for _, it := range in.Items {
			p := products[it.ID]
			subtotal += p.Price * it.Quantity
			pid := p.ID
			items = append(items, model.OrderItem{
				ProductID:   &pid,
				ProductName: p.Name,
				PriceAtTime: p.Price,
				Quantity:    it.Quantity,
			})
		}

		settings, err := tx.Settings(ctx)
		if err != nil {
			return err
		}
		shippingCost, currency := int64(fallbackShippingFee), fallbackCurrency
		if settings != nil {
			shippingCost, currency = settings.ShippingFee, settings.Currency
		}

		order := &model.Order{
			OrderNumber:     model.NewOrderNumber(),
			Status:          model.StatusPending,
			CustomerName:    in.Customer.Name,
			CustomerEmail:   in.Customer.Email,
			ShippingAddress: addressJSON(in.Customer.Address),
			Subtotal:        subtotal,
			ShippingCost:    shippingCost,
			Total:           subtotal + shippingCost,
			Items:           items,
		}
		if err := tx.CreateOrder(ctx, order); err != nil {
			return err
		}

		intent, err := s.gateway.CreateIntent(ctx, order.Total, currency, map[string]string{
			"orderId":     order.ID,
			"orderNumber": order.OrderNumber,
		})
		if err != nil {
			return err
		}
		if err := tx.SetOrderIntent(ctx, order.ID, intent.ID); err != nil {
			return err
		}

		result = &CheckoutResult{
			ClientSecret: intent.ClientSecret,
			OrderNumber:  order.OrderNumber,
			OrderID:      order.ID,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func addressJSON(raw json.RawMessage) string {
	if len(raw) == 0 {
		return "{}"
	}
	return string(raw)
}
