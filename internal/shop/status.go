package shop

import (
	"context"

	"github.com/fairyhunter13/printshop/internal/model"
	"github.com/fairyhunter13/printshop/internal/obs"
	"github.com/fairyhunter13/printshop/internal/store"
)

// MarkPaid transitions the order behind a succeeded payment intent from
// PENDING to PAID, decrements stock for each item that still references a
// live product (clamped at zero) and queues the confirmation email. Events
// for unknown intents or for orders already past PENDING are ignored, so
// replayed webhooks never decrement stock twice.
func (s *Service) MarkPaid(ctx context.Context, intentID string) error {
	var paid *model.Order
	err := s.st.Transaction(ctx, func(tx *store.Store) error {
		order, err := tx.OrderByIntentID(ctx, intentID)
		if err != nil {
			return err
		}
		if order == nil || order.Status != model.StatusPending {
			return nil
		}
		for _, item := range order.Items {
			if item.ProductID == nil {
				continue
			}
			if err := tx.AdjustStock(ctx, *item.ProductID, -item.Quantity); err != nil {
				return err
			}
		}
		if err := tx.UpdateOrderStatus(ctx, order.ID, model.StatusPaid); err != nil {
			return err
		}
		paid = order
		return nil
	})
	if err != nil {
		return err
	}
	if paid != nil {
		if !s.notifier.NotifyOrderConfirmation(paid.ID) {
			obs.Logger.Warn("confirmation notification rejected", "order_id", paid.ID)
		}
	}
	return nil
}

// SetStatus sets an order's status from the back office. Any status in the
// enumerated set is accepted regardless of the current one; there is no
// transition table. Moving to SHIPPED queues the shipping email unless it was
// already sent for this order.
func (s *Service) SetStatus(ctx context.Context, orderID string, status model.OrderStatus) error {
	if !status.Valid() {
		return model.Errorf(model.EINVALID, "Invalid status: %s", status)
	}
	order, err := s.st.OrderByID(ctx, orderID)
	if err != nil {
		return err
	}
	if err := s.st.UpdateOrderStatus(ctx, orderID, status); err != nil {
		return err
	}
	if status == model.StatusShipped && !order.ShippingNotified {
		if !s.notifier.NotifyShippingUpdate(order.ID) {
			obs.Logger.Warn("shipping notification rejected", "order_id", order.ID)
		}
	}
	return nil
}

// Refund refunds the order's payment and restocks its items. It is rejected
// when the order has no payment intent or is already REFUNDED. The gateway
// call happens before any state change, so a provider failure leaves order
// and stock untouched. Restock is an unconditional add-back, even when the
// order is refunded straight from PENDING and its stock was never
// decremented.
func (s *Service) Refund(ctx context.Context, orderID string) error {
	order, err := s.st.OrderByID(ctx, orderID)
	if err != nil {
		return err
	}
	if !order.HasPaymentIntent() {
		return model.ErrNoPaymentIntent
	}
	if order.Status == model.StatusRefunded {
		return model.ErrAlreadyRefunded
	}
	if err := s.gateway.Refund(ctx, *order.PaymentIntentID); err != nil {
		return err
	}
	return s.st.Transaction(ctx, func(tx *store.Store) error {
		for _, item := range order.Items {
			if item.ProductID == nil {
				continue
			}
			if err := tx.AdjustStock(ctx, *item.ProductID, item.Quantity); err != nil {
				return err
			}
		}
		return tx.UpdateOrderStatus(ctx, order.ID, model.StatusRefunded)
	})
}
