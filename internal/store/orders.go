package store

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/fairyhunter13/printshop/internal/model"
)

// CreateOrder inserts an order together with its item snapshots.
func (s *Store) CreateOrder(ctx context.Context, o *model.Order) error {
	return s.db.WithContext(ctx).Create(o).Error
}

// OrderByID returns an order with its items.
func (s *Store) OrderByID(ctx context.Context, id string) (*model.Order, error) {
	var o model.Order
	err := s.db.WithContext(ctx).Preload("Items").First(&o, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, model.ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// OrderByNumber returns an order with its items, looked up by order number.
func (s *Store) OrderByNumber(ctx context.Context, number string) (*model.Order, error) {
	var o model.Order
	err := s.db.WithContext(ctx).Preload("Items").First(&o, "order_number = ?", number).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, model.ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// OrderByIntentID returns the order tied to a payment intent, or nil when no
// order references it.
func (s *Store) OrderByIntentID(ctx context.Context, intentID string) (*model.Order, error) {
	var o model.Order
	err := s.db.WithContext(ctx).Preload("Items").First(&o, "payment_intent_id = ?", intentID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// Orders lists orders newest first, optionally narrowed to one status.
func (s *Store) Orders(ctx context.Context, status model.OrderStatus) ([]model.Order, error) {
	q := s.db.WithContext(ctx).Preload("Items").Order("created_at DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var out []model.Order
	err := q.Find(&out).Error
	return out, err
}

// RecentOrders returns the n newest orders.
func (s *Store) RecentOrders(ctx context.Context, n int) ([]model.Order, error) {
	var out []model.Order
	err := s.db.WithContext(ctx).Order("created_at DESC").Limit(n).Find(&out).Error
	return out, err
}

// UpdateOrderStatus sets the order's status.
func (s *Store) UpdateOrderStatus(ctx context.Context, id string, status model.OrderStatus) error {
	res := s.db.WithContext(ctx).Model(&model.Order{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return model.ErrOrderNotFound
	}
	return nil
}

// SetOrderIntent records the payment intent backing the order.
func (s *Store) SetOrderIntent(ctx context.Context, id, intentID string) error {
	return s.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ?", id).Update("payment_intent_id", intentID).Error
}

// SetConfirmationSent marks the order confirmation email as delivered.
func (s *Store) SetConfirmationSent(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ?", id).Update("confirmation_sent", true).Error
}

// SetShippingNotified marks the shipping email as delivered.
func (s *Store) SetShippingNotified(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ?", id).Update("shipping_notified", true).Error
}

// CountOrders returns the total number of orders.
func (s *Store) CountOrders(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&model.Order{}).Count(&n).Error
	return n, err
}

// CountOrdersByStatus returns the number of orders in the given status.
func (s *Store) CountOrdersByStatus(ctx context.Context, status model.OrderStatus) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&model.Order{}).Where("status = ?", status).Count(&n).Error
	return n, err
}

// Revenue sums the totals of orders that reached payment. Every status except
// PENDING and CANCELLED counts, refunded orders included.
func (s *Store) Revenue(ctx context.Context) (int64, error) {
	var total int64
	err := s.db.WithContext(ctx).Model(&model.Order{}).
		Where("status NOT IN ?", []model.OrderStatus{model.StatusPending, model.StatusCancelled}).
		Select("COALESCE(SUM(total), 0)").Scan(&total).Error
	return total, err
}
