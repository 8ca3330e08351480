package shop

import (
	"context"

	"github.com/fairyhunter13/printshop/internal/model"
)

// Stats aggregates the numbers shown on the admin dashboard.
type Stats struct {
	ProductCount int64
	OrderCount   int64
	PendingCount int64
	Revenue      int64
	LowStock     []model.Product
}

// DashboardStats collects catalog and order totals for the back office.
func (s *Service) DashboardStats(ctx context.Context) (*Stats, error) {
	products, err := s.st.CountProducts(ctx)
	if err != nil {
		return nil, err
	}
	orders, err := s.st.CountOrders(ctx)
	if err != nil {
		return nil, err
	}
	pending, err := s.st.CountOrdersByStatus(ctx, model.StatusPending)
	if err != nil {
		return nil, err
	}
	revenue, err := s.st.Revenue(ctx)
	if err != nil {
		return nil, err
	}
	lowStock, err := s.st.LowStock(ctx)
	if err != nil {
		return nil, err
	}
	return &Stats{
		ProductCount: products,
		OrderCount:   orders,
		PendingCount: pending,
		Revenue:      revenue,
		LowStock:     lowStock,
	}, nil
}
