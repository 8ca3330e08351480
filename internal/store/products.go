package store

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/fairyhunter13/printshop/internal/model"
)

func imagesByPosition(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

// CreateProduct inserts a product together with its images.
func (s *Store) CreateProduct(ctx context.Context, p *model.Product) error {
	for i := range p.Images {
		p.Images[i].Position = i
	}
	err := s.db.WithContext(ctx).Create(p).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return model.ErrSlugTaken
	}
	return err
}

// UpdateProduct rewrites the product row and replaces its image set with
// p.Images in the given order.
func (s *Store) UpdateProduct(ctx context.Context, p *model.Product) error {
	return s.Transaction(ctx, func(tx *Store) error {
		res := tx.db.WithContext(ctx).Model(&model.Product{}).
			Where("id = ?", p.ID).
			Select("Name", "Slug", "Description", "Price", "Stock", "Category", "Visible").
			Updates(p)
		if res.Error != nil {
			if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
				return model.ErrSlugTaken
			}
			return res.Error
		}
		if res.RowsAffected == 0 {
			return model.ErrProductNotFound
		}
		if err := tx.db.WithContext(ctx).Where("product_id = ?", p.ID).Delete(&model.ProductImage{}).Error; err != nil {
			return err
		}
		if len(p.Images) == 0 {
			return nil
		}
		for i := range p.Images {
			p.Images[i].ID = ""
			p.Images[i].ProductID = p.ID
			p.Images[i].Position = i
		}
		return tx.db.WithContext(ctx).Create(&p.Images).Error
	})
}

// DeleteProduct removes a product and its images. Order items that reference
// the product keep their name and price snapshots; the reference is cleared.
func (s *Store) DeleteProduct(ctx context.Context, id string) error {
	return s.Transaction(ctx, func(tx *Store) error {
		var p model.Product
		if err := tx.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return model.ErrProductNotFound
			}
			return err
		}
		if err := tx.db.WithContext(ctx).Model(&model.OrderItem{}).
			Where("product_id = ?", id).
			Update("product_id", nil).Error; err != nil {
			return err
		}
		if err := tx.db.WithContext(ctx).Where("product_id = ?", id).Delete(&model.ProductImage{}).Error; err != nil {
			return err
		}
		return tx.db.WithContext(ctx).Delete(&model.Product{}, "id = ?", id).Error
	})
}

// ProductByID returns a product with its images regardless of visibility.
func (s *Store) ProductByID(ctx context.Context, id string) (*model.Product, error) {
	var p model.Product
	err := s.db.WithContext(ctx).Preload("Images", imagesByPosition).First(&p, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, model.ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// VisibleProductBySlug returns a visible product by its slug. Hidden products
// are reported as missing.
func (s *Store) VisibleProductBySlug(ctx context.Context, slug string) (*model.Product, error) {
	var p model.Product
	err := s.db.WithContext(ctx).Preload("Images", imagesByPosition).
		Where("slug = ? AND visible = ?", slug, true).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, model.ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// VisibleProducts lists visible products newest first, optionally narrowed to
// one category.
func (s *Store) VisibleProducts(ctx context.Context, category string) ([]model.Product, error) {
	q := s.db.WithContext(ctx).Preload("Images", imagesByPosition).Where("visible = ?", true)
	if category != "" {
		q = q.Where("category = ?", category)
	}
	var out []model.Product
	err := q.Order("created_at DESC").Find(&out).Error
	return out, err
}

// RecentProducts lists the n newest visible products.
func (s *Store) RecentProducts(ctx context.Context, n int) ([]model.Product, error) {
	var out []model.Product
	err := s.db.WithContext(ctx).Preload("Images", imagesByPosition).
		Where("visible = ?", true).
		Order("created_at DESC").Limit(n).Find(&out).Error
	return out, err
}

// VisibleProductsByIDs returns the visible products among ids, keyed by ID.
func (s *Store) VisibleProductsByIDs(ctx context.Context, ids []string) (map[string]*model.Product, error) {
	var rows []model.Product
	if err := s.db.WithContext(ctx).Where("id IN ? AND visible = ?", ids, true).Find(&rows).Error; err != nil {
		return nil, err
	}
	m := make(map[string]*model.Product, len(rows))
	for i := range rows {
		m[rows[i].ID] = &rows[i]
	}
	return m, nil
}

// AllProducts lists every product newest first, hidden ones included.
func (s *Store) AllProducts(ctx context.Context) ([]model.Product, error) {
	var out []model.Product
	err := s.db.WithContext(ctx).Preload("Images", imagesByPosition).
		Order("created_at DESC").Find(&out).Error
	return out, err
}

// Categories lists the distinct non-empty categories of visible products in
// alphabetical order.
func (s *Store) Categories(ctx context.Context) ([]string, error) {
	var cats []string
	err := s.db.WithContext(ctx).Model(&model.Product{}).
		Where("visible = ? AND category <> ''", true).
		Distinct("category").Order("category").Pluck("category", &cats).Error
	return cats, err
}

// LowStock lists up to ten visible products with stock below five, lowest
// first.
func (s *Store) LowStock(ctx context.Context) ([]model.Product, error) {
	var out []model.Product
	err := s.db.WithContext(ctx).Where("stock < ? AND visible = ?", 5, true).
		Order("stock ASC").Limit(10).Find(&out).Error
	return out, err
}

// CountProducts returns the total number of products.
func (s *Store) CountProducts(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&model.Product{}).Count(&n).Error
	return n, err
}

// AdjustStock applies delta to a product's stock, clamping at zero. Missing
// products are skipped so deleted catalog entries never fail a paid order.
func (s *Store) AdjustStock(ctx context.Context, productID string, delta int64) error {
	var p model.Product
	err := s.db.WithContext(ctx).First(&p, "id = ?", productID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	next := p.Stock + delta
	if next < 0 {
		next = 0
	}
	return s.db.WithContext(ctx).Model(&p).Update("stock", next).Error
}
