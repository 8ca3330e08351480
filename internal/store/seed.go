package store

import (
	"context"

	"github.com/fairyhunter13/printshop/internal/model"
)

// demoProducts is the starter catalog installed by Seed.
var demoProducts = []model.Product{
	{
		Name:        "Dragon Figurine",
		Slug:        "dragon-figurine",
		Description: "A beautifully detailed dragon figurine, 3D printed with high-quality PLA filament. Perfect for tabletop gaming or display.",
		Price:       2499,
		Stock:       15,
		Category:    "Figurines",
		Visible:     true,
	},
	{
		Name:        "Phone Stand",
		Slug:        "phone-stand",
		Description: "Minimalist phone stand compatible with all smartphone sizes. Sleek geometric design.",
		Price:       1299,
		Stock:       30,
		Category:    "Accessories",
		Visible:     true,
	},
	{
		Name:        "Geometric Planter",
		Slug:        "geometric-planter",
		Description: "Modern geometric planter for small succulents and herbs. Includes drainage hole.",
		Price:       1899,
		Stock:       20,
		Category:    "Home Decor",
		Visible:     true,
	},
	{
		Name:        "Articulated Octopus",
		Slug:        "articulated-octopus",
		Description: "Fully articulated octopus toy with flexible tentacles. A fun fidget toy and conversation starter.",
		Price:       1599,
		Stock:       25,
		Category:    "Toys",
		Visible:     true,
	},
	{
		Name:        "Cable Organizer Set",
		Slug:        "cable-organizer-set",
		Description: "Set of 5 cable clips to keep your desk tidy. Adhesive-backed for easy installation.",
		Price:       899,
		Stock:       50,
		Category:    "Accessories",
		Visible:     true,
	},
	{
		Name:        "Medieval Castle",
		Slug:        "medieval-castle",
		Description: "Detailed medieval castle model for tabletop RPGs. Multi-piece assembly, includes towers and walls.",
		Price:       4999,
		Stock:       8,
		Category:    "Figurines",
		Visible:     true,
	},
}

// Seed installs the starter catalog and settings. Products whose slug already
// exists are left untouched, so repeated runs are safe. It returns the number
// of products created.
func (s *Store) Seed(ctx context.Context) (int, error) {
	existing, err := s.Settings(ctx)
	if err != nil {
		return 0, err
	}
	if existing == nil {
		st := model.DefaultSettings()
		st.Description = "Quality 3D printed items for everyone"
		if err := s.db.WithContext(ctx).Create(&st).Error; err != nil {
			return 0, err
		}
	}

	created := 0
	for _, p := range demoProducts {
		var n int64
		if err := s.db.WithContext(ctx).Model(&model.Product{}).Where("slug = ?", p.Slug).Count(&n).Error; err != nil {
			return created, err
		}
		if n > 0 {
			continue
		}
		prod := p
		if err := s.CreateProduct(ctx, &prod); err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}
