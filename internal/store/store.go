package store

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/fairyhunter13/printshop/internal/model"
)

// Store wraps the database handle. All methods are safe for concurrent use.
type Store struct {
	db *gorm.DB
}

// Open connects to the database named by url. URLs with a postgres scheme use
// the Postgres driver; anything else is treated as a SQLite path, with an
// optional "sqlite://" prefix.
func Open(url string) (*Store, error) {
	db, err := gorm.Open(dialectorFor(url), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Error),
	})
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if !strings.HasPrefix(url, "postgres") {
		// SQLite allows a single writer; one connection avoids lock errors.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}
	return &Store{db: db}, nil
}

func dialectorFor(url string) gorm.Dialector {
	if strings.HasPrefix(url, "postgres://") || strings.HasPrefix(url, "postgresql://") {
		return postgres.Open(url)
	}
	return sqlite.Open(strings.TrimPrefix(url, "sqlite://"))
}

// Migrate creates or updates the schema for all shop tables.
func (s *Store) Migrate() error {
	return s.db.AutoMigrate(
		&model.Product{},
		&model.ProductImage{},
		&model.Order{},
		&model.OrderItem{},
		&model.ShopSettings{},
	)
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Transaction runs fn inside a database transaction. fn receives a Store
// bound to the transaction; returning an error rolls everything back.
func (s *Store) Transaction(ctx context.Context, fn func(*Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}
