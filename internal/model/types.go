// Package model defines domain types used by the shop.
package model

import (
	"time"

	"gorm.io/gorm"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

// Order lifecycle states. PENDING is the initial state; the webhook flow
// moves an order to PAID, admins may set any state explicitly.
const (
	StatusPending   OrderStatus = "PENDING"
	StatusPaid      OrderStatus = "PAID"
	StatusShipped   OrderStatus = "SHIPPED"
	StatusDelivered OrderStatus = "DELIVERED"
	StatusCancelled OrderStatus = "CANCELLED"
	StatusRefunded  OrderStatus = "REFUNDED"
)

// Valid reports whether s is one of the known order statuses.
func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusPaid, StatusShipped, StatusDelivered, StatusCancelled, StatusRefunded:
		return true
	}
	return false
}

// AllStatuses lists every order status in lifecycle order.
func AllStatuses() []OrderStatus {
	return []OrderStatus{StatusPending, StatusPaid, StatusShipped, StatusDelivered, StatusCancelled, StatusRefunded}
}

// Product is a catalog entry. Prices are integer minor currency units and
// stock is clamped at zero on decrement.
type Product struct {
	ID          string         `gorm:"size:25;primaryKey" json:"id"`
	Name        string         `gorm:"size:255;not null" json:"name"`
	Slug        string         `gorm:"size:255;not null;uniqueIndex" json:"slug"`
	Description string         `gorm:"type:text" json:"description"`
	Price       int64          `gorm:"not null" json:"price"`
	Stock       int64          `gorm:"not null;default:0" json:"stock"`
	Category    string         `gorm:"size:100" json:"category"`
	Visible     bool           `gorm:"not null" json:"visible"`
	Images      []ProductImage `gorm:"foreignKey:ProductID" json:"images"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// BeforeCreate assigns a fresh ID when none was provided.
func (p *Product) BeforeCreate(*gorm.DB) error {
	if p.ID == "" {
		p.ID = NewID()
	}
	return nil
}

// ProductImage belongs to exactly one product; Position orders the set.
type ProductImage struct {
	ID        string `gorm:"size:25;primaryKey" json:"id"`
	URL       string `gorm:"size:500;not null" json:"url"`
	Alt       string `gorm:"size:255" json:"alt"`
	Position  int    `gorm:"not null;default:0" json:"position"`
	ProductID string `gorm:"size:25;not null;index" json:"-"`
}

// BeforeCreate assigns a fresh ID when none was provided.
func (i *ProductImage) BeforeCreate(*gorm.DB) error {
	if i.ID == "" {
		i.ID = NewID()
	}
	return nil
}

// Order is a customer purchase. Monetary fields are integer minor units and
// Total is always Subtotal + ShippingCost. PaymentIntentID is nil until the
// gateway issued an intent for the order and unique among orders that have
// one.
type Order struct {
	ID               string      `gorm:"size:25;primaryKey" json:"id"`
	OrderNumber      string      `gorm:"size:50;not null;uniqueIndex" json:"order_number"`
	Status           OrderStatus `gorm:"size:20;not null;default:PENDING" json:"status"`
	CustomerName     string      `gorm:"size:255;not null" json:"customer_name"`
	CustomerEmail    string      `gorm:"size:255;not null" json:"customer_email"`
	ShippingAddress  string      `gorm:"type:text;not null" json:"shipping_address"`
	Subtotal         int64       `gorm:"not null" json:"subtotal"`
	ShippingCost     int64       `gorm:"not null" json:"shipping_cost"`
	Total            int64       `gorm:"not null" json:"total"`
	PaymentIntentID  *string     `gorm:"size:255;uniqueIndex" json:"payment_intent_id,omitempty"`
	ConfirmationSent bool        `gorm:"not null;default:false" json:"confirmation_sent"`
	ShippingNotified bool        `gorm:"not null;default:false" json:"shipping_notified"`
	Items            []OrderItem `gorm:"foreignKey:OrderID" json:"items"`
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`
}

// BeforeCreate assigns a fresh ID and the initial status when not provided.
func (o *Order) BeforeCreate(*gorm.DB) error {
	if o.ID == "" {
		o.ID = NewID()
	}
	if o.Status == "" {
		o.Status = StatusPending
	}
	return nil
}

// HasPaymentIntent reports whether the gateway issued an intent for the order.
func (o *Order) HasPaymentIntent() bool {
	return o.PaymentIntentID != nil && *o.PaymentIntentID != ""
}

// OrderItem is an immutable snapshot of a purchased product. ProductID is a
// weak reference: it is nulled when the product is deleted while the name and
// price snapshots survive.
type OrderItem struct {
	ID          string  `gorm:"size:25;primaryKey" json:"id"`
	OrderID     string  `gorm:"size:25;not null;index" json:"-"`
	ProductID   *string `gorm:"size:25;index" json:"product_id,omitempty"`
	ProductName string  `gorm:"size:255;not null" json:"product_name"`
	PriceAtTime int64   `gorm:"not null" json:"price_at_time"`
	Quantity    int64   `gorm:"not null" json:"quantity"`
}

// BeforeCreate assigns a fresh ID when none was provided.
func (i *OrderItem) BeforeCreate(*gorm.DB) error {
	if i.ID == "" {
		i.ID = NewID()
	}
	return nil
}

// SettingsID is the primary key of the single ShopSettings row.
const SettingsID = "singleton"

// ShopSettings is the singleton shop configuration row, created lazily on
// first admin access.
type ShopSettings struct {
	ID          string `gorm:"size:20;primaryKey" json:"-"`
	ShopName    string `gorm:"size:255" json:"shop_name"`
	Description string `gorm:"size:500" json:"description"`
	Currency    string `gorm:"size:10" json:"currency"`
	ShippingFee int64  `json:"shipping_fee"`
}

// DefaultSettings returns the settings row used when none has been saved yet.
func DefaultSettings() ShopSettings {
	return ShopSettings{
		ID:          SettingsID,
		ShopName:    "3D Print Shop",
		Description: "Quality 3D printed items",
		Currency:    "usd",
		ShippingFee: 500,
	}
}
