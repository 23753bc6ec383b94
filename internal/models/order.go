package models

import (
	"time"

	"gorm.io/gorm"
)

// Order lifecycle status.
const (
	OrderPending   = "pending"
	OrderActive    = "active"
	OrderCancelled = "cancelled"
)

// Order payment status. Activation keys off PaymentPaid, never off the method.
const (
	PaymentPending  = "pending"
	PaymentUnpaid   = "unpaid"
	PaymentPaid     = "paid"
	PaymentFailed   = "failed"
	PaymentRefunded = "refunded"
)

type Order struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	UUID           string         `gorm:"uniqueIndex;not null" json:"uuid"`
	UserID         uint           `gorm:"index;not null" json:"user_id"`
	OrderNumber    string         `gorm:"uniqueIndex;not null" json:"order_number"`
	Status         string         `gorm:"default:'pending'" json:"status"`
	PaymentStatus  string         `gorm:"default:'pending'" json:"payment_status"`
	PaymentMethod  string         `json:"payment_method"`
	PaymentProof   string         `json:"payment_proof,omitempty"` // reference supplied for offline payments
	Subtotal       float64        `json:"subtotal"`
	Discount       float64        `json:"discount"`
	Total          float64        `json:"total"` // subtotal - discount, never re-derived
	CouponCode     string         `json:"coupon_code,omitempty"`
	BillingAddress string         `gorm:"type:json" json:"billing_address"` // snapshot at creation
	Notes          string         `gorm:"type:text" json:"notes,omitempty"`
	ClientIP       string         `json:"-"`
	Items          []OrderItem    `json:"items"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

// OrderItem rows are immutable once written.
type OrderItem struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	OrderID      uint      `gorm:"index;not null" json:"order_id"`
	ProductID    uint      `gorm:"index" json:"product_id"` // 0 for domain lines
	ProductType  string    `json:"product_type"`            // hosting, domain...
	ProductName  string    `json:"product_name"`
	DomainName   string    `json:"domain_name,omitempty"`
	BillingCycle string    `json:"billing_cycle"`
	Quantity     int       `gorm:"default:1" json:"quantity"`
	UnitPrice    float64   `json:"unit_price"`
	TotalPrice   float64   `json:"total_price"`
	CreatedAt    time.Time `json:"created_at"`
}
