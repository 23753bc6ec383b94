package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	InvoiceDraft     = "draft"
	InvoiceUnpaid    = "unpaid"
	InvoicePaid      = "paid"
	InvoiceCancelled = "cancelled"
	InvoiceRefunded  = "refunded"
)

type Invoice struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	UUID          string         `gorm:"uniqueIndex;not null" json:"uuid"`
	UserID        uint           `gorm:"index;not null" json:"user_id"`
	OrderID       *uint          `gorm:"index" json:"order_id,omitempty"` // nil for proposal invoices
	InvoiceNumber string         `gorm:"uniqueIndex;not null" json:"invoice_number"`
	Status        string         `gorm:"default:'unpaid'" json:"status"`
	Subtotal      float64        `json:"subtotal"`
	Discount      float64        `json:"discount"`
	Total         float64        `json:"total"`
	DueDate       time.Time      `json:"due_date"`
	PaidAt        *time.Time     `json:"paid_at,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}
