package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	ServiceActive    = "active"
	ServiceSuspended = "suspended"
	ServiceCancelled = "cancelled"
)

// Service is a recurring deliverable materialized from a paid order item.
// The unique index on OrderItemID is the idempotency backstop: the activation
// workflow checks first, the constraint catches concurrent double-submission.
type Service struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	UUID             string         `gorm:"uniqueIndex;not null" json:"uuid"`
	UserID           uint           `gorm:"index;not null" json:"user_id"`
	OrderItemID      uint           `gorm:"uniqueIndex;not null" json:"order_item_id"`
	ProductID        uint           `gorm:"index" json:"product_id"`
	Type             string         `json:"type"`
	Name             string         `json:"name"`
	DomainName       string         `json:"domain_name,omitempty"`
	Status           string         `gorm:"default:'active'" json:"status"`
	BillingCycle     string         `json:"billing_cycle"`
	Amount           float64        `json:"amount"`
	NextDueDate      time.Time      `json:"next_due_date"`
	RegistrationDate time.Time      `json:"registration_date"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
}
