package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	DiscountPercentage = "percentage"
	DiscountFixed      = "fixed"
)

type Coupon struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Code        string         `gorm:"uniqueIndex;not null" json:"code"` // stored upper-cased
	Type        string         `gorm:"not null" json:"type"`             // percentage | fixed
	Value       float64        `gorm:"not null" json:"value"`
	MinOrder    float64        `json:"min_order"`                // 0 = no minimum
	MaxDiscount float64        `json:"max_discount"`             // percentage cap, 0 = uncapped
	UsageLimit  int            `json:"usage_limit"`              // 0 = unlimited
	UsedCount   int            `gorm:"default:0" json:"used_count"`
	ValidFrom   *time.Time     `json:"valid_from,omitempty"`
	ValidUntil  *time.Time     `json:"valid_until,omitempty"`
	Active      bool           `gorm:"default:true" json:"active"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// Exhausted reports whether the usage limit has been reached.
func (c *Coupon) Exhausted() bool {
	return c.UsageLimit > 0 && c.UsedCount >= c.UsageLimit
}

// WithinWindow reports whether now falls inside the validity window.
func (c *Coupon) WithinWindow(now time.Time) bool {
	if c.ValidFrom != nil && now.Before(*c.ValidFrom) {
		return false
	}
	if c.ValidUntil != nil && now.After(*c.ValidUntil) {
		return false
	}
	return true
}
