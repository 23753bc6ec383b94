package models

import (
	"time"

	"gorm.io/gorm"
)

type DomainTld struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	Tld           string         `gorm:"uniqueIndex;not null" json:"tld"` // includes the dot, e.g. ".com"
	RegisterPrice float64        `json:"register_price"`
	RenewPrice    float64        `json:"renew_price"`
	TransferPrice float64        `json:"transfer_price"`
	PromoPrice    *float64       `json:"promo_price,omitempty"`
	Popular       bool           `gorm:"default:false" json:"popular"`
	Active        bool           `gorm:"default:true" json:"active"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

// PriceFor selects the price for a domain action (register, transfer, renew).
// Unknown actions price as a registration.
func (t *DomainTld) PriceFor(action string) float64 {
	switch action {
	case "transfer":
		return t.TransferPrice
	case "renew":
		return t.RenewPrice
	default:
		if t.PromoPrice != nil && *t.PromoPrice > 0 {
			return *t.PromoPrice
		}
		return t.RegisterPrice
	}
}
