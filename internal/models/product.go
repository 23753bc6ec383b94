package models

import (
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

// Billing cycle labels used across products, order items and services.
const (
	CycleMonthly    = "monthly"
	CycleQuarterly  = "quarterly"
	CycleSemiannual = "semiannual"
	CycleAnnual     = "annual"
	CycleBiennial   = "biennial"
	CycleTriennial  = "triennial"
)

type Category struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Slug      string         `gorm:"uniqueIndex;not null" json:"slug"`
	Name      string         `gorm:"not null" json:"name"`
	SortOrder int            `gorm:"default:0" json:"sort_order"`
	Active    bool           `gorm:"default:true" json:"active"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

type Product struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Slug        string         `gorm:"uniqueIndex;not null" json:"slug"`
	CategoryID  uint           `gorm:"index" json:"category_id"`
	Category    Category       `json:"category"`
	Name        string         `gorm:"not null" json:"name"`
	Type        string         `gorm:"default:'hosting'" json:"type"` // hosting, vps, addon...
	Description string         `gorm:"type:text" json:"description"`
	Features    string         `gorm:"type:json" json:"-"` // ordered JSON array of strings
	Specs       string         `gorm:"type:json" json:"-"` // JSON object, e.g. {"disk":"10GB"}
	Active      bool           `gorm:"default:true" json:"active"`
	Featured    bool           `gorm:"default:false" json:"featured"`
	SortOrder   int            `gorm:"default:0" json:"sort_order"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Price per billing cycle. Zero means "not offered at this cycle";
	// pricing falls back to the monthly price.
	PriceMonthly    float64 `json:"price_monthly"`
	PriceQuarterly  float64 `json:"price_quarterly"`
	PriceSemiannual float64 `json:"price_semiannual"`
	PriceAnnual     float64 `json:"price_annual"`
	PriceBiennial   float64 `json:"price_biennial"`
	PriceTriennial  float64 `json:"price_triennial"`
}

// Price returns the price for the given billing cycle, falling back to the
// monthly price when the cycle has no explicit price.
func (p *Product) Price(cycle string) float64 {
	var v float64
	switch cycle {
	case CycleMonthly:
		v = p.PriceMonthly
	case CycleQuarterly:
		v = p.PriceQuarterly
	case CycleSemiannual:
		v = p.PriceSemiannual
	case CycleAnnual, "yearly":
		v = p.PriceAnnual
	case CycleBiennial:
		v = p.PriceBiennial
	case CycleTriennial:
		v = p.PriceTriennial
	}
	if v == 0 {
		return p.PriceMonthly
	}
	return v
}

func (p *Product) FeatureList() []string {
	var out []string
	if p.Features != "" {
		_ = json.Unmarshal([]byte(p.Features), &out)
	}
	return out
}

func (p *Product) SpecMap() map[string]string {
	out := map[string]string{}
	if p.Specs != "" {
		_ = json.Unmarshal([]byte(p.Specs), &out)
	}
	return out
}
