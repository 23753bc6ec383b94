package services

import (
	"errors"
	"math"
	"strings"
	"time"

	"gorm.io/gorm"

	"hostify/internal/models"
)

// CartItemRequest is a client-submitted line. Client prices are never trusted;
// all pricing is recomputed from the catalog.
type CartItemRequest struct {
	Type         string `json:"type" validate:"required,oneof=product domain"`
	ProductID    uint   `json:"product_id"`
	BillingCycle string `json:"billing_cycle"`
	Quantity     int    `json:"quantity"`
	Tld          string `json:"tld"`
	Action       string `json:"action"` // register | transfer | renew
	Years        int    `json:"years"`
	DomainName   string `json:"domain_name"`
}

type PricedItem struct {
	Type         string  `json:"type"`
	ProductID    uint    `json:"product_id,omitempty"`
	ProductName  string  `json:"product_name"`
	DomainName   string  `json:"domain_name,omitempty"`
	BillingCycle string  `json:"billing_cycle"`
	Quantity     int     `json:"quantity"`
	UnitPrice    float64 `json:"unit_price"`
	TotalPrice   float64 `json:"total_price"`
}

type PricedCart struct {
	Items    []PricedItem   `json:"items"`
	Subtotal float64        `json:"subtotal"`
	Discount float64        `json:"discount"`
	Tax      float64        `json:"tax"`
	Total    float64        `json:"total"`
	Coupon   *models.Coupon `json:"coupon,omitempty"`
}

// CartService recomputes authoritative cart pricing from the catalog and
// validates coupon codes.
type CartService struct {
	db *gorm.DB
}

func NewCartService(db *gorm.DB) *CartService {
	return &CartService{db: db}
}

// PriceCart reprices the requested lines from the live catalog and applies the
// coupon when a code is given. Unknown or inactive product/TLD references are
// dropped from the output rather than rejected.
func (s *CartService) PriceCart(items []CartItemRequest, couponCode string) (*PricedCart, error) {
	cart := &PricedCart{Items: []PricedItem{}}

	for _, req := range items {
		switch req.Type {
		case "product":
			var p models.Product
			if err := s.db.Where("id = ? AND active = ?", req.ProductID, true).First(&p).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					continue // unknown or inactive, drop silently
				}
				return nil, err
			}
			qty := req.Quantity
			if qty < 1 {
				qty = 1
			}
			cycle := req.BillingCycle
			if cycle == "" {
				cycle = models.CycleMonthly
			}
			unit := p.Price(cycle)
			cart.Items = append(cart.Items, PricedItem{
				Type:         "product",
				ProductID:    p.ID,
				ProductName:  p.Name,
				BillingCycle: cycle,
				Quantity:     qty,
				UnitPrice:    unit,
				TotalPrice:   roundCents(unit * float64(qty)),
			})
		case "domain":
			var tld models.DomainTld
			if err := s.db.Where("tld = ? AND active = ?", req.Tld, true).First(&tld).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					continue
				}
				return nil, err
			}
			years := req.Years
			if years < 1 {
				years = 1
			}
			action := req.Action
			if action == "" {
				action = "register"
			}
			unit := tld.PriceFor(action)
			cart.Items = append(cart.Items, PricedItem{
				Type:         "domain",
				ProductName:  strings.TrimSpace(req.DomainName) + tld.Tld,
				DomainName:   strings.TrimSpace(req.DomainName) + tld.Tld,
				BillingCycle: models.CycleAnnual,
				Quantity:     years,
				UnitPrice:    unit,
				TotalPrice:   roundCents(unit * float64(years)),
			})
		}
	}

	for _, it := range cart.Items {
		cart.Subtotal += it.TotalPrice
	}
	cart.Subtotal = roundCents(cart.Subtotal)

	if couponCode != "" {
		coupon, discount, err := s.ValidateCoupon(couponCode, cart.Subtotal)
		if err != nil {
			return nil, err
		}
		cart.Coupon = coupon
		cart.Discount = discount
	}

	cart.Total = roundCents(cart.Subtotal - cart.Discount)
	if cart.Total < 0 {
		cart.Total = 0 // fixed coupons may exceed the subtotal
	}

	return cart, nil
}

// ValidateCoupon checks a code against a subtotal and returns the coupon and
// the discount it yields. It does not consume the coupon.
func (s *CartService) ValidateCoupon(code string, subtotal float64) (*models.Coupon, float64, error) {
	var coupon models.Coupon
	err := s.db.Where("code = ?", strings.ToUpper(strings.TrimSpace(code))).First(&coupon).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, ErrCouponNotFound
		}
		return nil, 0, err
	}

	if !coupon.Active {
		return nil, 0, ErrCouponInactive
	}
	if !coupon.WithinWindow(time.Now()) {
		return nil, 0, ErrCouponExpired
	}
	if coupon.Exhausted() {
		return nil, 0, ErrCouponExhausted
	}
	if coupon.MinOrder > 0 && subtotal < coupon.MinOrder {
		return nil, 0, ErrCouponMinOrder
	}

	var discount float64
	switch coupon.Type {
	case models.DiscountPercentage:
		discount = subtotal * coupon.Value / 100
		if coupon.MaxDiscount > 0 && discount > coupon.MaxDiscount {
			discount = coupon.MaxDiscount
		}
	case models.DiscountFixed:
		// Applied verbatim; the cart clamps the total at zero.
		discount = coupon.Value
	}

	return &coupon, roundCents(discount), nil
}

// RedeemCoupon consumes one use. The conditional update enforces the usage
// limit atomically, so concurrent redemptions cannot overrun it.
func (s *CartService) RedeemCoupon(tx *gorm.DB, couponID uint) error {
	res := tx.Model(&models.Coupon{}).
		Where("id = ? AND (usage_limit = 0 OR used_count < usage_limit)", couponID).
		UpdateColumn("used_count", gorm.Expr("used_count + 1"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrCouponExhausted
	}
	return nil
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
