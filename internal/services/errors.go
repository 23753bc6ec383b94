package services

import "errors"

// Domain errors. Handlers map these to HTTP statuses; anything else is a 500.
var (
	ErrNotFound = errors.New("not found")

	ErrTicketClosed = errors.New("ticket is closed")

	ErrCouponNotFound  = errors.New("coupon not found")
	ErrCouponInactive  = errors.New("coupon is not active")
	ErrCouponExpired   = errors.New("coupon is expired or not yet valid")
	ErrCouponExhausted = errors.New("coupon usage limit reached")
	ErrCouponMinOrder  = errors.New("order total is below the coupon minimum")

	ErrEmptyOrder = errors.New("order has no valid items")
)

// IsCouponError reports whether err is one of the coupon rejection reasons.
func IsCouponError(err error) bool {
	return errors.Is(err, ErrCouponNotFound) ||
		errors.Is(err, ErrCouponInactive) ||
		errors.Is(err, ErrCouponExpired) ||
		errors.Is(err, ErrCouponExhausted) ||
		errors.Is(err, ErrCouponMinOrder)
}
