package coupon

import "errors"

var (
	ErrCouponNotFound     = errors.New("coupon not found")
	ErrCouponInactive     = errors.New("coupon is not active")
	ErrCouponExpired      = errors.New("coupon has expired")
	ErrCouponExhausted    = errors.New("coupon usage limit reached")
	ErrCodeTaken          = errors.New("coupon code already exists")
	ErrInvalidCode        = errors.New("coupon code must be 3 to 32 letters or digits")
	ErrInvalidDiscount    = errors.New("invalid discount")
	ErrInvalidUsageCap    = errors.New("usage cap must not be negative")
	ErrInvalidExpiration  = errors.New("expiration date is required")
	ErrCodeGenerationFail = errors.New("could not generate a unique coupon code")
)
