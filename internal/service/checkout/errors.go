package checkout

import "errors"

var (
	ErrNoSession          = errors.New("checkout session is required")
	ErrProductUnavailable = errors.New("product is not available")
	ErrCouponCodeRequired = errors.New("coupon code is required")
	ErrPaymentDeclined    = errors.New("payment declined")
)
