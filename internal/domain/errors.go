package domain

import "errors"

var (
	ErrProductNotFound    = errors.New("product not found")
	ErrProductInactive    = errors.New("product is not available")
	ErrOutOfStock         = errors.New("product is out of stock")
	ErrCartItemNotFound   = errors.New("cart item not found")
	ErrInvalidQuantity    = errors.New("quantity must be at least 1")
	ErrEmptyCart          = errors.New("cart is empty")
	ErrStockExceeded      = errors.New("cart quantity exceeds available stock")
	ErrOrderNotFound      = errors.New("order not found")
	ErrInvalidStatus      = errors.New("invalid order status")
	ErrInvalidPayment     = errors.New("invalid payment status")
	ErrInvalidMethod      = errors.New("invalid payment method")
	ErrInvalidStep        = errors.New("invalid checkout step transition")
	ErrShippingInvalid    = errors.New("shipping information is invalid")
	ErrCheckoutNotFound   = errors.New("checkout session not found")
	ErrCheckoutProcessing = errors.New("order is already being submitted")
	ErrCheckoutCompleted  = errors.New("order already placed for this cart")
)
