package domain

import (
	"fmt"

	"avin-home/internal/validation"
)

// CheckoutStep is a position in the checkout flow
type CheckoutStep int

const (
	StepShipping CheckoutStep = 1
	StepPayment  CheckoutStep = 2
	StepReview   CheckoutStep = 3
)

func (s CheckoutStep) String() string {
	switch s {
	case StepShipping:
		return "shipping"
	case StepPayment:
		return "payment"
	case StepReview:
		return "review"
	default:
		return fmt.Sprintf("step(%d)", int(s))
	}
}

// ShippingInfo is the customer contact and delivery form of step 1
type ShippingInfo struct {
	FullName   string `json:"full_name" validate:"required,notblank"`
	Email      string `json:"email" validate:"required,notblank,contact_email"`
	Phone      string `json:"phone" validate:"required,notblank,phone"`
	Address    string `json:"address" validate:"required,notblank"`
	City       string `json:"city" validate:"required,notblank"`
	Province   string `json:"province" validate:"required"`
	PostalCode string `json:"postal_code" validate:"required,notblank,digits"`
	Notes      string `json:"notes"`
}

// Validate returns one entry per invalid field, or nil when the form is complete
func (s ShippingInfo) Validate() []validation.FieldError {
	if err := validation.Struct(s); err != nil {
		return validation.FieldErrors(err)
	}
	return nil
}

// ShippingAddress returns the delivery part of the form
func (s ShippingInfo) ShippingAddress() ShippingAddress {
	return ShippingAddress{
		Address:    s.Address,
		City:       s.City,
		Province:   s.Province,
		PostalCode: s.PostalCode,
		Notes:      s.Notes,
	}
}

// Provinces offered by the shipping form
var Provinces = []string{
	"DKI Jakarta", "Jawa Barat", "Jawa Tengah", "Jawa Timur", "Bali",
	"Sumatera Utara", "Sumatera Selatan", "Kalimantan Timur", "Sulawesi Selatan",
}

// Checkout is the three step checkout flow of one cart
type Checkout struct {
	CartID        string                  `json:"cart_id"`
	UserID        string                  `json:"user_id,omitempty"`
	Step          CheckoutStep            `json:"step"`
	Shipping      ShippingInfo            `json:"shipping"`
	PaymentMethod PaymentMethod           `json:"payment_method"`
	Errors        []validation.FieldError `json:"errors,omitempty"`
	Processing    bool                    `json:"processing"`
	OrderID       string                  `json:"order_id,omitempty"`
}

// NewCheckout starts a flow at the shipping step with bank transfer preselected
func NewCheckout(cartID string) *Checkout {
	return &Checkout{
		CartID:        cartID,
		Step:          StepShipping,
		PaymentMethod: PaymentBankTransfer,
	}
}

// Complete reports whether an order was placed from this flow
func (c *Checkout) Complete() bool {
	return c.OrderID != ""
}

// UpdateShipping replaces the shipping form. Errors from an earlier attempt are cleared.
func (c *Checkout) UpdateShipping(info ShippingInfo) error {
	if c.Step != StepShipping {
		return fmt.Errorf("%w: shipping can only be edited on the %s step", ErrInvalidStep, StepShipping)
	}
	c.Shipping = info
	c.Errors = nil
	return nil
}

// SelectPayment chooses the payment method
func (c *Checkout) SelectPayment(method PaymentMethod) error {
	if !method.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidMethod, method)
	}
	if c.Step != StepPayment {
		return fmt.Errorf("%w: payment can only be chosen on the %s step", ErrInvalidStep, StepPayment)
	}
	if c.Processing {
		return ErrCheckoutProcessing
	}
	c.PaymentMethod = method
	return nil
}

// Next moves one step forward. The shipping step is left only with a valid form.
func (c *Checkout) Next() error {
	switch c.Step {
	case StepShipping:
		if errs := c.Shipping.Validate(); len(errs) > 0 {
			c.Errors = errs
			return ErrShippingInvalid
		}
		c.Errors = nil
		c.Step = StepPayment
	case StepPayment:
		if !c.PaymentMethod.Valid() {
			return ErrInvalidMethod
		}
		c.Step = StepReview
	default:
		return fmt.Errorf("%w: no step after %s", ErrInvalidStep, c.Step)
	}
	return nil
}

// Back moves one step backward
func (c *Checkout) Back() error {
	if c.Step <= StepShipping {
		return fmt.Errorf("%w: no step before %s", ErrInvalidStep, c.Step)
	}
	if c.Processing {
		return ErrCheckoutProcessing
	}
	c.Step--
	return nil
}

// BeginSubmit marks the flow as submitting. It fails unless the flow is on
// the review step and no other submission is running.
func (c *Checkout) BeginSubmit() error {
	if c.Step != StepReview {
		return fmt.Errorf("%w: orders are confirmed on the %s step", ErrInvalidStep, StepReview)
	}
	if c.Processing || c.Complete() {
		return ErrCheckoutProcessing
	}
	c.Processing = true
	return nil
}

// AbortSubmit releases the submitting flag after a failed submission
func (c *Checkout) AbortSubmit() {
	c.Processing = false
}

// FinishSubmit records the placed order
func (c *Checkout) FinishSubmit(orderID string) {
	c.OrderID = orderID
}
