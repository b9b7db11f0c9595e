package domain

import "github.com/shopspring/decimal"

var (
	// FreeShippingThreshold is the subtotal above which shipping is free
	FreeShippingThreshold = decimal.NewFromInt(2_000_000)
	// FlatShippingFee applies to subtotals at or below the free shipping threshold
	FlatShippingFee = decimal.NewFromInt(50_000)
	// TaxRate is the VAT applied to the subtotal
	TaxRate = decimal.NewFromFloat(0.11)
	// CODFee is the surcharge for cash on delivery
	CODFee = decimal.NewFromInt(10_000)
)

// Quote is the price breakdown of a cart for a given payment method
type Quote struct {
	Subtotal    decimal.Decimal `json:"subtotal"`
	ShippingFee decimal.Decimal `json:"shipping_fee"`
	Tax         decimal.Decimal `json:"tax"`
	CODFee      decimal.Decimal `json:"cod_fee"`
	Total       decimal.Decimal `json:"total"`
}

// NewQuote prices a subtotal. The COD surcharge is added only for PaymentCOD.
func NewQuote(subtotal decimal.Decimal, method PaymentMethod) Quote {
	shipping := FlatShippingFee
	if subtotal.GreaterThan(FreeShippingThreshold) {
		shipping = decimal.Zero
	}

	tax := subtotal.Mul(TaxRate)

	codFee := decimal.Zero
	if method == PaymentCOD {
		codFee = CODFee
	}

	return Quote{
		Subtotal:    subtotal,
		ShippingFee: shipping,
		Tax:         tax,
		CODFee:      codFee,
		Total:       subtotal.Add(shipping).Add(tax).Add(codFee),
	}
}
