package pricing

import (
	"github.com/shopspring/decimal"
)

// Shipping policy: free above the threshold, free when there is nothing to
// charge, flat fee otherwise.
var (
	FreeShippingThreshold = decimal.NewFromInt(100)
	FlatShippingFee       = decimal.NewFromInt(30)
)

// LineItem is the priced quantity of one product.
type LineItem struct {
	UnitPrice decimal.Decimal
	Qty       decimal.Decimal
}

// Quote is the derived pricing breakdown for a cart.
type Quote struct {
	Subtotal  decimal.Decimal
	Discount  decimal.Decimal
	TotalBase decimal.Decimal
	Shipping  decimal.Decimal
	Total     decimal.Decimal
}

// Round2 normalizes a money amount to two decimal places, half up.
func Round2(value decimal.Decimal) decimal.Decimal {
	return value.Round(2)
}

// Subtotal sums the rounded line totals.
func Subtotal(items []LineItem) decimal.Decimal {
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(Round2(item.UnitPrice.Mul(item.Qty)))
	}
	return Round2(subtotal)
}

// ShippingFor returns the shipping charge for the discounted base amount.
// A zero base means the coupon covered everything, so nothing ships a fee.
func ShippingFor(totalBase decimal.Decimal) decimal.Decimal {
	if totalBase.IsZero() || totalBase.GreaterThanOrEqual(FreeShippingThreshold) {
		return decimal.Zero
	}
	return FlatShippingFee
}

// ClampDiscount caps discount at the subtotal so totals never go negative.
func ClampDiscount(discount, subtotal decimal.Decimal) decimal.Decimal {
	if discount.GreaterThan(subtotal) {
		return subtotal
	}
	if discount.IsNegative() {
		return decimal.Zero
	}
	return discount
}

// QuoteFor derives the full breakdown from line items and a raw discount.
// The discount is clamped before the base and shipping are computed.
func QuoteFor(items []LineItem, discount decimal.Decimal) Quote {
	subtotal := Subtotal(items)
	discount = Round2(ClampDiscount(discount, subtotal))
	totalBase := Round2(subtotal.Sub(discount))
	shipping := ShippingFor(totalBase)
	return Quote{
		Subtotal:  subtotal,
		Discount:  discount,
		TotalBase: totalBase,
		Shipping:  shipping,
		Total:     Round2(totalBase.Add(shipping)),
	}
}
