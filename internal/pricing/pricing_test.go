package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestQuoteForNoCoupon(t *testing.T) {
	t.Parallel()

	quote := QuoteFor([]LineItem{
		{UnitPrice: dec("50"), Qty: dec("2")},
	}, decimal.Zero)

	require.True(t, quote.Subtotal.Equal(dec("100")))
	require.True(t, quote.Discount.IsZero())
	require.True(t, quote.TotalBase.Equal(dec("100")))
	require.True(t, quote.Shipping.IsZero(), "base at threshold ships free")
	require.True(t, quote.Total.Equal(dec("100")))
}

func TestQuoteForShippingJustBelowThreshold(t *testing.T) {
	t.Parallel()

	quote := QuoteFor([]LineItem{
		{UnitPrice: dec("99.99"), Qty: dec("1")},
	}, decimal.Zero)

	require.True(t, quote.Shipping.Equal(dec("30")))
	require.True(t, quote.Total.Equal(dec("129.99")))
}

func TestQuoteForDiscountClampsToSubtotal(t *testing.T) {
	t.Parallel()

	quote := QuoteFor([]LineItem{
		{UnitPrice: dec("40"), Qty: dec("1")},
	}, dec("50"))

	require.True(t, quote.Discount.Equal(dec("40")))
	require.True(t, quote.TotalBase.IsZero())
	require.True(t, quote.Shipping.IsZero(), "fully discounted orders ship free")
	require.True(t, quote.Total.IsZero())
}

func TestQuoteForDiscountPullsBaseBelowThreshold(t *testing.T) {
	t.Parallel()

	// subtotal 110, discount 20 -> base 90 pays the flat fee even though the
	// subtotal alone would have qualified for free shipping
	quote := QuoteFor([]LineItem{
		{UnitPrice: dec("55"), Qty: dec("2")},
	}, dec("20"))

	require.True(t, quote.TotalBase.Equal(dec("90")))
	require.True(t, quote.Shipping.Equal(dec("30")))
	require.True(t, quote.Total.Equal(dec("120")))
}

func TestSubtotalRoundsPerLine(t *testing.T) {
	t.Parallel()

	// 3.333 kg at 9.99/kg rounds at the line, not just at the end
	subtotal := Subtotal([]LineItem{
		{UnitPrice: dec("9.99"), Qty: dec("3.333")},
	})
	require.True(t, subtotal.Equal(dec("33.30")), "got %s", subtotal)
}

func TestClampDiscountNegative(t *testing.T) {
	t.Parallel()

	require.True(t, ClampDiscount(dec("-5"), dec("100")).IsZero())
}

func TestShippingForBoundaries(t *testing.T) {
	t.Parallel()

	require.True(t, ShippingFor(decimal.Zero).IsZero())
	require.True(t, ShippingFor(dec("0.01")).Equal(dec("30")))
	require.True(t, ShippingFor(dec("99.99")).Equal(dec("30")))
	require.True(t, ShippingFor(dec("100")).IsZero())
	require.True(t, ShippingFor(dec("250")).IsZero())
}
