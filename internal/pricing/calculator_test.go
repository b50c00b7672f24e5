package pricing

import (
	"testing"

	"github.com/Sameer-A01/restaurant-api/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeTotals_WorkedExample(t *testing.T) {
	// Catalog item at 100, qty 3, discount 10%, tax 5%
	subtotal := decimal.NewFromInt(300)
	policy := domain.PricingPolicy{DiscountRatePercent: 10, TaxRatePercent: 5}

	totals := ComputeTotals(subtotal, policy)

	assert.True(t, decimal.NewFromInt(30).Equal(totals.Discount), "discount = %s", totals.Discount)
	assert.True(t, decimal.NewFromInt(270).Equal(totals.TaxableAmount), "taxable = %s", totals.TaxableAmount)
	assert.True(t, decimal.NewFromFloat(13.5).Equal(totals.Tax), "tax = %s", totals.Tax)
	assert.True(t, decimal.NewFromFloat(283.5).Equal(totals.GrandTotal), "grand total = %s", totals.GrandTotal)
}

func TestComputeTotals_ZeroSubtotal(t *testing.T) {
	policy := domain.PricingPolicy{DiscountRatePercent: 10, TaxRatePercent: 5}

	totals := ComputeTotals(decimal.Zero, policy)

	assert.True(t, totals.Discount.IsZero())
	assert.True(t, totals.TaxableAmount.IsZero())
	assert.True(t, totals.Tax.IsZero())
	assert.True(t, totals.GrandTotal.IsZero())
}

func TestComputeTotals_RoundsHalfUp(t *testing.T) {
	subtotal := decimal.NewFromFloat(12.5)
	policy := domain.PricingPolicy{DiscountRatePercent: 1, TaxRatePercent: 0}

	totals := ComputeTotals(subtotal, policy)

	// 12.5 * 1% = 0.125, half-up -> 0.13
	assert.Equal(t, "0.13", totals.Discount.StringFixed(2))
	assert.Equal(t, "12.37", totals.TaxableAmount.StringFixed(2))
	assert.Equal(t, "12.37", totals.GrandTotal.StringFixed(2))
}

func TestComputeTotals_Idempotent(t *testing.T) {
	subtotal := decimal.NewFromFloat(123.45)
	policy := domain.PricingPolicy{DiscountRatePercent: 7.5, TaxRatePercent: 18}

	first := ComputeTotals(subtotal, policy)
	second := ComputeTotals(subtotal, policy)

	assert.True(t, first.Discount.Equal(second.Discount))
	assert.True(t, first.TaxableAmount.Equal(second.TaxableAmount))
	assert.True(t, first.Tax.Equal(second.Tax))
	assert.True(t, first.GrandTotal.Equal(second.GrandTotal))
}

func TestComputeTotals_NoDiscount(t *testing.T) {
	subtotal := decimal.NewFromInt(200)
	policy := domain.PricingPolicy{DiscountRatePercent: 0, TaxRatePercent: 5}

	totals := ComputeTotals(subtotal, policy)

	assert.True(t, totals.Discount.IsZero())
	assert.True(t, decimal.NewFromInt(200).Equal(totals.TaxableAmount))
	assert.True(t, decimal.NewFromInt(10).Equal(totals.Tax))
	assert.True(t, decimal.NewFromInt(210).Equal(totals.GrandTotal))
}

func TestValidatePolicy(t *testing.T) {
	require.NoError(t, ValidatePolicy(domain.PricingPolicy{DiscountRatePercent: 0, TaxRatePercent: 0}))
	require.NoError(t, ValidatePolicy(domain.PricingPolicy{DiscountRatePercent: 100, TaxRatePercent: 100}))
	require.NoError(t, ValidatePolicy(domain.PricingPolicy{DiscountRatePercent: 7.5, TaxRatePercent: 18}))

	assert.ErrorIs(t, ValidatePolicy(domain.PricingPolicy{DiscountRatePercent: -1, TaxRatePercent: 5}), ErrInvalidPolicy)
	assert.ErrorIs(t, ValidatePolicy(domain.PricingPolicy{DiscountRatePercent: 5, TaxRatePercent: 101}), ErrInvalidPolicy)
	assert.ErrorIs(t, ValidatePolicy(domain.PricingPolicy{DiscountRatePercent: 100.01, TaxRatePercent: 5}), ErrInvalidPolicy)
}
