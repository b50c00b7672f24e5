package pricing

import (
	"errors"
	"fmt"

	"github.com/Sameer-A01/restaurant-api/internal/domain"
	"github.com/shopspring/decimal"
)

var ErrInvalidPolicy = errors.New("pricing policy rates must be between 0 and 100")

var oneHundred = decimal.NewFromInt(100)

// ValidatePolicy checks a policy at edit time. The calculator itself never
// validates: an out-of-range rate must be rejected before it reaches ComputeTotals.
func ValidatePolicy(p domain.PricingPolicy) error {
	if p.DiscountRatePercent < 0 || p.DiscountRatePercent > 100 {
		return fmt.Errorf("discount rate %v: %w", p.DiscountRatePercent, ErrInvalidPolicy)
	}
	if p.TaxRatePercent < 0 || p.TaxRatePercent > 100 {
		return fmt.Errorf("tax rate %v: %w", p.TaxRatePercent, ErrInvalidPolicy)
	}
	return nil
}

// ComputeTotals maps a cart subtotal and a validated policy to the full
// pricing breakdown. Each step is rounded half-up to 2 decimal places so the
// result matches the invoice rendered by the payment collaborator. Pure
// function, never fails: a zero subtotal yields all-zero totals.
func ComputeTotals(subtotal decimal.Decimal, p domain.PricingPolicy) domain.Totals {
	discountRate := decimal.NewFromFloat(p.DiscountRatePercent)
	taxRate := decimal.NewFromFloat(p.TaxRatePercent)

	discount := round2(subtotal.Mul(discountRate).Div(oneHundred))
	taxable := round2(subtotal.Sub(discount))
	tax := round2(taxable.Mul(taxRate).Div(oneHundred))
	grandTotal := round2(taxable.Add(tax))

	return domain.Totals{
		Subtotal:      subtotal,
		Discount:      discount,
		TaxableAmount: taxable,
		Tax:           tax,
		GrandTotal:    grandTotal,
	}
}

// round2 rounds half away from zero to 2 decimal places, which for the
// non-negative amounts handled here is round-half-up.
func round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
