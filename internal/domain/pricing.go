package domain

import "github.com/shopspring/decimal"

// PricingPolicy is the discount/tax rate configuration applied to a cart's
// subtotal. Rates are percentages, 0-100 inclusive. Values are validated at
// edit time (see pricing.ValidatePolicy); the calculator assumes a valid policy.
type PricingPolicy struct {
	DiscountRatePercent float64 `json:"discount_rate_percent"`
	TaxRatePercent      float64 `json:"tax_rate_percent"`
}

// Totals is the full pricing breakdown for a cart subtotal.
type Totals struct {
	Subtotal      decimal.Decimal `json:"subtotal"`
	Discount      decimal.Decimal `json:"discount"`
	TaxableAmount decimal.Decimal `json:"taxable_amount"`
	Tax           decimal.Decimal `json:"tax"`
	GrandTotal    decimal.Decimal `json:"grand_total"`
}
