package types

import "github.com/shopspring/decimal"

// OrderSummary is the pricing snapshot returned by checkout operations.
// JSON keys match the storefront contract, which is Portuguese for the
// derived fields.
type OrderSummary struct {
	Subtotal      decimal.Decimal  `json:"subtotal"`
	Discount      decimal.Decimal  `json:"desconto"`
	TotalBase     decimal.Decimal  `json:"totalBase"`
	Shipping      decimal.Decimal  `json:"frete"`
	Total         decimal.Decimal  `json:"total"`
	CouponApplied *string          `json:"cupomAplicado"`
	Loyalty       *LoyaltySnapshot `json:"fidelidade"`
}

// LoyaltySnapshot reflects the customer's loyalty account after an order
// was credited, including any reward codes minted by that credit.
type LoyaltySnapshot struct {
	TaxID         string          `json:"cpf"`
	LifetimeTotal decimal.Decimal `json:"totalAcumulado"`
	Progress      decimal.Decimal `json:"progresso"`
	RewardsIssued int             `json:"premiosEmitidos"`
	CouponCodes   []string        `json:"cupons"`
	NewCoupons    []string        `json:"novosCupons,omitempty"`
}
