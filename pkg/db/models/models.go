package models

// All returns every model registered for schema auto-migration.
func All() []any {
	return []any{
		&User{},
		&Product{},
		&CartRecord{},
		&CartItem{},
		&Coupon{},
		&Order{},
		&OrderItem{},
		&OrderPayment{},
		&LoyaltyAccount{},
		&StockEntry{},
		&StockLoss{},
		&Outflow{},
	}
}
