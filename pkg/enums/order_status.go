package enums

import "fmt"

// OrderStatus tracks the payment lifecycle of an order. Operators may also set
// free-text fulfillment statuses, so the column itself is open; the constants
// here are the ones the checkout pipeline reasons about.
type OrderStatus string

const (
	OrderStatusAwaitingPayment OrderStatus = "awaiting_payment"
	OrderStatusPaid            OrderStatus = "paid"
	OrderStatusFinalized       OrderStatus = "finalized"
	OrderStatusPaymentDeclined OrderStatus = "payment_declined"
	OrderStatusPaymentPending  OrderStatus = "payment_pending"

	// Operator fulfillment statuses observed in practice. Not an exhaustive
	// set; UpdateStatus accepts arbitrary text.
	OrderStatusPreparing      OrderStatus = "preparing"
	OrderStatusOutForDelivery OrderStatus = "out_for_delivery"
)

var validOrderStatuses = []OrderStatus{
	OrderStatusAwaitingPayment,
	OrderStatusPaid,
	OrderStatusFinalized,
	OrderStatusPaymentDeclined,
	OrderStatusPaymentPending,
	OrderStatusPreparing,
	OrderStatusOutForDelivery,
}

// String implements fmt.Stringer.
func (o OrderStatus) String() string {
	return string(o)
}

// IsValid reports whether the value is one of the well-known statuses.
func (o OrderStatus) IsValid() bool {
	for _, candidate := range validOrderStatuses {
		if candidate == o {
			return true
		}
	}
	return false
}

// IsPaidTerminal reports whether the order already passed the paid transition.
// Stock and loyalty side effects never run twice past this point.
func (o OrderStatus) IsPaidTerminal() bool {
	return o == OrderStatusPaid || o == OrderStatusFinalized
}

// CountsAsRevenue reports whether orders in this status contribute to
// analytics revenue aggregates.
func (o OrderStatus) CountsAsRevenue() bool {
	switch o {
	case OrderStatusPaid, OrderStatusFinalized, OrderStatusPreparing, OrderStatusOutForDelivery:
		return true
	}
	return false
}

// RevenueOrderStatuses returns the statuses that count toward revenue, for
// use in SQL IN clauses.
func RevenueOrderStatuses() []OrderStatus {
	return []OrderStatus{
		OrderStatusPaid,
		OrderStatusFinalized,
		OrderStatusPreparing,
		OrderStatusOutForDelivery,
	}
}

// ParseOrderStatus converts raw input into a well-known OrderStatus.
func ParseOrderStatus(value string) (OrderStatus, error) {
	for _, candidate := range validOrderStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order status %q", value)
}
