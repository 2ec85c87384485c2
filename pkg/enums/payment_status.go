package enums

import "fmt"

// PaymentStatus mirrors the gateway-reported state of a payment.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusApproved  PaymentStatus = "approved"
	PaymentStatusRejected  PaymentStatus = "rejected"
	PaymentStatusInProcess PaymentStatus = "in_process"
)

var validPaymentStatuses = []PaymentStatus{
	PaymentStatusPending,
	PaymentStatusApproved,
	PaymentStatusRejected,
	PaymentStatusInProcess,
}

// String implements fmt.Stringer.
func (p PaymentStatus) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PaymentStatus.
func (p PaymentStatus) IsValid() bool {
	for _, candidate := range validPaymentStatuses {
		if candidate == p {
			return true
		}
	}
	return false
}

// OrderStatusFor maps a gateway payment status onto the order state machine:
// approved becomes paid, rejected becomes declined, everything else stays in
// the pending bucket.
func (p PaymentStatus) OrderStatusFor() OrderStatus {
	switch p {
	case PaymentStatusApproved:
		return OrderStatusPaid
	case PaymentStatusRejected:
		return OrderStatusPaymentDeclined
	default:
		return OrderStatusPaymentPending
	}
}

// ParsePaymentStatus converts raw gateway input into a PaymentStatus. Unknown
// values are preserved semantically as pending-family by callers.
func ParsePaymentStatus(value string) (PaymentStatus, error) {
	for _, candidate := range validPaymentStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment status %q", value)
}
