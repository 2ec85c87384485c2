package controllers

import (
	"net/http"
	"strings"

	"github.com/verduraria/backend/api/middleware"
	"github.com/verduraria/backend/api/responses"
	"github.com/verduraria/backend/api/validators"
	checkoutsvc "github.com/verduraria/backend/internal/checkout"
	"github.com/verduraria/backend/pkg/logger"
)

type checkoutRequest struct {
	CartID     string `json:"cart_id,omitempty"`
	CouponCode string `json:"coupon,omitempty"`
	TaxID      string `json:"cpf,omitempty"`
	Name       string `json:"name,omitempty"`
	Email      string `json:"email,omitempty"`
	Phone      string `json:"phone,omitempty"`
	Notes      string `json:"notes,omitempty"`
}

func (p checkoutRequest) toInput(r *http.Request) checkoutsvc.CheckoutInput {
	cartID := strings.TrimSpace(p.CartID)
	if cartID == "" {
		cartID = defaultCartID
	}

	// an authenticated customer's verified tax id wins over whatever the
	// client typed in
	taxID := middleware.TaxIDFromContext(r.Context())
	if taxID == "" {
		taxID = p.TaxID
	}

	return checkoutsvc.CheckoutInput{
		CartID:     cartID,
		CouponCode: p.CouponCode,
		Customer: checkoutsvc.CustomerInfo{
			TaxID: taxID,
			Name:  validators.SanitizeString(p.Name, 120),
			Email: validators.SanitizeString(p.Email, 254),
			Phone: validators.SanitizeString(p.Phone, 32),
			Notes: validators.SanitizeString(p.Notes, 500),
		},
	}
}

// CheckoutPreview returns the totals a finalization would produce without
// touching stock, coupon counters or loyalty state.
func CheckoutPreview(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cartID := strings.TrimSpace(r.URL.Query().Get("cart_id"))
		if cartID == "" {
			cartID = defaultCartID
		}
		couponCode := strings.TrimSpace(r.URL.Query().Get("coupon"))

		summary, err := svc.Preview(r.Context(), cartID, couponCode)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, summary)
	}
}

// Checkout runs the synchronous finalization protocol.
func Checkout(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload checkoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Checkout(r.Context(), payload.toInput(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]any{
			"order_id": result.Order.ID,
			"status":   result.Order.Status,
			"resumo":   result.Summary,
		})
	}
}

// CheckoutPending starts the asynchronous protocol: the order is persisted
// awaiting payment and the client is redirected to the gateway.
func CheckoutPending(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload checkoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.CreatePendingOrder(r.Context(), payload.toInput(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]any{
			"order_id":      result.Order.ID,
			"status":        result.Order.Status,
			"resumo":        result.Summary,
			"preference_id": result.PreferenceID,
			"init_point":    result.InitPoint,
		})
	}
}
