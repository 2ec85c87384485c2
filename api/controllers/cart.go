package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/verduraria/backend/api/responses"
	"github.com/verduraria/backend/api/validators"
	cartsvc "github.com/verduraria/backend/internal/cart"
	pkgerrors "github.com/verduraria/backend/pkg/errors"
	"github.com/verduraria/backend/pkg/logger"
)

// defaultCartID serves storefront clients that never issued their own id.
const defaultCartID = "default"

type addCartItemRequest struct {
	ProductID string          `json:"product_id" validate:"required"`
	Qty       decimal.Decimal `json:"qty" validate:"required"`
}

// GetCart returns the cart's current line items.
func GetCart(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		record, err := svc.Get(r.Context(), cartIDParam(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, record)
	}
}

// AddCartItem upserts a line item. The stock check here is advisory; the
// binding check happens at finalization.
func AddCartItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload addCartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := uuid.Parse(payload.ProductID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}

		record, err := svc.AddItem(r.Context(), cartIDParam(r), productID, payload.Qty)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, record)
	}
}

// RemoveCartItem drops a product line from the cart.
func RemoveCartItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := uuid.Parse(chi.URLParam(r, "productId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}

		record, err := svc.RemoveItem(r.Context(), cartIDParam(r), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, record)
	}
}

func cartIDParam(r *http.Request) string {
	if id := strings.TrimSpace(chi.URLParam(r, "cartId")); id != "" {
		return id
	}
	if id := strings.TrimSpace(r.URL.Query().Get("cart_id")); id != "" {
		return id
	}
	return defaultCartID
}
