package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/verduraria/backend/api/responses"
	"github.com/verduraria/backend/api/validators"
	couponsvc "github.com/verduraria/backend/internal/coupons"
	"github.com/verduraria/backend/pkg/enums"
	pkgerrors "github.com/verduraria/backend/pkg/errors"
	"github.com/verduraria/backend/pkg/logger"
)

type createCouponRequest struct {
	Code        string          `json:"code" validate:"required"`
	Type        string          `json:"type" validate:"required"`
	Value       decimal.Decimal `json:"value" validate:"required"`
	MinSubtotal decimal.Decimal `json:"min_subtotal,omitempty"`
	ExpiresAt   *string         `json:"expires_at,omitempty"`
	UsageCap    *int            `json:"usage_cap,omitempty"`
}

type setCouponActiveRequest struct {
	Active bool `json:"active"`
}

// CreateCoupon handles admin coupon creation.
func CreateCoupon(svc couponsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createCouponRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		couponType, err := enums.ParseCouponType(strings.TrimSpace(payload.Type))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid coupon type"))
			return
		}

		input := couponsvc.CreateCouponInput{
			Code:        payload.Code,
			Type:        couponType,
			Value:       payload.Value,
			MinSubtotal: payload.MinSubtotal,
			UsageCap:    payload.UsageCap,
		}
		if payload.ExpiresAt != nil {
			parsed, err := time.Parse("2006-01-02", strings.TrimSpace(*payload.ExpiresAt))
			if err != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.New(pkgerrors.CodeValidation, "expires_at must be YYYY-MM-DD"))
				return
			}
			input.ExpiresAt = &parsed
		}

		coupon, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, coupon)
	}
}

// ListCoupons serves the admin coupon table, loyalty rewards included.
func ListCoupons(svc couponsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		coupons, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, coupons)
	}
}

// SetCouponActive flips a coupon's active flag. Deactivation is permanent
// for eligibility purposes once any expiry has passed.
func SetCouponActive(svc couponsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := strings.TrimSpace(chi.URLParam(r, "code"))
		if code == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "coupon code required"))
			return
		}

		var payload setCouponActiveRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.SetActive(r.Context(), code, payload.Active); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"code": code, "active": payload.Active})
	}
}
