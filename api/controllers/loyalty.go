package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/verduraria/backend/api/middleware"
	"github.com/verduraria/backend/api/responses"
	loyaltysvc "github.com/verduraria/backend/internal/loyalty"
	pkgerrors "github.com/verduraria/backend/pkg/errors"
	"github.com/verduraria/backend/pkg/logger"
)

// MyLoyalty returns the authenticated customer's loyalty account state.
func MyLoyalty(svc loyaltysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		taxID := middleware.TaxIDFromContext(r.Context())
		if taxID == "" {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "account has no tax id on file"))
			return
		}

		snapshot, err := svc.GetByTaxID(r.Context(), taxID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, snapshot)
	}
}

// GetLoyaltyAccount serves one loyalty account for back-office lookups.
func GetLoyaltyAccount(svc loyaltysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		taxID := strings.TrimSpace(chi.URLParam(r, "taxId"))
		if taxID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "tax id required"))
			return
		}

		snapshot, err := svc.GetByTaxID(r.Context(), taxID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, snapshot)
	}
}

// ListLoyaltyAccounts serves the back-office loyalty table.
func ListLoyaltyAccounts(svc loyaltysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		accounts, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, accounts)
	}
}
