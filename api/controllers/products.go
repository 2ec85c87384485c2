package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/verduraria/backend/api/responses"
	"github.com/verduraria/backend/api/validators"
	"github.com/verduraria/backend/internal/catalog"
	"github.com/verduraria/backend/pkg/enums"
	pkgerrors "github.com/verduraria/backend/pkg/errors"
	"github.com/verduraria/backend/pkg/logger"
)

type createProductRequest struct {
	Name             string          `json:"name" validate:"required"`
	Sector           string          `json:"sector" validate:"required"`
	Price            decimal.Decimal `json:"price" validate:"required"`
	Unit             string          `json:"unit,omitempty"`
	StockQty         decimal.Decimal `json:"stock_qty,omitempty"`
	ImageURL         string          `json:"image_url,omitempty"`
	ShortDescription string          `json:"short_description,omitempty"`
	Badge            string          `json:"badge,omitempty"`
	OnPromotion      bool            `json:"on_promotion,omitempty"`
	Featured         bool            `json:"featured,omitempty"`
}

type updateProductRequest struct {
	Name             *string          `json:"name,omitempty"`
	Sector           *string          `json:"sector,omitempty"`
	Price            *decimal.Decimal `json:"price,omitempty"`
	Unit             *string          `json:"unit,omitempty"`
	ImageURL         *string          `json:"image_url,omitempty"`
	ShortDescription *string          `json:"short_description,omitempty"`
	Badge            *string          `json:"badge,omitempty"`
	OnPromotion      *bool            `json:"on_promotion,omitempty"`
	Featured         *bool            `json:"featured,omitempty"`
}

// ListProducts serves the public catalog with optional sector, promotion,
// featured and name-search filters.
func ListProducts(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter := catalog.ListFilter{
			Sector: strings.TrimSpace(r.URL.Query().Get("sector")),
			Search: strings.TrimSpace(r.URL.Query().Get("q")),
		}
		if raw := r.URL.Query().Get("promo"); raw != "" {
			value := raw == "true" || raw == "1"
			filter.OnPromotion = &value
		}
		if raw := r.URL.Query().Get("featured"); raw != "" {
			value := raw == "true" || raw == "1"
			filter.Featured = &value
		}

		products, err := svc.List(r.Context(), filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, products)
	}
}

// GetProduct serves a single catalog entry.
func GetProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := productIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.GetByID(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

// CreateProduct handles admin product creation.
func CreateProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		unit := enums.ProductUnit(payload.Unit)
		if payload.Unit != "" && !unit.IsValid() {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "invalid unit").WithDetails(map[string]any{"unit": payload.Unit}))
			return
		}

		product, err := svc.Create(r.Context(), catalog.CreateProductInput{
			Name:             payload.Name,
			Sector:           payload.Sector,
			Price:            payload.Price,
			Unit:             unit,
			StockQty:         payload.StockQty,
			ImageURL:         payload.ImageURL,
			ShortDescription: payload.ShortDescription,
			Badge:            payload.Badge,
			OnPromotion:      payload.OnPromotion,
			Featured:         payload.Featured,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

// UpdateProduct handles admin product edits.
func UpdateProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := productIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := catalog.UpdateProductInput{
			Name:             payload.Name,
			Sector:           payload.Sector,
			Price:            payload.Price,
			ImageURL:         payload.ImageURL,
			ShortDescription: payload.ShortDescription,
			Badge:            payload.Badge,
			OnPromotion:      payload.OnPromotion,
			Featured:         payload.Featured,
		}
		if payload.Unit != nil {
			unit := enums.ProductUnit(*payload.Unit)
			if !unit.IsValid() {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.New(pkgerrors.CodeValidation, "invalid unit").WithDetails(map[string]any{"unit": *payload.Unit}))
				return
			}
			input.Unit = &unit
		}

		product, err := svc.Update(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

// DeleteProduct handles admin product removal.
func DeleteProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := productIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"deleted": id.String()})
	}
}

func productIDParam(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "productId"))
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id")
	}
	return id, nil
}
