package controllers

import (
	"net/http"

	"github.com/verduraria/backend/api/responses"
	"github.com/verduraria/backend/internal/catalog"
	"github.com/verduraria/backend/pkg/logger"
)

// StoreInfo serves the static storefront content (about page, hours,
// delivery area). Kept server-side so the storefront stays a thin client.
func StoreInfo() http.HandlerFunc {
	info := map[string]any{
		"name":     "Verduraria",
		"tagline":  "Hortifruti fresco todos os dias",
		"delivery": "Entrega na região central, pedidos até 17h saem no mesmo dia.",
		"shipping": map[string]any{
			"flat_rate":      "30.00",
			"free_threshold": "100.00",
		},
		"hours": map[string]string{
			"weekdays": "07:00-19:00",
			"saturday": "07:00-14:00",
			"sunday":   "fechado",
		},
	}
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, info)
	}
}

// Promotions lists the catalog entries currently flagged as on promotion.
func Promotions(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		promo := true
		products, err := svc.List(r.Context(), catalog.ListFilter{OnPromotion: &promo})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, products)
	}
}
