package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/verduraria/backend/api/middleware"
	"github.com/verduraria/backend/api/responses"
	"github.com/verduraria/backend/api/validators"
	ordersvc "github.com/verduraria/backend/internal/orders"
	"github.com/verduraria/backend/pkg/csvexport"
	"github.com/verduraria/backend/pkg/enums"
	pkgerrors "github.com/verduraria/backend/pkg/errors"
	"github.com/verduraria/backend/pkg/logger"
	"github.com/verduraria/backend/pkg/pagination"
)

type updateOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// GetOrder serves a single order for back-office views and the storefront's
// post-payment status page.
func GetOrder(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := orderIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// MyOrders lists the authenticated customer's own orders, scoped by the
// verified tax id in the token.
func MyOrders(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		taxID := middleware.TaxIDFromContext(r.Context())
		if taxID == "" {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "account has no tax id on file"))
			return
		}

		orders, err := svc.ListByTaxID(r.Context(), taxID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, orders)
	}
}

// AdminListOrders serves the back-office order table with status, customer
// and date-range filters plus cursor pagination.
func AdminListOrders(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter, err := orderFilterFromQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		params := pagination.Params{
			Limit:  limit,
			Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
		}

		orders, nextCursor, err := svc.List(r.Context(), filter, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"orders":      orders,
			"next_cursor": nextCursor,
		})
	}
}

// UpdateOrderStatus applies an operator fulfillment status. It never runs
// stock or loyalty side effects; those belong to the paid transition.
func UpdateOrderStatus(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := orderIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateOrderStatusRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.UpdateStatus(r.Context(), id, enums.OrderStatus(strings.TrimSpace(payload.Status)))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// ExportOrdersCSV streams the filtered order ledger as a CSV download.
func ExportOrdersCSV(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter, err := orderFilterFromQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orders, _, err := svc.List(r.Context(), filter, pagination.Params{Limit: pagination.MaxLimit})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		header := []string{"id", "created_at", "status", "customer_tax_id", "subtotal", "discount", "shipping", "total", "coupon"}
		rows := make([][]string, 0, len(orders))
		for _, order := range orders {
			taxID := ""
			if order.CustomerTaxID != nil {
				taxID = *order.CustomerTaxID
			}
			coupon := ""
			if order.CouponCode != nil {
				coupon = *order.CouponCode
			}
			rows = append(rows, []string{
				order.ID.String(),
				order.CreatedAt.Format(time.RFC3339),
				order.Status.String(),
				taxID,
				order.Subtotal.StringFixed(2),
				order.Discount.StringFixed(2),
				order.Shipping.StringFixed(2),
				order.Total.StringFixed(2),
				coupon,
			})
		}

		if err := csvexport.Write(w, "pedidos.csv", header, rows); err != nil {
			logg.Error(r.Context(), "writing orders csv", err)
		}
	}
}

func orderFilterFromQuery(r *http.Request) (ordersvc.ListFilter, error) {
	filter := ordersvc.ListFilter{
		Status: enums.OrderStatus(strings.TrimSpace(r.URL.Query().Get("status"))),
		TaxID:  strings.TrimSpace(r.URL.Query().Get("cpf")),
	}

	for _, bound := range []struct {
		key    string
		target **time.Time
	}{
		{"from", &filter.From},
		{"to", &filter.To},
	} {
		raw := strings.TrimSpace(r.URL.Query().Get(bound.key))
		if raw == "" {
			continue
		}
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return ordersvc.ListFilter{}, pkgerrors.New(pkgerrors.CodeValidation, "date must be YYYY-MM-DD").
				WithDetails(map[string]any{"field": bound.key})
		}
		*bound.target = &parsed
	}

	if raw := strings.TrimSpace(r.URL.Query().Get("min_total")); raw != "" {
		value, err := decimal.NewFromString(raw)
		if err != nil || value.IsNegative() {
			return ordersvc.ListFilter{}, pkgerrors.New(pkgerrors.CodeValidation, "min_total must be a non-negative number").
				WithDetails(map[string]any{"field": "min_total"})
		}
		filter.MinTotal = &value
	}
	return filter, nil
}

func orderIDParam(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "orderId"))
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order id")
	}
	return id, nil
}
