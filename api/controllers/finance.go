package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/verduraria/backend/api/responses"
	"github.com/verduraria/backend/api/validators"
	financesvc "github.com/verduraria/backend/internal/finance"
	"github.com/verduraria/backend/pkg/csvexport"
	pkgerrors "github.com/verduraria/backend/pkg/errors"
	"github.com/verduraria/backend/pkg/logger"
)

type createOutflowRequest struct {
	Description string          `json:"description" validate:"required"`
	Category    string          `json:"category,omitempty"`
	Amount      decimal.Decimal `json:"amount" validate:"required"`
	OccurredAt  *string         `json:"occurred_at,omitempty"`
}

// CreateOutflow records a manual expense.
func CreateOutflow(svc financesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createOutflowRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := financesvc.CreateOutflowInput{
			Description: payload.Description,
			Category:    payload.Category,
			Amount:      payload.Amount,
		}
		if payload.OccurredAt != nil {
			parsed, err := time.Parse("2006-01-02", strings.TrimSpace(*payload.OccurredAt))
			if err != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.New(pkgerrors.CodeValidation, "occurred_at must be YYYY-MM-DD"))
				return
			}
			input.OccurredAt = &parsed
		}

		outflow, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, outflow)
	}
}

// ListOutflows serves the expense ledger, optionally bounded by date.
func ListOutflows(svc financesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		from, to, err := outflowRangeFromQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		outflows, err := svc.List(r.Context(), from, to)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, outflows)
	}
}

// DeleteOutflow removes an expense record.
func DeleteOutflow(svc financesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "outflowId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid outflow id"))
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"deleted": id.String()})
	}
}

// ExportOutflowsCSV streams the expense ledger as a CSV download.
func ExportOutflowsCSV(svc financesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		from, to, err := outflowRangeFromQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		outflows, err := svc.List(r.Context(), from, to)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		header := []string{"id", "occurred_at", "description", "category", "amount"}
		rows := make([][]string, 0, len(outflows))
		for _, outflow := range outflows {
			rows = append(rows, []string{
				outflow.ID.String(),
				outflow.OccurredAt.Format("2006-01-02"),
				outflow.Description,
				outflow.Category,
				outflow.Amount.StringFixed(2),
			})
		}

		if err := csvexport.Write(w, "saidas.csv", header, rows); err != nil {
			logg.Error(r.Context(), "writing outflows csv", err)
		}
	}
}

func outflowRangeFromQuery(r *http.Request) (*time.Time, *time.Time, error) {
	var from, to *time.Time
	for _, bound := range []struct {
		key    string
		target **time.Time
	}{
		{"from", &from},
		{"to", &to},
	} {
		raw := strings.TrimSpace(r.URL.Query().Get(bound.key))
		if raw == "" {
			continue
		}
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "date must be YYYY-MM-DD").
				WithDetails(map[string]any{"field": bound.key})
		}
		*bound.target = &parsed
	}
	return from, to, nil
}
