package controllers

import (
	"net/http"
	"strings"

	"github.com/verduraria/backend/api/responses"
	"github.com/verduraria/backend/api/validators"
	analyticssvc "github.com/verduraria/backend/internal/analytics"
	"github.com/verduraria/backend/pkg/enums"
	pkgerrors "github.com/verduraria/backend/pkg/errors"
	"github.com/verduraria/backend/pkg/logger"
)

// AnalyticsSummary serves one revenue bucket selected by ?period=.
func AnalyticsSummary(svc analyticssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		period, err := periodFromQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		summary, err := svc.Summary(r.Context(), period)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, summary)
	}
}

// AnalyticsOverview serves the four standard buckets at once.
func AnalyticsOverview(svc analyticssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		overview, err := svc.Overview(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, overview)
	}
}

// AnalyticsDailySeries serves the per-day revenue series for charting.
func AnalyticsDailySeries(svc analyticssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		days, err := validators.ParseQueryInt(r, "days", 30, 1, 365)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		points, err := svc.DailySeries(r.Context(), days)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, points)
	}
}

// AnalyticsTopProducts serves the revenue ranking for the selected bucket.
func AnalyticsTopProducts(svc analyticssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		period, err := periodFromQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		limit, err := validators.ParseQueryInt(r, "limit", 10, 1, 100)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ranked, err := svc.TopProducts(r.Context(), period, limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, ranked)
	}
}

func periodFromQuery(r *http.Request) (enums.AnalyticsPeriod, error) {
	period, err := enums.ParseAnalyticsPeriod(strings.TrimSpace(r.URL.Query().Get("period")))
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid period")
	}
	return period, nil
}
