package controllers

import (
	"net/http"

	"github.com/verduraria/backend/api/responses"
	"github.com/verduraria/backend/pkg/config"
	"github.com/verduraria/backend/pkg/db"
	"github.com/verduraria/backend/pkg/logger"
	pkgredis "github.com/verduraria/backend/pkg/redis"
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Verduraria-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports per-dependency health. Redis is optional at boot, so
// a nil client reports as skipped rather than failing readiness.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger, redisP pkgredis.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Verduraria-Env", cfg.App.Env)

		checks := map[string]string{}
		healthy := true

		if dbP != nil {
			if err := dbP.Ping(r.Context()); err != nil {
				checks["database"] = "down"
				healthy = false
				logg.Error(r.Context(), "database unreachable", err)
			} else {
				checks["database"] = "up"
			}
		}

		if redisP == nil {
			checks["redis"] = "skipped"
		} else if err := redisP.Ping(r.Context()); err != nil {
			checks["redis"] = "down"
			healthy = false
			logg.Error(r.Context(), "redis unreachable", err)
		} else {
			checks["redis"] = "up"
		}

		status := http.StatusOK
		if !healthy {
			status = http.StatusServiceUnavailable
		}
		responses.WriteSuccessStatus(w, status, map[string]any{
			"status": map[bool]string{true: "ready", false: "degraded"}[healthy],
			"checks": checks,
		})
	}
}
