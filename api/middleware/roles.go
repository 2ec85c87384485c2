package middleware

import (
	"net/http"

	"github.com/verduraria/backend/api/responses"
	"github.com/verduraria/backend/pkg/enums"
	pkgerrors "github.com/verduraria/backend/pkg/errors"
	"github.com/verduraria/backend/pkg/logger"
)

// RequireAdmin gates catalog mutation, coupon management and finance routes.
func RequireAdmin(logg *logger.Logger) func(http.Handler) http.Handler {
	return requireRole(logg, func(role enums.UserRole) bool {
		return role == enums.UserRoleAdmin
	})
}

// RequireOperator admits both operators and admins to back-office reads
// (inventory movements, analytics, order management).
func RequireOperator(logg *logger.Logger) func(http.Handler) http.Handler {
	return requireRole(logg, func(role enums.UserRole) bool {
		return role.CanOperate()
	})
}

func requireRole(logg *logger.Logger, allowed func(enums.UserRole) bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role := enums.UserRole(RoleFromContext(r.Context()))
			if !role.IsValid() || !allowed(role) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "role required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
