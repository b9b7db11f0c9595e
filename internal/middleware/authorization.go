package middleware

import (
	"net/http"

	"go.uber.org/zap"
)

// RequireAdmin limits a route group to the admin role
func RequireAdmin(logger *zap.Logger) func(http.Handler) http.Handler {
	return RequireRole([]string{RoleAdmin}, logger)
}

// RequireRole limits a route group to the given roles. It must run after
// AuthMiddleware, which puts the role in the request context.
func RequireRole(allowedRoles []string, logger *zap.Logger) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, role := range allowedRoles {
		allowed[role] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, _ := GetUserRole(r.Context())
			if _, ok := allowed[role]; ok {
				next.ServeHTTP(w, r)
				return
			}

			userID, _ := GetUserID(r.Context())
			logger.Warn("Access denied",
				zap.String("user_id", userID),
				zap.String("role", role),
				zap.Strings("allowed_roles", allowedRoles),
				zap.String("path", r.URL.Path),
			)
			RespondWithError(w, http.StatusForbidden, "insufficient permissions")
		})
	}
}
