package middleware

import (
	"net/http"

	"havenrp-web/internal/service"
	"havenrp-web/pkg/errors"
	"havenrp-web/pkg/logger"
)

// RequireCouncilAdmin gates a route on the configured council-admin Discord
// role. It must run after Auth. The check is fail-fast only; the remote
// campaign service independently authorizes every privileged call.
func RequireCouncilAdmin(directory *service.DirectoryService, adminRoleID string, logger *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFromContext(r.Context())
			if !ok {
				writeErrorResponse(w, errors.NewAuthenticationError("Authentication required"), logger)
				return
			}

			if adminRoleID == "" {
				writeErrorResponse(w, errors.NewAuthorizationError("Council administration is not enabled"), logger)
				return
			}

			hasRole, err := directory.HasRole(r.Context(), user.DiscordID, adminRoleID)
			if err != nil {
				logger.WithError(err).Error("Role lookup failed")
				if appErr, isApp := errors.AsAppError(err); isApp {
					writeErrorResponse(w, appErr, logger)
				} else {
					writeErrorResponse(w, errors.NewExternalError("Unable to verify role membership", err), logger)
				}
				return
			}

			if !hasRole {
				logger.WithField("discord_id", user.DiscordID).Warn("Council admin access denied")
				writeErrorResponse(w, errors.NewAuthorizationError("Council admin role required"), logger)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
