package auth

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/workforce-portal/internal"
)

type PermissionAuthorizer interface {
	Authorize(userID, applicationName string, action Action) (bool, error)
}

// RBACAuthorization is the authorization gate: it runs after the
// authentication gate and checks the declared (application, action) pair.
type RBACAuthorization struct {
	authorizer PermissionAuthorizer
	logger     *slog.Logger
}

func NewRBACAuthorization(authorizer PermissionAuthorizer, logger *slog.Logger) *RBACAuthorization {
	return &RBACAuthorization{
		authorizer: authorizer,
		logger:     logger,
	}
}

// Require gates a route on the named application and action. Unknown
// applications and missing grants are both plain denials.
func (ra *RBACAuthorization) Require(applicationName string, action Action) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFromContext(r.Context())
			if !ok || user == nil {
				ra.logger.Warn("authorization check failed: user not found in context")
				writeAppError(w, internal.ErrNoToken)
				return
			}

			allowed, err := ra.authorizer.Authorize(user.ID, applicationName, action)
			if err != nil {
				ra.logger.ErrorContext(r.Context(), "authorization check failed",
					"error", err,
					"user_id", user.ID,
					"application", applicationName,
					"action", action)
				writeAppError(w, internal.NewInternalError("internal server error", err))
				return
			}

			if !allowed {
				ra.logger.WarnContext(r.Context(), "access denied: insufficient permissions",
					"user_id", user.ID,
					"application", applicationName,
					"action", action,
					"roles", user.Roles)
				writeAppError(w, internal.ErrInsufficientPermission)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func writeAppError(w http.ResponseWriter, appErr *internal.AppError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(appErr.StatusCode)
	json.NewEncoder(w).Encode(internal.Response{Error: appErr})
}
