package auth

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/workforce-portal/internal"
	"github.com/frahmantamala/workforce-portal/internal/transport"
	"github.com/frahmantamala/workforce-portal/pkg/logger"
)

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(svc ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     svc,
	}
}

// SendOTP handles POST /auth/otp/send. The code goes out by mail; the
// response never carries it.
func (h *Handler) SendOTP(w http.ResponseWriter, r *http.Request) {
	var dto SendOTPDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, internal.NewValidationError("invalid request body", internal.ErrCodeValidationFailed))
		return
	}

	if err := h.Service.RequestCode(dto); err != nil {
		h.Logger.Error("otp request failed", "error", err)
		h.WriteError(w, err)
		return
	}

	h.WriteMessage(w, http.StatusOK, "OTP sent")
}

// VerifyOTP handles POST /auth/otp/verify.
func (h *Handler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var dto VerifyOTPDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, internal.NewValidationError("invalid request body", internal.ErrCodeValidationFailed))
		return
	}

	user, token, err := h.Service.VerifyCode(dto)
	if err != nil {
		h.Logger.Warn("otp verification failed", "error", err)
		h.WriteError(w, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, AuthResponse{
		User:  ToUserResponse(user),
		Token: token,
	})
}

// SocialLogin handles POST /auth/social. Provider-relayed profile data is
// accepted without verifying the provider token server-side.
func (h *Handler) SocialLogin(w http.ResponseWriter, r *http.Request) {
	var dto SocialLoginDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, internal.NewValidationError("invalid request body", internal.ErrCodeValidationFailed))
		return
	}

	user, token, err := h.Service.SocialLogin(dto)
	if err != nil {
		h.Logger.Warn("social login failed", "provider", dto.Provider, "error", err)
		h.WriteError(w, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, AuthResponse{
		User:  ToUserResponse(user),
		Token: token,
	})
}

// Me handles GET /auth/me for an authenticated caller.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, internal.ErrNoToken)
		return
	}

	h.WriteSuccess(w, http.StatusOK, map[string]interface{}{
		"user": ToUserResponse(user),
	})
}

// AuthMiddleware is the authentication gate. It validates the bearer token
// and attaches the identity, with roles reloaded from the store, to the
// request context for the authorization gate and handlers downstream.
func (h *Handler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := h.ExtractTokenFromHeader(r)
		if token == "" {
			h.WriteError(w, internal.ErrNoToken)
			return
		}

		claims, err := h.Service.ValidateAccessToken(token)
		if err != nil {
			h.WriteError(w, err)
			return
		}

		user, err := h.Service.GetUserWithRoles(claims.UserID)
		if err != nil {
			h.Logger.Error("auth middleware: failed to load user", "user_id", claims.UserID, "error", err)
			h.WriteError(w, internal.ErrInvalidToken)
			return
		}

		ctx := logger.With(ContextWithUser(r.Context(), user), "user_id", user.ID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
