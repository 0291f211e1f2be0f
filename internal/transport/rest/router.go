package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/workforce-portal/internal/auth"
	"github.com/frahmantamala/workforce-portal/internal/role"
	"github.com/frahmantamala/workforce-portal/internal/transport/middleware"
	"github.com/frahmantamala/workforce-portal/internal/transport/swagger"
	"github.com/frahmantamala/workforce-portal/internal/user"
	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
)

// UserManagementApp is the application whose permission matrix gates the
// admin surface (users and roles).
const UserManagementApp = "User Management"

type RouterConfig struct {
	Environment string
	OTPLimiter  *middleware.RateLimiter
}

func RegisterAllRoutes(router *chi.Mux, db *sql.DB, cfg RouterConfig, authHandler *auth.Handler, rbac *auth.RBACAuthorization, userHandler *user.Handler, roleHandler *role.Handler, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	// Apply global middleware
	router.Use(middleware.CORS)
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger, cfg.Environment))

	// Serve OpenAPI spec at root (outside API prefix)
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	// Swagger UI route at root
	router.Handle("/swagger/*", swagger.Handler())

	// Mount API under /api to match OpenAPI basePath
	router.Route("/api", func(r chi.Router) {
		// Health check routes
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		// Auth routes
		if authHandler != nil {
			r.Route("/auth", func(sr chi.Router) {
				if cfg.OTPLimiter != nil {
					sr.With(cfg.OTPLimiter.Middleware).Post("/otp/send", authHandler.SendOTP)
				} else {
					sr.Post("/otp/send", authHandler.SendOTP)
				}
				sr.Post("/otp/verify", authHandler.VerifyOTP)
				sr.Post("/social", authHandler.SocialLogin)
			})
		}

		if authHandler != nil {
			// Protected routes that require authentication
			r.Group(func(pr chi.Router) {
				pr.Use(authHandler.AuthMiddleware)

				pr.Get("/auth/me", authHandler.Me)

				// User administration, gated per action on the User Management matrix
				if userHandler != nil {
					pr.Route("/users", func(ur chi.Router) {
						ur.With(rbac.Require(UserManagementApp, auth.ActionView)).Get("/", userHandler.List)
						ur.With(rbac.Require(UserManagementApp, auth.ActionView)).Get("/{id}", userHandler.Get)
						ur.With(rbac.Require(UserManagementApp, auth.ActionCreate)).Post("/", userHandler.Create)
						ur.With(rbac.Require(UserManagementApp, auth.ActionEdit)).Put("/{id}", userHandler.Update)
						ur.With(rbac.Require(UserManagementApp, auth.ActionDelete)).Delete("/{id}", userHandler.Delete)
					})
				}

				// Role administration shares the same matrix
				if roleHandler != nil {
					pr.Route("/roles", func(rr chi.Router) {
						rr.With(rbac.Require(UserManagementApp, auth.ActionView)).Get("/", roleHandler.List)
						rr.With(rbac.Require(UserManagementApp, auth.ActionView)).Get("/{id}", roleHandler.Get)
						rr.With(rbac.Require(UserManagementApp, auth.ActionCreate)).Post("/", roleHandler.Create)
						rr.With(rbac.Require(UserManagementApp, auth.ActionEdit)).Put("/{id}", roleHandler.Update)
						rr.With(rbac.Require(UserManagementApp, auth.ActionDelete)).Delete("/{id}", roleHandler.Delete)
					})
				}
			})
		}
	})
}
