package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/workforce-portal/internal"
	"github.com/frahmantamala/workforce-portal/internal/auth"
	authPostgres "github.com/frahmantamala/workforce-portal/internal/auth/postgres"
	"github.com/frahmantamala/workforce-portal/internal/core/events"
	"github.com/frahmantamala/workforce-portal/internal/mailer"
	"github.com/frahmantamala/workforce-portal/internal/role"
	rolePostgres "github.com/frahmantamala/workforce-portal/internal/role/postgres"
	"github.com/frahmantamala/workforce-portal/internal/transport/middleware"
	"github.com/frahmantamala/workforce-portal/internal/transport/rest"
	"github.com/frahmantamala/workforce-portal/internal/user"
	userPostgres "github.com/frahmantamala/workforce-portal/internal/user/postgres"
	"github.com/frahmantamala/workforce-portal/pkg/logger"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config   *internal.Config
	DB       *sqlx.DB
	GormDB   *gorm.DB
	Router   *chi.Mux
	EventBus *events.EventBus
	Logger   *slog.Logger

	AuthHandler *auth.Handler
	RBAC        *auth.RBACAuthorization
	UserHandler *user.Handler
	RoleHandler *role.Handler
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	setupRoutes(deps)

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("Starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	// Signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("Server shutdown error", "error", err)
		}
		if err := deps.DB.Close(); err != nil {
			deps.Logger.Error("Database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			deps.Logger.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	deps.Logger.Info("Server stopped")
}

func setupRoutes(deps *Dependencies) {
	otpLimiter := middleware.NewRateLimiter(deps.Config.OTP.SendRate, deps.Config.OTP.SendBurst)

	rest.RegisterAllRoutes(deps.Router, deps.DB.DB, rest.RouterConfig{
		Environment: deps.Config.Environment,
		OTPLimiter:  otpLimiter,
	}, deps.AuthHandler, deps.RBAC, deps.UserHandler, deps.RoleHandler, deps.Logger)
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(config.Environment, config.Observability.Logging.Level)
	appLogger := logger.LoggerWrapper()

	db, gormDB, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	eventBus := events.NewEventBus(appLogger)

	// OTP delivery rides the event bus so the auth service never touches SMTP
	smtpSender := mailer.NewSMTPSender(config.Mailer)
	mailHandler := mailer.NewEventHandler(smtpSender, appLogger)
	mailHandler.RegisterEventHandlers(eventBus)

	authRepo := authPostgres.NewRepository(gormDB)
	tokenGen := auth.NewJWTTokenGenerator(config.Security.JWTSecret, config.Security.TokenDuration)
	authService := auth.NewService(authRepo, tokenGen, eventBus, appLogger, config.OTP, config.Security.BCryptCost)
	authHandler := auth.NewHandler(authService)

	permChecker := auth.NewPermissionChecker(authRepo, appLogger)
	rbac := auth.NewRBACAuthorization(permChecker, appLogger)

	userRepo := userPostgres.NewRepository(gormDB)
	userService := user.NewService(userRepo, appLogger, config.Security.BCryptCost)
	userHandler := user.NewHandler(userService)

	roleRepo := rolePostgres.NewRepository(gormDB)
	roleService := role.NewService(roleRepo, appLogger)
	roleHandler := role.NewHandler(roleService)

	return &Dependencies{
		Config:      config,
		Logger:      appLogger,
		DB:          db,
		GormDB:      gormDB,
		Router:      chi.NewRouter(),
		EventBus:    eventBus,
		AuthHandler: authHandler,
		RBAC:        rbac,
		UserHandler: userHandler,
		RoleHandler: roleHandler,
	}, nil
}

// initDB opens the pgx connection pool and wraps the same pool with gorm
// so repositories and health checks share one set of connections.
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, *gorm.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	// verify connection; close underlying *sql.DB on failure
	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, nil, fmt.Errorf("failed to ping database: %w", err)
	}

	gormDB, err := gorm.Open(gormPostgres.New(gormPostgres.Config{Conn: dbConn.DB}), &gorm.Config{})
	if err != nil {
		_ = dbConn.Close()
		return nil, nil, fmt.Errorf("failed to wrap db connection: %w", err)
	}

	return dbConn, gormDB, nil
}
