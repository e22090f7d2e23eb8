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

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/workhub/workspace-portal/internal"
	"github.com/workhub/workspace-portal/internal/auth"
	authPostgres "github.com/workhub/workspace-portal/internal/auth/postgres"
	"github.com/workhub/workspace-portal/internal/board"
	boardPostgres "github.com/workhub/workspace-portal/internal/board/postgres"
	"github.com/workhub/workspace-portal/internal/core/audit"
	"github.com/workhub/workspace-portal/internal/event"
	eventPostgres "github.com/workhub/workspace-portal/internal/event/postgres"
	"github.com/workhub/workspace-portal/internal/permission"
	permissionPostgres "github.com/workhub/workspace-portal/internal/permission/postgres"
	"github.com/workhub/workspace-portal/internal/post"
	postPostgres "github.com/workhub/workspace-portal/internal/post/postgres"
	"github.com/workhub/workspace-portal/internal/role"
	rolePostgres "github.com/workhub/workspace-portal/internal/role/postgres"
	"github.com/workhub/workspace-portal/internal/transport"
	"github.com/workhub/workspace-portal/internal/transport/rest"
	"github.com/workhub/workspace-portal/internal/transport/swagger"
	"github.com/workhub/workspace-portal/internal/user"
	userPostgres "github.com/workhub/workspace-portal/internal/user/postgres"
	"github.com/workhub/workspace-portal/pkg/logger"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle portal API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config *internal.Config
	DB     *sqlx.DB
	GormDB *gorm.DB
	Router *chi.Mux
	Logger *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	if err := swagger.ValidateSpec(context.Background(), "./api/openapi.yml"); err != nil {
		deps.Logger.Error("openapi document invalid", "error", err)
		os.Exit(1)
	}

	setupRoutes(deps)

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:         addr,
		Handler:      deps.Router,
		ReadTimeout:  deps.Config.Server.ReadTimeout,
		WriteTimeout: deps.Config.Server.WriteTimeout,
		IdleTimeout:  deps.Config.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("received signal, shutting down", "signal", sig.String())
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("server shutdown error", "error", err)
		}
		if err := deps.DB.Close(); err != nil {
			deps.Logger.Error("database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			deps.Logger.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}

	deps.Logger.Info("server stopped")
}

func setupRoutes(deps *Dependencies) {
	lg := deps.Logger
	baseHandler := transport.NewBaseHandler(lg)

	auditBus := audit.NewBus(lg)
	audit.RegisterLogSink(auditBus, lg)

	authRepo := authPostgres.NewRepository(deps.GormDB)
	tokens := auth.NewTokenIssuer(deps.Config.Security.TokenSecret, deps.Config.Security.TokenLifetime)
	authService := auth.NewService(authRepo, tokens, auditBus, lg, deps.Config.Security.BCryptCost)
	authHandler := auth.NewHandler(authService)
	authorizer := auth.NewAuthorizer(authRepo, authRepo, auditBus, lg)

	boardService := board.NewService(boardPostgres.NewBoardRepository(deps.GormDB), auditBus, lg)
	postService := post.NewService(postPostgres.NewPostRepository(deps.GormDB), lg)
	eventService := event.NewService(eventPostgres.NewEventRepository(deps.GormDB), auditBus, lg)
	userService := user.NewService(userPostgres.NewUserRepository(deps.GormDB), authService, auditBus, lg)
	roleService := role.NewService(rolePostgres.NewRoleRepository(deps.GormDB), auditBus, lg)
	permissionService := permission.NewService(permissionPostgres.NewPermissionRepository(deps.GormDB), auditBus, lg)

	rest.RegisterAllRoutes(deps.Router, deps.DB.DB, rest.Handlers{
		Auth:       authHandler,
		Authorizer: authorizer,
		Board:      board.NewHandler(baseHandler, boardService),
		Post:       post.NewHandler(baseHandler, postService),
		Event:      event.NewHandler(baseHandler, eventService),
		User:       user.NewHandler(baseHandler, userService),
		Role:       role.NewHandler(baseHandler, roleService),
		Permission: permission.NewHandler(baseHandler, permissionService),
	}, deps.Config.Server.AllowedOrigins, lg)
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(config.Observability.Logging.Level, config.Observability.Logging.Format)

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gormDB, err := gorm.Open(gormPostgres.New(gormPostgres.Config{Conn: db.DB}), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to open gorm over pgx: %w", err)
	}

	return &Dependencies{
		Config: config,
		Logger: logger.L(),
		DB:     db,
		GormDB: gormDB,
		Router: chi.NewRouter(),
	}, nil
}

func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}
