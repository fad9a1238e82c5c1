// Package server wires configuration, storage, domain services, and the
// HTTP surface into a runnable application.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"hrms/internal/domain/attendance"
	"hrms/internal/domain/audit"
	"hrms/internal/domain/auth"
	"hrms/internal/domain/dashboard"
	"hrms/internal/domain/directory"
	"hrms/internal/domain/leave"
	"hrms/internal/domain/notifications"
	"hrms/internal/platform/config"
	"hrms/internal/platform/db"
	"hrms/internal/platform/email"
	"hrms/internal/platform/metrics"
	"hrms/internal/transport/http/api"
	attendancehandler "hrms/internal/transport/http/handlers/attendance"
	audithandler "hrms/internal/transport/http/handlers/audit"
	authhandler "hrms/internal/transport/http/handlers/auth"
	dashboardhandler "hrms/internal/transport/http/handlers/dashboard"
	departmentshandler "hrms/internal/transport/http/handlers/departments"
	leaveshandler "hrms/internal/transport/http/handlers/leaves"
	notificationshandler "hrms/internal/transport/http/handlers/notifications"
	usershandler "hrms/internal/transport/http/handlers/users"
	"hrms/internal/transport/http/middleware"
)

type App struct {
	Config  config.Config
	DB      *pgxpool.Pool
	Router  http.Handler
	Metrics *metrics.Collector
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, cfg.MigrationsDir); err != nil {
			pool.Close()
			return nil, err
		}
	}
	if cfg.RunSeed {
		if err := db.Seed(ctx, pool, cfg); err != nil {
			pool.Close()
			return nil, err
		}
	}

	collector := metrics.New()

	directoryService := directory.NewService(directory.NewStore(pool))
	authService := auth.NewService(directoryService, cfg.JWTSecret)
	attendanceService := attendance.NewService(attendance.NewStore(pool))
	leaveService := leave.NewService(leave.NewStore(pool))
	dashboardService := dashboard.NewService(dashboard.NewStore(pool))
	auditService := audit.New(pool)
	notifier := notifications.New(pool, email.New(cfg), cfg.EmailFrom)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.SecureHeaders(cfg.Environment == "production"))
	router.Use(middleware.Logger(collector))
	router.Use(middleware.Recoverer)
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(middleware.Auth(cfg.JWTSecret))
	router.Use(middleware.RateLimit(cfg.RateLimitPerMinute, time.Minute))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		api.Success(w, map[string]string{"status": "ok"}, middleware.GetRequestID(r.Context()))
	})
	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if err := pool.Ping(r.Context()); err != nil {
			api.Fail(w, http.StatusServiceUnavailable, "not_ready", "database unreachable", middleware.GetRequestID(r.Context()))
			return
		}
		api.Success(w, map[string]string{"status": "ready"}, middleware.GetRequestID(r.Context()))
	})

	router.Route("/api/v1", func(r chi.Router) {
		authhandler.NewHandler(authService, auditService).RegisterRoutes(r)
		usershandler.NewHandler(directoryService, authService, auditService).RegisterRoutes(r)
		departmentshandler.NewHandler(directoryService, auditService).RegisterRoutes(r)
		attendancehandler.NewHandler(attendanceService, auditService).RegisterRoutes(r)
		leaveshandler.NewHandler(leaveService, auditService, notifier).RegisterRoutes(r)
		dashboardhandler.NewHandler(dashboardService).RegisterRoutes(r)
		notificationshandler.NewHandler(notifier).RegisterRoutes(r)
		audithandler.NewHandler(auditService).RegisterRoutes(r)

		if cfg.MetricsEnabled {
			r.With(middleware.RequirePermission(auth.PermMetricsRead)).Get("/metrics", func(w http.ResponseWriter, req *http.Request) {
				api.Success(w, collector.Snapshot(), middleware.GetRequestID(req.Context()))
			})
		}
	})

	return &App{
		Config:  cfg,
		DB:      pool,
		Router:  router,
		Metrics: collector,
	}, nil
}

func (a *App) Close() {
	a.DB.Close()
}
