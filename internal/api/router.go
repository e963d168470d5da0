package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/99minutos/club-admin/internal/api/handler"
	"github.com/99minutos/club-admin/internal/api/middleware"
	"github.com/99minutos/club-admin/internal/core/domain"
	"github.com/99minutos/club-admin/internal/core/ports"

	_ "github.com/99minutos/club-admin/docs" // registers the swagger document
)

// Dependencies are the collaborators the HTTP layer needs.
type Dependencies struct {
	Store      ports.ClubStore
	Auth       ports.AuthService
	Dashboards ports.DashboardService
	Reports    ports.ReportService
	// Checks are pinged by /health/ready, keyed by dependency name.
	Checks map[string]handler.Pinger
	Log    zerolog.Logger
	// Now overrides the wall clock; nil means time.Now.
	Now func() time.Time
	// Metrics receives the HTTP collectors and backs /metrics. Nil means the
	// prometheus default registry.
	Metrics *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Log))
	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if deps.Metrics != nil {
		registerer, gatherer = deps.Metrics, deps.Metrics
	}
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "club",
		Registerer: registerer,
	}))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.Auth, deps.Store)
	userHandler := handler.NewUserHandler(deps.Store)
	taskHandler := handler.NewTaskHandler(deps.Store)
	eventHandler := handler.NewEventHandler(deps.Store, deps.Now)
	meetingHandler := handler.NewMeetingHandler(deps.Store)
	newsHandler := handler.NewNewsHandler(deps.Store)
	dashboardHandler := handler.NewDashboardHandler(deps.Dashboards, deps.Store, deps.Now)
	reportHandler := handler.NewReportHandler(deps.Reports)

	authenticated := []echo.MiddlewareFunc{middleware.Auth(deps.Auth), middleware.Session(deps.Auth)}
	anyRole := middleware.RBAC(domain.RoleAdmin, domain.RoleMember)
	adminOnly := middleware.RBAC(domain.RoleAdmin)

	// --- Auth routes ---
	e.POST("/auth/login", authHandler.Login)
	me := e.Group("/auth", authenticated...)
	me.POST("/logout", authHandler.Logout)
	me.GET("/me", authHandler.Me)
	me.PUT("/me/password", authHandler.ChangePassword)

	// --- Club routes ---
	v1 := e.Group("/v1", authenticated...)

	v1.GET("/users", userHandler.List, adminOnly)
	v1.GET("/members", userHandler.Members, adminOnly)
	v1.POST("/users", userHandler.Create, adminOnly)
	v1.DELETE("/users/:id", userHandler.Delete, adminOnly)

	v1.GET("/tasks", taskHandler.List, adminOnly)
	v1.POST("/tasks", taskHandler.Create, adminOnly)
	v1.DELETE("/tasks/:id", taskHandler.Delete, adminOnly)
	v1.PATCH("/tasks/:id/status", taskHandler.UpdateStatus, anyRole)

	v1.GET("/events", eventHandler.List, anyRole)
	v1.POST("/events", eventHandler.Create, adminOnly)
	v1.POST("/events/:id/attendance", eventHandler.ToggleAttendance, anyRole)

	v1.GET("/meetings", meetingHandler.List, anyRole)
	v1.POST("/meetings", meetingHandler.Create, adminOnly)

	v1.GET("/news", newsHandler.List, anyRole)
	v1.POST("/news", newsHandler.Create, adminOnly)

	v1.GET("/dashboard/admin", dashboardHandler.Admin, adminOnly)
	v1.GET("/dashboard/me", dashboardHandler.Me, anyRole)

	v1.POST("/reports", reportHandler.Generate, adminOnly)

	// --- Health checks (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.Checks)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Ops ---
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

// requestLogger logs one zerolog line per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Status >= 500 {
				ev = log.Error().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
