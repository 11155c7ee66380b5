package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"github.com/unrolled/secure"

	"github.com/tenderdesk/caseforum/internal/api/handler"
	"github.com/tenderdesk/caseforum/internal/api/middleware"
	"github.com/tenderdesk/caseforum/internal/core/ports"
)

// Dependencies are the services and probes the HTTP edge is built on.
type Dependencies struct {
	Auth       ports.AuthService
	Admins     ports.AdminService
	Builder    handler.PageBuilder
	Dispatcher handler.ActionDispatcher
	Probes     []handler.Probe
	Logger     zerolog.Logger
	// Registry collects HTTP metrics. Nil uses the default registry.
	Registry *prometheus.Registry
	// Production enables HSTS and HTTPS redirects.
	Production bool
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echo.WrapMiddleware(secureHeaders(deps.Production).Handler))

	var registerer prometheus.Registerer = prometheus.DefaultRegisterer
	var gatherer prometheus.Gatherer = prometheus.DefaultGatherer
	if deps.Registry != nil {
		registerer, gatherer = deps.Registry, deps.Registry
	}
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "caseforum",
		Registerer: registerer,
	}))

	requireAuth := middleware.Auth(deps.Auth)
	optionalAuth := middleware.OptionalAuth(deps.Auth)
	session := middleware.LoadSession(deps.Admins)

	// --- Auth routes ---
	authHandler := handler.NewAuthHandler(deps.Auth)
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/logout", authHandler.Logout, requireAuth)

	// --- Views and actions ---
	v1 := e.Group("/v1")
	v1.GET("/views", handler.NewViewHandler(deps.Builder, deps.Logger).Get, optionalAuth, session)
	v1.POST("/actions", handler.NewActionHandler(deps.Dispatcher).Perform, requireAuth, session)
	v1.GET("/admins", handler.NewAdminHandler(deps.Admins).List, requireAuth, session, middleware.RequireAdmin())

	// --- Health probes (no auth required) ---
	e.GET("/health", handler.NewHealthHandler().Liveness)
	e.GET("/health/ready", handler.NewReadinessHandler(deps.Probes...).Readiness)

	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

func secureHeaders(production bool) *secure.Secure {
	return secure.New(secure.Options{
		FrameDeny:             true,
		ContentTypeNosniff:    true,
		BrowserXssFilter:      true,
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		ContentSecurityPolicy: "default-src 'self'; frame-ancestors 'none'",
		SSLRedirect:           production,
		SSLProxyHeaders:       map[string]string{"X-Forwarded-Proto": "https"},
		STSSeconds:            stsSeconds(production),
		IsDevelopment:         !production,
	})
}

func stsSeconds(production bool) int64 {
	if production {
		return 31536000
	}
	return 0
}
