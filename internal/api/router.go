package api

import (
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/oltenita/imobilia-market/internal/api/docs"
	"github.com/oltenita/imobilia-market/internal/api/handler"
	"github.com/oltenita/imobilia-market/internal/api/middleware"
	"github.com/oltenita/imobilia-market/internal/core/ports"
	"github.com/oltenita/imobilia-market/internal/infrastructure/http/handlers"
	"github.com/oltenita/imobilia-market/internal/infrastructure/storage"
)

// Deps carries everything the HTTP layer needs. Services are built by the
// caller so tests can swap in fakes.
type Deps struct {
	AuthService    ports.AuthService
	ListingService ports.ListingService
	Tokens         ports.TokenService

	Readiness map[string]handlers.Check

	// UploadDir is served under /uploads when set (local image storage).
	UploadDir   string
	FrontendURL string
	BodyLimit   string

	// Registerer and Gatherer default to the global Prometheus registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer

	Logger zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Logger)

	if d.Registerer == nil {
		d.Registerer = prometheus.DefaultRegisterer
	}
	if d.Gatherer == nil {
		d.Gatherer = prometheus.DefaultGatherer
	}
	if d.FrontendURL == "" {
		d.FrontendURL = "*"
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Logger))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "imobilia",
		Subsystem:  "http",
		Registerer: d.Registerer,
	}))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     []string{d.FrontendURL},
		AllowCredentials: true,
		AllowHeaders: []string{
			echo.HeaderOrigin,
			echo.HeaderContentType,
			echo.HeaderAccept,
			echo.HeaderAuthorization,
			handler.HeaderIdempotencyKey,
		},
	}))
	if d.BodyLimit != "" {
		e.Use(echomiddleware.BodyLimit(d.BodyLimit))
	}

	authHandler := handler.NewAuthHandler(d.AuthService)
	listingHandler := handler.NewListingHandler(d.ListingService)
	requireAuth := middleware.Auth(d.Tokens)

	// --- Auth routes (the bare paths are kept for older clients) ---
	for _, prefix := range []string{"/api", ""} {
		e.POST(prefix+"/register", authHandler.Register)
		e.POST(prefix+"/login", authHandler.Login)
	}

	api := e.Group("/api")
	api.GET("/test", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"message": "Backend funcționează corect 🚀"})
	})

	// --- Listings ---
	api.GET("/listings", listingHandler.List)
	api.GET("/listings/:id", listingHandler.Get)
	api.POST("/listings", listingHandler.Create, requireAuth)
	api.PUT("/listings/:id", listingHandler.Update, requireAuth)
	api.DELETE("/listings/:id", listingHandler.Delete, requireAuth)
	api.GET("/my-listings", listingHandler.Mine, requireAuth)

	if d.UploadDir != "" {
		e.Static(storage.LocalURLPrefix, d.UploadDir)
	}

	// --- Operations (no auth required) ---
	e.GET("/health", handlers.NewHealthHandler().Liveness)
	e.GET("/health/ready", handlers.NewReadinessHandler(d.Readiness, d.Logger).Readiness)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: d.Gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

// requestLogger writes one zerolog line per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
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
				Str("remote_ip", v.RemoteIP).
				Msg("request")
			return nil
		},
	})
}
