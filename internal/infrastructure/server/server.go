package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	httpHandlers "github.com/gardenplan/core/internal/adapters/http"
	"github.com/gardenplan/core/internal/adapters/repository"
	"github.com/gardenplan/core/internal/adapters/weather"
	"github.com/gardenplan/core/internal/application/services"
	"github.com/gardenplan/core/internal/domain/families"
	"github.com/gardenplan/core/internal/domain/frost"
	"github.com/gardenplan/core/internal/domain/maintenance"
	"github.com/gardenplan/core/internal/domain/rotation"
	"github.com/gardenplan/core/internal/domain/species"
	"github.com/gardenplan/core/internal/infrastructure/config"
	"github.com/gardenplan/core/internal/infrastructure/database"
	"github.com/gardenplan/core/internal/infrastructure/logger"
)

// Server represents the HTTP server
type Server struct {
	echo   *echo.Echo
	config *config.Config
	logger *logger.Logger
	db     *database.DB
}

// CustomValidator wraps the validator
type CustomValidator struct {
	validator *validator.Validate
}

// Validate validates structs
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// New creates a new server instance
func New(cfg *config.Config, db *database.DB, appLogger *logger.Logger) (*Server, error) {
	e := echo.New()

	// Set custom validator
	e.Validator = &CustomValidator{validator: validator.New()}

	// Configure Echo
	e.HideBanner = true
	e.HidePort = true

	// Custom error handler
	e.HTTPErrorHandler = customErrorHandler(appLogger)

	// Load the embedded reference data
	catalog, err := species.LoadCatalog()
	if err != nil {
		return nil, fmt.Errorf("failed to load species catalog: %w", err)
	}
	familyRegistry, err := families.LoadRegistry()
	if err != nil {
		return nil, fmt.Errorf("failed to load plant families: %w", err)
	}
	lookup, err := maintenance.LoadLookup(catalog)
	if err != nil {
		return nil, fmt.Errorf("failed to load maintenance templates: %w", err)
	}
	stations, err := frost.LoadIndex()
	if err != nil {
		return nil, fmt.Errorf("failed to load station index: %w", err)
	}

	adjuster := frost.NewAdjuster(stations)
	detector := rotation.NewDetector(familyRegistry)
	weatherSource := weather.NewClient(cfg.Weather, appLogger)

	// Initialize repositories
	gardenRepo := repository.NewGardenRepository(db.DB)
	settingsRepo := repository.NewSettingsRepository(db.DB)
	archiveRepo := repository.NewArchiveRepository(db.DB)

	// Initialize services
	gardenService := services.NewGardenService(gardenRepo, catalog, appLogger)
	zoneService := services.NewZoneService(gardenRepo, appLogger)
	settingsService := services.NewSettingsService(settingsRepo, stations, appLogger)
	archiveService := services.NewArchiveService(gardenRepo, archiveRepo, catalog, familyRegistry, appLogger)
	planningService := services.NewPlanningService(
		gardenRepo, settingsRepo, archiveRepo,
		catalog, adjuster, lookup, detector, weatherSource, appLogger)

	// Initialize handlers
	gardenHandler := httpHandlers.NewGardenHandler(gardenService, zoneService, appLogger)
	planningHandler := httpHandlers.NewPlanningHandler(planningService, appLogger)
	archiveHandler := httpHandlers.NewArchiveHandler(archiveService, appLogger)
	settingsHandler := httpHandlers.NewSettingsHandler(settingsService, appLogger)

	server := &Server{
		echo:   e,
		config: cfg,
		logger: appLogger,
		db:     db,
	}

	// Setup middleware
	server.setupMiddleware()

	// Setup routes
	server.setupRoutes(gardenHandler, planningHandler, archiveHandler, settingsHandler)

	// Setup metrics
	if cfg.Metrics.Enabled {
		server.setupMetrics()
	}

	return server, nil
}

// setupMiddleware configures middleware
func (s *Server) setupMiddleware() {
	// Recovery middleware
	s.echo.Use(middleware.Recover())

	// Logger middleware
	s.echo.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogLatency:   true,
		LogError:     true,
		LogRemoteIP:  true,
		LogUserAgent: true,
		LogValuesFunc: func(c echo.Context, values middleware.RequestLoggerValues) error {
			fields := []interface{}{
				"method", values.Method,
				"uri", values.URI,
				"status", values.Status,
				"latency_ms", float64(values.Latency.Nanoseconds()) / 1000000,
				"remote_ip", values.RemoteIP,
				"user_agent", values.UserAgent,
			}

			if values.Error != nil {
				fields = append(fields, "error", values.Error.Error())
				s.logger.Errorw("HTTP request failed", fields...)
			} else {
				s.logger.Infow("HTTP request", fields...)
			}

			return nil
		},
	}))

	// CORS middleware
	s.echo.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: strings.Split(s.config.Security.CORSAllowedOrigins, ","),
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
		AllowMethods: []string{echo.GET, echo.HEAD, echo.PUT, echo.PATCH, echo.POST, echo.DELETE},
	}))

	// Rate limiting middleware
	s.echo.Use(middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(
			middleware.RateLimiterMemoryStoreConfig{Rate: rate.Limit(s.config.Security.RateLimitRequests), Burst: s.config.Security.RateLimitRequests, ExpiresIn: s.config.Security.RateLimitWindow},
		),
		IdentifierExtractor: func(ctx echo.Context) (string, error) {
			id := ctx.RealIP()
			return id, nil
		},
		ErrorHandler: func(context echo.Context, err error) error {
			return context.JSON(http.StatusForbidden, map[string]string{"message": "rate limit exceeded"})
		},
		DenyHandler: func(context echo.Context, identifier string, err error) error {
			return context.JSON(http.StatusTooManyRequests, map[string]string{"message": "rate limit exceeded"})
		},
	}))

	// Security headers
	s.echo.Use(middleware.SecureWithConfig(middleware.SecureConfig{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		HSTSMaxAge:            31536000,
		ContentSecurityPolicy: "default-src 'self'",
	}))

	// Request ID middleware
	s.echo.Use(middleware.RequestID())

	// Timeout middleware
	s.echo.Use(middleware.TimeoutWithConfig(middleware.TimeoutConfig{
		Timeout: 30 * time.Second,
	}))
}

// setupRoutes configures all routes
func (s *Server) setupRoutes(gardenHandler *httpHandlers.GardenHandler, planningHandler *httpHandlers.PlanningHandler, archiveHandler *httpHandlers.ArchiveHandler, settingsHandler *httpHandlers.SettingsHandler) {
	// Health check routes
	s.echo.GET("/health", s.healthCheck)
	s.echo.GET("/health/detailed", s.detailedHealthCheck)
	s.echo.GET("/ready", s.readinessCheck)

	// API v1 routes
	v1 := s.echo.Group("/api/v1")

	// Garden and zone routes
	gardenGroup := v1.Group("/gardens")
	gardenGroup.GET("", gardenHandler.ListGardens)
	gardenGroup.POST("", gardenHandler.CreateGarden)
	gardenGroup.GET("/:id", gardenHandler.GetGarden)
	gardenGroup.DELETE("/:id", gardenHandler.DeleteGarden)
	gardenGroup.POST("/:id/zones", gardenHandler.CreateZone)
	gardenGroup.PUT("/:id/zones/:zoneId/status", gardenHandler.SetZoneStatus)
	gardenGroup.POST("/:id/zones/:zoneId/tasks/:templateId/toggle", gardenHandler.ToggleTask)
	gardenGroup.DELETE("/:id/zones/:zoneId", gardenHandler.DeleteZone)

	// Planning routes
	gardenGroup.GET("/:id/tasks", planningHandler.MonthlyTasks)
	gardenGroup.GET("/:id/tasks/weekly", planningHandler.WeeklyTasks)
	gardenGroup.GET("/:id/hints", planningHandler.StatusHints)
	gardenGroup.GET("/:id/plan", planningHandler.Plan)
	gardenGroup.GET("/:id/rotation", planningHandler.RotationWarnings)
	gardenGroup.GET("/:id/history", planningHandler.PositionHistory)

	// Archive routes
	gardenGroup.POST("/:id/archive", archiveHandler.ArchiveSeason)
	gardenGroup.GET("/:id/archive", archiveHandler.ListArchives)

	// Settings routes
	settingsGroup := v1.Group("/settings")
	settingsGroup.GET("/:userId", settingsHandler.GetSettings)
	settingsGroup.PUT("/:userId", settingsHandler.UpdateSettings)
}

// setupMetrics configures Prometheus metrics
func (s *Server) setupMetrics() {
	registry := prometheus.NewRegistry()

	requestsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	registry.MustRegister(requestsTotal, requestDuration)

	// Custom metrics middleware
	s.echo.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			duration := time.Since(start)
			status := c.Response().Status

			requestsTotal.WithLabelValues(
				c.Request().Method,
				c.Path(),
				fmt.Sprintf("%d", status),
			).Inc()

			requestDuration.WithLabelValues(
				c.Request().Method,
				c.Path(),
			).Observe(duration.Seconds())

			return err
		}
	})

	// Metrics endpoint
	metricsHandler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	s.echo.GET("/metrics", echo.WrapHandler(metricsHandler))
}

// Health check handlers
func (s *Server) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) detailedHealthCheck(c echo.Context) error {
	status := "ok"
	checks := make(map[string]interface{})

	// Database health check
	if err := s.db.HealthCheck(); err != nil {
		status = "error"
		checks["database"] = map[string]interface{}{
			"status": "error",
			"error":  err.Error(),
		}
	} else {
		checks["database"] = map[string]interface{}{
			"status": "ok",
			"stats":  s.db.GetConnectionInfo(),
		}
	}

	response := map[string]interface{}{
		"status": status,
		"time":   time.Now().UTC().Format(time.RFC3339),
		"checks": checks,
		"version": map[string]string{
			"app": s.config.App.Version,
			"go":  "1.21",
		},
	}

	if status == "ok" {
		return c.JSON(http.StatusOK, response)
	}
	return c.JSON(http.StatusServiceUnavailable, response)
}

func (s *Server) readinessCheck(c echo.Context) error {
	// Check if server is ready to accept requests
	if err := s.db.Ping(); err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"status": "not_ready",
			"reason": "database_not_ready",
		})
	}

	return c.JSON(http.StatusOK, map[string]string{
		"status": "ready",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// Start starts the HTTP server
func (s *Server) Start(address string) error {
	s.logger.Info("Starting server", "address", address)
	return s.echo.Start(address)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down server")
	return s.echo.Shutdown(ctx)
}

// customErrorHandler handles HTTP errors
func customErrorHandler(logger *logger.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		var (
			code = http.StatusInternalServerError
			msg  interface{}
		)

		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
			msg = he.Message
			if he.Internal != nil {
				err = fmt.Errorf("%v, %v", err, he.Internal)
			}
		} else if e, ok := err.(*validator.ValidationErrors); ok {
			code = http.StatusBadRequest
			msg = map[string]string{"message": "validation failed", "details": e.Error()}
		} else {
			msg = map[string]string{"message": http.StatusText(code)}
		}

		if code == http.StatusInternalServerError {
			logger.Error("Internal server error", "error", err, "path", c.Request().URL.Path)
		}

		// Send response
		if !c.Response().Committed {
			if c.Request().Method == echo.HEAD {
				err = c.NoContent(code)
			} else {
				err = c.JSON(code, msg)
			}
			if err != nil {
				logger.Error("Error sending response", "error", err)
			}
		}
	}
}
