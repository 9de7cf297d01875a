// Package api assembles the HTTP server: service construction, Echo
// middleware, and the /api/v1 route tree.
package api

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/mwijanarko1/rijal/internal/auth"
	"github.com/mwijanarko1/rijal/internal/config"
	"github.com/mwijanarko1/rijal/internal/hadith"
	"github.com/mwijanarko1/rijal/internal/importer"
	"github.com/mwijanarko1/rijal/internal/logger"
	"github.com/mwijanarko1/rijal/internal/matching"
	"github.com/mwijanarko1/rijal/internal/narrator"
	"github.com/mwijanarko1/rijal/internal/scheduler"
	"github.com/mwijanarko1/rijal/internal/shamela"
	"github.com/mwijanarko1/rijal/internal/websocket"
)

// Server handles HTTP requests for the rijal API.
type Server struct {
	echo      *echo.Echo
	db        *sql.DB
	hub       *websocket.Hub
	logger    zerolog.Logger
	appLogger *logger.Logger
	cfg       *config.Config
	startTime time.Time

	authService     *auth.Service
	narratorService *narrator.Service
	hadithService   *hadith.Service
	importerService *importer.Service
	scheduler       *scheduler.Scheduler
}

// NewServer creates a new API server instance and wires the services.
func NewServer(db *sql.DB, hub *websocket.Hub, cfg *config.Config, appLogger *logger.Logger) (*Server, error) {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		echo:      e,
		db:        db,
		hub:       hub,
		logger:    appLogger.WithComponent("api"),
		appLogger: appLogger,
		cfg:       cfg,
		startTime: time.Now(),
	}

	authService, err := auth.NewService(db, cfg.Auth.JWTSecret)
	if err != nil {
		return nil, err
	}
	s.authService = authService

	matcher := matching.NewMatcher(matching.Policy{
		CrossScriptDiscount: cfg.Matching.CrossScriptDiscount,
		ConfidenceFloor:     cfg.Matching.ConfidenceFloor,
	})
	s.narratorService = narrator.NewService(db, matcher, appLogger.Logger)
	s.hadithService = hadith.NewService(db, s.narratorService, appLogger.Logger)

	scraperClient := shamela.NewClient(
		cfg.Scraper.UserAgent,
		time.Duration(cfg.Scraper.TimeoutSeconds)*time.Second,
		appLogger.Logger,
	)
	s.importerService = importer.NewService(s.hadithService, s.narratorService, scraperClient, hub, appLogger.Logger)

	sched, err := scheduler.New(appLogger.Logger)
	if err != nil {
		return nil, err
	}
	s.scheduler = sched
	if err := scheduler.RegisterSourceSync(sched, s.importerService, cfg.Scraper.SyncCron); err != nil {
		return nil, err
	}
	if err := scheduler.RegisterChainResolution(sched, s.hadithService); err != nil {
		return nil, err
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s, nil
}

// setupMiddleware configures Echo middleware.
func (s *Server) setupMiddleware() {
	s.echo.Use(middleware.Recover())
	s.echo.Use(middleware.RequestID())

	s.echo.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	s.echo.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogMethod:   true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			if v.Error != nil {
				s.logger.Error().
					Str("method", v.Method).
					Str("uri", v.URI).
					Int("status", v.Status).
					Dur("latency", v.Latency).
					Err(v.Error).
					Msg("request error")
			} else {
				s.logger.Info().
					Str("method", v.Method).
					Str("uri", v.URI).
					Int("status", v.Status).
					Dur("latency", v.Latency).
					Msg("request")
			}
			return nil
		},
	}))

	s.echo.Use(middleware.GzipWithConfig(middleware.GzipConfig{
		Level: 5,
		Skipper: func(c echo.Context) bool {
			return c.Request().Header.Get("Upgrade") == "websocket"
		},
	}))
}

// setupRoutes configures API routes.
func (s *Server) setupRoutes() {
	s.echo.GET("/health", s.healthCheck)

	api := s.echo.Group("/api/v1")
	api.GET("/status", s.getStatus)

	authHandlers := auth.NewHandlers(s.authService)
	authHandlers.RegisterRoutes(api.Group("/auth"))

	protected := api.Group("")
	protected.Use(authHandlers.Middleware())

	narratorHandlers := narrator.NewHandlers(s.narratorService)
	narratorHandlers.RegisterRoutes(protected.Group("/narrators"))

	hadithHandlers := hadith.NewHandlers(s.hadithService)
	hadithHandlers.RegisterRoutes(protected.Group("/hadiths"), protected.Group("/chains"))

	importerHandlers := importer.NewHandlers(s.importerService)
	importerHandlers.RegisterRoutes(protected.Group("/import"))

	protected.GET("/tasks", s.listTasks)
	protected.GET("/tasks/:id", s.getTask)
	protected.POST("/tasks/:id/run", s.runTask)

	logsHandlers := NewLogsHandlers(s.appLogger)
	logsHandlers.RegisterRoutes(protected.Group("/logs"))

	ws := s.echo.Group("/ws")
	ws.Use(authHandlers.Middleware())
	ws.GET("", s.hub.HandleWebSocket)
}

// Start begins listening for HTTP requests and starts the scheduler.
func (s *Server) Start(address string) error {
	s.logger.Info().Str("address", address).Msg("starting HTTP server")
	s.scheduler.Start()
	return s.echo.Start(address)
}

// Shutdown gracefully stops the server and the scheduler.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("shutting down HTTP server")
	if err := s.scheduler.Stop(); err != nil {
		s.logger.Warn().Err(err).Msg("scheduler shutdown failed")
	}
	return s.echo.Shutdown(ctx)
}

// Echo returns the underlying Echo instance.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

func (s *Server) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) getStatus(c echo.Context) error {
	ctx := c.Request().Context()

	var narratorCount, hadithCount int
	_ = s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM narrators`).Scan(&narratorCount)
	_ = s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM hadiths`).Scan(&hadithCount)

	return c.JSON(http.StatusOK, map[string]any{
		"version":          config.Version,
		"startTime":        s.startTime.UTC().Format(time.RFC3339),
		"narratorCount":    narratorCount,
		"hadithCount":      hadithCount,
		"importRunning":    s.importerService.Running(),
		"websocketClients": s.hub.ClientCount(),
	})
}

func (s *Server) listTasks(c echo.Context) error {
	return c.JSON(http.StatusOK, s.scheduler.ListTasks())
}

func (s *Server) getTask(c echo.Context) error {
	info, err := s.scheduler.GetTask(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	return c.JSON(http.StatusOK, info)
}

func (s *Server) runTask(c echo.Context) error {
	if err := s.scheduler.RunNow(c.Param("id")); err != nil {
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	}
	return c.JSON(http.StatusAccepted, map[string]string{"status": "started"})
}
