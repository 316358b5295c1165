package main

import (
	"capstone-calendar-backend/cmd/capstone-calendar/apis"
	"capstone-calendar-backend/cmd/capstone-calendar/auth"
	"capstone-calendar-backend/cmd/capstone-calendar/gcal"
	"capstone-calendar-backend/cmd/capstone-calendar/parser"
	"capstone-calendar-backend/cmd/capstone-calendar/repository"
	"capstone-calendar-backend/cmd/capstone-calendar/service"
	"fmt"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// newServer wires repositories, services and handlers into an echo server.
// rdb may be nil.
func newServer(cfg EnvCfg, db *gorm.DB, rdb redis.UniversalClient, log *zap.Logger) (*echo.Echo, error) {

	location, err := time.LoadLocation(cfg.CalendarTimezone)
	if err != nil {
		return nil, fmt.Errorf("invalid calendar timezone: %w", err)
	}

	rowParser, err := parser.New(parser.DefaultLayout())
	if err != nil {
		return nil, err
	}

	projectRepo := repository.NewProjectRepo(db)
	eventRepo := repository.NewEventMappingRepo(db)
	userRepo := repository.NewUserRepo(db)

	oauth := gcal.NewOAuth(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURI)
	clients := gcal.NewClientFactory(oauth, userRepo, cfg.CalendarID, log)
	tokens := auth.NewManager(cfg.JWTSecret, cfg.JWTAccessTTL, cfg.JWTRefreshTTL)

	reconciler := service.NewReconciler(projectRepo)
	syncer := service.NewCalendarSyncer(projectRepo, location, log)
	syncService := service.NewSyncService(rowParser, reconciler, syncer, projectRepo, clients, log, cfg.Debug)
	importer := service.NewWorkbookImporter(rowParser, reconciler, log)
	projectService := service.NewProjectService(projectRepo)
	eventService := service.NewEventMappingService(eventRepo)
	authService := service.NewAuthService(oauth, userRepo, tokens, log)

	e := echo.New()
	e.HideBanner = true
	e.Validator = apis.NewRequestValidator()

	e.Use(middleware.RequestID())
	e.Use(apis.RequestLogger(log))
	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit("12M"))

	rootg := e.Group("")
	apig := rootg.Group("/api", apis.RateLimit(apis.NewRateLimiterStore(rdb, cfg.RateLimit, cfg.RateWindow, log)))
	privateg := apig.Group("", apis.JWTAuth(authService))

	apis.
		NewHealthCheckAPI(db, log).
		Setup(rootg)

	apis.
		NewAuthAPI(authService).
		Setup(apig)

	apis.
		NewSheetsAPI(syncService, importer).
		Setup(privateg)

	apis.
		NewCalendarAPI(syncService).
		Setup(privateg)

	apis.
		NewProjectAPI(projectService).
		Setup(privateg)

	apis.
		NewEventAPI(eventService).
		Setup(privateg)

	return e, nil
}
