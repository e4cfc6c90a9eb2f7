package main

import (
	"fmt"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"custcrm/docs"
	"custcrm/internal/auth"
	"custcrm/internal/cache"
	"custcrm/internal/config"
	"custcrm/internal/events"
	"custcrm/internal/handler"
	"custcrm/internal/report"
	"custcrm/internal/repository"
	"custcrm/internal/router"
	"custcrm/internal/service"
	"custcrm/internal/storage"
	"custcrm/pkg/logger"
)

// newServer wires repositories, services and handlers onto a fresh echo
// instance. It performs no I/O; connections are opened lazily.
func newServer(cfg *config.Config, gormDB *gorm.DB, cacheClient *cache.Client) (*echo.Echo, error) {
	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, fmt.Errorf("database handle: %w", err)
	}

	customerRepo := repository.NewCustomerRepository(gormDB)
	userRepo := repository.NewUserRepository(gormDB)

	media := storage.NewMediaStore(cfg.Media.Root)
	renderer := report.NewPDFRenderer()
	publisher := events.NewPublisher(cfg.Broker.URL, cfg.Broker.Queue, cfg.Broker.DialTimeout)

	jwtService := auth.NewJWTService(cfg.Session.JWTSecret, cfg.Session.TTL)
	tokenStore := auth.NewTokenStore(cacheClient)
	sessions := auth.NewSessionManager(jwtService, tokenStore, userRepo, auth.SessionOptions{
		CookieName:   cfg.Session.CookieName,
		CookieSecure: cfg.Session.CookieSecure,
	}, logger.Component("session"))

	customerService := service.NewCustomerService(customerRepo, media, cacheClient, logger.Component("customers"))
	importService := service.NewImportService(customerRepo, publisher, logger.Component("import"))
	reportService := service.NewReportService(customerRepo, media, renderer, logger.Component("reports"))
	userService := service.NewUserService(userRepo)
	authService := service.NewAuthService(userRepo, jwtService, tokenStore, logger.Component("auth"))

	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = cfg.SwaggerHost
	}

	e := echo.New()
	e.HideBanner = true
	router.Register(e, router.Handlers{
		Auth:      handler.NewAuthHandler(authService, sessions),
		Customers: handler.NewCustomerHandler(customerService, importService, reportService, cfg.Media.MaxUploadBytes),
		Users:     handler.NewUserHandler(userService),
		Health: handler.NewHealthHandler(map[string]handler.Check{
			"mysql": sqlDB.PingContext,
			"redis": cacheClient.Ping,
		}),
	}, sessions, router.Options{MaxUploadBytes: cfg.Media.MaxUploadBytes}, logger.Component("http"))
	return e, nil
}
