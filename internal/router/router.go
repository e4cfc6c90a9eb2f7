package router

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"custcrm/internal/auth"
	"custcrm/internal/handler"
	"custcrm/internal/metrics"
	"custcrm/internal/model"
)

// multipart framing allowance on top of the largest accepted file
const uploadOverhead = 1 << 20

// Handlers groups everything the router dispatches to.
type Handlers struct {
	Auth      *handler.AuthHandler
	Customers *handler.CustomerHandler
	Users     *handler.UserHandler
	Health    *handler.HealthHandler
}

// Options configures cross-cutting middleware.
type Options struct {
	MaxUploadBytes int64
}

// Register wires routes and middleware.
func Register(e *echo.Echo, h Handlers, sessions *auth.SessionManager, opts Options, log zerolog.Logger) {
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)
	e.Validator = NewValidator()

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(requestLogger(log))
	e.Use(metrics.Middleware())
	if opts.MaxUploadBytes > 0 {
		e.Use(middleware.BodyLimit(strconv.FormatInt(opts.MaxUploadBytes+uploadOverhead, 10)))
	}

	e.GET("/healthz", h.Health.Liveness)
	e.GET("/healthz/ready", h.Health.Readiness)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	e.GET(auth.LoginPath, h.Auth.LoginForm)
	e.POST(auth.LoginPath, h.Auth.Login)

	// Everything below requires a session
	app := e.Group("", sessions.Middleware())

	app.Match([]string{http.MethodGet, http.MethodPost}, "/logout/", h.Auth.Logout)

	app.Match([]string{http.MethodGet, http.MethodPost}, "/", h.Customers.List)
	app.GET("/customers/add/", h.Customers.AddForm)
	app.POST("/customers/add/", h.Customers.Create)
	app.GET("/customers/bulk-upload/", h.Customers.BulkUploadForm)
	app.POST("/customers/bulk-upload/", h.Customers.BulkUpload)
	app.GET("/customers/download/pdf/", h.Customers.DownloadAll)
	app.GET("/customers/:id/", h.Customers.Detail)
	app.GET("/customers/:id/edit/", h.Customers.EditForm)
	app.POST("/customers/:id/edit/", h.Customers.Update)
	app.GET("/customers/:id/delete/", h.Customers.DeleteConfirm)
	app.POST("/customers/:id/delete/", h.Customers.Delete)
	app.GET("/customers/:id/download/", h.Customers.DownloadOne)

	app.GET("/profile/edit/", h.Users.ProfileForm)
	app.POST("/profile/edit/", h.Users.UpdateProfile)

	users := app.Group("/users", auth.RequireRole(model.RoleAdmin, model.RoleTeamLead))
	users.GET("/", h.Users.List)
	users.GET("/add/", h.Users.AddForm)
	users.POST("/add/", h.Users.Create)
	users.GET("/:id/", h.Users.Detail)
	users.GET("/:id/edit/", h.Users.EditForm)
	users.POST("/:id/edit/", h.Users.Update)
	users.GET("/:id/delete/", h.Users.DeleteConfirm)
	users.POST("/:id/delete/", h.Users.Delete)
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Status >= http.StatusInternalServerError {
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
