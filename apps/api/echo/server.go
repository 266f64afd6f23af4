package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/pkg/errors"

	"github.com/kjboard/board/core"
	"github.com/kjboard/board/core/admin"
	"github.com/kjboard/board/core/announcement"
	"github.com/kjboard/board/core/report"
	"github.com/kjboard/board/core/result"
	"github.com/kjboard/board/core/student"
)

type (
	ServerDeps struct {
		Conf            *core.Config
		Logger          core.Logger
		StudentSvc      *student.Service
		ResultSvc       *result.Service
		AnnouncementSvc *announcement.Service
		AdminSvc        *admin.Service
		Reporter        *report.Reporter
		Validate        *validator.Validate
		Translator      ut.Translator
	}

	Server interface {
		http.Handler
		Start()
		Shutdown(context.Context) error
		Close() error
		Errors() <-chan error
		ShutdownSignal() <-chan os.Signal
	}

	server struct {
		deps     ServerDeps
		app      *echo.Echo
		sessions sessionManager
		errors   chan error
		shutdown chan os.Signal
	}
)

var _ Server = (*server)(nil)

// NewServer builds the echo application. It fails only if the views cannot be parsed.
func NewServer(deps ServerDeps) (Server, error) {
	renderer, err := newTemplateRenderer()
	if err != nil {
		return nil, errors.Wrap(err, "loading views")
	}

	s := &server{
		deps: deps,
		app:  echo.New(),
		sessions: sessionManager{
			appName: deps.Conf.AppName,
			key:     []byte(deps.Conf.SecretKey),
			ttl:     deps.Conf.Server.SessionTTL,
			secure:  !(deps.Conf.Debug || deps.Conf.TestMode),
		},
		errors:   make(chan error, 1),
		shutdown: make(chan os.Signal, 1),
	}
	s.app.Renderer = renderer
	s.setup()
	return s, nil
}

func (s *server) setup() {
	conf := s.deps.Conf

	s.app.HideBanner = true
	s.app.Debug = conf.Debug
	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.deps.Logger)

	s.app.Pre(middleware.RemoveTrailingSlash())
	s.app.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: func() string { return uuid.New().String() },
	}))
	if !conf.Server.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}
	metrics := newMetrics()
	s.app.Use(metrics.middleware)
	s.app.Use(s.sessions.loadSession)

	s.app.GET("/health", health)
	s.app.GET("/metrics", echo.WrapHandler(metrics.handler()))

	registerHomeWeb(s.app, s.deps.Conf)
	registerStudentWeb(s.app, s.deps)
	registerResultWeb(s.app, s.deps)
	registerAnnouncementWeb(s.app, s.deps)
	registerAdminWeb(s.app, s.deps, s.sessions)
}

func (s *server) Start() {
	signal.Notify(s.shutdown, os.Interrupt, syscall.SIGTERM)

	if err := s.app.Start(s.deps.Conf.Server.Address); err != nil && err != http.ErrServerClosed {
		s.errors <- err
	}
}

func (s *server) Shutdown(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) Close() error {
	return s.app.Close()
}

func (s *server) Errors() <-chan error {
	return s.errors
}

func (s *server) ShutdownSignal() <-chan os.Signal {
	return s.shutdown
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func health(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "OK")
}
