package echoapi

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/shuleapp/shule/core"
	"github.com/shuleapp/shule/core/auth"
	"github.com/shuleapp/shule/core/school"
	"github.com/shuleapp/shule/core/user"
	"github.com/shuleapp/shule/services/ai"
)

type (
	Options struct {
		Addr           string
		DisableReqLogs bool

		UserSvc    *user.Service
		SchoolSvc  *school.Service
		SessionMgr *auth.Manager
		AISvc      aisvc.Service
		Logger     core.Logger

		// Shutdown is called when an unrecoverable error is caught; may be nil.
		Shutdown func()
	}

	Server interface {
		http.Handler
		Start()
		Stop(context.Context) error
	}

	server struct {
		opts *Options
		app  *echo.Echo
	}
)

var _ Server = (*server)(nil)

func NewServer(opts *Options) Server {
	if opts.Shutdown == nil {
		opts.Shutdown = func() {}
	}
	s := &server{
		opts: opts,
		app:  echo.New(),
	}
	s.setup()
	return s
}

func (s *server) setup() {
	debug := core.Conf.Debug

	s.app.Pre(middleware.RemoveTrailingSlash())
	s.app.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	if !s.opts.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(debug || core.Conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.opts.Logger, s.opts.Shutdown)
	s.app.Debug = debug
	s.app.HideBanner = true

	s.app.GET("/", home)

	v1 := s.app.Group("/v1")
	authed := sessionMiddleware(s.opts.SessionMgr, s.opts.UserSvc)

	registerAuthAPI(v1, authed, s.opts.UserSvc, s.opts.SessionMgr)
	registerUserAPI(v1, authed, s.opts.UserSvc, s.opts.SessionMgr)
	registerClassAPI(v1, authed, s.opts.SchoolSvc)
	registerAssignmentAPI(v1, authed, s.opts.SchoolSvc)
	registerResourceAPI(v1, authed, s.opts.SchoolSvc)
	registerAIAPI(v1, authed, s.opts.AISvc)
}

func (s *server) Start() {
	s.app.Logger.Fatal(s.app.Start(s.opts.Addr))
}

func (s *server) Stop(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to "+core.Conf.AppName+" API!")
}
