package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"golang.org/x/net/http2"

	"github.com/KaramelBytes/sheetlens/internal/session"
	"github.com/KaramelBytes/sheetlens/internal/utils"
)

// Options configure the HTTP surface.
type Options struct {
	CORSOrigins []string
	// MaxUploadMB caps request bodies; zero disables the limit.
	MaxUploadMB    int
	RequestTimeout time.Duration
}

type HTTPServer struct {
	Echo   *echo.Echo
	store  session.Store
	opts   Options
	logger zerolog.Logger
}

type CustomValidator struct {
	validator *validator.Validate
}

// New builds the echo instance with middleware and routes but does not listen.
func New(store session.Store, opts Options, logger zerolog.Logger) *HTTPServer {
	s := &HTTPServer{
		Echo:   echo.New(),
		store:  store,
		opts:   opts,
		logger: logger,
	}
	s.Echo.HideBanner = true
	s.Echo.HidePort = true
	s.Echo.JSONSerializer = &utils.NoEscapeJSONSerializer{}

	s.Echo.Use(s.CreateReqContext)
	s.Echo.Use(LoggerMiddleware)
	s.Echo.Use(middleware.Recover())
	s.Echo.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     opts.CORSOrigins,
		AllowCredentials: true,
	}))
	if opts.MaxUploadMB > 0 {
		s.Echo.Use(middleware.BodyLimit(fmt.Sprintf("%dM", opts.MaxUploadMB)))
	}
	s.Echo.Validator = &CustomValidator{validator: validator.New()}

	s.registerRoutes()
	return s
}

// ListenAndServe listens on addr and serves until Shutdown.
func (s *HTTPServer) ListenAndServe(addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("error creating tcp listener: %w", err)
	}
	return s.Serve(listener)
}

// Serve serves h2c on listener until Shutdown. It returns nil after a clean
// shutdown.
func (s *HTTPServer) Serve(listener net.Listener) error {
	s.Echo.Listener = listener
	s.logger.Info().Msg("starting h2c server on " + listener.Addr().String())
	err := s.Echo.StartH2CServer("", &http2.Server{})
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("h2c server: %w", err)
	}
	return nil
}

func (cv *CustomValidator) Validate(i interface{}) error {
	if err := cv.validator.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

func ValidateRequest(c echo.Context, s interface{}) error {
	if err := c.Bind(s); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(s); err != nil {
		return err
	}
	return nil
}

func (*HTTPServer) HealthCheck(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

func (s *HTTPServer) Shutdown(ctx context.Context) error {
	err := s.Echo.Shutdown(ctx)
	return err
}

func LoggerMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		if err := next(c); err != nil {
			// default handler
			c.Error(err)
		}
		stop := time.Since(start)
		logger := zerolog.Ctx(c.Request().Context())
		req := c.Request()
		res := c.Response()

		p := req.URL.Path
		if p == "" {
			p = "/"
		}

		cl := req.Header.Get(echo.HeaderContentLength)
		if cl == "" {
			cl = "0"
		}
		logger.Debug().Str("method", req.Method).Str("remote_ip", c.RealIP()).Str("req_uri", req.RequestURI).Str("handler_path", c.Path()).Str("path", p).Int("status", res.Status).Int64("latency_ns", int64(stop)).Str("protocol", req.Proto).Str("bytes_in", cl).Int64("bytes_out", res.Size).Msg("req received")
		return nil
	}
}
