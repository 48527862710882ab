// Package devserver assembles the in-memory development API: the same
// endpoints, payloads and token rotation the client expects from the real
// service, backed by repository.Store.
package devserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/iliyamo/bus-booking-client/internal/config"
	"github.com/iliyamo/bus-booking-client/internal/handler"
	"github.com/iliyamo/bus-booking-client/internal/logging"
	"github.com/iliyamo/bus-booking-client/internal/middleware"
	"github.com/iliyamo/bus-booking-client/internal/model"
	"github.com/iliyamo/bus-booking-client/internal/repository"
	"github.com/iliyamo/bus-booking-client/internal/router"
)

// Server is a ready-to-serve echo instance plus its store.
type Server struct {
	Echo  *echo.Echo
	Store *repository.Store
	cfg   config.StubConfig
	log   *zap.Logger
}

type options struct {
	now  func() time.Time
	seed bool
}

// Option customises New.
type Option func(*options)

// WithClock fixes the clock used for seeding and timestamps.
func WithClock(now func() time.Time) Option { return func(o *options) { o.now = now } }

// WithoutSeed starts from an empty store.
func WithoutSeed() Option { return func(o *options) { o.seed = false } }

// New builds the server.
func New(cfg config.StubConfig, log *zap.Logger, opts ...Option) (*Server, error) {
	o := options{now: time.Now, seed: true}
	for _, opt := range opts {
		opt(&o)
	}
	log = logging.OrNop(log)

	store, err := repository.New(repository.Options{
		BcryptCost:  cfg.BcryptCost,
		SeedBalance: model.FromFloat(cfg.SeedBalance),
		Now:         o.now,
		Seed:        o.seed,
	})
	if err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = handler.ErrorHandler(log)
	e.Use(echomw.Recover())
	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{TargetHeader: echo.HeaderXRequestID}))
	e.Use(requestLogger(log))
	e.Use(middleware.RateLimit(cfg.RequestLimit, max(int(cfg.RequestLimit), 1)))

	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, store, log), cfg.JWTSecret)
	router.RegisterCatalog(e, handler.NewCatalogHandler(store))
	router.RegisterCustomer(e,
		handler.NewBookingHandler(store, log),
		handler.NewWalletHandler(store),
		cfg.JWTSecret)
	router.RegisterAdmin(e, handler.NewAdminHandler(store, log), cfg.JWTSecret)

	return &Server{Echo: e, Store: store, cfg: cfg, log: log}, nil
}

// requestLogger logs one line per request.  The client sends X-Request-ID,
// so client and server logs can be joined on request_id.
func requestLogger(log *zap.Logger) echo.MiddlewareFunc {
	return echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			log.Debug("request",
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.String("request_id", v.RequestID),
				zap.Duration("latency", v.Latency))
			return nil
		},
	})
}

// Start serves on ":"+cfg.Port until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Start(ctx context.Context) error {
	addr := ":" + s.cfg.Port
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("stub api listening", zap.String("addr", addr), zap.String("env", s.cfg.Env))
		errCh <- s.Echo.Start(addr)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.Echo.Shutdown(shutdownCtx)
}
