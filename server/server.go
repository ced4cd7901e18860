// Package server wires the screener components into an HTTP server.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ncobase/screener/config"
	"github.com/ncobase/screener/data"
	dc "github.com/ncobase/screener/data/config"
	"github.com/ncobase/screener/data/messaging"
	"github.com/ncobase/screener/data/repository"
	"github.com/ncobase/screener/expression"
	"github.com/ncobase/screener/handler"
	"github.com/ncobase/screener/logging/logger"
	"github.com/ncobase/screener/market"
	"github.com/ncobase/screener/net/middleware"
	"github.com/ncobase/screener/net/resp"
	"github.com/ncobase/screener/service"

	_ "github.com/ncobase/screener/data/mysql"
	_ "github.com/ncobase/screener/data/postgres"
	_ "github.com/ncobase/screener/data/sqlite"
)

// ErrInvalidConfig is returned when configuration is invalid.
var ErrInvalidConfig = errors.New("invalid configuration")

// Server owns every long lived component of the application.
type Server struct {
	config    *config.Config
	data      *data.Data
	market    *market.Service
	compiler  *expression.Compiler
	publisher messaging.Publisher
	service   *service.Service
	handler   *handler.Handler
	engine    *gin.Engine
}

// New builds the server from cfg. The returned cleanup releases every
// connection in reverse order of creation.
func New(ctx context.Context, cfg *config.Config) (*Server, func(), error) {
	if cfg == nil || cfg.Server == nil || cfg.Market == nil || cfg.Screening == nil {
		return nil, nil, ErrInvalidConfig
	}

	var cleanups []func()
	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}

	d, dataCleanup, err := data.New(ctx, cfg.Data)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize data: %w", err)
	}
	cleanups = append(cleanups, dataCleanup)

	broker, err := messaging.New(ctx, cfg.Messaging)
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("failed to initialize messaging: %w", err)
	}
	var workers, queueSize int
	if cfg.Messaging != nil {
		workers, queueSize = cfg.Messaging.Workers, cfg.Messaging.QueueSize
	}
	publisher, err := messaging.NewAsync(broker, workers, queueSize)
	if err != nil {
		_ = broker.Close()
		cleanup()
		return nil, nil, fmt.Errorf("failed to initialize messaging: %w", err)
	}
	cleanups = append(cleanups, func() {
		if err := publisher.Close(); err != nil {
			logger.Warnf(context.Background(), "failed to close publisher: %v", err)
		}
	})

	repos := repository.New(d)
	mkt, err := NewMarket(cfg, d, repos.Bond)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	compiler := NewCompiler(cfg.Screening)
	cleanups = append(cleanups, compiler.Close)

	svc := service.New(&service.Dependencies{
		Repositories: repos,
		Compiler:     compiler,
		Market:       mkt,
		Publisher:    publisher,
		Config:       cfg.Screening,
		EventTopic:   eventTopic(cfg.Messaging),
	})

	s := &Server{
		config:    cfg,
		data:      d,
		market:    mkt,
		compiler:  compiler,
		publisher: publisher,
		service:   svc,
		handler: handler.New(&handler.Dependencies{
			AppName:  cfg.AppName,
			Service:  svc,
			Market:   mkt,
			Compiler: compiler,
		}),
	}
	return s, cleanup, nil
}

// NewMarket creates the market service from the market and redis settings.
// store may be nil.
func NewMarket(cfg *config.Config, d *data.Data, store repository.BondRepository) (*market.Service, error) {
	provider, err := market.NewProvider(cfg.Market)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize market provider: %w", err)
	}

	opts := market.Options{CacheTTL: cfg.Market.CacheTTL, RetryDelay: cfg.Market.RetryDelay, Store: store}
	if d != nil && d.Redis != nil {
		opts.Redis = d.Redis
		if cfg.Data != nil && cfg.Data.Redis != nil {
			opts.KeyPrefix = cfg.Data.Redis.KeyPrefix
		}
	}
	return market.NewService(provider, opts), nil
}

// NewCompiler creates the formula compiler from the screening settings
func NewCompiler(cfg *config.Screening) *expression.Compiler {
	cc := expression.DefaultConfig()
	if cfg != nil {
		if cfg.MaxFormulaLength > 0 {
			cc.MaxLength = cfg.MaxFormulaLength
		}
		if cfg.CompileCacheSize > 0 {
			cc.CacheSize = cfg.CompileCacheSize
		}
		if cfg.CompileCacheTTL > 0 {
			cc.CacheTTL = cfg.CompileCacheTTL
		}
	}
	return expression.NewCompiler(nil, cc)
}

func eventTopic(cfg *dc.Messaging) string {
	if cfg != nil && cfg.Driver == "kafka" && cfg.Kafka != nil {
		return cfg.Kafka.Topic
	}
	return ""
}

// Engine returns the gin engine with middleware and routes installed
func (s *Server) Engine() *gin.Engine {
	if s.engine != nil {
		return s.engine
	}

	if s.config.IsProd() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Trace())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(s.config.Server.CORSOrigins))
	r.Use(middleware.RateLimit(s.config.Server.RateLimit, s.config.Server.Burst))

	s.handler.RegisterRoutes(r)
	r.NoRoute(func(c *gin.Context) {
		resp.Fail(c.Writer, resp.NotFound("route not found: "+c.Request.URL.Path))
	})

	s.engine = r
	return r
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	cfg := s.config.Server

	ctx, stop := context.WithCancel(ctx)
	defer stop()
	if cfg := s.config.Market; cfg.AutoRefresh > 0 {
		go s.market.Start(ctx, cfg.AutoRefresh)
	}

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      s.Engine(),
		ReadTimeout:  durationOr(cfg.ReadTimeout, 15*time.Second),
		WriteTimeout: durationOr(cfg.WriteTimeout, 60*time.Second),
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof(context.Background(), "Starting server on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Infof(context.Background(), "Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), durationOr(cfg.ShutdownTimeout, 30*time.Second))
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf(context.Background(), "Server forced to shutdown: %v", err)
		return err
	}

	logger.Infof(context.Background(), "Server exited")
	return nil
}

func durationOr(d, fallback time.Duration) time.Duration {
	if d > 0 {
		return d
	}
	return fallback
}
