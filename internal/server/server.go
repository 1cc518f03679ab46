package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/redis/go-redis/v9"

	"match-ledger-service/internal/config"
	"match-ledger-service/internal/directory"
	httpserver "match-ledger-service/internal/http"
	"match-ledger-service/internal/http/handlers"
	"match-ledger-service/internal/http/middleware"
	"match-ledger-service/internal/ingest"
	"match-ledger-service/internal/ledger"
	"match-ledger-service/internal/logging"
	"match-ledger-service/internal/metrics"
	"match-ledger-service/internal/stats"
	"match-ledger-service/internal/store"
)

var metricsSetup = metrics.Setup

type Server struct {
	cfg           config.Config
	logger        *slog.Logger
	metrics       *metrics.Recorder
	ledger        *ledger.Service
	outbox        *directory.Outbox
	redisClient   *redis.Client
	closeStore    func() error
	httpServer    httpServer
	metricsServer httpServer
	metricsStop   func(context.Context) error
}

// New constructs a server backed by the SQLite store at cfg.DBPath.
func New(cfg config.Config, logger *slog.Logger) (*Server, error) {
	st, err := store.OpenSQLite(cfg.DBPath)
	if err != nil {
		return nil, err
	}
	return newServerWithStore(cfg, logger, st, st, st.Close), nil
}

// newServerWithStore wires the remaining components over any store. pinger
// and closeStore may be nil for stores without a health check or close.
func newServerWithStore(cfg config.Config, logger *slog.Logger, st store.Store, pinger handlers.Pinger, closeStore func() error) *Server {
	recorder, metricsSrv, metricsShutdown := buildMetrics(cfg, logger)

	var (
		outbox      *directory.Outbox
		redisClient *redis.Client
		ledgerOut   ledger.Outbox
		statusFn    func() directory.Status
	)
	if cfg.Directory.Enabled {
		redisClient = redis.NewClient(&redis.Options{
			Addr: cfg.Directory.RedisAddr,
			DB:   cfg.Directory.RedisDB,
		})
		writer := directory.NewRedisWriter(redisClient)
		outbox = directory.NewOutbox(writer, logger, recorder, cfg.Directory.OutboxInterval)
		ledgerOut = outbox
		statusFn = outbox.CurrentStatus
	}

	svc := ledger.NewService(st, ledgerOut, logger, recorder)
	httpSrv := buildHTTPServer(cfg, svc, logger, recorder, pinger, statusFn)

	return &Server{
		cfg:           cfg,
		logger:        logger,
		metrics:       recorder,
		ledger:        svc,
		outbox:        outbox,
		redisClient:   redisClient,
		closeStore:    closeStore,
		httpServer:    httpSrv,
		metricsServer: metricsSrv,
		metricsStop:   metricsShutdown,
	}
}

// newServerWithDeps is used for testing to inject custom components.
func newServerWithDeps(cfg config.Config, logger *slog.Logger, svc *ledger.Service, httpSrv httpServer, outbox *directory.Outbox) *Server {
	return &Server{
		cfg:        cfg,
		logger:     logger,
		ledger:     svc,
		outbox:     outbox,
		httpServer: httpSrv,
	}
}

func buildHTTPServer(cfg config.Config, svc *ledger.Service, logger *slog.Logger, recorder *metrics.Recorder, pinger handlers.Pinger, statusFn func() directory.Status) httpServer {
	engine := stats.NewEngine(nil)
	gate := ingest.NewGate(cfg.IngestThreshold)
	handler := handlers.NewHandler(svc, engine, gate, logger, pinger, statusFn)
	router := httpserver.NewRouter(handler)

	if logger == nil {
		logger = logging.NewLogger(logging.Config{})
	}
	wrapped := middleware.LoggingMiddleware(logger, recorder, router)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      wrapped,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}

	return netHTTPServer{srv: srv}
}

// Run starts the outbox and HTTP server, then waits for context cancellation
// to shut down gracefully.
func (s *Server) Run(ctx context.Context, stop context.CancelFunc) {
	s.startMetrics()
	s.startServer(stop)
	if s.outbox != nil {
		s.outbox.Start(ctx)
	}

	<-ctx.Done()
	if s.logger != nil {
		s.logger.Info("shutdown signal received")
	}

	s.gracefulShutdown()
}

func (s *Server) startServer(stop context.CancelFunc) {
	launchServer("http", s.httpServer, s.logger, func(err error) {
		if stop != nil {
			stop()
		}
	})
}

func (s *Server) startMetrics() {
	if s.metricsServer == nil {
		return
	}
	launchServer("metrics", s.metricsServer, s.logger, nil)
}

func (s *Server) gracefulShutdown() {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if s.metricsStop != nil {
		if err := s.metricsStop(shutdownCtx); err != nil && s.logger != nil {
			s.logger.Warn("metrics shutdown failed", "error", err)
		}
	}

	if s.metricsServer != nil {
		if err := s.metricsServer.Shutdown(shutdownCtx); err != nil && s.logger != nil {
			s.logger.Warn("metrics server shutdown failed", "error", err)
		}
	}

	// Drain the outbox before the store closes so the final directory copy
	// reflects every persisted command.
	if s.outbox != nil {
		if err := s.outbox.Stop(shutdownCtx); err != nil && s.logger != nil {
			s.logger.Error("failed to stop directory outbox", "error", err)
		}
	}

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil && s.logger != nil {
		s.logger.Error("graceful shutdown failed", "error", err)
	}

	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil && s.logger != nil {
			s.logger.Warn("redis close failed", "error", err)
		}
	}

	if s.closeStore != nil {
		if err := s.closeStore(); err != nil && s.logger != nil {
			s.logger.Warn("store close failed", "error", err)
		}
	}

	if s.logger != nil {
		s.logger.Info("shutdown complete")
	}
}

func buildMetrics(cfg config.Config, logger *slog.Logger) (*metrics.Recorder, httpServer, func(context.Context) error) {
	recCfg := metrics.TelemetryConfig{
		Enabled:      cfg.Metrics.Enabled,
		Port:         cfg.Metrics.Port,
		ServiceName:  cfg.Metrics.ServiceName,
		OtlpEndpoint: cfg.Metrics.OtlpEndpoint,
		OtlpInsecure: cfg.Metrics.OtlpInsecure,
	}

	rec, handler, shutdown, err := metricsSetup(context.Background(), recCfg)
	if err != nil {
		if logger != nil {
			logger.Warn("metrics setup failed, continuing without telemetry", "err", err)
		}
		return metrics.NewRecorder(), nil, nil
	}

	var metricsSrv httpServer
	if handler != nil && recCfg.Enabled {
		metricsSrv = netHTTPServer{
			srv: &http.Server{
				Addr:    ":" + recCfg.Port,
				Handler: handler,
			},
		}
	}

	return rec, metricsSrv, shutdown
}

func launchServer(name string, srv httpServer, logger *slog.Logger, onError func(error)) {
	go func() {
		if logger != nil {
			logger.Info("starting "+name+" server", slog.String("addr", srv.Addr()))
		}
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			if logger != nil {
				logger.Warn(name+" server failed", "error", err)
			}
			if onError != nil {
				onError(err)
			}
		}
	}()
}

// Handler exposes the HTTP handler (useful for tests).
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler()
}
