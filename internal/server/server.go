package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/san-kum/pengviz/internal/metrics"
	"github.com/san-kum/pengviz/internal/render"
	"github.com/san-kum/pengviz/internal/session"
)

const (
	sessionCookie   = "pengviz_session"
	defaultShutdown = 5 * time.Second
	defaultSweep    = time.Minute
	heartbeat       = 15 * time.Second
)

type Config struct {
	Addr            string
	ShutdownTimeout time.Duration
	SweepInterval   time.Duration
	ImageSize       render.Size
}

type Server struct {
	cfg      Config
	sessions *session.Manager
	metrics  *metrics.Metrics
	logger   *zap.Logger
	handler  http.Handler
	http     *http.Server
}

// New builds a server over mgr. m and logger may be nil.
func New(cfg Config, mgr *session.Manager, m *metrics.Metrics, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdown
	}
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = defaultSweep
	}
	if cfg.ImageSize.Width <= 0 || cfg.ImageSize.Height <= 0 {
		cfg.ImageSize = render.DefaultImageSize
	}
	s := &Server{
		cfg:      cfg,
		sessions: mgr,
		metrics:  m,
		logger:   logger.Named("http"),
	}
	s.handler = s.routes()
	s.http = &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler exposes the routes without a listener, for tests and embedding.
func (s *Server) Handler() http.Handler { return s.handler }

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()
	s.handle(mux, "GET /{$}", s.handleIndex)
	s.handle(mux, "GET /health", s.handleHealth)
	s.handle(mux, "GET /api/session", s.handleSession)
	s.handle(mux, "POST /api/input", s.handleInput)
	s.handle(mux, "GET /api/output/{name}", s.handleOutput)
	s.handle(mux, "GET /api/events", s.handleEvents)
	mux.Handle("GET /metrics", s.metrics.Handler())
	return mux
}

// Start serves until ctx is done, then shuts down gracefully and closes
// every session.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info("listening", zap.String("addr", ln.Addr().String()))
		if err := s.http.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		s.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()
		// Event streams stay open until their session closes.
		s.sessions.CloseAll()
		if err := s.http.Shutdown(shutdownCtx); err != nil {
			s.logger.Warn("graceful shutdown failed", zap.Error(err))
			return s.http.Close()
		}
		return nil
	})
	g.Go(func() error {
		s.sessions.Run(gctx, s.cfg.SweepInterval)
		return nil
	})
	return g.Wait()
}
