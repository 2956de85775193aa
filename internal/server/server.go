package server

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/MARYAMM27/portfolio-bot-go/internal/adapter"
	"github.com/MARYAMM27/portfolio-bot-go/internal/bot"
	"github.com/MARYAMM27/portfolio-bot-go/internal/constants"
	"github.com/MARYAMM27/portfolio-bot-go/internal/metrics"
	"github.com/MARYAMM27/portfolio-bot-go/internal/util"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// HealthCheck reports whether one collaborator is usable.
type HealthCheck func(ctx context.Context) error

type Dependencies struct {
	Assistant *bot.Assistant
	Adapter   *adapter.MessageAdapter
	Metrics   *metrics.Metrics
	Checks    map[string]HealthCheck
	Logger    *zap.Logger
}

type Options struct {
	Addr              string
	AllowedOrigins    []string
	ResponseDelay     time.Duration
	MinQueryLength    int
	ReadHeaderTimeout time.Duration
}

// Server exposes the assistant over HTTP and websocket chat sessions.
type Server struct {
	deps       Dependencies
	opts       Options
	logger     *zap.Logger
	router     chi.Router
	httpServer *http.Server
	upgrader   websocket.Upgrader

	connsMu sync.Mutex
	conns   map[string]*chatConn
	connsWg sync.WaitGroup
}

func New(deps Dependencies, opts Options) *Server {
	if deps.Assistant == nil {
		deps.Assistant = bot.NewAssistant(bot.Dependencies{Logger: deps.Logger})
	}
	if deps.Adapter == nil {
		deps.Adapter = adapter.NewMessageAdapter(0)
	}
	if opts.MinQueryLength < 1 {
		opts.MinQueryLength = 1
	}
	if opts.ReadHeaderTimeout <= 0 {
		opts.ReadHeaderTimeout = 5 * time.Second
	}

	s := &Server{
		deps:   deps,
		opts:   opts,
		logger: util.LoggerOrNop(deps.Logger),
		conns:  make(map[string]*chatConn),
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     s.checkOrigin,
	}
	s.router = s.routes()
	s.httpServer = &http.Server{
		Addr:              opts.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: opts.ReadHeaderTimeout,
	}
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.instrument)

	r.Get("/health", s.handleHealth())
	r.Handle("/metrics", s.deps.Metrics.Handler())
	r.Get("/ws", s.handleWebSocket())

	r.Post("/api/chat", s.handleChat())
	r.Get("/api/chat/intro", s.handleIntro())
	return r
}

// Handler returns the router, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe blocks until the server stops. A graceful Shutdown is not an error.
func (s *Server) ListenAndServe() error {
	s.logger.Info("HTTP server listening", zap.String("addr", s.opts.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests, lets open chat sessions deliver their
// pending replies, then closes them.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.httpServer.Shutdown(ctx)

	s.connsMu.Lock()
	conns := make([]*chatConn, 0, len(s.conns))
	for _, cc := range s.conns {
		conns = append(conns, cc)
	}
	s.connsMu.Unlock()

	drainCtx, cancel := context.WithTimeout(ctx, constants.BotTiming.DrainTimeout)
	defer cancel()
	for _, cc := range conns {
		cc.drain(drainCtx)
	}

	done := make(chan struct{})
	go func() {
		s.connsWg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		s.logger.Warn("Timeout waiting for chat sessions to close")
	}

	s.logger.Info("HTTP server stopped")
	return err
}

// ActiveSessions returns the number of open websocket sessions.
func (s *Server) ActiveSessions() int {
	s.connsMu.Lock()
	defer s.connsMu.Unlock()
	return len(s.conns)
}

func (s *Server) register(cc *chatConn) {
	s.connsMu.Lock()
	s.conns[cc.id] = cc
	s.connsMu.Unlock()
	s.deps.Metrics.SessionOpened()
}

func (s *Server) unregister(cc *chatConn) {
	s.connsMu.Lock()
	delete(s.conns, cc.id)
	s.connsMu.Unlock()
	s.deps.Metrics.SessionClosed()
}

func (s *Server) checkOrigin(r *http.Request) bool {
	if len(s.opts.AllowedOrigins) == 0 {
		return true
	}
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	return util.Contains(s.opts.AllowedOrigins, origin)
}

func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		s.deps.Metrics.ObserveHTTP(route, http.StatusText(status))

		s.logger.Debug("HTTP request",
			zap.String("method", r.Method),
			zap.String("route", route),
			zap.Int("status", status),
			zap.Duration("elapsed", time.Since(started)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}
