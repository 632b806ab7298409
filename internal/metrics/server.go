package metrics

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"batch-bench/internal/logger"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server はPrometheusのスクレイプエンドポイントを公開する
type Server struct {
	addr      string
	collector *Collector

	mu       sync.Mutex
	server   *http.Server
	listener net.Listener
	done     chan struct{}
}

// NewServer は新しいServerを作成する
func NewServer(addr string, collector *Collector) *Server {
	return &Server{
		addr:      addr,
		collector: collector,
	}
}

// Handler はルーティング済みのハンドラを返す
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.collector.Registry(), promhttp.HandlerOpts{}))
	return r
}

// Start は待ち受けを開始し、バックグラウンドで配信する
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	s.listener = ln
	s.server = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	s.done = make(chan struct{})

	go func() {
		defer close(s.done)
		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics", "Metrics server failed: %v", err)
		}
	}()

	logger.Info("metrics", "Metrics server listening on http://%s/metrics", ln.Addr())
	return nil
}

// Addr は実際の待ち受けアドレスを返す
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return s.addr
	}
	return s.listener.Addr().String()
}

// Close はサーバーを停止する
func (s *Server) Close(ctx context.Context) error {
	s.mu.Lock()
	server, done := s.server, s.done
	s.mu.Unlock()

	if server == nil {
		return nil
	}
	err := server.Shutdown(ctx)
	<-done
	return err
}
