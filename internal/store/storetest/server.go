package storetest

import (
	"bufio"
	"context"
	"errors"
	"io"
	"net"
	"sync"
	"testing"

	"batch-bench/internal/logger"
	"batch-bench/internal/store"
)

// Server はMemoryをTCPで公開するテスト用サーバー
type Server struct {
	backend *Memory

	mu       sync.Mutex
	listener net.Listener
	conns    map[net.Conn]struct{}
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

// NewServer は新しいServerを作成する
func NewServer(backend *Memory) *Server {
	return &Server{
		backend: backend,
		conns:   make(map[net.Conn]struct{}),
	}
}

// Start はアドレスで待ち受けを開始する
func (s *Server) Start(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.listener = ln
	s.ctx, s.cancel = context.WithCancel(context.Background())
	s.mu.Unlock()

	s.wg.Add(1)
	go s.acceptLoop()

	logger.Debug("storetest", "Server listening on %s", ln.Addr())
	return nil
}

// Addr は待ち受けアドレスを返す
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Close はサーバーと全接続を閉じる
func (s *Server) Close() error {
	s.mu.Lock()
	if s.listener == nil {
		s.mu.Unlock()
		return nil
	}
	s.cancel()
	err := s.listener.Close()
	for conn := range s.conns {
		_ = conn.Close()
	}
	s.mu.Unlock()

	s.wg.Wait()
	if errors.Is(err, net.ErrClosed) {
		return nil
	}
	return err
}

func (s *Server) acceptLoop() {
	defer s.wg.Done()

	for {
		conn, err := s.listener.Accept()
		if err != nil {
			return
		}

		s.mu.Lock()
		s.conns[conn] = struct{}{}
		s.mu.Unlock()

		s.wg.Add(1)
		go s.serveConn(conn)
	}
}

func (s *Server) serveConn(conn net.Conn) {
	defer s.wg.Done()
	defer func() {
		s.mu.Lock()
		delete(s.conns, conn)
		s.mu.Unlock()
		_ = conn.Close()
	}()

	reader := bufio.NewReader(conn)
	writer := bufio.NewWriter(conn)

	for {
		var req store.Request
		typ, err := store.ReadFrame(reader, &req)
		if err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, net.ErrClosed) {
				logger.Debug("storetest", "Read failed: %v", err)
			}
			return
		}
		if typ != store.FrameRequest {
			logger.Debug("storetest", "Unexpected frame type %d", typ)
			return
		}

		resp := s.backend.Handle(s.ctx, &req)
		if err := store.WriteFrame(writer, store.FrameResponse, resp); err != nil {
			return
		}
	}
}

// StartTCP はテスト用にMemoryとServerを起動し、終了時に閉じる
func StartTCP(tb testing.TB) (*Server, *Memory) {
	tb.Helper()

	mem := NewMemory()
	srv := NewServer(mem)
	if err := srv.Start("127.0.0.1:0"); err != nil {
		tb.Fatalf("failed to start store server: %v", err)
	}
	tb.Cleanup(func() { _ = srv.Close() })
	return srv, mem
}
