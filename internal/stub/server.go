package stub

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/davebream/rpcstub/internal/config"
	"github.com/davebream/rpcstub/internal/logging"
)

const shutdownTimeout = 5 * time.Second

// Server owns the RPC listener and, when configured, the metrics listener.
// It holds no per-request state.
type Server struct {
	cfg     *config.Config
	logger  *slog.Logger
	out     io.Writer
	metrics *Metrics
	handler http.Handler

	mu          sync.Mutex
	metricsAddr net.Addr
}

// New creates a server. The startup line is written to out; logger receives
// lifecycle events only.
func New(cfg *config.Config, logger *slog.Logger, out io.Writer) *Server {
	if logger == nil {
		logger = logging.Discard()
	}
	if out == nil {
		out = io.Discard
	}
	metrics := NewMetrics()
	return &Server{
		cfg:     cfg,
		logger:  logger,
		out:     out,
		metrics: metrics,
		handler: NewHandler(metrics, cfg.MaxBodyBytes),
	}
}

// Handler returns the RPC handler served on the main listener.
func (s *Server) Handler() http.Handler { return s.handler }

// Metrics returns the server's collectors.
func (s *Server) Metrics() *Metrics { return s.metrics }

// MetricsAddr returns the bound metrics address, or nil if the metrics
// listener is disabled or not yet started.
func (s *Server) MetricsAddr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.metricsAddr
}

// Run binds the configured address and serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr())
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.cfg.Addr(), err)
	}
	return s.Serve(ctx, ln)
}

// Serve answers RPC calls on ln until ctx is cancelled, then shuts down
// both listeners. ln is closed on return.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	var metricsSrv *http.Server
	if s.cfg.MetricsAddr != "" {
		mln, err := net.Listen("tcp", s.cfg.MetricsAddr)
		if err != nil {
			ln.Close()
			return fmt.Errorf("listen metrics %s: %w", s.cfg.MetricsAddr, err)
		}
		s.mu.Lock()
		s.metricsAddr = mln.Addr()
		s.mu.Unlock()

		metricsSrv = s.newHTTPServer(s.metrics.Handler())
		mlog := logging.ComponentLogger(s.logger, "metrics")
		mlog.Info("metrics listening", "addr", mln.Addr().String())
		go func() {
			if err := metricsSrv.Serve(mln); err != nil && !errors.Is(err, http.ErrServerClosed) {
				mlog.Warn("metrics server stopped", "error", err)
			}
		}()
	}

	rpcSrv := s.newHTTPServer(s.handler)

	addr := s.displayAddr(ln.Addr())
	fmt.Fprintf(s.out, "Mock RPC listening on %s\n", addr)
	s.logger.Info("stub started", "addr", addr)

	errCh := make(chan error, 1)
	go func() {
		errCh <- rpcSrv.Serve(ln)
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("shutting down")
		s.shutdown(rpcSrv, metricsSrv)
		<-errCh
		return nil
	case err := <-errCh:
		s.shutdown(nil, metricsSrv)
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	}
}

func (s *Server) newHTTPServer(h http.Handler) *http.Server {
	return &http.Server{
		Handler:  h,
		ErrorLog: logging.HTTPErrorLog(s.logger),
	}
}

func (s *Server) shutdown(servers ...*http.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	for _, srv := range servers {
		if srv == nil {
			continue
		}
		if err := srv.Shutdown(ctx); err != nil {
			s.logger.Warn("shutdown incomplete", "error", err)
			srv.Close()
		}
	}
}

// displayAddr reports the configured host with the port actually bound, so
// port 0 prints the kernel-chosen port.
func (s *Server) displayAddr(bound net.Addr) string {
	if tcp, ok := bound.(*net.TCPAddr); ok {
		return net.JoinHostPort(s.cfg.Host, strconv.Itoa(tcp.Port))
	}
	return bound.String()
}
