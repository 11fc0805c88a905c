package metrics

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ethlimo/limo-web3-dns/internal/dns/common/log"
)

const readHeaderTimeout = 5 * time.Second

// Server serves /metrics on its own listener.
type Server struct {
	addr   string
	srv    *http.Server
	ln     net.Listener
	logger log.Logger
}

// NewServer returns a Server for addr. Nothing is bound until Start.
func NewServer(addr string, logger log.Logger) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return &Server{
		addr:   addr,
		srv:    &http.Server{Handler: mux, ReadHeaderTimeout: readHeaderTimeout},
		logger: logger,
	}
}

// Start binds the listener and serves in the background.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to bind metrics listener on %s: %w", s.addr, err)
	}
	s.ln = ln
	s.logger.Info(map[string]any{"address": ln.Addr().String()}, "Metrics endpoint started")
	go func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error(map[string]any{"error": err}, "Metrics endpoint failed")
		}
	}()
	return nil
}

// Address returns the bound address, or the configured one before Start.
func (s *Server) Address() string {
	if s.ln != nil {
		return s.ln.Addr().String()
	}
	return s.addr
}

// Stop shuts the endpoint down, waiting for in-flight scrapes until ctx ends.
func (s *Server) Stop(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
