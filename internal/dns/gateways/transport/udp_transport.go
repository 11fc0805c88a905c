package transport

import (
	"context"
	"fmt"
	"net"
	"net/netip"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/ethlimo/limo-web3-dns/internal/dns/common/log"
	"github.com/ethlimo/limo-web3-dns/internal/dns/common/metrics"
)

// maxPacketSize is the receive buffer size. Longer datagrams are truncated
// by the kernel and fail to parse further up.
const maxPacketSize = 1024

// UDPTransport implements ServerTransport for standard DNS over UDP (RFC 1035).
// At most Options.Workers packets are handled at once; the next datagram is
// not read until a worker is free.
type UDPTransport struct {
	addr    string
	conn    *net.UDPConn
	logger  log.Logger
	limiter *RateLimiter
	workers int64
	sem     *semaphore.Weighted

	// Synchronization for graceful shutdown
	mu       sync.RWMutex
	running  bool
	loopDone chan struct{}
	inflight sync.WaitGroup
}

// NewUDPTransport creates a new UDP transport instance.
func NewUDPTransport(addr string, opts Options) *UDPTransport {
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	return &UDPTransport{
		addr:    addr,
		logger:  logger,
		limiter: opts.Limiter,
		workers: workers,
		sem:     semaphore.NewWeighted(workers),
	}
}

// Start binds the UDP socket and starts the packet handling loop.
func (t *UDPTransport) Start(ctx context.Context, handler PacketHandler) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.running {
		return fmt.Errorf("UDP transport already running")
	}

	udpAddr, err := net.ResolveUDPAddr("udp", t.addr)
	if err != nil {
		return fmt.Errorf("failed to resolve UDP address %s: %w", t.addr, err)
	}

	conn, err := net.ListenUDP("udp", udpAddr)
	if err != nil {
		return fmt.Errorf("failed to bind UDP socket on %s: %w", t.addr, err)
	}

	t.conn = conn
	t.running = true
	t.loopDone = make(chan struct{})

	t.logger.Info(map[string]any{
		"transport": "udp",
		"address":   conn.LocalAddr().String(),
		"workers":   t.workers,
	}, "DNS transport started")

	go t.listenLoop(ctx, handler, t.loopDone)

	return nil
}

// Stop unblocks the read loop, waits for in-flight packets to be answered
// and closes the socket.
func (t *UDPTransport) Stop() error {
	t.mu.Lock()
	if !t.running {
		t.mu.Unlock()
		return nil
	}
	t.running = false
	conn, done := t.conn, t.loopDone
	t.mu.Unlock()

	// An expired deadline fails the pending read without closing the socket,
	// so handlers still running can write their responses.
	if err := conn.SetReadDeadline(time.Now()); err != nil {
		t.logger.Warn(map[string]any{
			"error": err.Error(),
		}, "Error setting UDP read deadline")
	}
	<-done
	t.inflight.Wait()

	closeErr := conn.Close()
	if closeErr != nil {
		t.logger.Warn(map[string]any{
			"error": closeErr.Error(),
		}, "Error closing UDP connection")
	}

	t.logger.Info(map[string]any{
		"transport": "udp",
		"address":   t.addr,
	}, "DNS transport stopped")

	return closeErr
}

// Address returns the bound address once started, which resolves a ":0"
// port. Before Start it returns the configured address.
func (t *UDPTransport) Address() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.conn != nil {
		return t.conn.LocalAddr().String()
	}
	return t.addr
}

func (t *UDPTransport) isRunning() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.running
}

// listenLoop reads packets until the transport is stopped or ctx is done.
func (t *UDPTransport) listenLoop(ctx context.Context, handler PacketHandler, done chan<- struct{}) {
	defer close(done)
	buffer := make([]byte, maxPacketSize)

	for {
		if err := t.sem.Acquire(ctx, 1); err != nil {
			t.logger.Debug(nil, "UDP transport stopping due to context cancellation")
			return
		}

		n, client, err := t.conn.ReadFromUDPAddrPort(buffer)
		if err != nil {
			t.sem.Release(1)
			if !t.isRunning() {
				t.logger.Debug(nil, "UDP transport stopping due to stop signal")
				return
			}
			if ctx.Err() != nil {
				return
			}
			t.logger.Warn(map[string]any{
				"error": err.Error(),
			}, "Failed to read UDP packet")
			continue
		}
		metrics.PacketsReceived.Inc()

		if !t.limiter.Allow(client.Addr()) {
			t.sem.Release(1)
			metrics.PacketsDropped.WithLabelValues("ratelimit").Inc()
			t.logger.Debug(map[string]any{
				"client": client.String(),
			}, "Dropping rate limited packet")
			continue
		}

		packet := make([]byte, n)
		copy(packet, buffer[:n])

		t.inflight.Add(1)
		go func() {
			defer t.inflight.Done()
			defer t.sem.Release(1)
			t.handlePacket(ctx, packet, client, handler)
		}()
	}
}

// handlePacket answers a single datagram.
func (t *UDPTransport) handlePacket(ctx context.Context, data []byte, client netip.AddrPort, handler PacketHandler) {
	t.logger.Debug(map[string]any{
		"client": client.String(),
		"size":   len(data),
		"raw":    fmt.Sprintf("%x", data),
	}, "Received raw DNS query data")

	response := handler.HandlePacket(ctx, data)
	if len(response) == 0 {
		t.logger.Debug(map[string]any{
			"client": client.String(),
		}, "No response for packet")
		return
	}

	if _, err := t.conn.WriteToUDPAddrPort(response, client); err != nil {
		metrics.PacketsDropped.WithLabelValues("write").Inc()
		t.logger.Error(map[string]any{
			"client": client.String(),
			"error":  err.Error(),
		}, "Failed to send DNS response")
		return
	}

	t.logger.Debug(map[string]any{
		"client": client.String(),
		"size":   len(response),
	}, "Sent DNS response")
}
