package transport

import (
	"fmt"

	"github.com/ethlimo/limo-web3-dns/internal/dns/common/log"
)

// Options tunes a transport. The zero value serves one packet at a time with
// no rate limiting.
type Options struct {
	// Workers bounds the number of packets handled concurrently.
	Workers int64
	// Limiter throttles clients by source address. Nil disables limiting.
	Limiter *RateLimiter
	Logger  log.Logger
}

// NewTransport creates a new transport instance based on the specified type.
func NewTransport(transportType TransportType, addr string, opts Options) (ServerTransport, error) {
	switch transportType {
	case TransportUDP:
		return NewUDPTransport(addr, opts), nil
	case TransportTCP:
		return nil, fmt.Errorf("DNS over TCP transport not supported")
	default:
		return nil, fmt.Errorf("unsupported transport type: %s", transportType)
	}
}
