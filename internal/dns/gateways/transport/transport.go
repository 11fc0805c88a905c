// Package transport moves raw DNS datagrams between the network and a
// PacketHandler. It knows nothing about the DNS wire format.
package transport

import "context"

// ServerTransport defines the interface for DNS server transport implementations.
type ServerTransport interface {
	// Start binds the transport and begins dispatching packets to handler.
	// It returns once the listener is bound.
	Start(ctx context.Context, handler PacketHandler) error

	// Stop stops reading, waits for in-flight packets and releases the socket.
	Stop() error

	// Address returns the network address the transport is bound to.
	Address() string
}

// PacketHandler turns one query datagram into a response datagram. A nil or
// empty response means nothing is sent back.
type PacketHandler interface {
	HandlePacket(ctx context.Context, packet []byte) []byte
}

// TransportType represents the different types of DNS transport protocols supported.
type TransportType string

const (
	// TransportUDP represents standard DNS over UDP (RFC 1035)
	TransportUDP TransportType = "udp"

	// TransportTCP is DNS over TCP. Not served.
	TransportTCP TransportType = "tcp"
)
