// Package addr reads IP addresses out of multiaddr answer strings such as
// "/ip4/203.0.113.7/tcp/443".
package addr

import (
	"errors"
	"fmt"
	"net/netip"
	"strings"

	ma "github.com/multiformats/go-multiaddr"
)

var (
	// ErrNoAddress is returned when the value does not start with an ip4 or
	// ip6 component.
	ErrNoAddress = errors.New("multiaddr has no leading ip component")
	ErrMultiaddr = errors.New("invalid multiaddr")
)

// MultiaddrParser takes the address from the first component of a multiaddr.
// Everything after the first component is ignored.
type MultiaddrParser struct{}

func NewMultiaddrParser() MultiaddrParser {
	return MultiaddrParser{}
}

// ParseAddr returns the IPv4 or IPv6 address carried by the first component
// of s.
func (MultiaddrParser) ParseAddr(s string) (netip.Addr, error) {
	m, err := ma.NewMultiaddr(strings.TrimSpace(s))
	if err != nil {
		return netip.Addr{}, fmt.Errorf("%w: %q: %v", ErrMultiaddr, s, err)
	}
	first, _ := ma.SplitFirst(m)
	if first == nil {
		return netip.Addr{}, fmt.Errorf("%w: %q", ErrNoAddress, s)
	}
	switch first.Protocol().Code {
	case ma.P_IP4, ma.P_IP6:
		a, ok := netip.AddrFromSlice(first.RawValue())
		if !ok {
			return netip.Addr{}, fmt.Errorf("%w: %q: bad %s value", ErrMultiaddr, s, first.Protocol().Name)
		}
		return a, nil
	default:
		return netip.Addr{}, fmt.Errorf("%w: %q starts with %s", ErrNoAddress, s, first.Protocol().Name)
	}
}
