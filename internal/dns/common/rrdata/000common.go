// Package rrdata turns answer strings into RDATA for the record types the
// gateway synthesizes.
package rrdata

import (
	"errors"
	"net/netip"
)

var (
	// ErrUnsupportedType is returned for record types with no encoder.
	ErrUnsupportedType = errors.New("unsupported record type")
	// ErrAddressFamily is returned when an address answer has the wrong family
	// for the requested type.
	ErrAddressFamily = errors.New("address family mismatch")
)

// maxCharString is the longest <character-string> (RFC 1035 3.3).
const maxCharString = 255

// AddressParser extracts an IP address from an answer string.
type AddressParser interface {
	ParseAddr(s string) (netip.Addr, error)
}
