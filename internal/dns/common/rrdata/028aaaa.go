package rrdata

import "fmt"

// encodeAAAAData returns the 16 octets of an IPv6 answer. IPv4-mapped IPv6
// addresses are accepted as written.
func encodeAAAAData(p AddressParser, data string) ([]byte, error) {
	addr, err := p.ParseAddr(data)
	if err != nil {
		return nil, fmt.Errorf("AAAA record %q: %w", data, err)
	}
	if !addr.Is6() {
		return nil, fmt.Errorf("%w: AAAA record %q holds %s", ErrAddressFamily, data, addr)
	}
	b := addr.As16()
	return b[:], nil
}
