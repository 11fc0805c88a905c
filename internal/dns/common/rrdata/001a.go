package rrdata

import "fmt"

// encodeAData returns the 4 octets of an IPv4 answer.
func encodeAData(p AddressParser, data string) ([]byte, error) {
	addr, err := p.ParseAddr(data)
	if err != nil {
		return nil, fmt.Errorf("A record %q: %w", data, err)
	}
	if !addr.Is4() {
		return nil, fmt.Errorf("%w: A record %q holds %s", ErrAddressFamily, data, addr)
	}
	b := addr.As4()
	return b[:], nil
}
