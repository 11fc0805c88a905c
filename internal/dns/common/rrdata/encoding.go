package rrdata

import (
	"fmt"

	"github.com/ethlimo/limo-web3-dns/internal/dns/domain"
)

// Encoder builds RDATA for TXT, A and AAAA answers.
type Encoder struct {
	addrs AddressParser
}

// NewEncoder returns an Encoder that reads addresses with addrs.
func NewEncoder(addrs AddressParser) *Encoder {
	return &Encoder{addrs: addrs}
}

// Encode converts an answer string to RDATA for rrType. Any error means no
// record should be emitted.
func (e *Encoder) Encode(rrType domain.RRType, data string) ([]byte, error) {
	switch rrType {
	case domain.RRTypeA: // 1
		return encodeAData(e.addrs, data)
	case domain.RRTypeTXT: // 16
		return encodeTXTData(data), nil
	case domain.RRTypeAAAA: // 28
		return encodeAAAAData(e.addrs, data)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, rrType)
	}
}
