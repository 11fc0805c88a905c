package wire

import (
	"encoding/binary"
	"fmt"
)

// HeaderSize is the fixed length of a message header in bytes.
const HeaderSize = 12

// Header is the fixed 12-byte message header. NSCount and ARCount are decoded
// but Serialize always writes them as zero, since responses built here never
// carry authority or additional sections.
type Header struct {
	ID      uint16
	Flags   Flags
	QDCount uint16
	ANCount uint16
	NSCount uint16
	ARCount uint16
}

// ParseHeader decodes a header from the front of b.
func ParseHeader(b []byte) ([]byte, Header, error) {
	if len(b) < HeaderSize {
		return b, Header{}, fmt.Errorf("%w: header needs %d bytes, have %d", ErrWire, HeaderSize, len(b))
	}
	var h Header
	h.ID = binary.BigEndian.Uint16(b[0:2])
	h.Flags = FlagsFromUint16(binary.BigEndian.Uint16(b[2:4]))
	h.QDCount = binary.BigEndian.Uint16(b[4:6])
	h.ANCount = binary.BigEndian.Uint16(b[6:8])
	h.NSCount = binary.BigEndian.Uint16(b[8:10])
	h.ARCount = binary.BigEndian.Uint16(b[10:12])
	return b[HeaderSize:], h, nil
}

func (h Header) Serialize() []byte {
	out := make([]byte, HeaderSize)
	binary.BigEndian.PutUint16(out[0:2], h.ID)
	binary.BigEndian.PutUint16(out[2:4], h.Flags.Uint16())
	binary.BigEndian.PutUint16(out[4:6], h.QDCount)
	binary.BigEndian.PutUint16(out[6:8], h.ANCount)
	// bytes 8-11 (NSCOUNT, ARCOUNT) stay zero
	return out
}
