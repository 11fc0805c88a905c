package wire

import (
	"bytes"
	"fmt"
)

// MaxLabelLen is the largest label the one-byte length prefix can describe.
const MaxLabelLen = 255

// Label is one raw component of a name. Bytes are kept exactly as received;
// they are not required to be valid UTF-8 until the name is decoded.
type Label []byte

// ParseLabel decodes a length-prefixed label. A zero length byte yields an
// empty label, which callers treat as the end of a name.
func ParseLabel(b []byte) ([]byte, Label, error) {
	if len(b) < 1 {
		return b, nil, fmt.Errorf("%w: missing label length", ErrWire)
	}
	n := int(b[0])
	if len(b) < 1+n {
		return b, nil, fmt.Errorf("%w: label length %d exceeds remaining %d bytes", ErrWire, n, len(b)-1)
	}
	l := make(Label, n)
	copy(l, b[1:1+n])
	return b[1+n:], l, nil
}

// Serialize writes the length byte and the label. Bytes past MaxLabelLen are
// not written, so the output always parses back.
func (l Label) Serialize() []byte {
	if len(l) > MaxLabelLen {
		l = l[:MaxLabelLen]
	}
	out := make([]byte, 0, len(l)+1)
	out = append(out, byte(len(l)))
	return append(out, l...)
}

// Equal compares two labels byte for byte.
func (l Label) Equal(o Label) bool {
	return bytes.Equal(l, o)
}

func (l Label) String() string {
	return string(l)
}
