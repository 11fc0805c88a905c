// Package wire implements the subset of the RFC 1035 message format needed to
// answer queries: header, flags, uncompressed names, questions and answer
// records. Every element decodes from the front of a byte slice and returns
// the unread remainder, and every element serializes back to bytes.
package wire

import (
	"encoding/binary"
	"fmt"
)

// Serializer is implemented by every wire element.
type Serializer interface {
	Serialize() []byte
}

// ParseFunc decodes a T from the front of b and returns the bytes after it.
// On failure the returned remainder is unspecified.
type ParseFunc[T Serializer] func(b []byte) ([]byte, T, error)

// ParseN applies parse up to n times in sequence. It stops at the first
// failure and returns the elements decoded before it, the remainder after the
// last successful element, and the failure. err is nil when all n elements
// decoded.
func ParseN[T Serializer](b []byte, n int, parse ParseFunc[T]) ([]byte, []T, error) {
	out := make([]T, 0, n)
	for i := 0; i < n; i++ {
		rest, v, err := parse(b)
		if err != nil {
			return b, out, fmt.Errorf("element %d of %d: %w", i+1, n, err)
		}
		out = append(out, v)
		b = rest
	}
	return b, out, nil
}

func readUint16(b []byte, what string) ([]byte, uint16, error) {
	if len(b) < 2 {
		return b, 0, fmt.Errorf("%w: %s needs 2 bytes, have %d", ErrWire, what, len(b))
	}
	return b[2:], binary.BigEndian.Uint16(b), nil
}

func readUint32(b []byte, what string) ([]byte, uint32, error) {
	if len(b) < 4 {
		return b, 0, fmt.Errorf("%w: %s needs 4 bytes, have %d", ErrWire, what, len(b))
	}
	return b[4:], binary.BigEndian.Uint32(b), nil
}
