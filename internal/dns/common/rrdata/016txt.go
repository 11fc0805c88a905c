package rrdata

// encodeTXTData encodes data as one or more character-strings. Values longer
// than 255 bytes are split into consecutive 255-byte pieces; an empty value
// is a single empty string.
func encodeTXTData(data string) []byte {
	if data == "" {
		return []byte{0}
	}
	pieces := (len(data) + maxCharString - 1) / maxCharString
	out := make([]byte, 0, len(data)+pieces)
	for len(data) > 0 {
		n := min(len(data), maxCharString)
		out = append(out, byte(n))
		out = append(out, data[:n]...)
		data = data[n:]
	}
	return out
}
