package rrdata

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeTXTData(t *testing.T) {
	tests := []struct {
		name string
		data string
		want []byte
	}{
		{name: "hello", data: "hello", want: []byte{5, 'h', 'e', 'l', 'l', 'o'}},
		{name: "empty", data: "", want: []byte{0}},
		{name: "semicolons kept", data: "a;b", want: []byte{3, 'a', ';', 'b'}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, encodeTXTData(tt.data))
		})
	}
}

func TestEncodeTXTData_SplitsLongValues(t *testing.T) {
	data := strings.Repeat("x", 255) + strings.Repeat("y", 255) + "z"
	got := encodeTXTData(data)
	require.Len(t, got, len(data)+3)

	assert.Equal(t, byte(255), got[0])
	assert.Equal(t, strings.Repeat("x", 255), string(got[1:256]))
	assert.Equal(t, byte(255), got[256])
	assert.Equal(t, strings.Repeat("y", 255), string(got[257:512]))
	assert.Equal(t, byte(1), got[512])
	assert.Equal(t, "z", string(got[513:]))
}

func TestEncodeTXTData_ExactlyMax(t *testing.T) {
	data := strings.Repeat("a", 255)
	got := encodeTXTData(data)
	require.Len(t, got, 256)
	assert.Equal(t, byte(255), got[0])
}
