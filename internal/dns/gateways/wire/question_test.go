package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ethlimo/limo-web3-dns/internal/dns/domain"
)

func TestQuestion_RoundTrip(t *testing.T) {
	q := Question{
		Name:  NameFromString("avatar.alice.eth"),
		Type:  domain.RRTypeTXT,
		Class: domain.RRClassIN,
	}
	b := q.Serialize()
	assert.Equal(t, []byte{0, 16, 0, 1}, b[len(b)-4:])

	rest, got, err := ParseQuestion(append(b, 1, 2, 3))
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, rest)
	assert.True(t, q.Name.Equal(got.Name))
	assert.Equal(t, q.Type, got.Type)
	assert.Equal(t, q.Class, got.Class)
}

func TestParseQuestion_Truncated(t *testing.T) {
	full := Question{Name: NameFromString("alice.eth"), Type: domain.RRTypeA, Class: domain.RRClassIN}.Serialize()
	for cut := 0; cut < len(full); cut++ {
		_, _, err := ParseQuestion(full[:cut])
		assert.ErrorIs(t, err, ErrWire, "cut at %d", cut)
	}
}

func TestParseN_StopsAtFirstFailure(t *testing.T) {
	one := Question{Name: NameFromString("a.eth"), Type: domain.RRTypeTXT, Class: domain.RRClassIN}.Serialize()
	two := Question{Name: NameFromString("b.eth"), Type: domain.RRTypeA, Class: domain.RRClassIN}.Serialize()
	input := append(append(append([]byte{}, one...), two...), 3, 'c')

	rest, qs, err := ParseN(input, 3, ParseQuestion)
	assert.ErrorIs(t, err, ErrWire)
	require.Len(t, qs, 2)
	assert.Equal(t, "a.eth", qs[0].Name.String())
	assert.Equal(t, "b.eth", qs[1].Name.String())
	assert.Equal(t, []byte{3, 'c'}, rest)
}

func TestParseN_Zero(t *testing.T) {
	rest, qs, err := ParseN([]byte{9}, 0, ParseQuestion)
	require.NoError(t, err)
	assert.Empty(t, qs)
	assert.Equal(t, []byte{9}, rest)
}
