package responder

import (
	"context"
	"strings"
	"testing"

	"github.com/miekg/dns"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ethlimo/limo-web3-dns/internal/dns/common/log"
	"github.com/ethlimo/limo-web3-dns/internal/dns/common/metrics"
	"github.com/ethlimo/limo-web3-dns/internal/dns/common/rrdata"
	"github.com/ethlimo/limo-web3-dns/internal/dns/domain"
	"github.com/ethlimo/limo-web3-dns/internal/dns/gateways/addr"
	"github.com/ethlimo/limo-web3-dns/internal/dns/gateways/wire"
)

type MockAnswerProvider struct {
	mock.Mock
}

func (m *MockAnswerProvider) Answer(ctx context.Context, q wire.Question) (string, bool) {
	args := m.Called(ctx, q.Name.String(), q.Type)
	return args.String(0), args.Bool(1)
}

func newTestResponder(p AnswerProvider) *Responder {
	return NewResponder(p, rrdata.NewEncoder(addr.NewMultiaddrParser()), log.NewNoopLogger())
}

func packQuery(t *testing.T, id uint16, questions ...dns.Question) []byte {
	t.Helper()
	m := new(dns.Msg)
	m.Id = id
	m.RecursionDesired = true
	m.Question = questions
	b, err := m.Pack()
	require.NoError(t, err)
	return b
}

func unpack(t *testing.T, b []byte) *dns.Msg {
	t.Helper()
	m := new(dns.Msg)
	require.NoError(t, m.Unpack(b))
	return m
}

func q(name string, qtype uint16) dns.Question {
	return dns.Question{Name: dns.Fqdn(name), Qtype: qtype, Qclass: dns.ClassINET}
}

func TestHandlePacket_ZeroQuestions(t *testing.T) {
	p := new(MockAnswerProvider)
	out := newTestResponder(p).HandlePacket(context.Background(), []byte{0x12, 0x34, 0x01, 0x00, 0, 0, 0, 0, 0, 0, 0, 0})

	require.Len(t, out, wire.HeaderSize)
	assert.Equal(t, []byte{0x12, 0x34, 0x81, 0x80, 0, 0, 0, 0, 0, 0, 0, 0}, out)
	p.AssertNotCalled(t, "Answer", mock.Anything, mock.Anything, mock.Anything)
}

func TestHandlePacket_SingleTXT(t *testing.T) {
	p := new(MockAnswerProvider)
	p.On("Answer", mock.Anything, "avatar.alice.eth", domain.RRTypeTXT).Return("hello", true)

	query := packQuery(t, 0xABCD, q("avatar.alice.eth", dns.TypeTXT))
	out := newTestResponder(p).HandlePacket(context.Background(), query)

	// header, echoed question, then the answer record
	_, h, err := wire.ParseHeader(out)
	require.NoError(t, err)
	assert.Equal(t, uint16(0xABCD), h.ID)
	assert.Equal(t, uint16(1), h.QDCount)
	assert.Equal(t, uint16(1), h.ANCount)
	assert.True(t, h.Flags.QR)
	assert.True(t, h.Flags.RA)
	assert.True(t, h.Flags.RD)
	assert.Equal(t, wire.RCodeNoError, h.Flags.RCode)
	assert.Equal(t, []byte{0, 6, 5, 'h', 'e', 'l', 'l', 'o'}, out[len(out)-8:])

	resp := unpack(t, out)
	require.Len(t, resp.Answer, 1)
	txt, ok := resp.Answer[0].(*dns.TXT)
	require.True(t, ok)
	assert.Equal(t, []string{"hello"}, txt.Txt)
	assert.Equal(t, uint32(300), txt.Hdr.Ttl)
	assert.Equal(t, uint16(dns.ClassINET), txt.Hdr.Class)
	assert.Equal(t, "avatar.alice.eth.", txt.Hdr.Name)
}

func TestHandlePacket_NoAnswerEchoesQuestion(t *testing.T) {
	p := new(MockAnswerProvider)
	p.On("Answer", mock.Anything, "alice.eth", domain.RRTypeTXT).Return("", false)

	query := packQuery(t, 7, q("alice.eth", dns.TypeTXT))
	out := newTestResponder(p).HandlePacket(context.Background(), query)

	// a question-only query comes back the same length, only flags differ
	require.Len(t, out, len(query))
	assert.Equal(t, query[wire.HeaderSize:], out[wire.HeaderSize:])

	resp := unpack(t, out)
	assert.True(t, resp.Response)
	assert.Empty(t, resp.Answer)
	require.Len(t, resp.Question, 1)
	assert.Equal(t, "alice.eth.", resp.Question[0].Name)
}

func TestHandlePacket_BadHeader(t *testing.T) {
	p := new(MockAnswerProvider)
	r := newTestResponder(p)
	assert.Empty(t, r.HandlePacket(context.Background(), nil))
	assert.Empty(t, r.HandlePacket(context.Background(), make([]byte, 11)))
}

func TestHandlePacket_TruncatedQuestions(t *testing.T) {
	p := new(MockAnswerProvider)
	p.On("Answer", mock.Anything, "url.alice.eth", domain.RRTypeTXT).Return("https://alice.example", true)

	query := packQuery(t, 9, q("url.alice.eth", dns.TypeTXT))
	// claim a second question that is not there
	query[5] = 2
	query = append(query, 3, 'b', 'o')

	resp := unpack(t, newTestResponder(p).HandlePacket(context.Background(), query))
	require.Len(t, resp.Question, 1)
	require.Len(t, resp.Answer, 1)
	assert.Equal(t, []string{"https://alice.example"}, resp.Answer[0].(*dns.TXT).Txt)
}

func TestHandlePacket_AddressRecords(t *testing.T) {
	tests := []struct {
		name    string
		qtype   uint16
		answer  string
		wantIP  string
		wantLen int
	}{
		{name: "A from ip4 multiaddr", qtype: dns.TypeA, answer: "/ip4/1.2.3.4/tcp/443", wantIP: "1.2.3.4", wantLen: 1},
		{name: "AAAA from ip6 multiaddr", qtype: dns.TypeAAAA, answer: "/ip6/2001:db8::1", wantIP: "2001:db8::1", wantLen: 1},
		{name: "A from dns multiaddr", qtype: dns.TypeA, answer: "/dns4/example.com", wantLen: 0},
		{name: "A from ip6 multiaddr", qtype: dns.TypeA, answer: "/ip6/::1", wantLen: 0},
		{name: "AAAA from ip4 multiaddr", qtype: dns.TypeAAAA, answer: "/ip4/1.2.3.4", wantLen: 0},
		{name: "A from garbage", qtype: dns.TypeA, answer: "not-a-multiaddr", wantLen: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := new(MockAnswerProvider)
			p.On("Answer", mock.Anything, "alice.eth", domain.RRType(tt.qtype)).Return(tt.answer, true)

			resp := unpack(t, newTestResponder(p).HandlePacket(context.Background(), packQuery(t, 1, q("alice.eth", tt.qtype))))
			require.Len(t, resp.Answer, tt.wantLen)
			if tt.wantLen == 0 {
				return
			}
			switch rr := resp.Answer[0].(type) {
			case *dns.A:
				assert.Equal(t, tt.wantIP, rr.A.String())
			case *dns.AAAA:
				assert.Equal(t, tt.wantIP, rr.AAAA.String())
			default:
				t.Fatalf("unexpected record %T", rr)
			}
		})
	}
}

func TestHandlePacket_UnsupportedTypeDropped(t *testing.T) {
	p := new(MockAnswerProvider)
	p.On("Answer", mock.Anything, "alice.eth", domain.RRTypeMX).Return("10 mail.alice.eth", true)

	resp := unpack(t, newTestResponder(p).HandlePacket(context.Background(), packQuery(t, 1, q("alice.eth", dns.TypeMX))))
	assert.Empty(t, resp.Answer)
	require.Len(t, resp.Question, 1)
	p.AssertExpectations(t)
}

func TestHandlePacket_UnnamedTypesShareQuestionSeries(t *testing.T) {
	p := new(MockAnswerProvider)
	p.On("Answer", mock.Anything, "alice.eth", mock.Anything).Return("", false)
	r := newTestResponder(p)

	r.HandlePacket(context.Background(), packQuery(t, 1, q("alice.eth", 1000)))
	series := testutil.CollectAndCount(metrics.Questions)
	other := testutil.ToFloat64(metrics.Questions.WithLabelValues("OTHER"))

	for qtype := uint16(1001); qtype < 1100; qtype++ {
		r.HandlePacket(context.Background(), packQuery(t, qtype, q("alice.eth", qtype)))
	}
	assert.Equal(t, series, testutil.CollectAndCount(metrics.Questions))
	assert.Equal(t, other+99, testutil.ToFloat64(metrics.Questions.WithLabelValues("OTHER")))
}

func TestHandlePacket_LongTXTSplit(t *testing.T) {
	long := strings.Repeat("a", 300)
	p := new(MockAnswerProvider)
	p.On("Answer", mock.Anything, "description.alice.eth", domain.RRTypeTXT).Return(long, true)

	resp := unpack(t, newTestResponder(p).HandlePacket(context.Background(), packQuery(t, 1, q("description.alice.eth", dns.TypeTXT))))
	require.Len(t, resp.Answer, 1)
	txt := resp.Answer[0].(*dns.TXT)
	assert.Equal(t, []string{strings.Repeat("a", 255), strings.Repeat("a", 45)}, txt.Txt)
	assert.Equal(t, long, strings.Join(txt.Txt, ""))
}

func TestHandlePacket_MultipleQuestionsInOrder(t *testing.T) {
	var order []string
	p := new(MockAnswerProvider)
	record := func(args mock.Arguments) { order = append(order, args.String(1)) }
	p.On("Answer", mock.Anything, "url.alice.eth", domain.RRTypeTXT).Run(record).Return("https://alice.example", true)
	p.On("Answer", mock.Anything, "bob.eth", domain.RRTypeTXT).Run(record).Return("", false)
	p.On("Answer", mock.Anything, "carol.eth", domain.RRTypeA).Run(record).Return("/ip4/10.0.0.1", true)

	query := packQuery(t, 5,
		q("url.alice.eth", dns.TypeTXT),
		q("bob.eth", dns.TypeTXT),
		q("carol.eth", dns.TypeA),
	)
	resp := unpack(t, newTestResponder(p).HandlePacket(context.Background(), query))

	assert.Equal(t, []string{"url.alice.eth", "bob.eth", "carol.eth"}, order)
	require.Len(t, resp.Question, 3)
	require.Len(t, resp.Answer, 2)
	assert.Equal(t, "url.alice.eth.", resp.Answer[0].Header().Name)
	assert.Equal(t, "carol.eth.", resp.Answer[1].Header().Name)
}

func TestBuildResponse_Flags(t *testing.T) {
	p := new(MockAnswerProvider)
	r := newTestResponder(p)

	req := wire.Header{
		ID:    77,
		Flags: wire.Flags{Opcode: 2, AA: true, TC: true, RD: false, RCode: 5},
	}
	out := r.buildResponse(context.Background(), req, nil)

	_, h, err := wire.ParseHeader(out)
	require.NoError(t, err)
	assert.Equal(t, wire.Flags{QR: true, Opcode: wire.OpcodeQuery, RA: true, RCode: wire.RCodeNoError}, h.Flags)
	assert.Equal(t, uint16(77), h.ID)
	assert.Zero(t, h.QDCount)
	assert.Zero(t, h.ANCount)
}
