// Package responder turns a raw query datagram into a raw response.
package responder

import (
	"context"
	"errors"

	"github.com/ethlimo/limo-web3-dns/internal/dns/common/log"
	"github.com/ethlimo/limo-web3-dns/internal/dns/common/metrics"
	"github.com/ethlimo/limo-web3-dns/internal/dns/common/rrdata"
	"github.com/ethlimo/limo-web3-dns/internal/dns/domain"
	"github.com/ethlimo/limo-web3-dns/internal/dns/gateways/wire"
)

// AnswerTTL is the TTL of every synthesized record, in seconds.
const AnswerTTL uint32 = 300

// Responder builds responses. It holds no per-request state and is safe for
// concurrent use when its provider and encoder are.
type Responder struct {
	provider AnswerProvider
	encoder  RecordEncoder
	logger   log.Logger
}

func NewResponder(provider AnswerProvider, encoder RecordEncoder, logger log.Logger) *Responder {
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	return &Responder{provider: provider, encoder: encoder, logger: logger}
}

// HandlePacket answers one query datagram. It returns nil when the header
// cannot be parsed, in which case nothing should be sent. Questions are read
// up to the first malformed one; the response echoes only those.
func (r *Responder) HandlePacket(ctx context.Context, packet []byte) []byte {
	rest, req, err := wire.ParseHeader(packet)
	if err != nil {
		metrics.PacketsDropped.WithLabelValues("unparseable").Inc()
		r.logger.Debug(map[string]any{"error": err, "bytes": len(packet)}, "dropping packet with bad header")
		return nil
	}

	_, questions, err := wire.ParseN(rest, int(req.QDCount), wire.ParseQuestion)
	if err != nil {
		r.logger.Debug(map[string]any{
			"id":       req.ID,
			"qd_count": req.QDCount,
			"parsed":   len(questions),
			"error":    err,
		}, "question section truncated")
	}
	return r.buildResponse(ctx, req, questions)
}

// buildResponse asks the provider about each question in order and assembles
// the response.
func (r *Responder) buildResponse(ctx context.Context, req wire.Header, questions []wire.Question) []byte {
	resp := wire.Header{
		ID: req.ID,
		Flags: wire.Flags{
			QR:     true,
			Opcode: wire.OpcodeQuery,
			RD:     req.Flags.RD,
			RA:     true,
			RCode:  wire.RCodeNoError,
		},
		QDCount: uint16(len(questions)),
	}

	var body []byte
	for _, q := range questions {
		metrics.Questions.WithLabelValues(q.Type.MetricLabel()).Inc()
		body = append(body, q.Serialize()...)
	}

	for _, q := range questions {
		rr, ok := r.answer(ctx, q)
		if !ok {
			continue
		}
		body = append(body, rr.Serialize()...)
		resp.ANCount++
		metrics.Answers.WithLabelValues(q.Type.MetricLabel()).Inc()
	}

	return append(resp.Serialize(), body...)
}

func (r *Responder) answer(ctx context.Context, q wire.Question) (wire.ResourceRecord, bool) {
	value, ok := r.provider.Answer(ctx, q)
	if !ok {
		return wire.ResourceRecord{}, false
	}
	data, err := r.encoder.Encode(q.Type, value)
	if err != nil {
		if !errors.Is(err, rrdata.ErrUnsupportedType) {
			r.logger.Debug(map[string]any{"qname": q.Name.String(), "qtype": q.Type.String(), "error": err}, "answer has no record form")
		}
		return wire.ResourceRecord{}, false
	}
	rr, err := wire.NewResourceRecord(q.Name, q.Type, domain.RRClassIN, AnswerTTL, data)
	if err != nil {
		r.logger.Warn(map[string]any{"qname": q.Name.String(), "error": err}, "answer too large")
		return wire.ResourceRecord{}, false
	}
	return rr, true
}
