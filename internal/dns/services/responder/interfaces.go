package responder

import (
	"context"

	"github.com/ethlimo/limo-web3-dns/internal/dns/domain"
	"github.com/ethlimo/limo-web3-dns/internal/dns/gateways/wire"
)

// AnswerProvider returns the answer string for a question, if there is one.
type AnswerProvider interface {
	Answer(ctx context.Context, q wire.Question) (string, bool)
}

// RecordEncoder converts an answer string to RDATA for the given type. An
// error means the answer yields no record.
type RecordEncoder interface {
	Encode(rrType domain.RRType, data string) ([]byte, error)
}
