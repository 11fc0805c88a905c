package wire

import (
	"encoding/binary"
	"fmt"

	"github.com/ethlimo/limo-web3-dns/internal/dns/domain"
)

// Question is one entry of the question section.
type Question struct {
	Name  Name
	Type  domain.RRType
	Class domain.RRClass
}

// ParseQuestion decodes QNAME, QTYPE and QCLASS from the front of b.
func ParseQuestion(b []byte) ([]byte, Question, error) {
	rest, name, err := ParseName(b)
	if err != nil {
		return b, Question{}, fmt.Errorf("question name: %w", err)
	}
	rest, qtype, err := readUint16(rest, "qtype")
	if err != nil {
		return b, Question{}, err
	}
	rest, qclass, err := readUint16(rest, "qclass")
	if err != nil {
		return b, Question{}, err
	}
	return rest, Question{Name: name, Type: domain.RRType(qtype), Class: domain.RRClass(qclass)}, nil
}

func (q Question) Serialize() []byte {
	out := q.Name.Serialize()
	out = binary.BigEndian.AppendUint16(out, uint16(q.Type))
	return binary.BigEndian.AppendUint16(out, uint16(q.Class))
}
