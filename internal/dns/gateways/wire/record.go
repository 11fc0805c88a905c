package wire

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/ethlimo/limo-web3-dns/internal/dns/domain"
)

// ResourceRecord is an answer-section record with uncompressed owner name.
type ResourceRecord struct {
	Name  Name
	Type  domain.RRType
	Class domain.RRClass
	TTL   uint32
	Data  []byte
}

// NewResourceRecord returns a record, rejecting RDATA too long for RDLENGTH.
func NewResourceRecord(name Name, t domain.RRType, c domain.RRClass, ttl uint32, data []byte) (ResourceRecord, error) {
	if len(data) > math.MaxUint16 {
		return ResourceRecord{}, fmt.Errorf("rdata for %s %s is %d bytes, max %d", name, t, len(data), math.MaxUint16)
	}
	return ResourceRecord{Name: name, Type: t, Class: c, TTL: ttl, Data: data}, nil
}

// ParseResourceRecord decodes one record from the front of b.
func ParseResourceRecord(b []byte) ([]byte, ResourceRecord, error) {
	rest, name, err := ParseName(b)
	if err != nil {
		return b, ResourceRecord{}, fmt.Errorf("record name: %w", err)
	}
	var rrtype, class, rdlen uint16
	var ttl uint32
	if rest, rrtype, err = readUint16(rest, "type"); err != nil {
		return b, ResourceRecord{}, err
	}
	if rest, class, err = readUint16(rest, "class"); err != nil {
		return b, ResourceRecord{}, err
	}
	if rest, ttl, err = readUint32(rest, "ttl"); err != nil {
		return b, ResourceRecord{}, err
	}
	if rest, rdlen, err = readUint16(rest, "rdlength"); err != nil {
		return b, ResourceRecord{}, err
	}
	if len(rest) < int(rdlen) {
		return b, ResourceRecord{}, fmt.Errorf("%w: rdata needs %d bytes, have %d", ErrWire, rdlen, len(rest))
	}
	data := make([]byte, rdlen)
	copy(data, rest[:rdlen])
	return rest[rdlen:], ResourceRecord{
		Name:  name,
		Type:  domain.RRType(rrtype),
		Class: domain.RRClass(class),
		TTL:   ttl,
		Data:  data,
	}, nil
}

func (r ResourceRecord) Serialize() []byte {
	out := r.Name.Serialize()
	out = binary.BigEndian.AppendUint16(out, uint16(r.Type))
	out = binary.BigEndian.AppendUint16(out, uint16(r.Class))
	out = binary.BigEndian.AppendUint32(out, r.TTL)
	out = binary.BigEndian.AppendUint16(out, uint16(len(r.Data)))
	return append(out, r.Data...)
}
