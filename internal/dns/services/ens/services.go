package ens

import "github.com/ethlimo/limo-web3-dns/internal/dns/gateways/wire"

// Service is the outcome of classifying a query name.
type Service struct {
	// Field is the ENS text-record key to read.
	Field wire.Name
	// Prefix is the leading part of the query name that selected the service.
	Prefix wire.Name
}

// Subject returns the ENS name qname refers to: qname without the service
// prefix, or qname itself when the prefix does not lead it.
func (s Service) Subject(qname wire.Name) wire.Name {
	if subject, ok := qname.RemovePrefixLabels(s.Prefix); ok {
		return subject
	}
	return qname
}

// defaultServices are the ENS text-record keys answerable as
// "<key>.<ens name>" TXT queries.
var defaultServices = []string{
	"_atproto",
	"avatar",
	"description",
	"display",
	"email",
	"keywords",
	"mail",
	"notice",
	"location",
	"phone",
	"url",
	"com.github",
	"com.peepeth",
	"com.linkedin",
	"com.twitter",
	"io.keybase",
	"org.telegram",
}

// ServiceTable is the ordered list of service keys. It is built once and
// shared read-only.
type ServiceTable struct {
	names []wire.Name
}

// NewServiceTable builds a table from dotted service keys, in order.
func NewServiceTable(keys []string) *ServiceTable {
	t := &ServiceTable{names: make([]wire.Name, 0, len(keys))}
	for _, k := range keys {
		t.names = append(t.names, wire.NameFromString(k))
	}
	return t
}

// DefaultServiceTable returns the table of supported text-record keys.
func DefaultServiceTable() *ServiceTable {
	return NewServiceTable(defaultServices)
}

// Names returns the service names in table order.
func (t *ServiceTable) Names() []wire.Name {
	return t.names
}

func (t *ServiceTable) Len() int {
	return len(t.names)
}
