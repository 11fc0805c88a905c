package ens

import (
	"context"

	"github.com/ethlimo/limo-web3-dns/internal/dns/domain"
	"github.com/ethlimo/limo-web3-dns/internal/dns/gateways/wire"
)

// FieldResolver reads one text record of an ENS name.
type FieldResolver interface {
	ResolveField(ctx context.Context, name, field string) (string, error)
}

// Denylist decides whether an ENS name may be resolved.
type Denylist interface {
	Decide(name string) domain.DenyDecision
}

// Classifier splits a query name into the service written in front of it and
// the ENS name behind it.
type Classifier interface {
	Classify(qname wire.Name) (Service, bool)
}
