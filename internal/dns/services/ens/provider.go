// Package ens answers DNS questions from ENS records. A/AAAA questions read
// the "A"/"AAAA" text record of the query name itself; other questions name a
// service in front of the ENS name, as in "com.github.alice.eth".
package ens

import (
	"context"
	"errors"

	"github.com/ethlimo/limo-web3-dns/internal/dns/common/log"
	"github.com/ethlimo/limo-web3-dns/internal/dns/common/metrics"
	"github.com/ethlimo/limo-web3-dns/internal/dns/domain"
	"github.com/ethlimo/limo-web3-dns/internal/dns/gateways/wire"
)

var (
	errResolverRequired   = errors.New("field resolver is required")
	errClassifierRequired = errors.New("classifier is required")
	errEmptySubject       = errors.New("empty subject")
)

var (
	fieldA    = wire.NameFromString("A")
	fieldAAAA = wire.NameFromString("AAAA")
)

// Provider resolves the answer string for a question.
type Provider struct {
	resolver   FieldResolver
	classifier Classifier
	denylist   Denylist
	logger     log.Logger
}

// Options configures NewProvider. Denylist and Logger are optional.
type Options struct {
	Resolver   FieldResolver
	Classifier Classifier
	Denylist   Denylist
	Logger     log.Logger
}

type allowAll struct{}

func (allowAll) Decide(string) domain.DenyDecision { return domain.AllowDecision() }

func NewProvider(opts Options) (*Provider, error) {
	if opts.Resolver == nil {
		return nil, errResolverRequired
	}
	if opts.Classifier == nil {
		return nil, errClassifierRequired
	}
	if opts.Denylist == nil {
		opts.Denylist = allowAll{}
	}
	if opts.Logger == nil {
		opts.Logger = log.NewNoopLogger()
	}
	return &Provider{
		resolver:   opts.Resolver,
		classifier: opts.Classifier,
		denylist:   opts.Denylist,
		logger:     opts.Logger,
	}, nil
}

// route picks the text-record field and the ENS name for q.
func (p *Provider) route(q wire.Question) (field, subject wire.Name, ok bool) {
	switch q.Type {
	case domain.RRTypeA:
		return fieldA, q.Name, true
	case domain.RRTypeAAAA:
		return fieldAAAA, q.Name, true
	}
	svc, ok := p.classifier.Classify(q.Name)
	if !ok {
		return wire.Name{}, wire.Name{}, false
	}
	return svc.Field, svc.Subject(q.Name), true
}

// Answer returns the record value for q. ok is false when the question names
// no service, the subject is denied, the lookup fails or the record is empty.
// Lookup failures are logged, never returned.
func (p *Provider) Answer(ctx context.Context, q wire.Question) (string, bool) {
	fieldName, subjectName, ok := p.route(q)
	if !ok {
		metrics.Lookups.WithLabelValues("unclassified").Inc()
		p.logger.Debug(map[string]any{"qname": q.Name.String(), "qtype": q.Type.String()}, "no service for query")
		return "", false
	}

	subject, err := subjectName.PunycodeDecode()
	if err == nil && subject == "" {
		err = errEmptySubject
	}
	var field string
	if err == nil {
		field, err = fieldName.PunycodeDecode()
	}
	if err != nil {
		metrics.Lookups.WithLabelValues("undecodable").Inc()
		p.logger.Debug(map[string]any{"qname": q.Name.String(), "error": err}, "query name not decodable")
		return "", false
	}

	if d := p.denylist.Decide(subject); d.Denied {
		metrics.Lookups.WithLabelValues("denied").Inc()
		metrics.DeniedNames.Inc()
		p.logger.Info(map[string]any{
			"name":   subject,
			"rule":   d.MatchedRule,
			"kind":   d.Kind.String(),
			"source": d.Source,
		}, "lookup refused by denylist")
		return "", false
	}

	value, err := p.resolver.ResolveField(ctx, subject, field)
	if err != nil {
		metrics.Lookups.WithLabelValues("error").Inc()
		p.logger.Warn(map[string]any{"name": subject, "field": field, "error": err}, "ENS lookup failed")
		return "", false
	}
	if value == "" {
		metrics.Lookups.WithLabelValues("empty").Inc()
		return "", false
	}
	metrics.Lookups.WithLabelValues("ok").Inc()
	return value, true
}
