package ens

import (
	"fmt"
	"strings"

	"github.com/ethlimo/limo-web3-dns/internal/dns/common/ruletrie"
	"github.com/ethlimo/limo-web3-dns/internal/dns/gateways/wire"
)

const (
	ClassifierScan = "scan"
	ClassifierTrie = "trie"
)

// scanClassifier picks the first table entry whose labels lead the query.
type scanClassifier struct {
	table *ServiceTable
}

// NewScanClassifier returns a Classifier that walks table in order.
func NewScanClassifier(table *ServiceTable) Classifier {
	return &scanClassifier{table: table}
}

func (c *scanClassifier) Classify(qname wire.Name) (Service, bool) {
	for _, svc := range c.table.Names() {
		if svc.IsLabelOf(qname) {
			return Service{Field: svc, Prefix: svc}, true
		}
	}
	return Service{}, false
}

// ServiceRule maps a label pattern to a text-record key. Leading "*" tokens in
// Pattern match any single label.
type ServiceRule struct {
	Pattern string
	Field   string
}

// ParseServiceRule parses "pattern=field".
func ParseServiceRule(s string) (ServiceRule, error) {
	pattern, field, ok := strings.Cut(s, "=")
	pattern, field = strings.TrimSpace(pattern), strings.TrimSpace(field)
	if !ok || pattern == "" || field == "" {
		return ServiceRule{}, fmt.Errorf("service rule %q: want pattern=field", s)
	}
	return ServiceRule{Pattern: pattern, Field: field}, nil
}

// trieClassifier looks query names up in a ruletrie.Trie.
type trieClassifier struct {
	rules *ruletrie.Trie[wire.Name]
}

// NewTrieClassifier indexes every table entry under its own name, then adds
// rules. Overlapping entries fail with ruletrie.ErrRuleConflict.
func NewTrieClassifier(table *ServiceTable, rules []ServiceRule) (Classifier, error) {
	trie := ruletrie.New[wire.Name]()
	for _, svc := range table.Names() {
		if err := trie.Insert(ruletrie.NameKeys(svc), svc); err != nil {
			return nil, fmt.Errorf("service %s: %w", svc, err)
		}
	}
	for _, r := range rules {
		if err := trie.InsertPattern(r.Pattern, wire.NameFromString(r.Field)); err != nil {
			return nil, fmt.Errorf("service rule %s=%s: %w", r.Pattern, r.Field, err)
		}
	}
	return &trieClassifier{rules: trie}, nil
}

func (c *trieClassifier) Classify(qname wire.Name) (Service, bool) {
	field, depth, ok := c.rules.Match(ruletrie.NameKeys(qname))
	if !ok {
		return Service{}, false
	}
	return Service{Field: field, Prefix: wire.Name{Labels: qname.Labels[:depth]}}, true
}

// NewClassifier builds the named strategy. Rules only apply to the trie
// strategy.
func NewClassifier(kind string, table *ServiceTable, rules []ServiceRule) (Classifier, error) {
	switch kind {
	case ClassifierScan, "":
		return NewScanClassifier(table), nil
	case ClassifierTrie:
		return NewTrieClassifier(table, rules)
	default:
		return nil, fmt.Errorf("unknown classifier %q", kind)
	}
}
