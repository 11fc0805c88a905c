package domain

import (
	"fmt"
	"strings"
	"time"
)

// DenyRuleKind says how a denylist rule matches ENS names.
//
// exact  - the name itself
// suffix - the name and every subname below it
type DenyRuleKind uint8

const (
	DenyRuleExact DenyRuleKind = iota
	DenyRuleSuffix
)

func (k DenyRuleKind) String() string {
	switch k {
	case DenyRuleExact:
		return "exact"
	case DenyRuleSuffix:
		return "suffix"
	default:
		return fmt.Sprintf("DenyRuleKind(%d)", k)
	}
}

// ParseDenyRuleKind accepts "exact" or "suffix", case-insensitively.
func ParseDenyRuleKind(s string) (DenyRuleKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "exact":
		return DenyRuleExact, nil
	case "suffix":
		return DenyRuleSuffix, nil
	default:
		return 0, fmt.Errorf("unsupported DenyRuleKind: %q", s)
	}
}

// DenyRule is one entry of an operator denylist. Name is canonical: lower
// case, decoded from punycode, no trailing dot.
type DenyRule struct {
	Name    string
	Kind    DenyRuleKind
	Source  string // list file the rule came from
	AddedAt time.Time
}

// NewDenyRule builds and validates a rule.
func NewDenyRule(name string, kind DenyRuleKind, source string, addedAt time.Time) (DenyRule, error) {
	r := DenyRule{
		Name:    strings.TrimSpace(name),
		Kind:    kind,
		Source:  strings.TrimSpace(source),
		AddedAt: addedAt,
	}
	if err := r.Validate(); err != nil {
		return DenyRule{}, err
	}
	return r, nil
}

func (r DenyRule) Validate() error {
	if r.Name == "" {
		return fmt.Errorf("rule name must not be empty")
	}
	if r.Source == "" {
		return fmt.Errorf("rule source must not be empty")
	}
	if r.AddedAt.IsZero() {
		return fmt.Errorf("rule addedAt must be set")
	}
	if r.Kind != DenyRuleExact && r.Kind != DenyRuleSuffix {
		return fmt.Errorf("unsupported DenyRuleKind: %d", r.Kind)
	}
	return nil
}

func (r DenyRule) IsExact() bool  { return r.Kind == DenyRuleExact }
func (r DenyRule) IsSuffix() bool { return r.Kind == DenyRuleSuffix }
