package domain

// DenyDecision is the outcome of checking one ENS name against the denylist.
type DenyDecision struct {
	Denied      bool
	MatchedRule string // exact name, or suffix anchor
	Source      string
	Kind        DenyRuleKind
}

// AllowDecision is the decision for names no rule matches.
func AllowDecision() DenyDecision { return DenyDecision{} }
