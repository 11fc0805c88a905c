package parsers

import (
	"strings"

	"github.com/ethlimo/limo-web3-dns/internal/dns/common/utils"
	"github.com/ethlimo/limo-web3-dns/internal/dns/domain"
)

const maxNameLen = 255

// ruleKindFromRaw returns DenyRuleSuffix if the raw entry begins with "*."
// or ".", otherwise DenyRuleExact.
func ruleKindFromRaw(raw string) domain.DenyRuleKind {
	if strings.HasPrefix(raw, "*.") || strings.HasPrefix(raw, ".") {
		return domain.DenyRuleSuffix
	}
	return domain.DenyRuleExact
}

// normalizeName strips the suffix marker and canonicalizes the rest.
func normalizeName(raw string) string {
	name := strings.TrimPrefix(raw, "*.")
	name = strings.TrimPrefix(name, ".")
	return utils.CanonicalName(name)
}

// isValidName accepts dot separated non-empty labels without whitespace or
// URL punctuation. ENS labels may be any unicode, so no character class is
// enforced beyond that.
func isValidName(name string) bool {
	if name == "" || len(name) > maxNameLen {
		return false
	}
	if strings.ContainsAny(name, " \t*/@:") {
		return false
	}
	for _, label := range strings.Split(name, ".") {
		if label == "" {
			return false
		}
	}
	return true
}
