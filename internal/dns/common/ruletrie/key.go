package ruletrie

import (
	"strings"

	"github.com/ethlimo/limo-web3-dns/internal/dns/gateways/wire"
)

const wildcardToken = "*"

// Key is one step of a trie path: a concrete label or the wildcard.
type Key struct {
	label    string
	wildcard bool
}

// Wildcard matches any single label.
var Wildcard = Key{wildcard: true}

// LabelKey returns a key for the concrete label l. A label spelled "*" is
// still concrete.
func LabelKey(l wire.Label) Key {
	return Key{label: string(l)}
}

func (k Key) IsWildcard() bool { return k.wildcard }

func (k Key) String() string {
	if k.wildcard {
		return wildcardToken
	}
	return k.label
}

// ParseKeys splits a dotted pattern into a key path, left to right. A "*"
// token is a wildcard only while every earlier token was also "*"; once a
// concrete label has been read, later "*" tokens are literal labels. So
// "*.*.xyz" is [* * xyz] but "foo.*" is [foo "*"]. Empty tokens are skipped.
func ParseKeys(pattern string) []Key {
	var keys []Key
	concrete := false
	for _, tok := range strings.Split(pattern, ".") {
		if tok == "" {
			continue
		}
		if tok == wildcardToken && !concrete {
			keys = append(keys, Wildcard)
			continue
		}
		concrete = true
		keys = append(keys, Key{label: tok})
	}
	return keys
}

// NameKeys returns the all-concrete key path of a query name.
func NameKeys(n wire.Name) []Key {
	keys := make([]Key, len(n.Labels))
	for i, l := range n.Labels {
		keys[i] = LabelKey(l)
	}
	return keys
}

// FormatKeys is the inverse of ParseKeys for paths it produced.
func FormatKeys(keys []Key) string {
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k.String()
	}
	return strings.Join(parts, ".")
}
