// Package utils holds helpers for normalizing ENS names outside the wire path.
package utils

import (
	"strings"

	"golang.org/x/net/idna"
	"golang.org/x/net/publicsuffix"
)

// CanonicalName lower-cases name, trims whitespace and trailing dots and
// decodes punycode labels, giving the form the answer provider resolves. A
// name whose punycode does not decode is returned without decoding.
func CanonicalName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.TrimRight(name, ".")
	if !strings.Contains(name, "xn--") {
		return name
	}
	decoded, err := idna.Punycode.ToUnicode(name)
	if err != nil {
		return name
	}
	return decoded
}

// ApexName returns the registrable name above name, e.g. "alice.eth" for
// "pay.alice.eth". ok is false when name is itself a public suffix such as
// "eth", so a rule anchored there would cover a whole namespace.
func ApexName(name string) (string, bool) {
	apex, err := publicsuffix.EffectiveTLDPlusOne(CanonicalName(name))
	if err != nil {
		return "", false
	}
	return apex, true
}

// SuffixAnchors lists name and each parent of it, most specific first:
// "a.b.eth" gives [a.b.eth b.eth eth].
func SuffixAnchors(name string) []string {
	if name == "" {
		return nil
	}
	anchors := []string{name}
	for i := 0; i < len(name); i++ {
		if name[i] == '.' && i+1 < len(name) {
			anchors = append(anchors, name[i+1:])
		}
	}
	return anchors
}
