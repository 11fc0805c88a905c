package wire

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/idna"
)

const acePrefix = "xn--"

// Name is an ordered list of labels, most specific first: "foo.bar.eth" is
// [foo bar eth]. On the wire it is the label sequence followed by a zero byte.
type Name struct {
	Labels []Label
}

// NameFromString splits a dotted name into labels. Empty labels, including
// the one implied by a trailing dot, are skipped. Labels longer than
// MaxLabelLen are cut to MaxLabelLen bytes.
func NameFromString(s string) Name {
	var n Name
	for _, part := range strings.Split(s, ".") {
		if part == "" {
			continue
		}
		if len(part) > MaxLabelLen {
			part = part[:MaxLabelLen]
		}
		n.Labels = append(n.Labels, Label(part))
	}
	return n
}

// ParseName reads labels until the terminating zero-length label and returns
// the input positioned after it. Compression pointers are not supported: a
// length byte with the top bits set is read as a plain length.
func ParseName(b []byte) ([]byte, Name, error) {
	var n Name
	rest := b
	for {
		next, l, err := ParseLabel(rest)
		if err != nil {
			return b, Name{}, fmt.Errorf("name label %d: %w", len(n.Labels)+1, err)
		}
		rest = next
		if len(l) == 0 {
			return rest, n, nil
		}
		n.Labels = append(n.Labels, l)
	}
}

func (n Name) Serialize() []byte {
	size := 1
	for _, l := range n.Labels {
		size += len(l) + 1
	}
	out := make([]byte, 0, size)
	for _, l := range n.Labels {
		out = append(out, l.Serialize()...)
	}
	return append(out, 0)
}

// Len returns the number of labels.
func (n Name) Len() int {
	return len(n.Labels)
}

// String joins the raw labels with dots. It does not decode punycode.
func (n Name) String() string {
	parts := make([]string, len(n.Labels))
	for i, l := range n.Labels {
		parts[i] = string(l)
	}
	return strings.Join(parts, ".")
}

// Equal reports whether both names have the same labels.
func (n Name) Equal(o Name) bool {
	if len(n.Labels) != len(o.Labels) {
		return false
	}
	for i := range n.Labels {
		if !n.Labels[i].Equal(o.Labels[i]) {
			return false
		}
	}
	return true
}

// IsLabelOf reports whether n's labels are the leading labels of other, as in
// a service key written in front of an ENS name: "avatar" is a label of
// "avatar.alice.eth". An empty name is a label of every name.
func (n Name) IsLabelOf(other Name) bool {
	if len(n.Labels) > len(other.Labels) {
		return false
	}
	for i, l := range n.Labels {
		if !l.Equal(other.Labels[i]) {
			return false
		}
	}
	return true
}

// RemovePrefixLabels returns n without its leading prefix labels. ok is false
// when prefix does not lead n. RemoveSuffixLabels is the trailing-label form,
// e.g. [avatar alice eth] minus [eth] is [avatar alice].
func (n Name) RemovePrefixLabels(prefix Name) (Name, bool) {
	if !prefix.IsLabelOf(n) {
		return Name{}, false
	}
	return Name{Labels: n.Labels[len(prefix.Labels):]}, true
}

// HasSuffix reports whether suffix's labels are the trailing labels of n, that
// is whether n is suffix or a subdomain of it.
func (n Name) HasSuffix(suffix Name) bool {
	if len(suffix.Labels) > len(n.Labels) {
		return false
	}
	off := len(n.Labels) - len(suffix.Labels)
	for i, l := range suffix.Labels {
		if !l.Equal(n.Labels[off+i]) {
			return false
		}
	}
	return true
}

// RemoveSuffixLabels returns n without its trailing suffix labels. ok is false
// when n does not end in suffix.
func (n Name) RemoveSuffixLabels(suffix Name) (Name, bool) {
	if !n.HasSuffix(suffix) {
		return Name{}, false
	}
	return Name{Labels: n.Labels[:len(n.Labels)-len(suffix.Labels)]}, true
}

// PunycodeDecode decodes every label and joins them with dots. Labels with the
// ACE prefix are punycode-decoded; all others must be valid UTF-8.
func (n Name) PunycodeDecode() (string, error) {
	parts := make([]string, len(n.Labels))
	for i, l := range n.Labels {
		s, err := l.PunycodeDecode()
		if err != nil {
			return "", err
		}
		parts[i] = s
	}
	return strings.Join(parts, "."), nil
}

// PunycodeDecode returns the display form of l.
func (l Label) PunycodeDecode() (string, error) {
	if !utf8.Valid(l) {
		return "", fmt.Errorf("%w: label %q is not valid UTF-8", ErrNameDecode, []byte(l))
	}
	s := string(l)
	if !strings.HasPrefix(s, acePrefix) {
		return s, nil
	}
	u, err := idna.Punycode.ToUnicode(s)
	if err != nil {
		return "", fmt.Errorf("%w: label %q: %v", ErrNameDecode, s, err)
	}
	return u, nil
}
