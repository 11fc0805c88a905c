// Package ruletrie provides a wildcard-capable lookup table keyed by label
// paths.
//
// A Trie is built once, then only read. Paths are matched left to right: at
// each level the concrete label is tried first and the wildcard second, with
// no backtracking. A lookup ends at the first stored value it reaches, even
// when the query has labels left over, which is what lets a short rule such
// as "avatar" classify "avatar.alice.eth".
//
// A Trie has no internal locking. Concurrent Get calls are safe once all
// Insert calls have returned.
package ruletrie

import (
	"errors"
	"fmt"
)

var (
	// ErrRuleConflict is returned when an insert would replace or pass
	// through an existing value.
	ErrRuleConflict = errors.New("rule conflict")
	// ErrEmptyKey is returned when inserting with no key elements.
	ErrEmptyKey = errors.New("empty rule key")
)

// node is either a subtree (child != nil) or a stored value.
type node[V any] struct {
	child *Trie[V]
	value V
}

func (n *node[V]) isElem() bool { return n.child == nil }

// Trie maps key paths to values of type V.
type Trie[V any] struct {
	nodes map[Key]*node[V]
}

// New returns an empty trie.
func New[V any]() *Trie[V] {
	return &Trie[V]{nodes: make(map[Key]*node[V])}
}

// Insert stores v at keys, creating intermediate levels as needed. It fails
// with ErrRuleConflict if a value already sits at keys, on a prefix of keys,
// or below keys.
func (t *Trie[V]) Insert(keys []Key, v V) error {
	if len(keys) == 0 {
		return ErrEmptyKey
	}
	cur := t
	for i, k := range keys {
		n, ok := cur.nodes[k]
		last := i == len(keys)-1
		switch {
		case !ok && last:
			cur.nodes[k] = &node[V]{value: v}
			return nil
		case !ok:
			n = &node[V]{child: New[V]()}
			cur.nodes[k] = n
		case n.isElem():
			return fmt.Errorf("%w: %q already holds a value at %q", ErrRuleConflict, FormatKeys(keys), FormatKeys(keys[:i+1]))
		case last:
			return fmt.Errorf("%w: %q is a prefix of existing rules", ErrRuleConflict, FormatKeys(keys))
		}
		cur = n.child
	}
	return nil
}

// InsertPattern parses pattern with ParseKeys and inserts v.
func (t *Trie[V]) InsertPattern(pattern string, v V) error {
	return t.Insert(ParseKeys(pattern), v)
}

// Get walks keys and returns the first value reached. At each level an exact
// label beats the wildcard. It reports false when the path leaves the trie or
// the keys run out before a value is reached.
func (t *Trie[V]) Get(keys []Key) (V, bool) {
	v, _, ok := t.Match(keys)
	return v, ok
}

// Match is Get that also returns how many keys were consumed to reach the
// value.
func (t *Trie[V]) Match(keys []Key) (V, int, bool) {
	var zero V
	cur := t
	for i, k := range keys {
		n, ok := cur.nodes[k]
		if !ok && !k.wildcard {
			n, ok = cur.nodes[Wildcard]
		}
		if !ok {
			return zero, 0, false
		}
		if n.isElem() {
			return n.value, i + 1, true
		}
		cur = n.child
	}
	return zero, 0, false
}

// Len returns the number of stored values.
func (t *Trie[V]) Len() int {
	count := 0
	for _, n := range t.nodes {
		if n.isElem() {
			count++
			continue
		}
		count += n.child.Len()
	}
	return count
}
