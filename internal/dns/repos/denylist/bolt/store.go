// Package bolt persists denylist rules in a bbolt database.
package bolt

import (
	"encoding/binary"
	"errors"
	"time"

	bbolt "go.etcd.io/bbolt"

	"github.com/ethlimo/limo-web3-dns/internal/dns/common/utils"
	"github.com/ethlimo/limo-web3-dns/internal/dns/domain"
	"github.com/ethlimo/limo-web3-dns/internal/dns/repos/denylist"
)

var (
	bucketExact  = []byte("exact")
	bucketSuffix = []byte("suffix")
	bucketMeta   = []byte("meta")

	keyVersion = []byte("version")
	keyUpdated = []byte("updated")
)

var errCorruptValue = errors.New("corrupt denylist value")

// boltStore implements denylist.Store using bbolt. Values are the rule's
// AddedAt in unix seconds followed by its source.
type boltStore struct {
	db *bbolt.DB
}

// New opens (or creates) a Bolt database at path and ensures buckets exist.
func New(path string) (denylist.Store, error) {
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, err
	}
	if err := db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{bucketExact, bucketSuffix, bucketMeta} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &boltStore{db: db}, nil
}

func (s *boltStore) Close() error { return s.db.Close() }

// GetFirstMatch looks name up as an exact rule, then each suffix anchor of
// it from the most specific.
func (s *boltStore) GetFirstMatch(name string) (domain.DenyRule, bool, error) {
	var (
		rule  domain.DenyRule
		found bool
	)
	err := s.db.View(func(tx *bbolt.Tx) error {
		if v := tx.Bucket(bucketExact).Get([]byte(name)); v != nil {
			r, err := decodeRule(name, domain.DenyRuleExact, v)
			if err != nil {
				return err
			}
			rule, found = r, true
			return nil
		}
		b := tx.Bucket(bucketSuffix)
		for _, anchor := range utils.SuffixAnchors(name) {
			if v := b.Get([]byte(anchor)); v != nil {
				r, err := decodeRule(anchor, domain.DenyRuleSuffix, v)
				if err != nil {
					return err
				}
				rule, found = r, true
				return nil
			}
		}
		return nil
	})
	if err != nil {
		return domain.DenyRule{}, false, err
	}
	return rule, found, nil
}

// RebuildAll drops and refills the rule buckets in one transaction, so
// readers see either the old or the new snapshot.
func (s *boltStore) RebuildAll(rules []domain.DenyRule, version uint64, updatedUnix int64) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{bucketExact, bucketSuffix} {
			if err := tx.DeleteBucket(name); err != nil && !errors.Is(err, bbolt.ErrBucketNotFound) {
				return err
			}
		}
		exact, err := tx.CreateBucket(bucketExact)
		if err != nil {
			return err
		}
		suffix, err := tx.CreateBucket(bucketSuffix)
		if err != nil {
			return err
		}
		for _, r := range rules {
			b := exact
			if r.IsSuffix() {
				b = suffix
			}
			if err := b.Put([]byte(r.Name), encodeRule(r)); err != nil {
				return err
			}
		}

		meta := tx.Bucket(bucketMeta)
		if err := meta.Put(keyVersion, binary.BigEndian.AppendUint64(nil, version)); err != nil {
			return err
		}
		return meta.Put(keyUpdated, binary.BigEndian.AppendUint64(nil, uint64(updatedUnix)))
	})
}

func (s *boltStore) Stats() denylist.StoreStats {
	st := denylist.StoreStats{}
	_ = s.db.View(func(tx *bbolt.Tx) error {
		if b := tx.Bucket(bucketExact); b != nil {
			st.ExactKeys = uint64(b.Stats().KeyN)
		}
		if b := tx.Bucket(bucketSuffix); b != nil {
			st.SuffixKeys = uint64(b.Stats().KeyN)
		}
		if b := tx.Bucket(bucketMeta); b != nil {
			if v := b.Get(keyVersion); len(v) == 8 {
				st.Version = binary.BigEndian.Uint64(v)
			}
			if v := b.Get(keyUpdated); len(v) == 8 {
				st.UpdatedUnix = int64(binary.BigEndian.Uint64(v))
			}
		}
		return nil
	})
	return st
}

func encodeRule(r domain.DenyRule) []byte {
	v := binary.BigEndian.AppendUint64(nil, uint64(r.AddedAt.Unix()))
	return append(v, r.Source...)
}

// decodeRule copies out of v, which is only valid inside the transaction.
func decodeRule(name string, kind domain.DenyRuleKind, v []byte) (domain.DenyRule, error) {
	if len(v) < 8 {
		return domain.DenyRule{}, errCorruptValue
	}
	return domain.DenyRule{
		Name:    name,
		Kind:    kind,
		Source:  string(v[8:]),
		AddedAt: time.Unix(int64(binary.BigEndian.Uint64(v[:8])), 0),
	}, nil
}
