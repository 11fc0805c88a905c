package denylist

import "github.com/ethlimo/limo-web3-dns/internal/dns/domain"

// NoopRepository allows every name. It is used when no denylist is configured.
type NoopRepository struct{}

func (NoopRepository) Decide(string) domain.DenyDecision { return domain.AllowDecision() }

func (NoopRepository) UpdateAll([]domain.DenyRule, uint64, int64) error { return nil }

func (NoopRepository) Stats() RepoStats { return RepoStats{} }

func (NoopRepository) Close() error { return nil }

var _ Repository = NoopRepository{}
