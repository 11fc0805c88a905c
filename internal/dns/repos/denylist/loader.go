package denylist

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ethlimo/limo-web3-dns/internal/dns/common/clock"
	"github.com/ethlimo/limo-web3-dns/internal/dns/common/log"
	"github.com/ethlimo/limo-web3-dns/internal/dns/repos/denylist/parsers"
)

// LoadFile parses the plain list at path and replaces the repository's rules
// with it. The snapshot version is the load time in unix seconds.
func LoadFile(path string, repo Repository, c clock.Clock, logger log.Logger) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open denylist: %w", err)
	}
	defer f.Close()

	now := c.Now()
	rules, err := parsers.ParsePlainList(f, filepath.Base(path), logger, now)
	if err != nil {
		return 0, fmt.Errorf("parse denylist %s: %w", path, err)
	}
	if err := repo.UpdateAll(rules, uint64(now.Unix()), now.Unix()); err != nil {
		return 0, fmt.Errorf("store denylist: %w", err)
	}

	logger.Info(map[string]any{
		"path":  path,
		"rules": len(rules),
	}, "denylist loaded")
	return len(rules), nil
}
