// Package parsers turns operator denylist files into rules.
package parsers

import (
	"bufio"
	"io"
	"strings"
	"time"

	logpkg "github.com/ethlimo/limo-web3-dns/internal/dns/common/log"
	"github.com/ethlimo/limo-web3-dns/internal/dns/common/utils"
	"github.com/ethlimo/limo-web3-dns/internal/dns/domain"
)

// ParsePlainList parses a newline-delimited list of ENS names into rules.
// Default is exact; leading "*." or "." marks a suffix rule, which also
// covers the anchor itself.
//
// Behavior:
// - Supports comments starting with '#' (inline or whole-line)
// - Names are canonicalized: lower case, no trailing dot, punycode decoded
// - Invalid names are skipped, not fatal
// - Duplicates (same name and kind) keep the first occurrence
// - A suffix rule anchored on a public suffix such as "eth" is kept but logged
func ParsePlainList(r io.Reader, source string, logger logpkg.Logger, now time.Time) ([]domain.DenyRule, error) {
	scanner := bufio.NewScanner(r)

	seen := make(map[string]struct{})
	out := make([]domain.DenyRule, 0, 64)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimPrefix(scanner.Text(), "\uFEFF")
		if idx := strings.IndexByte(line, '#'); idx >= 0 {
			line = line[:idx]
		}
		raw := strings.TrimSpace(line)
		if raw == "" {
			continue
		}

		kind := ruleKindFromRaw(raw)
		name := normalizeName(raw)
		if !isValidName(name) {
			logger.Debug(map[string]any{"line": lineNum, "raw": raw}, "skip_invalid_name")
			continue
		}

		seenKey := name + "|" + kind.String()
		if _, ok := seen[seenKey]; ok {
			continue
		}

		rule, err := domain.NewDenyRule(name, kind, source, now)
		if err != nil {
			logger.Debug(map[string]any{"line": lineNum, "name": name, "error": err.Error()}, "skip_invalid_rule")
			continue
		}
		if rule.IsSuffix() {
			if _, ok := utils.ApexName(name); !ok {
				logger.Warn(map[string]any{
					"line":   lineNum,
					"source": source,
					"name":   name,
				}, "suffix rule covers an entire public suffix")
			}
		}
		out = append(out, rule)
		seen[seenKey] = struct{}{}
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	logger.Debug(map[string]any{"source": source, "count": len(out)}, "parse_plain_list_done")
	return out, nil
}
