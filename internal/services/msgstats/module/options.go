package module

import (
	"context"
	"fmt"

	"adwarden/internal/modkit/repokit"
	"adwarden/internal/platform/config"
	"adwarden/internal/services/msgstats/domain"
)

// FromConfig reads the safe list policy
func FromConfig(cfg config.Conf) domain.SafeListPolicy {
	sl := cfg.Prefix("ADWARDEN_SAFELIST_")
	return domain.SafeListPolicy{
		Enabled:         sl.MayBool("ENABLED", false),
		AutoAdd:         sl.MayBool("AUTO_ADD", false),
		NormalThreshold: int64(sl.MayIntIn("NORMAL_THRESHOLD", 50, 1, 1000)),
		AdFilter:        sl.MayBool("AD_FILTER", false),
		MaxAdCount:      int64(sl.MayIntIn("MAX_AD_COUNT", 3, 1, 100)),
		MaxCapacity:     sl.MayIntIn("MAX_CAPACITY", 100, 1, 1000),
	}
}

// statementTimeout caps every stats transaction so a slow counter update
// cannot hold up message handling. ms <= 0 disables the cap
func statementTimeout(ms int) repokit.BeginHook {
	stmt := fmt.Sprintf("SET LOCAL statement_timeout = %d", ms)
	return func(ctx context.Context, q repokit.Queryer) error {
		if ms <= 0 {
			return nil
		}
		_, err := q.Exec(ctx, stmt)
		return err
	}
}
