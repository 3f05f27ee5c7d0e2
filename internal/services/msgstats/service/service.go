// Package service implements per user message counters and the guild safe list
package service

import (
	"context"
	"time"

	"adwarden/internal/modkit/repokit"
	perr "adwarden/internal/platform/errors"
	"adwarden/internal/platform/logger"
	"adwarden/internal/services/msgstats/domain"
	"adwarden/internal/services/msgstats/repo"
)

// DefaultRetentionDays is used by CleanupOldData when days <= 0
const DefaultRetentionDays = 90

// Service is the full msgstats contract
type Service interface {
	domain.RecorderPort
	domain.QueryPort
	domain.SafeListPort
}

// Svc implements Service on top of a repo.Storage
type Svc struct {
	Repo   repo.Storage
	binder repokit.Binder[repo.Storage]
	db     repokit.TxRunner
	policy domain.SafeListPolicy
	log    logger.Logger
	now    func() time.Time
}

// New constructs a msgstats service
func New(db repokit.TxRunner, binder repokit.Binder[repo.Storage], policy domain.SafeListPolicy, log logger.Logger) *Svc {
	if db == nil {
		panic("msgstats.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("msgstats.Service requires a non nil Repo binder")
	}
	return &Svc{
		Repo:   binder.Bind(db),
		binder: binder,
		db:     db,
		policy: policy,
		log:    log,
		now:    time.Now,
	}
}

// RecordMessage bumps the ad or normal counter and may promote the user to the safe list
func (s *Svc) RecordMessage(ctx context.Context, userID, guildID string, isAd bool) error {
	if userID == "" || guildID == "" {
		return perr.InvalidArgf("user and guild are required")
	}
	st, err := s.Repo.Increment(ctx, userID, guildID, isAd, s.now())
	if err != nil {
		return perr.FromPostgres(err, "record message")
	}
	if isAd || !s.policy.AutoAdd || st.NormalCount < s.policy.NormalThreshold {
		return nil
	}
	if s.policy.AdFilter && st.AdCount >= s.policy.MaxAdCount {
		s.log.Debug().
			Str("user", userID).
			Str("guild", guildID).
			Int64("ad_count", st.AdCount).
			Int64("max_ad_count", s.policy.MaxAdCount).
			Msg("safe list auto add blocked by ad count")
		return nil
	}
	return s.autoAdd(ctx, userID, guildID, st.NormalCount)
}

// autoAdd promotes a user, evicting the least active members when the guild is full
func (s *Svc) autoAdd(ctx context.Context, userID, guildID string, normal int64) error {
	var added bool
	var evicted []string
	err := repokit.WithTx(ctx, s.db, func(q repokit.Queryer) error {
		r := repokit.MustBind(s.binder, q)
		now := s.now()
		added, evicted = false, nil

		ok, err := r.IsSafe(ctx, guildID, userID)
		if err != nil || ok {
			return err
		}

		n, err := r.SafeCount(ctx, guildID)
		if err != nil {
			return err
		}
		if limit := s.policy.MaxCapacity; limit > 0 && n >= limit {
			evicted, err = r.LeastActiveSafe(ctx, guildID, n-limit+1)
			if err != nil {
				return err
			}
			for _, id := range evicted {
				if _, err := r.RemoveSafe(ctx, guildID, id); err != nil {
					return err
				}
				if err := r.ResetCounts(ctx, id, guildID, now); err != nil {
					return err
				}
			}
		}

		if added, err = r.AddSafe(ctx, guildID, userID, now); err != nil {
			return err
		}
		return r.Delete(ctx, userID, guildID)
	})
	if err != nil {
		return perr.FromPostgres(err, "safe list auto add")
	}
	if added {
		s.log.Info().
			Str("user", userID).
			Str("guild", guildID).
			Int64("normal_count", normal).
			Strs("evicted", evicted).
			Msg("user auto added to safe list")
	}
	return nil
}

// TouchLastActive refreshes activity without changing counters
func (s *Svc) TouchLastActive(ctx context.Context, userID, guildID string) error {
	now := s.now()
	if err := s.Repo.Touch(ctx, userID, guildID, now); err != nil {
		return perr.FromPostgres(err, "touch last active")
	}
	if err := s.Repo.TouchSafe(ctx, guildID, userID, now); err != nil {
		return perr.FromPostgres(err, "touch safe list")
	}
	return nil
}

// Exempt reports whether the safe list is enabled and the user is on it
func (s *Svc) Exempt(ctx context.Context, guildID, userID string) (bool, error) {
	if !s.policy.Enabled {
		return false, nil
	}
	return s.IsSafe(ctx, guildID, userID)
}

// UserStats returns the counters of one user in one guild, nil when unknown
func (s *Svc) UserStats(ctx context.Context, userID, guildID string) (*domain.UserStats, error) {
	st, err := s.Repo.Get(ctx, userID, guildID)
	if err != nil {
		return nil, perr.FromPostgres(err, "get user stats")
	}
	return st, nil
}

// GuildStats returns every counter row in a guild, most recently active first
func (s *Svc) GuildStats(ctx context.Context, guildID string) ([]domain.UserStats, error) {
	rows, err := s.Repo.ByGuild(ctx, guildID)
	if err != nil {
		return nil, perr.FromPostgres(err, "get guild stats")
	}
	return rows, nil
}

// UserAllStats returns the counters of a user across guilds
func (s *Svc) UserAllStats(ctx context.Context, userID string) ([]domain.UserStats, error) {
	rows, err := s.Repo.ByUser(ctx, userID)
	if err != nil {
		return nil, perr.FromPostgres(err, "get user stats")
	}
	return rows, nil
}

// Overview aggregates all counters
func (s *Svc) Overview(ctx context.Context) (domain.Overview, error) {
	o, err := s.Repo.Overview(ctx)
	if err != nil {
		return domain.Overview{}, perr.FromPostgres(err, "stats overview")
	}
	return o, nil
}

// CleanupOldData drops rows not updated within days
func (s *Svc) CleanupOldData(ctx context.Context, days int) (int64, error) {
	if days <= 0 {
		days = DefaultRetentionDays
	}
	cutoff := s.now().Add(-time.Duration(days) * 24 * time.Hour)
	n, err := s.Repo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return 0, perr.FromPostgres(err, "cleanup stats")
	}
	s.log.Info().Int("days", days).Int64("deleted", n).Msg("message stats cleanup")
	return n, nil
}

// IsSafe reports safe list membership regardless of the enabled flag
func (s *Svc) IsSafe(ctx context.Context, guildID, userID string) (bool, error) {
	ok, err := s.Repo.IsSafe(ctx, guildID, userID)
	if err != nil {
		return false, perr.FromPostgres(err, "safe list lookup")
	}
	return ok, nil
}

// SafeList returns the members of a guild safe list
func (s *Svc) SafeList(ctx context.Context, guildID string) ([]domain.SafeEntry, error) {
	out, err := s.Repo.SafeList(ctx, guildID)
	if err != nil {
		return nil, perr.FromPostgres(err, "safe list")
	}
	return out, nil
}

// AddSafe adds a user manually; false when already listed
func (s *Svc) AddSafe(ctx context.Context, guildID, userID string) (bool, error) {
	if guildID == "" || userID == "" {
		return false, perr.InvalidArgf("guild and user are required")
	}
	var added bool
	err := repokit.WithTx(ctx, s.db, func(q repokit.Queryer) error {
		r := repokit.MustBind(s.binder, q)
		var err error
		if added, err = r.AddSafe(ctx, guildID, userID, s.now()); err != nil || !added {
			return err
		}
		return r.Delete(ctx, userID, guildID)
	})
	if err != nil {
		return false, perr.FromPostgres(err, "safe list add")
	}
	return added, nil
}

// RemoveSafe removes a user and restarts their counters from zero
func (s *Svc) RemoveSafe(ctx context.Context, guildID, userID string) (bool, error) {
	var removed bool
	err := repokit.WithTx(ctx, s.db, func(q repokit.Queryer) error {
		r := repokit.MustBind(s.binder, q)
		var err error
		if removed, err = r.RemoveSafe(ctx, guildID, userID); err != nil || !removed {
			return err
		}
		return r.ResetCounts(ctx, userID, guildID, s.now())
	})
	if err != nil {
		return false, perr.FromPostgres(err, "safe list remove")
	}
	return removed, nil
}
