// Package repo provides postgres access for message counters and the safe list
package repo

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"adwarden/internal/modkit/repokit"
	"adwarden/internal/platform/store"
	"adwarden/internal/services/msgstats/domain"
)

// Storage is the persistence surface of the msgstats service
type Storage interface {
	// Increment bumps the ad or normal counter and returns the updated row
	Increment(ctx context.Context, userID, guildID string, isAd bool, at time.Time) (domain.UserStats, error)
	// Touch refreshes last_update_time, creating a zero row if needed
	Touch(ctx context.Context, userID, guildID string, at time.Time) error
	Get(ctx context.Context, userID, guildID string) (*domain.UserStats, error)
	ByGuild(ctx context.Context, guildID string) ([]domain.UserStats, error)
	ByUser(ctx context.Context, userID string) ([]domain.UserStats, error)
	ResetCounts(ctx context.Context, userID, guildID string, at time.Time) error
	Delete(ctx context.Context, userID, guildID string) error
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
	Overview(ctx context.Context) (domain.Overview, error)

	IsSafe(ctx context.Context, guildID, userID string) (bool, error)
	SafeList(ctx context.Context, guildID string) ([]domain.SafeEntry, error)
	SafeCount(ctx context.Context, guildID string) (int, error)
	AddSafe(ctx context.Context, guildID, userID string, at time.Time) (bool, error)
	RemoveSafe(ctx context.Context, guildID, userID string) (bool, error)
	TouchSafe(ctx context.Context, guildID, userID string, at time.Time) error
	// LeastActiveSafe orders by last activity then normal count, oldest first
	LeastActiveSafe(ctx context.Context, guildID string, n int) ([]string, error)
}

type (
	pg     struct{ q repokit.Queryer }
	binder struct{}
)

// NewPG constructs a repo binder for Postgres
func NewPG() repokit.Binder[Storage] { return binder{} }

// Bind implements repokit.Binder
func (binder) Bind(q repokit.Queryer) Storage { return &pg{q: q} }

const statsCols = `user_id, guild_id, ad_count, normal_count, last_update_time, create_time`

func scanStats(row repokit.Row) (domain.UserStats, error) {
	var s domain.UserStats
	err := row.Scan(&s.UserID, &s.GuildID, &s.AdCount, &s.NormalCount, &s.LastUpdate, &s.CreatedAt)
	return s, err
}

func (r *pg) Increment(ctx context.Context, userID, guildID string, isAd bool, at time.Time) (domain.UserStats, error) {
	ad, normal := 0, 1
	if isAd {
		ad, normal = 1, 0
	}
	const sql = `
insert into message_monitoring_stats (user_id, guild_id, ad_count, normal_count, last_update_time, create_time)
values ($1, $2, $3, $4, $5, $5)
on conflict (user_id, guild_id) do update
set ad_count = message_monitoring_stats.ad_count + excluded.ad_count,
    normal_count = message_monitoring_stats.normal_count + excluded.normal_count,
    last_update_time = excluded.last_update_time
returning ` + statsCols
	return scanStats(r.q.QueryRow(ctx, sql, userID, guildID, ad, normal, at))
}

func (r *pg) Touch(ctx context.Context, userID, guildID string, at time.Time) error {
	const sql = `
insert into message_monitoring_stats (user_id, guild_id, last_update_time, create_time)
values ($1, $2, $3, $3)
on conflict (user_id, guild_id) do update set last_update_time = excluded.last_update_time
`
	_, err := r.q.Exec(ctx, sql, userID, guildID, at)
	return err
}

func (r *pg) Get(ctx context.Context, userID, guildID string) (*domain.UserStats, error) {
	const sql = `select ` + statsCols + ` from message_monitoring_stats where user_id = $1 and guild_id = $2`
	s, err := scanStats(r.q.QueryRow(ctx, sql, userID, guildID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *pg) ByGuild(ctx context.Context, guildID string) ([]domain.UserStats, error) {
	return store.Many(ctx, r.q, scanStats, `select `+statsCols+` from message_monitoring_stats where guild_id = $1 order by last_update_time desc`, guildID)
}

func (r *pg) ByUser(ctx context.Context, userID string) ([]domain.UserStats, error) {
	return store.Many(ctx, r.q, scanStats, `select `+statsCols+` from message_monitoring_stats where user_id = $1 order by guild_id`, userID)
}

func (r *pg) ResetCounts(ctx context.Context, userID, guildID string, at time.Time) error {
	const sql = `
update message_monitoring_stats
set ad_count = 0, normal_count = 0, last_update_time = $3
where user_id = $1 and guild_id = $2
`
	_, err := r.q.Exec(ctx, sql, userID, guildID, at)
	return err
}

func (r *pg) Delete(ctx context.Context, userID, guildID string) error {
	_, err := r.q.Exec(ctx, `delete from message_monitoring_stats where user_id = $1 and guild_id = $2`, userID, guildID)
	return err
}

func (r *pg) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	return store.Affected(ctx, r.q, `delete from message_monitoring_stats where last_update_time < $1`, cutoff)
}

func (r *pg) Overview(ctx context.Context) (domain.Overview, error) {
	const sql = `
select count(distinct user_id), count(distinct guild_id),
       coalesce(sum(ad_count), 0)::bigint, coalesce(sum(normal_count), 0)::bigint
from message_monitoring_stats
`
	var o domain.Overview
	err := r.q.QueryRow(ctx, sql).Scan(&o.TotalUsers, &o.TotalGuilds, &o.TotalAdMessages, &o.TotalNormalMessages)
	return o, err
}

func (r *pg) IsSafe(ctx context.Context, guildID, userID string) (bool, error) {
	return store.Scalar[bool](ctx, r.q, `select exists(select 1 from safe_list where guild_id = $1 and user_id = $2)`, guildID, userID)
}

func (r *pg) SafeList(ctx context.Context, guildID string) ([]domain.SafeEntry, error) {
	return store.Many(ctx, r.q, func(row repokit.Row) (domain.SafeEntry, error) {
		var e domain.SafeEntry
		err := row.Scan(&e.GuildID, &e.UserID, &e.AddedAt, &e.LastActiveAt)
		return e, err
	}, `
select guild_id, user_id, added_at, last_active_at
from safe_list
where guild_id = $1
order by added_at asc, user_id asc
`, guildID)
}

func (r *pg) SafeCount(ctx context.Context, guildID string) (int, error) {
	return store.Scalar[int](ctx, r.q, `select count(1) from safe_list where guild_id = $1`, guildID)
}

func (r *pg) AddSafe(ctx context.Context, guildID, userID string, at time.Time) (bool, error) {
	n, err := store.Affected(ctx, r.q, `
insert into safe_list (guild_id, user_id, added_at, last_active_at)
values ($1, $2, $3, $3)
on conflict (guild_id, user_id) do nothing
`, guildID, userID, at)
	return n == 1, err
}

func (r *pg) RemoveSafe(ctx context.Context, guildID, userID string) (bool, error) {
	n, err := store.Affected(ctx, r.q, `delete from safe_list where guild_id = $1 and user_id = $2`, guildID, userID)
	return n == 1, err
}

func (r *pg) TouchSafe(ctx context.Context, guildID, userID string, at time.Time) error {
	_, err := r.q.Exec(ctx, `update safe_list set last_active_at = $3 where guild_id = $1 and user_id = $2`, guildID, userID, at)
	return err
}

func (r *pg) LeastActiveSafe(ctx context.Context, guildID string, n int) ([]string, error) {
	if n <= 0 {
		return nil, nil
	}
	return store.Many(ctx, r.q, func(row repokit.Row) (string, error) {
		var id string
		err := row.Scan(&id)
		return id, err
	}, `
select sl.user_id
from safe_list sl
left join message_monitoring_stats s on s.guild_id = sl.guild_id and s.user_id = sl.user_id
where sl.guild_id = $1
order by sl.last_active_at asc, coalesce(s.normal_count, 0) asc, sl.user_id asc
limit $2
`, guildID, n)
}
