// Package repo stores verdict events in ClickHouse
package repo

import (
	"context"

	"adwarden/internal/platform/store"
	"adwarden/internal/services/verdicts/domain"
)

// Table is the verdict log table
const Table = "ad_verdicts"

const ddl = `
CREATE TABLE IF NOT EXISTS ad_verdicts (
	id             UUID,
	ts             DateTime64(3, 'UTC'),
	guild          String,
	user           String,
	kind           LowCardinality(String),
	is_ad          UInt8,
	reason         String,
	items          UInt32,
	depth_exceeded UInt8,
	elapsed_ms     UInt32
)
ENGINE = MergeTree
PARTITION BY toYYYYMM(ts)
ORDER BY (guild, ts)
TTL toDateTime(ts) + INTERVAL 180 DAY
`

// Repo is the verdict log storage
type Repo interface {
	EnsureSchema(ctx context.Context) error
	Insert(ctx context.Context, events []domain.Event) error
	Recent(ctx context.Context, guildID string, limit int) ([]domain.Event, error)
}

// CH implements Repo on top of the store ClickHouse seam
type CH struct{ db store.Clickhouse }

// NewCH binds a ClickHouse repo
func NewCH(db store.Clickhouse) *CH { return &CH{db: db} }

// EnsureSchema creates the table when missing
func (r *CH) EnsureSchema(ctx context.Context) error {
	return r.db.Exec(ctx, ddl)
}

// Insert writes events in one batch
func (r *CH) Insert(ctx context.Context, events []domain.Event) error {
	rows := make([][]any, 0, len(events))
	for _, e := range events {
		rows = append(rows, []any{
			e.ID,
			e.At.UTC(),
			e.GuildID,
			e.UserID,
			string(e.Kind),
			b2u(e.IsAd),
			e.Reason,
			uint32(max(e.Items, 0)),
			b2u(e.DepthExceeded),
			uint32(max(e.ElapsedMs, 0)),
		})
	}
	return r.db.Insert(ctx, Table, rows)
}

// Recent returns the newest events of a guild
func (r *CH) Recent(ctx context.Context, guildID string, limit int) ([]domain.Event, error) {
	const sql = `
SELECT id, ts, guild, user, kind, is_ad, reason, items, depth_exceeded, elapsed_ms
FROM ad_verdicts
WHERE guild = ?
ORDER BY ts DESC
LIMIT ?
`
	rows, err := r.db.Query(ctx, sql, guildID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Event
	for rows.Next() {
		var (
			e           domain.Event
			kind        string
			isAd, depth uint8
			items, ms   uint32
		)
		if err := rows.Scan(&e.ID, &e.At, &e.GuildID, &e.UserID, &kind, &isAd, &e.Reason, &items, &depth, &ms); err != nil {
			return nil, err
		}
		e.Kind = domain.Kind(kind)
		e.IsAd, e.DepthExceeded = isAd == 1, depth == 1
		e.Items, e.ElapsedMs = int(items), int64(ms)
		out = append(out, e)
	}
	return out, rows.Err()
}

func b2u(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}

// Nop drops writes and reads nothing; used when ClickHouse is disabled
type Nop struct{}

func (Nop) EnsureSchema(context.Context) error                          { return nil }
func (Nop) Insert(context.Context, []domain.Event) error                { return nil }
func (Nop) Recent(context.Context, string, int) ([]domain.Event, error) { return nil, nil }
