package repo

import (
	"context"

	"adwarden/internal/modkit/repokit"
)

// schema is applied statement by statement and is safe to rerun
var schema = []string{
	`create table if not exists message_monitoring_stats (
	id               bigserial primary key,
	user_id          text not null,
	guild_id         text not null,
	ad_count         bigint not null default 0,
	normal_count     bigint not null default 0,
	last_update_time timestamptz not null default now(),
	create_time      timestamptz not null default now(),
	unique (user_id, guild_id)
)`,
	`create index if not exists message_monitoring_stats_guild_idx on message_monitoring_stats (guild_id)`,
	`create index if not exists message_monitoring_stats_updated_idx on message_monitoring_stats (last_update_time)`,
	`create table if not exists safe_list (
	guild_id       text not null,
	user_id        text not null,
	added_at       timestamptz not null default now(),
	last_active_at timestamptz not null default now(),
	primary key (guild_id, user_id)
)`,
}

// EnsureSchema creates the counter and safe list tables when missing
func EnsureSchema(ctx context.Context, q repokit.Queryer) error {
	for _, stmt := range schema {
		if _, err := q.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
