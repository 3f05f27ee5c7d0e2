package domain

import "context"

// RecorderPort is fed by the moderation pipeline
type RecorderPort interface {
	RecordMessage(ctx context.Context, userID, guildID string, isAd bool) error
	TouchLastActive(ctx context.Context, userID, guildID string) error
	// Exempt is true when the safe list is enabled and lists the user
	Exempt(ctx context.Context, guildID, userID string) (bool, error)
}

// QueryPort reads counters
type QueryPort interface {
	UserStats(ctx context.Context, userID, guildID string) (*UserStats, error)
	GuildStats(ctx context.Context, guildID string) ([]UserStats, error)
	UserAllStats(ctx context.Context, userID string) ([]UserStats, error)
	Overview(ctx context.Context) (Overview, error)
	CleanupOldData(ctx context.Context, days int) (int64, error)
}

// SafeListPort manages exemptions
type SafeListPort interface {
	IsSafe(ctx context.Context, guildID, userID string) (bool, error)
	SafeList(ctx context.Context, guildID string) ([]SafeEntry, error)
	AddSafe(ctx context.Context, guildID, userID string) (bool, error)
	RemoveSafe(ctx context.Context, guildID, userID string) (bool, error)
}
