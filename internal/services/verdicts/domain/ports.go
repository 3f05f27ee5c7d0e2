package domain

import "context"

// WriterPort appends verdict events
type WriterPort interface {
	Append(ctx context.Context, e Event) error
}

// QueryPort reads recent verdicts of a guild, newest first
type QueryPort interface {
	Recent(ctx context.Context, guildID string, limit int) ([]Event, error)
}
