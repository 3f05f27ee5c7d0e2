package domain

import "context"

// InspectorPort runs the full moderation pipeline
type InspectorPort interface {
	Inspect(ctx context.Context, m Message) (*Verdict, error)
}
