package domain

import (
	"context"

	"adwarden/internal/core/admission"
	"adwarden/internal/core/cloudrules"
	"adwarden/internal/core/linkscan"
	"adwarden/internal/core/offense"
	"adwarden/internal/platform/net/middleware"
	moddom "adwarden/internal/services/moderation/domain"
)

// Classifier judges text directly, bypassing the queue
type Classifier interface {
	Classify(ctx context.Context, text string, sensitivity int) (bool, error)
	ClassifyQZone(ctx context.Context, content string) (bool, error)
}

// Queue exposes the dispatcher counters
type Queue interface {
	Enabled() bool
	Status() admission.Status
	Stats() admission.Stats
	ResetStats()
}

// Links scans text
type Links interface {
	Scan(text string) linkscan.Result
}

// Offenses exposes the repeat offense tracker
type Offenses interface {
	Options() offense.Options
	Stats(ctx context.Context) (offense.Stats, error)
	Reset(ctx context.Context) error
}

// Keywords exposes the keyword pre-filter
type Keywords interface {
	AllKeywords() []string
	Stats() cloudrules.Stats
	Refresh(ctx context.Context) error
}

// Deps are what the handlers need from the moderation engine
type Deps struct {
	Inspector   moddom.InspectorPort
	Classifier  Classifier
	Queue       Queue
	Links       Links
	Offenses    Offenses
	Keywords    Keywords
	Sensitivity int
	// Admin guards the reset and refresh routes; nil leaves them open
	Admin middleware.AuthPort
}
