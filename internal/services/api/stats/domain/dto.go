// Package domain holds DTOs and ports for the stats and safe list endpoints
package domain

import statsdom "adwarden/internal/services/msgstats/domain"

// CleanupInput removes counters untouched for Days
type CleanupInput struct {
	// Days 0 uses the default retention
	Days int `json:"days,omitempty" validate:"omitempty,min=1,max=3650" example:"90"`
}

// CleanupOutput reports how many counter rows were removed
type CleanupOutput struct {
	Removed int64 `json:"removed" example:"12"`
}

// SafeAddInput names the user to exempt
type SafeAddInput struct {
	UserID string `json:"userId" validate:"required,chat_id" example:"10001"`
}

// SafeChangeOutput reports whether the list changed
type SafeChangeOutput struct {
	GuildID string `json:"guildId" example:"20002"`
	UserID  string `json:"userId"  example:"10001"`
	Changed bool   `json:"changed" example:"true"`
}

// StatsPort is the read side of message counters
type StatsPort = statsdom.QueryPort

// SafeListPort manages exemptions
type SafeListPort = statsdom.SafeListPort
