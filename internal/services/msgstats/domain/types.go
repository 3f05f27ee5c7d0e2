// Package domain defines per-user message counters and the guild safe list
package domain

import "time"

// UserStats counts one user's classified messages in one guild
type UserStats struct {
	UserID      string    `json:"userId" example:"10001"`
	GuildID     string    `json:"guildId" example:"20002"`
	AdCount     int64     `json:"adCount" example:"1"`
	NormalCount int64     `json:"normalCount" example:"42"`
	LastUpdate  time.Time `json:"lastUpdateTime"`
	CreatedAt   time.Time `json:"createTime"`
}

// Overview totals every counter row
type Overview struct {
	TotalUsers          int64 `json:"totalUsers"`
	TotalGuilds         int64 `json:"totalGuilds"`
	TotalAdMessages     int64 `json:"totalAdMessages"`
	TotalNormalMessages int64 `json:"totalNormalMessages"`
}

// SafeEntry is a user exempt from detection in a guild
type SafeEntry struct {
	GuildID      string    `json:"guildId"`
	UserID       string    `json:"userId"`
	AddedAt      time.Time `json:"addedAt"`
	LastActiveAt time.Time `json:"lastActiveAt"`
}

// SafeListPolicy controls exemption and automatic promotion
type SafeListPolicy struct {
	Enabled bool

	// AutoAdd promotes users once NormalThreshold normal messages are counted
	AutoAdd         bool
	NormalThreshold int64

	// AdFilter blocks promotion for users with MaxAdCount or more ads
	AdFilter   bool
	MaxAdCount int64

	// MaxCapacity per guild; the least active users are evicted to make room
	MaxCapacity int
}
