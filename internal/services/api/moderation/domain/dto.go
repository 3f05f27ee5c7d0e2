// Package domain holds DTOs and ports for the moderation endpoints
package domain

import (
	"adwarden/internal/core/admission"
	"adwarden/internal/core/cloudrules"
	"adwarden/internal/core/offense"
)

// ClassifyInput asks the model to judge raw text
type ClassifyInput struct {
	Text string `json:"text" validate:"required,max=20000" example:"加群免费领取资料"`
	// Sensitivity 0 uses the configured level
	Sensitivity int  `json:"sensitivity,omitempty" validate:"omitempty,min=1,max=10" example:"7"`
	QZone       bool `json:"qzone,omitempty" example:"false"`
}

// ClassifyOutput is the model verdict
type ClassifyOutput struct {
	IsAd        bool `json:"isAd" example:"true"`
	Sensitivity int  `json:"sensitivity" example:"7"`
}

// ScanInput carries text for the link scanner
type ScanInput struct {
	Text string `json:"text" validate:"required,max=20000" example:"看这个 https://cdn.example-oss.aliyuncs.com/x"`
}

// QueueOutput reports the classification queue
type QueueOutput struct {
	Enabled bool             `json:"enabled"`
	Status  admission.Status `json:"status"`
	Stats   admission.Stats  `json:"stats"`
}

// OffensesOutput reports repeat offense tracking
type OffensesOutput struct {
	Enabled       bool          `json:"enabled"`
	Threshold     int           `json:"threshold" example:"3"`
	WindowMinutes int           `json:"windowMinutes" example:"60"`
	Stats         offense.Stats `json:"stats"`
}

// KeywordsOutput lists the effective pre-filter keywords
type KeywordsOutput struct {
	Stats    cloudrules.Stats `json:"stats"`
	Keywords []string         `json:"keywords"`
}

// ResetOutput acknowledges a reset
type ResetOutput struct {
	OK bool `json:"ok" example:"true"`
}
