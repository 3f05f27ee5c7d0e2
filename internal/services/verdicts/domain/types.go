package domain

import (
	"time"

	"github.com/google/uuid"
)

// Kind names the rule that produced a verdict
type Kind string

const (
	KindText    Kind = "text"
	KindImage   Kind = "image"
	KindForward Kind = "forward"
	KindMixed   Kind = "mixed"
	KindQZone   Kind = "qzone"
	KindLink    Kind = "link"
	KindQRCode  Kind = "qrcode"
)

// Event is one inspected message as stored in the verdict log
type Event struct {
	ID            uuid.UUID `json:"id"`
	At            time.Time `json:"ts"`
	GuildID       string    `json:"guildId"`
	UserID        string    `json:"userId"`
	Kind          Kind      `json:"kind"`
	IsAd          bool      `json:"isAd"`
	Reason        string    `json:"reason,omitempty"`
	Items         int       `json:"items"`
	DepthExceeded bool      `json:"depthExceeded"`
	ElapsedMs     int64     `json:"elapsedMs"`
}
