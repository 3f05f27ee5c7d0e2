package domain

import (
	"time"

	"adwarden/internal/core/markup"
)

// Message is the neutral shape of one inbound chat message
type Message struct {
	MessageID string `json:"messageId"`
	GuildID   string `json:"guildId"`
	// ChannelID stands in for GuildID on adapters that only report channels
	ChannelID string `json:"channelId"`
	UserID    string `json:"userId" validate:"required,chat_id"`
	Content   string `json:"content"`
	Direct    bool   `json:"isDirect"`
}

// Group returns the guild id, falling back to the channel id
func (m Message) Group() string {
	if m.GuildID != "" {
		return m.GuildID
	}
	return m.ChannelID
}

// Trigger names the rule that flagged a message
type Trigger string

const (
	TriggerNone   Trigger = ""
	TriggerAI     Trigger = "ai"
	TriggerQZone  Trigger = "qzone"
	TriggerLink   Trigger = "link"
	TriggerQRCode Trigger = "qrcode"
)

// Skip reasons reported when a message is not inspected
const (
	SkipDirect      = "direct_message"
	SkipNoGuild     = "no_guild"
	SkipUnmonitored = "unmonitored_guild"
	SkipWhitelisted = "whitelisted"
	SkipSafeList    = "safe_list"
	SkipAdmin       = "admin"
	SkipEmpty       = "empty_content"
	SkipSticker     = "sticker"
	SkipTooShort    = "too_short"
	SkipNoKeyword   = "no_keyword"
)

// Decision lists what the chat adapter should do; nothing is executed here
type Decision struct {
	Recall      bool   `json:"recall"`
	Warn        bool   `json:"warn"`
	WarningText string `json:"warningText,omitempty"`
	// ReplyTo is the message the warning quotes, empty for a plain message
	ReplyTo string        `json:"replyTo,omitempty"`
	Mute    bool          `json:"mute"`
	MuteFor time.Duration `json:"muteFor" swaggertype:"integer"`
	Kick    bool          `json:"kick"`
	// Notify carries extra notices such as the nested forward notification
	Notify []string `json:"notify,omitempty"`

	Repeat       bool `json:"repeat"`
	OffenseCount int  `json:"offenseCount,omitempty"`

	// AutoRecallAfter is set when notices sent for this decision should be
	// withdrawn after the delay
	AutoRecallAfter time.Duration `json:"autoRecallAfter,omitempty" swaggertype:"integer"`
}

// Empty reports whether the decision asks for nothing
func (d Decision) Empty() bool {
	return !d.Recall && !d.Warn && !d.Mute && !d.Kick && len(d.Notify) == 0
}

// Verdict is the outcome of inspecting one message
type Verdict struct {
	MessageID string      `json:"messageId,omitempty"`
	GuildID   string      `json:"guildId,omitempty"`
	UserID    string      `json:"userId"`
	Skipped   string      `json:"skipped,omitempty"`
	Type      markup.Kind `json:"type,omitempty"`

	IsAd    bool    `json:"isAd"`
	Trigger Trigger `json:"trigger,omitempty"`
	// Content is the text that was judged an ad
	Content   string   `json:"content,omitempty"`
	Links     []string `json:"links,omitempty"`
	Reasons   []string `json:"reasons,omitempty"`
	QRContent string   `json:"qrContent,omitempty"`

	Items         int  `json:"items"`
	DepthExceeded bool `json:"depthExceeded"`
	NestedForward bool `json:"nestedForward"`
	// Errors collects per item failures that were skipped over
	Errors []string `json:"errors,omitempty"`

	Decision Decision      `json:"decision"`
	Elapsed  time.Duration `json:"elapsed" swaggertype:"integer"`
}

// Flagged reports whether any rule fired
func (v *Verdict) Flagged() bool { return v.Trigger != TriggerNone }
