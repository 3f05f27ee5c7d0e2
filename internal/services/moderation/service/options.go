package service

import "time"

// Recall policies for nested forwards
const (
	RecallGlobal    = "global"
	RecallBlacklist = "blacklist"
	RecallNone      = "none"
)

// Default notices
const (
	DefaultAdWarning     = "⚠️ 检测到疑似广告内容，请注意识别！"
	DefaultLinkWarning   = "⚠️ 检测到可疑链接，请注意识别"
	DefaultQRWarning     = "⚠️ 检测到图片包含二维码，请注意识别"
	DefaultNestedNotice  = "⚠️ 检测到嵌套的合并转发消息，请注意内容安全"
	DefaultWhitelistUser = "2854196310"
)

// Action is the first offense response of one rule
type Action struct {
	Recall  bool
	Warn    bool
	Warning string
	Mute    bool
	MuteFor time.Duration
	Kick    bool
}

// NestedPolicy handles forwards that contain other forwards
type NestedPolicy struct {
	Enabled    bool
	RecallType string
	Blacklist  []string
	Notify     bool
	Message    string
}

// Options configures the pipeline
type Options struct {
	// MonitoredGroups limits inspection; empty monitors every guild
	MonitoredGroups []string
	GlobalWhitelist []string
	// LocalWhitelist maps guild id to exempt users
	LocalWhitelist map[string][]string
	Admins         []string

	Sensitivity    int
	LengthFilter   bool
	MinLength      int
	KeywordTrigger bool
	LinkDetection  bool

	Rules      Action
	LinkAction Action
	QRAction   Action
	Nested     NestedPolicy

	AutoRecall      bool
	AutoRecallDelay time.Duration
}

// DefaultOptions mirrors the stock moderation rules
func DefaultOptions() Options {
	return Options{
		GlobalWhitelist: []string{DefaultWhitelistUser},
		LocalWhitelist:  map[string][]string{},
		Sensitivity:     7,
		LengthFilter:    true,
		MinLength:       3,
		LinkDetection:   true,
		Rules: Action{
			Warn:    true,
			Warning: DefaultAdWarning,
			MuteFor: 10 * time.Minute,
		},
		LinkAction: Action{
			Recall:  true,
			Warn:    true,
			Warning: DefaultLinkWarning,
			MuteFor: 10 * time.Minute,
		},
		QRAction: Action{
			Recall:  true,
			Warn:    true,
			Warning: DefaultQRWarning,
			MuteFor: 10 * time.Minute,
		},
		Nested: NestedPolicy{
			Enabled:    true,
			RecallType: RecallNone,
			Notify:     true,
			Message:    DefaultNestedNotice,
		},
		AutoRecallDelay: 30 * time.Second,
	}
}
