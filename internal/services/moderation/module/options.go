package module

import (
	"strings"
	"time"

	"adwarden/internal/platform/config"
	"adwarden/internal/services/moderation/service"
)

// FromConfig reads ADWARDEN_MOD_* variables over service.DefaultOptions
func FromConfig(cfg config.Conf) service.Options {
	c := cfg.Prefix("ADWARDEN_MOD_")
	d := service.DefaultOptions()
	recall := c.MayEnum("NESTED_RECALL", d.Nested.RecallType, service.RecallGlobal, service.RecallBlacklist, service.RecallNone)

	return service.Options{
		MonitoredGroups: c.MayCSV("MONITORED_GROUPS", nil),
		GlobalWhitelist: c.MayCSV("GLOBAL_WHITELIST", d.GlobalWhitelist),
		LocalWhitelist:  parseLocalWhitelist(c.MayCSV("LOCAL_WHITELIST", nil)),
		Admins:          c.MayCSV("ADMINS", nil),

		Sensitivity:    c.MayIntIn("SENSITIVITY", d.Sensitivity, 1, 10),
		LengthFilter:   c.MayBool("LENGTH_FILTER", d.LengthFilter),
		MinLength:      c.MayIntIn("MIN_LENGTH", d.MinLength, 1, 100),
		KeywordTrigger: c.MayBool("KEYWORD_TRIGGER", d.KeywordTrigger),
		LinkDetection:  c.MayBool("LINK_DETECTION", d.LinkDetection),

		Rules:      actionFromConfig(c.Prefix("RULE_"), d.Rules),
		LinkAction: actionFromConfig(c.Prefix("LINK_"), d.LinkAction),
		QRAction:   actionFromConfig(c.Prefix("QR_"), d.QRAction),
		Nested: service.NestedPolicy{
			Enabled:    c.MayBool("NESTED_ENABLED", d.Nested.Enabled),
			RecallType: strings.ToLower(recall),
			Blacklist:  c.MayCSV("NESTED_BLACKLIST", nil),
			Notify:     c.MayBool("NESTED_NOTIFY", d.Nested.Notify),
			Message:    c.MayString("NESTED_MESSAGE", d.Nested.Message),
		},

		AutoRecall:      c.MayBool("AUTO_RECALL", false),
		AutoRecallDelay: time.Duration(c.MayIntIn("AUTO_RECALL_DELAY", int(d.AutoRecallDelay/time.Second), 1, 300)) * time.Second,
	}
}

func actionFromConfig(c config.Conf, d service.Action) service.Action {
	return service.Action{
		Recall:  c.MayBool("RECALL", d.Recall),
		Warn:    c.MayBool("WARN", d.Warn),
		Warning: c.MayString("WARNING", d.Warning),
		Mute:    c.MayBool("MUTE", d.Mute),
		MuteFor: c.MayDuration("MUTE_FOR", d.MuteFor),
		Kick:    c.MayBool("KICK", d.Kick),
	}
}

// parseLocalWhitelist turns "guild:user" pairs into a per guild list
func parseLocalWhitelist(pairs []string) map[string][]string {
	out := map[string][]string{}
	for _, p := range pairs {
		guild, user, ok := strings.Cut(p, ":")
		guild, user = strings.TrimSpace(guild), strings.TrimSpace(user)
		if !ok || guild == "" || user == "" {
			continue
		}
		out[guild] = append(out[guild], user)
	}
	return out
}
