// Package offense counts repeat advertising offenses per (user, guild) inside a
// sliding time window and decides when they escalate
package offense

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"adwarden/internal/platform/config"
	"adwarden/internal/platform/logger"
)

// DefaultWarningTemplate is used when no template is configured
const DefaultWarningTemplate = "⚠️ 用户 {userId} 在 {timeWindow} 分钟内第 {count} 次触发广告检测，已达到阈值 {threshold}，执行禁言处理！"

// Options configures the tracker
type Options struct {
	Enabled         bool
	Window          time.Duration
	Threshold       int
	MuteFor         time.Duration
	Kick            bool
	WarningTemplate string
	PruneEvery      time.Duration
	Log             *logger.Logger
}

// DefaultOptions mirrors the stock repeat-offense rules (disabled)
func DefaultOptions() Options {
	return Options{
		Window:          60 * time.Minute,
		Threshold:       3,
		MuteFor:         60 * time.Minute,
		WarningTemplate: DefaultWarningTemplate,
		PruneEvery:      10 * time.Minute,
	}
}

// FromConfig reads options using the ADWARDEN_OFFENSE_ prefix
func FromConfig(cfg config.Conf) Options {
	c := cfg.Prefix("ADWARDEN_OFFENSE_")
	return Options{
		Enabled:         c.MayBool("ENABLED", false),
		Window:          time.Duration(c.MayIntIn("WINDOW_MINUTES", 60, 5, 1440)) * time.Minute,
		Threshold:       c.MayIntIn("THRESHOLD", 3, 2, 10),
		MuteFor:         time.Duration(c.MayIntIn("MUTE_MINUTES", 60, 1, 10080)) * time.Minute,
		Kick:            c.MayBool("KICK", false),
		WarningTemplate: c.MayString("WARNING", DefaultWarningTemplate),
		PruneEvery:      c.MayDuration("PRUNE_EVERY", 10*time.Minute),
	}
}

// Stats summarises stored records
type Stats struct {
	TotalRecords  int `json:"totalRecords"`
	ActiveRecords int `json:"activeRecords"`
}

// Tracker applies the window and threshold over a Store
type Tracker struct {
	store Store
	opt   Options
	now   func() time.Time

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New builds a Tracker; nil store means an in-memory one
func New(s Store, opt Options) *Tracker {
	def := DefaultOptions()
	if opt.Window <= 0 {
		opt.Window = def.Window
	}
	if opt.Threshold <= 0 {
		opt.Threshold = def.Threshold
	}
	if opt.MuteFor <= 0 {
		opt.MuteFor = def.MuteFor
	}
	if opt.WarningTemplate == "" {
		opt.WarningTemplate = def.WarningTemplate
	}
	if opt.PruneEvery <= 0 {
		opt.PruneEvery = def.PruneEvery
	}
	if opt.Log == nil {
		opt.Log = logger.Named("offense")
	}
	if s == nil {
		s = NewMemStore()
	}
	return &Tracker{store: s, opt: opt, now: time.Now}
}

// Options returns the effective options
func (t *Tracker) Options() Options { return t.opt }

// Enabled reports whether repeat rules apply
func (t *Tracker) Enabled() bool { return t.opt.Enabled }

func (t *Tracker) cutoff() time.Time { return t.now().Add(-t.opt.Window) }

// AddOffense records an offense and returns the count inside the window. A
// disabled tracker records nothing and returns 0
func (t *Tracker) AddOffense(ctx context.Context, userID, guildID, note string) (int, error) {
	if !t.opt.Enabled {
		return 0, nil
	}
	if err := t.store.Add(ctx, Record{UserID: userID, GuildID: guildID, At: t.now(), Note: note}); err != nil {
		return 0, err
	}
	n, err := t.Count(ctx, userID, guildID)
	if err == nil {
		t.opt.Log.Debug().Str("user_id", userID).Str("guild_id", guildID).Int("count", n).
			Dur("window", t.opt.Window).Msg("offense recorded")
	}
	return n, err
}

// Count returns the offenses of (user, guild) inside the window
func (t *Tracker) Count(ctx context.Context, userID, guildID string) (int, error) {
	if !t.opt.Enabled {
		return 0, nil
	}
	return t.store.Count(ctx, userID, guildID, t.cutoff())
}

// IsRepeat reports whether the window count reached the threshold
func (t *Tracker) IsRepeat(ctx context.Context, userID, guildID string) (bool, error) {
	if !t.opt.Enabled {
		return false, nil
	}
	n, err := t.Count(ctx, userID, guildID)
	if err != nil {
		return false, err
	}
	return t.Escalates(n), nil
}

// Escalates reports whether count is a repeat offense
func (t *Tracker) Escalates(count int) bool {
	return t.opt.Enabled && count >= t.opt.Threshold
}

// Reset drops every record
func (t *Tracker) Reset(ctx context.Context) error {
	if err := t.store.Reset(ctx); err != nil {
		return err
	}
	t.opt.Log.Info().Msg("offense records reset")
	return nil
}

// Stats reports stored and in-window record counts
func (t *Tracker) Stats(ctx context.Context) (Stats, error) {
	total, active, err := t.store.Totals(ctx, t.cutoff())
	return Stats{TotalRecords: total, ActiveRecords: active}, err
}

// Prune removes records that fell out of the window
func (t *Tracker) Prune(ctx context.Context) (int, error) {
	if !t.opt.Enabled {
		return 0, nil
	}
	n, err := t.store.Prune(ctx, t.cutoff())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		t.opt.Log.Debug().Int("removed", n).Msg("pruned expired offenses")
	}
	return n, nil
}

// WarningText renders the escalation template
func (t *Tracker) WarningText(userID string, count int) string {
	r := strings.NewReplacer(
		"{userId}", userID,
		"{user}", "<@"+userID+">",
		"{count}", strconv.Itoa(count),
		"{threshold}", strconv.Itoa(t.opt.Threshold),
		"{timeWindow}", strconv.Itoa(int(t.opt.Window/time.Minute)),
	)
	return r.Replace(t.opt.WarningTemplate)
}

// Start runs the prune loop until Stop or ctx ends. Calling Start twice is a no-op
func (t *Tracker) Start(ctx context.Context) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cancel != nil {
		return
	}
	ctx, t.cancel = context.WithCancel(ctx)

	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		tick := time.NewTicker(t.opt.PruneEvery)
		defer tick.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-tick.C:
				if _, err := t.Prune(ctx); err != nil {
					t.opt.Log.Warn().Err(err).Msg("offense prune failed")
				}
			}
		}
	}()
}

// Stop halts the prune loop and waits for it
func (t *Tracker) Stop() {
	t.mu.Lock()
	cancel := t.cancel
	t.cancel = nil
	t.mu.Unlock()
	if cancel != nil {
		cancel()
		t.wg.Wait()
	}
}
