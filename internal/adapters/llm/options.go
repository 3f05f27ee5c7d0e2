package llm

import (
	"time"

	"adwarden/internal/platform/config"
	"adwarden/internal/platform/logger"
)

const (
	DefaultEndpoint       = "https://dashscope.aliyuncs.com/compatible-mode/v1"
	DefaultModel          = "qwen-plus"
	DefaultVisionEndpoint = "https://api.siliconflow.cn/v1"
	DefaultVisionModel    = "Pro/Qwen/Qwen2.5-VL-7B-Instruct"

	defaultTimeout    = 60 * time.Second
	defaultRetryCount = 2
	defaultRetryDelay = time.Second
	defaultCacheSize  = 4096
	defaultCacheTTL   = 10 * time.Minute
)

// Options configures the text classifier
type Options struct {
	Endpoint   string
	Model      string
	Keys       []string
	Timeout    time.Duration
	RetryCount int
	RetryDelay time.Duration

	// CustomPrompt replaces the default rules paragraph
	CustomPrompt      string
	TokenOptimization bool

	// RatePerSec <= 0 disables client side limiting
	RatePerSec float64
	Burst      int

	// CacheSize 0 disables the verdict cache
	CacheSize int
	CacheTTL  time.Duration

	Log *logger.Logger
}

// DefaultOptions mirrors the stock model settings
func DefaultOptions() Options {
	return Options{
		Endpoint:   DefaultEndpoint,
		Model:      DefaultModel,
		Timeout:    defaultTimeout,
		RetryCount: defaultRetryCount,
		RetryDelay: defaultRetryDelay,
		Burst:      1,
		CacheSize:  defaultCacheSize,
		CacheTTL:   defaultCacheTTL,
	}
}

// FromConfig reads ADWARDEN_LLM_* variables
func FromConfig(cfg config.Conf) Options {
	c := cfg.Prefix("ADWARDEN_LLM_")
	d := DefaultOptions()
	return Options{
		Endpoint:          c.MayString("ENDPOINT", d.Endpoint),
		Model:             c.MayString("MODEL", d.Model),
		Keys:              c.MayCSV("KEYS", nil),
		Timeout:           c.MayDuration("TIMEOUT", d.Timeout),
		RetryCount:        c.MayIntIn("RETRY_COUNT", d.RetryCount, 0, 5),
		RetryDelay:        time.Duration(c.MayIntIn("RETRY_DELAY_MS", int(d.RetryDelay/time.Millisecond), 100, 10000)) * time.Millisecond,
		CustomPrompt:      c.MayString("CUSTOM_PROMPT", ""),
		TokenOptimization: c.MayBool("TOKEN_OPTIMIZATION", false),
		RatePerSec:        c.MayFloat64("RPS", 0),
		Burst:             c.MayInt("BURST", d.Burst),
		CacheSize:         c.MayInt("CACHE_SIZE", d.CacheSize),
		CacheTTL:          c.MayDuration("CACHE_TTL", d.CacheTTL),
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Endpoint == "" {
		o.Endpoint = d.Endpoint
	}
	if o.Model == "" {
		o.Model = d.Model
	}
	if o.Timeout <= 0 {
		o.Timeout = d.Timeout
	}
	if o.RetryCount < 0 {
		o.RetryCount = 0
	}
	if o.RetryDelay <= 0 {
		o.RetryDelay = d.RetryDelay
	}
	if o.Burst <= 0 {
		o.Burst = 1
	}
	if o.CacheTTL <= 0 {
		o.CacheTTL = d.CacheTTL
	}
	if o.Log == nil {
		o.Log = logger.Named("llm")
	}
	return o
}

// VisionOptions configures image recognition
type VisionOptions struct {
	Enabled    bool
	Endpoint   string
	Model      string
	Keys       []string
	Timeout    time.Duration
	RetryCount int
	RetryDelay time.Duration

	// SkipEmoji ignores sticker images
	SkipEmoji bool

	// QRDetection runs the QR sub-query before OCR; SkipOCROnQR stops there
	// when a code is found since the message will be recalled anyway
	QRDetection bool
	SkipOCROnQR bool

	// MaxConcurrent bounds RecognizeAll fan-out
	MaxConcurrent int

	Log *logger.Logger
}

// DefaultVisionOptions leaves vision disabled
func DefaultVisionOptions() VisionOptions {
	return VisionOptions{
		Endpoint:      DefaultVisionEndpoint,
		Model:         DefaultVisionModel,
		Timeout:       defaultTimeout,
		RetryCount:    defaultRetryCount,
		RetryDelay:    defaultRetryDelay,
		QRDetection:   true,
		SkipOCROnQR:   true,
		MaxConcurrent: 5,
	}
}

// VisionFromConfig reads ADWARDEN_VISION_* variables
func VisionFromConfig(cfg config.Conf) VisionOptions {
	c := cfg.Prefix("ADWARDEN_VISION_")
	d := DefaultVisionOptions()
	return VisionOptions{
		Enabled:       c.MayBool("ENABLED", false),
		Endpoint:      c.MayString("ENDPOINT", d.Endpoint),
		Model:         c.MayString("MODEL", d.Model),
		Keys:          c.MayCSV("KEYS", nil),
		Timeout:       time.Duration(c.MayIntIn("TIMEOUT_MS", int(d.Timeout/time.Millisecond), 5000, 120000)) * time.Millisecond,
		RetryCount:    c.MayIntIn("RETRY_COUNT", d.RetryCount, 0, 5),
		RetryDelay:    time.Duration(c.MayIntIn("RETRY_DELAY_MS", int(d.RetryDelay/time.Millisecond), 100, 10000)) * time.Millisecond,
		SkipEmoji:     c.MayBool("SKIP_EMOJI", false),
		QRDetection:   c.MayBool("QR_DETECTION", d.QRDetection),
		SkipOCROnQR:   c.MayBool("QR_DIRECT_RECALL", d.SkipOCROnQR),
		MaxConcurrent: c.MayIntIn("MAX_CONCURRENT", d.MaxConcurrent, 1, 20),
	}
}

func (o VisionOptions) withDefaults() VisionOptions {
	d := DefaultVisionOptions()
	if o.Endpoint == "" {
		o.Endpoint = d.Endpoint
	}
	if o.Model == "" {
		o.Model = d.Model
	}
	if o.Timeout <= 0 {
		o.Timeout = d.Timeout
	}
	if o.RetryCount < 0 {
		o.RetryCount = 0
	}
	if o.RetryDelay <= 0 {
		o.RetryDelay = d.RetryDelay
	}
	if o.MaxConcurrent <= 0 {
		o.MaxConcurrent = d.MaxConcurrent
	}
	if o.Log == nil {
		o.Log = logger.Named("vision")
	}
	return o
}
