// Package logger owns the process wide zerolog root and the request scoped
// children handlers log through
package logger

import (
	"context"
	"io"
	"os"
	"runtime/debug"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"
)

// Logger is the type every package logs through
type Logger = zerolog.Logger

// Options shape the root logger
type Options struct {
	Level     string
	Format    string // console or json
	Service   string
	Component string
	Writer    io.Writer
	Caller    bool
	// SampleEvery > 1 keeps one event in N
	SampleEvery uint32
}

// FromEnv reads LOG_* directly from the environment. The config package
// logs its own warnings, so it cannot be used here
func FromEnv() Options {
	sample, _ := strconv.ParseUint(env("LOG_SAMPLE_EVERY", "0"), 10, 32)
	caller, _ := strconv.ParseBool(env("LOG_CALLER", "false"))
	return Options{
		Level:       env("LOG_LEVEL", "debug"),
		Format:      strings.ToLower(env("LOG_FORMAT", "console")),
		Service:     env("LOG_SERVICE", "adwarden"),
		Component:   env("LOG_COMPONENT", ""),
		Caller:      caller,
		SampleEvery: uint32(sample),
	}
}

func env(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

var (
	once sync.Once
	root atomic.Pointer[Logger]
)

// Init builds the root logger. Only the first call has any effect
func Init(opt Options) {
	once.Do(func() { root.Store(build(opt)) })
}

func build(opt Options) *Logger {
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
	zerolog.TimeFieldFormat = time.RFC3339Nano

	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(opt.Level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.DebugLevel
	}

	w := opt.Writer
	if w == nil {
		w = os.Stdout
	}
	if opt.Format == "console" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	c := zerolog.New(w).Level(lvl).With().Timestamp()
	if bi, ok := debug.ReadBuildInfo(); ok {
		c = c.Str("go_version", bi.GoVersion)
	}
	if opt.Service != "" {
		c = c.Str("service", opt.Service)
	}
	if opt.Component != "" {
		c = c.Str("component", opt.Component)
	}
	if opt.Caller {
		c = c.Caller()
	}

	l := c.Logger()
	if opt.SampleEvery > 1 {
		l = l.Sample(&zerolog.BasicSampler{N: opt.SampleEvery})
	}
	return &l
}

// Get returns the root logger, initializing it from the environment on
// first use
func Get() *Logger {
	if l := root.Load(); l != nil {
		return l
	}
	Init(FromEnv())
	return root.Load()
}

// Named is a child of the root tagged with component
func Named(component string) *Logger {
	if component == "" {
		return Get()
	}
	l := Get().With().Str("component", component).Logger()
	return &l
}

type ctxKey int

const (
	keyRequestID ctxKey = iota
	keyOperator
)

// WithRequest stores the request id and the admin operator, if any, for C
func WithRequest(ctx context.Context, reqID, operator string) context.Context {
	if reqID != "" {
		ctx = context.WithValue(ctx, keyRequestID, reqID)
	}
	if operator != "" {
		ctx = context.WithValue(ctx, keyOperator, operator)
	}
	return ctx
}

// C is a child of the root carrying whatever WithRequest stored in ctx
func C(ctx context.Context) *Logger {
	c := Get().With()
	if id, _ := ctx.Value(keyRequestID).(string); id != "" {
		c = c.Str("request_id", id)
	}
	if op, _ := ctx.Value(keyOperator).(string); op != "" {
		c = c.Str("operator", op)
	}
	l := c.Logger()
	return &l
}
