package pg

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"

	"adwarden/internal/platform/logger"
)

var queryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "adwarden_pg_query_duration_seconds",
	Help:    "Postgres statement latency by outcome",
	Buckets: []float64{.001, .005, .01, .05, .1, .25, .5, 1, 2.5},
}, []string{"outcome"})

type startKey struct{}

type started struct {
	sql string
	at  time.Time
}

// Tracer implements pgx.QueryTracer. Failed and slow statements are always
// logged, the rest only when all is set
type Tracer struct {
	log  logger.Logger
	slow time.Duration
	all  bool
	now  func() time.Time
}

// NewTracer tags log with component=pg
func NewTracer(log logger.Logger, slow time.Duration, all bool) *Tracer {
	return &Tracer{
		log:  log.With().Str("component", "pg").Logger(),
		slow: slow,
		all:  all,
		now:  time.Now,
	}
}

// TraceQueryStart remembers the statement and its start time
func (t *Tracer) TraceQueryStart(ctx context.Context, _ *pgx.Conn, d pgx.TraceQueryStartData) context.Context {
	return context.WithValue(ctx, startKey{}, started{sql: d.SQL, at: t.now()})
}

// TraceQueryEnd records latency and logs
func (t *Tracer) TraceQueryEnd(ctx context.Context, _ *pgx.Conn, d pgx.TraceQueryEndData) {
	s, ok := ctx.Value(startKey{}).(started)
	if !ok {
		return
	}
	elapsed := t.now().Sub(s.at)

	outcome := "ok"
	if d.Err != nil {
		outcome = "error"
	}
	queryDuration.WithLabelValues(outcome).Observe(elapsed.Seconds())

	slow := t.slow > 0 && elapsed >= t.slow
	var evt *zerolog.Event
	switch {
	case d.Err != nil:
		evt = t.log.Error().Err(d.Err)
	case slow:
		evt = t.log.Warn()
	case t.all:
		evt = t.log.Info()
	default:
		return
	}
	evt.Dur("elapsed", elapsed).
		Bool("slow", slow).
		Int64("rows", d.CommandTag.RowsAffected()).
		Str("sql", compact(s.sql)).
		Msg("pg query")
}

func compact(sql string) string { return strings.Join(strings.Fields(sql), " ") }
