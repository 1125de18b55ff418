package database

import (
	"context"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
)

// Metrics contains Prometheus metrics for store statements.
type Metrics struct {
	statements        *prometheus.CounterVec
	statementDuration *prometheus.HistogramVec
}

// NewMetrics registers the store collectors on reg. A nil reg uses the
// default registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		statements: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "peopledb_store_statements_total",
				Help: "Total number of statements executed against the store",
			},
			[]string{"operation", "outcome"},
		),

		statementDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "peopledb_store_statement_duration_seconds",
				Help:    "Statement latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordStatement records one executed statement.
func (m *Metrics) RecordStatement(operation string, err error, duration time.Duration) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.statements.WithLabelValues(operation, outcome).Inc()
	m.statementDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// instrumented decorates a Store with metrics and slow-statement logging.
type instrumented struct {
	Store
	metrics       *Metrics
	log           *zerolog.Logger
	slowThreshold time.Duration
}

// Instrument wraps store so every Execute is counted and timed. Statements
// slower than slowThreshold are logged at warn level; zero disables that.
func Instrument(store Store, metrics *Metrics, logger *zerolog.Logger, slowThreshold time.Duration) Store {
	return &instrumented{
		Store:         store,
		metrics:       metrics,
		log:           logger,
		slowThreshold: slowThreshold,
	}
}

func (s *instrumented) Execute(ctx context.Context, query string, args ...any) ([]Row, error) {
	start := time.Now()
	rows, err := s.Store.Execute(ctx, query, args...)
	elapsed := time.Since(start)

	op := Operation(query)
	s.metrics.RecordStatement(op, err, elapsed)

	if s.slowThreshold > 0 && elapsed > s.slowThreshold {
		s.log.Warn().
			Str("operation", op).
			Dur("duration", elapsed).
			Dur("threshold", s.slowThreshold).
			Msg("slow statement")
	}

	return rows, err
}

// Operation is the lowercased leading keyword of a statement ("select",
// "insert", "delete", ...).
func Operation(query string) string {
	fields := strings.Fields(query)
	if len(fields) == 0 {
		return "unknown"
	}
	return strings.ToLower(fields[0])
}
