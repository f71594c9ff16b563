package sched

import (
	"context"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/rs/zerolog"

	"recharge-inventory/internal/infra/metrics"
)

// PoolStater is the part of *pgxpool.Pool the worker samples.
type PoolStater interface {
	Stat() *pgxpool.Stat
}

// PoolStatsWorker periodically publishes connection pool gauges.
type PoolStatsWorker struct {
	interval time.Duration
	pool     PoolStater
	log      *zerolog.Logger
}

func NewPoolStatsWorker(interval time.Duration, pool PoolStater, logger *zerolog.Logger) *PoolStatsWorker {
	if interval <= 0 {
		interval = 15 * time.Second
	}
	wl := logger.With().Str("component", "PoolStatsWorker").Logger()
	return &PoolStatsWorker{interval: interval, pool: pool, log: &wl}
}

// Run samples once immediately, then on every tick until ctx is cancelled.
func (w *PoolStatsWorker) Run(ctx context.Context) error {
	w.log.Info().Dur("interval", w.interval).Msg("Starting pool stats worker")
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.sample()
	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Stopping pool stats worker")
			return ctx.Err()
		case <-ticker.C:
			w.sample()
		}
	}
}

func (w *PoolStatsWorker) sample() {
	st := w.pool.Stat()
	if st == nil {
		return
	}
	metrics.SetDBPoolStats(metrics.PoolSnapshot{
		Total:           st.TotalConns(),
		Idle:            st.IdleConns(),
		Acquired:        st.AcquiredConns(),
		Max:             st.MaxConns(),
		EmptyAcquires:   st.EmptyAcquireCount(),
		AcquireDuration: st.AcquireDuration(),
	})
}
