package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func init() { register(dbPoolConns, dbPoolEmptyAcquires, dbPoolAcquireSeconds) }

var (
	dbPoolConns = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "recharge_inventory_db_pool_connections",
			Help: "Postgres pool connections by state.",
		},
		[]string{"state"}, // 'total', 'idle', 'acquired', 'max'
	)

	dbPoolEmptyAcquires = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "recharge_inventory_db_pool_empty_acquires",
			Help: "Acquires that had to wait for a connection since the pool opened.",
		},
	)

	dbPoolAcquireSeconds = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "recharge_inventory_db_pool_acquire_seconds",
			Help: "Cumulative time spent acquiring connections since the pool opened.",
		},
	)
)

// PoolSnapshot is one sample of the store's connection pool.
type PoolSnapshot struct {
	Total, Idle, Acquired, Max int32
	EmptyAcquires              int64
	AcquireDuration            time.Duration
}

func SetDBPoolStats(s PoolSnapshot) {
	dbPoolConns.WithLabelValues("total").Set(float64(s.Total))
	dbPoolConns.WithLabelValues("idle").Set(float64(s.Idle))
	dbPoolConns.WithLabelValues("acquired").Set(float64(s.Acquired))
	dbPoolConns.WithLabelValues("max").Set(float64(s.Max))
	dbPoolEmptyAcquires.Set(float64(s.EmptyAcquires))
	dbPoolAcquireSeconds.Set(s.AcquireDuration.Seconds())
}
