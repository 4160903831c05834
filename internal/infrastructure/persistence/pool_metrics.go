package persistence

import (
	"github.com/prometheus/client_golang/prometheus"
)

// PoolCollector exports connection pool statistics as Prometheus gauges.
// Values are read from the pool on every scrape.
type PoolCollector struct {
	db *Database

	maxOpen      *prometheus.Desc
	open         *prometheus.Desc
	inUse        *prometheus.Desc
	idle         *prometheus.Desc
	waitCount    *prometheus.Desc
	waitDuration *prometheus.Desc
}

// NewPoolCollector creates a collector for db labelled with dbName
func NewPoolCollector(db *Database, dbName string) *PoolCollector {
	labels := prometheus.Labels{"db_name": dbName}
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName("db", "pool", name), help, nil, labels)
	}

	return &PoolCollector{
		db:           db,
		maxOpen:      desc("max_open_connections", "Maximum number of open connections to the database."),
		open:         desc("open_connections", "Number of established connections, in use and idle."),
		inUse:        desc("in_use_connections", "Number of connections currently in use."),
		idle:         desc("idle_connections", "Number of idle connections."),
		waitCount:    desc("wait_count_total", "Total number of connections waited for."),
		waitDuration: desc("wait_duration_seconds_total", "Total time blocked waiting for a new connection."),
	}
}

// Describe implements prometheus.Collector
func (c *PoolCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.maxOpen
	ch <- c.open
	ch <- c.inUse
	ch <- c.idle
	ch <- c.waitCount
	ch <- c.waitDuration
}

// Collect implements prometheus.Collector. Nothing is emitted when the
// underlying pool cannot be reached.
func (c *PoolCollector) Collect(ch chan<- prometheus.Metric) {
	stats, err := c.db.Stats()
	if err != nil {
		return
	}

	ch <- prometheus.MustNewConstMetric(c.maxOpen, prometheus.GaugeValue, float64(stats.MaxOpenConnections))
	ch <- prometheus.MustNewConstMetric(c.open, prometheus.GaugeValue, float64(stats.OpenConnections))
	ch <- prometheus.MustNewConstMetric(c.inUse, prometheus.GaugeValue, float64(stats.InUse))
	ch <- prometheus.MustNewConstMetric(c.idle, prometheus.GaugeValue, float64(stats.Idle))
	ch <- prometheus.MustNewConstMetric(c.waitCount, prometheus.CounterValue, float64(stats.WaitCount))
	ch <- prometheus.MustNewConstMetric(c.waitDuration, prometheus.CounterValue, stats.WaitDuration.Seconds())
}
