package logger

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap/zapcore"
)

var logEntriesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "crud_log_entries_total",
		Help: "Log entries written by the workload generator, by level",
	},
	[]string{"level"},
)

// MetricsCore is a Zap Core that counts every entry it writes
type MetricsCore struct {
	zapcore.Core
	entries *prometheus.CounterVec
}

// NewMetricsCore wraps an existing core (like console logger) and adds per-level counting
func NewMetricsCore(baseCore zapcore.Core) zapcore.Core {
	return &MetricsCore{
		Core:    baseCore,
		entries: logEntriesTotal,
	}
}

// With keeps the counting wrapper around cores derived with extra fields
func (c *MetricsCore) With(fields []zapcore.Field) zapcore.Core {
	return &MetricsCore{
		Core:    c.Core.With(fields),
		entries: c.entries,
	}
}

// Write is called for every log entry
func (c *MetricsCore) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	c.entries.WithLabelValues(entry.Level.String()).Inc()

	// Call the underlying core (so it still prints to Console/File)
	return c.Core.Write(entry, fields)
}

// Check decides if we should log this level
func (c *MetricsCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}
	return ce
}
