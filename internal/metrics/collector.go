// Package metrics provides in-memory timing statistics for service calls.
package metrics

import (
	"math"
	"sort"
	"strings"
	"sync"
	"time"
)

// Operation names for the collector.
const (
	OpAnalyze = "analyze"
	OpCatalog = "catalog"
	OpHealth  = "health"

	// modelPrefix namespaces per-model processing times reported by the service.
	modelPrefix = "model:"
)

// ModelOp returns the operation name under which a model's processing time is recorded.
func ModelOp(model string) string {
	return modelPrefix + model
}

// OperationMetrics holds aggregated metrics for a single operation type.
type OperationMetrics struct {
	Count     int64
	Failures  int64
	TotalTime time.Duration
	MinTime   time.Duration
	MaxTime   time.Duration
}

// OperationSnapshot provides computed stats from raw metrics.
type OperationSnapshot struct {
	Name        string
	Count       int64
	Failures    int64
	TotalTimeMs int64
	AvgTimeMs   float64
	MinTimeMs   int64
	MaxTimeMs   int64
}

// Snapshot represents the collected statistics at a point in time.
type Snapshot struct {
	UptimeSeconds float64
	Analyze       *OperationSnapshot
	Catalog       *OperationSnapshot
	Health        *OperationSnapshot

	// Models holds the service-reported processing time per model, sorted by name.
	Models []OperationSnapshot
}

// Collector aggregates in-memory runtime statistics.
// All methods are thread-safe.
type Collector struct {
	mu        sync.RWMutex
	startTime time.Time
	ops       map[string]*OperationMetrics
}

// NewCollector creates a new metrics collector.
func NewCollector() *Collector {
	return &Collector{
		startTime: time.Now(),
		ops:       make(map[string]*OperationMetrics),
	}
}

// getOrCreate returns existing metrics or creates new ones for an operation.
// Caller must hold write lock.
func (c *Collector) getOrCreate(op string) *OperationMetrics {
	m, ok := c.ops[op]
	if !ok {
		m = &OperationMetrics{MinTime: time.Duration(math.MaxInt64)}
		c.ops[op] = m
	}
	return m
}

// RecordTiming records timing for an operation.
func (c *Collector) RecordTiming(op string, duration time.Duration) {
	c.record(op, duration, false)
}

// RecordFailure records timing for an operation that ended in an error.
func (c *Collector) RecordFailure(op string, duration time.Duration) {
	c.record(op, duration, true)
}

// RecordModelTime records a model's processing time as reported by the service, in seconds.
func (c *Collector) RecordModelTime(model string, seconds float64) {
	c.record(ModelOp(model), time.Duration(seconds*float64(time.Second)), false)
}

func (c *Collector) record(op string, duration time.Duration, failed bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	m := c.getOrCreate(op)
	m.Count++
	if failed {
		m.Failures++
	}
	m.TotalTime += duration

	if duration < m.MinTime {
		m.MinTime = duration
	}
	if duration > m.MaxTime {
		m.MaxTime = duration
	}
}

// snapshotOp creates a snapshot for an operation, returning nil if no data.
func snapshotOp(name string, m *OperationMetrics) *OperationSnapshot {
	if m == nil || m.Count == 0 {
		return nil
	}

	return &OperationSnapshot{
		Name:        name,
		Count:       m.Count,
		Failures:    m.Failures,
		TotalTimeMs: m.TotalTime.Milliseconds(),
		AvgTimeMs:   float64(m.TotalTime.Milliseconds()) / float64(m.Count),
		MinTimeMs:   m.MinTime.Milliseconds(),
		MaxTimeMs:   m.MaxTime.Milliseconds(),
	}
}

// Snapshot returns a point-in-time snapshot of all metrics.
func (c *Collector) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	snap := Snapshot{
		UptimeSeconds: time.Since(c.startTime).Seconds(),
		Analyze:       snapshotOp(OpAnalyze, c.ops[OpAnalyze]),
		Catalog:       snapshotOp(OpCatalog, c.ops[OpCatalog]),
		Health:        snapshotOp(OpHealth, c.ops[OpHealth]),
	}

	for op, m := range c.ops {
		name, ok := strings.CutPrefix(op, modelPrefix)
		if !ok {
			continue
		}
		if s := snapshotOp(name, m); s != nil {
			snap.Models = append(snap.Models, *s)
		}
	}
	sort.Slice(snap.Models, func(i, j int) bool {
		return snap.Models[i].Name < snap.Models[j].Name
	})

	return snap
}
