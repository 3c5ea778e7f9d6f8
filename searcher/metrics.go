package searcher

import (
	"sync/atomic"
	"time"
)

type MoveMetrics struct {
	StartTime        time.Time
	Duration         time.Duration
	Episodes         int64
	Aborted          int64 // simulations cut short by the deadline
	Determinizations int64
	Fallback         bool // no simulation finished, the greedy move was played
}

type MetricsCollector interface {
	Start()
	AddEpisode()
	AddAborted()
	AddDeterminization()
	UsedFallback()
	Complete() MoveMetrics
}

type metricsCollector struct {
	startTime        time.Time
	episodes         atomic.Int64
	aborted          atomic.Int64
	determinizations atomic.Int64
	fallback         atomic.Bool
}

func NewMetricsCollector() MetricsCollector {
	return &metricsCollector{}
}

// Start resets the counters for a new decision.
func (m *metricsCollector) Start() {
	m.startTime = time.Now()
	m.episodes.Store(0)
	m.aborted.Store(0)
	m.determinizations.Store(0)
	m.fallback.Store(false)
}

func (m *metricsCollector) AddEpisode() {
	m.episodes.Add(1)
}

func (m *metricsCollector) AddAborted() {
	m.aborted.Add(1)
}

func (m *metricsCollector) AddDeterminization() {
	m.determinizations.Add(1)
}

func (m *metricsCollector) UsedFallback() {
	m.fallback.Store(true)
}

func (m *metricsCollector) Complete() MoveMetrics {
	return MoveMetrics{
		StartTime:        m.startTime,
		Duration:         time.Since(m.startTime),
		Episodes:         m.episodes.Load(),
		Aborted:          m.aborted.Load(),
		Determinizations: m.determinizations.Load(),
		Fallback:         m.fallback.Load(),
	}
}

type noMetricsCollector struct{}

func NewNoMetricsCollector() MetricsCollector {
	return &noMetricsCollector{}
}

func (m *noMetricsCollector) Start()                {}
func (m *noMetricsCollector) AddEpisode()           {}
func (m *noMetricsCollector) AddAborted()           {}
func (m *noMetricsCollector) AddDeterminization()   {}
func (m *noMetricsCollector) UsedFallback()         {}
func (m *noMetricsCollector) Complete() MoveMetrics { return MoveMetrics{} }
