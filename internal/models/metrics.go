package models

import "time"

// SystemMetrics is the JSON summary of the in-process instrumentation.
type SystemMetrics struct {
	RequestsTotal      uint64    `json:"requests_total"`
	AverageRequestMs   float64   `json:"average_request_ms"`
	CacheHits          uint64    `json:"cache_hits"`
	CacheMisses        uint64    `json:"cache_misses"`
	CacheHitRatio      float64   `json:"cache_hit_ratio"`
	Recomputes         uint64    `json:"recomputes"`
	RecomputeFailures  uint64    `json:"recompute_failures"`
	AverageRecomputeMs float64   `json:"average_recompute_ms"`
	Goroutines         int       `json:"goroutines"`
	GeneratedAt        time.Time `json:"generated_at"`
}
