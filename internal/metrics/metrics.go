package metrics

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// Upstream names used across the service.
const (
	UpstreamSui           = "sui"
	UpstreamWalrusRelay   = "walrus_relay"
	UpstreamWalrusGateway = "walrus_gateway"
	UpstreamS3            = "s3"
)

type counters struct {
	calls   int64
	errors  int64
	latency int64 // total latency in nanoseconds
}

var (
	mu       sync.RWMutex
	registry = map[string]*counters{}
)

// Snapshot is a point-in-time copy of one upstream's counters.
type Snapshot struct {
	Upstream     string  `json:"upstream"`
	Calls        int64   `json:"calls"`
	Errors       int64   `json:"errors"`
	AvgLatencyMs float64 `json:"avg_latency_ms"`
	ErrorRate    float64 `json:"error_rate"`
}

func get(name string) *counters {
	mu.RLock()
	c, ok := registry[name]
	mu.RUnlock()
	if ok {
		return c
	}

	mu.Lock()
	defer mu.Unlock()
	if c, ok = registry[name]; !ok {
		c = &counters{}
		registry[name] = c
	}
	return c
}

// RecordUpstreamCall records one call to the named upstream.
func RecordUpstreamCall(name string, duration time.Duration, err error) {
	c := get(name)
	atomic.AddInt64(&c.calls, 1)
	atomic.AddInt64(&c.latency, duration.Nanoseconds())
	if err != nil {
		atomic.AddInt64(&c.errors, 1)
	}
}

// Snapshots returns the counters of every upstream seen so far, sorted by name.
func Snapshots() []Snapshot {
	mu.RLock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	mu.RUnlock()
	sort.Strings(names)

	out := make([]Snapshot, 0, len(names))
	for _, name := range names {
		c := get(name)
		s := Snapshot{
			Upstream: name,
			Calls:    atomic.LoadInt64(&c.calls),
			Errors:   atomic.LoadInt64(&c.errors),
		}
		if s.Calls > 0 {
			s.AvgLatencyMs = float64(atomic.LoadInt64(&c.latency)) / float64(s.Calls) / 1e6
			s.ErrorRate = float64(s.Errors) / float64(s.Calls) * 100
		}
		out = append(out, s)
	}
	return out
}

// Reset clears all counters (useful for testing)
func Reset() {
	mu.Lock()
	registry = map[string]*counters{}
	mu.Unlock()
}
