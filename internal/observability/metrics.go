package observability

import (
	"sort"
	"sync"
	"time"
)

// Metrics provides in-memory request counters.
type Metrics struct {
	mu        sync.Mutex
	startedAt time.Time
	requests  map[requestKey]*requestTally
	errors    map[errorKey]int64
}

type requestKey struct {
	path   string
	method string
	status int
}

type errorKey struct {
	path   string
	method string
	code   string
}

type requestTally struct {
	count   int64
	latency time.Duration
}

// RouteStat summarizes one route, method and status combination.
type RouteStat struct {
	Method       string  `json:"method"`
	Path         string  `json:"path"`
	Status       int     `json:"status"`
	Count        int64   `json:"count"`
	AvgLatencyMS float64 `json:"avg_latency_ms"`
}

// ErrorStat counts one error code on a route.
type ErrorStat struct {
	Method string `json:"method"`
	Path   string `json:"path"`
	Code   string `json:"code"`
	Count  int64  `json:"count"`
}

// Snapshot is a point-in-time copy of the counters.
type Snapshot struct {
	UptimeSeconds int64       `json:"uptime_seconds"`
	Requests      []RouteStat `json:"requests"`
	Errors        []ErrorStat `json:"errors"`
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{
		startedAt: time.Now(),
		requests:  make(map[requestKey]*requestTally),
		errors:    make(map[errorKey]int64),
	}
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	key := requestKey{path: path, method: method, status: status}
	m.mu.Lock()
	defer m.mu.Unlock()
	tally, ok := m.requests[key]
	if !ok {
		tally = &requestTally{}
		m.requests[key] = tally
	}
	tally.count++
	tally.latency += duration
}

// RecordError increments error counters.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors[errorKey{path: path, method: method, code: code}]++
}

// Snapshot copies the counters, sorted by path then method.
func (m *Metrics) Snapshot() Snapshot {
	snap := Snapshot{Requests: []RouteStat{}, Errors: []ErrorStat{}}
	if m == nil {
		return snap
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	snap.UptimeSeconds = int64(time.Since(m.startedAt).Seconds())
	for key, tally := range m.requests {
		snap.Requests = append(snap.Requests, RouteStat{
			Method:       key.method,
			Path:         key.path,
			Status:       key.status,
			Count:        tally.count,
			AvgLatencyMS: float64(tally.latency) / float64(tally.count) / float64(time.Millisecond),
		})
	}
	for key, count := range m.errors {
		snap.Errors = append(snap.Errors, ErrorStat{Method: key.method, Path: key.path, Code: key.code, Count: count})
	}
	sort.Slice(snap.Requests, func(i, j int) bool {
		a, b := snap.Requests[i], snap.Requests[j]
		if a.Path != b.Path {
			return a.Path < b.Path
		}
		if a.Method != b.Method {
			return a.Method < b.Method
		}
		return a.Status < b.Status
	})
	sort.Slice(snap.Errors, func(i, j int) bool {
		a, b := snap.Errors[i], snap.Errors[j]
		if a.Path != b.Path {
			return a.Path < b.Path
		}
		if a.Method != b.Method {
			return a.Method < b.Method
		}
		return a.Code < b.Code
	})
	return snap
}
