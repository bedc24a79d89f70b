package observability

import (
	"strconv"
	"sync"
	"time"
)

// Metrics provides basic in-memory counters.
type Metrics struct {
	mu           sync.Mutex
	requestCount map[string]int64
	errorCount   map[string]int64
	actionCount  map[string]int64
	actionTime   map[string]time.Duration
	accepted     int64
	rejected     int64
}

// MetricsSnapshot is a point-in-time copy of the counters.
type MetricsSnapshot struct {
	Requests            map[string]int64 `json:"requests"`
	Errors              map[string]int64 `json:"errors"`
	Actions             map[string]int64 `json:"actions"`
	ActionAvgMillis     map[string]int64 `json:"action_avg_ms"`
	AttachmentsAccepted int64            `json:"attachments_accepted"`
	AttachmentsRejected int64            `json:"attachments_rejected"`
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{
		requestCount: make(map[string]int64),
		errorCount:   make(map[string]int64),
		actionCount:  make(map[string]int64),
		actionTime:   make(map[string]time.Duration),
	}
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	key := pathKey(path, method, status)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestCount[key]++
}

// RecordError increments error counters.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	key := path + "|" + method + "|" + code
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorCount[key]++
}

// RecordFormAction counts a finished form action by outcome.
func (m *Metrics) RecordFormAction(action, outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	key := action + "|" + outcome
	m.mu.Lock()
	defer m.mu.Unlock()
	m.actionCount[key]++
	m.actionTime[key] += duration
}

// RecordAttachments counts accepted and rejected offered files.
func (m *Metrics) RecordAttachments(accepted, rejected int) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accepted += int64(accepted)
	m.rejected += int64(rejected)
}

// Snapshot copies the current counters.
func (m *Metrics) Snapshot() MetricsSnapshot {
	snap := MetricsSnapshot{
		Requests:        map[string]int64{},
		Errors:          map[string]int64{},
		Actions:         map[string]int64{},
		ActionAvgMillis: map[string]int64{},
	}
	if m == nil {
		return snap
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, v := range m.requestCount {
		snap.Requests[k] = v
	}
	for k, v := range m.errorCount {
		snap.Errors[k] = v
	}
	for k, v := range m.actionCount {
		snap.Actions[k] = v
		snap.ActionAvgMillis[k] = (m.actionTime[k] / time.Duration(v)).Milliseconds()
	}
	snap.AttachmentsAccepted = m.accepted
	snap.AttachmentsRejected = m.rejected
	return snap
}

func pathKey(path, method string, status int) string {
	return path + "|" + method + "|" + strconv.Itoa(status)
}
