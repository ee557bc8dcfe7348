package cms

import (
	"sync"
	"time"
)

// Health records whether the CMS has been reachable. It starts available and
// flips to unavailable on the first transport failure; later successes do not
// flip it back. A fresh Health is needed to reset it.
//
// Only the Client writes to a Health; anyone may read it.
type Health struct {
	mu          sync.RWMutex
	available   bool
	lastError   string
	lastStatus  int
	lastFailure time.Time
	lastSuccess time.Time
}

func NewHealth() *Health {
	return &Health{available: true}
}

// HealthSnapshot is a point-in-time copy of Health.
type HealthSnapshot struct {
	Available     bool       `json:"available"`
	LastError     string     `json:"last_error,omitempty"`
	LastStatus    int        `json:"last_status,omitempty"`
	LastFailureAt *time.Time `json:"last_failure_at,omitempty"`
	LastSuccessAt *time.Time `json:"last_success_at,omitempty"`
}

func (h *Health) Available() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.available
}

func (h *Health) Snapshot() HealthSnapshot {
	h.mu.RLock()
	defer h.mu.RUnlock()

	s := HealthSnapshot{
		Available:  h.available,
		LastError:  h.lastError,
		LastStatus: h.lastStatus,
	}
	if !h.lastFailure.IsZero() {
		t := h.lastFailure
		s.LastFailureAt = &t
	}
	if !h.lastSuccess.IsZero() {
		t := h.lastSuccess
		s.LastSuccessAt = &t
	}
	return s
}

func (h *Health) markUnavailable(err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.available = false
	h.lastError = err.Error()
	h.lastFailure = time.Now()
}

// recordStatus notes any HTTP answer. Non-2xx answers are kept for
// diagnostics but leave availability untouched.
func (h *Health) recordStatus(code int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.lastStatus = code
	if code >= 200 && code < 300 {
		h.lastSuccess = time.Now()
	}
}
