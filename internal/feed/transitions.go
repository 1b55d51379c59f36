package feed

import (
	"sync"

	"resolve/backend/internal/models"
)

// TransitionLog tracks the last observed status per complaint so that
// status-edge effects (the resolution celebration in particular) fire once
// per transition, even under duplicate or replayed events.
type TransitionLog struct {
	mu   sync.Mutex
	last map[string]models.Status
}

func NewTransitionLog() *TransitionLog {
	return &TransitionLog{last: make(map[string]models.Status)}
}

// Observe records the status for a complaint and reports whether this
// observation is an edge, i.e. differs from the previously observed status.
// The first observation of a complaint is always an edge.
func (l *TransitionLog) Observe(complaintID string, status models.Status) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	prev, seen := l.last[complaintID]
	l.last[complaintID] = status
	return !seen || prev != status
}
