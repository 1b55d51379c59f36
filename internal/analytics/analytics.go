// Package analytics serves the admin dashboard aggregates: status counts,
// resolution rate, average resolution time, and the leading AI category.
// The snapshot is recomputed through a coalesced refresher driven by the
// change feed, so a burst of complaint updates costs one re-fetch.
package analytics

import (
	"context"
	"log"
	"sync"
	"time"

	"resolve/backend/internal/feed"
	"resolve/backend/internal/models"
)

// Snapshot is one consistent view of the dashboard aggregates.
type Snapshot struct {
	TotalComplaints    int            `json:"total_complaints"`
	Pending            int            `json:"pending"`
	InProgress         int            `json:"in_progress"`
	Resolved           int            `json:"resolved"`
	ResolutionRate     float64        `json:"resolution_rate"`
	AvgResolutionHours float64        `json:"avg_resolution_hours"`
	TopCategory        string         `json:"top_category,omitempty"`
	TopCategoryCount   int            `json:"top_category_count,omitempty"`
	CategoryCounts     map[string]int `json:"category_counts"`
	GeneratedAt        time.Time      `json:"generated_at"`
}

// Compute derives the aggregates from the full complaint list.
func Compute(complaints []models.Complaint, now time.Time) Snapshot {
	s := Snapshot{
		TotalComplaints: len(complaints),
		CategoryCounts:  make(map[string]int),
		GeneratedAt:     now,
	}

	var resolutionHours float64
	var resolvedWithTime int
	for _, c := range complaints {
		switch c.Status {
		case models.StatusPending:
			s.Pending++
		case models.StatusInProgress:
			s.InProgress++
		case models.StatusResolved:
			s.Resolved++
			if c.ResolvedAt != nil {
				resolutionHours += c.ResolvedAt.Sub(c.CreatedAt).Hours()
				resolvedWithTime++
			}
		}
		if c.AICategory != "" {
			s.CategoryCounts[c.AICategory]++
		}
	}

	if s.TotalComplaints > 0 {
		s.ResolutionRate = float64(s.Resolved) / float64(s.TotalComplaints) * 100
	}
	if resolvedWithTime > 0 {
		s.AvgResolutionHours = resolutionHours / float64(resolvedWithTime)
	}
	for category, count := range s.CategoryCounts {
		// Ties break toward the lexicographically smaller name so the
		// result is deterministic.
		if count > s.TopCategoryCount ||
			(count == s.TopCategoryCount && category < s.TopCategory) {
			s.TopCategory = category
			s.TopCategoryCount = count
		}
	}
	return s
}

// ComplaintLister is the slice of storage the dashboard needs.
type ComplaintLister interface {
	ListComplaints() ([]models.Complaint, error)
}

// Dashboard caches the aggregate snapshot and keeps it fresh against the
// change feed. Reads never hit the store while a cached snapshot exists.
type Dashboard struct {
	refresher *feed.Refresher
	sub       *feed.Subscriber

	mu      sync.RWMutex
	current Snapshot
	ready   bool
}

func NewDashboard(store ComplaintLister) *Dashboard {
	d := &Dashboard{}
	d.refresher = feed.NewRefresher(
		func(ctx context.Context) (interface{}, error) {
			complaints, err := store.ListComplaints()
			if err != nil {
				return nil, err
			}
			return Compute(complaints, time.Now()), nil
		},
		func(snapshot interface{}) {
			d.mu.Lock()
			d.current = snapshot.(Snapshot)
			d.ready = true
			d.mu.Unlock()
		},
	)
	return d
}

// Watch subscribes to complaint row changes and refreshes the snapshot on
// each one. Concurrent events coalesce onto a single re-fetch.
func (d *Dashboard) Watch(changeFeed feed.ChangeFeed) {
	d.sub = feed.Subscribe(changeFeed, feed.Filter{}, func(ev models.ChangeEvent) {
		if err := d.refresher.Refresh(context.Background()); err != nil {
			log.Printf("ERROR: Failed to refresh analytics snapshot: %v", err)
		}
	}, "complaints")
}

// Snapshot returns the cached aggregates, computing them first if no
// snapshot has been applied yet.
func (d *Dashboard) Snapshot(ctx context.Context) (Snapshot, error) {
	d.mu.RLock()
	ready := d.ready
	current := d.current
	d.mu.RUnlock()
	if ready {
		return current, nil
	}

	if err := d.refresher.Refresh(ctx); err != nil {
		return Snapshot{}, err
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.current, nil
}

// Close releases the change feed subscription.
func (d *Dashboard) Close() {
	if d.sub != nil {
		d.sub.Close()
	}
}
