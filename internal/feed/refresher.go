package feed

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"
)

// FetchFunc re-queries everything a view needs and returns the snapshot.
type FetchFunc func(ctx context.Context) (interface{}, error)

// ApplyFunc replaces the view's rendered state with a snapshot. It is always
// called with the refresher's mutex held, so applications are atomic with
// respect to each other.
type ApplyFunc func(snapshot interface{})

// Refresher re-fetches a view's canonical state on demand. Concurrent calls
// coalesce onto a single in-flight fetch, and results carry a generation
// number so a late, stale response can never overwrite the state produced by
// a newer fetch: last write wins by generation, not by arrival time.
type Refresher struct {
	fetch FetchFunc
	apply ApplyFunc

	group singleflight.Group

	mu      sync.Mutex
	gen     uint64 // generation assigned when a fetch starts
	applied uint64 // generation of the snapshot currently applied
}

func NewRefresher(fetch FetchFunc, apply ApplyFunc) *Refresher {
	return &Refresher{fetch: fetch, apply: apply}
}

type fetchResult struct {
	gen      uint64
	snapshot interface{}
}

// Refresh runs (or joins) a fetch and applies the result unless a newer
// snapshot has already been applied. Safe for concurrent use.
func (r *Refresher) Refresh(ctx context.Context) error {
	v, err, _ := r.group.Do("view", func() (interface{}, error) {
		r.mu.Lock()
		r.gen++
		gen := r.gen
		r.mu.Unlock()

		snapshot, err := r.fetch(ctx)
		if err != nil {
			return nil, err
		}
		return fetchResult{gen: gen, snapshot: snapshot}, nil
	})
	if err != nil {
		return err
	}

	res := v.(fetchResult)
	r.mu.Lock()
	defer r.mu.Unlock()
	if res.gen <= r.applied {
		// A newer fetch already landed, or a sharer of this flight
		// applied the same snapshot. Discard.
		return nil
	}
	r.applied = res.gen
	r.apply(res.snapshot)
	return nil
}
