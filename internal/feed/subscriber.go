package feed

import (
	"encoding/json"
	"log"

	"resolve/backend/internal/models"

	"github.com/redis/go-redis/v9"
)

// Filter narrows which change events a subscription delivers. The zero value
// matches everything on the subscribed tables.
type Filter struct {
	Kind        models.EventKind // insert, update, or EventAny
	ComplaintID string           // match a single complaint thread
	StudentID   string           // match one student's complaints
}

type rowProbe struct {
	ID          string `json:"id"`
	ComplaintID string `json:"complaint_id"`
	StudentID   string `json:"student_id"`
}

// Matches reports whether an event passes the filter. Row scoping decodes
// only the identifying fields of the new row.
func (f Filter) Matches(ev models.ChangeEvent) bool {
	if f.Kind != "" && f.Kind != models.EventAny && f.Kind != ev.Kind {
		return false
	}
	if f.ComplaintID == "" && f.StudentID == "" {
		return true
	}

	var probe rowProbe
	if err := json.Unmarshal(ev.New, &probe); err != nil {
		return false
	}
	if f.ComplaintID != "" {
		// Complaint rows carry the id directly, comment rows reference it.
		if probe.ID != f.ComplaintID && probe.ComplaintID != f.ComplaintID {
			return false
		}
	}
	if f.StudentID != "" && probe.StudentID != f.StudentID {
		return false
	}
	return true
}

// Handler receives matching change events in transport order.
type Handler func(ev models.ChangeEvent)

// ChangeFeed is the slice of storage the subscriber needs.
type ChangeFeed interface {
	SubscribeChanges(tables ...string) *redis.PubSub
}

// Subscriber is one live subscription to row changes on a set of tables.
// Events are delivered on a dedicated goroutine in the order the transport
// emits them; there is no ordering guarantee across subscribers. Close must
// be called when the owning view goes away.
type Subscriber struct {
	pubsub *redis.PubSub
	done   chan struct{}
}

// Subscribe opens a subscription and starts delivering matching events to fn.
func Subscribe(feed ChangeFeed, filter Filter, fn Handler, tables ...string) *Subscriber {
	sub := &Subscriber{
		pubsub: feed.SubscribeChanges(tables...),
		done:   make(chan struct{}),
	}

	go func() {
		defer close(sub.done)
		for msg := range sub.pubsub.Channel() {
			var ev models.ChangeEvent
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				log.Printf("Error unmarshalling change event: %v", err)
				continue
			}
			if filter.Matches(ev) {
				fn(ev)
			}
		}
	}()

	return sub
}

// Close releases the underlying pub/sub channel and waits for the delivery
// goroutine to drain.
func (s *Subscriber) Close() error {
	err := s.pubsub.Close()
	<-s.done
	return err
}
