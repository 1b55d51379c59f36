package feed

import (
	"log"

	"resolve/backend/internal/models"
	"resolve/backend/internal/storage"
)

// Hub owns the live dashboard connections and fans change events out to
// them. Every committed row change published by the storage layer arrives on
// EventsCh; the hub runs each one through the classifier per connected
// viewer and pushes the resulting notifications.
type Hub struct {
	Clients map[string]Client

	RegisterCh   chan Client
	UnregisterCh chan Client
	EventsCh     chan models.ChangeEvent

	Storage    storage.Storage
	classifier *Classifier
}

func NewHub(s storage.Storage) *Hub {
	return &Hub{
		Clients:      make(map[string]Client),
		RegisterCh:   make(chan Client),
		UnregisterCh: make(chan Client),
		EventsCh:     make(chan models.ChangeEvent, 64),
		Storage:      s,
		classifier:   NewClassifier(storageLookup{s}, NewTransitionLog()),
	}
}

// StartFeedListener запускає підписку, яка слухає Redis Pub/Sub
func (h *Hub) StartFeedListener() *Subscriber {
	return Subscribe(h.Storage, Filter{}, func(ev models.ChangeEvent) {
		h.EventsCh <- ev
	}, "complaints", "comments")
}

// Run is the hub's main dispatch loop. The feed listener is started
// separately so the loop itself has no Redis dependency.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.RegisterCh:
			if old, ok := h.Clients[client.GetUserID()]; ok {
				old.Close()
			}
			h.Clients[client.GetUserID()] = client
			log.Printf("Dashboard client registered: %s (%s)", client.GetUserID(), client.GetRole())

		case client := <-h.UnregisterCh:
			if current, ok := h.Clients[client.GetUserID()]; ok && current == client {
				delete(h.Clients, client.GetUserID())
				client.Close()
			}

		case ev := <-h.EventsCh:
			h.dispatch(ev)
		}
	}
}

// dispatch classifies one event for every connected viewer and pushes the
// decisions out. A slow client loses its connection rather than stalling the
// loop.
func (h *Hub) dispatch(ev models.ChangeEvent) {
	for _, client := range h.Clients {
		viewer := Viewer{UserID: client.GetUserID(), Role: client.GetRole()}
		decision := h.classifier.Classify(ev, viewer)
		if decision.Notification == nil {
			if decision.Refresh {
				h.push(client, models.Notification{Sound: models.SoundNone, Refresh: true})
			}
			continue
		}
		h.push(client, *decision.Notification)
	}
}

func (h *Hub) push(client Client, n models.Notification) {
	select {
	case client.GetSendChannel() <- n:
	default:
		// Клієнт повільний — закриваємо з'єднання
		delete(h.Clients, client.GetUserID())
		client.Close()
	}
}

// storageLookup adapts the storage service to the classifier's Lookup.
type storageLookup struct {
	s storage.Storage
}

func (l storageLookup) StudentName(userID string) (string, error) {
	profile, err := l.s.GetProfile(userID)
	if err != nil {
		return "", err
	}
	if profile == nil {
		return "", nil
	}
	return profile.FullName, nil
}

func (l storageLookup) ComplaintTitle(complaintID string) (string, error) {
	c, err := l.s.GetComplaintByID(complaintID)
	if err != nil {
		return "", err
	}
	if c == nil {
		return "", nil
	}
	return c.Title, nil
}

func (l storageLookup) ComplaintOwner(complaintID string) (string, error) {
	c, err := l.s.GetComplaintByID(complaintID)
	if err != nil {
		return "", err
	}
	if c == nil {
		return "", nil
	}
	return c.StudentID, nil
}
