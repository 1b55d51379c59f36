package models

import "encoding/json"

// EventKind is the row-level operation carried by a change event.
type EventKind string

const (
	EventInsert EventKind = "insert"
	EventUpdate EventKind = "update"
	// EventAny is usable only in subscription filters, never on the wire.
	EventAny EventKind = "*"
)

// ChangeEvent is the wire form of a committed row change, published to
// Redis on channel "changes:<table>". Old is absent for inserts. The raw
// payloads are decoded once at the feed boundary into the typed entity for
// the table, never per consumer.
type ChangeEvent struct {
	Table string          `json:"table"`
	Kind  EventKind       `json:"kind"`
	Old   json.RawMessage `json:"old,omitempty"`
	New   json.RawMessage `json:"new,omitempty"`
}

// SoundCue selects the audio alert a dashboard plays for a notification.
type SoundCue string

const (
	SoundUrgent SoundCue = "urgent"
	SoundHigh   SoundCue = "high"
	SoundInfo   SoundCue = "info"
	SoundNone   SoundCue = "none"
)

// Notification is what the hub pushes to a dashboard client over the
// websocket: toast text, sound cue, whether the view should re-fetch, and
// whether to fire the resolution celebration animation.
type Notification struct {
	Message     string   `json:"message"`
	Sound       SoundCue `json:"sound"`
	Refresh     bool     `json:"refresh"`
	Celebrate   bool     `json:"celebrate"`
	ComplaintID string   `json:"complaint_id,omitempty"`
}
