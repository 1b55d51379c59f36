package feed

import (
	"encoding/json"
	"fmt"
	"log"

	"resolve/backend/internal/models"
)

// Viewer identifies who is looking at a dashboard when an event arrives.
type Viewer struct {
	UserID string
	Role   models.Role
}

// Lookup resolves display data the classifier needs beyond the event rows.
// Implementations hit the store; failures must be non-fatal.
type Lookup interface {
	StudentName(userID string) (string, error)
	ComplaintTitle(complaintID string) (string, error)
	ComplaintOwner(complaintID string) (string, error)
}

// Decision is what the classifier derives from one change event for one
// viewer. A nil Notification means stay silent; Refresh alone means the view
// should re-fetch without toasting.
type Decision struct {
	Notification *models.Notification
	Refresh      bool
}

// Classifier turns row change events into per-viewer notification decisions.
// It holds no view state beyond the shared transition log.
type Classifier struct {
	Lookup      Lookup
	Transitions *TransitionLog
}

func NewClassifier(lookup Lookup, transitions *TransitionLog) *Classifier {
	return &Classifier{Lookup: lookup, Transitions: transitions}
}

func severityEmoji(s models.Severity) string {
	switch s {
	case models.SeverityUrgent:
		return "🚨"
	case models.SeverityHigh:
		return "⚠️"
	case models.SeverityMedium:
		return "📋"
	default:
		return "📝"
	}
}

func severitySound(s models.Severity) models.SoundCue {
	switch s {
	case models.SeverityUrgent:
		return models.SoundUrgent
	case models.SeverityHigh:
		return models.SoundHigh
	default:
		return models.SoundInfo
	}
}

// Classify inspects a change event and decides whether the viewer should be
// notified, at what severity, and whether the view should refresh. Events
// for tables the classifier does not know are ignored. Comment and complaint
// events for the same logical action are classified independently, in
// whichever order they arrive.
func (c *Classifier) Classify(ev models.ChangeEvent, viewer Viewer) Decision {
	switch ev.Table {
	case "complaints":
		return c.classifyComplaint(ev, viewer)
	case "comments":
		return c.classifyComment(ev, viewer)
	}
	return Decision{}
}

func (c *Classifier) classifyComplaint(ev models.ChangeEvent, viewer Viewer) Decision {
	var newRow models.Complaint
	if err := json.Unmarshal(ev.New, &newRow); err != nil {
		log.Printf("Error decoding complaint change event: %v", err)
		return Decision{}
	}

	switch ev.Kind {
	case models.EventInsert:
		if viewer.Role == models.RoleAdmin {
			name := c.studentName(newRow.StudentID)
			return Decision{
				Refresh: true,
				Notification: &models.Notification{
					Message: fmt.Sprintf("%s New %s complaint from %s: %s",
						severityEmoji(newRow.Severity), newRow.Severity, name, newRow.Title),
					Sound:       severitySound(newRow.Severity),
					Refresh:     true,
					ComplaintID: newRow.ID,
				},
			}
		}
		// Students refresh only for their own submissions.
		return Decision{Refresh: newRow.StudentID == viewer.UserID}

	case models.EventUpdate:
		var oldRow models.Complaint
		if err := json.Unmarshal(ev.Old, &oldRow); err != nil {
			log.Printf("Error decoding complaint change event: %v", err)
			return Decision{}
		}

		if viewer.Role == models.RoleAdmin {
			d := Decision{Refresh: true}
			// Edge-triggered: only the moment severity becomes urgent.
			if newRow.Severity == models.SeverityUrgent && oldRow.Severity != models.SeverityUrgent {
				d.Notification = &models.Notification{
					Message:     fmt.Sprintf("🚨 Complaint escalated to urgent: %s", newRow.Title),
					Sound:       models.SoundUrgent,
					Refresh:     true,
					ComplaintID: newRow.ID,
				}
			}
			return d
		}

		if newRow.StudentID != viewer.UserID {
			return Decision{}
		}
		d := Decision{Refresh: true}
		if oldRow.Status != newRow.Status {
			// Every status change is recorded, so the log tracks the
			// full lifecycle. A reopened complaint celebrates again on
			// its next resolution; a replayed event does not.
			edge := c.Transitions.Observe(newRow.ID, newRow.Status)
			n := &models.Notification{
				Message:     fmt.Sprintf("Status changed to %s: %s", newRow.Status.Label(), newRow.Title),
				Sound:       models.SoundInfo,
				Refresh:     true,
				ComplaintID: newRow.ID,
			}
			if newRow.Status == models.StatusResolved && edge {
				n.Celebrate = true
			}
			d.Notification = n
		}
		return d
	}
	return Decision{}
}

func (c *Classifier) classifyComment(ev models.ChangeEvent, viewer Viewer) Decision {
	if ev.Kind != models.EventInsert {
		return Decision{}
	}

	var comment models.Comment
	if err := json.Unmarshal(ev.New, &comment); err != nil {
		log.Printf("Error decoding comment change event: %v", err)
		return Decision{}
	}

	if viewer.Role == models.RoleAdmin {
		// Admins only care about student replies.
		if comment.IsAdminReply {
			return Decision{Refresh: true}
		}
		title := c.complaintTitle(comment.ComplaintID)
		return Decision{
			Refresh: true,
			Notification: &models.Notification{
				Message:     fmt.Sprintf("💬 Student added a new comment on %s", title),
				Sound:       models.SoundInfo,
				Refresh:     true,
				ComplaintID: comment.ComplaintID,
			},
		}
	}

	// Students only care about admin replies on their own complaints.
	if !comment.IsAdminReply {
		return Decision{}
	}
	owner, err := c.Lookup.ComplaintOwner(comment.ComplaintID)
	if err != nil {
		// Ownership is routing, not decoration: without it we cannot
		// tell whose dashboard this belongs on, so stay silent.
		log.Printf("Error resolving complaint owner for comment %s: %v", comment.ID, err)
		return Decision{}
	}
	if owner != viewer.UserID {
		return Decision{}
	}
	title := c.complaintTitle(comment.ComplaintID)
	return Decision{
		Refresh: true,
		Notification: &models.Notification{
			Message:     fmt.Sprintf("💬 Admin replied on %s", title),
			Sound:       models.SoundInfo,
			Refresh:     true,
			ComplaintID: comment.ComplaintID,
		},
	}
}

// studentName resolves the submitter's display name, falling back to the
// generic label when the lookup fails or no profile exists.
func (c *Classifier) studentName(userID string) string {
	name, err := c.Lookup.StudentName(userID)
	if err != nil || name == "" {
		return "Student"
	}
	return name
}

func (c *Classifier) complaintTitle(complaintID string) string {
	title, err := c.Lookup.ComplaintTitle(complaintID)
	if err != nil || title == "" {
		return "a complaint"
	}
	return title
}
