package feed_test

import (
	"encoding/json"
	"errors"
	"testing"

	"resolve/backend/internal/feed"
	"resolve/backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockLookup struct {
	mock.Mock
}

func (m *MockLookup) StudentName(userID string) (string, error) {
	args := m.Called(userID)
	return args.String(0), args.Error(1)
}

func (m *MockLookup) ComplaintTitle(complaintID string) (string, error) {
	args := m.Called(complaintID)
	return args.String(0), args.Error(1)
}

func (m *MockLookup) ComplaintOwner(complaintID string) (string, error) {
	args := m.Called(complaintID)
	return args.String(0), args.Error(1)
}

func mustJSON(t *testing.T, v interface{}) json.RawMessage {
	t.Helper()
	data, err := json.Marshal(v)
	assert.NoError(t, err)
	return data
}

func complaintInsert(t *testing.T, c models.Complaint) models.ChangeEvent {
	return models.ChangeEvent{Table: "complaints", Kind: models.EventInsert, New: mustJSON(t, c)}
}

func complaintUpdate(t *testing.T, before, after models.Complaint) models.ChangeEvent {
	return models.ChangeEvent{Table: "complaints", Kind: models.EventUpdate, Old: mustJSON(t, before), New: mustJSON(t, after)}
}

func commentInsert(t *testing.T, c models.Comment) models.ChangeEvent {
	return models.ChangeEvent{Table: "comments", Kind: models.EventInsert, New: mustJSON(t, c)}
}

func TestClassifier_AdminNotifiedOnInsert(t *testing.T) {
	lookup := new(MockLookup)
	lookup.On("StudentName", "stu-1").Return("Alice", nil)
	c := feed.NewClassifier(lookup, feed.NewTransitionLog())

	ev := complaintInsert(t, models.Complaint{
		ID:        "cmp-1",
		StudentID: "stu-1",
		Title:     "Projector broken",
		Severity:  models.SeverityUrgent,
	})

	d := c.Classify(ev, feed.Viewer{UserID: "adm-1", Role: models.RoleAdmin})

	assert.True(t, d.Refresh)
	assert.NotNil(t, d.Notification)
	assert.Equal(t, "🚨 New urgent complaint from Alice: Projector broken", d.Notification.Message)
	assert.Equal(t, models.SoundUrgent, d.Notification.Sound)
	assert.Equal(t, "cmp-1", d.Notification.ComplaintID)
}

// Severity drives both the emoji and the sound cue of admin insert toasts.
func TestClassifier_InsertSeverityCues(t *testing.T) {
	tests := []struct {
		severity models.Severity
		emoji    string
		sound    models.SoundCue
	}{
		{models.SeverityUrgent, "🚨", models.SoundUrgent},
		{models.SeverityHigh, "⚠️", models.SoundHigh},
		{models.SeverityMedium, "📋", models.SoundInfo},
		{models.SeverityLow, "📝", models.SoundInfo},
	}

	for _, tt := range tests {
		t.Run(string(tt.severity), func(t *testing.T) {
			lookup := new(MockLookup)
			lookup.On("StudentName", "stu-1").Return("Alice", nil)
			c := feed.NewClassifier(lookup, feed.NewTransitionLog())

			ev := complaintInsert(t, models.Complaint{
				ID: "cmp-1", StudentID: "stu-1", Title: "Wifi down", Severity: tt.severity,
			})
			d := c.Classify(ev, feed.Viewer{UserID: "adm-1", Role: models.RoleAdmin})

			assert.NotNil(t, d.Notification)
			assert.Contains(t, d.Notification.Message, tt.emoji)
			assert.Equal(t, tt.sound, d.Notification.Sound)
		})
	}
}

// A failed profile lookup must not suppress the toast, only its decoration.
func TestClassifier_InsertNameFallback(t *testing.T) {
	lookup := new(MockLookup)
	lookup.On("StudentName", "stu-1").Return("", errors.New("db down"))
	c := feed.NewClassifier(lookup, feed.NewTransitionLog())

	ev := complaintInsert(t, models.Complaint{
		ID: "cmp-1", StudentID: "stu-1", Title: "Wifi down", Severity: models.SeverityLow,
	})
	d := c.Classify(ev, feed.Viewer{UserID: "adm-1", Role: models.RoleAdmin})

	assert.NotNil(t, d.Notification)
	assert.Equal(t, "📝 New low complaint from Student: Wifi down", d.Notification.Message)
}

func TestClassifier_StudentInsertVisibility(t *testing.T) {
	lookup := new(MockLookup)
	c := feed.NewClassifier(lookup, feed.NewTransitionLog())

	ev := complaintInsert(t, models.Complaint{
		ID: "cmp-1", StudentID: "stu-1", Title: "Wifi down", Severity: models.SeverityLow,
	})

	// Own submission: silent refresh.
	own := c.Classify(ev, feed.Viewer{UserID: "stu-1", Role: models.RoleStudent})
	assert.True(t, own.Refresh)
	assert.Nil(t, own.Notification)

	// Someone else's submission: nothing at all.
	other := c.Classify(ev, feed.Viewer{UserID: "stu-2", Role: models.RoleStudent})
	assert.False(t, other.Refresh)
	assert.Nil(t, other.Notification)
}

// Escalation toasts are edge-triggered: only the transition into urgent
// counts, re-saving an already urgent complaint stays quiet.
func TestClassifier_AdminUrgentEdge(t *testing.T) {
	lookup := new(MockLookup)
	c := feed.NewClassifier(lookup, feed.NewTransitionLog())
	admin := feed.Viewer{UserID: "adm-1", Role: models.RoleAdmin}

	base := models.Complaint{ID: "cmp-1", StudentID: "stu-1", Title: "Wifi down"}

	old := base
	old.Severity = models.SeverityHigh
	escalated := base
	escalated.Severity = models.SeverityUrgent

	d := c.Classify(complaintUpdate(t, old, escalated), admin)
	assert.True(t, d.Refresh)
	assert.NotNil(t, d.Notification)
	assert.Equal(t, "🚨 Complaint escalated to urgent: Wifi down", d.Notification.Message)
	assert.Equal(t, models.SoundUrgent, d.Notification.Sound)

	// Already urgent before and after: refresh only.
	again := c.Classify(complaintUpdate(t, escalated, escalated), admin)
	assert.True(t, again.Refresh)
	assert.Nil(t, again.Notification)
}

func TestClassifier_StudentStatusChange(t *testing.T) {
	lookup := new(MockLookup)
	c := feed.NewClassifier(lookup, feed.NewTransitionLog())
	owner := feed.Viewer{UserID: "stu-1", Role: models.RoleStudent}

	old := models.Complaint{ID: "cmp-1", StudentID: "stu-1", Title: "Wifi down", Status: models.StatusPending}
	updated := old
	updated.Status = models.StatusInProgress

	d := c.Classify(complaintUpdate(t, old, updated), owner)
	assert.True(t, d.Refresh)
	assert.NotNil(t, d.Notification)
	assert.Equal(t, "Status changed to In Progress: Wifi down", d.Notification.Message)
	assert.False(t, d.Notification.Celebrate)

	// Update without a status change: silent refresh.
	touched := c.Classify(complaintUpdate(t, updated, updated), owner)
	assert.True(t, touched.Refresh)
	assert.Nil(t, touched.Notification)

	// Someone else's complaint: nothing.
	stranger := c.Classify(complaintUpdate(t, old, updated), feed.Viewer{UserID: "stu-2", Role: models.RoleStudent})
	assert.False(t, stranger.Refresh)
	assert.Nil(t, stranger.Notification)
}

// The celebration fires exactly once per complaint, even when the resolved
// transition is delivered more than once.
func TestClassifier_CelebrationIdempotent(t *testing.T) {
	lookup := new(MockLookup)
	c := feed.NewClassifier(lookup, feed.NewTransitionLog())
	owner := feed.Viewer{UserID: "stu-1", Role: models.RoleStudent}

	old := models.Complaint{ID: "cmp-1", StudentID: "stu-1", Title: "Wifi down", Status: models.StatusInProgress}
	resolved := old
	resolved.Status = models.StatusResolved

	first := c.Classify(complaintUpdate(t, old, resolved), owner)
	assert.NotNil(t, first.Notification)
	assert.True(t, first.Notification.Celebrate)

	// Duplicate delivery of the same transition.
	second := c.Classify(complaintUpdate(t, old, resolved), owner)
	assert.NotNil(t, second.Notification)
	assert.False(t, second.Notification.Celebrate)
}

// A reopened complaint celebrates again when it is genuinely resolved a
// second time. The log must track every status change, not just resolutions.
func TestClassifier_CelebrationAfterReopen(t *testing.T) {
	lookup := new(MockLookup)
	c := feed.NewClassifier(lookup, feed.NewTransitionLog())
	owner := feed.Viewer{UserID: "stu-1", Role: models.RoleStudent}

	pending := models.Complaint{ID: "cmp-1", StudentID: "stu-1", Title: "Wifi down", Status: models.StatusInProgress}
	resolved := pending
	resolved.Status = models.StatusResolved

	first := c.Classify(complaintUpdate(t, pending, resolved), owner)
	assert.True(t, first.Notification.Celebrate)

	// Admin reopens, then resolves again.
	reopened := c.Classify(complaintUpdate(t, resolved, pending), owner)
	assert.NotNil(t, reopened.Notification)
	assert.False(t, reopened.Notification.Celebrate)

	again := c.Classify(complaintUpdate(t, pending, resolved), owner)
	assert.NotNil(t, again.Notification)
	assert.True(t, again.Notification.Celebrate, "a second genuine resolution should celebrate again")
}

func TestClassifier_CommentRouting(t *testing.T) {
	comment := models.Comment{ID: "com-1", ComplaintID: "cmp-1", UserID: "stu-1", Content: "any news?"}
	adminReply := models.Comment{ID: "com-2", ComplaintID: "cmp-1", UserID: "adm-1", Content: "on it", IsAdminReply: true}

	t.Run("admin sees student comments", func(t *testing.T) {
		lookup := new(MockLookup)
		lookup.On("ComplaintTitle", "cmp-1").Return("Wifi down", nil)
		c := feed.NewClassifier(lookup, feed.NewTransitionLog())

		d := c.Classify(commentInsert(t, comment), feed.Viewer{UserID: "adm-1", Role: models.RoleAdmin})
		assert.NotNil(t, d.Notification)
		assert.Equal(t, "💬 Student added a new comment on Wifi down", d.Notification.Message)
	})

	t.Run("admin replies are silent refresh for admins", func(t *testing.T) {
		lookup := new(MockLookup)
		c := feed.NewClassifier(lookup, feed.NewTransitionLog())

		d := c.Classify(commentInsert(t, adminReply), feed.Viewer{UserID: "adm-2", Role: models.RoleAdmin})
		assert.True(t, d.Refresh)
		assert.Nil(t, d.Notification)
	})

	t.Run("owner notified of admin reply", func(t *testing.T) {
		lookup := new(MockLookup)
		lookup.On("ComplaintOwner", "cmp-1").Return("stu-1", nil)
		lookup.On("ComplaintTitle", "cmp-1").Return("Wifi down", nil)
		c := feed.NewClassifier(lookup, feed.NewTransitionLog())

		d := c.Classify(commentInsert(t, adminReply), feed.Viewer{UserID: "stu-1", Role: models.RoleStudent})
		assert.NotNil(t, d.Notification)
		assert.Equal(t, "💬 Admin replied on Wifi down", d.Notification.Message)
	})

	t.Run("other students stay silent", func(t *testing.T) {
		lookup := new(MockLookup)
		lookup.On("ComplaintOwner", "cmp-1").Return("stu-1", nil)
		c := feed.NewClassifier(lookup, feed.NewTransitionLog())

		d := c.Classify(commentInsert(t, adminReply), feed.Viewer{UserID: "stu-2", Role: models.RoleStudent})
		assert.False(t, d.Refresh)
		assert.Nil(t, d.Notification)
	})

	t.Run("owner lookup failure suppresses", func(t *testing.T) {
		lookup := new(MockLookup)
		lookup.On("ComplaintOwner", "cmp-1").Return("", errors.New("db down"))
		c := feed.NewClassifier(lookup, feed.NewTransitionLog())

		d := c.Classify(commentInsert(t, adminReply), feed.Viewer{UserID: "stu-1", Role: models.RoleStudent})
		assert.False(t, d.Refresh)
		assert.Nil(t, d.Notification)
	})
}

// The comment event can arrive before the complaint row is readable. The
// classifier still toasts, falling back to the generic title.
func TestClassifier_CommentBeforeComplaintVisible(t *testing.T) {
	lookup := new(MockLookup)
	lookup.On("ComplaintTitle", "cmp-9").Return("", nil)
	c := feed.NewClassifier(lookup, feed.NewTransitionLog())

	comment := models.Comment{ID: "com-1", ComplaintID: "cmp-9", UserID: "stu-1", Content: "first"}
	d := c.Classify(commentInsert(t, comment), feed.Viewer{UserID: "adm-1", Role: models.RoleAdmin})

	assert.NotNil(t, d.Notification)
	assert.Equal(t, "💬 Student added a new comment on a complaint", d.Notification.Message)
}

func TestClassifier_UnknownTableIgnored(t *testing.T) {
	c := feed.NewClassifier(new(MockLookup), feed.NewTransitionLog())
	d := c.Classify(models.ChangeEvent{Table: "ratings", Kind: models.EventInsert}, feed.Viewer{UserID: "adm-1", Role: models.RoleAdmin})
	assert.False(t, d.Refresh)
	assert.Nil(t, d.Notification)
}
