package feed_test

import (
	"encoding/json"
	"testing"

	"resolve/backend/internal/feed"
	"resolve/backend/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestFilter_Matches(t *testing.T) {
	complaintRow := json.RawMessage(`{"id":"cmp-1","student_id":"stu-1"}`)
	commentRow := json.RawMessage(`{"id":"com-1","complaint_id":"cmp-1"}`)

	insert := models.ChangeEvent{Table: "complaints", Kind: models.EventInsert, New: complaintRow}
	update := models.ChangeEvent{Table: "complaints", Kind: models.EventUpdate, New: complaintRow}
	comment := models.ChangeEvent{Table: "comments", Kind: models.EventInsert, New: commentRow}

	tests := []struct {
		name   string
		filter feed.Filter
		ev     models.ChangeEvent
		want   bool
	}{
		{"zero filter matches everything", feed.Filter{}, insert, true},
		{"kind match", feed.Filter{Kind: models.EventInsert}, insert, true},
		{"kind mismatch", feed.Filter{Kind: models.EventInsert}, update, false},
		{"any kind", feed.Filter{Kind: models.EventAny}, update, true},
		{"complaint id on complaint row", feed.Filter{ComplaintID: "cmp-1"}, insert, true},
		{"complaint id on comment row", feed.Filter{ComplaintID: "cmp-1"}, comment, true},
		{"complaint id mismatch", feed.Filter{ComplaintID: "cmp-2"}, insert, false},
		{"student scope", feed.Filter{StudentID: "stu-1"}, insert, true},
		{"student scope mismatch", feed.Filter{StudentID: "stu-2"}, insert, false},
		{"kind and row scope combined", feed.Filter{Kind: models.EventUpdate, ComplaintID: "cmp-1"}, update, true},
		{"undecodable row", feed.Filter{ComplaintID: "cmp-1"}, models.ChangeEvent{New: json.RawMessage(`nope`)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filter.Matches(tt.ev))
		})
	}
}
