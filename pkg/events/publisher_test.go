package events

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencommittee/scribe/pkg/logging"
)

func TestNilPublisherIsNoop(t *testing.T) {
	var p *Publisher

	err := p.PublishMeetingProcessed(context.Background(), MeetingProcessedEvent{MeetingID: 1})
	assert.NoError(t, err)
	assert.NoError(t, p.Close())
}

func TestPublisherWithoutClientIsNoop(t *testing.T) {
	p := NewPublisher(nil, logging.NewNopLogger())

	err := p.PublishMeetingProcessed(context.Background(), MeetingProcessedEvent{MeetingID: 1})
	assert.NoError(t, err)
}

func TestNewBaseEvent(t *testing.T) {
	e := NewBaseEvent("meeting.processed")

	assert.Equal(t, "meeting.processed", e.EventType)
	assert.Equal(t, "scribe", e.Source)
	assert.Equal(t, "1.0", e.Version)
	assert.False(t, e.Timestamp.IsZero())
}

func TestMeetingProcessedEventShape(t *testing.T) {
	e := MeetingProcessedEvent{
		BaseEvent:         NewBaseEvent("meeting.processed"),
		RunID:             "run-1",
		MeetingID:         42,
		MeetingName:       "weekly sync",
		MeetingType:       "full",
		MembersIdentified: 3,
		NewTopicsCreated:  1,
		TasksCreated:      2,
		SummaryLength:     512,
	}

	payload, err := json.Marshal(e)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(payload, &decoded))
	assert.Equal(t, "meeting.processed", decoded["event_type"])
	assert.Equal(t, float64(42), decoded["meeting_id"])
	assert.Equal(t, "weekly sync", decoded["meeting_name"])
	assert.Equal(t, float64(1), decoded["new_topics_created"])
}
