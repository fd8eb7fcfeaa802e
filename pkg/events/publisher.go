// Package events publishes post-commit notifications for processed
// transcripts so downstream tooling (chat front-end, dashboards) can react
// without polling the store.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/opencommittee/scribe/pkg/logging"
)

// Redis channel for meeting processing events.
const ChannelMeetingProcessed = "events.meeting.processed"

// BaseEvent contains common fields for all events.
type BaseEvent struct {
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
	Source    string    `json:"source"`
	Version   string    `json:"version"`
}

// NewBaseEvent creates a BaseEvent with sensible defaults.
func NewBaseEvent(eventType string) BaseEvent {
	return BaseEvent{
		EventType: eventType,
		Timestamp: time.Now().UTC(),
		Source:    "scribe",
		Version:   "1.0",
	}
}

// MeetingProcessedEvent is published after a meeting transaction commits.
type MeetingProcessedEvent struct {
	BaseEvent

	RunID       string `json:"run_id"`
	MeetingID   int64  `json:"meeting_id"`
	MeetingName string `json:"meeting_name"`
	MeetingType string `json:"meeting_type"`

	MembersIdentified int `json:"members_identified"`
	ProjectsLinked    int `json:"projects_linked"`
	TopicsLinked      int `json:"topics_linked"`
	NewTopicsCreated  int `json:"new_topics_created"`
	TasksCreated      int `json:"tasks_created"`
	SummaryLength     int `json:"summary_length"`
}

// Publisher publishes events to Redis pub/sub. A nil Publisher is valid and
// publishes nothing, so event delivery stays optional.
type Publisher struct {
	client *redis.Client
	logger logging.Logger
}

// NewPublisher creates a new event publisher.
func NewPublisher(client *redis.Client, logger logging.Logger) *Publisher {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Publisher{
		client: client,
		logger: logger.With(logging.F("component", "event_publisher")),
	}
}

// NewPublisherFromAddr creates a publisher with a new Redis connection.
func NewPublisherFromAddr(addr string, logger logging.Logger) (*Publisher, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}

	return NewPublisher(client, logger), nil
}

// PublishMeetingProcessed publishes the outcome of one processing run.
// Failure to publish is logged, never fatal; the meeting is already
// committed by the time this runs.
func (p *Publisher) PublishMeetingProcessed(ctx context.Context, event MeetingProcessedEvent) error {
	if p == nil || p.client == nil {
		return nil
	}
	event.BaseEvent = NewBaseEvent("meeting.processed")
	return p.publish(ctx, ChannelMeetingProcessed, event)
}

// Close releases the Redis connection.
func (p *Publisher) Close() error {
	if p == nil || p.client == nil {
		return nil
	}
	return p.client.Close()
}

func (p *Publisher) publish(ctx context.Context, channel string, event any) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshaling event: %w", err)
	}

	if err := p.client.Publish(ctx, channel, payload).Err(); err != nil {
		p.logger.Warn("event publish failed",
			logging.F("channel", channel),
			logging.Err(err))
		return fmt.Errorf("publishing to %s: %w", channel, err)
	}

	p.logger.Debug("event published", logging.F("channel", channel))
	return nil
}
