package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"dimensa-be/internal/pkg/logger"
	"dimensa-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

// PipelineEventsTopic is the in-process topic carrying pipeline state transitions.
const PipelineEventsTopic = "pipeline.events"

const metadataEventType = "event_type"

type IPublisherService interface {
	Publish(ctx context.Context, event events.Event) error
}

// pipelineEventMessage is the wire shape of an event on the in-process bus.
type pipelineEventMessage struct {
	Type       string                 `json:"type"`
	Payload    map[string]interface{} `json:"payload"`
	OccurredAt string                 `json:"occurred_at"`
}

type publisherService struct {
	publisher message.Publisher
	topicName string
	mirror    events.Publisher
	logger    logger.ILogger
}

// NewPublisherService publishes events on topicName and, when mirror is not
// nil, forwards them to it. Mirror failures are logged, never returned.
func NewPublisherService(publisher message.Publisher, topicName string, mirror events.Publisher, log logger.ILogger) IPublisherService {
	return &publisherService{
		publisher: publisher,
		topicName: topicName,
		mirror:    mirror,
		logger:    log,
	}
}

func (ps *publisherService) Publish(ctx context.Context, event events.Event) error {
	body, err := json.Marshal(pipelineEventMessage{
		Type:       event.EventType(),
		Payload:    event.Payload(),
		OccurredAt: event.Timestamp().Format(time.RFC3339Nano),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal event %s: %w", event.EventType(), err)
	}

	msg := message.NewMessage(watermill.NewUUID(), body)
	msg.Metadata.Set(metadataEventType, event.EventType())
	msg.SetContext(ctx)

	if err := ps.publisher.Publish(ps.topicName, msg); err != nil {
		return fmt.Errorf("failed to publish event %s: %w", event.EventType(), err)
	}

	if ps.mirror != nil {
		if err := ps.mirror.Publish(ctx, event); err != nil {
			ps.logger.Warn("EVENTS", "Failed to mirror event to NATS", map[string]interface{}{
				"type":  event.EventType(),
				"error": err.Error(),
			})
		}
	}
	return nil
}
