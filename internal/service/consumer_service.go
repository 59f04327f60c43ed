package service

import (
	"context"
	"encoding/json"

	"dimensa-be/internal/pkg/logger"
	"dimensa-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill/message"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService writes every pipeline event to the audit log.
type consumerService struct {
	subscriber message.Subscriber
	topicName  string
	audit      logger.ILogger
}

func NewConsumerService(subscriber message.Subscriber, topicName string, audit logger.ILogger) IConsumerService {
	return &consumerService{
		subscriber: subscriber,
		topicName:  topicName,
		audit:      audit,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(msg *message.Message) {
	var evt pipelineEventMessage
	if err := json.Unmarshal(msg.Payload, &evt); err != nil {
		cs.audit.Error("AUDIT", "Failed to unmarshal pipeline event", map[string]interface{}{
			"message_id": msg.UUID,
			"error":      err.Error(),
		})
		// Ack invalid messages to prevent infinite redelivery
		msg.Ack()
		return
	}

	details := map[string]interface{}{
		"type":        evt.Type,
		"occurred_at": evt.OccurredAt,
	}
	for k, v := range evt.Payload {
		details[k] = v
	}

	if evt.Type == events.TypePipelineFailed {
		cs.audit.Warn("AUDIT", "Pipeline run failed", details)
	} else {
		cs.audit.Info("AUDIT", "Pipeline state changed", details)
	}
	msg.Ack()
}
