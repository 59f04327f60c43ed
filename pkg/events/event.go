package events

import (
	"context"
	"time"
)

// Event is a message published on the pipeline event bus.
type Event interface {
	EventType() string
	Payload() map[string]interface{}
	Timestamp() time.Time
}

// Publisher delivers events to a bus.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// Pipeline event types, one per orchestrator state transition.
const (
	TypePipelineExpanding       = "pipeline.expanding"
	TypePipelineImageGenerating = "pipeline.image_generating"
	TypePipelineModelGenerating = "pipeline.model_generating"
	TypePipelineDone            = "pipeline.done"
	TypePipelineFailed          = "pipeline.failed"
)

// PipelineEvent records one state transition of a run.
type PipelineEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e PipelineEvent) EventType() string               { return e.Type }
func (e PipelineEvent) Payload() map[string]interface{} { return e.Data }
func (e PipelineEvent) Timestamp() time.Time            { return e.OccurredAt }

// NewPipelineEvent describes a state transition of run runID. extra keys
// override the defaults.
func NewPipelineEvent(eventType, runID, sessionID string, elapsed time.Duration, extra map[string]interface{}) PipelineEvent {
	data := map[string]interface{}{
		"run_id":     runID,
		"session_id": sessionID,
		"elapsed_ms": elapsed.Milliseconds(),
	}
	for k, v := range extra {
		data[k] = v
	}
	return PipelineEvent{
		Type:       eventType,
		Data:       data,
		OccurredAt: time.Now().UTC(),
	}
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
