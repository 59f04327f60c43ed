package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"dimensa-be/internal/pkg/logger"
	"dimensa-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type failingMirror struct{ calls int }

func (m *failingMirror) Publish(ctx context.Context, event events.Event) error {
	m.calls++
	return errors.New("nats: no responders available")
}

func TestPublisherAndConsumer_AuditPipelineEvents(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 8}, watermill.NopLogger{})
	defer pubSub.Close()

	core, logs := observer.New(zap.InfoLevel)
	audit := logger.NewFromZap(zap.New(core))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, NewConsumerService(pubSub, PipelineEventsTopic, audit).Consume(ctx))

	mirror := &failingMirror{}
	publisher := NewPublisherService(pubSub, PipelineEventsTopic, mirror, logger.NewNopLogger())

	evt := events.NewPipelineEvent(events.TypePipelineFailed, "run-1", "s1", 1500*time.Millisecond,
		map[string]interface{}{"kind": "upstream_timeout"})
	require.NoError(t, publisher.Publish(ctx, evt), "mirror failures are not returned")
	assert.Equal(t, 1, mirror.calls)

	require.Eventually(t, func() bool { return logs.Len() == 1 }, 2*time.Second, 10*time.Millisecond)

	entry := logs.All()[0]
	assert.Equal(t, "Pipeline run failed", entry.Message)
	details, ok := entry.ContextMap()["details"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, events.TypePipelineFailed, details["type"])
	assert.Equal(t, "run-1", details["run_id"])
	assert.Equal(t, "s1", details["session_id"])
	assert.Equal(t, "upstream_timeout", details["kind"])
}
