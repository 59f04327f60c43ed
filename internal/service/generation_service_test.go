package service

import (
	"context"
	"testing"
	"time"

	"dimensa-be/internal/dto"
	"dimensa-be/internal/pkg/logger"
	"dimensa-be/pkg/pipeline"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRunner struct {
	calls    int
	got      pipeline.Request
	deadline time.Time
	err      error
}

func (s *stubRunner) Run(ctx context.Context, req pipeline.Request) (*pipeline.Result, error) {
	s.calls++
	s.got = req
	s.deadline, _ = ctx.Deadline()
	if s.err != nil {
		return nil, s.err
	}
	return &pipeline.Result{RunID: "run-1", SessionID: req.SessionID, Model: []byte("glb"), State: pipeline.StateDone}, nil
}

func TestGenerationService_EmptyPromptMakesNoCalls(t *testing.T) {
	for _, prompt := range []string{"", "   ", "\n\t"} {
		runner := &stubRunner{}
		svc := NewGenerationService(runner, time.Minute, logger.NewNopLogger())

		_, err := svc.Generate(context.Background(), &dto.GenerateRequest{SessionId: "s1", UserPrompt: prompt})

		assert.Equal(t, pipeline.KindInvalidRequest, pipeline.KindOf(err), "%q", prompt)
		assert.Equal(t, 0, runner.calls)
	}

	_, err := NewGenerationService(&stubRunner{}, time.Minute, logger.NewNopLogger()).Generate(context.Background(), nil)
	assert.Equal(t, pipeline.KindInvalidRequest, pipeline.KindOf(err))
}

func TestGenerationService_GeneratesSessionAndAppliesDeadline(t *testing.T) {
	runner := &stubRunner{}
	svc := NewGenerationService(runner, 90*time.Second, logger.NewNopLogger())

	start := time.Now()
	res, err := svc.Generate(context.Background(), &dto.GenerateRequest{UserPrompt: "  a floating lantern "})

	require.NoError(t, err)
	_, parseErr := uuid.Parse(res.SessionId)
	assert.NoError(t, parseErr)
	assert.Equal(t, "a floating lantern", runner.got.UserPrompt)
	assert.Equal(t, res.SessionId, runner.got.SessionID)
	assert.Equal(t, "model.glb", res.FileName)
	assert.WithinDuration(t, start.Add(90*time.Second), runner.deadline, 5*time.Second)
}

func TestGenerationService_PropagatesClassifiedErrors(t *testing.T) {
	runner := &stubRunner{err: pipeline.NewError(pipeline.KindUpstreamTimeout, pipeline.StageModel3D, context.DeadlineExceeded)}
	svc := NewGenerationService(runner, time.Minute, logger.NewNopLogger())

	_, err := svc.Generate(context.Background(), &dto.GenerateRequest{SessionId: "s1", UserPrompt: "x"})

	assert.Equal(t, pipeline.KindUpstreamTimeout, pipeline.KindOf(err))
}
