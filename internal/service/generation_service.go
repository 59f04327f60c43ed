package service

import (
	"context"
	"strings"
	"time"

	"dimensa-be/internal/constant"
	"dimensa-be/internal/dto"
	"dimensa-be/internal/pkg/logger"
	"dimensa-be/internal/pkg/serverutils"
	"dimensa-be/pkg/pipeline"

	"github.com/google/uuid"
)

type IGenerationService interface {
	Generate(ctx context.Context, req *dto.GenerateRequest) (*dto.GenerateResult, error)
}

// PipelineRunner executes one orchestrator run.
type PipelineRunner interface {
	Run(ctx context.Context, req pipeline.Request) (*pipeline.Result, error)
}

type generationService struct {
	runner  PipelineRunner
	timeout time.Duration
	logger  logger.ILogger
}

func NewGenerationService(runner PipelineRunner, timeout time.Duration, log logger.ILogger) IGenerationService {
	return &generationService{
		runner:  runner,
		timeout: timeout,
		logger:  log,
	}
}

func (s *generationService) Generate(ctx context.Context, req *dto.GenerateRequest) (*dto.GenerateResult, error) {
	if req == nil {
		return nil, pipeline.NewError(pipeline.KindInvalidRequest, pipeline.StageRequest, pipeline.ErrEmptyPrompt)
	}

	accepted := dto.GenerateRequest{
		SessionId:  strings.TrimSpace(req.SessionId),
		UserPrompt: strings.TrimSpace(req.UserPrompt),
	}
	if err := serverutils.ValidateRequest(accepted); err != nil {
		return nil, pipeline.NewError(pipeline.KindInvalidRequest, pipeline.StageRequest, err)
	}
	if accepted.SessionId == "" {
		accepted.SessionId = uuid.NewString()
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	res, err := s.runner.Run(ctx, pipeline.Request{
		SessionID:  accepted.SessionId,
		UserPrompt: accepted.UserPrompt,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("GENERATION", "Model generated", map[string]interface{}{
		"run_id":      res.RunID,
		"session_id":  res.SessionID,
		"model_bytes": len(res.Model),
		"duration_ms": time.Since(start).Milliseconds(),
	})

	return &dto.GenerateResult{
		RunId:          res.RunID,
		SessionId:      res.SessionID,
		ExpandedPrompt: res.ExpandedPrompt,
		FileName:       constant.ModelFileName,
		Model:          res.Model,
	}, nil
}
