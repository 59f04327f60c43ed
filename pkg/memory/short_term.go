package memory

import (
	"context"
	"fmt"
	"time"

	"dimensa-be/internal/entity"
	"dimensa-be/internal/repository/contract"
)

// ShortTerm implements ShortTermStore over a repository backend.
type ShortTerm struct {
	repo contract.ShortTermMemoryRepository
	now  func() time.Time
}

func NewShortTerm(repo contract.ShortTermMemoryRepository) *ShortTerm {
	return &ShortTerm{repo: repo, now: time.Now}
}

func (s *ShortTerm) Put(ctx context.Context, sessionID, userPrompt, assistantResponse string) error {
	err := s.repo.Save(ctx, &entity.ShortTermMemory{
		SessionId:         sessionID,
		UserPrompt:        userPrompt,
		AssistantResponse: assistantResponse,
		UpdatedAt:         s.now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("%w: short-term put: %v", ErrMemoryUnavailable, err)
	}
	return nil
}

func (s *ShortTerm) Get(ctx context.Context, sessionID string) (*Record, bool, error) {
	m, err := s.repo.FindBySessionId(ctx, sessionID)
	if err != nil {
		return nil, false, fmt.Errorf("%w: short-term get: %v", ErrMemoryUnavailable, err)
	}
	if m == nil {
		return nil, false, nil
	}
	return &Record{
		SessionID:         m.SessionId,
		Timestamp:         m.UpdatedAt,
		UserPrompt:        m.UserPrompt,
		AssistantResponse: m.AssistantResponse,
	}, true, nil
}
