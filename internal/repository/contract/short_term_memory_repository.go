package contract

import (
	"context"

	"dimensa-be/internal/entity"
)

// ShortTermMemoryRepository keeps one entry per session, last write wins.
type ShortTermMemoryRepository interface {
	Save(ctx context.Context, memory *entity.ShortTermMemory) error
	// FindBySessionId returns nil, nil when the session has no entry.
	FindBySessionId(ctx context.Context, sessionId string) (*entity.ShortTermMemory, error)
}
