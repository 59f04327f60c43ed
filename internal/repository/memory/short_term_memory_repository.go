package memory

import (
	"context"

	"dimensa-be/internal/entity"
	"dimensa-be/internal/repository/contract"

	"github.com/patrickmn/go-cache"
)

type ShortTermMemoryRepository struct {
	cache *cache.Cache
}

var _ contract.ShortTermMemoryRepository = &ShortTermMemoryRepository{}

func NewShortTermMemoryRepository() *ShortTermMemoryRepository {
	// Entries live for the process lifetime; nothing to purge.
	c := cache.New(cache.NoExpiration, 0)
	return &ShortTermMemoryRepository{
		cache: c,
	}
}

func (r *ShortTermMemoryRepository) Save(ctx context.Context, memory *entity.ShortTermMemory) error {
	stored := *memory
	r.cache.Set(memory.SessionId, &stored, cache.NoExpiration)
	return nil
}

func (r *ShortTermMemoryRepository) FindBySessionId(ctx context.Context, sessionId string) (*entity.ShortTermMemory, error) {
	if x, found := r.cache.Get(sessionId); found {
		stored := *x.(*entity.ShortTermMemory)
		return &stored, nil
	}
	return nil, nil
}
