package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"dimensa-be/internal/entity"
	"dimensa-be/internal/repository/contract"

	goredis "github.com/redis/go-redis/v9"
)

const keyPrefix = "dimensa:stm:"

// ShortTermMemoryRepository stores the last pair of each session as one JSON
// value. Keys never expire.
type ShortTermMemoryRepository struct {
	rdb *goredis.Client
}

var _ contract.ShortTermMemoryRepository = &ShortTermMemoryRepository{}

func NewShortTermMemoryRepository(rdb *goredis.Client) *ShortTermMemoryRepository {
	return &ShortTermMemoryRepository{rdb: rdb}
}

func (r *ShortTermMemoryRepository) Save(ctx context.Context, memory *entity.ShortTermMemory) error {
	data, err := json.Marshal(memory)
	if err != nil {
		return fmt.Errorf("marshal short-term memory: %w", err)
	}
	if err := r.rdb.Set(ctx, keyPrefix+memory.SessionId, data, 0).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (r *ShortTermMemoryRepository) FindBySessionId(ctx context.Context, sessionId string) (*entity.ShortTermMemory, error) {
	data, err := r.rdb.Get(ctx, keyPrefix+sessionId).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var memory entity.ShortTermMemory
	if err := json.Unmarshal(data, &memory); err != nil {
		return nil, fmt.Errorf("unmarshal short-term memory: %w", err)
	}
	return &memory, nil
}
