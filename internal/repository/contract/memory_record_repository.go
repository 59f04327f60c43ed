package contract

import (
	"context"

	"dimensa-be/internal/entity"
)

// ScoredMemoryRecord wraps MemoryRecord with its similarity score
type ScoredMemoryRecord struct {
	Record     *entity.MemoryRecord
	Similarity float64 // cosine similarity, 1.0 = identical
}

// MemoryRecordRepository is the vector index behind long-term memory.
type MemoryRecordRepository interface {
	// CreateBulk upserts records by id.
	CreateBulk(ctx context.Context, records []*entity.MemoryRecord) error
	// SearchSimilarWithScore returns up to limit records ordered by descending
	// similarity. where filters on metadata equality; nil means no filter.
	SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, where map[string]string) ([]*ScoredMemoryRecord, error)
	Count(ctx context.Context) (int64, error)
}
