package memory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"dimensa-be/internal/entity"
	"dimensa-be/internal/repository/contract"
)

// MemoryRecordRepository is an in-process vector index for development and tests.
type MemoryRecordRepository struct {
	mu      sync.RWMutex
	records []*entity.MemoryRecord
	index   map[string]int
}

var _ contract.MemoryRecordRepository = &MemoryRecordRepository{}

func NewMemoryRecordRepository() *MemoryRecordRepository {
	return &MemoryRecordRepository{
		index: make(map[string]int),
	}
}

func (r *MemoryRecordRepository) CreateBulk(ctx context.Context, records []*entity.MemoryRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, rec := range records {
		if len(rec.EmbeddingValue) == 0 {
			return fmt.Errorf("record %s has no embedding", rec.Id)
		}
		cp := *rec
		key := rec.Id.String()
		if i, ok := r.index[key]; ok {
			r.records[i] = &cp
			continue
		}
		r.index[key] = len(r.records)
		r.records = append(r.records, &cp)
	}
	return nil
}

func (r *MemoryRecordRepository) SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, where map[string]string) ([]*contract.ScoredMemoryRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	scored := make([]*contract.ScoredMemoryRecord, 0, len(r.records))
	for _, rec := range r.records {
		if !matches(rec.Metadata, where) {
			continue
		}
		cp := *rec
		scored = append(scored, &contract.ScoredMemoryRecord{
			Record:     &cp,
			Similarity: cosineSimilarity(embedding, rec.EmbeddingValue),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Similarity > scored[j].Similarity
	})

	if limit > 0 && limit < len(scored) {
		scored = scored[:limit]
	}
	return scored, nil
}

func (r *MemoryRecordRepository) Count(ctx context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.records)), nil
}

func matches(metadata, where map[string]string) bool {
	for k, v := range where {
		if metadata[k] != v {
			return false
		}
	}
	return true
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
