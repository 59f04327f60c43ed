package implementation

import (
	"context"
	"sort"

	"dimensa-be/internal/entity"
	"dimensa-be/internal/mapper"
	"dimensa-be/internal/model"
	"dimensa-be/internal/repository/contract"

	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MemoryRecordRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.MemoryRecordMapper
}

func NewMemoryRecordRepository(db *gorm.DB) contract.MemoryRecordRepository {
	return &MemoryRecordRepositoryImpl{
		db:     db,
		mapper: mapper.NewMemoryRecordMapper(),
	}
}

func (r *MemoryRecordRepositoryImpl) CreateBulk(ctx context.Context, records []*entity.MemoryRecord) error {
	if len(records) == 0 {
		return nil
	}
	models := r.mapper.ToModels(records)

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(models).Error
}

// SearchSimilarWithScore returns records with similarity scores, nearest first
func (r *MemoryRecordRepositoryImpl) SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, where map[string]string) ([]*contract.ScoredMemoryRecord, error) {
	if limit <= 0 {
		limit = 6
	}

	// Cosine distance in pgvector is: 1 - cosine_similarity
	// So we compute: 1 - (embedding_value <=> query_vector) = cosine_similarity
	type result struct {
		model.MemoryRecord
		Similarity float64
	}
	var results []result

	queryVector := pgvector.NewVector(embedding)

	query := r.db.WithContext(ctx).
		Table("memory_records").
		Select("memory_records.*, 1 - (embedding_value <=> ?) as similarity", queryVector)

	// Deterministic order so the generated SQL is stable
	keys := make([]string, 0, len(where))
	for k := range where {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		query = query.Where(datatypes.JSONQuery("metadata").Equals(where[k], k))
	}

	err := query.
		Order("similarity DESC").
		Limit(limit).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	scored := make([]*contract.ScoredMemoryRecord, len(results))
	for i := range results {
		scored[i] = &contract.ScoredMemoryRecord{
			Record:     r.mapper.ToEntity(&results[i].MemoryRecord),
			Similarity: results[i].Similarity,
		}
	}
	return scored, nil
}

func (r *MemoryRecordRepositoryImpl) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.MemoryRecord{}).Count(&count).Error
	return count, err
}
