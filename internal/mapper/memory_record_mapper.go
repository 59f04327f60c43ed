package mapper

import (
	"dimensa-be/internal/entity"
	"dimensa-be/internal/model"

	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

type MemoryRecordMapper struct{}

func NewMemoryRecordMapper() *MemoryRecordMapper {
	return &MemoryRecordMapper{}
}

func (m *MemoryRecordMapper) ToEntity(e *model.MemoryRecord) *entity.MemoryRecord {
	if e == nil {
		return nil
	}

	metadata := make(map[string]string, len(e.Metadata))
	for k, v := range e.Metadata {
		if s, ok := v.(string); ok {
			metadata[k] = s
		}
	}

	return &entity.MemoryRecord{
		Id:             e.Id,
		SessionId:      e.SessionId,
		Document:       e.Document,
		EmbeddingValue: e.EmbeddingValue.Slice(),
		Metadata:       metadata,
		CreatedAt:      e.CreatedAt,
	}
}

func (m *MemoryRecordMapper) ToModel(e *entity.MemoryRecord) *model.MemoryRecord {
	if e == nil {
		return nil
	}

	metadata := make(datatypes.JSONMap, len(e.Metadata))
	for k, v := range e.Metadata {
		metadata[k] = v
	}

	return &model.MemoryRecord{
		Id:             e.Id,
		SessionId:      e.SessionId,
		Document:       e.Document,
		EmbeddingValue: pgvector.NewVector(e.EmbeddingValue),
		Metadata:       metadata,
		CreatedAt:      e.CreatedAt,
	}
}

func (m *MemoryRecordMapper) ToModels(records []*entity.MemoryRecord) []*model.MemoryRecord {
	models := make([]*model.MemoryRecord, len(records))
	for i, r := range records {
		models[i] = m.ToModel(r)
	}
	return models
}
