package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

type MemoryRecord struct {
	Id             uuid.UUID         `gorm:"type:uuid;primaryKey"`
	SessionId      string            `gorm:"type:text;not null;index"`
	Document       string            `gorm:"type:text"`
	EmbeddingValue pgvector.Vector   `gorm:"type:vector"` // dimension follows the embedding model
	Metadata       datatypes.JSONMap `gorm:"type:jsonb"`
	CreatedAt      time.Time         `gorm:"autoCreateTime"`
}

func (MemoryRecord) TableName() string {
	return "memory_records"
}
