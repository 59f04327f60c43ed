package entity

import (
	"time"

	"github.com/google/uuid"
)

// MemoryRecord is one archived prompt/response pair with its embedding.
type MemoryRecord struct {
	Id             uuid.UUID
	SessionId      string
	Document       string
	EmbeddingValue []float32
	Metadata       map[string]string
	CreatedAt      time.Time
}

// ShortTermMemory is the last prompt/response pair of a session.
type ShortTermMemory struct {
	SessionId         string    `json:"session_id"`
	UserPrompt        string    `json:"user_prompt"`
	AssistantResponse string    `json:"assistant_response"`
	UpdatedAt         time.Time `json:"updated_at"`
}
