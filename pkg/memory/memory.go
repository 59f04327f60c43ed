// Package memory holds the two conversational memory tiers and the builder
// that turns them into prompt context.
package memory

import (
	"context"
	"errors"
	"time"
)

// ErrMemoryUnavailable marks a failure of the embedding backend or a store,
// as opposed to a lookup that found nothing.
var ErrMemoryUnavailable = errors.New("memory backend unavailable")

// Record is one prompt/response interaction of a session.
type Record struct {
	ID                string
	SessionID         string
	Timestamp         time.Time
	UserPrompt        string
	AssistantResponse string
}

// Match is a long-term record with its similarity to the query.
type Match struct {
	Record
	Similarity float64
}

// ShortTermStore keeps the most recent pair per session.
type ShortTermStore interface {
	Put(ctx context.Context, sessionID, userPrompt, assistantResponse string) error
	Get(ctx context.Context, sessionID string) (*Record, bool, error)
}

// LongTermStore is the similarity-searchable archive of past pairs.
type LongTermStore interface {
	Save(ctx context.Context, sessionID, userPrompt, assistantResponse string) error
	Query(ctx context.Context, sessionID, queryText string, topK int) ([]Match, error)
}
