package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"dimensa-be/internal/entity"
	"dimensa-be/internal/repository/contract"
	"dimensa-be/pkg/embedding"

	"github.com/google/uuid"
)

// Metadata keys stored with every long-term record.
const (
	MetaSessionID         = "session_id"
	MetaTimestamp         = "timestamp"
	MetaUserPrompt        = "user_prompt"
	MetaAssistantResponse = "assistant_response"
)

// DefaultTopK is the number of long-term matches recalled per query.
const DefaultTopK = 3

// LongTerm implements LongTermStore: embeddings come from the provider, records
// go to the vector index.
type LongTerm struct {
	embedder embedding.EmbeddingProvider
	repo     contract.MemoryRecordRepository
	now      func() time.Time
	newID    func() uuid.UUID
}

func NewLongTerm(embedder embedding.EmbeddingProvider, repo contract.MemoryRecordRepository) *LongTerm {
	return &LongTerm{
		embedder: embedder,
		repo:     repo,
		now:      time.Now,
		newID:    uuid.New,
	}
}

// Save embeds prompt+response and appends a new record.
func (l *LongTerm) Save(ctx context.Context, sessionID, userPrompt, assistantResponse string) error {
	document := userPrompt + " " + assistantResponse

	vec, err := l.embedder.Embed(ctx, document, embedding.TaskRetrievalDocument)
	if err != nil {
		return fmt.Errorf("%w: embed document: %v", ErrMemoryUnavailable, err)
	}

	now := l.now().UTC()
	record := &entity.MemoryRecord{
		Id:             l.newID(),
		SessionId:      sessionID,
		Document:       document,
		EmbeddingValue: vec,
		Metadata: map[string]string{
			MetaSessionID:         sessionID,
			MetaTimestamp:         now.Format(time.RFC3339Nano),
			MetaUserPrompt:        userPrompt,
			MetaAssistantResponse: assistantResponse,
		},
		CreatedAt: now,
	}

	if err := l.repo.CreateBulk(ctx, []*entity.MemoryRecord{record}); err != nil {
		return fmt.Errorf("%w: upsert record: %v", ErrMemoryUnavailable, err)
	}
	return nil
}

// Query returns at most topK records of sessionID, most similar first. The
// index is asked for 2*topK neighbours and the result is filtered to the
// session afterwards.
func (l *LongTerm) Query(ctx context.Context, sessionID, queryText string, topK int) ([]Match, error) {
	if topK <= 0 {
		topK = DefaultTopK
	}

	vec, err := l.embedder.Embed(ctx, queryText, embedding.TaskRetrievalQuery)
	if err != nil {
		return nil, fmt.Errorf("%w: embed query: %v", ErrMemoryUnavailable, err)
	}

	scored, err := l.repo.SearchSimilarWithScore(ctx, vec, topK*2,
		map[string]string{MetaSessionID: sessionID})
	if err != nil {
		return nil, fmt.Errorf("%w: vector query: %v", ErrMemoryUnavailable, err)
	}

	matches := make([]Match, 0, topK)
	for _, s := range scored {
		if s.Record == nil || s.Record.Metadata[MetaSessionID] != sessionID {
			continue
		}
		matches = append(matches, Match{
			Record:     recordFromMetadata(s.Record),
			Similarity: s.Similarity,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Similarity > matches[j].Similarity
	})
	if len(matches) > topK {
		matches = matches[:topK]
	}
	return matches, nil
}

func recordFromMetadata(r *entity.MemoryRecord) Record {
	ts, err := time.Parse(time.RFC3339Nano, r.Metadata[MetaTimestamp])
	if err != nil {
		ts = r.CreatedAt
	}
	return Record{
		ID:                r.Id.String(),
		SessionID:         r.Metadata[MetaSessionID],
		Timestamp:         ts,
		UserPrompt:        r.Metadata[MetaUserPrompt],
		AssistantResponse: r.Metadata[MetaAssistantResponse],
	}
}
