package memory_test

import (
	"context"
	"errors"
	"math"
	"strings"
	"sync"

	"dimensa-be/internal/entity"
	"dimensa-be/internal/repository/contract"
	"dimensa-be/pkg/embedding"
	"dimensa-be/pkg/memory"
)

// keywordEmbedder maps text to counts of a few keywords plus a bias dimension,
// so similarities are predictable.
type keywordEmbedder struct {
	mu    sync.Mutex
	calls int
	err   error
}

var _ embedding.EmbeddingProvider = (*keywordEmbedder)(nil)

var keywords = []string{"lantern", "dragon", "ship"}

func (e *keywordEmbedder) Embed(ctx context.Context, text string, taskType string) ([]float32, error) {
	e.mu.Lock()
	e.calls++
	e.mu.Unlock()
	if e.err != nil {
		return nil, e.err
	}
	lower := strings.ToLower(text)
	vec := make([]float32, 0, len(keywords)+1)
	for _, k := range keywords {
		vec = append(vec, float32(strings.Count(lower, k)))
	}
	vec = append(vec, 1)
	return vec, nil
}

// leakyRepository ignores the metadata filter, like a vector index without
// filter push-down.
type leakyRepository struct {
	records []*entity.MemoryRecord
	err     error
	limit   int
}

func (r *leakyRepository) CreateBulk(ctx context.Context, records []*entity.MemoryRecord) error {
	if r.err != nil {
		return r.err
	}
	r.records = append(r.records, records...)
	return nil
}

func (r *leakyRepository) SearchSimilarWithScore(ctx context.Context, emb []float32, limit int, where map[string]string) ([]*contract.ScoredMemoryRecord, error) {
	r.limit = limit
	if r.err != nil {
		return nil, r.err
	}
	out := make([]*contract.ScoredMemoryRecord, 0, len(r.records))
	for _, rec := range r.records {
		out = append(out, &contract.ScoredMemoryRecord{Record: rec, Similarity: cosine(emb, rec.EmbeddingValue)})
	}
	return out, nil
}

func (r *leakyRepository) Count(ctx context.Context) (int64, error) {
	return int64(len(r.records)), nil
}

func cosine(a, b []float32) float64 {
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// countingShortTerm and countingLongTerm record how often the builder touches them.
type countingShortTerm struct {
	gets   int
	record *memory.Record
	err    error
}

func (s *countingShortTerm) Put(ctx context.Context, sessionID, userPrompt, assistantResponse string) error {
	return nil
}

func (s *countingShortTerm) Get(ctx context.Context, sessionID string) (*memory.Record, bool, error) {
	s.gets++
	if s.err != nil {
		return nil, false, s.err
	}
	return s.record, s.record != nil, nil
}

type countingLongTerm struct {
	queries int
	matches []memory.Match
	err     error
}

func (l *countingLongTerm) Save(ctx context.Context, sessionID, userPrompt, assistantResponse string) error {
	return nil
}

func (l *countingLongTerm) Query(ctx context.Context, sessionID, queryText string, topK int) ([]memory.Match, error) {
	l.queries++
	if l.err != nil {
		return nil, l.err
	}
	if len(l.matches) > topK {
		return l.matches[:topK], nil
	}
	return l.matches, nil
}

var errBackendDown = errors.New("connection refused")
