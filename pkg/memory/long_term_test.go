package memory_test

import (
	"context"
	"testing"
	"time"

	memrepo "dimensa-be/internal/repository/memory"
	"dimensa-be/pkg/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLongTerm_SaveStoresDocumentAndMetadata(t *testing.T) {
	repo := &leakyRepository{}
	lt := memory.NewLongTerm(&keywordEmbedder{}, repo)

	require.NoError(t, lt.Save(context.Background(), "s1", "a floating lantern", "a paper lantern"))

	require.Len(t, repo.records, 1)
	rec := repo.records[0]
	assert.Equal(t, "s1", rec.SessionId)
	assert.Equal(t, "a floating lantern a paper lantern", rec.Document)
	assert.Equal(t, []float32{2, 0, 0, 1}, rec.EmbeddingValue)
	assert.Equal(t, "s1", rec.Metadata[memory.MetaSessionID])
	assert.Equal(t, "a floating lantern", rec.Metadata[memory.MetaUserPrompt])
	assert.Equal(t, "a paper lantern", rec.Metadata[memory.MetaAssistantResponse])

	_, err := time.Parse(time.RFC3339Nano, rec.Metadata[memory.MetaTimestamp])
	assert.NoError(t, err)
}

func TestLongTerm_QueryNeverCrossesSessions(t *testing.T) {
	ctx := context.Background()
	repo := &leakyRepository{}
	lt := memory.NewLongTerm(&keywordEmbedder{}, repo)

	require.NoError(t, lt.Save(ctx, "s1", "a dragon", "green dragon"))
	// Semantically identical to the query, but another session
	require.NoError(t, lt.Save(ctx, "s2", "lantern", "lantern"))
	require.NoError(t, lt.Save(ctx, "s2", "a lantern", "lantern lantern"))

	matches, err := lt.Query(ctx, "s1", "lantern", 3)
	require.NoError(t, err)

	assert.Equal(t, 6, repo.limit, "over-fetches 2*topK")
	require.Len(t, matches, 1)
	assert.Equal(t, "s1", matches[0].SessionID)
	assert.Equal(t, "a dragon", matches[0].UserPrompt)
}

func TestLongTerm_QueryOrdersAndCaps(t *testing.T) {
	ctx := context.Background()
	lt := memory.NewLongTerm(&keywordEmbedder{}, memrepo.NewMemoryRecordRepository())

	require.NoError(t, lt.Save(ctx, "s1", "ship", "ship ship"))
	require.NoError(t, lt.Save(ctx, "s1", "lantern", "lantern"))
	require.NoError(t, lt.Save(ctx, "s1", "lantern ship", "ship"))

	matches, err := lt.Query(ctx, "s1", "lantern", 2)
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "lantern", matches[0].UserPrompt)
	assert.Equal(t, "lantern ship", matches[1].UserPrompt)
	assert.GreaterOrEqual(t, matches[0].Similarity, matches[1].Similarity)
}

func TestLongTerm_UnavailableIsDistinctFromEmpty(t *testing.T) {
	ctx := context.Background()

	empty := memory.NewLongTerm(&keywordEmbedder{}, memrepo.NewMemoryRecordRepository())
	matches, err := empty.Query(ctx, "s1", "anything", 3)
	require.NoError(t, err)
	assert.Empty(t, matches)

	embedderDown := memory.NewLongTerm(&keywordEmbedder{err: errBackendDown}, memrepo.NewMemoryRecordRepository())
	_, err = embedderDown.Query(ctx, "s1", "anything", 3)
	assert.ErrorIs(t, err, memory.ErrMemoryUnavailable)

	storeDown := memory.NewLongTerm(&keywordEmbedder{}, &leakyRepository{err: errBackendDown})
	_, err = storeDown.Query(ctx, "s1", "anything", 3)
	assert.ErrorIs(t, err, memory.ErrMemoryUnavailable)

	err = storeDown.Save(ctx, "s1", "p", "r")
	assert.ErrorIs(t, err, memory.ErrMemoryUnavailable)
}
