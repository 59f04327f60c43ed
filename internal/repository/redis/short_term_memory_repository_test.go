package redis

import (
	"context"
	"testing"
	"time"

	"dimensa-be/internal/entity"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *ShortTermMemoryRepository) {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	return mr, NewShortTermMemoryRepository(rdb)
}

func TestShortTermMemoryRepository_SaveOverwrites(t *testing.T) {
	mr, repo := setupTestRedis(t)
	defer mr.Close()
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, &entity.ShortTermMemory{SessionId: "s1", UserPrompt: "first", AssistantResponse: "r1", UpdatedAt: time.Now()}))
	require.NoError(t, repo.Save(ctx, &entity.ShortTermMemory{SessionId: "s1", UserPrompt: "second", AssistantResponse: "r2", UpdatedAt: time.Now()}))

	got, err := repo.FindBySessionId(ctx, "s1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "second", got.UserPrompt)
	assert.Equal(t, "r2", got.AssistantResponse)

	assert.True(t, mr.Exists("dimensa:stm:s1"))
	assert.Equal(t, time.Duration(0), mr.TTL("dimensa:stm:s1"), "short-term entries never expire")
}

func TestShortTermMemoryRepository_MissingSession(t *testing.T) {
	mr, repo := setupTestRedis(t)
	defer mr.Close()

	got, err := repo.FindBySessionId(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestShortTermMemoryRepository_ServerDown(t *testing.T) {
	mr, repo := setupTestRedis(t)
	mr.Close()

	_, err := repo.FindBySessionId(context.Background(), "s1")
	assert.Error(t, err)

	err = repo.Save(context.Background(), &entity.ShortTermMemory{SessionId: "s1"})
	assert.Error(t, err)
}

func TestShortTermMemoryRepository_CorruptValue(t *testing.T) {
	mr, repo := setupTestRedis(t)
	defer mr.Close()

	require.NoError(t, mr.Set("dimensa:stm:s1", "not json"))

	_, err := repo.FindBySessionId(context.Background(), "s1")
	assert.Error(t, err)
}
