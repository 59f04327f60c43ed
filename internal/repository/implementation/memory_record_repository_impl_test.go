package implementation

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"dimensa-be/internal/entity"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock, *gorm.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn: mockDB,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)

	return mockDB, mock, gormDB
}

func TestMemoryRecordRepository_CreateBulkUpsertsById(t *testing.T) {
	mockDB, mock, gormDB := setupTestDB(t)
	defer mockDB.Close()

	repo := NewMemoryRecordRepository(gormDB)

	mock.ExpectExec(`INSERT INTO "memory_records" .* ON CONFLICT \("id"\) DO UPDATE SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.CreateBulk(context.Background(), []*entity.MemoryRecord{{
		Id:             uuid.New(),
		SessionId:      "s1",
		Document:       "a floating lantern a paper lantern",
		EmbeddingValue: []float32{0.1, 0.2, 0.3},
		Metadata:       map[string]string{"session_id": "s1"},
		CreatedAt:      time.Now(),
	}})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMemoryRecordRepository_CreateBulkEmptyIsNoop(t *testing.T) {
	mockDB, mock, gormDB := setupTestDB(t)
	defer mockDB.Close()

	repo := NewMemoryRecordRepository(gormDB)

	require.NoError(t, repo.CreateBulk(context.Background(), nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMemoryRecordRepository_SearchSimilarWithScore(t *testing.T) {
	mockDB, mock, gormDB := setupTestDB(t)
	defer mockDB.Close()

	repo := NewMemoryRecordRepository(gormDB)
	id := uuid.New()
	created := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{"id", "session_id", "document", "embedding_value", "metadata", "created_at", "similarity"}).
		AddRow(id.String(), "s1", "a lantern", "[1,0,0]", []byte(`{"session_id":"s1","user_prompt":"a lantern"}`), created, 0.93)

	mock.ExpectQuery(`SELECT memory_records\.\*, 1 - \(embedding_value <=> \$1\) as similarity FROM "memory_records" WHERE json_extract_path_text\("metadata"::json,\$2\) = \$3 ORDER BY similarity DESC LIMIT \$4`).
		WillReturnRows(rows)

	got, err := repo.SearchSimilarWithScore(context.Background(), []float32{1, 0, 0}, 6, map[string]string{"session_id": "s1"})

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, id, got[0].Record.Id)
	assert.Equal(t, "s1", got[0].Record.Metadata["session_id"])
	assert.Equal(t, "a lantern", got[0].Record.Metadata["user_prompt"])
	assert.Equal(t, []float32{1, 0, 0}, got[0].Record.EmbeddingValue)
	assert.InDelta(t, 0.93, got[0].Similarity, 1e-9)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMemoryRecordRepository_SearchPropagatesErrors(t *testing.T) {
	mockDB, mock, gormDB := setupTestDB(t)
	defer mockDB.Close()

	repo := NewMemoryRecordRepository(gormDB)
	dbErr := errors.New("relation \"memory_records\" does not exist")

	mock.ExpectQuery(`SELECT memory_records\.\*`).WillReturnError(dbErr)

	_, err := repo.SearchSimilarWithScore(context.Background(), []float32{1}, 0, nil)

	assert.ErrorIs(t, err, dbErr)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMemoryRecordRepository_Count(t *testing.T) {
	mockDB, mock, gormDB := setupTestDB(t)
	defer mockDB.Close()

	repo := NewMemoryRecordRepository(gormDB)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "memory_records"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

	count, err := repo.Count(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(4), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}
