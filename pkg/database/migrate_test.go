package database

import (
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func mockDB(t *testing.T) (sqlmock.Sqlmock, *gorm.DB) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := Open(postgres.New(postgres.Config{Conn: sqlDB}), true, DefaultPool())
	require.NoError(t, err)
	return mock, db
}

func TestMigrate_RunsPostStepsAndSkipsFailures(t *testing.T) {
	mock, db := mockDB(t)

	mock.ExpectExec(regexp.QuoteMeta(VectorExtension.SQL)).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("CREATE INDEX a")).WillReturnError(errors.New("exists"))
	mock.ExpectExec(regexp.QuoteMeta("CREATE INDEX b")).WillReturnResult(sqlmock.NewResult(0, 0))

	err := Migrate(db, []Step{
		{Name: "index a", SQL: "CREATE INDEX a"},
		{Name: "index b", SQL: "CREATE INDEX b"},
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrate_ExtensionFailureStops(t *testing.T) {
	mock, db := mockDB(t)

	mock.ExpectExec(regexp.QuoteMeta(VectorExtension.SQL)).WillReturnError(errors.New("permission denied"))

	err := Migrate(db, []Step{{Name: "never", SQL: "CREATE INDEX never"}})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "enable pgvector")
	assert.NoError(t, mock.ExpectationsWereMet())
}
