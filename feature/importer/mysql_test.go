package importer

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open mock sql db: %v", err)
	}

	dialector := mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open gorm db: %v", err)
	}

	return gormDB, mock
}

func TestMySQL_Reset(t *testing.T) {
	t.Run("TruncatesInReverseDependencyOrder", func(t *testing.T) {
		db, mock := setupMockDB(t)
		imp := NewMySQL(db, zap.NewNop())

		mock.ExpectExec("SET FOREIGN_KEY_CHECKS = 0").
			WillReturnResult(sqlmock.NewResult(0, 0))
		for i := len(tableOrder) - 1; i >= 0; i-- {
			mock.ExpectExec("TRUNCATE TABLE " + tableOrder[i]).
				WillReturnResult(sqlmock.NewResult(0, 0))
		}
		mock.ExpectExec("SET FOREIGN_KEY_CHECKS = 1").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := imp.Reset(context.Background())
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("ReenablesChecksAfterFailure", func(t *testing.T) {
		db, mock := setupMockDB(t)
		imp := NewMySQL(db, zap.NewNop())

		mock.ExpectExec("SET FOREIGN_KEY_CHECKS = 0").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec("TRUNCATE TABLE game_price_history").
			WillReturnError(assert.AnError)
		mock.ExpectExec("SET FOREIGN_KEY_CHECKS = 1").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := imp.Reset(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "game_price_history")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestMySQL_FirstDevelopers(t *testing.T) {
	db, mock := setupMockDB(t)
	imp := NewMySQL(db, zap.NewNop())

	rows := sqlmock.NewRows([]string{"developer_id", "name", "game_count"}).
		AddRow(1, "Nova Interactive", 3).
		AddRow(2, "Zed Works", 1)
	mock.ExpectQuery("SELECT \\* FROM `developers` ORDER BY developer_id LIMIT \\?").
		WithArgs(2).
		WillReturnRows(rows)

	devs, err := imp.FirstDevelopers(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, devs, 2)
	assert.Equal(t, 1, devs[0].ID)
	assert.Equal(t, "Nova Interactive", devs[0].Name)
	assert.Equal(t, "Zed Works", devs[1].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQL_Engine(t *testing.T) {
	db, _ := setupMockDB(t)
	assert.Equal(t, "mysql", NewMySQL(db, zap.NewNop()).Engine())
}
