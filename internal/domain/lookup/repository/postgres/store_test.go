package postgres

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"

	"github.com/horrygame/tg-finding/internal/domain/lookup/entities"
)

var rowColumns = []string{"id", "timestamp", "user_id", "handle", "success", "reason", "source"}

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return NewStore(db, zerolog.Nop()).(*Store), mock
}

func testEntry(id, h string) entities.SearchLogEntry {
	return entities.SearchLogEntry{
		ID:        id,
		Timestamp: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
		UserID:    7,
		Handle:    h,
		Success:   false,
		Reason:    "Пользователь не найден",
		Source:    "info",
	}
}

func TestRowConversion(t *testing.T) {
	at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.FixedZone("MSK", 3*3600))
	e := entities.SearchLogEntry{
		ID:        "3f0c1b9e-8a56-4f43-9d0c-2a7f3cbd1e11",
		Timestamp: at,
		UserID:    99,
		Handle:    "durov",
		Success:   true,
		Reason:    "Успешный поиск",
		Source:    "info",
	}

	row := toRow(e)
	assert.Equal(t, time.UTC, row.Timestamp.Location())
	assert.Equal(t, "search_log_entries", row.TableName())

	back := toEntity(row)
	assert.True(t, at.Equal(back.Timestamp))
	back.Timestamp = e.Timestamp
	assert.Equal(t, e, back)
}

func TestSearchLogRow_HandleIsUnbounded(t *testing.T) {
	s, err := schema.Parse(&SearchLogRow{}, &sync.Map{}, schema.NamingStrategy{})
	require.NoError(t, err)

	field := s.LookUpField("Handle")
	require.NotNil(t, field)
	assert.Equal(t, "text", field.TagSettings["TYPE"])
	assert.Zero(t, field.Size)
}

func TestStore_SaveInsertsAndTrimsInOneTransaction(t *testing.T) {
	store, mock := newMockStore(t)
	entry := testEntry("id-3", "durov")
	retained := []entities.SearchLogEntry{entry, testEntry("id-2", "telegram")}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "search_log_entries"`)).
		WithArgs("id-3", sqlmock.AnyArg(), int64(7), "durov", false, "Пользователь не найден", "info").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "search_log_entries" WHERE id NOT IN`)).
		WithArgs("id-3", "id-2").
		WillReturnResult(sqlmock.NewResult(0, 4))
	mock.ExpectCommit()

	require.NoError(t, store.Save(context.Background(), entry, retained))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_SaveRollsBackOnInsertFailure(t *testing.T) {
	store, mock := newMockStore(t)
	entry := testEntry("id-1", "durov")

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "search_log_entries"`)).
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	err := store.Save(context.Background(), entry, []entities.SearchLogEntry{entry})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to insert search history entry")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_SaveKeepsLongRejectedQueries(t *testing.T) {
	store, mock := newMockStore(t)
	long := strings.Repeat("a", 40) + "!"
	entry := testEntry("id-1", long)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "search_log_entries"`)).
		WithArgs("id-1", sqlmock.AnyArg(), int64(7), long, false, "Пользователь не найден", "info").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "search_log_entries"`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	require.NoError(t, store.Save(context.Background(), entry, []entities.SearchLogEntry{entry}))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_LoadNewestFirst(t *testing.T) {
	store, mock := newMockStore(t)
	newer := time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)
	older := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "search_log_entries" ORDER BY timestamp DESC LIMIT`)).
		WillReturnRows(sqlmock.NewRows(rowColumns).
			AddRow("id-2", newer, int64(7), "telegram", true, "Успешный поиск", "info").
			AddRow("id-1", older, int64(8), "ghost", false, "Пользователь не найден", "random"))

	entries, err := store.Load(context.Background(), 2)

	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "id-2", entries[0].ID)
	assert.Equal(t, "telegram", entries[0].Handle)
	assert.True(t, entries[0].Success)
	assert.Equal(t, "id-1", entries[1].ID)
	assert.Equal(t, "random", entries[1].Source)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_LoadError(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "search_log_entries"`)).
		WillReturnError(errors.New("relation does not exist"))

	_, err := store.Load(context.Background(), 10)

	assert.Error(t, err)
}
