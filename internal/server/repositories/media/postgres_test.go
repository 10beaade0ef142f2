package media

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/memoirapp/mediakit/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return NewPostgresRepository(db), mock, db
}

func TestCreate_ReturnsIDAndTimestamp(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	created := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	mock.ExpectQuery(`(?s)^INSERT\s+INTO\s+media`).
		WithArgs("u-1", "photo", "Beach", "couple/2026/03/01/1-abc.jpg", "", "", "album-7").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow("m-1", created))

	m := &models.Media{
		UserID:    "u-1",
		MediaType: "photo",
		Title:     "Beach",
		MediaURL:  "couple/2026/03/01/1-abc.jpg",
		OwningID:  "album-7",
	}
	got, err := repo.Create(context.Background(), m)
	require.NoError(t, err)
	assert.Equal(t, "m-1", got.ID)
	assert.Equal(t, created, got.CreatedAt)
}

func TestList_PageAndTotal(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^SELECT\s+COUNT\(\*\)\s+FROM\s+media`).
		WithArgs("u-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(45))

	created := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{
		"id", "user_id", "media_type", "title", "media_url",
		"thumbnail_url", "description", "owning_id", "created_at",
	}).
		AddRow("m-2", "u-1", "video", "", "k2.mp4", "k2-thumb.jpg", "", "album-7", created).
		AddRow("m-1", "u-1", "photo", "", "k1.jpg", "", "", "album-7", created)

	mock.ExpectQuery(`(?s)^SELECT\s+id,\s*user_id,\s*media_type`).
		WithArgs("u-1", 20, 0).
		WillReturnRows(rows)

	got, total, err := repo.List(context.Background(), "u-1", models.MediaFilter{}, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, 45, total)
	require.Len(t, got, 2)
	assert.Equal(t, "m-2", got[0].ID)
}

func TestList_FilterAddsPredicates(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)COUNT\(\*\).*owning_id\s*=\s*\$2.*media_type\s*=\s*\$3`).
		WithArgs("u-1", "album-7", "photo").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	mock.ExpectQuery(`(?s)^SELECT\s+id,.*owning_id\s*=\s*\$2.*media_type\s*=\s*\$3`).
		WithArgs("u-1", "album-7", "photo", 10, 10).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "user_id", "media_type", "title", "media_url",
			"thumbnail_url", "description", "owning_id", "created_at",
		}))

	got, total, err := repo.List(context.Background(), "u-1",
		models.MediaFilter{OwningID: "album-7", MediaType: "photo"}, 2, 10)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, got)
}

func TestDelete_ScopedToUser(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`(?s)^DELETE\s+FROM\s+media\s+WHERE\s+user_id\s*=\s*\$1\s+AND\s+id\s*=\s*\$2`).
		WithArgs("u-1", "m-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Delete(context.Background(), "u-1", "m-1")
	assert.NoError(t, err)
}
