package content

import (
	"context"
	"errors"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRepo(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRepository(db), mock
}

var postColumns = []string{"id", "slug", "title", "excerpt", "body", "cover_image", "published_at"}

func TestListPublished(t *testing.T) {
	repo, mock := newMockRepo(t)

	publishedAt := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT id, slug, title, excerpt, body, cover_image, published_at").
		WillReturnRows(sqlmock.NewRows(postColumns).
			AddRow(uuid.New(), "clean-air-basics", "Clean Air Basics", "intro", "body", "cover.jpg", publishedAt).
			AddRow(uuid.New(), "filter-care", "Filter Care", "intro", "body", nil, publishedAt))

	posts, err := repo.ListPublished(context.Background())
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, "clean-air-basics", posts[0].Slug)
	assert.Equal(t, "cover.jpg", posts[0].CoverImage)
	assert.Empty(t, posts[1].CoverImage)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetBySlug_NotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("SELECT id, slug, title, excerpt, body, cover_image, published_at").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(postColumns))

	_, err := repo.GetBySlug(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrPostNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubscribe_DuplicateIsSilent(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec("INSERT INTO newsletter_subscribers").
		WithArgs(sqlmock.AnyArg(), "reader@example.com").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Subscribe(context.Background(), "reader@example.com")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUnsubscribe_QueryFailure(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec("DELETE FROM newsletter_subscribers").
		WithArgs("reader@example.com").
		WillReturnError(errors.New("connection reset"))

	err := repo.Unsubscribe(context.Background(), "reader@example.com")
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
