package postgres

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/upb/blog-api/models"
	"github.com/upb/blog-api/repositories"
	"go.uber.org/zap"
)

func newMockDB(t *testing.T) (*DB, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return NewDBFromConn(conn, zap.NewNop()), mock
}

func int64Ptr(v int64) *int64 { return &v }

func TestNewTable_Queries(t *testing.T) {
	db, _ := newMockDB(t)
	table := NewTable(db, PostSchema, zap.NewNop())

	assert.Equal(t, "SELECT id, author_id, title, body FROM posts ORDER BY id", table.listQuery)
	assert.Equal(t, "SELECT id, author_id, title, body FROM posts WHERE id = $1", table.getQuery)
	assert.Equal(t,
		"INSERT INTO posts (author_id, title, body) VALUES ($1, $2, $3) RETURNING id, author_id, title, body",
		table.insertQuery)
	assert.Equal(t,
		"UPDATE posts SET author_id = $1, title = $2, body = $3 WHERE id = $4 RETURNING id, author_id, title, body",
		table.updateQuery)
	assert.Equal(t, "DELETE FROM posts WHERE id = $1", table.deleteQuery)
}

func TestPostRepository_List(t *testing.T) {
	ctx := context.Background()

	t.Run("returns rows in order", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostRepository(db, zap.NewNop())

		mock.ExpectQuery(regexp.QuoteMeta("SELECT id, author_id, title, body FROM posts ORDER BY id")).
			WillReturnRows(sqlmock.NewRows([]string{"id", "author_id", "title", "body"}).
				AddRow(1, nil, "First", "one").
				AddRow(2, 7, "Second", "two"))

		posts, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, posts, 2)
		assert.Equal(t, int64(1), posts[0].ID)
		assert.Nil(t, posts[0].AuthorID)
		assert.Equal(t, "Second", posts[1].Title)
		require.NotNil(t, posts[1].AuthorID)
		assert.Equal(t, int64(7), *posts[1].AuthorID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty table returns empty slice", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostRepository(db, zap.NewNop())

		mock.ExpectQuery("SELECT (.+) FROM posts").
			WillReturnRows(sqlmock.NewRows([]string{"id", "author_id", "title", "body"}))

		posts, err := repo.List(ctx)
		require.NoError(t, err)
		assert.NotNil(t, posts)
		assert.Empty(t, posts)
	})

	t.Run("query failure", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostRepository(db, zap.NewNop())

		mock.ExpectQuery("SELECT (.+) FROM posts").WillReturnError(sql.ErrConnDone)

		_, err := repo.List(ctx)
		require.Error(t, err)
		assert.False(t, errors.Is(err, repositories.ErrNotFound))
	})
}

func TestPostRepository_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostRepository(db, zap.NewNop())

		mock.ExpectQuery(regexp.QuoteMeta("SELECT id, author_id, title, body FROM posts WHERE id = $1")).
			WithArgs(int64(3)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "author_id", "title", "body"}).AddRow(3, nil, "T", "B"))

		post, err := repo.Get(ctx, 3)
		require.NoError(t, err)
		assert.Equal(t, &models.Post{ID: 3, Title: "T", Body: "B"}, post)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing row maps to ErrNotFound", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostRepository(db, zap.NewNop())

		mock.ExpectQuery("SELECT (.+) FROM posts WHERE id").
			WithArgs(int64(999999)).
			WillReturnError(sql.ErrNoRows)

		_, err := repo.Get(ctx, 999999)
		assert.ErrorIs(t, err, repositories.ErrNotFound)
	})

	t.Run("driver failure is not ErrNotFound", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostRepository(db, zap.NewNop())

		mock.ExpectQuery("SELECT (.+) FROM posts WHERE id").WillReturnError(sql.ErrConnDone)

		_, err := repo.Get(ctx, 1)
		require.Error(t, err)
		assert.NotErrorIs(t, err, repositories.ErrNotFound)
	})
}

func TestPostRepository_Create(t *testing.T) {
	ctx := context.Background()
	db, mock := newMockDB(t)
	repo := NewPostRepository(db, zap.NewNop())

	mock.ExpectQuery(regexp.QuoteMeta(
		"INSERT INTO posts (author_id, title, body) VALUES ($1, $2, $3) RETURNING id, author_id, title, body")).
		WithArgs(sql.NullInt64{Int64: 4, Valid: true}, "T", "B").
		WillReturnRows(sqlmock.NewRows([]string{"id", "author_id", "title", "body"}).AddRow(10, 4, "T", "B"))

	post, err := repo.Create(ctx, &models.PostInput{Title: "T", Body: "B", AuthorID: int64Ptr(4)})
	require.NoError(t, err)
	assert.Equal(t, int64(10), post.ID)
	assert.Equal(t, int64(4), *post.AuthorID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("updated", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostRepository(db, zap.NewNop())

		mock.ExpectQuery(regexp.QuoteMeta("UPDATE posts SET author_id = $1, title = $2, body = $3 WHERE id = $4")).
			WithArgs(sql.NullInt64{}, "New", "Body", int64(5)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "author_id", "title", "body"}).AddRow(5, nil, "New", "Body"))

		post, err := repo.Update(ctx, 5, &models.PostInput{Title: "New", Body: "Body"})
		require.NoError(t, err)
		assert.Equal(t, "New", post.Title)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing row maps to ErrNotFound", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostRepository(db, zap.NewNop())

		mock.ExpectQuery("UPDATE posts SET").WillReturnError(sql.ErrNoRows)

		_, err := repo.Update(ctx, 42, &models.PostInput{Title: "T", Body: "B"})
		assert.ErrorIs(t, err, repositories.ErrNotFound)
	})
}

func TestPostRepository_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("deleted", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostRepository(db, zap.NewNop())

		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM posts WHERE id = $1")).
			WithArgs(int64(5)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.Delete(ctx, 5))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no rows affected maps to ErrNotFound", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostRepository(db, zap.NewNop())

		mock.ExpectExec("DELETE FROM posts").
			WithArgs(int64(5)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.Delete(ctx, 5), repositories.ErrNotFound)
	})
}

func TestAuthorAndUserSchemas(t *testing.T) {
	ctx := context.Background()

	t.Run("author create", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewAuthorRepository(db, zap.NewNop())

		mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO authors (name) VALUES ($1) RETURNING id, name")).
			WithArgs("Ada").
			WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(1, "Ada"))

		author, err := repo.Create(ctx, &models.AuthorInput{Name: "Ada"})
		require.NoError(t, err)
		assert.Equal(t, &models.Author{ID: 1, Name: "Ada"}, author)
	})

	t.Run("user create", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewUserRepository(db, zap.NewNop())

		mock.ExpectQuery(regexp.QuoteMeta(
			"INSERT INTO users (username, email) VALUES ($1, $2) RETURNING id, username, email")).
			WithArgs("ada", "ada@example.com").
			WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email"}).AddRow(2, "ada", "ada@example.com"))

		user, err := repo.Create(ctx, &models.UserInput{Username: "ada", Email: "ada@example.com"})
		require.NoError(t, err)
		assert.Equal(t, int64(2), user.ID)
	})
}

func TestDB_HealthCheck(t *testing.T) {
	conn, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer conn.Close()
	db := NewDBFromConn(conn, zap.NewNop())

	mock.ExpectPing()
	mock.ExpectQuery("SELECT 1").WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))

	assert.NoError(t, db.HealthCheck(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
