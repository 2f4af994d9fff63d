package postgres

import (
	"database/sql"

	"github.com/upb/blog-api/models"
	"github.com/upb/blog-api/repositories"
	"go.uber.org/zap"
)

// PostSchema maps models.Post onto the posts table
var PostSchema = Schema[models.Post, models.PostInput]{
	Table:   models.Post{}.TableName(),
	Columns: []string{"author_id", "title", "body"},
	Scan: func(row Scanner) (*models.Post, error) {
		post := &models.Post{}
		var authorID sql.NullInt64
		if err := row.Scan(&post.ID, &authorID, &post.Title, &post.Body); err != nil {
			return nil, err
		}
		if authorID.Valid {
			post.AuthorID = &authorID.Int64
		}
		return post, nil
	},
	Values: func(input *models.PostInput) []interface{} {
		var authorID sql.NullInt64
		if input.AuthorID != nil {
			authorID = sql.NullInt64{Int64: *input.AuthorID, Valid: true}
		}
		return []interface{}{authorID, input.Title, input.Body}
	},
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *DB, logger *zap.Logger) repositories.PostRepository {
	return NewTable(db, PostSchema, logger)
}
