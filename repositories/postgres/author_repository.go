package postgres

import (
	"github.com/upb/blog-api/models"
	"github.com/upb/blog-api/repositories"
	"go.uber.org/zap"
)

// AuthorSchema maps models.Author onto the authors table
var AuthorSchema = Schema[models.Author, models.AuthorInput]{
	Table:   models.Author{}.TableName(),
	Columns: []string{"name"},
	Scan: func(row Scanner) (*models.Author, error) {
		author := &models.Author{}
		if err := row.Scan(&author.ID, &author.Name); err != nil {
			return nil, err
		}
		return author, nil
	},
	Values: func(input *models.AuthorInput) []interface{} {
		return []interface{}{input.Name}
	},
}

// NewAuthorRepository creates a new author repository
func NewAuthorRepository(db *DB, logger *zap.Logger) repositories.AuthorRepository {
	return NewTable(db, AuthorSchema, logger)
}
