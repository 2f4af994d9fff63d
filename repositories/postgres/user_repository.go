package postgres

import (
	"github.com/upb/blog-api/models"
	"github.com/upb/blog-api/repositories"
	"go.uber.org/zap"
)

// UserSchema maps models.User onto the users table
var UserSchema = Schema[models.User, models.UserInput]{
	Table:   models.User{}.TableName(),
	Columns: []string{"username", "email"},
	Scan: func(row Scanner) (*models.User, error) {
		user := &models.User{}
		if err := row.Scan(&user.ID, &user.Username, &user.Email); err != nil {
			return nil, err
		}
		return user, nil
	},
	Values: func(input *models.UserInput) []interface{} {
		return []interface{}{input.Username, input.Email}
	},
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *DB, logger *zap.Logger) repositories.UserRepository {
	return NewTable(db, UserSchema, logger)
}
