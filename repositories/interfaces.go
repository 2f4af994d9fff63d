package repositories

import (
	"context"
	"errors"

	"github.com/upb/blog-api/models"
)

// ErrNotFound is returned when no row matches the requested id
var ErrNotFound = errors.New("record not found")

// Store is the data access contract shared by every CRUD resource.
// T is the stored entity and I the client-supplied input used for writes.
// Each method executes exactly one statement.
type Store[T any, I any] interface {
	// List retrieves all rows ordered by id
	List(ctx context.Context) ([]*T, error)

	// Get retrieves a row by id, returning ErrNotFound when absent
	Get(ctx context.Context, id int64) (*T, error)

	// Create inserts a row and returns it with its generated id
	Create(ctx context.Context, input *I) (*T, error)

	// Update replaces the writable columns of a row, returning ErrNotFound when absent
	Update(ctx context.Context, id int64, input *I) (*T, error)

	// Delete removes a row, returning ErrNotFound when absent
	Delete(ctx context.Context, id int64) error
}

// PostRepository handles post data operations
type PostRepository = Store[models.Post, models.PostInput]

// AuthorRepository handles author data operations
type AuthorRepository = Store[models.Author, models.AuthorInput]

// UserRepository handles user data operations
type UserRepository = Store[models.User, models.UserInput]

// Repositories holds all repository instances
type Repositories struct {
	Posts   PostRepository
	Authors AuthorRepository
	Users   UserRepository
}
