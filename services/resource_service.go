package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/upb/blog-api/middleware"
	"github.com/upb/blog-api/models"
	"github.com/upb/blog-api/repositories"
	"go.uber.org/zap"
)

// ResourceService exposes CRUD for one resource kind over a store. Each call
// issues exactly one store operation.
type ResourceService[T any, I any] struct {
	name   string
	store  repositories.Store[T, I]
	logger *zap.Logger
}

// NewResourceService creates a service for the named resource, e.g. "post"
func NewResourceService[T any, I any](name string, store repositories.Store[T, I], logger *zap.Logger) *ResourceService[T, I] {
	return &ResourceService[T, I]{
		name:   name,
		store:  store,
		logger: logger.With(zap.String("resource", name)),
	}
}

// Name returns the resource name with its first letter capitalised
func (s *ResourceService[T, I]) Name() string {
	if s.name == "" {
		return s.name
	}
	return strings.ToUpper(s.name[:1]) + s.name[1:]
}

// List returns every stored item
func (s *ResourceService[T, I]) List(ctx context.Context) ([]*T, error) {
	items, err := s.store.List(ctx)
	if err != nil {
		return nil, s.mapError(ctx, "list", 0, err)
	}
	return items, nil
}

// Get returns the item with the given id
func (s *ResourceService[T, I]) Get(ctx context.Context, id int64) (*T, error) {
	item, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, s.mapError(ctx, "get", id, err)
	}
	return item, nil
}

// Create stores a new item
func (s *ResourceService[T, I]) Create(ctx context.Context, input *I) (*T, error) {
	item, err := s.store.Create(ctx, input)
	if err != nil {
		return nil, s.mapError(ctx, "create", 0, err)
	}

	fields := []zap.Field{zap.String("sub", middleware.SubjectFromContext(ctx))}
	if res, ok := any(item).(models.Resource); ok {
		fields = append(fields, zap.Int64("id", res.ResourceID()))
	}
	if st, ok := any(input).(fmt.Stringer); ok {
		fields = append(fields, zap.Stringer("input", st))
	}

	s.logger.Info("resource created", fields...)
	return item, nil
}

// Update replaces an existing item; it never creates one
func (s *ResourceService[T, I]) Update(ctx context.Context, id int64, input *I) (*T, error) {
	item, err := s.store.Update(ctx, id, input)
	if err != nil {
		return nil, s.mapError(ctx, "update", id, err)
	}

	s.logger.Info("resource updated",
		zap.Int64("id", id),
		zap.String("sub", middleware.SubjectFromContext(ctx)))
	return item, nil
}

// Delete removes an existing item
func (s *ResourceService[T, I]) Delete(ctx context.Context, id int64) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return s.mapError(ctx, "delete", id, err)
	}

	s.logger.Info("resource deleted",
		zap.Int64("id", id),
		zap.String("sub", middleware.SubjectFromContext(ctx)))
	return nil
}

func (s *ResourceService[T, I]) mapError(ctx context.Context, op string, id int64, err error) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return NewDomainError(ErrorTypeNotFound, fmt.Sprintf("%s not found", s.name), err).
			WithDetail("id", id)
	}

	s.logger.Error("store operation failed",
		zap.String("op", op),
		zap.Int64("id", id),
		zap.String("request_id", middleware.GetRequestIDFromContext(ctx)),
		zap.Error(err))
	return WrapInternal(fmt.Sprintf("failed to %s %s", op, s.name), err)
}

// PostService serves posts
type PostService = ResourceService[models.Post, models.PostInput]

// AuthorService serves authors
type AuthorService = ResourceService[models.Author, models.AuthorInput]

// UserService serves users
type UserService = ResourceService[models.User, models.UserInput]

// NewPostService creates the post service
func NewPostService(store repositories.PostRepository, logger *zap.Logger) *PostService {
	return NewResourceService[models.Post, models.PostInput]("post", store, logger)
}

// NewAuthorService creates the author service
func NewAuthorService(store repositories.AuthorRepository, logger *zap.Logger) *AuthorService {
	return NewResourceService[models.Author, models.AuthorInput]("author", store, logger)
}

// NewUserService creates the user service
func NewUserService(store repositories.UserRepository, logger *zap.Logger) *UserService {
	return NewResourceService[models.User, models.UserInput]("user", store, logger)
}
