package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/tublog/tublog-server/internal/domain"
	"github.com/tublog/tublog-server/internal/normalize"
	"github.com/tublog/tublog-server/internal/store"
	"github.com/tublog/tublog-server/internal/validation"
)

// CategoryRequest is the category creation form.
type CategoryRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

// TagRequest is the tag creation form.
type TagRequest struct {
	Name string `json:"name" validate:"required,max=50"`
}

// CategoryService lists and creates categories.
type CategoryService struct {
	store     store.Store
	validator *validation.Validator
	logger    *slog.Logger
}

// NewCategoryService creates a new category service.
func NewCategoryService(store store.Store, validator *validation.Validator, logger *slog.Logger) *CategoryService {
	return &CategoryService{store: store, validator: validator, logger: orDiscard(logger)}
}

// List returns all categories in creation order.
func (s *CategoryService) List(ctx context.Context) ([]*domain.Category, error) {
	categories, err := s.store.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

// Create adds a category. Names need not be unique.
func (s *CategoryService) Create(ctx context.Context, req CategoryRequest) (*domain.Category, error) {
	req.Name = normalize.Name(req.Name)
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	category := &domain.Category{Name: req.Name, CreatedAt: time.Now()}
	if err := s.store.CreateCategory(ctx, category); err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}

	s.logger.Info("category created", "category_id", category.ID, "name", category.Name)
	return category, nil
}

// TagService lists and creates tags.
type TagService struct {
	store     store.Store
	validator *validation.Validator
	logger    *slog.Logger
}

// NewTagService creates a new tag service.
func NewTagService(store store.Store, validator *validation.Validator, logger *slog.Logger) *TagService {
	return &TagService{store: store, validator: validator, logger: orDiscard(logger)}
}

// List returns all tags in creation order.
func (s *TagService) List(ctx context.Context) ([]*domain.Tag, error) {
	tags, err := s.store.ListTags(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	return tags, nil
}

// Create adds a tag. Names need not be unique.
func (s *TagService) Create(ctx context.Context, req TagRequest) (*domain.Tag, error) {
	req.Name = normalize.Name(req.Name)
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	tag := &domain.Tag{Name: req.Name, CreatedAt: time.Now()}
	if err := s.store.CreateTag(ctx, tag); err != nil {
		return nil, fmt.Errorf("create tag: %w", err)
	}

	s.logger.Info("tag created", "tag_id", tag.ID, "name", tag.Name)
	return tag, nil
}
