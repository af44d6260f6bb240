package service

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/tublog/tublog-server/internal/domain"
	domainerrors "github.com/tublog/tublog-server/internal/errors"
	"github.com/tublog/tublog-server/internal/normalize"
	"github.com/tublog/tublog-server/internal/store"
	"github.com/tublog/tublog-server/internal/validation"
)

// PostService manages blog posts.
// Any signed-in user may create, edit or delete any post.
type PostService struct {
	store     store.Store
	validator *validation.Validator
	logger    *slog.Logger
}

// NewPostService creates a new post service.
func NewPostService(store store.Store, validator *validation.Validator, logger *slog.Logger) *PostService {
	return &PostService{
		store:     store,
		validator: validator,
		logger:    orDiscard(logger),
	}
}

// PostRequest is the create and update form for a post.
type PostRequest struct {
	Title       string  `json:"title" validate:"required,max=200"`
	Content     string  `json:"content" validate:"required"`
	CategoryIDs []int64 `json:"category_ids" validate:"omitempty,dive,gt=0"`
	TagIDs      []int64 `json:"tag_ids" validate:"omitempty,dive,gt=0"`
}

// PostFormChoices lists what a post form can reference.
type PostFormChoices struct {
	Categories []*domain.Category `json:"categories"`
	Tags       []*domain.Tag      `json:"tags"`
}

// List returns every post, oldest first.
func (s *PostService) List(ctx context.Context) ([]*domain.Post, error) {
	posts, err := s.store.ListPosts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return posts, nil
}

// Get returns a single post.
func (s *PostService) Get(ctx context.Context, postID int64) (*domain.Post, error) {
	post, err := s.store.GetPost(ctx, postID)
	if err != nil {
		return nil, notFoundOr(err, fmt.Sprintf("post %d not found", postID))
	}
	return post, nil
}

// FormChoices returns the categories and tags a post may be linked to.
func (s *PostService) FormChoices(ctx context.Context) (*PostFormChoices, error) {
	categories, err := s.store.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	tags, err := s.store.ListTags(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	return &PostFormChoices{Categories: categories, Tags: tags}, nil
}

// Create validates req and stores a new post authored by authorID.
func (s *PostService) Create(ctx context.Context, authorID string, req PostRequest) (*domain.Post, error) {
	req = cleanPostRequest(req)
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	post := &domain.Post{
		Title:    req.Title,
		Content:  req.Content,
		AuthorID: authorID,
	}
	post.InitTimestamps()

	if err := s.resolveTaxonomies(ctx, post, req); err != nil {
		return nil, err
	}

	if err := s.store.CreatePost(ctx, post); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}

	s.logger.Info("post created", "post_id", post.ID, "author_id", authorID)

	return s.Get(ctx, post.ID)
}

// Update replaces a post's title, content, categories and tags.
func (s *PostService) Update(ctx context.Context, postID int64, req PostRequest) (*domain.Post, error) {
	req = cleanPostRequest(req)
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	post, err := s.Get(ctx, postID)
	if err != nil {
		return nil, err
	}

	post.Title = req.Title
	post.Content = req.Content
	post.Touch()

	if err := s.resolveTaxonomies(ctx, post, req); err != nil {
		return nil, err
	}

	if err := s.store.UpdatePost(ctx, post); err != nil {
		return nil, notFoundOr(err, fmt.Sprintf("post %d not found", postID))
	}

	s.logger.Info("post updated", "post_id", post.ID)

	return s.Get(ctx, post.ID)
}

// Delete removes a post and its category and tag links.
func (s *PostService) Delete(ctx context.Context, postID int64) error {
	if err := s.store.DeletePost(ctx, postID); err != nil {
		return notFoundOr(err, fmt.Sprintf("post %d not found", postID))
	}

	s.logger.Info("post deleted", "post_id", postID)
	return nil
}

// resolveTaxonomies loads the categories and tags named by req onto post,
// failing with a validation error if any ID is unknown.
func (s *PostService) resolveTaxonomies(ctx context.Context, post *domain.Post, req PostRequest) error {
	categoryIDs := uniqueIDs(req.CategoryIDs)
	categories, err := s.store.GetCategoriesByIDs(ctx, categoryIDs)
	if err != nil {
		return fmt.Errorf("load categories: %w", err)
	}
	if len(categories) != len(categoryIDs) {
		return unknownIDs("category_ids", categoryIDs, categoryIDsOf(categories))
	}

	tagIDs := uniqueIDs(req.TagIDs)
	tags, err := s.store.GetTagsByIDs(ctx, tagIDs)
	if err != nil {
		return fmt.Errorf("load tags: %w", err)
	}
	if len(tags) != len(tagIDs) {
		return unknownIDs("tag_ids", tagIDs, tagIDsOf(tags))
	}

	post.Categories = categories
	post.Tags = tags
	return nil
}

func cleanPostRequest(req PostRequest) PostRequest {
	req.Title = normalize.Text(req.Title)
	req.Content = normalize.Text(req.Content)
	return req
}

func unknownIDs(field string, requested []int64, found map[int64]bool) error {
	var missing []string
	for _, v := range requested {
		if !found[v] {
			missing = append(missing, strconv.FormatInt(v, 10))
		}
	}
	return domainerrors.ValidationWithDetails("validation failed: "+field, map[string]string{
		field: "unknown IDs: " + strings.Join(missing, ", "),
	})
}

func categoryIDsOf(categories []domain.Category) map[int64]bool {
	m := make(map[int64]bool, len(categories))
	for _, c := range categories {
		m[c.ID] = true
	}
	return m
}

func tagIDsOf(tags []domain.Tag) map[int64]bool {
	m := make(map[int64]bool, len(tags))
	for _, t := range tags {
		m[t.ID] = true
	}
	return m
}
