package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/tublog/tublog-server/internal/domain"
	"github.com/tublog/tublog-server/internal/service"
)

func (s *Server) registerTaxonomyRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listCategories",
		Method:      http.MethodGet,
		Path:        "/categories/",
		Summary:     "List categories",
		Tags:        []string{"Categories"},
	}, s.handleListCategories)

	huma.Register(s.api, huma.Operation{
		OperationID: "createCategoryForm",
		Method:      http.MethodGet,
		Path:        "/categories/create/",
		Summary:     "New category form",
		Tags:        []string{"Categories"},
	}, s.handleCreateCategoryForm)

	huma.Register(s.api, huma.Operation{
		OperationID:   "createCategory",
		Method:        http.MethodPost,
		Path:          "/categories/create/",
		Summary:       "Create category",
		Tags:          []string{"Categories"},
		DefaultStatus: http.StatusSeeOther,
	}, s.handleCreateCategory)

	huma.Register(s.api, huma.Operation{
		OperationID: "listTags",
		Method:      http.MethodGet,
		Path:        "/tags/",
		Summary:     "List tags",
		Tags:        []string{"Tags"},
	}, s.handleListTags)

	huma.Register(s.api, huma.Operation{
		OperationID: "createTagForm",
		Method:      http.MethodGet,
		Path:        "/tags/create/",
		Summary:     "New tag form",
		Tags:        []string{"Tags"},
	}, s.handleCreateTagForm)

	huma.Register(s.api, huma.Operation{
		OperationID:   "createTag",
		Method:        http.MethodPost,
		Path:          "/tags/create/",
		Summary:       "Create tag",
		Tags:          []string{"Tags"},
		DefaultStatus: http.StatusSeeOther,
	}, s.handleCreateTag)
}

// === DTOs ===

// NameRequest is the form for categories and tags.
type NameRequest struct {
	Name string `json:"name" doc:"Display name"`
}

// CreateCategoryInput wraps the category form for Huma.
type CreateCategoryInput struct {
	Body NameRequest
}

// CreateTagInput wraps the tag form for Huma.
type CreateTagInput struct {
	Body NameRequest
}

// CategoryListOutput wraps the category list for Huma.
type CategoryListOutput struct {
	Body struct {
		Categories []*domain.Category `json:"categories" doc:"Categories in ID order"`
	}
}

// TagListOutput wraps the tag list for Huma.
type TagListOutput struct {
	Body struct {
		Tags []*domain.Tag `json:"tags" doc:"Tags in ID order"`
	}
}

// CategoryRedirectOutput answers a created category with 303 See Other.
type CategoryRedirectOutput struct {
	Status   int
	Location string `header:"Location"`
	Body     *domain.Category
}

// TagRedirectOutput answers a created tag with 303 See Other.
type TagRedirectOutput struct {
	Status   int
	Location string `header:"Location"`
	Body     *domain.Tag
}

// === Handlers ===

func (s *Server) handleListCategories(ctx context.Context, _ *struct{}) (*CategoryListOutput, error) {
	categories, err := s.services.Categories.List(ctx)
	if err != nil {
		return nil, err
	}

	out := &CategoryListOutput{}
	out.Body.Categories = categories
	return out, nil
}

func (s *Server) handleCreateCategoryForm(_ context.Context, _ *struct{}) (*FormOutput, error) {
	return newForm("/categories/create/",
		FormField{Name: "name", Type: "text", Required: true, MaxLength: 100},
	), nil
}

func (s *Server) handleCreateCategory(ctx context.Context, input *CreateCategoryInput) (*CategoryRedirectOutput, error) {
	category, err := s.services.Categories.Create(ctx, service.CategoryRequest{Name: input.Body.Name})
	if err != nil {
		return nil, err
	}

	return &CategoryRedirectOutput{
		Status:   http.StatusSeeOther,
		Location: "/categories/",
		Body:     category,
	}, nil
}

func (s *Server) handleListTags(ctx context.Context, _ *struct{}) (*TagListOutput, error) {
	tags, err := s.services.Tags.List(ctx)
	if err != nil {
		return nil, err
	}

	out := &TagListOutput{}
	out.Body.Tags = tags
	return out, nil
}

func (s *Server) handleCreateTagForm(_ context.Context, _ *struct{}) (*FormOutput, error) {
	return newForm("/tags/create/",
		FormField{Name: "name", Type: "text", Required: true, MaxLength: 50},
	), nil
}

func (s *Server) handleCreateTag(ctx context.Context, input *CreateTagInput) (*TagRedirectOutput, error) {
	tag, err := s.services.Tags.Create(ctx, service.TagRequest{Name: input.Body.Name})
	if err != nil {
		return nil, err
	}

	return &TagRedirectOutput{
		Status:   http.StatusSeeOther,
		Location: "/tags/",
		Body:     tag,
	}, nil
}
