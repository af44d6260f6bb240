package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/tublog/tublog-server/internal/domain"
	"github.com/tublog/tublog-server/internal/service"
)

func (s *Server) registerPostRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listPosts",
		Method:      http.MethodGet,
		Path:        "/blogposts/",
		Summary:     "List posts",
		Description: "Returns every post, oldest first, with author, categories and tags",
		Tags:        []string{"Posts"},
	}, s.handleListPosts)

	huma.Register(s.api, huma.Operation{
		OperationID: "createPostForm",
		Method:      http.MethodGet,
		Path:        "/blogposts/create/",
		Summary:     "New post form",
		Description: "Returns the categories and tags a new post may reference",
		Tags:        []string{"Posts"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreatePostForm)

	huma.Register(s.api, huma.Operation{
		OperationID:   "createPost",
		Method:        http.MethodPost,
		Path:          "/blogposts/create/",
		Summary:       "Create post",
		Description:   "Creates a post authored by the current user",
		Tags:          []string{"Posts"},
		Security:      []map[string][]string{{"bearer": {}}},
		DefaultStatus: http.StatusSeeOther,
	}, s.handleCreatePost)

	huma.Register(s.api, huma.Operation{
		OperationID: "updatePostForm",
		Method:      http.MethodGet,
		Path:        "/blogposts/update/{id}/",
		Summary:     "Edit post form",
		Tags:        []string{"Posts"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdatePostForm)

	huma.Register(s.api, huma.Operation{
		OperationID:   "updatePost",
		Method:        http.MethodPost,
		Path:          "/blogposts/update/{id}/",
		Summary:       "Update post",
		Description:   "Replaces the post's title, content, categories and tags",
		Tags:          []string{"Posts"},
		Security:      []map[string][]string{{"bearer": {}}},
		DefaultStatus: http.StatusSeeOther,
	}, s.handleUpdatePost)

	huma.Register(s.api, huma.Operation{
		OperationID: "deletePostConfirm",
		Method:      http.MethodGet,
		Path:        "/blogposts/delete/{id}/",
		Summary:     "Confirm post deletion",
		Tags:        []string{"Posts"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeletePostConfirm)

	huma.Register(s.api, huma.Operation{
		OperationID:   "deletePost",
		Method:        http.MethodPost,
		Path:          "/blogposts/delete/{id}/",
		Summary:       "Delete post",
		Tags:          []string{"Posts"},
		Security:      []map[string][]string{{"bearer": {}}},
		DefaultStatus: http.StatusSeeOther,
	}, s.handleDeletePost)

	huma.Register(s.api, huma.Operation{
		OperationID: "getPost",
		Method:      http.MethodGet,
		Path:        "/blogposts/{id}/",
		Summary:     "Get post",
		Tags:        []string{"Posts"},
	}, s.handleGetPost)
}

// === DTOs ===

// PostRequest is the create and update form for a post.
type PostRequest struct {
	Title       string  `json:"title" doc:"Post title, at most 200 characters"`
	Content     string  `json:"content" doc:"Post body"`
	CategoryIDs []int64 `json:"category_ids,omitempty" doc:"IDs of existing categories"`
	TagIDs      []int64 `json:"tag_ids,omitempty" doc:"IDs of existing tags"`
}

func (r PostRequest) toService() service.PostRequest {
	return service.PostRequest{
		Title:       r.Title,
		Content:     r.Content,
		CategoryIDs: r.CategoryIDs,
		TagIDs:      r.TagIDs,
	}
}

// PostIDInput identifies a post by path.
type PostIDInput struct {
	ID int64 `path:"id" minimum:"1" doc:"Post ID"`
}

// CreatePostInput wraps the new post form for Huma.
type CreatePostInput struct {
	Body PostRequest
}

// UpdatePostInput wraps the edit form for Huma.
type UpdatePostInput struct {
	ID   int64 `path:"id" minimum:"1" doc:"Post ID"`
	Body PostRequest
}

// PostListResponse is the post list page.
type PostListResponse struct {
	Posts []*domain.Post `json:"posts" doc:"Posts in ID order"`
}

// PostListOutput wraps the post list for Huma.
type PostListOutput struct {
	Body PostListResponse
}

// PostResponse is the post detail page.
type PostResponse struct {
	Post *domain.Post `json:"post" doc:"The post"`
}

// PostOutput wraps a post for Huma.
type PostOutput struct {
	Body PostResponse
}

// PostRedirectOutput answers a saved post with 303 See Other.
type PostRedirectOutput struct {
	Status   int
	Location string `header:"Location"`
	Body     PostResponse
}

// PostFormResponse is the create or edit page for a post.
type PostFormResponse struct {
	Action     string             `json:"action" doc:"Path the form submits to"`
	Method     string             `json:"method" doc:"HTTP method the form submits with"`
	Post       *domain.Post       `json:"post,omitempty" doc:"Current values when editing"`
	Categories []*domain.Category `json:"categories" doc:"Categories the post may reference"`
	Tags       []*domain.Tag      `json:"tags" doc:"Tags the post may reference"`
}

// PostFormOutput wraps a post form for Huma.
type PostFormOutput struct {
	Body PostFormResponse
}

// === Handlers ===

func (s *Server) handleListPosts(ctx context.Context, _ *struct{}) (*PostListOutput, error) {
	posts, err := s.services.Posts.List(ctx)
	if err != nil {
		return nil, err
	}
	return &PostListOutput{Body: PostListResponse{Posts: posts}}, nil
}

func (s *Server) handleGetPost(ctx context.Context, input *PostIDInput) (*PostOutput, error) {
	post, err := s.services.Posts.Get(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &PostOutput{Body: PostResponse{Post: post}}, nil
}

func (s *Server) handleCreatePostForm(ctx context.Context, _ *struct{}) (*PostFormOutput, error) {
	if _, err := s.RequireUser(ctx); err != nil {
		return nil, err
	}
	return s.postForm(ctx, "/blogposts/create/", nil)
}

func (s *Server) handleCreatePost(ctx context.Context, input *CreatePostInput) (*PostRedirectOutput, error) {
	user, err := s.RequireUser(ctx)
	if err != nil {
		return nil, err
	}

	post, err := s.services.Posts.Create(ctx, user.ID, input.Body.toService())
	if err != nil {
		return nil, err
	}

	return &PostRedirectOutput{
		Status:   http.StatusSeeOther,
		Location: "/blogposts/",
		Body:     PostResponse{Post: post},
	}, nil
}

func (s *Server) handleUpdatePostForm(ctx context.Context, input *PostIDInput) (*PostFormOutput, error) {
	if _, err := s.RequireUser(ctx); err != nil {
		return nil, err
	}

	post, err := s.services.Posts.Get(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return s.postForm(ctx, postPath("/blogposts/update/", post.ID), post)
}

func (s *Server) handleUpdatePost(ctx context.Context, input *UpdatePostInput) (*PostRedirectOutput, error) {
	if _, err := s.RequireUser(ctx); err != nil {
		return nil, err
	}

	post, err := s.services.Posts.Update(ctx, input.ID, input.Body.toService())
	if err != nil {
		return nil, err
	}

	return &PostRedirectOutput{
		Status:   http.StatusSeeOther,
		Location: postPath("/blogposts/", post.ID),
		Body:     PostResponse{Post: post},
	}, nil
}

func (s *Server) handleDeletePostConfirm(ctx context.Context, input *PostIDInput) (*PostOutput, error) {
	if _, err := s.RequireUser(ctx); err != nil {
		return nil, err
	}
	return s.handleGetPost(ctx, input)
}

func (s *Server) handleDeletePost(ctx context.Context, input *PostIDInput) (*RedirectOutput, error) {
	if _, err := s.RequireUser(ctx); err != nil {
		return nil, err
	}

	if err := s.services.Posts.Delete(ctx, input.ID); err != nil {
		return nil, err
	}

	return redirect("/blogposts/", fmt.Sprintf("Post %d deleted.", input.ID)), nil
}

func (s *Server) postForm(ctx context.Context, action string, post *domain.Post) (*PostFormOutput, error) {
	choices, err := s.services.Posts.FormChoices(ctx)
	if err != nil {
		return nil, err
	}

	return &PostFormOutput{Body: PostFormResponse{
		Action:     action,
		Method:     http.MethodPost,
		Post:       post,
		Categories: choices.Categories,
		Tags:       choices.Tags,
	}}, nil
}

func postPath(prefix string, id int64) string {
	return fmt.Sprintf("%s%d/", prefix, id)
}
