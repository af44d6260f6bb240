package api

import "github.com/tublog/tublog-server/internal/service"

// Services groups the business logic services used by the API server.
type Services struct {
	Auth       *service.AuthService
	Posts      *service.PostService
	Categories *service.CategoryService
	Tags       *service.TagService
	Search     *service.SearchService
	Profiles   *service.ProfileService
}
