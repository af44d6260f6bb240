package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (s *Server) registerHomeRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "home",
		Method:      http.MethodGet,
		Path:        "/",
		Summary:     "Home page",
		Tags:        []string{"Pages"},
	}, s.handleHome)
}

// HomeResponse is the landing page document.
type HomeResponse struct {
	SiteName      string            `json:"site_name" doc:"Site name"`
	Authenticated bool              `json:"authenticated" doc:"Whether the request carried a valid session"`
	Username      string            `json:"username,omitempty" doc:"Current user's username"`
	Links         map[string]string `json:"links" doc:"Main sections by name"`
}

// HomeOutput wraps the home page for Huma.
type HomeOutput struct {
	Body HomeResponse
}

func (s *Server) handleHome(ctx context.Context, _ *struct{}) (*HomeOutput, error) {
	viewer := viewerFrom(ctx)

	links := map[string]string{
		"posts":      "/blogposts/",
		"categories": "/categories/",
		"tags":       "/tags/",
		"search":     "/search/",
	}
	if viewer.UserID != "" {
		links["new_post"] = "/blogposts/create/"
		links["profile"] = "/profile/" + viewer.Username + "/"
		links["edit_profile"] = "/edit_profile/"
		links["logout"] = "/logout/"
	} else {
		links["login"] = "/login/"
		links["signup"] = "/signup/"
	}

	return &HomeOutput{Body: HomeResponse{
		SiteName:      s.config.App.SiteName,
		Authenticated: viewer.UserID != "",
		Username:      viewer.Username,
		Links:         links,
	}}, nil
}
