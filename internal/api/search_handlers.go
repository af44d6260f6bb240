package api

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	domainerrors "github.com/tublog/tublog-server/internal/errors"
	"github.com/tublog/tublog-server/internal/service"
)

func (s *Server) registerSearchRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "searchPosts",
		Method:      http.MethodGet,
		Path:        "/search/",
		Summary:     "Search posts",
		Description: "Case-insensitive substring match over post titles and content, 10 per page",
		Tags:        []string{"Search"},
	}, s.handleSearch)
}

// SearchInput contains search parameters.
// Page is a string so a non-numeric value is a form error rather than a schema error.
type SearchInput struct {
	Q    string `query:"q" doc:"Search keywords"`
	Page string `query:"page" doc:"1-based page number (default 1)"`
}

// SearchOutput wraps search results for Huma.
type SearchOutput struct {
	Body *service.SearchResult
}

func (s *Server) handleSearch(ctx context.Context, input *SearchInput) (*SearchOutput, error) {
	page, err := parsePage(input.Page)
	if err != nil {
		return nil, err
	}

	result, err := s.services.Search.Search(ctx, input.Q, page)
	if err != nil {
		return nil, err
	}

	return &SearchOutput{Body: result}, nil
}

func parsePage(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 1, nil
	}

	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		return 0, domainerrors.ValidationWithDetails("validation failed: page",
			map[string]string{"page": "must be a positive integer"})
	}
	return page, nil
}
