package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tublog/tublog-server/internal/domain"
	domainerrors "github.com/tublog/tublog-server/internal/errors"
	"github.com/tublog/tublog-server/internal/store"
)

// SearchPerPage is the number of posts on one page of search results.
const SearchPerPage = store.DefaultPerPage

// SearchService runs keyword search over post titles and content.
type SearchService struct {
	store  store.Store
	logger *slog.Logger
}

// NewSearchService creates a new search service.
func NewSearchService(store store.Store, logger *slog.Logger) *SearchService {
	return &SearchService{store: store, logger: orDiscard(logger)}
}

// SearchResult is one page of matches plus what a page needs to render
// pagination controls.
type SearchResult struct {
	Query       string         `json:"query"`
	Posts       []*domain.Post `json:"posts"`
	Page        int            `json:"page"`
	PerPage     int            `json:"per_page"`
	Total       int            `json:"total"`
	TotalPages  int            `json:"total_pages"`
	HasNext     bool           `json:"has_next"`
	HasPrevious bool           `json:"has_previous"`
	NoResults   bool           `json:"no_results"`
}

// Search returns the given 1-based page of posts whose title or content
// contains query, ignoring case. Surrounding whitespace is trimmed first,
// so a query of only spaces is treated as empty and matches nothing.
// Asking for a page past the last one is a not-found error unless there
// are no matches at all.
func (s *SearchService) Search(ctx context.Context, query string, page int) (*SearchResult, error) {
	if page < 1 {
		return nil, domainerrors.ValidationWithDetails("validation failed: page",
			map[string]string{"page": "must be a positive integer"})
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return &SearchResult{
			Posts:      []*domain.Post{},
			Page:       1,
			PerPage:    SearchPerPage,
			TotalPages: 1,
			NoResults:  true,
		}, nil
	}

	params := store.PageParams{Page: page, PerPage: SearchPerPage}
	results, err := s.store.SearchPosts(ctx, query, params)
	if err != nil {
		return nil, fmt.Errorf("search posts: %w", err)
	}

	if results.Total > 0 && page > results.TotalPages() {
		return nil, domainerrors.NotFoundf("page %d is out of range", page)
	}

	s.logger.Debug("search", "query", query, "page", page, "total", results.Total)

	return &SearchResult{
		Query:       query,
		Posts:       results.Items,
		Page:        results.Page,
		PerPage:     results.PerPage,
		Total:       results.Total,
		TotalPages:  results.TotalPages(),
		HasNext:     results.HasNext(),
		HasPrevious: results.HasPrevious(),
		NoResults:   results.Total == 0,
	}, nil
}
