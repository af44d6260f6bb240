package sqlite

import (
	"context"
	"fmt"

	"github.com/tublog/tublog-server/internal/domain"
	"github.com/tublog/tublog-server/internal/normalize"
	"github.com/tublog/tublog-server/internal/store"
)

// instr keeps % and _ literal, unlike LIKE.
const searchWhere = `WHERE instr(p.title_fold, ?) > 0 OR instr(p.content_fold, ?) > 0`

// SearchPosts returns one page of posts whose title or content contains query
// under Unicode case folding. An empty query matches every post; callers that
// want "no query, no results" must check before calling.
func (s *Store) SearchPosts(ctx context.Context, query string, params store.PageParams) (*store.Page[*domain.Post], error) {
	params.Validate()
	folded := normalize.Fold(query)

	var total int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(DISTINCT p.id) FROM posts p `+searchWhere,
		folded, folded).Scan(&total)
	if err != nil {
		return nil, fmt.Errorf("count search results: %w", err)
	}

	if total == 0 || params.Offset() >= total {
		return store.NewPage[*domain.Post](nil, params, total), nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT p.id, p.title, p.content, p.author_id, u.username, p.created_at, p.updated_at
		FROM posts p
		JOIN users u ON u.id = p.author_id
		`+searchWhere+`
		ORDER BY p.id
		LIMIT ? OFFSET ?`,
		folded, folded, params.PerPage, params.Offset())
	if err != nil {
		return nil, fmt.Errorf("search posts: %w", err)
	}
	posts, err := collectPosts(rows)
	if err != nil {
		return nil, err
	}

	if err := s.loadPostTaxonomies(ctx, posts); err != nil {
		return nil, err
	}

	return store.NewPage(posts, params, total), nil
}
