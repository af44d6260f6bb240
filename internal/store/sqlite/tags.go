package sqlite

import (
	"context"
	"fmt"

	"github.com/tublog/tublog-server/internal/domain"
	"github.com/tublog/tublog-server/internal/normalize"
)

func scanTag(scanner interface{ Scan(dest ...any) error }) (*domain.Tag, error) {
	var (
		t         domain.Tag
		createdAt string
	)
	if err := scanner.Scan(&t.ID, &t.Name, &t.Slug, &createdAt); err != nil {
		return nil, err
	}
	var err error
	if t.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	return &t, nil
}

// CreateTag inserts a tag and fills in its ID and slug.
// Duplicate names are allowed.
func (s *Store) CreateTag(ctx context.Context, tag *domain.Tag) error {
	tag.Slug = normalize.Slug(tag.Name)

	result, err := s.db.ExecContext(ctx,
		`INSERT INTO tags (name, slug, created_at) VALUES (?, ?, ?)`,
		tag.Name, tag.Slug, formatTime(tag.CreatedAt))
	if err != nil {
		return mapConstraintError(err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("tag id: %w", err)
	}
	tag.ID = id
	return nil
}

// ListTags returns every tag in creation order.
func (s *Store) ListTags(ctx context.Context) ([]*domain.Tag, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, slug, created_at FROM tags ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tags := []*domain.Tag{}
	for rows.Next() {
		t, err := scanTag(rows)
		if err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

// GetTagsByIDs returns the tags with the given IDs, ordered by ID.
func (s *Store) GetTagsByIDs(ctx context.Context, ids []int64) ([]domain.Tag, error) {
	if len(ids) == 0 {
		return []domain.Tag{}, nil
	}

	tags := []domain.Tag{}
	for _, batch := range idBatches(sortedUniqueIDs(ids)) {
		rows, err := s.db.QueryContext(ctx,
			`SELECT id, name, slug, created_at FROM tags
			WHERE id IN (`+placeholders(len(batch))+`) ORDER BY id`,
			int64Args(batch)...)
		if err != nil {
			return nil, err
		}
		for rows.Next() {
			t, err := scanTag(rows)
			if err != nil {
				rows.Close()
				return nil, err
			}
			tags = append(tags, *t)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return nil, err
		}
	}
	return tags, nil
}
