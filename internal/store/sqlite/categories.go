package sqlite

import (
	"context"
	"fmt"

	"github.com/tublog/tublog-server/internal/domain"
	"github.com/tublog/tublog-server/internal/normalize"
)

func scanCategory(scanner interface{ Scan(dest ...any) error }) (*domain.Category, error) {
	var (
		c         domain.Category
		createdAt string
	)
	if err := scanner.Scan(&c.ID, &c.Name, &c.Slug, &createdAt); err != nil {
		return nil, err
	}
	var err error
	if c.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	return &c, nil
}

// CreateCategory inserts a category and fills in its ID and slug.
func (s *Store) CreateCategory(ctx context.Context, category *domain.Category) error {
	category.Slug = normalize.Slug(category.Name)

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO categories (name, slug, created_at) VALUES (?, ?, ?)`,
		category.Name,
		category.Slug,
		formatTime(category.CreatedAt),
	)
	if err != nil {
		return mapConstraintError(err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("category id: %w", err)
	}
	category.ID = id
	return nil
}

// ListCategories returns every category in creation order.
func (s *Store) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, slug, created_at FROM categories ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := []*domain.Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// GetCategoriesByIDs returns the categories with the given IDs, ordered by ID.
// Unknown IDs are skipped; callers compare lengths to detect them.
func (s *Store) GetCategoriesByIDs(ctx context.Context, ids []int64) ([]domain.Category, error) {
	if len(ids) == 0 {
		return []domain.Category{}, nil
	}

	categories := []domain.Category{}
	for _, batch := range idBatches(sortedUniqueIDs(ids)) {
		rows, err := s.db.QueryContext(ctx,
			`SELECT id, name, slug, created_at FROM categories
			WHERE id IN (`+placeholders(len(batch))+`) ORDER BY id`,
			int64Args(batch)...)
		if err != nil {
			return nil, err
		}
		for rows.Next() {
			c, err := scanCategory(rows)
			if err != nil {
				rows.Close()
				return nil, err
			}
			categories = append(categories, *c)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return nil, err
		}
	}
	return categories, nil
}
