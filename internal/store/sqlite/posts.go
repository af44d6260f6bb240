package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/tublog/tublog-server/internal/domain"
	"github.com/tublog/tublog-server/internal/normalize"
)

// postSelect joins users for the author's username.
// Column order must match scanPost.
const postSelect = `
	SELECT p.id, p.title, p.content, p.author_id, u.username, p.created_at, p.updated_at
	FROM posts p
	JOIN users u ON u.id = p.author_id`

func scanPost(scanner interface{ Scan(dest ...any) error }) (*domain.Post, error) {
	var (
		p         domain.Post
		createdAt string
		updatedAt string
	)

	err := scanner.Scan(
		&p.ID,
		&p.Title,
		&p.Content,
		&p.AuthorID,
		&p.AuthorUsername,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if p.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if p.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}

	p.Categories = []domain.Category{}
	p.Tags = []domain.Tag{}
	return &p, nil
}

// CreatePost inserts a post with its category and tag links in one transaction.
// post.ID is set on success. Unknown category, tag, or author IDs yield
// store.ErrInvalidInput.
func (s *Store) CreatePost(ctx context.Context, post *domain.Post) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		INSERT INTO posts (
			title, content, title_fold, content_fold, author_id, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		post.Title,
		post.Content,
		normalize.Fold(post.Title),
		normalize.Fold(post.Content),
		post.AuthorID,
		formatTime(post.CreatedAt),
		formatTime(post.UpdatedAt),
	)
	if err != nil {
		return mapConstraintError(err)
	}

	postID, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("post id: %w", err)
	}

	if err := insertPostLinks(ctx, tx, postID, post.CategoryIDs(), post.TagIDs()); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	post.ID = postID
	return nil
}

// GetPost retrieves a post with its author, categories and tags.
// Returns store.ErrNotFound if the post does not exist.
func (s *Store) GetPost(ctx context.Context, id int64) (*domain.Post, error) {
	row := s.db.QueryRowContext(ctx, postSelect+` WHERE p.id = ?`, id)

	p, err := scanPost(row)
	if err != nil {
		return nil, notFound(err)
	}

	if err := s.loadPostTaxonomies(ctx, []*domain.Post{p}); err != nil {
		return nil, err
	}
	return p, nil
}

// ListPosts returns every post, oldest first.
func (s *Store) ListPosts(ctx context.Context) ([]*domain.Post, error) {
	rows, err := s.db.QueryContext(ctx, postSelect+` ORDER BY p.id`)
	if err != nil {
		return nil, err
	}
	posts, err := collectPosts(rows)
	if err != nil {
		return nil, err
	}

	if err := s.loadPostTaxonomies(ctx, posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// UpdatePost replaces a post's title, content and links.
// Returns store.ErrNotFound if the post does not exist.
func (s *Store) UpdatePost(ctx context.Context, post *domain.Post) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		UPDATE posts SET
			title = ?,
			content = ?,
			title_fold = ?,
			content_fold = ?,
			updated_at = ?
		WHERE id = ?`,
		post.Title,
		post.Content,
		normalize.Fold(post.Title),
		normalize.Fold(post.Content),
		formatTime(post.UpdatedAt),
		post.ID,
	)
	if err != nil {
		return mapConstraintError(err)
	}
	if err := requireAffected(result); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM post_categories WHERE post_id = ?`, post.ID); err != nil {
		return fmt.Errorf("clear categories: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM post_tags WHERE post_id = ?`, post.ID); err != nil {
		return fmt.Errorf("clear tags: %w", err)
	}

	if err := insertPostLinks(ctx, tx, post.ID, post.CategoryIDs(), post.TagIDs()); err != nil {
		return err
	}

	return tx.Commit()
}

// DeletePost removes a post. Its links go with it via ON DELETE CASCADE.
// Returns store.ErrNotFound if the post does not exist.
func (s *Store) DeletePost(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM posts WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireAffected(result)
}

func insertPostLinks(ctx context.Context, tx *sql.Tx, postID int64, categoryIDs, tagIDs []int64) error {
	for _, cid := range categoryIDs {
		_, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO post_categories (post_id, category_id) VALUES (?, ?)`,
			postID, cid)
		if err != nil {
			return mapConstraintError(err)
		}
	}
	for _, tid := range tagIDs {
		_, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO post_tags (post_id, tag_id) VALUES (?, ?)`,
			postID, tid)
		if err != nil {
			return mapConstraintError(err)
		}
	}
	return nil
}

// collectPosts scans and closes rows.
func collectPosts(rows *sql.Rows) ([]*domain.Post, error) {
	defer rows.Close()

	posts := []*domain.Post{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// loadPostTaxonomies fills Categories and Tags for the given posts
// with one query per link table.
func (s *Store) loadPostTaxonomies(ctx context.Context, posts []*domain.Post) error {
	if len(posts) == 0 {
		return nil
	}

	byID := make(map[int64]*domain.Post, len(posts))
	ids := make([]int64, 0, len(posts))
	for _, p := range posts {
		byID[p.ID] = p
		ids = append(ids, p.ID)
	}

	for _, batch := range idBatches(ids) {
		if err := s.loadPostCategories(ctx, byID, batch); err != nil {
			return fmt.Errorf("load post categories: %w", err)
		}
		if err := s.loadPostTags(ctx, byID, batch); err != nil {
			return fmt.Errorf("load post tags: %w", err)
		}
	}
	return nil
}

func (s *Store) loadPostCategories(ctx context.Context, byID map[int64]*domain.Post, ids []int64) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT pc.post_id, c.id, c.name, c.slug, c.created_at
		FROM post_categories pc
		JOIN categories c ON c.id = pc.category_id
		WHERE pc.post_id IN (`+placeholders(len(ids))+`)
		ORDER BY c.id`, int64Args(ids)...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			postID    int64
			c         domain.Category
			createdAt string
		)
		if err := rows.Scan(&postID, &c.ID, &c.Name, &c.Slug, &createdAt); err != nil {
			return err
		}
		if c.CreatedAt, err = parseTime(createdAt); err != nil {
			return err
		}
		byID[postID].Categories = append(byID[postID].Categories, c)
	}
	return rows.Err()
}

func (s *Store) loadPostTags(ctx context.Context, byID map[int64]*domain.Post, ids []int64) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT pt.post_id, t.id, t.name, t.slug, t.created_at
		FROM post_tags pt
		JOIN tags t ON t.id = pt.tag_id
		WHERE pt.post_id IN (`+placeholders(len(ids))+`)
		ORDER BY t.id`, int64Args(ids)...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			postID    int64
			t         domain.Tag
			createdAt string
		)
		if err := rows.Scan(&postID, &t.ID, &t.Name, &t.Slug, &createdAt); err != nil {
			return err
		}
		if t.CreatedAt, err = parseTime(createdAt); err != nil {
			return err
		}
		byID[postID].Tags = append(byID[postID].Tags, t)
	}
	return rows.Err()
}
