package sqlite

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/tublog/tublog-server/internal/domain"
	"github.com/tublog/tublog-server/internal/store"
)

func makeTestPost(authorID, title, content string) *domain.Post {
	p := &domain.Post{Title: title, Content: content, AuthorID: authorID}
	p.InitTimestamps()
	return p
}

func mustCreatePost(t *testing.T, s *Store, authorID, title, content string) *domain.Post {
	t.Helper()
	p := makeTestPost(authorID, title, content)
	if err := s.CreatePost(context.Background(), p); err != nil {
		t.Fatalf("CreatePost(%q): %v", title, err)
	}
	return p
}

// ignoreTimes drops timestamps, which round-trip through UTC.
var ignoreTimes = cmpopts.IgnoreFields(domain.Post{}, "Timestamps")

func ignoreTaxonomyTimes() cmp.Option {
	return cmp.Options{
		cmpopts.IgnoreFields(domain.Category{}, "CreatedAt"),
		cmpopts.IgnoreFields(domain.Tag{}, "CreatedAt"),
	}
}

func TestCreateAndGetPost(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	mustCreateUser(t, s, "user-1", "alice")
	news := mustCreateCategory(t, s, "News")
	golang := mustCreateTag(t, s, "golang")

	post := makeTestPost("user-1", "Hello", "First post.")
	post.Categories = []domain.Category{{ID: news.ID}}
	post.Tags = []domain.Tag{{ID: golang.ID}}
	if err := s.CreatePost(ctx, post); err != nil {
		t.Fatalf("CreatePost: %v", err)
	}
	if post.ID == 0 {
		t.Fatal("expected ID to be set")
	}

	got, err := s.GetPost(ctx, post.ID)
	if err != nil {
		t.Fatalf("GetPost: %v", err)
	}

	want := &domain.Post{
		ID:             post.ID,
		Title:          "Hello",
		Content:        "First post.",
		AuthorID:       "user-1",
		AuthorUsername: "alice",
		Categories:     []domain.Category{{ID: news.ID, Name: "News", Slug: "news"}},
		Tags:           []domain.Tag{{ID: golang.ID, Name: "golang", Slug: "golang"}},
	}
	if diff := cmp.Diff(want, got, ignoreTimes, ignoreTaxonomyTimes()); diff != "" {
		t.Errorf("post mismatch (-want +got):\n%s", diff)
	}
}

func TestCreatePost_UnknownCategoryRollsBack(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	mustCreateUser(t, s, "user-1", "alice")

	post := makeTestPost("user-1", "Orphan", "body")
	post.Categories = []domain.Category{{ID: 42}}
	if err := s.CreatePost(ctx, post); !errors.Is(err, store.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}

	posts, err := s.ListPosts(ctx)
	if err != nil {
		t.Fatalf("ListPosts: %v", err)
	}
	if len(posts) != 0 {
		t.Errorf("post survived failed transaction: %+v", posts)
	}
}

func TestListPosts_OrderedByID(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	mustCreateUser(t, s, "user-1", "alice")

	first := mustCreatePost(t, s, "user-1", "One", "a")
	second := mustCreatePost(t, s, "user-1", "Two", "b")

	posts, err := s.ListPosts(ctx)
	if err != nil {
		t.Fatalf("ListPosts: %v", err)
	}
	if len(posts) != 2 || posts[0].ID != first.ID || posts[1].ID != second.ID {
		t.Fatalf("unexpected order: %+v", posts)
	}
	if posts[0].Categories == nil || posts[0].Tags == nil {
		t.Error("expected non-nil empty taxonomy slices")
	}
}

func TestUpdatePost_ReplacesLinks(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	mustCreateUser(t, s, "user-1", "alice")
	a := mustCreateTag(t, s, "a")
	b := mustCreateTag(t, s, "b")

	post := makeTestPost("user-1", "Draft", "old")
	post.Tags = []domain.Tag{{ID: a.ID}}
	if err := s.CreatePost(ctx, post); err != nil {
		t.Fatalf("CreatePost: %v", err)
	}

	post.Title = "Final"
	post.Content = "new"
	post.Tags = []domain.Tag{{ID: b.ID}}
	post.Touch()
	if err := s.UpdatePost(ctx, post); err != nil {
		t.Fatalf("UpdatePost: %v", err)
	}

	got, err := s.GetPost(ctx, post.ID)
	if err != nil {
		t.Fatalf("GetPost: %v", err)
	}
	if got.Title != "Final" || got.Content != "new" {
		t.Errorf("fields not updated: %+v", got)
	}
	if len(got.Tags) != 1 || got.Tags[0].ID != b.ID {
		t.Errorf("tags not replaced: %+v", got.Tags)
	}

	// Search reads the fold columns, so they must follow the update.
	page, err := s.SearchPosts(ctx, "FINAL", store.PageParams{})
	if err != nil {
		t.Fatalf("SearchPosts: %v", err)
	}
	if page.Total != 1 {
		t.Errorf("search after update: total %d, want 1", page.Total)
	}

	missing := makeTestPost("user-1", "x", "y")
	missing.ID = 999
	if err := s.UpdatePost(ctx, missing); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDeletePost_RemovesLinks(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	mustCreateUser(t, s, "user-1", "alice")
	c := mustCreateCategory(t, s, "News")
	tag := mustCreateTag(t, s, "go")

	post := makeTestPost("user-1", "Bye", "gone soon")
	post.Categories = []domain.Category{{ID: c.ID}}
	post.Tags = []domain.Tag{{ID: tag.ID}}
	if err := s.CreatePost(ctx, post); err != nil {
		t.Fatalf("CreatePost: %v", err)
	}

	if err := s.DeletePost(ctx, post.ID); err != nil {
		t.Fatalf("DeletePost: %v", err)
	}
	if _, err := s.GetPost(ctx, post.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("GetPost after delete: expected ErrNotFound, got %v", err)
	}

	for _, table := range []string{"post_categories", "post_tags"} {
		var n int
		if err := s.db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n); err != nil {
			t.Fatalf("count %s: %v", table, err)
		}
		if n != 0 {
			t.Errorf("%s still has %d rows", table, n)
		}
	}

	if err := s.DeletePost(ctx, post.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("second delete: expected ErrNotFound, got %v", err)
	}
}

// sqliteMaxVariables is SQLite's default cap on host parameters per statement.
const sqliteMaxVariables = 32766

func TestListPosts_MorePostsThanQueryParameters(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	mustCreateUser(t, s, "user-1", "alice")
	news := mustCreateCategory(t, s, "News")
	golang := mustCreateTag(t, s, "golang")

	first := makeTestPost("user-1", "first", "body")
	first.Categories = []domain.Category{{ID: news.ID}}
	if err := s.CreatePost(ctx, first); err != nil {
		t.Fatalf("CreatePost(first): %v", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO posts (title, content, title_fold, content_fold, author_id, created_at, updated_at)
		VALUES (?, 'body', ?, 'body', 'user-1', ?, ?)`)
	if err != nil {
		t.Fatalf("prepare: %v", err)
	}
	now := formatTime(time.Now())
	for i := range sqliteMaxVariables {
		title := fmt.Sprintf("post %d", i)
		if _, err := stmt.ExecContext(ctx, title, title, now, now); err != nil {
			t.Fatalf("insert post %d: %v", i, err)
		}
	}
	stmt.Close()
	if err := tx.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}

	last := makeTestPost("user-1", "last", "body")
	last.Tags = []domain.Tag{{ID: golang.ID}}
	if err := s.CreatePost(ctx, last); err != nil {
		t.Fatalf("CreatePost(last): %v", err)
	}

	posts, err := s.ListPosts(ctx)
	if err != nil {
		t.Fatalf("ListPosts: %v", err)
	}
	if want := sqliteMaxVariables + 2; len(posts) != want {
		t.Fatalf("got %d posts, want %d", len(posts), want)
	}

	gotFirst, gotLast := posts[0], posts[len(posts)-1]
	if gotFirst.ID != first.ID || len(gotFirst.Categories) != 1 || gotFirst.Categories[0].ID != news.ID {
		t.Errorf("first post = %+v, want category %d", gotFirst, news.ID)
	}
	if gotLast.ID != last.ID || len(gotLast.Tags) != 1 || gotLast.Tags[0].ID != golang.ID {
		t.Errorf("last post = %+v, want tag %d", gotLast, golang.ID)
	}
}
