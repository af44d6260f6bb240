package sqlite

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/tublog/tublog-server/internal/domain"
	"github.com/tublog/tublog-server/internal/store"
)

func mustCreateTag(t *testing.T, s *Store, name string) *domain.Tag {
	t.Helper()
	tag := &domain.Tag{Name: name}
	if err := s.CreateTag(context.Background(), tag); err != nil {
		t.Fatalf("CreateTag(%q): %v", name, err)
	}
	return tag
}

func mustCreateCategory(t *testing.T, s *Store, name string) *domain.Category {
	t.Helper()
	c := &domain.Category{Name: name}
	if err := s.CreateCategory(context.Background(), c); err != nil {
		t.Fatalf("CreateCategory(%q): %v", name, err)
	}
	return c
}

func TestCreateTag_DuplicateNamesAllowed(t *testing.T) {
	s := newTestStore(t)

	a := mustCreateTag(t, s, "Go Tips")
	b := mustCreateTag(t, s, "Go Tips")

	if a.ID == b.ID {
		t.Fatalf("expected distinct IDs, both %d", a.ID)
	}
	if a.Slug != "go-tips" {
		t.Errorf("Slug: got %q, want %q", a.Slug, "go-tips")
	}

	tags, err := s.ListTags(context.Background())
	if err != nil {
		t.Fatalf("ListTags: %v", err)
	}
	if len(tags) != 2 {
		t.Fatalf("got %d tags, want 2", len(tags))
	}
	if tags[0].ID != a.ID || tags[1].ID != b.ID {
		t.Errorf("tags not in id order: %d, %d", tags[0].ID, tags[1].ID)
	}
}

func TestCreateTag_NameTooLong(t *testing.T) {
	s := newTestStore(t)

	err := s.CreateTag(context.Background(), &domain.Tag{Name: strings.Repeat("x", domain.MaxTagNameLength+1)})
	if !errors.Is(err, store.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestGetTagsByIDs(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a := mustCreateTag(t, s, "alpha")
	mustCreateTag(t, s, "beta")
	c := mustCreateTag(t, s, "gamma")

	got, err := s.GetTagsByIDs(ctx, []int64{c.ID, a.ID, 999})
	if err != nil {
		t.Fatalf("GetTagsByIDs: %v", err)
	}
	names := make([]string, len(got))
	for i, tag := range got {
		names[i] = tag.Name
	}
	if diff := cmp.Diff([]string{"alpha", "gamma"}, names); diff != "" {
		t.Errorf("names mismatch (-want +got):\n%s", diff)
	}

	empty, err := s.GetTagsByIDs(ctx, nil)
	if err != nil || len(empty) != 0 {
		t.Errorf("GetTagsByIDs(nil) = %v, %v", empty, err)
	}
}

func TestGetByIDs_SplitsLargeIDLists(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	prev := maxQueryIDs
	maxQueryIDs = 2
	t.Cleanup(func() { maxQueryIDs = prev })

	var tagIDs, categoryIDs []int64
	for i := range 5 {
		tagIDs = append(tagIDs, mustCreateTag(t, s, fmt.Sprintf("tag %d", i)).ID)
		categoryIDs = append(categoryIDs, mustCreateCategory(t, s, fmt.Sprintf("category %d", i)).ID)
	}

	tags, err := s.GetTagsByIDs(ctx, []int64{tagIDs[4], tagIDs[0], 999, tagIDs[2], tagIDs[0], tagIDs[3], tagIDs[1]})
	if err != nil {
		t.Fatalf("GetTagsByIDs: %v", err)
	}
	gotTags := make([]int64, len(tags))
	for i, tag := range tags {
		gotTags[i] = tag.ID
	}
	if diff := cmp.Diff(tagIDs, gotTags); diff != "" {
		t.Errorf("tag IDs mismatch (-want +got):\n%s", diff)
	}

	categories, err := s.GetCategoriesByIDs(ctx, []int64{categoryIDs[3], categoryIDs[1], categoryIDs[3], 999})
	if err != nil {
		t.Fatalf("GetCategoriesByIDs: %v", err)
	}
	gotCategories := make([]int64, len(categories))
	for i, c := range categories {
		gotCategories[i] = c.ID
	}
	if diff := cmp.Diff([]int64{categoryIDs[1], categoryIDs[3]}, gotCategories); diff != "" {
		t.Errorf("category IDs mismatch (-want +got):\n%s", diff)
	}
}

func TestCategories(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	news := mustCreateCategory(t, s, "Ünïcode News")
	if news.Slug != "unicode-news" {
		t.Errorf("Slug: got %q", news.Slug)
	}
	mustCreateCategory(t, s, "Ünïcode News")

	list, err := s.ListCategories(ctx)
	if err != nil {
		t.Fatalf("ListCategories: %v", err)
	}
	if len(list) != 2 {
		t.Errorf("got %d categories, want 2", len(list))
	}

	got, err := s.GetCategoriesByIDs(ctx, []int64{news.ID})
	if err != nil {
		t.Fatalf("GetCategoriesByIDs: %v", err)
	}
	if len(got) != 1 || got[0].Name != "Ünïcode News" {
		t.Errorf("unexpected categories: %+v", got)
	}

	err = s.CreateCategory(ctx, &domain.Category{Name: ""})
	if !errors.Is(err, store.ErrInvalidInput) {
		t.Errorf("empty name: expected ErrInvalidInput, got %v", err)
	}
}
