package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/tublog/tublog-server/internal/domain"
	"github.com/tublog/tublog-server/internal/store"
)

func TestProfile_CreateAndGet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	mustCreateUser(t, s, "user-1", "alice")

	exists, err := s.ProfileExists(ctx, "user-1")
	if err != nil {
		t.Fatalf("ProfileExists: %v", err)
	}
	if exists {
		t.Fatal("expected no profile yet")
	}

	p := domain.NewProfile("user-1")
	p.Bio = "Writes about Go."
	p.Website = "https://alice.example.com"
	if err := s.CreateProfile(ctx, p); err != nil {
		t.Fatalf("CreateProfile: %v", err)
	}

	got, err := s.GetProfileByUsername(ctx, "alice")
	if err != nil {
		t.Fatalf("GetProfileByUsername: %v", err)
	}

	want := &domain.Profile{
		UserID:   "user-1",
		Username: "alice",
		Bio:      "Writes about Go.",
		Website:  "https://alice.example.com",
	}
	if diff := cmp.Diff(want, got, cmpopts.IgnoreFields(domain.Profile{}, "CreatedAt", "UpdatedAt")); diff != "" {
		t.Errorf("profile mismatch (-want +got):\n%s", diff)
	}

	exists, err = s.ProfileExists(ctx, "user-1")
	if err != nil || !exists {
		t.Errorf("ProfileExists = %v, %v; want true", exists, err)
	}
}

func TestCreateProfile_Twice(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	mustCreateUser(t, s, "user-1", "alice")

	if err := s.CreateProfile(ctx, domain.NewProfile("user-1")); err != nil {
		t.Fatalf("CreateProfile: %v", err)
	}
	if err := s.CreateProfile(ctx, domain.NewProfile("user-1")); !errors.Is(err, store.ErrAlreadyExists) {
		t.Errorf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestSaveProfileDetails_OverwritesPreviousValues(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	mustCreateUser(t, s, "user-1", "alice")

	first := domain.NewProfile("user-1")
	first.Bio = "first"
	first.Website = "https://one.example.com"
	if err := s.SaveProfileDetails(ctx, first); err != nil {
		t.Fatalf("SaveProfileDetails first: %v", err)
	}

	second := domain.NewProfile("user-1")
	second.Bio = "second"
	if err := s.SaveProfileDetails(ctx, second); err != nil {
		t.Fatalf("SaveProfileDetails second: %v", err)
	}

	got, err := s.GetProfile(ctx, "user-1")
	if err != nil {
		t.Fatalf("GetProfile: %v", err)
	}
	if got.Bio != "second" || got.Website != "" {
		t.Errorf("expected only latest values, got %+v", got)
	}
	if !got.CreatedAt.Equal(first.CreatedAt) {
		t.Errorf("CreatedAt changed: got %v, want %v", got.CreatedAt, first.CreatedAt)
	}

	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM profiles").Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Errorf("profiles rows = %d, want 1", count)
	}
}

func TestSaveProfile_PartialWritesKeepOtherColumns(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	mustCreateUser(t, s, "user-1", "alice")

	// A details edit prepared before the avatar upload lands after it.
	stale := domain.NewProfile("user-1")
	stale.Bio = "old bio"

	avatar := domain.NewProfile("user-1")
	avatar.Avatar = "avatars/user-1.png"
	avatar.AvatarBlurHash = "LEHV6nWB2yk8pyo0adR*.7kCMdnj"
	avatar.AvatarVersion = "v1"
	if err := s.SaveProfileAvatar(ctx, avatar); err != nil {
		t.Fatalf("SaveProfileAvatar: %v", err)
	}

	stale.Bio = "new bio"
	stale.Website = "https://alice.example.com"
	if err := s.SaveProfileDetails(ctx, stale); err != nil {
		t.Fatalf("SaveProfileDetails: %v", err)
	}

	got, err := s.GetProfile(ctx, "user-1")
	if err != nil {
		t.Fatalf("GetProfile: %v", err)
	}
	want := &domain.Profile{
		UserID:         "user-1",
		Username:       "alice",
		Bio:            "new bio",
		Website:        "https://alice.example.com",
		Avatar:         "avatars/user-1.png",
		AvatarBlurHash: "LEHV6nWB2yk8pyo0adR*.7kCMdnj",
		AvatarVersion:  "v1",
	}
	ignore := cmpopts.IgnoreFields(domain.Profile{}, "CreatedAt", "UpdatedAt")
	if diff := cmp.Diff(want, got, ignore); diff != "" {
		t.Errorf("profile mismatch (-want +got):\n%s", diff)
	}

	// Clearing the avatar leaves the details alone.
	got.ClearAvatar()
	if err := s.SaveProfileAvatar(ctx, got); err != nil {
		t.Fatalf("SaveProfileAvatar clear: %v", err)
	}
	cleared, err := s.GetProfile(ctx, "user-1")
	if err != nil {
		t.Fatalf("GetProfile: %v", err)
	}
	if cleared.HasAvatar() || cleared.Bio != "new bio" {
		t.Errorf("expected avatar cleared and bio kept, got %+v", cleared)
	}
}

func TestGetProfile_NotFound(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	mustCreateUser(t, s, "user-1", "alice")

	if _, err := s.GetProfile(ctx, "user-1"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("GetProfile: expected ErrNotFound, got %v", err)
	}
	if _, err := s.GetProfileByUsername(ctx, "ghost"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("GetProfileByUsername: expected ErrNotFound, got %v", err)
	}
}
