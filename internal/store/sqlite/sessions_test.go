package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tublog/tublog-server/internal/domain"
	"github.com/tublog/tublog-server/internal/store"
)

func makeTestSession(id, userID, tokenHash string, expiresAt time.Time) *domain.Session {
	now := time.Now()
	return &domain.Session{
		ID:               id,
		UserID:           userID,
		RefreshTokenHash: tokenHash,
		ExpiresAt:        expiresAt,
		CreatedAt:        now,
		LastSeenAt:       now,
		IPAddress:        "127.0.0.1",
		UserAgent:        "test-agent",
	}
}

func TestSessionLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	mustCreateUser(t, s, "user-1", "alice")

	sess := makeTestSession("session-1", "user-1", "hash-1", time.Now().Add(time.Hour))
	if err := s.CreateSession(ctx, sess); err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	got, err := s.GetSession(ctx, "session-1")
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if got.UserID != "user-1" || got.IPAddress != "127.0.0.1" || got.UserAgent != "test-agent" {
		t.Errorf("unexpected session: %+v", got)
	}

	byToken, err := s.GetSessionByRefreshToken(ctx, "hash-1")
	if err != nil {
		t.Fatalf("GetSessionByRefreshToken: %v", err)
	}
	if byToken.ID != "session-1" {
		t.Errorf("ID: got %q", byToken.ID)
	}

	sess.RefreshTokenHash = "hash-2"
	sess.Touch()
	if err := s.UpdateSession(ctx, sess); err != nil {
		t.Fatalf("UpdateSession: %v", err)
	}
	if _, err := s.GetSessionByRefreshToken(ctx, "hash-1"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("old token hash still resolves: %v", err)
	}

	if err := s.DeleteSession(ctx, "session-1"); err != nil {
		t.Fatalf("DeleteSession: %v", err)
	}
	if _, err := s.GetSession(ctx, "session-1"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	if err := s.DeleteSession(ctx, "session-1"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("second delete: expected ErrNotFound, got %v", err)
	}
}

func TestCreateSession_UnknownUser(t *testing.T) {
	s := newTestStore(t)

	err := s.CreateSession(context.Background(),
		makeTestSession("session-1", "user-missing", "hash", time.Now().Add(time.Hour)))
	if !errors.Is(err, store.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestDeleteExpiredSessions(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	mustCreateUser(t, s, "user-1", "alice")

	live := makeTestSession("session-live", "user-1", "hash-live", time.Now().Add(time.Hour))
	dead := makeTestSession("session-dead", "user-1", "hash-dead", time.Now().Add(-time.Hour))
	for _, sess := range []*domain.Session{live, dead} {
		if err := s.CreateSession(ctx, sess); err != nil {
			t.Fatalf("CreateSession: %v", err)
		}
	}

	n, err := s.DeleteExpiredSessions(ctx)
	if err != nil {
		t.Fatalf("DeleteExpiredSessions: %v", err)
	}
	if n != 1 {
		t.Errorf("deleted %d, want 1", n)
	}
	if _, err := s.GetSession(ctx, "session-live"); err != nil {
		t.Errorf("live session removed: %v", err)
	}
}
