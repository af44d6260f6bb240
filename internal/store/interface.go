// Package store defines the persistence interface for tublog.
package store

import (
	"context"

	"github.com/tublog/tublog-server/internal/domain"
)

// Store defines every persistence operation the services need.
// Lookups that miss return ErrNotFound; unique violations return ErrAlreadyExists.
type Store interface {
	Close() error
	Ping(ctx context.Context) error

	// Users
	CreateUser(ctx context.Context, user *domain.User) error
	GetUser(ctx context.Context, id string) (*domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
	UpdateUser(ctx context.Context, user *domain.User) error

	// Sessions
	CreateSession(ctx context.Context, session *domain.Session) error
	GetSession(ctx context.Context, id string) (*domain.Session, error)
	GetSessionByRefreshToken(ctx context.Context, tokenHash string) (*domain.Session, error)
	UpdateSession(ctx context.Context, session *domain.Session) error
	DeleteSession(ctx context.Context, id string) error
	DeleteExpiredSessions(ctx context.Context) (int, error)

	// Profiles
	GetProfile(ctx context.Context, userID string) (*domain.Profile, error)
	GetProfileByUsername(ctx context.Context, username string) (*domain.Profile, error)
	ProfileExists(ctx context.Context, userID string) (bool, error)
	// CreateProfile inserts a new profile and fails with ErrAlreadyExists if the user has one.
	CreateProfile(ctx context.Context, profile *domain.Profile) error
	// SaveProfileDetails inserts the profile or overwrites only its bio and website.
	SaveProfileDetails(ctx context.Context, profile *domain.Profile) error
	// SaveProfileAvatar inserts the profile or overwrites only its avatar fields.
	SaveProfileAvatar(ctx context.Context, profile *domain.Profile) error

	// Categories
	CreateCategory(ctx context.Context, category *domain.Category) error
	ListCategories(ctx context.Context) ([]*domain.Category, error)
	GetCategoriesByIDs(ctx context.Context, ids []int64) ([]domain.Category, error)

	// Tags
	CreateTag(ctx context.Context, tag *domain.Tag) error
	ListTags(ctx context.Context) ([]*domain.Tag, error)
	GetTagsByIDs(ctx context.Context, ids []int64) ([]domain.Tag, error)

	// Posts
	CreatePost(ctx context.Context, post *domain.Post) error
	GetPost(ctx context.Context, id int64) (*domain.Post, error)
	ListPosts(ctx context.Context) ([]*domain.Post, error)
	UpdatePost(ctx context.Context, post *domain.Post) error
	DeletePost(ctx context.Context, id int64) error
	// SearchPosts returns posts whose title or content contains query,
	// ignoring case, each post at most once, ordered by ID.
	SearchPosts(ctx context.Context, query string, params PageParams) (*Page[*domain.Post], error)
}
