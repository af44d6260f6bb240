package sqlite

import (
	"context"
	"database/sql"

	"github.com/tublog/tublog-server/internal/domain"
)

// profileSelect joins users so the profile carries its owner's username.
// Column order must match scanProfile.
const profileSelect = `
	SELECT p.user_id, u.username, p.bio, p.website,
		p.avatar, p.avatar_blur_hash, p.avatar_version,
		p.created_at, p.updated_at
	FROM profiles p
	JOIN users u ON u.id = p.user_id`

func scanProfile(scanner interface{ Scan(dest ...any) error }) (*domain.Profile, error) {
	var (
		p         domain.Profile
		avatar    sql.NullString
		blurHash  sql.NullString
		version   sql.NullString
		createdAt string
		updatedAt string
	)

	err := scanner.Scan(
		&p.UserID,
		&p.Username,
		&p.Bio,
		&p.Website,
		&avatar,
		&blurHash,
		&version,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.Avatar = avatar.String
	p.AvatarBlurHash = blurHash.String
	p.AvatarVersion = version.String

	if p.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if p.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}

	return &p, nil
}

// GetProfile retrieves the profile owned by userID.
// Returns store.ErrNotFound if the user has no profile.
func (s *Store) GetProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	row := s.db.QueryRowContext(ctx, profileSelect+` WHERE p.user_id = ?`, userID)

	p, err := scanProfile(row)
	if err != nil {
		return nil, notFound(err)
	}
	return p, nil
}

// GetProfileByUsername retrieves a profile by its owner's username.
// Returns store.ErrNotFound if the user is unknown or has no profile.
func (s *Store) GetProfileByUsername(ctx context.Context, username string) (*domain.Profile, error) {
	row := s.db.QueryRowContext(ctx, profileSelect+` WHERE u.username = ?`, username)

	p, err := scanProfile(row)
	if err != nil {
		return nil, notFound(err)
	}
	return p, nil
}

// ProfileExists reports whether userID has a profile row.
func (s *Store) ProfileExists(ctx context.Context, userID string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM profiles WHERE user_id = ?)`, userID).Scan(&exists)
	return exists, err
}

// CreateProfile inserts a profile.
// Returns store.ErrAlreadyExists if the user already has one and
// store.ErrInvalidInput if the user does not exist.
func (s *Store) CreateProfile(ctx context.Context, profile *domain.Profile) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO profiles (
			user_id, bio, website, avatar, avatar_blur_hash, avatar_version,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		profile.UserID,
		profile.Bio,
		profile.Website,
		nullString(profile.Avatar),
		nullString(profile.AvatarBlurHash),
		nullString(profile.AvatarVersion),
		formatTime(profile.CreatedAt),
		formatTime(profile.UpdatedAt),
	)
	return mapConstraintError(err)
}

// SaveProfileDetails upserts the user's bio and website.
// On an existing row only bio, website and updated_at change.
func (s *Store) SaveProfileDetails(ctx context.Context, profile *domain.Profile) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO profiles (user_id, bio, website, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			bio = excluded.bio,
			website = excluded.website,
			updated_at = excluded.updated_at`,
		profile.UserID,
		profile.Bio,
		profile.Website,
		formatTime(profile.CreatedAt),
		formatTime(profile.UpdatedAt),
	)
	return mapConstraintError(err)
}

// SaveProfileAvatar upserts the user's avatar columns.
// On an existing row only the avatar fields and updated_at change.
func (s *Store) SaveProfileAvatar(ctx context.Context, profile *domain.Profile) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO profiles (
			user_id, bio, website, avatar, avatar_blur_hash, avatar_version,
			created_at, updated_at
		) VALUES (?, '', '', ?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			avatar = excluded.avatar,
			avatar_blur_hash = excluded.avatar_blur_hash,
			avatar_version = excluded.avatar_version,
			updated_at = excluded.updated_at`,
		profile.UserID,
		nullString(profile.Avatar),
		nullString(profile.AvatarBlurHash),
		nullString(profile.AvatarVersion),
		formatTime(profile.CreatedAt),
		formatTime(profile.UpdatedAt),
	)
	return mapConstraintError(err)
}
