package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/tublog/tublog-server/internal/domain"
	domainerrors "github.com/tublog/tublog-server/internal/errors"
	"github.com/tublog/tublog-server/internal/media/images"
	"github.com/tublog/tublog-server/internal/normalize"
	"github.com/tublog/tublog-server/internal/store"
	"github.com/tublog/tublog-server/internal/validation"
)

// MaxAvatarBytes is the largest avatar upload accepted.
const MaxAvatarBytes = 2 << 20

// ProfileService manages user profiles and their avatar images.
type ProfileService struct {
	store     store.Store
	avatars   *images.Storage
	validator *validation.Validator
	logger    *slog.Logger
}

// NewProfileService creates a new profile service.
func NewProfileService(
	store store.Store,
	avatars *images.Storage,
	validator *validation.Validator,
	logger *slog.Logger,
) *ProfileService {
	return &ProfileService{
		store:     store,
		avatars:   avatars,
		validator: validator,
		logger:    orDiscard(logger),
	}
}

// ProfileRequest is the create and edit form for a profile.
type ProfileRequest struct {
	Bio     string `json:"bio"`
	Website string `json:"website" validate:"omitempty,max=200,http_url"`
}

// Viewer identifies who is asking for a page. The zero value is anonymous.
type Viewer struct {
	UserID   string
	Username string
}

// ProfileView is the outcome of looking up a profile page.
// Exactly one of Profile and RedirectToCreate is set.
type ProfileView struct {
	Profile          *domain.Profile
	RedirectToCreate bool
}

// View resolves the profile page for username as seen by viewer.
// When the profile does not exist, its owner is sent to create it and
// everyone else gets not-found.
func (s *ProfileService) View(ctx context.Context, username string, viewer Viewer) (*ProfileView, error) {
	profile, err := s.store.GetProfileByUsername(ctx, username)
	if err == nil {
		return &ProfileView{Profile: profile}, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("get profile: %w", err)
	}

	if viewer.Username != "" && viewer.Username == username {
		return &ProfileView{RedirectToCreate: true}, nil
	}
	return nil, domainerrors.NotFoundf("no profile for %q", username)
}

// GetOrDefault returns the viewer's profile, or an empty unsaved one.
func (s *ProfileService) GetOrDefault(ctx context.Context, viewer Viewer) (*domain.Profile, error) {
	profile, err := s.store.GetProfile(ctx, viewer.UserID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("get profile: %w", err)
	}

	profile = domain.NewProfile(viewer.UserID)
	profile.Username = viewer.Username
	return profile, nil
}

// Update overwrites the viewer's bio and website, creating the profile if needed.
// The avatar is left as it is.
func (s *ProfileService) Update(ctx context.Context, viewer Viewer, req ProfileRequest) (*domain.Profile, error) {
	req = cleanProfileRequest(req)
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	profile := domain.NewProfile(viewer.UserID)
	profile.Bio = req.Bio
	profile.Website = req.Website

	if err := s.store.SaveProfileDetails(ctx, profile); err != nil {
		return nil, fmt.Errorf("save profile: %w", err)
	}

	profile, err := s.reload(ctx, viewer)
	if err != nil {
		return nil, err
	}

	s.logger.Info("profile updated", "user_id", viewer.UserID)
	return profile, nil
}

// Create makes the viewer's profile. It fails with already-exists if
// they have one; editing is Update's job.
func (s *ProfileService) Create(ctx context.Context, viewer Viewer, req ProfileRequest) (*domain.Profile, error) {
	req = cleanProfileRequest(req)
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	profile := domain.NewProfile(viewer.UserID)
	profile.Username = viewer.Username
	profile.Bio = req.Bio
	profile.Website = req.Website

	if err := s.store.CreateProfile(ctx, profile); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, domainerrors.AlreadyExists("profile already exists")
		}
		return nil, fmt.Errorf("create profile: %w", err)
	}

	s.logger.Info("profile created", "user_id", viewer.UserID)
	return profile, nil
}

// SetAvatar stores a new avatar image for the viewer and records it on
// their profile, creating the profile if needed. Only JPEG, PNG and WebP
// images up to MaxAvatarBytes are accepted; the type is sniffed from the data.
func (s *ProfileService) SetAvatar(ctx context.Context, viewer Viewer, data []byte) (*domain.Profile, error) {
	if len(data) == 0 {
		return nil, avatarError("is required")
	}
	if len(data) > MaxAvatarBytes {
		return nil, domainerrors.TooLarge(fmt.Sprintf("avatar exceeds %d bytes", MaxAvatarBytes))
	}

	format, ok := images.DetectFormat(data)
	if !ok {
		return nil, avatarError("must be a JPEG, PNG or WebP image")
	}
	if err := images.CheckDimensions(data); err != nil {
		return nil, avatarError(err.Error())
	}

	blurHash, err := images.ComputeBlurHash(data)
	if err != nil {
		return nil, avatarError("could not be decoded")
	}

	path, err := s.avatars.Save(viewer.UserID, format, data)
	if err != nil {
		return nil, fmt.Errorf("store avatar: %w", err)
	}

	profile := domain.NewProfile(viewer.UserID)
	profile.Avatar = path
	profile.AvatarBlurHash = blurHash
	profile.AvatarVersion = uuid.NewString()

	if err := s.store.SaveProfileAvatar(ctx, profile); err != nil {
		return nil, fmt.Errorf("save profile: %w", err)
	}

	profile, err = s.reload(ctx, viewer)
	if err != nil {
		return nil, err
	}

	s.logger.Info("avatar updated", "user_id", viewer.UserID, "format", format.Ext(), "bytes", len(data))
	return profile, nil
}

// DeleteAvatar removes the viewer's avatar image.
func (s *ProfileService) DeleteAvatar(ctx context.Context, viewer Viewer) (*domain.Profile, error) {
	profile, err := s.store.GetProfile(ctx, viewer.UserID)
	if err != nil {
		return nil, notFoundOr(err, "profile not found")
	}

	if err := s.avatars.Delete(viewer.UserID); err != nil {
		return nil, fmt.Errorf("delete avatar: %w", err)
	}

	profile.ClearAvatar()
	profile.UpdatedAt = time.Now()
	if err := s.store.SaveProfileAvatar(ctx, profile); err != nil {
		return nil, fmt.Errorf("save profile: %w", err)
	}

	profile, err = s.reload(ctx, viewer)
	if err != nil {
		return nil, err
	}

	s.logger.Info("avatar removed", "user_id", viewer.UserID)
	return profile, nil
}

// reload reads the viewer's profile back after a partial write.
func (s *ProfileService) reload(ctx context.Context, viewer Viewer) (*domain.Profile, error) {
	profile, err := s.store.GetProfile(ctx, viewer.UserID)
	if err != nil {
		return nil, fmt.Errorf("reload profile: %w", err)
	}
	return profile, nil
}

// OpenAvatar opens a stored avatar file by name for serving.
func (s *ProfileService) OpenAvatar(name string) (*os.File, images.Format, error) {
	f, format, err := s.avatars.Open(name)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, "", domainerrors.NotFound("avatar not found")
		}
		return nil, "", fmt.Errorf("open avatar: %w", err)
	}
	return f, format, nil
}

func cleanProfileRequest(req ProfileRequest) ProfileRequest {
	req.Bio = normalize.Text(req.Bio)
	req.Website = normalize.Text(req.Website)
	return req
}

func avatarError(msg string) error {
	return domainerrors.ValidationWithDetails("validation failed: avatar", map[string]string{"avatar": msg})
}
