package api

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/go-chi/chi/v5"

	"github.com/tublog/tublog-server/internal/domain"
	"github.com/tublog/tublog-server/internal/service"
)

func (s *Server) registerProfileRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "viewProfile",
		Method:      http.MethodGet,
		Path:        "/profile/{username}/",
		Summary:     "View profile",
		Description: "Returns a user's profile. Users without one are redirected to create it when viewing their own page.",
		Tags:        []string{"Profiles"},
	}, s.handleViewProfile)

	huma.Register(s.api, huma.Operation{
		OperationID: "editProfileForm",
		Method:      http.MethodGet,
		Path:        "/edit_profile/",
		Summary:     "Edit profile form",
		Description: "Returns the current user's profile, or an empty one if none was saved yet",
		Tags:        []string{"Profiles"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleEditProfileForm)

	huma.Register(s.api, huma.Operation{
		OperationID:   "editProfile",
		Method:        http.MethodPost,
		Path:          "/edit_profile/",
		Summary:       "Save profile",
		Description:   "Creates or overwrites the current user's profile",
		Tags:          []string{"Profiles"},
		Security:      []map[string][]string{{"bearer": {}}},
		DefaultStatus: http.StatusSeeOther,
	}, s.handleEditProfile)

	huma.Register(s.api, huma.Operation{
		OperationID: "createProfileForm",
		Method:      http.MethodGet,
		Path:        "/create_profile/",
		Summary:     "Create profile form",
		Tags:        []string{"Profiles"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreateProfileForm)

	huma.Register(s.api, huma.Operation{
		OperationID:   "createProfile",
		Method:        http.MethodPost,
		Path:          "/create_profile/",
		Summary:       "Create profile",
		Description:   "Creates the current user's profile. Fails with 409 if one exists.",
		Tags:          []string{"Profiles"},
		Security:      []map[string][]string{{"bearer": {}}},
		DefaultStatus: http.StatusSeeOther,
	}, s.handleCreateProfile)

	huma.Register(s.api, huma.Operation{
		OperationID:  "uploadAvatar",
		Method:       http.MethodPut,
		Path:         "/edit_profile/avatar/",
		Summary:      "Upload avatar",
		Description:  "Stores a JPEG, PNG or WebP image of at most 2 MiB as the current user's avatar",
		Tags:         []string{"Profiles"},
		Security:     []map[string][]string{{"bearer": {}}},
		MaxBodyBytes: service.MaxAvatarBytes,
	}, s.handleUploadAvatar)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteAvatar",
		Method:      http.MethodDelete,
		Path:        "/edit_profile/avatar/",
		Summary:     "Remove avatar",
		Tags:        []string{"Profiles"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteAvatar)

	// Direct chi route for avatar streaming
	s.router.Get("/media/avatars/{file}", s.handleServeAvatar)
}

// === DTOs ===

// ProfileRequest is the create and edit form for a profile.
type ProfileRequest struct {
	Bio     string `json:"bio,omitempty" doc:"Free-form biography"`
	Website string `json:"website,omitempty" doc:"http(s) URL, at most 200 characters"`
}

func (r ProfileRequest) toService() service.ProfileRequest {
	return service.ProfileRequest{Bio: r.Bio, Website: r.Website}
}

// ProfileInput wraps the profile form for Huma.
type ProfileInput struct {
	Body ProfileRequest
}

// ViewProfileInput identifies a profile page.
type ViewProfileInput struct {
	Username string `path:"username" maxLength:"150" doc:"Username"`
}

// UploadAvatarInput contains the avatar upload request.
type UploadAvatarInput struct {
	ContentType string `header:"Content-Type" doc:"Image content type; the actual type is sniffed from the data"`
	RawBody     []byte
}

// ProfileResponse is the public view of a profile.
type ProfileResponse struct {
	Username       string    `json:"username" doc:"Owner's username"`
	Bio            string    `json:"bio" doc:"Biography"`
	Website        string    `json:"website" doc:"Website URL"`
	AvatarURL      string    `json:"avatar_url,omitempty" doc:"Avatar image URL"`
	AvatarBlurHash string    `json:"avatar_blur_hash,omitempty" doc:"BlurHash placeholder for the avatar"`
	CreatedAt      time.Time `json:"created_at" doc:"When the profile was created"`
	UpdatedAt      time.Time `json:"updated_at" doc:"When the profile last changed"`
}

// ProfilePageResponse is either a profile or a pointer to profile creation.
type ProfilePageResponse struct {
	Profile  *ProfileResponse `json:"profile,omitempty" doc:"The profile, when it exists"`
	Redirect string           `json:"redirect,omitempty" doc:"Where the owner should go to create the profile"`
}

// ProfilePageOutput wraps a profile page for Huma.
type ProfilePageOutput struct {
	Status   int
	Location string `header:"Location"`
	Body     ProfilePageResponse
}

// ProfileFormResponse is the create or edit page for a profile.
type ProfileFormResponse struct {
	Action  string          `json:"action" doc:"Path the form submits to"`
	Method  string          `json:"method" doc:"HTTP method the form submits with"`
	Profile ProfileResponse `json:"profile" doc:"Current values"`
}

// ProfileFormOutput wraps a profile form for Huma.
type ProfileFormOutput struct {
	Body ProfileFormResponse
}

// ProfileRedirectOutput answers a saved profile with 303 See Other.
type ProfileRedirectOutput struct {
	Status   int
	Location string `header:"Location"`
	Body     ProfileResponse
}

// ProfileOutput wraps a profile for Huma.
type ProfileOutput struct {
	Body ProfileResponse
}

// === Handlers ===

func (s *Server) handleViewProfile(ctx context.Context, input *ViewProfileInput) (*ProfilePageOutput, error) {
	view, err := s.services.Profiles.View(ctx, input.Username, viewerFrom(ctx))
	if err != nil {
		return nil, err
	}

	if view.RedirectToCreate {
		return &ProfilePageOutput{
			Status:   http.StatusSeeOther,
			Location: "/create_profile/",
			Body:     ProfilePageResponse{Redirect: "/create_profile/"},
		}, nil
	}

	resp := mapProfileResponse(view.Profile)
	return &ProfilePageOutput{
		Status: http.StatusOK,
		Body:   ProfilePageResponse{Profile: &resp},
	}, nil
}

func (s *Server) handleEditProfileForm(ctx context.Context, _ *struct{}) (*ProfileFormOutput, error) {
	viewer, err := s.requireViewer(ctx)
	if err != nil {
		return nil, err
	}

	profile, err := s.services.Profiles.GetOrDefault(ctx, viewer)
	if err != nil {
		return nil, err
	}

	return profileForm("/edit_profile/", profile), nil
}

func (s *Server) handleEditProfile(ctx context.Context, input *ProfileInput) (*ProfileRedirectOutput, error) {
	viewer, err := s.requireViewer(ctx)
	if err != nil {
		return nil, err
	}

	profile, err := s.services.Profiles.Update(ctx, viewer, input.Body.toService())
	if err != nil {
		return nil, err
	}

	return profileSaved(profile), nil
}

func (s *Server) handleCreateProfileForm(ctx context.Context, _ *struct{}) (*ProfileFormOutput, error) {
	viewer, err := s.requireViewer(ctx)
	if err != nil {
		return nil, err
	}

	profile := domain.NewProfile(viewer.UserID)
	profile.Username = viewer.Username
	return profileForm("/create_profile/", profile), nil
}

func (s *Server) handleCreateProfile(ctx context.Context, input *ProfileInput) (*ProfileRedirectOutput, error) {
	viewer, err := s.requireViewer(ctx)
	if err != nil {
		return nil, err
	}

	profile, err := s.services.Profiles.Create(ctx, viewer, input.Body.toService())
	if err != nil {
		return nil, err
	}

	return profileSaved(profile), nil
}

func (s *Server) handleUploadAvatar(ctx context.Context, input *UploadAvatarInput) (*ProfileOutput, error) {
	viewer, err := s.requireViewer(ctx)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("avatar upload",
		"user_id", viewer.UserID,
		"content_type", input.ContentType,
		"body_size", len(input.RawBody),
	)

	profile, err := s.services.Profiles.SetAvatar(ctx, viewer, input.RawBody)
	if err != nil {
		return nil, err
	}

	return &ProfileOutput{Body: mapProfileResponse(profile)}, nil
}

func (s *Server) handleDeleteAvatar(ctx context.Context, _ *struct{}) (*ProfileOutput, error) {
	viewer, err := s.requireViewer(ctx)
	if err != nil {
		return nil, err
	}

	profile, err := s.services.Profiles.DeleteAvatar(ctx, viewer)
	if err != nil {
		return nil, err
	}

	return &ProfileOutput{Body: mapProfileResponse(profile)}, nil
}

// handleServeAvatar streams a stored avatar file.
func (s *Server) handleServeAvatar(w http.ResponseWriter, r *http.Request) {
	f, format, err := s.services.Profiles.OpenAvatar(chi.URLParam(r, "file"))
	if err != nil {
		writeError(w, err)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		s.logger.Error("stat avatar", "file", f.Name(), "error", err)
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Cache-Control", "public, max-age=86400")
	http.ServeContent(w, r, info.Name(), info.ModTime(), f)
}

func profileForm(action string, profile *domain.Profile) *ProfileFormOutput {
	return &ProfileFormOutput{Body: ProfileFormResponse{
		Action:  action,
		Method:  http.MethodPost,
		Profile: mapProfileResponse(profile),
	}}
}

func profileSaved(profile *domain.Profile) *ProfileRedirectOutput {
	return &ProfileRedirectOutput{
		Status:   http.StatusSeeOther,
		Location: "/profile/" + url.PathEscape(profile.Username) + "/",
		Body:     mapProfileResponse(profile),
	}
}

func mapProfileResponse(p *domain.Profile) ProfileResponse {
	resp := ProfileResponse{
		Username:  p.Username,
		Bio:       p.Bio,
		Website:   p.Website,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
	if p.HasAvatar() {
		resp.AvatarURL = "/media/" + p.Avatar + "?v=" + url.QueryEscape(p.AvatarVersion)
		resp.AvatarBlurHash = p.AvatarBlurHash
	}
	return resp
}
