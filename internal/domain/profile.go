package domain

import "time"

// Profile holds the optional public details a user shows on their profile page.
// There is at most one per user, keyed by UserID.
type Profile struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"` // Joined from users; not stored on the profile row
	Bio      string `json:"bio"`
	Website  string `json:"website"`

	// Avatar is a path relative to the media root, e.g. "avatars/user-abc.png".
	Avatar         string `json:"avatar,omitempty"`
	AvatarBlurHash string `json:"avatar_blur_hash,omitempty"`
	// AvatarVersion changes on every upload so clients can bust caches.
	AvatarVersion string `json:"avatar_version,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewProfile creates an empty, unsaved profile for a user.
func NewProfile(userID string) *Profile {
	now := time.Now()
	return &Profile{
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// HasAvatar reports whether an avatar image has been uploaded.
func (p *Profile) HasAvatar() bool {
	return p.Avatar != ""
}

// ClearAvatar removes all avatar fields.
func (p *Profile) ClearAvatar() {
	p.Avatar = ""
	p.AvatarBlurHash = ""
	p.AvatarVersion = ""
}
