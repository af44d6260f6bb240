package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimestamps_InitAndTouch(t *testing.T) {
	var u User
	u.InitTimestamps()

	require.False(t, u.CreatedAt.IsZero())
	assert.Equal(t, u.CreatedAt, u.UpdatedAt)

	u.UpdatedAt = u.UpdatedAt.Add(-time.Minute)
	u.Touch()

	assert.True(t, u.UpdatedAt.After(u.CreatedAt) || u.UpdatedAt.Equal(u.CreatedAt))
}

func TestNewProfile(t *testing.T) {
	p := NewProfile("user-1")

	assert.Equal(t, "user-1", p.UserID)
	assert.False(t, p.HasAvatar())
	assert.False(t, p.CreatedAt.IsZero())
	assert.Equal(t, p.CreatedAt, p.UpdatedAt)
}

func TestProfile_ClearAvatar(t *testing.T) {
	p := NewProfile("user-1")
	p.Avatar = "avatars/user-1.png"
	p.AvatarBlurHash = "LEHV6nWB2yk8pyo0adR*.7kCMdnj"
	p.AvatarVersion = "v1"
	require.True(t, p.HasAvatar())

	p.ClearAvatar()

	assert.False(t, p.HasAvatar())
	assert.Empty(t, p.AvatarBlurHash)
	assert.Empty(t, p.AvatarVersion)
}
