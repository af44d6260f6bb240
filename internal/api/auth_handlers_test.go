package api

import (
	"net/http"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignup_RedirectsToCreateProfile(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/signup/", map[string]any{
		"username":  "alice",
		"email":     "alice@example.com",
		"password1": "password123",
		"password2": "password123",
	})
	require.Equal(t, http.StatusSeeOther, resp.Code, resp.Body.String())
	assert.Equal(t, "/create_profile/", resp.Header().Get("Location"))

	cookie := resp.Header().Get("Set-Cookie")
	assert.True(t, strings.HasPrefix(cookie, SessionCookieName+"="), cookie)
	assert.Contains(t, cookie, "HttpOnly")

	body := decode[AuthResponse](t, resp)
	assert.Equal(t, "alice", body.User.Username)
	assert.False(t, body.HasProfile)
	assert.NotEmpty(t, body.AccessToken)
	assert.NotEmpty(t, body.RefreshToken)
	assert.Equal(t, "Bearer", body.TokenType)
	assert.Positive(t, body.ExpiresIn)
}

func TestSignup_DuplicateUsername(t *testing.T) {
	ts := setupTestServer(t)
	ts.signup(t, "alice")

	resp := ts.api.Post("/signup/", map[string]any{
		"username":  "alice",
		"email":     "other@example.com",
		"password1": "password123",
		"password2": "password123",
	})

	assert.Equal(t, http.StatusConflict, resp.Code)
	assert.Equal(t, "ALREADY_EXISTS", decodeError(t, resp).Code)
}

func TestSignup_ValidationErrors(t *testing.T) {
	ts := setupTestServer(t)

	tests := []struct {
		name       string
		body       map[string]any
		wantStatus int
		wantField  string
	}{
		{
			name: "password mismatch",
			body: map[string]any{
				"username": "bob", "email": "bob@example.com",
				"password1": "password123", "password2": "password124",
			},
			wantStatus: http.StatusBadRequest,
			wantField:  "password2",
		},
		{
			name: "short password",
			body: map[string]any{
				"username": "bob", "email": "bob@example.com",
				"password1": "short", "password2": "short",
			},
			wantStatus: http.StatusBadRequest,
			wantField:  "password1",
		},
		{
			name: "bad username",
			body: map[string]any{
				"username": "bob smith", "email": "bob@example.com",
				"password1": "password123", "password2": "password123",
			},
			wantStatus: http.StatusBadRequest,
			wantField:  "username",
		},
		{
			name: "bad email",
			body: map[string]any{
				"username": "bob", "email": "not-an-email",
				"password1": "password123", "password2": "password123",
			},
			wantStatus: http.StatusBadRequest,
			wantField:  "email",
		},
		{
			name: "missing password2",
			body: map[string]any{
				"username": "bob", "email": "bob@example.com",
				"password1": "password123",
			},
			wantStatus: http.StatusUnprocessableEntity, // Huma returns 422 for missing required fields
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := ts.api.Post("/signup/", tt.body)
			require.Equal(t, tt.wantStatus, resp.Code, resp.Body.String())

			apiErr := decodeError(t, resp)
			assert.Equal(t, "VALIDATION", apiErr.Code)
			if tt.wantField != "" {
				details, ok := apiErr.Details.(map[string]any)
				require.True(t, ok, "details: %#v", apiErr.Details)
				assert.Contains(t, details, tt.wantField)
			}
		})
	}
}

func TestSignupForm(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/signup/")
	require.Equal(t, http.StatusOK, resp.Code)

	form := decode[FormResponse](t, resp)
	assert.Equal(t, "/signup/", form.Action)
	assert.Equal(t, http.MethodPost, form.Method)
	require.Len(t, form.Fields, 4)
	assert.Equal(t, "password2", form.Fields[3].Name)
}

func TestLogin_RedirectDependsOnProfile(t *testing.T) {
	ts := setupTestServer(t)
	alice := ts.signup(t, "alice")

	login := map[string]any{"username": "alice", "password": "password123"}

	resp := ts.api.Post("/login/", login)
	require.Equal(t, http.StatusSeeOther, resp.Code, resp.Body.String())
	assert.Equal(t, "/create_profile/", resp.Header().Get("Location"))

	resp = ts.api.Post("/create_profile/", bearer(alice.AccessToken), map[string]any{"bio": "hi"})
	require.Equal(t, http.StatusSeeOther, resp.Code, resp.Body.String())

	resp = ts.api.Post("/login/", login)
	require.Equal(t, http.StatusSeeOther, resp.Code)
	assert.Equal(t, "/", resp.Header().Get("Location"))
	assert.True(t, decode[AuthResponse](t, resp).HasProfile)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	ts := setupTestServer(t)
	ts.signup(t, "alice")

	wrongPassword := ts.api.Post("/login/", map[string]any{"username": "alice", "password": "nope-nope"})
	unknownUser := ts.api.Post("/login/", map[string]any{"username": "mallory", "password": "password123"})

	assert.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
	assert.Equal(t, http.StatusUnauthorized, unknownUser.Code)
	assert.Equal(t, "INVALID_CREDENTIALS", decodeError(t, wrongPassword).Code)
	assert.Equal(t, decodeError(t, wrongPassword).Message, decodeError(t, unknownUser).Message)
}

func TestLogin_RateLimited(t *testing.T) {
	ts := setupTestServer(t)

	body := map[string]any{"username": "nobody", "password": "password123"}
	for i := range 10 {
		resp := ts.api.Post("/login/", body)
		require.Equal(t, http.StatusUnauthorized, resp.Code, "attempt %d", i+1)
	}

	resp := ts.api.Post("/login/", body)
	require.Equal(t, http.StatusTooManyRequests, resp.Code)
	assert.Equal(t, "RATE_LIMITED", decodeError(t, resp).Code)

	retryAfter, err := strconv.Atoi(resp.Header().Get("Retry-After"))
	require.NoError(t, err)
	assert.GreaterOrEqual(t, retryAfter, 1)

	// Other clients keep their own budget.
	resp = ts.api.Post("/login/", "X-Real-IP: 203.0.113.7", body)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	// Pages that are not throttled are unaffected.
	assert.Equal(t, http.StatusOK, ts.api.Get("/login/").Code)
}

func TestLogout_RevokesSession(t *testing.T) {
	ts := setupTestServer(t)
	alice := ts.signup(t, "alice")

	resp := ts.api.Get("/create_profile/", bearer(alice.AccessToken))
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Post("/logout/", bearer(alice.AccessToken))
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.Contains(t, resp.Header().Get("Set-Cookie"), "Max-Age=0")

	resp = ts.api.Get("/create_profile/", bearer(alice.AccessToken))
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestLogout_Anonymous(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/logout/")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "You have been logged out.", decode[MessageResponse](t, resp).Message)
}

func TestSessionCookie_Authenticates(t *testing.T) {
	ts := setupTestServer(t)
	alice := ts.signup(t, "alice")

	resp := ts.api.Get("/", "Cookie: "+SessionCookieName+"="+alice.AccessToken)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "alice", decode[HomeResponse](t, resp).Username)

	resp = ts.api.Get("/", "Cookie: "+SessionCookieName+"=garbage")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.False(t, decode[HomeResponse](t, resp).Authenticated)
}

func TestRefresh_RotatesTokens(t *testing.T) {
	ts := setupTestServer(t)
	alice := ts.signup(t, "alice")

	resp := ts.api.Post("/refresh/", map[string]any{"refresh_token": alice.RefreshToken})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	refreshed := decode[AuthResponse](t, resp)
	assert.NotEqual(t, alice.RefreshToken, refreshed.RefreshToken)
	assert.Equal(t, alice.SessionID, refreshed.SessionID)

	// The old refresh token no longer works.
	resp = ts.api.Post("/refresh/", map[string]any{"refresh_token": alice.RefreshToken})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	resp = ts.api.Get("/create_profile/", bearer(refreshed.AccessToken))
	assert.Equal(t, http.StatusOK, resp.Code)
}
