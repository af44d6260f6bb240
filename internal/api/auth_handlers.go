package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/tublog/tublog-server/internal/service"
)

func (s *Server) registerAuthRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "signupForm",
		Method:      http.MethodGet,
		Path:        "/signup/",
		Summary:     "Signup form",
		Tags:        []string{"Authentication"},
	}, s.handleSignupForm)

	huma.Register(s.api, huma.Operation{
		OperationID:   "signup",
		Method:        http.MethodPost,
		Path:          "/signup/",
		Summary:       "Create an account",
		Description:   "Creates the user, logs them in and redirects to profile creation.",
		Tags:          []string{"Authentication"},
		DefaultStatus: http.StatusSeeOther,
		Middlewares:   s.throttled(),
	}, s.handleSignup)

	huma.Register(s.api, huma.Operation{
		OperationID: "loginForm",
		Method:      http.MethodGet,
		Path:        "/login/",
		Summary:     "Login form",
		Tags:        []string{"Authentication"},
	}, s.handleLoginForm)

	huma.Register(s.api, huma.Operation{
		OperationID:   "login",
		Method:        http.MethodPost,
		Path:          "/login/",
		Summary:       "User login",
		Description:   "Authenticates a user, sets the session cookie and returns access and refresh tokens",
		Tags:          []string{"Authentication"},
		DefaultStatus: http.StatusSeeOther,
		Middlewares:   s.throttled(),
	}, s.handleLogin)

	for _, method := range []string{http.MethodGet, http.MethodPost} {
		huma.Register(s.api, huma.Operation{
			OperationID: "logout" + method,
			Method:      method,
			Path:        "/logout/",
			Summary:     "Logout",
			Description: "Revokes the current session, if any, and clears the session cookie",
			Tags:        []string{"Authentication"},
		}, s.handleLogout)
	}

	huma.Register(s.api, huma.Operation{
		OperationID: "refresh",
		Method:      http.MethodPost,
		Path:        "/refresh/",
		Summary:     "Refresh tokens",
		Description: "Exchanges a refresh token for new tokens",
		Tags:        []string{"Authentication"},
	}, s.handleRefresh)
}

// === DTOs ===

// SignupRequest is the request body for account creation.
type SignupRequest struct {
	Username  string `json:"username" doc:"Letters, digits and @/./+/-/_ only, at most 150 characters"`
	Email     string `json:"email" doc:"Email address"`
	Password1 string `json:"password1" doc:"Password, at least 8 characters"`
	Password2 string `json:"password2" doc:"Password confirmation"`
}

// SignupInput wraps the signup request for Huma.
type SignupInput struct {
	Body SignupRequest
}

// LoginRequest is the request body for user login.
type LoginRequest struct {
	Username string `json:"username" doc:"Username"`
	Password string `json:"password" doc:"Password"`
}

// LoginInput wraps the login request for Huma.
type LoginInput struct {
	Body LoginRequest
}

// RefreshRequest is the request body for token refresh.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" doc:"Refresh token"`
}

// RefreshInput wraps the refresh request for Huma.
type RefreshInput struct {
	Body RefreshRequest
}

// UserResponse is the public view of an account.
type UserResponse struct {
	ID          string    `json:"id" doc:"User ID"`
	Username    string    `json:"username" doc:"Username"`
	Email       string    `json:"email" doc:"Email address"`
	CreatedAt   time.Time `json:"created_at" doc:"When the account was created"`
	LastLoginAt time.Time `json:"last_login_at" doc:"Most recent login"`
}

// AuthResponse contains the tokens for a new or refreshed session.
type AuthResponse struct {
	User         UserResponse `json:"user" doc:"Authenticated user"`
	HasProfile   bool         `json:"has_profile" doc:"Whether the user has created a profile"`
	AccessToken  string       `json:"access_token" doc:"PASETO access token"`
	RefreshToken string       `json:"refresh_token" doc:"Opaque refresh token"`
	TokenType    string       `json:"token_type" doc:"Always Bearer"`
	ExpiresIn    int          `json:"expires_in" doc:"Seconds until the access token expires"`
	SessionID    string       `json:"session_id" doc:"Session ID"`
}

// AuthRedirectOutput logs the user in and redirects.
type AuthRedirectOutput struct {
	Status    int
	Location  string      `header:"Location"`
	SetCookie http.Cookie `header:"Set-Cookie"`
	Body      AuthResponse
}

// AuthOutput wraps refreshed tokens for Huma.
type AuthOutput struct {
	SetCookie http.Cookie `header:"Set-Cookie"`
	Body      AuthResponse
}

// LogoutOutput clears the session cookie.
type LogoutOutput struct {
	SetCookie http.Cookie `header:"Set-Cookie"`
	Body      MessageResponse
}

// === Handlers ===

func (s *Server) handleSignupForm(_ context.Context, _ *struct{}) (*FormOutput, error) {
	return newForm("/signup/",
		FormField{Name: "username", Type: "text", Required: true, MaxLength: 150},
		FormField{Name: "email", Type: "email", Required: true, MaxLength: 254},
		FormField{Name: "password1", Type: "password", Required: true},
		FormField{Name: "password2", Type: "password", Required: true},
	), nil
}

func (s *Server) handleSignup(ctx context.Context, input *SignupInput) (*AuthRedirectOutput, error) {
	resp, err := s.services.Auth.Signup(ctx, service.SignupRequest{
		Username:  input.Body.Username,
		Email:     input.Body.Email,
		Password1: input.Body.Password1,
		Password2: input.Body.Password2,
		Client:    clientFrom(ctx),
	})
	if err != nil {
		return nil, err
	}

	return s.loggedIn(resp), nil
}

func (s *Server) handleLoginForm(_ context.Context, _ *struct{}) (*FormOutput, error) {
	return newForm("/login/",
		FormField{Name: "username", Type: "text", Required: true, MaxLength: 150},
		FormField{Name: "password", Type: "password", Required: true},
	), nil
}

func (s *Server) handleLogin(ctx context.Context, input *LoginInput) (*AuthRedirectOutput, error) {
	resp, err := s.services.Auth.Login(ctx, service.LoginRequest{
		Username: input.Body.Username,
		Password: input.Body.Password,
		Client:   clientFrom(ctx),
	})
	if err != nil {
		return nil, err
	}

	return s.loggedIn(resp), nil
}

func (s *Server) handleLogout(ctx context.Context, _ *struct{}) (*LogoutOutput, error) {
	if err := s.services.Auth.Logout(ctx, sessionIDFrom(ctx)); err != nil {
		return nil, err
	}

	return &LogoutOutput{
		SetCookie: s.expiredSessionCookie(),
		Body:      MessageResponse{Message: "You have been logged out."},
	}, nil
}

func (s *Server) handleRefresh(ctx context.Context, input *RefreshInput) (*AuthOutput, error) {
	resp, err := s.services.Auth.RefreshTokens(ctx, service.RefreshRequest{
		RefreshToken: input.Body.RefreshToken,
		Client:       clientFrom(ctx),
	})
	if err != nil {
		return nil, err
	}

	return &AuthOutput{
		SetCookie: s.sessionCookie(resp.AccessToken, time.Duration(resp.ExpiresIn)*time.Second),
		Body:      mapAuthResponse(resp),
	}, nil
}

// loggedIn sends users without a profile to create one, everyone else home.
func (s *Server) loggedIn(resp *service.AuthResponse) *AuthRedirectOutput {
	location := "/"
	if !resp.HasProfile {
		location = "/create_profile/"
	}

	return &AuthRedirectOutput{
		Status:    http.StatusSeeOther,
		Location:  location,
		SetCookie: s.sessionCookie(resp.AccessToken, time.Duration(resp.ExpiresIn)*time.Second),
		Body:      mapAuthResponse(resp),
	}
}

func mapAuthResponse(resp *service.AuthResponse) AuthResponse {
	return AuthResponse{
		User: UserResponse{
			ID:          resp.User.ID,
			Username:    resp.User.Username,
			Email:       resp.User.Email,
			CreatedAt:   resp.User.CreatedAt,
			LastLoginAt: resp.User.LastLoginAt,
		},
		HasProfile:   resp.HasProfile,
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		TokenType:    resp.TokenType,
		ExpiresIn:    resp.ExpiresIn,
		SessionID:    resp.SessionID,
	}
}
