package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/tublog/tublog-server/internal/auth"
	"github.com/tublog/tublog-server/internal/domain"
	domainerrors "github.com/tublog/tublog-server/internal/errors"
	"github.com/tublog/tublog-server/internal/id"
	"github.com/tublog/tublog-server/internal/normalize"
	"github.com/tublog/tublog-server/internal/store"
	"github.com/tublog/tublog-server/internal/validation"
)

// AuthService handles signup, login, logout and token verification.
// Session bookkeeping is delegated to SessionService.
type AuthService struct {
	store          store.Store
	tokenService   *auth.TokenService
	sessionService *SessionService
	validator      *validation.Validator
	logger         *slog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(
	store store.Store,
	tokenService *auth.TokenService,
	sessionService *SessionService,
	validator *validation.Validator,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		store:          store,
		tokenService:   tokenService,
		sessionService: sessionService,
		validator:      validator,
		logger:         orDiscard(logger),
	}
}

// SignupRequest is the account creation form.
type SignupRequest struct {
	Username  string     `json:"username" validate:"required,max=150,username"`
	Email     string     `json:"email" validate:"required,max=254,email"`
	Password1 string     `json:"password1" validate:"required,min=8,max=1024"`
	Password2 string     `json:"password2" validate:"required,eqfield=Password1"`
	Client    ClientInfo `json:"-"`
}

// LoginRequest contains user credentials.
type LoginRequest struct {
	Username string     `json:"username" validate:"required"`
	Password string     `json:"password" validate:"required"`
	Client   ClientInfo `json:"-"`
}

// RefreshRequest carries a refresh token to exchange.
type RefreshRequest struct {
	RefreshToken string     `json:"refresh_token" validate:"required"`
	Client       ClientInfo `json:"-"`
}

// AuthResponse contains the signed-in user and their tokens.
// HasProfile decides where the client is sent next.
type AuthResponse struct {
	User       *domain.User `json:"user"`
	HasProfile bool         `json:"has_profile"`
	SessionResponse
}

// Signup creates an account and signs the new user in.
func (s *AuthService) Signup(ctx context.Context, req SignupRequest) (*AuthResponse, error) {
	req.Username = normalize.Text(req.Username)
	req.Email = normalize.Text(req.Email)

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	passwordHash, err := auth.HashPassword(req.Password1)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	userID, err := id.Generate(id.User)
	if err != nil {
		return nil, fmt.Errorf("generate user ID: %w", err)
	}

	user := &domain.User{
		ID:           userID,
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: passwordHash,
		LastLoginAt:  time.Now(),
	}
	user.InitTimestamps()

	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, domainerrors.AlreadyExists("a user with that username already exists").
				WithDetails(map[string]string{"username": "is already taken"})
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info("user signed up", "user_id", user.ID, "username", user.Username)

	// A brand-new user never has a profile yet.
	return s.startSession(ctx, user, false, req.Client)
}

// Login verifies credentials and opens a new session.
// Unknown users and wrong passwords produce the same error and take the same time.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	req.Username = normalize.Text(req.Username)

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	invalid := domainerrors.InvalidCredentials("please enter a correct username and password")

	user, err := s.store.GetUserByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			auth.BurnVerify(req.Password)
			return nil, invalid
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if !auth.VerifyPassword(user.PasswordHash, req.Password) {
		s.logger.Debug("login rejected", "user_id", user.ID)
		return nil, invalid
	}

	user.LastLoginAt = time.Now()
	user.Touch()
	if err := s.store.UpdateUser(ctx, user); err != nil {
		s.logger.Warn("failed to update last login time", "user_id", user.ID, "error", err)
	}

	hasProfile, err := s.store.ProfileExists(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("check profile: %w", err)
	}

	s.logger.Info("user logged in", "user_id", user.ID)

	return s.startSession(ctx, user, hasProfile, req.Client)
}

// RefreshTokens exchanges a refresh token for a new token pair.
func (s *AuthService) RefreshTokens(ctx context.Context, req RefreshRequest) (*AuthResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	sessionResp, user, err := s.sessionService.RefreshSession(ctx, req.RefreshToken, req.Client)
	if err != nil {
		return nil, err
	}

	hasProfile, err := s.store.ProfileExists(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("check profile: %w", err)
	}

	return &AuthResponse{User: user, HasProfile: hasProfile, SessionResponse: *sessionResp}, nil
}

// Logout ends a session. An empty session ID is a no-op.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return s.sessionService.DeleteSession(ctx, sessionID)
}

// VerifyAccessToken validates a token and checks that its session is still live.
// Used by authentication middleware.
func (s *AuthService) VerifyAccessToken(ctx context.Context, token string) (*auth.AccessClaims, error) {
	claims, err := s.tokenService.VerifyAccessToken(token)
	if err != nil {
		return nil, domainerrors.Unauthorized("invalid or expired token").WithCause(err)
	}

	session, err := s.sessionService.ValidateSession(ctx, claims.SessionID)
	if err != nil {
		return nil, err
	}
	if session.UserID != claims.UserID {
		return nil, domainerrors.Unauthorized("invalid or expired token")
	}

	return claims, nil
}

func (s *AuthService) startSession(ctx context.Context, user *domain.User, hasProfile bool, client ClientInfo) (*AuthResponse, error) {
	sessionResp, err := s.sessionService.CreateSession(ctx, user, client)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	return &AuthResponse{
		User:            user,
		HasProfile:      hasProfile,
		SessionResponse: *sessionResp,
	}, nil
}
