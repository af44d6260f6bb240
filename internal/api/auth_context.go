package api

import (
	"context"
	"net"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/tublog/tublog-server/internal/domain"
	"github.com/tublog/tublog-server/internal/service"
)

// SessionCookieName carries the access token for browser clients.
const SessionCookieName = "tublog_session"

// ctxKey is the type for context keys to avoid collisions.
type ctxKey string

const (
	userIDKey    ctxKey = "userID"
	usernameKey  ctxKey = "username"
	sessionIDKey ctxKey = "sessionID"
	clientKey    ctxKey = "client"
)

// GetUserID returns the authenticated user ID from context.
// Returns 401 error if user is not authenticated.
func GetUserID(ctx context.Context) (string, error) {
	userID, ok := ctx.Value(userIDKey).(string)
	if !ok || userID == "" {
		return "", huma.Error401Unauthorized("Authentication required")
	}
	return userID, nil
}

// viewerFrom returns who is making the request; anonymous requests get the zero Viewer.
func viewerFrom(ctx context.Context) service.Viewer {
	userID, _ := ctx.Value(userIDKey).(string)
	username, _ := ctx.Value(usernameKey).(string)
	return service.Viewer{UserID: userID, Username: username}
}

func sessionIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(sessionIDKey).(string)
	return id
}

func clientFrom(ctx context.Context) service.ClientInfo {
	client, _ := ctx.Value(clientKey).(service.ClientInfo)
	return client
}

// clientMiddleware records the caller's address and user agent for session tracking.
// Runs after middleware.RealIP so RemoteAddr already reflects proxy headers.
func clientMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), clientKey, service.ClientInfo{
			IPAddress: getClientIP(r),
			UserAgent: r.UserAgent(),
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// authMiddleware validates a Bearer token or session cookie and stores the
// caller in context. Missing or invalid credentials continue anonymously;
// handlers use RequireUser to reject them.
func authMiddleware(auth *service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := tokenFromRequest(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := auth.VerifyAccessToken(r.Context(), token)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, claims.UserID)
			ctx = context.WithValue(ctx, usernameKey, claims.Username)
			ctx = context.WithValue(ctx, sessionIDKey, claims.SessionID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func tokenFromRequest(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		scheme, token, ok := strings.Cut(header, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
		return ""
	}

	if cookie, err := r.Cookie(SessionCookieName); err == nil {
		return cookie.Value
	}
	return ""
}

// RequireUser returns the authenticated user, fetching from store.
// Returns 401 if not authenticated or the account no longer exists.
func (s *Server) RequireUser(ctx context.Context) (*domain.User, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, huma.Error401Unauthorized("User not found")
	}

	return user, nil
}

// requireViewer is RequireUser in the shape profile operations take.
func (s *Server) requireViewer(ctx context.Context) (service.Viewer, error) {
	user, err := s.RequireUser(ctx)
	if err != nil {
		return service.Viewer{}, err
	}
	return service.Viewer{UserID: user.ID, Username: user.Username}, nil
}

// getClientIP returns the request's remote address without its port.
func getClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
