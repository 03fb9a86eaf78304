package middleware

import (
	"context"
	"net/http"
	"strings"

	"venue-booking/internal/data/repository"
	"venue-booking/pkg/utils"

	"go.uber.org/zap"
)

// SessionAuth resolves session tokens into a utils.SessionUser.
type SessionAuth struct {
	sessions   repository.SessionRepository
	users      repository.UserRepository
	cookieName string
	log        *zap.Logger
}

func NewSessionAuth(repo *repository.Repository, cookieName string, log *zap.Logger) *SessionAuth {
	return &SessionAuth{
		sessions:   repo.Session,
		users:      repo.User,
		cookieName: cookieName,
		log:        log.With(zap.String("middleware", "auth")),
	}
}

// extractToken reads the session cookie first, then an Authorization Bearer header.
func (a *SessionAuth) extractToken(r *http.Request) (string, bool) {
	if c, err := r.Cookie(a.cookieName); err == nil && c.Value != "" {
		return c.Value, true
	}

	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}

// resolve returns ok=false with a nil error when the token matches no live session.
func (a *SessionAuth) resolve(ctx context.Context, token string) (utils.SessionUser, bool, error) {
	session, err := a.sessions.FindValidSession(ctx, token)
	if err != nil || session == nil {
		return utils.SessionUser{}, false, err
	}

	user, err := a.users.FindByID(ctx, session.UserID)
	if err != nil || user == nil {
		return utils.SessionUser{}, false, err
	}

	return utils.SessionUser{
		ID:    user.ID,
		Email: user.Email,
		Role:  string(user.Role),
	}, true, nil
}

// Required rejects requests without a valid session.
func (a *SessionAuth) Required(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := a.extractToken(r)
		if !ok {
			utils.ResponseUnauthorized(w, "Missing authorization token")
			return
		}

		user, ok, err := a.resolve(r.Context(), token)
		if err != nil {
			a.log.Error("Failed to validate session", zap.Error(err))
			utils.ResponseInternalError(w, "Internal server error")
			return
		}
		if !ok {
			a.log.Warn("Invalid or expired session", zap.String("path", r.URL.Path))
			utils.ResponseUnauthorized(w, "Invalid or expired session")
			return
		}

		ctx := utils.SetSessionUser(r.Context(), user)
		ctx = utils.SetTokenContext(ctx, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Optional attaches the session user when one is present and never rejects.
func (a *SessionAuth) Optional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := a.extractToken(r)
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		user, ok, err := a.resolve(r.Context(), token)
		if err != nil {
			a.log.Warn("Optional session lookup failed", zap.Error(err))
		}
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		ctx := utils.SetSessionUser(r.Context(), user)
		ctx = utils.SetTokenContext(ctx, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole must run after SessionAuth.Required.
func RequireRole(logger *zap.Logger, roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := utils.GetSessionUser(r.Context())
			if !ok {
				utils.ResponseUnauthorized(w, "Authentication required")
				return
			}

			allowed := false
			for _, role := range roles {
				if user.Role == role {
					allowed = true
					break
				}
			}

			if !allowed {
				logger.Warn("Role check failed",
					zap.String("user_id", user.ID.String()),
					zap.String("role", user.Role),
					zap.String("path", r.URL.Path))
				utils.ResponseForbidden(w, "Insufficient permissions")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
