package utils

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const (
	SessionUserKey contextKey = "session_user"
	TokenKey       contextKey = "token"
)

// SessionUser is the request-scoped identity resolved from a session token.
type SessionUser struct {
	ID    uuid.UUID
	Email string
	Role  string
}

func SetSessionUser(ctx context.Context, user SessionUser) context.Context {
	return context.WithValue(ctx, SessionUserKey, user)
}

func GetSessionUser(ctx context.Context) (SessionUser, bool) {
	user, ok := ctx.Value(SessionUserKey).(SessionUser)
	return user, ok
}

// GetTokenFromContext mendapatkan token dari context
func GetTokenFromContext(ctx context.Context) (string, bool) {
	tokenVal := ctx.Value(TokenKey)
	if tokenVal == nil {
		return "", false
	}

	token, ok := tokenVal.(string)
	return token, ok
}

// SetTokenContext menambahkan token ke context
func SetTokenContext(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, TokenKey, token)
}
