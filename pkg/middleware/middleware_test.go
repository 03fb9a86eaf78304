package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"venue-booking/internal/data/entity"
	"venue-booking/internal/data/repository"
	"venue-booking/internal/data/repository/memstore"
	"venue-booking/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func seedSession(t *testing.T, repo *repository.Repository, role entity.UserRole) string {
	t.Helper()
	ctx := context.Background()
	now := time.Now()

	user := &entity.User{
		Base:  entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		Name:  "Ana",
		Email: "Ana@Example.com",
		Role:  role,
	}
	require.NoError(t, repo.User.Create(ctx, user))

	token := uuid.New()
	require.NoError(t, repo.Session.Create(ctx, &entity.Session{
		BaseSimple: entity.BaseSimple{ID: uuid.New(), CreatedAt: now},
		UserID:     user.ID,
		Token:      token,
		ExpiresAt:  now.Add(time.Hour),
	}))
	return token.String()
}

func whoami(w http.ResponseWriter, r *http.Request) {
	user, ok := utils.GetSessionUser(r.Context())
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	w.Header().Set("X-User", user.Email+"|"+user.Role)
	w.WriteHeader(http.StatusOK)
}

func TestSessionAuthRequired(t *testing.T) {
	repo := memstore.New()
	token := seedSession(t, repo, entity.RoleAdmin)
	auth := NewSessionAuth(repo, "session_token", zaptest.NewLogger(t))
	h := auth.Required(http.HandlerFunc(whoami))

	tests := []struct {
		name   string
		setup  func(r *http.Request)
		status int
	}{
		{"no token", func(r *http.Request) {}, http.StatusUnauthorized},
		{"bearer", func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token) }, http.StatusOK},
		{"lowercase bearer", func(r *http.Request) { r.Header.Set("Authorization", "bearer "+token) }, http.StatusOK},
		{"cookie", func(r *http.Request) { r.AddCookie(&http.Cookie{Name: "session_token", Value: token}) }, http.StatusOK},
		{"bad scheme", func(r *http.Request) { r.Header.Set("Authorization", "Basic "+token) }, http.StatusUnauthorized},
		{"unknown token", func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+uuid.NewString()) }, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			tt.setup(req)
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusOK {
				assert.Equal(t, "ana@example.com|admin", rec.Header().Get("X-User"))
			}
		})
	}
}

func TestSessionAuthRevoked(t *testing.T) {
	repo := memstore.New()
	token := seedSession(t, repo, entity.RoleAdmin)
	require.NoError(t, repo.Session.Revoke(context.Background(), token))

	auth := NewSessionAuth(repo, "session_token", zaptest.NewLogger(t))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	auth.Required(http.HandlerFunc(whoami)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSessionAuthOptional(t *testing.T) {
	repo := memstore.New()
	token := seedSession(t, repo, entity.RoleSuperAdmin)
	h := NewSessionAuth(repo, "session_token", zaptest.NewLogger(t)).Optional(http.HandlerFunc(whoami))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ana@example.com|superadmin", rec.Header().Get("X-User"))
}

func TestRequireRole(t *testing.T) {
	repo := memstore.New()
	adminToken := seedSession(t, repo, entity.RoleAdmin)
	log := zaptest.NewLogger(t)
	auth := NewSessionAuth(repo, "session_token", log)
	h := auth.Required(RequireRole(log, string(entity.RoleSuperAdmin))(http.HandlerFunc(whoami)))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = httptest.NewRecorder()
	RequireRole(log, "admin")(http.HandlerFunc(whoami)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(0.001, 2, nil, zaptest.NewLogger(t))
	h := rl.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:5555"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{200, 200, 429}, codes)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.2:5555"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimiterClientIP(t *testing.T) {
	rl := NewRateLimiter(1, 1, []string{"10.0.0.9"}, zaptest.NewLogger(t))

	tests := []struct {
		name   string
		remote string
		xff    string
		want   string
	}{
		{"direct client", "203.0.113.5:4000", "", "203.0.113.5"},
		{"spoofed header from client", "203.0.113.5:4000", "198.51.100.1", "203.0.113.5"},
		{"trusted proxy", "10.0.0.9:4000", "198.51.100.1", "198.51.100.1"},
		{"trusted proxy keeps rightmost untrusted hop", "10.0.0.9:4000", "1.1.1.1, 198.51.100.1", "198.51.100.1"},
		{"trusted proxy without header", "10.0.0.9:4000", "", "10.0.0.9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			if tt.xff != "" {
				req.Header.Set("X-Forwarded-For", tt.xff)
			}
			assert.Equal(t, tt.want, rl.clientIP(req))
		})
	}
}

func TestRateLimiterIgnoresForwardedForFromClients(t *testing.T) {
	rl := NewRateLimiter(0.001, 2, nil, zaptest.NewLogger(t))
	h := rl.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	limited := 0
	for i := 0; i < 10; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:5555"
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("192.0.2.%d", i))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code == http.StatusTooManyRequests {
			limited++
		}
	}
	assert.Equal(t, 8, limited)
	assert.Len(t, rl.visitors, 1)
}

func TestRecover(t *testing.T) {
	h := Recover(zaptest.NewLogger(t))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":false`)
}

func TestCORSPreflight(t *testing.T) {
	h := CORS([]string{"https://app.example.com"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodOptions, "/api/pools", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "https://app.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
}
