package adaptor

import (
	"encoding/json"
	"net/http"
	"time"

	"venue-booking/internal/dto/request"
	"venue-booking/internal/dto/response"
	"venue-booking/internal/usecase"
	"venue-booking/pkg/utils"

	"go.uber.org/zap"
)

type AuthHandler struct {
	service usecase.AuthService
	session utils.SessionConfig
	log     *zap.Logger
}

func NewAuthHandler(service usecase.AuthService, session utils.SessionConfig, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		session: session,
		log:     log.With(zap.String("handler", "auth")),
	}
}

func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, auth *response.AuthResponse) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.session.CookieName,
		Value:    auth.Token,
		Path:     "/",
		Expires:  auth.ExpiresAt,
		HttpOnly: true,
		Secure:   h.session.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.session.CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.session.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func sessionMeta(r *http.Request) usecase.SessionMeta {
	return usecase.SessionMeta{
		UserAgent: r.UserAgent(),
		IPAddress: remoteIP(r),
	}
}

// Signup handles POST /api/auth/signup
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req request.SignupRequest

	// Decode request body
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	resp, err := h.service.Signup(r.Context(), &req, sessionMeta(r))
	if err != nil {
		h.handleServiceError(w, err, "signup")
		return
	}

	h.setSessionCookie(w, resp)
	utils.ResponseCreated(w, "Signup successful", resp)
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.LoginRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	resp, err := h.service.Login(r.Context(), &req, sessionMeta(r))
	if err != nil {
		h.handleServiceError(w, err, "login")
		return
	}

	h.setSessionCookie(w, resp)
	utils.ResponseSuccess(w, "Login successful", resp)
}

// Logout handles POST /api/auth/logout (session)
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token, ok := utils.GetTokenFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	if err := h.service.Logout(r.Context(), token); err != nil {
		h.handleServiceError(w, err, "logout")
		return
	}

	h.clearSessionCookie(w)
	utils.ResponseSuccess(w, "Logout successful", nil)
}

// Me handles GET /api/auth/me (session)
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := utils.GetSessionUser(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	me, err := h.service.Me(r.Context(), user)
	if err != nil {
		h.handleServiceError(w, err, "get current user")
		return
	}

	utils.ResponseSuccess(w, "success", me)
}

// ResetPassword handles POST /api/auth/reset-password (superadmin)
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	user, ok := utils.GetSessionUser(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}
	token, _ := utils.GetTokenFromContext(r.Context())

	var req request.ResetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if err := h.service.ResetPassword(r.Context(), user, token, &req); err != nil {
		h.handleServiceError(w, err, "reset password")
		return
	}

	utils.ResponseSuccess(w, "Password updated", nil)
}

func (h *AuthHandler) handleServiceError(w http.ResponseWriter, err error, operation string) {
	writeServiceError(h.log, w, err, operation)
}
