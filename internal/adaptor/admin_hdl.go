package adaptor

import (
	"net/http"
	"net/url"

	"venue-booking/internal/usecase"
	"venue-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// AdminHandler serves the superadmin console. Routes are guarded by RequireRole.
type AdminHandler struct {
	service usecase.AdminService
	log     *zap.Logger
}

func NewAdminHandler(service usecase.AdminService, log *zap.Logger) *AdminHandler {
	return &AdminHandler{
		service: service,
		log:     log.With(zap.String("handler", "admin")),
	}
}

func emailParam(r *http.Request) string {
	raw := chi.URLParam(r, "email")
	if email, err := url.PathUnescape(raw); err == nil {
		return email
	}
	return raw
}

// ListAdmins handles GET /api/superadmin/admins
func (h *AdminHandler) ListAdmins(w http.ResponseWriter, r *http.Request) {
	admins, err := h.service.ListAdmins(r.Context())
	if err != nil {
		h.handleServiceError(w, err, "list admins")
		return
	}

	utils.ResponseSuccess(w, "success", admins)
}

// GetAdminStats handles GET /api/superadmin/admins/{email}
func (h *AdminHandler) GetAdminStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.GetAdminStats(r.Context(), emailParam(r))
	if err != nil {
		h.handleServiceError(w, err, "get admin stats")
		return
	}

	utils.ResponseSuccess(w, "success", stats)
}

// DeleteAdmin handles DELETE /api/superadmin/admins/{email}
func (h *AdminHandler) DeleteAdmin(w http.ResponseWriter, r *http.Request) {
	email := emailParam(r)
	resp, err := h.service.DeleteAdmin(r.Context(), email)
	if err != nil {
		h.handleServiceError(w, err, "delete admin")
		return
	}

	h.log.Info("Admin removed by superadmin", zap.String("email", email))
	utils.ResponseSuccess(w, "Admin and all related data deleted", resp)
}

func (h *AdminHandler) handleServiceError(w http.ResponseWriter, err error, operation string) {
	writeServiceError(h.log, w, err, operation)
}
