package wire

import (
	"venue-booking/internal/adaptor"
	"venue-booking/internal/data/entity"
	"venue-booking/pkg/middleware"

	"github.com/go-chi/chi/v5"
)

// wireAdmin configures the superadmin console
func wireAdmin(r chi.Router, adminHandler *adaptor.AdminHandler, rt *routes) {
	r.With(
		rt.auth.Required, // Check valid session
		middleware.RequireRole(rt.log, string(entity.RoleSuperAdmin)),
	).Route("/api/superadmin/admins", func(r chi.Router) {
		r.Get("/", adminHandler.ListAdmins)
		r.Get("/{email}", adminHandler.GetAdminStats)
		r.Delete("/{email}", adminHandler.DeleteAdmin)
	})
}
