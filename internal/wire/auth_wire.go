package wire

import (
	"venue-booking/internal/adaptor"
	"venue-booking/internal/data/entity"
	"venue-booking/pkg/middleware"

	"github.com/go-chi/chi/v5"
)

func wireAuth(r chi.Router, authHandler *adaptor.AuthHandler, rt *routes) {
	r.Route("/api/auth", func(r chi.Router) {
		// ==================== PUBLIC ROUTES ====================
		r.With(rt.rateLimit).Post("/signup", authHandler.Signup)
		r.With(rt.rateLimit).Post("/login", authHandler.Login)

		// ==================== PROTECTED ROUTES ====================
		r.Group(func(r chi.Router) {
			r.Use(rt.auth.Required)

			r.Post("/logout", authHandler.Logout)
			r.Get("/me", authHandler.Me)

			// Superadmin only
			r.With(middleware.RequireRole(rt.log, string(entity.RoleSuperAdmin))).
				Post("/reset-password", authHandler.ResetPassword)
		})
	})
}
