package wire

import (
	"venue-booking/internal/adaptor"
	"venue-booking/internal/data/entity"
	"venue-booking/pkg/middleware"

	"github.com/go-chi/chi/v5"
)

func wireBooking(r chi.Router, bookingHandler *adaptor.BookingHandler, rt *routes) {
	r.Route("/api/bookings", func(r chi.Router) {
		// ==================== PUBLIC ROUTES ====================
		// POST /api/bookings - customers book anonymously; admins pass createdBy=admin with a session
		r.With(rt.rateLimit, rt.auth.Optional).Post("/", bookingHandler.CreateBooking)

		// ==================== ADMIN ROUTES ====================
		r.Group(func(r chi.Router) {
			r.Use(rt.auth.Required)
			r.Use(middleware.RequireRole(rt.log, string(entity.RoleAdmin), string(entity.RoleSuperAdmin)))

			r.Get("/", bookingHandler.ListBookings)
			r.Get("/{id}", bookingHandler.GetBooking)
			r.Patch("/{id}/cancel", bookingHandler.CancelBooking)
			r.Get("/{id}/receipt", bookingHandler.Receipt)
		})
	})
}
