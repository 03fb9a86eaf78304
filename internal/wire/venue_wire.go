package wire

import (
	"venue-booking/internal/adaptor"
	"venue-booking/internal/data/entity"
	"venue-booking/pkg/middleware"

	"github.com/go-chi/chi/v5"
)

// wireVenue mounts /api/{slug} for one venue type.
func wireVenue(r chi.Router, venueHandler *adaptor.VenueHandler, rt *routes) {
	r.Route("/api/"+venueHandler.Type().Slug(), func(r chi.Router) {
		// ==================== PUBLIC ROUTES ====================
		// Session optional, owners see their link tokens
		r.Group(func(r chi.Router) {
			r.Use(rt.auth.Optional)

			r.Get("/", venueHandler.List)
			r.Get("/{id}", venueHandler.Get)
			r.Get("/{id}/availability", venueHandler.Availability)
		})

		r.With(rt.rateLimit).Post("/share/validate", venueHandler.ValidateShareLink)
		r.With(rt.rateLimit).Post("/booking-link/validate", venueHandler.ValidateBookingLink)

		// ==================== ADMIN ROUTES ====================
		// Ownership is checked per venue in the service
		r.Group(func(r chi.Router) {
			r.Use(rt.auth.Required)
			r.Use(middleware.RequireRole(rt.log, string(entity.RoleAdmin), string(entity.RoleSuperAdmin)))

			r.Post("/", venueHandler.Create)
			r.Put("/{id}", venueHandler.Replace)
			r.Patch("/{id}", venueHandler.Patch)
			r.Delete("/{id}", venueHandler.Delete)
			r.Delete("/{id}/delete-with-images", venueHandler.DeleteWithImages)
			r.Post("/{id}/images", venueHandler.UploadImages)

			r.Post("/{id}/share-link", venueHandler.GenerateShareLink)
			r.Delete("/{id}/share-link", venueHandler.DeactivateShareLink)
			r.Get("/{id}/share-link/qr", venueHandler.ShareLinkQR)

			r.Post("/{id}/booking-link", venueHandler.GenerateBookingLink)
			r.Delete("/{id}/booking-link", venueHandler.DeactivateBookingLink)
		})
	})
}
