// internal/wire/wire.go
package wire

import (
	"net/http"

	"venue-booking/internal/adaptor"
	"venue-booking/internal/usecase"
	"venue-booking/pkg/middleware"
	"venue-booking/pkg/storage"
	"venue-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// App menyimpan semua dependencies
type App struct {
	Router  *chi.Mux
	Service *usecase.Service
}

// Wiring menginisialisasi semua dependencies
func Wiring(deps usecase.Deps) *App {
	// Initialize services dan handlers
	service := usecase.NewService(deps)
	handler := adaptor.NewHandler(service, deps.Config, deps.Log)

	// Setup router
	router := setupRouter(handler, deps, deps.Log)

	return &App{
		Router:  router,
		Service: service,
	}
}

// routes carries the middlewares shared by the route files.
type routes struct {
	auth      *middleware.SessionAuth
	rateLimit func(http.Handler) http.Handler
	log       *zap.Logger
}

func newRoutes(deps usecase.Deps, logger *zap.Logger) *routes {
	rt := &routes{
		auth:      middleware.NewSessionAuth(deps.Repo, deps.Config.Session.CookieName, logger),
		rateLimit: func(next http.Handler) http.Handler { return next },
		log:       logger,
	}
	if cfg := deps.Config.RateLimit; cfg.PerSecond > 0 && cfg.Burst > 0 {
		rt.rateLimit = middleware.NewRateLimiter(cfg.PerSecond, cfg.Burst, cfg.TrustedProxies, logger).Handler
	}
	return rt
}

// setupRouter konfigurasi Chi router
func setupRouter(handler *adaptor.Handler, deps usecase.Deps, logger *zap.Logger) *chi.Mux {
	r := chi.NewRouter()

	// Apply global middleware
	r.Use(chimw.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS(deps.Config.CORS.AllowedOrigins))

	rt := newRoutes(deps, logger)

	// Apply routes
	wireAuth(r, handler.Auth, rt)
	for _, venueHandler := range handler.Venues {
		wireVenue(r, venueHandler, rt)
	}
	wireBooking(r, handler.Booking, rt)
	wireAdmin(r, handler.Admin, rt)
	wireUploads(r, deps.Images)

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		utils.ResponseNotFound(w, "Route not found")
	})

	return r
}

// wireUploads serves stored venue images and thumbnails.
func wireUploads(r chi.Router, images *storage.ImageStore) {
	if images == nil {
		return
	}
	fs := http.StripPrefix(storage.PublicPrefix, http.FileServer(http.Dir(images.Dir())))
	r.Handle(storage.PublicPrefix+"*", fs)
}
