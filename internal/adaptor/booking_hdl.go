package adaptor

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"venue-booking/internal/dto/request"
	"venue-booking/internal/usecase"
	"venue-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type BookingHandler struct {
	service usecase.BookingService
	log     *zap.Logger
}

func NewBookingHandler(service usecase.BookingService, log *zap.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		log:     log.With(zap.String("handler", "booking")),
	}
}

// CreateBooking handles POST /api/bookings (public, session optional)
func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req request.CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	booking, err := h.service.CreateBooking(r.Context(), sessionFromRequest(r), &req)
	if err != nil {
		h.handleServiceError(w, err, "create booking")
		return
	}

	utils.ResponseCreated(w, "Booking confirmed", booking)
}

// ListBookings handles GET /api/bookings (session)
func (h *BookingHandler) ListBookings(w http.ResponseWriter, r *http.Request) {
	user, ok := utils.GetSessionUser(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	// Parse query parameters
	query := r.URL.Query()
	req := &request.ListBookingsRequest{
		PaginatedRequest: request.PaginatedRequest{
			Page:    utils.ParseInt(query.Get("page"), 1),
			PerPage: utils.ParseInt(query.Get("perPage"), 20),
		},
		OwnerEmail:        query.Get("ownerEmail"),
		PoolID:            query.Get("poolId"),
		TennisCourtID:     query.Get("tennisCourtId"),
		PickleballCourtID: query.Get("pickleballCourtId"),
		Status:            query.Get("status"),
	}

	// Validate per_page max
	if req.PerPage > 100 {
		req.PerPage = 100
	}

	bookings, err := h.service.ListBookings(r.Context(), user, req)
	if err != nil {
		h.handleServiceError(w, err, "list bookings")
		return
	}

	utils.ResponseSuccess(w, "success", bookings)
}

// GetBooking handles GET /api/bookings/{id} (session)
func (h *BookingHandler) GetBooking(w http.ResponseWriter, r *http.Request) {
	user, ok := utils.GetSessionUser(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	booking, err := h.service.GetBooking(r.Context(), user, chi.URLParam(r, "id"))
	if err != nil {
		h.handleServiceError(w, err, "get booking")
		return
	}

	utils.ResponseSuccess(w, "success", booking)
}

// CancelBooking handles PATCH /api/bookings/{id}/cancel (session)
func (h *BookingHandler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	user, ok := utils.GetSessionUser(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	booking, err := h.service.CancelBooking(r.Context(), user, chi.URLParam(r, "id"))
	if err != nil {
		h.handleServiceError(w, err, "cancel booking")
		return
	}

	utils.ResponseSuccess(w, "Booking cancelled", booking)
}

// Receipt handles GET /api/bookings/{id}/receipt (session)
func (h *BookingHandler) Receipt(w http.ResponseWriter, r *http.Request) {
	user, ok := utils.GetSessionUser(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	bookingID := chi.URLParam(r, "id")
	pdf, err := h.service.Receipt(r.Context(), user, bookingID)
	if err != nil {
		h.handleServiceError(w, err, "render receipt")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="receipt-%s.pdf"`, bookingID))
	w.Header().Set("Content-Length", strconv.Itoa(len(pdf)))
	w.WriteHeader(http.StatusOK)
	w.Write(pdf)
}

func (h *BookingHandler) handleServiceError(w http.ResponseWriter, err error, operation string) {
	writeServiceError(h.log, w, err, operation)
}
