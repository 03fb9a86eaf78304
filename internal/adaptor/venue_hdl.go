package adaptor

import (
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"venue-booking/internal/data/entity"
	"venue-booking/internal/dto/request"
	"venue-booking/internal/usecase"
	"venue-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const multipartMemory = 32 << 20

// VenueHandler serves one venue type. The router mounts one instance per type.
type VenueHandler struct {
	venueType    entity.VenueType
	venues       usecase.VenueService
	availability usecase.AvailabilityService
	links        usecase.LinkService
	log          *zap.Logger
}

func NewVenueHandler(
	venueType entity.VenueType,
	venues usecase.VenueService,
	availability usecase.AvailabilityService,
	links usecase.LinkService,
	log *zap.Logger,
) *VenueHandler {
	return &VenueHandler{
		venueType:    venueType,
		venues:       venues,
		availability: availability,
		links:        links,
		log:          log.With(zap.String("handler", "venue"), zap.String("venue_type", string(venueType))),
	}
}

func (h *VenueHandler) Type() entity.VenueType {
	return h.venueType
}

// List handles GET /api/{venue}?ownerEmail=&status= (public)
func (h *VenueHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := &request.ListVenuesRequest{
		OwnerEmail: query.Get("ownerEmail"),
		Status:     query.Get("status"),
	}

	venues, err := h.venues.List(r.Context(), sessionFromRequest(r), h.venueType, req)
	if err != nil {
		h.handleServiceError(w, err, "list venues")
		return
	}

	utils.ResponseSuccess(w, "success", venues)
}

// Get handles GET /api/{venue}/{id} (public)
func (h *VenueHandler) Get(w http.ResponseWriter, r *http.Request) {
	venue, err := h.venues.Get(r.Context(), sessionFromRequest(r), h.venueType, chi.URLParam(r, "id"))
	if err != nil {
		h.handleServiceError(w, err, "get venue")
		return
	}

	utils.ResponseSuccess(w, "success", venue)
}

// Availability handles GET /api/{venue}/{id}/availability?date=YYYY-MM-DD (public)
func (h *VenueHandler) Availability(w http.ResponseWriter, r *http.Request) {
	resp, err := h.availability.GetAvailability(r.Context(), h.venueType, chi.URLParam(r, "id"), r.URL.Query().Get("date"))
	if err != nil {
		h.handleServiceError(w, err, "get availability")
		return
	}

	utils.ResponseSuccess(w, "success", resp)
}

// ValidateShareLink handles POST /api/{venue}/share/validate (public)
func (h *VenueHandler) ValidateShareLink(w http.ResponseWriter, r *http.Request) {
	var req request.ValidateLinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	resp, err := h.links.ValidateShareLink(r.Context(), h.venueType, &req)
	if err != nil {
		h.handleServiceError(w, err, "validate share link")
		return
	}

	utils.ResponseSuccess(w, "Share link is valid", resp)
}

// ValidateBookingLink handles POST /api/{venue}/booking-link/validate (public)
func (h *VenueHandler) ValidateBookingLink(w http.ResponseWriter, r *http.Request) {
	var req request.ValidateLinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	resp, err := h.links.ValidateBookingLink(r.Context(), h.venueType, &req)
	if err != nil {
		h.handleServiceError(w, err, "validate booking link")
		return
	}

	utils.ResponseSuccess(w, "Booking link is valid", resp)
}

// Create handles POST /api/{venue} (admin, superadmin)
func (h *VenueHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := utils.GetSessionUser(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.VenueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	venue, err := h.venues.Create(r.Context(), user, h.venueType, &req)
	if err != nil {
		h.handleServiceError(w, err, "create venue")
		return
	}

	utils.ResponseCreated(w, h.venueType.Label()+" created", venue)
}

// Replace handles PUT /api/{venue}/{id}
func (h *VenueHandler) Replace(w http.ResponseWriter, r *http.Request) {
	user, ok := utils.GetSessionUser(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.VenueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	venue, err := h.venues.Replace(r.Context(), user, h.venueType, chi.URLParam(r, "id"), &req)
	if err != nil {
		h.handleServiceError(w, err, "replace venue")
		return
	}

	utils.ResponseSuccess(w, h.venueType.Label()+" updated", venue)
}

// Patch handles PATCH /api/{venue}/{id}
func (h *VenueHandler) Patch(w http.ResponseWriter, r *http.Request) {
	user, ok := utils.GetSessionUser(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.PatchVenueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	venue, err := h.venues.Patch(r.Context(), user, h.venueType, chi.URLParam(r, "id"), &req)
	if err != nil {
		h.handleServiceError(w, err, "patch venue")
		return
	}

	utils.ResponseSuccess(w, h.venueType.Label()+" updated", venue)
}

// Delete handles DELETE /api/{venue}/{id}
func (h *VenueHandler) Delete(w http.ResponseWriter, r *http.Request) {
	h.delete(w, r, false)
}

// DeleteWithImages handles DELETE /api/{venue}/{id}/delete-with-images
func (h *VenueHandler) DeleteWithImages(w http.ResponseWriter, r *http.Request) {
	h.delete(w, r, true)
}

func (h *VenueHandler) delete(w http.ResponseWriter, r *http.Request, withImages bool) {
	user, ok := utils.GetSessionUser(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	resp, err := h.venues.Delete(r.Context(), user, h.venueType, chi.URLParam(r, "id"), withImages)
	if err != nil {
		h.handleServiceError(w, err, "delete venue")
		return
	}

	utils.ResponseSuccess(w, h.venueType.Label()+" deleted", resp)
}

// UploadImages handles POST /api/{venue}/{id}/images (multipart field "images")
func (h *VenueHandler) UploadImages(w http.ResponseWriter, r *http.Request) {
	user, ok := utils.GetSessionUser(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		utils.ResponseBadRequest(w, "Invalid multipart form", map[string]string{"images": err.Error()})
		return
	}
	defer r.MultipartForm.RemoveAll()

	headers := r.MultipartForm.File["images"]
	files := make([]io.Reader, 0, len(headers))
	var opened []multipart.File
	defer func() {
		for _, f := range opened {
			f.Close()
		}
	}()

	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			h.log.Warn("Failed to open uploaded file", zap.Error(err), zap.String("filename", fh.Filename))
			utils.ResponseBadRequest(w, "Invalid multipart form", map[string]string{"images": "Could not read " + fh.Filename})
			return
		}
		opened = append(opened, f)
		files = append(files, f)
	}

	venue, err := h.venues.UploadImages(r.Context(), user, h.venueType, chi.URLParam(r, "id"), files)
	if err != nil {
		h.handleServiceError(w, err, "upload venue images")
		return
	}

	utils.ResponseSuccess(w, "Images uploaded", venue)
}

// decodeOptional decodes a body that may be empty.
func decodeOptional(r *http.Request, dst any) error {
	err := json.NewDecoder(r.Body).Decode(dst)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// GenerateShareLink handles POST /api/{venue}/{id}/share-link
func (h *VenueHandler) GenerateShareLink(w http.ResponseWriter, r *http.Request) {
	user, ok := utils.GetSessionUser(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.ShareLinkRequest
	if err := decodeOptional(r, &req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	link, err := h.links.GenerateShareLink(r.Context(), user, h.venueType, chi.URLParam(r, "id"), &req)
	if err != nil {
		h.handleServiceError(w, err, "generate share link")
		return
	}

	utils.ResponseCreated(w, "Share link generated", link)
}

// DeactivateShareLink handles DELETE /api/{venue}/{id}/share-link
func (h *VenueHandler) DeactivateShareLink(w http.ResponseWriter, r *http.Request) {
	user, ok := utils.GetSessionUser(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	if err := h.links.DeactivateShareLink(r.Context(), user, h.venueType, chi.URLParam(r, "id")); err != nil {
		h.handleServiceError(w, err, "deactivate share link")
		return
	}

	utils.ResponseSuccess(w, "Share link deactivated", nil)
}

// ShareLinkQR handles GET /api/{venue}/{id}/share-link/qr?size=256
func (h *VenueHandler) ShareLinkQR(w http.ResponseWriter, r *http.Request) {
	user, ok := utils.GetSessionUser(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	size := utils.ParseInt(r.URL.Query().Get("size"), 256)
	png, err := h.links.ShareLinkQR(r.Context(), user, h.venueType, chi.URLParam(r, "id"), size)
	if err != nil {
		h.handleServiceError(w, err, "render share link QR")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

// GenerateBookingLink handles POST /api/{venue}/{id}/booking-link
func (h *VenueHandler) GenerateBookingLink(w http.ResponseWriter, r *http.Request) {
	user, ok := utils.GetSessionUser(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.BookingLinkRequest
	if err := decodeOptional(r, &req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	link, err := h.links.GenerateBookingLink(r.Context(), user, h.venueType, chi.URLParam(r, "id"), &req)
	if err != nil {
		h.handleServiceError(w, err, "generate booking link")
		return
	}

	utils.ResponseCreated(w, "Booking link generated", link)
}

// DeactivateBookingLink handles DELETE /api/{venue}/{id}/booking-link
func (h *VenueHandler) DeactivateBookingLink(w http.ResponseWriter, r *http.Request) {
	user, ok := utils.GetSessionUser(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	if err := h.links.DeactivateBookingLink(r.Context(), user, h.venueType, chi.URLParam(r, "id")); err != nil {
		h.handleServiceError(w, err, "deactivate booking link")
		return
	}

	utils.ResponseSuccess(w, "Booking link deactivated", nil)
}

func (h *VenueHandler) handleServiceError(w http.ResponseWriter, err error, operation string) {
	writeServiceError(h.log, w, err, operation)
}
