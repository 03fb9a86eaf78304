package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"venue-booking/internal/data/cache"
	"venue-booking/internal/data/entity"
	"venue-booking/internal/data/repository"
	"venue-booking/internal/dto/request"
	"venue-booking/internal/dto/response"
	"venue-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type BookingService interface {
	// Public, session optional
	CreateBooking(ctx context.Context, actor *utils.SessionUser, req *request.CreateBookingRequest) (*response.BookingResponse, error)

	// Admin endpoints
	ListBookings(ctx context.Context, actor utils.SessionUser, req *request.ListBookingsRequest) (*response.PaginatedResponse[response.BookingResponse], error)
	GetBooking(ctx context.Context, actor utils.SessionUser, bookingID string) (*response.BookingResponse, error)
	CancelBooking(ctx context.Context, actor utils.SessionUser, bookingID string) (*response.BookingResponse, error)
	Receipt(ctx context.Context, actor utils.SessionUser, bookingID string) ([]byte, error)
}

type bookingService struct {
	repo  *repository.Repository
	cache cache.AvailabilityCache
	now   utils.Clock
	log   *zap.Logger
}

func NewBookingService(repo *repository.Repository, c cache.AvailabilityCache, clock utils.Clock, log *zap.Logger) BookingService {
	return &bookingService{
		repo:  repo,
		cache: c,
		now:   clock,
		log:   log.With(zap.String("service", "booking")),
	}
}

type venueRef struct {
	venueType entity.VenueType
	field     string
	id        string
}

// refsOf lists the venue reference fields that are set.
func refsOf(poolID, tennisID, pickleballID string) []venueRef {
	var refs []venueRef
	if v := strings.TrimSpace(poolID); v != "" {
		refs = append(refs, venueRef{entity.VenuePool, entity.VenuePool.RefField(), v})
	}
	if v := strings.TrimSpace(tennisID); v != "" {
		refs = append(refs, venueRef{entity.VenueTennis, entity.VenueTennis.RefField(), v})
	}
	if v := strings.TrimSpace(pickleballID); v != "" {
		refs = append(refs, venueRef{entity.VenuePickleball, entity.VenuePickleball.RefField(), v})
	}
	return refs
}

func (s *bookingService) CreateBooking(ctx context.Context, actor *utils.SessionUser, req *request.CreateBookingRequest) (*response.BookingResponse, error) {
	// 1. Validasi field, semua error dikumpulkan sekaligus
	errs := utils.ValidateStruct(req)
	if errs == nil {
		errs = make(map[string]string)
	}

	refs := refsOf(req.PoolID, req.TennisCourtID, req.PickleballCourtID)
	switch {
	case len(refs) == 0:
		errs["venueId"] = "This field is required"
	case len(refs) > 1:
		errs["venueId"] = "Only one of poolId, tennisCourtId or pickleballCourtId may be set"
	}
	if req.ShareToken != "" && req.BookingToken != "" {
		errs["bookingToken"] = "Cannot be combined with shareToken"
	}

	if len(errs) > 0 {
		s.log.Warn("Create booking validation failed", zap.Any("errors", errs))
		return nil, newValidationError(errs)
	}

	ref := refs[0]
	venueID, err := uuid.Parse(ref.id)
	if err != nil {
		return nil, fieldError(ref.field, "Must be a valid UUID")
	}
	day, err := time.Parse(entity.DateLayout, req.Date)
	if err != nil {
		return nil, fieldError("date", "Must match format "+entity.DateLayout)
	}

	// 2. Venue harus ada
	venue, err := s.repo.Venue.FindByID(ctx, ref.venueType, venueID)
	if err != nil {
		s.log.Error("Failed to load venue", zap.Error(err), zap.String("venue_id", ref.id))
		return nil, fmt.Errorf("load venue: %w", err)
	}
	if venue == nil {
		return nil, ErrVenueNotFound
	}

	// 3. Origin: share link, booking link, atau admin
	now := s.now()
	price := venue.Price
	fromShareLink := false
	createdBy := ""

	if req.ShareToken != "" {
		if err := checkShareLink(venue, req.ShareToken, now); err != nil {
			return nil, err
		}
		last := venue.ShareLink.Expiry.UTC().Format(entity.DateLayout)
		if req.Date > last {
			return nil, fieldError("date", "Must be on or before "+last)
		}
		fromShareLink = true
	}

	if req.BookingToken != "" {
		linkPrice, err := checkBookingLink(venue, req.BookingToken, now)
		if err != nil {
			return nil, err
		}
		price = linkPrice
	}

	if req.CreatedBy == entity.BookingCreatedByAdmin {
		if actor == nil {
			return nil, ErrUnauthorized
		}
		if !CanMutate(*actor, venue) {
			return nil, ErrForbidden
		}
		createdBy = entity.BookingCreatedByAdmin
	}

	duration := req.Duration
	if duration < 1 {
		duration = 1
	}
	guests := req.Guests
	if guests < 1 {
		guests = 1
	}

	// 4. Simpan. Time is not checked against the slot template.
	booking := &entity.Booking{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		VenueType:     venue.Type,
		VenueID:       venue.ID,
		CustomerName:  strings.TrimSpace(req.CustomerName),
		CustomerEmail: strings.TrimSpace(req.CustomerEmail),
		CustomerPhone: strings.TrimSpace(req.CustomerPhone),
		Date:          day,
		Time:          strings.TrimSpace(req.Time),
		Duration:      duration,
		TotalPrice:    price * float64(duration),
		Guests:        guests,
		Notes:         req.Notes,
		Status:        entity.BookingStatusConfirmed,
		CreatedBy:     createdBy,
		FromShareLink: fromShareLink,
	}

	if err := s.repo.Booking.Create(ctx, booking); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrSlotTaken
		}
		s.log.Error("Failed to create booking", zap.Error(err), zap.String("venue_id", ref.id))
		return nil, fmt.Errorf("create booking: %w", err)
	}

	s.invalidate(ctx, booking)

	s.log.Info("Booking created",
		zap.String("booking_id", booking.ID.String()),
		zap.String("venue_id", venue.ID.String()),
		zap.String("date", req.Date),
		zap.String("time", booking.Time),
		zap.Bool("from_share_link", fromShareLink),
		zap.String("created_by", createdBy))

	resp := response.BookingToResponse(booking, venue.Name)
	return &resp, nil
}

func (s *bookingService) invalidate(ctx context.Context, b *entity.Booking) {
	if err := s.cache.Invalidate(ctx, b.VenueID, b.Date.Format(entity.DateLayout)); err != nil {
		s.log.Warn("Failed to invalidate availability cache",
			zap.Error(err),
			zap.String("venue_id", b.VenueID.String()))
	}
}

func (s *bookingService) ListBookings(ctx context.Context, actor utils.SessionUser, req *request.ListBookingsRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, newValidationError(errs)
	}

	refs := refsOf(req.PoolID, req.TennisCourtID, req.PickleballCourtID)
	if len(refs) > 1 {
		return nil, fieldError("venueId", "Only one of poolId, tennisCourtId or pickleballCourtId may be set")
	}

	// Admin hanya melihat booking venue miliknya
	ownerEmail := entity.NewOwnerEmail(req.OwnerEmail)
	if !isSuperAdmin(actor) {
		self := entity.NewOwnerEmail(actor.Email)
		if !ownerEmail.IsZero() && !ownerEmail.Equal(self) {
			return nil, ErrForbidden
		}
		ownerEmail = self
	}

	filter := entity.BookingFilter{
		Status: entity.BookingStatus(req.Status),
		Limit:  req.Limit(),
		Offset: req.Offset(),
	}
	names := make(map[uuid.UUID]string)

	if !ownerEmail.IsZero() {
		venues, err := s.repo.Venue.FindByOwnerEmail(ctx, ownerEmail)
		if err != nil {
			s.log.Error("Failed to load owner venues", zap.Error(err), zap.String("owner_email", ownerEmail.String()))
			return nil, fmt.Errorf("load owner venues: %w", err)
		}
		filter.VenueIDs = venueIDs(venues)
		for _, v := range venues {
			names[v.ID] = v.Name
		}
	}

	if len(refs) == 1 {
		ref := refs[0]
		id, err := uuid.Parse(ref.id)
		if err != nil {
			return nil, fieldError(ref.field, "Must be a valid UUID")
		}
		switch {
		case filter.VenueIDs == nil || containsUUID(filter.VenueIDs, id):
			filter.VenueIDs = []uuid.UUID{id}
		case !isSuperAdmin(actor):
			return nil, ErrForbidden
		default:
			filter.VenueIDs = []uuid.UUID{}
		}
		filter.VenueType = &ref.venueType
	}

	bookings, err := s.repo.Booking.FindAll(ctx, filter)
	if err != nil {
		s.log.Error("Failed to list bookings", zap.Error(err))
		return nil, fmt.Errorf("list bookings: %w", err)
	}

	total, err := s.repo.Booking.CountAll(ctx, filter)
	if err != nil {
		s.log.Error("Failed to count bookings", zap.Error(err))
		return nil, fmt.Errorf("count bookings: %w", err)
	}

	data := make([]response.BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		data = append(data, response.BookingToResponse(b, s.venueName(ctx, names, b)))
	}

	page := req.Page
	if page < 1 {
		page = 1
	}
	return response.NewPaginatedResponse(data, page, filter.Limit, total), nil
}

// venueName memoizes venue names in names. Lookup failures leave the name empty.
func (s *bookingService) venueName(ctx context.Context, names map[uuid.UUID]string, b *entity.Booking) string {
	if name, ok := names[b.VenueID]; ok {
		return name
	}
	venue, err := s.repo.Venue.FindByID(ctx, b.VenueType, b.VenueID)
	if err != nil || venue == nil {
		names[b.VenueID] = ""
		return ""
	}
	names[b.VenueID] = venue.Name
	return venue.Name
}

// loadForActor returns the booking and its venue when actor may manage it.
// A booking whose venue is gone is only visible to a superadmin.
func (s *bookingService) loadForActor(ctx context.Context, actor utils.SessionUser, bookingID string) (*entity.Booking, *entity.Venue, error) {
	id, err := uuid.Parse(bookingID)
	if err != nil {
		return nil, nil, ErrBookingNotFound
	}

	booking, err := s.repo.Booking.FindByID(ctx, id)
	if err != nil {
		s.log.Error("Failed to load booking", zap.Error(err), zap.String("booking_id", bookingID))
		return nil, nil, fmt.Errorf("load booking: %w", err)
	}
	if booking == nil {
		return nil, nil, ErrBookingNotFound
	}

	venue, err := s.repo.Venue.FindByID(ctx, booking.VenueType, booking.VenueID)
	if err != nil {
		return nil, nil, fmt.Errorf("load booking venue: %w", err)
	}

	if venue == nil {
		if !isSuperAdmin(actor) {
			return nil, nil, ErrForbidden
		}
		return booking, nil, nil
	}
	if !CanMutate(actor, venue) {
		return nil, nil, ErrForbidden
	}
	return booking, venue, nil
}

func nameOf(venue *entity.Venue) string {
	if venue == nil {
		return ""
	}
	return venue.Name
}

func (s *bookingService) GetBooking(ctx context.Context, actor utils.SessionUser, bookingID string) (*response.BookingResponse, error) {
	booking, venue, err := s.loadForActor(ctx, actor, bookingID)
	if err != nil {
		return nil, err
	}

	resp := response.BookingToResponse(booking, nameOf(venue))
	return &resp, nil
}

func (s *bookingService) CancelBooking(ctx context.Context, actor utils.SessionUser, bookingID string) (*response.BookingResponse, error) {
	booking, venue, err := s.loadForActor(ctx, actor, bookingID)
	if err != nil {
		return nil, err
	}

	if booking.Status == entity.BookingStatusCancelled {
		return nil, ErrAlreadyCancelled
	}

	if err := s.repo.Booking.UpdateStatus(ctx, booking.ID, entity.BookingStatusCancelled); err != nil {
		s.log.Error("Failed to cancel booking", zap.Error(err), zap.String("booking_id", bookingID))
		return nil, fmt.Errorf("cancel booking: %w", err)
	}
	booking.Status = entity.BookingStatusCancelled

	s.invalidate(ctx, booking)

	s.log.Info("Booking cancelled",
		zap.String("booking_id", bookingID),
		zap.String("by", actor.Email))

	resp := response.BookingToResponse(booking, nameOf(venue))
	return &resp, nil
}

func (s *bookingService) Receipt(ctx context.Context, actor utils.SessionUser, bookingID string) ([]byte, error) {
	booking, venue, err := s.loadForActor(ctx, actor, bookingID)
	if err != nil {
		return nil, err
	}

	pdf, err := renderReceipt(booking, venue)
	if err != nil {
		s.log.Error("Failed to render receipt", zap.Error(err), zap.String("booking_id", bookingID))
		return nil, fmt.Errorf("render receipt: %w", err)
	}
	return pdf, nil
}

func containsUUID(ids []uuid.UUID, id uuid.UUID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
