package usecase

import (
	"context"
	"fmt"
	"time"

	"venue-booking/internal/data/cache"
	"venue-booking/internal/data/entity"
	"venue-booking/internal/data/repository"
	"venue-booking/internal/dto/response"

	"go.uber.org/zap"
)

type AvailabilityService interface {
	GetAvailability(ctx context.Context, venueType entity.VenueType, venueID, date string) (*response.AvailabilityResponse, error)
}

type availabilityService struct {
	repo  *repository.Repository
	slots SlotTemplates
	cache cache.AvailabilityCache
	log   *zap.Logger
}

func NewAvailabilityService(repo *repository.Repository, slots SlotTemplates, c cache.AvailabilityCache, log *zap.Logger) AvailabilityService {
	return &availabilityService{
		repo:  repo,
		slots: slots,
		cache: c,
		log:   log.With(zap.String("service", "availability")),
	}
}

func (s *availabilityService) GetAvailability(ctx context.Context, venueType entity.VenueType, venueID, date string) (*response.AvailabilityResponse, error) {
	if date == "" {
		return nil, fieldError("date", "This field is required")
	}
	day, err := time.Parse(entity.DateLayout, date)
	if err != nil {
		return nil, fieldError("date", "Must match format "+entity.DateLayout)
	}

	venue, err := findVenue(ctx, s.repo.Venue, venueType, venueID)
	if err != nil {
		return nil, err
	}

	booked, err := s.cache.BookedTimes(ctx, venue.ID, date, func(ctx context.Context) ([]string, error) {
		return s.repo.Booking.FindBookedTimes(ctx, venue.ID, day)
	})
	if err != nil {
		s.log.Error("Failed to load booked times",
			zap.Error(err),
			zap.String("venue_id", venue.ID.String()),
			zap.String("date", date))
		return nil, fmt.Errorf("load booked times: %w", err)
	}

	all := s.slots.For(venueType)
	return &response.AvailabilityResponse{
		Date:           date,
		AvailableSlots: subtractSlots(all, booked),
		AllSlots:       all,
	}, nil
}

// subtractSlots keeps the order of all.
func subtractSlots(all, booked []string) []string {
	taken := make(map[string]struct{}, len(booked))
	for _, t := range booked {
		taken[t] = struct{}{}
	}

	available := make([]string, 0, len(all))
	for _, slot := range all {
		if _, ok := taken[slot]; !ok {
			available = append(available, slot)
		}
	}
	return available
}
