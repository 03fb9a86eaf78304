package usecase

import (
	"context"
	"fmt"

	"venue-booking/internal/data/cache"
	"venue-booking/internal/data/entity"
	"venue-booking/internal/data/repository"
	"venue-booking/pkg/storage"
	"venue-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Service struct {
	Auth         AuthService
	Venue        VenueService
	Availability AvailabilityService
	Link         LinkService
	Booking      BookingService
	Admin        AdminService
}

// Deps are the collaborators shared by the services.
type Deps struct {
	Repo   *repository.Repository
	Config *utils.Config
	Cache  cache.AvailabilityCache
	Images *storage.ImageStore
	Clock  utils.Clock
	Log    *zap.Logger
}

func NewService(deps Deps) *Service {
	if deps.Cache == nil {
		deps.Cache = cache.Nop{}
	}
	if deps.Clock == nil {
		deps.Clock = utils.SystemClock
	}

	slots := NewSlotTemplates(deps.Config.Slots)

	return &Service{
		Auth:         NewAuthService(deps.Repo, deps.Config, deps.Clock, deps.Log),
		Venue:        NewVenueService(deps.Repo, deps.Images, deps.Clock, deps.Log),
		Availability: NewAvailabilityService(deps.Repo, slots, deps.Cache, deps.Log),
		Link:         NewLinkService(deps.Repo, deps.Config, deps.Clock, deps.Log),
		Booking:      NewBookingService(deps.Repo, deps.Cache, deps.Clock, deps.Log),
		Admin:        NewAdminService(deps.Repo, deps.Images, deps.Log),
	}
}

// findVenue loads a venue by its string id. A malformed id reads as not found.
func findVenue(ctx context.Context, repo repository.VenueRepository, venueType entity.VenueType, id string) (*entity.Venue, error) {
	venueID, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrVenueNotFound
	}

	venue, err := repo.FindByID(ctx, venueType, venueID)
	if err != nil {
		return nil, fmt.Errorf("load %s venue %s: %w", venueType, id, err)
	}
	if venue == nil {
		return nil, ErrVenueNotFound
	}
	return venue, nil
}

func venueIDs(venues []*entity.Venue) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(venues))
	for _, v := range venues {
		ids = append(ids, v.ID)
	}
	return ids
}
