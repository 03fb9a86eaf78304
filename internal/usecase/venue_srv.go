package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"venue-booking/internal/data/entity"
	"venue-booking/internal/data/repository"
	"venue-booking/internal/dto/request"
	"venue-booking/internal/dto/response"
	"venue-booking/pkg/storage"
	"venue-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const maxImagesPerUpload = 10

type VenueService interface {
	// Public endpoints
	List(ctx context.Context, actor *utils.SessionUser, venueType entity.VenueType, req *request.ListVenuesRequest) ([]response.VenueResponse, error)
	Get(ctx context.Context, actor *utils.SessionUser, venueType entity.VenueType, venueID string) (*response.VenueResponse, error)

	// Owner or superadmin
	Create(ctx context.Context, actor utils.SessionUser, venueType entity.VenueType, req *request.VenueRequest) (*response.VenueResponse, error)
	Replace(ctx context.Context, actor utils.SessionUser, venueType entity.VenueType, venueID string, req *request.VenueRequest) (*response.VenueResponse, error)
	Patch(ctx context.Context, actor utils.SessionUser, venueType entity.VenueType, venueID string, req *request.PatchVenueRequest) (*response.VenueResponse, error)
	Delete(ctx context.Context, actor utils.SessionUser, venueType entity.VenueType, venueID string, withImages bool) (*response.DeleteVenueResponse, error)
	UploadImages(ctx context.Context, actor utils.SessionUser, venueType entity.VenueType, venueID string, files []io.Reader) (*response.VenueResponse, error)
}

type venueService struct {
	repo   *repository.Repository
	images *storage.ImageStore
	now    utils.Clock
	log    *zap.Logger
}

func NewVenueService(repo *repository.Repository, images *storage.ImageStore, clock utils.Clock, log *zap.Logger) VenueService {
	return &venueService{
		repo:   repo,
		images: images,
		now:    clock,
		log:    log.With(zap.String("service", "venue")),
	}
}

func (s *venueService) stats(ctx context.Context, venues ...*entity.Venue) (map[uuid.UUID]entity.VenueStats, error) {
	stats, err := s.repo.Booking.StatsByVenueIDs(ctx, venueIDs(venues))
	if err != nil {
		s.log.Error("Failed to aggregate venue stats", zap.Error(err))
		return nil, fmt.Errorf("aggregate venue stats: %w", err)
	}
	return stats, nil
}

func (s *venueService) render(ctx context.Context, actor *utils.SessionUser, venue *entity.Venue) (*response.VenueResponse, error) {
	stats, err := s.stats(ctx, venue)
	if err != nil {
		return nil, err
	}
	resp := response.VenueToResponse(venue, stats[venue.ID], canView(actor, venue))
	return &resp, nil
}

func (s *venueService) List(ctx context.Context, actor *utils.SessionUser, venueType entity.VenueType, req *request.ListVenuesRequest) ([]response.VenueResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, newValidationError(errs)
	}

	filter := entity.VenueFilter{
		OwnerEmail: entity.NewOwnerEmail(req.OwnerEmail),
		Status:     entity.VenueStatus(req.Status),
	}

	venues, err := s.repo.Venue.FindAll(ctx, venueType, filter)
	if err != nil {
		s.log.Error("Failed to list venues", zap.Error(err), zap.String("type", string(venueType)))
		return nil, fmt.Errorf("list venues: %w", err)
	}

	stats, err := s.stats(ctx, venues...)
	if err != nil {
		return nil, err
	}

	out := make([]response.VenueResponse, 0, len(venues))
	for _, v := range venues {
		out = append(out, response.VenueToResponse(v, stats[v.ID], canView(actor, v)))
	}
	return out, nil
}

func (s *venueService) Get(ctx context.Context, actor *utils.SessionUser, venueType entity.VenueType, venueID string) (*response.VenueResponse, error) {
	venue, err := findVenue(ctx, s.repo.Venue, venueType, venueID)
	if err != nil {
		return nil, err
	}
	return s.render(ctx, actor, venue)
}

// ownerFor decides the owner of a new venue. Admins always own what they create;
// a superadmin may create on behalf of another email.
func ownerFor(actor utils.SessionUser, req *request.OwnerRequest) entity.Owner {
	owner := entity.Owner{Email: entity.NewOwnerEmail(actor.Email)}
	if req == nil {
		return owner
	}
	owner.Name = strings.TrimSpace(req.Name)
	owner.Phone = strings.TrimSpace(req.Phone)
	if isSuperAdmin(actor) && req.Email != "" {
		owner.Email = entity.NewOwnerEmail(req.Email)
	}
	return owner
}

func applyVenueRequest(v *entity.Venue, req *request.VenueRequest) {
	v.Name = strings.TrimSpace(req.Name)
	v.Description = req.Description
	v.Location = strings.TrimSpace(req.Location)
	v.Price = req.Price
	v.Capacity = req.Capacity
	v.Status = entity.VenueStatusActive
	if req.Status != "" {
		v.Status = entity.VenueStatus(req.Status)
	}
	v.Amenities = req.Amenities
	v.Images = req.Images
	v.Rating = req.Rating
}

func (s *venueService) Create(ctx context.Context, actor utils.SessionUser, venueType entity.VenueType, req *request.VenueRequest) (*response.VenueResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create venue validation failed", zap.Any("errors", errs))
		return nil, newValidationError(errs)
	}

	now := s.now()
	venue := &entity.Venue{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Type:  venueType,
		Owner: ownerFor(actor, req.Owner),
	}
	applyVenueRequest(venue, req)

	if err := s.repo.Venue.Create(ctx, venue); err != nil {
		s.log.Error("Failed to create venue", zap.Error(err), zap.String("name", venue.Name))
		return nil, fmt.Errorf("create venue: %w", err)
	}

	s.log.Info("Venue created",
		zap.String("venue_id", venue.ID.String()),
		zap.String("type", string(venueType)),
		zap.String("owner_email", venue.Owner.Email.String()))

	resp := response.VenueToResponse(venue, entity.VenueStats{}, true)
	return &resp, nil
}

func (s *venueService) loadOwned(ctx context.Context, actor utils.SessionUser, venueType entity.VenueType, venueID string) (*entity.Venue, error) {
	venue, err := findVenue(ctx, s.repo.Venue, venueType, venueID)
	if err != nil {
		return nil, err
	}
	if !CanMutate(actor, venue) {
		s.log.Warn("Venue change denied",
			zap.String("venue_id", venueID),
			zap.String("actor", actor.Email))
		return nil, ErrForbidden
	}
	return venue, nil
}

func (s *venueService) save(ctx context.Context, venue *entity.Venue) (*response.VenueResponse, error) {
	venue.UpdatedAt = s.now()
	if err := s.repo.Venue.Update(ctx, venue); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrVenueNotFound
		}
		s.log.Error("Failed to update venue", zap.Error(err), zap.String("venue_id", venue.ID.String()))
		return nil, fmt.Errorf("update venue: %w", err)
	}

	stats, err := s.stats(ctx, venue)
	if err != nil {
		return nil, err
	}
	resp := response.VenueToResponse(venue, stats[venue.ID], true)
	return &resp, nil
}

func (s *venueService) Replace(ctx context.Context, actor utils.SessionUser, venueType entity.VenueType, venueID string, req *request.VenueRequest) (*response.VenueResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, newValidationError(errs)
	}

	venue, err := s.loadOwned(ctx, actor, venueType, venueID)
	if err != nil {
		return nil, err
	}

	applyVenueRequest(venue, req)
	if req.Owner != nil {
		venue.Owner.Name = strings.TrimSpace(req.Owner.Name)
		venue.Owner.Phone = strings.TrimSpace(req.Owner.Phone)
	}

	return s.save(ctx, venue)
}

func (s *venueService) Patch(ctx context.Context, actor utils.SessionUser, venueType entity.VenueType, venueID string, req *request.PatchVenueRequest) (*response.VenueResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, newValidationError(errs)
	}

	venue, err := s.loadOwned(ctx, actor, venueType, venueID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		venue.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		venue.Description = *req.Description
	}
	if req.Location != nil {
		venue.Location = strings.TrimSpace(*req.Location)
	}
	if req.Price != nil {
		venue.Price = *req.Price
	}
	if req.Capacity != nil {
		venue.Capacity = *req.Capacity
	}
	if req.Status != nil {
		venue.Status = entity.VenueStatus(*req.Status)
	}
	if req.Owner != nil {
		if req.Owner.Name != "" {
			venue.Owner.Name = strings.TrimSpace(req.Owner.Name)
		}
		if req.Owner.Phone != "" {
			venue.Owner.Phone = strings.TrimSpace(req.Owner.Phone)
		}
	}
	if req.Amenities != nil {
		venue.Amenities = req.Amenities
	}
	if req.Images != nil {
		venue.Images = req.Images
	}
	if req.Rating != nil {
		venue.Rating = *req.Rating
	}

	return s.save(ctx, venue)
}

// Delete removes the bookings of the venue, then the venue. The steps are not
// transactional; a failure after the bookings are gone leaves them gone.
func (s *venueService) Delete(ctx context.Context, actor utils.SessionUser, venueType entity.VenueType, venueID string, withImages bool) (*response.DeleteVenueResponse, error) {
	venue, err := s.loadOwned(ctx, actor, venueType, venueID)
	if err != nil {
		return nil, err
	}

	removed, err := s.repo.Booking.DeleteByVenueIDs(ctx, []uuid.UUID{venue.ID})
	if err != nil {
		s.log.Error("Failed to delete venue bookings", zap.Error(err), zap.String("venue_id", venueID))
		return nil, fmt.Errorf("delete venue bookings: %w", err)
	}

	if err := s.repo.Venue.Delete(ctx, venueType, venue.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrVenueNotFound
		}
		s.log.Error("Failed to delete venue", zap.Error(err), zap.String("venue_id", venueID))
		return nil, fmt.Errorf("delete venue: %w", err)
	}

	resp := &response.DeleteVenueResponse{Bookings: removed}
	if withImages && s.images != nil {
		n, err := s.images.Remove(venue.Images)
		if err != nil {
			s.log.Warn("Some venue images could not be removed", zap.Error(err), zap.String("venue_id", venueID))
		}
		resp.ImagesRemoved = n
	}

	s.log.Info("Venue deleted",
		zap.String("venue_id", venueID),
		zap.String("by", actor.Email),
		zap.Int64("bookings", removed),
		zap.Int("images", resp.ImagesRemoved))

	return resp, nil
}

func (s *venueService) UploadImages(ctx context.Context, actor utils.SessionUser, venueType entity.VenueType, venueID string, files []io.Reader) (*response.VenueResponse, error) {
	if len(files) == 0 {
		return nil, fieldError("images", "This field is required")
	}
	if len(files) > maxImagesPerUpload {
		return nil, fieldError("images", fmt.Sprintf("Maximum value is %d", maxImagesPerUpload))
	}
	if s.images == nil {
		return nil, errors.New("image storage is not configured")
	}

	venue, err := s.loadOwned(ctx, actor, venueType, venueID)
	if err != nil {
		return nil, err
	}

	folder := fmt.Sprintf("venues/%s/%s", venueType, venue.ID)
	var saved []string
	for i, f := range files {
		url, err := s.images.Save(folder, f)
		if err != nil {
			// keep storage and record in step
			if _, rmErr := s.images.Remove(saved); rmErr != nil {
				s.log.Warn("Failed to roll back uploaded images", zap.Error(rmErr))
			}
			if errors.Is(err, storage.ErrInvalidImage) || errors.Is(err, storage.ErrFileTooLarge) {
				return nil, fieldError("images", fmt.Sprintf("File %d: %s", i+1, err.Error()))
			}
			s.log.Error("Failed to store image", zap.Error(err), zap.String("venue_id", venueID))
			return nil, fmt.Errorf("store image: %w", err)
		}
		saved = append(saved, url)
	}

	venue.Images = append(venue.Images, saved...)
	resp, err := s.save(ctx, venue)
	if err != nil {
		if _, rmErr := s.images.Remove(saved); rmErr != nil {
			s.log.Warn("Failed to roll back uploaded images", zap.Error(rmErr))
		}
		return nil, err
	}

	s.log.Info("Venue images uploaded", zap.String("venue_id", venueID), zap.Int("count", len(saved)))
	return resp, nil
}
