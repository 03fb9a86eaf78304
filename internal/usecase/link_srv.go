package usecase

import (
	"context"
	"crypto/subtle"
	"fmt"
	"net/url"
	"time"

	"venue-booking/internal/data/entity"
	"venue-booking/internal/data/repository"
	"venue-booking/internal/dto/request"
	"venue-booking/internal/dto/response"
	"venue-booking/pkg/utils"

	"github.com/skip2/go-qrcode"
	"go.uber.org/zap"
)

const (
	maxShareExpiryDays    = 365
	maxBookingExpiryHours = 8760
)

type LinkService interface {
	GenerateShareLink(ctx context.Context, actor utils.SessionUser, venueType entity.VenueType, venueID string, req *request.ShareLinkRequest) (*response.ShareLinkResponse, error)
	DeactivateShareLink(ctx context.Context, actor utils.SessionUser, venueType entity.VenueType, venueID string) error
	GenerateBookingLink(ctx context.Context, actor utils.SessionUser, venueType entity.VenueType, venueID string, req *request.BookingLinkRequest) (*response.BookingLinkResponse, error)
	DeactivateBookingLink(ctx context.Context, actor utils.SessionUser, venueType entity.VenueType, venueID string) error

	// Public
	ValidateShareLink(ctx context.Context, venueType entity.VenueType, req *request.ValidateLinkRequest) (*response.ShareLinkValidationResponse, error)
	ValidateBookingLink(ctx context.Context, venueType entity.VenueType, req *request.ValidateLinkRequest) (*response.BookingLinkValidationResponse, error)

	ShareLinkQR(ctx context.Context, actor utils.SessionUser, venueType entity.VenueType, venueID string, size int) ([]byte, error)
}

type linkService struct {
	repo   *repository.Repository
	config *utils.Config
	now    utils.Clock
	log    *zap.Logger
}

func NewLinkService(repo *repository.Repository, config *utils.Config, clock utils.Clock, log *zap.Logger) LinkService {
	return &linkService{
		repo:   repo,
		config: config,
		now:    clock,
		log:    log.With(zap.String("service", "link")),
	}
}

func shareURL(baseURL string, venue *entity.Venue) string {
	return fmt.Sprintf("%s/share/%s/%s?token=%s", baseURL, venue.Type.Slug(), venue.ID, url.QueryEscape(venue.ShareLink.Token))
}

func bookingURL(baseURL string, venue *entity.Venue) string {
	return fmt.Sprintf("%s/book/%s/%s?token=%s", baseURL, venue.Type.Slug(), venue.ID, url.QueryEscape(venue.BookingLink.Token))
}

func tokensEqual(stored, presented string) bool {
	return subtle.ConstantTimeCompare([]byte(stored), []byte(presented)) == 1
}

// checkShareLink returns ErrLinkInvalid for an inactive link or wrong token and
// ErrLinkExpired once now is past the expiry, whatever the active flag says.
func checkShareLink(venue *entity.Venue, token string, now time.Time) error {
	link := venue.ShareLink
	if !link.Active || link.Token == "" || !tokensEqual(link.Token, token) {
		return ErrLinkInvalid
	}
	if link.Expiry == nil || now.After(*link.Expiry) {
		return ErrLinkExpired
	}
	return nil
}

// checkBookingLink works like checkShareLink and also returns the price the link books at.
func checkBookingLink(venue *entity.Venue, token string, now time.Time) (float64, error) {
	link := venue.BookingLink
	if !link.Active || link.Token == "" || !tokensEqual(link.Token, token) {
		return 0, ErrLinkInvalid
	}
	if link.Expiry == nil || now.After(*link.Expiry) {
		return 0, ErrLinkExpired
	}
	if link.Price != nil {
		return *link.Price, nil
	}
	return venue.Price, nil
}

func (s *linkService) loadOwned(ctx context.Context, actor utils.SessionUser, venueType entity.VenueType, venueID string) (*entity.Venue, error) {
	venue, err := findVenue(ctx, s.repo.Venue, venueType, venueID)
	if err != nil {
		return nil, err
	}
	if !CanMutate(actor, venue) {
		s.log.Warn("Link change denied",
			zap.String("venue_id", venueID),
			zap.String("actor", actor.Email))
		return nil, ErrForbidden
	}
	return venue, nil
}

func (s *linkService) GenerateShareLink(ctx context.Context, actor utils.SessionUser, venueType entity.VenueType, venueID string, req *request.ShareLinkRequest) (*response.ShareLinkResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, newValidationError(errs)
	}

	venue, err := s.loadOwned(ctx, actor, venueType, venueID)
	if err != nil {
		return nil, err
	}

	days := s.config.Links.ShareExpiryDays
	if req.ExpiryDays != nil {
		days = *req.ExpiryDays
	}
	if days < 1 || days > maxShareExpiryDays {
		return nil, fieldError("expiryDays", fmt.Sprintf("Must be between 1 and %d", maxShareExpiryDays))
	}

	token, err := utils.GenerateLinkToken()
	if err != nil {
		s.log.Error("Failed to generate share token", zap.Error(err))
		return nil, fmt.Errorf("generate share token: %w", err)
	}

	expiry := s.now().Add(time.Duration(days) * 24 * time.Hour)
	link := entity.ShareLink{Token: token, Expiry: &expiry, Active: true}

	if err := s.repo.Venue.SetShareLink(ctx, venueType, venue.ID, link); err != nil {
		s.log.Error("Failed to store share link", zap.Error(err), zap.String("venue_id", venueID))
		return nil, fmt.Errorf("store share link: %w", err)
	}
	venue.ShareLink = link

	s.log.Info("Share link generated",
		zap.String("venue_id", venueID),
		zap.Int("expiry_days", days))

	return &response.ShareLinkResponse{
		Token:  token,
		Expiry: &expiry,
		Active: true,
		URL:    shareURL(s.config.App.BaseURL, venue),
	}, nil
}

func (s *linkService) DeactivateShareLink(ctx context.Context, actor utils.SessionUser, venueType entity.VenueType, venueID string) error {
	venue, err := s.loadOwned(ctx, actor, venueType, venueID)
	if err != nil {
		return err
	}

	if err := s.repo.Venue.SetShareLink(ctx, venueType, venue.ID, entity.ShareLink{}); err != nil {
		s.log.Error("Failed to clear share link", zap.Error(err), zap.String("venue_id", venueID))
		return fmt.Errorf("clear share link: %w", err)
	}

	s.log.Info("Share link deactivated", zap.String("venue_id", venueID))
	return nil
}

func (s *linkService) GenerateBookingLink(ctx context.Context, actor utils.SessionUser, venueType entity.VenueType, venueID string, req *request.BookingLinkRequest) (*response.BookingLinkResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, newValidationError(errs)
	}

	venue, err := s.loadOwned(ctx, actor, venueType, venueID)
	if err != nil {
		return nil, err
	}

	hours := s.config.Links.BookingExpiryHours
	if req.ExpiryHours != nil {
		hours = *req.ExpiryHours
	}
	if hours < 1 || hours > maxBookingExpiryHours {
		return nil, fieldError("expiryHours", fmt.Sprintf("Must be between 1 and %d", maxBookingExpiryHours))
	}

	token, err := utils.GenerateLinkToken()
	if err != nil {
		s.log.Error("Failed to generate booking token", zap.Error(err))
		return nil, fmt.Errorf("generate booking token: %w", err)
	}

	expiry := s.now().Add(time.Duration(hours) * time.Hour)
	link := entity.BookingLink{Token: token, Expiry: &expiry, Active: true, Price: req.Price}

	if err := s.repo.Venue.SetBookingLink(ctx, venueType, venue.ID, link); err != nil {
		s.log.Error("Failed to store booking link", zap.Error(err), zap.String("venue_id", venueID))
		return nil, fmt.Errorf("store booking link: %w", err)
	}
	venue.BookingLink = link

	s.log.Info("Booking link generated",
		zap.String("venue_id", venueID),
		zap.Int("expiry_hours", hours),
		zap.Bool("price_override", req.Price != nil))

	return &response.BookingLinkResponse{
		Token:  token,
		Expiry: &expiry,
		Active: true,
		Price:  req.Price,
		URL:    bookingURL(s.config.App.BaseURL, venue),
	}, nil
}

func (s *linkService) DeactivateBookingLink(ctx context.Context, actor utils.SessionUser, venueType entity.VenueType, venueID string) error {
	venue, err := s.loadOwned(ctx, actor, venueType, venueID)
	if err != nil {
		return err
	}

	if err := s.repo.Venue.SetBookingLink(ctx, venueType, venue.ID, entity.BookingLink{}); err != nil {
		s.log.Error("Failed to clear booking link", zap.Error(err), zap.String("venue_id", venueID))
		return fmt.Errorf("clear booking link: %w", err)
	}

	s.log.Info("Booking link deactivated", zap.String("venue_id", venueID))
	return nil
}

func (s *linkService) ValidateShareLink(ctx context.Context, venueType entity.VenueType, req *request.ValidateLinkRequest) (*response.ShareLinkValidationResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, newValidationError(errs)
	}

	venue, err := findVenue(ctx, s.repo.Venue, venueType, req.VenueID)
	if err != nil {
		return nil, err
	}

	if err := checkShareLink(venue, req.Token, s.now()); err != nil {
		s.log.Info("Share link rejected", zap.String("venue_id", req.VenueID), zap.Error(err))
		return nil, err
	}

	stats, err := s.repo.Booking.StatsByVenueIDs(ctx, venueIDs([]*entity.Venue{venue}))
	if err != nil {
		return nil, fmt.Errorf("load venue stats: %w", err)
	}

	return &response.ShareLinkValidationResponse{
		Venue:  response.VenueToResponse(venue, stats[venue.ID], false),
		Expiry: *venue.ShareLink.Expiry,
	}, nil
}

func (s *linkService) ValidateBookingLink(ctx context.Context, venueType entity.VenueType, req *request.ValidateLinkRequest) (*response.BookingLinkValidationResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, newValidationError(errs)
	}

	venue, err := findVenue(ctx, s.repo.Venue, venueType, req.VenueID)
	if err != nil {
		return nil, err
	}

	price, err := checkBookingLink(venue, req.Token, s.now())
	if err != nil {
		s.log.Info("Booking link rejected", zap.String("venue_id", req.VenueID), zap.Error(err))
		return nil, err
	}

	return &response.BookingLinkValidationResponse{
		Venue: response.VenueToResponse(venue, entity.VenueStats{}, false),
		Price: price,
	}, nil
}

// ShareLinkQR renders the active share URL of the venue as a PNG QR code.
func (s *linkService) ShareLinkQR(ctx context.Context, actor utils.SessionUser, venueType entity.VenueType, venueID string, size int) ([]byte, error) {
	venue, err := s.loadOwned(ctx, actor, venueType, venueID)
	if err != nil {
		return nil, err
	}

	if !venue.ShareLink.Active || venue.ShareLink.Token == "" {
		return nil, ErrLinkInvalid
	}
	if size < 128 || size > 1024 {
		size = 256
	}

	png, err := qrcode.Encode(shareURL(s.config.App.BaseURL, venue), qrcode.Medium, size)
	if err != nil {
		s.log.Error("Failed to encode QR code", zap.Error(err))
		return nil, fmt.Errorf("encode share link QR: %w", err)
	}
	return png, nil
}
