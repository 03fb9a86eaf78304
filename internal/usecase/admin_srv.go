package usecase

import (
	"context"
	"fmt"

	"venue-booking/internal/data/entity"
	"venue-booking/internal/data/repository"
	"venue-booking/internal/dto/response"
	"venue-booking/pkg/storage"
	"venue-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AdminService backs the superadmin console. Routes guard the role.
type AdminService interface {
	ListAdmins(ctx context.Context) ([]response.AdminSummaryResponse, error)
	GetAdminStats(ctx context.Context, email string) (*response.AdminStatsResponse, error)
	DeleteAdmin(ctx context.Context, email string) (*response.DeleteAdminResponse, error)
}

type adminService struct {
	repo   *repository.Repository
	images *storage.ImageStore
	log    *zap.Logger
}

func NewAdminService(repo *repository.Repository, images *storage.ImageStore, log *zap.Logger) AdminService {
	return &adminService{
		repo:   repo,
		images: images,
		log:    log.With(zap.String("service", "admin")),
	}
}

func sumStats(venues []*entity.Venue, stats map[uuid.UUID]entity.VenueStats) (int64, float64) {
	var bookings int64
	var revenue float64
	for _, v := range venues {
		st := stats[v.ID]
		bookings += st.TotalBookings
		revenue += st.TotalRevenue
	}
	return bookings, revenue
}

func (s *adminService) ListAdmins(ctx context.Context) ([]response.AdminSummaryResponse, error) {
	admins, err := s.repo.User.FindByRole(ctx, entity.RoleAdmin)
	if err != nil {
		s.log.Error("Failed to list admins", zap.Error(err))
		return nil, fmt.Errorf("list admins: %w", err)
	}

	out := make([]response.AdminSummaryResponse, 0, len(admins))
	for _, admin := range admins {
		venues, err := s.repo.Venue.FindByOwnerEmail(ctx, entity.NewOwnerEmail(admin.Email))
		if err != nil {
			s.log.Error("Failed to load admin venues", zap.Error(err), zap.String("email", admin.Email))
			return nil, fmt.Errorf("load venues of %s: %w", admin.Email, err)
		}

		stats, err := s.repo.Booking.StatsByVenueIDs(ctx, venueIDs(venues))
		if err != nil {
			return nil, fmt.Errorf("aggregate stats of %s: %w", admin.Email, err)
		}
		bookings, revenue := sumStats(venues, stats)

		summary := response.AdminSummaryResponse{
			Name:          admin.Name,
			Email:         admin.Email,
			LastLogin:     admin.LastLogin,
			CreatedAt:     admin.CreatedAt,
			TotalBookings: bookings,
			TotalRevenue:  revenue,
		}
		for _, v := range venues {
			switch v.Type {
			case entity.VenuePool:
				summary.Venues.Pools++
			case entity.VenueTennis:
				summary.Venues.TennisCourts++
			case entity.VenuePickleball:
				summary.Venues.PickleballCourts++
			}
		}
		out = append(out, summary)
	}

	return out, nil
}

func parseAdminEmail(email string) (entity.OwnerEmail, error) {
	if errs := utils.ValidateVar("email", email, "required,email"); len(errs) > 0 {
		return "", newValidationError(errs)
	}
	return entity.NewOwnerEmail(email), nil
}

func (s *adminService) GetAdminStats(ctx context.Context, email string) (*response.AdminStatsResponse, error) {
	owner, err := parseAdminEmail(email)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.User.FindByEmail(ctx, owner.String())
	if err != nil {
		s.log.Error("Failed to load admin", zap.Error(err), zap.String("email", owner.String()))
		return nil, fmt.Errorf("load admin: %w", err)
	}

	venues, err := s.repo.Venue.FindByOwnerEmail(ctx, owner)
	if err != nil {
		s.log.Error("Failed to load admin venues", zap.Error(err), zap.String("email", owner.String()))
		return nil, fmt.Errorf("load admin venues: %w", err)
	}

	if user == nil && len(venues) == 0 {
		return nil, ErrAdminNotFound
	}

	stats, err := s.repo.Booking.StatsByVenueIDs(ctx, venueIDs(venues))
	if err != nil {
		return nil, fmt.Errorf("aggregate admin stats: %w", err)
	}

	resp := &response.AdminStatsResponse{
		Email:            owner.String(),
		Pools:            []response.VenueResponse{},
		TennisCourts:     []response.VenueResponse{},
		PickleballCourts: []response.VenueResponse{},
	}
	if user != nil {
		u := response.UserToResponse(user)
		resp.User = &u
	}
	resp.TotalBookings, resp.TotalRevenue = sumStats(venues, stats)

	for _, v := range venues {
		vr := response.VenueToResponse(v, stats[v.ID], true)
		switch v.Type {
		case entity.VenuePool:
			resp.Pools = append(resp.Pools, vr)
		case entity.VenueTennis:
			resp.TennisCourts = append(resp.TennisCourts, vr)
		case entity.VenuePickleball:
			resp.PickleballCourts = append(resp.PickleballCourts, vr)
		}
	}

	return resp, nil
}

// DeleteAdmin cascades over bookings, venues and finally the user. Each step
// commits on its own; on failure the counts so far are logged and the error
// is returned.
func (s *adminService) DeleteAdmin(ctx context.Context, email string) (*response.DeleteAdminResponse, error) {
	owner, err := parseAdminEmail(email)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.User.FindByEmail(ctx, owner.String())
	if err != nil {
		return nil, fmt.Errorf("load admin: %w", err)
	}
	if user != nil && user.Role == entity.RoleSuperAdmin {
		return nil, ErrForbidden
	}

	venues, err := s.repo.Venue.FindByOwnerEmail(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("load admin venues: %w", err)
	}

	if user == nil && len(venues) == 0 {
		return nil, ErrAdminNotFound
	}

	result := &response.DeleteAdminResponse{}
	logFields := func() []zap.Field {
		return []zap.Field{
			zap.String("email", owner.String()),
			zap.Int64("bookings", result.Bookings),
			zap.Int64("pools", result.Pools),
			zap.Int64("tennis_courts", result.TennisCourts),
			zap.Int64("pickleball_courts", result.PickleballCourts),
			zap.Int64("users", result.Users),
		}
	}

	// 1. Bookings
	result.Bookings, err = s.repo.Booking.DeleteByVenueIDs(ctx, venueIDs(venues))
	if err != nil {
		s.log.Error("Cascade delete failed at bookings", append(logFields(), zap.Error(err))...)
		return nil, fmt.Errorf("delete admin bookings: %w", err)
	}

	// 2. Venues
	counts, err := s.repo.Venue.DeleteByOwnerEmail(ctx, owner)
	if err != nil {
		s.log.Error("Cascade delete failed at venues", append(logFields(), zap.Error(err))...)
		return nil, fmt.Errorf("delete admin venues: %w", err)
	}
	result.Pools = counts[entity.VenuePool]
	result.TennisCourts = counts[entity.VenueTennis]
	result.PickleballCourts = counts[entity.VenuePickleball]

	// 3. User, sessions follow
	result.Users, err = s.repo.User.DeleteByEmail(ctx, owner.String())
	if err != nil {
		s.log.Error("Cascade delete failed at user", append(logFields(), zap.Error(err))...)
		return nil, fmt.Errorf("delete admin user: %w", err)
	}

	// 4. Files, best effort
	if s.images != nil {
		var urls []string
		for _, v := range venues {
			urls = append(urls, v.Images...)
		}
		n, err := s.images.Remove(urls)
		if err != nil {
			s.log.Warn("Some admin images could not be removed", zap.Error(err))
		}
		result.ImagesRemoved = n
	}

	s.log.Info("Admin deleted", logFields()...)
	return result, nil
}
