package usecase

import (
	"context"
	"testing"
	"time"

	"venue-booking/internal/data/entity"
	"venue-booking/internal/data/repository"
	"venue-booking/internal/data/repository/memstore"
	"venue-booking/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.t = c.t.Add(d)
}

func testConfig() *utils.Config {
	return &utils.Config{
		App:     utils.AppConfig{Name: "venue-booking", BaseURL: "https://book.example.com"},
		Session: utils.SessionConfig{CookieName: "session_token", ExpiryHours: 24},
		Links:   utils.LinksConfig{ShareExpiryDays: 7, BookingExpiryHours: 24},
		Slots: utils.SlotsConfig{
			PoolOpen: 9, PoolClose: 11,
			TennisOpen: 6, TennisClose: 22,
			PickleballOpen: 7, PickleballClose: 22,
		},
		SuperAdmin: utils.SuperAdminConfig{Name: "Root", Email: "root@example.com", Password: "rootpass123"},
	}
}

type fixture struct {
	repo  *repository.Repository
	svc   *Service
	clock *fakeClock
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureAt(t, time.Date(2024, 5, 30, 10, 0, 0, 0, time.UTC))
}

// newFixtureAt is for tests that go through session lookups, which compare
// expiry against the wall clock.
func newFixtureAt(t *testing.T, now time.Time) *fixture {
	t.Helper()
	repo := memstore.New()
	clock := &fakeClock{t: now}

	svc := NewService(Deps{
		Repo:   repo,
		Config: testConfig(),
		Clock:  clock.Now,
		Log:    zaptest.NewLogger(t),
	})

	return &fixture{repo: repo, svc: svc, clock: clock}
}

func admin(email string) utils.SessionUser {
	return utils.SessionUser{ID: uuid.New(), Email: email, Role: string(entity.RoleAdmin)}
}

func superadmin() utils.SessionUser {
	return utils.SessionUser{ID: uuid.New(), Email: "root@example.com", Role: string(entity.RoleSuperAdmin)}
}

func (f *fixture) seedVenue(t *testing.T, venueType entity.VenueType, ownerEmail string, price float64) *entity.Venue {
	t.Helper()
	now := f.clock.Now()
	venue := &entity.Venue{
		Base:     entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		Type:     venueType,
		Name:     string(venueType) + " one",
		Location: "Downtown",
		Price:    price,
		Capacity: 10,
		Status:   entity.VenueStatusActive,
		Owner:    entity.Owner{Name: "Owner", Email: entity.NewOwnerEmail(ownerEmail)},
	}
	require.NoError(t, f.repo.Venue.Create(context.Background(), venue))
	return venue
}

func (f *fixture) seedBooking(t *testing.T, venue *entity.Venue, date, slot string, status entity.BookingStatus) *entity.Booking {
	t.Helper()
	day, err := time.Parse(entity.DateLayout, date)
	require.NoError(t, err)

	now := f.clock.Now()
	b := &entity.Booking{
		Base:          entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		VenueType:     venue.Type,
		VenueID:       venue.ID,
		CustomerName:  "Cust",
		CustomerEmail: "cust@example.com",
		CustomerPhone: "555-0100",
		Date:          day,
		Time:          slot,
		Duration:      1,
		TotalPrice:    venue.Price,
		Guests:        1,
		Status:        status,
	}
	require.NoError(t, f.repo.Booking.Create(context.Background(), b))
	return b
}
