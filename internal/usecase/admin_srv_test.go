package usecase

import (
	"context"
	"testing"

	"venue-booking/internal/data/entity"
	"venue-booking/internal/dto/request"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signup(t *testing.T, f *fixture, name, email string) {
	t.Helper()
	_, err := f.svc.Auth.Signup(context.Background(), &request.SignupRequest{
		Name:     name,
		Email:    email,
		Password: "password123",
	}, SessionMeta{})
	require.NoError(t, err)
}

func TestListAdmins(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.svc.Auth.EnsureSuperAdmin(ctx))
	signup(t, f, "Ann", "ann@example.com")
	signup(t, f, "Bob", "bob@example.com")

	pool := f.seedVenue(t, entity.VenuePool, "ann@example.com", 20)
	f.seedVenue(t, entity.VenueTennis, "ann@example.com", 30)
	f.seedVenue(t, entity.VenueTennis, "ann@example.com", 30)
	f.seedBooking(t, pool, "2024-06-01", "09:00 AM", entity.BookingStatusConfirmed)

	admins, err := f.svc.Admin.ListAdmins(ctx)
	require.NoError(t, err)
	require.Len(t, admins, 2)

	byEmail := map[string]int{}
	for i, a := range admins {
		byEmail[a.Email] = i
	}
	require.Contains(t, byEmail, "ann@example.com")
	require.NotContains(t, byEmail, "root@example.com")

	ann := admins[byEmail["ann@example.com"]]
	assert.Equal(t, 1, ann.Venues.Pools)
	assert.Equal(t, 2, ann.Venues.TennisCourts)
	assert.Zero(t, ann.Venues.PickleballCourts)
	assert.Equal(t, int64(1), ann.TotalBookings)
	assert.Equal(t, 20.0, ann.TotalRevenue)

	bob := admins[byEmail["bob@example.com"]]
	assert.Zero(t, bob.TotalBookings)
}

func TestGetAdminStats(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	signup(t, f, "Ann", "ann@example.com")
	court := f.seedVenue(t, entity.VenuePickleball, "ann@example.com", 12)
	f.seedBooking(t, court, "2024-06-01", "08:00 AM", entity.BookingStatusConfirmed)
	f.seedBooking(t, court, "2024-06-01", "09:00 AM", entity.BookingStatusConfirmed)

	stats, err := f.svc.Admin.GetAdminStats(ctx, "ANN@example.com")
	require.NoError(t, err)
	require.NotNil(t, stats.User)
	assert.Equal(t, "ann@example.com", stats.Email)
	assert.Empty(t, stats.Pools)
	require.Len(t, stats.PickleballCourts, 1)
	assert.Equal(t, int64(2), stats.TotalBookings)
	assert.Equal(t, 24.0, stats.TotalRevenue)

	// venues without a user row still count as an admin
	f.seedVenue(t, entity.VenuePool, "ghost@example.com", 5)
	ghost, err := f.svc.Admin.GetAdminStats(ctx, "ghost@example.com")
	require.NoError(t, err)
	assert.Nil(t, ghost.User)
	assert.Len(t, ghost.Pools, 1)

	_, err = f.svc.Admin.GetAdminStats(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, ErrAdminNotFound)

	var verr *ValidationError
	_, err = f.svc.Admin.GetAdminStats(ctx, "not-an-email")
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "email")
}

func TestDeleteAdminCascade(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	signup(t, f, "Ann", "ann@example.com")
	signup(t, f, "Bob", "bob@example.com")

	pool := f.seedVenue(t, entity.VenuePool, "ann@example.com", 20)
	court := f.seedVenue(t, entity.VenueTennis, "ann@example.com", 30)
	f.seedVenue(t, entity.VenueTennis, "ann@example.com", 30)
	kept := f.seedVenue(t, entity.VenuePool, "bob@example.com", 20)
	f.seedBooking(t, pool, "2024-06-01", "09:00 AM", entity.BookingStatusConfirmed)
	f.seedBooking(t, court, "2024-06-01", "09:00 AM", entity.BookingStatusCancelled)
	f.seedBooking(t, kept, "2024-06-01", "09:00 AM", entity.BookingStatusConfirmed)

	got, err := f.svc.Admin.DeleteAdmin(ctx, "ann@example.com")
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.Bookings)
	assert.Equal(t, int64(1), got.Pools)
	assert.Equal(t, int64(2), got.TennisCourts)
	assert.Zero(t, got.PickleballCourts)
	assert.Equal(t, int64(1), got.Users)

	assert.Equal(t, int64(1), countBookings(t, f))
	user, err := f.repo.User.FindByEmail(ctx, "ann@example.com")
	require.NoError(t, err)
	assert.Nil(t, user)
	remaining, err := f.repo.Venue.FindByOwnerEmail(ctx, entity.NewOwnerEmail("ann@example.com"))
	require.NoError(t, err)
	assert.Empty(t, remaining)

	_, err = f.svc.Admin.DeleteAdmin(ctx, "ann@example.com")
	assert.ErrorIs(t, err, ErrAdminNotFound)
}

func TestDeleteAdminWithoutUserRow(t *testing.T) {
	f := newFixture(t)
	f.seedVenue(t, entity.VenuePickleball, "ghost@example.com", 5)

	got, err := f.svc.Admin.DeleteAdmin(context.Background(), "ghost@example.com")
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.PickleballCourts)
	assert.Zero(t, got.Users)
}

func TestDeleteAdminRefusesSuperAdmin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.svc.Auth.EnsureSuperAdmin(ctx))

	_, err := f.svc.Admin.DeleteAdmin(ctx, "root@example.com")
	assert.ErrorIs(t, err, ErrForbidden)
}
