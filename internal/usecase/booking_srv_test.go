package usecase

import (
	"bytes"
	"context"
	"testing"
	"time"

	"venue-booking/internal/data/entity"
	"venue-booking/internal/dto/request"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validBooking(venue *entity.Venue) *request.CreateBookingRequest {
	req := &request.CreateBookingRequest{
		Date:          "2024-06-01",
		Time:          "09:00 AM",
		CustomerName:  "Jane Doe",
		CustomerEmail: "jane@example.com",
		CustomerPhone: "555-0101",
	}
	switch venue.Type {
	case entity.VenuePool:
		req.PoolID = venue.ID.String()
	case entity.VenueTennis:
		req.TennisCourtID = venue.ID.String()
	case entity.VenuePickleball:
		req.PickleballCourtID = venue.ID.String()
	}
	return req
}

func countBookings(t *testing.T, f *fixture) int64 {
	t.Helper()
	n, err := f.repo.Booking.CountAll(context.Background(), entity.BookingFilter{})
	require.NoError(t, err)
	return n
}

func TestCreateBookingMissingPhone(t *testing.T) {
	f := newFixture(t)
	pool := f.seedVenue(t, entity.VenuePool, "owner@example.com", 20)

	req := validBooking(pool)
	req.CustomerPhone = ""

	_, err := f.svc.Booking.CreateBooking(context.Background(), nil, req)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Missing required fields: customerPhone", verr.Message)
	assert.Equal(t, "This field is required", verr.Fields["customerPhone"])
	assert.Zero(t, countBookings(t, f))
}

func TestCreateBookingEnumeratesEveryMissingField(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Booking.CreateBooking(context.Background(), nil, &request.CreateBookingRequest{})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Missing required fields: customerEmail, customerName, customerPhone, date, time, venueId", verr.Message)
	assert.Zero(t, countBookings(t, f))
}

func TestCreateBookingRejectsMalformedDate(t *testing.T) {
	f := newFixture(t)
	pool := f.seedVenue(t, entity.VenuePool, "owner@example.com", 20)

	for _, date := range []string{"2024-13-01", "01/06/2024", "2024-06-31"} {
		req := validBooking(pool)
		req.Date = date

		_, err := f.svc.Booking.CreateBooking(context.Background(), nil, req)

		var verr *ValidationError
		require.ErrorAs(t, err, &verr, date)
		assert.Contains(t, verr.Fields, "date", date)
	}
	assert.Zero(t, countBookings(t, f))
}

func TestCreateBookingDirect(t *testing.T) {
	f := newFixture(t)
	pool := f.seedVenue(t, entity.VenuePool, "owner@example.com", 20)

	req := validBooking(pool)
	req.Duration = 2

	got, err := f.svc.Booking.CreateBooking(context.Background(), nil, req)
	require.NoError(t, err)

	assert.Equal(t, entity.BookingStatusConfirmed, got.Status)
	assert.Equal(t, pool.ID.String(), got.PoolID)
	assert.Empty(t, got.TennisCourtID)
	assert.Equal(t, 40.0, got.TotalPrice)
	assert.Equal(t, 1, got.Guests)
	assert.Equal(t, "2024-06-01", got.Date)
	assert.False(t, got.FromShareLink)
	assert.Empty(t, got.CreatedBy)
	assert.Equal(t, int64(1), countBookings(t, f))
}

func TestCreateBookingAcceptsTimeOutsideTemplate(t *testing.T) {
	f := newFixture(t)
	pool := f.seedVenue(t, entity.VenuePool, "owner@example.com", 20)

	req := validBooking(pool)
	req.Time = "03:00 AM"

	got, err := f.svc.Booking.CreateBooking(context.Background(), nil, req)
	require.NoError(t, err)
	assert.Equal(t, "03:00 AM", got.Time)
}

func TestCreateBookingSlotTaken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := admin("owner@example.com")
	pool := f.seedVenue(t, entity.VenuePool, owner.Email, 20)

	first, err := f.svc.Booking.CreateBooking(ctx, nil, validBooking(pool))
	require.NoError(t, err)

	_, err = f.svc.Booking.CreateBooking(ctx, nil, validBooking(pool))
	assert.ErrorIs(t, err, ErrSlotTaken)

	_, err = f.svc.Booking.CancelBooking(ctx, owner, first.ID)
	require.NoError(t, err)

	_, err = f.svc.Booking.CreateBooking(ctx, nil, validBooking(pool))
	assert.NoError(t, err)
}

func TestCreateBookingVenueReference(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	pool := f.seedVenue(t, entity.VenuePool, "owner@example.com", 20)

	req := validBooking(pool)
	req.TennisCourtID = pool.ID.String()
	var verr *ValidationError
	_, err := f.svc.Booking.CreateBooking(ctx, nil, req)
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "venueId")

	req = validBooking(pool)
	req.PoolID = "pool1"
	_, err = f.svc.Booking.CreateBooking(ctx, nil, req)
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "poolId")

	req = &request.CreateBookingRequest{
		TennisCourtID: pool.ID.String(),
		Date:          "2024-06-01",
		Time:          "09:00 AM",
		CustomerName:  "Jane",
		CustomerEmail: "jane@example.com",
		CustomerPhone: "555",
	}
	_, err = f.svc.Booking.CreateBooking(ctx, nil, req)
	assert.ErrorIs(t, err, ErrVenueNotFound)
}

func TestCreateBookingWithBookingLink(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := admin("owner@example.com")
	pool := f.seedVenue(t, entity.VenuePool, owner.Email, 20)

	link, err := f.svc.Link.GenerateBookingLink(ctx, owner, entity.VenuePool, pool.ID.String(),
		&request.BookingLinkRequest{ExpiryHours: intPtr(1), Price: floatPtr(50)})
	require.NoError(t, err)

	req := validBooking(pool)
	req.BookingToken = link.Token
	req.Duration = 2
	got, err := f.svc.Booking.CreateBooking(ctx, nil, req)
	require.NoError(t, err)
	assert.Equal(t, 100.0, got.TotalPrice)

	f.clock.Advance(2 * time.Hour)
	req = validBooking(pool)
	req.Time = "10:00 AM"
	req.BookingToken = link.Token
	_, err = f.svc.Booking.CreateBooking(ctx, nil, req)
	assert.ErrorIs(t, err, ErrLinkExpired)

	req.BookingToken = "forged"
	_, err = f.svc.Booking.CreateBooking(ctx, nil, req)
	assert.ErrorIs(t, err, ErrLinkInvalid)
}

func TestCreateBookingWithShareLink(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := admin("owner@example.com")
	pool := f.seedVenue(t, entity.VenuePool, owner.Email, 20)

	// clock is 2024-05-30 10:00, so a 2 day link ends on 2024-06-01
	link, err := f.svc.Link.GenerateShareLink(ctx, owner, entity.VenuePool, pool.ID.String(), &request.ShareLinkRequest{ExpiryDays: intPtr(2)})
	require.NoError(t, err)

	req := validBooking(pool)
	req.ShareToken = link.Token
	got, err := f.svc.Booking.CreateBooking(ctx, nil, req)
	require.NoError(t, err)
	assert.True(t, got.FromShareLink)
	assert.Equal(t, 20.0, got.TotalPrice)

	req = validBooking(pool)
	req.ShareToken = link.Token
	req.Date = "2024-06-02"
	var verr *ValidationError
	_, err = f.svc.Booking.CreateBooking(ctx, nil, req)
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Must be on or before 2024-06-01", verr.Fields["date"])

	req.ShareToken = link.Token
	req.BookingToken = "x"
	_, err = f.svc.Booking.CreateBooking(ctx, nil, req)
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "bookingToken")
}

func TestCreateBookingByAdmin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := admin("owner@example.com")
	other := admin("other@example.com")
	pool := f.seedVenue(t, entity.VenuePool, owner.Email, 20)

	req := validBooking(pool)
	req.CreatedBy = "admin"

	_, err := f.svc.Booking.CreateBooking(ctx, nil, req)
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = f.svc.Booking.CreateBooking(ctx, &other, req)
	assert.ErrorIs(t, err, ErrForbidden)

	got, err := f.svc.Booking.CreateBooking(ctx, &owner, req)
	require.NoError(t, err)
	assert.Equal(t, "admin", got.CreatedBy)

	req.CreatedBy = "someone"
	var verr *ValidationError
	_, err = f.svc.Booking.CreateBooking(ctx, &owner, req)
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "createdBy")
}

func TestListBookingsScopesToOwner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := admin("owner@example.com")
	other := admin("other@example.com")

	pool := f.seedVenue(t, entity.VenuePool, owner.Email, 20)
	court := f.seedVenue(t, entity.VenueTennis, owner.Email, 30)
	foreign := f.seedVenue(t, entity.VenuePickleball, other.Email, 10)
	f.seedBooking(t, pool, "2024-06-01", "09:00 AM", entity.BookingStatusConfirmed)
	f.seedBooking(t, court, "2024-06-01", "09:00 AM", entity.BookingStatusConfirmed)
	f.seedBooking(t, foreign, "2024-06-01", "09:00 AM", entity.BookingStatusConfirmed)

	page := request.PaginatedRequest{Page: 1, PerPage: 20}

	mine, err := f.svc.Booking.ListBookings(ctx, owner, &request.ListBookingsRequest{PaginatedRequest: page})
	require.NoError(t, err)
	assert.Equal(t, int64(2), mine.Pagination.Total)

	onlyPool, err := f.svc.Booking.ListBookings(ctx, owner, &request.ListBookingsRequest{PaginatedRequest: page, PoolID: pool.ID.String()})
	require.NoError(t, err)
	require.Len(t, onlyPool.Data, 1)
	assert.Equal(t, pool.Name, onlyPool.Data[0].VenueName)

	_, err = f.svc.Booking.ListBookings(ctx, owner, &request.ListBookingsRequest{PaginatedRequest: page, PickleballCourtID: foreign.ID.String()})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = f.svc.Booking.ListBookings(ctx, owner, &request.ListBookingsRequest{PaginatedRequest: page, OwnerEmail: other.Email})
	assert.ErrorIs(t, err, ErrForbidden)

	all, err := f.svc.Booking.ListBookings(ctx, superadmin(), &request.ListBookingsRequest{PaginatedRequest: page})
	require.NoError(t, err)
	assert.Equal(t, int64(3), all.Pagination.Total)

	byOwner, err := f.svc.Booking.ListBookings(ctx, superadmin(), &request.ListBookingsRequest{PaginatedRequest: page, OwnerEmail: other.Email})
	require.NoError(t, err)
	assert.Equal(t, int64(1), byOwner.Pagination.Total)

	none, err := f.svc.Booking.ListBookings(ctx, superadmin(), &request.ListBookingsRequest{PaginatedRequest: page, OwnerEmail: other.Email, PoolID: pool.ID.String()})
	require.NoError(t, err)
	assert.Zero(t, none.Pagination.Total)
	assert.NotNil(t, none.Data)
}

func TestListBookingsPaginates(t *testing.T) {
	f := newFixture(t)
	owner := admin("owner@example.com")
	court := f.seedVenue(t, entity.VenueTennis, owner.Email, 30)
	for _, slot := range entity.HourlySlots(6, 11) {
		f.seedBooking(t, court, "2024-06-01", slot, entity.BookingStatusConfirmed)
	}

	got, err := f.svc.Booking.ListBookings(context.Background(), owner, &request.ListBookingsRequest{
		PaginatedRequest: request.PaginatedRequest{Page: 2, PerPage: 2},
	})
	require.NoError(t, err)
	assert.Len(t, got.Data, 2)
	assert.Equal(t, int64(5), got.Pagination.Total)
	assert.Equal(t, 3, got.Pagination.TotalPages)
	assert.Equal(t, 2, got.Pagination.Page)
}

func TestGetCancelAndReceipt(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := admin("owner@example.com")
	pool := f.seedVenue(t, entity.VenuePool, owner.Email, 20)
	b := f.seedBooking(t, pool, "2024-06-01", "09:00 AM", entity.BookingStatusConfirmed)

	_, err := f.svc.Booking.GetBooking(ctx, admin("other@example.com"), b.ID.String())
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = f.svc.Booking.GetBooking(ctx, owner, "missing")
	assert.ErrorIs(t, err, ErrBookingNotFound)

	got, err := f.svc.Booking.GetBooking(ctx, owner, b.ID.String())
	require.NoError(t, err)
	assert.Equal(t, pool.Name, got.VenueName)

	pdf, err := f.svc.Booking.Receipt(ctx, owner, b.ID.String())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF")))

	cancelled, err := f.svc.Booking.CancelBooking(ctx, owner, b.ID.String())
	require.NoError(t, err)
	assert.Equal(t, entity.BookingStatusCancelled, cancelled.Status)

	_, err = f.svc.Booking.CancelBooking(ctx, superadmin(), b.ID.String())
	assert.ErrorIs(t, err, ErrAlreadyCancelled)

	avail, err := f.svc.Availability.GetAvailability(ctx, entity.VenuePool, pool.ID.String(), "2024-06-01")
	require.NoError(t, err)
	assert.Contains(t, avail.AvailableSlots, "09:00 AM")
}
