package usecase

import (
	"context"
	"testing"

	"venue-booking/internal/data/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetAvailabilitySubtractsConfirmedBookings(t *testing.T) {
	f := newFixture(t)
	pool := f.seedVenue(t, entity.VenuePool, "owner@example.com", 20)
	f.seedBooking(t, pool, "2024-06-01", "09:00 AM", entity.BookingStatusConfirmed)

	got, err := f.svc.Availability.GetAvailability(context.Background(), entity.VenuePool, pool.ID.String(), "2024-06-01")
	require.NoError(t, err)

	assert.Equal(t, "2024-06-01", got.Date)
	assert.Equal(t, []string{"09:00 AM", "10:00 AM"}, got.AllSlots)
	assert.Equal(t, []string{"10:00 AM"}, got.AvailableSlots)
}

func TestGetAvailabilityIgnoresCancelledAndOtherDays(t *testing.T) {
	f := newFixture(t)
	pool := f.seedVenue(t, entity.VenuePool, "owner@example.com", 20)
	f.seedBooking(t, pool, "2024-06-01", "09:00 AM", entity.BookingStatusCancelled)
	f.seedBooking(t, pool, "2024-06-02", "10:00 AM", entity.BookingStatusConfirmed)

	got, err := f.svc.Availability.GetAvailability(context.Background(), entity.VenuePool, pool.ID.String(), "2024-06-01")
	require.NoError(t, err)
	assert.Equal(t, got.AllSlots, got.AvailableSlots)
}

func TestGetAvailabilityIsSubsetOfTemplate(t *testing.T) {
	f := newFixture(t)
	court := f.seedVenue(t, entity.VenueTennis, "owner@example.com", 30)
	booked := []string{"06:00 AM", "12:00 PM", "09:00 PM", "11:30 PM"}
	for _, slot := range booked {
		f.seedBooking(t, court, "2024-07-04", slot, entity.BookingStatusConfirmed)
	}

	got, err := f.svc.Availability.GetAvailability(context.Background(), entity.VenueTennis, court.ID.String(), "2024-07-04")
	require.NoError(t, err)

	assert.Len(t, got.AllSlots, 16)
	assert.Len(t, got.AvailableSlots, 13)
	assert.Subset(t, got.AllSlots, got.AvailableSlots)
	for _, slot := range booked {
		assert.NotContains(t, got.AvailableSlots, slot)
	}
}

func TestGetAvailabilityErrors(t *testing.T) {
	f := newFixture(t)
	pool := f.seedVenue(t, entity.VenuePool, "owner@example.com", 20)
	ctx := context.Background()

	_, err := f.svc.Availability.GetAvailability(ctx, entity.VenuePool, uuid.NewString(), "2024-06-01")
	assert.ErrorIs(t, err, ErrVenueNotFound)

	// a pool id asked for as a tennis court
	_, err = f.svc.Availability.GetAvailability(ctx, entity.VenueTennis, pool.ID.String(), "2024-06-01")
	assert.ErrorIs(t, err, ErrVenueNotFound)

	var verr *ValidationError
	_, err = f.svc.Availability.GetAvailability(ctx, entity.VenuePool, pool.ID.String(), "06/01/2024")
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "date")

	_, err = f.svc.Availability.GetAvailability(ctx, entity.VenuePool, pool.ID.String(), "")
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Missing required fields: date", verr.Message)
}
