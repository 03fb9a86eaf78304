package usecase

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"venue-booking/internal/data/entity"
	"venue-booking/internal/dto/request"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }
func strPtr(v string) *string     { return &v }

func TestBookingLinkPriceThenExpiry(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := admin("owner@example.com")
	pool := f.seedVenue(t, entity.VenuePool, owner.Email, 20)

	link, err := f.svc.Link.GenerateBookingLink(ctx, owner, entity.VenuePool, pool.ID.String(),
		&request.BookingLinkRequest{ExpiryHours: intPtr(1), Price: floatPtr(50)})
	require.NoError(t, err)
	assert.Len(t, link.Token, 64)
	assert.Equal(t, f.clock.Now().Add(time.Hour), *link.Expiry)
	assert.True(t, strings.HasPrefix(link.URL, "https://book.example.com/book/pools/"+pool.ID.String()+"?token="))

	validate := &request.ValidateLinkRequest{VenueID: pool.ID.String(), Token: link.Token}
	got, err := f.svc.Link.ValidateBookingLink(ctx, entity.VenuePool, validate)
	require.NoError(t, err)
	assert.Equal(t, 50.0, got.Price)
	assert.Nil(t, got.Venue.BookingLink, "public view must not leak tokens")

	f.clock.Advance(2 * time.Hour)
	_, err = f.svc.Link.ValidateBookingLink(ctx, entity.VenuePool, validate)
	assert.ErrorIs(t, err, ErrLinkExpired)
}

func TestBookingLinkWithoutPriceUsesVenuePrice(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := admin("owner@example.com")
	court := f.seedVenue(t, entity.VenuePickleball, owner.Email, 35)

	link, err := f.svc.Link.GenerateBookingLink(ctx, owner, entity.VenuePickleball, court.ID.String(), &request.BookingLinkRequest{})
	require.NoError(t, err)
	assert.Equal(t, f.clock.Now().Add(24*time.Hour), *link.Expiry)

	got, err := f.svc.Link.ValidateBookingLink(ctx, entity.VenuePickleball,
		&request.ValidateLinkRequest{VenueID: court.ID.String(), Token: link.Token})
	require.NoError(t, err)
	assert.Equal(t, 35.0, got.Price)
}

func TestRegeneratingShareLinkInvalidatesOldToken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := admin("owner@example.com")
	pool := f.seedVenue(t, entity.VenuePool, owner.Email, 20)

	first, err := f.svc.Link.GenerateShareLink(ctx, owner, entity.VenuePool, pool.ID.String(), &request.ShareLinkRequest{})
	require.NoError(t, err)
	assert.Equal(t, f.clock.Now().Add(7*24*time.Hour), *first.Expiry)

	second, err := f.svc.Link.GenerateShareLink(ctx, owner, entity.VenuePool, pool.ID.String(), &request.ShareLinkRequest{ExpiryDays: intPtr(3)})
	require.NoError(t, err)
	require.NotEqual(t, first.Token, second.Token)

	_, err = f.svc.Link.ValidateShareLink(ctx, entity.VenuePool, &request.ValidateLinkRequest{VenueID: pool.ID.String(), Token: first.Token})
	assert.ErrorIs(t, err, ErrLinkInvalid)

	got, err := f.svc.Link.ValidateShareLink(ctx, entity.VenuePool, &request.ValidateLinkRequest{VenueID: pool.ID.String(), Token: second.Token})
	require.NoError(t, err)
	assert.Equal(t, pool.ID.String(), got.Venue.ID)
	assert.Equal(t, *second.Expiry, got.Expiry)
}

func TestRegeneratingBookingLinkInvalidatesOldToken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := admin("owner@example.com")
	court := f.seedVenue(t, entity.VenueTennis, owner.Email, 40)

	first, err := f.svc.Link.GenerateBookingLink(ctx, owner, entity.VenueTennis, court.ID.String(), &request.BookingLinkRequest{})
	require.NoError(t, err)
	_, err = f.svc.Link.GenerateBookingLink(ctx, owner, entity.VenueTennis, court.ID.String(), &request.BookingLinkRequest{})
	require.NoError(t, err)

	_, err = f.svc.Link.ValidateBookingLink(ctx, entity.VenueTennis, &request.ValidateLinkRequest{VenueID: court.ID.String(), Token: first.Token})
	assert.ErrorIs(t, err, ErrLinkInvalid)
}

func TestExpiredShareLinkStaysActiveButFails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := admin("owner@example.com")
	pool := f.seedVenue(t, entity.VenuePool, owner.Email, 20)

	link, err := f.svc.Link.GenerateShareLink(ctx, owner, entity.VenuePool, pool.ID.String(), &request.ShareLinkRequest{ExpiryDays: intPtr(1)})
	require.NoError(t, err)

	f.clock.Advance(25 * time.Hour)
	_, err = f.svc.Link.ValidateShareLink(ctx, entity.VenuePool, &request.ValidateLinkRequest{VenueID: pool.ID.String(), Token: link.Token})
	assert.ErrorIs(t, err, ErrLinkExpired)

	stored, err := f.repo.Venue.FindByID(ctx, entity.VenuePool, pool.ID)
	require.NoError(t, err)
	assert.True(t, stored.ShareLink.Active)

	// a wrong token is invalid rather than expired
	_, err = f.svc.Link.ValidateShareLink(ctx, entity.VenuePool, &request.ValidateLinkRequest{VenueID: pool.ID.String(), Token: "nope"})
	assert.ErrorIs(t, err, ErrLinkInvalid)
}

func TestDeactivateClearsLinks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := admin("owner@example.com")
	pool := f.seedVenue(t, entity.VenuePool, owner.Email, 20)

	share, err := f.svc.Link.GenerateShareLink(ctx, owner, entity.VenuePool, pool.ID.String(), &request.ShareLinkRequest{})
	require.NoError(t, err)
	book, err := f.svc.Link.GenerateBookingLink(ctx, owner, entity.VenuePool, pool.ID.String(), &request.BookingLinkRequest{Price: floatPtr(0)})
	require.NoError(t, err)

	require.NoError(t, f.svc.Link.DeactivateShareLink(ctx, owner, entity.VenuePool, pool.ID.String()))
	require.NoError(t, f.svc.Link.DeactivateBookingLink(ctx, owner, entity.VenuePool, pool.ID.String()))

	stored, err := f.repo.Venue.FindByID(ctx, entity.VenuePool, pool.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.ShareLink{}, stored.ShareLink)
	assert.Equal(t, entity.BookingLink{}, stored.BookingLink)

	_, err = f.svc.Link.ValidateShareLink(ctx, entity.VenuePool, &request.ValidateLinkRequest{VenueID: pool.ID.String(), Token: share.Token})
	assert.ErrorIs(t, err, ErrLinkInvalid)
	_, err = f.svc.Link.ValidateBookingLink(ctx, entity.VenuePool, &request.ValidateLinkRequest{VenueID: pool.ID.String(), Token: book.Token})
	assert.ErrorIs(t, err, ErrLinkInvalid)
}

func TestLinkOwnershipAndInput(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	pool := f.seedVenue(t, entity.VenuePool, "owner@example.com", 20)
	id := pool.ID.String()

	_, err := f.svc.Link.GenerateShareLink(ctx, admin("other@example.com"), entity.VenuePool, id, &request.ShareLinkRequest{})
	assert.ErrorIs(t, err, ErrForbidden)

	// owner match ignores case
	_, err = f.svc.Link.GenerateShareLink(ctx, admin("OWNER@example.com"), entity.VenuePool, id, &request.ShareLinkRequest{})
	assert.NoError(t, err)

	_, err = f.svc.Link.GenerateBookingLink(ctx, superadmin(), entity.VenuePool, id, &request.BookingLinkRequest{})
	assert.NoError(t, err)

	var verr *ValidationError
	_, err = f.svc.Link.GenerateShareLink(ctx, superadmin(), entity.VenuePool, id, &request.ShareLinkRequest{ExpiryDays: intPtr(400)})
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "expiryDays")

	_, err = f.svc.Link.GenerateBookingLink(ctx, superadmin(), entity.VenuePool, id, &request.BookingLinkRequest{Price: floatPtr(-1)})
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "price")

	_, err = f.svc.Link.ValidateShareLink(ctx, entity.VenuePool, &request.ValidateLinkRequest{VenueID: "not-a-uuid", Token: "x"})
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "venueId")
}

func TestShareLinkQR(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := admin("owner@example.com")
	pool := f.seedVenue(t, entity.VenuePool, owner.Email, 20)

	_, err := f.svc.Link.ShareLinkQR(ctx, owner, entity.VenuePool, pool.ID.String(), 256)
	assert.ErrorIs(t, err, ErrLinkInvalid)

	_, err = f.svc.Link.GenerateShareLink(ctx, owner, entity.VenuePool, pool.ID.String(), &request.ShareLinkRequest{})
	require.NoError(t, err)

	png, err := f.svc.Link.ShareLinkQR(ctx, owner, entity.VenuePool, pool.ID.String(), 0)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")))
}
