package memstore

import (
	"context"
	"fmt"
	"sort"
	"time"

	"venue-booking/internal/data/entity"
	"venue-booking/internal/data/repository"

	"github.com/google/uuid"
)

type bookingStore struct{ *store }

func sameDay(a, b time.Time) bool {
	return a.Format(entity.DateLayout) == b.Format(entity.DateLayout)
}

// slotTaken mirrors the partial unique index on confirmed (venue_id, date, time).
func (s *bookingStore) slotTaken(b *entity.Booking) bool {
	for _, other := range s.bookings {
		if other.ID == b.ID || other.Status != entity.BookingStatusConfirmed {
			continue
		}
		if other.VenueID == b.VenueID && other.Time == b.Time && sameDay(other.Date, b.Date) {
			return true
		}
	}
	return false
}

func matchBooking(b *entity.Booking, filter entity.BookingFilter) bool {
	if filter.VenueType != nil && b.VenueType != *filter.VenueType {
		return false
	}
	if filter.VenueIDs != nil && !containsID(filter.VenueIDs, b.VenueID) {
		return false
	}
	if filter.Status != "" && b.Status != filter.Status {
		return false
	}
	return true
}

func (s *bookingStore) Create(_ context.Context, booking *entity.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.bookings[booking.ID]; ok {
		return fmt.Errorf("create booking for venue %s: %w", booking.VenueID.String(), repository.ErrConflict)
	}
	if booking.Status == entity.BookingStatusConfirmed && s.slotTaken(booking) {
		return fmt.Errorf("create booking for venue %s: %w", booking.VenueID.String(), repository.ErrConflict)
	}

	b := *booking
	s.bookings[booking.ID] = &b
	return nil
}

func (s *bookingStore) FindByID(_ context.Context, id uuid.UUID) (*entity.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.bookings[id]
	if !ok {
		return nil, nil
	}
	c := *b
	return &c, nil
}

func (s *bookingStore) FindAll(_ context.Context, filter entity.BookingFilter) ([]*entity.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*entity.Booking
	for _, b := range s.bookings {
		if matchBooking(b, filter) {
			c := *b
			out = append(out, &c)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	if filter.Limit > 0 {
		if filter.Offset >= len(out) {
			return nil, nil
		}
		end := filter.Offset + filter.Limit
		if end > len(out) {
			end = len(out)
		}
		out = out[filter.Offset:end]
	}
	return out, nil
}

func (s *bookingStore) CountAll(_ context.Context, filter entity.BookingFilter) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	for _, b := range s.bookings {
		if matchBooking(b, filter) {
			n++
		}
	}
	return n, nil
}

func (s *bookingStore) UpdateStatus(_ context.Context, id uuid.UUID, status entity.BookingStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.bookings[id]
	if !ok {
		return fmt.Errorf("booking %s: %w", id.String(), repository.ErrNotFound)
	}

	next := *b
	next.Status = status
	if status == entity.BookingStatusConfirmed && s.slotTaken(&next) {
		return fmt.Errorf("update booking %s status to %s: %w", id.String(), string(status), repository.ErrConflict)
	}
	next.UpdatedAt = time.Now()
	s.bookings[id] = &next
	return nil
}

func (s *bookingStore) FindBookedTimes(_ context.Context, venueID uuid.UUID, date time.Time) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var times []string
	for _, b := range s.bookings {
		if b.VenueID == venueID && b.Status == entity.BookingStatusConfirmed && sameDay(b.Date, date) {
			times = append(times, b.Time)
		}
	}
	return times, nil
}

func (s *bookingStore) StatsByVenueIDs(_ context.Context, venueIDs []uuid.UUID) (map[uuid.UUID]entity.VenueStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := make(map[uuid.UUID]entity.VenueStats, len(venueIDs))
	for _, b := range s.bookings {
		if b.Status != entity.BookingStatusConfirmed || !containsID(venueIDs, b.VenueID) {
			continue
		}
		st := stats[b.VenueID]
		st.TotalBookings++
		st.TotalRevenue += b.TotalPrice
		stats[b.VenueID] = st
	}
	return stats, nil
}

func (s *bookingStore) DeleteByVenueIDs(_ context.Context, venueIDs []uuid.UUID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for id, b := range s.bookings {
		if containsID(venueIDs, b.VenueID) {
			delete(s.bookings, id)
			n++
		}
	}
	return n, nil
}
