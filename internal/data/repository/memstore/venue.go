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

type venueStore struct{ *store }

func copyVenue(v *entity.Venue) *entity.Venue {
	c := *v
	c.Amenities = cloneStrings(v.Amenities)
	c.Images = cloneStrings(v.Images)
	if v.ShareLink.Expiry != nil {
		t := *v.ShareLink.Expiry
		c.ShareLink.Expiry = &t
	}
	if v.BookingLink.Expiry != nil {
		t := *v.BookingLink.Expiry
		c.BookingLink.Expiry = &t
	}
	if v.BookingLink.Price != nil {
		p := *v.BookingLink.Price
		c.BookingLink.Price = &p
	}
	return &c
}

func sortVenues(venues []*entity.Venue) {
	sort.SliceStable(venues, func(i, j int) bool {
		return venues[i].CreatedAt.After(venues[j].CreatedAt)
	})
}

func (s *venueStore) Create(_ context.Context, venue *entity.Venue) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.venues[venue.ID]; ok {
		return fmt.Errorf("create %s venue %s: %w", venue.Type, venue.Name, repository.ErrConflict)
	}
	v := copyVenue(venue)
	v.Owner.Email = entity.NewOwnerEmail(v.Owner.Email.String())
	s.venues[venue.ID] = v
	return nil
}

func (s *venueStore) FindByID(_ context.Context, venueType entity.VenueType, id uuid.UUID) (*entity.Venue, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.venues[id]
	if !ok || v.Type != venueType {
		return nil, nil
	}
	return copyVenue(v), nil
}

func (s *venueStore) FindAll(_ context.Context, venueType entity.VenueType, filter entity.VenueFilter) ([]*entity.Venue, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*entity.Venue
	for _, v := range s.venues {
		if v.Type != venueType {
			continue
		}
		if !filter.OwnerEmail.IsZero() && !v.Owner.Email.Equal(filter.OwnerEmail) {
			continue
		}
		if filter.Status != "" && v.Status != filter.Status {
			continue
		}
		out = append(out, copyVenue(v))
	}
	sortVenues(out)
	return out, nil
}

func (s *venueStore) FindByOwnerEmail(_ context.Context, email entity.OwnerEmail) ([]*entity.Venue, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*entity.Venue
	for _, v := range s.venues {
		if v.Owner.Email.Equal(email) {
			out = append(out, copyVenue(v))
		}
	}
	sortVenues(out)
	return out, nil
}

func (s *venueStore) Update(_ context.Context, venue *entity.Venue) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.venues[venue.ID]
	if !ok || cur.Type != venue.Type {
		return fmt.Errorf("venue %s: %w", venue.ID.String(), repository.ErrNotFound)
	}

	// Owner email and links are not touched by a plain update.
	next := copyVenue(venue)
	next.Owner.Email = cur.Owner.Email
	next.ShareLink = cur.ShareLink
	next.BookingLink = cur.BookingLink
	next.CreatedAt = cur.CreatedAt
	s.venues[venue.ID] = next
	return nil
}

func (s *venueStore) SetShareLink(_ context.Context, venueType entity.VenueType, id uuid.UUID, link entity.ShareLink) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.venues[id]
	if !ok || v.Type != venueType {
		return fmt.Errorf("venue %s: %w", id.String(), repository.ErrNotFound)
	}
	v.ShareLink = link
	v.UpdatedAt = time.Now()
	return nil
}

func (s *venueStore) SetBookingLink(_ context.Context, venueType entity.VenueType, id uuid.UUID, link entity.BookingLink) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.venues[id]
	if !ok || v.Type != venueType {
		return fmt.Errorf("venue %s: %w", id.String(), repository.ErrNotFound)
	}
	v.BookingLink = link
	v.UpdatedAt = time.Now()
	return nil
}

func (s *venueStore) Delete(_ context.Context, venueType entity.VenueType, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.venues[id]
	if !ok || v.Type != venueType {
		return fmt.Errorf("venue %s: %w", id.String(), repository.ErrNotFound)
	}
	delete(s.venues, id)
	return nil
}

func (s *venueStore) DeleteByOwnerEmail(_ context.Context, email entity.OwnerEmail) (map[entity.VenueType]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	counts := make(map[entity.VenueType]int64)
	for id, v := range s.venues {
		if v.Owner.Email.Equal(email) {
			counts[v.Type]++
			delete(s.venues, id)
		}
	}
	return counts, nil
}
