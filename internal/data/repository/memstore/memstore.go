// Package memstore keeps every repository in process memory. It backs the
// "memory" database driver and the service and handler tests.
package memstore

import (
	"sync"

	"venue-booking/internal/data/entity"
	"venue-booking/internal/data/repository"

	"github.com/google/uuid"
)

type store struct {
	mu       sync.RWMutex
	users    map[uuid.UUID]*entity.User
	sessions map[uuid.UUID]*entity.Session
	venues   map[uuid.UUID]*entity.Venue
	bookings map[uuid.UUID]*entity.Booking
}

// New returns a Repository whose four stores share one lock.
func New() *repository.Repository {
	s := &store{
		users:    make(map[uuid.UUID]*entity.User),
		sessions: make(map[uuid.UUID]*entity.Session),
		venues:   make(map[uuid.UUID]*entity.Venue),
		bookings: make(map[uuid.UUID]*entity.Booking),
	}

	return &repository.Repository{
		User:    &userStore{s},
		Session: &sessionStore{s},
		Venue:   &venueStore{s},
		Booking: &bookingStore{s},
	}
}

func cloneStrings(values []string) []string {
	if values == nil {
		return []string{}
	}
	out := make([]string, len(values))
	copy(out, values)
	return out
}

func containsID(ids []uuid.UUID, id uuid.UUID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
