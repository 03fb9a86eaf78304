package memstore

import (
	"context"
	"fmt"
	"sort"

	"venue-booking/internal/data/entity"
	"venue-booking/internal/data/repository"

	"github.com/google/uuid"
)

type userStore struct{ *store }

func (s *userStore) Create(_ context.Context, user *entity.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	email := entity.NewOwnerEmail(user.Email)
	for _, u := range s.users {
		if entity.NewOwnerEmail(u.Email) == email {
			return fmt.Errorf("create user %s: %w", user.Email, repository.ErrConflict)
		}
	}

	u := *user
	u.Email = email.String()
	s.users[user.ID] = &u
	return nil
}

func (s *userStore) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	c := *u
	return &c, nil
}

func (s *userStore) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	want := entity.NewOwnerEmail(email)
	for _, u := range s.users {
		if entity.NewOwnerEmail(u.Email) == want {
			c := *u
			return &c, nil
		}
	}
	return nil, nil
}

func (s *userStore) FindByRole(_ context.Context, role entity.UserRole) ([]*entity.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*entity.User
	for _, u := range s.users {
		if u.Role == role {
			c := *u
			out = append(out, &c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *userStore) Update(_ context.Context, user *entity.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.users[user.ID]
	if !ok {
		return fmt.Errorf("user %s: %w", user.ID.String(), repository.ErrNotFound)
	}
	u := *user
	u.Email = cur.Email
	u.CreatedAt = cur.CreatedAt
	s.users[user.ID] = &u
	return nil
}

func (s *userStore) DeleteByEmail(_ context.Context, email string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	want := entity.NewOwnerEmail(email)
	var n int64
	for id, u := range s.users {
		if entity.NewOwnerEmail(u.Email) != want {
			continue
		}
		delete(s.users, id)
		n++
		for sid, sess := range s.sessions {
			if sess.UserID == id {
				delete(s.sessions, sid)
			}
		}
	}
	return n, nil
}
