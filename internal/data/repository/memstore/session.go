package memstore

import (
	"context"
	"fmt"
	"time"

	"venue-booking/internal/data/entity"
	"venue-booking/internal/data/repository"

	"github.com/google/uuid"
)

type sessionStore struct{ *store }

func (s *sessionStore) Create(_ context.Context, session *entity.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[session.UserID]; !ok {
		return fmt.Errorf("create session for user %s: %w", session.UserID.String(), repository.ErrNotFound)
	}
	c := *session
	s.sessions[session.Token] = &c
	return nil
}

func (s *sessionStore) FindValidSession(_ context.Context, token string) (*entity.Session, error) {
	id, err := uuid.Parse(token)
	if err != nil {
		return nil, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok || sess.RevokedAt != nil || !sess.ExpiresAt.After(time.Now()) {
		return nil, nil
	}
	c := *sess
	return &c, nil
}

func (s *sessionStore) Revoke(_ context.Context, token string) error {
	id, err := uuid.Parse(token)
	if err != nil {
		return fmt.Errorf("session: %w", repository.ErrNotFound)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok || sess.RevokedAt != nil {
		return fmt.Errorf("session: %w", repository.ErrNotFound)
	}
	now := time.Now()
	sess.RevokedAt = &now
	return nil
}

func (s *sessionStore) RevokeAllUserSessions(_ context.Context, userID uuid.UUID, except string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for _, sess := range s.sessions {
		if sess.UserID == userID && sess.RevokedAt == nil && sess.Token.String() != except {
			sess.RevokedAt = &now
		}
	}
	return nil
}

func (s *sessionStore) CleanExpiredSessions(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().Add(-7 * 24 * time.Hour)
	for id, sess := range s.sessions {
		if sess.ExpiresAt.Before(cutoff) {
			delete(s.sessions, id)
		}
	}
	return nil
}
