package memory

import (
	"context"
	"time"

	"SkillSwapwebserver/internal/domain"

	"github.com/google/uuid"
)

type SessionsStore struct {
	db *DB
}

func NewSessionsStore(db *DB) *SessionsStore {
	return &SessionsStore{db: db}
}

func (s *SessionsStore) CreateSession(_ context.Context, userID string, expiresAt time.Time, _, _ string) (string, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	sess := domain.Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		CreatedAt: time.Now(),
		ExpiresAt: expiresAt,
	}
	s.db.sessions[sess.ID] = sess
	return sess.ID, nil
}

func (s *SessionsStore) GetSession(_ context.Context, sessionID string) (domain.Session, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	sess, ok := s.db.sessions[sessionID]
	if !ok || sess.RevokedAt != nil || !sess.ExpiresAt.After(time.Now()) {
		return domain.Session{}, domain.ErrNotFound
	}
	return sess, nil
}

func (s *SessionsStore) RevokeSession(_ context.Context, sessionID string, when time.Time) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	sess, ok := s.db.sessions[sessionID]
	if !ok || sess.RevokedAt != nil {
		return nil
	}
	sess.RevokedAt = &when
	s.db.sessions[sessionID] = sess
	return nil
}
