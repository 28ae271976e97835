package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"SkillSwapwebserver/internal/domain"
	"SkillSwapwebserver/internal/service"

	"github.com/google/uuid"
)

type UsersStore struct {
	db *DB
}

func NewUsersStore(db *DB) *UsersStore {
	return &UsersStore{db: db}
}

func (s *UsersStore) CreateUser(_ context.Context, email, username, passwordHash string) (domain.User, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	for _, rec := range s.db.users {
		if strings.EqualFold(rec.Username, username) {
			return domain.User{}, domain.ErrUsernameTaken
		}
		if email != "" && rec.Email != "" && strings.EqualFold(rec.Email, email) {
			return domain.User{}, domain.ErrEmailTaken
		}
	}

	now := time.Now()
	u := domain.User{
		ID:        uuid.NewString(),
		Email:     email,
		Username:  username,
		Public:    true,
		Status:    domain.UserStatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.db.users[u.ID] = &userRecord{
		UserWithPassword: domain.UserWithPassword{User: u, PasswordHash: passwordHash},
		ratingVersion:    1,
	}
	return copyUser(u), nil
}

func (s *UsersStore) GetUserByID(_ context.Context, id string) (domain.User, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	rec, ok := s.db.users[id]
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}
	return copyUser(rec.User), nil
}

func (s *UsersStore) GetUserByLogin(_ context.Context, login string) (domain.UserWithPassword, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	for _, rec := range s.db.users {
		if strings.EqualFold(rec.Username, login) || (rec.Email != "" && strings.EqualFold(rec.Email, login)) {
			out := rec.UserWithPassword
			out.User = copyUser(rec.User)
			return out, nil
		}
	}
	return domain.UserWithPassword{}, domain.ErrNotFound
}

func (s *UsersStore) SetLastLogin(_ context.Context, userID string, when time.Time) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	rec, ok := s.db.users[userID]
	if !ok {
		return domain.ErrNotFound
	}
	rec.LastLoginAt = &when
	return nil
}

func (s *UsersStore) UpdateProfile(_ context.Context, userID string, p service.ProfileUpdate, when time.Time) (domain.User, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	rec, ok := s.db.users[userID]
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}
	if p.Name != nil {
		rec.Name = *p.Name
	}
	if p.Location != nil {
		rec.Location = *p.Location
	}
	if p.Availability != nil {
		rec.Availability = *p.Availability
	}
	if p.Public != nil {
		rec.Public = *p.Public
	}
	rec.UpdatedAt = when
	return copyUser(rec.User), nil
}

func (s *UsersStore) SetSkills(_ context.Context, userID string, offered, wanted []string, when time.Time) (domain.User, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	rec, ok := s.db.users[userID]
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}
	rec.SkillsOffered = append([]string(nil), offered...)
	rec.SkillsWanted = append([]string(nil), wanted...)
	rec.UpdatedAt = when
	return copyUser(rec.User), nil
}

func (s *UsersStore) Discover(_ context.Context, viewerID, query string, limit int) ([]domain.User, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	query = strings.ToLower(query)
	var out []domain.User
	for _, rec := range s.db.users {
		if rec.ID == viewerID || !rec.Public || rec.Status != domain.UserStatusActive {
			continue
		}
		if query != "" && !matchesQuery(rec.User, query) {
			continue
		}
		out = append(out, copyUser(rec.User))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func matchesQuery(u domain.User, query string) bool {
	if strings.Contains(strings.ToLower(u.Name), query) || strings.Contains(strings.ToLower(u.Username), query) {
		return true
	}
	for _, sk := range u.SkillsOffered {
		if strings.Contains(strings.ToLower(sk), query) {
			return true
		}
	}
	for _, sk := range u.SkillsWanted {
		if strings.Contains(strings.ToLower(sk), query) {
			return true
		}
	}
	return false
}

func (s *UsersStore) GetReputation(_ context.Context, userID string) (domain.Reputation, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	rec, ok := s.db.users[userID]
	if !ok {
		return domain.Reputation{}, domain.ErrNotFound
	}
	return domain.Reputation{
		UserID:  userID,
		Sum:     rec.RatingSum,
		Count:   rec.RatingCount,
		Version: rec.ratingVersion,
	}, nil
}

func (s *UsersStore) CompareAndSwapReputation(_ context.Context, expectedVersion int64, rep domain.Reputation) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	rec, ok := s.db.users[rep.UserID]
	if !ok {
		return domain.ErrNotFound
	}
	if rec.ratingVersion != expectedVersion {
		return domain.ErrVersionConflict
	}
	rec.RatingSum = rep.Sum
	rec.RatingCount = rep.Count
	rec.ratingVersion = rep.Version
	return nil
}

func (s *UsersStore) ListUsers(_ context.Context, limit, offset int) ([]domain.User, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	all := make([]domain.User, 0, len(s.db.users))
	for _, rec := range s.db.users {
		all = append(all, copyUser(rec.User))
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.Before(all[j].CreatedAt) })

	if offset >= len(all) {
		return nil, nil
	}
	all = all[offset:]
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (s *UsersStore) CountUsers(_ context.Context) (int, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	return len(s.db.users), nil
}

func (s *UsersStore) SetUserStatus(_ context.Context, userID string, status domain.UserStatus, when time.Time) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	rec, ok := s.db.users[userID]
	if !ok {
		return domain.ErrNotFound
	}
	rec.Status = status
	rec.UpdatedAt = when
	return nil
}
