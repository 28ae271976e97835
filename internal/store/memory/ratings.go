package memory

import (
	"context"
	"sort"

	"SkillSwapwebserver/internal/domain"
)

type RatingsStore struct {
	db *DB
}

func NewRatingsStore(db *DB) *RatingsStore {
	return &RatingsStore{db: db}
}

// Insert stores a rating, rejecting a second one from the same rater for the
// same request. Insert and the duplicate check happen under one lock, so
// concurrent duplicates cannot both land.
func (s *RatingsStore) Insert(_ context.Context, r domain.Rating) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	key := ratingKey(r.SwapRequestID, r.FromUser)
	if _, ok := s.db.ratings[key]; ok {
		return domain.ErrAlreadyRated
	}
	s.db.ratings[key] = r
	return nil
}

func (s *RatingsStore) ListForSwap(_ context.Context, swapRequestID string) ([]domain.Rating, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	var out []domain.Rating
	for _, r := range s.db.ratings {
		if r.SwapRequestID == swapRequestID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *RatingsStore) CountRatings(_ context.Context) (int, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	return len(s.db.ratings), nil
}
