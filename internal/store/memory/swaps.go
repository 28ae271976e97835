package memory

import (
	"context"
	"sort"

	"SkillSwapwebserver/internal/domain"
)

type SwapsStore struct {
	db *DB
}

func NewSwapsStore(db *DB) *SwapsStore {
	return &SwapsStore{db: db}
}

func (s *SwapsStore) Insert(_ context.Context, req domain.SwapRequest) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, ok := s.db.swaps[req.ID]; ok {
		return domain.ErrAlreadyExists
	}
	s.db.swaps[req.ID] = copySwap(req)
	return nil
}

func (s *SwapsStore) Get(_ context.Context, id string) (domain.SwapRequest, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	req, ok := s.db.swaps[id]
	if !ok {
		return domain.SwapRequest{}, domain.ErrNotFound
	}
	return copySwap(req), nil
}

// CompareAndSwap replaces the stored request only when its version still
// equals expectedVersion. Exactly one of two racing writers can win.
func (s *SwapsStore) CompareAndSwap(_ context.Context, expectedVersion int64, req domain.SwapRequest) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	cur, ok := s.db.swaps[req.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if cur.Version != expectedVersion {
		return domain.ErrVersionConflict
	}
	s.db.swaps[req.ID] = copySwap(req)
	return nil
}

func (s *SwapsStore) ListForUser(_ context.Context, userID string) ([]domain.SwapRequest, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	var out []domain.SwapRequest
	for _, req := range s.db.swaps {
		if req.Involves(userID) {
			out = append(out, copySwap(req))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *SwapsStore) ListSwaps(_ context.Context, limit, offset int) ([]domain.SwapRequest, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	all := make([]domain.SwapRequest, 0, len(s.db.swaps))
	for _, req := range s.db.swaps {
		all = append(all, copySwap(req))
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

	if offset >= len(all) {
		return nil, nil
	}
	all = all[offset:]
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (s *SwapsStore) DeleteSwap(_ context.Context, id string) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, ok := s.db.swaps[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.db.swaps, id)
	return nil
}

func (s *SwapsStore) CountSwapsByStatus(_ context.Context) (map[domain.SwapStatus]int, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	counts := make(map[domain.SwapStatus]int, len(domain.SwapStatuses))
	for _, st := range domain.SwapStatuses {
		counts[st] = 0
	}
	for _, req := range s.db.swaps {
		counts[req.Status]++
	}
	return counts, nil
}
