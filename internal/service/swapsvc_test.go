package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"SkillSwapwebserver/internal/domain"
)

// fakeSwapsStore is a mutex-guarded map honoring the compare-and-swap
// contract, so transition races behave as they would against a real store.
type fakeSwapsStore struct {
	mu    sync.Mutex
	swaps map[string]domain.SwapRequest
}

func newFakeSwapsStore() *fakeSwapsStore {
	return &fakeSwapsStore{swaps: make(map[string]domain.SwapRequest)}
}

func (s *fakeSwapsStore) Insert(_ context.Context, req domain.SwapRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.swaps[req.ID]; ok {
		return domain.ErrAlreadyExists
	}
	s.swaps[req.ID] = req
	return nil
}

func (s *fakeSwapsStore) Get(_ context.Context, id string) (domain.SwapRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	req, ok := s.swaps[id]
	if !ok {
		return domain.SwapRequest{}, domain.ErrNotFound
	}
	return req, nil
}

func (s *fakeSwapsStore) CompareAndSwap(_ context.Context, expectedVersion int64, req domain.SwapRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.swaps[req.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if cur.Version != expectedVersion {
		return domain.ErrVersionConflict
	}
	s.swaps[req.ID] = req
	return nil
}

func (s *fakeSwapsStore) ListForUser(_ context.Context, userID string) ([]domain.SwapRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.SwapRequest
	for _, req := range s.swaps {
		if req.Involves(userID) {
			out = append(out, req)
		}
	}
	return out, nil
}

type stubUserFinder struct {
	t           *testing.T
	getUserFunc func(context.Context, string) (domain.User, error)
}

func (s *stubUserFinder) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	if s.getUserFunc != nil {
		return s.getUserFunc(ctx, id)
	}
	s.t.Fatalf("GetUserByID called unexpectedly")
	return domain.User{}, errors.New("unexpected call")
}

func activeUserFinder(t *testing.T) *stubUserFinder {
	return &stubUserFinder{
		t: t,
		getUserFunc: func(_ context.Context, id string) (domain.User, error) {
			return domain.User{ID: id, Status: domain.UserStatusActive}, nil
		},
	}
}

func TestSwapLifecycle(t *testing.T) {
	store := newFakeSwapsStore()
	svc := &SwapsService{Swaps: store, Users: activeUserFinder(t)}

	ctx := context.Background()
	created, err := svc.Create(ctx, "alice", CreateSwapParams{
		ToUser:        "bob",
		Message:       "guitar for spanish",
		SkillsOffered: []string{"guitar"},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Status != domain.SwapStatusPending || created.Version != 1 {
		t.Fatalf("unexpected created request: %+v", created)
	}

	accepted, err := svc.Apply(ctx, domain.Actor{ID: "bob"}, created.ID, domain.SwapActionAccept)
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	if accepted.Status != domain.SwapStatusAccepted || accepted.Version != 2 {
		t.Fatalf("unexpected accepted request: %+v", accepted)
	}

	if _, err := svc.Apply(ctx, domain.Actor{ID: "bob"}, created.ID, domain.SwapActionReject); !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("reject after accept: got %v, want ErrInvalidState", err)
	}

	completed, err := svc.Apply(ctx, domain.Actor{ID: "alice"}, created.ID, domain.SwapActionComplete)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if completed.Status != domain.SwapStatusCompleted || completed.Version != 3 {
		t.Fatalf("unexpected completed request: %+v", completed)
	}

	// Completed is terminal.
	if _, err := svc.Apply(ctx, domain.Actor{ID: "alice"}, created.ID, domain.SwapActionCancel); !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("cancel after complete: got %v, want ErrInvalidState", err)
	}
}

func TestSwapCreateValidation(t *testing.T) {
	store := newFakeSwapsStore()
	svc := &SwapsService{Swaps: store, Users: activeUserFinder(t)}

	_, err := svc.Create(context.Background(), "alice", CreateSwapParams{ToUser: "alice", Message: "hi"})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("self swap: got %v, want validation error", err)
	}

	_, err = svc.Create(context.Background(), "alice", CreateSwapParams{ToUser: "bob"})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("empty message: got %v, want validation error", err)
	}
}

func TestSwapCreateToBannedUser(t *testing.T) {
	store := newFakeSwapsStore()
	svc := &SwapsService{
		Swaps: store,
		Users: &stubUserFinder{
			t: t,
			getUserFunc: func(_ context.Context, id string) (domain.User, error) {
				return domain.User{ID: id, Status: domain.UserStatusBanned}, nil
			},
		},
	}

	_, err := svc.Create(context.Background(), "alice", CreateSwapParams{ToUser: "bob", Message: "hi"})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("got %v, want ErrForbidden", err)
	}
}

func TestSwapApplyWrongActor(t *testing.T) {
	store := newFakeSwapsStore()
	svc := &SwapsService{Swaps: store, Users: activeUserFinder(t)}

	ctx := context.Background()
	created, err := svc.Create(ctx, "alice", CreateSwapParams{ToUser: "bob", Message: "hi"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// The sender cannot accept their own request, and a stranger cannot
	// touch it at all.
	if _, err := svc.Apply(ctx, domain.Actor{ID: "alice"}, created.ID, domain.SwapActionAccept); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("sender accept: got %v, want ErrForbidden", err)
	}
	if _, err := svc.Apply(ctx, domain.Actor{ID: "mallory"}, created.ID, domain.SwapActionCancel); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("stranger cancel: got %v, want ErrForbidden", err)
	}

	// An admin may cancel on the sender's behalf.
	cancelled, err := svc.Apply(ctx, domain.Actor{ID: "root", Admin: true}, created.ID, domain.SwapActionCancel)
	if err != nil {
		t.Fatalf("admin cancel: %v", err)
	}
	if cancelled.Status != domain.SwapStatusCancelled {
		t.Fatalf("unexpected status: %s", cancelled.Status)
	}
}

func TestSwapConcurrentAcceptAndCancel(t *testing.T) {
	store := newFakeSwapsStore()
	svc := &SwapsService{Swaps: store, Users: activeUserFinder(t)}

	ctx := context.Background()
	created, err := svc.Create(ctx, "alice", CreateSwapParams{ToUser: "bob", Message: "hi"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	type result struct {
		req domain.SwapRequest
		err error
	}
	results := make(chan result, 2)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		req, err := svc.Apply(ctx, domain.Actor{ID: "bob"}, created.ID, domain.SwapActionAccept)
		results <- result{req, err}
	}()
	go func() {
		defer wg.Done()
		req, err := svc.Apply(ctx, domain.Actor{ID: "alice"}, created.ID, domain.SwapActionCancel)
		results <- result{req, err}
	}()
	wg.Wait()
	close(results)

	var wins int
	for res := range results {
		if res.err == nil {
			wins++
			continue
		}
		// The loser re-reads a terminal or accepted state and reports it.
		if !errors.Is(res.err, domain.ErrInvalidState) {
			t.Fatalf("loser error: %v", res.err)
		}
	}
	if wins != 1 {
		t.Fatalf("want exactly one winner, got %d", wins)
	}

	final, err := store.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if final.Status != domain.SwapStatusAccepted && final.Status != domain.SwapStatusCancelled {
		t.Fatalf("unexpected final status: %s", final.Status)
	}
	if final.Version != 2 {
		t.Fatalf("want version 2 after a single transition, got %d", final.Version)
	}
}

type contendedSwapsStore struct {
	fakeSwapsStore
	pending domain.SwapRequest
}

func (s *contendedSwapsStore) Get(_ context.Context, _ string) (domain.SwapRequest, error) {
	return s.pending, nil
}

func (s *contendedSwapsStore) CompareAndSwap(_ context.Context, _ int64, _ domain.SwapRequest) error {
	return domain.ErrVersionConflict
}

func TestSwapApplyBusyAfterRetries(t *testing.T) {
	store := &contendedSwapsStore{
		pending: domain.SwapRequest{
			ID:       "swap-1",
			FromUser: "alice",
			ToUser:   "bob",
			Status:   domain.SwapStatusPending,
			Version:  1,
		},
	}
	svc := &SwapsService{Swaps: store, Users: activeUserFinder(t)}

	_, err := svc.Apply(context.Background(), domain.Actor{ID: "bob"}, "swap-1", domain.SwapActionAccept)
	if !errors.Is(err, domain.ErrBusy) {
		t.Fatalf("got %v, want ErrBusy", err)
	}
}

func TestSwapGetRestrictedToParticipants(t *testing.T) {
	store := newFakeSwapsStore()
	svc := &SwapsService{Swaps: store, Users: activeUserFinder(t)}

	ctx := context.Background()
	created, err := svc.Create(ctx, "alice", CreateSwapParams{ToUser: "bob", Message: "hi"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.Get(ctx, domain.Actor{ID: "mallory"}, created.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("stranger get: got %v, want ErrForbidden", err)
	}
	if _, err := svc.Get(ctx, domain.Actor{ID: "root", Admin: true}, created.ID); err != nil {
		t.Fatalf("admin get: %v", err)
	}
	if _, err := svc.Get(ctx, domain.Actor{ID: "bob"}, created.ID); err != nil {
		t.Fatalf("participant get: %v", err)
	}
}

func TestSwapListCountsAllStatuses(t *testing.T) {
	store := newFakeSwapsStore()
	svc := &SwapsService{Swaps: store, Users: activeUserFinder(t), Now: func() time.Time { return time.Unix(1700000000, 0) }}

	ctx := context.Background()
	first, err := svc.Create(ctx, "alice", CreateSwapParams{ToUser: "bob", Message: "one"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Create(ctx, "alice", CreateSwapParams{ToUser: "carol", Message: "two"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Apply(ctx, domain.Actor{ID: "bob"}, first.ID, domain.SwapActionAccept); err != nil {
		t.Fatalf("accept: %v", err)
	}

	overview, err := svc.List(ctx, "alice")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(overview.Requests) != 2 {
		t.Fatalf("want 2 requests, got %d", len(overview.Requests))
	}
	if len(overview.Counts) != len(domain.SwapStatuses) {
		t.Fatalf("want a count for every status, got %v", overview.Counts)
	}
	if overview.Counts[domain.SwapStatusPending] != 1 || overview.Counts[domain.SwapStatusAccepted] != 1 {
		t.Fatalf("unexpected counts: %v", overview.Counts)
	}
	if overview.Counts[domain.SwapStatusRejected] != 0 {
		t.Fatalf("want zero rejected, got %d", overview.Counts[domain.SwapStatusRejected])
	}
}
