package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"SkillSwapwebserver/internal/domain"

	"github.com/google/uuid"
)

// RatingsStore persists ratings. Insert must reject a second rating for the
// same (SwapRequestID, FromUser) pair with domain.ErrAlreadyRated, including
// under concurrent inserts.
type RatingsStore interface {
	Insert(ctx context.Context, r domain.Rating) error
	ListForSwap(ctx context.Context, swapRequestID string) ([]domain.Rating, error)
}

// ReputationStore exposes the versioned rating accumulators on a user.
// CompareAndSwap follows the same contract as the swaps store.
type ReputationStore interface {
	GetReputation(ctx context.Context, userID string) (domain.Reputation, error)
	CompareAndSwapReputation(ctx context.Context, expectedVersion int64, rep domain.Reputation) error
}

type SwapGetter interface {
	Get(ctx context.Context, id string) (domain.SwapRequest, error)
}

type RatingsService struct {
	Swaps      SwapGetter
	Ratings    RatingsStore
	Reputation ReputationStore
	Now        func() time.Time
}

func (s *RatingsService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Submit records actor's rating of the other participant on a completed swap
// and folds it into the ratee's reputation. The rating row is inserted first;
// if the reputation fold then loses every compare-and-swap attempt the caller
// sees ErrBusy, and a resubmit trips the duplicate check instead of counting
// the rating twice.
func (s *RatingsService) Submit(ctx context.Context, actor domain.Actor, requestID string, value int, feedback string) (domain.Rating, error) {
	req, err := s.Swaps.Get(ctx, requestID)
	if err != nil {
		return domain.Rating{}, err
	}

	ratee, ok := req.OtherParticipant(actor.ID)
	if !ok {
		return domain.Rating{}, domain.ErrForbidden
	}
	if req.Status != domain.SwapStatusCompleted {
		return domain.Rating{}, domain.ErrInvalidState
	}
	if !domain.ValidRatingValue(value) {
		return domain.Rating{}, domain.NewValidationError(map[string]string{"value": "must be between 1 and 5"})
	}

	rating := domain.Rating{
		ID:            uuid.NewString(),
		SwapRequestID: req.ID,
		FromUser:      actor.ID,
		ToUser:        ratee,
		Value:         value,
		Feedback:      strings.TrimSpace(feedback),
		CreatedAt:     s.now(),
	}

	if err := s.Ratings.Insert(ctx, rating); err != nil {
		return domain.Rating{}, err
	}

	if err := s.fold(ctx, ratee, value); err != nil {
		return domain.Rating{}, err
	}
	return rating, nil
}

// fold adds value into the ratee's accumulators, retrying lost
// compare-and-swaps so concurrent raters never drop an increment.
func (s *RatingsService) fold(ctx context.Context, ratee string, value int) error {
	for attempt := 0; attempt < casAttempts; attempt++ {
		rep, err := s.Reputation.GetReputation(ctx, ratee)
		if err != nil {
			return err
		}

		next := rep
		next.Sum += int64(value)
		next.Count++
		next.Version = rep.Version + 1

		err = s.Reputation.CompareAndSwapReputation(ctx, rep.Version, next)
		if err == nil {
			return nil
		}
		if !errors.Is(err, domain.ErrVersionConflict) {
			return err
		}
	}
	return domain.ErrBusy
}

// GetReputation returns the aggregate a profile or discovery card shows.
func (s *RatingsService) GetReputation(ctx context.Context, userID string) (domain.Reputation, error) {
	return s.Reputation.GetReputation(ctx, userID)
}

// ListForSwap returns the ratings already recorded on a request, restricted
// to its participants (and admins).
func (s *RatingsService) ListForSwap(ctx context.Context, actor domain.Actor, requestID string) ([]domain.Rating, error) {
	req, err := s.Swaps.Get(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if !req.Involves(actor.ID) && !actor.Admin {
		return nil, domain.ErrForbidden
	}
	return s.Ratings.ListForSwap(ctx, requestID)
}
