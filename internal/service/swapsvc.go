package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"SkillSwapwebserver/internal/domain"

	"github.com/google/uuid"
)

// casAttempts bounds the read-authorize-write loop. Exhausting it surfaces
// domain.ErrBusy and the caller may resubmit.
const casAttempts = 3

// SwapsStore is the keyed entity store for swap requests. CompareAndSwap is
// the only way an existing request is mutated: the write applies only if the
// stored version still equals expectedVersion, otherwise the store returns
// domain.ErrVersionConflict and nothing changes.
type SwapsStore interface {
	Insert(ctx context.Context, req domain.SwapRequest) error
	Get(ctx context.Context, id string) (domain.SwapRequest, error)
	CompareAndSwap(ctx context.Context, expectedVersion int64, req domain.SwapRequest) error
	ListForUser(ctx context.Context, userID string) ([]domain.SwapRequest, error)
}

type UserFinder interface {
	GetUserByID(ctx context.Context, id string) (domain.User, error)
}

type SwapsService struct {
	Swaps SwapsStore
	Users UserFinder
	Now   func() time.Time
}

type CreateSwapParams struct {
	ToUser          string
	Message         string
	SkillsOffered   []string
	SkillsRequested []string
}

// SwapsOverview is what the list endpoint returns: every request involving
// the user plus precomputed per-status counts, so no client re-derives them.
type SwapsOverview struct {
	Requests []domain.SwapRequest
	Counts   map[domain.SwapStatus]int
}

func (s *SwapsService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Create opens a new request from fromUser in state pending. The skill lists
// are stored as chosen; which skills a user may legitimately offer is a
// client concern.
func (s *SwapsService) Create(ctx context.Context, fromUser string, p CreateSwapParams) (domain.SwapRequest, error) {
	p.ToUser = strings.TrimSpace(p.ToUser)
	p.Message = strings.TrimSpace(p.Message)

	fields := map[string]string{}
	if p.ToUser == "" {
		fields["to_user"] = "required"
	} else if p.ToUser == fromUser {
		fields["to_user"] = "cannot swap with yourself"
	}
	if p.Message == "" {
		fields["message"] = "required"
	}
	if len(fields) > 0 {
		return domain.SwapRequest{}, domain.NewValidationError(fields)
	}

	target, err := s.Users.GetUserByID(ctx, p.ToUser)
	if err != nil {
		return domain.SwapRequest{}, err
	}
	if target.Status == domain.UserStatusBanned {
		return domain.SwapRequest{}, domain.ErrForbidden
	}

	now := s.now()
	req := domain.SwapRequest{
		ID:              uuid.NewString(),
		FromUser:        fromUser,
		ToUser:          target.ID,
		Message:         p.Message,
		SkillsOffered:   cleanSkillList(p.SkillsOffered),
		SkillsRequested: cleanSkillList(p.SkillsRequested),
		Status:          domain.SwapStatusPending,
		Version:         1,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.Swaps.Insert(ctx, req); err != nil {
		return domain.SwapRequest{}, err
	}
	return req, nil
}

// Apply runs one state-machine transition and returns the authoritative
// post-transition request. Each attempt re-reads the stored request and
// authorizes against that loaded state; a lost compare-and-swap means another
// writer got there first, so the whole attempt restarts.
func (s *SwapsService) Apply(ctx context.Context, actor domain.Actor, requestID string, action domain.SwapAction) (domain.SwapRequest, error) {
	for attempt := 0; attempt < casAttempts; attempt++ {
		req, err := s.Swaps.Get(ctx, requestID)
		if err != nil {
			return domain.SwapRequest{}, err
		}

		if err := domain.Authorize(actor, req, action); err != nil {
			return domain.SwapRequest{}, err
		}

		// Authorize already walked the table, but the engine re-checks so a
		// guard change can never smuggle in an unlisted transition.
		next, ok := domain.NextStatus(req.Status, action)
		if !ok {
			return domain.SwapRequest{}, domain.ErrInvalidState
		}

		updated := req
		updated.Status = next
		updated.Version = req.Version + 1
		updated.UpdatedAt = s.now()

		err = s.Swaps.CompareAndSwap(ctx, req.Version, updated)
		if err == nil {
			return updated, nil
		}
		if !errors.Is(err, domain.ErrVersionConflict) {
			return domain.SwapRequest{}, err
		}
	}
	return domain.SwapRequest{}, domain.ErrBusy
}

// Get returns a single request, restricted to its participants (and admins).
func (s *SwapsService) Get(ctx context.Context, actor domain.Actor, requestID string) (domain.SwapRequest, error) {
	req, err := s.Swaps.Get(ctx, requestID)
	if err != nil {
		return domain.SwapRequest{}, err
	}
	if !req.Involves(actor.ID) && !actor.Admin {
		return domain.SwapRequest{}, domain.ErrForbidden
	}
	return req, nil
}

func (s *SwapsService) List(ctx context.Context, userID string) (SwapsOverview, error) {
	reqs, err := s.Swaps.ListForUser(ctx, userID)
	if err != nil {
		return SwapsOverview{}, err
	}

	counts := make(map[domain.SwapStatus]int, len(domain.SwapStatuses))
	for _, st := range domain.SwapStatuses {
		counts[st] = 0
	}
	for _, r := range reqs {
		counts[r.Status]++
	}
	return SwapsOverview{Requests: reqs, Counts: counts}, nil
}

func cleanSkillList(skills []string) []string {
	out := make([]string, 0, len(skills))
	for _, sk := range skills {
		sk = strings.TrimSpace(sk)
		if sk == "" {
			continue
		}
		out = append(out, sk)
	}
	return out
}
