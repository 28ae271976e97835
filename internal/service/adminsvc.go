package service

import (
	"context"
	"time"

	"SkillSwapwebserver/internal/domain"
)

type AdminUsersStore interface {
	ListUsers(ctx context.Context, limit, offset int) ([]domain.User, error)
	CountUsers(ctx context.Context) (int, error)
	SetUserStatus(ctx context.Context, userID string, status domain.UserStatus, when time.Time) error
}

type AdminSwapsStore interface {
	ListSwaps(ctx context.Context, limit, offset int) ([]domain.SwapRequest, error)
	DeleteSwap(ctx context.Context, id string) error
	CountSwapsByStatus(ctx context.Context) (map[domain.SwapStatus]int, error)
}

type RatingsCounter interface {
	CountRatings(ctx context.Context) (int, error)
}

type AdminService struct {
	Users   AdminUsersStore
	Swaps   AdminSwapsStore
	Ratings RatingsCounter
	Now     func() time.Time
}

type AdminStats struct {
	TotalUsers   int
	TotalRatings int
	SwapCounts   map[domain.SwapStatus]int
}

func (s *AdminService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *AdminService) ListUsers(ctx context.Context, limit, offset int) ([]domain.User, error) {
	return s.Users.ListUsers(ctx, limit, offset)
}

func (s *AdminService) SetUserBanned(ctx context.Context, userID string, banned bool) error {
	status := domain.UserStatusActive
	if banned {
		status = domain.UserStatusBanned
	}
	return s.Users.SetUserStatus(ctx, userID, status, s.now())
}

func (s *AdminService) ListSwaps(ctx context.Context, limit, offset int) ([]domain.SwapRequest, error) {
	return s.Swaps.ListSwaps(ctx, limit, offset)
}

// DeleteSwap removes a request outright. This is the administrative override
// from the moderation UI; ordinary users never delete requests.
func (s *AdminService) DeleteSwap(ctx context.Context, id string) error {
	return s.Swaps.DeleteSwap(ctx, id)
}

func (s *AdminService) Stats(ctx context.Context) (AdminStats, error) {
	users, err := s.Users.CountUsers(ctx)
	if err != nil {
		return AdminStats{}, err
	}
	ratings, err := s.Ratings.CountRatings(ctx)
	if err != nil {
		return AdminStats{}, err
	}
	swaps, err := s.Swaps.CountSwapsByStatus(ctx)
	if err != nil {
		return AdminStats{}, err
	}
	return AdminStats{TotalUsers: users, TotalRatings: ratings, SwapCounts: swaps}, nil
}
