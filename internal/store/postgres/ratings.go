package postgres

import (
	"context"
	"errors"
	"fmt"

	"SkillSwapwebserver/internal/domain"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

type RatingsStore struct {
	pool *pgxpool.Pool
}

func NewRatingsStore(pool *pgxpool.Pool) *RatingsStore {
	return &RatingsStore{pool: pool}
}

func (s *RatingsStore) Insert(ctx context.Context, r domain.Rating) error {
	const q = `
		INSERT INTO ratings (id, swap_request_id, from_user, to_user, value, feedback, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := s.pool.Exec(ctx, q, r.ID, r.SwapRequestID, r.FromUser, r.ToUser, r.Value, nullIfEmpty(r.Feedback), r.CreatedAt)
	if err != nil {
		var pgerr *pgconn.PgError
		if errors.As(err, &pgerr) && pgerr.Code == "23505" && pgerr.ConstraintName == "ratings_rater_uq" {
			return domain.ErrAlreadyRated
		}
		return fmt.Errorf("insert rating: %w", err)
	}
	return nil
}

func (s *RatingsStore) ListForSwap(ctx context.Context, swapRequestID string) ([]domain.Rating, error) {
	const q = `
		SELECT id, swap_request_id, from_user, to_user, value, feedback, created_at
		FROM ratings
		WHERE swap_request_id = $1
		ORDER BY created_at ASC
	`

	rows, err := s.pool.Query(ctx, q, swapRequestID)
	if err != nil {
		return nil, fmt.Errorf("list ratings: %w", err)
	}
	defer rows.Close()

	var out []domain.Rating
	for rows.Next() {
		var (
			r            domain.Rating
			idUUID       pgtype.UUID
			swapUUID     pgtype.UUID
			fromUUID     pgtype.UUID
			toUUID       pgtype.UUID
			feedbackText pgtype.Text
		)
		if err := rows.Scan(&idUUID, &swapUUID, &fromUUID, &toUUID, &r.Value, &feedbackText, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan rating: %w", err)
		}
		r.ID = uuidOrEmpty(idUUID)
		r.SwapRequestID = uuidOrEmpty(swapUUID)
		r.FromUser = uuidOrEmpty(fromUUID)
		r.ToUser = uuidOrEmpty(toUUID)
		r.Feedback = textOrEmpty(feedbackText)
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list ratings: %w", err)
	}
	return out, nil
}

func (s *RatingsStore) CountRatings(ctx context.Context) (int, error) {
	var n int
	if err := s.pool.QueryRow(ctx, `SELECT count(*) FROM ratings`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count ratings: %w", err)
	}
	return n, nil
}
