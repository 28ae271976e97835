package postgres

import (
	"context"
	"errors"
	"fmt"

	"SkillSwapwebserver/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

type SwapsStore struct {
	pool *pgxpool.Pool
}

func NewSwapsStore(pool *pgxpool.Pool) *SwapsStore {
	return &SwapsStore{pool: pool}
}

const swapColumns = `
	id, from_user, to_user, message, skills_offered, skills_requested,
	status, version, created_at, updated_at
`

func scanSwap(row rowScanner) (domain.SwapRequest, error) {
	var (
		req       domain.SwapRequest
		idUUID    pgtype.UUID
		fromUUID  pgtype.UUID
		toUUID    pgtype.UUID
		offered   pgtype.FlatArray[string]
		requested pgtype.FlatArray[string]
	)
	err := row.Scan(
		&idUUID,
		&fromUUID,
		&toUUID,
		&req.Message,
		&offered,
		&requested,
		&req.Status,
		&req.Version,
		&req.CreatedAt,
		&req.UpdatedAt,
	)
	if err != nil {
		return domain.SwapRequest{}, err
	}

	req.ID = uuidOrEmpty(idUUID)
	req.FromUser = uuidOrEmpty(fromUUID)
	req.ToUser = uuidOrEmpty(toUUID)
	req.SkillsOffered = textArrayOrEmpty(offered)
	req.SkillsRequested = textArrayOrEmpty(requested)
	return req, nil
}

func (s *SwapsStore) Insert(ctx context.Context, req domain.SwapRequest) error {
	const q = `
		INSERT INTO swap_requests (id, from_user, to_user, message, skills_offered, skills_requested, status, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := s.pool.Exec(ctx, q,
		req.ID, req.FromUser, req.ToUser, req.Message,
		req.SkillsOffered, req.SkillsRequested,
		string(req.Status), req.Version, req.CreatedAt, req.UpdatedAt,
	)
	if err != nil {
		var pgerr *pgconn.PgError
		if errors.As(err, &pgerr) && pgerr.Code == "23505" {
			return domain.ErrAlreadyExists
		}
		return fmt.Errorf("insert swap request: %w", err)
	}
	return nil
}

func (s *SwapsStore) Get(ctx context.Context, id string) (domain.SwapRequest, error) {
	const q = `SELECT ` + swapColumns + ` FROM swap_requests WHERE id = $1`

	req, err := scanSwap(s.pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.SwapRequest{}, domain.ErrNotFound
		}
		return domain.SwapRequest{}, fmt.Errorf("get swap request: %w", err)
	}
	return req, nil
}

// CompareAndSwap applies the new row only when the stored version still
// equals expectedVersion. Of two racing transitions exactly one sees a row
// affected; the other gets ErrVersionConflict and re-reads.
func (s *SwapsStore) CompareAndSwap(ctx context.Context, expectedVersion int64, req domain.SwapRequest) error {
	const q = `
		UPDATE swap_requests
		SET status = $2, version = $3, updated_at = $4
		WHERE id = $1 AND version = $5
	`

	ct, err := s.pool.Exec(ctx, q, req.ID, string(req.Status), req.Version, req.UpdatedAt, expectedVersion)
	if err != nil {
		return fmt.Errorf("swap request transition: %w", err)
	}
	if ct.RowsAffected() == 0 {
		var exists bool
		if err := s.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM swap_requests WHERE id = $1)`, req.ID).Scan(&exists); err != nil {
			return fmt.Errorf("swap request transition: %w", err)
		}
		if !exists {
			return domain.ErrNotFound
		}
		return domain.ErrVersionConflict
	}
	return nil
}

func (s *SwapsStore) ListForUser(ctx context.Context, userID string) ([]domain.SwapRequest, error) {
	const q = `
		SELECT ` + swapColumns + `
		FROM swap_requests
		WHERE from_user = $1 OR to_user = $1
		ORDER BY created_at DESC
	`

	rows, err := s.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, fmt.Errorf("list swap requests: %w", err)
	}
	defer rows.Close()

	var out []domain.SwapRequest
	for rows.Next() {
		req, err := scanSwap(rows)
		if err != nil {
			return nil, fmt.Errorf("scan swap request: %w", err)
		}
		out = append(out, req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list swap requests: %w", err)
	}
	return out, nil
}

func (s *SwapsStore) ListSwaps(ctx context.Context, limit, offset int) ([]domain.SwapRequest, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	const q = `
		SELECT ` + swapColumns + `
		FROM swap_requests
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := s.pool.Query(ctx, q, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list swap requests: %w", err)
	}
	defer rows.Close()

	var out []domain.SwapRequest
	for rows.Next() {
		req, err := scanSwap(rows)
		if err != nil {
			return nil, fmt.Errorf("scan swap request: %w", err)
		}
		out = append(out, req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list swap requests: %w", err)
	}
	return out, nil
}

func (s *SwapsStore) DeleteSwap(ctx context.Context, id string) error {
	ct, err := s.pool.Exec(ctx, `DELETE FROM swap_requests WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete swap request: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *SwapsStore) CountSwapsByStatus(ctx context.Context) (map[domain.SwapStatus]int, error) {
	const q = `
		SELECT status, count(*)
		FROM swap_requests
		GROUP BY status
	`

	rows, err := s.pool.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("count swap requests: %w", err)
	}
	defer rows.Close()

	counts := make(map[domain.SwapStatus]int, len(domain.SwapStatuses))
	for _, st := range domain.SwapStatuses {
		counts[st] = 0
	}
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scan swap count: %w", err)
		}
		counts[domain.SwapStatus(status)] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("count swap requests: %w", err)
	}
	return counts, nil
}
