package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"SkillSwapwebserver/internal/domain"
	"SkillSwapwebserver/internal/service"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UsersStore struct {
	pool *pgxpool.Pool
}

func NewUsersStore(pool *pgxpool.Pool) *UsersStore {
	return &UsersStore{pool: pool}
}

const userColumns = `
	id, email, username, name, location, availability, is_public,
	skills_offered, skills_wanted, status, rating_sum, rating_count,
	created_at, updated_at, last_login_at
`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (domain.User, error) {
	var (
		u            domain.User
		idUUID       pgtype.UUID
		emailText    pgtype.Text
		nameText     pgtype.Text
		locationText pgtype.Text
		availText    pgtype.Text
		offered      pgtype.FlatArray[string]
		wanted       pgtype.FlatArray[string]
		lastLoginTS  pgtype.Timestamptz
	)
	err := row.Scan(
		&idUUID,
		&emailText,
		&u.Username,
		&nameText,
		&locationText,
		&availText,
		&u.Public,
		&offered,
		&wanted,
		&u.Status,
		&u.RatingSum,
		&u.RatingCount,
		&u.CreatedAt,
		&u.UpdatedAt,
		&lastLoginTS,
	)
	if err != nil {
		return domain.User{}, err
	}

	u.ID = uuidOrEmpty(idUUID)
	u.Email = textOrEmpty(emailText)
	u.Name = textOrEmpty(nameText)
	u.Location = textOrEmpty(locationText)
	u.Availability = textOrEmpty(availText)
	u.SkillsOffered = textArrayOrEmpty(offered)
	u.SkillsWanted = textArrayOrEmpty(wanted)
	u.LastLoginAt = timestamptzPtr(lastLoginTS)
	return u, nil
}

func (s *UsersStore) CreateUser(ctx context.Context, email, username, passwordHash string) (domain.User, error) {
	const q = `
		INSERT INTO users (email, username, password_hash)
		VALUES ($1, $2, $3)
		RETURNING ` + userColumns

	u, err := scanUser(s.pool.QueryRow(ctx, q, nullIfEmpty(email), username, passwordHash))
	if err != nil {
		return domain.User{}, mapUserWriteError(err)
	}
	return u, nil
}

func (s *UsersStore) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	u, err := scanUser(s.pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, domain.ErrNotFound
		}
		return domain.User{}, fmt.Errorf("get user by id: %w", err)
	}
	return u, nil
}

func (s *UsersStore) GetUserByLogin(ctx context.Context, login string) (domain.UserWithPassword, error) {
	const q = `
		SELECT ` + userColumns + `, password_hash
		FROM users
		WHERE lower(username) = lower($1) OR (email IS NOT NULL AND lower(email) = lower($1))
		ORDER BY (lower(username) = lower($1)) DESC
		LIMIT 1
	`

	rows, err := s.pool.Query(ctx, q, login)
	if err != nil {
		return domain.UserWithPassword{}, fmt.Errorf("get user by login: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return domain.UserWithPassword{}, fmt.Errorf("get user by login: %w", err)
		}
		return domain.UserWithPassword{}, domain.ErrNotFound
	}

	var (
		u            domain.UserWithPassword
		idUUID       pgtype.UUID
		emailText    pgtype.Text
		nameText     pgtype.Text
		locationText pgtype.Text
		availText    pgtype.Text
		offered      pgtype.FlatArray[string]
		wanted       pgtype.FlatArray[string]
		lastLoginTS  pgtype.Timestamptz
	)
	err = rows.Scan(
		&idUUID,
		&emailText,
		&u.Username,
		&nameText,
		&locationText,
		&availText,
		&u.Public,
		&offered,
		&wanted,
		&u.Status,
		&u.RatingSum,
		&u.RatingCount,
		&u.CreatedAt,
		&u.UpdatedAt,
		&lastLoginTS,
		&u.PasswordHash,
	)
	if err != nil {
		return domain.UserWithPassword{}, fmt.Errorf("scan user by login: %w", err)
	}

	u.ID = uuidOrEmpty(idUUID)
	u.Email = textOrEmpty(emailText)
	u.Name = textOrEmpty(nameText)
	u.Location = textOrEmpty(locationText)
	u.Availability = textOrEmpty(availText)
	u.SkillsOffered = textArrayOrEmpty(offered)
	u.SkillsWanted = textArrayOrEmpty(wanted)
	u.LastLoginAt = timestamptzPtr(lastLoginTS)
	return u, nil
}

func (s *UsersStore) SetLastLogin(ctx context.Context, userID string, when time.Time) error {
	const q = `
		UPDATE users
		SET last_login_at = $2, updated_at = now()
		WHERE id = $1
	`
	_, err := s.pool.Exec(ctx, q, userID, when)
	if err != nil {
		return fmt.Errorf("set last login: %w", err)
	}
	return nil
}

func (s *UsersStore) UpdateProfile(ctx context.Context, userID string, p service.ProfileUpdate, when time.Time) (domain.User, error) {
	const q = `
		UPDATE users
		SET name = COALESCE($2, name),
		    location = COALESCE($3, location),
		    availability = COALESCE($4, availability),
		    is_public = COALESCE($5, is_public),
		    updated_at = $6
		WHERE id = $1
		RETURNING ` + userColumns

	u, err := scanUser(s.pool.QueryRow(ctx, q, userID, p.Name, p.Location, p.Availability, p.Public, when))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, domain.ErrNotFound
		}
		return domain.User{}, fmt.Errorf("update profile: %w", err)
	}
	return u, nil
}

func (s *UsersStore) SetSkills(ctx context.Context, userID string, offered, wanted []string, when time.Time) (domain.User, error) {
	const q = `
		UPDATE users
		SET skills_offered = $2, skills_wanted = $3, updated_at = $4
		WHERE id = $1
		RETURNING ` + userColumns

	u, err := scanUser(s.pool.QueryRow(ctx, q, userID, offered, wanted, when))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, domain.ErrNotFound
		}
		return domain.User{}, fmt.Errorf("set skills: %w", err)
	}
	return u, nil
}

func (s *UsersStore) Discover(ctx context.Context, viewerID, query string, limit int) ([]domain.User, error) {
	query = strings.TrimSpace(query)
	like := "%" + query + "%"

	const q = `
		SELECT ` + userColumns + `
		FROM users
		WHERE id <> $1
		  AND is_public
		  AND status = 'active'
		  AND ($2 = ''
		       OR name ILIKE $3
		       OR username ILIKE $3
		       OR EXISTS (SELECT 1 FROM unnest(skills_offered) sk WHERE sk ILIKE $3)
		       OR EXISTS (SELECT 1 FROM unnest(skills_wanted) sk WHERE sk ILIKE $3))
		ORDER BY username ASC
		LIMIT $4
	`

	rows, err := s.pool.Query(ctx, q, viewerID, query, like, limit)
	if err != nil {
		return nil, fmt.Errorf("discover users: %w", err)
	}
	defer rows.Close()

	var out []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan discovered user: %w", err)
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("discover users: %w", err)
	}
	return out, nil
}

func (s *UsersStore) GetReputation(ctx context.Context, userID string) (domain.Reputation, error) {
	const q = `
		SELECT rating_sum, rating_count, rating_version
		FROM users
		WHERE id = $1
	`

	rep := domain.Reputation{UserID: userID}
	err := s.pool.QueryRow(ctx, q, userID).Scan(&rep.Sum, &rep.Count, &rep.Version)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Reputation{}, domain.ErrNotFound
		}
		return domain.Reputation{}, fmt.Errorf("get reputation: %w", err)
	}
	return rep, nil
}

// CompareAndSwapReputation writes the aggregate only when the stored version
// still equals expectedVersion. A zero-row update on an existing user means a
// concurrent writer got there first.
func (s *UsersStore) CompareAndSwapReputation(ctx context.Context, expectedVersion int64, rep domain.Reputation) error {
	const q = `
		UPDATE users
		SET rating_sum = $2, rating_count = $3, rating_version = $4
		WHERE id = $1 AND rating_version = $5
	`

	ct, err := s.pool.Exec(ctx, q, rep.UserID, rep.Sum, rep.Count, rep.Version, expectedVersion)
	if err != nil {
		return fmt.Errorf("swap reputation: %w", err)
	}
	if ct.RowsAffected() == 0 {
		var exists bool
		if err := s.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, rep.UserID).Scan(&exists); err != nil {
			return fmt.Errorf("swap reputation: %w", err)
		}
		if !exists {
			return domain.ErrNotFound
		}
		return domain.ErrVersionConflict
	}
	return nil
}

func (s *UsersStore) ListUsers(ctx context.Context, limit, offset int) ([]domain.User, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	const q = `
		SELECT ` + userColumns + `
		FROM users
		ORDER BY created_at ASC
		LIMIT $1 OFFSET $2
	`

	rows, err := s.pool.Query(ctx, q, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var out []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return out, nil
}

func (s *UsersStore) CountUsers(ctx context.Context) (int, error) {
	var n int
	if err := s.pool.QueryRow(ctx, `SELECT count(*) FROM users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

func (s *UsersStore) SetUserStatus(ctx context.Context, userID string, status domain.UserStatus, when time.Time) error {
	const q = `
		UPDATE users
		SET status = $2, updated_at = $3
		WHERE id = $1
	`
	ct, err := s.pool.Exec(ctx, q, userID, string(status), when)
	if err != nil {
		return fmt.Errorf("set user status: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func mapUserWriteError(err error) error {
	var pgerr *pgconn.PgError
	if errors.As(err, &pgerr) && pgerr.Code == "23505" {
		switch pgerr.ConstraintName {
		case "users_username_uq":
			return domain.ErrUsernameTaken
		case "users_email_uq":
			return domain.ErrEmailTaken
		default:
			return fmt.Errorf("unique violation (%s): %w", pgerr.ConstraintName, err)
		}
	}
	return fmt.Errorf("create user: %w", err)
}
