package domain

import "time"

type SkillKind string

const (
	SkillOffered SkillKind = "offered"
	SkillWanted  SkillKind = "wanted"
)

type UserStatus string

const (
	UserStatusActive UserStatus = "active"
	UserStatusBanned UserStatus = "banned"
)

type User struct {
	ID            string
	Email         string
	Username      string
	Name          string
	Location      string
	Availability  string
	Public        bool
	SkillsOffered []string
	SkillsWanted  []string
	Status        UserStatus
	RatingSum     int64
	RatingCount   int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
	LastLoginAt   *time.Time
}

// AverageRating reports the user's aggregate rating. The second return is
// false when the user has not been rated yet.
func (u User) AverageRating() (float64, bool) {
	if u.RatingCount == 0 {
		return 0, false
	}
	return float64(u.RatingSum) / float64(u.RatingCount), true
}

type UserWithPassword struct {
	User
	PasswordHash string
}

type Session struct {
	ID        string
	UserID    string
	CreatedAt time.Time
	ExpiresAt time.Time
	RevokedAt *time.Time
}
