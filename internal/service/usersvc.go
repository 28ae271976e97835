package service

import (
	"context"
	"strings"
	"time"

	"SkillSwapwebserver/internal/domain"
)

const maxSkillLen = 60

type ProfileUpdate struct {
	Name         *string
	Location     *string
	Availability *string
	Public       *bool
}

type ProfilesStore interface {
	GetUserByID(ctx context.Context, id string) (domain.User, error)
	UpdateProfile(ctx context.Context, userID string, p ProfileUpdate, when time.Time) (domain.User, error)
	SetSkills(ctx context.Context, userID string, offered, wanted []string, when time.Time) (domain.User, error)
	Discover(ctx context.Context, viewerID, query string, limit int) ([]domain.User, error)
}

type UsersService struct {
	Profiles ProfilesStore
	Now      func() time.Time
}

func (s *UsersService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *UsersService) UpdateProfile(ctx context.Context, userID string, p ProfileUpdate) (domain.User, error) {
	if p.Name != nil {
		trimmed := strings.TrimSpace(*p.Name)
		p.Name = &trimmed
	}
	if p.Location != nil {
		trimmed := strings.TrimSpace(*p.Location)
		p.Location = &trimmed
	}
	if p.Availability != nil {
		trimmed := strings.TrimSpace(*p.Availability)
		p.Availability = &trimmed
	}
	return s.Profiles.UpdateProfile(ctx, userID, p, s.now())
}

// AddSkill appends skill to one of the user's two advertised lists. Adding a
// skill that is already present (case-insensitively) is a no-op, matching
// set semantics.
func (s *UsersService) AddSkill(ctx context.Context, userID string, kind domain.SkillKind, skill string) (domain.User, error) {
	skill = strings.TrimSpace(skill)
	if skill == "" {
		return domain.User{}, domain.NewValidationError(map[string]string{"skill": "required"})
	}
	if len(skill) > maxSkillLen {
		return domain.User{}, domain.NewValidationError(map[string]string{"skill": "too long"})
	}

	u, err := s.Profiles.GetUserByID(ctx, userID)
	if err != nil {
		return domain.User{}, err
	}

	list := skillsFor(u, kind)
	for _, existing := range list {
		if strings.EqualFold(existing, skill) {
			return u, nil
		}
	}
	list = append(append([]string(nil), list...), skill)

	return s.setSkills(ctx, u, kind, list)
}

// RemoveSkill drops skill from the chosen list; removing an absent skill is
// a no-op.
func (s *UsersService) RemoveSkill(ctx context.Context, userID string, kind domain.SkillKind, skill string) (domain.User, error) {
	skill = strings.TrimSpace(skill)
	if skill == "" {
		return domain.User{}, domain.NewValidationError(map[string]string{"skill": "required"})
	}

	u, err := s.Profiles.GetUserByID(ctx, userID)
	if err != nil {
		return domain.User{}, err
	}

	list := skillsFor(u, kind)
	kept := make([]string, 0, len(list))
	for _, existing := range list {
		if strings.EqualFold(existing, skill) {
			continue
		}
		kept = append(kept, existing)
	}
	if len(kept) == len(list) {
		return u, nil
	}

	return s.setSkills(ctx, u, kind, kept)
}

// Discover lists public, active profiles other than the viewer's, optionally
// filtered by a free-text query over name, username, and skills.
func (s *UsersService) Discover(ctx context.Context, viewerID, query string, limit int) ([]domain.User, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.Profiles.Discover(ctx, viewerID, strings.TrimSpace(query), limit)
}

func (s *UsersService) setSkills(ctx context.Context, u domain.User, kind domain.SkillKind, list []string) (domain.User, error) {
	offered, wanted := u.SkillsOffered, u.SkillsWanted
	if kind == domain.SkillOffered {
		offered = list
	} else {
		wanted = list
	}
	return s.Profiles.SetSkills(ctx, u.ID, offered, wanted, s.now())
}

func skillsFor(u domain.User, kind domain.SkillKind) []string {
	if kind == domain.SkillOffered {
		return u.SkillsOffered
	}
	return u.SkillsWanted
}
