package service

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"SkillSwapwebserver/internal/domain"
)

type stubProfilesStore struct {
	t *testing.T

	getUserByIDFunc   func(context.Context, string) (domain.User, error)
	updateProfileFunc func(context.Context, string, ProfileUpdate, time.Time) (domain.User, error)
	setSkillsFunc     func(context.Context, string, []string, []string, time.Time) (domain.User, error)
	discoverFunc      func(context.Context, string, string, int) ([]domain.User, error)
}

func (s *stubProfilesStore) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	if s.getUserByIDFunc != nil {
		return s.getUserByIDFunc(ctx, id)
	}
	s.t.Fatalf("GetUserByID called unexpectedly")
	return domain.User{}, errors.New("unexpected call")
}

func (s *stubProfilesStore) UpdateProfile(ctx context.Context, userID string, p ProfileUpdate, when time.Time) (domain.User, error) {
	if s.updateProfileFunc != nil {
		return s.updateProfileFunc(ctx, userID, p, when)
	}
	s.t.Fatalf("UpdateProfile called unexpectedly")
	return domain.User{}, errors.New("unexpected call")
}

func (s *stubProfilesStore) SetSkills(ctx context.Context, userID string, offered, wanted []string, when time.Time) (domain.User, error) {
	if s.setSkillsFunc != nil {
		return s.setSkillsFunc(ctx, userID, offered, wanted, when)
	}
	s.t.Fatalf("SetSkills called unexpectedly")
	return domain.User{}, errors.New("unexpected call")
}

func (s *stubProfilesStore) Discover(ctx context.Context, viewerID, query string, limit int) ([]domain.User, error) {
	if s.discoverFunc != nil {
		return s.discoverFunc(ctx, viewerID, query, limit)
	}
	s.t.Fatalf("Discover called unexpectedly")
	return nil, errors.New("unexpected call")
}

func TestUpdateProfileTrimsFields(t *testing.T) {
	store := &stubProfilesStore{
		t: t,
		updateProfileFunc: func(_ context.Context, userID string, p ProfileUpdate, _ time.Time) (domain.User, error) {
			if userID != "user-1" {
				t.Fatalf("unexpected user id: %s", userID)
			}
			if p.Name == nil || *p.Name != "Alice" {
				t.Fatalf("name not trimmed: %v", p.Name)
			}
			if p.Location == nil || *p.Location != "Berlin" {
				t.Fatalf("location not trimmed: %v", p.Location)
			}
			return domain.User{ID: userID, Name: *p.Name}, nil
		},
	}

	svc := &UsersService{Profiles: store}
	name := "  Alice "
	loc := " Berlin  "
	u, err := svc.UpdateProfile(context.Background(), "user-1", ProfileUpdate{Name: &name, Location: &loc})
	if err != nil {
		t.Fatalf("update profile: %v", err)
	}
	if u.Name != "Alice" {
		t.Fatalf("unexpected user: %+v", u)
	}
}

func TestAddSkill(t *testing.T) {
	current := domain.User{
		ID:            "user-1",
		SkillsOffered: []string{"Guitar"},
		SkillsWanted:  []string{"Spanish"},
	}

	var gotOffered, gotWanted []string
	store := &stubProfilesStore{
		t: t,
		getUserByIDFunc: func(_ context.Context, _ string) (domain.User, error) {
			return current, nil
		},
		setSkillsFunc: func(_ context.Context, _ string, offered, wanted []string, _ time.Time) (domain.User, error) {
			gotOffered, gotWanted = offered, wanted
			u := current
			u.SkillsOffered = offered
			u.SkillsWanted = wanted
			return u, nil
		},
	}

	svc := &UsersService{Profiles: store}

	if _, err := svc.AddSkill(context.Background(), "user-1", domain.SkillOffered, " Cooking "); err != nil {
		t.Fatalf("add skill: %v", err)
	}
	if !reflect.DeepEqual(gotOffered, []string{"Guitar", "Cooking"}) {
		t.Fatalf("unexpected offered list: %v", gotOffered)
	}
	if !reflect.DeepEqual(gotWanted, []string{"Spanish"}) {
		t.Fatalf("wanted list changed: %v", gotWanted)
	}

	// Case-insensitive duplicate is a no-op: SetSkills is not called again.
	store.setSkillsFunc = func(_ context.Context, _ string, _, _ []string, _ time.Time) (domain.User, error) {
		t.Fatalf("SetSkills called for duplicate add")
		return domain.User{}, nil
	}
	u, err := svc.AddSkill(context.Background(), "user-1", domain.SkillOffered, "guitar")
	if err != nil {
		t.Fatalf("duplicate add: %v", err)
	}
	if !reflect.DeepEqual(u.SkillsOffered, []string{"Guitar"}) {
		t.Fatalf("unexpected user after no-op: %+v", u)
	}
}

func TestAddSkillValidation(t *testing.T) {
	svc := &UsersService{Profiles: &stubProfilesStore{t: t}}

	if _, err := svc.AddSkill(context.Background(), "user-1", domain.SkillOffered, "  "); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("blank skill: got %v, want validation error", err)
	}

	long := make([]byte, maxSkillLen+1)
	for i := range long {
		long[i] = 'x'
	}
	if _, err := svc.AddSkill(context.Background(), "user-1", domain.SkillWanted, string(long)); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("long skill: got %v, want validation error", err)
	}
}

func TestRemoveSkill(t *testing.T) {
	current := domain.User{
		ID:            "user-1",
		SkillsOffered: []string{"Guitar", "Cooking"},
	}

	var gotOffered []string
	store := &stubProfilesStore{
		t: t,
		getUserByIDFunc: func(_ context.Context, _ string) (domain.User, error) {
			return current, nil
		},
		setSkillsFunc: func(_ context.Context, _ string, offered, _ []string, _ time.Time) (domain.User, error) {
			gotOffered = offered
			u := current
			u.SkillsOffered = offered
			return u, nil
		},
	}

	svc := &UsersService{Profiles: store}

	if _, err := svc.RemoveSkill(context.Background(), "user-1", domain.SkillOffered, "guitar"); err != nil {
		t.Fatalf("remove skill: %v", err)
	}
	if !reflect.DeepEqual(gotOffered, []string{"Cooking"}) {
		t.Fatalf("unexpected offered list: %v", gotOffered)
	}

	// Removing an absent skill is a no-op.
	store.setSkillsFunc = func(_ context.Context, _ string, _, _ []string, _ time.Time) (domain.User, error) {
		t.Fatalf("SetSkills called for absent remove")
		return domain.User{}, nil
	}
	if _, err := svc.RemoveSkill(context.Background(), "user-1", domain.SkillOffered, "Juggling"); err != nil {
		t.Fatalf("absent remove: %v", err)
	}
}

func TestDiscoverClampsLimit(t *testing.T) {
	store := &stubProfilesStore{
		t: t,
		discoverFunc: func(_ context.Context, viewerID, query string, limit int) ([]domain.User, error) {
			if viewerID != "user-1" || query != "guitar" {
				t.Fatalf("unexpected args: %s %q", viewerID, query)
			}
			if limit != 50 {
				t.Fatalf("limit not clamped: %d", limit)
			}
			return nil, nil
		},
	}

	svc := &UsersService{Profiles: store}
	if _, err := svc.Discover(context.Background(), "user-1", " guitar ", 9000); err != nil {
		t.Fatalf("discover: %v", err)
	}
	if _, err := svc.Discover(context.Background(), "user-1", "guitar", -1); err != nil {
		t.Fatalf("discover: %v", err)
	}
}
