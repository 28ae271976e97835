package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"SkillSwapwebserver/internal/domain"
	"SkillSwapwebserver/internal/service"
)

func TestCreateUserUniqueness(t *testing.T) {
	db := NewDB()
	users := NewUsersStore(db)
	ctx := context.Background()

	if _, err := users.CreateUser(ctx, "alice@example.com", "alice", "hash"); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := users.CreateUser(ctx, "other@example.com", "ALICE", "hash"); !errors.Is(err, domain.ErrUsernameTaken) {
		t.Fatalf("username: got %v, want ErrUsernameTaken", err)
	}
	if _, err := users.CreateUser(ctx, "Alice@Example.com", "bob", "hash"); !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("email: got %v, want ErrEmailTaken", err)
	}
}

func TestGetUserByLogin(t *testing.T) {
	db := NewDB()
	users := NewUsersStore(db)
	ctx := context.Background()

	created, err := users.CreateUser(ctx, "alice@example.com", "alice", "hash")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	byName, err := users.GetUserByLogin(ctx, "Alice")
	if err != nil || byName.ID != created.ID {
		t.Fatalf("by username: %v %+v", err, byName)
	}
	byEmail, err := users.GetUserByLogin(ctx, "ALICE@example.com")
	if err != nil || byEmail.ID != created.ID || byEmail.PasswordHash != "hash" {
		t.Fatalf("by email: %v %+v", err, byEmail)
	}
	if _, err := users.GetUserByLogin(ctx, "nobody"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("unknown: got %v, want ErrNotFound", err)
	}
}

func TestUpdateProfileAndSkills(t *testing.T) {
	db := NewDB()
	users := NewUsersStore(db)
	ctx := context.Background()

	u, err := users.CreateUser(ctx, "alice@example.com", "alice", "hash")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	name := "Alice"
	public := false
	got, err := users.UpdateProfile(ctx, u.ID, service.ProfileUpdate{Name: &name, Public: &public}, time.Now())
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.Name != "Alice" || got.Public {
		t.Fatalf("unexpected user: %+v", got)
	}

	got, err = users.SetSkills(ctx, u.ID, []string{"Guitar"}, []string{"Spanish"}, time.Now())
	if err != nil {
		t.Fatalf("set skills: %v", err)
	}
	if len(got.SkillsOffered) != 1 || got.SkillsOffered[0] != "Guitar" {
		t.Fatalf("unexpected skills: %+v", got)
	}
}

func TestDiscoverFilters(t *testing.T) {
	db := NewDB()
	users := NewUsersStore(db)
	ctx := context.Background()

	viewer, _ := users.CreateUser(ctx, "viewer@example.com", "viewer", "h")
	guitar, _ := users.CreateUser(ctx, "g@example.com", "guitarist", "h")
	if _, err := users.SetSkills(ctx, guitar.ID, []string{"Guitar"}, nil, time.Now()); err != nil {
		t.Fatalf("set skills: %v", err)
	}
	hidden, _ := users.CreateUser(ctx, "h@example.com", "hidden", "h")
	public := false
	if _, err := users.UpdateProfile(ctx, hidden.ID, service.ProfileUpdate{Public: &public}, time.Now()); err != nil {
		t.Fatalf("hide: %v", err)
	}
	banned, _ := users.CreateUser(ctx, "b@example.com", "banned", "h")
	if err := users.SetUserStatus(ctx, banned.ID, domain.UserStatusBanned, time.Now()); err != nil {
		t.Fatalf("ban: %v", err)
	}

	got, err := users.Discover(ctx, viewer.ID, "", 50)
	if err != nil {
		t.Fatalf("discover: %v", err)
	}
	if len(got) != 1 || got[0].ID != guitar.ID {
		t.Fatalf("want only the public active profile, got %+v", got)
	}

	got, err = users.Discover(ctx, viewer.ID, "guit", 50)
	if err != nil || len(got) != 1 {
		t.Fatalf("skill query: %v %+v", err, got)
	}
	got, err = users.Discover(ctx, viewer.ID, "juggling", 50)
	if err != nil || len(got) != 0 {
		t.Fatalf("no-match query: %v %+v", err, got)
	}
}

func TestReputationCompareAndSwap(t *testing.T) {
	db := NewDB()
	users := NewUsersStore(db)
	ctx := context.Background()

	u, _ := users.CreateUser(ctx, "a@example.com", "alice", "h")

	rep, err := users.GetReputation(ctx, u.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if rep.Version != 1 || rep.Count != 0 {
		t.Fatalf("unexpected initial reputation: %+v", rep)
	}

	next := domain.Reputation{UserID: u.ID, Sum: 5, Count: 1, Version: 2}
	if err := users.CompareAndSwapReputation(ctx, 1, next); err != nil {
		t.Fatalf("cas: %v", err)
	}
	if err := users.CompareAndSwapReputation(ctx, 1, next); !errors.Is(err, domain.ErrVersionConflict) {
		t.Fatalf("stale cas: got %v, want ErrVersionConflict", err)
	}

	rep, _ = users.GetReputation(ctx, u.ID)
	if rep.Sum != 5 || rep.Count != 1 || rep.Version != 2 {
		t.Fatalf("unexpected reputation: %+v", rep)
	}
}

func TestSessionsLifecycle(t *testing.T) {
	db := NewDB()
	sessions := NewSessionsStore(db)
	ctx := context.Background()

	id, err := sessions.CreateSession(ctx, "user-1", time.Now().Add(time.Hour), "1.2.3.4", "ua")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if sess, err := sessions.GetSession(ctx, id); err != nil || sess.UserID != "user-1" {
		t.Fatalf("get: %v %+v", err, sess)
	}

	if err := sessions.RevokeSession(ctx, id, time.Now()); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if _, err := sessions.GetSession(ctx, id); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("revoked get: got %v, want ErrNotFound", err)
	}
	// Revoking again stays idempotent.
	if err := sessions.RevokeSession(ctx, id, time.Now()); err != nil {
		t.Fatalf("second revoke: %v", err)
	}

	expired, err := sessions.CreateSession(ctx, "user-1", time.Now().Add(-time.Minute), "", "")
	if err != nil {
		t.Fatalf("create expired: %v", err)
	}
	if _, err := sessions.GetSession(ctx, expired); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expired get: got %v, want ErrNotFound", err)
	}
}

func TestSwapsCompareAndSwap(t *testing.T) {
	db := NewDB()
	swaps := NewSwapsStore(db)
	ctx := context.Background()

	req := domain.SwapRequest{ID: "swap-1", FromUser: "a", ToUser: "b", Status: domain.SwapStatusPending, Version: 1}
	if err := swaps.Insert(ctx, req); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := swaps.Insert(ctx, req); !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("duplicate insert: got %v, want ErrAlreadyExists", err)
	}

	accepted := req
	accepted.Status = domain.SwapStatusAccepted
	accepted.Version = 2
	if err := swaps.CompareAndSwap(ctx, 1, accepted); err != nil {
		t.Fatalf("cas: %v", err)
	}
	if err := swaps.CompareAndSwap(ctx, 1, accepted); !errors.Is(err, domain.ErrVersionConflict) {
		t.Fatalf("stale cas: got %v, want ErrVersionConflict", err)
	}

	got, err := swaps.Get(ctx, "swap-1")
	if err != nil || got.Status != domain.SwapStatusAccepted || got.Version != 2 {
		t.Fatalf("get after cas: %v %+v", err, got)
	}
}

func TestSwapsListAndCounts(t *testing.T) {
	db := NewDB()
	swaps := NewSwapsStore(db)
	ctx := context.Background()

	base := time.Now()
	insert := func(id, from, to string, status domain.SwapStatus, age time.Duration) {
		t.Helper()
		err := swaps.Insert(ctx, domain.SwapRequest{
			ID: id, FromUser: from, ToUser: to,
			Status: status, Version: 1, CreatedAt: base.Add(-age),
		})
		if err != nil {
			t.Fatalf("insert %s: %v", id, err)
		}
	}
	insert("s1", "a", "b", domain.SwapStatusPending, 3*time.Hour)
	insert("s2", "b", "c", domain.SwapStatusCompleted, 2*time.Hour)
	insert("s3", "a", "c", domain.SwapStatusCancelled, time.Hour)

	forA, err := swaps.ListForUser(ctx, "a")
	if err != nil {
		t.Fatalf("list for user: %v", err)
	}
	if len(forA) != 2 || forA[0].ID != "s3" || forA[1].ID != "s1" {
		t.Fatalf("unexpected list: %+v", forA)
	}

	page, err := swaps.ListSwaps(ctx, 2, 1)
	if err != nil {
		t.Fatalf("list swaps: %v", err)
	}
	if len(page) != 2 || page[0].ID != "s2" || page[1].ID != "s1" {
		t.Fatalf("unexpected page: %+v", page)
	}

	counts, err := swaps.CountSwapsByStatus(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if len(counts) != len(domain.SwapStatuses) {
		t.Fatalf("counts missing statuses: %+v", counts)
	}
	if counts[domain.SwapStatusPending] != 1 || counts[domain.SwapStatusAccepted] != 0 || counts[domain.SwapStatusCompleted] != 1 {
		t.Fatalf("unexpected counts: %+v", counts)
	}

	if err := swaps.DeleteSwap(ctx, "s2"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := swaps.DeleteSwap(ctx, "s2"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("second delete: got %v, want ErrNotFound", err)
	}
}

func TestRatingsInsertDuplicate(t *testing.T) {
	db := NewDB()
	ratings := NewRatingsStore(db)
	ctx := context.Background()

	r := domain.Rating{ID: "r1", SwapRequestID: "swap-1", FromUser: "a", ToUser: "b", Value: 5, CreatedAt: time.Now()}
	if err := ratings.Insert(ctx, r); err != nil {
		t.Fatalf("insert: %v", err)
	}
	r.ID = "r2"
	if err := ratings.Insert(ctx, r); !errors.Is(err, domain.ErrAlreadyRated) {
		t.Fatalf("duplicate: got %v, want ErrAlreadyRated", err)
	}

	other := domain.Rating{ID: "r3", SwapRequestID: "swap-1", FromUser: "b", ToUser: "a", Value: 4, CreatedAt: time.Now().Add(time.Second)}
	if err := ratings.Insert(ctx, other); err != nil {
		t.Fatalf("counterpart insert: %v", err)
	}

	got, err := ratings.ListForSwap(ctx, "swap-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 || got[0].ID != "r1" || got[1].ID != "r3" {
		t.Fatalf("unexpected ratings: %+v", got)
	}

	n, err := ratings.CountRatings(ctx)
	if err != nil || n != 2 {
		t.Fatalf("count: %v %d", err, n)
	}
}
