// Package memory is an in-process implementation of the same store contracts
// the postgres package provides. It backs running the server without a
// database and the concurrency tests: all access funnels through one mutex,
// so compare-and-swap is atomic the same way the Postgres conditional UPDATE
// is.
package memory

import (
	"sync"

	"SkillSwapwebserver/internal/domain"
)

type userRecord struct {
	domain.UserWithPassword
	ratingVersion int64
}

// DB holds all entities behind a single mutex. The per-entity store types
// share it, mirroring how the postgres stores share a pool.
type DB struct {
	mu       sync.Mutex
	users    map[string]*userRecord
	sessions map[string]domain.Session
	swaps    map[string]domain.SwapRequest
	ratings  map[string]domain.Rating // keyed swapRequestID + "\x00" + raterID
}

func NewDB() *DB {
	return &DB{
		users:    make(map[string]*userRecord),
		sessions: make(map[string]domain.Session),
		swaps:    make(map[string]domain.SwapRequest),
		ratings:  make(map[string]domain.Rating),
	}
}

func ratingKey(swapRequestID, raterID string) string {
	return swapRequestID + "\x00" + raterID
}

func copyUser(u domain.User) domain.User {
	u.SkillsOffered = append([]string(nil), u.SkillsOffered...)
	u.SkillsWanted = append([]string(nil), u.SkillsWanted...)
	return u
}

func copySwap(req domain.SwapRequest) domain.SwapRequest {
	req.SkillsOffered = append([]string(nil), req.SkillsOffered...)
	req.SkillsRequested = append([]string(nil), req.SkillsRequested...)
	return req
}
