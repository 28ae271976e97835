package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"SkillSwapwebserver/internal/domain"
	"SkillSwapwebserver/internal/service"
)

type ratingSummary struct {
	Average *float64 `json:"average"`
	Count   int64    `json:"count"`
}

type userResponse struct {
	ID            string        `json:"id"`
	Email         string        `json:"email,omitempty"`
	Username      string        `json:"username"`
	Name          string        `json:"name"`
	Location      string        `json:"location"`
	Availability  string        `json:"availability"`
	Public        bool          `json:"is_public"`
	SkillsOffered []string      `json:"skills_offered"`
	SkillsWanted  []string      `json:"skills_wanted"`
	Status        string        `json:"status"`
	Rating        ratingSummary `json:"rating"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

func toUserResponse(u domain.User) userResponse {
	resp := userResponse{
		ID:            u.ID,
		Email:         u.Email,
		Username:      u.Username,
		Name:          u.Name,
		Location:      u.Location,
		Availability:  u.Availability,
		Public:        u.Public,
		SkillsOffered: emptyIfNil(u.SkillsOffered),
		SkillsWanted:  emptyIfNil(u.SkillsWanted),
		Status:        string(u.Status),
		Rating:        ratingSummary{Count: u.RatingCount},
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
	if avg, ok := u.AverageRating(); ok {
		resp.Rating.Average = &avg
	}
	return resp
}

// publicUserResponse strips the email so discovery never leaks it.
func publicUserResponse(u domain.User) userResponse {
	resp := toUserResponse(u)
	resp.Email = ""
	return resp
}

func writeUser(w http.ResponseWriter, status int, u domain.User) {
	WriteJSON(w, status, toUserResponse(u))
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func (a *api) handleUsersMe(w http.ResponseWriter, r *http.Request) {
	u, ok := CurrentUser(r.Context())
	if !ok {
		WriteDomainError(w, domain.ErrUnauthorized)
		return
	}
	writeUser(w, http.StatusOK, u)
}

type updateProfileRequest struct {
	Name         *string `json:"name"`
	Location     *string `json:"location"`
	Availability *string `json:"availability"`
	Public       *bool   `json:"is_public"`
}

func (a *api) handleUsersMeUpdate(w http.ResponseWriter, r *http.Request) {
	u, ok := CurrentUser(r.Context())
	if !ok {
		WriteDomainError(w, domain.ErrUnauthorized)
		return
	}

	var req updateProfileRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "bad_json", "invalid json")
		return
	}
	if req.Name == nil && req.Location == nil && req.Availability == nil && req.Public == nil {
		WriteDomainError(w, domain.NewValidationError(map[string]string{"body": "no fields to update"}))
		return
	}

	updated, err := a.usersSvc.UpdateProfile(r.Context(), u.ID, service.ProfileUpdate{
		Name:         req.Name,
		Location:     req.Location,
		Availability: req.Availability,
		Public:       req.Public,
	})
	if err != nil {
		WriteDomainError(w, err)
		return
	}

	writeUser(w, http.StatusOK, updated)
}

type skillRequest struct {
	Kind  string `json:"kind"`
	Skill string `json:"skill"`
}

func skillKind(raw string) (domain.SkillKind, bool) {
	switch raw {
	case string(domain.SkillOffered):
		return domain.SkillOffered, true
	case string(domain.SkillWanted):
		return domain.SkillWanted, true
	}
	return "", false
}

func (a *api) handleSkillsAdd(w http.ResponseWriter, r *http.Request) {
	u, ok := CurrentUser(r.Context())
	if !ok {
		WriteDomainError(w, domain.ErrUnauthorized)
		return
	}

	var req skillRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "bad_json", "invalid json")
		return
	}
	kind, ok := skillKind(req.Kind)
	if !ok {
		WriteDomainError(w, domain.NewValidationError(map[string]string{"kind": "must be offered or wanted"}))
		return
	}

	updated, err := a.usersSvc.AddSkill(r.Context(), u.ID, kind, req.Skill)
	if err != nil {
		WriteDomainError(w, err)
		return
	}

	writeUser(w, http.StatusOK, updated)
}

func (a *api) handleSkillsRemove(w http.ResponseWriter, r *http.Request) {
	u, ok := CurrentUser(r.Context())
	if !ok {
		WriteDomainError(w, domain.ErrUnauthorized)
		return
	}

	kind, ok := skillKind(r.URL.Query().Get("kind"))
	if !ok {
		WriteDomainError(w, domain.NewValidationError(map[string]string{"kind": "must be offered or wanted"}))
		return
	}

	updated, err := a.usersSvc.RemoveSkill(r.Context(), u.ID, kind, r.URL.Query().Get("skill"))
	if err != nil {
		WriteDomainError(w, err)
		return
	}

	writeUser(w, http.StatusOK, updated)
}

func (a *api) handleUsersDiscover(w http.ResponseWriter, r *http.Request) {
	u, ok := CurrentUser(r.Context())
	if !ok {
		WriteDomainError(w, domain.ErrUnauthorized)
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, _ = strconv.Atoi(raw)
	}

	users, err := a.usersSvc.Discover(r.Context(), u.ID, r.URL.Query().Get("q"), limit)
	if err != nil {
		WriteDomainError(w, err)
		return
	}

	out := make([]userResponse, 0, len(users))
	for _, found := range users {
		out = append(out, publicUserResponse(found))
	}
	WriteJSON(w, http.StatusOK, map[string]any{"users": out})
}

type reputationResponse struct {
	UserID  string   `json:"user_id"`
	Average *float64 `json:"average"`
	Count   int64    `json:"count"`
}

func (a *api) handleUserReputation(w http.ResponseWriter, r *http.Request) {
	if _, ok := CurrentUser(r.Context()); !ok {
		WriteDomainError(w, domain.ErrUnauthorized)
		return
	}

	rep, err := a.ratingsSvc.GetReputation(r.Context(), r.PathValue("id"))
	if err != nil {
		WriteDomainError(w, err)
		return
	}

	resp := reputationResponse{UserID: rep.UserID, Count: rep.Count}
	if avg, ok := rep.Average(); ok {
		resp.Average = &avg
	}
	WriteJSON(w, http.StatusOK, resp)
}
