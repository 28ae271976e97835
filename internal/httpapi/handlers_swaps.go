package httpapi

import (
	"net/http"
	"path"
	"time"

	"SkillSwapwebserver/internal/domain"
	"SkillSwapwebserver/internal/service"
)

type swapResponse struct {
	ID              string    `json:"id"`
	FromUser        string    `json:"from_user"`
	ToUser          string    `json:"to_user"`
	Message         string    `json:"message"`
	SkillsOffered   []string  `json:"skills_offered"`
	SkillsRequested []string  `json:"skills_requested"`
	Status          string    `json:"status"`
	Version         int64     `json:"version"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func toSwapResponse(req domain.SwapRequest) swapResponse {
	return swapResponse{
		ID:              req.ID,
		FromUser:        req.FromUser,
		ToUser:          req.ToUser,
		Message:         req.Message,
		SkillsOffered:   emptyIfNil(req.SkillsOffered),
		SkillsRequested: emptyIfNil(req.SkillsRequested),
		Status:          string(req.Status),
		Version:         req.Version,
		CreatedAt:       req.CreatedAt,
		UpdatedAt:       req.UpdatedAt,
	}
}

type createSwapRequest struct {
	ToUser          string   `json:"to_user"`
	Message         string   `json:"message"`
	SkillsOffered   []string `json:"skills_offered"`
	SkillsRequested []string `json:"skills_requested"`
}

func (a *api) handleSwapsCreate(w http.ResponseWriter, r *http.Request) {
	u, ok := CurrentUser(r.Context())
	if !ok {
		WriteDomainError(w, domain.ErrUnauthorized)
		return
	}

	var req createSwapRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "bad_json", "invalid json")
		return
	}

	created, err := a.swapsSvc.Create(r.Context(), u.ID, service.CreateSwapParams{
		ToUser:          req.ToUser,
		Message:         req.Message,
		SkillsOffered:   req.SkillsOffered,
		SkillsRequested: req.SkillsRequested,
	})
	if err != nil {
		WriteDomainError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, toSwapResponse(created))
}

func (a *api) handleSwapsList(w http.ResponseWriter, r *http.Request) {
	u, ok := CurrentUser(r.Context())
	if !ok {
		WriteDomainError(w, domain.ErrUnauthorized)
		return
	}

	overview, err := a.swapsSvc.List(r.Context(), u.ID)
	if err != nil {
		WriteDomainError(w, err)
		return
	}

	out := make([]swapResponse, 0, len(overview.Requests))
	for _, req := range overview.Requests {
		out = append(out, toSwapResponse(req))
	}
	counts := make(map[string]int, len(overview.Counts))
	for st, n := range overview.Counts {
		counts[string(st)] = n
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"swaps":  out,
		"counts": counts,
	})
}

func (a *api) handleSwapsGet(w http.ResponseWriter, r *http.Request) {
	u, ok := CurrentUser(r.Context())
	if !ok {
		WriteDomainError(w, domain.ErrUnauthorized)
		return
	}

	req, err := a.swapsSvc.Get(r.Context(), a.actorFor(u), r.PathValue("id"))
	if err != nil {
		WriteDomainError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, toSwapResponse(req))
}

// handleSwapAction serves all four transition endpoints; the action is the
// last path segment.
func (a *api) handleSwapAction(w http.ResponseWriter, r *http.Request) {
	u, ok := CurrentUser(r.Context())
	if !ok {
		WriteDomainError(w, domain.ErrUnauthorized)
		return
	}

	action := domain.SwapAction(path.Base(r.URL.Path))
	updated, err := a.swapsSvc.Apply(r.Context(), a.actorFor(u), r.PathValue("id"), action)
	if err != nil {
		WriteDomainError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, toSwapResponse(updated))
}
