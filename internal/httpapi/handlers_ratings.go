package httpapi

import (
	"net/http"
	"time"

	"SkillSwapwebserver/internal/domain"
)

type ratingResponse struct {
	ID            string    `json:"id"`
	SwapRequestID string    `json:"swap_request_id"`
	FromUser      string    `json:"from_user"`
	ToUser        string    `json:"to_user"`
	Value         int       `json:"value"`
	Feedback      string    `json:"feedback,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

func toRatingResponse(r domain.Rating) ratingResponse {
	return ratingResponse{
		ID:            r.ID,
		SwapRequestID: r.SwapRequestID,
		FromUser:      r.FromUser,
		ToUser:        r.ToUser,
		Value:         r.Value,
		Feedback:      r.Feedback,
		CreatedAt:     r.CreatedAt,
	}
}

type submitRatingRequest struct {
	Value    int    `json:"value"`
	Feedback string `json:"feedback"`
}

func (a *api) handleRatingsSubmit(w http.ResponseWriter, r *http.Request) {
	u, ok := CurrentUser(r.Context())
	if !ok {
		WriteDomainError(w, domain.ErrUnauthorized)
		return
	}

	var req submitRatingRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "bad_json", "invalid json")
		return
	}

	rating, err := a.ratingsSvc.Submit(r.Context(), a.actorFor(u), r.PathValue("id"), req.Value, req.Feedback)
	if err != nil {
		WriteDomainError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, toRatingResponse(rating))
}

func (a *api) handleRatingsList(w http.ResponseWriter, r *http.Request) {
	u, ok := CurrentUser(r.Context())
	if !ok {
		WriteDomainError(w, domain.ErrUnauthorized)
		return
	}

	ratings, err := a.ratingsSvc.ListForSwap(r.Context(), a.actorFor(u), r.PathValue("id"))
	if err != nil {
		WriteDomainError(w, err)
		return
	}

	out := make([]ratingResponse, 0, len(ratings))
	for _, rt := range ratings {
		out = append(out, toRatingResponse(rt))
	}
	WriteJSON(w, http.StatusOK, map[string]any{"ratings": out})
}
