package review

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/MrJusticeShai/odd-handyman-api/internal/auth"
	"github.com/MrJusticeShai/odd-handyman-api/internal/dto"
	"github.com/MrJusticeShai/odd-handyman-api/internal/httpx"
)

type Handler struct {
	service       ReviewService
	authenticator *auth.Authenticator
}

func NewHandler(service ReviewService, authenticator *auth.Authenticator) *Handler {
	return &Handler{
		service:       service,
		authenticator: authenticator,
	}
}

func (h *Handler) RegisterHandlers(mux *http.ServeMux) {
	mux.HandleFunc("POST /reviews", h.Create)
	mux.HandleFunc("GET /tasks/{id}/reviews", h.ListForTask)
	mux.HandleFunc("GET /handymen/{id}/reviews", h.ListForHandyman)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	claims, err := h.authenticator.Authenticate(r)
	if err != nil {
		httpx.HandleError(w, err)
		return
	}

	var req dto.CreateReviewRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid json")
		return
	}

	taskID, err := uuid.Parse(req.TaskID)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid task_id")
		return
	}
	if req.Rating < 1 || req.Rating > 5 {
		httpx.WriteError(w, http.StatusBadRequest, "rating must be between 1 and 5")
		return
	}

	rev, err := h.service.CreateReview(r.Context(), taskID, claims.UserID, req.Rating, req.Comment)
	if err != nil {
		httpx.HandleError(w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toReviewResponse(rev))
}

func (h *Handler) ListForTask(w http.ResponseWriter, r *http.Request) {
	if _, err := h.authenticator.Authenticate(r); err != nil {
		httpx.HandleError(w, err)
		return
	}

	taskID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid id")
		return
	}

	reviews, err := h.service.ReviewsForTask(r.Context(), taskID)
	if err != nil {
		httpx.HandleError(w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toReviewResponses(reviews))
}

func (h *Handler) ListForHandyman(w http.ResponseWriter, r *http.Request) {
	if _, err := h.authenticator.Authenticate(r); err != nil {
		httpx.HandleError(w, err)
		return
	}

	handymanID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid id")
		return
	}

	reviews, err := h.service.ReviewsForHandyman(r.Context(), handymanID)
	if err != nil {
		httpx.HandleError(w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toReviewResponses(reviews))
}

func toReviewResponse(rev Review) dto.ReviewResponse {
	return dto.ReviewResponse{
		ID:                 rev.ID.String(),
		TaskID:             rev.TaskID.String(),
		ReviewerID:         rev.ReviewerID.String(),
		ReviewedHandymanID: rev.ReviewedHandymanID.String(),
		Rating:             rev.Rating,
		Comment:            rev.Comment,
		CreatedAt:          rev.CreatedAt.Format(time.RFC3339),
	}
}

func toReviewResponses(reviews []Review) []dto.ReviewResponse {
	resp := make([]dto.ReviewResponse, 0, len(reviews))
	for _, rev := range reviews {
		resp = append(resp, toReviewResponse(rev))
	}
	return resp
}
