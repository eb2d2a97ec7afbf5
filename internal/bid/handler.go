package bid

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/MrJusticeShai/odd-handyman-api/internal/auth"
	"github.com/MrJusticeShai/odd-handyman-api/internal/dto"
	"github.com/MrJusticeShai/odd-handyman-api/internal/httpx"
)

type Handler struct {
	service       BidService
	authenticator *auth.Authenticator
}

func NewHandler(service BidService, authenticator *auth.Authenticator) *Handler {
	return &Handler{
		service:       service,
		authenticator: authenticator,
	}
}

func (h *Handler) RegisterHandlers(mux *http.ServeMux) {
	mux.HandleFunc("POST /bids", h.Place)
	mux.HandleFunc("GET /tasks/{id}/bids", h.ListForTask)
	mux.HandleFunc("POST /bids/{id}/accept", h.Accept)
	mux.HandleFunc("POST /bids/{id}/reject", h.Reject)
}

func (h *Handler) Place(w http.ResponseWriter, r *http.Request) {
	claims, err := h.authenticator.Authenticate(r)
	if err != nil {
		httpx.HandleError(w, err)
		return
	}
	if claims.Role != auth.RoleHandyman {
		httpx.WriteError(w, http.StatusForbidden, "only handymen can place bids")
		return
	}

	var req dto.PlaceBidRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid json")
		return
	}

	taskID, err := uuid.Parse(req.TaskID)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid task_id")
		return
	}

	b, err := h.service.PlaceBid(r.Context(), taskID, claims.UserID, req.Amount)
	if err != nil {
		httpx.HandleError(w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toBidResponse(b))
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

	bids, err := h.service.ListBidsForTask(r.Context(), taskID)
	if err != nil {
		httpx.HandleError(w, err)
		return
	}

	resp := make([]dto.BidResponse, 0, len(bids))
	for _, b := range bids {
		resp = append(resp, toBidResponse(b))
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) Accept(w http.ResponseWriter, r *http.Request) {
	claims, err := h.authenticator.Authenticate(r)
	if err != nil {
		httpx.HandleError(w, err)
		return
	}
	if claims.Role != auth.RoleCustomer {
		httpx.WriteError(w, http.StatusForbidden, "only customers can accept bids")
		return
	}

	bidID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid id")
		return
	}

	b, err := h.service.AcceptBid(r.Context(), bidID)
	if err != nil {
		httpx.HandleError(w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toBidResponse(b))
}

func (h *Handler) Reject(w http.ResponseWriter, r *http.Request) {
	claims, err := h.authenticator.Authenticate(r)
	if err != nil {
		httpx.HandleError(w, err)
		return
	}
	if claims.Role != auth.RoleCustomer {
		httpx.WriteError(w, http.StatusForbidden, "only customers can reject bids")
		return
	}

	bidID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid id")
		return
	}

	b, err := h.service.RejectBid(r.Context(), bidID)
	if err != nil {
		httpx.HandleError(w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toBidResponse(b))
}

func toBidResponse(b Bid) dto.BidResponse {
	return dto.BidResponse{
		ID:         b.ID.String(),
		TaskID:     b.TaskID.String(),
		HandymanID: b.HandymanID.String(),
		Amount:     b.Amount,
		Status:     string(b.Status),
		CreatedAt:  b.CreatedAt.Format(time.RFC3339),
	}
}
