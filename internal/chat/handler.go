package chat

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/MrJusticeShai/odd-handyman-api/internal/auth"
	"github.com/MrJusticeShai/odd-handyman-api/internal/dto"
	"github.com/MrJusticeShai/odd-handyman-api/internal/httpx"
)

type Handler struct {
	service       ChatService
	authenticator *auth.Authenticator
}

func NewHandler(service ChatService, authenticator *auth.Authenticator) *Handler {
	return &Handler{
		service:       service,
		authenticator: authenticator,
	}
}

func (h *Handler) RegisterHandlers(mux *http.ServeMux) {
	mux.HandleFunc("POST /chat/messages", h.Send)
	mux.HandleFunc("GET /tasks/{id}/messages", h.ListForTask)
	mux.HandleFunc("POST /tasks/{id}/messages/read", h.MarkRead)
	mux.HandleFunc("GET /chat/unread", h.UnreadCounts)
}

func (h *Handler) Send(w http.ResponseWriter, r *http.Request) {
	claims, err := h.authenticator.Authenticate(r)
	if err != nil {
		httpx.HandleError(w, err)
		return
	}

	var req dto.SendMessageRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid json")
		return
	}

	taskID, err := uuid.Parse(req.TaskID)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid task_id")
		return
	}

	m, err := h.service.SendMessage(r.Context(), taskID, claims.UserID, req.Body)
	if err != nil {
		httpx.HandleError(w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toMessageResponse(m))
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

	messages, err := h.service.MessagesForTask(r.Context(), taskID)
	if err != nil {
		httpx.HandleError(w, err)
		return
	}

	resp := make([]dto.ChatMessageResponse, 0, len(messages))
	for _, m := range messages {
		resp = append(resp, toMessageResponse(m))
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) MarkRead(w http.ResponseWriter, r *http.Request) {
	claims, err := h.authenticator.Authenticate(r)
	if err != nil {
		httpx.HandleError(w, err)
		return
	}

	taskID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid id")
		return
	}

	if err := h.service.MarkMessagesAsRead(r.Context(), taskID, claims.UserID); err != nil {
		httpx.HandleError(w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusNoContent, nil)
}

func (h *Handler) UnreadCounts(w http.ResponseWriter, r *http.Request) {
	claims, err := h.authenticator.Authenticate(r)
	if err != nil {
		httpx.HandleError(w, err)
		return
	}

	counts, err := h.service.UnreadCounts(r.Context(), claims.UserID, claims.Role)
	if err != nil {
		httpx.HandleError(w, err)
		return
	}

	resp := make(dto.UnreadCountsResponse, len(counts))
	for taskID, count := range counts {
		resp[taskID.String()] = count
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

func toMessageResponse(m ChatMessage) dto.ChatMessageResponse {
	return dto.ChatMessageResponse{
		ID:             m.ID.String(),
		TaskID:         m.TaskID.String(),
		SenderID:       m.SenderID.String(),
		SenderRole:     string(m.SenderRole),
		Body:           m.Body,
		SentAt:         m.SentAt.Format(time.RFC3339),
		ReadByCustomer: m.ReadByCustomer,
		ReadByHandyman: m.ReadByHandyman,
	}
}
