package task

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/MrJusticeShai/odd-handyman-api/internal/auth"
	"github.com/MrJusticeShai/odd-handyman-api/internal/dto"
	"github.com/MrJusticeShai/odd-handyman-api/internal/httpx"
)

type Handler struct {
	service       TaskService
	authenticator *auth.Authenticator
}

func NewHandler(service TaskService, authenticator *auth.Authenticator) *Handler {
	return &Handler{
		service:       service,
		authenticator: authenticator,
	}
}

func (h *Handler) RegisterHandlers(mux *http.ServeMux) {
	mux.HandleFunc("POST /tasks", h.Create)
	mux.HandleFunc("GET /tasks", h.List)
	mux.HandleFunc("GET /tasks/{id}", h.Get)
	mux.HandleFunc("POST /tasks/{id}/complete", h.Complete)
	mux.HandleFunc("POST /tasks/{id}/cancel", h.Cancel)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	claims, err := h.authenticator.Authenticate(r)
	if err != nil {
		httpx.HandleError(w, err)
		return
	}

	var req dto.CreateTaskRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid json")
		return
	}

	var deadline time.Time
	if req.Deadline != "" {
		deadline, err = time.Parse(time.RFC3339, req.Deadline)
		if err != nil {
			httpx.WriteError(w, http.StatusBadRequest, "deadline must be RFC3339")
			return
		}
	}

	t, err := h.service.CreateTask(r.Context(), claims.UserID, claims.Role, req.Title, req.Description, req.Address, req.Budget, deadline)
	if err != nil {
		httpx.HandleError(w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toTaskResponse(t))
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	claims, err := h.authenticator.Authenticate(r)
	if err != nil {
		httpx.HandleError(w, err)
		return
	}

	tasks, err := h.service.TasksForUser(r.Context(), claims.UserID, claims.Role)
	if err != nil {
		httpx.HandleError(w, err)
		return
	}

	resp := make([]dto.TaskResponse, 0, len(tasks))
	for _, t := range tasks {
		resp = append(resp, toTaskResponse(t))
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	if _, err := h.authenticator.Authenticate(r); err != nil {
		httpx.HandleError(w, err)
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid id")
		return
	}

	t, err := h.service.GetTask(r.Context(), id)
	if err != nil {
		httpx.HandleError(w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toTaskResponse(t))
}

func (h *Handler) Complete(w http.ResponseWriter, r *http.Request) {
	claims, err := h.authenticator.Authenticate(r)
	if err != nil {
		httpx.HandleError(w, err)
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid id")
		return
	}

	t, err := h.service.CompleteTask(r.Context(), id, claims.UserID)
	if err != nil {
		httpx.HandleError(w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toTaskResponse(t))
}

func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	claims, err := h.authenticator.Authenticate(r)
	if err != nil {
		httpx.HandleError(w, err)
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid id")
		return
	}

	t, err := h.service.CancelTask(r.Context(), id, claims.UserID)
	if err != nil {
		httpx.HandleError(w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toTaskResponse(t))
}

func toTaskResponse(t Task) dto.TaskResponse {
	resp := dto.TaskResponse{
		ID:          t.ID.String(),
		Title:       t.Title,
		Description: t.Description,
		Address:     t.Address,
		Budget:      t.Budget,
		Deadline:    t.Deadline.Format(time.RFC3339),
		Status:      string(t.Status),
		CustomerID:  t.CustomerID.String(),
		CreatedAt:   t.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   t.UpdatedAt.Format(time.RFC3339),
	}
	if t.AssignedHandymanID != nil {
		id := t.AssignedHandymanID.String()
		resp.AssignedHandymanID = &id
	}
	return resp
}
