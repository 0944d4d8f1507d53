package handler

import (
	"log/slog"
	"net/http"

	"connectly/internal/httputil"
	"connectly/internal/model"
	"connectly/internal/transport/http/middleware"
)

// TaskHandler serves the caller's tasks. Every route requires authentication.
type TaskHandler struct {
	taskService TaskService
	logger      *slog.Logger
}

func NewTaskHandler(taskService TaskService, logger *slog.Logger) *TaskHandler {
	return &TaskHandler{taskService: taskService, logger: logger}
}

func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	cursor, limit, ok := page(w, r)
	if !ok {
		return
	}

	tasks, err := h.taskService.List(r.Context(), middleware.IdentityFromContext(r.Context()), cursor, limit)
	if err != nil {
		writeServiceError(w, r, h.logger, err, "Failed to list tasks")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, tasks)
}

func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateTaskRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	task, err := h.taskService.Create(r.Context(), middleware.IdentityFromContext(r.Context()), req)
	if err != nil {
		writeServiceError(w, r, h.logger, err, "Failed to create task")
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, task)
}

func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	taskID, ok := pathID(w, r, "id", "task")
	if !ok {
		return
	}

	task, err := h.taskService.Get(r.Context(), middleware.IdentityFromContext(r.Context()), taskID)
	if err != nil {
		writeServiceError(w, r, h.logger, err, "Failed to get task")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	taskID, ok := pathID(w, r, "id", "task")
	if !ok {
		return
	}

	var req model.UpdateTaskRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	task, err := h.taskService.Update(r.Context(), middleware.IdentityFromContext(r.Context()), taskID, req)
	if err != nil {
		writeServiceError(w, r, h.logger, err, "Failed to update task")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	taskID, ok := pathID(w, r, "id", "task")
	if !ok {
		return
	}

	if err := h.taskService.Delete(r.Context(), middleware.IdentityFromContext(r.Context()), taskID); err != nil {
		writeServiceError(w, r, h.logger, err, "Failed to delete task")
		return
	}
	writeMessage(w, "Task deleted successfully")
}
