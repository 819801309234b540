package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/taskboard/internal/apperr"
	"github.com/iliyamo/taskboard/internal/auth"
	"github.com/iliyamo/taskboard/internal/queue"
	"github.com/iliyamo/taskboard/internal/repository"
)

// TaskHandler serves the per-user task CRUD. Every operation is scoped to
// the authenticated owner; another user's task is reported as not found,
// never as forbidden, so existence is not confirmed to non-owners.
type TaskHandler struct {
	Tasks *repository.TaskRepo
}

func NewTaskHandler(tasks *repository.TaskRepo) *TaskHandler {
	return &TaskHandler{Tasks: tasks}
}

type taskCreateReq struct {
	Title       string `json:"title" validate:"required,min=1"`
	Description string `json:"description"`
}

type taskPatchReq struct {
	Title       *string `json:"title" validate:"omitempty,min=1"`
	Description *string `json:"description"`
}

// Create stores a new task owned by the caller.
func (h *TaskHandler) Create(c echo.Context) error {
	ident, ok := auth.IdentityFrom(c)
	if !ok {
		return apperr.Unauthorized()
	}

	var req taskCreateReq
	if err := c.Bind(&req); err != nil {
		return apperr.Validation("Invalid request body", nil)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	t, err := h.Tasks.Create(ctx, ident.UserID, req.Title, req.Description)
	if err != nil {
		return apperr.Internal(err)
	}

	publishAudit(queue.AuditEvent{Type: queue.EventTaskCreated, UserID: ident.UserID, TaskID: t.ID})

	return c.JSON(http.StatusCreated, t)
}

// List returns the caller's live tasks.
func (h *TaskHandler) List(c echo.Context) error {
	ident, ok := auth.IdentityFrom(c)
	if !ok {
		return apperr.Unauthorized()
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	tasks, err := h.Tasks.ListByUser(ctx, ident.UserID)
	if err != nil {
		return apperr.Internal(err)
	}
	return c.JSON(http.StatusOK, tasks)
}

// Find returns one of the caller's tasks by id.
func (h *TaskHandler) Find(c echo.Context) error {
	ident, ok := auth.IdentityFrom(c)
	if !ok {
		return apperr.Unauthorized()
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	t, err := h.Tasks.FindByID(ctx, ident.UserID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound("Task not found", apperr.CodeTaskNotFound)
		}
		return apperr.Internal(err)
	}
	return c.JSON(http.StatusOK, t)
}

// Update applies a partial patch to one of the caller's tasks.
func (h *TaskHandler) Update(c echo.Context) error {
	ident, ok := auth.IdentityFrom(c)
	if !ok {
		return apperr.Unauthorized()
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var patch taskPatchReq
	if err := c.Bind(&patch); err != nil {
		return apperr.Validation("Invalid request body", nil)
	}
	if err := c.Validate(&patch); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	existing, err := h.Tasks.FindByID(ctx, ident.UserID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound("Task not found", apperr.CodeTaskNotFound)
		}
		return apperr.Internal(err)
	}

	updated := existing
	if patch.Title != nil {
		updated.Title = *patch.Title
	}
	if patch.Description != nil {
		updated.Description = *patch.Description
	}

	if err := h.Tasks.Update(ctx, ident.UserID, id, updated.Title, updated.Description); err != nil {
		return apperr.Internal(err)
	}
	return c.JSON(http.StatusOK, updated)
}

// Delete soft-deletes one of the caller's tasks.
func (h *TaskHandler) Delete(c echo.Context) error {
	ident, ok := auth.IdentityFrom(c)
	if !ok {
		return apperr.Unauthorized()
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Tasks.SoftDelete(ctx, ident.UserID, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound("Task not found", apperr.CodeTaskNotFound)
		}
		return apperr.Internal(err)
	}

	publishAudit(queue.AuditEvent{Type: queue.EventTaskDeleted, UserID: ident.UserID, TaskID: id})

	return c.JSON(http.StatusOK, echo.Map{"message": "Task deleted"})
}
