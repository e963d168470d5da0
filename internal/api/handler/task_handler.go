package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/club-admin/internal/core/domain"
	"github.com/99minutos/club-admin/internal/core/ports"
	"github.com/99minutos/club-admin/internal/pkg/optional"
)

type TaskHandler struct {
	store ports.ClubStore
}

func NewTaskHandler(store ports.ClubStore) *TaskHandler {
	return &TaskHandler{store: store}
}

// List returns tasks newest first, optionally filtered.
//
// @Summary      List tasks
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        assigned_to  query     string  false  "Assignee user id"
// @Param        status       query     string  false  "NOT_STARTED, ONGOING or FINISHED"
// @Success      200          {array}   taskResponse
// @Failure      422          {object}  errorResponse
// @Router       /v1/tasks [get]
func (h *TaskHandler) List(c echo.Context) error {
	assignee := c.QueryParam("assigned_to")
	status := domain.TaskStatus(c.QueryParam("status"))
	if status != "" && !status.Valid() {
		return fmt.Errorf("%w: status must be one of: NOT_STARTED ONGOING FINISHED", domain.ErrValidation)
	}

	tasks := h.store.ListTasks()
	filtered := make([]domain.Task, 0, len(tasks))
	for _, t := range tasks {
		if assignee != "" && t.AssignedTo != assignee {
			continue
		}
		if status != "" && t.Status != status {
			continue
		}
		filtered = append(filtered, t)
	}
	return c.JSON(http.StatusOK, toTaskResponses(filtered, usernames(h.store.ListUsers())))
}

// Create assigns a new task to an existing user.
//
// @Summary      Create task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createTaskRequest  true  "Task"
// @Success      201   {object}  taskResponse
// @Failure      422   {object}  errorResponse
// @Failure      503   {object}  errorResponse
// @Router       /v1/tasks [post]
func (h *TaskHandler) Create(c echo.Context) error {
	var req createTaskRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if _, ok := h.store.FindUser(req.AssignedTo); !ok {
		return fmt.Errorf("%w: assigned_to must reference an existing user", domain.ErrValidation)
	}

	due := optional.None[time.Time]()
	if req.DueDate != "" {
		d, err := time.Parse(dayLayout, req.DueDate)
		if err != nil {
			return fmt.Errorf("%w: due_date must be a date formatted as %s", domain.ErrValidation, dayLayout)
		}
		due = optional.Some(d)
	}

	task, err := h.store.AddTask(c.Request().Context(), req.Title, req.Description, req.AssignedTo, due)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toTaskResponse(*task, usernames(h.store.ListUsers())))
}

// UpdateStatus moves a task to another status. Members may only move their
// own tasks.
//
// @Summary      Update task status
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                   true  "Task id"
// @Param        body  body      updateTaskStatusRequest  true  "New status"
// @Success      200   {object}  taskResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Failure      503   {object}  errorResponse
// @Router       /v1/tasks/{id}/status [patch]
func (h *TaskHandler) UpdateStatus(c echo.Context) error {
	userID, role, err := identity(c)
	if err != nil {
		return err
	}
	var req updateTaskStatusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	id := c.Param("id")
	task, ok := h.store.FindTask(id)
	if !ok {
		return domain.ErrTaskNotFound
	}
	if role != domain.RoleAdmin && task.AssignedTo != userID {
		return domain.ErrForbidden
	}

	if err := h.store.UpdateTaskStatus(c.Request().Context(), id, domain.TaskStatus(req.Status)); err != nil {
		return err
	}
	updated, ok := h.store.FindTask(id)
	if !ok {
		return domain.ErrTaskNotFound
	}
	return c.JSON(http.StatusOK, toTaskResponse(*updated, usernames(h.store.ListUsers())))
}

// Delete removes a task.
//
// @Summary      Delete task
// @Tags         tasks
// @Security     BearerAuth
// @Param        id   path  string  true  "Task id"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Failure      503  {object}  errorResponse
// @Router       /v1/tasks/{id} [delete]
func (h *TaskHandler) Delete(c echo.Context) error {
	id := c.Param("id")
	if _, ok := h.store.FindTask(id); !ok {
		return domain.ErrTaskNotFound
	}
	if err := h.store.DeleteTask(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
