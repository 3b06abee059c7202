package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/JCWilliams12/TaskTrack/internal/apperr"
	"github.com/JCWilliams12/TaskTrack/internal/middleware"
	"github.com/JCWilliams12/TaskTrack/internal/models"
	"github.com/JCWilliams12/TaskTrack/internal/repository"
	"github.com/JCWilliams12/TaskTrack/pkg/logger"
)

type createTaskRequest struct {
	Title       string     `json:"title" validate:"required,min=1,max=100"`
	Description string     `json:"description" validate:"max=500"`
	Status      string     `json:"status" validate:"omitempty,oneof=pending in-progress completed"`
	Priority    string     `json:"priority" validate:"omitempty,oneof=low medium high"`
	DueDate     *time.Time `json:"dueDate"`
}

type updateTaskRequest struct {
	Title       *string             `json:"title" validate:"omitempty,min=1,max=100"`
	Description *string             `json:"description" validate:"omitempty,max=500"`
	Status      *string             `json:"status" validate:"omitempty,oneof=pending in-progress completed"`
	Priority    *string             `json:"priority" validate:"omitempty,oneof=low medium high"`
	DueDate     models.NullableDate `json:"dueDate"`
}

func (h *Handler) CreateTask(c *fiber.Ctx) error {
	owner := middleware.CurrentUser(c)

	var req createTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validation("Bad request", nil)
	}
	if err := h.Validate.Struct(req); err != nil {
		return apperr.Validation("Validation error", err.Error())
	}

	task, err := h.Tasks.Create(c.Context(), owner.ID.Hex(), models.Task{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
	})
	if err != nil {
		return err
	}

	logger.AuditLogger.Info("Task created",
		zap.String("task_id", task.ID.Hex()),
		zap.String("user_id", owner.ID.Hex()),
	)
	return c.Status(fiber.StatusCreated).JSON(task)
}

func (h *Handler) ListTasks(c *fiber.Ctx) error {
	owner := middleware.CurrentUser(c)

	// Unknown filter and sort values are ignored by the store, not rejected.
	tasks, err := h.Tasks.List(c.Context(), owner.ID.Hex(), repository.ListFilter{
		Status:    c.Query("status"),
		Priority:  c.Query("priority"),
		SortBy:    c.Query("sortBy"),
		SortOrder: c.Query("sortOrder"),
	})
	if err != nil {
		return err
	}
	return c.JSON(tasks)
}

func (h *Handler) GetTask(c *fiber.Ctx) error {
	owner := middleware.CurrentUser(c)

	task, err := h.Tasks.Get(c.Context(), owner.ID.Hex(), c.Params("id"))
	if err != nil {
		if err == repository.ErrTaskNotFound {
			return apperr.NotFound("Task not found")
		}
		return err
	}
	return c.JSON(task)
}

func (h *Handler) UpdateTask(c *fiber.Ctx) error {
	owner := middleware.CurrentUser(c)

	var req updateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validation("Bad request", nil)
	}
	if err := h.Validate.Struct(req); err != nil {
		return apperr.Validation("Validation error", err.Error())
	}

	update := repository.TaskUpdate{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
	}
	// A null dueDate clears the field; an absent one leaves it untouched.
	if req.DueDate.Set {
		if req.DueDate.Value == nil {
			update.ClearDueDate = true
		} else {
			update.DueDate = req.DueDate.Value
		}
	}

	task, err := h.Tasks.Update(c.Context(), owner.ID.Hex(), c.Params("id"), update)
	if err != nil {
		if err == repository.ErrTaskNotFound {
			return apperr.NotFound("Task not found")
		}
		return err
	}

	logger.AuditLogger.Info("Task updated", zap.String("task_id", task.ID.Hex()))
	return c.JSON(task)
}

func (h *Handler) DeleteTask(c *fiber.Ctx) error {
	owner := middleware.CurrentUser(c)

	if err := h.Tasks.Delete(c.Context(), owner.ID.Hex(), c.Params("id")); err != nil {
		if err == repository.ErrTaskNotFound {
			return apperr.NotFound("Task not found")
		}
		return err
	}

	logger.AuditLogger.Info("Task deleted",
		zap.String("task_id", c.Params("id")),
		zap.String("user_id", owner.ID.Hex()),
	)
	return c.JSON(fiber.Map{"message": "Task deleted successfully"})
}

func (h *Handler) TaskStats(c *fiber.Ctx) error {
	owner := middleware.CurrentUser(c)

	stats, err := h.Tasks.Stats(c.Context(), owner.ID.Hex())
	if err != nil {
		return err
	}
	return c.JSON(stats)
}
