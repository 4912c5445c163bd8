package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	apierrors "github.com/nattawatc/study-planner-api/internal/errors"
	"github.com/nattawatc/study-planner-api/internal/middleware"
	"github.com/nattawatc/study-planner-api/internal/services"
)

// TaskHandler exposes board task operations.
type TaskHandler struct {
	taskService *services.TaskService
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

// CreateTask creates a task in a board column.
func (h *TaskHandler) CreateTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type CreateTaskRequest struct {
		StatusID  uint64     `json:"status_id" binding:"required"`
		Name      string     `json:"name" binding:"required"`
		Detail    string     `json:"detail"`
		Tag       string     `json:"tag"`
		Priority  int        `json:"priority"`
		Color     string     `json:"color"`
		StartDate *time.Time `json:"start_date"`
		DueDate   *time.Time `json:"due_date"`
		RoleID    *string    `json:"role_id"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.CreateTask(services.CreateTaskInput{
		StatusID:  req.StatusID,
		Name:      req.Name,
		Detail:    req.Detail,
		Tag:       req.Tag,
		Priority:  req.Priority,
		Color:     req.Color,
		StartDate: req.StartDate,
		DueDate:   req.DueDate,
		RoleID:    req.RoleID,
		ActorID:   userID,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, task)
}

// GetTask returns a task with its relations.
func (h *TaskHandler) GetTask(c *gin.Context) {
	taskID, ok := parseIDParam(c)
	if !ok {
		return
	}

	task, err := h.taskService.GetTask(taskID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, task)
}

// UpdateTask updates task fields, including moves between columns.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	taskID, ok := parseIDParam(c)
	if !ok {
		return
	}

	// Raw JSON so a null due_date or role_id clears the field.
	var rawReq map[string]any
	if err := c.ShouldBindJSON(&rawReq); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	var input services.UpdateTaskInput
	if v, ok := rawReq["status_id"].(float64); ok {
		statusID := uint64(v)
		input.StatusID = &statusID
	}
	if v, ok := rawReq["name"].(string); ok {
		input.Name = &v
	}
	if v, ok := rawReq["detail"].(string); ok {
		input.Detail = &v
	}
	if v, ok := rawReq["tag"].(string); ok {
		input.Tag = &v
	}
	if v, ok := rawReq["priority"].(float64); ok {
		priority := int(v)
		input.Priority = &priority
	}
	if v, ok := rawReq["color"].(string); ok {
		input.Color = &v
	}
	if v, ok := rawReq["start_date"].(string); ok {
		if parsed, err := time.Parse(time.RFC3339, v); err == nil {
			input.StartDate = &parsed
		}
	}
	if raw, present := rawReq["due_date"]; present {
		if raw == nil {
			input.ClearDueDate = true
		} else if v, ok := raw.(string); ok {
			if parsed, err := time.Parse(time.RFC3339, v); err == nil {
				input.DueDate = &parsed
			}
		}
	}
	if raw, present := rawReq["role_id"]; present {
		if raw == nil {
			input.ClearRole = true
		} else if v, ok := raw.(string); ok {
			input.RoleID = &v
		}
	}

	task, err := h.taskService.UpdateTask(taskID, input)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, task)
}

// DeleteTask deletes a task.
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	taskID, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.taskService.DeleteTask(taskID, userID); err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Task deleted successfully"})
}

// AssignTask assigns project members to a task.
func (h *TaskHandler) AssignTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	taskID, ok := parseIDParam(c)
	if !ok {
		return
	}

	type AssignUserRequest struct {
		UserIDs []uint64 `json:"user_ids" binding:"required"`
	}

	var req AssignUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.taskService.AssignUsers(taskID, userID, req.UserIDs); err != nil {
		respondTaskError(c, err)
		return
	}

	task, err := h.taskService.GetTask(taskID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "Users assigned successfully",
		"assignments": task.Assignments,
	})
}

// UnassignTask removes user assignments from a task.
func (h *TaskHandler) UnassignTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	taskID, ok := parseIDParam(c)
	if !ok {
		return
	}

	type AssignUserRequest struct {
		UserIDs []uint64 `json:"user_ids" binding:"required"`
	}

	var req AssignUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.taskService.UnassignUsers(taskID, userID, req.UserIDs); err != nil {
		respondTaskError(c, err)
		return
	}

	task, err := h.taskService.GetTask(taskID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "Users unassigned successfully",
		"assignments": task.Assignments,
	})
}

func respondTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTaskNameRequired),
		errors.Is(err, services.ErrNoUserIDsProvided),
		errors.Is(err, services.ErrInvalidAssignee),
		errors.Is(err, services.ErrRoleNotInProject):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrTaskNotFound),
		errors.Is(err, services.ErrStatusNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrNotProjectMember):
		apierrors.Forbidden(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
