package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	apierrors "github.com/nattawatc/study-planner-api/internal/errors"
	"github.com/nattawatc/study-planner-api/internal/services"
)

// StatusHandler exposes the board column operations.
type StatusHandler struct {
	statusService *services.StatusService
}

// NewStatusHandler creates a new StatusHandler.
func NewStatusHandler(statusService *services.StatusService) *StatusHandler {
	return &StatusHandler{statusService: statusService}
}

// CreateStatus adds a column to a project board.
func (h *StatusHandler) CreateStatus(c *gin.Context) {
	type CreateStatusRequest struct {
		ProjectID uint64 `json:"project_id" binding:"required"`
		Name      string `json:"name" binding:"required"`
		Color     string `json:"color"`
		IsDone    bool   `json:"is_done"`
	}

	var req CreateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	status, err := h.statusService.CreateStatus(services.CreateStatusInput{
		ProjectID: req.ProjectID,
		Name:      req.Name,
		Color:     req.Color,
		IsDone:    req.IsDone,
	})
	if err != nil {
		respondStatusError(c, err)
		return
	}

	c.JSON(http.StatusCreated, status)
}

// UpdateStatus changes a column's name and color.
func (h *StatusHandler) UpdateStatus(c *gin.Context) {
	statusID, ok := parseIDParam(c)
	if !ok {
		return
	}

	type UpdateStatusRequest struct {
		Name  string `json:"name"`
		Color string `json:"color"`
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	status, err := h.statusService.UpdateStatus(statusID, req.Name, req.Color)
	if err != nil {
		respondStatusError(c, err)
		return
	}

	c.JSON(http.StatusOK, status)
}

// DeleteStatus removes a column and renumbers the board.
func (h *StatusHandler) DeleteStatus(c *gin.Context) {
	statusID, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.statusService.DeleteStatus(statusID); err != nil {
		respondStatusError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Status deleted successfully"})
}

// MoveStatus changes a column's position on the board.
func (h *StatusHandler) MoveStatus(c *gin.Context) {
	statusID, ok := parseIDParam(c)
	if !ok {
		return
	}

	type MoveStatusRequest struct {
		ProjectID uint64 `json:"project_id" binding:"required"`
		Position  int    `json:"position" binding:"required"`
	}

	var req MoveStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.statusService.MoveStatus(statusID, req.ProjectID, req.Position); err != nil {
		respondStatusError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Status position updated"})
}

func respondStatusError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrStatusNameRequired):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrProjectNotFound),
		errors.Is(err, services.ErrStatusNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrDoneStatusExists):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrDoneStatusImmutable),
		errors.Is(err, services.ErrInvalidPosition):
		apierrors.InvalidOperation(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}

// parseIDParam parses the :id path parameter, responding 400 on failure.
func parseIDParam(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid id")
		return 0, false
	}
	return id, true
}
