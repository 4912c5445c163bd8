package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nattawatc/study-planner-api/internal/database"
	"github.com/nattawatc/study-planner-api/internal/middleware"
	"github.com/nattawatc/study-planner-api/internal/models"
	"github.com/nattawatc/study-planner-api/internal/utils"
)

type CourseHandler struct{}

func NewCourseHandler() *CourseHandler {
	return &CourseHandler{}
}

// ListCourses returns the caller's courses
func (h *CourseHandler) ListCourses(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	params := utils.GetPaginationParams(c)

	query := database.GetDB().Where("user_id = ?", userID)

	var total int64
	query.Model(&models.Course{}).Count(&total)

	var courses []models.Course
	if err := query.Scopes(database.Paginate(params)).Order("day, start_time").Find(&courses).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch courses"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"courses": courses,
		"pagination": utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	})
}

// CreateCourse creates a course for the caller
func (h *CourseHandler) CreateCourse(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	type CreateCourseRequest struct {
		Name           string `json:"name" binding:"required"`
		Code           string `json:"code"`
		Color          string `json:"color"`
		InstructorName string `json:"instructor_name"`
		Location       string `json:"location"`
		Day            string `json:"day"`
		StartTime      string `json:"start_time"`
		EndTime        string `json:"end_time"`
	}

	var req CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	course := models.Course{
		Name:           req.Name,
		Code:           req.Code,
		Color:          req.Color,
		InstructorName: req.InstructorName,
		Location:       req.Location,
		Day:            req.Day,
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
		UserID:         userID,
	}

	if err := database.GetDB().Create(&course).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create course"})
		return
	}

	c.JSON(http.StatusCreated, course)
}

// UpdateCourse updates a course owned by the caller
func (h *CourseHandler) UpdateCourse(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	courseID, ok := parseIDParam(c)
	if !ok {
		return
	}

	var course models.Course
	if err := database.GetDB().
		Where("id = ? AND user_id = ?", courseID, userID).
		First(&course).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Course not found"})
		return
	}

	var rawReq map[string]any
	if err := c.ShouldBindJSON(&rawReq); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if v, ok := rawReq["name"].(string); ok && v != "" {
		course.Name = v
	}
	if v, ok := rawReq["code"].(string); ok {
		course.Code = v
	}
	if v, ok := rawReq["color"].(string); ok {
		course.Color = v
	}
	if v, ok := rawReq["instructor_name"].(string); ok {
		course.InstructorName = v
	}
	if v, ok := rawReq["location"].(string); ok {
		course.Location = v
	}
	if v, ok := rawReq["day"].(string); ok {
		course.Day = v
	}
	if v, ok := rawReq["start_time"].(string); ok {
		course.StartTime = v
	}
	if v, ok := rawReq["end_time"].(string); ok {
		course.EndTime = v
	}

	if err := database.GetDB().Save(&course).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update course"})
		return
	}

	c.JSON(http.StatusOK, course)
}

// DeleteCourse deletes a course and its assignments
func (h *CourseHandler) DeleteCourse(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	courseID, ok := parseIDParam(c)
	if !ok {
		return
	}

	var course models.Course
	if err := database.GetDB().
		Where("id = ? AND user_id = ?", courseID, userID).
		First(&course).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Course not found"})
		return
	}

	if err := database.GetDB().Where("course_id = ?", course.ID).Delete(&models.Assignment{}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete course assignments"})
		return
	}

	if err := database.GetDB().Delete(&course).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete course"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Course deleted successfully"})
}

// ListAssignments returns the caller's assignments, optionally by course
func (h *CourseHandler) ListAssignments(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	query := database.GetDB().Where("user_id = ?", userID).Preload("Course")

	if courseID := c.Query("course_id"); courseID != "" {
		query = query.Where("course_id = ?", courseID)
	}

	var assignments []models.Assignment
	if err := query.Order("end_date").Find(&assignments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch assignments"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"assignments": assignments})
}

// CreateAssignment creates an assignment under one of the caller's courses
func (h *CourseHandler) CreateAssignment(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	type CreateAssignmentRequest struct {
		CourseID    uint64     `json:"course_id" binding:"required"`
		Name        string     `json:"name" binding:"required"`
		Description string     `json:"description"`
		Status      string     `json:"status"`
		StartDate   *time.Time `json:"start_date"`
		EndDate     *time.Time `json:"end_date"`
	}

	var req CreateAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	var course models.Course
	if err := database.GetDB().
		Where("id = ? AND user_id = ?", req.CourseID, userID).
		First(&course).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Course not found"})
		return
	}

	assignment := models.Assignment{
		CourseID:    req.CourseID,
		Name:        req.Name,
		Description: req.Description,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		UserID:      userID,
	}
	if req.Status != "" {
		assignment.Status = req.Status
	}

	if err := database.GetDB().Create(&assignment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create assignment"})
		return
	}

	database.GetDB().Preload("Course").First(&assignment, assignment.ID)

	c.JSON(http.StatusCreated, assignment)
}

// UpdateAssignment updates an assignment owned by the caller
func (h *CourseHandler) UpdateAssignment(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	assignmentID, ok := parseIDParam(c)
	if !ok {
		return
	}

	var assignment models.Assignment
	if err := database.GetDB().
		Where("id = ? AND user_id = ?", assignmentID, userID).
		First(&assignment).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Assignment not found"})
		return
	}

	var rawReq map[string]any
	if err := c.ShouldBindJSON(&rawReq); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if v, ok := rawReq["name"].(string); ok && v != "" {
		assignment.Name = v
	}
	if v, ok := rawReq["description"].(string); ok {
		assignment.Description = v
	}
	if v, ok := rawReq["status"].(string); ok && v != "" {
		assignment.Status = v
	}
	if raw, present := rawReq["start_date"]; present {
		if raw == nil {
			assignment.StartDate = nil
		} else if v, ok := raw.(string); ok {
			if parsed, err := time.Parse(time.RFC3339, v); err == nil {
				assignment.StartDate = &parsed
			}
		}
	}
	if raw, present := rawReq["end_date"]; present {
		if raw == nil {
			assignment.EndDate = nil
		} else if v, ok := raw.(string); ok {
			if parsed, err := time.Parse(time.RFC3339, v); err == nil {
				assignment.EndDate = &parsed
			}
		}
	}

	if err := database.GetDB().Save(&assignment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update assignment"})
		return
	}

	c.JSON(http.StatusOK, assignment)
}

// DeleteAssignment deletes an assignment owned by the caller
func (h *CourseHandler) DeleteAssignment(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	assignmentID, ok := parseIDParam(c)
	if !ok {
		return
	}

	var assignment models.Assignment
	if err := database.GetDB().
		Where("id = ? AND user_id = ?", assignmentID, userID).
		First(&assignment).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Assignment not found"})
		return
	}

	if err := database.GetDB().Delete(&assignment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete assignment"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Assignment deleted successfully"})
}
