package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/aoyagi/tasktracker/internal/dto"
	apierrors "github.com/aoyagi/tasktracker/internal/errors"
	"github.com/aoyagi/tasktracker/internal/middleware"
	"github.com/aoyagi/tasktracker/internal/models"
	"github.com/aoyagi/tasktracker/internal/services"
	"github.com/aoyagi/tasktracker/internal/utils"
)

// TaskHandler coordinates task CRUD and statistics endpoints.
type TaskHandler struct {
	taskService  *services.TaskService
	statsService *services.StatsService
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(taskService *services.TaskService, statsService *services.StatsService) *TaskHandler {
	return &TaskHandler{
		taskService:  taskService,
		statsService: statsService,
	}
}

// ListTasks returns the current user's tasks, newest-created first.
// Query params: status (exact match), search (title/description substring),
// date (YYYY-MM-DD exact match), overdue (true), page, limit.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	var status *models.TaskStatus
	if raw := c.Query("status"); raw != "" {
		s := models.TaskStatus(raw)
		if !s.IsValid() {
			apierrors.BadRequest(c, "Invalid status filter")
			return
		}
		status = &s
	}

	opts := services.TaskFilterOptions{
		SearchTerm:  c.Query("search"),
		OverdueOnly: c.Query("overdue") == "true",
	}
	if raw := c.Query("date"); raw != "" {
		date, err := time.Parse(models.DateFormat, raw)
		if err != nil {
			apierrors.BadRequest(c, "Invalid date filter, expected YYYY-MM-DD")
			return
		}
		opts.Date = &date
	}

	params := utils.GetPaginationParams(c)

	inMemory := opts.SearchTerm != "" || opts.Date != nil || opts.OverdueOnly
	if !inMemory {
		// Status-only filtering happens at the store; page there too.
		tasks, err := h.taskService.ListTasks(userID, status, params.Limit, params.Offset)
		if err != nil {
			respondTaskError(c, err)
			return
		}
		all, err := h.taskService.ListTasks(userID, status, 0, 0)
		if err != nil {
			respondTaskError(c, err)
			return
		}
		c.JSON(http.StatusOK, dto.ToTaskListResponse(tasks, params.Page, params.Limit, int64(len(all))))
		return
	}

	// Search, date and overdue predicates are pure in-memory filters.
	tasks, err := h.taskService.ListTasks(userID, status, 0, 0)
	if err != nil {
		respondTaskError(c, err)
		return
	}
	filtered := services.FilterTasks(tasks, opts)
	total := int64(len(filtered))

	start := params.Offset
	if start > len(filtered) {
		start = len(filtered)
	}
	end := start + params.Limit
	if end > len(filtered) {
		end = len(filtered)
	}

	c.JSON(http.StatusOK, dto.ToTaskListResponse(filtered[start:end], params.Page, params.Limit, total))
}

// CreateTask creates a task for the current user.
func (h *TaskHandler) CreateTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type CreateTaskRequest struct {
		Title       string `json:"title" binding:"required"`
		Description string `json:"description"`
		TaskDate    string `json:"task_date"`
		Priority    string `json:"priority"`
		Category    string `json:"category"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	var taskDate time.Time
	if req.TaskDate != "" {
		parsed, err := time.Parse(models.DateFormat, req.TaskDate)
		if err != nil {
			apierrors.BadRequest(c, "Invalid task_date, expected YYYY-MM-DD")
			return
		}
		taskDate = parsed
	}

	task, err := h.taskService.CreateTask(services.CreateTaskInput{
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		TaskDate:    taskDate,
		Priority:    models.TaskPriority(req.Priority),
		Category:    req.Category,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

// UpdateTask overwrites a task's mutable fields.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	taskID, ok := parseTaskID(c)
	if !ok {
		return
	}

	type UpdateTaskRequest struct {
		Title       string `json:"title" binding:"required"`
		Description string `json:"description"`
		TaskDate    string `json:"task_date"`
		Priority    string `json:"priority"`
		Category    string `json:"category"`
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	var taskDate time.Time
	if req.TaskDate != "" {
		parsed, err := time.Parse(models.DateFormat, req.TaskDate)
		if err != nil {
			apierrors.BadRequest(c, "Invalid task_date, expected YYYY-MM-DD")
			return
		}
		taskDate = parsed
	}

	task, err := h.taskService.UpdateTask(taskID, userID, services.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		TaskDate:    taskDate,
		Priority:    models.TaskPriority(req.Priority),
		Category:    req.Category,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// SetStatus updates a task's status. Writing the terminal Completed status
// stamps a fresh completion time; any other status clears it.
func (h *TaskHandler) SetStatus(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	taskID, ok := parseTaskID(c)
	if !ok {
		return
	}

	type SetStatusRequest struct {
		Status string `json:"status" binding:"required"`
	}

	var req SetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.taskService.SetStatus(taskID, userID, models.TaskStatus(req.Status)); err != nil {
		respondTaskError(c, err)
		return
	}

	task, err := h.taskService.GetTask(taskID, userID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// DeleteTask hard-deletes a task.
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	taskID, ok := parseTaskID(c)
	if !ok {
		return
	}

	if err := h.taskService.DeleteTask(taskID, userID); err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Task deleted",
	})
}

// GetStats returns the current user's task statistics.
func (h *TaskHandler) GetStats(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	stats, err := h.statsService.TaskStats(userID)
	if err != nil {
		apierrors.InternalError(c, "Failed to compute statistics")
		return
	}

	c.JSON(http.StatusOK, stats)
}

func parseTaskID(c *gin.Context) (uint64, bool) {
	taskID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid task ID")
		return 0, false
	}
	return taskID, true
}

func respondTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTitleRequired),
		errors.Is(err, services.ErrInvalidStatus),
		errors.Is(err, services.ErrInvalidPriority):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrTaskNotFound):
		apierrors.NotFound(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}
