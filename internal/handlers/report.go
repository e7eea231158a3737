package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apierrors "github.com/aoyagi/tasktracker/internal/errors"
	"github.com/aoyagi/tasktracker/internal/middleware"
	"github.com/aoyagi/tasktracker/internal/models"
	"github.com/aoyagi/tasktracker/internal/services"
	"github.com/aoyagi/tasktracker/internal/utils"
)

// ReportHandler serves spreadsheet exports. Workbooks are built fully in
// memory and streamed back; nothing touches the filesystem.
type ReportHandler struct {
	taskService   *services.TaskService
	statsService  *services.StatsService
	reportService *services.ReportService
	authService   *services.AuthService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(taskService *services.TaskService, statsService *services.StatsService, reportService *services.ReportService, authService *services.AuthService) *ReportHandler {
	return &ReportHandler{
		taskService:   taskService,
		statsService:  statsService,
		reportService: reportService,
		authService:   authService,
	}
}

// ExportTasks streams the task report workbook (Tasks, Summary,
// Weekly_Breakdown sheets).
func (h *ReportHandler) ExportTasks(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	user, err := h.authService.GetUser(userID)
	if err != nil {
		apierrors.InternalError(c, "Failed to load user")
		return
	}

	tasks, err := h.taskService.ListTasks(userID, nil, 0, 0)
	if err != nil {
		apierrors.InternalError(c, "Failed to load tasks")
		return
	}

	stats, err := h.statsService.TaskStats(userID)
	if err != nil {
		apierrors.InternalError(c, "Failed to compute statistics")
		return
	}

	frame := services.BuildTaskFrame(tasks)
	metrics := services.ComputeProductivityMetrics(frame)

	workbook, err := h.reportService.ExportTaskWorkbook(frame, stats, metrics)
	if err != nil {
		apierrors.InternalError(c, "Failed to build workbook")
		return
	}

	filename := utils.TaskReportFilename(user.Name, time.Now().Format("20060102"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, utils.XLSXContentType, workbook)
}

// ExportAttendance streams the combined attendance/task workbook (Tasks,
// Attendance, Summary sheets) for an inclusive date range.
func (h *ReportHandler) ExportAttendance(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	start := c.Query("start")
	end := c.Query("end")
	if start == "" || end == "" {
		apierrors.BadRequest(c, "start and end query parameters are required")
		return
	}

	user, err := h.authService.GetUser(userID)
	if err != nil {
		apierrors.InternalError(c, "Failed to load user")
		return
	}

	report, err := h.reportService.BuildAttendanceTaskReport(userID, start, end)
	if err != nil {
		if errors.Is(err, services.ErrInvalidDate) || errors.Is(err, services.ErrInvalidDateRange) {
			apierrors.BadRequest(c, err.Error())
			return
		}
		apierrors.InternalError(c, "Failed to build report")
		return
	}

	tasks, err := h.taskService.ListTasks(userID, nil, 0, 0)
	if err != nil {
		apierrors.InternalError(c, "Failed to load tasks")
		return
	}

	stats, err := h.statsService.TaskStats(userID)
	if err != nil {
		apierrors.InternalError(c, "Failed to compute statistics")
		return
	}

	frame := services.BuildTaskFrame(tasks)
	metrics := services.ComputeProductivityMetrics(frame)

	workbook, err := h.reportService.ExportAttendanceWorkbook(frame, report, stats, metrics)
	if err != nil {
		apierrors.InternalError(c, "Failed to build workbook")
		return
	}

	startCompact := compactDate(start)
	endCompact := compactDate(end)
	filename := utils.AttendanceReportFilename(user.Name, startCompact, endCompact)
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, utils.XLSXContentType, workbook)
}

// compactDate turns YYYY-MM-DD into YYYYMMDD for filenames.
func compactDate(date string) string {
	if t, err := time.Parse(models.DateFormat, date); err == nil {
		return t.Format("20060102")
	}
	return date
}
