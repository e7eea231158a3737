package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/aoyagi/tasktracker/internal/dto"
	apierrors "github.com/aoyagi/tasktracker/internal/errors"
	"github.com/aoyagi/tasktracker/internal/middleware"
	"github.com/aoyagi/tasktracker/internal/services"
)

// AttendanceHandler coordinates attendance log endpoints.
type AttendanceHandler struct {
	attendanceService *services.AttendanceService
}

// NewAttendanceHandler creates a new AttendanceHandler
func NewAttendanceHandler(attendanceService *services.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{
		attendanceService: attendanceService,
	}
}

// Upsert inserts or updates the entry for a day. Omitted time fields leave
// the stored values untouched.
func (h *AttendanceHandler) Upsert(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type UpsertRequest struct {
		Date       string     `json:"date" binding:"required"`
		LoginTime  *time.Time `json:"login_time"`
		LogoutTime *time.Time `json:"logout_time"`
	}

	var req UpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	entry, err := h.attendanceService.Upsert(services.UpsertInput{
		UserID:     userID,
		Date:       req.Date,
		LoginTime:  req.LoginTime,
		LogoutTime: req.LogoutTime,
	})
	if err != nil {
		respondAttendanceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToAttendanceDTO(*entry))
}

// Delete removes the entry for a day.
func (h *AttendanceHandler) Delete(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	date := c.Query("date")
	if date == "" {
		apierrors.BadRequest(c, "date query parameter is required")
		return
	}

	if err := h.attendanceService.Delete(userID, date); err != nil {
		respondAttendanceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Attendance entry deleted",
	})
}

// List returns the current user's entries, newest first. start/end query
// params give an inclusive range; without them the listing is unbounded.
func (h *AttendanceHandler) List(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	entries, err := h.attendanceService.List(userID, c.Query("start"), c.Query("end"))
	if err != nil {
		respondAttendanceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"attendance": dto.ToAttendanceListDTO(entries),
	})
}

func respondAttendanceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidDate),
		errors.Is(err, services.ErrInvalidDateRange),
		errors.Is(err, services.ErrNoTimesSupplied):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrEntryNotFound):
		apierrors.NotFound(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}
