package dto

import (
	"time"

	"github.com/aoyagi/tasktracker/internal/models"
)

// AttendanceDTO represents one attendance entry in API responses
type AttendanceDTO struct {
	Date       string     `json:"date"`
	LoginTime  *time.Time `json:"login_time"`
	LogoutTime *time.Time `json:"logout_time"`
}

func ToAttendanceDTO(entry models.Attendance) AttendanceDTO {
	return AttendanceDTO{
		Date:       entry.Date,
		LoginTime:  entry.LoginTime,
		LogoutTime: entry.LogoutTime,
	}
}

func ToAttendanceListDTO(entries []models.Attendance) []AttendanceDTO {
	items := make([]AttendanceDTO, 0, len(entries))
	for _, entry := range entries {
		items = append(items, ToAttendanceDTO(entry))
	}
	return items
}
