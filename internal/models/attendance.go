package models

import (
	"time"
)

// Attendance is one per-user-per-day work log entry. Date is stored as an
// ISO-8601 day string so the (user_id, date) pair stays unique and range
// queries compare lexicographically on every supported driver.
type Attendance struct {
	ID         uint64     `gorm:"primarykey" json:"id"`
	UserID     uint64     `gorm:"not null;uniqueIndex:idx_attendance_user_date" json:"user_id"`
	Date       string     `gorm:"type:varchar(10);not null;uniqueIndex:idx_attendance_user_date" json:"date"`
	LoginTime  *time.Time `json:"login_time"`
	LogoutTime *time.Time `json:"logout_time"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"-"`
}
