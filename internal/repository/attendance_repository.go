package repository

import (
	"gorm.io/gorm"

	"github.com/aoyagi/tasktracker/internal/database"
	"github.com/aoyagi/tasktracker/internal/models"
)

// GormAttendanceRepository is a GORM implementation of AttendanceRepository
type GormAttendanceRepository struct {
	db *gorm.DB
}

// NewAttendanceRepository creates a new AttendanceRepository
func NewAttendanceRepository(db *gorm.DB) AttendanceRepository {
	return &GormAttendanceRepository{db: db}
}

// Create inserts a new attendance row
func (r *GormAttendanceRepository) Create(entry *models.Attendance) error {
	return r.db.Create(entry).Error
}

// FindByUserAndDate finds the row for a (user, day) pair
func (r *GormAttendanceRepository) FindByUserAndDate(userID uint64, date string) (*models.Attendance, error) {
	var entry models.Attendance
	if err := r.db.Where("user_id = ? AND date = ?", userID, date).First(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

// UpdateTimes patches only the given columns on an existing row. Columns not
// named in fields keep their current value, which is what makes a partial
// upsert safe for the untouched timestamp.
func (r *GormAttendanceRepository) UpdateTimes(userID uint64, date string, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	return r.db.Model(&models.Attendance{}).
		Where("user_id = ? AND date = ?", userID, date).
		Updates(fields).Error
}

// Delete removes the row for a (user, day) pair
func (r *GormAttendanceRepository) Delete(userID uint64, date string) error {
	return r.db.Where("user_id = ? AND date = ?", userID, date).
		Delete(&models.Attendance{}).Error
}

// ListForUser returns a user's rows newest first. Date bounds are inclusive;
// empty bounds leave the range open.
func (r *GormAttendanceRepository) ListForUser(userID uint64, startDate, endDate string) ([]models.Attendance, error) {
	var entries []models.Attendance

	query := r.db.Where("user_id = ?", userID).
		Scopes(database.DateRange("date", startDate, endDate))

	if err := query.Order("date DESC").Find(&entries).Error; err != nil {
		return nil, err
	}

	return entries, nil
}
