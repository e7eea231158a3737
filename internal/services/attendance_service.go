package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/aoyagi/tasktracker/internal/models"
	"github.com/aoyagi/tasktracker/internal/repository"
)

var (
	ErrInvalidDate      = errors.New("invalid date, expected YYYY-MM-DD")
	ErrNoTimesSupplied  = errors.New("at least one of login or logout time is required")
	ErrEntryNotFound    = errors.New("attendance entry not found")
	ErrInvalidDateRange = errors.New("start date must not be after end date")
)

// AttendanceService handles the per-user-per-day attendance log.
type AttendanceService struct {
	attendanceRepo repository.AttendanceRepository
}

// NewAttendanceService creates a new AttendanceService
func NewAttendanceService(attendanceRepo repository.AttendanceRepository) *AttendanceService {
	return &AttendanceService{
		attendanceRepo: attendanceRepo,
	}
}

// UpsertInput carries an attendance write. Nil time fields mean "leave the
// stored value alone", not "clear it".
type UpsertInput struct {
	UserID     uint64
	Date       string
	LoginTime  *time.Time
	LogoutTime *time.Time
}

// Upsert inserts or updates the entry for (user, date).
//
// Three-way branch: no existing row inserts whatever was supplied; an
// existing row with both times supplied gets both overwritten; an existing
// row with one time supplied gets only that column patched. A partial update
// never nulls out the untouched field.
func (s *AttendanceService) Upsert(input UpsertInput) (*models.Attendance, error) {
	if _, err := time.Parse(models.DateFormat, input.Date); err != nil {
		return nil, ErrInvalidDate
	}
	if input.LoginTime == nil && input.LogoutTime == nil {
		return nil, ErrNoTimesSupplied
	}

	existing, err := s.attendanceRepo.FindByUserAndDate(input.UserID, input.Date)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to look up attendance: %w", err)
		}

		entry := &models.Attendance{
			UserID:     input.UserID,
			Date:       input.Date,
			LoginTime:  input.LoginTime,
			LogoutTime: input.LogoutTime,
		}
		if err := s.attendanceRepo.Create(entry); err != nil {
			return nil, fmt.Errorf("failed to create attendance: %w", err)
		}
		return entry, nil
	}

	fields := map[string]interface{}{}
	switch {
	case input.LoginTime != nil && input.LogoutTime != nil:
		fields["login_time"] = input.LoginTime
		fields["logout_time"] = input.LogoutTime
	case input.LoginTime != nil:
		fields["login_time"] = input.LoginTime
	case input.LogoutTime != nil:
		fields["logout_time"] = input.LogoutTime
	}

	if err := s.attendanceRepo.UpdateTimes(input.UserID, input.Date, fields); err != nil {
		return nil, fmt.Errorf("failed to update attendance: %w", err)
	}

	if input.LoginTime != nil {
		existing.LoginTime = input.LoginTime
	}
	if input.LogoutTime != nil {
		existing.LogoutTime = input.LogoutTime
	}
	return existing, nil
}

// Delete removes the entry for (user, date).
func (s *AttendanceService) Delete(userID uint64, date string) error {
	if _, err := time.Parse(models.DateFormat, date); err != nil {
		return ErrInvalidDate
	}

	if _, err := s.attendanceRepo.FindByUserAndDate(userID, date); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEntryNotFound
		}
		return fmt.Errorf("failed to look up attendance: %w", err)
	}

	if err := s.attendanceRepo.Delete(userID, date); err != nil {
		return fmt.Errorf("failed to delete attendance: %w", err)
	}
	return nil
}

// List returns a user's entries newest first. Both bounds empty means
// unbounded; otherwise the range is inclusive.
func (s *AttendanceService) List(userID uint64, startDate, endDate string) ([]models.Attendance, error) {
	if startDate != "" {
		if _, err := time.Parse(models.DateFormat, startDate); err != nil {
			return nil, ErrInvalidDate
		}
	}
	if endDate != "" {
		if _, err := time.Parse(models.DateFormat, endDate); err != nil {
			return nil, ErrInvalidDate
		}
	}
	if startDate != "" && endDate != "" && startDate > endDate {
		return nil, ErrInvalidDateRange
	}

	entries, err := s.attendanceRepo.ListForUser(userID, startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}
	return entries, nil
}
