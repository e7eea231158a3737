package repository

import (
	"time"

	"github.com/aoyagi/tasktracker/internal/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create inserts a new user. Uniqueness of name and email is enforced
	// by the storage constraints, never by a prior lookup.
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByUsername finds a user by their login name
	FindByUsername(name string) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)
}

// TaskFilter holds filtering options for listing tasks
type TaskFilter struct {
	Status *models.TaskStatus
	Limit  int
	Offset int
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.Task) error

	// FindByID finds a task by ID
	FindByID(id uint64) (*models.Task, error)

	// ListForUser retrieves a user's tasks, newest-created first
	ListForUser(userID uint64, filter TaskFilter) ([]models.Task, error)

	// Update overwrites a task's mutable fields (title, description,
	// task date, priority, category). Status and completion timestamp
	// are not touched.
	Update(task *models.Task) error

	// UpdateStatus sets status and completion timestamp in one write
	UpdateStatus(id uint64, status models.TaskStatus, completedAt *time.Time) error

	// Delete hard-deletes a task
	Delete(id uint64) error

	// CountByStatus returns per-status task counts for a user
	CountByStatus(userID uint64) (map[models.TaskStatus]int64, error)

	// CountOverdue counts incomplete tasks dated before the given day
	CountOverdue(userID uint64, before time.Time) (int64, error)
}

// AttendanceRepository defines the interface for attendance data access
type AttendanceRepository interface {
	// Create inserts a new attendance row
	Create(entry *models.Attendance) error

	// FindByUserAndDate finds the row for a (user, day) pair
	FindByUserAndDate(userID uint64, date string) (*models.Attendance, error)

	// UpdateTimes patches only the given columns on an existing row
	UpdateTimes(userID uint64, date string, fields map[string]interface{}) error

	// Delete removes the row for a (user, day) pair
	Delete(userID uint64, date string) error

	// ListForUser returns a user's rows newest first, optionally limited
	// to an inclusive date range
	ListForUser(userID uint64, startDate, endDate string) ([]models.Attendance, error)
}
