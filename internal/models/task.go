package models

import (
	"time"
)

type TaskStatus string

// Current status taxonomy. The legacy values below only ever appear in
// databases written before the task_date migration.
const (
	TaskStatusPending    TaskStatus = "Pending"
	TaskStatusInProgress TaskStatus = "In Progress"
	TaskStatusCompleted  TaskStatus = "Completed"
)

// Legacy status taxonomy, keyed off the old nullable due_date column.
const (
	LegacyStatusToDo       TaskStatus = "To Do"
	LegacyStatusInProgress TaskStatus = "In Progress"
	LegacyStatusDone       TaskStatus = "Done"
)

// LegacyStatusMap is the one-way legacy→current migration table.
var LegacyStatusMap = map[TaskStatus]TaskStatus{
	LegacyStatusToDo:       TaskStatusPending,
	LegacyStatusInProgress: TaskStatusInProgress,
	LegacyStatusDone:       TaskStatusCompleted,
}

// Statuses lists the current taxonomy in display order.
func Statuses() []TaskStatus {
	return []TaskStatus{TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted}
}

// IsValid reports whether s is a member of the current taxonomy.
func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted:
		return true
	}
	return false
}

type TaskPriority string

const (
	PriorityLow    TaskPriority = "Low"
	PriorityMedium TaskPriority = "Medium"
	PriorityHigh   TaskPriority = "High"
)

func (p TaskPriority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// DefaultCategory is applied when a task is created without one.
const DefaultCategory = "General"

// DateFormat is the ISO-8601 day format used for calendar-date fields.
const DateFormat = "2006-01-02"

type Task struct {
	ID          uint64       `gorm:"primarykey" json:"id"`
	UserID      uint64       `gorm:"not null;index" json:"user_id"`
	Title       string       `gorm:"not null" json:"title"`
	Description string       `gorm:"type:text" json:"description"`
	Status      TaskStatus   `gorm:"type:varchar(20);not null;default:'Pending'" json:"status"`
	Priority    TaskPriority `gorm:"type:varchar(10);not null;default:'Medium'" json:"priority"`
	Category    string       `gorm:"type:varchar(100);not null;default:'General'" json:"category"`
	TaskDate    time.Time    `gorm:"type:date;not null" json:"task_date"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
	CompletedAt *time.Time   `json:"completed_at"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"-"`
}

// IsOverdue reports whether the task's date has passed without completion.
// The comparison is a naive local calendar-day check, as the original store
// did it; there is no timezone modeling.
func (t Task) IsOverdue(today time.Time) bool {
	if t.Status == TaskStatusCompleted {
		return false
	}
	y, m, d := today.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	ty, tm, td := t.TaskDate.Date()
	taskDay := time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC)
	return taskDay.Before(day)
}
