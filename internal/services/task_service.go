package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/aoyagi/tasktracker/internal/models"
	"github.com/aoyagi/tasktracker/internal/repository"
)

var (
	ErrTaskNotFound    = errors.New("task not found")
	ErrTitleRequired   = errors.New("title is required")
	ErrInvalidStatus   = errors.New("invalid task status")
	ErrInvalidPriority = errors.New("invalid task priority")
)

// TaskService handles task business logic
type TaskService struct {
	taskRepo repository.TaskRepository
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository) *TaskService {
	return &TaskService{
		taskRepo: taskRepo,
	}
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	UserID      uint64
	Title       string
	Description string
	TaskDate    time.Time
	Priority    models.TaskPriority
	Category    string
}

// CreateTask creates a new task for a user. Title is required; priority
// defaults to Medium, category to General, task date to today.
func (s *TaskService) CreateTask(input CreateTaskInput) (*models.Task, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrTitleRequired
	}

	if input.Priority == "" {
		input.Priority = models.PriorityMedium
	}
	if !input.Priority.IsValid() {
		return nil, ErrInvalidPriority
	}
	if input.Category == "" {
		input.Category = models.DefaultCategory
	}
	if input.TaskDate.IsZero() {
		input.TaskDate = normalizeDay(time.Now())
	} else {
		input.TaskDate = normalizeDay(input.TaskDate)
	}

	task := &models.Task{
		UserID:      input.UserID,
		Title:       input.Title,
		Description: input.Description,
		Status:      models.TaskStatusPending,
		Priority:    input.Priority,
		Category:    input.Category,
		TaskDate:    input.TaskDate,
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return task, nil
}

// ListTasks returns a user's tasks newest-created first, optionally filtered
// by exact status.
func (s *TaskService) ListTasks(userID uint64, status *models.TaskStatus, limit, offset int) ([]models.Task, error) {
	if status != nil && !status.IsValid() {
		return nil, ErrInvalidStatus
	}

	tasks, err := s.taskRepo.ListForUser(userID, repository.TaskFilter{
		Status: status,
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// GetTask returns a single task owned by the user. Foreign tasks behave as
// not found.
func (s *TaskService) GetTask(taskID, userID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	if task.UserID != userID {
		return nil, ErrTaskNotFound
	}
	return task, nil
}

// SetStatus writes a task's status. Every write of the terminal Completed
// status stamps a fresh completion time, including a redundant re-write of
// the same value; every other status clears it. Set-on-write, not
// set-on-edge.
func (s *TaskService) SetStatus(taskID, userID uint64, status models.TaskStatus) error {
	if !status.IsValid() {
		return ErrInvalidStatus
	}

	if _, err := s.GetTask(taskID, userID); err != nil {
		return err
	}

	var completedAt *time.Time
	if status == models.TaskStatusCompleted {
		now := time.Now()
		completedAt = &now
	}

	if err := s.taskRepo.UpdateStatus(taskID, status, completedAt); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to update status: %w", err)
	}
	return nil
}

// UpdateTaskInput represents input for overwriting a task's mutable fields
type UpdateTaskInput struct {
	Title       string
	Description string
	TaskDate    time.Time
	Priority    models.TaskPriority
	Category    string
}

// UpdateTask overwrites title, description, date, priority and category.
// Status and completion timestamp are never touched here.
func (s *TaskService) UpdateTask(taskID, userID uint64, input UpdateTaskInput) (*models.Task, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrTitleRequired
	}
	if input.Priority == "" {
		input.Priority = models.PriorityMedium
	}
	if !input.Priority.IsValid() {
		return nil, ErrInvalidPriority
	}
	if input.Category == "" {
		input.Category = models.DefaultCategory
	}

	task, err := s.GetTask(taskID, userID)
	if err != nil {
		return nil, err
	}

	task.Title = input.Title
	task.Description = input.Description
	if !input.TaskDate.IsZero() {
		task.TaskDate = normalizeDay(input.TaskDate)
	}
	task.Priority = input.Priority
	task.Category = input.Category

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return s.GetTask(taskID, userID)
}

// DeleteTask hard-deletes a task owned by the user.
func (s *TaskService) DeleteTask(taskID, userID uint64) error {
	if _, err := s.GetTask(taskID, userID); err != nil {
		return err
	}
	if err := s.taskRepo.Delete(taskID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}

// TaskFilterOptions are the pure in-memory filter criteria.
type TaskFilterOptions struct {
	Status      *models.TaskStatus
	SearchTerm  string
	Date        *time.Time // exact calendar-day match
	OverdueOnly bool       // task date before today and not completed
}

// FilterTasks filters a task slice in memory. The search term matches
// case-insensitively against title and description. Date and OverdueOnly are
// alternatives; when both are set, both must hold.
func FilterTasks(tasks []models.Task, opts TaskFilterOptions) []models.Task {
	now := time.Now()
	search := strings.ToLower(strings.TrimSpace(opts.SearchTerm))

	filtered := make([]models.Task, 0, len(tasks))
	for _, task := range tasks {
		if opts.Status != nil && task.Status != *opts.Status {
			continue
		}
		if search != "" {
			title := strings.ToLower(task.Title)
			description := strings.ToLower(task.Description)
			if !strings.Contains(title, search) && !strings.Contains(description, search) {
				continue
			}
		}
		if opts.Date != nil && !sameDay(task.TaskDate, *opts.Date) {
			continue
		}
		if opts.OverdueOnly && !task.IsOverdue(now) {
			continue
		}
		filtered = append(filtered, task)
	}
	return filtered
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// normalizeDay truncates a timestamp to its calendar day at midnight UTC so
// stored task dates compare cleanly.
func normalizeDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
