package dto

import (
	"time"

	"github.com/aoyagi/tasktracker/internal/models"
	"github.com/aoyagi/tasktracker/internal/utils"
)

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID          uint64              `json:"id"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Status      models.TaskStatus   `json:"status"`
	Priority    models.TaskPriority `json:"priority"`
	Category    string              `json:"category"`
	TaskDate    string              `json:"task_date"`
	CreatedAt   time.Time           `json:"created_at"`
	CompletedAt *time.Time          `json:"completed_at"`
	Overdue     bool                `json:"overdue"`
}

// TaskListResponse is the envelope for task list endpoints
type TaskListResponse struct {
	Tasks      []TaskDTO                `json:"tasks"`
	Pagination utils.PaginationResponse `json:"pagination"`
}

func ToTaskDTO(task models.Task) TaskDTO {
	return TaskDTO{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Status:      task.Status,
		Priority:    task.Priority,
		Category:    task.Category,
		TaskDate:    task.TaskDate.Format(models.DateFormat),
		CreatedAt:   task.CreatedAt,
		CompletedAt: task.CompletedAt,
		Overdue:     task.IsOverdue(time.Now()),
	}
}

func ToTaskListResponse(tasks []models.Task, page, limit int, total int64) TaskListResponse {
	items := make([]TaskDTO, 0, len(tasks))
	for _, task := range tasks {
		items = append(items, ToTaskDTO(task))
	}
	return TaskListResponse{
		Tasks: items,
		Pagination: utils.PaginationResponse{
			Page:  page,
			Limit: limit,
			Total: total,
		},
	}
}
