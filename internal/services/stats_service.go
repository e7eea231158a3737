package services

import (
	"fmt"
	"time"

	"github.com/aoyagi/tasktracker/internal/models"
	"github.com/aoyagi/tasktracker/internal/repository"
)

// TaskStats aggregates a user's task counts by status. Total is the sum of
// every per-status count the store reported, so it stays consistent even if
// old data carries a status outside the current taxonomy.
type TaskStats struct {
	Pending    int64 `json:"pending"`
	InProgress int64 `json:"in_progress"`
	Completed  int64 `json:"completed"`
	Overdue    int64 `json:"overdue"`
	Total      int64 `json:"total"`
}

// StatsService aggregates task statistics.
type StatsService struct {
	taskRepo repository.TaskRepository
}

// NewStatsService creates a new StatsService
func NewStatsService(taskRepo repository.TaskRepository) *StatsService {
	return &StatsService{
		taskRepo: taskRepo,
	}
}

// TaskStats computes a user's statistics. Overdue is evaluated against "now"
// at query time with a naive local calendar-day comparison; it is never
// cached.
func (s *StatsService) TaskStats(userID uint64) (*TaskStats, error) {
	counts, err := s.taskRepo.CountByStatus(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count tasks: %w", err)
	}

	stats := &TaskStats{
		Pending:    counts[models.TaskStatusPending],
		InProgress: counts[models.TaskStatusInProgress],
		Completed:  counts[models.TaskStatusCompleted],
	}
	for _, count := range counts {
		stats.Total += count
	}

	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	overdue, err := s.taskRepo.CountOverdue(userID, today)
	if err != nil {
		return nil, fmt.Errorf("failed to count overdue tasks: %w", err)
	}
	stats.Overdue = overdue

	return stats, nil
}
