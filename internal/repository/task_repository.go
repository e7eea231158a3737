package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/aoyagi/tasktracker/internal/database"
	"github.com/aoyagi/tasktracker/internal/models"
	"github.com/aoyagi/tasktracker/internal/utils"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task
func (r *GormTaskRepository) Create(task *models.Task) error {
	return r.db.Create(task).Error
}

// FindByID finds a task by ID
func (r *GormTaskRepository) FindByID(id uint64) (*models.Task, error) {
	var task models.Task
	if err := r.db.First(&task, id).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// ListForUser retrieves a user's tasks, newest-created first
func (r *GormTaskRepository) ListForUser(userID uint64, filter TaskFilter) ([]models.Task, error) {
	var tasks []models.Task

	query := r.db.Where("user_id = ?", userID)
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Limit > 0 {
		query = query.Scopes(database.Paginate(utils.PaginationParams{
			Limit:  filter.Limit,
			Offset: filter.Offset,
		}))
	}

	if err := query.Order("created_at DESC, id DESC").Find(&tasks).Error; err != nil {
		return nil, err
	}

	return tasks, nil
}

// Update overwrites the mutable fields of a task. A column update list keeps
// status, completed_at and created_at out of the write.
func (r *GormTaskRepository) Update(task *models.Task) error {
	return r.db.Model(&models.Task{}).
		Where("id = ?", task.ID).
		Select("title", "description", "task_date", "priority", "category", "updated_at").
		Updates(map[string]interface{}{
			"title":       task.Title,
			"description": task.Description,
			"task_date":   task.TaskDate,
			"priority":    task.Priority,
			"category":    task.Category,
			"updated_at":  time.Now(),
		}).Error
}

// UpdateStatus sets status and completion timestamp in one write. completedAt
// is stored verbatim: callers pass a fresh timestamp for the terminal status
// and nil for everything else.
func (r *GormTaskRepository) UpdateStatus(id uint64, status models.TaskStatus, completedAt *time.Time) error {
	result := r.db.Model(&models.Task{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":       status,
			"completed_at": completedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete hard-deletes a task
func (r *GormTaskRepository) Delete(id uint64) error {
	return r.db.Delete(&models.Task{}, id).Error
}

// CountByStatus returns per-status task counts for a user. Statuses outside
// the current taxonomy (if any survive in old data) are reported as-is so
// totals stay honest.
func (r *GormTaskRepository) CountByStatus(userID uint64) (map[models.TaskStatus]int64, error) {
	type statusCount struct {
		Status models.TaskStatus
		Count  int64
	}

	var rows []statusCount
	err := r.db.Model(&models.Task{}).
		Select("status, COUNT(*) as count").
		Where("user_id = ?", userID).
		Group("status").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[models.TaskStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

// CountOverdue counts incomplete tasks dated before the given day. Computed
// live at query time, never cached.
func (r *GormTaskRepository) CountOverdue(userID uint64, before time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&models.Task{}).
		Where("user_id = ? AND task_date < ? AND status <> ?", userID, before, models.TaskStatusCompleted).
		Count(&count).Error
	return count, err
}
