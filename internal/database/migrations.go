package database

import (
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/aoyagi/tasktracker/internal/models"
)

// migratedTask describes the replacement tasks table built during the legacy
// migration. It mirrors models.Task column for column, without relations, so
// the migrator can create it under a temporary name on any driver.
type migratedTask struct {
	ID          uint64              `gorm:"primarykey"`
	UserID      uint64              `gorm:"not null"`
	Title       string              `gorm:"not null"`
	Description string              `gorm:"type:text"`
	Status      models.TaskStatus   `gorm:"type:varchar(20);not null;default:'Pending'"`
	Priority    models.TaskPriority `gorm:"type:varchar(10);not null;default:'Medium'"`
	Category    string              `gorm:"type:varchar(100);not null;default:'General'"`
	TaskDate    time.Time           `gorm:"type:date;not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	CompletedAt *time.Time
}

func (migratedTask) TableName() string { return "tasks_new" }

// MigrateLegacyTasks rewrites a first-generation tasks table (nullable
// due_date, statuses To Do / In Progress / Done) into the current layout
// (non-null task_date, statuses Pending / In Progress / Completed).
//
// The migration runs only when the old column is present and the new one is
// absent, so it executes at most once per database and is a no-op on every
// later start. Copy, drop and rename happen inside a single transaction: a
// mid-migration fault leaves the legacy table untouched.
func MigrateLegacyTasks(db *gorm.DB) error {
	migrator := db.Migrator()

	if !migrator.HasTable("tasks") {
		return nil
	}

	hasLegacy := migrator.HasColumn(&models.Task{}, "due_date")
	hasCurrent := migrator.HasColumn(&models.Task{}, "task_date")
	if !hasLegacy || hasCurrent {
		return nil
	}

	log.Println("Legacy tasks schema detected, migrating...")

	// Rows with a NULL due_date get the migration run date as their task
	// date, since the current schema requires one.
	migrationDate := time.Now().Format(models.DateFormat)

	err := db.Transaction(func(tx *gorm.DB) error {
		if tx.Migrator().HasTable(&migratedTask{}) {
			if err := tx.Migrator().DropTable(&migratedTask{}); err != nil {
				return fmt.Errorf("drop stale staging table: %w", err)
			}
		}

		if err := tx.Migrator().CreateTable(&migratedTask{}); err != nil {
			return fmt.Errorf("create replacement table: %w", err)
		}

		copySQL := `
			INSERT INTO tasks_new (id, user_id, title, description, status, priority, category, task_date, created_at, updated_at, completed_at)
			SELECT id, user_id, title, description,
			       CASE status
			           WHEN 'To Do' THEN 'Pending'
			           WHEN 'In Progress' THEN 'In Progress'
			           WHEN 'Done' THEN 'Completed'
			           ELSE status
			       END,
			       priority, category,
			       COALESCE(due_date, ?),
			       created_at, created_at, completed_at
			FROM tasks`
		if err := tx.Exec(copySQL, migrationDate).Error; err != nil {
			return fmt.Errorf("copy legacy rows: %w", err)
		}

		if err := tx.Migrator().DropTable("tasks"); err != nil {
			return fmt.Errorf("drop legacy table: %w", err)
		}

		if err := tx.Migrator().RenameTable("tasks_new", "tasks"); err != nil {
			return fmt.Errorf("rename replacement table: %w", err)
		}

		return nil
	})
	if err != nil {
		return err
	}

	log.Println("Legacy tasks migration completed")
	return nil
}
