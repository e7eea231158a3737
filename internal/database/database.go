package database

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/aoyagi/tasktracker/internal/config"
	"github.com/aoyagi/tasktracker/internal/models"
)

var DB *gorm.DB

// Connect opens the database selected by configuration. SQLite is the
// default driver; postgres and mysql are available for hosted setups.
func Connect(cfg *config.Config) error {
	var dialector gorm.Dialector

	switch cfg.DBDriver {
	case "postgres":
		dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName)
		dialector = postgres.Open(dsn)
	case "mysql":
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName)
		dialector = mysql.Open(dsn)
	case "sqlite", "":
		if err := ensureDirForSQLite(cfg.DBPath); err != nil {
			return fmt.Errorf("failed to prepare sqlite path: %w", err)
		}
		dialector = sqlite.Open(cfg.DBPath)
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}

	var err error
	DB, err = gorm.Open(dialector, &gorm.Config{
		// Surfaces unique-constraint violations as gorm.ErrDuplicatedKey,
		// which the account store relies on instead of check-then-insert.
		TranslateError: true,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Println("Database connection established")
	return nil
}

// ensureDirForSQLite creates the parent directory for a file-backed DSN.
func ensureDirForSQLite(dsn string) error {
	if strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory") {
		return nil
	}
	clean := strings.TrimPrefix(dsn, "file:")
	clean = strings.Split(clean, "?")[0]
	dir := filepath.Dir(clean)
	if dir == "" || dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

// Initialize creates the schema. It is idempotent and must run on every
// process start before any store is used. Tasks are handled separately from
// plain AutoMigrate because an existing table may still carry the legacy
// due_date layout and has to be rewritten first.
func Initialize(db *gorm.DB) error {
	log.Println("Initializing database schema...")

	if err := db.AutoMigrate(&models.User{}); err != nil {
		return fmt.Errorf("failed to migrate users: %w", err)
	}

	if err := MigrateLegacyTasks(db); err != nil {
		return fmt.Errorf("failed to migrate legacy tasks: %w", err)
	}

	if err := db.AutoMigrate(&models.Task{}); err != nil {
		return fmt.Errorf("failed to migrate tasks: %w", err)
	}

	if err := db.AutoMigrate(&models.Attendance{}); err != nil {
		return fmt.Errorf("failed to migrate attendance: %w", err)
	}

	log.Println("Database schema ready")
	return nil
}

func GetDB() *gorm.DB {
	return DB
}

// SetDB sets the database instance (used for testing)
func SetDB(db *gorm.DB) {
	DB = db
}
