package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/aoyagi/tasktracker/internal/database"
	"github.com/aoyagi/tasktracker/internal/models"
	"github.com/aoyagi/tasktracker/internal/repository"
)

type testEnv struct {
	db          *gorm.DB
	tasks       *TaskService
	attendance  *AttendanceService
	stats       *StatsService
	reports     *ReportService
	auth        *AuthService
	taskRepo    repository.TaskRepository
	attendRepo  repository.AttendanceRepository
}

func setupTestEnv(t *testing.T) testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, database.Initialize(db))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	attendRepo := repository.NewAttendanceRepository(db)

	return testEnv{
		db:         db,
		tasks:      NewTaskService(taskRepo),
		attendance: NewAttendanceService(attendRepo),
		stats:      NewStatsService(taskRepo),
		reports:    NewReportService(taskRepo, attendRepo),
		auth:       NewAuthService(userRepo),
		taskRepo:   taskRepo,
		attendRepo: attendRepo,
	}
}

func (env testEnv) createUser(t *testing.T, name, email string) *models.User {
	t.Helper()

	user, err := env.auth.Signup(SignupInput{Name: name, Email: email, Password: "supersecret"})
	require.NoError(t, err)
	return user
}

func mustDay(t *testing.T, value string) time.Time {
	t.Helper()

	d, err := time.Parse(models.DateFormat, value)
	require.NoError(t, err)
	return d
}

func timePtr(t time.Time) *time.Time { return &t }
