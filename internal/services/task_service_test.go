package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aoyagi/tasktracker/internal/models"
)

func TestCreateTask_Defaults(t *testing.T) {
	env := setupTestEnv(t)
	user := env.createUser(t, "alice", "alice@example.com")

	task, err := env.tasks.CreateTask(CreateTaskInput{UserID: user.ID, Title: "Write report"})
	require.NoError(t, err)
	require.Equal(t, models.TaskStatusPending, task.Status)
	require.Equal(t, models.PriorityMedium, task.Priority)
	require.Equal(t, models.DefaultCategory, task.Category)
	require.Equal(t, time.Now().Format(models.DateFormat), task.TaskDate.Format(models.DateFormat))
	require.Nil(t, task.CompletedAt)
}

func TestCreateTask_TitleRequired(t *testing.T) {
	env := setupTestEnv(t)
	user := env.createUser(t, "alice", "alice@example.com")

	_, err := env.tasks.CreateTask(CreateTaskInput{UserID: user.ID, Title: "   "})
	require.ErrorIs(t, err, ErrTitleRequired)
}

func TestCreateTask_InvalidPriority(t *testing.T) {
	env := setupTestEnv(t)
	user := env.createUser(t, "alice", "alice@example.com")

	_, err := env.tasks.CreateTask(CreateTaskInput{UserID: user.ID, Title: "x", Priority: "Urgent"})
	require.ErrorIs(t, err, ErrInvalidPriority)
}

func TestGetTask_ForeignTaskBehavesAsMissing(t *testing.T) {
	env := setupTestEnv(t)
	alice := env.createUser(t, "alice", "alice@example.com")
	bob := env.createUser(t, "bob", "bob@example.com")

	task, err := env.tasks.CreateTask(CreateTaskInput{UserID: alice.ID, Title: "private"})
	require.NoError(t, err)

	_, err = env.tasks.GetTask(task.ID, bob.ID)
	require.ErrorIs(t, err, ErrTaskNotFound)
}

func TestSetStatus_StampsCompletedAndClearsOtherwise(t *testing.T) {
	env := setupTestEnv(t)
	user := env.createUser(t, "alice", "alice@example.com")

	task, err := env.tasks.CreateTask(CreateTaskInput{UserID: user.ID, Title: "x"})
	require.NoError(t, err)

	require.NoError(t, env.tasks.SetStatus(task.ID, user.ID, models.TaskStatusCompleted))
	reloaded, err := env.tasks.GetTask(task.ID, user.ID)
	require.NoError(t, err)
	require.Equal(t, models.TaskStatusCompleted, reloaded.Status)
	require.NotNil(t, reloaded.CompletedAt)

	// Reopening the task drops the completion timestamp.
	require.NoError(t, env.tasks.SetStatus(task.ID, user.ID, models.TaskStatusInProgress))
	reloaded, err = env.tasks.GetTask(task.ID, user.ID)
	require.NoError(t, err)
	require.Nil(t, reloaded.CompletedAt)
}

func TestSetStatus_RestampsOnRedundantCompletedWrite(t *testing.T) {
	env := setupTestEnv(t)
	user := env.createUser(t, "alice", "alice@example.com")

	task, err := env.tasks.CreateTask(CreateTaskInput{UserID: user.ID, Title: "x"})
	require.NoError(t, err)

	require.NoError(t, env.tasks.SetStatus(task.ID, user.ID, models.TaskStatusCompleted))
	first, err := env.tasks.GetTask(task.ID, user.ID)
	require.NoError(t, err)
	require.NotNil(t, first.CompletedAt)

	time.Sleep(20 * time.Millisecond)

	require.NoError(t, env.tasks.SetStatus(task.ID, user.ID, models.TaskStatusCompleted))
	second, err := env.tasks.GetTask(task.ID, user.ID)
	require.NoError(t, err)
	require.NotNil(t, second.CompletedAt)
	require.True(t, second.CompletedAt.After(*first.CompletedAt))
}

func TestSetStatus_InvalidStatus(t *testing.T) {
	env := setupTestEnv(t)
	user := env.createUser(t, "alice", "alice@example.com")

	task, err := env.tasks.CreateTask(CreateTaskInput{UserID: user.ID, Title: "x"})
	require.NoError(t, err)

	require.ErrorIs(t, env.tasks.SetStatus(task.ID, user.ID, "Archived"), ErrInvalidStatus)
}

func TestUpdateTask_LeavesStatusAlone(t *testing.T) {
	env := setupTestEnv(t)
	user := env.createUser(t, "alice", "alice@example.com")

	task, err := env.tasks.CreateTask(CreateTaskInput{UserID: user.ID, Title: "x"})
	require.NoError(t, err)
	require.NoError(t, env.tasks.SetStatus(task.ID, user.ID, models.TaskStatusCompleted))

	updated, err := env.tasks.UpdateTask(task.ID, user.ID, UpdateTaskInput{
		Title:    "renamed",
		Priority: models.PriorityHigh,
		Category: "Work",
		TaskDate: mustDay(t, "2024-02-01"),
	})
	require.NoError(t, err)
	require.Equal(t, "renamed", updated.Title)
	require.Equal(t, models.PriorityHigh, updated.Priority)
	require.Equal(t, models.TaskStatusCompleted, updated.Status)
	require.NotNil(t, updated.CompletedAt)
}

func TestDeleteTask_Ownership(t *testing.T) {
	env := setupTestEnv(t)
	alice := env.createUser(t, "alice", "alice@example.com")
	bob := env.createUser(t, "bob", "bob@example.com")

	task, err := env.tasks.CreateTask(CreateTaskInput{UserID: alice.ID, Title: "x"})
	require.NoError(t, err)

	require.ErrorIs(t, env.tasks.DeleteTask(task.ID, bob.ID), ErrTaskNotFound)
	require.NoError(t, env.tasks.DeleteTask(task.ID, alice.ID))
	require.ErrorIs(t, env.tasks.DeleteTask(task.ID, alice.ID), ErrTaskNotFound)
}

func filterFixture() []models.Task {
	return []models.Task{
		{Title: "Budget review", Description: "quarterly numbers", Status: models.TaskStatusPending},
		{Title: "Write report", Description: "weekly summary", Status: models.TaskStatusCompleted},
		{Title: "Plan sprint", Description: "backlog grooming", Status: models.TaskStatusInProgress},
	}
}

func TestFilterTasks_SearchMatchesTitleAndDescription(t *testing.T) {
	tasks := filterFixture()

	filtered := FilterTasks(tasks, TaskFilterOptions{SearchTerm: "bud"})
	require.Len(t, filtered, 1)
	require.Equal(t, "Budget review", filtered[0].Title)

	// Description matches too, case-insensitively.
	filtered = FilterTasks(tasks, TaskFilterOptions{SearchTerm: "WEEKLY"})
	require.Len(t, filtered, 1)
	require.Equal(t, "Write report", filtered[0].Title)

	filtered = FilterTasks(tasks, TaskFilterOptions{SearchTerm: "nomatch"})
	require.Empty(t, filtered)
}

func TestFilterTasks_Status(t *testing.T) {
	tasks := filterFixture()

	status := models.TaskStatusCompleted
	filtered := FilterTasks(tasks, TaskFilterOptions{Status: &status})
	require.Len(t, filtered, 1)
	require.Equal(t, "Write report", filtered[0].Title)
}

func TestFilterTasks_Date(t *testing.T) {
	target := mustDay(t, "2024-03-01")
	tasks := []models.Task{
		{Title: "on day", TaskDate: target},
		{Title: "off day", TaskDate: mustDay(t, "2024-03-02")},
	}

	filtered := FilterTasks(tasks, TaskFilterOptions{Date: &target})
	require.Len(t, filtered, 1)
	require.Equal(t, "on day", filtered[0].Title)
}

func TestFilterTasks_OverdueOnly(t *testing.T) {
	yesterday := time.Now().AddDate(0, 0, -1)
	tomorrow := time.Now().AddDate(0, 0, 1)
	tasks := []models.Task{
		{Title: "late", Status: models.TaskStatusPending, TaskDate: yesterday},
		{Title: "late but done", Status: models.TaskStatusCompleted, TaskDate: yesterday},
		{Title: "future", Status: models.TaskStatusPending, TaskDate: tomorrow},
	}

	filtered := FilterTasks(tasks, TaskFilterOptions{OverdueOnly: true})
	require.Len(t, filtered, 1)
	require.Equal(t, "late", filtered[0].Title)
}
