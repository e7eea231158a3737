package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/aoyagi/tasktracker/internal/constants"
	"github.com/aoyagi/tasktracker/internal/database"
	"github.com/aoyagi/tasktracker/internal/dto"
	"github.com/aoyagi/tasktracker/internal/models"
	"github.com/aoyagi/tasktracker/internal/repository"
	"github.com/aoyagi/tasktracker/internal/services"
)

// TaskHandlerTestSuite defines the test suite for TaskHandler
type TaskHandlerTestSuite struct {
	suite.Suite
	db          *gorm.DB
	handler     *TaskHandler
	taskService *services.TaskService
	authService *services.AuthService
}

// SetupTest runs before each test
func (suite *TaskHandlerTestSuite) SetupTest() {
	var err error

	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	suite.Require().NoError(err)
	suite.Require().NoError(database.Initialize(suite.db))

	userRepo := repository.NewUserRepository(suite.db)
	taskRepo := repository.NewTaskRepository(suite.db)

	suite.authService = services.NewAuthService(userRepo)
	suite.taskService = services.NewTaskService(taskRepo)
	statsService := services.NewStatsService(taskRepo)
	suite.handler = NewTaskHandler(suite.taskService, statsService)

	gin.SetMode(gin.TestMode)
}

// TearDownTest runs after each test
func (suite *TaskHandlerTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *TaskHandlerTestSuite) createTestUser(name, email string) *models.User {
	user, err := suite.authService.Signup(services.SignupInput{
		Name: name, Email: email, Password: "supersecret",
	})
	suite.Require().NoError(err)
	return user
}

func (suite *TaskHandlerTestSuite) createTestTask(userID uint64, title string) *models.Task {
	task, err := suite.taskService.CreateTask(services.CreateTaskInput{
		UserID: userID, Title: title,
	})
	suite.Require().NoError(err)
	return task
}

// Helper function to create authenticated context
func (suite *TaskHandlerTestSuite) createAuthContext(method, url string, body []byte, userID uint64) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, url, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, url, nil)
	}

	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Set(constants.ContextKeyUserID, userID)

	return c, w
}

func (suite *TaskHandlerTestSuite) setTaskParam(c *gin.Context, taskID uint64) {
	c.Params = gin.Params{{Key: "id", Value: strconv.FormatUint(taskID, 10)}}
}

func (suite *TaskHandlerTestSuite) TestListTasks_Success() {
	user := suite.createTestUser("alice", "alice@example.com")
	task := suite.createTestTask(user.ID, "Write report")

	c, w := suite.createAuthContext("GET", "/api/tasks", nil, user.ID)

	suite.handler.ListTasks(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Contains(suite.T(), response, "tasks")
	assert.Contains(suite.T(), response, "pagination")

	tasks := response["tasks"].([]interface{})
	assert.Len(suite.T(), tasks, 1)
	firstTask := tasks[0].(map[string]interface{})
	assert.Equal(suite.T(), task.Title, firstTask["title"])
}

func (suite *TaskHandlerTestSuite) TestListTasks_Unauthorized() {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/api/tasks", nil)

	suite.handler.ListTasks(c)

	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)
}

func (suite *TaskHandlerTestSuite) TestListTasks_SearchFilter() {
	user := suite.createTestUser("alice", "alice@example.com")
	suite.createTestTask(user.ID, "Budget review")
	suite.createTestTask(user.ID, "Write report")

	c, w := suite.createAuthContext("GET", "/api/tasks", nil, user.ID)
	c.Request.URL.RawQuery = "search=bud"

	suite.handler.ListTasks(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response map[string]interface{}
	assert.NoError(suite.T(), json.Unmarshal(w.Body.Bytes(), &response))
	tasks := response["tasks"].([]interface{})
	assert.Len(suite.T(), tasks, 1)
	firstTask := tasks[0].(map[string]interface{})
	assert.Equal(suite.T(), "Budget review", firstTask["title"])
}

func (suite *TaskHandlerTestSuite) TestListTasks_InvalidStatusFilter() {
	user := suite.createTestUser("alice", "alice@example.com")

	c, w := suite.createAuthContext("GET", "/api/tasks", nil, user.ID)
	c.Request.URL.RawQuery = "status=Archived"

	suite.handler.ListTasks(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func (suite *TaskHandlerTestSuite) TestCreateTask_Defaults() {
	user := suite.createTestUser("alice", "alice@example.com")

	body, _ := json.Marshal(map[string]string{"title": "Write report"})
	c, w := suite.createAuthContext("POST", "/api/tasks", body, user.ID)

	suite.handler.CreateTask(c)

	assert.Equal(suite.T(), http.StatusCreated, w.Code)

	var response dto.TaskDTO
	assert.NoError(suite.T(), json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(suite.T(), "Write report", response.Title)
	assert.Equal(suite.T(), models.TaskStatusPending, response.Status)
	assert.Equal(suite.T(), models.PriorityMedium, response.Priority)
	assert.Equal(suite.T(), models.DefaultCategory, response.Category)
	assert.Nil(suite.T(), response.CompletedAt)
}

func (suite *TaskHandlerTestSuite) TestCreateTask_MissingTitle() {
	user := suite.createTestUser("alice", "alice@example.com")

	body, _ := json.Marshal(map[string]string{"description": "no title"})
	c, w := suite.createAuthContext("POST", "/api/tasks", body, user.ID)

	suite.handler.CreateTask(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func (suite *TaskHandlerTestSuite) TestCreateTask_InvalidDate() {
	user := suite.createTestUser("alice", "alice@example.com")

	body, _ := json.Marshal(map[string]string{"title": "x", "task_date": "01/02/2024"})
	c, w := suite.createAuthContext("POST", "/api/tasks", body, user.ID)

	suite.handler.CreateTask(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func (suite *TaskHandlerTestSuite) TestSetStatus_Completed() {
	user := suite.createTestUser("alice", "alice@example.com")
	task := suite.createTestTask(user.ID, "Write report")

	body, _ := json.Marshal(map[string]string{"status": string(models.TaskStatusCompleted)})
	c, w := suite.createAuthContext("PATCH", "/api/tasks/1/status", body, user.ID)
	suite.setTaskParam(c, task.ID)

	suite.handler.SetStatus(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response dto.TaskDTO
	assert.NoError(suite.T(), json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(suite.T(), models.TaskStatusCompleted, response.Status)
	assert.NotNil(suite.T(), response.CompletedAt)
}

func (suite *TaskHandlerTestSuite) TestSetStatus_Invalid() {
	user := suite.createTestUser("alice", "alice@example.com")
	task := suite.createTestTask(user.ID, "Write report")

	body, _ := json.Marshal(map[string]string{"status": "Archived"})
	c, w := suite.createAuthContext("PATCH", "/api/tasks/1/status", body, user.ID)
	suite.setTaskParam(c, task.ID)

	suite.handler.SetStatus(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func (suite *TaskHandlerTestSuite) TestUpdateTask_NotOwner() {
	alice := suite.createTestUser("alice", "alice@example.com")
	bob := suite.createTestUser("bob", "bob@example.com")
	task := suite.createTestTask(alice.ID, "private")

	body, _ := json.Marshal(map[string]string{"title": "hijacked"})
	c, w := suite.createAuthContext("PUT", "/api/tasks/1", body, bob.ID)
	suite.setTaskParam(c, task.ID)

	suite.handler.UpdateTask(c)

	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

func (suite *TaskHandlerTestSuite) TestDeleteTask_Success() {
	user := suite.createTestUser("alice", "alice@example.com")
	task := suite.createTestTask(user.ID, "Write report")

	c, w := suite.createAuthContext("DELETE", "/api/tasks/1", nil, user.ID)
	suite.setTaskParam(c, task.ID)

	suite.handler.DeleteTask(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	// A second delete finds nothing.
	c, w = suite.createAuthContext("DELETE", "/api/tasks/1", nil, user.ID)
	suite.setTaskParam(c, task.ID)

	suite.handler.DeleteTask(c)

	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

func (suite *TaskHandlerTestSuite) TestGetStats() {
	user := suite.createTestUser("alice", "alice@example.com")
	suite.createTestTask(user.ID, "a")
	done := suite.createTestTask(user.ID, "b")
	suite.Require().NoError(suite.taskService.SetStatus(done.ID, user.ID, models.TaskStatusCompleted))

	c, w := suite.createAuthContext("GET", "/api/tasks/stats", nil, user.ID)

	suite.handler.GetStats(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var stats services.TaskStats
	assert.NoError(suite.T(), json.Unmarshal(w.Body.Bytes(), &stats))
	assert.EqualValues(suite.T(), 1, stats.Pending)
	assert.EqualValues(suite.T(), 1, stats.Completed)
	assert.EqualValues(suite.T(), 2, stats.Total)
}

// TestTaskHandlerTestSuite runs the test suite
func TestTaskHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(TaskHandlerTestSuite))
}
