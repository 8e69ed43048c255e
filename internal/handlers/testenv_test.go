package handlers

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/betodolist/betodolist-api/internal/authz"
	"github.com/betodolist/betodolist-api/internal/constants"
	"github.com/betodolist/betodolist-api/internal/database"
	"github.com/betodolist/betodolist-api/internal/models"
	"github.com/betodolist/betodolist-api/internal/repository"
	"github.com/betodolist/betodolist-api/internal/services"
)

type handlerTestEnv struct {
	db             *gorm.DB
	authz          *authz.Service
	projectService *services.ProjectService
	taskService    *services.TaskService
}

func setupHandlerTestEnv(t *testing.T) handlerTestEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.ProjectMember{},
		&models.ProjectList{},
		&models.ProjectTask{},
		&models.TaskComment{},
		&models.TaskAttachment{},
		&models.TaskChecklist{},
		&models.TaskChecklistItem{},
		&models.TaskLabel{},
		&models.TaskLabelMap{},
		&models.TaskAssignee{},
		&models.Todo{},
	)
	require.NoError(t, err)

	database.SetDB(db)

	projectRepo := repository.NewProjectRepository(db)
	listRepo := repository.NewListRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	userRepo := repository.NewUserRepository(db)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return handlerTestEnv{
		db:             db,
		authz:          authz.NewService(db),
		projectService: services.NewProjectService(projectRepo, listRepo, userRepo),
		taskService:    services.NewTaskService(taskRepo, listRepo),
	}
}

func handlerTestContext(method, url string, body []byte, userID uint64) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, url, bytes.NewReader(body))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Set(constants.ContextKeyUserID, userID)

	return c, w
}

func multipartTestContext(t *testing.T, url, field, filename string, content []byte, userID uint64) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, url, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Set(constants.ContextKeyUserID, userID)

	return c, w
}

func createHandlerTestUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	user := &models.User{Name: email, Email: email, PasswordHash: "hashed"}
	require.NoError(t, db.Create(user).Error)
	return user
}

// seedAccessFixture builds a project owned by one user with a second plain
// member and one task, the shared starting point for access checks.
type accessFixture struct {
	owner   *models.User
	member  *models.User
	project *models.Project
	task    *models.ProjectTask
}

func seedAccessFixture(t *testing.T, env handlerTestEnv) accessFixture {
	t.Helper()

	owner := createHandlerTestUser(t, env.db, "owner@example.com")
	member := createHandlerTestUser(t, env.db, "member@example.com")

	project, err := env.projectService.CreateProject(services.CreateProjectInput{
		Name:    "Shared",
		OwnerID: owner.ID,
	})
	require.NoError(t, err)

	_, _, err = env.projectService.AddMember(services.AddMemberInput{
		ProjectID: project.ID,
		UserID:    member.ID,
	})
	require.NoError(t, err)

	task, err := env.taskService.CreateTask(services.CreateTaskInput{
		ProjectID: project.ID,
		Title:     "Shared task",
	})
	require.NoError(t, err)

	return accessFixture{owner: owner, member: member, project: project, task: task}
}

func withTaskInContext(c *gin.Context, task models.ProjectTask) {
	c.Set(constants.ContextKeyTask, task)
}

func withParam(c *gin.Context, key, value string) {
	c.Params = append(c.Params, gin.Param{Key: key, Value: value})
}
