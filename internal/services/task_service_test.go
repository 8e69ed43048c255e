package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/betodolist/betodolist-api/internal/models"
	"github.com/betodolist/betodolist-api/internal/repository"
)

type taskTestEnv struct {
	projectTestEnv
	taskService *TaskService
	projectID   uint64
	listID      uint64
}

func setupTaskTestEnv(t *testing.T) taskTestEnv {
	t.Helper()

	env := setupProjectTestEnv(t)
	owner := createTestUser(t, env.db, "owner@example.com")

	project, err := env.projectService.CreateProject(CreateProjectInput{Name: "P", OwnerID: owner.ID})
	require.NoError(t, err)

	lists, err := env.listService.ListLists(project.ID)
	require.NoError(t, err)

	taskRepo := repository.NewTaskRepository(env.db)
	listRepo := repository.NewListRepository(env.db)

	return taskTestEnv{
		projectTestEnv: env,
		taskService:    NewTaskService(taskRepo, listRepo),
		projectID:      project.ID,
		listID:         lists[0].ID,
	}
}

func TestCreateTask_Defaults(t *testing.T) {
	env := setupTaskTestEnv(t)

	task, err := env.taskService.CreateTask(CreateTaskInput{
		ProjectID: env.projectID,
		Title:     "Write docs",
	})
	require.NoError(t, err)
	require.Equal(t, models.TaskStatusTodo, task.Status)
	require.Equal(t, models.PriorityMedium, task.Priority)
	require.Nil(t, task.ListID)
}

func TestCreateTask_Validation(t *testing.T) {
	env := setupTaskTestEnv(t)

	_, err := env.taskService.CreateTask(CreateTaskInput{ProjectID: env.projectID})
	require.ErrorIs(t, err, ErrTitleRequired)

	_, err = env.taskService.CreateTask(CreateTaskInput{
		ProjectID: env.projectID,
		Title:     "T",
		Status:    "blocked",
	})
	require.ErrorIs(t, err, ErrInvalidStatus)

	_, err = env.taskService.CreateTask(CreateTaskInput{
		ProjectID: env.projectID,
		Title:     "T",
		Priority:  "urgent",
	})
	require.ErrorIs(t, err, ErrInvalidPriority)
}

func TestCreateTask_RejectsForeignList(t *testing.T) {
	env := setupTaskTestEnv(t)
	owner := &models.User{Name: "other", Email: "other@example.com", PasswordHash: "x"}
	require.NoError(t, env.db.Create(owner).Error)

	other, err := env.projectService.CreateProject(CreateProjectInput{Name: "Other", OwnerID: owner.ID})
	require.NoError(t, err)
	foreignLists, err := env.listService.ListLists(other.ID)
	require.NoError(t, err)

	_, err = env.taskService.CreateTask(CreateTaskInput{
		ProjectID: env.projectID,
		Title:     "T",
		ListID:    &foreignLists[0].ID,
	})
	require.ErrorIs(t, err, ErrListNotInProject)

	missing := uint64(9999)
	_, err = env.taskService.CreateTask(CreateTaskInput{
		ProjectID: env.projectID,
		Title:     "T",
		ListID:    &missing,
	})
	require.ErrorIs(t, err, ErrListNotInProject)
}

func TestUpdateTask_AbsentFieldsUntouched(t *testing.T) {
	env := setupTaskTestEnv(t)

	desc := "original"
	due := time.Now().Add(24 * time.Hour).UTC().Truncate(time.Second)
	task, err := env.taskService.CreateTask(CreateTaskInput{
		ProjectID:   env.projectID,
		Title:       "T",
		Description: &desc,
		DueDate:     &due,
	})
	require.NoError(t, err)

	title := "Renamed"
	updated, err := env.taskService.UpdateTask(task, UpdateTaskInput{Title: &title})
	require.NoError(t, err)
	require.Equal(t, "Renamed", updated.Title)
	require.Equal(t, "original", *updated.Description)
	require.NotNil(t, updated.DueDate)
}

func TestUpdateTask_ExplicitNullClears(t *testing.T) {
	env := setupTaskTestEnv(t)

	due := time.Now().Add(24 * time.Hour)
	assignee := uint64(1)
	task, err := env.taskService.CreateTask(CreateTaskInput{
		ProjectID:  env.projectID,
		Title:      "T",
		DueDate:    &due,
		AssigneeID: &assignee,
		ListID:     &env.listID,
	})
	require.NoError(t, err)

	updated, err := env.taskService.UpdateTask(task, UpdateTaskInput{
		ClearDueDate:  true,
		ClearAssignee: true,
		ClearList:     true,
	})
	require.NoError(t, err)
	require.Nil(t, updated.DueDate)
	require.Nil(t, updated.AssigneeID)
	require.Nil(t, updated.ListID)

	var stored models.ProjectTask
	require.NoError(t, env.db.First(&stored, task.ID).Error)
	require.Nil(t, stored.DueDate)
	require.Nil(t, stored.AssigneeID)
	require.Nil(t, stored.ListID)
}

func TestUpdateTask_EmptyTitleRejected(t *testing.T) {
	env := setupTaskTestEnv(t)

	task, err := env.taskService.CreateTask(CreateTaskInput{ProjectID: env.projectID, Title: "T"})
	require.NoError(t, err)

	empty := ""
	_, err = env.taskService.UpdateTask(task, UpdateTaskInput{Title: &empty})
	require.ErrorIs(t, err, ErrTitleEmpty)
}

func TestUpdateTask_MoveToForeignListRejected(t *testing.T) {
	env := setupTaskTestEnv(t)
	owner := &models.User{Name: "other", Email: "other@example.com", PasswordHash: "x"}
	require.NoError(t, env.db.Create(owner).Error)

	other, err := env.projectService.CreateProject(CreateProjectInput{Name: "Other", OwnerID: owner.ID})
	require.NoError(t, err)
	foreignLists, err := env.listService.ListLists(other.ID)
	require.NoError(t, err)

	task, err := env.taskService.CreateTask(CreateTaskInput{ProjectID: env.projectID, Title: "T"})
	require.NoError(t, err)

	_, err = env.taskService.UpdateTask(task, UpdateTaskInput{ListID: &foreignLists[0].ID})
	require.ErrorIs(t, err, ErrListNotInProject)
}

func TestDeleteTask(t *testing.T) {
	env := setupTaskTestEnv(t)

	task, err := env.taskService.CreateTask(CreateTaskInput{ProjectID: env.projectID, Title: "T"})
	require.NoError(t, err)

	require.NoError(t, env.taskService.DeleteTask(task.ID))

	var stored models.ProjectTask
	err = env.db.First(&stored, task.ID).Error
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestListTasks_Pagination(t *testing.T) {
	env := setupTaskTestEnv(t)

	for i := 0; i < 5; i++ {
		_, err := env.taskService.CreateTask(CreateTaskInput{
			ProjectID: env.projectID,
			Title:     "Task",
		})
		require.NoError(t, err)
	}

	tasks, total, err := env.taskService.ListTasks(env.projectID, 0, 2)
	require.NoError(t, err)
	require.Equal(t, int64(5), total)
	require.Len(t, tasks, 2)

	tasks, _, err = env.taskService.ListTasks(env.projectID, 4, 2)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
}
