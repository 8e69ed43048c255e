package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/betodolist/betodolist-api/internal/models"
	"github.com/betodolist/betodolist-api/internal/repository"
)

var (
	ErrTaskNotFound    = errors.New("task not found")
	ErrTitleRequired   = errors.New("title is required")
	ErrTitleEmpty      = errors.New("title cannot be empty")
	ErrInvalidStatus   = errors.New("invalid status")
	ErrInvalidPriority = errors.New("invalid priority")
	// ErrListNotInProject is returned when a task references a list of a
	// different project.
	ErrListNotInProject = errors.New("invalid list_id for this project")
)

// TaskService handles task business logic.
type TaskService struct {
	taskRepo repository.TaskRepository
	listRepo repository.ListRepository
}

// NewTaskService creates a new TaskService.
func NewTaskService(taskRepo repository.TaskRepository, listRepo repository.ListRepository) *TaskService {
	return &TaskService{
		taskRepo: taskRepo,
		listRepo: listRepo,
	}
}

// ListTasks returns a project's tasks newest first.
func (s *TaskService) ListTasks(projectID uint64, offset, limit int) ([]models.ProjectTask, int64, error) {
	tasks, total, err := s.taskRepo.ListByProject(projectID, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, total, nil
}

// CreateTaskInput represents input for creating a task.
type CreateTaskInput struct {
	ProjectID   uint64
	Title       string
	Description *string
	AssigneeID  *uint64
	DueDate     *time.Time
	Status      models.TaskStatus
	Priority    models.TaskPriority
	ListID      *uint64
}

// CreateTask creates a task after validating that a referenced list belongs
// to the same project.
func (s *TaskService) CreateTask(input CreateTaskInput) (*models.ProjectTask, error) {
	if input.Title == "" {
		return nil, ErrTitleRequired
	}
	if input.Status == "" {
		input.Status = models.TaskStatusTodo
	}
	if !input.Status.Valid() {
		return nil, ErrInvalidStatus
	}
	if input.Priority == "" {
		input.Priority = models.PriorityMedium
	}
	if !input.Priority.Valid() {
		return nil, ErrInvalidPriority
	}

	if input.ListID != nil {
		if err := s.ensureListInProject(*input.ListID, input.ProjectID); err != nil {
			return nil, err
		}
	}

	task := &models.ProjectTask{
		ProjectID:   input.ProjectID,
		ListID:      input.ListID,
		Title:       input.Title,
		Description: input.Description,
		Status:      input.Status,
		AssigneeID:  input.AssigneeID,
		DueDate:     input.DueDate,
		Priority:    input.Priority,
	}
	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	return task, nil
}

// UpdateTaskInput carries the patchable task fields. A nil pointer means the
// field was absent from the request; the Clear flags encode an explicit null.
type UpdateTaskInput struct {
	Title         *string
	Description   *string
	Status        *models.TaskStatus
	Priority      *models.TaskPriority
	DueDate       *time.Time
	ClearDueDate  bool
	AssigneeID    *uint64
	ClearAssignee bool
	ListID        *uint64
	ClearList     bool
}

// UpdateTask patches a task. Moving it to a list of another project is
// rejected; an explicit null list detaches it.
func (s *TaskService) UpdateTask(task *models.ProjectTask, input UpdateTaskInput) (*models.ProjectTask, error) {
	if input.Title != nil {
		if *input.Title == "" {
			return nil, ErrTitleEmpty
		}
		task.Title = *input.Title
	}
	if input.Description != nil {
		task.Description = input.Description
	}
	if input.Status != nil {
		if !input.Status.Valid() {
			return nil, ErrInvalidStatus
		}
		task.Status = *input.Status
	}
	if input.Priority != nil {
		if !input.Priority.Valid() {
			return nil, ErrInvalidPriority
		}
		task.Priority = *input.Priority
	}
	if input.ClearDueDate {
		task.DueDate = nil
	} else if input.DueDate != nil {
		task.DueDate = input.DueDate
	}
	if input.ClearAssignee {
		task.AssigneeID = nil
	} else if input.AssigneeID != nil {
		task.AssigneeID = input.AssigneeID
	}
	if input.ClearList {
		task.ListID = nil
	} else if input.ListID != nil {
		if err := s.ensureListInProject(*input.ListID, task.ProjectID); err != nil {
			return nil, err
		}
		task.ListID = input.ListID
	}

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	return task, nil
}

// DeleteTask deletes a task.
func (s *TaskService) DeleteTask(taskID uint64) error {
	if err := s.taskRepo.Delete(taskID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}

func (s *TaskService) ensureListInProject(listID, projectID uint64) error {
	list, err := s.listRepo.FindByID(listID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrListNotInProject
		}
		return fmt.Errorf("failed to find list: %w", err)
	}
	if list.ProjectID != projectID {
		return ErrListNotInProject
	}
	return nil
}
