package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apierrors "github.com/betodolist/betodolist-api/internal/errors"
	"github.com/betodolist/betodolist-api/internal/middleware"
	"github.com/betodolist/betodolist-api/internal/models"
	"github.com/betodolist/betodolist-api/internal/services"
	"github.com/betodolist/betodolist-api/internal/utils"
)

// TaskHandler coordinates task HTTP handlers.
type TaskHandler struct {
	taskService *services.TaskService
	aiService   *services.AIService
}

// NewTaskHandler creates a new TaskHandler. aiService may be nil when no API
// key is configured.
func NewTaskHandler(taskService *services.TaskService, aiService *services.AIService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
		aiService:   aiService,
	}
}

// ListTasks returns the project's tasks, newest first, paginated.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	projectID, _ := middleware.GetProjectID(c)
	params := utils.GetPaginationParams(c)

	tasks, total, err := h.taskService.ListTasks(projectID, params.Offset, params.Limit)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch tasks")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tasks": tasks,
		"pagination": utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	})
}

// CreateTask creates a task in the project.
func (h *TaskHandler) CreateTask(c *gin.Context) {
	projectID, _ := middleware.GetProjectID(c)

	type CreateTaskRequest struct {
		Title       string              `json:"title" binding:"required"`
		Description *string             `json:"description"`
		AssigneeID  *uint64             `json:"assignee_id"`
		DueDate     *time.Time          `json:"due_date"`
		Status      models.TaskStatus   `json:"status"`
		Priority    models.TaskPriority `json:"priority"`
		ListID      *uint64             `json:"list_id"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "title is required")
		return
	}

	task, err := h.taskService.CreateTask(services.CreateTaskInput{
		ProjectID:   projectID,
		Title:       req.Title,
		Description: req.Description,
		AssigneeID:  req.AssigneeID,
		DueDate:     req.DueDate,
		Status:      req.Status,
		Priority:    req.Priority,
		ListID:      req.ListID,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, task)
}

// UpdateTask patches a task. The raw body is inspected so that an absent
// field, a present field, and an explicit null are three different things.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	task, exists := middleware.GetTask(c)
	if !exists {
		apierrors.InternalError(c, "Task not found in context")
		return
	}

	var raw map[string]json.RawMessage
	if err := c.ShouldBindJSON(&raw); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	input, err := parseTaskPatch(raw)
	if err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	updated, err := h.taskService.UpdateTask(&task, input)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

// DeleteTask deletes a task.
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	task, exists := middleware.GetTask(c)
	if !exists {
		apierrors.InternalError(c, "Task not found in context")
		return
	}

	if err := h.taskService.DeleteTask(task.ID); err != nil {
		apierrors.InternalError(c, "")
		return
	}

	c.Status(http.StatusNoContent)
}

// GenerateTasks extracts tasks from free text with the AI service and
// creates them in the project.
func (h *TaskHandler) GenerateTasks(c *gin.Context) {
	projectID, _ := middleware.GetProjectID(c)

	if h.aiService == nil {
		apierrors.ServiceUnavailable(c, "AI task extraction is not configured")
		return
	}

	type GenerateRequest struct {
		Text string `json:"text" binding:"required"`
	}

	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "text is required")
		return
	}

	extracted, err := h.aiService.ExtractTasksFromText(c.Request.Context(), req.Text)
	if err != nil {
		if errors.Is(err, services.ErrAINoTasksGenerated) {
			apierrors.BadRequest(c, err.Error())
		} else {
			apierrors.ServiceUnavailable(c, "Failed to extract tasks")
		}
		return
	}

	created := make([]models.ProjectTask, 0, len(extracted))
	for _, e := range extracted {
		task, err := h.taskService.CreateTask(services.CreateTaskInput{
			ProjectID:   projectID,
			Title:       e.Title,
			Description: e.Description,
			DueDate:     e.DueDate,
		})
		if err != nil {
			continue
		}
		created = append(created, *task)
	}

	c.JSON(http.StatusCreated, gin.H{"tasks": created})
}

// parseTaskPatch turns a raw JSON object into an update input with explicit
// present/null/absent semantics per field.
func parseTaskPatch(raw map[string]json.RawMessage) (services.UpdateTaskInput, error) {
	var input services.UpdateTaskInput

	if v, ok := raw["title"]; ok {
		var title string
		if err := json.Unmarshal(v, &title); err != nil {
			return input, errors.New("title must be a string")
		}
		input.Title = &title
	}
	if v, ok := raw["description"]; ok {
		var description *string
		if err := json.Unmarshal(v, &description); err != nil {
			return input, errors.New("description must be a string or null")
		}
		if description == nil {
			empty := ""
			description = &empty
		}
		input.Description = description
	}
	if v, ok := raw["status"]; ok {
		var status models.TaskStatus
		if err := json.Unmarshal(v, &status); err != nil {
			return input, errors.New("status must be a string")
		}
		input.Status = &status
	}
	if v, ok := raw["priority"]; ok {
		var priority models.TaskPriority
		if err := json.Unmarshal(v, &priority); err != nil {
			return input, errors.New("priority must be a string")
		}
		input.Priority = &priority
	}
	if v, ok := raw["due_date"]; ok {
		var dueDate *time.Time
		if err := json.Unmarshal(v, &dueDate); err != nil {
			return input, errors.New("due_date must be an RFC3339 timestamp or null")
		}
		if dueDate == nil {
			input.ClearDueDate = true
		} else {
			input.DueDate = dueDate
		}
	}
	if v, ok := raw["assignee_id"]; ok {
		var assigneeID *uint64
		if err := json.Unmarshal(v, &assigneeID); err != nil {
			return input, errors.New("assignee_id must be a number or null")
		}
		if assigneeID == nil {
			input.ClearAssignee = true
		} else {
			input.AssigneeID = assigneeID
		}
	}
	if v, ok := raw["list_id"]; ok {
		var listID *uint64
		if err := json.Unmarshal(v, &listID); err != nil {
			return input, errors.New("list_id must be a number or null")
		}
		if listID == nil {
			input.ClearList = true
		} else {
			input.ListID = listID
		}
	}

	return input, nil
}

func respondTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTaskNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrTitleRequired),
		errors.Is(err, services.ErrTitleEmpty),
		errors.Is(err, services.ErrInvalidStatus),
		errors.Is(err, services.ErrInvalidPriority),
		errors.Is(err, services.ErrListNotInProject):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}
