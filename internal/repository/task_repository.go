package repository

import (
	"github.com/betodolist/betodolist-api/internal/models"
	"gorm.io/gorm"
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
func (r *GormTaskRepository) Create(task *models.ProjectTask) error {
	return r.db.Create(task).Error
}

// FindByID finds a task by ID with optional preloading
func (r *GormTaskRepository) FindByID(id uint64, preload ...string) (*models.ProjectTask, error) {
	query := r.db
	for _, p := range preload {
		query = query.Preload(p)
	}

	var task models.ProjectTask
	if err := query.First(&task, id).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// ListByProject lists a project's tasks newest first, paginated
func (r *GormTaskRepository) ListByProject(projectID uint64, offset, limit int) ([]models.ProjectTask, int64, error) {
	query := r.db.Model(&models.ProjectTask{}).Where("project_id = ?", projectID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var tasks []models.ProjectTask
	err := query.Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&tasks).Error
	if err != nil {
		return nil, 0, err
	}
	return tasks, total, nil
}

// Update updates a task
func (r *GormTaskRepository) Update(task *models.ProjectTask) error {
	return r.db.Save(task).Error
}

// Delete deletes a task
func (r *GormTaskRepository) Delete(id uint64) error {
	return r.db.Delete(&models.ProjectTask{}, id).Error
}
