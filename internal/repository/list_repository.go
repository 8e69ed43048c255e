package repository

import (
	"errors"

	"github.com/betodolist/betodolist-api/internal/models"
	"gorm.io/gorm"
)

// GormListRepository is a GORM implementation of ListRepository
type GormListRepository struct {
	db *gorm.DB
}

// NewListRepository creates a new ListRepository
func NewListRepository(db *gorm.DB) ListRepository {
	return &GormListRepository{db: db}
}

// Create creates a new list
func (r *GormListRepository) Create(list *models.ProjectList) error {
	return r.db.Create(list).Error
}

// FindByID finds a list by ID
func (r *GormListRepository) FindByID(id uint64) (*models.ProjectList, error) {
	var list models.ProjectList
	if err := r.db.First(&list, id).Error; err != nil {
		return nil, err
	}
	return &list, nil
}

// FindByProjectAndTitle finds a list by its (project, title) pair
func (r *GormListRepository) FindByProjectAndTitle(projectID uint64, title string) (*models.ProjectList, error) {
	var list models.ProjectList
	err := r.db.Where("project_id = ? AND title = ?", projectID, title).
		First(&list).Error
	if err != nil {
		return nil, err
	}
	return &list, nil
}

// ListByProject lists a project's lists ordered by position, then creation
func (r *GormListRepository) ListByProject(projectID uint64) ([]models.ProjectList, error) {
	var lists []models.ProjectList
	err := r.db.Where("project_id = ?", projectID).
		Order("position ASC").
		Order("created_at ASC").
		Find(&lists).Error
	if err != nil {
		return nil, err
	}
	return lists, nil
}

// MaxPosition returns the highest position in a project
func (r *GormListRepository) MaxPosition(projectID uint64) (int, bool, error) {
	var max *int
	err := r.db.Model(&models.ProjectList{}).
		Where("project_id = ?", projectID).
		Select("MAX(position)").
		Scan(&max).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, false, err
	}
	if max == nil {
		return 0, false, nil
	}
	return *max, true, nil
}

// Update updates a list
func (r *GormListRepository) Update(list *models.ProjectList) error {
	return r.db.Save(list).Error
}

// DeleteAndOrphanTasks detaches the list's tasks, then deletes the list.
// Tasks survive as orphans (list_id = NULL) and stay queryable under the
// project.
func (r *GormListRepository) DeleteAndOrphanTasks(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&models.ProjectTask{}).
			Where("list_id = ?", id).
			Update("list_id", nil).Error
		if err != nil {
			return err
		}

		return tx.Delete(&models.ProjectList{}, id).Error
	})
}

// UpdatePosition sets the position of one list, scoped to a project so a
// foreign list id in a reorder batch cannot move another project's column.
func (r *GormListRepository) UpdatePosition(projectID, listID uint64, position int) error {
	return r.db.Model(&models.ProjectList{}).
		Where("id = ? AND project_id = ?", listID, projectID).
		Update("position", position).Error
}
