package repository

import (
	"github.com/betodolist/betodolist-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormProjectRepository is a GORM implementation of ProjectRepository
type GormProjectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &GormProjectRepository{db: db}
}

// CreateWithOwner creates the project and the owner membership atomically.
func (r *GormProjectRepository) CreateWithOwner(project *models.Project, member *models.ProjectMember) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(project).Error; err != nil {
			return err
		}

		member.ProjectID = project.ID
		member.Role = models.RoleOwner

		return tx.Create(member).Error
	})
}

// FindByID finds a project by ID with optional preloading
func (r *GormProjectRepository) FindByID(id uint64, preload ...string) (*models.Project, error) {
	query := r.db
	for _, p := range preload {
		query = query.Preload(p)
	}

	var project models.Project
	if err := query.First(&project, id).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// ListMembershipsByUserID lists all memberships of a user, most recently
// updated project first.
func (r *GormProjectRepository) ListMembershipsByUserID(userID uint64) ([]models.ProjectMember, error) {
	var memberships []models.ProjectMember
	err := r.db.
		Joins("JOIN projects ON projects.id = project_members.project_id").
		Preload("Project").Preload("Project.Owner").
		Where("project_members.user_id = ?", userID).
		Order("projects.updated_at DESC").
		Find(&memberships).Error
	if err != nil {
		return nil, err
	}
	return memberships, nil
}

// Update updates a project
func (r *GormProjectRepository) Update(project *models.Project) error {
	return r.db.Save(project).Error
}

// DeleteCascade deletes a project and all related data in a transaction.
// Children are removed leaf-first along the ownership chain.
func (r *GormProjectRepository) DeleteCascade(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var taskIDs []uint64
		if err := tx.Model(&models.ProjectTask{}).
			Where("project_id = ?", id).
			Pluck("id", &taskIDs).Error; err != nil {
			return err
		}

		if len(taskIDs) > 0 {
			var checklistIDs []uint64
			if err := tx.Model(&models.TaskChecklist{}).
				Where("task_id IN ?", taskIDs).
				Pluck("id", &checklistIDs).Error; err != nil {
				return err
			}
			if len(checklistIDs) > 0 {
				if err := tx.Where("checklist_id IN ?", checklistIDs).
					Delete(&models.TaskChecklistItem{}).Error; err != nil {
					return err
				}
			}

			for _, child := range []interface{}{
				&models.TaskChecklist{},
				&models.TaskComment{},
				&models.TaskAttachment{},
				&models.TaskLabelMap{},
				&models.TaskAssignee{},
			} {
				if err := tx.Where("task_id IN ?", taskIDs).Delete(child).Error; err != nil {
					return err
				}
			}
		}

		for _, child := range []interface{}{
			&models.ProjectTask{},
			&models.ProjectList{},
			&models.TaskLabel{},
			&models.ProjectMember{},
		} {
			if err := tx.Where("project_id = ?", id).Delete(child).Error; err != nil {
				return err
			}
		}

		return tx.Delete(&models.Project{}, id).Error
	})
}

// UpsertMember inserts a membership unless the (project, user) pair already
// exists. The composite primary key makes concurrent inserts collapse into
// one row.
func (r *GormProjectRepository) UpsertMember(member *models.ProjectMember) (bool, error) {
	result := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(member)
	if result.Error != nil {
		return false, result.Error
	}
	if result.RowsAffected > 0 {
		return true, nil
	}

	existing, err := r.FindMember(member.ProjectID, member.UserID)
	if err != nil {
		return false, err
	}
	*member = *existing
	return false, nil
}

// UpdateMemberRole sets the role of an existing member
func (r *GormProjectRepository) UpdateMemberRole(projectID, userID uint64, role models.ProjectRole) error {
	result := r.db.Model(&models.ProjectMember{}).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Update("role", role)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// RemoveMember removes a member from a project
func (r *GormProjectRepository) RemoveMember(projectID, userID uint64) error {
	return r.db.Where("project_id = ? AND user_id = ?", projectID, userID).
		Delete(&models.ProjectMember{}).Error
}

// FindMember finds a specific project member
func (r *GormProjectRepository) FindMember(projectID, userID uint64) (*models.ProjectMember, error) {
	var member models.ProjectMember
	err := r.db.Where("project_id = ? AND user_id = ?", projectID, userID).
		First(&member).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// ListMembers lists all members of a project, oldest membership first
func (r *GormProjectRepository) ListMembers(projectID uint64) ([]models.ProjectMember, error) {
	var members []models.ProjectMember
	err := r.db.Preload("User").
		Where("project_id = ?", projectID).
		Order("added_at ASC").
		Find(&members).Error
	if err != nil {
		return nil, err
	}
	return members, nil
}

// CountMembers counts the members of a project
func (r *GormProjectRepository) CountMembers(projectID uint64) (int64, error) {
	var count int64
	err := r.db.Model(&models.ProjectMember{}).
		Where("project_id = ?", projectID).
		Count(&count).Error
	return count, err
}
