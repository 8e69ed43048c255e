package authz

import (
	"errors"

	"gorm.io/gorm"

	"github.com/betodolist/betodolist-api/internal/models"
)

// Resolution walks are explicit join queries, one hop at a time. Each hop
// short-circuits with ErrNotFound when the link is missing, before any
// authorization check runs.

// ProjectExists returns ErrNotFound when the project id does not resolve.
func (s *Service) ProjectExists(projectID uint64) error {
	var count int64
	err := s.db.Model(&models.Project{}).Where("id = ?", projectID).Count(&count).Error
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrNotFound
	}
	return nil
}

// ProjectFromList resolves a list to its owning project.
func (s *Service) ProjectFromList(listID uint64) (uint64, error) {
	var list models.ProjectList
	if err := s.db.First(&list, listID).Error; err != nil {
		return 0, notFoundOr(err)
	}
	return list.ProjectID, nil
}

// ProjectFromTask resolves a task to its owning project.
func (s *Service) ProjectFromTask(taskID uint64) (uint64, error) {
	var task models.ProjectTask
	if err := s.db.First(&task, taskID).Error; err != nil {
		return 0, notFoundOr(err)
	}
	return task.ProjectID, nil
}

// ProjectFromComment resolves comment -> task -> project.
func (s *Service) ProjectFromComment(commentID uint64) (uint64, error) {
	var comment models.TaskComment
	if err := s.db.First(&comment, commentID).Error; err != nil {
		return 0, notFoundOr(err)
	}
	return s.ProjectFromTask(comment.TaskID)
}

// ProjectFromAttachment resolves attachment -> task -> project.
func (s *Service) ProjectFromAttachment(attachmentID uint64) (uint64, error) {
	var attachment models.TaskAttachment
	if err := s.db.First(&attachment, attachmentID).Error; err != nil {
		return 0, notFoundOr(err)
	}
	return s.ProjectFromTask(attachment.TaskID)
}

// ProjectFromChecklist resolves checklist -> task -> project.
func (s *Service) ProjectFromChecklist(checklistID uint64) (uint64, error) {
	var checklist models.TaskChecklist
	if err := s.db.First(&checklist, checklistID).Error; err != nil {
		return 0, notFoundOr(err)
	}
	return s.ProjectFromTask(checklist.TaskID)
}

// ProjectFromChecklistItem resolves item -> checklist -> task -> project,
// the longest chain in the model.
func (s *Service) ProjectFromChecklistItem(itemID uint64) (uint64, error) {
	var item models.TaskChecklistItem
	if err := s.db.First(&item, itemID).Error; err != nil {
		return 0, notFoundOr(err)
	}
	return s.ProjectFromChecklist(item.ChecklistID)
}

// ProjectFromLabel resolves a label to its owning project.
func (s *Service) ProjectFromLabel(labelID uint64) (uint64, error) {
	var label models.TaskLabel
	if err := s.db.First(&label, labelID).Error; err != nil {
		return 0, notFoundOr(err)
	}
	return label.ProjectID, nil
}

func notFoundOr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
