package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/betodolist/betodolist-api/internal/models"
	"github.com/betodolist/betodolist-api/internal/repository"
)

var (
	ErrListNotFound = errors.New("list not found")
)

// ListService handles list (column) business logic.
type ListService struct {
	listRepo repository.ListRepository
}

// NewListService creates a new ListService.
func NewListService(listRepo repository.ListRepository) *ListService {
	return &ListService{listRepo: listRepo}
}

// ListLists returns a project's columns ordered by position.
func (s *ListService) ListLists(projectID uint64) ([]models.ProjectList, error) {
	lists, err := s.listRepo.ListByProject(projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list lists: %w", err)
	}
	return lists, nil
}

// CreateListInput represents input for creating a list. A nil Position means
// "append after the current maximum".
type CreateListInput struct {
	ProjectID uint64
	Title     string
	Position  *int
}

// CreateList creates a column. Creating a title that already exists in the
// project returns the existing row instead of erroring; the reported flag is
// false in that case.
func (s *ListService) CreateList(input CreateListInput) (*models.ProjectList, bool, error) {
	existing, err := s.listRepo.FindByProjectAndTitle(input.ProjectID, input.Title)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, fmt.Errorf("failed to check for duplicate list: %w", err)
	}

	position := 0
	if input.Position != nil {
		position = *input.Position
	} else {
		max, any, err := s.listRepo.MaxPosition(input.ProjectID)
		if err != nil {
			return nil, false, fmt.Errorf("failed to compute list position: %w", err)
		}
		if any {
			position = max + 1
		}
	}

	list := &models.ProjectList{
		ProjectID: input.ProjectID,
		Title:     input.Title,
		Position:  position,
	}
	if err := s.listRepo.Create(list); err != nil {
		return nil, false, fmt.Errorf("failed to create list: %w", err)
	}
	return list, true, nil
}

// GetList returns a list by id.
func (s *ListService) GetList(listID uint64) (*models.ProjectList, error) {
	list, err := s.listRepo.FindByID(listID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrListNotFound
		}
		return nil, fmt.Errorf("failed to find list: %w", err)
	}
	return list, nil
}

// UpdateListInput carries the patchable list fields; nil means absent.
type UpdateListInput struct {
	Title    *string
	Position *int
}

// UpdateList patches a list's title and position.
func (s *ListService) UpdateList(listID uint64, input UpdateListInput) (*models.ProjectList, error) {
	list, err := s.GetList(listID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		list.Title = *input.Title
	}
	if input.Position != nil {
		list.Position = *input.Position
	}

	if err := s.listRepo.Update(list); err != nil {
		return nil, fmt.Errorf("failed to update list: %w", err)
	}
	return list, nil
}

// DeleteList deletes a column and orphans its tasks; tasks keep their
// project and remain queryable with list_id = NULL.
func (s *ListService) DeleteList(listID uint64) error {
	if err := s.listRepo.DeleteAndOrphanTasks(listID); err != nil {
		return fmt.Errorf("failed to delete list: %w", err)
	}
	return nil
}

// ReorderItem is one entry of a reorder batch.
type ReorderItem struct {
	ID       uint64 `json:"id" binding:"required"`
	Position int    `json:"position"`
}

// ReorderLists applies each position update independently. The batch is not
// wrapped in a transaction, so a failure can leave it partially applied.
func (s *ListService) ReorderLists(projectID uint64, order []ReorderItem) error {
	for _, item := range order {
		if err := s.listRepo.UpdatePosition(projectID, item.ID, item.Position); err != nil {
			return fmt.Errorf("failed to reorder list %d: %w", item.ID, err)
		}
	}
	return nil
}
