package database

import (
	"fmt"
	"log"

	"gorm.io/gorm"

	"github.com/betodolist/betodolist-api/internal/models"
)

// DedupeProjectLists removes duplicate (project_id, title) rows from
// project_lists, keeping the lowest id of each group. Data created before the
// uniqueness constraint existed can carry duplicates that would otherwise
// block index creation. Idempotent; run before Migrate.
func DedupeProjectLists(db *gorm.DB) error {
	if !db.Migrator().HasTable("project_lists") {
		return nil
	}

	type duplicateGroup struct {
		ProjectID uint64
		Title     string
		MinID     uint64
	}

	var groups []duplicateGroup
	err := db.Table("project_lists").
		Select("project_id, title, MIN(id) AS min_id").
		Group("project_id").
		Group("title").
		Having("COUNT(*) > 1").
		Scan(&groups).Error
	if err != nil {
		return fmt.Errorf("failed to find duplicate lists: %w", err)
	}

	for _, g := range groups {
		err := db.Where("project_id = ? AND title = ? AND id <> ?", g.ProjectID, g.Title, g.MinID).
			Delete(&models.ProjectList{}).Error
		if err != nil {
			return fmt.Errorf("failed to dedupe lists for project %d: %w", g.ProjectID, err)
		}
	}

	if len(groups) > 0 {
		log.Printf("Deduped duplicate project_lists rows in %d group(s)", len(groups))
	}
	return nil
}
