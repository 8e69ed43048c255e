package database

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/betodolist/betodolist-api/internal/models"
)

// The dedupe pass runs before migration adds the unique index, so the table
// here is created without it to mimic a legacy database.
func setupLegacyListsTable(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.Exec(`CREATE TABLE project_lists (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		project_id INTEGER NOT NULL,
		title TEXT NOT NULL,
		position INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME,
		updated_at DATETIME
	)`).Error
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return db
}

func TestDedupeProjectLists(t *testing.T) {
	db := setupLegacyListsTable(t)

	rows := []models.ProjectList{
		{ProjectID: 1, Title: "To Do", Position: 0},
		{ProjectID: 1, Title: "To Do", Position: 3},
		{ProjectID: 1, Title: "To Do", Position: 5},
		{ProjectID: 1, Title: "Done", Position: 2},
		{ProjectID: 2, Title: "To Do", Position: 0},
	}
	for i := range rows {
		require.NoError(t, db.Create(&rows[i]).Error)
	}

	require.NoError(t, DedupeProjectLists(db))

	var kept []models.ProjectList
	require.NoError(t, db.Order("id ASC").Find(&kept).Error)
	require.Len(t, kept, 3)

	// The oldest row of each duplicate group survives.
	require.Equal(t, rows[0].ID, kept[0].ID)
	require.Equal(t, "To Do", kept[0].Title)
	require.Equal(t, "Done", kept[1].Title)
	require.Equal(t, uint64(2), kept[2].ProjectID)
}

func TestDedupeProjectLists_NoTable(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	// A fresh database has nothing to dedupe.
	require.NoError(t, DedupeProjectLists(db))
}

func TestDedupeProjectLists_NoDuplicates(t *testing.T) {
	db := setupLegacyListsTable(t)

	rows := []models.ProjectList{
		{ProjectID: 1, Title: "To Do"},
		{ProjectID: 1, Title: "Done"},
	}
	for i := range rows {
		require.NoError(t, db.Create(&rows[i]).Error)
	}

	require.NoError(t, DedupeProjectLists(db))

	var count int64
	require.NoError(t, db.Model(&models.ProjectList{}).Count(&count).Error)
	require.Equal(t, int64(2), count)
}
