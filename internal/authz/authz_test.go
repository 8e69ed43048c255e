package authz

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/betodolist/betodolist-api/internal/models"
)

func setupAuthzTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.ProjectMember{},
		&models.ProjectList{},
		&models.ProjectTask{},
		&models.TaskComment{},
		&models.TaskAttachment{},
		&models.TaskChecklist{},
		&models.TaskChecklistItem{},
		&models.TaskLabel{},
	)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return db
}

func seedProjectWithMembers(t *testing.T, db *gorm.DB) (project models.Project, owner, admin, member, outsider models.User) {
	t.Helper()

	users := []*models.User{
		{Name: "owner", Email: "owner@example.com", PasswordHash: "x"},
		{Name: "admin", Email: "admin@example.com", PasswordHash: "x"},
		{Name: "member", Email: "member@example.com", PasswordHash: "x"},
		{Name: "outsider", Email: "outsider@example.com", PasswordHash: "x"},
	}
	for _, u := range users {
		require.NoError(t, db.Create(u).Error)
	}

	project = models.Project{OwnerID: users[0].ID, Name: "Roadmap"}
	require.NoError(t, db.Create(&project).Error)

	memberships := []models.ProjectMember{
		{ProjectID: project.ID, UserID: users[0].ID, Role: models.RoleOwner},
		{ProjectID: project.ID, UserID: users[1].ID, Role: models.RoleAdmin},
		{ProjectID: project.ID, UserID: users[2].ID, Role: models.RoleMember},
	}
	for _, m := range memberships {
		require.NoError(t, db.Create(&m).Error)
	}

	return project, *users[0], *users[1], *users[2], *users[3]
}

func TestAuthorize_Tiers(t *testing.T) {
	db := setupAuthzTestDB(t)
	svc := NewService(db)
	project, owner, admin, member, outsider := seedProjectWithMembers(t, db)

	cases := []struct {
		name   string
		userID uint64
		tier   Tier
		err    error
	}{
		{"owner passes member tier", owner.ID, TierMember, nil},
		{"owner passes admin tier", owner.ID, TierAdminOrOwner, nil},
		{"owner passes owner tier", owner.ID, TierOwnerOnly, nil},
		{"admin passes member tier", admin.ID, TierMember, nil},
		{"admin passes admin tier", admin.ID, TierAdminOrOwner, nil},
		{"admin fails owner tier", admin.ID, TierOwnerOnly, ErrForbidden},
		{"member passes member tier", member.ID, TierMember, nil},
		{"member fails admin tier", member.ID, TierAdminOrOwner, ErrForbidden},
		{"member fails owner tier", member.ID, TierOwnerOnly, ErrForbidden},
		{"outsider fails member tier", outsider.ID, TierMember, ErrForbidden},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := svc.Authorize(project.ID, tc.userID, tc.tier)
			if tc.err == nil {
				require.NoError(t, err)
			} else {
				require.ErrorIs(t, err, tc.err)
			}
		})
	}
}

func TestRoleOf_NonMember(t *testing.T) {
	db := setupAuthzTestDB(t)
	svc := NewService(db)
	project, _, _, _, outsider := seedProjectWithMembers(t, db)

	_, err := svc.RoleOf(project.ID, outsider.ID)
	require.ErrorIs(t, err, ErrForbidden)
}

func TestProjectExists(t *testing.T) {
	db := setupAuthzTestDB(t)
	svc := NewService(db)
	project, _, _, _, _ := seedProjectWithMembers(t, db)

	require.NoError(t, svc.ProjectExists(project.ID))
	require.ErrorIs(t, svc.ProjectExists(9999), ErrNotFound)
}

func TestResolveChains(t *testing.T) {
	db := setupAuthzTestDB(t)
	svc := NewService(db)
	project, owner, _, _, _ := seedProjectWithMembers(t, db)

	list := models.ProjectList{ProjectID: project.ID, Title: "Backlog"}
	require.NoError(t, db.Create(&list).Error)

	task := models.ProjectTask{ProjectID: project.ID, Title: "Ship it", Status: models.TaskStatusTodo, Priority: models.PriorityMedium}
	require.NoError(t, db.Create(&task).Error)

	comment := models.TaskComment{TaskID: task.ID, UserID: owner.ID, Content: "soon"}
	require.NoError(t, db.Create(&comment).Error)

	checklist := models.TaskChecklist{TaskID: task.ID, Title: "Release steps"}
	require.NoError(t, db.Create(&checklist).Error)

	item := models.TaskChecklistItem{ChecklistID: checklist.ID, Title: "Tag version"}
	require.NoError(t, db.Create(&item).Error)

	label := models.TaskLabel{ProjectID: project.ID, Name: "bug", Color: "#f00"}
	require.NoError(t, db.Create(&label).Error)

	attachment := models.TaskAttachment{TaskID: task.ID, FileURL: "/uploads/x", FileName: "x"}
	require.NoError(t, db.Create(&attachment).Error)

	for name, resolve := range map[string]func() (uint64, error){
		"list":           func() (uint64, error) { return svc.ProjectFromList(list.ID) },
		"task":           func() (uint64, error) { return svc.ProjectFromTask(task.ID) },
		"comment":        func() (uint64, error) { return svc.ProjectFromComment(comment.ID) },
		"checklist":      func() (uint64, error) { return svc.ProjectFromChecklist(checklist.ID) },
		"checklist item": func() (uint64, error) { return svc.ProjectFromChecklistItem(item.ID) },
		"label":          func() (uint64, error) { return svc.ProjectFromLabel(label.ID) },
		"attachment":     func() (uint64, error) { return svc.ProjectFromAttachment(attachment.ID) },
	} {
		t.Run(name, func(t *testing.T) {
			got, err := resolve()
			require.NoError(t, err)
			require.Equal(t, project.ID, got)
		})
	}
}

func TestResolveChains_MissingHop(t *testing.T) {
	db := setupAuthzTestDB(t)
	svc := NewService(db)
	_, _, _, _, _ = seedProjectWithMembers(t, db)

	_, err := svc.ProjectFromList(9999)
	require.ErrorIs(t, err, ErrNotFound)

	// An item whose checklist row is gone still resolves to NotFound, not an
	// internal error.
	item := models.TaskChecklistItem{ChecklistID: 4242, Title: "dangling"}
	require.NoError(t, db.Create(&item).Error)

	_, err = svc.ProjectFromChecklistItem(item.ID)
	require.ErrorIs(t, err, ErrNotFound)
}
