package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/betodolist/betodolist-api/internal/models"
	"github.com/betodolist/betodolist-api/internal/services"
)

func TestLabelHandler_AssignIdempotent(t *testing.T) {
	env := setupHandlerTestEnv(t)
	fx := seedAccessFixture(t, env)
	handler := NewLabelHandler(env.authz)

	label := models.TaskLabel{ProjectID: fx.project.ID, Name: "bug", Color: "#f00"}
	require.NoError(t, env.db.Create(&label).Error)
	labelID := strconv.FormatUint(label.ID, 10)

	for i := 0; i < 2; i++ {
		c, w := handlerTestContext(http.MethodPost, "/api/tasks/1/labels/"+labelID, nil, fx.member.ID)
		withTaskInContext(c, *fx.task)
		withParam(c, "labelId", labelID)

		handler.AssignLabel(c)
		require.Equal(t, http.StatusCreated, w.Code)
	}

	var count int64
	require.NoError(t, env.db.Model(&models.TaskLabelMap{}).
		Where("task_id = ? AND label_id = ?", fx.task.ID, label.ID).
		Count(&count).Error)
	require.Equal(t, int64(1), count)
}

func TestLabelHandler_AssignCrossProjectRejected(t *testing.T) {
	env := setupHandlerTestEnv(t)
	fx := seedAccessFixture(t, env)
	handler := NewLabelHandler(env.authz)

	other, err := env.projectService.CreateProject(services.CreateProjectInput{
		Name:    "Other",
		OwnerID: fx.owner.ID,
	})
	require.NoError(t, err)

	foreign := models.TaskLabel{ProjectID: other.ID, Name: "bug", Color: "#f00"}
	require.NoError(t, env.db.Create(&foreign).Error)
	labelID := strconv.FormatUint(foreign.ID, 10)

	c, w := handlerTestContext(http.MethodPost, "/api/tasks/1/labels/"+labelID, nil, fx.owner.ID)
	withTaskInContext(c, *fx.task)
	withParam(c, "labelId", labelID)

	handler.AssignLabel(c)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var count int64
	require.NoError(t, env.db.Model(&models.TaskLabelMap{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestLabelHandler_UnassignAndList(t *testing.T) {
	env := setupHandlerTestEnv(t)
	fx := seedAccessFixture(t, env)
	handler := NewLabelHandler(env.authz)

	label := models.TaskLabel{ProjectID: fx.project.ID, Name: "bug", Color: "#f00"}
	require.NoError(t, env.db.Create(&label).Error)
	require.NoError(t, env.db.Create(&models.TaskLabelMap{TaskID: fx.task.ID, LabelID: label.ID}).Error)
	labelID := strconv.FormatUint(label.ID, 10)

	c, w := handlerTestContext(http.MethodGet, "/api/tasks/1/labels", nil, fx.member.ID)
	withTaskInContext(c, *fx.task)

	handler.ListTaskLabels(c)
	require.Equal(t, http.StatusOK, w.Code)

	var labels []models.TaskLabel
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &labels))
	require.Len(t, labels, 1)
	require.Equal(t, "bug", labels[0].Name)

	c, w = handlerTestContext(http.MethodDelete, "/api/tasks/1/labels/"+labelID, nil, fx.member.ID)
	withTaskInContext(c, *fx.task)
	withParam(c, "labelId", labelID)

	handler.UnassignLabel(c)
	c.Writer.WriteHeaderNow()
	require.Equal(t, http.StatusNoContent, w.Code)

	var count int64
	require.NoError(t, env.db.Model(&models.TaskLabelMap{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestLabelHandler_MutationsRequireAdmin(t *testing.T) {
	env := setupHandlerTestEnv(t)
	fx := seedAccessFixture(t, env)
	handler := NewLabelHandler(env.authz)

	label := models.TaskLabel{ProjectID: fx.project.ID, Name: "bug", Color: "#f00"}
	require.NoError(t, env.db.Create(&label).Error)
	labelID := strconv.FormatUint(label.ID, 10)

	body, _ := json.Marshal(map[string]string{"name": "feature"})
	c, w := handlerTestContext(http.MethodPut, "/api/labels/"+labelID, body, fx.member.ID)
	withParam(c, "labelId", labelID)

	handler.UpdateLabel(c)
	require.Equal(t, http.StatusForbidden, w.Code)

	c, w = handlerTestContext(http.MethodPut, "/api/labels/"+labelID, body, fx.owner.ID)
	withParam(c, "labelId", labelID)

	handler.UpdateLabel(c)
	require.Equal(t, http.StatusOK, w.Code)

	var stored models.TaskLabel
	require.NoError(t, env.db.First(&stored, label.ID).Error)
	require.Equal(t, "feature", stored.Name)
}

func TestLabelHandler_DeleteCleansAssignments(t *testing.T) {
	env := setupHandlerTestEnv(t)
	fx := seedAccessFixture(t, env)
	handler := NewLabelHandler(env.authz)

	label := models.TaskLabel{ProjectID: fx.project.ID, Name: "bug", Color: "#f00"}
	require.NoError(t, env.db.Create(&label).Error)
	require.NoError(t, env.db.Create(&models.TaskLabelMap{TaskID: fx.task.ID, LabelID: label.ID}).Error)
	labelID := strconv.FormatUint(label.ID, 10)

	c, w := handlerTestContext(http.MethodDelete, "/api/labels/"+labelID, nil, fx.owner.ID)
	withParam(c, "labelId", labelID)

	handler.DeleteLabel(c)
	c.Writer.WriteHeaderNow()
	require.Equal(t, http.StatusNoContent, w.Code)

	var labels, mappings int64
	require.NoError(t, env.db.Model(&models.TaskLabel{}).Count(&labels).Error)
	require.NoError(t, env.db.Model(&models.TaskLabelMap{}).Count(&mappings).Error)
	require.Zero(t, labels)
	require.Zero(t, mappings)
}
