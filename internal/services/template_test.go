package services

import (
	"errors"
	"net/http"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mailstudio/internal/apperrors"
	"mailstudio/internal/models"
	"mailstudio/internal/storage"
)

func newTestTemplateService(t *testing.T) *TemplateService {
	t.Helper()
	repo := storage.NewRepository[models.Template](filepath.Join(t.TempDir(), "templates.json"))
	return NewTemplateService(repo)
}

func newTestCategoryService(t *testing.T) *CategoryService {
	t.Helper()
	repo := storage.NewRepository[models.Category](filepath.Join(t.TempDir(), "categories.json"))
	return NewCategoryService(repo)
}

func TestCategoryDuplicateNameCaseInsensitive(t *testing.T) {
	svc := newTestCategoryService(t)
	_, err := svc.Create("CatOne")
	require.NoError(t, err)

	_, err = svc.Create("catone")
	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, http.StatusConflict, appErr.Code)
}

func TestCategoryUpdateAndDelete(t *testing.T) {
	svc := newTestCategoryService(t)
	cat, err := svc.Create("Sales")
	require.NoError(t, err)

	updated, err := svc.Update(cat.ID, "Outreach")
	require.NoError(t, err)
	assert.Equal(t, "Outreach", updated.Name)
	assert.NotNil(t, updated.UpdatedAt)

	require.NoError(t, svc.Delete(cat.ID))
	assert.Empty(t, svc.List())

	err = svc.Delete(cat.ID)
	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, http.StatusNotFound, appErr.Code)
}

func TestTemplateCreateRequiresName(t *testing.T) {
	svc := newTestTemplateService(t)
	_, err := svc.Create("", nil, "body", nil)
	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, http.StatusBadRequest, appErr.Code)
}

func TestTemplateDuplicateName(t *testing.T) {
	svc := newTestTemplateService(t)
	_, err := svc.Create("Welcome", nil, "", nil)
	require.NoError(t, err)
	_, err = svc.Create("WELCOME", nil, "", nil)
	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, http.StatusConflict, appErr.Code)
}

func TestTemplateSoftDeleteAndRestore(t *testing.T) {
	svc := newTestTemplateService(t)
	tpl, err := svc.Create("Welcome", nil, "Hello <<Client>>", nil)
	require.NoError(t, err)

	require.NoError(t, svc.SoftDelete(tpl.ID))
	assert.Empty(t, svc.List(false), "archived template hidden from default list")
	require.Len(t, svc.List(true), 1, "archived template present with include-all")
	assert.NotNil(t, svc.List(true)[0].DeletedAt)

	// Idempotent: archiving again keeps the original timestamp.
	first := *svc.List(true)[0].DeletedAt
	require.NoError(t, svc.SoftDelete(tpl.ID))
	assert.Equal(t, first, *svc.List(true)[0].DeletedAt)

	require.NoError(t, svc.Restore(tpl.ID))
	restored := svc.List(false)
	require.Len(t, restored, 1)
	assert.Nil(t, restored[0].DeletedAt)
	assert.NotNil(t, restored[0].UpdatedAt)
}

func TestTemplatePartialUpdate(t *testing.T) {
	svc := newTestTemplateService(t)
	catID := "cat_x"
	tpl, err := svc.Create("Welcome", &catID, "Hello", []models.Variable{{Name: "Client"}})
	require.NoError(t, err)

	newBody := "Hello <<Client>>, greetings"
	updated, err := svc.Update(tpl.ID, TemplateUpdate{Body: &newBody})
	require.NoError(t, err)
	assert.Equal(t, newBody, updated.Body)
	assert.Equal(t, "Welcome", updated.Name, "name unchanged")
	require.NotNil(t, updated.CategoryID)
	assert.Equal(t, "cat_x", *updated.CategoryID)

	// Explicit null clears the category reference.
	updated, err = svc.Update(tpl.ID, TemplateUpdate{CategoryIDSet: true})
	require.NoError(t, err)
	assert.Nil(t, updated.CategoryID)

	_, err = svc.Update("tpl_missing", TemplateUpdate{})
	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, http.StatusNotFound, appErr.Code)
}

func TestExportImportMergesByID(t *testing.T) {
	tplSvc := newTestTemplateService(t)
	catSvc := newTestCategoryService(t)

	cat, err := catSvc.Create("CatOne")
	require.NoError(t, err)
	_, err = tplSvc.Create("Welcome", &cat.ID, "Hello <<Client>>", nil)
	require.NoError(t, err)

	snapshot := tplSvc.ExportAll(catSvc)
	assert.Equal(t, 1, snapshot.Version)
	require.Len(t, snapshot.Categories, 1)
	require.Len(t, snapshot.Templates, 1)

	incoming := []models.Template{
		snapshot.Templates[0], // duplicate ID, skipped
		{ID: "tpl_new", Name: "Follow-up", Body: "Hi again"},
	}
	catCount, tplCount, err := tplSvc.Import(catSvc, snapshot.Categories, incoming)
	require.NoError(t, err)
	assert.Equal(t, 1, catCount)
	assert.Equal(t, 2, tplCount)
}
