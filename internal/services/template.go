package services

import (
	"strings"
	"time"

	"mailstudio/internal/apperrors"
	"mailstudio/internal/models"
	"mailstudio/internal/storage"
)

// TemplateService manages the template list, including soft-delete and
// restore.
type TemplateService struct {
	repo *storage.Repository[models.Template]
}

// NewTemplateService creates a TemplateService over the given repository.
func NewTemplateService(repo *storage.Repository[models.Template]) *TemplateService {
	return &TemplateService{repo: repo}
}

// List returns templates. Soft-deleted ones are hidden unless includeAll is
// set.
func (s *TemplateService) List(includeAll bool) []models.Template {
	list := s.repo.List()
	if includeAll {
		return list
	}
	active := []models.Template{}
	for _, t := range list {
		if t.Active() {
			active = append(active, t)
		}
	}
	return active
}

// ActiveCount returns the number of non-archived templates.
func (s *TemplateService) ActiveCount() int {
	return len(s.List(false))
}

// Get returns a template by ID, archived or not.
func (s *TemplateService) Get(id string) (*models.Template, error) {
	list := s.repo.List()
	for i := range list {
		if list[i].ID == id {
			return &list[i], nil
		}
	}
	return nil, apperrors.NotFound("not found")
}

// Create adds a template. Names are unique case-insensitively, including
// against archived templates.
func (s *TemplateService) Create(name string, categoryID *string, body string, vars []models.Variable) (*models.Template, error) {
	if name == "" {
		return nil, apperrors.Validation("name required")
	}
	list := s.repo.List()
	for _, t := range list {
		if strings.EqualFold(t.Name, name) {
			return nil, apperrors.Conflict("duplicate name")
		}
	}
	if vars == nil {
		vars = []models.Variable{}
	}
	tpl := models.Template{
		ID:         models.GenID("tpl"),
		Name:       name,
		CategoryID: categoryID,
		Body:       body,
		Variables:  vars,
		CreatedAt:  time.Now().UTC(),
	}
	list = append(list, tpl)
	if err := s.repo.ReplaceAll(list); err != nil {
		return nil, err
	}
	return &tpl, nil
}

// TemplateUpdate carries partial update fields. Nil pointers mean "leave
// unchanged"; CategoryIDSet distinguishes an explicit null (clear the
// reference) from an absent field.
type TemplateUpdate struct {
	Name          *string
	CategoryID    *string
	CategoryIDSet bool
	Body          *string
	Variables     []models.Variable
	VariablesSet  bool
}

// Update applies a partial update to a template.
func (s *TemplateService) Update(id string, upd TemplateUpdate) (*models.Template, error) {
	list := s.repo.List()
	for i := range list {
		if list[i].ID != id {
			continue
		}
		if upd.Name != nil && *upd.Name != "" {
			list[i].Name = *upd.Name
		}
		if upd.CategoryIDSet {
			list[i].CategoryID = upd.CategoryID
		}
		if upd.Body != nil {
			list[i].Body = *upd.Body
		}
		if upd.VariablesSet {
			vars := upd.Variables
			if vars == nil {
				vars = []models.Variable{}
			}
			list[i].Variables = vars
		}
		now := time.Now().UTC()
		list[i].UpdatedAt = &now
		if err := s.repo.ReplaceAll(list); err != nil {
			return nil, err
		}
		return &list[i], nil
	}
	return nil, apperrors.NotFound("not found")
}

// SoftDelete archives a template by stamping deletedAt. Archiving an already
// archived template is a no-op.
func (s *TemplateService) SoftDelete(id string) error {
	list := s.repo.List()
	for i := range list {
		if list[i].ID != id {
			continue
		}
		if list[i].DeletedAt == nil {
			now := time.Now().UTC()
			list[i].DeletedAt = &now
			if list[i].UpdatedAt == nil {
				created := list[i].CreatedAt
				list[i].UpdatedAt = &created
			}
			return s.repo.ReplaceAll(list)
		}
		return nil
	}
	return apperrors.NotFound("not found")
}

// Restore clears a template's deletedAt, making it reappear in default
// listings.
func (s *TemplateService) Restore(id string) error {
	list := s.repo.List()
	for i := range list {
		if list[i].ID != id {
			continue
		}
		if list[i].DeletedAt != nil {
			list[i].DeletedAt = nil
			now := time.Now().UTC()
			list[i].UpdatedAt = &now
			return s.repo.ReplaceAll(list)
		}
		return nil
	}
	return apperrors.NotFound("not found")
}

// Export bundles all categories and templates, archived included.
type Export struct {
	ExportedAt time.Time         `json:"exportedAt"`
	Version    int               `json:"version"`
	Categories []models.Category `json:"categories"`
	Templates  []models.Template `json:"templates"`
}

// ExportAll snapshots both resource lists.
func (s *TemplateService) ExportAll(categories *CategoryService) Export {
	return Export{
		ExportedAt: time.Now().UTC(),
		Version:    1,
		Categories: categories.List(),
		Templates:  s.repo.List(),
	}
}

// Import merges records by ID: existing IDs are kept as-is, unknown ones are
// appended. Returns the resulting category and template counts.
func (s *TemplateService) Import(categories *CategoryService, cats []models.Category, tpls []models.Template) (int, int, error) {
	existingCats := categories.repo.List()
	catIDs := make(map[string]struct{}, len(existingCats))
	for _, c := range existingCats {
		catIDs[c.ID] = struct{}{}
	}
	for _, c := range cats {
		if _, ok := catIDs[c.ID]; !ok {
			existingCats = append(existingCats, c)
		}
	}
	if err := categories.repo.ReplaceAll(existingCats); err != nil {
		return 0, 0, err
	}

	existingTpls := s.repo.List()
	tplIDs := make(map[string]struct{}, len(existingTpls))
	for _, t := range existingTpls {
		tplIDs[t.ID] = struct{}{}
	}
	for _, t := range tpls {
		if _, ok := tplIDs[t.ID]; !ok {
			existingTpls = append(existingTpls, t)
		}
	}
	if err := s.repo.ReplaceAll(existingTpls); err != nil {
		return 0, 0, err
	}
	return len(existingCats), len(existingTpls), nil
}
