package services

import (
	"strings"
	"time"

	"mailstudio/internal/apperrors"
	"mailstudio/internal/models"
	"mailstudio/internal/storage"
)

// CategoryService manages the category list.
type CategoryService struct {
	repo *storage.Repository[models.Category]
}

// NewCategoryService creates a CategoryService over the given repository.
func NewCategoryService(repo *storage.Repository[models.Category]) *CategoryService {
	return &CategoryService{repo: repo}
}

// List returns all categories.
func (s *CategoryService) List() []models.Category {
	return s.repo.List()
}

// Create adds a category. Names are unique case-insensitively.
func (s *CategoryService) Create(name string) (*models.Category, error) {
	if name == "" {
		return nil, apperrors.Validation("name required")
	}
	cats := s.repo.List()
	for _, c := range cats {
		if strings.EqualFold(c.Name, name) {
			return nil, apperrors.Conflict("duplicate name")
		}
	}
	cat := models.Category{
		ID:        models.GenID("cat"),
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	cats = append(cats, cat)
	if err := s.repo.ReplaceAll(cats); err != nil {
		return nil, err
	}
	return &cat, nil
}

// Update renames a category in place.
func (s *CategoryService) Update(id, name string) (*models.Category, error) {
	cats := s.repo.List()
	for i := range cats {
		if cats[i].ID != id {
			continue
		}
		if name != "" {
			cats[i].Name = name
		}
		now := time.Now().UTC()
		cats[i].UpdatedAt = &now
		if err := s.repo.ReplaceAll(cats); err != nil {
			return nil, err
		}
		return &cats[i], nil
	}
	return nil, apperrors.NotFound("not found")
}

// Delete removes a category. Templates referencing it keep their dangling
// categoryId; the reference was never enforced.
func (s *CategoryService) Delete(id string) error {
	cats := s.repo.List()
	kept := cats[:0]
	for _, c := range cats {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	if len(kept) == len(cats) {
		return apperrors.NotFound("not found")
	}
	return s.repo.ReplaceAll(kept)
}
