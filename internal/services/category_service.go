package services

import (
	"context"
	"strings"

	"haushaltsbuch/internal/aggregate"
	apperrors "haushaltsbuch/internal/errors"
	"haushaltsbuch/internal/models"
	"haushaltsbuch/internal/store"
)

// categoryService lists categories and edits them in bulk. Categories are
// not stored on their own; they exist only as the category field of lines.
type categoryService struct {
	repo *store.Repository
}

// NewCategoryService creates a new CategoryServicer.
func NewCategoryService(repo *store.Repository) CategoryServicer {
	return &categoryService{repo: repo}
}

// GetUserCategories returns the distinct categories of the user's lines.
func (s *categoryService) GetUserCategories(ctx context.Context, userID string) ([]string, error) {
	var categories []string
	err := s.repo.View(ctx, func(ds *models.Dataset) error {
		categories = aggregate.Categories(ds.LinesOf(userID))
		return nil
	})
	if err != nil {
		return nil, storeError(err)
	}
	return categories, nil
}

// DeleteCategory moves every line of the user in category name to target,
// or to the default category of the line's type when target is empty. A
// non-empty target is stored as given. It returns the number of lines
// changed.
func (s *categoryService) DeleteCategory(ctx context.Context, userID, name, target string) (int, error) {
	if strings.TrimSpace(name) == "" {
		return 0, apperrors.WithMessage(apperrors.ErrInvalidInput, "category name is required")
	}

	return s.reassign(ctx, userID, name, func(l models.Line) string {
		if target != "" {
			return target
		}
		return models.DefaultCategory(l.Type)
	})
}

// RenameCategory moves every line of the user in category oldName to
// newName. Both names are trimmed and must not be blank.
func (s *categoryService) RenameCategory(ctx context.Context, userID, oldName, newName string) (int, error) {
	oldName = strings.TrimSpace(oldName)
	newName = strings.TrimSpace(newName)
	if oldName == "" || newName == "" {
		return 0, apperrors.WithMessage(apperrors.ErrInvalidInput, "fields 'old' and 'new' are required")
	}

	return s.reassign(ctx, userID, oldName, func(models.Line) string {
		return newName
	})
}

// reassign sets the category of the user's lines matching name
// case-insensitively to whatever to returns. The dataset is written only
// when at least one line changed.
func (s *categoryService) reassign(ctx context.Context, userID, name string, to func(models.Line) string) (int, error) {
	updated := 0
	err := s.repo.Update(ctx, func(ds *models.Dataset) (bool, error) {
		for i := range ds.Lines {
			l := &ds.Lines[i]
			if l.UserID != userID || !strings.EqualFold(l.Category, name) {
				continue
			}
			if next := to(*l); next != l.Category {
				l.Category = next
				updated++
			}
		}
		return updated > 0, nil
	})
	if err != nil {
		return 0, storeError(err)
	}
	return updated, nil
}
