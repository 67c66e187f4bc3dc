package services

import (
	"context"
	"strings"

	"haushaltsbuch/internal/aggregate"
	apperrors "haushaltsbuch/internal/errors"
	"haushaltsbuch/internal/models"
	"haushaltsbuch/internal/store"
	"haushaltsbuch/internal/uuid"
)

// lineService handles line and subitem business logic.
type lineService struct {
	repo *store.Repository
}

// NewLineService creates a new LineServicer.
func NewLineService(repo *store.Repository) LineServicer {
	return &lineService{repo: repo}
}

// GetUserLines returns the user's lines in the requested order.
func (s *lineService) GetUserLines(ctx context.Context, userID string, sort aggregate.SortMode) ([]models.Line, error) {
	if !sort.Valid() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "sort must be one of none, category, label")
	}

	var lines []models.Line
	err := s.repo.View(ctx, func(ds *models.Dataset) error {
		lines = ds.LinesOf(userID)
		return nil
	})
	if err != nil {
		return nil, storeError(err)
	}

	aggregate.Sort(lines, sort)
	return lines, nil
}

// GetLineByID returns one of the user's lines.
func (s *lineService) GetLineByID(ctx context.Context, userID, lineID string) (*models.Line, error) {
	var line models.Line
	err := s.repo.View(ctx, func(ds *models.Dataset) error {
		i := ds.FindLine(userID, lineID)
		if i < 0 {
			return apperrors.ErrLineNotFound
		}
		line = ds.Lines[i].Clone()
		return nil
	})
	if err != nil {
		return nil, storeError(err)
	}
	return &line, nil
}

// CreateLine appends a new line owned by userID.
func (s *lineService) CreateLine(ctx context.Context, userID string, in LineInput) (*models.Line, error) {
	label := strings.TrimSpace(in.Label)
	typ := models.LineType(strings.TrimSpace(in.Type))
	if label == "" || !typ.Valid() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "fields 'label' and 'type' (income|expense) are required")
	}

	category := in.Category
	if strings.TrimSpace(category) == "" {
		category = models.DefaultCategory(typ)
	}

	line := models.Line{
		ID:         uuid.New(),
		Label:      label,
		Type:       typ,
		Category:   category,
		BaseAmount: in.BaseAmount.Value,
		Subitems:   newSubitems(in.Subitems),
		IsVariable: in.IsVariable.Value,
		UserID:     userID,
	}

	err := s.repo.Update(ctx, func(ds *models.Dataset) (bool, error) {
		ds.Lines = append(ds.Lines, line)
		return true, nil
	})
	if err != nil {
		return nil, storeError(err)
	}
	return &line, nil
}

// UpdateLine applies a partial update to one of the user's lines.
func (s *lineService) UpdateLine(ctx context.Context, userID, lineID string, patch LinePatch) (*models.Line, error) {
	var updated models.Line
	err := s.repo.Update(ctx, func(ds *models.Dataset) (bool, error) {
		i := ds.FindLine(userID, lineID)
		if i < 0 {
			return false, apperrors.ErrLineNotFound
		}
		cur := &ds.Lines[i]

		if patch.Label.Present {
			if label := strings.TrimSpace(patch.Label.Value); label != "" {
				cur.Label = label
			}
		}
		if patch.Type.Present {
			if t := models.LineType(strings.TrimSpace(patch.Type.Value)); t.Valid() {
				cur.Type = t
			}
		}
		// category defaults against the type after the patch
		if patch.Category.Present {
			cur.Category = patch.Category.Value
			if strings.TrimSpace(cur.Category) == "" {
				cur.Category = models.DefaultCategory(cur.Type)
			}
		}
		if patch.BaseAmount.Present && patch.BaseAmount.Valid {
			cur.BaseAmount = patch.BaseAmount.Value
		}
		if patch.Subitems != nil {
			cur.Subitems = newSubitems(*patch.Subitems)
		}
		if patch.IsVariable.Present {
			cur.IsVariable = patch.IsVariable.Value
		}
		cur.UserID = userID

		updated = cur.Clone()
		return true, nil
	})
	if err != nil {
		return nil, storeError(err)
	}
	return &updated, nil
}

// DeleteLine removes one of the user's lines.
func (s *lineService) DeleteLine(ctx context.Context, userID, lineID string) error {
	err := s.repo.Update(ctx, func(ds *models.Dataset) (bool, error) {
		i := ds.FindLine(userID, lineID)
		if i < 0 {
			return false, apperrors.ErrLineNotFound
		}
		ds.Lines = append(ds.Lines[:i], ds.Lines[i+1:]...)
		return true, nil
	})
	if err != nil {
		return storeError(err)
	}
	return nil
}

// AddSubitem appends a subitem to one of the user's lines.
func (s *lineService) AddSubitem(ctx context.Context, userID, lineID string, in SubitemInput) (*models.Line, error) {
	var updated models.Line
	err := s.repo.Update(ctx, func(ds *models.Dataset) (bool, error) {
		i := ds.FindLine(userID, lineID)
		if i < 0 {
			return false, apperrors.ErrLineNotFound
		}
		ds.Lines[i].Subitems = append(ds.Lines[i].Subitems, newSubitem(in))
		updated = ds.Lines[i].Clone()
		return true, nil
	})
	if err != nil {
		return nil, storeError(err)
	}
	return &updated, nil
}

// DeleteSubitem removes a subitem from one of the user's lines.
func (s *lineService) DeleteSubitem(ctx context.Context, userID, lineID, subitemID string) (*models.Line, error) {
	var updated models.Line
	err := s.repo.Update(ctx, func(ds *models.Dataset) (bool, error) {
		i := ds.FindLine(userID, lineID)
		if i < 0 {
			return false, apperrors.ErrLineNotFound
		}

		subs := ds.Lines[i].Subitems
		kept := make([]models.Subitem, 0, len(subs))
		for _, si := range subs {
			if si.ID != subitemID {
				kept = append(kept, si)
			}
		}
		if len(kept) == len(subs) {
			return false, apperrors.ErrSubitemNotFound
		}

		ds.Lines[i].Subitems = kept
		updated = ds.Lines[i].Clone()
		return true, nil
	})
	if err != nil {
		return nil, storeError(err)
	}
	return &updated, nil
}

func newSubitems(in []SubitemInput) []models.Subitem {
	out := make([]models.Subitem, 0, len(in))
	for _, si := range in {
		out = append(out, newSubitem(si))
	}
	return out
}

func newSubitem(in SubitemInput) models.Subitem {
	id := in.ID.Value
	if id == "" {
		id = uuid.New()
	}
	return models.Subitem{ID: id, Label: in.Label.Value, Amount: in.Amount.Value}
}
