package services

import (
	"context"

	"haushaltsbuch/internal/aggregate"
	"haushaltsbuch/internal/models"
	"haushaltsbuch/internal/store"
)

// reportService computes summaries and groupings of a user's lines.
type reportService struct {
	repo *store.Repository
}

// NewReportService creates a new ReportServicer.
func NewReportService(repo *store.Repository) ReportServicer {
	return &reportService{repo: repo}
}

// GetSummary returns income, expense, net and per-category totals.
func (s *reportService) GetSummary(ctx context.Context, userID string) (*models.Summary, error) {
	var summary models.Summary
	err := s.repo.View(ctx, func(ds *models.Dataset) error {
		summary = aggregate.Summarize(ds.LinesOf(userID))
		return nil
	})
	if err != nil {
		return nil, storeError(err)
	}
	return &summary, nil
}

// GetGroups returns the user's lines bucketed by type and category.
func (s *reportService) GetGroups(ctx context.Context, userID string) ([]models.Group, error) {
	var groups []models.Group
	err := s.repo.View(ctx, func(ds *models.Dataset) error {
		groups = aggregate.Group(ds.LinesOf(userID))
		return nil
	})
	if err != nil {
		return nil, storeError(err)
	}
	return groups, nil
}
