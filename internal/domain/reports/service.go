package reports

import (
	"context"
	"fmt"
	"time"

	"facturier/internal/core/apperror"
)

// Service provides analytics operations.
type Service struct {
	repo Repository
}

// NewService creates a new reports service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// GetRevenueSummary returns the dashboard aggregates.
func (s *Service) GetRevenueSummary(ctx context.Context, filter SummaryFilter) (*RevenueSummary, error) {
	if filter.DateFrom != nil && filter.DateTo != nil && filter.DateFrom.After(*filter.DateTo) {
		return nil, apperror.NewValidation("dateFrom must be before dateTo")
	}

	summary, err := s.repo.GetRevenueSummary(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("get revenue summary: %w", err)
	}

	return summary, nil
}

// GetStatusDistribution returns document counts per status for one kind.
func (s *Service) GetStatusDistribution(ctx context.Context, kind string) (*StatusDistribution, error) {
	if !ValidKind(kind) {
		return nil, apperror.NewValidation("unknown document kind").
			WithDetail("kind", kind)
	}

	dist, err := s.repo.GetStatusDistribution(ctx, kind)
	if err != nil {
		return nil, fmt.Errorf("get status distribution: %w", err)
	}

	return dist, nil
}

// GetMonthlyRevenue returns the per-month invoicing series for a year.
// Defaults to the current year.
func (s *Service) GetMonthlyRevenue(ctx context.Context, year int) (*MonthlyRevenueReport, error) {
	if year == 0 {
		year = time.Now().Year()
	}
	if year < 2000 || year > time.Now().Year()+1 {
		return nil, apperror.NewValidation("year out of range").
			WithDetail("year", year)
	}

	report, err := s.repo.GetMonthlyRevenue(ctx, year)
	if err != nil {
		return nil, fmt.Errorf("get monthly revenue: %w", err)
	}

	return report, nil
}

// GetTodayStats returns the activity counters since midnight.
func (s *Service) GetTodayStats(ctx context.Context) (*TodayStats, error) {
	stats, err := s.repo.GetTodayStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("get today stats: %w", err)
	}

	return stats, nil
}
