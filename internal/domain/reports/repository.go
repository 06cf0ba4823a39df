package reports

import (
	"context"
)

// Repository defines the aggregate queries behind the analytics endpoints.
// The PostgreSQL implementation lives in infrastructure/storage/postgres.
type Repository interface {
	GetRevenueSummary(ctx context.Context, filter SummaryFilter) (*RevenueSummary, error)
	GetStatusDistribution(ctx context.Context, kind string) (*StatusDistribution, error)
	GetMonthlyRevenue(ctx context.Context, year int) (*MonthlyRevenueReport, error)
	GetTodayStats(ctx context.Context) (*TodayStats, error)
}
