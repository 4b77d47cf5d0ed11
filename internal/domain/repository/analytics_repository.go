package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TopProductResult represents a product's sales performance
type TopProductResult struct {
	ProductID    uuid.UUID
	ProductName  string
	QuantitySold int
	Revenue      float64
}

// DailySalesResult represents sales data for a single day
type DailySalesResult struct {
	Date      string
	Revenue   float64
	BillCount int
}

// MonthlySalesResult represents sales aggregated by calendar month
type MonthlySalesResult struct {
	Month     string
	Revenue   float64
	BillCount int
}

// AnalyticsRepository defines interface for analytics/aggregation queries
type AnalyticsRepository interface {
	// GetDailySales returns per-day revenue and bill counts for the last N days
	GetDailySales(ctx context.Context, days int) ([]DailySalesResult, error)

	// GetDailySalesBetween returns per-day revenue and bill counts for
	// bills dated in [start, end)
	GetDailySalesBetween(ctx context.Context, start, end time.Time) ([]DailySalesResult, error)

	// GetMonthlySales returns per-month revenue and bill counts for the last N months
	GetMonthlySales(ctx context.Context, months int) ([]MonthlySalesResult, error)

	// GetTopProducts returns top selling products by quantity sold
	GetTopProducts(ctx context.Context, limit int) ([]TopProductResult, error)

	// GetTotalRevenue returns the all-time total revenue
	GetTotalRevenue(ctx context.Context) (float64, error)

	// GetTotalBills returns the all-time number of bills
	GetTotalBills(ctx context.Context) (int64, error)

	// GetRevenueBetween returns revenue and bill count in [start, end)
	GetRevenueBetween(ctx context.Context, start, end time.Time) (float64, int64, error)
}
