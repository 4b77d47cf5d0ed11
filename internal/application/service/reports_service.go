package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/smartbill/smartbill-api/internal/domain/repository"
	"github.com/smartbill/smartbill-api/internal/infrastructure/cache"
)

// ReportsService produces sales reports and business analytics over the
// bill history. Report reads go through a short-lived cache, a slightly
// stale report is acceptable.
type ReportsService struct {
	analyticsRepo repository.AnalyticsRepository
	cache         cache.Cache
	cacheTTL      time.Duration
}

// NewReportsService creates a new reports service
func NewReportsService(analyticsRepo repository.AnalyticsRepository, c cache.Cache, cacheTTL time.Duration) *ReportsService {
	if c == nil {
		c = cache.NoopCache{}
	}
	return &ReportsService{
		analyticsRepo: analyticsRepo,
		cache:         c,
		cacheTTL:      cacheTTL,
	}
}

// SalesReport summarizes recent sales activity
type SalesReport struct {
	DailySales   []repository.DailySalesResult `json:"daily_sales"`
	TopProducts  []repository.TopProductResult `json:"top_products"`
	TotalRevenue float64                       `json:"total_revenue"`
	TotalBills   int64                         `json:"total_bills"`
	AverageBill  float64                       `json:"average_bill"`
}

// MonthlyReport summarizes sales by month with growth and a projection
type MonthlyReport struct {
	MonthlySales     []repository.MonthlySalesResult `json:"monthly_sales"`
	GrowthPercent    float64                         `json:"growth_percent"`
	ProjectedRevenue float64                         `json:"projected_revenue"`
	Insights         []string                        `json:"insights"`
}

// GetSalesReport builds the daily sales report for the last N days
func (s *ReportsService) GetSalesReport(ctx context.Context, days int) (*SalesReport, error) {
	if days <= 0 {
		days = 7
	}

	cacheKey := fmt.Sprintf("reports:sales:%d", days)
	if payload, found, err := s.cache.Get(ctx, cacheKey); err == nil && found {
		var cached SalesReport
		if json.Unmarshal(payload, &cached) == nil {
			return &cached, nil
		}
	}

	daily, err := s.analyticsRepo.GetDailySales(ctx, days)
	if err != nil {
		return nil, err
	}

	top, err := s.analyticsRepo.GetTopProducts(ctx, 5)
	if err != nil {
		return nil, err
	}

	totalRevenue, err := s.analyticsRepo.GetTotalRevenue(ctx)
	if err != nil {
		return nil, err
	}

	totalBills, err := s.analyticsRepo.GetTotalBills(ctx)
	if err != nil {
		return nil, err
	}

	avgBill := 0.0
	if totalBills > 0 {
		avgBill = totalRevenue / float64(totalBills)
	}

	report := &SalesReport{
		DailySales:   daily,
		TopProducts:  top,
		TotalRevenue: totalRevenue,
		TotalBills:   totalBills,
		AverageBill:  avgBill,
	}

	if payload, err := json.Marshal(report); err == nil {
		_ = s.cache.Set(ctx, cacheKey, payload, s.cacheTTL)
	}

	return report, nil
}

// GetDailyBreakdown returns per-day sales figures for a date range. A zero
// end defaults to now, a zero start to thirty days before end.
func (s *ReportsService) GetDailyBreakdown(ctx context.Context, start, end time.Time) ([]repository.DailySalesResult, error) {
	if end.IsZero() {
		end = time.Now()
	}
	if start.IsZero() {
		start = end.AddDate(0, 0, -30)
	}
	if !start.Before(end) {
		return []repository.DailySalesResult{}, nil
	}
	return s.analyticsRepo.GetDailySalesBetween(ctx, start, end)
}

// GetTopProducts returns the best selling products by units sold
func (s *ReportsService) GetTopProducts(ctx context.Context, limit int) ([]repository.TopProductResult, error) {
	if limit <= 0 {
		limit = 5
	}
	if limit > 50 {
		limit = 50
	}
	return s.analyticsRepo.GetTopProducts(ctx, limit)
}

// GetMonthlyReport builds the month-over-month report for the last N months
func (s *ReportsService) GetMonthlyReport(ctx context.Context, months int) (*MonthlyReport, error) {
	if months <= 0 {
		months = 6
	}

	cacheKey := fmt.Sprintf("reports:monthly:%d", months)
	if payload, found, err := s.cache.Get(ctx, cacheKey); err == nil && found {
		var cached MonthlyReport
		if json.Unmarshal(payload, &cached) == nil {
			return &cached, nil
		}
	}

	monthly, err := s.analyticsRepo.GetMonthlySales(ctx, months)
	if err != nil {
		return nil, err
	}

	daily, err := s.analyticsRepo.GetDailySales(ctx, 30)
	if err != nil {
		return nil, err
	}

	report := &MonthlyReport{
		MonthlySales:     monthly,
		GrowthPercent:    growthPercent(monthly),
		ProjectedRevenue: projectedMonthlyRevenue(daily),
		Insights:         buildInsights(monthly, daily),
	}

	if payload, err := json.Marshal(report); err == nil {
		_ = s.cache.Set(ctx, cacheKey, payload, s.cacheTTL)
	}

	return report, nil
}

// growthPercent compares the last two months. A zero or missing previous
// month yields 0 rather than a division error.
func growthPercent(monthly []repository.MonthlySalesResult) float64 {
	if len(monthly) < 2 {
		return 0
	}
	prev := monthly[len(monthly)-2].Revenue
	curr := monthly[len(monthly)-1].Revenue
	if prev == 0 {
		return 0
	}
	return (curr - prev) / prev * 100
}

// projectedMonthlyRevenue extrapolates the mean daily revenue over a
// 30-day month
func projectedMonthlyRevenue(daily []repository.DailySalesResult) float64 {
	if len(daily) == 0 {
		return 0
	}
	var sum float64
	for _, d := range daily {
		sum += d.Revenue
	}
	return sum / float64(len(daily)) * 30
}

// buildInsights derives short plain-language observations from the
// aggregates. With no sales history it says so instead of failing.
func buildInsights(monthly []repository.MonthlySalesResult, daily []repository.DailySalesResult) []string {
	var insights []string

	if len(monthly) == 0 && len(daily) == 0 {
		return []string{"No sales recorded yet. Insights will appear once billing starts."}
	}

	growth := growthPercent(monthly)
	switch {
	case growth > 10:
		insights = append(insights, fmt.Sprintf("Sales grew %.1f%% over last month. Keep the momentum going.", growth))
	case growth < -10:
		insights = append(insights, fmt.Sprintf("Sales dropped %.1f%% from last month. Consider a promotion to win customers back.", -growth))
	default:
		insights = append(insights, "Sales are steady month over month.")
	}

	if len(daily) > 0 {
		best := daily[0]
		for _, d := range daily[1:] {
			if d.Revenue > best.Revenue {
				best = d
			}
		}
		insights = append(insights, fmt.Sprintf("Best day in the last month was %s with %.2f in sales.", best.Date, best.Revenue))
	}

	if projected := projectedMonthlyRevenue(daily); projected > 0 {
		insights = append(insights, fmt.Sprintf("At the current pace, next month's revenue projects to %.2f.", projected))
	}

	return insights
}
