package service

import (
	"context"
	"time"

	"github.com/smartbill/smartbill-api/internal/domain/entity"
	"github.com/smartbill/smartbill-api/internal/domain/repository"
)

// DashboardService provides the storefront overview statistics
type DashboardService struct {
	analyticsRepo     repository.AnalyticsRepository
	productRepo       repository.ProductRepository
	customerRepo      repository.CustomerRepository
	lowStockThreshold int
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(
	analyticsRepo repository.AnalyticsRepository,
	productRepo repository.ProductRepository,
	customerRepo repository.CustomerRepository,
	lowStockThreshold int,
) *DashboardService {
	return &DashboardService{
		analyticsRepo:     analyticsRepo,
		productRepo:       productRepo,
		customerRepo:      customerRepo,
		lowStockThreshold: lowStockThreshold,
	}
}

// DashboardStats represents dashboard statistics
type DashboardStats struct {
	TodayRevenue     float64          `json:"today_revenue"`
	TodayBills       int64            `json:"today_bills"`
	TotalRevenue     float64          `json:"total_revenue"`
	TotalBills       int64            `json:"total_bills"`
	TotalProducts    int64            `json:"total_products"`
	TotalCustomers   int64            `json:"total_customers"`
	LowStockProducts []entity.Product `json:"low_stock_products"`
	OutOfStockCount  int64            `json:"out_of_stock_count"`
}

// GetDashboardStats returns today's trading snapshot plus running totals
func (s *DashboardService) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	stats := &DashboardStats{}

	now := time.Now()
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	tomorrow := todayStart.AddDate(0, 0, 1)

	todayRevenue, todayBills, err := s.analyticsRepo.GetRevenueBetween(ctx, todayStart, tomorrow)
	if err != nil {
		return nil, err
	}
	stats.TodayRevenue = todayRevenue
	stats.TodayBills = todayBills

	stats.TotalRevenue, err = s.analyticsRepo.GetTotalRevenue(ctx)
	if err != nil {
		return nil, err
	}

	stats.TotalBills, err = s.analyticsRepo.GetTotalBills(ctx)
	if err != nil {
		return nil, err
	}

	stats.TotalProducts, err = s.productRepo.CountAll(ctx)
	if err != nil {
		return nil, err
	}

	stats.TotalCustomers, err = s.customerRepo.CountAll(ctx)
	if err != nil {
		return nil, err
	}

	stats.LowStockProducts, err = s.productRepo.GetLowStock(ctx, s.lowStockThreshold)
	if err != nil {
		return nil, err
	}

	stats.OutOfStockCount, err = s.productRepo.CountOutOfStock(ctx)
	if err != nil {
		return nil, err
	}

	return stats, nil
}
