package repository

import (
	"context"
	"time"

	domainRepo "github.com/smartbill/smartbill-api/internal/domain/repository"
	"gorm.io/gorm"
)

type analyticsRepository struct {
	db *gorm.DB
}

// NewAnalyticsRepository creates a new analytics repository
func NewAnalyticsRepository(db *gorm.DB) domainRepo.AnalyticsRepository {
	return &analyticsRepository{db: db}
}

func (r *analyticsRepository) GetDailySales(ctx context.Context, days int) ([]domainRepo.DailySalesResult, error) {
	var results []domainRepo.DailySalesResult

	since := time.Now().AddDate(0, 0, -days)
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			to_char(bill_date, 'YYYY-MM-DD') as date,
			COALESCE(SUM(total_cents), 0) / 100.0 as revenue,
			COUNT(*) as bill_count
		FROM bills
		WHERE bill_date >= ?
		GROUP BY to_char(bill_date, 'YYYY-MM-DD')
		ORDER BY date ASC
	`, since).Scan(&results).Error

	if err != nil {
		return nil, err
	}

	return results, nil
}

func (r *analyticsRepository) GetDailySalesBetween(ctx context.Context, start, end time.Time) ([]domainRepo.DailySalesResult, error) {
	var results []domainRepo.DailySalesResult

	err := r.db.WithContext(ctx).Raw(`
		SELECT
			to_char(bill_date, 'YYYY-MM-DD') as date,
			COALESCE(SUM(total_cents), 0) / 100.0 as revenue,
			COUNT(*) as bill_count
		FROM bills
		WHERE bill_date >= ? AND bill_date < ?
		GROUP BY to_char(bill_date, 'YYYY-MM-DD')
		ORDER BY date ASC
	`, start, end).Scan(&results).Error

	if err != nil {
		return nil, err
	}

	return results, nil
}

func (r *analyticsRepository) GetMonthlySales(ctx context.Context, months int) ([]domainRepo.MonthlySalesResult, error) {
	var results []domainRepo.MonthlySalesResult

	since := time.Now().AddDate(0, -months, 0)
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			to_char(bill_date, 'YYYY-MM') as month,
			COALESCE(SUM(total_cents), 0) / 100.0 as revenue,
			COUNT(*) as bill_count
		FROM bills
		WHERE bill_date >= ?
		GROUP BY to_char(bill_date, 'YYYY-MM')
		ORDER BY month ASC
	`, since).Scan(&results).Error

	if err != nil {
		return nil, err
	}

	return results, nil
}

func (r *analyticsRepository) GetTopProducts(ctx context.Context, limit int) ([]domainRepo.TopProductResult, error) {
	var results []domainRepo.TopProductResult

	err := r.db.WithContext(ctx).Raw(`
		SELECT
			p.id as product_id,
			p.name as product_name,
			COALESCE(SUM(bi.quantity), 0) as quantity_sold,
			COALESCE(SUM(bi.subtotal_cents), 0) / 100.0 as revenue
		FROM bill_items bi
		JOIN products p ON p.id = bi.product_id
		GROUP BY p.id, p.name
		ORDER BY quantity_sold DESC
		LIMIT ?
	`, limit).Scan(&results).Error

	if err != nil {
		return nil, err
	}

	return results, nil
}

func (r *analyticsRepository) GetTotalRevenue(ctx context.Context) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).Raw(`
		SELECT COALESCE(SUM(total_cents), 0) / 100.0 FROM bills
	`).Scan(&total).Error
	return total, err
}

func (r *analyticsRepository) GetTotalBills(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Raw(`
		SELECT COUNT(*) FROM bills
	`).Scan(&count).Error
	return count, err
}

func (r *analyticsRepository) GetRevenueBetween(ctx context.Context, start, end time.Time) (float64, int64, error) {
	var row struct {
		Revenue   float64
		BillCount int64
	}

	err := r.db.WithContext(ctx).Raw(`
		SELECT
			COALESCE(SUM(total_cents), 0) / 100.0 as revenue,
			COUNT(*) as bill_count
		FROM bills
		WHERE bill_date >= ? AND bill_date < ?
	`, start, end).Scan(&row).Error

	return row.Revenue, row.BillCount, err
}
