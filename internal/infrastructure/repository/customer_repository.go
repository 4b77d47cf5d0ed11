package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/smartbill/smartbill-api/internal/domain/entity"
	domainRepo "github.com/smartbill/smartbill-api/internal/domain/repository"
	"github.com/smartbill/smartbill-api/pkg/pagination"
	"gorm.io/gorm"
)

type customerRepository struct {
	db *gorm.DB
}

// NewCustomerRepository creates a new customer repository
func NewCustomerRepository(db *gorm.DB) domainRepo.CustomerRepository {
	return &customerRepository{db: db}
}

func (r *customerRepository) Create(ctx context.Context, customer *entity.Customer) error {
	return r.db.WithContext(ctx).Create(customer).Error
}

func (r *customerRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	var customer entity.Customer
	err := r.db.WithContext(ctx).First(&customer, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &customer, err
}

func (r *customerRepository) GetByNameFold(ctx context.Context, name string) (*entity.Customer, error) {
	var customer entity.Customer
	err := r.db.WithContext(ctx).First(&customer, "LOWER(name) = LOWER(?)", name).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &customer, err
}

func (r *customerRepository) Update(ctx context.Context, customer *entity.Customer) error {
	return r.db.WithContext(ctx).Save(customer).Error
}

func (r *customerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.Customer{}, "id = ?", id).Error
}

func (r *customerRepository) List(ctx context.Context, params *pagination.PaginationParams, search string) ([]entity.Customer, int64, error) {
	var customers []entity.Customer
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Customer{})

	if search != "" {
		query = query.Where("name ILIKE ? OR email ILIKE ? OR phone ILIKE ?",
			"%"+search+"%", "%"+search+"%", "%"+search+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Order("total_spent_cents DESC").
		Find(&customers).Error

	return customers, total, err
}

func (r *customerRepository) SetAggregates(ctx context.Context, id uuid.UUID, agg domainRepo.CustomerAggregates) error {
	return r.db.WithContext(ctx).Model(&entity.Customer{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"total_orders":      agg.TotalOrders,
			"total_spent_cents": agg.TotalSpentCents,
			"last_purchase":     agg.LastPurchase,
		}).Error
}

// RecomputeAggregates derives order count, spend and last purchase from the
// customer's linked bills. The result is authoritative for reconciliation.
func (r *customerRepository) RecomputeAggregates(ctx context.Context, id uuid.UUID) (domainRepo.CustomerAggregates, error) {
	var row struct {
		TotalOrders     int
		TotalSpentCents int64
		LastPurchase    *time.Time
	}

	err := r.db.WithContext(ctx).Model(&entity.Bill{}).
		Select("COUNT(*) AS total_orders, COALESCE(SUM(total_cents), 0) AS total_spent_cents, MAX(bill_date) AS last_purchase").
		Where("customer_id = ?", id).
		Scan(&row).Error
	if err != nil {
		return domainRepo.CustomerAggregates{}, err
	}

	return domainRepo.CustomerAggregates{
		TotalOrders:     row.TotalOrders,
		TotalSpentCents: row.TotalSpentCents,
		LastPurchase:    row.LastPurchase,
	}, nil
}

func (r *customerRepository) ListIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&entity.Customer{}).
		Pluck("id", &ids).Error
	return ids, err
}

func (r *customerRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Customer{}).Count(&count).Error
	return count, err
}

func (r *customerRepository) CountRepeat(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Customer{}).
		Where("total_orders > 1").
		Count(&count).Error
	return count, err
}

func (r *customerRepository) CountInactive(ctx context.Context, cutoff time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Customer{}).
		Where("last_purchase IS NULL OR last_purchase < ?", cutoff).
		Count(&count).Error
	return count, err
}

func (r *customerRepository) TopBySpent(ctx context.Context, limit int) ([]domainRepo.TopCustomerResult, error) {
	var results []domainRepo.TopCustomerResult

	err := r.db.WithContext(ctx).Raw(`
		SELECT
			id AS customer_id,
			name AS customer_name,
			total_spent_cents / 100.0 AS total_spent,
			total_orders
		FROM customers
		WHERE deleted_at IS NULL
		ORDER BY total_spent_cents DESC
		LIMIT ?
	`, limit).Scan(&results).Error

	return results, err
}
