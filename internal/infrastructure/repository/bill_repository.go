package repository

import (
	"bytes"
	"context"
	"errors"
	"sort"

	"github.com/google/uuid"
	"github.com/smartbill/smartbill-api/internal/domain/entity"
	domainRepo "github.com/smartbill/smartbill-api/internal/domain/repository"
	"github.com/smartbill/smartbill-api/pkg/pagination"
	"gorm.io/gorm"
)

type billRepository struct {
	db *gorm.DB
}

// NewBillRepository creates a new bill repository
func NewBillRepository(db *gorm.DB) domainRepo.BillRepository {
	return &billRepository{db: db}
}

// CreateWithItems writes the bill, its items, the stock decrements and the
// customer aggregate update in one transaction. Stock is decremented with a
// conditional UPDATE so a concurrent sale cannot drive it negative; a zero
// RowsAffected means the product no longer covers the requested quantity and
// the whole transaction rolls back.
func (r *billRepository) CreateWithItems(ctx context.Context, bill *entity.Bill, decrements map[uuid.UUID]int) ([]uuid.UUID, error) {
	var failedIDs []uuid.UUID

	// Decrement in a stable order so concurrent checkouts touching the
	// same products lock rows in the same sequence and cannot deadlock.
	ids := sortedProductIDs(decrements)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, id := range ids {
			amount := decrements[id]
			result := tx.Model(&entity.Product{}).
				Where("id = ? AND stock >= ?", id, amount).
				Update("stock", gorm.Expr("stock - ?", amount))

			if result.Error != nil {
				return result.Error
			}

			if result.RowsAffected == 0 {
				failedIDs = append(failedIDs, id)
			}
		}

		if len(failedIDs) > 0 {
			return gorm.ErrInvalidTransaction
		}

		// Creates the bill items through the association in the same insert
		if err := tx.Create(bill).Error; err != nil {
			return err
		}

		if bill.CustomerID != nil {
			result := tx.Model(&entity.Customer{}).
				Where("id = ?", *bill.CustomerID).
				Updates(map[string]interface{}{
					"total_orders":      gorm.Expr("total_orders + 1"),
					"total_spent_cents": gorm.Expr("total_spent_cents + ?", bill.TotalCents),
					"last_purchase":     bill.BillDate,
				})
			if result.Error != nil {
				return result.Error
			}
		}

		return nil
	})

	if len(failedIDs) > 0 {
		return failedIDs, nil
	}
	return nil, err
}

func sortedProductIDs(decrements map[uuid.UUID]int) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(decrements))
	for id := range decrements {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return bytes.Compare(ids[i][:], ids[j][:]) < 0
	})
	return ids
}

func (r *billRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Bill, error) {
	var bill entity.Bill
	err := r.db.WithContext(ctx).First(&bill, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &bill, err
}

func (r *billRepository) GetWithItems(ctx context.Context, id uuid.UUID) (*entity.Bill, error) {
	var bill entity.Bill
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Items.Product").
		Preload("Customer").
		First(&bill, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &bill, err
}

func (r *billRepository) List(ctx context.Context, params *domainRepo.BillFilterParams) ([]entity.Bill, int64, error) {
	var bills []entity.Bill
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Bill{})

	if params.CustomerID != nil {
		query = query.Where("customer_id = ?", *params.CustomerID)
	}

	if params.StartDate != nil {
		query = query.Where("bill_date >= ?", *params.StartDate)
	}

	if params.EndDate != nil {
		query = query.Where("bill_date < ?", *params.EndDate)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Preload("Items").
		Preload("Items.Product").
		Order("bill_date DESC").
		Find(&bills).Error

	return bills, total, err
}

func (r *billRepository) ListByCustomer(ctx context.Context, customerID uuid.UUID, params *pagination.PaginationParams) ([]entity.Bill, int64, error) {
	var bills []entity.Bill
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Bill{}).
		Where("customer_id = ?", customerID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Preload("Items").
		Order("bill_date DESC").
		Find(&bills).Error

	return bills, total, err
}

func (r *billRepository) DistinctCustomerNames(ctx context.Context) ([]string, error) {
	var names []string
	err := r.db.WithContext(ctx).Model(&entity.Bill{}).
		Distinct("customer_name").
		Where("customer_name <> ''").
		Pluck("customer_name", &names).Error
	return names, err
}

func (r *billRepository) LinkBillsToCustomerByName(ctx context.Context, customerID uuid.UUID, name string) (int64, error) {
	result := r.db.WithContext(ctx).Model(&entity.Bill{}).
		Where("customer_id IS NULL AND LOWER(customer_name) = LOWER(?)", name).
		Update("customer_id", customerID)
	return result.RowsAffected, result.Error
}
