package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/smartbill/smartbill-api/internal/domain/entity"
	"github.com/smartbill/smartbill-api/pkg/pagination"
)

// CustomerAggregates holds recomputed purchase totals for one customer
type CustomerAggregates struct {
	TotalOrders     int
	TotalSpentCents int64
	LastPurchase    *time.Time
}

// TopCustomerResult represents a customer's spending data
type TopCustomerResult struct {
	CustomerID   uuid.UUID
	CustomerName string
	TotalSpent   float64
	TotalOrders  int
}

// CustomerRepository defines the interface for customer data operations
type CustomerRepository interface {
	Create(ctx context.Context, customer *entity.Customer) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Customer, error)
	// GetByNameFold retrieves a customer by name, case-insensitively
	GetByNameFold(ctx context.Context, name string) (*entity.Customer, error)
	Update(ctx context.Context, customer *entity.Customer) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *pagination.PaginationParams, search string) ([]entity.Customer, int64, error)
	// SetAggregates overwrites a customer's derived purchase totals
	SetAggregates(ctx context.Context, id uuid.UUID, agg CustomerAggregates) error
	// RecomputeAggregates derives purchase totals from the customer's bills
	RecomputeAggregates(ctx context.Context, id uuid.UUID) (CustomerAggregates, error)
	ListIDs(ctx context.Context) ([]uuid.UUID, error)

	CountAll(ctx context.Context) (int64, error)
	// CountRepeat counts customers with more than one recorded purchase
	CountRepeat(ctx context.Context) (int64, error)
	// CountInactive counts customers with no purchase since the cutoff
	CountInactive(ctx context.Context, cutoff time.Time) (int64, error)
	TopBySpent(ctx context.Context, limit int) ([]TopCustomerResult, error)
}
