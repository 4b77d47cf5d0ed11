package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/smartbill/smartbill-api/internal/domain/entity"
	"github.com/smartbill/smartbill-api/pkg/pagination"
)

// BillRepository defines the interface for bill data operations.
// Bills are append-only: there is no Update or Delete.
type BillRepository interface {
	// CreateWithItems persists the bill and its items, decrements product
	// stock conditionally, and applies customer aggregate increments, all in
	// a single transaction. If any product has insufficient stock the whole
	// transaction is rolled back and the failing product IDs are returned.
	CreateWithItems(ctx context.Context, bill *entity.Bill, decrements map[uuid.UUID]int) (failedIDs []uuid.UUID, err error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Bill, error)
	// GetWithItems retrieves a bill with its line items and products preloaded
	GetWithItems(ctx context.Context, id uuid.UUID) (*entity.Bill, error)
	// List returns bills ordered most recent first
	List(ctx context.Context, params *BillFilterParams) ([]entity.Bill, int64, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID, params *pagination.PaginationParams) ([]entity.Bill, int64, error)
	// DistinctCustomerNames returns the distinct non-empty customer names
	// recorded on bills, for bootstrapping customer records from history.
	DistinctCustomerNames(ctx context.Context) ([]string, error)
	// LinkBillsToCustomerByName attaches unlinked bills whose recorded name
	// matches (case-insensitive) to the given customer. Returns rows linked.
	LinkBillsToCustomerByName(ctx context.Context, customerID uuid.UUID, name string) (int64, error)
}

// BillFilterParams contains filtering parameters for bill queries
type BillFilterParams struct {
	Pagination *pagination.PaginationParams
	CustomerID *uuid.UUID
	StartDate  *time.Time
	EndDate    *time.Time
}
