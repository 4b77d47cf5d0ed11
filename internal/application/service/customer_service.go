package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/smartbill/smartbill-api/internal/domain/entity"
	"github.com/smartbill/smartbill-api/internal/domain/repository"
	"github.com/smartbill/smartbill-api/pkg/apperror"
	"github.com/smartbill/smartbill-api/pkg/pagination"
)

// inactivityWindow is how long without a purchase marks a customer inactive
const inactivityWindow = 30 * 24 * time.Hour

// Bill names that stand for anonymous sales, never bootstrapped into
// customer records
var anonymousNames = map[string]bool{
	"walk-in customer": true,
	"walk-in":          true,
	"cash":             true,
}

// CustomerService handles customer records, their derived purchase
// aggregates and the ledger maintenance operations
type CustomerService struct {
	customerRepo repository.CustomerRepository
	billRepo     repository.BillRepository
}

// NewCustomerService creates a new customer service
func NewCustomerService(customerRepo repository.CustomerRepository, billRepo repository.BillRepository) *CustomerService {
	return &CustomerService{
		customerRepo: customerRepo,
		billRepo:     billRepo,
	}
}

// CreateCustomerInput represents the create customer input
type CreateCustomerInput struct {
	Name    string
	Email   *string
	Phone   *string
	Address *string
	Notes   *string
}

// UpdateCustomerInput represents the update customer input, nil fields are
// left unchanged. Purchase aggregates are derived and cannot be set here.
type UpdateCustomerInput struct {
	Name    *string
	Email   *string
	Phone   *string
	Address *string
	Notes   *string
}

// CreateCustomer creates a new customer
func (s *CustomerService) CreateCustomer(ctx context.Context, input *CreateCustomerInput) (*entity.Customer, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperror.NewValidationError([]apperror.FieldError{
			{Field: "name", Message: "name is required"},
		})
	}

	existing, err := s.customerRepo.GetByNameFold(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError("Customer with this name already exists")
	}

	customer := &entity.Customer{
		Name:    name,
		Email:   input.Email,
		Phone:   input.Phone,
		Address: input.Address,
		Notes:   input.Notes,
	}

	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return nil, err
	}

	return customer, nil
}

// GetCustomer retrieves a customer by ID
func (s *CustomerService) GetCustomer(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}
	return customer, nil
}

// UpdateCustomer partially updates a customer's contact details
func (s *CustomerService) UpdateCustomer(ctx context.Context, id uuid.UUID, input *UpdateCustomerInput) (*entity.Customer, error) {
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, apperror.NewValidationError([]apperror.FieldError{
				{Field: "name", Message: "name cannot be empty"},
			})
		}
		customer.Name = name
	}
	if input.Email != nil {
		customer.Email = input.Email
	}
	if input.Phone != nil {
		customer.Phone = input.Phone
	}
	if input.Address != nil {
		customer.Address = input.Address
	}
	if input.Notes != nil {
		customer.Notes = input.Notes
	}

	if err := s.customerRepo.Update(ctx, customer); err != nil {
		return nil, err
	}

	return customer, nil
}

// DeleteCustomer soft deletes a customer. Their bills remain on record.
func (s *CustomerService) DeleteCustomer(ctx context.Context, id uuid.UUID) error {
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if customer == nil {
		return apperror.NewNotFoundError("Customer")
	}
	return s.customerRepo.Delete(ctx, id)
}

// ListCustomers lists customers with search and pagination
func (s *CustomerService) ListCustomers(ctx context.Context, params *pagination.PaginationParams, search string) (*pagination.PaginatedResult[entity.Customer], error) {
	if params == nil {
		params = pagination.DefaultPagination()
	}

	customers, total, err := s.customerRepo.List(ctx, params, search)
	if err != nil {
		return nil, err
	}

	params.Validate()
	p := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(customers, p), nil
}

// GetCustomerBills returns a customer's purchase history, most recent first
func (s *CustomerService) GetCustomerBills(ctx context.Context, id uuid.UUID, params *pagination.PaginationParams) (*pagination.PaginatedResult[entity.Bill], error) {
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}

	if params == nil {
		params = pagination.DefaultPagination()
	}

	bills, total, err := s.billRepo.ListByCustomer(ctx, id, params)
	if err != nil {
		return nil, err
	}

	params.Validate()
	p := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(bills, p), nil
}

// CustomerMetrics summarizes the customer base
type CustomerMetrics struct {
	TotalCustomers    int64                          `json:"total_customers"`
	RepeatCustomers   int64                          `json:"repeat_customers"`
	InactiveCustomers int64                          `json:"inactive_customers"`
	TopCustomers      []repository.TopCustomerResult `json:"top_customers"`
}

// GetMetrics computes customer base metrics. Inactive means no purchase in
// the last 30 days.
func (s *CustomerService) GetMetrics(ctx context.Context) (*CustomerMetrics, error) {
	total, err := s.customerRepo.CountAll(ctx)
	if err != nil {
		return nil, err
	}

	repeat, err := s.customerRepo.CountRepeat(ctx)
	if err != nil {
		return nil, err
	}

	cutoff := time.Now().Add(-inactivityWindow)
	inactive, err := s.customerRepo.CountInactive(ctx, cutoff)
	if err != nil {
		return nil, err
	}

	top, err := s.customerRepo.TopBySpent(ctx, 5)
	if err != nil {
		return nil, err
	}

	return &CustomerMetrics{
		TotalCustomers:    total,
		RepeatCustomers:   repeat,
		InactiveCustomers: inactive,
		TopCustomers:      top,
	}, nil
}

// ReconcileCustomer recomputes one customer's purchase aggregates from
// their bills. Idempotent, running it twice changes nothing.
func (s *CustomerService) ReconcileCustomer(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}

	agg, err := s.customerRepo.RecomputeAggregates(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.customerRepo.SetAggregates(ctx, id, agg); err != nil {
		return nil, err
	}

	return s.customerRepo.GetByID(ctx, id)
}

// RebuildAll reconciles every customer's aggregates from the bill history.
// Returns how many customers were updated.
func (s *CustomerService) RebuildAll(ctx context.Context) (int, error) {
	ids, err := s.customerRepo.ListIDs(ctx)
	if err != nil {
		return 0, err
	}

	updated := 0
	for _, id := range ids {
		agg, err := s.customerRepo.RecomputeAggregates(ctx, id)
		if err != nil {
			return updated, err
		}
		if err := s.customerRepo.SetAggregates(ctx, id, agg); err != nil {
			return updated, err
		}
		updated++
	}

	return updated, nil
}

// BootstrapResult reports what a legacy-bill import did.
type BootstrapResult struct {
	Created int   `json:"created"`
	Linked  int64 `json:"linked"`
}

// BootstrapFromBills creates customer records from the names recorded on
// historical bills, links those bills, and derives aggregates. Anonymous
// names are skipped.
func (s *CustomerService) BootstrapFromBills(ctx context.Context) (*BootstrapResult, error) {
	names, err := s.billRepo.DistinctCustomerNames(ctx)
	if err != nil {
		return nil, err
	}

	result := &BootstrapResult{}
	for _, name := range names {
		trimmed := strings.TrimSpace(name)
		if trimmed == "" || anonymousNames[strings.ToLower(trimmed)] {
			continue
		}

		customer, err := s.customerRepo.GetByNameFold(ctx, trimmed)
		if err != nil {
			return result, err
		}
		if customer == nil {
			customer = &entity.Customer{Name: trimmed}
			if err := s.customerRepo.Create(ctx, customer); err != nil {
				return result, err
			}
			result.Created++
		}

		linked, err := s.billRepo.LinkBillsToCustomerByName(ctx, customer.ID, trimmed)
		if err != nil {
			return result, err
		}
		result.Linked += linked

		agg, err := s.customerRepo.RecomputeAggregates(ctx, customer.ID)
		if err != nil {
			return result, err
		}
		if err := s.customerRepo.SetAggregates(ctx, customer.ID, agg); err != nil {
			return result, err
		}
	}

	return result, nil
}
