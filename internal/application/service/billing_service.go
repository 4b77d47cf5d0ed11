package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/smartbill/smartbill-api/internal/domain/entity"
	"github.com/smartbill/smartbill-api/internal/domain/repository"
	"github.com/smartbill/smartbill-api/pkg/apperror"
	"github.com/smartbill/smartbill-api/pkg/pagination"
)

// BillingService handles bill creation and retrieval
type BillingService struct {
	billRepo     repository.BillRepository
	productRepo  repository.ProductRepository
	customerRepo repository.CustomerRepository
}

// NewBillingService creates a new billing service
func NewBillingService(
	billRepo repository.BillRepository,
	productRepo repository.ProductRepository,
	customerRepo repository.CustomerRepository,
) *BillingService {
	return &BillingService{
		billRepo:     billRepo,
		productRepo:  productRepo,
		customerRepo: customerRepo,
	}
}

// BillItemInput represents one requested line of a bill
type BillItemInput struct {
	ProductID uuid.UUID
	Quantity  int
}

// CreateBillInput represents the create bill input
type CreateBillInput struct {
	CustomerID   *uuid.UUID
	CustomerName string
	Items        []BillItemInput
}

// CreateBill validates the whole request up front, then commits the bill,
// its items, the stock decrements and the customer aggregate update in a
// single transaction. Nothing is written until every line has passed
// validation, so a failed checkout leaves stock and ledgers untouched.
func (s *BillingService) CreateBill(ctx context.Context, input *CreateBillInput) (*entity.Bill, error) {
	if len(input.Items) == 0 {
		return nil, apperror.NewValidationError([]apperror.FieldError{
			{Field: "items", Message: "at least one item is required"},
		})
	}

	var fieldErrors []apperror.FieldError
	for i, item := range input.Items {
		if item.Quantity <= 0 {
			fieldErrors = append(fieldErrors, apperror.FieldError{
				Field:   fmt.Sprintf("items[%d].quantity", i),
				Message: fmt.Sprintf("quantity must be positive for product %s", item.ProductID),
			})
		}
	}
	if len(fieldErrors) > 0 {
		return nil, apperror.NewValidationError(fieldErrors)
	}

	// Requested quantities per product, duplicate lines merged
	stockDecrements := make(map[uuid.UUID]int)
	for _, item := range input.Items {
		stockDecrements[item.ProductID] += item.Quantity
	}

	productIDs := make([]uuid.UUID, 0, len(stockDecrements))
	for id := range stockDecrements {
		productIDs = append(productIDs, id)
	}

	products, err := s.productRepo.GetByIDs(ctx, productIDs)
	if err != nil {
		return nil, err
	}

	productMap := make(map[uuid.UUID]*entity.Product, len(products))
	for i := range products {
		productMap[products[i].ID] = &products[i]
	}

	for id := range stockDecrements {
		if _, exists := productMap[id]; !exists {
			return nil, apperror.NewNotFoundError(fmt.Sprintf("Product %s", id))
		}
	}

	// Early stock check for a precise error message. The conditional
	// decrement at commit is still the authority under concurrency.
	for id, qty := range stockDecrements {
		product := productMap[id]
		if product.Stock < qty {
			return nil, apperror.NewInsufficientStockError(product.Name, qty, product.Stock)
		}
	}

	// An unknown customer id is not a reason to reject a valid sale,
	// the bill is recorded as walk-in instead.
	customerID := input.CustomerID
	customerName := input.CustomerName
	if customerID != nil {
		customer, err := s.customerRepo.GetByID(ctx, *customerID)
		if err != nil {
			return nil, err
		}
		if customer == nil {
			customerID = nil
		} else if customerName == "" {
			customerName = customer.Name
		}
	}
	if customerName == "" {
		customerName = "Walk-in Customer"
	}

	// Line subtotals are exact integer cents. Tax is accumulated as a
	// weighted sum over the lines and rounded half-up exactly once, so
	// per-line rounding can never drift the bill total.
	var subtotalCents int64
	var taxSum float64
	billItems := make([]entity.BillItem, 0, len(input.Items))

	for _, item := range input.Items {
		product := productMap[item.ProductID]
		lineSubtotal := product.PriceCents * int64(item.Quantity)
		subtotalCents += lineSubtotal
		taxSum += float64(lineSubtotal) * product.TaxRate

		billItems = append(billItems, entity.BillItem{
			ProductID:     item.ProductID,
			Quantity:      item.Quantity,
			SubtotalCents: lineSubtotal,
		})
	}

	taxCents := int64(math.Floor(taxSum + 0.5))

	bill := &entity.Bill{
		CustomerID:    customerID,
		CustomerName:  customerName,
		BillDate:      time.Now(),
		SubtotalCents: subtotalCents,
		TaxCents:      taxCents,
		TotalCents:    subtotalCents + taxCents,
		Items:         billItems,
	}

	failedIDs, err := s.billRepo.CreateWithItems(ctx, bill, stockDecrements)
	if err != nil {
		// Validation already passed, so this is a storage-level failure.
		// Everything rolled back; the client can safely retry.
		return nil, apperror.NewConsistencyError("Could not complete the sale, please retry")
	}
	if len(failedIDs) > 0 {
		// A concurrent sale consumed the stock between validation and
		// commit. Re-read the losing product for the current count.
		product, getErr := s.productRepo.GetByID(ctx, failedIDs[0])
		if getErr == nil && product != nil {
			return nil, apperror.NewInsufficientStockError(product.Name, stockDecrements[product.ID], product.Stock)
		}
		return nil, apperror.NewConflictError("Insufficient stock")
	}

	return s.billRepo.GetWithItems(ctx, bill.ID)
}

// GetBill retrieves a bill with its items
func (s *BillingService) GetBill(ctx context.Context, id uuid.UUID) (*entity.Bill, error) {
	bill, err := s.billRepo.GetWithItems(ctx, id)
	if err != nil {
		return nil, err
	}
	if bill == nil {
		return nil, apperror.NewNotFoundError("Bill")
	}
	return bill, nil
}

// ListBills returns bills, most recent first
func (s *BillingService) ListBills(ctx context.Context, params *repository.BillFilterParams) ([]entity.Bill, *pagination.Pagination, error) {
	if params.Pagination == nil {
		params.Pagination = pagination.DefaultPagination()
	}

	bills, total, err := s.billRepo.List(ctx, params)
	if err != nil {
		return nil, nil, err
	}

	params.Pagination.Validate()
	return bills, pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total), nil
}
