package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/smartbill/smartbill-api/internal/domain/entity"
	"github.com/smartbill/smartbill-api/internal/domain/repository"
	"github.com/smartbill/smartbill-api/pkg/apperror"
	"github.com/smartbill/smartbill-api/pkg/pagination"
)

// ProductService handles product-related operations
type ProductService struct {
	productRepo       repository.ProductRepository
	defaultTaxRate    float64
	lowStockThreshold int
}

// NewProductService creates a new product service. A non-positive
// defaultTaxRate falls back to the standard rate.
func NewProductService(productRepo repository.ProductRepository, defaultTaxRate float64, lowStockThreshold int) *ProductService {
	if defaultTaxRate <= 0 {
		defaultTaxRate = entity.DefaultTaxRate
	}
	return &ProductService{
		productRepo:       productRepo,
		defaultTaxRate:    defaultTaxRate,
		lowStockThreshold: lowStockThreshold,
	}
}

// CreateProductInput represents the create product input
type CreateProductInput struct {
	Name     string
	Category string
	Price    float64
	TaxRate  *float64
	Stock    int
}

// UpdateProductInput represents the update product input, nil fields are
// left unchanged
type UpdateProductInput struct {
	Name     *string
	Category *string
	Price    *float64
	TaxRate  *float64
	Stock    *int
}

func validateProductFields(name string, price float64, taxRate *float64, stock int) []apperror.FieldError {
	var fieldErrors []apperror.FieldError
	if strings.TrimSpace(name) == "" {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "name", Message: "name is required"})
	}
	if price < 0 {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "price", Message: "price cannot be negative"})
	}
	if taxRate != nil && (*taxRate < 0 || *taxRate > 1) {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "tax_rate", Message: "tax rate must be between 0 and 1"})
	}
	if stock < 0 {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "stock", Message: "stock cannot be negative"})
	}
	return fieldErrors
}

// CreateProduct creates a new product
func (s *ProductService) CreateProduct(ctx context.Context, input *CreateProductInput) (*entity.Product, error) {
	if fieldErrors := validateProductFields(input.Name, input.Price, input.TaxRate, input.Stock); len(fieldErrors) > 0 {
		return nil, apperror.NewValidationError(fieldErrors)
	}

	category := input.Category
	if category == "" {
		category = "Uncategorized"
	}

	taxRate := s.defaultTaxRate
	if input.TaxRate != nil {
		taxRate = *input.TaxRate
	}

	product := &entity.Product{
		Name:     strings.TrimSpace(input.Name),
		Category: category,
		TaxRate:  taxRate,
		Stock:    input.Stock,
	}
	product.SetPriceFromDecimal(input.Price)

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}

	return product, nil
}

// GetProduct retrieves a product by ID
func (s *ProductService) GetProduct(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}
	return product, nil
}

// UpdateProduct partially updates a product
func (s *ProductService) UpdateProduct(ctx context.Context, id uuid.UUID, input *UpdateProductInput) (*entity.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}

	name := product.Name
	if input.Name != nil {
		name = *input.Name
	}
	price := product.GetPriceDecimal()
	if input.Price != nil {
		price = *input.Price
	}
	stock := product.Stock
	if input.Stock != nil {
		stock = *input.Stock
	}
	if fieldErrors := validateProductFields(name, price, input.TaxRate, stock); len(fieldErrors) > 0 {
		return nil, apperror.NewValidationError(fieldErrors)
	}

	product.Name = strings.TrimSpace(name)
	product.Stock = stock
	product.SetPriceFromDecimal(price)
	if input.Category != nil {
		product.Category = *input.Category
	}
	if input.TaxRate != nil {
		product.TaxRate = *input.TaxRate
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}

	return product, nil
}

// DeleteProduct soft deletes a product. Existing bill items keep their
// recorded subtotals.
func (s *ProductService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if product == nil {
		return apperror.NewNotFoundError("Product")
	}
	return s.productRepo.Delete(ctx, id)
}

// ListProducts lists products with search, sort and pagination
func (s *ProductService) ListProducts(ctx context.Context, params *repository.ProductFilterParams) (*pagination.PaginatedResult[entity.Product], error) {
	if params.Pagination == nil {
		params.Pagination = pagination.DefaultPagination()
	}

	products, total, err := s.productRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	params.Pagination.Validate()
	p := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(products, p), nil
}

// GetLowStockProducts returns products at or below the threshold. A
// non-positive threshold falls back to the configured default.
func (s *ProductService) GetLowStockProducts(ctx context.Context, threshold int) ([]entity.Product, error) {
	if threshold <= 0 {
		threshold = s.lowStockThreshold
	}
	return s.productRepo.GetLowStock(ctx, threshold)
}
