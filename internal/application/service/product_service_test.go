package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/smartbill/smartbill-api/internal/domain/entity"
	"github.com/smartbill/smartbill-api/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProductFixture() (*ProductService, *fakeProductRepo) {
	products := newFakeProductRepo()
	return NewProductService(products, entity.DefaultTaxRate, 5), products
}

func TestCreateProductDefaults(t *testing.T) {
	svc, _ := newProductFixture()

	product, err := svc.CreateProduct(context.Background(), &CreateProductInput{
		Name:  "Atta 10kg",
		Price: 450.00,
		Stock: 20,
	})
	require.NoError(t, err)

	assert.Equal(t, "Uncategorized", product.Category)
	assert.Equal(t, entity.DefaultTaxRate, product.TaxRate)
	assert.Equal(t, int64(45000), product.PriceCents)
}

func TestCreateProductUsesConfiguredDefaultTaxRate(t *testing.T) {
	products := newFakeProductRepo()
	svc := NewProductService(products, 0.05, 5)

	product, err := svc.CreateProduct(context.Background(), &CreateProductInput{
		Name:  "Atta 10kg",
		Price: 450.00,
		Stock: 20,
	})
	require.NoError(t, err)
	assert.Equal(t, 0.05, product.TaxRate)

	// An explicit rate still wins over the configured default
	explicit := 0.12
	product, err = svc.CreateProduct(context.Background(), &CreateProductInput{
		Name:    "Oil 1l",
		Price:   180.00,
		Stock:   10,
		TaxRate: &explicit,
	})
	require.NoError(t, err)
	assert.Equal(t, 0.12, product.TaxRate)
}

func TestCreateProductStoresPriceInCents(t *testing.T) {
	svc, _ := newProductFixture()

	product, err := svc.CreateProduct(context.Background(), &CreateProductInput{
		Name:  "Pen",
		Price: 10.99,
		Stock: 5,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(1099), product.PriceCents)
	assert.InDelta(t, 10.99, product.GetPriceDecimal(), 0.001)
}

func TestCreateProductValidation(t *testing.T) {
	svc, _ := newProductFixture()

	_, err := svc.CreateProduct(context.Background(), &CreateProductInput{
		Name:  "   ",
		Price: -1,
		Stock: -2,
	})
	require.Error(t, err)

	appErr := apperror.GetAppError(err)
	assert.Equal(t, 422, appErr.Code)
	assert.Len(t, appErr.Errors, 3)
}

func TestUpdateProductPartial(t *testing.T) {
	svc, products := newProductFixture()
	p := products.add(&entity.Product{Name: "Soap", Category: "Toiletries", PriceCents: 2500, TaxRate: 0.18, Stock: 10})

	newPrice := 30.00
	updated, err := svc.UpdateProduct(context.Background(), p.ID, &UpdateProductInput{Price: &newPrice})
	require.NoError(t, err)

	assert.Equal(t, int64(3000), updated.PriceCents)
	assert.Equal(t, "Soap", updated.Name)
	assert.Equal(t, 10, updated.Stock)
}

func TestUpdateProductNotFound(t *testing.T) {
	svc, _ := newProductFixture()

	_, err := svc.UpdateProduct(context.Background(), uuid.New(), &UpdateProductInput{})
	require.Error(t, err)
	assert.Equal(t, 404, apperror.GetAppError(err).Code)
}

func TestGetLowStockProductsUsesThreshold(t *testing.T) {
	svc, products := newProductFixture()
	products.add(&entity.Product{Name: "Scarce", Stock: 3})
	products.add(&entity.Product{Name: "AtLimit", Stock: 5})
	products.add(&entity.Product{Name: "Plenty", Stock: 6})

	low, err := svc.GetLowStockProducts(context.Background(), 0)
	require.NoError(t, err)

	require.Len(t, low, 2)
	names := []string{low[0].Name, low[1].Name}
	assert.Contains(t, names, "Scarce")
	assert.Contains(t, names, "AtLimit")

	// Per-request override narrows the list
	low, err = svc.GetLowStockProducts(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, "Scarce", low[0].Name)
}
