package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/smartbill/smartbill-api/internal/domain/entity"
	"github.com/smartbill/smartbill-api/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCustomerFixture() (*CustomerService, *fakeCustomerRepo, *fakeBillRepo) {
	products := newFakeProductRepo()
	customers := newFakeCustomerRepo()
	bills := newFakeBillRepo(products, customers)
	svc := NewCustomerService(customers, bills)
	return svc, customers, bills
}

func addBill(bills *fakeBillRepo, customerID *uuid.UUID, name string, totalCents int64, when time.Time) *entity.Bill {
	b := &entity.Bill{
		ID:           uuid.New(),
		CustomerID:   customerID,
		CustomerName: name,
		BillDate:     when,
		TotalCents:   totalCents,
	}
	bills.bills = append(bills.bills, b)
	return b
}

func TestCreateCustomerRejectsDuplicateNameCaseInsensitive(t *testing.T) {
	svc, _, _ := newCustomerFixture()

	_, err := svc.CreateCustomer(context.Background(), &CreateCustomerInput{Name: "Meena"})
	require.NoError(t, err)

	_, err = svc.CreateCustomer(context.Background(), &CreateCustomerInput{Name: "meena"})
	require.Error(t, err)
	assert.Equal(t, 409, apperror.GetAppError(err).Code)
}

func TestReconcileCustomerIsIdempotent(t *testing.T) {
	svc, customers, bills := newCustomerFixture()
	c := customers.add(&entity.Customer{Name: "Meena"})

	now := time.Now()
	addBill(bills, &c.ID, "Meena", 5000, now.Add(-48*time.Hour))
	addBill(bills, &c.ID, "Meena", 7000, now.Add(-24*time.Hour))

	first, err := svc.ReconcileCustomer(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, first.TotalOrders)
	assert.Equal(t, int64(12000), first.TotalSpentCents)

	second, err := svc.ReconcileCustomer(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, first.TotalOrders, second.TotalOrders)
	assert.Equal(t, first.TotalSpentCents, second.TotalSpentCents)
	require.NotNil(t, second.LastPurchase)
	assert.Equal(t, first.LastPurchase.Unix(), second.LastPurchase.Unix())
}

func TestRebuildAllFixesDriftedAggregates(t *testing.T) {
	svc, customers, bills := newCustomerFixture()
	c := customers.add(&entity.Customer{Name: "Drifted", TotalOrders: 99, TotalSpentCents: 999999})
	addBill(bills, &c.ID, "Drifted", 3000, time.Now())

	updated, err := svc.RebuildAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, updated)

	assert.Equal(t, 1, customers.customers[c.ID].TotalOrders)
	assert.Equal(t, int64(3000), customers.customers[c.ID].TotalSpentCents)
}

func TestBootstrapFromBillsSkipsAnonymousNames(t *testing.T) {
	svc, customers, bills := newCustomerFixture()

	now := time.Now()
	addBill(bills, nil, "Walk-in Customer", 1000, now)
	addBill(bills, nil, "CASH", 500, now)
	addBill(bills, nil, "Priya", 2000, now.Add(-time.Hour))
	addBill(bills, nil, "Priya", 3000, now)
	addBill(bills, nil, "Arun", 1500, now)

	result, err := svc.BootstrapFromBills(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, result.Created)
	assert.Equal(t, int64(3), result.Linked)

	priya, err := customers.GetByNameFold(context.Background(), "priya")
	require.NoError(t, err)
	require.NotNil(t, priya)
	assert.Equal(t, 2, priya.TotalOrders)
	assert.Equal(t, int64(5000), priya.TotalSpentCents)

	// Linked bills now carry the customer id
	var linked int
	for _, b := range bills.bills {
		if b.CustomerID != nil && *b.CustomerID == priya.ID {
			linked++
		}
	}
	assert.Equal(t, 2, linked)
}

func TestBootstrapFromBillsIsIdempotent(t *testing.T) {
	svc, _, bills := newCustomerFixture()
	addBill(bills, nil, "Priya", 2000, time.Now())

	result, err := svc.BootstrapFromBills(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Created)
	assert.Equal(t, int64(1), result.Linked)

	result, err = svc.BootstrapFromBills(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, result.Created)
	assert.Equal(t, int64(0), result.Linked)
}

func TestGetMetricsCountsRepeatAndInactive(t *testing.T) {
	svc, customers, _ := newCustomerFixture()

	recent := time.Now().Add(-time.Hour)
	stale := time.Now().Add(-60 * 24 * time.Hour)
	customers.add(&entity.Customer{Name: "Regular", TotalOrders: 5, TotalSpentCents: 50000, LastPurchase: &recent})
	customers.add(&entity.Customer{Name: "Lapsed", TotalOrders: 2, TotalSpentCents: 8000, LastPurchase: &stale})
	customers.add(&entity.Customer{Name: "New", TotalOrders: 1, TotalSpentCents: 1000, LastPurchase: &recent})

	metrics, err := svc.GetMetrics(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(3), metrics.TotalCustomers)
	assert.Equal(t, int64(2), metrics.RepeatCustomers)
	assert.Equal(t, int64(1), metrics.InactiveCustomers)
	require.NotEmpty(t, metrics.TopCustomers)
	assert.Equal(t, "Regular", metrics.TopCustomers[0].CustomerName)
}
