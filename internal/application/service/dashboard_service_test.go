package service

import (
	"context"
	"testing"
	"time"

	"github.com/smartbill/smartbill-api/internal/domain/entity"
	"github.com/smartbill/smartbill-api/internal/domain/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetDashboardStats(t *testing.T) {
	analytics := &fakeAnalyticsRepo{
		daily:        []repository.DailySalesResult{{Date: time.Now().Format("2006-01-02"), Revenue: 320, BillCount: 4}},
		totalRevenue: 12000,
		totalBills:   150,
	}
	products := newFakeProductRepo()
	products.add(&entity.Product{Name: "Scarce", Stock: 2})
	products.add(&entity.Product{Name: "Gone", Stock: 0})
	products.add(&entity.Product{Name: "Plenty", Stock: 40})
	customers := newFakeCustomerRepo()
	customers.add(&entity.Customer{Name: "Asha"})

	svc := NewDashboardService(analytics, products, customers, 5)

	stats, err := svc.GetDashboardStats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 320.0, stats.TodayRevenue)
	assert.Equal(t, int64(4), stats.TodayBills)
	assert.Equal(t, 12000.0, stats.TotalRevenue)
	assert.Equal(t, int64(150), stats.TotalBills)
	assert.Equal(t, int64(3), stats.TotalProducts)
	assert.Equal(t, int64(1), stats.TotalCustomers)
	assert.Len(t, stats.LowStockProducts, 2)
	assert.Equal(t, int64(1), stats.OutOfStockCount)
}
