package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/smartbill/smartbill-api/internal/domain/entity"
	"github.com/smartbill/smartbill-api/internal/domain/repository"
	"github.com/smartbill/smartbill-api/pkg/pagination"
)

// In-memory repository fakes. The bill fake honors the same all-or-nothing
// contract as the real implementation: on insufficient stock nothing is
// written and the failing product IDs come back.

type fakeProductRepo struct {
	products map[uuid.UUID]*entity.Product
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: make(map[uuid.UUID]*entity.Product)}
}

func (r *fakeProductRepo) add(p *entity.Product) *entity.Product {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.products[p.ID] = p
	return p
}

func (r *fakeProductRepo) Create(_ context.Context, product *entity.Product) error {
	r.add(product)
	return nil
}

func (r *fakeProductRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProductRepo) GetByIDs(_ context.Context, ids []uuid.UUID) ([]entity.Product, error) {
	var out []entity.Product
	for _, id := range ids {
		if p, ok := r.products[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakeProductRepo) Update(_ context.Context, product *entity.Product) error {
	r.products[product.ID] = product
	return nil
}

func (r *fakeProductRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.products, id)
	return nil
}

func (r *fakeProductRepo) List(_ context.Context, params *repository.ProductFilterParams) ([]entity.Product, int64, error) {
	var out []entity.Product
	for _, p := range r.products {
		if params.Search != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(params.Search)) {
			continue
		}
		if params.Category != "" && p.Category != params.Category {
			continue
		}
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, int64(len(out)), nil
}

func (r *fakeProductRepo) GetLowStock(_ context.Context, threshold int) ([]entity.Product, error) {
	var out []entity.Product
	for _, p := range r.products {
		if p.Stock <= threshold {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Stock < out[j].Stock })
	return out, nil
}

func (r *fakeProductRepo) CountAll(_ context.Context) (int64, error) {
	return int64(len(r.products)), nil
}

func (r *fakeProductRepo) CountOutOfStock(_ context.Context) (int64, error) {
	var count int64
	for _, p := range r.products {
		if p.Stock == 0 {
			count++
		}
	}
	return count, nil
}

type fakeCustomerRepo struct {
	customers map[uuid.UUID]*entity.Customer
	bills     *fakeBillRepo
}

func newFakeCustomerRepo() *fakeCustomerRepo {
	return &fakeCustomerRepo{customers: make(map[uuid.UUID]*entity.Customer)}
}

func (r *fakeCustomerRepo) add(c *entity.Customer) *entity.Customer {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.customers[c.ID] = c
	return c
}

func (r *fakeCustomerRepo) Create(_ context.Context, customer *entity.Customer) error {
	r.add(customer)
	return nil
}

func (r *fakeCustomerRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Customer, error) {
	c, ok := r.customers[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *fakeCustomerRepo) GetByNameFold(_ context.Context, name string) (*entity.Customer, error) {
	for _, c := range r.customers {
		if strings.EqualFold(c.Name, name) {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeCustomerRepo) Update(_ context.Context, customer *entity.Customer) error {
	r.customers[customer.ID] = customer
	return nil
}

func (r *fakeCustomerRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.customers, id)
	return nil
}

func (r *fakeCustomerRepo) List(_ context.Context, _ *pagination.PaginationParams, search string) ([]entity.Customer, int64, error) {
	var out []entity.Customer
	for _, c := range r.customers {
		if search != "" && !strings.Contains(strings.ToLower(c.Name), strings.ToLower(search)) {
			continue
		}
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TotalSpentCents > out[j].TotalSpentCents })
	return out, int64(len(out)), nil
}

func (r *fakeCustomerRepo) SetAggregates(_ context.Context, id uuid.UUID, agg repository.CustomerAggregates) error {
	c, ok := r.customers[id]
	if !ok {
		return nil
	}
	c.TotalOrders = agg.TotalOrders
	c.TotalSpentCents = agg.TotalSpentCents
	c.LastPurchase = agg.LastPurchase
	return nil
}

func (r *fakeCustomerRepo) RecomputeAggregates(_ context.Context, id uuid.UUID) (repository.CustomerAggregates, error) {
	var agg repository.CustomerAggregates
	if r.bills == nil {
		return agg, nil
	}
	for _, b := range r.bills.bills {
		if b.CustomerID == nil || *b.CustomerID != id {
			continue
		}
		agg.TotalOrders++
		agg.TotalSpentCents += b.TotalCents
		if agg.LastPurchase == nil || b.BillDate.After(*agg.LastPurchase) {
			d := b.BillDate
			agg.LastPurchase = &d
		}
	}
	return agg, nil
}

func (r *fakeCustomerRepo) ListIDs(_ context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	for id := range r.customers {
		ids = append(ids, id)
	}
	return ids, nil
}

func (r *fakeCustomerRepo) CountAll(_ context.Context) (int64, error) {
	return int64(len(r.customers)), nil
}

func (r *fakeCustomerRepo) CountRepeat(_ context.Context) (int64, error) {
	var count int64
	for _, c := range r.customers {
		if c.TotalOrders > 1 {
			count++
		}
	}
	return count, nil
}

func (r *fakeCustomerRepo) CountInactive(_ context.Context, cutoff time.Time) (int64, error) {
	var count int64
	for _, c := range r.customers {
		if c.LastPurchase == nil || c.LastPurchase.Before(cutoff) {
			count++
		}
	}
	return count, nil
}

func (r *fakeCustomerRepo) TopBySpent(_ context.Context, limit int) ([]repository.TopCustomerResult, error) {
	var all []*entity.Customer
	for _, c := range r.customers {
		all = append(all, c)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].TotalSpentCents > all[j].TotalSpentCents })
	var out []repository.TopCustomerResult
	for i, c := range all {
		if i >= limit {
			break
		}
		out = append(out, repository.TopCustomerResult{
			CustomerID:   c.ID,
			CustomerName: c.Name,
			TotalSpent:   float64(c.TotalSpentCents) / 100,
			TotalOrders:  c.TotalOrders,
		})
	}
	return out, nil
}

type fakeBillRepo struct {
	bills     []*entity.Bill
	products  *fakeProductRepo
	customers *fakeCustomerRepo
}

func newFakeBillRepo(products *fakeProductRepo, customers *fakeCustomerRepo) *fakeBillRepo {
	r := &fakeBillRepo{products: products, customers: customers}
	if customers != nil {
		customers.bills = r
	}
	return r
}

func (r *fakeBillRepo) CreateWithItems(_ context.Context, bill *entity.Bill, decrements map[uuid.UUID]int) ([]uuid.UUID, error) {
	var failedIDs []uuid.UUID
	for id, qty := range decrements {
		p, ok := r.products.products[id]
		if !ok || p.Stock < qty {
			failedIDs = append(failedIDs, id)
		}
	}
	if len(failedIDs) > 0 {
		return failedIDs, nil
	}

	for id, qty := range decrements {
		r.products.products[id].Stock -= qty
	}

	if bill.ID == uuid.Nil {
		bill.ID = uuid.New()
	}
	for i := range bill.Items {
		if bill.Items[i].ID == uuid.Nil {
			bill.Items[i].ID = uuid.New()
		}
		bill.Items[i].BillID = bill.ID
	}
	stored := *bill
	r.bills = append(r.bills, &stored)

	if bill.CustomerID != nil && r.customers != nil {
		if c, ok := r.customers.customers[*bill.CustomerID]; ok {
			c.TotalOrders++
			c.TotalSpentCents += bill.TotalCents
			d := bill.BillDate
			c.LastPurchase = &d
		}
	}

	return nil, nil
}

func (r *fakeBillRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Bill, error) {
	for _, b := range r.bills {
		if b.ID == id {
			cp := *b
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeBillRepo) GetWithItems(ctx context.Context, id uuid.UUID) (*entity.Bill, error) {
	return r.GetByID(ctx, id)
}

func (r *fakeBillRepo) List(_ context.Context, _ *repository.BillFilterParams) ([]entity.Bill, int64, error) {
	out := make([]entity.Bill, 0, len(r.bills))
	for _, b := range r.bills {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BillDate.After(out[j].BillDate) })
	return out, int64(len(out)), nil
}

func (r *fakeBillRepo) ListByCustomer(_ context.Context, customerID uuid.UUID, _ *pagination.PaginationParams) ([]entity.Bill, int64, error) {
	var out []entity.Bill
	for _, b := range r.bills {
		if b.CustomerID != nil && *b.CustomerID == customerID {
			out = append(out, *b)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeBillRepo) DistinctCustomerNames(_ context.Context) ([]string, error) {
	seen := make(map[string]bool)
	var names []string
	for _, b := range r.bills {
		if b.CustomerName == "" || seen[b.CustomerName] {
			continue
		}
		seen[b.CustomerName] = true
		names = append(names, b.CustomerName)
	}
	return names, nil
}

func (r *fakeBillRepo) LinkBillsToCustomerByName(_ context.Context, customerID uuid.UUID, name string) (int64, error) {
	var linked int64
	for _, b := range r.bills {
		if b.CustomerID == nil && strings.EqualFold(b.CustomerName, name) {
			id := customerID
			b.CustomerID = &id
			linked++
		}
	}
	return linked, nil
}

type fakeAnalyticsRepo struct {
	daily        []repository.DailySalesResult
	monthly      []repository.MonthlySalesResult
	topProducts  []repository.TopProductResult
	totalRevenue float64
	totalBills   int64
}

func (r *fakeAnalyticsRepo) GetDailySales(_ context.Context, days int) ([]repository.DailySalesResult, error) {
	if days < len(r.daily) {
		return r.daily[len(r.daily)-days:], nil
	}
	return r.daily, nil
}

func (r *fakeAnalyticsRepo) GetDailySalesBetween(_ context.Context, start, end time.Time) ([]repository.DailySalesResult, error) {
	var out []repository.DailySalesResult
	for _, d := range r.daily {
		day, err := time.ParseInLocation("2006-01-02", d.Date, time.Local)
		if err != nil {
			continue
		}
		if !day.Before(start) && day.Before(end) {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r *fakeAnalyticsRepo) GetMonthlySales(_ context.Context, months int) ([]repository.MonthlySalesResult, error) {
	if months < len(r.monthly) {
		return r.monthly[len(r.monthly)-months:], nil
	}
	return r.monthly, nil
}

func (r *fakeAnalyticsRepo) GetTopProducts(_ context.Context, limit int) ([]repository.TopProductResult, error) {
	if limit < len(r.topProducts) {
		return r.topProducts[:limit], nil
	}
	return r.topProducts, nil
}

func (r *fakeAnalyticsRepo) GetTotalRevenue(_ context.Context) (float64, error) {
	return r.totalRevenue, nil
}

func (r *fakeAnalyticsRepo) GetTotalBills(_ context.Context) (int64, error) {
	return r.totalBills, nil
}

func (r *fakeAnalyticsRepo) GetRevenueBetween(ctx context.Context, start, end time.Time) (float64, int64, error) {
	daily, err := r.GetDailySalesBetween(ctx, start, end)
	if err != nil {
		return 0, 0, err
	}
	var revenue float64
	var bills int64
	for _, d := range daily {
		revenue += d.Revenue
		bills += int64(d.BillCount)
	}
	return revenue, bills, nil
}
