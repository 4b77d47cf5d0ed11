package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/smartbill/smartbill-api/internal/application/service"
	"github.com/smartbill/smartbill-api/internal/domain/repository"
	"github.com/smartbill/smartbill-api/internal/presentation/http/dto/request"
	"github.com/smartbill/smartbill-api/internal/presentation/http/dto/response"
	"github.com/smartbill/smartbill-api/pkg/pagination"
)

// BillingHandler handles billing-related HTTP requests
type BillingHandler struct {
	billingService *service.BillingService
}

// NewBillingHandler creates a new billing handler
func NewBillingHandler(billingService *service.BillingService) *BillingHandler {
	return &BillingHandler{billingService: billingService}
}

// Create handles checkout, creating a bill from the requested items
func (h *BillingHandler) Create(c *gin.Context) {
	var req request.CreateBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	items := make([]service.BillItemInput, len(req.Items))
	for i, item := range req.Items {
		items[i] = service.BillItemInput{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		}
	}

	input := &service.CreateBillInput{
		CustomerID:   req.CustomerID,
		CustomerName: req.CustomerName,
		Items:        items,
	}

	bill, err := h.billingService.CreateBill(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Bill created successfully", bill)
}

// Get handles retrieving a single bill with its items
func (h *BillingHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid bill ID")
		return
	}

	bill, err := h.billingService.GetBill(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Bill retrieved successfully", bill)
}

// List handles listing bills, most recent first
func (h *BillingHandler) List(c *gin.Context) {
	var filter request.BillFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	params := &repository.BillFilterParams{
		Pagination: &pagination.PaginationParams{
			Page:    filter.Page,
			PerPage: filter.PerPage,
		},
	}

	if filter.CustomerID != "" {
		customerID, err := uuid.Parse(filter.CustomerID)
		if err == nil {
			params.CustomerID = &customerID
		}
	}

	if filter.StartDate != "" {
		if start, err := time.Parse("2006-01-02", filter.StartDate); err == nil {
			params.StartDate = &start
		}
	}

	if filter.EndDate != "" {
		if end, err := time.Parse("2006-01-02", filter.EndDate); err == nil {
			// End date is inclusive for callers
			end = end.AddDate(0, 0, 1)
			params.EndDate = &end
		}
	}

	bills, p, err := h.billingService.ListBills(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Bills retrieved successfully", pagination.NewPaginatedResult(bills, p))
}
