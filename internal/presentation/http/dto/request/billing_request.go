package request

import "github.com/google/uuid"

// BillItemRequest represents one line of a checkout request
type BillItemRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,min=1"`
}

// CreateBillRequest represents a checkout request
type CreateBillRequest struct {
	CustomerID   *uuid.UUID        `json:"customer_id"`
	CustomerName string            `json:"customer_name" binding:"omitempty,max=255"`
	Items        []BillItemRequest `json:"items" binding:"required,min=1,dive"`
}

// BillFilterRequest represents bill listing parameters
type BillFilterRequest struct {
	CustomerID string `form:"customer_id"`
	StartDate  string `form:"start_date"`
	EndDate    string `form:"end_date"`
	Page       int    `form:"page"`
	PerPage    int    `form:"per_page"`
}
