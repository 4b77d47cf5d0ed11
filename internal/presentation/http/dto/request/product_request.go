package request

// CreateProductRequest represents a product creation request
type CreateProductRequest struct {
	Name     string   `json:"name" binding:"required,min=1,max=255"`
	Category string   `json:"category" binding:"omitempty,max=100"`
	Price    float64  `json:"price" binding:"min=0"`
	TaxRate  *float64 `json:"tax_rate" binding:"omitempty,min=0,max=1"`
	Stock    int      `json:"stock" binding:"min=0"`
}

// UpdateProductRequest represents a product update request
type UpdateProductRequest struct {
	Name     *string  `json:"name" binding:"omitempty,min=1,max=255"`
	Category *string  `json:"category" binding:"omitempty,max=100"`
	Price    *float64 `json:"price" binding:"omitempty,min=0"`
	TaxRate  *float64 `json:"tax_rate" binding:"omitempty,min=0,max=1"`
	Stock    *int     `json:"stock" binding:"omitempty,min=0"`
}

// ProductFilterRequest represents product filter parameters
type ProductFilterRequest struct {
	Search    string `form:"search"`
	Category  string `form:"category"`
	SortBy    string `form:"sort_by"`
	SortOrder string `form:"sort_order"`
	Page      int    `form:"page"`
	PerPage   int    `form:"per_page"`
}
