package products

import "github.com/stockroomlabs/stockroom-backend/pkg/db/models"

// CreateProductInput captures the fields accepted for a new product.
type CreateProductInput struct {
	SKU               string
	Name              string
	Description       *string
	Price             float64
	CategoryID        int64
	ImageURL          *string
	InitialQuantity   int
	LowStockThreshold *int
}

// UpdateProductInput carries partial product updates. Nil fields are left
// untouched.
type UpdateProductInput struct {
	Name        *string
	Description *string
	Price       *float64
	CategoryID  *int64
	ImageURL    *string
	IsActive    *bool
}

// ProductFilters describe the inputs supported by the product list.
type ProductFilters struct {
	CategoryID *int64
}

// ProductList wraps a page of products plus the unpaginated count.
type ProductList struct {
	Products []models.Product `json:"products"`
	Total    int64            `json:"total"`
}

// CreateCategoryInput captures the fields accepted for a new category.
type CreateCategoryInput struct {
	Name        string
	Description *string
}
