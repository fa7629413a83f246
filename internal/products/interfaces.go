package products

import (
	"context"

	"github.com/stockroomlabs/stockroom-backend/pkg/db/models"
	"github.com/stockroomlabs/stockroom-backend/pkg/pagination"
	"gorm.io/gorm"
)

// Repository defines persistence operations for product and category tables.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateProduct(ctx context.Context, product *models.Product) error
	FindProduct(ctx context.Context, productID int64) (*models.Product, error)
	FindActiveProduct(ctx context.Context, productID int64) (*models.Product, error)
	UpdateProduct(ctx context.Context, product *models.Product) error
	ListProducts(ctx context.Context, filters ProductFilters, params pagination.Params) ([]models.Product, int64, error)
	CreateCategory(ctx context.Context, category *models.Category) error
	FindCategory(ctx context.Context, categoryID int64) (*models.Category, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
	CreateInventoryItem(ctx context.Context, item *models.InventoryItem) error
}
