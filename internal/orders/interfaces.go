package orders

import (
	"context"

	"github.com/stockroomlabs/stockroom-backend/pkg/db/models"
	"github.com/stockroomlabs/stockroom-backend/pkg/enums"
	"github.com/stockroomlabs/stockroom-backend/pkg/pagination"
	"gorm.io/gorm"
)

// Repository defines persistence operations for order tables.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateOrder(ctx context.Context, order *models.Order) error
	FindOrder(ctx context.Context, orderID int64) (*models.Order, error)
	FindOrderByNumber(ctx context.Context, orderNumber string) (*models.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID int64, status enums.OrderStatus) error
	ListOrders(ctx context.Context, filters OrderFilters, params pagination.Params) ([]models.Order, int64, error)
	FindProducts(ctx context.Context, productIDs []int64) (map[int64]models.Product, error)
}
