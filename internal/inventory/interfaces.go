package inventory

import (
	"context"
	"time"

	"github.com/stockroomlabs/stockroom-backend/pkg/db/models"
	"github.com/stockroomlabs/stockroom-backend/pkg/pagination"
	"gorm.io/gorm"
)

// Repository defines persistence operations for inventory tables.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindItem(ctx context.Context, productID int64) (*models.InventoryItem, error)
	CreateItem(ctx context.Context, item *models.InventoryItem) error
	UpdateItemGuarded(ctx context.Context, update GuardedUpdate) (bool, error)
	CreateTransaction(ctx context.Context, txn *models.InventoryTransaction) error
	ListTransactions(ctx context.Context, filters TransactionFilters, params pagination.Params) ([]TransactionRecord, int64, error)
	ListItems(ctx context.Context, params pagination.Params) ([]ItemDetail, int64, error)
	FindItemDetail(ctx context.Context, productID int64) (*ItemDetail, error)
	ListLowStock(ctx context.Context) ([]ItemDetail, error)
}

// GuardedUpdate writes a new quantity only when the row still holds the
// quantity the caller read. Zero rows affected signals a concurrent write.
type GuardedUpdate struct {
	ProductID    int64
	FromQuantity int
	ToQuantity   int
	RestockAt    *time.Time
	Threshold    *int
}
