package inventory

import (
	"context"

	"github.com/stockroomlabs/stockroom-backend/pkg/db/models"
	"github.com/stockroomlabs/stockroom-backend/pkg/pagination"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds an inventory repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindItem(ctx context.Context, productID int64) (*models.InventoryItem, error) {
	var item models.InventoryItem
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *repository) CreateItem(ctx context.Context, item *models.InventoryItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *repository) UpdateItemGuarded(ctx context.Context, update GuardedUpdate) (bool, error) {
	res := r.db.WithContext(ctx).Exec(`
		UPDATE inventory_items
		SET quantity = ?,
			low_stock_threshold = COALESCE(?, low_stock_threshold),
			last_restock_at = COALESCE(?, last_restock_at),
			updated_at = CURRENT_TIMESTAMP
		WHERE product_id = ? AND quantity = ?
	`, update.ToQuantity, update.Threshold, update.RestockAt, update.ProductID, update.FromQuantity)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repository) CreateTransaction(ctx context.Context, txn *models.InventoryTransaction) error {
	return r.db.WithContext(ctx).Create(txn).Error
}

func (r *repository) ListTransactions(ctx context.Context, filters TransactionFilters, params pagination.Params) ([]TransactionRecord, int64, error) {
	params = params.Normalize()

	query := r.db.WithContext(ctx).
		Table("inventory_transactions AS t").
		Joins("JOIN products p ON p.id = t.product_id")
	if filters.ProductID != nil {
		query = query.Where("t.product_id = ?", *filters.ProductID)
	}
	if filters.Kind != nil {
		query = query.Where("t.kind = ?", *filters.Kind)
	}
	if filters.DateFrom != nil {
		query = query.Where("t.created_at >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("t.created_at <= ?", *filters.DateTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var records []TransactionRecord
	err := query.
		Select(`t.id, t.product_id, p.name AS product_name, t.quantity_change,
			t.kind, t.reference_id, t.note, t.created_at`).
		Order("t.created_at DESC").
		Order("t.id DESC").
		Offset(params.Offset).
		Limit(params.Limit).
		Scan(&records).Error
	if err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

func (r *repository) ListItems(ctx context.Context, params pagination.Params) ([]ItemDetail, int64, error) {
	params = params.Normalize()

	query := r.db.WithContext(ctx).
		Table("inventory_items AS i").
		Joins("JOIN products p ON p.id = i.product_id")

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []ItemDetail
	err := query.
		Select(`i.product_id, p.name AS product_name, p.sku, i.quantity,
			i.low_stock_threshold, i.last_restock_at, i.updated_at`).
		Order("p.name ASC").
		Offset(params.Offset).
		Limit(params.Limit).
		Scan(&items).Error
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *repository) FindItemDetail(ctx context.Context, productID int64) (*ItemDetail, error) {
	var item ItemDetail
	err := r.db.WithContext(ctx).
		Table("inventory_items AS i").
		Joins("JOIN products p ON p.id = i.product_id").
		Select(`i.product_id, p.name AS product_name, p.sku, i.quantity,
			i.low_stock_threshold, i.last_restock_at, i.updated_at`).
		Where("i.product_id = ?", productID).
		Take(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *repository) ListLowStock(ctx context.Context) ([]ItemDetail, error) {
	var items []ItemDetail
	err := r.db.WithContext(ctx).
		Table("inventory_items AS i").
		Joins("JOIN products p ON p.id = i.product_id").
		Select(`i.product_id, p.name AS product_name, p.sku, i.quantity,
			i.low_stock_threshold, i.last_restock_at, i.updated_at`).
		Where("p.is_active = ?", true).
		Where("i.quantity < i.low_stock_threshold").
		Order("i.quantity ASC").
		Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
