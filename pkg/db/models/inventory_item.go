package models

import "time"

// InventoryItem is the denormalized stock snapshot for a product, one row per
// product. Quantity is only mutated through the inventory service so the
// transaction log stays the authoritative audit trail.
type InventoryItem struct {
	ProductID         int64      `gorm:"column:product_id;primaryKey" json:"product_id"`
	Quantity          int        `gorm:"column:quantity;not null;default:0" json:"quantity"`
	LowStockThreshold int        `gorm:"column:low_stock_threshold;not null;default:10" json:"low_stock_threshold"`
	LastRestockAt     *time.Time `gorm:"column:last_restock_at" json:"last_restock_at,omitempty"`
	UpdatedAt         time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
