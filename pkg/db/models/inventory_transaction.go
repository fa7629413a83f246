package models

import (
	"time"

	"github.com/stockroomlabs/stockroom-backend/pkg/enums"
)

// InventoryTransaction is an append-only ledger entry recording a stock
// movement. QuantityChange carries the requested delta, which may exceed the
// effective change when the snapshot was clamped at zero.
type InventoryTransaction struct {
	ID             int64                 `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	ProductID      int64                 `gorm:"column:product_id;not null;index" json:"product_id"`
	QuantityChange int                   `gorm:"column:quantity_change;not null" json:"quantity_change"`
	Kind           enums.TransactionKind `gorm:"column:kind;type:text;not null;index" json:"kind"`
	ReferenceID    *string               `gorm:"column:reference_id" json:"reference_id,omitempty"`
	Note           *string               `gorm:"column:note" json:"note,omitempty"`
	CreatedAt      time.Time             `gorm:"column:created_at;not null;index" json:"created_at"`
}
