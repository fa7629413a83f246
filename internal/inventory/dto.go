package inventory

import (
	"time"

	"github.com/stockroomlabs/stockroom-backend/pkg/enums"
)

// AdjustmentInput captures a relative stock change for one product.
type AdjustmentInput struct {
	ProductID   int64
	Delta       int
	Kind        enums.TransactionKind
	ReferenceID *string
	Note        *string
	// OccurredAt backdates the transaction record. Nil means now.
	OccurredAt *time.Time
}

// SetQuantityInput replaces the current stock level with an absolute value.
type SetQuantityInput struct {
	ProductID         int64
	Quantity          int
	LowStockThreshold *int
	Note              *string
}

// AdjustmentResult reports what an adjustment actually did. RequestedChange
// is the delta the caller asked for; AppliedChange is the delta after the
// floor at zero.
type AdjustmentResult struct {
	ProductID       int64      `json:"product_id"`
	RequestedChange int        `json:"requested_change"`
	AppliedChange   int        `json:"applied_change"`
	Quantity        int        `json:"quantity"`
	LastRestockAt   *time.Time `json:"last_restock_at,omitempty"`
}

// ItemDetail joins an inventory row with its product for list and detail reads.
type ItemDetail struct {
	ProductID         int64      `json:"product_id"`
	ProductName       string     `json:"product_name"`
	SKU               string     `json:"sku"`
	Quantity          int        `json:"quantity"`
	LowStockThreshold int        `json:"low_stock_threshold"`
	LastRestockAt     *time.Time `json:"last_restock_at,omitempty"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// ItemList wraps a page of inventory rows plus the unpaginated count.
type ItemList struct {
	Items []ItemDetail `json:"items"`
	Total int64        `json:"total"`
}

// TransactionFilters describe the inputs supported by the transaction list.
type TransactionFilters struct {
	ProductID *int64
	Kind      *enums.TransactionKind
	DateFrom  *time.Time
	DateTo    *time.Time
}

// TransactionRecord exposes one ledger entry joined with its product name.
type TransactionRecord struct {
	ID             int64                 `json:"id"`
	ProductID      int64                 `json:"product_id"`
	ProductName    string                `json:"product_name"`
	QuantityChange int                   `json:"quantity_change"`
	Kind           enums.TransactionKind `json:"kind"`
	ReferenceID    *string               `json:"reference_id,omitempty"`
	Note           *string               `json:"note,omitempty"`
	CreatedAt      time.Time             `json:"created_at"`
}

// TransactionList wraps a page of ledger entries plus the unpaginated count.
type TransactionList struct {
	Transactions []TransactionRecord `json:"transactions"`
	Total        int64               `json:"total"`
}
