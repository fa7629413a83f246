package orders

import (
	"time"

	"github.com/stockroomlabs/stockroom-backend/pkg/db/models"
	"github.com/stockroomlabs/stockroom-backend/pkg/enums"
)

// OrderItemInput describes one line of a new order.
type OrderItemInput struct {
	ProductID int64
	Quantity  int
	UnitPrice float64
}

// CreateOrderInput captures everything needed to persist a new order.
type CreateOrderInput struct {
	OrderDate     time.Time
	Status        enums.OrderStatus
	PaymentStatus enums.PaymentStatus
	Tax           float64
	ShippingCost  float64
	Discount      float64
	Marketplace   string
	Items         []OrderItemInput
}

// OrderFilters describe the inputs supported by the order list.
type OrderFilters struct {
	Marketplace *string
	Status      *enums.OrderStatus
	DateFrom    *time.Time
	DateTo      *time.Time
}

// OrderList wraps a page of orders plus the unpaginated count.
type OrderList struct {
	Orders []models.Order `json:"orders"`
	Total  int64          `json:"total"`
}
