package models

import (
	"time"

	"github.com/stockroomlabs/stockroom-backend/pkg/enums"
)

// Order is the order header. Total = Subtotal + Tax + ShippingCost - Discount.
type Order struct {
	ID            int64               `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	OrderNumber   string              `gorm:"column:order_number;uniqueIndex;not null" json:"order_number"`
	OrderDate     time.Time           `gorm:"column:order_date;not null;index" json:"order_date"`
	Status        enums.OrderStatus   `gorm:"column:status;type:text;not null;index" json:"status"`
	PaymentStatus enums.PaymentStatus `gorm:"column:payment_status;type:text;not null" json:"payment_status"`
	Subtotal      float64             `gorm:"column:subtotal;not null" json:"subtotal"`
	Tax           float64             `gorm:"column:tax;not null" json:"tax"`
	ShippingCost  float64             `gorm:"column:shipping_cost;not null" json:"shipping_cost"`
	Discount      float64             `gorm:"column:discount;not null;default:0" json:"discount"`
	Total         float64             `gorm:"column:total;not null" json:"total"`
	Marketplace   string              `gorm:"column:marketplace;not null;index" json:"marketplace"`
	Items         []OrderItem         `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time           `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
