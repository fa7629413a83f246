package models

import "time"

// OrderItem captures the priced snapshot of one product line within an order.
// Items are immutable once the order is created and never outlive it.
type OrderItem struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	OrderID   int64     `gorm:"column:order_id;not null;index" json:"order_id"`
	ProductID int64     `gorm:"column:product_id;not null;index" json:"product_id"`
	Quantity  int       `gorm:"column:quantity;not null" json:"quantity"`
	UnitPrice float64   `gorm:"column:unit_price;not null" json:"unit_price"`
	Subtotal  float64   `gorm:"column:subtotal;not null" json:"subtotal"`
	CreatedAt time.Time `gorm:"column:created_at;not null" json:"created_at"`
}
