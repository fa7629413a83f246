package models

import "time"

// Product represents a catalog listing. Products are soft-deleted (is_active
// flipped to false) so historical order items keep a valid reference.
type Product struct {
	ID          int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	SKU         string    `gorm:"column:sku;uniqueIndex;not null" json:"sku"`
	Name        string    `gorm:"column:name;not null;index" json:"name"`
	Description *string   `gorm:"column:description" json:"description,omitempty"`
	Price       float64   `gorm:"column:price;not null" json:"price"`
	CategoryID  int64     `gorm:"column:category_id;not null;index" json:"category_id"`
	ImageURL    *string   `gorm:"column:image_url" json:"image_url,omitempty"`
	IsActive    bool      `gorm:"column:is_active;not null;default:true" json:"is_active"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
