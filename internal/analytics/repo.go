package analytics

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// orderTotal is the raw material for revenue bucketing, which happens in Go
// so the grouping logic is identical across SQL dialects.
type orderTotal struct {
	OrderDate time.Time
	Total     float64
}

type categorySalesRow struct {
	CategoryID   int64
	CategoryName string
	TotalSales   float64
	OrderCount   int
	ProductCount int
}

type marketplaceRow struct {
	Marketplace string
	TotalSales  float64
	OrderCount  int
}

// Repository defines the read queries behind the analytics reports.
type Repository interface {
	OrderTotals(ctx context.Context, window DateRange) ([]orderTotal, error)
	CategorySales(ctx context.Context, window DateRange) ([]categorySalesRow, error)
	MarketplaceSales(ctx context.Context, window DateRange) ([]marketplaceRow, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds an analytics repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) OrderTotals(ctx context.Context, window DateRange) ([]orderTotal, error) {
	var rows []orderTotal
	err := r.db.WithContext(ctx).
		Table("orders").
		Select("order_date, total").
		Where("order_date BETWEEN ? AND ?", window.Start, window.End).
		Order("order_date ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) CategorySales(ctx context.Context, window DateRange) ([]categorySalesRow, error) {
	var rows []categorySalesRow
	err := r.db.WithContext(ctx).
		Table("order_items AS oi").
		Joins("JOIN orders o ON o.id = oi.order_id").
		Joins("JOIN products p ON p.id = oi.product_id").
		Joins("JOIN categories c ON c.id = p.category_id").
		Select(`c.id AS category_id, c.name AS category_name,
			SUM(oi.subtotal) AS total_sales,
			COUNT(DISTINCT oi.order_id) AS order_count,
			COUNT(DISTINCT oi.product_id) AS product_count`).
		Where("o.order_date BETWEEN ? AND ?", window.Start, window.End).
		Group("c.id").
		Group("c.name").
		Order("total_sales DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) MarketplaceSales(ctx context.Context, window DateRange) ([]marketplaceRow, error) {
	var rows []marketplaceRow
	err := r.db.WithContext(ctx).
		Table("orders").
		Select(`marketplace, SUM(total) AS total_sales, COUNT(id) AS order_count`).
		Where("order_date BETWEEN ? AND ?", window.Start, window.End).
		Group("marketplace").
		Order("total_sales DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
