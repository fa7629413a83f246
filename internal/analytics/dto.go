package analytics

import "time"

// PeriodGrouping selects the bucket size for revenue reporting.
type PeriodGrouping string

const (
	GroupByDay   PeriodGrouping = "day"
	GroupByWeek  PeriodGrouping = "week"
	GroupByMonth PeriodGrouping = "month"
	GroupByYear  PeriodGrouping = "year"
)

// IsValid reports whether the value is a known PeriodGrouping.
func (g PeriodGrouping) IsValid() bool {
	switch g {
	case GroupByDay, GroupByWeek, GroupByMonth, GroupByYear:
		return true
	default:
		return false
	}
}

// DateRange bounds every analytics query.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// RevenuePoint is one bucket of the revenue report.
type RevenuePoint struct {
	Period            string  `json:"period"`
	Revenue           float64 `json:"revenue"`
	OrderCount        int     `json:"order_count"`
	AverageOrderValue float64 `json:"average_order_value"`
}

// RevenueReport aggregates order revenue over a date range.
type RevenueReport struct {
	TotalRevenue      float64        `json:"total_revenue"`
	AverageOrderValue float64        `json:"average_order_value"`
	DataPoints        []RevenuePoint `json:"data_points"`
}

// CategorySales is one category's share of item sales.
type CategorySales struct {
	CategoryID   int64   `json:"category_id"`
	CategoryName string  `json:"category_name"`
	TotalSales   float64 `json:"total_sales"`
	OrderCount   int     `json:"order_count"`
	ProductCount int     `json:"product_count"`
}

// CategorySalesReport aggregates item sales per category.
type CategorySalesReport struct {
	TotalSales float64         `json:"total_sales"`
	Data       []CategorySales `json:"data"`
}

// MarketplaceSales is one marketplace's order performance.
type MarketplaceSales struct {
	Name              string  `json:"name"`
	TotalSales        float64 `json:"total_sales"`
	OrderCount        int     `json:"order_count"`
	AverageOrderValue float64 `json:"average_order_value"`
}

// MarketplaceReport aggregates order performance per marketplace.
type MarketplaceReport struct {
	StartDate    string             `json:"start_date"`
	EndDate      string             `json:"end_date"`
	Marketplaces []MarketplaceSales `json:"marketplaces"`
}
