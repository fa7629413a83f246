package analytics

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
	pkgerrors "github.com/stockroomlabs/stockroom-backend/pkg/errors"
)

// Service defines the read-only analytics reports.
type Service interface {
	RevenueByPeriod(ctx context.Context, window DateRange, grouping PeriodGrouping) (*RevenueReport, error)
	SalesByCategory(ctx context.Context, window DateRange) (*CategorySalesReport, error)
	MarketplacePerformance(ctx context.Context, window DateRange) (*MarketplaceReport, error)
}

type service struct {
	repo Repository
}

// NewService builds an analytics service with the required dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("analytics repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) RevenueByPeriod(ctx context.Context, window DateRange, grouping PeriodGrouping) (*RevenueReport, error) {
	if err := validateRange(window); err != nil {
		return nil, err
	}
	if grouping == "" {
		grouping = GroupByDay
	}
	if !grouping.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "group_by must be day, week, month, or year")
	}

	rows, err := s.repo.OrderTotals(ctx, window)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "query order totals")
	}

	type bucket struct {
		revenue decimal.Decimal
		count   int
	}
	buckets := map[string]*bucket{}
	overall := decimal.Zero
	for _, row := range rows {
		key := periodKey(row, grouping)
		b, ok := buckets[key]
		if !ok {
			b = &bucket{}
			buckets[key] = b
		}
		amount := decimal.NewFromFloat(row.Total)
		b.revenue = b.revenue.Add(amount)
		b.count++
		overall = overall.Add(amount)
	}

	keys := make([]string, 0, len(buckets))
	for key := range buckets {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	points := make([]RevenuePoint, 0, len(keys))
	for _, key := range keys {
		b := buckets[key]
		points = append(points, RevenuePoint{
			Period:            key,
			Revenue:           b.revenue.InexactFloat64(),
			OrderCount:        b.count,
			AverageOrderValue: averageValue(b.revenue, b.count),
		})
	}

	return &RevenueReport{
		TotalRevenue:      overall.InexactFloat64(),
		AverageOrderValue: averageValue(overall, len(rows)),
		DataPoints:        points,
	}, nil
}

func (s *service) SalesByCategory(ctx context.Context, window DateRange) (*CategorySalesReport, error) {
	if err := validateRange(window); err != nil {
		return nil, err
	}

	rows, err := s.repo.CategorySales(ctx, window)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "query category sales")
	}

	total := decimal.Zero
	data := make([]CategorySales, 0, len(rows))
	for _, row := range rows {
		total = total.Add(decimal.NewFromFloat(row.TotalSales))
		data = append(data, CategorySales{
			CategoryID:   row.CategoryID,
			CategoryName: row.CategoryName,
			TotalSales:   row.TotalSales,
			OrderCount:   row.OrderCount,
			ProductCount: row.ProductCount,
		})
	}

	return &CategorySalesReport{
		TotalSales: total.InexactFloat64(),
		Data:       data,
	}, nil
}

func (s *service) MarketplacePerformance(ctx context.Context, window DateRange) (*MarketplaceReport, error) {
	if err := validateRange(window); err != nil {
		return nil, err
	}

	rows, err := s.repo.MarketplaceSales(ctx, window)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "query marketplace sales")
	}

	marketplaces := make([]MarketplaceSales, 0, len(rows))
	for _, row := range rows {
		marketplaces = append(marketplaces, MarketplaceSales{
			Name:              row.Marketplace,
			TotalSales:        row.TotalSales,
			OrderCount:        row.OrderCount,
			AverageOrderValue: averageValue(decimal.NewFromFloat(row.TotalSales), row.OrderCount),
		})
	}

	return &MarketplaceReport{
		StartDate:    window.Start.Format("2006-01-02"),
		EndDate:      window.End.Format("2006-01-02"),
		Marketplaces: marketplaces,
	}, nil
}

func validateRange(window DateRange) error {
	if window.Start.IsZero() || window.End.IsZero() {
		return pkgerrors.New(pkgerrors.CodeValidation, "start and end dates required")
	}
	if window.Start.After(window.End) {
		return pkgerrors.New(pkgerrors.CodeValidation, "start date must not be after end date")
	}
	return nil
}

func periodKey(row orderTotal, grouping PeriodGrouping) string {
	switch grouping {
	case GroupByWeek:
		year, week := row.OrderDate.ISOWeek()
		return fmt.Sprintf("%d-W%02d", year, week)
	case GroupByMonth:
		return row.OrderDate.Format("2006-01")
	case GroupByYear:
		return row.OrderDate.Format("2006")
	default:
		return row.OrderDate.Format("2006-01-02")
	}
}

func averageValue(total decimal.Decimal, count int) float64 {
	if count == 0 {
		return 0
	}
	return total.Div(decimal.NewFromInt(int64(count))).Round(2).InexactFloat64()
}
