package controllers

import (
	"net/http"

	"github.com/stockroomlabs/stockroom-backend/api/responses"
	"github.com/stockroomlabs/stockroom-backend/api/validators"
	analyticssvc "github.com/stockroomlabs/stockroom-backend/internal/analytics"
	pkgerrors "github.com/stockroomlabs/stockroom-backend/pkg/errors"
	"github.com/stockroomlabs/stockroom-backend/pkg/logger"
)

// RevenueAnalytics reports revenue bucketed by day, week, month or year.
func RevenueAnalytics(svc analyticssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "analytics service unavailable"))
			return
		}

		window, err := analyticsWindow(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		grouping := analyticssvc.GroupByDay
		if raw := validators.ParseQueryString(r, "group_by"); raw != nil {
			grouping = analyticssvc.PeriodGrouping(*raw)
			if !grouping.IsValid() {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "group_by must be one of day, week, month, year"))
				return
			}
		}

		report, err := svc.RevenueByPeriod(r.Context(), window, grouping)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, report)
	}
}

// SalesByCategory reports item sales totals per product category.
func SalesByCategory(svc analyticssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "analytics service unavailable"))
			return
		}

		window, err := analyticsWindow(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		report, err := svc.SalesByCategory(r.Context(), window)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, report)
	}
}

// MarketplacePerformance reports order totals per marketplace.
func MarketplacePerformance(svc analyticssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "analytics service unavailable"))
			return
		}

		window, err := analyticsWindow(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		report, err := svc.MarketplacePerformance(r.Context(), window)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, report)
	}
}

func analyticsWindow(r *http.Request) (analyticssvc.DateRange, error) {
	start, err := validators.ParseQueryDate(r, "start_date")
	if err != nil {
		return analyticssvc.DateRange{}, err
	}
	if start == nil {
		return analyticssvc.DateRange{}, pkgerrors.New(pkgerrors.CodeValidation, "query parameter is required").WithDetails(map[string]any{"field": "start_date"})
	}

	end, err := validators.ParseQueryDate(r, "end_date")
	if err != nil {
		return analyticssvc.DateRange{}, err
	}
	if end == nil {
		return analyticssvc.DateRange{}, pkgerrors.New(pkgerrors.CodeValidation, "query parameter is required").WithDetails(map[string]any{"field": "end_date"})
	}

	return analyticssvc.DateRange{Start: *start, End: *end}, nil
}
