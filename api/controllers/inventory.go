package controllers

import (
	"net/http"
	"strings"

	"github.com/stockroomlabs/stockroom-backend/api/responses"
	"github.com/stockroomlabs/stockroom-backend/api/validators"
	inventorysvc "github.com/stockroomlabs/stockroom-backend/internal/inventory"
	"github.com/stockroomlabs/stockroom-backend/pkg/enums"
	pkgerrors "github.com/stockroomlabs/stockroom-backend/pkg/errors"
	"github.com/stockroomlabs/stockroom-backend/pkg/logger"
)

// ListInventory returns a page of stock levels joined with product details.
func ListInventory(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		params, err := paginationParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.ListItems(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, list)
	}
}

// GetInventoryItem returns the stock row for one product.
func GetInventoryItem(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		productID, err := pathID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.GetItem(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, item)
	}
}

// LowStock returns every active product whose quantity sits under its
// threshold.
func LowStock(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		items, err := svc.LowStock(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, items)
	}
}

// SetInventory replaces a product's stock level with an absolute quantity.
func SetInventory(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		productID, err := pathID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload setInventoryRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.SetQuantity(r.Context(), inventorysvc.SetQuantityInput{
			ProductID:         productID,
			Quantity:          payload.Quantity,
			LowStockThreshold: payload.LowStockThreshold,
			Note:              payload.Note,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// AdjustInventory applies a relative stock change for one product.
func AdjustInventory(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		var payload adjustInventoryRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		kind, err := enums.ParseTransactionKind(strings.TrimSpace(payload.Kind))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid transaction kind"))
			return
		}

		result, err := svc.AdjustQuantity(r.Context(), inventorysvc.AdjustmentInput{
			ProductID:   payload.ProductID,
			Delta:       payload.QuantityChange,
			Kind:        kind,
			ReferenceID: payload.ReferenceID,
			Note:        payload.Note,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// ListTransactions returns the stock ledger, newest entry first.
func ListTransactions(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		params, err := paginationParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filters := inventorysvc.TransactionFilters{}

		productID, err := validators.ParseQueryInt64(r, "product_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		filters.ProductID = productID

		if raw := validators.ParseQueryString(r, "transaction_type"); raw != nil {
			kind, parseErr := enums.ParseTransactionKind(*raw)
			if parseErr != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, parseErr, "invalid transaction kind"))
				return
			}
			filters.Kind = &kind
		}

		dateFrom, err := validators.ParseQueryDate(r, "start_date")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		filters.DateFrom = dateFrom

		dateTo, err := validators.ParseQueryDate(r, "end_date")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		filters.DateTo = dateTo

		list, err := svc.ListTransactions(r.Context(), filters, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, list)
	}
}

type setInventoryRequest struct {
	Quantity          int     `json:"quantity" validate:"min=0"`
	LowStockThreshold *int    `json:"low_stock_threshold,omitempty" validate:"omitempty,min=0"`
	Note              *string `json:"note,omitempty"`
}

type adjustInventoryRequest struct {
	ProductID      int64   `json:"product_id" validate:"required,gt=0"`
	QuantityChange int     `json:"quantity_change" validate:"required"`
	Kind           string  `json:"transaction_type" validate:"required"`
	ReferenceID    *string `json:"reference_id,omitempty"`
	Note           *string `json:"note,omitempty"`
}
