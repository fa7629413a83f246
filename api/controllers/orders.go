package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/stockroomlabs/stockroom-backend/api/responses"
	"github.com/stockroomlabs/stockroom-backend/api/validators"
	ordersvc "github.com/stockroomlabs/stockroom-backend/internal/orders"
	"github.com/stockroomlabs/stockroom-backend/pkg/enums"
	pkgerrors "github.com/stockroomlabs/stockroom-backend/pkg/errors"
	"github.com/stockroomlabs/stockroom-backend/pkg/logger"
)

// CreateOrder persists a new order and deducts stock for its lines.
func CreateOrder(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		var payload createOrderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.CreateOrder(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}

// GetOrder returns one order with its line items.
func GetOrder(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		orderID, err := pathID(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.GetOrder(r.Context(), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, order)
	}
}

// ListOrders returns a page of orders, newest order date first.
func ListOrders(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		params, err := paginationParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filters := ordersvc.OrderFilters{
			Marketplace: validators.ParseQueryString(r, "marketplace"),
		}

		if raw := validators.ParseQueryString(r, "status"); raw != nil {
			status, parseErr := enums.ParseOrderStatus(*raw)
			if parseErr != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, parseErr, "invalid order status"))
				return
			}
			filters.Status = &status
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

		list, err := svc.ListOrders(r.Context(), filters, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, list)
	}
}

// UpdateOrderStatus moves an order through its lifecycle, restoring or
// re-deducting stock when the transition crosses cancellation.
func UpdateOrderStatus(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		orderID, err := pathID(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateOrderStatusRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status, err := enums.ParseOrderStatus(strings.TrimSpace(payload.Status))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order status"))
			return
		}

		order, err := svc.UpdateStatus(r.Context(), orderID, status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, order)
	}
}

type createOrderItemRequest struct {
	ProductID int64   `json:"product_id" validate:"required,gt=0"`
	Quantity  int     `json:"quantity" validate:"required,gt=0"`
	UnitPrice float64 `json:"unit_price" validate:"required,gt=0"`
}

type createOrderRequest struct {
	OrderDate     *time.Time               `json:"order_date,omitempty"`
	Status        *string                  `json:"status,omitempty"`
	PaymentStatus *string                  `json:"payment_status,omitempty"`
	Tax           float64                  `json:"tax" validate:"omitempty,min=0"`
	ShippingCost  float64                  `json:"shipping_cost" validate:"omitempty,min=0"`
	Discount      float64                  `json:"discount" validate:"omitempty,min=0"`
	Marketplace   string                   `json:"marketplace" validate:"required"`
	Items         []createOrderItemRequest `json:"items" validate:"required,min=1,dive"`
}

type updateOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

func (p createOrderRequest) toInput() (ordersvc.CreateOrderInput, error) {
	input := ordersvc.CreateOrderInput{
		Tax:          p.Tax,
		ShippingCost: p.ShippingCost,
		Discount:     p.Discount,
		Marketplace:  strings.TrimSpace(p.Marketplace),
	}

	if p.OrderDate != nil {
		input.OrderDate = *p.OrderDate
	}

	if p.Status != nil {
		status, err := enums.ParseOrderStatus(strings.TrimSpace(*p.Status))
		if err != nil {
			return ordersvc.CreateOrderInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order status")
		}
		input.Status = status
	}

	if p.PaymentStatus != nil {
		paymentStatus, err := enums.ParsePaymentStatus(strings.TrimSpace(*p.PaymentStatus))
		if err != nil {
			return ordersvc.CreateOrderInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment status")
		}
		input.PaymentStatus = paymentStatus
	}

	for _, item := range p.Items {
		input.Items = append(input.Items, ordersvc.OrderItemInput{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}

	return input, nil
}
