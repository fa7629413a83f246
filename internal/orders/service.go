package orders

import (
	"context"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stockroomlabs/stockroom-backend/internal/inventory"
	"github.com/stockroomlabs/stockroom-backend/pkg/db"
	"github.com/stockroomlabs/stockroom-backend/pkg/db/models"
	"github.com/stockroomlabs/stockroom-backend/pkg/enums"
	pkgerrors "github.com/stockroomlabs/stockroom-backend/pkg/errors"
	"github.com/stockroomlabs/stockroom-backend/pkg/pagination"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// StockAdjuster applies stock deltas inside a caller-owned transaction.
type StockAdjuster interface {
	AdjustQuantityTx(ctx context.Context, tx *gorm.DB, input inventory.AdjustmentInput) (*inventory.AdjustmentResult, error)
}

// Service defines order lifecycle operations.
type Service interface {
	CreateOrder(ctx context.Context, input CreateOrderInput) (*models.Order, error)
	UpdateStatus(ctx context.Context, orderID int64, status enums.OrderStatus) (*models.Order, error)
	GetOrder(ctx context.Context, orderID int64) (*models.Order, error)
	ListOrders(ctx context.Context, filters OrderFilters, params pagination.Params) (*OrderList, error)
}

type service struct {
	repo  Repository
	tx    txRunner
	stock StockAdjuster
}

const orderNumberAttempts = 5

// NewService builds an order service with the required dependencies.
func NewService(repo Repository, tx txRunner, stock StockAdjuster) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if stock == nil {
		return nil, fmt.Errorf("stock adjuster required")
	}
	return &service{repo: repo, tx: tx, stock: stock}, nil
}

func (s *service) CreateOrder(ctx context.Context, input CreateOrderInput) (*models.Order, error) {
	input = applyCreateDefaults(input)
	if err := validateCreateOrder(input); err != nil {
		return nil, err
	}

	var created *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		productIDs := make([]int64, 0, len(input.Items))
		for _, item := range input.Items {
			productIDs = append(productIDs, item.ProductID)
		}
		products, err := repo.FindProducts(ctx, productIDs)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order products")
		}
		for _, item := range input.Items {
			if _, ok := products[item.ProductID]; !ok {
				return pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("product %d not found", item.ProductID))
			}
		}

		orderNumber, err := s.reserveOrderNumber(ctx, repo)
		if err != nil {
			return err
		}

		order := buildOrder(input, orderNumber)
		if err := repo.CreateOrder(ctx, order); err != nil {
			if db.IsUniqueViolation(err) {
				return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "order number already in use")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist order")
		}

		// Stock only leaves the shelf for orders that start their life
		// outside cancellation.
		if order.Status != enums.OrderStatusCancelled {
			orderDate := order.OrderDate
			for _, item := range input.Items {
				adjInput := inventory.AdjustmentInput{
					ProductID:   item.ProductID,
					Delta:       -item.Quantity,
					Kind:        enums.TransactionKindSale,
					ReferenceID: &order.OrderNumber,
					OccurredAt:  &orderDate,
				}
				if _, err := s.stock.AdjustQuantityTx(ctx, tx, adjInput); err != nil {
					return err
				}
			}
		}

		created = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *service) UpdateStatus(ctx context.Context, orderID int64, status enums.OrderStatus) (*models.Order, error) {
	if orderID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}

	var updated *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order, err := repo.FindOrder(ctx, orderID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}

		if order.Status == status {
			updated = order
			return nil
		}

		switch {
		case order.Status != enums.OrderStatusCancelled && status == enums.OrderStatusCancelled:
			note := fmt.Sprintf("Order cancelled: %s", order.OrderNumber)
			for _, item := range order.Items {
				adjInput := inventory.AdjustmentInput{
					ProductID:   item.ProductID,
					Delta:       item.Quantity,
					Kind:        enums.TransactionKindAdjustment,
					ReferenceID: &order.OrderNumber,
					Note:        &note,
				}
				if _, err := s.stock.AdjustQuantityTx(ctx, tx, adjInput); err != nil {
					return err
				}
			}

		case order.Status == enums.OrderStatusCancelled && status != enums.OrderStatusCancelled:
			note := fmt.Sprintf("Order status changed from cancelled to %s", status)
			for _, item := range order.Items {
				adjInput := inventory.AdjustmentInput{
					ProductID:   item.ProductID,
					Delta:       -item.Quantity,
					Kind:        enums.TransactionKindSale,
					ReferenceID: &order.OrderNumber,
					Note:        &note,
				}
				if _, err := s.stock.AdjustQuantityTx(ctx, tx, adjInput); err != nil {
					return err
				}
			}
		}

		if err := repo.UpdateOrderStatus(ctx, order.ID, status); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
		}

		order.Status = status
		updated = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *service) GetOrder(ctx context.Context, orderID int64) (*models.Order, error) {
	if orderID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	order, err := s.repo.FindOrder(ctx, orderID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}

func (s *service) ListOrders(ctx context.Context, filters OrderFilters, params pagination.Params) (*OrderList, error) {
	if filters.Status != nil && !filters.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}
	if filters.DateFrom != nil && filters.DateTo != nil && filters.DateTo.Before(*filters.DateFrom) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "date_to must not precede date_from")
	}

	ordersList, total, err := s.repo.ListOrders(ctx, filters, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	if ordersList == nil {
		ordersList = []models.Order{}
	}
	return &OrderList{Orders: ordersList, Total: total}, nil
}

// reserveOrderNumber generates ORD- plus 8 random uppercase hex characters.
// Collisions are close to impossible; the unique index on order_number is the
// final backstop.
func (s *service) reserveOrderNumber(ctx context.Context, repo Repository) (string, error) {
	for attempt := 0; attempt < orderNumberAttempts; attempt++ {
		candidate := newOrderNumber()
		_, err := repo.FindOrderByNumber(ctx, candidate)
		if err == gorm.ErrRecordNotFound {
			return candidate, nil
		}
		if err != nil {
			return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check order number")
		}
	}
	return "", pkgerrors.New(pkgerrors.CodeConflict, "could not allocate a unique order number")
}

func newOrderNumber() string {
	id := uuid.New()
	return "ORD-" + strings.ToUpper(hex.EncodeToString(id[:4]))
}

func applyCreateDefaults(input CreateOrderInput) CreateOrderInput {
	if input.Status == "" {
		input.Status = enums.OrderStatusPending
	}
	if input.PaymentStatus == "" {
		input.PaymentStatus = enums.PaymentStatusPending
	}
	if input.OrderDate.IsZero() {
		input.OrderDate = time.Now().UTC()
	}
	return input
}

func validateCreateOrder(input CreateOrderInput) error {
	if len(input.Items) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "order requires at least one item")
	}
	if input.Marketplace == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "marketplace required")
	}
	if !input.Status.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}
	if !input.PaymentStatus.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid payment status")
	}
	if input.Tax < 0 || input.ShippingCost < 0 || input.Discount < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "monetary fields cannot be negative")
	}
	for _, item := range input.Items {
		if item.ProductID <= 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "item product id required")
		}
		if item.Quantity <= 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "item quantity must be positive")
		}
		if item.UnitPrice < 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "item unit price cannot be negative")
		}
	}
	return nil
}

// buildOrder derives line subtotals and the order total with decimal math so
// float rounding never drifts the stored totals apart.
func buildOrder(input CreateOrderInput, orderNumber string) *models.Order {
	subtotal := decimal.Zero
	items := make([]models.OrderItem, 0, len(input.Items))
	for _, item := range input.Items {
		line := decimal.NewFromFloat(item.UnitPrice).Mul(decimal.NewFromInt(int64(item.Quantity)))
		subtotal = subtotal.Add(line)
		items = append(items, models.OrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Subtotal:  line.InexactFloat64(),
			CreatedAt: input.OrderDate,
		})
	}

	total := subtotal.
		Add(decimal.NewFromFloat(input.Tax)).
		Add(decimal.NewFromFloat(input.ShippingCost)).
		Sub(decimal.NewFromFloat(input.Discount))

	return &models.Order{
		OrderNumber:   orderNumber,
		OrderDate:     input.OrderDate,
		Status:        input.Status,
		PaymentStatus: input.PaymentStatus,
		Subtotal:      subtotal.InexactFloat64(),
		Tax:           input.Tax,
		ShippingCost:  input.ShippingCost,
		Discount:      input.Discount,
		Total:         total.InexactFloat64(),
		Marketplace:   input.Marketplace,
		Items:         items,
	}
}
