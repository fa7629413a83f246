package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/stockroomlabs/stockroom-backend/pkg/db/models"
	"github.com/stockroomlabs/stockroom-backend/pkg/enums"
	pkgerrors "github.com/stockroomlabs/stockroom-backend/pkg/errors"
	"github.com/stockroomlabs/stockroom-backend/pkg/pagination"
	"github.com/sethvargo/go-retry"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service defines stock-level operations and ledger reads.
type Service interface {
	AdjustQuantity(ctx context.Context, input AdjustmentInput) (*AdjustmentResult, error)
	AdjustQuantityTx(ctx context.Context, tx *gorm.DB, input AdjustmentInput) (*AdjustmentResult, error)
	SetQuantity(ctx context.Context, input SetQuantityInput) (*AdjustmentResult, error)
	GetItem(ctx context.Context, productID int64) (*ItemDetail, error)
	ListItems(ctx context.Context, params pagination.Params) (*ItemList, error)
	LowStock(ctx context.Context) ([]ItemDetail, error)
	ListTransactions(ctx context.Context, filters TransactionFilters, params pagination.Params) (*TransactionList, error)
}

type service struct {
	repo Repository
	tx   txRunner
}

const (
	guardedRetries = 3
	guardedBackoff = 10 * time.Millisecond
)

// NewService builds an inventory service with the required dependencies.
func NewService(repo Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx}, nil
}

func (s *service) AdjustQuantity(ctx context.Context, input AdjustmentInput) (*AdjustmentResult, error) {
	if err := validateAdjustment(input); err != nil {
		return nil, err
	}

	var result *AdjustmentResult
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		res, err := s.applyDelta(ctx, s.repo.WithTx(tx), input)
		if err != nil {
			return err
		}
		result = res
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *service) AdjustQuantityTx(ctx context.Context, tx *gorm.DB, input AdjustmentInput) (*AdjustmentResult, error) {
	if tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "transaction required for stock adjustment")
	}
	if err := validateAdjustment(input); err != nil {
		return nil, err
	}
	return s.applyDelta(ctx, s.repo.WithTx(tx), input)
}

// applyDelta moves the stock level by the requested delta, flooring the new
// quantity at zero. The ledger records the REQUESTED delta so demand beyond
// available stock stays visible. A guarded update plus bounded retry handles
// concurrent writers without a row lock.
func (s *service) applyDelta(ctx context.Context, repo Repository, input AdjustmentInput) (*AdjustmentResult, error) {
	var result *AdjustmentResult

	backoff := retry.WithMaxRetries(guardedRetries, retry.NewConstant(guardedBackoff))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		item, err := repo.FindItem(ctx, input.ProductID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "inventory item not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load inventory item")
		}

		newQty := item.Quantity + input.Delta
		if newQty < 0 {
			newQty = 0
		}
		applied := newQty - item.Quantity

		var restockAt *time.Time
		if input.Delta > 0 {
			now := occurredAt(input)
			restockAt = &now
		}

		ok, err := repo.UpdateItemGuarded(ctx, GuardedUpdate{
			ProductID:    input.ProductID,
			FromQuantity: item.Quantity,
			ToQuantity:   newQty,
			RestockAt:    restockAt,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update stock level")
		}
		if !ok {
			return retry.RetryableError(fmt.Errorf("stock level changed during adjustment of product %d", input.ProductID))
		}

		txn := &models.InventoryTransaction{
			ProductID:      input.ProductID,
			QuantityChange: input.Delta,
			Kind:           input.Kind,
			ReferenceID:    input.ReferenceID,
			Note:           input.Note,
			CreatedAt:      occurredAt(input),
		}
		if err := repo.CreateTransaction(ctx, txn); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record inventory transaction")
		}

		result = &AdjustmentResult{
			ProductID:       input.ProductID,
			RequestedChange: input.Delta,
			AppliedChange:   applied,
			Quantity:        newQty,
			LastRestockAt:   restockAt,
		}
		if restockAt == nil {
			result.LastRestockAt = item.LastRestockAt
		}
		return nil
	})
	if err != nil {
		if appErr := pkgerrors.As(err); appErr != nil {
			return nil, appErr
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "stock adjustment lost to concurrent writes")
	}
	return result, nil
}

func (s *service) SetQuantity(ctx context.Context, input SetQuantityInput) (*AdjustmentResult, error) {
	if input.ProductID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	if input.Quantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity cannot be negative")
	}
	if input.LowStockThreshold != nil && *input.LowStockThreshold < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "low stock threshold cannot be negative")
	}

	var result *AdjustmentResult
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		backoff := retry.WithMaxRetries(guardedRetries, retry.NewConstant(guardedBackoff))
		retryErr := retry.Do(ctx, backoff, func(ctx context.Context) error {
			item, err := repo.FindItem(ctx, input.ProductID)
			if err != nil {
				if err == gorm.ErrRecordNotFound {
					return pkgerrors.New(pkgerrors.CodeNotFound, "inventory item not found")
				}
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load inventory item")
			}

			delta := input.Quantity - item.Quantity

			var restockAt *time.Time
			if delta > 0 {
				now := time.Now().UTC()
				restockAt = &now
			}

			ok, err := repo.UpdateItemGuarded(ctx, GuardedUpdate{
				ProductID:    input.ProductID,
				FromQuantity: item.Quantity,
				ToQuantity:   input.Quantity,
				RestockAt:    restockAt,
				Threshold:    input.LowStockThreshold,
			})
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update stock level")
			}
			if !ok {
				return retry.RetryableError(fmt.Errorf("stock level changed during set of product %d", input.ProductID))
			}

			txn := &models.InventoryTransaction{
				ProductID:      input.ProductID,
				QuantityChange: delta,
				Kind:           enums.TransactionKindAdjustment,
				Note:           input.Note,
				CreatedAt:      time.Now().UTC(),
			}
			if err := repo.CreateTransaction(ctx, txn); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record inventory transaction")
			}

			result = &AdjustmentResult{
				ProductID:       input.ProductID,
				RequestedChange: delta,
				AppliedChange:   delta,
				Quantity:        input.Quantity,
				LastRestockAt:   restockAt,
			}
			if restockAt == nil {
				result.LastRestockAt = item.LastRestockAt
			}
			return nil
		})
		if retryErr != nil {
			if appErr := pkgerrors.As(retryErr); appErr != nil {
				return appErr
			}
			return pkgerrors.Wrap(pkgerrors.CodeConflict, retryErr, "stock set lost to concurrent writes")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *service) GetItem(ctx context.Context, productID int64) (*ItemDetail, error) {
	if productID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	item, err := s.repo.FindItemDetail(ctx, productID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "inventory item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load inventory item")
	}
	return item, nil
}

func (s *service) ListItems(ctx context.Context, params pagination.Params) (*ItemList, error) {
	items, total, err := s.repo.ListItems(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list inventory")
	}
	if items == nil {
		items = []ItemDetail{}
	}
	return &ItemList{Items: items, Total: total}, nil
}

func (s *service) LowStock(ctx context.Context) ([]ItemDetail, error) {
	items, err := s.repo.ListLowStock(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list low stock items")
	}
	if items == nil {
		items = []ItemDetail{}
	}
	return items, nil
}

func (s *service) ListTransactions(ctx context.Context, filters TransactionFilters, params pagination.Params) (*TransactionList, error) {
	if filters.Kind != nil && !filters.Kind.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid transaction kind")
	}
	if filters.DateFrom != nil && filters.DateTo != nil && filters.DateTo.Before(*filters.DateFrom) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "date_to must not precede date_from")
	}

	records, total, err := s.repo.ListTransactions(ctx, filters, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list inventory transactions")
	}
	if records == nil {
		records = []TransactionRecord{}
	}
	return &TransactionList{Transactions: records, Total: total}, nil
}

func validateAdjustment(input AdjustmentInput) error {
	if input.ProductID <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	if input.Delta == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity change cannot be zero")
	}
	if !input.Kind.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid transaction kind")
	}
	return nil
}

func occurredAt(input AdjustmentInput) time.Time {
	if input.OccurredAt != nil {
		return input.OccurredAt.UTC()
	}
	return time.Now().UTC()
}
