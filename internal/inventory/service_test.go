package inventory

import (
	"context"
	"testing"
	"time"

	"github.com/stockroomlabs/stockroom-backend/pkg/db/models"
	"github.com/stockroomlabs/stockroom-backend/pkg/enums"
	pkgerrors "github.com/stockroomlabs/stockroom-backend/pkg/errors"
	"github.com/stockroomlabs/stockroom-backend/pkg/pagination"
	"gorm.io/gorm"
)

type stubRepo struct {
	items        map[int64]*models.InventoryItem
	transactions []models.InventoryTransaction

	// guardedFailures makes the next N guarded updates report a stale read.
	guardedFailures int
	guardedCalls    int

	// interleave runs once before the first guarded update, letting a
	// competing writer land between the read and the update.
	interleave func()
}

func newStubRepo() *stubRepo {
	return &stubRepo{items: map[int64]*models.InventoryItem{}}
}

func (s *stubRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubRepo) FindItem(ctx context.Context, productID int64) (*models.InventoryItem, error) {
	item, ok := s.items[productID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *item
	return &copied, nil
}

func (s *stubRepo) CreateItem(ctx context.Context, item *models.InventoryItem) error {
	s.items[item.ProductID] = item
	return nil
}

func (s *stubRepo) UpdateItemGuarded(ctx context.Context, update GuardedUpdate) (bool, error) {
	s.guardedCalls++
	if s.interleave != nil {
		s.interleave()
		s.interleave = nil
	}
	if s.guardedFailures > 0 {
		s.guardedFailures--
		return false, nil
	}
	item, ok := s.items[update.ProductID]
	if !ok || item.Quantity != update.FromQuantity {
		return false, nil
	}
	item.Quantity = update.ToQuantity
	if update.RestockAt != nil {
		item.LastRestockAt = update.RestockAt
	}
	if update.Threshold != nil {
		item.LowStockThreshold = *update.Threshold
	}
	return true, nil
}

func (s *stubRepo) CreateTransaction(ctx context.Context, txn *models.InventoryTransaction) error {
	s.transactions = append(s.transactions, *txn)
	return nil
}

func (s *stubRepo) ListTransactions(ctx context.Context, filters TransactionFilters, params pagination.Params) ([]TransactionRecord, int64, error) {
	return nil, 0, nil
}

func (s *stubRepo) ListItems(ctx context.Context, params pagination.Params) ([]ItemDetail, int64, error) {
	return nil, 0, nil
}

func (s *stubRepo) FindItemDetail(ctx context.Context, productID int64) (*ItemDetail, error) {
	return nil, gorm.ErrRecordNotFound
}

func (s *stubRepo) ListLowStock(ctx context.Context) ([]ItemDetail, error) {
	return nil, nil
}

type stubTx struct{}

func (stubTx) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(&gorm.DB{})
}

func newTestService(t *testing.T, repo Repository) Service {
	t.Helper()
	svc, err := NewService(repo, stubTx{})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestAdjustQuantityAppliesDelta(t *testing.T) {
	repo := newStubRepo()
	repo.items[1] = &models.InventoryItem{ProductID: 1, Quantity: 10}
	svc := newTestService(t, repo)

	res, err := svc.AdjustQuantity(context.Background(), AdjustmentInput{
		ProductID: 1,
		Delta:     -4,
		Kind:      enums.TransactionKindSale,
	})
	if err != nil {
		t.Fatalf("AdjustQuantity: %v", err)
	}
	if res.Quantity != 6 {
		t.Fatalf("expected quantity 6, got %d", res.Quantity)
	}
	if res.RequestedChange != -4 || res.AppliedChange != -4 {
		t.Fatalf("unexpected change fields: %+v", res)
	}
	if len(repo.transactions) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(repo.transactions))
	}
	if repo.transactions[0].QuantityChange != -4 {
		t.Fatalf("expected logged change -4, got %d", repo.transactions[0].QuantityChange)
	}
}

func TestAdjustQuantityFloorsAtZeroButLogsRequest(t *testing.T) {
	repo := newStubRepo()
	repo.items[1] = &models.InventoryItem{ProductID: 1, Quantity: 3}
	svc := newTestService(t, repo)

	res, err := svc.AdjustQuantity(context.Background(), AdjustmentInput{
		ProductID: 1,
		Delta:     -10,
		Kind:      enums.TransactionKindSale,
	})
	if err != nil {
		t.Fatalf("AdjustQuantity: %v", err)
	}
	if res.Quantity != 0 {
		t.Fatalf("expected quantity floored at 0, got %d", res.Quantity)
	}
	if res.RequestedChange != -10 {
		t.Fatalf("expected requested change -10, got %d", res.RequestedChange)
	}
	if res.AppliedChange != -3 {
		t.Fatalf("expected applied change -3, got %d", res.AppliedChange)
	}
	if repo.transactions[0].QuantityChange != -10 {
		t.Fatalf("ledger must record the requested change, got %d", repo.transactions[0].QuantityChange)
	}
}

func TestAdjustQuantitySetsRestockOnIncrease(t *testing.T) {
	repo := newStubRepo()
	repo.items[1] = &models.InventoryItem{ProductID: 1, Quantity: 5}
	svc := newTestService(t, repo)

	res, err := svc.AdjustQuantity(context.Background(), AdjustmentInput{
		ProductID: 1,
		Delta:     20,
		Kind:      enums.TransactionKindPurchase,
	})
	if err != nil {
		t.Fatalf("AdjustQuantity: %v", err)
	}
	if res.LastRestockAt == nil {
		t.Fatal("expected last restock timestamp on increase")
	}
	if repo.items[1].LastRestockAt == nil {
		t.Fatal("expected restock timestamp persisted")
	}
}

func TestAdjustQuantityDoesNotTouchRestockOnDecrease(t *testing.T) {
	restock := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	repo := newStubRepo()
	repo.items[1] = &models.InventoryItem{ProductID: 1, Quantity: 9, LastRestockAt: &restock}
	svc := newTestService(t, repo)

	res, err := svc.AdjustQuantity(context.Background(), AdjustmentInput{
		ProductID: 1,
		Delta:     -2,
		Kind:      enums.TransactionKindSale,
	})
	if err != nil {
		t.Fatalf("AdjustQuantity: %v", err)
	}
	if res.LastRestockAt == nil || !res.LastRestockAt.Equal(restock) {
		t.Fatalf("expected restock timestamp unchanged, got %v", res.LastRestockAt)
	}
}

func TestAdjustQuantityRetriesOnStaleRead(t *testing.T) {
	repo := newStubRepo()
	repo.items[1] = &models.InventoryItem{ProductID: 1, Quantity: 10}
	repo.guardedFailures = 2
	svc := newTestService(t, repo)

	res, err := svc.AdjustQuantity(context.Background(), AdjustmentInput{
		ProductID: 1,
		Delta:     -1,
		Kind:      enums.TransactionKindSale,
	})
	if err != nil {
		t.Fatalf("AdjustQuantity: %v", err)
	}
	if res.Quantity != 9 {
		t.Fatalf("expected quantity 9 after retries, got %d", res.Quantity)
	}
	if repo.guardedCalls != 3 {
		t.Fatalf("expected 3 guarded update attempts, got %d", repo.guardedCalls)
	}
}

func TestAdjustQuantityComposesWithConcurrentWrite(t *testing.T) {
	repo := newStubRepo()
	repo.items[1] = &models.InventoryItem{ProductID: 1, Quantity: 5}
	repo.interleave = func() {
		repo.items[1].Quantity += 10
	}
	svc := newTestService(t, repo)

	res, err := svc.AdjustQuantity(context.Background(), AdjustmentInput{
		ProductID: 1,
		Delta:     -3,
		Kind:      enums.TransactionKindSale,
	})
	if err != nil {
		t.Fatalf("AdjustQuantity: %v", err)
	}
	if res.Quantity != 12 {
		t.Fatalf("expected both writes applied for quantity 12, got %d", res.Quantity)
	}
	if repo.items[1].Quantity != 12 {
		t.Fatalf("expected persisted quantity 12, got %d", repo.items[1].Quantity)
	}
	if repo.guardedCalls != 2 {
		t.Fatalf("expected retry after the competing write, got %d attempts", repo.guardedCalls)
	}
	if len(repo.transactions) != 1 || repo.transactions[0].QuantityChange != -3 {
		t.Fatalf("expected a single -3 ledger entry, got %+v", repo.transactions)
	}
}

func TestAdjustQuantityConflictsAfterRetriesExhausted(t *testing.T) {
	repo := newStubRepo()
	repo.items[1] = &models.InventoryItem{ProductID: 1, Quantity: 10}
	repo.guardedFailures = 10
	svc := newTestService(t, repo)

	_, err := svc.AdjustQuantity(context.Background(), AdjustmentInput{
		ProductID: 1,
		Delta:     -1,
		Kind:      enums.TransactionKindSale,
	})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict error, got %v", err)
	}
}

func TestAdjustQuantityValidation(t *testing.T) {
	svc := newTestService(t, newStubRepo())

	cases := []struct {
		name  string
		input AdjustmentInput
	}{
		{"missing product", AdjustmentInput{Delta: 1, Kind: enums.TransactionKindSale}},
		{"zero delta", AdjustmentInput{ProductID: 1, Kind: enums.TransactionKindSale}},
		{"bad kind", AdjustmentInput{ProductID: 1, Delta: 1, Kind: enums.TransactionKind("refund")}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.AdjustQuantity(context.Background(), tc.input)
			appErr := pkgerrors.As(err)
			if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestAdjustQuantityUnknownProduct(t *testing.T) {
	svc := newTestService(t, newStubRepo())

	_, err := svc.AdjustQuantity(context.Background(), AdjustmentInput{
		ProductID: 77,
		Delta:     5,
		Kind:      enums.TransactionKindPurchase,
	})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestSetQuantityComputesDeltaAndUpdatesThreshold(t *testing.T) {
	repo := newStubRepo()
	repo.items[1] = &models.InventoryItem{ProductID: 1, Quantity: 8, LowStockThreshold: 10}
	svc := newTestService(t, repo)

	threshold := 4
	res, err := svc.SetQuantity(context.Background(), SetQuantityInput{
		ProductID:         1,
		Quantity:          20,
		LowStockThreshold: &threshold,
	})
	if err != nil {
		t.Fatalf("SetQuantity: %v", err)
	}
	if res.Quantity != 20 {
		t.Fatalf("expected quantity 20, got %d", res.Quantity)
	}
	if res.RequestedChange != 12 {
		t.Fatalf("expected computed delta 12, got %d", res.RequestedChange)
	}
	if repo.items[1].LowStockThreshold != 4 {
		t.Fatalf("expected threshold 4, got %d", repo.items[1].LowStockThreshold)
	}
	if len(repo.transactions) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(repo.transactions))
	}
	if repo.transactions[0].Kind != enums.TransactionKindAdjustment {
		t.Fatalf("expected adjustment kind, got %s", repo.transactions[0].Kind)
	}
	if repo.transactions[0].QuantityChange != 12 {
		t.Fatalf("expected logged delta 12, got %d", repo.transactions[0].QuantityChange)
	}
}

func TestSetQuantityLogsZeroDeltaWhenUnchanged(t *testing.T) {
	repo := newStubRepo()
	repo.items[1] = &models.InventoryItem{ProductID: 1, Quantity: 8}
	svc := newTestService(t, repo)

	threshold := 3
	res, err := svc.SetQuantity(context.Background(), SetQuantityInput{
		ProductID:         1,
		Quantity:          8,
		LowStockThreshold: &threshold,
	})
	if err != nil {
		t.Fatalf("SetQuantity: %v", err)
	}
	if res.RequestedChange != 0 {
		t.Fatalf("expected zero delta, got %d", res.RequestedChange)
	}
	if len(repo.transactions) != 1 {
		t.Fatalf("expected the correction to be logged, got %d transactions", len(repo.transactions))
	}
	if repo.transactions[0].QuantityChange != 0 {
		t.Fatalf("expected zero-change ledger entry, got %d", repo.transactions[0].QuantityChange)
	}
	if repo.items[1].LowStockThreshold != 3 {
		t.Fatalf("expected threshold still updated, got %d", repo.items[1].LowStockThreshold)
	}
}

func TestSetQuantityRejectsNegative(t *testing.T) {
	svc := newTestService(t, newStubRepo())

	_, err := svc.SetQuantity(context.Background(), SetQuantityInput{ProductID: 1, Quantity: -1})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestListTransactionsRejectsInvertedDateRange(t *testing.T) {
	svc := newTestService(t, newStubRepo())

	from := time.Date(2026, 5, 2, 0, 0, 0, 0, time.UTC)
	to := from.Add(-time.Hour)
	_, err := svc.ListTransactions(context.Background(), TransactionFilters{DateFrom: &from, DateTo: &to}, pagination.Params{})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}
