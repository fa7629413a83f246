package controllers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"

	inventorysvc "github.com/stockroomlabs/stockroom-backend/internal/inventory"
	pkgerrors "github.com/stockroomlabs/stockroom-backend/pkg/errors"
	"github.com/stockroomlabs/stockroom-backend/pkg/logger"
	"github.com/stockroomlabs/stockroom-backend/pkg/pagination"
)

type stubInventoryService struct {
	setInput    *inventorysvc.SetQuantityInput
	adjustInput *inventorysvc.AdjustmentInput
	err         error
}

func (s *stubInventoryService) AdjustQuantity(_ context.Context, input inventorysvc.AdjustmentInput) (*inventorysvc.AdjustmentResult, error) {
	s.adjustInput = &input
	if s.err != nil {
		return nil, s.err
	}
	return &inventorysvc.AdjustmentResult{ProductID: input.ProductID, RequestedChange: input.Delta, AppliedChange: input.Delta}, nil
}

func (s *stubInventoryService) AdjustQuantityTx(_ context.Context, _ *gorm.DB, input inventorysvc.AdjustmentInput) (*inventorysvc.AdjustmentResult, error) {
	return &inventorysvc.AdjustmentResult{ProductID: input.ProductID}, nil
}

func (s *stubInventoryService) SetQuantity(_ context.Context, input inventorysvc.SetQuantityInput) (*inventorysvc.AdjustmentResult, error) {
	s.setInput = &input
	if s.err != nil {
		return nil, s.err
	}
	return &inventorysvc.AdjustmentResult{ProductID: input.ProductID, Quantity: input.Quantity}, nil
}

func (s *stubInventoryService) GetItem(_ context.Context, productID int64) (*inventorysvc.ItemDetail, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &inventorysvc.ItemDetail{ProductID: productID}, nil
}

func (s *stubInventoryService) ListItems(context.Context, pagination.Params) (*inventorysvc.ItemList, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &inventorysvc.ItemList{}, nil
}

func (s *stubInventoryService) LowStock(context.Context) ([]inventorysvc.ItemDetail, error) {
	if s.err != nil {
		return nil, s.err
	}
	return nil, nil
}

func (s *stubInventoryService) ListTransactions(context.Context, inventorysvc.TransactionFilters, pagination.Params) (*inventorysvc.TransactionList, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &inventorysvc.TransactionList{}, nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Level: logger.ParseLevel("debug"), Output: io.Discard})
}

func requestWithParam(method, target, param, value string, body string) *http.Request {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add(param, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
}

func TestSetInventoryParsesBody(t *testing.T) {
	stub := &stubInventoryService{}
	req := requestWithParam(http.MethodPut, "/api/v1/inventory/7", "productId", "7", `{"quantity":40,"low_stock_threshold":5,"note":"recount"}`)
	rec := httptest.NewRecorder()

	SetInventory(stub, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if stub.setInput == nil {
		t.Fatal("expected SetQuantity to be invoked")
	}
	if stub.setInput.ProductID != 7 || stub.setInput.Quantity != 40 {
		t.Fatalf("unexpected input %+v", stub.setInput)
	}
	if stub.setInput.LowStockThreshold == nil || *stub.setInput.LowStockThreshold != 5 {
		t.Fatalf("expected threshold 5, got %v", stub.setInput.LowStockThreshold)
	}
}

func TestSetInventoryRejectsBadProductID(t *testing.T) {
	stub := &stubInventoryService{}
	req := requestWithParam(http.MethodPut, "/api/v1/inventory/zero", "productId", "zero", `{"quantity":1}`)
	rec := httptest.NewRecorder()

	SetInventory(stub, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if stub.setInput != nil {
		t.Fatal("expected SetQuantity not to be invoked")
	}
}

func TestSetInventoryMapsNotFound(t *testing.T) {
	stub := &stubInventoryService{err: pkgerrors.New(pkgerrors.CodeNotFound, "inventory item not found")}
	req := requestWithParam(http.MethodPut, "/api/v1/inventory/9", "productId", "9", `{"quantity":1}`)
	rec := httptest.NewRecorder()

	SetInventory(stub, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestAdjustInventoryRejectsUnknownKind(t *testing.T) {
	stub := &stubInventoryService{}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/inventory/adjustments", strings.NewReader(`{"product_id":3,"quantity_change":-2,"transaction_type":"theft"}`))
	rec := httptest.NewRecorder()

	AdjustInventory(stub, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if stub.adjustInput != nil {
		t.Fatal("expected AdjustQuantity not to be invoked")
	}
}

func TestAdjustInventoryPassesDeltaThrough(t *testing.T) {
	stub := &stubInventoryService{}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/inventory/adjustments", strings.NewReader(`{"product_id":3,"quantity_change":-2,"transaction_type":"sale","note":"manual"}`))
	rec := httptest.NewRecorder()

	AdjustInventory(stub, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if stub.adjustInput == nil {
		t.Fatal("expected AdjustQuantity to be invoked")
	}
	if stub.adjustInput.Delta != -2 || stub.adjustInput.ProductID != 3 {
		t.Fatalf("unexpected input %+v", stub.adjustInput)
	}
}

func TestListTransactionsRejectsBadKindFilter(t *testing.T) {
	stub := &stubInventoryService{}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/inventory/transactions?transaction_type=bogus", nil)
	rec := httptest.NewRecorder()

	ListTransactions(stub, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
