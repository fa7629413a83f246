package orders

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stockroomlabs/stockroom-backend/pkg/db/models"
	"github.com/stockroomlabs/stockroom-backend/pkg/enums"
	"github.com/stockroomlabs/stockroom-backend/pkg/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	categories := `
CREATE TABLE IF NOT EXISTS categories (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL UNIQUE,
  description TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	products := `
CREATE TABLE IF NOT EXISTS products (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  sku TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  description TEXT,
  price REAL NOT NULL,
  category_id INTEGER NOT NULL,
  image_url TEXT,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`
	items := `
CREATE TABLE IF NOT EXISTS inventory_items (
  product_id INTEGER PRIMARY KEY,
  quantity INTEGER NOT NULL DEFAULT 0,
  low_stock_threshold INTEGER NOT NULL DEFAULT 10,
  last_restock_at DATETIME,
  updated_at DATETIME
);`
	transactions := `
CREATE TABLE IF NOT EXISTS inventory_transactions (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  product_id INTEGER NOT NULL,
  quantity_change INTEGER NOT NULL,
  kind TEXT NOT NULL,
  reference_id TEXT,
  note TEXT,
  created_at DATETIME
);`
	ordersTable := `
CREATE TABLE IF NOT EXISTS orders (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  order_number TEXT NOT NULL UNIQUE,
  order_date DATETIME NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending',
  payment_status TEXT NOT NULL DEFAULT 'pending',
  subtotal REAL NOT NULL DEFAULT 0,
  tax REAL NOT NULL DEFAULT 0,
  shipping_cost REAL NOT NULL DEFAULT 0,
  discount REAL NOT NULL DEFAULT 0,
  total REAL NOT NULL DEFAULT 0,
  marketplace TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`
	orderItems := `
CREATE TABLE IF NOT EXISTS order_items (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  order_id INTEGER NOT NULL,
  product_id INTEGER NOT NULL,
  quantity INTEGER NOT NULL,
  unit_price REAL NOT NULL,
  subtotal REAL NOT NULL,
  created_at DATETIME
);`
	for _, stmt := range []string{categories, products, items, transactions, ordersTable, orderItems} {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func seedOrderProduct(t *testing.T, db *gorm.DB, sku string, qty int) int64 {
	t.Helper()

	category := &models.Category{Name: "Category " + sku}
	require.NoError(t, db.Create(category).Error)

	product := &models.Product{
		SKU:        sku,
		Name:       "Product " + sku,
		Price:      10,
		CategoryID: category.ID,
		IsActive:   true,
	}
	require.NoError(t, db.Create(product).Error)
	require.NoError(t, db.Create(&models.InventoryItem{ProductID: product.ID, Quantity: qty}).Error)
	return product.ID
}

func TestCreateOrderPersistsItems(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	productID := seedOrderProduct(t, db, "SKU-001", 10)

	order := &models.Order{
		OrderNumber: "ORD-11AA22BB",
		OrderDate:   time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
		Status:      enums.OrderStatusPending,
		Marketplace: "amazon",
		Items: []models.OrderItem{
			{ProductID: productID, Quantity: 2, UnitPrice: 10, Subtotal: 20},
		},
	}
	require.NoError(t, repo.CreateOrder(ctx, order))
	require.NotZero(t, order.ID)

	loaded, err := repo.FindOrder(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Items, 1)
	assert.Equal(t, productID, loaded.Items[0].ProductID)
	assert.Equal(t, order.ID, loaded.Items[0].OrderID)

	byNumber, err := repo.FindOrderByNumber(ctx, "ORD-11AA22BB")
	require.NoError(t, err)
	assert.Equal(t, order.ID, byNumber.ID)
}

func TestListOrdersFiltersAndSortsNewestFirst(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	productID := seedOrderProduct(t, db, "SKU-001", 100)
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	seed := []struct {
		number      string
		marketplace string
		status      enums.OrderStatus
		date        time.Time
	}{
		{"ORD-00000001", "amazon", enums.OrderStatusPending, base},
		{"ORD-00000002", "ebay", enums.OrderStatusShipped, base.AddDate(0, 0, 5)},
		{"ORD-00000003", "amazon", enums.OrderStatusShipped, base.AddDate(0, 0, 10)},
	}
	for _, row := range seed {
		order := &models.Order{
			OrderNumber: row.number,
			OrderDate:   row.date,
			Status:      row.status,
			Marketplace: row.marketplace,
			Items: []models.OrderItem{
				{ProductID: productID, Quantity: 1, UnitPrice: 10, Subtotal: 10},
			},
		}
		require.NoError(t, repo.CreateOrder(ctx, order))
	}

	all, total, err := repo.ListOrders(ctx, OrderFilters{}, pagination.Params{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, all, 3)
	assert.Equal(t, "ORD-00000003", all[0].OrderNumber)
	assert.Equal(t, "ORD-00000001", all[2].OrderNumber)
	require.Len(t, all[0].Items, 1)

	marketplace := "amazon"
	filtered, total, err := repo.ListOrders(ctx, OrderFilters{Marketplace: &marketplace}, pagination.Params{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, filtered, 2)

	status := enums.OrderStatusShipped
	from := base.AddDate(0, 0, 7)
	filtered, total, err = repo.ListOrders(ctx, OrderFilters{Status: &status, DateFrom: &from}, pagination.Params{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, filtered, 1)
	assert.Equal(t, "ORD-00000003", filtered[0].OrderNumber)
}

func TestUpdateOrderStatusPersists(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	productID := seedOrderProduct(t, db, "SKU-001", 10)
	order := &models.Order{
		OrderNumber: "ORD-11AA22BB",
		OrderDate:   time.Now().UTC(),
		Status:      enums.OrderStatusPending,
		Marketplace: "etsy",
		Items: []models.OrderItem{
			{ProductID: productID, Quantity: 1, UnitPrice: 10, Subtotal: 10},
		},
	}
	require.NoError(t, repo.CreateOrder(ctx, order))

	require.NoError(t, repo.UpdateOrderStatus(ctx, order.ID, enums.OrderStatusShipped))

	loaded, err := repo.FindOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusShipped, loaded.Status)
}

func TestFindProductsReturnsOnlyExisting(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	productID := seedOrderProduct(t, db, "SKU-001", 10)

	found, err := repo.FindProducts(ctx, []int64{productID, 999})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Contains(t, found, productID)
}
