package inventory

import (
	"context"
	"errors"
	"testing"

	"inventory-service/internal/model"
	"inventory-service/pkg/database/databasetest"
	"inventory-service/prometheus"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	db := databasetest.New(t)
	return NewService(db, nil, nil), db
}

func ptr[T any](v T) *T { return &v }

func count(t *testing.T, db *gorm.DB, m any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(m).Count(&n).Error)
	return n
}

func TestCreateProductWritesInitialStock(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	cat, err := svc.CreateCategory(ctx, "Electronics")
	require.NoError(t, err)

	p, err := svc.CreateProduct(ctx, NewProduct{
		Name:     "USB Cable",
		Quantity: 50,
		Price:    ptr(9.99),
		Category: CategoryRef{ID: &cat.ID},
	})
	require.NoError(t, err)
	require.NotNil(t, p.Category)
	assert.Equal(t, "Electronics", p.Category.Name)
	assert.Nil(t, p.Supplier)
	assert.Nil(t, p.SupplierID)

	logs, err := svc.ListStockLogs(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, 50, logs[0].Change)
	assert.Equal(t, model.ReasonInitialStock, logs[0].Reason)
	assert.True(t, model.Today().Equal(logs[0].Date), "log date %v", logs[0].Date)

	assert.EqualValues(t, 1, count(t, db, &model.Product{}))
	assert.EqualValues(t, 1, count(t, db, &model.StockLog{}))
}

func TestCreateProductInlineReferences(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	p, err := svc.CreateProduct(ctx, NewProduct{
		Name:     "Drone",
		Quantity: 3,
		Price:    ptr(120.0),
		Category: CategoryRef{NewName: "Gadgets"},
		Supplier: SupplierRef{NewName: "SkyParts", NewContact: "sky@example.com"},
	})
	require.NoError(t, err)

	require.NotNil(t, p.Category)
	assert.Equal(t, "Gadgets", p.Category.Name)
	require.NotNil(t, p.Supplier)
	assert.Equal(t, "SkyParts", p.Supplier.Name)
	require.NotNil(t, p.Supplier.ContactInfo)
	assert.Equal(t, "sky@example.com", *p.Supplier.ContactInfo)

	assert.EqualValues(t, 1, count(t, db, &model.Category{}))
	assert.EqualValues(t, 1, count(t, db, &model.Supplier{}))
}

func TestCreateProductWithoutReferences(t *testing.T) {
	svc, _ := newTestService(t)

	p, err := svc.CreateProduct(context.Background(), NewProduct{Name: "Loose Item"})
	require.NoError(t, err)
	assert.Nil(t, p.CategoryID)
	assert.Nil(t, p.SupplierID)
	assert.Nil(t, p.Price)
	assert.Equal(t, 0, p.Quantity)
}

func TestCreateProductValidation(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	cat, err := svc.CreateCategory(ctx, "Toys")
	require.NoError(t, err)

	cases := map[string]NewProduct{
		"empty name":        {Name: "  "},
		"negative quantity": {Name: "A", Quantity: -1},
		"negative price":    {Name: "A", Price: ptr(-0.01)},
		"id and new name":   {Name: "A", Category: CategoryRef{ID: &cat.ID, NewName: "Other"}},
		"unknown category":  {Name: "A", Category: CategoryRef{ID: ptr(uint(999))}},
		"unknown supplier":  {Name: "A", Supplier: SupplierRef{ID: ptr(uint(999))}},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.CreateProduct(ctx, in)
			require.Error(t, err)
			assert.True(t, IsValidation(err), "got %v", err)
		})
	}

	assert.EqualValues(t, 0, count(t, db, &model.Product{}))
	assert.EqualValues(t, 0, count(t, db, &model.StockLog{}))
	assert.EqualValues(t, 1, count(t, db, &model.Category{}))
}

func TestCreateProductRollsBackWhenLogInsertFails(t *testing.T) {
	svc, db := newTestService(t)

	err := db.Callback().Create().Before("gorm:create").Register("test:fail_stock_log", func(tx *gorm.DB) {
		if tx.Statement.Schema != nil && tx.Statement.Schema.Table == "stock_logs" {
			_ = tx.AddError(errors.New("disk full"))
		}
	})
	require.NoError(t, err)

	_, err = svc.CreateProduct(context.Background(), NewProduct{
		Name:     "Gizmo",
		Quantity: 5,
		Category: CategoryRef{NewName: "Gadgets"},
	})
	require.Error(t, err)
	assert.False(t, IsValidation(err))

	assert.EqualValues(t, 0, count(t, db, &model.Product{}))
	assert.EqualValues(t, 0, count(t, db, &model.StockLog{}))
	assert.EqualValues(t, 0, count(t, db, &model.Category{}))
}

func TestUpdateProductAppliesOnlySetFields(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	cat, err := svc.CreateCategory(ctx, "Books")
	require.NoError(t, err)
	p, err := svc.CreateProduct(ctx, NewProduct{
		Name:        "Science Book",
		Description: ptr("High school level"),
		Quantity:    60,
		Price:       ptr(8.75),
		Category:    CategoryRef{ID: &cat.ID},
	})
	require.NoError(t, err)

	updated, err := svc.UpdateProduct(ctx, p.ID, ProductUpdate{
		Quantity: ptr(42),
		Price:    Null[float64](),
	})
	require.NoError(t, err)

	assert.Equal(t, "Science Book", updated.Name)
	require.NotNil(t, updated.Description)
	assert.Equal(t, "High school level", *updated.Description)
	assert.Equal(t, 42, updated.Quantity)
	assert.Nil(t, updated.Price)
	require.NotNil(t, updated.CategoryID)
	assert.Equal(t, cat.ID, *updated.CategoryID)

	// Edits bypass the stock log.
	assert.EqualValues(t, 1, count(t, db, &model.StockLog{}))

	updated, err = svc.UpdateProduct(ctx, p.ID, ProductUpdate{CategoryID: Null[uint](), Price: Value(10.5)})
	require.NoError(t, err)
	assert.Nil(t, updated.CategoryID)
	assert.Nil(t, updated.Category)
	require.NotNil(t, updated.Price)
	assert.InDelta(t, 10.5, *updated.Price, 1e-9)
}

func TestUpdateProductErrors(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.UpdateProduct(ctx, 404, ProductUpdate{Name: ptr("x")})
	assert.ErrorIs(t, err, ErrNotFound)

	p, err := svc.CreateProduct(ctx, NewProduct{Name: "Yoga Mat", Quantity: 35})
	require.NoError(t, err)

	_, err = svc.UpdateProduct(ctx, p.ID, ProductUpdate{Name: ptr("")})
	assert.True(t, IsValidation(err))

	_, err = svc.UpdateProduct(ctx, p.ID, ProductUpdate{SupplierID: Value(uint(77))})
	assert.True(t, IsValidation(err))

	_, err = svc.UpdateProduct(ctx, p.ID, ProductUpdate{Quantity: ptr(-3)})
	assert.True(t, IsValidation(err))
}

func TestDeleteProduct(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	p, err := svc.CreateProduct(ctx, NewProduct{Name: "Car Wiper", Quantity: 20, Category: CategoryRef{NewName: "Automotive"}})
	require.NoError(t, err)
	require.NoError(t, db.Create(&model.StockLog{ProductID: p.ID, Change: -2, Reason: "Sold"}).Error)

	deleted, err := svc.DeleteProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	assert.EqualValues(t, 0, count(t, db, &model.Product{}))
	assert.EqualValues(t, 0, count(t, db, &model.StockLog{}))
	// Categories outlive their products.
	assert.EqualValues(t, 1, count(t, db, &model.Category{}))

	_, err = svc.GetProduct(ctx, p.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteMissingProductIsNoop(t *testing.T) {
	svc, _ := newTestService(t)

	deleted, err := svc.DeleteProduct(context.Background(), 12345)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestListProductsIncludesUnassigned(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateProduct(ctx, NewProduct{Name: "Notebook", Quantity: 120, Category: CategoryRef{NewName: "Stationery"}})
	require.NoError(t, err)
	_, err = svc.CreateProduct(ctx, NewProduct{Name: "Mystery Box", Quantity: 1})
	require.NoError(t, err)

	rows, err := svc.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "Notebook", rows[0].Name)
	require.NotNil(t, rows[0].Category)
	assert.Equal(t, "Stationery", *rows[0].Category)
	assert.Nil(t, rows[0].Supplier)

	assert.Equal(t, "Mystery Box", rows[1].Name)
	assert.Nil(t, rows[1].Category)
	assert.Nil(t, rows[1].CategoryID)
}

func TestListStockLogsUnknownProduct(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.ListStockLogs(context.Background(), 9)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCategoryAndSupplierOperations(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateCategory(ctx, "Toys")
	require.NoError(t, err)
	_, err = svc.CreateCategory(ctx, "Beauty")
	require.NoError(t, err)
	_, err = svc.CreateCategory(ctx, "")
	assert.True(t, IsValidation(err))

	categories, err := svc.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.Equal(t, "Beauty", categories[0].Name)

	_, err = svc.GetCategory(ctx, 99)
	assert.ErrorIs(t, err, ErrNotFound)

	sup, err := svc.CreateSupplier(ctx, "ToyLand", "")
	require.NoError(t, err)
	assert.Nil(t, sup.ContactInfo)

	got, err := svc.GetSupplier(ctx, sup.ID)
	require.NoError(t, err)
	assert.Equal(t, "ToyLand", got.Name)

	suppliers, err := svc.ListSuppliers(ctx)
	require.NoError(t, err)
	assert.Len(t, suppliers, 1)
}

func TestServiceRecordsMetrics(t *testing.T) {
	db := databasetest.New(t)
	m := prometheus.NewMetrics("test", prom.NewRegistry())
	svc := NewService(db, nil, m)
	ctx := context.Background()

	p, err := svc.CreateProduct(ctx, NewProduct{Name: "Teddy Bear", Quantity: 30})
	require.NoError(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.OperationsCounter.WithLabelValues("product", "create")))
	assert.Equal(t, 30.0, testutil.ToFloat64(m.ProductInventoryGauge.WithLabelValues("1", "Teddy Bear")))

	_, err = svc.DeleteProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, testutil.CollectAndCount(m.ProductInventoryGauge))
}

func TestRefreshInventoryMetricsCoversStoredProducts(t *testing.T) {
	db := databasetest.New(t)
	require.NoError(t, db.Create(&model.Product{Name: "Office Chair", Quantity: 10}).Error)
	require.NoError(t, db.Create(&model.Product{Name: "Yoga Mat", Quantity: 35}).Error)

	m := prometheus.NewMetrics("test", prom.NewRegistry())
	svc := NewService(db, nil, m)

	n, err := svc.RefreshInventoryMetrics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 2, testutil.CollectAndCount(m.ProductInventoryGauge))
	assert.Equal(t, 10.0, testutil.ToFloat64(m.ProductInventoryGauge.WithLabelValues("1", "Office Chair")))
	assert.Equal(t, 35.0, testutil.ToFloat64(m.ProductInventoryGauge.WithLabelValues("2", "Yoga Mat")))
}
