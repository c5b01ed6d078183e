package database_test

import (
	"testing"

	"inventory-service/internal/model"
	"inventory-service/pkg/config"
	"inventory-service/pkg/database"
	"inventory-service/pkg/database/databasetest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrateCreatesReportIndexes(t *testing.T) {
	db := databasetest.New(t)

	m := db.Migrator()
	for _, table := range []any{&model.Category{}, &model.Supplier{}, &model.Product{}, &model.StockLog{}} {
		assert.True(t, m.HasTable(table))
	}
	assert.True(t, m.HasIndex(&model.Product{}, "idx_products_category_supplier"))
	assert.True(t, m.HasIndex(&model.Product{}, "idx_products_price"))

	// Running it again is a no-op.
	require.NoError(t, database.Migrate(db))
}

func TestForeignKeysEnforced(t *testing.T) {
	db := databasetest.New(t)

	err := db.Create(&model.StockLog{ProductID: 999, Change: 1, Reason: "Restock"}).Error
	assert.Error(t, err)
}

func TestSeedOnlyWhenEmpty(t *testing.T) {
	db := databasetest.New(t)

	seeded, err := database.Seed(db)
	require.NoError(t, err)
	assert.True(t, seeded)

	var products, categories, suppliers, logs int64
	db.Model(&model.Product{}).Count(&products)
	db.Model(&model.Category{}).Count(&categories)
	db.Model(&model.Supplier{}).Count(&suppliers)
	db.Model(&model.StockLog{}).Count(&logs)
	assert.EqualValues(t, 10, products)
	assert.EqualValues(t, 10, categories)
	assert.EqualValues(t, 10, suppliers)
	assert.EqualValues(t, 10, logs)

	var chair model.Product
	require.NoError(t, db.Preload("Category").Preload("Supplier").First(&chair, "name = ?", "Office Chair").Error)
	assert.Equal(t, "Furniture", chair.Category.Name)
	assert.Equal(t, "FurnishIt", chair.Supplier.Name)
	require.NotNil(t, chair.Price)
	assert.InDelta(t, 89.99, *chair.Price, 1e-9)

	seeded, err = database.Seed(db)
	require.NoError(t, err)
	assert.False(t, seeded)
	db.Model(&model.Product{}).Count(&products)
	assert.EqualValues(t, 10, products)
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := database.Open(&config.DBConfig{Driver: "oracle"})
	assert.Error(t, err)
}
