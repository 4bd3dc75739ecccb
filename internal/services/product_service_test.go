// internal/services/product_service_test.go
package services

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pimstack/pim-backend/internal/apperrors"
	"github.com/pimstack/pim-backend/internal/models"
)

func TestCreateProductRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	productService, _ := newTestProductService(db)

	category := createCategory(t, db, "Routers")
	created, err := productService.CreateProduct(&ProductRequest{
		Model:      "R5",
		SKU:        "RT-R5-002",
		EAN:        "4006381333932",
		CategoryID: &category.ID,
	}, nil)
	require.NoError(t, err)
	require.NotZero(t, created.ID)

	fetched, err := productService.GetProduct(created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Model, fetched.Model)
	assert.Equal(t, created.SKU, fetched.SKU)
	assert.Equal(t, created.EAN, fetched.EAN)
	require.NotNil(t, fetched.CategoryID)
	assert.Equal(t, category.ID, *fetched.CategoryID)
	assert.Equal(t, created.Completion, fetched.Completion)
}

func TestCreateProductValidation(t *testing.T) {
	db := setupTestDB(t)
	productService, _ := newTestProductService(db)

	_, err := productService.CreateProduct(&ProductRequest{SKU: "SP-1"}, nil)
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))

	_, err = productService.CreateProduct(&ProductRequest{Model: "X1", SKU: "   "}, nil)
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}

func TestCreateProductSKUConflict(t *testing.T) {
	db := setupTestDB(t)
	productService, _ := newTestProductService(db)

	_, err := productService.CreateProduct(&ProductRequest{Model: "X1", SKU: "SP-1"}, nil)
	require.NoError(t, err)

	_, err = productService.CreateProduct(&ProductRequest{Model: "X2", SKU: "SP-1"}, nil)
	require.Error(t, err)
	assert.True(t, apperrors.IsConflict(err))
}

func TestCreateProductUnknownCatalogRefs(t *testing.T) {
	db := setupTestDB(t)
	productService, _ := newTestProductService(db)

	missing := uint(999)
	_, err := productService.CreateProduct(&ProductRequest{
		Model:    "X1",
		SKU:      "SP-1",
		StatusID: &missing,
	}, nil)
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))

	_, err = productService.CreateProduct(&ProductRequest{
		Model:      "X1",
		SKU:        "SP-1",
		CategoryID: &missing,
	}, nil)
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))

	// Nothing was written.
	var count int64
	require.NoError(t, db.Model(&models.Product{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestUpdateProductUnknownCatalogRefs(t *testing.T) {
	db := setupTestDB(t)
	productService, _ := newTestProductService(db)

	product, err := productService.CreateProduct(&ProductRequest{Model: "X1", SKU: "SP-1"}, nil)
	require.NoError(t, err)

	missing := uint(999)
	_, err = productService.UpdateProduct(product.ID, &ProductRequest{
		Model:    "X1",
		SKU:      "SP-1",
		StatusID: &missing,
	}, nil)
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))

	_, err = productService.UpdateProduct(product.ID, &ProductRequest{
		Model:      "X1",
		SKU:        "SP-1",
		CategoryID: &missing,
	}, nil)
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestUpdateProductKeepsOwnSKU(t *testing.T) {
	db := setupTestDB(t)
	productService, _ := newTestProductService(db)

	product, err := productService.CreateProduct(&ProductRequest{Model: "X1", SKU: "SP-1"}, nil)
	require.NoError(t, err)

	// Re-submitting the product's own SKU is not a conflict.
	updated, err := productService.UpdateProduct(product.ID, &ProductRequest{
		Model: "X1 Pro",
		SKU:   "SP-1",
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, "X1 Pro", updated.Model)

	other, err := productService.CreateProduct(&ProductRequest{Model: "X2", SKU: "SP-2"}, nil)
	require.NoError(t, err)

	_, err = productService.UpdateProduct(other.ID, &ProductRequest{Model: "X2", SKU: "SP-1"}, nil)
	require.Error(t, err)
	assert.True(t, apperrors.IsConflict(err))
}

func TestUpdateProductWritesStatusHistory(t *testing.T) {
	db := setupTestDB(t)
	productService, _ := newTestProductService(db)

	draft := createStatusType(t, db, "Draft")
	active := createStatusType(t, db, "Active")

	product, err := productService.CreateProduct(&ProductRequest{
		Model:    "X1",
		SKU:      "SP-1",
		StatusID: &draft.ID,
	}, nil)
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&models.StatusHistoryEntry{}).
		Where("product_id = ?", product.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	_, err = productService.UpdateProduct(product.ID, &ProductRequest{
		Model:    "X1",
		SKU:      "SP-1",
		StatusID: &active.ID,
	}, nil)
	require.NoError(t, err)

	require.NoError(t, db.Model(&models.StatusHistoryEntry{}).
		Where("product_id = ?", product.ID).Count(&count).Error)
	assert.Equal(t, int64(2), count)

	// Same status again: no new history row.
	_, err = productService.UpdateProduct(product.ID, &ProductRequest{
		Model:    "X1 Pro",
		SKU:      "SP-1",
		StatusID: &active.ID,
	}, nil)
	require.NoError(t, err)

	require.NoError(t, db.Model(&models.StatusHistoryEntry{}).
		Where("product_id = ?", product.ID).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestDeleteProductCascades(t *testing.T) {
	db := setupTestDB(t)
	productService, _ := newTestProductService(db)
	childService := newTestChildService(db)

	product, err := productService.CreateProduct(&ProductRequest{Model: "X1", SKU: "SP-1"}, nil)
	require.NoError(t, err)

	_, err = childService.Create(product.ID, models.KindPackageContents,
		json.RawMessage(`{"item":"USB cable"}`))
	require.NoError(t, err)

	require.NoError(t, productService.DeleteProduct(product.ID))

	_, err = productService.GetProduct(product.ID)
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))

	var count int64
	require.NoError(t, db.Model(&models.PackageContent{}).
		Where("product_id = ?", product.ID).Count(&count).Error)
	assert.Equal(t, int64(0), count)

	// Deleting again reports not found, never silent success.
	err = productService.DeleteProduct(product.ID)
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestSearchProducts(t *testing.T) {
	db := setupTestDB(t)
	productService, _ := newTestProductService(db)

	for _, req := range []*ProductRequest{
		{Model: "Smartphone X1", SKU: "SP-X1-001"},
		{Model: "Router R5", SKU: "RT-R5-002", EAN: "4006381333931"},
		{Model: "Tablet T3", SKU: "TB-T3-003"},
	} {
		_, err := productService.CreateProduct(req, nil)
		require.NoError(t, err)
	}

	// Case-insensitive substring over model, sku and ean.
	results, err := productService.SearchProducts("router")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Router R5", results[0].Model)

	results, err = productService.SearchProducts("4006381333931")
	require.NoError(t, err)
	require.Len(t, results, 1)

	results, err = productService.SearchProducts("no-such-product")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearchWildcardEqualsList(t *testing.T) {
	db := setupTestDB(t)
	productService, _ := newTestProductService(db)

	for _, req := range []*ProductRequest{
		{Model: "Smartphone X1", SKU: "SP-X1-001"},
		{Model: "Router R5", SKU: "RT-R5-002"},
		{Model: "Tablet T3", SKU: "TB-T3-003"},
	} {
		_, err := productService.CreateProduct(req, nil)
		require.NoError(t, err)
	}

	listed, err := productService.ListProducts()
	require.NoError(t, err)

	searched, err := productService.SearchProducts("*")
	require.NoError(t, err)

	require.Len(t, searched, len(listed))
	for i := range listed {
		assert.Equal(t, listed[i].ID, searched[i].ID)
	}
}
