// internal/services/completion_service_test.go
package services

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pimstack/pim-backend/internal/models"
)

func TestCompletionMinimalProduct(t *testing.T) {
	db := setupTestDB(t)
	productService, completion := newTestProductService(db)

	product, err := productService.CreateProduct(&ProductRequest{Model: "X1", SKU: "SP-1"}, nil)
	require.NoError(t, err)

	// Two of eighteen checks filled: model and sku.
	assert.Equal(t, 11, product.Completion)

	// Pure function: recomputing without mutation yields the same score.
	score, err := completion.Calculate(db, product)
	require.NoError(t, err)
	assert.Equal(t, 11, score)

	again, err := completion.Calculate(db, product)
	require.NoError(t, err)
	assert.Equal(t, score, again)
}

func TestCompletionRisesWithChildRows(t *testing.T) {
	db := setupTestDB(t)
	productService, _ := newTestProductService(db)
	childService := newTestChildService(db)

	product, err := productService.CreateProduct(&ProductRequest{Model: "X1", SKU: "SP-1"}, nil)
	require.NoError(t, err)
	require.Equal(t, 11, product.Completion)

	_, err = childService.Create(product.ID, models.KindPackageContents,
		json.RawMessage(`{"item":"USB cable"}`))
	require.NoError(t, err)

	reloaded, err := productService.GetProduct(product.ID)
	require.NoError(t, err)
	assert.Equal(t, 17, reloaded.Completion)
}

func TestCompletionRowCountInsensitivity(t *testing.T) {
	db := setupTestDB(t)
	productService, _ := newTestProductService(db)
	childService := newTestChildService(db)

	product, err := productService.CreateProduct(&ProductRequest{Model: "X1", SKU: "SP-1"}, nil)
	require.NoError(t, err)

	_, err = childService.Create(product.ID, models.KindPackageContents,
		json.RawMessage(`{"item":"USB cable"}`))
	require.NoError(t, err)

	before, err := productService.GetProduct(product.ID)
	require.NoError(t, err)

	// A second row of an already-counted kind changes nothing.
	_, err = childService.Create(product.ID, models.KindPackageContents,
		json.RawMessage(`{"item":"Power adapter","quantity":2}`))
	require.NoError(t, err)

	after, err := productService.GetProduct(product.ID)
	require.NoError(t, err)
	assert.Equal(t, before.Completion, after.Completion)
}

func TestCompletionFullProductScoresHundred(t *testing.T) {
	db := setupTestDB(t)
	productService, _ := newTestProductService(db)
	childService := newTestChildService(db)

	category := createCategory(t, db, "Smartphones")
	status := createStatusType(t, db, "Active")
	language := createLanguage(t, db, "en", "English")
	field := createPackagingField(t, db, "Weight", "number")

	product, err := productService.CreateProduct(&ProductRequest{
		Model:      "X1",
		SKU:        "SP-1",
		EAN:        "4006381333931",
		CategoryID: &category.ID,
		StatusID:   &status.ID,
	}, nil)
	require.NoError(t, err)

	// Creating with a status already wrote the initial history row.
	other, err := productService.CreateProduct(&ProductRequest{Model: "X2", SKU: "SP-2"}, nil)
	require.NoError(t, err)

	payloads := map[models.ChildKind]string{
		models.KindPackageContents:    `{"item":"USB cable"}`,
		models.KindProperties:         `{"name":"Color","value":"Black"}`,
		models.KindLanguages:          fmt.Sprintf(`{"language_id":%d,"name":"X1 Phone"}`, language.ID),
		models.KindPackagingLogistics: fmt.Sprintf(`{"field_id":%d,"value":"180"}`, field.ID),
		models.KindAddresses:          `{"type":"manufacturer","name":"Acme Corp"}`,
		models.KindCategories:         fmt.Sprintf(`{"category_id":%d}`, category.ID),
		models.KindCompatible:         fmt.Sprintf(`{"compatible_id":%d}`, other.ID),
		models.KindSerialNumbers:      `{"serial_number":"SN-0001"}`,
		models.KindImeiMac:            `{"type":"imei","value":"356938035643809"}`,
		models.KindSoftware:           `{"name":"Firmware","version":"1.2.3"}`,
		models.KindManuals:            fmt.Sprintf(`{"language_id":%d,"title":"X1 Manual"}`, language.ID),
		models.KindAccessories:        fmt.Sprintf(`{"accessory_id":%d}`, other.ID),
	}

	for kind, payload := range payloads {
		_, err := childService.Create(product.ID, kind, json.RawMessage(payload))
		require.NoError(t, err, "creating %s", kind)
	}

	full, err := productService.GetProduct(product.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, full.Completion)
}

func TestCompletionCacheColumnIsWritten(t *testing.T) {
	db := setupTestDB(t)
	productService, completion := newTestProductService(db)

	product, err := productService.CreateProduct(&ProductRequest{Model: "X1", SKU: "SP-1"}, nil)
	require.NoError(t, err)

	_, err = completion.Calculate(db, product)
	require.NoError(t, err)

	var cached int
	require.NoError(t, db.Model(&models.Product{}).
		Where("id = ?", product.ID).
		Pluck("completion_percentage", &cached).Error)
	assert.Equal(t, 11, cached)
}
