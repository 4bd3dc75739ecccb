// internal/client/client_test.go
package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pimstack/pim-backend/internal/models"
)

func productListServer(t *testing.T, products []models.Product) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/products" {
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"success": false,
				"message": "Resource not found",
				"code":    404,
			})
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"data":    products,
		})
	}))
}

func testProducts() []models.Product {
	return []models.Product{
		{ID: 1, Model: "Smartphone X1", SKU: "SP-X1-001"},
		{ID: 2, Model: "Router R5", SKU: "RT-R5-002"},
		{ID: 3, Model: "Tablet T3", SKU: "TB-T3-003"},
	}
}

func TestClientNavigation(t *testing.T) {
	srv := productListServer(t, testProducts())
	defer srv.Close()

	c := New(srv.URL, nil)
	require.NoError(t, c.Refresh(context.Background()))
	require.Equal(t, 3, c.Len())
	assert.False(t, c.Offline())

	first := c.First()
	require.NotNil(t, first)
	assert.Equal(t, uint(1), first.ID)

	next := c.Next()
	require.NotNil(t, next)
	assert.Equal(t, uint(2), next.ID)

	last := c.Last()
	require.NotNil(t, last)
	assert.Equal(t, uint(3), last.ID)

	// Next at the end stays put.
	assert.Equal(t, uint(3), c.Next().ID)

	prev := c.Prev()
	require.NotNil(t, prev)
	assert.Equal(t, uint(2), prev.ID)

	// Prev at the start stays put.
	c.First()
	assert.Equal(t, uint(1), c.Prev().ID)

	selected := c.Select(3)
	require.NotNil(t, selected)
	assert.Equal(t, "Tablet T3", selected.Model)

	assert.Nil(t, c.Select(42))
}

func TestClientEmptyList(t *testing.T) {
	srv := productListServer(t, nil)
	defer srv.Close()

	c := New(srv.URL, nil)
	require.NoError(t, c.Refresh(context.Background()))
	assert.Equal(t, 0, c.Len())
	assert.Nil(t, c.Current())
	assert.Nil(t, c.First())
	assert.Nil(t, c.Next())
}

func TestClientCacheFallback(t *testing.T) {
	cachePath := filepath.Join(t.TempDir(), "products.json")
	cache := NewFileCache(cachePath)

	srv := productListServer(t, testProducts())

	c := New(srv.URL, cache)
	require.NoError(t, c.Refresh(context.Background()))
	require.Equal(t, 3, c.Len())

	// Server gone: the next refresh serves the cached snapshot.
	srv.Close()

	offline := New(srv.URL, cache)
	require.NoError(t, offline.Refresh(context.Background()))
	assert.True(t, offline.Offline())
	assert.Equal(t, 3, offline.Len())

	first := offline.First()
	require.NotNil(t, first)
	assert.Equal(t, "Smartphone X1", first.Model)
}

func TestClientServerWinsOverCache(t *testing.T) {
	cachePath := filepath.Join(t.TempDir(), "products.json")
	cache := NewFileCache(cachePath)

	// Stale snapshot with extra products.
	require.NoError(t, cache.Save(&Snapshot{Products: testProducts()}))

	srv := productListServer(t, testProducts()[:1])
	defer srv.Close()

	c := New(srv.URL, cache)
	require.NoError(t, c.Refresh(context.Background()))

	// The server's shorter list replaces the cache, never merges with it.
	assert.Equal(t, 1, c.Len())
	assert.False(t, c.Offline())

	snapshot, err := cache.Load()
	require.NoError(t, err)
	require.NotNil(t, snapshot)
	assert.Len(t, snapshot.Products, 1)
}

func TestClientNoCacheAndNoServer(t *testing.T) {
	srv := productListServer(t, nil)
	srv.Close()

	c := New(srv.URL, nil)
	err := c.Refresh(context.Background())
	require.Error(t, err)
}

func TestFileCacheMissingFile(t *testing.T) {
	cache := NewFileCache(filepath.Join(t.TempDir(), "absent.json"))
	snapshot, err := cache.Load()
	require.NoError(t, err)
	assert.Nil(t, snapshot)
}
