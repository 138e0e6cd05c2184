package repository

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"order-desk/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalog() []model.Product {
	return []model.Product{
		{ID: 3, Title: "Cake", Price: 35, Image: "/img/cake.png", DiscountPercentage: 10},
		{ID: 1, Title: "Tea", Price: 10, Image: "/img/tea.png", DiscountPercentage: 0},
	}
}

func testOrder(name string, at time.Time) *model.Order {
	return &model.Order{
		ID:        uuid.New(),
		Name:      name,
		Phone:     "555",
		Address:   "1 Main St",
		Cart:      []model.CartItem{{Title: "Tea", Price: 10, Amount: 2}},
		CreatedAt: at,
	}
}

// tempFiles returns the leftover temporary files in dir.
func tempFiles(t *testing.T, dir string) []string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(dir, ".*.tmp"))
	require.NoError(t, err)
	return matches
}

func TestFileProductRepository_RoundTrip(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	repo := NewFileProductRepository(filepath.Join(dir, "products.json"), zerolog.Nop())

	require.NoError(t, repo.ReplaceAll(ctx, testCatalog()))

	products, err := repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, testCatalog(), products)
	assert.Empty(t, tempFiles(t, dir))
}

func TestFileProductRepository_ReplaceWithEmptyList(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "products.json")
	repo := NewFileProductRepository(path, zerolog.Nop())

	require.NoError(t, repo.ReplaceAll(ctx, testCatalog()))
	require.NoError(t, repo.ReplaceAll(ctx, nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(data))

	products, err := repo.GetAll(ctx)
	require.NoError(t, err)
	assert.NotNil(t, products)
	assert.Empty(t, products)
}

func TestFileProductRepository_GetAllErrors(t *testing.T) {
	tests := []struct {
		name    string
		missing bool
		content string
	}{
		{
			name:    "Missing file",
			missing: true,
		},
		{
			name:    "Corrupt file",
			content: `[{"id":1,`,
		},
		{
			name:    "Wrong document shape",
			content: `{"id":1}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "products.json")
			if !tt.missing {
				require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))
			}

			repo := NewFileProductRepository(path, zerolog.Nop())
			products, err := repo.GetAll(context.Background())

			assert.Error(t, err)
			assert.Nil(t, products)
		})
	}
}

func TestFileProductRepository_PreservesNonASCII(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "products.json")
	repo := NewFileProductRepository(path, zerolog.Nop())

	catalog := []model.Product{{ID: 1, Title: "Чай <зелёный> & мята", Price: 10, Image: "/img/tea.png"}}
	require.NoError(t, repo.ReplaceAll(ctx, catalog))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Чай <зелёный> & мята")

	products, err := repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, catalog, products)
}

func TestWriteJSONFile_EncodeFailureKeepsDocument(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "products.json")
	original := `[{"id":1,"title":"Tea","price":10,"image":"/img/tea.png","discountPercentage":0}]`
	require.NoError(t, os.WriteFile(path, []byte(original), 0o644))

	err := writeJSONFile(path, []float64{math.Inf(1)})
	require.Error(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, original, string(data))
	assert.Empty(t, tempFiles(t, dir))
}

func TestWriteJSONFile_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "data", "orders.json")

	require.NoError(t, writeJSONFile(path, []int{1, 2}))

	var got []int
	require.NoError(t, readJSONFile(path, &got))
	assert.Equal(t, []int{1, 2}, got)
}

func TestFileOrderRepository_AppendAndList(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, "orders.json")
	repo := NewFileOrderRepository(path, zerolog.Nop())

	orders, err := repo.List(ctx)
	require.NoError(t, err)
	assert.NotNil(t, orders)
	assert.Empty(t, orders, "a missing log reads as empty")

	first := testOrder("Ann", time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC))
	second := testOrder("Bob", time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC))
	second.Comment = "ring twice"

	require.NoError(t, repo.Append(ctx, first))
	require.NoError(t, repo.Append(ctx, second))

	orders, err = repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, first.ID, orders[0].ID)
	assert.Equal(t, "Bob", orders[1].Name)
	assert.Equal(t, "ring twice", orders[1].Comment)
	assert.True(t, second.CreatedAt.Equal(orders[1].CreatedAt))
	assert.Equal(t, second.Cart, orders[1].Cart)
	assert.Empty(t, tempFiles(t, dir))
}

func TestFileOrderRepository_CorruptLog(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "orders.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o644))

	repo := NewFileOrderRepository(path, zerolog.Nop())

	_, err := repo.List(ctx)
	assert.Error(t, err)

	err = repo.Append(ctx, testOrder("Ann", time.Now()))
	assert.Error(t, err)

	data, readErr := os.ReadFile(path)
	require.NoError(t, readErr)
	assert.Equal(t, "not json", string(data), "a failed append leaves the log untouched")
}

func TestFileOrderRepository_ConcurrentAppends(t *testing.T) {
	ctx := context.Background()
	repo := NewFileOrderRepository(filepath.Join(t.TempDir(), "orders.json"), zerolog.Nop())

	const workers = 20
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, repo.Append(ctx, testOrder("Ann", time.Now())))
		}()
	}
	wg.Wait()

	orders, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, orders, workers)
}
