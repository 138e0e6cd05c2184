package repository

import (
	"context"
	"testing"
	"time"

	"order-desk/internal/database"
	"order-desk/internal/model"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupTestDB creates a PostgreSQL testcontainer and returns a connection pool.
func setupTestDB(t *testing.T) (*pgxpool.Pool, func()) {
	if testing.Short() {
		t.Skip("skipping postgres repository test in short mode")
	}

	ctx := context.Background()

	// Start PostgreSQL container
	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)

	// Get connection string
	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	// Create connection pool
	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)

	// Create schema
	require.NoError(t, database.EnsureSchema(ctx, pool))

	// Cleanup function
	cleanup := func() {
		pool.Close()
		_ = pgContainer.Terminate(ctx)
	}

	return pool, cleanup
}

// truncate empties both tables between subtests.
func truncate(t *testing.T, pool *pgxpool.Pool) {
	_, err := pool.Exec(context.Background(), `TRUNCATE products, orders`)
	require.NoError(t, err)
}

func TestProductRepository_ReplaceAndGetAll(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	logger := zerolog.Nop()
	ctx := context.Background()
	repo := NewProductRepository(pool, logger)

	tests := []struct {
		name     string
		initial  []model.Product
		replace  []model.Product
		expected []model.Product
	}{
		{
			name:     "Empty catalog",
			replace:  []model.Product{},
			expected: []model.Product{},
		},
		{
			name:     "Keeps submitted order",
			replace:  testCatalog(),
			expected: testCatalog(),
		},
		{
			name:     "Replaces previous catalog",
			initial:  testCatalog(),
			replace:  []model.Product{{ID: 9, Title: "Bun", Price: 5, Image: "/img/bun.png"}},
			expected: []model.Product{{ID: 9, Title: "Bun", Price: 5, Image: "/img/bun.png"}},
		},
		{
			name:     "Values beyond 32 bits",
			replace:  []model.Product{{ID: 5000000000, Title: "Yacht", Price: 3000000000, Image: "/img/yacht.png", DiscountPercentage: 2147483648}},
			expected: []model.Product{{ID: 5000000000, Title: "Yacht", Price: 3000000000, Image: "/img/yacht.png", DiscountPercentage: 2147483648}},
		},
		{
			name:     "Clears catalog",
			initial:  testCatalog(),
			replace:  nil,
			expected: []model.Product{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			truncate(t, pool)

			if tt.initial != nil {
				require.NoError(t, repo.ReplaceAll(ctx, tt.initial))
			}

			require.NoError(t, repo.ReplaceAll(ctx, tt.replace))

			products, err := repo.GetAll(ctx)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, products)
		})
	}
}

func TestProductRepository_ReplaceAllRollsBack(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	repo := NewProductRepository(pool, zerolog.Nop())

	require.NoError(t, repo.ReplaceAll(ctx, testCatalog()))

	// The duplicate primary key fails the second insert.
	err := repo.ReplaceAll(ctx, []model.Product{
		{ID: 5, Title: "Bun", Price: 5, Image: "/img/bun.png"},
		{ID: 5, Title: "Roll", Price: 6, Image: "/img/roll.png"},
	})
	require.Error(t, err)

	products, err := repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, testCatalog(), products, "a failed replace keeps the previous catalog")
}

func TestProductRepository_ErrorPaths(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewProductRepository(pool, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.GetAll(ctx)
	assert.Error(t, err)

	err = repo.ReplaceAll(ctx, testCatalog())
	assert.Error(t, err)

	// Closed pool
	pool.Close()
	_, err = repo.GetAll(context.Background())
	assert.Error(t, err)
}
