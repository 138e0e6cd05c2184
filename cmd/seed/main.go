// Command seed uploads a catalog document to the configured catalog backend,
// or reports the current catalog with -check.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"order-desk/internal/config"
	"order-desk/internal/database"
	"order-desk/internal/model"
	"order-desk/internal/repository"
	"order-desk/internal/service"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	catalogPath := flag.String("catalog", "", "path to a JSON array of products to upload")
	check := flag.Bool("check", false, "only read the configured catalog and print its size")
	timeout := flag.Duration("timeout", 30*time.Second, "overall timeout")
	flag.Parse()

	if err := run(*catalogPath, *check, *timeout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(catalogPath string, check bool, timeout time.Duration) error {
	if catalogPath == "" && !check {
		return errors.New("either -catalog or -check is required")
	}

	cfg, err := config.LoadStorage()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := config.NewLogger(cfg.Logger)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	var pool *pgxpool.Pool
	if cfg.Storage.CatalogBackend == config.BackendPostgres {
		pool, err = database.NewPool(ctx, cfg.Database, logger)
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		defer pool.Close()

		if err := database.EnsureSchema(ctx, pool); err != nil {
			return fmt.Errorf("failed to prepare database schema: %w", err)
		}
	}

	repo, err := repository.NewCatalog(ctx, cfg, pool, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize catalog: %w", err)
	}
	products := service.NewProductService(repo, logger)

	if !check {
		inputs, err := readCatalog(catalogPath)
		if err != nil {
			return err
		}
		if err := products.ReplaceProducts(ctx, inputs); err != nil {
			return fmt.Errorf("failed to upload catalog: %w", err)
		}
	}

	current, err := products.GetProducts(ctx)
	if err != nil {
		return fmt.Errorf("failed to read catalog: %w", err)
	}

	fmt.Printf("%s catalog holds %d products\n", cfg.Storage.CatalogBackend, len(current))

	return nil
}

func readCatalog(path string) ([]model.ProductInput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	var inputs []model.ProductInput
	if err := json.Unmarshal(data, &inputs); err != nil {
		return nil, fmt.Errorf("failed to decode catalog file %s: %w", path, err)
	}

	return inputs, nil
}
