package repository

import (
	"context"
	"errors"
	"fmt"

	"bundle-kart/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// productRepository implements the ProductRepository interface using PostgreSQL.
type productRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewProductRepository creates a new PostgreSQL-backed product repository.
func NewProductRepository(pool *pgxpool.Pool, logger zerolog.Logger) ProductRepository {
	return &productRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "product").Logger(),
	}
}

// GetAll retrieves all products with pagination support.
func (r *productRepository) GetAll(ctx context.Context, limit, offset int) ([]model.Product, error) {
	query := `
		SELECT id, name, price, category_id, on_sale, created_at
		FROM products
		ORDER BY name
		LIMIT $1 OFFSET $2
	`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		r.logger.Error().Err(err).
			Int("limit", limit).
			Int("offset", offset).
			Msg("failed to query products")
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	return scanProducts(rows, r.logger)
}

// GetByID retrieves a single product by its ID.
func (r *productRepository) GetByID(ctx context.Context, id string) (*model.Product, error) {
	query := `
		SELECT id, name, price, category_id, on_sale, created_at
		FROM products
		WHERE id = $1
	`

	var p model.Product
	err := r.pool.QueryRow(ctx, query, id).Scan(&p.ID, &p.Name, &p.Price, &p.CategoryID, &p.OnSale, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("product_id", id).Msg("product not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("product_id", id).Msg("failed to query product")
		return nil, fmt.Errorf("failed to query product: %w", err)
	}

	return &p, nil
}

// GetByIDs retrieves multiple products by their IDs.
func (r *productRepository) GetByIDs(ctx context.Context, ids []string) ([]model.Product, error) {
	if len(ids) == 0 {
		return []model.Product{}, nil
	}

	query := `
		SELECT id, name, price, category_id, on_sale, created_at
		FROM products
		WHERE id = ANY($1)
		ORDER BY name
	`

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		r.logger.Error().Err(err).Int("count", len(ids)).Msg("failed to query products by IDs")
		return nil, fmt.Errorf("failed to query products by IDs: %w", err)
	}
	defer rows.Close()

	return scanProducts(rows, r.logger)
}

func scanProducts(rows pgx.Rows, logger zerolog.Logger) ([]model.Product, error) {
	var products []model.Product
	for rows.Next() {
		var p model.Product
		err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.CategoryID, &p.OnSale, &p.CreatedAt)
		if err != nil {
			logger.Error().Err(err).Msg("failed to scan product row")
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		logger.Error().Err(err).Msg("error iterating product rows")
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

// splitItems separates cart lines into product and bundle catalogue IDs.
func splitItems(items []model.CartLineItem) (productIDs, bundleIDs []string) {
	for _, li := range items {
		switch li.Type {
		case model.LineItemProduct:
			productIDs = append(productIDs, li.ProductID)
		case model.LineItemBundle:
			bundleIDs = append(bundleIDs, li.BundleID)
		}
	}
	return productIDs, bundleIDs
}

// ValidateItemsExist checks that every cart line refers to an existing
// product or bundle.
func (r *productRepository) ValidateItemsExist(ctx context.Context, items []model.CartLineItem) error {
	productIDs, bundleIDs := splitItems(items)

	if len(productIDs) > 0 {
		if err := r.countMatches(ctx, `SELECT COUNT(DISTINCT id) FROM products WHERE id = ANY($1)`, productIDs); err != nil {
			return err
		}
	}

	if len(bundleIDs) > 0 {
		if err := r.countMatches(ctx, `SELECT COUNT(DISTINCT id) FROM bundles WHERE id = ANY($1)`, bundleIDs); err != nil {
			return err
		}
	}

	return nil
}

func (r *productRepository) countMatches(ctx context.Context, query string, ids []string) error {
	unique := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		unique[id] = struct{}{}
	}

	var count int
	if err := r.pool.QueryRow(ctx, query, ids).Scan(&count); err != nil {
		r.logger.Error().Err(err).Int("count", len(ids)).Msg("failed to validate catalogue references")
		return fmt.Errorf("failed to validate catalogue references: %w", err)
	}

	if count != len(unique) {
		r.logger.Warn().
			Int("expected", len(unique)).
			Int("found", count).
			Msg("not all catalogue references exist")
		return model.ErrProductNotFound
	}

	return nil
}

// ResolveCategories builds the catalogue-ID to category-ID lookup for the
// given cart lines, covering both products and bundles.
func (r *productRepository) ResolveCategories(ctx context.Context, items []model.CartLineItem) (model.CategoryLookup, error) {
	productIDs, bundleIDs := splitItems(items)
	lookup := make(model.CategoryLookup, len(items))

	if len(productIDs) > 0 {
		if err := r.collectCategories(ctx, `SELECT id, category_id FROM products WHERE id = ANY($1)`, productIDs, lookup); err != nil {
			return nil, err
		}
	}

	if len(bundleIDs) > 0 {
		if err := r.collectCategories(ctx, `SELECT id, category_id FROM bundles WHERE id = ANY($1)`, bundleIDs, lookup); err != nil {
			return nil, err
		}
	}

	return lookup, nil
}

func (r *productRepository) collectCategories(ctx context.Context, query string, ids []string, lookup model.CategoryLookup) error {
	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		r.logger.Error().Err(err).Int("count", len(ids)).Msg("failed to query categories")
		return fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id, category string
		if err := rows.Scan(&id, &category); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan category row")
			return fmt.Errorf("failed to scan category: %w", err)
		}
		lookup[id] = category
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating category rows")
		return fmt.Errorf("error iterating categories: %w", err)
	}

	return nil
}
