package product

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"storefront/internal/catalog/models"
	id "storefront/pkg/domain"
	"storefront/pkg/platform/sentinel"
)

const uniqueViolation = "23505"

// PostgresStore persists products through a pgx pool.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Create(ctx context.Context, p *models.Product) error {
	var categoryID *string
	if !p.CategoryID.IsNil() {
		v := p.CategoryID.String()
		categoryID = &v
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO products (id, store_id, category_id, name, price, active, created_at)
		VALUES ($1::uuid, $2::uuid, $3::uuid, $4, $5, $6, $7)
	`, p.ID.String(), p.StoreID.String(), categoryID, p.Name, p.Price, p.Active, p.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("create product: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListByStore(ctx context.Context, storeID id.StoreID, includeInactive bool) ([]models.Product, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id::text, store_id::text, category_id::text, name, price::float8, active, created_at
		FROM products
		WHERE store_id = $1::uuid AND (active OR $2)
		ORDER BY created_at ASC, id ASC
	`, storeID.String(), includeInactive)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	products, err := pgx.CollectRows(rows, scanProduct)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

func scanProduct(row pgx.CollectableRow) (models.Product, error) {
	var (
		p                 models.Product
		rawID, rawStoreID string
		rawCategoryID     *string
	)
	if err := row.Scan(&rawID, &rawStoreID, &rawCategoryID, &p.Name, &p.Price, &p.Active, &p.CreatedAt); err != nil {
		return models.Product{}, err
	}
	var err error
	if p.ID, err = id.ParseProductID(rawID); err != nil {
		return models.Product{}, err
	}
	if p.StoreID, err = id.ParseStoreID(rawStoreID); err != nil {
		return models.Product{}, err
	}
	if rawCategoryID != nil {
		if p.CategoryID, err = id.ParseCategoryID(*rawCategoryID); err != nil {
			return models.Product{}, err
		}
	}
	return p, nil
}
