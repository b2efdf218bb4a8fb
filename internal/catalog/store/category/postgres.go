package category

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

type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Create(ctx context.Context, c *models.Category) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO categories (id, store_id, name) VALUES ($1::uuid, $2::uuid, $3)
	`, c.ID.String(), c.StoreID.String(), c.Name)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("create category: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListByStore(ctx context.Context, storeID id.StoreID) ([]models.Category, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id::text, store_id::text, name FROM categories
		WHERE store_id = $1::uuid
		ORDER BY name ASC, id::text ASC
	`, storeID.String())
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	categories, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Category, error) {
		var (
			c                 models.Category
			rawID, rawStoreID string
		)
		if err := row.Scan(&rawID, &rawStoreID, &c.Name); err != nil {
			return models.Category{}, err
		}
		var err error
		if c.ID, err = id.ParseCategoryID(rawID); err != nil {
			return models.Category{}, err
		}
		if c.StoreID, err = id.ParseStoreID(rawStoreID); err != nil {
			return models.Category{}, err
		}
		return c, nil
	})
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}
