package promo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"storefront/internal/catalog/models"
	id "storefront/pkg/domain"
	"storefront/pkg/platform/sentinel"
)

const uniqueViolation = "23505"

// Must match InMemory's newerFirst.
const orderNewestFirst = `ORDER BY created_at DESC, id::text DESC`

// PostgresStore persists promos through a pgx pool.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Create(ctx context.Context, p *models.Promo) error {
	productIDs := make([]uuid.UUID, 0, len(p.ProductIDs))
	for _, pid := range p.ProductIDs {
		productIDs = append(productIDs, uuid.UUID(pid))
	}
	var categoryID *string
	if !p.CategoryID.IsNil() {
		v := p.CategoryID.String()
		categoryID = &v
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO promos (id, store_id, name, is_active, scope, product_ids, category_id,
			discount_type, discount_value, show_popup, created_at)
		VALUES ($1::uuid, $2::uuid, $3, $4, $5, $6::uuid[], $7::uuid, $8, $9, $10, $11)
	`, p.ID.String(), p.StoreID.String(), p.Name, p.IsActive, string(p.Scope), productIDs, categoryID,
		string(p.DiscountType), p.DiscountValue, p.ShowPopup, p.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("create promo: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListByStore(ctx context.Context, storeID id.StoreID) ([]models.Promo, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id::text, store_id::text, name, is_active, scope, product_ids::text[], category_id::text,
			discount_type, discount_value::float8, show_popup, created_at
		FROM promos
		WHERE store_id = $1::uuid
		`+orderNewestFirst, storeID.String())
	if err != nil {
		return nil, fmt.Errorf("list promos: %w", err)
	}
	promos, err := pgx.CollectRows(rows, scanPromo)
	if err != nil {
		return nil, fmt.Errorf("list promos: %w", err)
	}
	return promos, nil
}

func scanPromo(row pgx.CollectableRow) (models.Promo, error) {
	var (
		p                   models.Promo
		rawID, rawStoreID   string
		scope, discountType string
		rawProductIDs       []string
		rawCategoryID       *string
	)
	if err := row.Scan(&rawID, &rawStoreID, &p.Name, &p.IsActive, &scope, &rawProductIDs, &rawCategoryID,
		&discountType, &p.DiscountValue, &p.ShowPopup, &p.CreatedAt); err != nil {
		return models.Promo{}, err
	}
	p.Scope = models.Scope(scope)
	p.DiscountType = models.DiscountType(discountType)

	var err error
	if p.ID, err = id.ParsePromoID(rawID); err != nil {
		return models.Promo{}, err
	}
	if p.StoreID, err = id.ParseStoreID(rawStoreID); err != nil {
		return models.Promo{}, err
	}
	for _, raw := range rawProductIDs {
		pid, err := id.ParseProductID(raw)
		if err != nil {
			return models.Promo{}, err
		}
		p.ProductIDs = append(p.ProductIDs, pid)
	}
	if rawCategoryID != nil {
		if p.CategoryID, err = id.ParseCategoryID(*rawCategoryID); err != nil {
			return models.Promo{}, err
		}
	}
	return p, nil
}
