package tenant

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"storefront/internal/tenant/models"
	id "storefront/pkg/domain"
	"storefront/pkg/platform/sentinel"
	"storefront/pkg/platform/tx"
)

const uniqueViolation = "23505"

// PostgresStore persists stores in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed store repository.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, store *models.Store) error {
	theme := []byte(store.ThemeConfig)
	if len(theme) == 0 {
		theme = []byte("{}")
	}
	_, err := tx.ConnFrom(ctx, s.db).ExecContext(ctx, `
		INSERT INTO stores (id, owner_id, name, theme_config, currency, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, uuid.UUID(store.ID), uuid.UUID(store.OwnerID), store.Name, theme, store.Currency, store.CreatedAt, store.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("create store: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, storeID id.StoreID) (*models.Store, error) {
	row := tx.ConnFrom(ctx, s.db).QueryRowContext(ctx, `
		SELECT id, owner_id, name, theme_config, currency, created_at, updated_at
		FROM stores
		WHERE id = $1
	`, uuid.UUID(storeID))
	store, err := scanStore(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find store by id: %w", err)
	}
	return store, nil
}

func (s *PostgresStore) Delete(ctx context.Context, storeID id.StoreID) error {
	res, err := tx.ConnFrom(ctx, s.db).ExecContext(ctx, `DELETE FROM stores WHERE id = $1`, uuid.UUID(storeID))
	if err != nil {
		return fmt.Errorf("delete store: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete store: %w", err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := tx.ConnFrom(ctx, s.db).QueryRowContext(ctx, `SELECT COUNT(*) FROM stores`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count stores: %w", err)
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanStore(row rowScanner) (*models.Store, error) {
	var (
		storeID, ownerID uuid.UUID
		theme            []byte
		store            models.Store
	)
	if err := row.Scan(&storeID, &ownerID, &store.Name, &theme, &store.Currency, &store.CreatedAt, &store.UpdatedAt); err != nil {
		return nil, err
	}
	store.ID = id.StoreID(storeID)
	store.OwnerID = id.UserID(ownerID)
	if len(theme) > 0 && string(theme) != "{}" {
		store.ThemeConfig = theme
	}
	return &store, nil
}
