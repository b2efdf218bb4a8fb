package membership

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

// Default-store order; must match models.Membership.Before.
const orderByDefault = `ORDER BY created_at ASC, id ASC`

// PostgresStore persists memberships in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed membership store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, m *models.Membership) error {
	_, err := tx.ConnFrom(ctx, s.db).ExecContext(ctx, `
		INSERT INTO store_memberships (id, user_id, store_id, role, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, uuid.UUID(m.ID), uuid.UUID(m.UserID), uuid.UUID(m.StoreID), string(m.Role), m.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("create membership: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListByUser(ctx context.Context, userID id.UserID) ([]*models.Membership, error) {
	rows, err := tx.ConnFrom(ctx, s.db).QueryContext(ctx, `
		SELECT id, user_id, store_id, role, created_at
		FROM store_memberships
		WHERE user_id = $1
		`+orderByDefault, uuid.UUID(userID))
	if err != nil {
		return nil, fmt.Errorf("list memberships: %w", err)
	}
	defer rows.Close()

	var out []*models.Membership
	for rows.Next() {
		m, err := scanMembership(rows)
		if err != nil {
			return nil, fmt.Errorf("scan membership: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list memberships: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) FirstByUser(ctx context.Context, userID id.UserID) (*models.Membership, error) {
	row := tx.ConnFrom(ctx, s.db).QueryRowContext(ctx, `
		SELECT id, user_id, store_id, role, created_at
		FROM store_memberships
		WHERE user_id = $1
		`+orderByDefault+`
		LIMIT 1`, uuid.UUID(userID))
	m, err := scanMembership(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("first membership: %w", err)
	}
	return m, nil
}

func (s *PostgresStore) Exists(ctx context.Context, userID id.UserID, storeID id.StoreID) (bool, error) {
	var exists bool
	err := tx.ConnFrom(ctx, s.db).QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM store_memberships WHERE user_id = $1 AND store_id = $2)
	`, uuid.UUID(userID), uuid.UUID(storeID)).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check membership: %w", err)
	}
	return exists, nil
}

func (s *PostgresStore) Delete(ctx context.Context, userID id.UserID, storeID id.StoreID) error {
	res, err := tx.ConnFrom(ctx, s.db).ExecContext(ctx, `
		DELETE FROM store_memberships WHERE user_id = $1 AND store_id = $2
	`, uuid.UUID(userID), uuid.UUID(storeID))
	if err != nil {
		return fmt.Errorf("delete membership: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete membership: %w", err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMembership(row rowScanner) (*models.Membership, error) {
	var (
		membershipID, userID, storeID uuid.UUID
		role                          string
		m                             models.Membership
	)
	if err := row.Scan(&membershipID, &userID, &storeID, &role, &m.CreatedAt); err != nil {
		return nil, err
	}
	m.ID = id.MembershipID(membershipID)
	m.UserID = id.UserID(userID)
	m.StoreID = id.StoreID(storeID)
	m.Role = models.Role(role)
	return &m, nil
}
