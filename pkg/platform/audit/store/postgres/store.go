// Package postgres is the transactional outbox for audit events. Append joins
// the caller's transaction when the context carries one, so an event commits
// or rolls back with the change it describes. A relay drains pending rows.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	id "storefront/pkg/domain"
	audit "storefront/pkg/platform/audit"
	"storefront/pkg/platform/tx"
)

// Store persists audit events in the audit_outbox table.
type Store struct {
	db    *sql.DB
	newID func() uuid.UUID
}

// New constructs an outbox store on db.
func New(db *sql.DB) *Store {
	return &Store{db: db, newID: uuid.New}
}

// Append writes event as a pending outbox row.
func (s *Store) Append(ctx context.Context, event audit.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal audit event: %w", err)
	}
	createdAt := event.Timestamp
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	_, err = tx.ConnFrom(ctx, s.db).ExecContext(ctx, `
		INSERT INTO audit_outbox (id, action, category, user_id, store_id, payload, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, s.newID(), event.Action, string(event.Category),
		nullable(uuid.UUID(event.UserID)), nullable(uuid.UUID(event.StoreID)),
		payload, createdAt.UTC())
	if err != nil {
		return fmt.Errorf("append audit event: %w", err)
	}
	return nil
}

// ListByUser returns the user's events, newest first.
func (s *Store) ListByUser(ctx context.Context, userID id.UserID) ([]audit.Event, error) {
	return s.list(ctx, `
		SELECT payload FROM audit_outbox
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
	`, uuid.UUID(userID))
}

// ListByStore returns events recorded against the store, newest first.
func (s *Store) ListByStore(ctx context.Context, storeID id.StoreID) ([]audit.Event, error) {
	return s.list(ctx, `
		SELECT payload FROM audit_outbox
		WHERE store_id = $1
		ORDER BY created_at DESC, id DESC
	`, uuid.UUID(storeID))
}

// ListRecent returns the last limit events in the order they were recorded.
func (s *Store) ListRecent(ctx context.Context, limit int) ([]audit.Event, error) {
	if limit <= 0 {
		return nil, nil
	}
	return s.list(ctx, `
		SELECT payload FROM (
			SELECT payload, created_at, id FROM audit_outbox
			ORDER BY created_at DESC, id DESC
			LIMIT $1
		) recent
		ORDER BY created_at ASC, id ASC
	`, limit)
}

// Pending locks up to limit undelivered rows, oldest first. Rows locked by a
// concurrent relay are skipped, so call it inside tx.Run.
func (s *Store) Pending(ctx context.Context, limit int) ([]audit.OutboxEntry, error) {
	rows, err := tx.ConnFrom(ctx, s.db).QueryContext(ctx, `
		SELECT id, payload FROM audit_outbox
		WHERE published_at IS NULL
		ORDER BY created_at ASC, id ASC
		LIMIT $1
		FOR UPDATE SKIP LOCKED
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list pending audit events: %w", err)
	}
	defer rows.Close()

	var out []audit.OutboxEntry
	for rows.Next() {
		var (
			entry   audit.OutboxEntry
			payload []byte
		)
		if err := rows.Scan(&entry.ID, &payload); err != nil {
			return nil, fmt.Errorf("scan pending audit event: %w", err)
		}
		if err := json.Unmarshal(payload, &entry.Event); err != nil {
			return nil, fmt.Errorf("decode audit event %s: %w", entry.ID, err)
		}
		out = append(out, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list pending audit events: %w", err)
	}
	return out, nil
}

// MarkPublished stamps delivered rows so Pending stops returning them.
func (s *Store) MarkPublished(ctx context.Context, ids []uuid.UUID, at time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := tx.ConnFrom(ctx, s.db).ExecContext(ctx, `
		UPDATE audit_outbox SET published_at = $1
		WHERE id = ANY($2) AND published_at IS NULL
	`, at.UTC(), pq.Array(ids))
	if err != nil {
		return fmt.Errorf("mark audit events published: %w", err)
	}
	return nil
}

// PurgePublished deletes delivered rows older than before and reports how
// many went.
func (s *Store) PurgePublished(ctx context.Context, before time.Time) (int64, error) {
	res, err := tx.ConnFrom(ctx, s.db).ExecContext(ctx, `
		DELETE FROM audit_outbox
		WHERE published_at IS NOT NULL AND published_at < $1
	`, before.UTC())
	if err != nil {
		return 0, fmt.Errorf("purge audit outbox: %w", err)
	}
	return res.RowsAffected()
}

func (s *Store) list(ctx context.Context, query string, args ...any) ([]audit.Event, error) {
	rows, err := tx.ConnFrom(ctx, s.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list audit events: %w", err)
	}
	defer rows.Close()

	var out []audit.Event
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		var event audit.Event
		if err := json.Unmarshal(payload, &event); err != nil {
			return nil, fmt.Errorf("decode audit event: %w", err)
		}
		out = append(out, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list audit events: %w", err)
	}
	return out, nil
}

func nullable(u uuid.UUID) any {
	if u == uuid.Nil {
		return nil
	}
	return u
}
