//go:build integration

package postgres_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	id "storefront/pkg/domain"
	audit "storefront/pkg/platform/audit"
	"storefront/pkg/platform/audit/store/postgres"
	"storefront/pkg/platform/tx"
	"storefront/pkg/testutil/containers"
)

type OutboxSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *postgres.Store
}

func TestOutboxSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(OutboxSuite))
}

func (s *OutboxSuite) SetupSuite() {
	s.postgres = containers.GetManager().GetPostgres(s.T())
	s.store = postgres.New(s.postgres.DB)
}

func (s *OutboxSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "audit_outbox"))
}

func event(user id.UserID, store id.StoreID, action string, at time.Time) audit.Event {
	return audit.Event{
		Category:  audit.EventStoreSelected.Category(),
		Timestamp: at,
		UserID:    user,
		StoreID:   store,
		Action:    action,
		RequestID: "req-" + action,
	}
}

func (s *OutboxSuite) TestAppendAndList() {
	ctx := context.Background()
	alice := id.UserID(uuid.New())
	shop := id.StoreID(uuid.New())
	base := time.Now().UTC().Truncate(time.Microsecond)

	s.Require().NoError(s.store.Append(ctx, event(alice, shop, "first", base)))
	s.Require().NoError(s.store.Append(ctx, event(alice, id.StoreID{}, "second", base.Add(time.Second))))
	s.Require().NoError(s.store.Append(ctx, event(id.UserID(uuid.New()), shop, "third", base.Add(2*time.Second))))

	byUser, err := s.store.ListByUser(ctx, alice)
	s.Require().NoError(err)
	s.Require().Len(byUser, 2)
	s.Equal("second", byUser[0].Action)
	s.Equal("req-first", byUser[1].RequestID)
	s.True(byUser[1].Timestamp.Equal(base))

	byStore, err := s.store.ListByStore(ctx, shop)
	s.Require().NoError(err)
	s.Len(byStore, 2)

	recent, err := s.store.ListRecent(ctx, 2)
	s.Require().NoError(err)
	s.Require().Len(recent, 2)
	s.Equal("second", recent[0].Action)
	s.Equal("third", recent[1].Action)
}

func (s *OutboxSuite) TestAppendRollsBackWithTransaction() {
	ctx := context.Background()
	alice := id.UserID(uuid.New())
	errAbort := errors.New("abort")

	err := tx.Run(ctx, s.postgres.DB, func(ctx context.Context) error {
		s.Require().NoError(s.store.Append(ctx, event(alice, id.StoreID{}, "discarded", time.Now())))
		return errAbort
	})
	s.Require().ErrorIs(err, errAbort)

	events, err := s.store.ListByUser(ctx, alice)
	s.Require().NoError(err)
	s.Empty(events)
}

func (s *OutboxSuite) TestPendingAndMarkPublished() {
	ctx := context.Background()
	user := id.UserID(uuid.New())
	base := time.Now().UTC()
	for i, action := range []string{"a", "b", "c"} {
		s.Require().NoError(s.store.Append(ctx, event(user, id.StoreID{}, action, base.Add(time.Duration(i)*time.Second))))
	}

	var first []audit.OutboxEntry
	s.Require().NoError(tx.Run(ctx, s.postgres.DB, func(ctx context.Context) error {
		var err error
		first, err = s.store.Pending(ctx, 2)
		if err != nil {
			return err
		}
		return s.store.MarkPublished(ctx, []uuid.UUID{first[0].ID, first[1].ID}, base)
	}))
	s.Require().Len(first, 2)
	s.Equal("a", first[0].Event.Action)
	s.Equal("b", first[1].Event.Action)

	rest, err := s.store.Pending(ctx, 10)
	s.Require().NoError(err)
	s.Require().Len(rest, 1)
	s.Equal("c", rest[0].Event.Action)

	purged, err := s.store.PurgePublished(ctx, base.Add(time.Minute))
	s.Require().NoError(err)
	s.EqualValues(2, purged)

	remaining, err := s.store.ListRecent(ctx, 10)
	s.Require().NoError(err)
	s.Len(remaining, 1)
}

func (s *OutboxSuite) TestConcurrentRelaysSkipLockedRows() {
	ctx := context.Background()
	user := id.UserID(uuid.New())
	for _, action := range []string{"a", "b"} {
		s.Require().NoError(s.store.Append(ctx, event(user, id.StoreID{}, action, time.Now())))
	}

	holder, err := s.postgres.DB.BeginTx(ctx, nil)
	s.Require().NoError(err)
	defer func() { _ = holder.Rollback() }()

	locked, err := s.store.Pending(tx.WithTx(ctx, holder), 1)
	s.Require().NoError(err)
	s.Require().Len(locked, 1)

	others, err := s.store.Pending(ctx, 10)
	s.Require().NoError(err)
	s.Require().Len(others, 1)
	s.NotEqual(locked[0].ID, others[0].ID)
}
