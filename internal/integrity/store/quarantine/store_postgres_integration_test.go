//go:build integration

package quarantine_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"triad/internal/integrity/store/quarantine"
	"triad/pkg/platform/sentinel"
	"triad/pkg/platform/tx"
	"triad/pkg/testutil"
	"triad/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *quarantine.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.postgres = mgr.GetPostgres(s.T())
	s.store = quarantine.NewPostgres(s.postgres.DB)
	s.Require().NoError(s.store.Migrate(context.Background()))
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "quarantined_records"))
}

func (s *PostgresStoreSuite) TestRoundTrip() {
	ctx := context.Background()
	entry := newEntry(s.T(), "a4b0f4f6-7a1e-4d39-8f0c-2a7c3f0e9b01", testutil.FixedTime)

	s.Require().NoError(s.store.Put(ctx, entry))
	got, err := s.store.Get(ctx, entry.Record.ID)
	s.Require().NoError(err)

	s.Equal(entry.Record.ID, got.Record.ID)
	s.Equal(entry.Record.Hashes, got.Record.Hashes)
	s.Equal(entry.Record.Tech.Values, got.Record.Tech.Values)
	s.Equal(entry.Record.Spirit, got.Record.Spirit)
	s.Equal(entry.Diagnostic, got.Diagnostic)
	s.True(entry.QuarantinedAt.Equal(got.QuarantinedAt))
}

func (s *PostgresStoreSuite) TestPutReplaces() {
	ctx := context.Background()
	entry := newEntry(s.T(), "a4b0f4f6-7a1e-4d39-8f0c-2a7c3f0e9b01", testutil.FixedTime)
	s.Require().NoError(s.store.Put(ctx, entry))

	entry.Reason = "reviewed"
	s.Require().NoError(s.store.Put(ctx, entry))

	list, err := s.store.List(ctx, 10)
	s.Require().NoError(err)
	s.Require().Len(list, 1)
	s.Equal("reviewed", list[0].Reason)
}

func (s *PostgresStoreSuite) TestListOrderAndDelete() {
	ctx := context.Background()
	older := newEntry(s.T(), "a4b0f4f6-7a1e-4d39-8f0c-2a7c3f0e9b01", testutil.FixedTime)
	newer := newEntry(s.T(), "c1d6a3b2-9f40-4c55-b7a8-1e2d3c4b5a60", testutil.FixedTime.Add(time.Minute))
	s.Require().NoError(s.store.Put(ctx, older))
	s.Require().NoError(s.store.Put(ctx, newer))

	list, err := s.store.List(ctx, 10)
	s.Require().NoError(err)
	s.Require().Len(list, 2)
	s.Equal(newer.Record.ID, list[0].Record.ID)

	s.Require().NoError(s.store.Delete(ctx, older.Record.ID))
	_, err = s.store.Get(ctx, older.Record.ID)
	s.True(errors.Is(err, sentinel.ErrNotFound))
	s.True(errors.Is(s.store.Delete(ctx, older.Record.ID), sentinel.ErrNotFound))
}

func (s *PostgresStoreSuite) TestTransactionRollback() {
	ctx := context.Background()
	entry := newEntry(s.T(), "e7f1a2b3-4c5d-4e6f-8a9b-0c1d2e3f4a5b", testutil.FixedTime)
	boom := errors.New("abort")

	err := tx.Run(ctx, s.postgres.DB, func(ctx context.Context) error {
		s.Require().NoError(s.store.Put(ctx, entry))
		_, err := s.store.Get(ctx, entry.Record.ID)
		s.Require().NoError(err, "visible inside the transaction")
		return boom
	})
	s.ErrorIs(err, boom)

	_, err = s.store.Get(ctx, entry.Record.ID)
	s.ErrorIs(err, sentinel.ErrNotFound)

	s.Require().NoError(tx.Run(ctx, s.postgres.DB, func(ctx context.Context) error {
		return s.store.Put(ctx, entry)
	}))
	_, err = s.store.Get(ctx, entry.Record.ID)
	s.NoError(err)
}
