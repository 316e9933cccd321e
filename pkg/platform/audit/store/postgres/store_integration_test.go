//go:build integration

package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	audit "triad/pkg/platform/audit"
	"triad/pkg/platform/audit/store/postgres"
	"triad/pkg/testutil/containers"
)

type StoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *postgres.Store
}

func TestStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(StoreSuite))
}

func (s *StoreSuite) SetupSuite() {
	s.postgres = containers.GetManager().GetPostgres(s.T())
	s.store = postgres.New(s.postgres.DB)
	s.Require().NoError(s.store.Migrate(context.Background()))
	s.Require().NoError(s.store.Migrate(context.Background()), "migrate must be idempotent")
}

func (s *StoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "audit_security"))
}

func (s *StoreSuite) TestAppendAndListRecent() {
	ctx := context.Background()
	base := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

	for i, action := range []audit.AuditEvent{audit.EventThreatDetected, audit.EventAlertChanged, audit.EventLockdownEngaged} {
		s.Require().NoError(s.store.AppendSecurity(ctx, audit.SecurityEvent{
			Timestamp: base.Add(time.Duration(i) * time.Second),
			Subject:   "sentinel",
			Action:    string(action),
			Reason:    "score crossed threshold",
			RequestID: "req-1",
			ActorID:   "ops",
			Severity:  action.Severity(),
		}))
	}

	events, err := s.store.ListRecent(ctx, 2)
	s.Require().NoError(err)
	s.Require().Len(events, 2)
	s.Equal(string(audit.EventLockdownEngaged), events[0].Action)
	s.Equal(audit.SeverityCritical, events[0].Severity)
	s.True(base.Add(2 * time.Second).Equal(events[0].Timestamp))
	s.Equal(string(audit.EventAlertChanged), events[1].Action)

	all, err := s.store.ListRecent(ctx, 0)
	s.Require().NoError(err)
	s.Len(all, 3)
}

func (s *StoreSuite) TestListRecentEmpty() {
	events, err := s.store.ListRecent(context.Background(), 10)
	s.Require().NoError(err)
	s.Empty(events)
}
