package sqlite_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/byronwade/rebuzzle/internal/models"
	"github.com/byronwade/rebuzzle/internal/repository"
	"github.com/byronwade/rebuzzle/internal/repository/sqlite"
	"github.com/byronwade/rebuzzle/internal/testutil"
)

type SubscriptionRepositorySuite struct {
	suite.Suite
	db   *sql.DB
	repo repository.SubscriptionRepository
}

func (s *SubscriptionRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.repo = sqlite.NewSubscriptionRepository(s.db)
}

func (s *SubscriptionRepositorySuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *SubscriptionRepositorySuite) TestUpsert_ReplacesByEndpoint() {
	ctx := context.Background()

	sub := models.PushSubscription{UserID: "u1", Endpoint: "https://push.example/ep1", P256dh: "key1", Auth: "auth1"}
	s.Require().NoError(s.repo.Upsert(ctx, sub))

	// Re-subscribing from the same endpoint rotates keys instead of
	// duplicating the row.
	sub.P256dh = "key2"
	sub.Auth = "auth2"
	s.Require().NoError(s.repo.Upsert(ctx, sub))

	subs, err := s.repo.List(ctx)
	s.Require().NoError(err)
	s.Require().Len(subs, 1)
	s.Assert().Equal("key2", subs[0].P256dh)
}

func (s *SubscriptionRepositorySuite) TestDeleteByEndpoint() {
	ctx := context.Background()

	s.Require().NoError(s.repo.Upsert(ctx, models.PushSubscription{UserID: "u1", Endpoint: "https://push.example/ep1", P256dh: "k", Auth: "a"}))
	s.Require().NoError(s.repo.Upsert(ctx, models.PushSubscription{UserID: "u2", Endpoint: "https://push.example/ep2", P256dh: "k", Auth: "a"}))

	s.Require().NoError(s.repo.DeleteByEndpoint(ctx, "https://push.example/ep1"))

	subs, err := s.repo.List(ctx)
	s.Require().NoError(err)
	s.Require().Len(subs, 1)
	s.Assert().Equal("https://push.example/ep2", subs[0].Endpoint)
}

func TestSubscriptionRepositorySuite(t *testing.T) {
	suite.Run(t, new(SubscriptionRepositorySuite))
}
