package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/cardfold/mayi-go/internal/model"
	"github.com/cardfold/mayi-go/internal/testutil"
)

type StorageSuite struct {
	suite.Suite
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.storage = New()
	s.ctx = context.Background()
}

func (s *StorageSuite) TestSaveAndGetGame() {
	game := testutil.NewGame("p1", "p2")
	game.Players[0].Hand = testutil.ParseCards("3c 8d")

	err := s.storage.SaveGame(s.ctx, game)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetGame(s.ctx, game.ID)
	s.Require().NoError(err)
	s.Equal(game.ID, retrieved.ID)
	s.Equal(2, retrieved.Players[0].HandSize())
}

func (s *StorageSuite) TestGetGameNotFound() {
	_, err := s.storage.GetGame(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *StorageSuite) TestSaveStoresACopy() {
	game := testutil.NewGame("p1", "p2")
	err := s.storage.SaveGame(s.ctx, game)
	s.Require().NoError(err)

	// Mutating the caller's pointer must not reach the stored snapshot
	game.RoundNumber = 5

	retrieved, err := s.storage.GetGame(s.ctx, game.ID)
	s.Require().NoError(err)
	s.Equal(model.FirstRound, retrieved.RoundNumber)
}

func (s *StorageSuite) TestGetReturnsACopy() {
	game := testutil.NewGame("p1", "p2")
	_ = s.storage.SaveGame(s.ctx, game)

	first, _ := s.storage.GetGame(s.ctx, game.ID)
	first.RoundNumber = 5

	second, _ := s.storage.GetGame(s.ctx, game.ID)
	s.Equal(model.FirstRound, second.RoundNumber)
}

func (s *StorageSuite) TestDeleteGame() {
	game := testutil.NewGame("p1", "p2")
	_ = s.storage.SaveGame(s.ctx, game)

	err := s.storage.DeleteGame(s.ctx, game.ID)
	s.Require().NoError(err)

	_, err = s.storage.GetGame(s.ctx, game.ID)
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *StorageSuite) TestDeleteNonexistentGameIsNoOp() {
	err := s.storage.DeleteGame(s.ctx, "nonexistent")
	s.NoError(err)
}

func (s *StorageSuite) TestListGameIDs() {
	a := testutil.NewGame("p1", "p2")
	a.ID = "game-a"
	b := testutil.NewGame("p3", "p4")
	b.ID = "game-b"
	_ = s.storage.SaveGame(s.ctx, a)
	_ = s.storage.SaveGame(s.ctx, b)

	ids, err := s.storage.ListGameIDs(s.ctx)
	s.Require().NoError(err)
	s.ElementsMatch([]model.GameID{"game-a", "game-b"}, ids)
}

func (s *StorageSuite) TestListGameIDsEmpty() {
	ids, err := s.storage.ListGameIDs(s.ctx)
	s.Require().NoError(err)
	s.Empty(ids)
}
