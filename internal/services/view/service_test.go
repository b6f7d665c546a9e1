package view

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/cardfold/mayi-go/internal/model"
	"github.com/cardfold/mayi-go/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	service *Service
	game    *model.Game
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.service = New()
	s.game = testutil.NewGame("p1", "p2", "p3")
	s.game.Stock = testutil.ParseCards("3h 4h 5h")
	s.game.Discard = testutil.ParseCards("9c")
	for i := range s.game.Players {
		s.game.Players[i].Hand = testutil.ParseCards("3c 8d 9s")
	}
}

func (s *ServiceSuite) player(id model.PlayerID) *model.PlayerState {
	p, err := s.game.Player(id)
	s.Require().NoError(err)
	return p
}

// Project tests

func (s *ServiceSuite) TestProjectShowsOwnHandOnly() {
	pv, err := s.service.Project(s.game, "p2")
	s.Require().NoError(err)

	s.Equal(model.PlayerID("p2"), pv.ViewerID)
	s.Len(pv.Hand, 3)
	s.Equal(s.player("p2").Hand[0].ID, pv.Hand[0].ID)

	for _, summary := range pv.Players {
		s.Equal(3, summary.HandSize)
	}
}

func (s *ServiceSuite) TestProjectTableState() {
	pv, err := s.service.Project(s.game, "p1")
	s.Require().NoError(err)

	s.Equal(3, pv.StockCount)
	s.Equal(1, pv.DiscardCount)
	s.Require().NotNil(pv.TopDiscard)
	top, _ := s.game.TopDiscard()
	s.Equal(top.ID, pv.TopDiscard.ID)
	s.Equal(model.PlayerID("p1"), pv.CurrentPlayerID)
	s.Equal(model.PlayerID("p3"), pv.DealerID)
	s.Equal(model.Contract{Sets: 2, Runs: 0}, pv.Contract)
}

func (s *ServiceSuite) TestProjectUnknownViewer() {
	_, err := s.service.Project(s.game, "nobody")
	s.ErrorIs(err, model.ErrPlayerNotInGame)
}

func (s *ServiceSuite) TestProjectMayIState() {
	top, _ := s.game.TopDiscard()
	s.game.MayI = &model.MayIRequest{
		ID:          "mayi-1",
		CallerID:    "p2",
		DiscardCard: top,
		State:       model.MayIPending,
		Responses:   []model.MayIResponse{{PlayerID: "p3", Decision: model.MayIAllow}},
	}

	pv, err := s.service.Project(s.game, "p1")
	s.Require().NoError(err)
	s.Require().NotNil(pv.MayI)
	s.True(pv.MayI.Pending)
	s.Equal(model.PlayerID("p2"), pv.MayI.CallerID)
	s.Equal([]model.PlayerID{"p3"}, pv.MayI.Responded)
}

func (s *ServiceSuite) TestProjectEndedGameHasWinners() {
	s.game.State = model.GameStateEnded
	s.player("p1").TotalScore = 12
	s.player("p2").TotalScore = 40
	s.player("p3").TotalScore = 55

	pv, err := s.service.Project(s.game, "p1")
	s.Require().NoError(err)
	s.Equal([]model.PlayerID{"p1"}, pv.Winners)
}

func (s *ServiceSuite) TestProjectHandIsACopy() {
	pv, err := s.service.Project(s.game, "p1")
	s.Require().NoError(err)

	pv.Hand[0] = testutil.ParseCard("as")
	s.NotEqual(pv.Hand[0].ID, s.player("p1").Hand[0].ID)
}

// Availability tests

func (s *ServiceSuite) TestAvailabilityCurrentPlayerAwaitingDraw() {
	a := s.service.Availability(s.game, "p1")

	s.True(a.CanDrawFromStock)
	s.True(a.CanDrawFromDiscard)
	s.True(a.CanReorderHand)
	s.False(a.CanLayDown)
	s.False(a.CanDiscard)
	s.False(a.CanMayI)
	s.Contains(a.Reasons[model.CmdLayDown], "draw")
	s.Contains(a.Reasons[model.CmdCallMayI], "turn holder")
}

func (s *ServiceSuite) TestAvailabilityCurrentPlayerDrawn() {
	s.game.Phase = model.PhaseDrawn
	s.game.HasDrawn = true

	a := s.service.Availability(s.game, "p1")

	s.False(a.CanDrawFromStock)
	s.True(a.CanLayDown)
	s.True(a.CanDiscard)
	s.False(a.CanLayOff)
	s.Contains(a.Reasons[model.CmdLayOff], "lay down")
}

func (s *ServiceSuite) TestAvailabilityDownPlayerCanLayOff() {
	s.game.Phase = model.PhaseDrawn
	s.player("p1").IsDown = true
	s.game.Melds = []model.Meld{{
		ID: "run-1", Type: model.MeldRun, OwnerID: "p2",
		Cards: testutil.ParseCards("4h 5h 6h 7h"),
	}}

	a := s.service.Availability(s.game, "p1")

	s.True(a.CanLayOff)
	s.False(a.CanLayDown)
	s.Contains(a.Reasons[model.CmdLayDown], "already laid down")
	s.False(a.CanSwapJoker)
	s.Contains(a.Reasons[model.CmdSwapJoker], "joker")
}

func (s *ServiceSuite) TestAvailabilitySwapJokerNeedsJokerInRun() {
	s.game.Phase = model.PhaseDrawn
	s.player("p1").IsDown = true
	s.game.Melds = []model.Meld{{
		ID: "run-1", Type: model.MeldRun, OwnerID: "p2",
		Cards: testutil.ParseCards("4h x 6h 7h"),
	}}

	a := s.service.Availability(s.game, "p1")
	s.True(a.CanSwapJoker)
}

func (s *ServiceSuite) TestAvailabilityNonTurnPlayerCanMayI() {
	a := s.service.Availability(s.game, "p2")

	s.False(a.CanDrawFromStock)
	s.Contains(a.Reasons[model.CmdDrawFromStock], "not your turn")
	s.True(a.CanMayI)
	s.True(a.CanReorderHand)
	s.False(a.CanAllowMayI)
	s.Contains(a.Reasons[model.CmdRespondMayI], "no May I request")
}

func (s *ServiceSuite) TestAvailabilityMayIBudgetSpent() {
	s.player("p2").MayIUsed = model.MayIBudgetPerRound

	a := s.service.Availability(s.game, "p2")
	s.False(a.CanMayI)
	s.Contains(a.Reasons[model.CmdCallMayI], "no May I uses left")
}

func (s *ServiceSuite) TestAvailabilityPendingMayIResponses() {
	top, _ := s.game.TopDiscard()
	s.game.MayI = &model.MayIRequest{
		ID: "mayi-1", CallerID: "p2", DiscardCard: top, State: model.MayIPending,
	}

	// The caller cannot respond to their own request
	caller := s.service.Availability(s.game, "p2")
	s.False(caller.CanAllowMayI)
	s.False(caller.CanClaimMayI)

	// Another non-turn player may allow or claim
	other := s.service.Availability(s.game, "p3")
	s.True(other.CanAllowMayI)
	s.True(other.CanClaimMayI)

	// The frozen card blocks the holder's normal discard draw, so the
	// holder may allow or claim like anyone else
	holder := s.service.Availability(s.game, "p1")
	s.True(holder.CanAllowMayI)
	s.True(holder.CanClaimMayI)
	s.False(holder.CanDrawFromDiscard)
	s.Contains(holder.Reasons[model.CmdDrawFromDiscard], "frozen")
}

func (s *ServiceSuite) TestAvailabilityFinalRoundLastCardDiscardBlocked() {
	s.game.RoundNumber = model.FinalRound
	s.game.Phase = model.PhaseDrawn
	s.player("p1").Hand = testutil.ParseCards("3c")

	a := s.service.Availability(s.game, "p1")
	s.False(a.CanDiscard)
	s.Contains(a.Reasons[model.CmdDiscard], "final round")
}

func (s *ServiceSuite) TestAvailabilityGameEnded() {
	s.game.State = model.GameStateEnded

	a := s.service.Availability(s.game, "p1")
	s.False(a.CanReorderHand)
	s.False(a.CanDrawFromStock)
	s.Contains(a.Reasons[model.CmdDrawFromStock], "ended")
}
