package turn

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/cardfold/mayi-go/internal/model"
	"github.com/cardfold/mayi-go/internal/services/meld"
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
	s.service = New(meld.New(), testutil.NopLogger())
	s.game = testutil.NewGame("p1", "p2", "p3")
	s.game.Stock = testutil.ParseCards("3h 4h 5h 6h 7h")
	s.game.Discard = testutil.ParseCards("9c")
}

// player returns the seat state for an id, failing the test if absent
func (s *ServiceSuite) player(id model.PlayerID) *model.PlayerState {
	p, err := s.game.Player(id)
	s.Require().NoError(err)
	return p
}

// makeDrawn puts the game into the drawn phase for the current player
func (s *ServiceSuite) makeDrawn() {
	s.game.Phase = model.PhaseDrawn
	s.game.HasDrawn = true
}

// tableRun places a run on the table owned by the given player
func (s *ServiceSuite) tableRun(owner model.PlayerID, specs string) model.MeldID {
	m := model.Meld{
		ID:      model.MeldID("meld-" + specs),
		Type:    model.MeldRun,
		OwnerID: owner,
		Cards:   testutil.ParseCards(specs),
	}
	s.game.Melds = append(s.game.Melds, m)
	return m.ID
}

// tableSet places a set on the table owned by the given player
func (s *ServiceSuite) tableSet(owner model.PlayerID, specs string) model.MeldID {
	m := model.Meld{
		ID:      model.MeldID("meld-" + specs),
		Type:    model.MeldSet,
		OwnerID: owner,
		Cards:   testutil.ParseCards(specs),
	}
	s.game.Melds = append(s.game.Melds, m)
	return m.ID
}

// DrawFromStock tests

func (s *ServiceSuite) TestDrawFromStockSucceeds() {
	top := s.game.Stock[len(s.game.Stock)-1]

	out, err := s.service.DrawFromStock(s.game, "p1")
	s.Require().NoError(err)
	s.False(out.FromDiscard)

	s.Equal(model.PhaseDrawn, s.game.Phase)
	s.True(s.game.HasDrawn)
	s.Len(s.game.Stock, 4)
	_, inHand := s.player("p1").CardInHand(top.ID)
	s.True(inHand)
}

func (s *ServiceSuite) TestDrawFromStockNotYourTurn() {
	_, err := s.service.DrawFromStock(s.game, "p2")
	s.ErrorIs(err, model.ErrNotYourTurn)
}

func (s *ServiceSuite) TestDrawFromStockUnknownPlayer() {
	_, err := s.service.DrawFromStock(s.game, "nobody")
	s.ErrorIs(err, model.ErrPlayerNotInGame)
}

func (s *ServiceSuite) TestDrawFromStockTwiceRejected() {
	_, err := s.service.DrawFromStock(s.game, "p1")
	s.Require().NoError(err)

	_, err = s.service.DrawFromStock(s.game, "p1")
	s.ErrorIs(err, model.ErrIllegalCommandForPhase)
}

func (s *ServiceSuite) TestDrawFromStockEmpty() {
	s.game.Stock = nil
	_, err := s.service.DrawFromStock(s.game, "p1")
	s.ErrorIs(err, model.ErrStockEmpty)
}

func (s *ServiceSuite) TestDrawFromStockGameEnded() {
	s.game.State = model.GameStateEnded
	_, err := s.service.DrawFromStock(s.game, "p1")
	s.ErrorIs(err, model.ErrGameEnded)
}

// DrawFromDiscard tests

func (s *ServiceSuite) TestDrawFromDiscardSucceeds() {
	top, _ := s.game.TopDiscard()

	out, err := s.service.DrawFromDiscard(s.game, "p1")
	s.Require().NoError(err)
	s.True(out.FromDiscard)

	s.Empty(s.game.Discard)
	_, inHand := s.player("p1").CardInHand(top.ID)
	s.True(inHand)
}

func (s *ServiceSuite) TestDrawFromDiscardEmpty() {
	s.game.Discard = nil
	_, err := s.service.DrawFromDiscard(s.game, "p1")
	s.ErrorIs(err, model.ErrDiscardEmpty)
}

func (s *ServiceSuite) TestDrawFromDiscardFrozenByPendingMayI() {
	top, _ := s.game.TopDiscard()
	s.game.MayI = &model.MayIRequest{
		ID:          "mayi-1",
		CallerID:    "p3",
		DiscardCard: top,
		State:       model.MayIPending,
	}

	_, err := s.service.DrawFromDiscard(s.game, "p1")
	s.ErrorIs(err, model.ErrDiscardFrozen)
}

func (s *ServiceSuite) TestDrawFromDiscardResolvedMayIDoesNotFreeze() {
	top, _ := s.game.TopDiscard()
	s.game.MayI = &model.MayIRequest{
		ID:          "mayi-1",
		CallerID:    "p3",
		DiscardCard: top,
		State:       model.MayIResolved,
	}

	_, err := s.service.DrawFromDiscard(s.game, "p1")
	s.NoError(err)
}

// LayDown tests

func (s *ServiceSuite) layDownHand() (hand []model.Card, specs []model.MeldSpec) {
	// Round 1 contract: two sets
	setA := testutil.ParseCards("qh qd qs")
	setB := testutil.ParseCards("7h 7c 2d")
	spare := testutil.ParseCards("3c 8d 9s")
	hand = append(hand, setA...)
	hand = append(hand, setB...)
	hand = append(hand, spare...)
	specs = []model.MeldSpec{
		{Type: model.MeldSet, CardIDs: testutil.CardIDs(setA)},
		{Type: model.MeldSet, CardIDs: testutil.CardIDs(setB)},
	}
	return hand, specs
}

func (s *ServiceSuite) TestLayDownSucceeds() {
	hand, specs := s.layDownHand()
	s.player("p1").Hand = hand
	s.makeDrawn()

	out, err := s.service.LayDown(s.game, "p1", specs)
	s.Require().NoError(err)
	s.False(out.WentOut)

	p := s.player("p1")
	s.True(p.IsDown)
	s.True(p.LaidDownThisTurn)
	s.Equal(3, p.HandSize())
	s.Len(s.game.Melds, 2)
	for _, m := range s.game.Melds {
		s.Equal(model.PlayerID("p1"), m.OwnerID)
	}
	// Still the same player's turn; discard is still owed
	s.Equal(model.PhaseDrawn, s.game.Phase)
}

func (s *ServiceSuite) TestLayDownBeforeDrawRejected() {
	hand, specs := s.layDownHand()
	s.player("p1").Hand = hand

	_, err := s.service.LayDown(s.game, "p1", specs)
	s.ErrorIs(err, model.ErrIllegalCommandForPhase)
}

func (s *ServiceSuite) TestLayDownTwiceRejected() {
	hand, specs := s.layDownHand()
	s.player("p1").Hand = hand
	s.makeDrawn()

	_, err := s.service.LayDown(s.game, "p1", specs)
	s.Require().NoError(err)

	_, err = s.service.LayDown(s.game, "p1", specs)
	s.ErrorIs(err, model.ErrAlreadyDown)
}

func (s *ServiceSuite) TestLayDownWrongContractShape() {
	// Round 1 wants two sets; offer one set only
	setA := testutil.ParseCards("qh qd qs")
	s.player("p1").Hand = setA
	s.makeDrawn()

	_, err := s.service.LayDown(s.game, "p1", []model.MeldSpec{
		{Type: model.MeldSet, CardIDs: testutil.CardIDs(setA)},
	})
	s.ErrorIs(err, model.ErrContractNotMet)
}

func (s *ServiceSuite) TestLayDownRunForRoundTwo() {
	s.game.RoundNumber = 2
	set := testutil.ParseCards("qh qd qs")
	run := testutil.ParseCards("3h 4h 5h 6h")
	hand := append(append([]model.Card{}, set...), run...)
	hand = append(hand, testutil.ParseCard("9d"))
	s.player("p1").Hand = hand
	s.makeDrawn()

	_, err := s.service.LayDown(s.game, "p1", []model.MeldSpec{
		{Type: model.MeldSet, CardIDs: testutil.CardIDs(set)},
		{Type: model.MeldRun, CardIDs: testutil.CardIDs(run)},
	})
	s.NoError(err)
}

func (s *ServiceSuite) TestLayDownCardNotInHand() {
	hand, specs := s.layDownHand()
	s.player("p1").Hand = hand[1:] // drop the first set card
	s.makeDrawn()

	_, err := s.service.LayDown(s.game, "p1", specs)
	s.ErrorIs(err, model.ErrCardNotInHand)
}

func (s *ServiceSuite) TestLayDownCardReuseRejected() {
	set := testutil.ParseCards("qh qd qs")
	s.player("p1").Hand = set
	s.makeDrawn()

	ids := testutil.CardIDs(set)
	_, err := s.service.LayDown(s.game, "p1", []model.MeldSpec{
		{Type: model.MeldSet, CardIDs: ids},
		{Type: model.MeldSet, CardIDs: ids},
	})
	s.ErrorIs(err, model.ErrInvalidMeldComposition)
}

func (s *ServiceSuite) TestLayDownIllegalMeldLeavesStateUntouched() {
	set := testutil.ParseCards("qh qd qs")
	junk := testutil.ParseCards("3c 8d 9s")
	hand := append(append([]model.Card{}, set...), junk...)
	s.player("p1").Hand = hand
	s.makeDrawn()

	_, err := s.service.LayDown(s.game, "p1", []model.MeldSpec{
		{Type: model.MeldSet, CardIDs: testutil.CardIDs(set)},
		{Type: model.MeldSet, CardIDs: testutil.CardIDs(junk)},
	})
	s.ErrorIs(err, model.ErrInvalidMeldComposition)

	p := s.player("p1")
	s.False(p.IsDown)
	s.Equal(6, p.HandSize())
	s.Empty(s.game.Melds)
}

// LayOff tests

func (s *ServiceSuite) TestLayOffRunSucceeds() {
	meldID := s.tableRun("p2", "4h 5h 6h 7h")
	card := testutil.ParseCard("3h")
	p := s.player("p1")
	p.Hand = []model.Card{card, testutil.ParseCard("9d")}
	p.IsDown = true
	s.makeDrawn()

	out, err := s.service.LayOff(s.game, "p1", model.Placement{CardID: card.ID, MeldID: meldID})
	s.Require().NoError(err)
	s.False(out.WentOut)

	target, _ := s.game.Meld(meldID)
	s.Len(target.Cards, 5)
	s.Equal(card.ID, target.Cards[0].ID)
	s.Equal(1, p.HandSize())
}

func (s *ServiceSuite) TestLayOffOntoOthersMeldAllowed() {
	meldID := s.tableSet("p3", "qh qd qs")
	card := testutil.ParseCard("qc")
	p := s.player("p1")
	p.Hand = []model.Card{card, testutil.ParseCard("9d")}
	p.IsDown = true
	s.makeDrawn()

	_, err := s.service.LayOff(s.game, "p1", model.Placement{CardID: card.ID, MeldID: meldID})
	s.NoError(err)
}

func (s *ServiceSuite) TestLayOffNotDownRejected() {
	meldID := s.tableRun("p2", "4h 5h 6h 7h")
	card := testutil.ParseCard("3h")
	s.player("p1").Hand = []model.Card{card}
	s.makeDrawn()

	_, err := s.service.LayOff(s.game, "p1", model.Placement{CardID: card.ID, MeldID: meldID})
	s.ErrorIs(err, model.ErrNotDown)
}

func (s *ServiceSuite) TestLayOffWildAmbiguousEndSignalsChoice() {
	meldID := s.tableRun("p2", "4h 5h 6h 7h")
	wild := testutil.ParseCard("2d")
	p := s.player("p1")
	p.Hand = []model.Card{wild, testutil.ParseCard("9d")}
	p.IsDown = true
	s.makeDrawn()

	_, err := s.service.LayOff(s.game, "p1", model.Placement{CardID: wild.ID, MeldID: meldID})
	s.ErrorIs(err, model.ErrPositionChoiceRequired)

	// With an explicit position the same card is accepted
	_, err = s.service.LayOff(s.game, "p1", model.Placement{
		CardID: wild.ID, MeldID: meldID, Position: model.PositionHigh,
	})
	s.NoError(err)
}

func (s *ServiceSuite) TestLayOffLastCardGoesOut() {
	meldID := s.tableRun("p2", "4h 5h 6h 7h")
	card := testutil.ParseCard("3h")
	p := s.player("p1")
	p.Hand = []model.Card{card}
	p.IsDown = true
	s.makeDrawn()

	out, err := s.service.LayOff(s.game, "p1", model.Placement{CardID: card.ID, MeldID: meldID})
	s.Require().NoError(err)
	s.True(out.WentOut)
}

func (s *ServiceSuite) TestLayOffMeldNotFound() {
	card := testutil.ParseCard("3h")
	p := s.player("p1")
	p.Hand = []model.Card{card}
	p.IsDown = true
	s.makeDrawn()

	_, err := s.service.LayOff(s.game, "p1", model.Placement{CardID: card.ID, MeldID: "missing"})
	s.ErrorIs(err, model.ErrMeldNotFound)
}

// SwapJoker tests

func (s *ServiceSuite) TestSwapJokerSucceeds() {
	run := testutil.ParseCards("3h x 5h 6h")
	joker := run[1]
	m := model.Meld{ID: "run-1", Type: model.MeldRun, OwnerID: "p2", Cards: run}
	s.game.Melds = append(s.game.Melds, m)

	candidate := testutil.ParseCard("4h")
	p := s.player("p1")
	p.Hand = []model.Card{candidate, testutil.ParseCard("9d")}
	p.IsDown = true
	s.makeDrawn()

	_, err := s.service.SwapJoker(s.game, "p1", model.SwapJokerCommand{
		MeldID: "run-1", JokerID: joker.ID, CardID: candidate.ID,
	})
	s.Require().NoError(err)

	target, _ := s.game.Meld("run-1")
	s.Equal(candidate.ID, target.Cards[1].ID)
	_, jokerInHand := p.CardInHand(joker.ID)
	s.True(jokerInHand)
	s.Equal(2, p.HandSize())
}

func (s *ServiceSuite) TestSwapJokerFromSetRejected() {
	set := testutil.ParseCards("qh qd x")
	m := model.Meld{ID: "set-1", Type: model.MeldSet, OwnerID: "p2", Cards: set}
	s.game.Melds = append(s.game.Melds, m)

	candidate := testutil.ParseCard("qc")
	p := s.player("p1")
	p.Hand = []model.Card{candidate}
	p.IsDown = true
	s.makeDrawn()

	_, err := s.service.SwapJoker(s.game, "p1", model.SwapJokerCommand{
		MeldID: "set-1", JokerID: set[2].ID, CardID: candidate.ID,
	})
	s.ErrorIs(err, model.ErrCardNotEligible)
}

// Discard tests

func (s *ServiceSuite) TestDiscardEndsTurn() {
	cards := testutil.ParseCards("3c 8d")
	s.player("p1").Hand = cards
	s.makeDrawn()

	out, err := s.service.Discard(s.game, "p1", cards[0].ID)
	s.Require().NoError(err)
	s.True(out.TurnEnded)
	s.False(out.WentOut)

	s.Equal(1, s.game.CurrentPlayerIndex)
	s.Equal(model.PhaseAwaitingDraw, s.game.Phase)
	s.False(s.game.HasDrawn)
	top, _ := s.game.TopDiscard()
	s.Equal(cards[0].ID, top.ID)
}

func (s *ServiceSuite) TestDiscardWrapsToFirstSeat() {
	s.game.CurrentPlayerIndex = 2
	cards := testutil.ParseCards("3c 8d")
	s.player("p3").Hand = cards
	s.makeDrawn()

	_, err := s.service.Discard(s.game, "p3", cards[0].ID)
	s.Require().NoError(err)
	s.Equal(0, s.game.CurrentPlayerIndex)
}

func (s *ServiceSuite) TestDiscardLastCardGoesOut() {
	card := testutil.ParseCard("3c")
	s.player("p1").Hand = []model.Card{card}
	s.makeDrawn()

	out, err := s.service.Discard(s.game, "p1", card.ID)
	s.Require().NoError(err)
	s.True(out.WentOut)
}

func (s *ServiceSuite) TestDiscardLastCardFinalRoundRejected() {
	s.game.RoundNumber = model.FinalRound
	card := testutil.ParseCard("3c")
	s.player("p1").Hand = []model.Card{card}
	s.makeDrawn()

	_, err := s.service.Discard(s.game, "p1", card.ID)
	s.ErrorIs(err, model.ErrHandNotEmptyForGoOut)
	s.Equal(1, s.player("p1").HandSize())
}

func (s *ServiceSuite) TestDiscardCardNotInHand() {
	s.player("p1").Hand = testutil.ParseCards("3c")
	s.makeDrawn()

	_, err := s.service.Discard(s.game, "p1", "missing")
	s.ErrorIs(err, model.ErrCardNotInHand)
}

// GoOut tests

func (s *ServiceSuite) TestGoOutAtomicBatchSucceeds() {
	runID := s.tableRun("p2", "5h 6h 7h 8h")
	low := testutil.ParseCard("4h")
	lower := testutil.ParseCard("3h")
	p := s.player("p1")
	p.Hand = []model.Card{low, lower}
	p.IsDown = true
	s.makeDrawn()

	// The second placement is only legal against the effective meld that
	// includes the first.
	out, err := s.service.GoOut(s.game, "p1", []model.Placement{
		{CardID: low.ID, MeldID: runID},
		{CardID: lower.ID, MeldID: runID},
	})
	s.Require().NoError(err)
	s.True(out.WentOut)

	target, _ := s.game.Meld(runID)
	s.Len(target.Cards, 6)
	s.Equal(lower.ID, target.Cards[0].ID)
	s.Equal(low.ID, target.Cards[1].ID)
	s.Equal(0, p.HandSize())
}

func (s *ServiceSuite) TestGoOutRejectedBatchLeavesStateUntouched() {
	runID := s.tableRun("p2", "5h 6h 7h 8h")
	low := testutil.ParseCard("4h")
	junk := testutil.ParseCard("9c")
	p := s.player("p1")
	p.Hand = []model.Card{low, junk}
	p.IsDown = true
	s.makeDrawn()

	_, err := s.service.GoOut(s.game, "p1", []model.Placement{
		{CardID: low.ID, MeldID: runID},
		{CardID: junk.ID, MeldID: runID},
	})
	s.ErrorIs(err, model.ErrCardNotEligible)

	target, _ := s.game.Meld(runID)
	s.Len(target.Cards, 4)
	s.Equal(2, p.HandSize())
}

func (s *ServiceSuite) TestGoOutMustCoverWholeHand() {
	runID := s.tableRun("p2", "5h 6h 7h 8h")
	low := testutil.ParseCard("4h")
	p := s.player("p1")
	p.Hand = []model.Card{low, testutil.ParseCard("9c")}
	p.IsDown = true
	s.makeDrawn()

	_, err := s.service.GoOut(s.game, "p1", []model.Placement{
		{CardID: low.ID, MeldID: runID},
	})
	s.ErrorIs(err, model.ErrHandNotEmptyForGoOut)
}

func (s *ServiceSuite) TestGoOutNotDownRejected() {
	runID := s.tableRun("p2", "5h 6h 7h 8h")
	low := testutil.ParseCard("4h")
	s.player("p1").Hand = []model.Card{low}
	s.makeDrawn()

	_, err := s.service.GoOut(s.game, "p1", []model.Placement{
		{CardID: low.ID, MeldID: runID},
	})
	s.ErrorIs(err, model.ErrNotDown)
}

// ReorderHand tests

func (s *ServiceSuite) TestReorderHandSucceeds() {
	cards := testutil.ParseCards("3c 8d 9s")
	s.player("p1").Hand = cards

	order := []model.CardID{cards[2].ID, cards[0].ID, cards[1].ID}
	_, err := s.service.ReorderHand(s.game, "p1", order)
	s.Require().NoError(err)

	p := s.player("p1")
	s.Equal(cards[2].ID, p.Hand[0].ID)
	s.Equal(cards[0].ID, p.Hand[1].ID)
	s.Equal(cards[1].ID, p.Hand[2].ID)
}

func (s *ServiceSuite) TestReorderHandAllowedOffTurn() {
	cards := testutil.ParseCards("3c 8d")
	s.player("p2").Hand = cards

	order := []model.CardID{cards[1].ID, cards[0].ID}
	_, err := s.service.ReorderHand(s.game, "p2", order)
	s.NoError(err)
}

func (s *ServiceSuite) TestReorderHandNotAPermutation() {
	cards := testutil.ParseCards("3c 8d")
	s.player("p1").Hand = cards

	_, err := s.service.ReorderHand(s.game, "p1", []model.CardID{cards[0].ID, "other"})
	s.ErrorIs(err, model.ErrInvalidHandOrder)
}

func (s *ServiceSuite) TestReorderHandWrongLength() {
	cards := testutil.ParseCards("3c 8d")
	s.player("p1").Hand = cards

	_, err := s.service.ReorderHand(s.game, "p1", []model.CardID{cards[0].ID})
	s.ErrorIs(err, model.ErrInvalidHandOrder)
}

func (s *ServiceSuite) TestReorderHandDuplicateIDRejected() {
	cards := testutil.ParseCards("3c 8d")
	s.player("p1").Hand = cards

	_, err := s.service.ReorderHand(s.game, "p1", []model.CardID{cards[0].ID, cards[0].ID})
	s.ErrorIs(err, model.ErrInvalidHandOrder)
}
