package round

import (
	"fmt"
	"log/slog"

	"github.com/cardfold/mayi-go/internal/model"
	"github.com/cardfold/mayi-go/internal/services/deck"
)

// Service owns the round lifecycle: dealing, scoring a finished round,
// dealer rotation and game-end detection. Methods mutate the game they are
// handed; callers persist on success.
type Service struct {
	deck   *deck.Service
	logger *slog.Logger
}

// New creates a new round Service
func New(deckService *deck.Service, logger *slog.Logger) *Service {
	return &Service{
		deck:   deckService,
		logger: logger,
	}
}

// Result reports how a completed round left the game
type Result struct {
	Record model.RoundRecord
	// GameEnded is true after the final round; Winners is only set then
	GameEnded bool
	Winners   []model.PlayerID
	// NextRound and DealerIndex describe the fresh deal when the game goes on
	NextRound   int
	DealerIndex int
}

// Deal starts play for the game's current round number: fresh shuffled deck,
// CardsPerHand cards per seat, one card flipped to the discard, per-round
// player flags reset, and the seat left of the dealer to act first.
func (s *Service) Deal(game *model.Game) error {
	if _, err := model.ContractForRound(game.RoundNumber); err != nil {
		return err
	}

	cards, err := s.deck.NewShuffledDeck(game.PlayerCount())
	if err != nil {
		return err
	}
	dealt, err := s.deck.Deal(cards, game.PlayerCount())
	if err != nil {
		return err
	}

	for i := range game.Players {
		p := &game.Players[i]
		p.Hand = dealt.Hands[i]
		p.IsDown = false
		p.LaidDownThisTurn = false
		p.MayIUsed = 0
	}
	game.Melds = nil
	game.Stock = dealt.Stock
	game.Discard = dealt.Discard
	game.MayI = nil
	game.Phase = model.PhaseAwaitingDraw
	game.HasDrawn = false
	game.CurrentPlayerIndex = (game.DealerIndex + 1) % game.PlayerCount()
	game.ExpectedDeckSize = len(cards)

	s.logger.Info("round dealt",
		slog.String("game_id", string(game.ID)),
		slog.Int("round", game.RoundNumber),
		slog.Int("dealer_index", game.DealerIndex),
	)

	return nil
}

// Complete scores the round for the player who went out, appends the round
// record, and either deals the next round or ends the game after the final
// one. Scores are strictly additive: the winner scores zero and everyone
// else adds the points left in their hand.
func (s *Service) Complete(game *model.Game, winnerID model.PlayerID) (*Result, error) {
	if _, err := game.Player(winnerID); err != nil {
		return nil, err
	}

	scores := make(map[model.PlayerID]int, game.PlayerCount())
	for i := range game.Players {
		p := &game.Players[i]
		points := 0
		if p.ID != winnerID {
			points = model.HandPoints(p.Hand)
		}
		scores[p.ID] = points
		p.TotalScore += points
	}

	record := model.RoundRecord{
		RoundNumber: game.RoundNumber,
		Scores:      scores,
		WinnerID:    winnerID,
	}
	game.RoundRecords = append(game.RoundRecords, record)

	s.logger.Info("round complete",
		slog.String("game_id", string(game.ID)),
		slog.Int("round", game.RoundNumber),
		slog.String("winner_id", string(winnerID)),
	)

	if game.RoundNumber >= model.FinalRound {
		game.State = model.GameStateEnded
		game.MayI = nil
		return &Result{
			Record:    record,
			GameEnded: true,
			Winners:   game.Winners(),
		}, nil
	}

	game.DealerIndex = (game.DealerIndex + 1) % game.PlayerCount()
	game.RoundNumber++
	if err := s.Deal(game); err != nil {
		return nil, fmt.Errorf("dealing round %d: %w", game.RoundNumber, err)
	}

	return &Result{
		Record:      record,
		NextRound:   game.RoundNumber,
		DealerIndex: game.DealerIndex,
	}, nil
}
