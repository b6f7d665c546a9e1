package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case Game:
		o.printGame(v)
	case View:
		o.printView(v)
	case CommandResult:
		o.printCommandResult(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Card response type (matches API)
type Card struct {
	ID   string `json:"id"`
	Rank string `json:"rank"`
	Suit string `json:"suit,omitempty"`
}

// Meld response type
type Meld struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	OwnerID string `json:"owner_id"`
	Cards   []Card `json:"cards"`
}

// Contract response type
type Contract struct {
	Sets int `json:"sets"`
	Runs int `json:"runs"`
}

// PlayerSummary response type
type PlayerSummary struct {
	ID            string `json:"id"`
	HandSize      int    `json:"hand_size"`
	IsDown        bool   `json:"is_down"`
	TotalScore    int    `json:"total_score"`
	MayIRemaining int    `json:"may_i_remaining"`
	IsCurrent     bool   `json:"is_current"`
	IsDealer      bool   `json:"is_dealer"`
}

// RoundRecord response type
type RoundRecord struct {
	RoundNumber int            `json:"round_number"`
	Scores      map[string]int `json:"scores"`
	WinnerID    string         `json:"winner_id"`
}

// Game is the public game summary
type Game struct {
	ID              string          `json:"id"`
	State           string          `json:"state"`
	RoundNumber     int             `json:"round_number"`
	Contract        Contract        `json:"contract"`
	Phase           string          `json:"phase"`
	Players         []PlayerSummary `json:"players"`
	Melds           []Meld          `json:"melds"`
	StockCount      int             `json:"stock_count"`
	DiscardCount    int             `json:"discard_count"`
	TopDiscard      *Card           `json:"top_discard,omitempty"`
	CurrentPlayerID string          `json:"current_player_id"`
	DealerID        string          `json:"dealer_id"`
	MayIPending     bool            `json:"may_i_pending"`
	RoundRecords    []RoundRecord   `json:"round_records"`
	Winners         []string        `json:"winners,omitempty"`
}

// MayIView response type
type MayIView struct {
	ID          string   `json:"id"`
	CallerID    string   `json:"caller_id"`
	DiscardCard Card     `json:"discard_card"`
	Pending     bool     `json:"pending"`
	WinnerID    string   `json:"winner_id,omitempty"`
	Responded   []string `json:"responded"`
}

// Availability response type
type Availability struct {
	CanDrawFromStock   bool              `json:"can_draw_from_stock"`
	CanDrawFromDiscard bool              `json:"can_draw_from_discard"`
	CanLayDown         bool              `json:"can_lay_down"`
	CanLayOff          bool              `json:"can_lay_off"`
	CanSwapJoker       bool              `json:"can_swap_joker"`
	CanDiscard         bool              `json:"can_discard"`
	CanMayI            bool              `json:"can_may_i"`
	CanAllowMayI       bool              `json:"can_allow_may_i"`
	CanClaimMayI       bool              `json:"can_claim_may_i"`
	CanReorderHand     bool              `json:"can_reorder_hand"`
	Reasons            map[string]string `json:"reasons"`
}

// View is one player's view of the table
type View struct {
	GameID          string          `json:"game_id"`
	State           string          `json:"state"`
	RoundNumber     int             `json:"round_number"`
	Contract        Contract        `json:"contract"`
	ViewerID        string          `json:"viewer_id"`
	Hand            []Card          `json:"hand"`
	Players         []PlayerSummary `json:"players"`
	Melds           []Meld          `json:"melds"`
	StockCount      int             `json:"stock_count"`
	DiscardCount    int             `json:"discard_count"`
	TopDiscard      *Card           `json:"top_discard,omitempty"`
	CurrentPlayerID string          `json:"current_player_id"`
	DealerID        string          `json:"dealer_id"`
	Phase           string          `json:"phase"`
	MayI            *MayIView       `json:"may_i,omitempty"`
	RoundRecords    []RoundRecord   `json:"round_records"`
	Winners         []string        `json:"winners,omitempty"`
	Availability    Availability    `json:"availability"`
}

// Event response type
type Event struct {
	Type     string `json:"type"`
	GameID   string `json:"game_id"`
	PlayerID string `json:"player_id,omitempty"`
	Payload  any    `json:"payload,omitempty"`
}

// CommandResult is returned after a command: events plus the refreshed view
type CommandResult struct {
	Events []Event `json:"events"`
	View   *View   `json:"view"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

// shortCard renders a card compactly: "Kd", "10s", "Joker"
func shortCard(c Card) string {
	if c.Rank == "Joker" || c.Suit == "" {
		return c.Rank
	}
	return c.Rank + strings.ToLower(c.Suit[:1])
}

func shortCards(cards []Card) string {
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = shortCard(c)
	}
	return strings.Join(parts, " ")
}

func contractString(c Contract) string {
	parts := []string{}
	if c.Sets > 0 {
		parts = append(parts, fmt.Sprintf("%d set(s)", c.Sets))
	}
	if c.Runs > 0 {
		parts = append(parts, fmt.Sprintf("%d run(s)", c.Runs))
	}
	return strings.Join(parts, " + ")
}

func (o *Output) printGame(g Game) {
	fmt.Printf("Game: %s\n", g.ID)
	fmt.Printf("State: %s\n", g.State)
	fmt.Printf("Round: %d (%s)\n", g.RoundNumber, contractString(g.Contract))
	fmt.Printf("Phase: %s\n", g.Phase)
	fmt.Printf("Stock: %d cards, discard: %d cards\n", g.StockCount, g.DiscardCount)
	if g.TopDiscard != nil {
		fmt.Printf("Top discard: %s\n", shortCard(*g.TopDiscard))
	}
	if g.MayIPending {
		fmt.Println("May I pending!")
	}

	fmt.Printf("Players (%d):\n", len(g.Players))
	for _, p := range g.Players {
		o.printPlayerLine(p)
	}

	o.printMelds(g.Melds)
	o.printRoundRecords(g.RoundRecords)
	o.printWinners(g.Winners)
}

func (o *Output) printView(v View) {
	fmt.Printf("Game: %s (round %d, %s)\n", v.GameID, v.RoundNumber, contractString(v.Contract))
	fmt.Printf("Phase: %s, current player: %s\n", v.Phase, v.CurrentPlayerID)
	fmt.Printf("Stock: %d cards, discard: %d cards\n", v.StockCount, v.DiscardCount)
	if v.TopDiscard != nil {
		fmt.Printf("Top discard: %s\n", shortCard(*v.TopDiscard))
	}

	fmt.Printf("\nYour hand (%d):\n", len(v.Hand))
	for _, c := range v.Hand {
		fmt.Printf("  %-6s %s\n", shortCard(c), c.ID)
	}

	fmt.Printf("\nPlayers (%d):\n", len(v.Players))
	for _, p := range v.Players {
		o.printPlayerLine(p)
	}

	o.printMelds(v.Melds)

	if v.MayI != nil && v.MayI.Pending {
		fmt.Printf("\nMay I pending: %s wants %s (responded: %s)\n",
			v.MayI.CallerID, shortCard(v.MayI.DiscardCard), strings.Join(v.MayI.Responded, ", "))
	}

	o.printAvailability(v.Availability)
	o.printRoundRecords(v.RoundRecords)
	o.printWinners(v.Winners)
}

func (o *Output) printPlayerLine(p PlayerSummary) {
	markers := ""
	if p.IsCurrent {
		markers += " [turn]"
	}
	if p.IsDealer {
		markers += " [dealer]"
	}
	down := ""
	if p.IsDown {
		down = ", down"
	}
	fmt.Printf("  - %s: %d cards, %d points, %d May I left%s%s\n",
		p.ID, p.HandSize, p.TotalScore, p.MayIRemaining, down, markers)
}

func (o *Output) printMelds(melds []Meld) {
	if len(melds) == 0 {
		return
	}
	fmt.Printf("\nTable melds (%d):\n", len(melds))
	for _, m := range melds {
		fmt.Printf("  [%s] %s by %s: %s\n", m.ID, m.Type, m.OwnerID, shortCards(m.Cards))
	}
}

func (o *Output) printAvailability(a Availability) {
	available := []string{}
	if a.CanDrawFromStock {
		available = append(available, "draw-stock")
	}
	if a.CanDrawFromDiscard {
		available = append(available, "draw-discard")
	}
	if a.CanLayDown {
		available = append(available, "laydown")
	}
	if a.CanLayOff {
		available = append(available, "layoff")
	}
	if a.CanSwapJoker {
		available = append(available, "swap")
	}
	if a.CanDiscard {
		available = append(available, "discard")
	}
	if a.CanMayI {
		available = append(available, "call")
	}
	if a.CanAllowMayI {
		available = append(available, "respond-allow")
	}
	if a.CanClaimMayI {
		available = append(available, "respond-claim")
	}
	if a.CanReorderHand {
		available = append(available, "reorder")
	}

	if len(available) > 0 {
		fmt.Printf("\nAvailable: %s\n", strings.Join(available, ", "))
	}

	if cfg.Verbose && len(a.Reasons) > 0 {
		keys := make([]string, 0, len(a.Reasons))
		for k := range a.Reasons {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		fmt.Println("Blocked:")
		for _, k := range keys {
			fmt.Printf("  %s: %s\n", k, a.Reasons[k])
		}
	}
}

func (o *Output) printRoundRecords(records []RoundRecord) {
	if len(records) == 0 {
		return
	}
	fmt.Println("\nRounds played:")
	for _, r := range records {
		scores := make([]string, 0, len(r.Scores))
		ids := make([]string, 0, len(r.Scores))
		for id := range r.Scores {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			scores = append(scores, fmt.Sprintf("%s=%d", id, r.Scores[id]))
		}
		fmt.Printf("  Round %d: won by %s (%s)\n", r.RoundNumber, r.WinnerID, strings.Join(scores, ", "))
	}
}

func (o *Output) printWinners(winners []string) {
	if len(winners) == 0 {
		return
	}
	fmt.Printf("\nWinner(s): %s\n", strings.Join(winners, ", "))
}

func (o *Output) printCommandResult(r CommandResult) {
	for _, e := range r.Events {
		fmt.Printf("* %s\n", e.Type)
	}
	if r.View != nil {
		fmt.Println()
		o.printView(*r.View)
	}
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
}
