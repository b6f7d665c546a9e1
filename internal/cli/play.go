package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newPlayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Turn commands",
	}

	cmd.AddCommand(newPlayDrawCmd())
	cmd.AddCommand(newPlayLayDownCmd())
	cmd.AddCommand(newPlayLayOffCmd())
	cmd.AddCommand(newPlaySwapCmd())
	cmd.AddCommand(newPlayDiscardCmd())
	cmd.AddCommand(newPlayGoOutCmd())
	cmd.AddCommand(newPlayReorderCmd())

	return cmd
}

// applyCommand posts a command envelope and prints the result
func applyCommand(gameID string, body map[string]any) error {
	player, err := requirePlayer()
	if err != nil {
		return err
	}
	body["player_id"] = player

	var result CommandResult
	if err := client.Post(fmt.Sprintf("/api/v1/games/%s/commands", gameID), body, &result); err != nil {
		return err
	}

	out := NewOutput(cfg.Output)
	out.Print(result)
	return nil
}

func newPlayDrawCmd() *cobra.Command {
	var fromDiscard bool

	cmd := &cobra.Command{
		Use:   "draw <game-id>",
		Short: "Draw the top card of the stock (or the discard pile)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind := "draw_from_stock"
			if fromDiscard {
				kind = "draw_from_discard"
			}
			return applyCommand(args[0], map[string]any{"kind": kind})
		},
	}

	cmd.Flags().BoolVar(&fromDiscard, "discard", false, "Draw from the discard pile instead of the stock")

	return cmd
}

func newPlayLayDownCmd() *cobra.Command {
	var sets []string
	var runs []string

	cmd := &cobra.Command{
		Use:   "laydown <game-id>",
		Short: "Lay down this round's contract",
		Long: `Lay down the round contract in one shot.

Each --set and --run takes a comma-separated list of card IDs from your
hand; run cards must be in low-to-high order. The melds must match the
round contract exactly.

Example:
  mayi play laydown GAME1 --set c1,c2,c3 --set c4,c5,c6`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			melds := []map[string]any{}
			for _, s := range sets {
				melds = append(melds, map[string]any{"type": "set", "card_ids": splitIDs(s)})
			}
			for _, r := range runs {
				melds = append(melds, map[string]any{"type": "run", "card_ids": splitIDs(r)})
			}
			if len(melds) == 0 {
				return fmt.Errorf("at least one --set or --run is required")
			}
			return applyCommand(args[0], map[string]any{"kind": "lay_down", "melds": melds})
		},
	}

	cmd.Flags().StringArrayVar(&sets, "set", nil, "Card IDs for one set, comma-separated (repeatable)")
	cmd.Flags().StringArrayVar(&runs, "run", nil, "Card IDs for one run, low to high, comma-separated (repeatable)")

	return cmd
}

func newPlayLayOffCmd() *cobra.Command {
	var position string

	cmd := &cobra.Command{
		Use:   "layoff <game-id> <meld-id> <card-id>",
		Short: "Add one card from your hand to a table meld",
		Long: `Add one card to an existing meld. For runs, a wild card that fits both
ends needs an explicit --position low or --position high.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			placement := map[string]any{
				"meld_id": args[1],
				"card_id": args[2],
			}
			if position != "" {
				placement["position"] = position
			}
			return applyCommand(args[0], map[string]any{"kind": "lay_off", "placement": placement})
		},
	}

	cmd.Flags().StringVar(&position, "position", "", "Run end to extend: low or high")

	return cmd
}

func newPlaySwapCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "swap <game-id> <meld-id> <joker-id> <card-id>",
		Short: "Trade the matching natural card for a joker in a run",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			return applyCommand(args[0], map[string]any{
				"kind":     "swap_joker",
				"meld_id":  args[1],
				"joker_id": args[2],
				"card_id":  args[3],
			})
		},
	}
}

func newPlayDiscardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "discard <game-id> <card-id>",
		Short: "Discard one card, ending your turn",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return applyCommand(args[0], map[string]any{"kind": "discard", "card_id": args[1]})
		},
	}
}

func newPlayGoOutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "goout <game-id> <card-id>:<meld-id>[:low|high]...",
		Short: "Lay off every remaining card in one atomic batch",
		Long: `Go out by laying off every card left in your hand at once. Each
argument places one card: card-id, the target meld-id, and optionally
the run end, separated by colons.

Example:
  mayi play goout GAME1 c7:m1 c9:m2:high`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			placements := []map[string]any{}
			for _, arg := range args[1:] {
				parts := strings.Split(arg, ":")
				if len(parts) < 2 || len(parts) > 3 {
					return fmt.Errorf("invalid placement %q: want card-id:meld-id[:low|high]", arg)
				}
				placement := map[string]any{
					"card_id": parts[0],
					"meld_id": parts[1],
				}
				if len(parts) == 3 {
					placement["position"] = parts[2]
				}
				placements = append(placements, placement)
			}
			return applyCommand(args[0], map[string]any{"kind": "go_out", "placements": placements})
		},
	}
}

func newPlayReorderCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reorder <game-id> <card-id>...",
		Short: "Rearrange your hand; legal at any time",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return applyCommand(args[0], map[string]any{"kind": "reorder_hand", "order": args[1:]})
		},
	}
}

func newCallCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "call <game-id>",
		Short: "Call May I on the top discard, out of turn",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return applyCommand(args[0], map[string]any{"kind": "call_may_i"})
		},
	}
}

func newRespondCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "respond <game-id> <allow|claim>",
		Short: "Answer a pending May I request",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			decision := args[1]
			if decision != "allow" && decision != "claim" {
				return fmt.Errorf("decision must be allow or claim")
			}
			return applyCommand(args[0], map[string]any{"kind": "respond_may_i", "decision": decision})
		},
	}
}

func splitIDs(s string) []string {
	parts := strings.Split(s, ",")
	ids := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			ids = append(ids, trimmed)
		}
	}
	return ids
}
