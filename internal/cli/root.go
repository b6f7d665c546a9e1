package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	cfg    *Config
	client *Client
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cfg = DefaultConfig()

	rootCmd := &cobra.Command{
		Use:   "mayi",
		Short: "CLI tool for the May I game API",
		Long: `mayi is a CLI tool for playing May I rummy over the JSON API.

It supports creating games, inspecting your view of the table, playing
turns (draw, lay down, lay off, discard), calling May I out of turn, and
streaming live game events over SSE.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			client = NewClient(cfg.ServerURL)
			return nil
		},
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfg.ServerURL, "server", cfg.ServerURL, "Server URL (env: MAYI_SERVER)")
	rootCmd.PersistentFlags().StringVarP(&cfg.Player, "player", "p", cfg.Player, "Player ID acting on commands (env: MAYI_PLAYER)")
	rootCmd.PersistentFlags().StringVarP(&cfg.Output, "output", "o", cfg.Output, "Output format: text, json")
	rootCmd.PersistentFlags().BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "Verbose output")

	// Add subcommands
	rootCmd.AddCommand(newGameCmd())
	rootCmd.AddCommand(newPlayCmd())
	rootCmd.AddCommand(newCallCmd())
	rootCmd.AddCommand(newRespondCmd())
	rootCmd.AddCommand(newEventsCmd())
	rootCmd.AddCommand(newHealthCmd())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// requirePlayer fails fast when a command needs an acting player
func requirePlayer() (string, error) {
	if cfg.Player == "" {
		return "", errMissingPlayer
	}
	return cfg.Player, nil
}
