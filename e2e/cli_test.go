package e2e_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardfold/mayi-go/internal/api"
	"github.com/cardfold/mayi-go/internal/factory"
)

// cliRunner manages CLI binary execution
type cliRunner struct {
	binaryPath string
	serverURL  string
}

func newCLIRunner(t *testing.T, serverURL string) *cliRunner {
	t.Helper()

	// Find project root (where go.mod is)
	projectRoot := findProjectRoot(t)

	// Build the CLI binary
	binaryPath := filepath.Join(projectRoot, "bin", "mayi-test")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/mayi")
	cmd.Dir = projectRoot
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "failed to build CLI: %s", string(output))

	return &cliRunner{
		binaryPath: binaryPath,
		serverURL:  serverURL,
	}
}

func (r *cliRunner) run(args ...string) (string, error) {
	fullArgs := append([]string{
		"--server", r.serverURL,
		"--output", "json",
	}, args...)

	cmd := exec.Command(r.binaryPath, fullArgs...)
	cmd.Env = append(os.Environ(), "MAYI_PLAYER=")
	output, err := cmd.CombinedOutput()
	return string(output), err
}

func (r *cliRunner) runAs(player string, args ...string) (string, error) {
	return r.run(append([]string{"--player", player}, args...)...)
}

func findProjectRoot(t *testing.T) string {
	t.Helper()

	dir, err := os.Getwd()
	require.NoError(t, err)

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("could not find project root (go.mod)")
		}
		dir = parent
	}
}

// testServer manages a real HTTP server for e2e tests
type testServer struct {
	addr     string
	shutdown func()
}

func startTestServer(t *testing.T) *testServer {
	t.Helper()

	// Find a free port
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := listener.Addr().String()
	require.NoError(t, listener.Close())

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	app, err := factory.New(factory.Config{Logger: logger})
	require.NoError(t, err)

	router := api.NewRouter(api.RouterConfig{
		Logger:         logger,
		GameController: app.GameController,
		HubManager:     app.HubManager,
	})

	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	// Start server
	go func() {
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			t.Logf("server error: %v", err)
		}
	}()

	// Wait for server to be ready
	serverURL := "http://" + addr
	waitForServer(t, serverURL+"/api/v1/health")

	return &testServer{
		addr: serverURL,
		shutdown: func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = server.Shutdown(ctx)
		},
	}
}

func waitForServer(t *testing.T, url string) {
	t.Helper()

	client := &http.Client{Timeout: 100 * time.Millisecond}
	deadline := time.Now().Add(5 * time.Second)

	for time.Now().Before(deadline) {
		resp, err := client.Get(url)
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(50 * time.Millisecond)
	}

	t.Fatal("server did not become ready in time")
}

// Response types for JSON parsing

type cardResponse struct {
	ID   string `json:"id"`
	Rank string `json:"rank"`
	Suit string `json:"suit"`
}

type playerSummaryResponse struct {
	ID            string `json:"id"`
	HandSize      int    `json:"hand_size"`
	MayIRemaining int    `json:"may_i_remaining"`
}

type gameResponse struct {
	ID              string                  `json:"id"`
	State           string                  `json:"state"`
	RoundNumber     int                     `json:"round_number"`
	Players         []playerSummaryResponse `json:"players"`
	StockCount      int                     `json:"stock_count"`
	TopDiscard      *cardResponse           `json:"top_discard"`
	CurrentPlayerID string                  `json:"current_player_id"`
	DealerID        string                  `json:"dealer_id"`
	MayIPending     bool                    `json:"may_i_pending"`
}

type viewResponse struct {
	GameID          string         `json:"game_id"`
	ViewerID        string         `json:"viewer_id"`
	Hand            []cardResponse `json:"hand"`
	CurrentPlayerID string         `json:"current_player_id"`
	Phase           string         `json:"phase"`
}

type eventResponse struct {
	Type     string `json:"type"`
	GameID   string `json:"game_id"`
	PlayerID string `json:"player_id"`
}

type commandResultResponse struct {
	Events []eventResponse `json:"events"`
	View   *viewResponse   `json:"view"`
}

type healthResponse struct {
	Status string `json:"status"`
}

func eventTypes(events []eventResponse) []string {
	types := make([]string, len(events))
	for i, e := range events {
		types[i] = e.Type
	}
	return types
}

// createGame makes a game through the CLI and returns its parsed state
func createGame(t *testing.T, cli *cliRunner, players ...string) gameResponse {
	t.Helper()

	output, err := cli.run(append([]string{"game", "new"}, players...)...)
	require.NoError(t, err, "output: %s", output)

	var game gameResponse
	require.NoError(t, json.Unmarshal([]byte(output), &game))
	require.NotEmpty(t, game.ID)
	return game
}

// Tests

func TestCLI_HealthCheck(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	output, err := cli.run("health")
	require.NoError(t, err, "output: %s", output)

	var resp healthResponse
	require.NoError(t, json.Unmarshal([]byte(output), &resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestCLI_GameLifecycle(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	game := createGame(t, cli, "alice", "bob", "carol")
	assert.Equal(t, 1, game.RoundNumber)
	assert.Equal(t, "alice", game.DealerID)
	assert.Equal(t, "bob", game.CurrentPlayerID)
	require.Len(t, game.Players, 3)
	for _, p := range game.Players {
		assert.Equal(t, 11, p.HandSize)
		assert.Equal(t, 1, p.MayIRemaining)
	}
	require.NotNil(t, game.TopDiscard)
	// Two decks plus jokers, minus three hands and the flipped card
	assert.Equal(t, 108-3*11-1, game.StockCount)

	// Get shows the same public summary
	output, err := cli.run("game", "get", game.ID)
	require.NoError(t, err, "output: %s", output)
	var fetched gameResponse
	require.NoError(t, json.Unmarshal([]byte(output), &fetched))
	assert.Equal(t, game.ID, fetched.ID)

	// View reveals the viewer's own hand
	output, err = cli.runAs("carol", "game", "view", game.ID)
	require.NoError(t, err, "output: %s", output)
	var view viewResponse
	require.NoError(t, json.Unmarshal([]byte(output), &view))
	assert.Equal(t, "carol", view.ViewerID)
	assert.Len(t, view.Hand, 11)

	// Delete removes the game
	_, err = cli.run("game", "delete", game.ID)
	require.NoError(t, err)

	output, err = cli.run("game", "get", game.ID)
	assert.Error(t, err)
	assert.Contains(t, strings.ToLower(output), "not found")
}

func TestCLI_TurnFlow(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	game := createGame(t, cli, "alice", "bob")
	require.Equal(t, "bob", game.CurrentPlayerID)

	// Bob draws from the stock
	output, err := cli.runAs("bob", "play", "draw", game.ID)
	require.NoError(t, err, "output: %s", output)

	var result commandResultResponse
	require.NoError(t, json.Unmarshal([]byte(output), &result))
	assert.Equal(t, []string{"card_drawn"}, eventTypes(result.Events))
	require.NotNil(t, result.View)
	require.Len(t, result.View.Hand, 12)

	// Bob discards, ending his turn
	discardID := result.View.Hand[0].ID
	output, err = cli.runAs("bob", "play", "discard", game.ID, discardID)
	require.NoError(t, err, "output: %s", output)

	require.NoError(t, json.Unmarshal([]byte(output), &result))
	assert.Equal(t, []string{"card_discarded", "turn_complete"}, eventTypes(result.Events))
	require.NotNil(t, result.View)
	assert.Len(t, result.View.Hand, 11)
	assert.Equal(t, "alice", result.View.CurrentPlayerID)

	// Drawing again out of turn is rejected
	output, err = cli.runAs("bob", "play", "draw", game.ID)
	assert.Error(t, err)
	assert.Contains(t, strings.ToLower(output), "turn")
}

func TestCLI_MayIFlow(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	game := createGame(t, cli, "alice", "bob")

	// Bob takes his turn so the discard on top is fresh and it is
	// alice's turn
	output, err := cli.runAs("bob", "play", "draw", game.ID)
	require.NoError(t, err, "output: %s", output)
	var result commandResultResponse
	require.NoError(t, json.Unmarshal([]byte(output), &result))

	output, err = cli.runAs("bob", "play", "discard", game.ID, result.View.Hand[0].ID)
	require.NoError(t, err, "output: %s", output)

	// Bob, now out of turn, calls May I on his own discard
	output, err = cli.runAs("bob", "call", game.ID)
	require.NoError(t, err, "output: %s", output)
	require.NoError(t, json.Unmarshal([]byte(output), &result))
	assert.Equal(t, []string{"may_i_called"}, eventTypes(result.Events))

	summary := getGame(t, cli, game.ID)
	assert.True(t, summary.MayIPending)

	// Alice allows; with nobody left to respond the caller wins the card
	output, err = cli.runAs("alice", "respond", game.ID, "allow")
	require.NoError(t, err, "output: %s", output)
	require.NoError(t, json.Unmarshal([]byte(output), &result))
	assert.Equal(t, []string{"may_i_responded", "may_i_resolved"}, eventTypes(result.Events))

	summary = getGame(t, cli, game.ID)
	assert.False(t, summary.MayIPending)
	for _, p := range summary.Players {
		if p.ID == "bob" {
			assert.Equal(t, 12, p.HandSize)
			assert.Equal(t, 0, p.MayIRemaining)
		}
	}

	// The turn holder cannot call May I
	output, err = cli.runAs("alice", "call", game.ID)
	assert.Error(t, err)
	assert.Contains(t, strings.ToLower(output), "may i")
}

func TestCLI_ErrorHandling(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	// Unknown game
	output, err := cli.run("game", "get", "NOSUCHGAME")
	assert.Error(t, err)
	assert.Contains(t, strings.ToLower(output), "not found")

	// View without a player identity
	output, err = cli.run("game", "view", "NOSUCHGAME")
	assert.Error(t, err)
	assert.Contains(t, output, "no player set")

	// Bad respond decision never reaches the server
	output, err = cli.runAs("alice", "respond", "NOSUCHGAME", "maybe")
	assert.Error(t, err)
	assert.Contains(t, output, "allow or claim")

	// Too few players
	output, err = cli.run("game", "new", "alice")
	assert.Error(t, err)
	assert.Contains(t, output, "requires at least 2")
}

func getGame(t *testing.T, cli *cliRunner, gameID string) gameResponse {
	t.Helper()

	output, err := cli.run("game", "get", gameID)
	require.NoError(t, err, "output: %s", output)

	var game gameResponse
	require.NoError(t, json.Unmarshal([]byte(output), &game))
	return game
}
