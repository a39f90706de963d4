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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calram/skirmish/internal/api"
	"github.com/calram/skirmish/internal/factory"
)

// cliRunner manages CLI binary execution
type cliRunner struct {
	binaryPath string
	serverURL  string
	address    string
	tokenDir   string
}

func newCLIRunner(t *testing.T, serverURL, address string) *cliRunner {
	t.Helper()

	// Find project root (where go.mod is)
	projectRoot := findProjectRoot(t)

	// Build the CLI binary
	binaryPath := filepath.Join(projectRoot, "bin", "skirmishctl-test")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/skirmishctl")
	cmd.Dir = projectRoot
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "failed to build CLI: %s", string(output))

	return &cliRunner{
		binaryPath: binaryPath,
		serverURL:  serverURL,
		address:    address,
		tokenDir:   t.TempDir(),
	}
}

func (r *cliRunner) run(args ...string) (string, error) {
	fullArgs := append([]string{
		"--server", r.serverURL,
		"--address", r.address,
		"--token-dir", r.tokenDir,
		"--output", "json",
	}, args...)

	cmd := exec.Command(r.binaryPath, fullArgs...)
	output, err := cmd.CombinedOutput()
	return string(output), err
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
		Logger:             logger,
		AccountService:     app.AccountService,
		FleetService:       app.FleetService,
		CombatService:      app.CombatService,
		LeaderboardService: app.LeaderboardService,
		Broadcaster:        app.Broadcaster,
	})

	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			t.Logf("server error: %v", err)
		}
	}()

	serverURL := "http://" + addr
	waitForServer(t, serverURL+"/api/v1/health")

	return &testServer{
		addr: serverURL,
		shutdown: func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = server.Shutdown(ctx)
			app.Close()
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

type playerResponse struct {
	ID        string `json:"id"`
	Address   string `json:"address"`
	Level     int    `json:"level"`
	Gold      int    `json:"gold"`
	FighterID string `json:"fighter_id"`
}

type fighterResponse struct {
	ID       string   `json:"id"`
	OwnerID  string   `json:"owner_id"`
	Health   int      `json:"health"`
	Damage   int      `json:"damage"`
	Missiles []string `json:"missiles"`
}

type missileResponse struct {
	ID        string `json:"id"`
	Damage    int    `json:"damage"`
	FighterID string `json:"fighter_id"`
}

type accountResponse struct {
	Player     playerResponse  `json:"player"`
	Fighter    fighterResponse `json:"fighter"`
	AdminToken string          `json:"admin_token"`
	OwnerToken string          `json:"owner_token"`
}

type combatResponse struct {
	PlayerID      string `json:"player_id"`
	TargetFighter string `json:"target_fighter"`
	PlayerDamage  int    `json:"player_damage"`
	Won           bool   `json:"won"`
	GoldReward    int    `json:"gold_reward"`
	NewScore      int    `json:"new_score"`
}

type leaderboardResponse struct {
	Entries []struct {
		Rank     int    `json:"rank"`
		PlayerID string `json:"player_id"`
		Score    int    `json:"score"`
	} `json:"entries"`
}

type healthResponse struct {
	Status string `json:"status"`
}

// Tests

func TestCLI_HealthCheck(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr, "addr-health")

	output, err := cli.run("health")
	require.NoError(t, err, "output: %s", output)

	var resp healthResponse
	require.NoError(t, json.Unmarshal([]byte(output), &resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestCLI_AccountCommands(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr, "addr-alice")

	// Create account
	output, err := cli.run("account", "create")
	require.NoError(t, err, "output: %s", output)

	var created accountResponse
	require.NoError(t, json.Unmarshal([]byte(output), &created))
	assert.Equal(t, "addr-alice", created.Player.Address)
	assert.Equal(t, 1, created.Player.Level)
	assert.Equal(t, 0, created.Player.Gold)
	assert.Equal(t, 100, created.Fighter.Health)
	assert.Equal(t, 20, created.Fighter.Damage)
	assert.NotEmpty(t, created.OwnerToken)
	assert.NotEmpty(t, created.AdminToken)

	// Me resolves the player by the configured address
	output, err = cli.run("account", "me")
	require.NoError(t, err, "output: %s", output)

	var me playerResponse
	require.NoError(t, json.Unmarshal([]byte(output), &me))
	assert.Equal(t, created.Player.ID, me.ID)

	// Lookup by id
	output, err = cli.run("account", "get", created.Player.ID)
	require.NoError(t, err, "output: %s", output)

	var byID playerResponse
	require.NoError(t, json.Unmarshal([]byte(output), &byID))
	assert.Equal(t, created.Player.ID, byID.ID)
}

func TestCLI_FleetCommands(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr, "addr-bob")

	output, err := cli.run("account", "create")
	require.NoError(t, err, "output: %s", output)
	var acct accountResponse
	require.NoError(t, json.Unmarshal([]byte(output), &acct))

	// Mint a free-standing missile
	output, err = cli.run("missile", "mint")
	require.NoError(t, err, "output: %s", output)
	var missile missileResponse
	require.NoError(t, json.Unmarshal([]byte(output), &missile))
	assert.Equal(t, 50, missile.Damage)
	assert.Empty(t, missile.FighterID)

	// Attach it; the owner token was saved by account create
	output, err = cli.run("fighter", "attach", acct.Fighter.ID, missile.ID)
	require.NoError(t, err, "output: %s", output)

	output, err = cli.run("fighter", "get", acct.Fighter.ID)
	require.NoError(t, err, "output: %s", output)
	var fighter fighterResponse
	require.NoError(t, json.Unmarshal([]byte(output), &fighter))
	assert.Equal(t, []string{missile.ID}, fighter.Missiles)

	// Fund and apply an upgrade with the saved admin token
	output, err = cli.run("fighter", "award-gold", acct.Player.ID, "--amount", "30")
	require.NoError(t, err, "output: %s", output)

	output, err = cli.run("fighter", "upgrade", acct.Fighter.ID, "--player", acct.Player.ID)
	require.NoError(t, err, "output: %s", output)

	output, err = cli.run("fighter", "get", acct.Fighter.ID)
	require.NoError(t, err, "output: %s", output)
	require.NoError(t, json.Unmarshal([]byte(output), &fighter))
	assert.Equal(t, 130, fighter.Health)
	assert.Equal(t, 35, fighter.Damage)
}

func TestCLI_CombatAndLeaderboard(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	attacker := newCLIRunner(t, ts.addr, "addr-attacker")
	defender := &cliRunner{
		binaryPath: attacker.binaryPath,
		serverURL:  attacker.serverURL,
		address:    "addr-defender",
		tokenDir:   t.TempDir(),
	}

	output, err := attacker.run("account", "create")
	require.NoError(t, err, "output: %s", output)
	var attackerAcct accountResponse
	require.NoError(t, json.Unmarshal([]byte(output), &attackerAcct))

	output, err = defender.run("account", "create")
	require.NoError(t, err, "output: %s", output)
	var defenderAcct accountResponse
	require.NoError(t, json.Unmarshal([]byte(output), &defenderAcct))

	// Base damage 20 against 100 health is a loss, paying the loss reward
	output, err = attacker.run("combat", defenderAcct.Fighter.ID,
		"--player", attackerAcct.Player.ID)
	require.NoError(t, err, "output: %s", output)

	var outcome combatResponse
	require.NoError(t, json.Unmarshal([]byte(output), &outcome))
	assert.False(t, outcome.Won)
	assert.Equal(t, 20, outcome.PlayerDamage)
	assert.Equal(t, 5, outcome.GoldReward)
	assert.Equal(t, 5, outcome.NewScore)

	output, err = attacker.run("leaderboard", "--limit", "5")
	require.NoError(t, err, "output: %s", output)

	var board leaderboardResponse
	require.NoError(t, json.Unmarshal([]byte(output), &board))
	require.Len(t, board.Entries, 1)
	assert.Equal(t, attackerAcct.Player.ID, board.Entries[0].PlayerID)
	assert.Equal(t, 5, board.Entries[0].Score)
}
