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

	"github.com/bancoimob/gamebank/internal/api"
	"github.com/bancoimob/gamebank/internal/factory"
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
	binaryPath := filepath.Join(projectRoot, "bin", "bancoctl-test")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/bancoctl")
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
	server   *http.Server
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
		Logger:   logger,
		Sessions: app.Sessions,
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
		server: server,
		addr:   serverURL,
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
type sessionResponse struct {
	ID             string `json:"id"`
	RoomCode       string `json:"roomCode"`
	Status         string `json:"status"`
	InitialBalance int64  `json:"initialBalance"`
	BankBalance    int64  `json:"bankBalance"`
	Players        []struct {
		ID      string `json:"id"`
		Name    string `json:"name"`
		Balance int64  `json:"balance"`
	} `json:"players"`
}

type resolveResponse struct {
	SessionID string `json:"session_id"`
}

type healthResponse struct {
	Status string `json:"status"`
}

func (s sessionResponse) balance(id string) int64 {
	for _, p := range s.Players {
		if p.ID == id {
			return p.Balance
		}
	}
	return -1
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

func TestCLI_SessionLifecycle(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	// Create a session
	output, err := cli.run("session", "create")
	require.NoError(t, err, "output: %s", output)

	var sess sessionResponse
	require.NoError(t, json.Unmarshal([]byte(output), &sess))
	assert.NotEmpty(t, sess.ID)
	assert.Len(t, sess.RoomCode, 5)
	assert.Equal(t, "waiting", sess.Status)

	// Resolve the room code back to the session id
	output, err = cli.run("session", "resolve", sess.RoomCode)
	require.NoError(t, err, "output: %s", output)

	var resolved resolveResponse
	require.NoError(t, json.Unmarshal([]byte(output), &resolved))
	assert.Equal(t, sess.ID, resolved.SessionID)

	// Join two players
	output, err = cli.run("session", "join", sess.ID, "Ana")
	require.NoError(t, err, "output: %s", output)
	output, err = cli.run("session", "join", sess.ID, "Bob")
	require.NoError(t, err, "output: %s", output)

	// Starting requires the host role
	output, err = cli.run("session", "start", sess.ID)
	require.Error(t, err, "output: %s", output)

	output, err = cli.run("--as", "host", "session", "start", sess.ID)
	require.NoError(t, err, "output: %s", output)

	var started sessionResponse
	require.NoError(t, json.Unmarshal([]byte(output), &started))
	assert.Equal(t, "playing", started.Status)
	assert.Equal(t, int64(1500), started.balance("ana"))
	assert.Equal(t, int64(1500), started.balance("bob"))
}

func TestCLI_MoneyMovement(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	output, err := cli.run("session", "create")
	require.NoError(t, err, "output: %s", output)
	var sess sessionResponse
	require.NoError(t, json.Unmarshal([]byte(output), &sess))

	for _, name := range []string{"Ana", "Bob"} {
		output, err = cli.run("session", "join", sess.ID, name)
		require.NoError(t, err, "output: %s", output)
	}
	output, err = cli.run("--as", "host", "session", "start", sess.ID)
	require.NoError(t, err, "output: %s", output)

	// Player-to-player transfer with explicit sender
	output, err = cli.run("transfer", sess.ID, "bob", "200", "--from", "ana")
	require.NoError(t, err, "output: %s", output)

	var after sessionResponse
	require.NoError(t, json.Unmarshal([]byte(output), &after))
	assert.Equal(t, int64(1300), after.balance("ana"))
	assert.Equal(t, int64(1700), after.balance("bob"))

	// Sender defaults to the --player identity
	output, err = cli.run("--player", "bob", "transfer", sess.ID, "bank", "500")
	require.NoError(t, err, "output: %s", output)
	require.NoError(t, json.Unmarshal([]byte(output), &after))
	assert.Equal(t, int64(1200), after.balance("bob"))
	assert.Equal(t, int64(100_000_500), after.BankBalance)

	// Host pays out from the bank
	output, err = cli.run("--as", "host", "disburse", sess.ID, "ana", "300")
	require.NoError(t, err, "output: %s", output)
	require.NoError(t, json.Unmarshal([]byte(output), &after))
	assert.Equal(t, int64(1600), after.balance("ana"))
	assert.Equal(t, int64(100_000_200), after.BankBalance)

	// Overdrafts are rejected and change nothing
	output, err = cli.run("transfer", sess.ID, "bob", "99999", "--from", "ana")
	require.Error(t, err, "output: %s", output)

	output, err = cli.run("session", "get", sess.ID)
	require.NoError(t, err, "output: %s", output)
	require.NoError(t, json.Unmarshal([]byte(output), &after))
	assert.Equal(t, int64(1600), after.balance("ana"))
}
