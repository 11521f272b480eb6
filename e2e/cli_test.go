package e2e_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/scorekeeper/internal/api"
	"github.com/mcoot/scorekeeper/internal/cli"
	"github.com/mcoot/scorekeeper/internal/factory"
)

// cliRunner executes the CLI root command in-process against a server
type cliRunner struct {
	serverURL string
}

func newCLIRunner(serverURL string) *cliRunner {
	return &cliRunner{serverURL: serverURL}
}

func (r *cliRunner) run(args ...string) (string, error) {
	fullArgs := append([]string{
		"--server", r.serverURL,
		"--output", "json",
	}, args...)

	var out bytes.Buffer
	cmd := cli.NewRootCmd()
	cmd.SetArgs(fullArgs)
	cmd.SetOut(&out)
	cmd.SetErr(&out)

	err := cmd.Execute()
	return out.String(), err
}

// testServer manages a real HTTP server for e2e tests
type testServer struct {
	addr     string
	shutdown func()
}

func startTestServer(t *testing.T) *testServer {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	app, err := factory.New(context.Background(), factory.Config{Logger: logger})
	require.NoError(t, err)

	cfg := api.DefaultServerConfig()
	cfg.Host = "127.0.0.1"
	cfg.Port = 0
	cfg.ShutdownTimeout = 5 * time.Second

	server, err := api.Listen(api.NewRouter(api.RouterConfig{
		Logger:            logger,
		SessionController: app.SessionController,
	}), cfg, logger)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := server.Run(ctx); err != nil {
			t.Logf("server error: %v", err)
		}
	}()

	// Wait for server to be ready
	serverURL := "http://" + server.Addr()
	waitForServer(t, serverURL+"/api/v1/health")

	return &testServer{
		addr: serverURL,
		shutdown: func() {
			cancel()
			<-done
			_ = app.Close()
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

func runSession(t *testing.T, r *cliRunner, args ...string) cli.Session {
	t.Helper()

	output, err := r.run(args...)
	require.NoError(t, err, "output: %s", output)

	var resp cli.Session
	require.NoError(t, json.Unmarshal([]byte(output), &resp), "output: %s", output)
	return resp
}

// Tests

func TestCLI_HealthCheck(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	r := newCLIRunner(ts.addr)

	output, err := r.run("health")
	require.NoError(t, err, "output: %s", output)

	var resp cli.HealthResult
	require.NoError(t, json.Unmarshal([]byte(output), &resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestCLI_FullSession(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	r := newCLIRunner(ts.addr)

	session := runSession(t, r, "session", "show")
	assert.Equal(t, "setup", session.Phase)
	assert.Len(t, session.Players, 2)

	session = runSession(t, r, "session", "size", "3")
	assert.Len(t, session.Players, 3)

	session = runSession(t, r, "player", "rename", "1", "Ada", "Lovelace")
	assert.Equal(t, "Ada Lovelace", session.Players[0].Name)

	session = runSession(t, r, "session", "start")
	assert.Equal(t, "playing", session.Phase)

	runSession(t, r, "player", "add", "1", "2")
	runSession(t, r, "player", "add", "2", "10")
	session = runSession(t, r, "player", "sub", "2")
	assert.Equal(t, 2, session.Players[0].Score)
	assert.Equal(t, 9, session.Players[1].Score)
	require.Len(t, session.Players[1].Recent, 2)
	assert.Equal(t, -1, session.Players[1].Recent[0].Points)

	output, err := r.run("ranking")
	require.NoError(t, err, "output: %s", output)
	var ranking cli.Ranking
	require.NoError(t, json.Unmarshal([]byte(output), &ranking))
	require.Len(t, ranking.Players, 3)
	assert.Equal(t, 2, ranking.Players[0].ID)
	assert.Equal(t, []int{2}, ranking.Leaders)

	session = runSession(t, r, "session", "reset")
	assert.True(t, session.ResetPending)

	session = runSession(t, r, "session", "reset", "--cancel")
	assert.False(t, session.ResetPending)
	assert.Equal(t, 9, session.Players[1].Score)

	session = runSession(t, r, "session", "reset", "--yes")
	assert.False(t, session.ResetPending)
	for _, p := range session.Players {
		assert.Zero(t, p.Score)
		assert.Empty(t, p.History)
	}
}

func TestCLI_Errors(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	r := newCLIRunner(ts.addr)

	_, err := r.run("player", "add", "1", "abc")
	require.Error(t, err)
	var apiErr *cli.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "INVALID_SCORE_TEXT", apiErr.Code)

	_, err = r.run("player", "add", "1", "0")
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "INVALID_MAGNITUDE", apiErr.Code)

	_, err = r.run("player", "rename", "7", "Nobody")
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "PLAYER_NOT_FOUND", apiErr.Code)

	runSession(t, r, "session", "start")
	_, err = r.run("session", "size", "4")
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "NOT_IN_SETUP", apiErr.Code)

	_, err = r.run("session", "reset", "--yes", "--cancel")
	require.Error(t, err)
}
