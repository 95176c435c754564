package main

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caffeineduck/runlet/executor"
)

func newTestServer(t *testing.T) *server {
	t.Helper()

	registry := executor.DefaultRegistry()
	registry.Register(executor.Binding{Extension: ".sh", DisplayName: "Shell", Command: []string{"sh"}})

	return &server{
		runner: executor.NewRunner(registry),
		shell:  []string{"sh"},
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func postRun(t *testing.T, h http.Handler, body runRequest) (*httptest.ResponseRecorder, runResponse) {
	t.Helper()

	data, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/run", bytes.NewReader(data))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var resp runResponse
	if rec.Code == http.StatusOK {
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	}
	return rec, resp
}

func TestServerHealth(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestServer(t).router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestServerRun(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires sh")
	}

	path := filepath.Join(t.TempDir(), "ok.sh")
	require.NoError(t, os.WriteFile(path, []byte("echo ok\n"), 0o755))

	rec, resp := postRun(t, newTestServer(t).router(), runRequest{Path: path})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, resp.Succeeded)
	assert.Equal(t, 0, resp.ExitCode)
	assert.Contains(t, resp.Output, "ok")
	assert.Equal(t, "Shell", resp.Language)
	assert.NotEmpty(t, resp.RunID)
}

func TestServerRunNonZeroExit(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires sh")
	}

	path := filepath.Join(t.TempDir(), "fail.sh")
	require.NoError(t, os.WriteFile(path, []byte("exit 2\n"), 0o755))

	rec, resp := postRun(t, newTestServer(t).router(), runRequest{Path: path})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, resp.Succeeded)
	assert.Equal(t, 2, resp.ExitCode)
	assert.Empty(t, resp.Error, "a plain non-zero exit is not an error")
}

func TestServerRunMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.py")

	rec, resp := postRun(t, newTestServer(t).router(), runRequest{Path: path})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, resp.Succeeded)
	assert.Contains(t, resp.Error, "does not exist")
}

func TestServerRunBadRequests(t *testing.T) {
	h := newTestServer(t).router()

	t.Run("invalid json", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/run", strings.NewReader("{"))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing path", func(t *testing.T) {
		rec, _ := postRun(t, h, runRequest{})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("invalid timeout", func(t *testing.T) {
		rec, _ := postRun(t, h, runRequest{Path: "/tmp/x.py", Timeout: "soon"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestServerShellWebSocket(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires sh")
	}

	ts := httptest.NewServer(newTestServer(t).router())
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/shell/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteJSON(shellMessage{Type: "input", Data: "echo hello"}))

	deadline := time.Now().Add(5 * time.Second)
	var collected strings.Builder
	for time.Now().Before(deadline) {
		require.NoError(t, conn.SetReadDeadline(deadline))
		var msg shellMessage
		require.NoError(t, conn.ReadJSON(&msg))
		if msg.Type == "output" {
			collected.WriteString(msg.Data)
			if strings.Contains(collected.String(), "hello") {
				return
			}
		}
	}
	t.Fatalf("never saw 'hello' on the socket, collected %q", collected.String())
}

func TestServerShellWebSocketExit(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires sh")
	}

	ts := httptest.NewServer(newTestServer(t).router())
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/shell/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteJSON(shellMessage{Type: "input", Data: "exit"}))

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		require.NoError(t, conn.SetReadDeadline(deadline))
		var msg shellMessage
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("connection closed before exit frame: %v", err)
		}
		if msg.Type == "exit" {
			return
		}
	}
	t.Fatal("never received the exit frame")
}
