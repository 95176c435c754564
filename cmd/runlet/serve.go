package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/caffeineduck/runlet/executor"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/rs/xid"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "HTTP front-end: run scripts, attach shells over WebSocket",
	Long: `Start an HTTP server exposing the execution core to editor UIs.

Endpoints:
  POST /run       {"path":"/abs/script.py","timeout":"30s"} -> run result
  GET  /shell/ws  WebSocket shell: send {"type":"input","data":"..."},
                  receive {"type":"output","stream":"stdout","data":"..."}
                  and a final {"type":"exit"} when the shell terminates
  GET  /health    Health check`,
	Run: runServe,
}

func init() {
	serveCmd.Flags().IntP("port", "p", 8080, "Port to listen on")
	rootCmd.AddCommand(serveCmd)
}

type server struct {
	runner *executor.Runner
	shell  []string
	logger *slog.Logger
}

type runRequest struct {
	Path    string `json:"path"`
	Timeout string `json:"timeout,omitempty"`
}

type runResponse struct {
	RunID      string `json:"run_id"`
	Language   string `json:"language,omitempty"`
	Succeeded  bool   `json:"succeeded"`
	Output     string `json:"output"`
	ExitCode   int    `json:"exit_code"`
	DurationMs int64  `json:"duration_ms"`
	Error      string `json:"error,omitempty"`
}

// shellMessage is one frame on the WebSocket shell bridge.
// Type is "input", "output", or "exit".
type shellMessage struct {
	Type   string `json:"type"`
	Stream string `json:"stream,omitempty"`
	Data   string `json:"data,omitempty"`
}

func (s *server) router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Post("/run", s.handleRun)
	r.Get("/shell/ws", s.handleShellWS)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	return r
}

func (s *server) handleRun(w http.ResponseWriter, r *http.Request) {
	var req runRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	if req.Path == "" {
		http.Error(w, "path required", http.StatusBadRequest)
		return
	}

	var opts []executor.RunOption
	if req.Timeout != "" {
		d, err := time.ParseDuration(req.Timeout)
		if err != nil {
			http.Error(w, "invalid timeout", http.StatusBadRequest)
			return
		}
		opts = append(opts, executor.WithTimeout(d))
	}

	runID := xid.New().String()
	language := s.runner.Registry().LanguageFor(req.Path)
	s.logger.Info("run requested", "run_id", runID, "path", req.Path, "language", language)

	result := s.runner.Run(r.Context(), req.Path, opts...)

	resp := runResponse{
		RunID:      runID,
		Language:   language,
		Succeeded:  result.Succeeded,
		Output:     result.Output,
		ExitCode:   result.ExitCode,
		DurationMs: result.Duration.Milliseconds(),
	}
	if result.Err != nil {
		resp.Error = result.Err.Error()
	}
	s.logger.Info("run finished", "run_id", runID, "succeeded", resp.Succeeded, "exit_code", resp.ExitCode)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	// Editor front-ends connect from file:// and app origins.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// handleShellWS attaches one shell session to one WebSocket connection.
// The session lives exactly as long as the connection.
func (s *server) handleShellWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("ws upgrade failed", "err", err)
		return
	}
	defer conn.Close()

	logger := s.logger.With("conn_id", xid.New().String())

	session := executor.NewSession(
		executor.WithShell(s.shell...),
		executor.WithSessionLogger(logger),
	)
	if err := session.Start(r.Context()); err != nil {
		logger.Error("shell start failed", "err", err)
		_ = conn.WriteJSON(shellMessage{Type: "exit", Data: err.Error()})
		return
	}
	defer session.Stop()

	done := session.Done()

	// All outbound frames go through one goroutine: gorilla permits a
	// single concurrent writer.
	go func() {
		for {
			select {
			case ev := <-session.Events():
				msg := shellMessage{Type: "output", Stream: string(ev.Stream), Data: ev.Chunk}
				if err := conn.WriteJSON(msg); err != nil {
					return
				}
			case <-done:
				_ = conn.WriteJSON(shellMessage{Type: "exit"})
				_ = conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
		}
	}()

	for {
		var msg shellMessage
		if err := conn.ReadJSON(&msg); err != nil {
			logger.Info("ws closed", "err", err)
			return
		}
		if msg.Type == "input" {
			session.Submit(msg.Data)
		}
	}
}

func runServe(cmd *cobra.Command, args []string) {
	port, _ := cmd.Flags().GetInt("port")

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	srv := &server{
		runner: executor.NewRunner(buildRegistry(), executor.WithDefaultTimeout(timeoutFromEnv())),
		shell:  shellFromEnv(),
		logger: logger,
	}

	addr := fmt.Sprintf(":%d", port)
	logger.Info("runlet server listening", "addr", addr)
	if err := http.ListenAndServe(addr, srv.router()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
