package executor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"sync"
	"time"
)

// ErrSessionRunning is returned by Start when the shell is already alive.
var ErrSessionRunning = errors.New("shell session already running")

// Stream identifies which output pipe produced a chunk.
type Stream string

const (
	Stdout Stream = "stdout"
	Stderr Stream = "stderr"
)

// OutputEvent is one incremental chunk of decoded shell output. Chunks
// from one stream arrive in delivery order; there is no ordering between
// stdout and stderr chunks.
type OutputEvent struct {
	Stream Stream
	Chunk  string
}

// Session owns one long-lived interactive shell process. It is created
// once per editor lifetime; Start and Stop bound the process explicitly,
// and output is pushed through the Events channel as it arrives.
//
// At most one shell process is alive at a time. If the shell exits on its
// own (crash, user-typed exit), the Done channel closes, later Submits
// are dropped, and an explicit Start relaunches.
type Session struct {
	shell  []string
	logger *slog.Logger
	events chan OutputEvent

	mu      sync.Mutex // process state
	writeMu sync.Mutex // serializes stdin writes
	stdin   io.WriteCloser
	cancel  context.CancelFunc
	running bool
	done    chan struct{}
}

// NewSession creates a Session. The shell is not spawned until Start.
func NewSession(opts ...SessionOption) *Session {
	cfg := defaultSessionConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	// Closed so waiting on Done before the first Start returns at once.
	done := make(chan struct{})
	close(done)

	return &Session{
		shell:  cfg.shell,
		logger: cfg.logger,
		events: make(chan OutputEvent, cfg.eventBuffer),
		done:   done,
	}
}

// DefaultShell returns the platform's standard interactive shell.
func DefaultShell() []string {
	if runtime.GOOS == "windows" {
		return []string{"cmd.exe"}
	}
	if sh := os.Getenv("SHELL"); sh != "" {
		return []string{sh}
	}
	return []string{"/bin/sh"}
}

// Start spawns the shell process, inheriting the host environment.
// Starting while already running returns ErrSessionRunning; a second
// process is never spawned. The process is killed when ctx is cancelled,
// so scoping ctx to the editor lifetime guarantees no orphans.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return ErrSessionRunning
	}

	ctx, cancel := context.WithCancel(ctx)
	cmd := exec.CommandContext(ctx, s.shell[0], s.shell[1:]...)
	configureProcGroup(cmd)
	cmd.WaitDelay = time.Second

	stdin, err := cmd.StdinPipe()
	if err != nil {
		cancel()
		return fmt.Errorf("stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		stdin.Close()
		cancel()
		return fmt.Errorf("stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		stdin.Close()
		stdout.Close()
		cancel()
		return fmt.Errorf("stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		cancel()
		return fmt.Errorf("start shell %s: %w", s.shell[0], err)
	}

	s.stdin = stdin
	s.cancel = cancel
	s.running = true
	s.done = make(chan struct{})
	done := s.done

	s.logger.Info("shell started", "shell", s.shell[0], "pid", cmd.Process.Pid)

	var pumps sync.WaitGroup
	pumps.Add(2)
	go s.pump(ctx, Stdout, stdout, &pumps)
	go s.pump(ctx, Stderr, stderr, &pumps)

	// Wait is not gated on the pumps: a backgrounded grandchild of the
	// shell can hold the output pipes open forever, and the pumps with
	// them. Reaping first closes our pipe ends, which unblocks the pumps,
	// so done always closes once the shell itself is gone.
	go func() {
		err := cmd.Wait()
		pumps.Wait()

		s.mu.Lock()
		s.running = false
		s.stdin = nil
		s.mu.Unlock()

		cancel()
		s.logger.Info("shell exited", "shell", s.shell[0], "err", err)
		close(done)
	}()

	return nil
}

// pump drains one output pipe for the lifetime of the process, decoding
// bytes to UTF-8 text and forwarding each non-empty chunk immediately.
// Each pump owns its stream exclusively; the two never block each other.
func (s *Session) pump(ctx context.Context, stream Stream, pipe io.Reader, wg *sync.WaitGroup) {
	defer wg.Done()

	r := newUTF8Reader(pipe)
	buf := make([]byte, 4096)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			select {
			case s.events <- OutputEvent{Stream: stream, Chunk: string(buf[:n])}:
			case <-ctx.Done():
				// Session stopped; unread output is discarded.
				return
			}
		}
		if err != nil {
			return
		}
	}
}

// Submit writes one command line plus a line terminator to the shell's
// stdin. Whitespace-only submissions are dropped before reaching the
// process. Submissions while the shell is not running are silently
// discarded; the Done channel is the signal to restart, not a per-call
// error.
//
// Concurrent Submits are serialized so the bytes of two commands never
// interleave on the process's input.
func (s *Session) Submit(text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}

	s.mu.Lock()
	stdin := s.stdin
	s.mu.Unlock()
	if stdin == nil {
		return
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if _, err := io.WriteString(stdin, text+"\n"); err != nil {
		// The shell went away mid-write; the exit path reports it.
		s.logger.Debug("submit dropped", "err", err)
	}
}

// Stop terminates the shell process if running and waits for it to be
// reaped. It is idempotent; unread output is discarded.
func (s *Session) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	done := s.done
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	<-done
}

// Running reports whether the shell process is currently alive.
func (s *Session) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Events returns the channel output chunks are pushed on. The channel is
// shared across restarts and is never closed; consumers should select on
// Done to observe process exit.
func (s *Session) Events() <-chan OutputEvent {
	return s.events
}

// Done returns a channel that closes when the current shell process has
// exited and been reaped, whether through Stop, a crash, or a user-typed
// exit. Before the first Start it is already closed.
func (s *Session) Done() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.done
}
