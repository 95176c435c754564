package executor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"
)

var (
	// ErrUnsupportedLanguage means the script's extension has no binding.
	ErrUnsupportedLanguage = errors.New("unsupported script language")

	// ErrMissingFile means the script path did not exist at run time.
	ErrMissingFile = errors.New("script file does not exist")
)

// Result holds the outcome of a single script run.
type Result struct {
	// Succeeded is true only when the interpreter ran and exited zero.
	Succeeded bool

	// Output is stdout and stderr merged into one stream, interleaved
	// exactly as the OS delivered them. For a launch failure it carries
	// the OS error text instead of child output.
	Output string

	// ExitCode is the process exit status, or -1 when no process ran
	// to completion.
	ExitCode int

	Duration time.Duration

	// Err classifies precondition and launch failures. A plain non-zero
	// exit is not an error: Succeeded is false and Err stays nil.
	Err error
}

// Launcher spawns an interpreter process and waits for it to finish,
// returning the merged output and exit status. err is non-nil only when
// the process could not be started or was interrupted; a non-zero exit
// is reported through exitCode alone.
//
// The default launcher runs real OS processes. Substitute a fake to test
// callers without spawning anything.
type Launcher interface {
	Launch(ctx context.Context, argv []string) (output []byte, exitCode int, err error)
}

// processLauncher runs argv[0] directly with argv[1:] as arguments.
// stdout and stderr share one buffer so interleaving matches delivery
// order, and stdin is not connected to a terminal.
//
// The child gets its own process group and cancellation kills the group,
// so a timed-out script cannot leave grandchildren behind holding the
// output pipes open. WaitDelay is the backstop: if something outside the
// group still holds a pipe after cancellation, Run is forced to return
// instead of blocking until the stray process exits.
type processLauncher struct{}

func (processLauncher) Launch(ctx context.Context, argv []string) ([]byte, int, error) {
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	configureProcGroup(cmd)
	cmd.WaitDelay = time.Second

	var buf bytes.Buffer
	cmd.Stdout = &buf
	cmd.Stderr = &buf

	err := cmd.Run()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return buf.Bytes(), exitErr.ExitCode(), nil
		}
		return buf.Bytes(), -1, err
	}
	return buf.Bytes(), 0, nil
}

// Runner executes saved scripts through the interpreter bound to their
// file extension. It performs no internal concurrency: Run blocks the
// calling goroutine until the script finishes, is cancelled, or times out.
type Runner struct {
	registry *Registry
	launcher Launcher
	timeout  time.Duration
}

// NewRunner creates a Runner resolving languages from registry.
// A nil registry falls back to DefaultRegistry.
func NewRunner(registry *Registry, opts ...RunnerOption) *Runner {
	cfg := defaultRunnerConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if registry == nil {
		registry = DefaultRegistry()
	}
	return &Runner{
		registry: registry,
		launcher: cfg.launcher,
		timeout:  cfg.timeout,
	}
}

// Registry returns the language registry the Runner resolves against.
func (r *Runner) Registry() *Registry {
	return r.registry
}

// Run executes the script at scriptPath and blocks until it exits.
// The caller must have flushed the buffer to disk beforehand; Run assumes
// the file on disk reflects current content and never writes it itself.
//
// Preconditions fail fast: an unbound extension or a missing file is
// classified before any process is spawned.
func (r *Runner) Run(ctx context.Context, scriptPath string, opts ...RunOption) Result {
	start := time.Now()

	cfg := runConfig{timeout: r.timeout}
	for _, opt := range opts {
		opt(&cfg)
	}

	ext := filepath.Ext(scriptPath)
	binding, ok := r.registry.Resolve(ext)
	if !ok {
		return Result{
			ExitCode: -1,
			Duration: time.Since(start),
			Err:      fmt.Errorf("%w: %q", ErrUnsupportedLanguage, ext),
		}
	}

	if info, err := os.Stat(scriptPath); err != nil || info.IsDir() {
		return Result{
			ExitCode: -1,
			Duration: time.Since(start),
			Err:      fmt.Errorf("%w: %s", ErrMissingFile, scriptPath),
		}
	}

	if cfg.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.timeout)
		defer cancel()
	}

	output, code, err := r.launcher.Launch(ctx, binding.Argv(scriptPath))

	result := Result{
		Output:   string(output),
		ExitCode: code,
		Duration: time.Since(start),
	}

	// An expired deadline is classified first: the forced-wait backstop
	// can surface its own error, but the user-visible cause is the timeout.
	switch {
	case ctx.Err() == context.DeadlineExceeded:
		result.Err = fmt.Errorf("timeout after %v", cfg.timeout)
	case ctx.Err() != nil:
		result.Err = ctx.Err()
	case err != nil:
		result.ExitCode = -1
		result.Err = fmt.Errorf("launch %s: %w", binding.DisplayName, err)
		if result.Output == "" {
			result.Output = err.Error()
		}
	case code == 0:
		result.Succeeded = true
	}

	return result
}
