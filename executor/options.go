package executor

import (
	"io"
	"log/slog"
	"time"
)

// RunnerOption configures a Runner at creation time.
type RunnerOption func(*runnerConfig)

type runnerConfig struct {
	launcher Launcher
	timeout  time.Duration
}

func defaultRunnerConfig() runnerConfig {
	return runnerConfig{launcher: processLauncher{}}
}

// WithLauncher substitutes the process launcher. Used by tests and by
// front-ends that need to observe spawns.
func WithLauncher(l Launcher) RunnerOption {
	return func(c *runnerConfig) {
		c.launcher = l
	}
}

// WithDefaultTimeout sets the default per-run timeout. Zero means runs
// block until the script exits on its own.
func WithDefaultTimeout(d time.Duration) RunnerOption {
	return func(c *runnerConfig) {
		c.timeout = d
	}
}

// RunOption configures a single Run call.
type RunOption func(*runConfig)

type runConfig struct {
	timeout time.Duration
}

// WithTimeout bounds this run, overriding the Runner default. The script
// is killed when the deadline passes and the Result reports a timeout.
func WithTimeout(d time.Duration) RunOption {
	return func(c *runConfig) {
		c.timeout = d
	}
}

// SessionOption configures a shell Session at creation time.
type SessionOption func(*sessionConfig)

type sessionConfig struct {
	shell       []string
	logger      *slog.Logger
	eventBuffer int
}

func defaultSessionConfig() sessionConfig {
	return sessionConfig{
		shell:       DefaultShell(),
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		eventBuffer: 64,
	}
}

// WithShell overrides the shell command. The default is the platform's
// standard interactive shell with no arguments.
func WithShell(argv ...string) SessionOption {
	return func(c *sessionConfig) {
		if len(argv) > 0 {
			c.shell = argv
		}
	}
}

// WithSessionLogger attaches a structured logger for session lifecycle
// events. The default discards everything.
func WithSessionLogger(logger *slog.Logger) SessionOption {
	return func(c *sessionConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithEventBuffer sets the capacity of the Events channel. Once full,
// output pumps block until the consumer catches up.
func WithEventBuffer(n int) SessionOption {
	return func(c *sessionConfig) {
		if n > 0 {
			c.eventBuffer = n
		}
	}
}
