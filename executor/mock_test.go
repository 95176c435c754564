package executor

import (
	"context"
	"sync"
)

// spyLauncher implements Launcher for testing runner logic without
// spawning real interpreter processes.
type spyLauncher struct {
	mu    sync.Mutex
	calls [][]string

	output   string
	exitCode int
	err      error
}

func (l *spyLauncher) Launch(ctx context.Context, argv []string) ([]byte, int, error) {
	l.mu.Lock()
	l.calls = append(l.calls, argv)
	l.mu.Unlock()
	return []byte(l.output), l.exitCode, l.err
}

func (l *spyLauncher) launchCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.calls)
}

func (l *spyLauncher) lastArgv() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.calls) == 0 {
		return nil
	}
	return l.calls[len(l.calls)-1]
}
