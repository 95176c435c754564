package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/caffeineduck/runlet/executor"
	"github.com/chzyer/readline"
	"github.com/spf13/cobra"
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Interactive shell with streamed output",
	Long: `Start the long-lived interactive shell and attach a line editor.

Features:
  - Command history (up/down arrows)
  - Line editing (left/right, backspace, delete)
  - History search (Ctrl+R)

Shell stdout and stderr are streamed back as they arrive, each on its own
output stream. Type 'exit' to terminate the shell, or press Ctrl+D to
leave and tear it down.`,
	Run: runShell,
}

func init() {
	shellCmd.Flags().String("history", "", "History file path (default: ~/.runlet_history)")
	rootCmd.AddCommand(shellCmd)
}

func runShell(cmd *cobra.Command, args []string) {
	historyFile, _ := cmd.Flags().GetString("history")
	if historyFile == "" {
		home, _ := os.UserHomeDir()
		historyFile = filepath.Join(home, ".runlet_history")
	}

	session := executor.NewSession(executor.WithShell(shellFromEnv()...))
	if err := session.Start(cmd.Context()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer session.Stop()

	done := session.Done()

	rl, err := readline.NewEx(&readline.Config{
		Prompt:            "$ ",
		HistoryFile:       historyFile,
		HistoryLimit:      1000,
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing readline: %v\n", err)
		os.Exit(1)
	}
	defer rl.Close()

	// Printer: stdout chunks to stdout, stderr chunks to stderr, until
	// the shell process goes away.
	go func() {
		for {
			select {
			case ev := <-session.Events():
				if ev.Stream == executor.Stderr {
					fmt.Fprint(os.Stderr, ev.Chunk)
				} else {
					fmt.Print(ev.Chunk)
				}
			case <-done:
				return
			}
		}
	}()

	// Unblock Readline when the shell exits (crash or user-typed exit).
	go func() {
		<-done
		rl.Close()
	}()

	for {
		line, err := rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			if err == io.EOF {
				fmt.Println()
				break
			}
			fmt.Fprintf(os.Stderr, "Error reading input: %v\n", err)
			break
		}
		session.Submit(line)
	}

	select {
	case <-done:
		fmt.Fprintln(os.Stderr, "shell exited")
	default:
	}
}
