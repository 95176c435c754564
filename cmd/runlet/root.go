package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caffeineduck/runlet/executor"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "runlet",
	Short: "Run editor scripts and drive an interactive shell",
	Long: `runlet - the execution core behind a script editor.

Saved scripts are matched to interpreters by file extension (.py, .bat,
.ps1 out of the box) and launched directly, never through an intermediate
command shell, so paths are passed as single verbatim arguments.

Configuration comes from the environment; a .env file in the working
directory is loaded if present:
  RUNLET_SHELL    shell command for interactive sessions (default: platform shell)
  RUNLET_TIMEOUT  default run timeout as a Go duration (default: none)
  RUNLET_LANGS    extra language bindings, "ext=Name=cmd args" separated by ;`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(func() {
		_ = godotenv.Load()
	})
}

// buildRegistry returns the default registry extended with any bindings
// declared in RUNLET_LANGS.
func buildRegistry() *executor.Registry {
	registry := executor.DefaultRegistry()

	spec := os.Getenv("RUNLET_LANGS")
	if spec == "" {
		return registry
	}

	for _, entry := range strings.Split(spec, ";") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, "=", 3)
		if len(parts) != 3 {
			fmt.Fprintf(os.Stderr, "Warning: ignoring malformed RUNLET_LANGS entry %q\n", entry)
			continue
		}
		command := strings.Fields(parts[2])
		if len(command) == 0 {
			fmt.Fprintf(os.Stderr, "Warning: ignoring RUNLET_LANGS entry %q with empty command\n", entry)
			continue
		}
		registry.Register(executor.Binding{
			Extension:   parts[0],
			DisplayName: parts[1],
			Command:     command,
		})
	}
	return registry
}

func shellFromEnv() []string {
	if spec := os.Getenv("RUNLET_SHELL"); spec != "" {
		if argv := strings.Fields(spec); len(argv) > 0 {
			return argv
		}
	}
	return executor.DefaultShell()
}

func timeoutFromEnv() time.Duration {
	spec := os.Getenv("RUNLET_TIMEOUT")
	if spec == "" {
		return 0
	}
	d, err := time.ParseDuration(spec)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: invalid RUNLET_TIMEOUT %q: %v\n", spec, err)
		return 0
	}
	return d
}
