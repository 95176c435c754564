package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caffeineduck/runlet/executor"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run <script>",
	Short: "Run a saved script through its interpreter",
	Long: `Run a script that has been saved to disk and print its combined
stdout and stderr once it finishes.

The interpreter is chosen by file extension. The process exit status is
mirrored, so a script that exits non-zero makes runlet exit non-zero.`,
	Args: cobra.ExactArgs(1),
	Run:  runRun,
}

func init() {
	runCmd.Flags().Duration("timeout", 0, "Kill the script after this long (0 = wait for exit)")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) {
	timeout, _ := cmd.Flags().GetDuration("timeout")
	if timeout == 0 {
		timeout = timeoutFromEnv()
	}

	scriptPath, err := filepath.Abs(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	runner := executor.NewRunner(buildRegistry())

	var opts []executor.RunOption
	if timeout > 0 {
		opts = append(opts, executor.WithTimeout(timeout))
	}

	result := runner.Run(cmd.Context(), scriptPath, opts...)

	fmt.Print(result.Output)

	if result.Err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v (after %v)\n", result.Err, result.Duration.Round(time.Millisecond))
		os.Exit(1)
	}
	if !result.Succeeded {
		code := result.ExitCode
		if code <= 0 {
			code = 1
		}
		os.Exit(code)
	}
}
