package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var langsCmd = &cobra.Command{
	Use:   "langs",
	Short: "List supported script languages",
	Long: `List the file extensions runlet knows how to run and the interpreter
each one maps to, including bindings added through RUNLET_LANGS.`,
	Run: runLangs,
}

func init() {
	rootCmd.AddCommand(langsCmd)
}

func runLangs(cmd *cobra.Command, args []string) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%-8s %-12s %s\n", "EXT", "LANGUAGE", "COMMAND")
	for _, b := range buildRegistry().Bindings() {
		fmt.Fprintf(out, "%-8s %-12s %s <script>\n", b.Extension, b.DisplayName, strings.Join(b.Command, " "))
	}
}
