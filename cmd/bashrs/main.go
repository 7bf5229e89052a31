// Command bashrs lints and purifies shell scripts: it parses them, runs
// the registered rule set, and can rewrite them into deterministic,
// idempotent, safely quoted POSIX sh.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"bashrs/internal/version"
)

var rootCmd = &cobra.Command{
	Use:           "bashrs",
	Short:         "Shell script purifier and linter",
	Long:          `bashrs analyzes shell scripts for safety, determinism, idempotency, and POSIX portability, and rewrites them into clean /bin/sh source.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// exitError carries a process exit code through cobra's error return.
// code 1: findings / refused purification, 2: parse error, 3: I/O error.
type exitError struct {
	code int
	msg  string
}

func (e *exitError) Error() string { return e.msg }

func exitErr(code int, format string, args ...any) *exitError {
	return &exitError{code: code, msg: fmt.Sprintf(format, args...)}
}

func main() {
	rootCmd.Version = version.VersionString()

	rootCmd.AddCommand(lintCmd)
	rootCmd.AddCommand(purifyCmd)
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("shell", "sh", "target shell for rule filtering (sh|bash|dash|ash|zsh|ksh)")
	rootCmd.PersistentFlags().String("format", "human", "diagnostic format (human|json)")
	rootCmd.PersistentFlags().String("severity", "style", "minimum severity to report (error|warning|info|style)")
	rootCmd.PersistentFlags().String("config", "", "path to config file")
	rootCmd.PersistentFlags().Bool("no-color", false, "plaintext diagnostics")
	rootCmd.PersistentFlags().Int("max-diagnostics", 500, "maximum number of diagnostics to collect")

	if err := rootCmd.Execute(); err != nil {
		var ee *exitError
		if errors.As(err, &ee) {
			if ee.msg != "" {
				fmt.Fprintln(os.Stderr, "bashrs: "+ee.msg)
			}
			os.Exit(ee.code)
		}
		fmt.Fprintln(os.Stderr, "bashrs: "+err.Error())
		os.Exit(1)
	}
}

// isTerminal reports whether f is attached to a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
