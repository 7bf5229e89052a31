package main

import (
	"os"

	"github.com/spf13/cobra"

	"bashrs/internal/diag"
	"bashrs/internal/posix"
	"bashrs/internal/purify"
	"bashrs/internal/version"
)

var (
	purifyOutput       string
	purifyPipefail     bool
	purifyVersionToken string
)

func init() {
	purifyCmd.Flags().StringVarP(&purifyOutput, "output", "o", "", "write the purified script to a file instead of stdout")
	purifyCmd.Flags().BoolVar(&purifyPipefail, "pipefail", false, "insert `set -o pipefail` after `set -eu`")
	purifyCmd.Flags().StringVar(&purifyVersionToken, "version-token", "unknown", "default value for the ${VERSION} substitution")
}

var purifyCmd = &cobra.Command{
	Use:   "purify [file]",
	Short: "Rewrite a script into deterministic, idempotent POSIX sh",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fset, file, err := loadInput(args)
		if err != nil {
			return err
		}
		script, err := parseShell(cmd, fset, file)
		if err != nil {
			return err
		}

		policy := purify.Policy{Version: purifyVersionToken, PipefailInsert: purifyPipefail}
		result := purify.Purify(file, script, policy, maxDiagnostics(cmd))

		if len(result.Diagnostics) > 0 {
			if err := renderDiagnostics(cmd, cmd.ErrOrStderr(), result.Diagnostics, fset, severityCounts(result.Diagnostics)); err != nil {
				return err
			}
		}
		if result.Refused {
			return exitErr(1, "purification refused; no output written")
		}

		emitted := posix.Format(result.Script, posix.Options{
			Banner: "Purified by bashrs v" + version.Version,
		})
		if purifyOutput != "" {
			if err := os.WriteFile(purifyOutput, emitted.Source, 0o644); err != nil {
				return exitErr(3, "write %s: %v", purifyOutput, err)
			}
			return nil
		}
		if _, err := cmd.OutOrStdout().Write(emitted.Source); err != nil {
			return exitErr(3, "write output: %v", err)
		}
		return nil
	},
}

func severityCounts(diags []diag.Diagnostic) map[diag.Severity]int {
	counts := map[diag.Severity]int{}
	for _, d := range diags {
		counts[d.Severity]++
	}
	return counts
}
