package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"bashrs/internal/diag"
	"bashrs/internal/diagfmt"
	"bashrs/internal/dockerfile"
	"bashrs/internal/fix"
	"bashrs/internal/makefile"
	"bashrs/internal/rules"
	"bashrs/internal/source"
)

var lintApplyFixes bool

func init() {
	lintCmd.Flags().BoolVar(&lintApplyFixes, "fix", false, "apply safe auto-fixes in place")
}

var lintCmd = &cobra.Command{
	Use:   "lint [file]",
	Short: "Report safety, determinism, idempotency, and portability findings",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, fset, err := runAnalysis(cmd, args, nil)
		if err != nil {
			return err
		}
		if err := renderDiagnostics(cmd, cmd.OutOrStdout(), result.Diagnostics, fset, result.Counts); err != nil {
			return err
		}
		if lintApplyFixes {
			applied, err := fix.Apply(fset, result.Diagnostics, fix.ApplyOptions{Mode: fix.ApplyModeAll})
			if err != nil && err != fix.ErrNoFixes {
				return exitErr(3, "apply fixes: %v", err)
			}
			for _, change := range applied.FileChanges {
				fmt.Fprintf(cmd.ErrOrStderr(), "fixed %s (%d edits)\n", change.Path, change.EditCount)
			}
		}
		if len(result.Diagnostics) > 0 {
			return exitErr(1, "")
		}
		return nil
	},
}

// runAnalysis loads the input, dispatches on front end, and runs the rule
// engine. cache, when non-nil, is consulted before and updated after rule
// execution (shell front end only).
func runAnalysis(cmd *cobra.Command, args []string, cache *rules.Cache) (rules.Result, *source.FileSet, error) {
	fset, file, err := loadInput(args)
	if err != nil {
		return rules.Result{}, nil, err
	}
	cfg, err := ruleConfig(cmd)
	if err != nil {
		return rules.Result{}, nil, err
	}
	maxDiag := maxDiagnostics(cmd)
	engine := rules.NewEngine(nil)

	switch frontEndFor(file.Path) {
	case rules.DialectMake:
		return engine.RunView(makefile.NewView(file), cfg, maxDiag), fset, nil
	case rules.DialectDocker:
		return engine.RunView(dockerfile.NewView(file), cfg, maxDiag), fset, nil
	}

	var fingerprint string
	var contentHash [32]byte
	if cache != nil {
		contentHash = rules.ContentHash(file.Content)
		// MinSeverity participates in the key: cached results are already
		// severity-filtered, so replaying them under a different floor
		// would be wrong.
		fingerprint = rules.Fingerprint(engine.Registry.ForDialect(rules.DialectSh, cfg.Target)) + ":" + cfg.MinSeverity.String()
		if cached, ok, corrupt := cache.Lookup(file.ID, contentHash, fingerprint); ok {
			counts := map[diag.Severity]int{}
			for _, d := range cached {
				counts[d.Severity]++
			}
			return rules.Result{Diagnostics: cached, Counts: counts}, fset, nil
		} else if corrupt {
			fmt.Fprintf(cmd.ErrOrStderr(), "bashrs: %s: unreadable cache entry, re-running rules\n", diag.CONFIG003)
		}
	}

	script, err := parseShell(cmd, fset, file)
	if err != nil {
		return rules.Result{}, nil, err
	}
	result, err := engine.Run(cmd.Context(), file, script, cfg, maxDiag)
	if err != nil {
		return rules.Result{}, nil, exitErr(3, "rule execution: %v", err)
	}
	if cache != nil {
		if err := cache.Store(fset, contentHash, fingerprint, result.Diagnostics); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "bashrs: cache write failed: %v\n", err)
		}
	}
	return result, fset, nil
}

// renderDiagnostics writes diags to w in the selected --format. counts may
// be nil to suppress the trailing summary line in human format.
func renderDiagnostics(cmd *cobra.Command, w io.Writer, diags []diag.Diagnostic, fset *source.FileSet, counts map[diag.Severity]int) error {
	format, err := outputFormat(cmd)
	if err != nil {
		return err
	}
	if format == "json" {
		if err := diagfmt.JSON(w, diags, fset); err != nil {
			return exitErr(3, "encode diagnostics: %v", err)
		}
		return nil
	}
	colorize := colorEnabled(cmd) && w != os.Stderr
	diagfmt.Pretty(w, diags, fset, diagfmt.PrettyOpts{Color: colorize, ShowFixes: true})
	if counts != nil {
		if len(diags) > 0 {
			fmt.Fprintln(w)
		}
		diagfmt.Summary(w, counts, colorize)
	}
	return nil
}
