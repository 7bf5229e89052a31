package main

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"bashrs/internal/ast"
	"bashrs/internal/diag"
	"bashrs/internal/lexer"
	"bashrs/internal/parser"
	"bashrs/internal/rules"
	"bashrs/internal/source"
)

// loadInput resolves the command's single positional argument (or stdin,
// when absent or "-") into a loaded source file.
func loadInput(args []string) (*source.FileSet, *source.File, error) {
	fset := source.NewFileSet()
	if len(args) == 0 || args[0] == "-" {
		content, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, nil, exitErr(3, "read stdin: %v", err)
		}
		id := fset.AddVirtual("<stdin>", content)
		return fset, fset.Get(id), nil
	}
	id, err := fset.Load(args[0])
	if err != nil {
		return nil, nil, exitErr(3, "read %s: %v", args[0], err)
	}
	return fset, fset.Get(id), nil
}

// ruleConfig assembles the per-run rule engine configuration from the
// persistent flags.
func ruleConfig(cmd *cobra.Command) (rules.Config, error) {
	flags := cmd.Root().PersistentFlags()
	shellName, _ := flags.GetString("shell")
	target, ok := rules.ParseShell(shellName)
	if !ok {
		return rules.Config{}, exitErr(3, "unknown shell %q", shellName)
	}
	sevName, _ := flags.GetString("severity")
	minSev, ok := diag.ParseSeverity(sevName)
	if !ok {
		return rules.Config{}, exitErr(3, "unknown severity %q", sevName)
	}
	return rules.Config{Target: target, MinSeverity: minSev}, nil
}

func maxDiagnostics(cmd *cobra.Command) int {
	n, _ := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if n <= 0 {
		n = 500
	}
	return n
}

func outputFormat(cmd *cobra.Command) (string, error) {
	f, _ := cmd.Root().PersistentFlags().GetString("format")
	switch f {
	case "human", "json":
		return f, nil
	}
	return "", exitErr(3, "unknown format %q (must be human or json)", f)
}

// colorEnabled honors --no-color and falls back to TTY detection.
func colorEnabled(cmd *cobra.Command) bool {
	if noColor, _ := cmd.Root().PersistentFlags().GetBool("no-color"); noColor {
		return false
	}
	return isTerminal(os.Stdout)
}

// frontEndFor classifies path into the dialect whose rules should run
// over it. Stdin and anything unrecognized is treated as shell source.
func frontEndFor(path string) rules.Dialect {
	base := strings.ToLower(filepath.Base(path))
	switch {
	case base == "makefile" || base == "gnumakefile" || strings.HasSuffix(base, ".mk"):
		return rules.DialectMake
	case base == "dockerfile" || strings.HasPrefix(base, "dockerfile.") || strings.HasSuffix(base, ".dockerfile"):
		return rules.DialectDocker
	}
	return rules.DialectSh
}

// parseShell parses file, reporting failure as exit code 2. A parse with
// any error-severity diagnostic aborts: partial ASTs are never handed to
// the rule engine or purifier.
func parseShell(cmd *cobra.Command, fset *source.FileSet, file *source.File) (*ast.Script, error) {
	if err := lexer.Validate(file); err != nil {
		if le, ok := err.(*lexer.Error); ok {
			d := diag.NewError(le.Code, fset.Resolve(le.Span), le.Msg)
			if rerr := renderDiagnostics(cmd, os.Stderr, []diag.Diagnostic{d}, fset, nil); rerr != nil {
				return nil, rerr
			}
			return nil, exitErr(2, "")
		}
		return nil, exitErr(2, "%v", err)
	}
	script, bag := parser.Parse(fset, file, parser.Options{MaxErrors: 20})
	if bag != nil && bag.HasErrors() {
		bag.Sort()
		items := bag.Items()
		diags := make([]diag.Diagnostic, len(items))
		for i, d := range items {
			diags[i] = *d
		}
		if err := renderDiagnostics(cmd, os.Stderr, diags, fset, nil); err != nil {
			return nil, err
		}
		return nil, exitErr(2, "")
	}
	return script, nil
}
