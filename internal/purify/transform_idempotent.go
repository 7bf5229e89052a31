package purify

import (
	"strings"

	"bashrs/internal/ast"
	"bashrs/internal/diag"
)

// mkdirP inserts `-p` into a bare `mkdir` invocation so re-running against
// an already-created directory is a no-op instead of an error.
func (c *ctx) mkdirP(cmd *ast.Command) {
	name, ok := commandLiteralName(cmd)
	if !ok || name != "mkdir" || hasFlag(cmd, "-p") {
		return
	}
	prependFlagArg(cmd, "-p")
	c.report(diag.SevWarning, diag.IDEM001, cmd.Span, "inserted -p so mkdir is idempotent")
}

// rmF inserts `-f` into a bare `rm` invocation so re-running against an
// already-removed path is a no-op instead of an error.
func (c *ctx) rmF(cmd *ast.Command) {
	name, ok := commandLiteralName(cmd)
	if !ok || name != "rm" || hasFlag(cmd, "-f") {
		return
	}
	prependFlagArg(cmd, "-f")
	c.report(diag.SevWarning, diag.IDEM002, cmd.Span, "inserted -f so rm is idempotent")
}

// dashDashGuard inserts `--` ahead of mv/cp operands that come from an
// expansion or glob, so a matched filename starting with '-' can't be
// parsed as an option.
func (c *ctx) dashDashGuard(cmd *ast.Command) {
	name, ok := commandLiteralName(cmd)
	if !ok || (name != "mv" && name != "cp") {
		return
	}
	insertAt := -1
	for i, a := range cmd.Args {
		txt, lit := literalText(a)
		if lit && txt == "--" {
			return
		}
		if lit && strings.HasPrefix(txt, "-") {
			continue
		}
		if insertAt == -1 {
			if !wordHasExpansion(a) && !wordHasGlob(a) {
				return
			}
			insertAt = i
		}
	}
	if insertAt == -1 {
		return
	}
	w := &ast.Word{Span: cmd.Span, Parts: []ast.WordPart{&ast.Literal{Span: cmd.Span, Text: "--"}}}
	cmd.Args = append(cmd.Args[:insertAt], append([]*ast.Word{w}, cmd.Args[insertAt:]...)...)
	c.report(diag.SevInfo, diag.SC2035, cmd.Span, "inserted -- so expanded filenames cannot be parsed as options")
}

func wordHasGlob(w *ast.Word) bool {
	for _, p := range w.Parts {
		if _, ok := p.(*ast.Glob); ok {
			return true
		}
	}
	return false
}

// lnSf inserts `-f` into a `ln -s` invocation so re-running against an
// existing link replaces it instead of erroring.
func (c *ctx) lnSf(cmd *ast.Command) {
	name, ok := commandLiteralName(cmd)
	if !ok || name != "ln" || !hasFlag(cmd, "-s") || hasFlag(cmd, "-f") {
		return
	}
	prependFlagArg(cmd, "-f")
	c.report(diag.SevWarning, diag.IDEM003, cmd.Span, "inserted -f so ln -s is idempotent")
}
