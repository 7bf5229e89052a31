package purify

import (
	"strconv"
	"strings"

	"bashrs/internal/ast"
	"bashrs/internal/diag"
	"bashrs/internal/source"
)

// rewriteBashisms downgrades constructs the POSIX sh emitter can't express
// as-is: `[[ ]]` becomes `[ ]`, `&>file` becomes `>file 2>&1`, and a
// brace-range word becomes a `$(seq ...)` command substitution. The
// `function NAME { }` keyword form and `==` inside `[ ]` need no AST change
// — the posix emitter always prints the canonical NAME() {} / = spelling
// regardless of which form the source used.
func (c *ctx) rewriteBashisms(s ast.Stmt) ast.Stmt {
	switch n := s.(type) {
	case *ast.TestStmt:
		c.downgradeTestBracket(n)
	case *ast.Command:
		c.splitOutErrRedir(n)
		c.rewriteBraceRanges(n)
	case *ast.For:
		c.rewriteBraceRangesInWords(n.Words)
	}
	return s
}

func (c *ctx) downgradeTestBracket(t *ast.TestStmt) {
	if t.Bracket != ast.BracketDouble {
		return
	}
	t.Bracket = ast.BracketSingle
	c.report(diag.SevWarning, diag.BASH007, t.Span, "downgraded [[ ]] to [ ] for POSIX sh")
}

// splitOutErrRedir rewrites a single `&>target` redirection into the POSIX
// sh equivalent pair `>target 2>&1`.
func (c *ctx) splitOutErrRedir(cmd *ast.Command) {
	var rewritten []*ast.Redir
	changed := false
	for _, r := range cmd.Redirs {
		if r.Op != ast.RedirOutErr {
			rewritten = append(rewritten, r)
			continue
		}
		changed = true
		c.report(diag.SevWarning, diag.BASH009, r.Span, "rewrote &> as >file 2>&1 for POSIX sh")
		rewritten = append(rewritten,
			&ast.Redir{Span: r.Span, FD: 1, Op: ast.RedirOutput, Target: r.Target},
			&ast.Redir{Span: r.Span, FD: 2, Op: ast.RedirDupOutput, DupFD: 1},
		)
	}
	if changed {
		cmd.Redirs = rewritten
	}
}

func (c *ctx) rewriteBraceRanges(cmd *ast.Command) {
	for i := range cmd.Args {
		c.rewriteBraceRangesInWord(cmd.Args[i])
	}
}

func (c *ctx) rewriteBraceRangesInWords(words []*ast.Word) {
	for _, w := range words {
		c.rewriteBraceRangesInWord(w)
	}
}

func (c *ctx) rewriteBraceRangesInWord(w *ast.Word) {
	if w == nil {
		return
	}
	for i, p := range w.Parts {
		lit, ok := p.(*ast.Literal)
		if !ok || !looksLikeBraceRange(lit.Text) {
			continue
		}
		if seq, ok := braceRangeToSeq(lit.Text, lit.Span); ok {
			w.Parts[i] = seq
			c.report(diag.SevInfo, diag.BASH013, lit.Span, "rewrote brace range as $(seq ...) for POSIX sh")
		}
	}
}

func looksLikeBraceRange(s string) bool {
	if !strings.HasPrefix(s, "{") || !strings.HasSuffix(s, "}") {
		return false
	}
	return strings.Contains(s[1:len(s)-1], "..")
}

// braceRangeToSeq parses `{A..B}` or `{A..B..STEP}` (integers only) into a
// `$(seq A STEP B)` command substitution; non-integer or malformed ranges
// are left untouched.
func braceRangeToSeq(text string, span source.ByteSpan) (*ast.CommandSubst, bool) {
	inner := text[1 : len(text)-1]
	fields := strings.Split(inner, "..")
	if len(fields) != 2 && len(fields) != 3 {
		return nil, false
	}
	for _, f := range fields {
		if _, err := strconv.Atoi(f); err != nil {
			return nil, false
		}
	}
	args := []string{fields[0]}
	if len(fields) == 3 {
		args = append(args, fields[2], fields[1])
	} else {
		args = append(args, fields[1])
	}
	word := func(text string) *ast.Word {
		return &ast.Word{Span: span, Parts: []ast.WordPart{&ast.Literal{Span: span, Text: text}}}
	}
	cmd := &ast.Command{Span: span, Name: word("seq")}
	for _, a := range args {
		cmd.Args = append(cmd.Args, word(a))
	}
	return &ast.CommandSubst{Span: span, Body: []ast.Stmt{cmd}}, true
}
