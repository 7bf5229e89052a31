package purify

import (
	"bashrs/internal/ast"
	"bashrs/internal/diag"
)

// quoteUnsafeWords wraps every bare ParamExpansion/CommandSubst argument
// word part in DoubleQuoted, for positions where word splitting/globbing
// would otherwise apply: command arguments, assignment values, and
// redirection targets. Safe positions — arithmetic contexts,
// already-quoted parts, `[[ ]]` operands, and intentional splitting
// contexts like a for-in word list — are left unchanged.
func (c *ctx) quoteUnsafeWords(s ast.Stmt) {
	switch n := s.(type) {
	case *ast.Assignment:
		c.quoteWordInPlace(&n.Value)
		for i := range n.ArrayWords {
			c.quoteWordInPlace(&n.ArrayWords[i])
		}
	case *ast.Command:
		for _, a := range n.Assigns {
			c.quoteWordInPlace(&a.Value)
		}
		for i := range n.Args {
			c.quoteWordInPlace(&n.Args[i])
		}
		c.quoteRedirTargets(n.Redirs)
	case *ast.For:
		// n.Words is deliberately left unquoted: the for-in list is an
		// intentional word-splitting position, and quoting a rewritten
		// `$(seq ...)` there would collapse the iteration to one element.
		c.quoteRedirTargets(n.Redirs)
	case *ast.Case:
		c.quoteWordInPlace(&n.Subject)
	}
}

func (c *ctx) quoteRedirTargets(redirs []*ast.Redir) {
	for _, r := range redirs {
		if r.Op == ast.RedirHeredoc || r.Op == ast.RedirHeredocTab {
			continue // heredoc tags are never quoted by this pass
		}
		c.quoteWordInPlace(&r.Target)
	}
}

// quoteWordInPlace wraps w's top-level bare ParamExpansion/CommandSubst
// parts in a DoubleQuoted, leaving Literal/Glob/SingleQuoted/already
// DoubleQuoted parts untouched. A word made entirely of literal/glob parts
// is left alone (nothing unsafe to quote); a word that is already a single
// DoubleQuoted part is idempotently skipped.
func (c *ctx) quoteWordInPlace(w **ast.Word) {
	if w == nil || *w == nil {
		return
	}
	word := *w
	changed := false
	newParts := make([]ast.WordPart, 0, len(word.Parts))
	for _, p := range word.Parts {
		switch pt := p.(type) {
		case *ast.ParamExpansion, *ast.CommandSubst:
			newParts = append(newParts, &ast.DoubleQuoted{Span: p.PartSpan(), Parts: []ast.WordPart{p}})
			changed = true
			_ = pt
		default:
			newParts = append(newParts, p)
		}
	}
	if changed {
		c.report(diag.SevWarning, diag.SEC002, word.Span,
			"unquoted expansion; wrapped in double quotes to prevent word splitting and globbing")
		word.Parts = newParts
	}
}
