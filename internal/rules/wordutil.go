package rules

import (
	"strings"

	"bashrs/internal/ast"
	"bashrs/internal/diag"
	"bashrs/internal/source"
)

// literalText returns w's text if every part is a Literal (no quoting, no
// expansion), and ok=false otherwise. Used to match command/argument names
// like "mkdir" or "-p" that must be plain text to mean what they look like.
func literalText(w *ast.Word) (string, bool) {
	if w == nil {
		return "", false
	}
	var b strings.Builder
	for _, p := range w.Parts {
		lit, ok := p.(*ast.Literal)
		if !ok {
			return "", false
		}
		b.WriteString(lit.Text)
	}
	return b.String(), true
}

// rawText renders w's approximate source text regardless of part kind,
// for diagnostic messages and simple structural checks (not for re-emission).
func rawText(w *ast.Word) string {
	if w == nil {
		return ""
	}
	var b strings.Builder
	for _, p := range w.Parts {
		writeRawPart(&b, p)
	}
	return b.String()
}

func writeRawPart(b *strings.Builder, p ast.WordPart) {
	switch n := p.(type) {
	case *ast.Literal:
		b.WriteString(n.Text)
	case *ast.SingleQuoted:
		b.WriteByte('\'')
		b.WriteString(n.Text)
		b.WriteByte('\'')
	case *ast.DoubleQuoted:
		b.WriteByte('"')
		for _, in := range n.Parts {
			writeRawPart(b, in)
		}
		b.WriteByte('"')
	case *ast.ParamExpansion:
		b.WriteString("${")
		b.WriteString(n.Name)
		b.WriteString("}")
	case *ast.CommandSubst:
		b.WriteString("$(...)")
	case *ast.ArithSubst:
		b.WriteString("$((...))")
	case *ast.Glob:
		b.WriteString(n.Pattern)
	}
}

// isUnquotedParamExpansion reports whether part is a bare $VAR/${VAR}
// appearing directly as (or as the entirety of) a word, i.e. not wrapped
// in DoubleQuoted and not inside an arithmetic/test-safe position — the
// caller is responsible for knowing the position is unsafe.
func isUnquotedParamExpansion(p ast.WordPart) (*ast.ParamExpansion, bool) {
	pe, ok := p.(*ast.ParamExpansion)
	return pe, ok
}

// hasUnquotedExpansion reports whether w contains a ParamExpansion or
// CommandSubst part directly (not nested inside DoubleQuoted/SingleQuoted),
// and is not itself a pure glob/literal word.
func hasUnquotedExpansion(w *ast.Word) bool {
	for _, p := range w.Parts {
		switch p.(type) {
		case *ast.ParamExpansion, *ast.CommandSubst:
			return true
		}
	}
	return false
}

// withFix attaches a single-edit fix to d. Replacement fixes carry the
// original text as an OldText guard so stale spans are skipped rather than
// misapplied.
func withFix(d *diag.Diagnostic, title string, edits ...diag.TextEdit) *diag.Diagnostic {
	nd := d.WithFix(title, edits...)
	return &nd
}

// replaceEdit builds a guarded replacement of bsp's current text.
func replaceEdit(file *source.File, bsp source.ByteSpan, newText string) diag.TextEdit {
	return diag.TextEdit{Span: bsp, NewText: newText, OldText: byteSpanText(file, bsp)}
}

// insertAfterEdit builds an insertion immediately after bsp.
func insertAfterEdit(bsp source.ByteSpan, text string) diag.TextEdit {
	at := source.ByteSpan{File: bsp.File, Start: bsp.End, End: bsp.End}
	return diag.TextEdit{Span: at, NewText: text}
}

func byteSpanText(file *source.File, bsp source.ByteSpan) string {
	if int(bsp.End) > len(file.Content) || bsp.Start > bsp.End {
		return ""
	}
	return string(file.Content[bsp.Start:bsp.End])
}

func span1(file source.FileID) source.Span {
	return source.Span{File: file, Start: source.Position{Line: 1, Col: 1}, End: source.Position{Line: 1, Col: 1}}
}

// commandName returns the literal command name of s if s is a *ast.Command
// with a literal Name, and ok=false otherwise.
func commandName(s ast.Stmt) (*ast.Command, string, bool) {
	cmd, ok := s.(*ast.Command)
	if !ok || cmd.Name == nil {
		return nil, "", false
	}
	name, ok := literalText(cmd.Name)
	return cmd, name, ok
}

// hasFlag reports whether any argument word of cmd is the literal flag f
// (e.g. "-p") or, for combined short flags, contains its letter (e.g. "-rf"
// containing "f" when f=="-f").
func hasFlag(cmd *ast.Command, f string) bool {
	letter := strings.TrimPrefix(f, "-")
	for _, a := range cmd.Args {
		txt, ok := literalText(a)
		if !ok {
			continue
		}
		if txt == f {
			return true
		}
		if strings.HasPrefix(txt, "-") && !strings.HasPrefix(txt, "--") && strings.Contains(txt, letter) {
			return true
		}
	}
	return false
}
