package purify

import (
	"bashrs/internal/ast"
	"bashrs/internal/diag"
	"bashrs/internal/source"
)

var nonDeterministicParamNames = map[string]diag.Code{
	"RANDOM":       diag.DET001,
	"$":            diag.DET003,
	"BASHPID":      diag.DET003,
	"EPOCHSECONDS": diag.DET002,
	"SECONDS":      diag.DET002,
}

var nonDeterministicCommandCodes = map[string]diag.Code{
	"date":     diag.DET002,
	"hostname": diag.DET005,
	"uuidgen":  diag.DET006,
}

// replaceNonDeterministic substitutes every non-deterministic value source
// reachable from s's words with a fixed `${VERSION:-<policy.Version>}`
// parameter expansion, and appends `| sort` to an unsorted `$(ls ...)`
// command substitution.
func (c *ctx) replaceNonDeterministic(s ast.Stmt) {
	for _, wp := range wordsOf(s) {
		c.rewriteWordParts(wp)
	}
}

func wordsOf(s ast.Stmt) []**ast.Word {
	var out []**ast.Word
	switch n := s.(type) {
	case *ast.Assignment:
		out = append(out, &n.Value)
		for i := range n.ArrayWords {
			out = append(out, &n.ArrayWords[i])
		}
	case *ast.Command:
		for _, a := range n.Assigns {
			out = append(out, &a.Value)
		}
		for i := range n.Args {
			out = append(out, &n.Args[i])
		}
	case *ast.For:
		for i := range n.Words {
			out = append(out, &n.Words[i])
		}
	case *ast.Case:
		out = append(out, &n.Subject)
	}
	return out
}

// rewriteWordParts walks w's parts (and, recursively, the parts nested
// inside a DoubleQuoted), replacing any ParamExpansion naming a
// non-deterministic special parameter and any CommandSubst whose last
// statement invokes a non-deterministic source command.
func (c *ctx) rewriteWordParts(w **ast.Word) {
	if w == nil || *w == nil {
		return
	}
	(*w).Parts = c.rewritePartList((*w).Parts)
}

func (c *ctx) rewritePartList(parts []ast.WordPart) []ast.WordPart {
	for i, p := range parts {
		switch n := p.(type) {
		case *ast.DoubleQuoted:
			n.Parts = c.rewritePartList(n.Parts)
		case *ast.ParamExpansion:
			if code, bad := nonDeterministicParamNames[n.Name]; bad {
				c.report(diag.SevWarning, code, n.Span, "$"+n.Name+" is non-deterministic; replaced with ${VERSION}")
				parts[i] = c.versionExpansion(n.Span)
			}
		case *ast.CommandSubst:
			name, ok := soleCommandName(n)
			if !ok {
				continue
			}
			if code, bad := nonDeterministicCommandCodes[name]; bad {
				c.report(diag.SevWarning, code, n.Span, "command substitution of "+name+" is non-deterministic; replaced with ${VERSION}")
				parts[i] = c.versionExpansion(n.Span)
				continue
			}
			if name == "uname" {
				last := n.Body[len(n.Body)-1]
				if p, ok := last.(*ast.Pipeline); ok {
					last = p.Stages[len(p.Stages)-1]
				}
				if cmd, ok := last.(*ast.Command); !ok || !hasFlag(cmd, "-n") {
					continue
				}
				c.report(diag.SevWarning, diag.DET005, n.Span, "uname -n is host-dependent; replaced with ${VERSION}")
				parts[i] = c.versionExpansion(n.Span)
				continue
			}
			if name == "ls" && appendSortStage(n) {
				c.report(diag.SevInfo, diag.DET004, n.Span, "appended | sort so ls enumeration order is deterministic")
			}
		}
	}
	return parts
}

// versionExpansion builds a `${VERSION:-<policy.Version>}` parameter
// expansion anchored at span, replacing a non-deterministic word part.
func (c *ctx) versionExpansion(span source.ByteSpan) *ast.ParamExpansion {
	return &ast.ParamExpansion{
		Span:      span,
		Name:      "VERSION",
		Op:        ast.ParamExpDefault,
		ColonForm: true,
		RHS: &ast.Word{
			Span:  span,
			Parts: []ast.WordPart{&ast.Literal{Span: span, Text: c.policy.Version}},
		},
	}
}

// soleCommandName reports the literal command name of the last statement
// in a command substitution's body, used to recognize `$(date ...)` etc.
// Only a bare, unpiped-or-last-in-pipeline command is matched.
func soleCommandName(cs *ast.CommandSubst) (string, bool) {
	if len(cs.Body) == 0 {
		return "", false
	}
	last := cs.Body[len(cs.Body)-1]
	if p, ok := last.(*ast.Pipeline); ok {
		if len(p.Stages) == 0 {
			return "", false
		}
		last = p.Stages[len(p.Stages)-1]
	}
	cmd, ok := last.(*ast.Command)
	if !ok || cmd.Name == nil {
		return "", false
	}
	return wordLiteral(cmd.Name)
}

func wordLiteral(w *ast.Word) (string, bool) {
	if len(w.Parts) != 1 {
		return "", false
	}
	lit, ok := w.Parts[0].(*ast.Literal)
	if !ok {
		return "", false
	}
	return lit.Text, true
}

// appendSortStage rewrites cs's body so its last statement is piped
// through `sort`, unless it already is. Reports whether it changed anything.
func appendSortStage(cs *ast.CommandSubst) bool {
	if len(cs.Body) == 0 {
		return false
	}
	last := cs.Body[len(cs.Body)-1]
	sortStage := sortCommand(cs.Span)
	if p, ok := last.(*ast.Pipeline); ok {
		if len(p.Stages) > 0 {
			if cmd, ok := p.Stages[len(p.Stages)-1].(*ast.Command); ok && cmd.Name != nil {
				if name, ok := wordLiteral(cmd.Name); ok && name == "sort" {
					return false
				}
			}
		}
		p.Stages = append(p.Stages, sortStage)
		return true
	}
	cs.Body[len(cs.Body)-1] = &ast.Pipeline{Span: cs.Span, Stages: []ast.Stmt{last, sortStage}}
	return true
}

func sortCommand(bsp source.ByteSpan) *ast.Command {
	return &ast.Command{
		Span: bsp,
		Name: &ast.Word{Span: bsp, Parts: []ast.WordPart{&ast.Literal{Span: bsp, Text: "sort"}}},
	}
}
