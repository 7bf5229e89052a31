package posix

import (
	"strconv"
	"strings"

	"bashrs/internal/ast"
)

func (p *printer) printWord(w *ast.Word) {
	if w == nil {
		return
	}
	for _, part := range w.Parts {
		p.printPart(part)
	}
}

func (p *printer) printPart(part ast.WordPart) {
	switch n := part.(type) {
	case *ast.Literal:
		p.w.WriteString(n.Text)
	case *ast.SingleQuoted:
		p.w.WriteString("'")
		p.w.WriteString(strings.ReplaceAll(n.Text, "'", `'\''`))
		p.w.WriteString("'")
	case *ast.DoubleQuoted:
		p.w.WriteString(`"`)
		for _, in := range n.Parts {
			p.printPart(in)
		}
		p.w.WriteString(`"`)
	case *ast.ParamExpansion:
		p.printParamExpansion(n)
	case *ast.CommandSubst:
		p.printCommandSubst(n)
	case *ast.ArithSubst:
		p.w.WriteString("$((")
		p.printArith(n.Expr)
		p.w.WriteString("))")
	case *ast.ProcessSubst:
		if n.Dir == ast.ProcessSubstIn {
			p.w.WriteString("<(")
		} else {
			p.w.WriteString(">(")
		}
		p.printStmtListInline(n.Body)
		p.w.WriteString(")")
	case *ast.Glob:
		p.w.WriteString(n.Pattern)
	}
}

// printCommandSubst always emits `$(...)`, the POSIX form — never
// backticks, even if the source used them.
func (p *printer) printCommandSubst(cs *ast.CommandSubst) {
	p.w.WriteString("$(")
	p.printStmtListInline(cs.Body)
	p.w.WriteString(")")
}

// printStmtListInline renders a statement list for use inside a
// `$(...)`/`<(...)` word part. A single simple command/pipeline/and-or is
// kept on one line for readability; anything else (multiple statements, a
// compound construct) is rendered as an indented block, which POSIX sh
// allows inside command substitution just as well.
func (p *printer) printStmtListInline(stmts []ast.Stmt) {
	if len(stmts) == 1 && isSimpleInline(stmts[0]) {
		p.printStmtBody(stmts[0])
		trimTrailingNewline(p.w)
		return
	}
	p.w.Newline()
	p.w.IndentPush()
	p.printStmtList(stmts)
	p.w.IndentPop()
}

func isSimpleInline(s ast.Stmt) bool {
	switch s.(type) {
	case *ast.Command, *ast.Pipeline, *ast.AndOr, *ast.Assignment, *ast.TestStmt:
		return true
	default:
		return false
	}
}

func trimTrailingNewline(w *Writer) {
	if n := len(w.buf); n > 0 && w.buf[n-1] == '\n' {
		w.buf = w.buf[:n-1]
		w.atLineStart = false
	}
}

func (p *printer) printParamExpansion(pe *ast.ParamExpansion) {
	simple := pe.Op == ast.ParamExpNone && pe.Offset == nil && pe.Length == nil
	if simple && isSimpleName(pe.Name) {
		p.w.WriteString("$")
		p.w.WriteString(pe.Name)
		return
	}
	switch pe.Op {
	case ast.ParamExpLength:
		p.w.WriteString("${#" + pe.Name + "}")
		return
	case ast.ParamExpIndirection:
		p.w.WriteString("${!" + pe.Name + "}")
		return
	}
	p.w.WriteString("${")
	p.w.WriteString(pe.Name)
	switch pe.Op {
	case ast.ParamExpNone:
	case ast.ParamExpDefault:
		p.writeOpRHS(pe, "-")
	case ast.ParamExpAssign:
		p.writeOpRHS(pe, "=")
	case ast.ParamExpError:
		p.writeOpRHS(pe, "?")
	case ast.ParamExpAlternate:
		p.writeOpRHS(pe, "+")
	case ast.ParamExpRemoveShortestPrefix:
		p.w.WriteString("#")
		p.printWord(pe.RHS)
	case ast.ParamExpRemoveLongestPrefix:
		p.w.WriteString("##")
		p.printWord(pe.RHS)
	case ast.ParamExpRemoveShortestSuffix:
		p.w.WriteString("%")
		p.printWord(pe.RHS)
	case ast.ParamExpRemoveLongestSuffix:
		p.w.WriteString("%%")
		p.printWord(pe.RHS)
	case ast.ParamExpSubstring:
		p.w.WriteString(":")
		if pe.Offset != nil {
			p.printArith(pe.Offset)
		}
		if pe.Length != nil {
			p.w.WriteString(":")
			p.printArith(pe.Length)
		}
	default:
		// Replace/case-conversion operators have no portable POSIX sh
		// equivalent; emitted in their original spelling since the
		// purifier does not rewrite them (out of scope — see DESIGN.md).
		p.w.WriteString(paramExpOpSpelling[pe.Op])
		if pe.RHS != nil {
			p.printWord(pe.RHS)
		}
	}
	p.w.WriteString("}")
}

var paramExpOpSpelling = map[ast.ParamExpOp]string{
	ast.ParamExpReplace:    "/",
	ast.ParamExpReplaceAll: "//",
	ast.ParamExpUpperFirst: "^",
	ast.ParamExpUpperAll:   "^^",
	ast.ParamExpLowerFirst: ",",
	ast.ParamExpLowerAll:   ",,",
}

func (p *printer) writeOpRHS(pe *ast.ParamExpansion, op string) {
	if pe.ColonForm {
		p.w.WriteString(":")
	}
	p.w.WriteString(op)
	p.printWord(pe.RHS)
}

func isSimpleName(name string) bool {
	if name == "" {
		return false
	}
	if name == "@" || name == "*" || name == "#" || name == "?" || name == "$" || name == "!" || name == "-" || name == "0" {
		return true
	}
	if _, err := strconv.Atoi(name); err == nil {
		return true
	}
	for i, r := range name {
		if r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			continue
		}
		if i > 0 && r >= '0' && r <= '9' {
			continue
		}
		return false
	}
	return true
}
