package posix

import "bashrs/internal/ast"

func (p *printer) printIf(n *ast.If) {
	for i, arm := range n.Arms {
		if i == 0 {
			p.w.WriteString("if ")
		} else {
			p.w.WriteString("elif ")
		}
		p.printStmtInline(arm.Cond)
		p.w.WriteString("; then")
		p.w.Newline()
		p.w.IndentPush()
		p.printStmtList(arm.Body)
		p.w.IndentPop()
	}
	if len(n.Else) > 0 {
		p.w.WriteString("else")
		p.w.Newline()
		p.w.IndentPush()
		p.printStmtList(n.Else)
		p.w.IndentPop()
	}
	p.w.WriteString("fi")
	p.printRedirs(n.Redirs)
	p.w.Newline()
}

func (p *printer) printLoop(n *ast.Loop) {
	if n.Until {
		p.w.WriteString("until ")
	} else {
		p.w.WriteString("while ")
	}
	p.printStmtInline(n.Cond)
	p.w.WriteString("; do")
	p.w.Newline()
	p.w.IndentPush()
	p.printStmtList(n.Body)
	p.w.IndentPop()
	p.w.WriteString("done")
	p.printRedirs(n.Redirs)
	p.w.Newline()
}

func (p *printer) printFor(n *ast.For) {
	p.w.WriteString("for ")
	p.w.WriteString(n.Var)
	if len(n.Words) > 0 {
		p.w.WriteString(" in")
		for _, w := range n.Words {
			p.w.Space()
			p.printWord(w)
		}
	}
	p.w.WriteString("; do")
	p.w.Newline()
	p.w.IndentPush()
	p.printStmtList(n.Body)
	p.w.IndentPop()
	p.w.WriteString("done")
	p.printRedirs(n.Redirs)
	p.w.Newline()
}

// printCStyleFor emits the bash-only C-style for loop unchanged — the
// purifier does not rewrite it to a POSIX while-loop (out of scope; see
// DESIGN.md), so scripts using it still require bash even after purify.
func (p *printer) printCStyleFor(n *ast.CStyleFor) {
	p.w.WriteString("for ((")
	p.printArith(n.Init)
	p.w.WriteString("; ")
	p.printArith(n.Cond)
	p.w.WriteString("; ")
	p.printArith(n.Step)
	p.w.WriteString(")); do")
	p.w.Newline()
	p.w.IndentPush()
	p.printStmtList(n.Body)
	p.w.IndentPop()
	p.w.WriteString("done")
	p.printRedirs(n.Redirs)
	p.w.Newline()
}

var caseTerminatorText = map[ast.CaseTerminator]string{
	ast.CaseEnd: ";;", ast.CaseFallThrough: ";&", ast.CaseResume: ";;&",
}

func (p *printer) printCase(n *ast.Case) {
	p.w.WriteString("case ")
	p.printWord(n.Subject)
	p.w.WriteString(" in")
	p.w.Newline()
	p.w.IndentPush()
	for _, arm := range n.Arms {
		for i, pat := range arm.Patterns {
			if i > 0 {
				p.w.WriteString("|")
			}
			p.printWord(pat)
		}
		p.w.WriteString(")")
		p.w.Newline()
		p.w.IndentPush()
		p.printStmtList(arm.Body)
		p.w.IndentPop()
		p.w.WriteString(caseTerminatorText[arm.Terminator])
		p.w.Newline()
	}
	p.w.IndentPop()
	p.w.WriteString("esac")
	p.printRedirs(n.Redirs)
	p.w.Newline()
}

// printFunction always emits the POSIX `name() { ... }` form, never
// `function name { ... }` — the keyword form is a bashism the linter flags
// (BASH012); the AST carries no field recording which spelling parsed, so
// the emitter normalizes it here and the purifier has no rewrite for it.
func (p *printer) printFunction(n *ast.Function) {
	p.w.WriteString(n.Name)
	p.w.WriteString("()")
	p.w.Space()
	if n.Subshell {
		p.w.WriteString("(")
	} else {
		p.w.WriteString("{")
	}
	p.w.Newline()
	p.w.IndentPush()
	p.printStmtList(n.Body)
	p.w.IndentPop()
	if n.Subshell {
		p.w.WriteString(")")
	} else {
		p.w.WriteString("}")
	}
	p.printRedirs(n.Redirs)
	p.w.Newline()
}

// printCoproc emits bash's coproc unchanged — POSIX sh has no coprocess
// construct, so this remains a bashism in the output (out of scope for the
// purifier; see DESIGN.md).
func (p *printer) printCoproc(n *ast.Coproc) {
	p.w.WriteString("coproc ")
	if n.Name != "" {
		p.w.WriteString(n.Name)
		p.w.Space()
	}
	p.w.WriteString("{")
	p.w.Newline()
	p.w.IndentPush()
	p.printStmtList(n.Body)
	p.w.IndentPop()
	p.w.WriteString("}")
	p.printRedirs(n.Redirs)
	p.w.Newline()
}
