package posix

import "bashrs/internal/ast"

// printStmt renders s as one or more full lines at the writer's current
// indent level, recording a position-map entry spanning everything it
// writes. Heredoc bodies collected while printing the statement line are
// emitted right after it, before the next statement starts.
func (p *printer) printStmt(s ast.Stmt) {
	p.mark(s, func() {
		p.printStmtBody(s)
		p.flushHeredocs()
	})
}

// printStmtInline renders s without its trailing newline, for positions
// where the statement continues the current line: pipeline stages, and-or
// operands, and if/while/until conditions.
func (p *printer) printStmtInline(s ast.Stmt) {
	p.printStmtBody(s)
	trimTrailingNewline(p.w)
}

// flushHeredocs writes the bodies of every heredoc redirection printed on
// the line just finished, each followed by its terminator tag. Bodies are
// written verbatim: indentation would change their content.
func (p *printer) flushHeredocs() {
	if len(p.heredocs) == 0 {
		return
	}
	pending := p.heredocs
	p.heredocs = nil
	for _, h := range pending {
		p.w.Newline()
		p.w.WriteVerbatim(h.Body)
		if len(h.Body) > 0 && h.Body[len(h.Body)-1] != '\n' {
			p.w.WriteVerbatim("\n")
		}
		p.w.WriteVerbatim(h.Tag + "\n")
	}
}

func (p *printer) printStmtBody(s ast.Stmt) {
	switch n := s.(type) {
	case *ast.Assignment:
		p.printAssignmentLine(n)
	case *ast.Command:
		p.printCommandLine(n)
	case *ast.Pipeline:
		p.printPipelineLine(n)
	case *ast.AndOr:
		p.printAndOrLine(n)
	case *ast.Subshell:
		p.w.WriteString("(")
		p.w.Newline()
		p.w.IndentPush()
		p.printStmtList(n.Body)
		p.w.IndentPop()
		p.w.WriteString(")")
		p.printRedirs(n.Redirs)
		p.w.Newline()
	case *ast.Group:
		p.w.WriteString("{")
		p.w.Newline()
		p.w.IndentPush()
		p.printStmtList(n.Body)
		p.w.IndentPop()
		p.w.WriteString("}")
		p.printRedirs(n.Redirs)
		p.w.Newline()
	case *ast.If:
		p.printIf(n)
	case *ast.Loop:
		p.printLoop(n)
	case *ast.For:
		p.printFor(n)
	case *ast.CStyleFor:
		p.printCStyleFor(n)
	case *ast.Case:
		p.printCase(n)
	case *ast.Function:
		p.printFunction(n)
	case *ast.Coproc:
		p.printCoproc(n)
	case *ast.TestStmt:
		p.printTestStmt(n)
		p.w.Newline()
	case *ast.ArithStmt:
		p.w.WriteString(`: "$((`)
		p.printArith(n.Expr)
		p.w.WriteString(`))"`)
		p.w.Newline()
	case *ast.Trap:
		p.printTrap(n)
		p.w.Newline()
	case *ast.Jump:
		p.printJump(n)
		p.w.Newline()
	case *ast.Heredoc:
		// Heredocs are printed as part of their owning command's redirs;
		// a bare Heredoc statement should not occur in practice.
	}
}

func (p *printer) printAssignmentLine(a *ast.Assignment) {
	if a.Exported {
		p.w.WriteString("export ")
	}
	p.printAssignment(a)
	p.w.Newline()
}

func (p *printer) printAssignment(a *ast.Assignment) {
	p.w.WriteString(a.Name)
	if a.Index != nil {
		p.w.WriteString("[")
		p.printArith(a.Index)
		p.w.WriteString("]")
	}
	p.w.WriteString(assignOpText[a.Op])
	if a.ArrayWords != nil {
		p.w.WriteString("(")
		for i, word := range a.ArrayWords {
			if i > 0 {
				p.w.Space()
			}
			p.printWord(word)
		}
		p.w.WriteString(")")
		return
	}
	p.printWord(a.Value)
}

var assignOpText = map[ast.AssignOp]string{
	ast.AssignSet: "=", ast.AssignColonSet: ":=", ast.AssignQuestion: "?=",
	ast.AssignAppend: "+=", ast.AssignBang: "!=",
}

func (p *printer) printCommandLine(c *ast.Command) {
	p.printCommand(c)
	p.w.Newline()
}

func (p *printer) printCommand(c *ast.Command) {
	for i, a := range c.Assigns {
		if i > 0 {
			p.w.Space()
		}
		p.printAssignment(a)
	}
	if c.Name != nil {
		if len(c.Assigns) > 0 {
			p.w.Space()
		}
		p.printWord(c.Name)
	}
	for _, a := range c.Args {
		p.w.Space()
		p.printWord(a)
	}
	p.printRedirs(c.Redirs)
}

func (p *printer) printPipelineLine(pl *ast.Pipeline) {
	p.printPipeline(pl)
	p.w.Newline()
}

func (p *printer) printPipeline(pl *ast.Pipeline) {
	if pl.Negated {
		p.w.WriteString("! ")
	}
	for i, stage := range pl.Stages {
		if i > 0 {
			p.w.WriteString(" | ")
		}
		p.printStmtInline(stage)
	}
}

func (p *printer) printAndOrLine(a *ast.AndOr) {
	p.printAndOr(a)
	p.w.Newline()
}

func (p *printer) printAndOr(a *ast.AndOr) {
	p.printStmtInline(a.Left)
	if a.Op == ast.AndOrAnd {
		p.w.WriteString(" && ")
	} else {
		p.w.WriteString(" || ")
	}
	p.printStmtInline(a.Right)
}

func (p *printer) printTrap(t *ast.Trap) {
	p.w.WriteString("trap ")
	p.printWord(t.Handler)
	for _, sig := range t.Signals {
		p.w.Space()
		p.w.WriteString(sig)
	}
}

var jumpKeyword = map[ast.JumpKind]string{
	ast.JumpReturn: "return", ast.JumpBreak: "break", ast.JumpContinue: "continue", ast.JumpExit: "exit",
}

func (p *printer) printJump(j *ast.Jump) {
	p.w.WriteString(jumpKeyword[j.Kind])
	if j.Arg != nil {
		p.w.Space()
		p.printWord(j.Arg)
	}
}
