package posix

import "bashrs/internal/ast"

var testUnaryOp = map[ast.TestOp]string{
	ast.TestStrEmpty: "-z", ast.TestStrNonEmpty: "-n",
	ast.TestFileExists: "-e", ast.TestFileRegular: "-f", ast.TestFileDirectory: "-d",
	ast.TestFileReadable: "-r", ast.TestFileWritable: "-w", ast.TestFileExecutable: "-x",
	ast.TestFileSymlink: "-L", ast.TestFileSize: "-s",
}

var testBinaryOp = map[ast.TestOp]string{
	ast.TestEq: "=", ast.TestNe: "!=", ast.TestMatch: "=~", ast.TestLt: "<", ast.TestGt: ">",
	ast.TestNumEq: "-eq", ast.TestNumNe: "-ne", ast.TestNumLt: "-lt", ast.TestNumLe: "-le",
	ast.TestNumGt: "-gt", ast.TestNumGe: "-ge",
}

// printTestStmt renders `[ ... ]`/`[[ ... ]]` exactly as parsed — bracket
// downgrade to `[ ]` happens in the purifier, not here.
func (p *printer) printTestStmt(t *ast.TestStmt) {
	if t.Bracket == ast.BracketDouble {
		p.w.WriteString("[[ ")
	} else {
		p.w.WriteString("[ ")
	}
	p.printTestExpr(t.Expr)
	if t.Bracket == ast.BracketDouble {
		p.w.WriteString(" ]]")
	} else {
		p.w.WriteString(" ]")
	}
}

func (p *printer) printTestExpr(e *ast.TestExpr) {
	if e == nil {
		return
	}
	switch e.Kind {
	case ast.TestKindWord:
		p.printWord(e.Operand)
	case ast.TestKindUnary:
		p.w.WriteString(testUnaryOp[e.Op])
		p.w.Space()
		p.printWord(e.Operand)
	case ast.TestKindBinary:
		p.printWord(e.Left)
		p.w.Space()
		if e.Op == ast.TestMatch {
			p.w.WriteString("=~")
			p.w.Space()
			p.printWord(e.Pattern)
			return
		}
		p.w.WriteString(testBinaryOp[e.Op])
		p.w.Space()
		p.printWord(e.Right)
	case ast.TestKindNot:
		p.w.WriteString("! ")
		p.printTestExpr(e.Sub)
	case ast.TestKindAnd:
		p.printTestExpr(e.X)
		p.w.WriteString(" -a ")
		p.printTestExpr(e.Y)
	case ast.TestKindOr:
		p.printTestExpr(e.X)
		p.w.WriteString(" -o ")
		p.printTestExpr(e.Y)
	}
}
