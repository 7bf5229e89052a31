package diagfmt

import (
	"fmt"

	"bashrs/internal/ast"
	"bashrs/internal/source"
)

// Dump converts a parsed script into a plain nested structure of maps,
// slices, and scalars, ready for json or yaml serialization. Spans are
// rendered as compact "line:col-line:col" strings.
func Dump(script *ast.Script, fs *source.FileSet) map[string]any {
	d := dumper{fs: fs}
	items := make([]any, len(script.Items))
	for i, s := range script.Items {
		items[i] = d.stmt(s)
	}
	out := map[string]any{
		"kind":  "script",
		"span":  d.span(script.Span),
		"items": items,
	}
	if script.Shebang != "" {
		out["shebang"] = script.Shebang
	}
	return out
}

type dumper struct {
	fs *source.FileSet
}

func (d *dumper) span(bsp source.ByteSpan) string {
	sp := d.fs.Resolve(bsp)
	return fmt.Sprintf("%d:%d-%d:%d", sp.Start.Line, sp.Start.Col, sp.End.Line, sp.End.Col)
}

func (d *dumper) node(kind string, bsp source.ByteSpan) map[string]any {
	return map[string]any{"kind": kind, "span": d.span(bsp)}
}

func (d *dumper) stmts(stmts []ast.Stmt) []any {
	out := make([]any, len(stmts))
	for i, s := range stmts {
		out[i] = d.stmt(s)
	}
	return out
}

var assignOpName = map[ast.AssignOp]string{
	ast.AssignSet: "=", ast.AssignColonSet: ":=", ast.AssignQuestion: "?=",
	ast.AssignAppend: "+=", ast.AssignBang: "!=",
}

var jumpName = map[ast.JumpKind]string{
	ast.JumpReturn: "return", ast.JumpBreak: "break",
	ast.JumpContinue: "continue", ast.JumpExit: "exit",
}

var caseTermName = map[ast.CaseTerminator]string{
	ast.CaseEnd: ";;", ast.CaseFallThrough: ";&", ast.CaseResume: ";;&",
}

func (d *dumper) stmt(s ast.Stmt) any {
	switch n := s.(type) {
	case *ast.Assignment:
		return d.assignment(n)
	case *ast.Command:
		m := d.node("command", n.Span)
		if len(n.Assigns) > 0 {
			assigns := make([]any, len(n.Assigns))
			for i, a := range n.Assigns {
				assigns[i] = d.assignment(a)
			}
			m["assigns"] = assigns
		}
		if n.Name != nil {
			m["name"] = d.word(n.Name)
		}
		if len(n.Args) > 0 {
			args := make([]any, len(n.Args))
			for i, a := range n.Args {
				args[i] = d.word(a)
			}
			m["args"] = args
		}
		d.addRedirs(m, n.Redirs)
		return m
	case *ast.Pipeline:
		m := d.node("pipeline", n.Span)
		m["negated"] = n.Negated
		m["stages"] = d.stmts(n.Stages)
		return m
	case *ast.AndOr:
		m := d.node("and-or", n.Span)
		if n.Op == ast.AndOrAnd {
			m["op"] = "&&"
		} else {
			m["op"] = "||"
		}
		m["left"] = d.stmt(n.Left)
		m["right"] = d.stmt(n.Right)
		return m
	case *ast.Subshell:
		m := d.node("subshell", n.Span)
		m["body"] = d.stmts(n.Body)
		d.addRedirs(m, n.Redirs)
		return m
	case *ast.Group:
		m := d.node("group", n.Span)
		m["body"] = d.stmts(n.Body)
		d.addRedirs(m, n.Redirs)
		return m
	case *ast.If:
		m := d.node("if", n.Span)
		arms := make([]any, len(n.Arms))
		for i, arm := range n.Arms {
			arms[i] = map[string]any{"cond": d.stmt(arm.Cond), "body": d.stmts(arm.Body)}
		}
		m["arms"] = arms
		if len(n.Else) > 0 {
			m["else"] = d.stmts(n.Else)
		}
		d.addRedirs(m, n.Redirs)
		return m
	case *ast.Loop:
		kind := "while"
		if n.Until {
			kind = "until"
		}
		m := d.node(kind, n.Span)
		m["cond"] = d.stmt(n.Cond)
		m["body"] = d.stmts(n.Body)
		d.addRedirs(m, n.Redirs)
		return m
	case *ast.For:
		m := d.node("for", n.Span)
		m["var"] = n.Var
		if len(n.Words) > 0 {
			words := make([]any, len(n.Words))
			for i, w := range n.Words {
				words[i] = d.word(w)
			}
			m["words"] = words
		}
		m["body"] = d.stmts(n.Body)
		d.addRedirs(m, n.Redirs)
		return m
	case *ast.CStyleFor:
		m := d.node("c-style-for", n.Span)
		if n.Init != nil {
			m["init"] = d.arith(n.Init)
		}
		if n.Cond != nil {
			m["cond"] = d.arith(n.Cond)
		}
		if n.Step != nil {
			m["step"] = d.arith(n.Step)
		}
		m["body"] = d.stmts(n.Body)
		d.addRedirs(m, n.Redirs)
		return m
	case *ast.Case:
		m := d.node("case", n.Span)
		m["subject"] = d.word(n.Subject)
		arms := make([]any, len(n.Arms))
		for i, arm := range n.Arms {
			patterns := make([]any, len(arm.Patterns))
			for j, pat := range arm.Patterns {
				patterns[j] = d.word(pat)
			}
			arms[i] = map[string]any{
				"patterns":   patterns,
				"body":       d.stmts(arm.Body),
				"terminator": caseTermName[arm.Terminator],
			}
		}
		m["arms"] = arms
		d.addRedirs(m, n.Redirs)
		return m
	case *ast.Function:
		m := d.node("function", n.Span)
		m["name"] = n.Name
		m["subshell-body"] = n.Subshell
		m["body"] = d.stmts(n.Body)
		d.addRedirs(m, n.Redirs)
		return m
	case *ast.Coproc:
		m := d.node("coproc", n.Span)
		if n.Name != "" {
			m["name"] = n.Name
		}
		m["body"] = d.stmts(n.Body)
		d.addRedirs(m, n.Redirs)
		return m
	case *ast.TestStmt:
		kind := "test"
		if n.Bracket == ast.BracketDouble {
			kind = "test-extended"
		}
		m := d.node(kind, n.Span)
		m["expr"] = d.testExpr(n.Expr)
		return m
	case *ast.ArithStmt:
		m := d.node("arith", n.Span)
		m["expr"] = d.arith(n.Expr)
		return m
	case *ast.Trap:
		m := d.node("trap", n.Span)
		m["handler"] = d.word(n.Handler)
		m["signals"] = n.Signals
		return m
	case *ast.Jump:
		m := d.node(jumpName[n.Kind], n.Span)
		if n.Arg != nil {
			m["arg"] = d.word(n.Arg)
		}
		return m
	case *ast.Heredoc:
		m := d.node("heredoc", n.Span)
		m["tag"] = n.Tag
		m["quoted-tag"] = n.QuotedTag
		m["strip-tabs"] = n.StripTabs
		m["body"] = n.Body
		return m
	}
	return map[string]any{"kind": "unknown"}
}

func (d *dumper) assignment(a *ast.Assignment) map[string]any {
	m := d.node("assignment", a.Span)
	m["name"] = a.Name
	m["op"] = assignOpName[a.Op]
	if a.Exported {
		m["exported"] = true
	}
	if a.Index != nil {
		m["index"] = d.arith(a.Index)
	}
	if a.ArrayWords != nil {
		words := make([]any, len(a.ArrayWords))
		for i, w := range a.ArrayWords {
			words[i] = d.word(w)
		}
		m["array"] = words
		return m
	}
	if a.Value != nil {
		m["value"] = d.word(a.Value)
	}
	return m
}

var redirOpName = map[ast.RedirOp]string{
	ast.RedirInput: "<", ast.RedirOutput: ">", ast.RedirAppend: ">>",
	ast.RedirHeredoc: "<<", ast.RedirHeredocTab: "<<-", ast.RedirReadWrite: "<>",
	ast.RedirNoClobber: ">|", ast.RedirDupOutput: ">&", ast.RedirDupInput: "<&",
	ast.RedirOutErr: "&>",
}

func (d *dumper) addRedirs(m map[string]any, redirs []*ast.Redir) {
	if len(redirs) == 0 {
		return
	}
	out := make([]any, len(redirs))
	for i, r := range redirs {
		rm := d.node("redir", r.Span)
		rm["op"] = redirOpName[r.Op]
		if r.FD >= 0 {
			rm["fd"] = r.FD
		}
		if r.Closed {
			rm["closed"] = true
		}
		if r.DupFD >= 0 {
			rm["dup-fd"] = r.DupFD
		}
		if r.Target != nil {
			rm["target"] = d.word(r.Target)
		}
		if r.Heredoc != nil {
			rm["heredoc"] = map[string]any{
				"tag":        r.Heredoc.Tag,
				"quoted-tag": r.Heredoc.QuotedTag,
				"strip-tabs": r.Heredoc.StripTabs,
				"body":       r.Heredoc.Body,
			}
		}
		out[i] = rm
	}
	m["redirs"] = out
}

var paramExpOpName = map[ast.ParamExpOp]string{
	ast.ParamExpNone: "", ast.ParamExpDefault: "-", ast.ParamExpAssign: "=",
	ast.ParamExpError: "?", ast.ParamExpAlternate: "+", ast.ParamExpLength: "#len",
	ast.ParamExpRemoveShortestPrefix: "#", ast.ParamExpRemoveLongestPrefix: "##",
	ast.ParamExpRemoveShortestSuffix: "%", ast.ParamExpRemoveLongestSuffix: "%%",
	ast.ParamExpReplace: "/", ast.ParamExpReplaceAll: "//",
	ast.ParamExpUpperFirst: "^", ast.ParamExpUpperAll: "^^",
	ast.ParamExpLowerFirst: ",", ast.ParamExpLowerAll: ",,",
	ast.ParamExpSubstring: ":", ast.ParamExpIndirection: "!",
}

func (d *dumper) word(w *ast.Word) any {
	if w == nil {
		return nil
	}
	parts := make([]any, len(w.Parts))
	for i, p := range w.Parts {
		parts[i] = d.part(p)
	}
	return map[string]any{"kind": "word", "span": d.span(w.Span), "parts": parts}
}

func (d *dumper) part(p ast.WordPart) any {
	switch n := p.(type) {
	case *ast.Literal:
		m := d.node("literal", n.Span)
		m["text"] = n.Text
		return m
	case *ast.SingleQuoted:
		m := d.node("single-quoted", n.Span)
		m["text"] = n.Text
		return m
	case *ast.DoubleQuoted:
		m := d.node("double-quoted", n.Span)
		parts := make([]any, len(n.Parts))
		for i, in := range n.Parts {
			parts[i] = d.part(in)
		}
		m["parts"] = parts
		return m
	case *ast.ParamExpansion:
		m := d.node("param-expansion", n.Span)
		m["name"] = n.Name
		if n.Op != ast.ParamExpNone {
			op := paramExpOpName[n.Op]
			if n.ColonForm {
				op = ":" + op
			}
			m["op"] = op
		}
		if n.RHS != nil {
			m["rhs"] = d.word(n.RHS)
		}
		if n.Offset != nil {
			m["offset"] = d.arith(n.Offset)
		}
		if n.Length != nil {
			m["length"] = d.arith(n.Length)
		}
		return m
	case *ast.CommandSubst:
		m := d.node("command-subst", n.Span)
		m["backtick"] = n.Backtick
		m["body"] = d.stmts(n.Body)
		return m
	case *ast.ArithSubst:
		m := d.node("arith-subst", n.Span)
		m["expr"] = d.arith(n.Expr)
		return m
	case *ast.ProcessSubst:
		m := d.node("process-subst", n.Span)
		if n.Dir == ast.ProcessSubstIn {
			m["dir"] = "in"
		} else {
			m["dir"] = "out"
		}
		m["body"] = d.stmts(n.Body)
		return m
	case *ast.Glob:
		m := d.node("glob", n.Span)
		m["pattern"] = n.Pattern
		return m
	}
	return map[string]any{"kind": "unknown-part"}
}

var arithOpName = map[ast.ArithOp]string{
	ast.ArithAdd: "+", ast.ArithSub: "-", ast.ArithMul: "*", ast.ArithDiv: "/",
	ast.ArithMod: "%", ast.ArithPow: "**", ast.ArithBitAnd: "&", ast.ArithBitOr: "|",
	ast.ArithBitXor: "^", ast.ArithBitNot: "~", ast.ArithShl: "<<", ast.ArithShr: ">>",
	ast.ArithLt: "<", ast.ArithLe: "<=", ast.ArithGt: ">", ast.ArithGe: ">=",
	ast.ArithEq: "==", ast.ArithNe: "!=", ast.ArithLogAnd: "&&", ast.ArithLogOr: "||",
	ast.ArithLogNot: "!", ast.ArithNeg: "-", ast.ArithPos: "+",
	ast.ArithPreIncr: "++", ast.ArithPreDecr: "--", ast.ArithPostIncr: "++",
	ast.ArithPostDecr: "--", ast.ArithAssign: "=", ast.ArithAddAssign: "+=",
	ast.ArithSubAssign: "-=", ast.ArithMulAssign: "*=", ast.ArithDivAssign: "/=",
	ast.ArithModAssign: "%=", ast.ArithAndAssign: "&=", ast.ArithOrAssign: "|=",
	ast.ArithXorAssign: "^=", ast.ArithShlAssign: "<<=", ast.ArithShrAssign: ">>=",
}

func (d *dumper) arith(e *ast.ArithExpr) any {
	if e == nil {
		return nil
	}
	switch e.Kind {
	case ast.ArithKindLiteral:
		m := d.node("arith-literal", e.Span)
		m["value"] = e.Literal
		return m
	case ast.ArithKindIdent:
		m := d.node("arith-ident", e.Span)
		m["name"] = e.Ident
		m["dollar"] = e.IdentDollar
		return m
	case ast.ArithKindUnary:
		m := d.node("arith-unary", e.Span)
		m["op"] = arithOpName[e.Op]
		m["postfix"] = e.Postfix
		m["operand"] = d.arith(e.X)
		return m
	case ast.ArithKindBinary:
		m := d.node("arith-binary", e.Span)
		m["op"] = arithOpName[e.Op]
		m["left"] = d.arith(e.X)
		m["right"] = d.arith(e.Y)
		return m
	case ast.ArithKindTernary:
		m := d.node("arith-ternary", e.Span)
		m["cond"] = d.arith(e.Cond)
		m["then"] = d.arith(e.Then)
		m["else"] = d.arith(e.Else)
		return m
	case ast.ArithKindComma:
		m := d.node("arith-comma", e.Span)
		m["left"] = d.arith(e.Left)
		m["right"] = d.arith(e.Right)
		return m
	}
	return map[string]any{"kind": "unknown-arith"}
}

var testOpName = map[ast.TestOp]string{
	ast.TestStrEmpty: "-z", ast.TestStrNonEmpty: "-n",
	ast.TestFileExists: "-e", ast.TestFileRegular: "-f", ast.TestFileDirectory: "-d",
	ast.TestFileReadable: "-r", ast.TestFileWritable: "-w", ast.TestFileExecutable: "-x",
	ast.TestFileSymlink: "-L", ast.TestFileSize: "-s",
	ast.TestEq: "=", ast.TestNe: "!=", ast.TestMatch: "=~", ast.TestLt: "<", ast.TestGt: ">",
	ast.TestNumEq: "-eq", ast.TestNumNe: "-ne", ast.TestNumLt: "-lt", ast.TestNumLe: "-le",
	ast.TestNumGt: "-gt", ast.TestNumGe: "-ge",
}

func (d *dumper) testExpr(e *ast.TestExpr) any {
	if e == nil {
		return nil
	}
	switch e.Kind {
	case ast.TestKindWord:
		m := d.node("test-word", e.Span)
		m["operand"] = d.word(e.Operand)
		return m
	case ast.TestKindUnary:
		m := d.node("test-unary", e.Span)
		m["op"] = testOpName[e.Op]
		m["operand"] = d.word(e.Operand)
		return m
	case ast.TestKindBinary:
		m := d.node("test-binary", e.Span)
		m["op"] = testOpName[e.Op]
		m["left"] = d.word(e.Left)
		if e.Op == ast.TestMatch {
			m["pattern"] = d.word(e.Pattern)
		} else {
			m["right"] = d.word(e.Right)
		}
		return m
	case ast.TestKindNot:
		m := d.node("test-not", e.Span)
		m["operand"] = d.testExpr(e.Sub)
		return m
	case ast.TestKindAnd:
		m := d.node("test-and", e.Span)
		m["left"] = d.testExpr(e.X)
		m["right"] = d.testExpr(e.Y)
		return m
	case ast.TestKindOr:
		m := d.node("test-or", e.Span)
		m["left"] = d.testExpr(e.X)
		m["right"] = d.testExpr(e.Y)
		return m
	}
	return map[string]any{"kind": "unknown-test"}
}
