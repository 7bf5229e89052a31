package parser

import (
	"bashrs/internal/ast"
	"bashrs/internal/diag"
	"bashrs/internal/token"
)

// parseTestStmt parses `[ expr ]` or `[[ expr ]]`. The opening bracket was
// already consumed by the caller's dispatch in parseCompoundOrSimple — '['
// only reaches that dispatch when NextOperator claims it at a fresh word
// boundary, which scan_word.go's glob dispatch never does, so there's no
// ambiguity with a glob-bracket word part.
func (p *Parser) parseTestStmt(kind ast.BracketKind) ast.Stmt {
	start := p.cur.byteSpan()
	p.advance() // '[' or '[['
	tp := &testParser{p: p, bracket: kind}
	expr := tp.parseOr()
	end := p.cur.byteSpan()
	closeKind := token.RBracket
	if kind == ast.BracketDouble {
		closeKind = token.RDBracket
	}
	if p.atOp(closeKind) {
		p.advance()
	} else {
		p.report(diag.SynUnclosedConstruct, end, "unclosed test expression")
	}
	return &ast.TestStmt{Span: coverByteSpan(start, end), Bracket: kind, Expr: expr}
}

// testParser holds the test-expression grammar's own precedence chain,
// separate from the arithmetic one: `!` binds tightest, then `&&`/`-a`,
// then `||`/`-o`. The `-a`/`-o` word forms are POSIX `[ ]` syntax only;
// `[[ ]]` uses the `&&`/`||` shell operators, recognized uniformly here
// since accepting both in either bracket kind is harmless.
type testParser struct {
	p       *Parser
	bracket ast.BracketKind
}

func (tp *testParser) parseOr() *ast.TestExpr {
	left := tp.parseAnd()
	for tp.isOr() {
		tp.p.advance()
		right := tp.parseAnd()
		if left == nil || right == nil {
			continue
		}
		left = &ast.TestExpr{Span: coverByteSpan(left.Span, right.Span), Kind: ast.TestKindOr, X: left, Y: right}
	}
	return left
}

func (tp *testParser) isOr() bool {
	if tp.p.atOp(token.OrOr) {
		return true
	}
	return !tp.p.cur.isOp && tp.p.cur.text == "-o"
}

func (tp *testParser) parseAnd() *ast.TestExpr {
	left := tp.parseNot()
	for tp.isAnd() {
		tp.p.advance()
		right := tp.parseNot()
		if left == nil || right == nil {
			continue
		}
		left = &ast.TestExpr{Span: coverByteSpan(left.Span, right.Span), Kind: ast.TestKindAnd, X: left, Y: right}
	}
	return left
}

func (tp *testParser) isAnd() bool {
	if tp.p.atOp(token.AndAnd) {
		return true
	}
	return !tp.p.cur.isOp && tp.p.cur.text == "-a"
}

func (tp *testParser) parseNot() *ast.TestExpr {
	if tp.p.atOp(token.Bang) {
		start := tp.p.cur.byteSpan()
		tp.p.advance()
		sub := tp.parseNot()
		end := start
		if sub != nil {
			end = coverByteSpan(start, sub.Span)
		}
		return &ast.TestExpr{Span: end, Kind: ast.TestKindNot, Sub: sub}
	}
	return tp.parsePrimary()
}

var unaryTestOps = map[string]ast.TestOp{
	"-z": ast.TestStrEmpty,
	"-n": ast.TestStrNonEmpty,
	"-e": ast.TestFileExists,
	"-a": ast.TestFileExists, // legacy synonym for -e, shadowed by isAnd() in infix position
	"-f": ast.TestFileRegular,
	"-d": ast.TestFileDirectory,
	"-r": ast.TestFileReadable,
	"-w": ast.TestFileWritable,
	"-x": ast.TestFileExecutable,
	"-L": ast.TestFileSymlink,
	"-h": ast.TestFileSymlink,
	"-s": ast.TestFileSize,
}

var binaryTestOps = map[string]ast.TestOp{
	"=":   ast.TestEq,
	"==":  ast.TestEq,
	"!=":  ast.TestNe,
	"-eq": ast.TestNumEq,
	"-ne": ast.TestNumNe,
	"-lt": ast.TestNumLt,
	"-le": ast.TestNumLe,
	"-gt": ast.TestNumGt,
	"-ge": ast.TestNumGe,
}

func (tp *testParser) parsePrimary() *ast.TestExpr {
	if tp.p.atOp(token.LParen) {
		start := tp.p.cur.byteSpan()
		tp.p.advance()
		inner := tp.parseOr()
		end := tp.p.cur.byteSpan()
		if tp.p.atOp(token.RParen) {
			tp.p.advance()
		} else {
			tp.p.report(diag.SynUnclosedConstruct, end, "expected ')' in test expression")
		}
		if inner != nil {
			inner.Span = coverByteSpan(start, end)
		}
		return inner
	}

	if !tp.p.cur.isOp && tp.p.cur.text != "" {
		if op, ok := unaryTestOps[tp.p.cur.text]; ok {
			start := tp.p.cur.byteSpan()
			tp.p.advance()
			operand := tp.p.cur.word
			end := start
			if operand != nil {
				end = coverByteSpan(start, operand.Span)
				tp.p.advance()
			} else {
				tp.p.report(diag.SynUnexpectedToken, tp.p.cur.byteSpan(), "expected operand for unary test operator")
			}
			return &ast.TestExpr{Span: end, Kind: ast.TestKindUnary, Op: op, Operand: operand}
		}
	}

	left := tp.p.cur.word
	if left == nil {
		tp.p.report(diag.SynUnexpectedToken, tp.p.cur.byteSpan(), "expected test expression operand")
		return nil
	}
	tp.p.advance()
	if op, ok := tp.tryBinaryOp(); ok {
		right := tp.p.cur.word
		if right == nil {
			tp.p.report(diag.SynUnexpectedToken, tp.p.cur.byteSpan(), "expected operand after test operator")
			return &ast.TestExpr{Span: left.Span, Kind: ast.TestKindWord, Operand: left}
		}
		tp.p.advance()
		span := coverByteSpan(left.Span, right.Span)
		if op == ast.TestMatch {
			return &ast.TestExpr{Span: span, Kind: ast.TestKindBinary, Op: op, Left: left, Pattern: right}
		}
		return &ast.TestExpr{Span: span, Kind: ast.TestKindBinary, Op: op, Left: left, Right: right}
	}
	return &ast.TestExpr{Span: left.Span, Kind: ast.TestKindWord, Operand: left}
}

// tryBinaryOp recognizes the operator at the current position. `<`/`>`
// arrive as the Less/Great shell-operator tokens — the same Kind
// redirection uses — disambiguated here purely by never calling tryRedir
// inside a test expression; `=~` arrives as RegexMatch; the rest
// (`=`, `==`, `!=`, `-eq`, ...) arrive as plain words.
func (tp *testParser) tryBinaryOp() (ast.TestOp, bool) {
	switch {
	case tp.p.atOp(token.Less):
		tp.p.advance()
		return ast.TestLt, true
	case tp.p.atOp(token.Great):
		tp.p.advance()
		return ast.TestGt, true
	case tp.p.atOp(token.RegexMatch):
		tp.p.advance()
		return ast.TestMatch, true
	case tp.p.atOp(token.EqEq):
		tp.p.advance()
		return ast.TestEq, true
	case tp.p.atOp(token.BangAssign):
		tp.p.advance()
		return ast.TestNe, true
	}
	if !tp.p.cur.isOp && tp.p.cur.text != "" {
		if op, ok := binaryTestOps[tp.p.cur.text]; ok {
			tp.p.advance()
			return op, true
		}
	}
	return ast.TestNone, false
}
