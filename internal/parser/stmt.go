package parser

import (
	"bashrs/internal/ast"
	"bashrs/internal/diag"
	"bashrs/internal/source"
	"bashrs/internal/token"
)

// stopSet names the tokens that end a statement list: either a bare
// operator (the `)` of a subshell, the `}` of a group) or a keyword that
// only means something as a terminator in the enclosing construct (`fi`,
// `done`, `esac`).
type stopSet struct {
	ops []token.Kind
	kws []token.Kind
}

func (s stopSet) matches(p *Parser) bool {
	if p.cur.isOp {
		for _, k := range s.ops {
			if p.cur.op.Kind == k {
				return true
			}
		}
		return false
	}
	for _, k := range s.kws {
		if p.cur.kw == k {
			return true
		}
	}
	return false
}

func (p *Parser) parseScript() *ast.Script {
	start := p.lx.EmptySpan()
	shebang := p.scanShebang()
	p.advance()
	items := p.parseStmtList(stopSet{})
	end := start
	if len(items) > 0 {
		end = coverByteSpan(end, items[len(items)-1].StmtSpan())
	}
	return &ast.Script{Span: end, Shebang: shebang, Items: items}
}

// scanShebang reads the file's leading `#!...` line directly from the raw
// content, bypassing tokenization entirely — SkipBlank treats '#' as the
// start of an ordinary comment, which would otherwise swallow it as trivia
// before the parser ever saw it.
func (p *Parser) scanShebang() string {
	content := p.file.Content
	if len(content) < 2 || content[0] != '#' || content[1] != '!' {
		return ""
	}
	end := 0
	for end < len(content) && content[end] != '\n' {
		end++
	}
	return string(content[:end])
}

// parseStmtList parses statements until a token in stop is reached or the
// input ends. Heredoc bodies pending from a `<<TAG` redirection are drained
// immediately after the newline that ends their command line — the lexer
// cursor sits exactly at the body's first byte at that point.
func (p *Parser) parseStmtList(stop stopSet) []ast.Stmt {
	var items []ast.Stmt
	for {
		for p.atOp(token.Semicolon) || p.atOp(token.Amp) {
			p.advance()
		}
		for p.atOp(token.Newline) {
			p.drainHeredocs()
			p.advance()
		}
		if stop.matches(p) || p.atEOF() || p.tooManyErrors() {
			break
		}
		before := p.cur.byteSpan()
		stmt := p.parseAndOrList()
		if stmt != nil {
			items = append(items, stmt)
		}
		if p.atOp(token.Semicolon) || p.atOp(token.Amp) || p.atOp(token.Newline) {
			continue
		}
		if stop.matches(p) || p.atEOF() {
			break
		}
		if p.cur.byteSpan() == before {
			p.report(diag.SynUnexpectedToken, p.cur.byteSpan(), "unexpected token")
			p.advance()
		}
	}
	p.drainHeredocs()
	return items
}

func (p *Parser) skipSeparators() {
	for p.atOp(token.Semicolon) || p.atOp(token.Newline) {
		p.advance()
	}
}

func (p *Parser) expectKeyword(k token.Kind, msg string) bool {
	if p.atKeyword(k) {
		p.advance()
		return true
	}
	p.report(diag.SynExpectedKeyword, p.cur.byteSpan(), msg)
	return false
}

func (p *Parser) parseAndOrList() ast.Stmt {
	left := p.parsePipeline()
	for p.atOp(token.AndAnd) || p.atOp(token.OrOr) {
		op := ast.AndOrAnd
		if p.atOp(token.OrOr) {
			op = ast.AndOrOr
		}
		p.advance()
		for p.atOp(token.Newline) {
			p.advance()
		}
		right := p.parsePipeline()
		if left == nil || right == nil {
			break
		}
		left = &ast.AndOr{Span: coverByteSpan(left.StmtSpan(), right.StmtSpan()), Left: left, Op: op, Right: right}
	}
	return left
}

func (p *Parser) parsePipeline() ast.Stmt {
	start := p.cur.byteSpan()
	negated := false
	if p.atOp(token.Bang) {
		negated = true
		p.advance()
	}
	first := p.parseCompoundOrSimple()
	if first == nil {
		if !negated {
			return nil
		}
		return &ast.Pipeline{Span: start, Negated: true}
	}
	stages := []ast.Stmt{first}
	for p.atOp(token.Pipe) || p.atOp(token.PipeAmp) {
		p.advance()
		for p.atOp(token.Newline) {
			p.advance()
		}
		next := p.parseCompoundOrSimple()
		if next == nil {
			break
		}
		stages = append(stages, next)
	}
	if !negated && len(stages) == 1 {
		return stages[0]
	}
	end := coverByteSpan(start, stages[len(stages)-1].StmtSpan())
	return &ast.Pipeline{Span: end, Negated: negated, Stages: stages}
}

// parseCompoundOrSimple dispatches on the current token to the matching
// compound-construct parser, a `name() { }` function definition, or a
// plain simple command.
func (p *Parser) parseCompoundOrSimple() ast.Stmt {
	if p.cur.isOp {
		switch p.cur.op.Kind {
		case token.LParen:
			start := p.cur.byteSpan()
			if k, ok := p.peekSecondOp(); ok && k == token.LParen {
				return p.parseArithStmt(start)
			}
			return p.parseSubshell()
		case token.LBrace:
			return p.parseGroup()
		case token.LDBracket:
			return p.parseTestStmt(ast.BracketDouble)
		case token.LBracket:
			return p.parseTestStmt(ast.BracketSingle)
		}
		return nil
	}

	switch p.cur.kw {
	case token.KwIf:
		return p.parseIf()
	case token.KwWhile, token.KwUntil:
		return p.parseLoop()
	case token.KwFor:
		return p.parseFor()
	case token.KwCase:
		return p.parseCase()
	case token.KwFunction:
		return p.parseFunctionKw()
	case token.KwCoproc:
		return p.parseCoproc()
	case token.KwTrap:
		return p.parseTrap()
	case token.KwBreak, token.KwContinue, token.KwReturn, token.KwExit:
		return p.parseJump()
	case token.KwTime:
		// `time [-p] pipeline`: timing isn't observable from a static AST,
		// so the prefix is consumed and its target parsed as usual.
		p.advance()
		if !p.cur.isOp && (p.cur.text == "-p" || p.cur.text == "--") {
			p.advance()
		}
		return p.parseCompoundOrSimple()
	}

	if fn := p.tryFunctionName(); fn != nil {
		return fn
	}
	return p.parseSimpleCommand()
}

func (p *Parser) parseRedirs() []*ast.Redir {
	var redirs []*ast.Redir
	for {
		r, ok := p.tryRedir()
		if !ok {
			break
		}
		redirs = append(redirs, r)
	}
	return redirs
}

func coverByteSpan(a, b source.ByteSpan) source.ByteSpan {
	return a.Cover(b)
}
