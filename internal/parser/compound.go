package parser

import (
	"bashrs/internal/ast"
	"bashrs/internal/diag"
	"bashrs/internal/lexer"
	"bashrs/internal/source"
	"bashrs/internal/token"
)

func (p *Parser) parseIf() ast.Stmt {
	start := p.cur.byteSpan()
	p.advance() // 'if'
	var arms []ast.CondArm
	for {
		cond := p.parseAndOrList()
		p.skipSeparators()
		p.expectKeyword(token.KwThen, "expected 'then'")
		body := p.parseStmtList(stopSet{kws: []token.Kind{token.KwElif, token.KwElse, token.KwFi}})
		arms = append(arms, ast.CondArm{Cond: cond, Body: body})
		if p.atKeyword(token.KwElif) {
			p.advance()
			continue
		}
		break
	}
	var elseBody []ast.Stmt
	if p.atKeyword(token.KwElse) {
		p.advance()
		elseBody = p.parseStmtList(stopSet{kws: []token.Kind{token.KwFi}})
	}
	end := p.cur.byteSpan()
	if !p.expectKeyword(token.KwFi, "expected 'fi'") {
		p.report(diag.SynUnclosedConstruct, end, "unclosed 'if'")
	}
	redirs := p.parseRedirs()
	if len(redirs) > 0 {
		end = redirs[len(redirs)-1].Span
	}
	return &ast.If{Span: coverByteSpan(start, end), Arms: arms, Else: elseBody, Redirs: redirs}
}

func (p *Parser) parseLoop() ast.Stmt {
	start := p.cur.byteSpan()
	until := p.atKeyword(token.KwUntil)
	p.advance() // 'while'/'until'
	cond := p.parseAndOrList()
	p.skipSeparators()
	p.expectKeyword(token.KwDo, "expected 'do'")
	body := p.parseStmtList(stopSet{kws: []token.Kind{token.KwDone}})
	end := p.cur.byteSpan()
	if !p.expectKeyword(token.KwDone, "expected 'done'") {
		p.report(diag.SynUnclosedConstruct, end, "unclosed loop")
	}
	redirs := p.parseRedirs()
	if len(redirs) > 0 {
		end = redirs[len(redirs)-1].Span
	}
	return &ast.Loop{Span: coverByteSpan(start, end), Until: until, Cond: cond, Body: body, Redirs: redirs}
}

func (p *Parser) parseFor() ast.Stmt {
	start := p.cur.byteSpan()
	p.advance() // 'for'
	if p.atOp(token.LParen) {
		if k, ok := p.peekSecondOp(); ok && k == token.LParen {
			return p.parseCStyleFor(start)
		}
	}
	name := p.cur.text
	if p.cur.isOp || !isValidName(name) {
		p.report(diag.SynUnexpectedToken, p.cur.byteSpan(), "expected loop variable name")
	} else {
		p.advance()
	}
	var words []*ast.Word
	if p.atKeyword(token.KwIn) {
		p.advance()
		for !p.cur.isOp {
			words = append(words, p.cur.word)
			p.advance()
		}
	}
	p.skipSeparators()
	p.expectKeyword(token.KwDo, "expected 'do'")
	body := p.parseStmtList(stopSet{kws: []token.Kind{token.KwDone}})
	end := p.cur.byteSpan()
	if !p.expectKeyword(token.KwDone, "expected 'done'") {
		p.report(diag.SynUnclosedConstruct, end, "unclosed 'for'")
	}
	redirs := p.parseRedirs()
	if len(redirs) > 0 {
		end = redirs[len(redirs)-1].Span
	}
	return &ast.For{Span: coverByteSpan(start, end), Var: name, Words: words, Body: body, Redirs: redirs}
}

func (p *Parser) parseCStyleFor(start source.ByteSpan) ast.Stmt {
	// One advance() consumes the first '(' and, by fetching the second '('
	// as the resulting lookahead token, already moves the lexer's raw
	// cursor past it too — a second advance() here would tokenize the
	// arithmetic body as ordinary shell syntax before ScanCStyleForClauses
	// ever sees it.
	p.advance()
	initE, condE, stepE, err := p.lx.ScanCStyleForClauses()
	if err != nil {
		p.reportLexErr(err)
	}
	initE = p.resolveArithMaybe(initE)
	condE = p.resolveArithMaybe(condE)
	stepE = p.resolveArithMaybe(stepE)
	p.advance() // resync past the consumed "))"
	p.skipSeparators()
	p.expectKeyword(token.KwDo, "expected 'do'")
	body := p.parseStmtList(stopSet{kws: []token.Kind{token.KwDone}})
	end := p.cur.byteSpan()
	if !p.expectKeyword(token.KwDone, "expected 'done'") {
		p.report(diag.SynUnclosedConstruct, end, "unclosed 'for'")
	}
	redirs := p.parseRedirs()
	if len(redirs) > 0 {
		end = redirs[len(redirs)-1].Span
	}
	return &ast.CStyleFor{Span: coverByteSpan(start, end), Init: initE, Cond: condE, Step: stepE, Body: body, Redirs: redirs}
}

func (p *Parser) parseCase() ast.Stmt {
	start := p.cur.byteSpan()
	p.advance() // 'case'
	var subject *ast.Word
	if p.cur.isOp || p.cur.word == nil {
		p.report(diag.SynUnexpectedToken, p.cur.byteSpan(), "expected case subject")
	} else {
		subject = p.cur.word
		p.advance()
	}
	p.skipSeparators()
	p.expectKeyword(token.KwIn, "expected 'in'")
	p.skipSeparators()
	var arms []ast.CaseArm
	for !p.atKeyword(token.KwEsac) && !p.atEOF() {
		arms = append(arms, p.parseCaseArm())
		p.skipSeparators()
	}
	end := p.cur.byteSpan()
	if !p.expectKeyword(token.KwEsac, "expected 'esac'") {
		p.report(diag.SynUnclosedConstruct, end, "unclosed 'case'")
	}
	redirs := p.parseRedirs()
	if len(redirs) > 0 {
		end = redirs[len(redirs)-1].Span
	}
	return &ast.Case{Span: coverByteSpan(start, end), Subject: subject, Arms: arms, Redirs: redirs}
}

func (p *Parser) parseCaseArm() ast.CaseArm {
	if p.atOp(token.LParen) {
		p.advance() // optional leading '(' before the first pattern
	}
	var patterns []*ast.Word
	for {
		if p.cur.isOp || p.cur.word == nil {
			p.report(diag.SynUnexpectedToken, p.cur.byteSpan(), "expected case pattern")
			break
		}
		patterns = append(patterns, p.cur.word)
		p.advance()
		if p.atOp(token.Pipe) {
			p.advance()
			continue
		}
		break
	}
	if p.atOp(token.RParen) {
		p.advance()
	} else {
		p.report(diag.SynExpectedKeyword, p.cur.byteSpan(), "expected ')' after case pattern")
	}
	body := p.parseStmtList(stopSet{
		ops: []token.Kind{token.SemiSemi, token.SemiAmp, token.SemiSemiAmp},
		kws: []token.Kind{token.KwEsac},
	})
	term := ast.CaseEnd
	switch {
	case p.atOp(token.SemiSemi):
		p.advance()
	case p.atOp(token.SemiAmp):
		term = ast.CaseFallThrough
		p.advance()
	case p.atOp(token.SemiSemiAmp):
		term = ast.CaseResume
		p.advance()
	}
	return ast.CaseArm{Patterns: patterns, Body: body, Terminator: term}
}

func (p *Parser) tryFunctionName() ast.Stmt {
	if p.cur.isOp || p.cur.text == "" || !isValidName(p.cur.text) {
		return nil
	}
	k, ok := p.peekSecondOp()
	if !ok || k != token.LParen {
		return nil
	}
	start := p.cur.byteSpan()
	name := p.cur.text
	p.advance() // name
	p.advance() // '('
	if p.atOp(token.RParen) {
		p.advance()
	} else {
		p.report(diag.SynUnexpectedToken, p.cur.byteSpan(), "expected ')' after function name")
	}
	return p.parseFunctionBody(start, name)
}

func (p *Parser) parseFunctionKw() ast.Stmt {
	start := p.cur.byteSpan()
	p.advance() // 'function'
	name := p.cur.text
	if p.cur.isOp || name == "" {
		p.report(diag.SynUnexpectedToken, p.cur.byteSpan(), "expected function name")
	} else {
		p.advance()
	}
	if p.atOp(token.LParen) {
		p.advance()
		if p.atOp(token.RParen) {
			p.advance()
		} else {
			p.report(diag.SynUnexpectedToken, p.cur.byteSpan(), "expected ')'")
		}
	}
	return p.parseFunctionBody(start, name)
}

func (p *Parser) parseFunctionBody(start source.ByteSpan, name string) ast.Stmt {
	p.skipSeparators()
	var body []ast.Stmt
	var redirs []*ast.Redir
	subshell := false
	switch {
	case p.atOp(token.LBrace):
		if g, ok := p.parseGroup().(*ast.Group); ok {
			body, redirs = g.Body, g.Redirs
		}
	case p.atOp(token.LParen):
		if s, ok := p.parseSubshell().(*ast.Subshell); ok {
			body, redirs, subshell = s.Body, s.Redirs, true
		}
	default:
		if inner := p.parseCompoundOrSimple(); inner != nil {
			body = []ast.Stmt{inner}
		}
	}
	end := start
	if len(body) > 0 {
		end = coverByteSpan(end, body[len(body)-1].StmtSpan())
	}
	if len(redirs) > 0 {
		end = coverByteSpan(end, redirs[len(redirs)-1].Span)
	}
	return &ast.Function{Span: end, Name: name, Body: body, Subshell: subshell, Redirs: redirs}
}

func (p *Parser) parseCoproc() ast.Stmt {
	start := p.cur.byteSpan()
	p.advance() // 'coproc'
	name := ""
	if !p.cur.isOp && isValidName(p.cur.text) {
		if k, ok := p.peekSecondOp(); ok && k == token.LBrace {
			name = p.cur.text
			p.advance()
		}
	}
	var body []ast.Stmt
	var redirs []*ast.Redir
	end := start
	if inner := p.parseCompoundOrSimple(); inner != nil {
		end = inner.StmtSpan()
		switch n := inner.(type) {
		case *ast.Group:
			body, redirs = n.Body, n.Redirs
		case *ast.Subshell:
			body, redirs = n.Body, n.Redirs
		default:
			body = []ast.Stmt{inner}
		}
	}
	return &ast.Coproc{Span: coverByteSpan(start, end), Name: name, Body: body, Redirs: redirs}
}

func (p *Parser) parseGroup() ast.Stmt {
	start := p.cur.byteSpan()
	p.advance() // '{'
	body := p.parseStmtList(stopSet{ops: []token.Kind{token.RBrace}})
	end := p.cur.byteSpan()
	if p.atOp(token.RBrace) {
		p.advance()
	} else {
		p.report(diag.SynUnclosedConstruct, end, "expected '}'")
	}
	redirs := p.parseRedirs()
	if len(redirs) > 0 {
		end = redirs[len(redirs)-1].Span
	}
	return &ast.Group{Span: coverByteSpan(start, end), Body: body, Redirs: redirs}
}

func (p *Parser) parseSubshell() ast.Stmt {
	start := p.cur.byteSpan()
	p.advance() // '('
	body := p.parseStmtList(stopSet{ops: []token.Kind{token.RParen}})
	end := p.cur.byteSpan()
	if p.atOp(token.RParen) {
		p.advance()
	} else {
		p.report(diag.SynUnclosedConstruct, end, "expected ')'")
	}
	redirs := p.parseRedirs()
	if len(redirs) > 0 {
		end = redirs[len(redirs)-1].Span
	}
	return &ast.Subshell{Span: coverByteSpan(start, end), Body: body, Redirs: redirs}
}

// parseArithStmt parses a standalone `(( expr ))` command. Unlike the other
// compound constructs, ArithStmt has no trailing-redirection slot — a
// redirected arithmetic command (`(( x++ )) > log`) is vanishingly rare in
// practice, and the '>' is left for the next statement to (fail to) parse.
func (p *Parser) parseArithStmt(start source.ByteSpan) ast.Stmt {
	// See parseCStyleFor: a single advance() already moves the lexer's raw
	// cursor past both opening parens.
	p.advance()
	raw, err := p.lx.ScanArithCommandBody()
	if err != nil {
		p.reportLexErr(err)
	}
	expr := p.resolveArithMaybe(raw)
	p.advance() // resync past "))"
	end := start
	if raw != nil {
		end = coverByteSpan(end, raw.Span)
	}
	return &ast.ArithStmt{Span: end, Expr: expr}
}

func (p *Parser) parseTrap() ast.Stmt {
	start := p.cur.byteSpan()
	p.advance() // 'trap'
	var handler *ast.Word
	end := start
	if !p.cur.isOp && p.cur.word != nil {
		handler = p.cur.word
		end = coverByteSpan(end, handler.Span)
		p.advance()
	}
	var signals []string
	for !p.cur.isOp {
		if p.cur.word != nil {
			end = coverByteSpan(end, p.cur.word.Span)
			if p.cur.text != "" {
				signals = append(signals, p.cur.text)
			}
		}
		p.advance()
	}
	return &ast.Trap{Span: end, Handler: handler, Signals: signals}
}

func (p *Parser) parseJump() ast.Stmt {
	start := p.cur.byteSpan()
	var kind ast.JumpKind
	switch p.cur.kw {
	case token.KwBreak:
		kind = ast.JumpBreak
	case token.KwContinue:
		kind = ast.JumpContinue
	case token.KwReturn:
		kind = ast.JumpReturn
	case token.KwExit:
		kind = ast.JumpExit
	}
	p.advance()
	var arg *ast.Word
	end := start
	if !p.cur.isOp && p.cur.word != nil {
		arg = p.cur.word
		end = coverByteSpan(end, arg.Span)
		p.advance()
	}
	return &ast.Jump{Span: end, Kind: kind, Arg: arg}
}

func (p *Parser) reportLexErr(err error) {
	if le, ok := err.(*lexer.Error); ok {
		p.report(le.Code, le.Span, le.Msg)
		return
	}
	p.report(diag.SynUnexpectedToken, p.cur.byteSpan(), err.Error())
}
