package parser

import (
	"strings"

	"bashrs/internal/ast"
	"bashrs/internal/diag"
	"bashrs/internal/source"
	"bashrs/internal/token"
)

// pendingHeredoc is a `<<TAG`/`<<-TAG` redirection seen on the current
// command line whose body lives on the lines that follow the line's
// terminating newline. drainHeredocs scans the body text once the parser
// reaches that newline and attaches it to redir.Heredoc.
type pendingHeredoc struct {
	redir     *ast.Redir
	tag       string
	stripTabs bool
	quoted    bool
}

// tryRedir consumes one redirection at the current position, returning
// ok=false (and leaving p.cur untouched) if the current token isn't one.
// FD-prefix detection here is adjacency-agnostic: `3>file` and `3 >file`
// parse identically, since by this point the FD is already a separate
// word token rather than raw source bytes. That's an accepted
// simplification — isolating it to tryRedir keeps the looser check out of
// test-expression and arithmetic parsing, where `2<3` must stay a
// comparison rather than a misread redirect.
func (p *Parser) tryRedir() (*ast.Redir, bool) {
	start := p.cur.byteSpan()
	fd := -1
	if !p.cur.isOp && p.cur.text != "" && isAllDigits(p.cur.text) {
		if k, ok := p.peekSecondOp(); ok && isRedirOpKind(k) {
			fd = atoiSimple(p.cur.text)
			p.advance()
		}
	}
	if !p.cur.isOp || !isRedirOpKind(p.cur.op.Kind) {
		if fd != -1 {
			p.report(diag.SynUnexpectedToken, p.cur.byteSpan(), "expected redirection operator after file descriptor")
		}
		return nil, false
	}
	op := redirOpFromToken(p.cur.op.Kind, p.cur.op.Text)
	p.advance()

	if op == ast.RedirHeredoc || op == ast.RedirHeredocTab {
		tagWord := p.cur.word
		if tagWord == nil {
			p.report(diag.SynUnexpectedToken, p.cur.byteSpan(), "expected heredoc tag")
			return &ast.Redir{Span: start, FD: fd, Op: op}, true
		}
		quoted := wordIsQuoted(tagWord)
		tag := wordRawText(tagWord)
		end := tagWord.Span
		p.advance()
		r := &ast.Redir{Span: coverByteSpan(start, end), FD: fd, Op: op, Target: tagWord}
		p.pendingHeredocs = append(p.pendingHeredocs, pendingHeredoc{redir: r, tag: tag, stripTabs: op == ast.RedirHeredocTab, quoted: quoted})
		return r, true
	}

	isDup := op == ast.RedirDupOutput || op == ast.RedirDupInput
	if isDup && !p.cur.isOp && p.cur.text == "-" {
		end := p.cur.byteSpan()
		p.advance()
		return &ast.Redir{Span: coverByteSpan(start, end), FD: fd, Op: op, Closed: true, DupFD: -1}, true
	}

	target := p.cur.word
	if target == nil {
		p.report(diag.SynUnexpectedToken, p.cur.byteSpan(), "expected redirection target")
		return &ast.Redir{Span: start, FD: fd, Op: op, DupFD: -1}, true
	}
	dupFD := -1
	if isDup && isAllDigits(p.cur.text) {
		dupFD = atoiSimple(p.cur.text)
	}
	end := target.Span
	p.advance()
	return &ast.Redir{Span: coverByteSpan(start, end), FD: fd, Op: op, Target: target, DupFD: dupFD}, true
}

// drainHeredocs scans the body of every heredoc pending on the current
// line. Must run while p.cur still holds the Newline token that ends the
// line: the lexer cursor sits at the body's first byte only at that
// point, before advance() moves past it.
func (p *Parser) drainHeredocs() {
	if len(p.pendingHeredocs) == 0 {
		return
	}
	pending := p.pendingHeredocs
	p.pendingHeredocs = nil
	for _, ph := range pending {
		body, err := p.lx.ScanHeredocBody(ph.tag, ph.stripTabs, ph.quoted)
		if err != nil {
			p.reportLexErr(err)
			continue
		}
		ph.redir.Heredoc = &ast.Heredoc{
			Span:      body.Span,
			Tag:       ph.tag,
			StripTabs: ph.stripTabs,
			QuotedTag: ph.quoted,
			Body:      heredocBodyText(p.file.Content, body.Span),
		}
	}
}

// heredocBodyText slices the heredoc body's raw source text out of
// content, dropping the terminator line the scanner's span includes. Raw
// text (rather than the scanned word's parts) keeps `$`-expansions and
// leading tabs byte-for-byte for re-emission.
func heredocBodyText(content []byte, bsp source.ByteSpan) string {
	if int(bsp.End) > len(content) || bsp.Start > bsp.End {
		return ""
	}
	raw := string(content[bsp.Start:bsp.End])
	trimmed := strings.TrimSuffix(raw, "\n")
	i := strings.LastIndexByte(trimmed, '\n')
	if i < 0 {
		return ""
	}
	return raw[:i+1]
}

func redirOpFromToken(k token.Kind, text string) ast.RedirOp {
	switch k {
	case token.Less:
		if text == "<&" {
			return ast.RedirDupInput
		}
		return ast.RedirInput
	case token.Great:
		return ast.RedirOutput
	case token.DGreat:
		return ast.RedirAppend
	case token.DLess:
		return ast.RedirHeredoc
	case token.DLessDash:
		return ast.RedirHeredocTab
	case token.LessGreat:
		return ast.RedirReadWrite
	case token.GreatPipe:
		return ast.RedirNoClobber
	case token.GreatAmp:
		return ast.RedirDupOutput
	case token.AmpGreat:
		return ast.RedirOutErr
	}
	return ast.RedirOutput
}

func isRedirOpKind(k token.Kind) bool {
	switch k {
	case token.Less, token.Great, token.DGreat, token.DLess, token.DLessDash,
		token.LessGreat, token.GreatPipe, token.GreatAmp, token.AmpGreat:
		return true
	}
	return false
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func atoiSimple(s string) int {
	n := 0
	for i := 0; i < len(s); i++ {
		n = n*10 + int(s[i]-'0')
	}
	return n
}

// wordRawText best-effort flattens w's literal and quoted text, ignoring
// expansions — used for heredoc tag matching, where bash itself only
// looks at the literal spelling.
func wordRawText(w *ast.Word) string {
	if w == nil {
		return ""
	}
	var b strings.Builder
	var walk func(parts []ast.WordPart)
	walk = func(parts []ast.WordPart) {
		for _, part := range parts {
			switch pt := part.(type) {
			case *ast.Literal:
				b.WriteString(pt.Text)
			case *ast.SingleQuoted:
				b.WriteString(pt.Text)
			case *ast.DoubleQuoted:
				walk(pt.Parts)
			}
		}
	}
	walk(w.Parts)
	return b.String()
}

// wordIsQuoted reports whether any part of w was quoted — an unquoted
// heredoc tag has its body's expansions honored; a quoted one suppresses
// them entirely.
func wordIsQuoted(w *ast.Word) bool {
	if w == nil {
		return false
	}
	for _, part := range w.Parts {
		switch part.(type) {
		case *ast.SingleQuoted, *ast.DoubleQuoted:
			return true
		}
	}
	return false
}
