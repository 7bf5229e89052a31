// Package parser builds an *ast.Script from shell source, consuming the
// lexer's two entry points (NextOperator for structural punctuation,
// ScanWord for the word grammar) rather than a flat token stream — shell
// word boundaries depend on quoting/expansion state that only the
// lexer's mode stack tracks. The parser also owns everything the lexer
// deliberately left as raw byte spans: the Pratt arithmetic grammar
// inside `$(( ))`/`(( ))`, and recursing a fresh lexer/parser pair over
// command/process substitution bodies.
package parser

import (
	"bashrs/internal/ast"
	"bashrs/internal/diag"
	"bashrs/internal/lexer"
	"bashrs/internal/source"
	"bashrs/internal/token"
)

// defaultMaxDiagnostics bounds the bag Parse allocates when the caller
// doesn't supply its own Reporter.
const defaultMaxDiagnostics = 4096

// Options configures a Parse run.
type Options struct {
	// Reporter receives syntax diagnostics. If nil, Parse allocates a Bag
	// and a BagReporter wrapping it, returned as the second result.
	Reporter diag.Reporter
	// MaxErrors stops parsing once this many syntax errors have been
	// reported (0 means unlimited).
	MaxErrors int
}

// pToken is the parser's one-token lookahead: either a structural
// operator/Newline/EOF token from the lexer, or a scanned Word classified
// as a recognized keyword, a plain identifier-shaped literal, or an
// opaque word.
type pToken struct {
	isOp bool
	op   token.Token

	word *ast.Word
	kw   token.Kind // recognized keyword kind, or token.Invalid
	text string     // plain unquoted literal text; "" if word isn't a single Literal part
}

func (t pToken) byteSpan() source.ByteSpan {
	if t.isOp {
		return t.op.Span
	}
	if t.word != nil {
		return t.word.Span
	}
	return source.ByteSpan{}
}

// Parser holds the state of one parse over a single file.
type Parser struct {
	lx   *lexer.Lexer
	file *source.File
	fset *source.FileSet
	opts Options
	errs int
	cur  pToken

	// pendingHeredocs holds `<<TAG` redirections seen on the current
	// command line whose bodies haven't been scanned yet — drained by
	// drainHeredocs once the line's terminating newline is reached.
	pendingHeredocs []pendingHeredoc
}

// Parse parses f into a Script. The returned Bag is non-nil only when
// opts.Reporter was left nil (Parse then owns diagnostic collection);
// otherwise diagnostics were already delivered to opts.Reporter and the
// second result is nil.
func Parse(fset *source.FileSet, f *source.File, opts Options) (*ast.Script, *diag.Bag) {
	var owned *diag.Bag
	if opts.Reporter == nil {
		owned = diag.NewBag(defaultMaxDiagnostics)
		opts.Reporter = diag.BagReporter{Bag: owned}
	}
	p := &Parser{lx: lexer.New(f), file: f, fset: fset, opts: opts}
	return p.parseScript(), owned
}

// parseSub parses the [start,end) byte range of f as a nested statement
// list, used for command/process substitution bodies whose raw span the
// lexer extracted without recursing.
func parseSub(fset *source.FileSet, f *source.File, start, end uint32, opts Options) []ast.Stmt {
	p := &Parser{lx: lexer.NewSub(f, start, end), file: f, fset: fset, opts: opts}
	p.advance()
	return p.parseStmtList(stopSet{})
}

func (p *Parser) tooManyErrors() bool {
	return p.opts.MaxErrors > 0 && p.errs >= p.opts.MaxErrors
}

func (p *Parser) report(code diag.Code, bsp source.ByteSpan, msg string) {
	p.errs++
	if p.opts.Reporter == nil {
		return
	}
	var sp source.Span
	if p.fset != nil {
		sp = p.fset.Resolve(bsp)
	} else {
		sp = source.Span{File: bsp.File}
	}
	p.opts.Reporter.Report(code, diag.SevError, sp, msg, nil, nil)
}

// advance fetches the next pToken into p.cur, trying the operator grammar
// first and falling back to the word grammar — the order NextOperator's
// own doc comment prescribes.
func (p *Parser) advance() {
	if _, ok := p.lx.PeekOperator(); ok {
		tok, _ := p.lx.NextOperator()
		p.cur = pToken{isOp: true, op: tok}
		return
	}
	p.lx.SkipBlank()
	if p.lx.EOF() {
		p.cur = pToken{isOp: true, op: token.Token{Kind: token.EOF, Span: p.lx.EmptySpan()}}
		return
	}
	w, err := p.lx.ScanWord()
	if err != nil {
		if le, ok := err.(*lexer.Error); ok {
			p.report(le.Code, le.Span, le.Msg)
		} else {
			p.report(diag.SynUnexpectedToken, p.lx.EmptySpan(), err.Error())
		}
		p.cur = pToken{isOp: true, op: token.Token{Kind: token.EOF}}
		return
	}
	if w == nil {
		// Guarantee forward progress on input neither grammar claimed.
		p.report(diag.SynUnexpectedToken, p.lx.EmptySpan(), "unexpected character")
		p.cur = pToken{isOp: true, op: token.Token{Kind: token.EOF}}
		return
	}
	text, plain := plainText(w)
	kw := token.Invalid
	if plain {
		if k, ok := token.LookupKeyword(text); ok {
			kw = k
		}
	}
	p.resolveWordArith(w)
	p.cur = pToken{word: w, kw: kw, text: text}
}

// plainText reports the literal text of w when it consists of exactly one
// unquoted Literal part — the only shape in which a word can be a
// keyword, a bare identifier, or an assignment LHS.
func plainText(w *ast.Word) (string, bool) {
	if w == nil || len(w.Parts) != 1 {
		return "", false
	}
	lit, ok := w.Parts[0].(*ast.Literal)
	if !ok {
		return "", false
	}
	return lit.Text, true
}

func (p *Parser) atOp(k token.Kind) bool  { return p.cur.isOp && p.cur.op.Kind == k }
func (p *Parser) atEOF() bool             { return p.atOp(token.EOF) }
func (p *Parser) atKeyword(k token.Kind) bool {
	return !p.cur.isOp && p.cur.kw == k
}

// peekSecondOp reports the operator kind immediately following the
// current operator token, without consuming either — used to disambiguate
// `((` (arithmetic command) from `(` `(` (nested subshell).
func (p *Parser) peekSecondOp() (token.Kind, bool) {
	return p.lx.PeekOperator()
}

func isValidName(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		ok := c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (i > 0 && c >= '0' && c <= '9')
		if !ok {
			return false
		}
	}
	return true
}
