package parser

import (
	"bashrs/internal/ast"
	"bashrs/internal/source"
	"bashrs/internal/token"
)

// parseSimpleCommand parses prefix assignments, a command name and its
// arguments, and any redirections interleaved among them (`>out cmd arg`,
// `cmd arg >out arg2` are both legal). A line of bare assignments with no
// command name collapses to the lone Assignment statement; more than one
// such assignment (`FOO=a BAR=b`) has no single-Stmt shape to collapse
// to, so it's carried as a nameless Command instead of being dropped.
func (p *Parser) parseSimpleCommand() ast.Stmt {
	start := p.cur.byteSpan()
	var assigns []*ast.Assignment
	var name *ast.Word
	var args []*ast.Word
	var redirs []*ast.Redir

	for {
		if r, ok := p.tryRedir(); ok {
			redirs = append(redirs, r)
			continue
		}
		if p.cur.isOp || p.cur.word == nil {
			break
		}
		if name == nil {
			if a, ok := p.trySplitAssignment(p.cur.word); ok {
				p.advance()
				if a.Value == nil && p.atOp(token.LParen) {
					a.ArrayWords = p.parseArrayWords()
				}
				assigns = append(assigns, a)
				continue
			}
			name = p.cur.word
			p.advance()
			continue
		}
		args = append(args, p.cur.word)
		p.advance()
	}

	end := start
	if len(assigns) > 0 {
		end = coverByteSpan(end, assigns[len(assigns)-1].Span)
	}
	if name != nil {
		end = coverByteSpan(end, name.Span)
	}
	if len(args) > 0 {
		end = coverByteSpan(end, args[len(args)-1].Span)
	}
	if len(redirs) > 0 {
		end = coverByteSpan(end, redirs[len(redirs)-1].Span)
	}

	if name == nil {
		if len(assigns) == 0 {
			return nil
		}
		if len(assigns) == 1 && len(redirs) == 0 {
			return assigns[0]
		}
		return &ast.Command{Span: end, Assigns: assigns, Redirs: redirs}
	}
	return &ast.Command{Span: end, Name: name, Args: args, Assigns: assigns, Redirs: redirs}
}

// parseArrayWords parses the `( word... )` element list of an
// `arr=(a b c)` / `arr+=(a b)` assignment. The caller has already matched
// the bare trailing '=' and confirmed the next token is '('.
func (p *Parser) parseArrayWords() []*ast.Word {
	p.advance() // '('
	var words []*ast.Word
	for {
		if p.atOp(token.Newline) {
			p.advance()
			continue
		}
		if p.atOp(token.RParen) || p.atEOF() {
			break
		}
		if p.cur.isOp || p.cur.word == nil {
			break
		}
		words = append(words, p.cur.word)
		p.advance()
	}
	if p.atOp(token.RParen) {
		p.advance()
	}
	return words
}

// trySplitAssignment recognizes w as `NAME=value` or `NAME+=value`,
// splitting its leading Literal part. A word like `arr[0]=val` never
// matches: the lexer's context-free word scanner treats the '[' as a
// glob-bracket part rather than literal text, so the first part is just
// "arr" with no '=' in it — indexed-array assignments fall through to a
// plain Command whose Name is the multi-part word, a known limitation.
func (p *Parser) trySplitAssignment(w *ast.Word) (*ast.Assignment, bool) {
	if w == nil || len(w.Parts) == 0 {
		return nil, false
	}
	lit, ok := w.Parts[0].(*ast.Literal)
	if !ok {
		return nil, false
	}
	name, op, rest, ok := splitAssignPrefix(lit.Text)
	if !ok {
		return nil, false
	}
	var valueParts []ast.WordPart
	if rest != "" {
		offset := uint32(len(lit.Text) - len(rest))
		valueParts = append(valueParts, &ast.Literal{
			Span: source.ByteSpan{File: lit.Span.File, Start: lit.Span.Start + offset, End: lit.Span.End},
			Text: rest,
		})
	}
	valueParts = append(valueParts, w.Parts[1:]...)
	var value *ast.Word
	if len(valueParts) > 0 {
		value = &ast.Word{
			Span:  source.ByteSpan{File: w.Span.File, Start: valueParts[0].PartSpan().Start, End: w.Span.End},
			Parts: valueParts,
		}
	}
	return &ast.Assignment{Span: w.Span, Name: name, Op: op, Value: value}, true
}

// splitAssignPrefix splits text into a NAME and trailing `=`/`+=` form.
// Only `=` and `+=` are real shell assignment operators; the other
// AssignOp variants (:=, ?=, !=) exist for config-file assignment forms
// elsewhere in the tree and are never produced here.
func splitAssignPrefix(text string) (string, ast.AssignOp, string, bool) {
	i := 0
	for i < len(text) && isNameByte(text[i], i == 0) {
		i++
	}
	if i == 0 || i >= len(text) {
		return "", 0, "", false
	}
	name := text[:i]
	switch {
	case text[i] == '+' && i+1 < len(text) && text[i+1] == '=':
		return name, ast.AssignAppend, text[i+2:], true
	case text[i] == '=':
		return name, ast.AssignSet, text[i+1:], true
	}
	return "", 0, "", false
}

func isNameByte(c byte, first bool) bool {
	if c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') {
		return true
	}
	return !first && c >= '0' && c <= '9'
}
