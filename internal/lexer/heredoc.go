package lexer

import (
	"bashrs/internal/ast"
	"bashrs/internal/diag"
	"bashrs/internal/source"
)

// ScanHeredocBody reads a heredoc body starting at the current cursor
// position, which the parser positions at the first byte of the line
// following the `<<TAG`/`<<-TAG` redirection (heredoc bodies begin after
// the newline that ends the command line they're attached to, not
// immediately after the operator). It scans line by line until a line
// whose (tab-stripped, for `<<-`) content equals tag. A quoted tag
// (`<<'TAG'`/`<<"TAG"`)
// suppresses all expansion inside the body per POSIX, so each body line is
// captured as one Literal part; otherwise each line is scanned for
// `$`/backtick expansions the same way a double-quoted word is.
func (lx *Lexer) ScanHeredocBody(tag string, stripLeadingTabs, quoted bool) (*ast.Word, error) {
	m := lx.cursor.Mark()
	lx.modes.push(ModeHeredocBody)
	defer lx.modes.pop()

	var parts []ast.WordPart
	for {
		lineBody, matched, err := lx.consumeHeredocLine(tag, stripLeadingTabs, quoted)
		if err != nil {
			return nil, err
		}
		if matched {
			break
		}
		parts = append(parts, lineBody...)
	}
	return &ast.Word{Span: lx.cursor.SpanFrom(m), Parts: parts}, nil
}

// consumeHeredocLine consumes one line of the body (including its
// trailing newline, if any). If the line's content equals tag it returns
// matched=true and the line is NOT included in the body.
func (lx *Lexer) consumeHeredocLine(tag string, stripLeadingTabs, quoted bool) (parts []ast.WordPart, matched bool, err error) {
	if stripLeadingTabs {
		for lx.cursor.Peek() == '\t' {
			lx.cursor.Bump()
		}
	}
	contentStart := lx.cursor.Off
	for !lx.cursor.EOF() && lx.cursor.Peek() != '\n' {
		lx.cursor.Bump()
	}
	contentEnd := lx.cursor.Off
	raw := string(lx.file.Content[contentStart:contentEnd])
	atEOF := lx.cursor.EOF()

	if raw == tag {
		if !atEOF {
			lx.cursor.Bump() // consume the terminator's own newline
		}
		return nil, true, nil
	}
	if atEOF {
		return nil, false, errAt(diag.LexUnterminatedHeredoc, lx.cursor.SpanFrom(Mark(contentStart)),
			"heredoc missing terminator \""+tag+"\"")
	}
	lx.cursor.Bump() // this line's newline, part of the body

	lineSpan := source.ByteSpan{File: lx.file.ID, Start: contentStart, End: contentEnd}
	if quoted {
		return []ast.WordPart{&ast.Literal{Span: lineSpan, Text: raw + "\n"}}, false, nil
	}

	expParts, err := lx.scanHeredocLineExpansions(contentStart, contentEnd)
	if err != nil {
		return nil, false, err
	}
	lx.cursor.Off = contentEnd + 1 // the rescan leaves the cursor at contentEnd; step past the newline again
	expParts = append(expParts, &ast.Literal{Span: source.ByteSpan{File: lx.file.ID, Start: contentEnd, End: contentEnd}, Text: "\n"})
	return expParts, false, nil
}

// scanHeredocLineExpansions re-scans the [start,end) byte range — already
// consumed by the raw line scan above — for `$`/backtick expansions,
// treating everything else as literal text, mirroring double-quoted-word
// expansion rules.
func (lx *Lexer) scanHeredocLineExpansions(start, end uint32) ([]ast.WordPart, error) {
	save := lx.cursor
	lx.cursor.Off = start
	var parts []ast.WordPart
	litStart := start
	flushLiteral := func(upTo uint32) {
		if upTo > litStart {
			parts = append(parts, &ast.Literal{
				Span: source.ByteSpan{File: lx.file.ID, Start: litStart, End: upTo},
				Text: string(lx.file.Content[litStart:upTo]),
			})
		}
	}
	for lx.cursor.Off < end {
		ch := lx.cursor.Peek()
		if ch == '$' || ch == '`' {
			flushLiteral(lx.cursor.Off)
			var part ast.WordPart
			var err error
			if ch == '$' {
				part, err = lx.scanDollar()
			} else {
				part, err = lx.scanBacktick()
			}
			if err != nil {
				lx.cursor = save
				return nil, err
			}
			parts = append(parts, part)
			litStart = lx.cursor.Off
			continue
		}
		if ch == '\\' && lx.cursor.Off+1 < end {
			lx.cursor.Bump()
			lx.cursor.Bump()
			continue
		}
		lx.cursor.Bump()
	}
	flushLiteral(end)
	lx.cursor.Off = end
	return parts, nil
}
