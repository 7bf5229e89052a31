// Package suppress scans a source file for `# bashrs-disable*` comment
// directives and filters a rule engine's diagnostics against them. Unlike
// the rule engine, scanning is a raw-line pass over source text rather
// than an AST walk: a directive must be recognizable even in source the
// parser rejected (e.g. so a syntax-error run can still report which lines
// asked to be left alone).
package suppress

import (
	"strings"

	"bashrs/internal/diag"
	"bashrs/internal/source"
)

// Kind identifies which of the four suppression directive forms a comment
// matched.
type Kind uint8

const (
	KindDisable Kind = iota
	KindDisableNextLine
	KindDisableLine
	KindEnable
)

// Directive is one recognized `# bashrs-disable*` comment, together with
// the codes it names (or nil for "all codes").
type Directive struct {
	Kind  Kind
	Codes []diag.Code
	Line  uint32 // 1-based line the comment itself appears on
	Span  source.ByteSpan
}

const (
	markerDisable         = "bashrs-disable"
	markerDisableNextLine = "bashrs-disable-next-line"
	markerDisableLine     = "bashrs-disable-line"
	markerEnable          = "bashrs-enable"
)

// Scan finds every suppression directive comment in file.
func Scan(file *source.File) []Directive {
	var out []Directive
	lines := strings.Split(string(file.Content), "\n")
	var offset uint32
	for i, raw := range lines {
		lineNum := uint32(i + 1)
		idx := strings.Index(raw, "#")
		if idx < 0 {
			offset += uint32(len(raw)) + 1
			continue
		}
		comment := strings.TrimSpace(raw[idx+1:])

		kind, rest, ok := matchMarker(comment)
		if !ok {
			offset += uint32(len(raw)) + 1
			continue
		}
		codes := parseCodes(rest)
		start := offset + uint32(idx)
		end := offset + uint32(len(raw))
		out = append(out, Directive{
			Kind:  kind,
			Codes: codes,
			Line:  lineNum,
			Span:  source.ByteSpan{File: file.ID, Start: start, End: end},
		})
		offset += uint32(len(raw)) + 1
	}
	return out
}

func matchMarker(comment string) (Kind, string, bool) {
	switch {
	case strings.HasPrefix(comment, markerDisableNextLine):
		return KindDisableNextLine, strings.TrimSpace(comment[len(markerDisableNextLine):]), true
	case strings.HasPrefix(comment, markerDisableLine):
		return KindDisableLine, strings.TrimSpace(comment[len(markerDisableLine):]), true
	case strings.HasPrefix(comment, markerEnable):
		return KindEnable, strings.TrimSpace(comment[len(markerEnable):]), true
	case strings.HasPrefix(comment, markerDisable):
		return KindDisable, strings.TrimSpace(comment[len(markerDisable):]), true
	}
	return 0, "", false
}

func parseCodes(rest string) []diag.Code {
	rest = strings.TrimSpace(rest)
	if rest == "" {
		return nil
	}
	parts := strings.Split(rest, ",")
	out := make([]diag.Code, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, diag.Code(p))
	}
	return out
}

// isKnownCode reports whether a directive names a recognized code; an
// unrecognized one produces CONFIG001 rather than being silently
// accepted. It is diag.IsKnownCode, which checks diag's title table.
var isKnownCode = diag.IsKnownCode

// Apply filters diagnostics against directives: a diagnostic on a line
// covered by an active `# bashrs-disable[-line][-next-line]` naming its
// code (or naming no codes at all, meaning "all") is dropped. It also
// appends a CONFIG001 warning for every directive that names an
// unrecognized code.
func Apply(diagnostics []diag.Diagnostic, directives []Directive) []diag.Diagnostic {
	out := make([]diag.Diagnostic, 0, len(diagnostics))
	for _, d := range directives {
		for _, code := range d.Codes {
			if !isKnownCode(code) {
				pos := source.Position{Line: d.Line, Col: 1}
				out = append(out, diag.New(diag.SevWarning, diag.CONFIG001,
					source.Span{File: d.Span.File, Start: pos, End: pos},
					"unrecognized code \""+code.String()+"\" in suppression directive"))
			}
		}
	}

	lineOnly := map[uint32]map[diag.Code]bool{}
	lineOnlyAll := map[uint32]bool{}
	nextLine := map[uint32]map[diag.Code]bool{}
	nextLineAll := map[uint32]bool{}
	for _, d := range directives {
		var target uint32
		var all *map[uint32]bool
		var byCode *map[uint32]map[diag.Code]bool
		switch d.Kind {
		case KindDisableLine:
			target, all, byCode = d.Line, &lineOnlyAll, &lineOnly
		case KindDisableNextLine:
			target, all, byCode = d.Line+1, &nextLineAll, &nextLine
		default:
			continue
		}
		if len(d.Codes) == 0 {
			(*all)[target] = true
			continue
		}
		m := (*byCode)[target]
		if m == nil {
			m = map[diag.Code]bool{}
			(*byCode)[target] = m
		}
		for _, c := range d.Codes {
			m[c] = true
		}
	}

	// fileDisabledAt reports whether code is covered by an active file-scope
	// disable by the time line is reached, walking the KindDisable/KindEnable
	// directives in source order (directives are produced by Scan in the
	// order lines were read, so they're already sorted by Line).
	fileDisabledAt := func(line uint32, code diag.Code) bool {
		all := false
		codes := map[diag.Code]bool{}
		for _, d := range directives {
			if d.Line > line {
				break
			}
			switch d.Kind {
			case KindDisable:
				if len(d.Codes) == 0 {
					all = true
				}
				for _, c := range d.Codes {
					codes[c] = true
				}
			case KindEnable:
				if len(d.Codes) == 0 {
					all = false
					codes = map[diag.Code]bool{}
				}
				for _, c := range d.Codes {
					delete(codes, c)
				}
			}
		}
		return all || codes[code]
	}

	for _, d := range diagnostics {
		line := d.Primary.Start.Line
		if lineOnlyAll[line] || lineOnly[line][d.Code] {
			continue
		}
		if nextLineAll[line] || nextLine[line][d.Code] {
			continue
		}
		if fileDisabledAt(line, d.Code) {
			continue
		}
		out = append(out, d)
	}
	return out
}
