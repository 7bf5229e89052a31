package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"bashrs/internal/diag"
	"bashrs/internal/source"
)

const tabWidth = 8

// visualWidthUpTo computes the visual width of the line prefix ending just
// before the 1-based, code-point-counted column col. Tabs advance to the
// next tab stop; wide runes count per their display width.
func visualWidthUpTo(s string, col uint32, tab int) int {
	if col <= 1 {
		return 0
	}
	visual := 0
	n := uint32(0)
	for _, r := range s {
		if n >= col-1 {
			break
		}
		if r == '\t' {
			visual = (visual + tab) / tab * tab
		} else {
			visual += runewidth.RuneWidth(r)
		}
		n++
	}
	return visual
}

// Pretty renders diagnostics for a terminal. For each one it prints
// `<path>:<line>:<col>: <SEV> <CODE>: <message>`, the offending source
// line with a gutter, and a `~~~^` underline covering the span.
func Pretty(w io.Writer, diags []diag.Diagnostic, fs *source.FileSet, opts PrettyOpts) {
	var (
		errorColor     = color.New(color.FgRed, color.Bold)
		warningColor   = color.New(color.FgYellow, color.Bold)
		infoColor      = color.New(color.FgCyan, color.Bold)
		styleColor     = color.New(color.FgGreen)
		pathColor      = color.New(color.FgWhite, color.Bold)
		codeColor      = color.New(color.FgMagenta)
		lineNumColor   = color.New(color.FgBlue)
		underlineColor = color.New(color.FgRed, color.Bold)
	)

	prev := color.NoColor
	defer func() { color.NoColor = prev }()
	color.NoColor = !opts.Color

	for idx, d := range diags {
		if idx > 0 {
			fmt.Fprintln(w)
		}
		f := fs.Get(d.Primary.File)
		displayPath := formatPath(f, fs, opts.PathMode)

		var sevColored string
		switch d.Severity {
		case diag.SevError:
			sevColored = errorColor.Sprint(d.Severity.String())
		case diag.SevWarning:
			sevColored = warningColor.Sprint(d.Severity.String())
		case diag.SevInfo:
			sevColored = infoColor.Sprint(d.Severity.String())
		default:
			sevColored = styleColor.Sprint(d.Severity.String())
		}

		fmt.Fprintf(w, "%s:%d:%d: %s %s: %s\n",
			pathColor.Sprint(displayPath),
			d.Primary.Start.Line,
			d.Primary.Start.Col,
			sevColored,
			codeColor.Sprint(d.Code.ID()),
			d.Message,
		)

		if f == nil {
			continue
		}
		lineText := f.GetLine(d.Primary.Start.Line)
		if lineText == "" && d.Primary.Start.Line > 1 {
			continue
		}

		lineNumStr := fmt.Sprintf("%3d", d.Primary.Start.Line)
		gutterLen := len(lineNumStr) + 3
		fmt.Fprintf(w, "%s | %s\n", lineNumColor.Sprint(lineNumStr), lineText)

		startCol := d.Primary.Start.Col
		endCol := d.Primary.End.Col
		if d.Primary.End.Line > d.Primary.Start.Line {
			endCol = uint32(len([]rune(lineText))) + 1
		}
		visualStart := visualWidthUpTo(lineText, startCol, tabWidth)
		visualEnd := visualWidthUpTo(lineText, endCol, tabWidth)

		var underline strings.Builder
		for range gutterLen + visualStart {
			underline.WriteByte(' ')
		}
		spanLen := visualEnd - visualStart
		if spanLen <= 0 {
			underline.WriteByte('^')
		} else {
			for i := range spanLen {
				if i == spanLen-1 {
					underline.WriteByte('^')
				} else {
					underline.WriteByte('~')
				}
			}
		}
		fmt.Fprintln(w, underlineColor.Sprint(underline.String()))

		if opts.ShowFixes && len(d.Fixes) > 0 {
			ctx := diag.FixBuildContext{FileSet: fs}
			for _, f := range d.Fixes {
				resolved, err := f.Resolve(ctx)
				if err != nil {
					continue
				}
				fmt.Fprintf(w, "  %s: %s\n", infoColor.Sprint("fix"), resolved.Title)
				for _, edit := range resolved.Edits {
					newText := edit.NewText
					if len(newText) > 48 {
						newText = newText[:45] + "..."
					}
					fmt.Fprintf(w, "      apply=%q\n", newText)
				}
			}
		}
	}
}

func formatPath(f *source.File, fs *source.FileSet, mode PathMode) string {
	if f == nil {
		return "<unknown>"
	}
	switch mode {
	case PathModeAbsolute:
		return f.FormatPath("absolute", "")
	case PathModeRelative:
		return f.FormatPath("relative", fs.BaseDir())
	case PathModeBasename:
		return f.FormatPath("basename", "")
	default:
		return f.FormatPath("auto", "")
	}
}
