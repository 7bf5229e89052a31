// Package makefile is a minimal line-oriented front end over Makefiles,
// giving the shared rule engine a rules.SourceView to run MAKE*-family
// rules against. It does not build a real Makefile AST — recipe lines,
// target lines, and .PHONY declarations are recognized by their leading
// characters, which is all the MAKE* checks need.
package makefile

import (
	"strings"

	"bashrs/internal/rules"
	"bashrs/internal/source"
)

// View implements rules.SourceView over one Makefile's lines.
type View struct {
	fileID source.FileID
	lines  []string
}

// NewView splits f's content into lines for MAKE*-rule inspection.
func NewView(f *source.File) *View {
	return &View{fileID: f.ID, lines: strings.Split(string(f.Content), "\n")}
}

func (v *View) Lines() []string          { return v.lines }
func (v *View) FileID() source.FileID    { return v.fileID }
func (v *View) Dialect() rules.Dialect   { return rules.DialectMake }

// targetLine reports whether line declares a target (`name: deps...`),
// returning the target name. Recipe lines (leading tab) and comments are
// excluded.
func targetLine(line string) (string, bool) {
	if strings.HasPrefix(line, "\t") {
		return "", false
	}
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return "", false
	}
	if strings.Contains(trimmed, "=") && !strings.Contains(trimmed, ":") {
		return "", false // variable assignment
	}
	idx := strings.Index(line, ":")
	if idx < 0 {
		return "", false
	}
	name := strings.TrimSpace(line[:idx])
	if name == "" || strings.ContainsAny(name, " \t$(){}") {
		return "", false
	}
	return name, true
}
