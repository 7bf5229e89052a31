// Package dockerfile is a minimal line-oriented front end over
// Dockerfiles, giving the shared rule engine a rules.SourceView to run
// DOCKER*-family rules against.
package dockerfile

import (
	"strings"

	"bashrs/internal/rules"
	"bashrs/internal/source"
)

// View implements rules.SourceView over one Dockerfile's lines.
type View struct {
	fileID source.FileID
	lines  []string
}

// NewView splits f's content into lines for DOCKER*-rule inspection.
func NewView(f *source.File) *View {
	return &View{fileID: f.ID, lines: strings.Split(string(f.Content), "\n")}
}

func (v *View) Lines() []string        { return v.lines }
func (v *View) FileID() source.FileID  { return v.fileID }
func (v *View) Dialect() rules.Dialect { return rules.DialectDocker }

// instruction splits a Dockerfile line into its instruction keyword and
// the rest, ignoring comments/blank lines.
func instruction(line string) (kw, rest string, ok bool) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return "", "", false
	}
	fields := strings.SplitN(trimmed, " ", 2)
	kw = strings.ToUpper(fields[0])
	if len(fields) == 2 {
		rest = fields[1]
	}
	return kw, rest, true
}
