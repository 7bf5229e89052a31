// Package diagfmt renders diagnostics for human and machine consumers:
// a colorized pretty format with source context and caret underlines, the
// JSON diagnostic format of the CLI contract, a severity-count summary
// banner, and a structural AST dump for the parse command.
package diagfmt

// PathMode specifies how file paths are displayed.
type PathMode uint8

const (
	// PathModeAuto chooses relative or absolute path automatically.
	PathModeAuto PathMode = iota
	// PathModeAbsolute always uses absolute paths.
	PathModeAbsolute
	PathModeRelative
	PathModeBasename
)

// PrettyOpts configures pretty-printing of diagnostics.
type PrettyOpts struct {
	Color     bool
	PathMode  PathMode
	ShowFixes bool
}
