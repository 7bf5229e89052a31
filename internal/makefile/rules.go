package makefile

import (
	"strings"

	"bashrs/internal/diag"
	"bashrs/internal/rules"
	"bashrs/internal/source"
)

func init() {
	rules.Default.Register(rules.Rule{Code: diag.MAKE001, Category: rules.CategoryStyle, Compatibility: rules.CompatNA,
		DefaultSeverity: diag.SevWarning, Dialect: rules.DialectMake, View: ruleMAKE001})
	rules.Default.Register(rules.Rule{Code: diag.MAKE002, Category: rules.CategoryStyle, Compatibility: rules.CompatNA,
		DefaultSeverity: diag.SevError, Dialect: rules.DialectMake, View: ruleMAKE002})
	rules.Default.Register(rules.Rule{Code: diag.MAKE003, Category: rules.CategoryStyle, Compatibility: rules.CompatNA,
		DefaultSeverity: diag.SevWarning, Dialect: rules.DialectMake, View: ruleMAKE003})
}

// conventionallyPhonyNames are target names that are phony in nearly every
// real-world Makefile, worth flagging even without inspecting the recipe.
var conventionallyPhonyNames = map[string]bool{
	"all": true, "clean": true, "test": true, "install": true,
	"build": true, "lint": true, "fmt": true, "run": true, "deps": true,
}

// ruleMAKE001 flags a conventionally-phony target name absent from any
// .PHONY declaration.
func ruleMAKE001(view rules.SourceView, cfg rules.Config, bag *diag.Bag) {
	phony := map[string]bool{}
	for _, line := range view.Lines() {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, ".PHONY:") {
			for _, name := range strings.Fields(strings.TrimPrefix(trimmed, ".PHONY:")) {
				phony[name] = true
			}
		}
	}
	for i, line := range view.Lines() {
		name, ok := targetLine(line)
		if !ok || !conventionallyPhonyNames[name] || phony[name] {
			continue
		}
		bag.Add(lineDiag(diag.SevWarning, diag.MAKE001, view.FileID(), uint32(i+1),
			"target \""+name+"\" looks phony but is missing from .PHONY"))
	}
}

// ruleMAKE002 flags a recipe-shaped line (indented, following a target)
// that uses spaces instead of a leading tab — make silently treats it as
// a syntax error or a new non-recipe line.
func ruleMAKE002(view rules.SourceView, cfg rules.Config, bag *diag.Bag) {
	inRecipe := false
	for i, line := range view.Lines() {
		if _, ok := targetLine(line); ok {
			inRecipe = true
			continue
		}
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			inRecipe = false
			continue
		}
		if !inRecipe {
			continue
		}
		if strings.HasPrefix(line, " ") && !strings.HasPrefix(line, "\t") {
			bag.Add(lineDiag(diag.SevError, diag.MAKE002, view.FileID(), uint32(i+1),
				"recipe line must start with a tab, not spaces"))
		}
	}
}

// ruleMAKE003 flags a recipe invoking `make` directly instead of
// `$(MAKE)`, which breaks -j/-n propagation to the sub-make.
func ruleMAKE003(view rules.SourceView, cfg rules.Config, bag *diag.Bag) {
	for i, line := range view.Lines() {
		if !strings.HasPrefix(line, "\t") {
			continue
		}
		body := strings.TrimSpace(line)
		if strings.Contains(body, "$(MAKE)") || strings.Contains(body, "${MAKE}") {
			continue
		}
		fields := strings.Fields(body)
		for _, f := range fields {
			if f == "make" {
				bag.Add(lineDiag(diag.SevWarning, diag.MAKE003, view.FileID(), uint32(i+1),
					"recursive invocation should use $(MAKE), not a literal make"))
				break
			}
		}
	}
}

func lineDiag(sev diag.Severity, code diag.Code, fileID source.FileID, line uint32, msg string) *diag.Diagnostic {
	pos := source.Position{Line: line, Col: 1}
	d := diag.New(sev, code, source.Span{File: fileID, Start: pos, End: pos}, msg)
	return &d
}
