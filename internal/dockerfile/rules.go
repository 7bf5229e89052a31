package dockerfile

import (
	"strings"

	"bashrs/internal/diag"
	"bashrs/internal/rules"
	"bashrs/internal/source"
)

func init() {
	rules.Default.Register(rules.Rule{Code: diag.DOCKER001, Category: rules.CategoryPortability, Compatibility: rules.CompatNA,
		DefaultSeverity: diag.SevWarning, Dialect: rules.DialectDocker, View: ruleDOCKER001})
	rules.Default.Register(rules.Rule{Code: diag.DOCKER002, Category: rules.CategoryStyle, Compatibility: rules.CompatNA,
		DefaultSeverity: diag.SevInfo, Dialect: rules.DialectDocker, View: ruleDOCKER002})
	rules.Default.Register(rules.Rule{Code: diag.DOCKER003, Category: rules.CategorySecurity, Compatibility: rules.CompatNA,
		DefaultSeverity: diag.SevWarning, Dialect: rules.DialectDocker, View: ruleDOCKER003})
}

// ruleDOCKER001 flags `FROM image` (or `FROM image:latest`) without a
// pinned, non-latest tag or digest.
func ruleDOCKER001(view rules.SourceView, cfg rules.Config, bag *diag.Bag) {
	for i, line := range view.Lines() {
		kw, rest, ok := instruction(line)
		if !ok || kw != "FROM" {
			continue
		}
		image := strings.Fields(rest)
		if len(image) == 0 {
			continue
		}
		ref := image[0]
		if strings.Contains(ref, "@sha256:") {
			continue
		}
		if !strings.Contains(ref, ":") || strings.HasSuffix(ref, ":latest") {
			bag.Add(dockerLineDiag(diag.SevWarning, diag.DOCKER001, view.FileID(), uint32(i+1),
				"pin FROM to a specific tag or digest instead of floating/latest"))
		}
	}
}

// ruleDOCKER002 flags `ADD` used for a plain local file/dir copy, where
// COPY (which doesn't auto-extract archives or fetch URLs) is the more
// explicit, safer choice.
func ruleDOCKER002(view rules.SourceView, cfg rules.Config, bag *diag.Bag) {
	for i, line := range view.Lines() {
		kw, rest, ok := instruction(line)
		if !ok || kw != "ADD" {
			continue
		}
		if strings.Contains(rest, "://") {
			continue // fetching a URL is a legitimate ADD use
		}
		bag.Add(dockerLineDiag(diag.SevInfo, diag.DOCKER002, view.FileID(), uint32(i+1),
			"ADD used for a local path copy; COPY is more explicit and doesn't auto-extract archives"))
	}
}

// ruleDOCKER003 flags an image with no USER instruction before its final
// CMD/ENTRYPOINT, meaning the container runs as root by default.
func ruleDOCKER003(view rules.SourceView, cfg rules.Config, bag *diag.Bag) {
	sawUser := false
	lastEntrypointLine := -1
	for i, line := range view.Lines() {
		kw, _, ok := instruction(line)
		if !ok {
			continue
		}
		switch kw {
		case "USER":
			sawUser = true
		case "CMD", "ENTRYPOINT":
			lastEntrypointLine = i
		case "FROM":
			sawUser = false // new build stage resets
		}
	}
	if lastEntrypointLine >= 0 && !sawUser {
		bag.Add(dockerLineDiag(diag.SevWarning, diag.DOCKER003, view.FileID(), uint32(lastEntrypointLine+1),
			"no USER instruction before CMD/ENTRYPOINT; the container runs as root"))
	}
}

func dockerLineDiag(sev diag.Severity, code diag.Code, fileID source.FileID, line uint32, msg string) *diag.Diagnostic {
	pos := source.Position{Line: line, Col: 1}
	d := diag.New(sev, code, source.Span{File: fileID, Start: pos, End: pos}, msg)
	return &d
}
