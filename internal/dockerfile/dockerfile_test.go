package dockerfile

import (
	"testing"

	"bashrs/internal/diag"
	"bashrs/internal/rules"
	"bashrs/internal/source"
)

func lintDockerfile(t *testing.T, content string) map[diag.Code]int {
	t.Helper()
	fset := source.NewFileSet()
	id := fset.AddVirtual("Dockerfile", []byte(content))
	view := NewView(fset.Get(id))
	result := rules.NewEngine(nil).RunView(view, rules.Config{}, 100)
	out := map[diag.Code]int{}
	for _, d := range result.Diagnostics {
		out[d.Code]++
	}
	return out
}

func TestUnpinnedBaseImage(t *testing.T) {
	got := lintDockerfile(t, "FROM alpine\nCMD [\"sh\"]\n")
	if got[diag.DOCKER001] == 0 {
		t.Errorf("missing DOCKER001 in %v", got)
	}
	got = lintDockerfile(t, "FROM alpine:latest\n")
	if got[diag.DOCKER001] == 0 {
		t.Errorf("missing DOCKER001 for :latest in %v", got)
	}
	got = lintDockerfile(t, "FROM alpine:3.20\n")
	if got[diag.DOCKER001] != 0 {
		t.Errorf("DOCKER001 fired on pinned tag: %v", got)
	}
}

func TestAddVersusCopy(t *testing.T) {
	got := lintDockerfile(t, "FROM alpine:3.20\nADD app /app\n")
	if got[diag.DOCKER002] == 0 {
		t.Errorf("missing DOCKER002 in %v", got)
	}
	got = lintDockerfile(t, "FROM alpine:3.20\nADD https://example.com/file /app\n")
	if got[diag.DOCKER002] != 0 {
		t.Errorf("DOCKER002 fired on URL fetch: %v", got)
	}
}

func TestRunsAsRoot(t *testing.T) {
	got := lintDockerfile(t, "FROM alpine:3.20\nCMD [\"sh\"]\n")
	if got[diag.DOCKER003] == 0 {
		t.Errorf("missing DOCKER003 in %v", got)
	}
	got = lintDockerfile(t, "FROM alpine:3.20\nUSER app\nCMD [\"sh\"]\n")
	if got[diag.DOCKER003] != 0 {
		t.Errorf("DOCKER003 fired despite USER: %v", got)
	}
}
