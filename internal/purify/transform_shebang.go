package purify

import (
	"bashrs/internal/ast"
	"bashrs/internal/diag"
	"bashrs/internal/source"
)

// rewriteShebang pins the script to `#!/bin/sh` and prepends `set -eu`
// (and `set -o pipefail` when the policy asks for it) so a purified script
// fails fast and loudly instead of limping on after the first error.
func (c *ctx) rewriteShebang(script *ast.Script) {
	if script.Shebang != "#!/bin/sh" {
		c.report(diag.SevWarning, diag.BASH006, source.ByteSpan{File: c.file.ID}, "rewrote shebang to #!/bin/sh")
		script.Shebang = "#!/bin/sh"
	}
	var prelude []ast.Stmt
	if !startsWithSet(script.Items, "-eu") {
		prelude = append(prelude, setCommand(script.Span, "-eu"))
	}
	if c.policy.PipefailInsert && !hasSetPipefail(script.Items) {
		prelude = append(prelude, setCommand(script.Span, "-o", "pipefail"))
	}
	script.Items = append(prelude, script.Items...)
}

// startsWithSet reports whether the script already opens with `set <flag>`,
// so re-purifying purified output doesn't stack a second prelude.
func startsWithSet(items []ast.Stmt, flag string) bool {
	if len(items) == 0 {
		return false
	}
	cmd, ok := items[0].(*ast.Command)
	if !ok {
		return false
	}
	name, ok := commandLiteralName(cmd)
	return ok && name == "set" && hasFlag(cmd, flag)
}

func hasSetPipefail(items []ast.Stmt) bool {
	for _, s := range items {
		cmd, ok := s.(*ast.Command)
		if !ok {
			continue
		}
		if name, ok := commandLiteralName(cmd); !ok || name != "set" {
			continue
		}
		for i := 0; i+1 < len(cmd.Args); i++ {
			a, aok := literalText(cmd.Args[i])
			b, bok := literalText(cmd.Args[i+1])
			if aok && bok && a == "-o" && b == "pipefail" {
				return true
			}
		}
	}
	return false
}

func setCommand(span source.ByteSpan, args ...string) ast.Stmt {
	word := func(text string) *ast.Word {
		return &ast.Word{Span: span, Parts: []ast.WordPart{&ast.Literal{Span: span, Text: text}}}
	}
	cmd := &ast.Command{Span: span, Name: word("set")}
	for _, a := range args {
		cmd.Args = append(cmd.Args, word(a))
	}
	return cmd
}
