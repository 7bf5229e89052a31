package purify

import (
	"bashrs/internal/diag"
	"bashrs/internal/source"
)

// spanOf resolves a ByteSpan to a line/col diag.Span the same way the
// lexer/parser's own FileSet.Resolve would, without requiring a FileSet
// (purify only ever has the single file it's transforming).
func (c *ctx) spanOf(bsp source.ByteSpan) source.Span {
	return source.Span{
		File:  c.file.ID,
		Start: c.file.PositionFor(bsp.Start),
		End:   c.file.PositionFor(bsp.End),
	}
}

func (c *ctx) report(sev diag.Severity, code diag.Code, bsp source.ByteSpan, msg string) {
	d := diag.New(sev, code, c.spanOf(bsp), msg)
	c.bag.Add(&d)
}
