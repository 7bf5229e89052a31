package purify

import (
	"bashrs/internal/ast"
	"bashrs/internal/diag"
	"bashrs/internal/source"
)

// Result is the outcome of one Purify call. Refused means the script
// contains a construct purification refuses to touch (reported at Error
// severity in Diagnostics); Script is then the untransformed input and
// must not be emitted.
type Result struct {
	Script      *ast.Script
	Diagnostics []diag.Diagnostic
	Refused     bool
}

// ctx carries the shared state every transformation step needs: where to
// report diagnostics, and the active policy.
type ctx struct {
	file   *source.File
	policy Policy
	bag    *diag.Bag
}

// Purify rewrites script's statement tree in place (Stmt nodes are pointer
// types, so rewrites mutate or replace individual nodes without needing to
// thread a new tree back up) and returns the same *ast.Script, now
// purified, plus the diagnostics produced along the way.
//
// Purify is idempotent: running it twice produces the same tree the second
// time as the first, because every transformation's predicate is false
// once its rewrite has already been applied (e.g. "mkdir without -p"
// no longer matches after -p has been inserted).
func Purify(file *source.File, script *ast.Script, policy Policy, maxDiagnostics int) Result {
	c := &ctx{file: file, policy: policy, bag: diag.NewBag(maxDiagnostics)}

	refused := c.refusals(script)
	if !refused {
		script.Items = c.purifyStmts(script.Items)
		c.rewriteShebang(script)
	}

	items := c.bag.Items()
	diags := make([]diag.Diagnostic, len(items))
	for i, d := range items {
		diags[i] = *d
	}
	return Result{Script: script, Diagnostics: diags, Refused: refused}
}

// purifyStmts applies every per-statement transform bottom-up: children
// are purified before the parent statement itself is inspected, so e.g. a
// purified `mkdir` inside an `if` body is already rewritten by the time
// the cd-safety pass looks at the `if` itself.
func (c *ctx) purifyStmts(stmts []ast.Stmt) []ast.Stmt {
	for i, s := range stmts {
		stmts[i] = c.purifyChildren(s)
	}
	for i, s := range stmts {
		stmts[i] = c.purifyStmt(s)
	}
	return c.addCdGuards(stmts)
}

func (c *ctx) purifyChildren(s ast.Stmt) ast.Stmt {
	switch n := s.(type) {
	case *ast.Pipeline:
		n.Stages = c.purifyStmts(n.Stages)
	case *ast.AndOr:
		n.Left = c.purifyChildren(n.Left)
		n.Left = c.purifyStmt(n.Left)
		n.Right = c.purifyChildren(n.Right)
		n.Right = c.purifyStmt(n.Right)
	case *ast.Subshell:
		n.Body = c.purifyStmts(n.Body)
	case *ast.Group:
		n.Body = c.purifyStmts(n.Body)
	case *ast.If:
		for i := range n.Arms {
			n.Arms[i].Cond = c.purifyChildren(n.Arms[i].Cond)
			n.Arms[i].Cond = c.purifyStmt(n.Arms[i].Cond)
			n.Arms[i].Body = c.purifyStmts(n.Arms[i].Body)
		}
		n.Else = c.purifyStmts(n.Else)
	case *ast.Loop:
		n.Cond = c.purifyChildren(n.Cond)
		n.Cond = c.purifyStmt(n.Cond)
		n.Body = c.purifyStmts(n.Body)
	case *ast.For:
		n.Body = c.purifyStmts(n.Body)
	case *ast.CStyleFor:
		n.Body = c.purifyStmts(n.Body)
	case *ast.Case:
		for i := range n.Arms {
			n.Arms[i].Body = c.purifyStmts(n.Arms[i].Body)
		}
	case *ast.Function:
		n.Body = c.purifyStmts(n.Body)
	case *ast.Coproc:
		n.Body = c.purifyStmts(n.Body)
	}
	c.quoteUnsafeWords(s)
	c.replaceNonDeterministic(s)
	return s
}

// purifyStmt applies the statement-shaped rewrites (mkdir -p, rm -f, ln
// -sf, bashism rewrites) to a single, already-child-purified statement.
func (c *ctx) purifyStmt(s ast.Stmt) ast.Stmt {
	s = c.rewriteBashisms(s)
	if cmd, ok := s.(*ast.Command); ok {
		c.mkdirP(cmd)
		c.rmF(cmd)
		c.lnSf(cmd)
		c.dashDashGuard(cmd)
		c.guardRmTargets(cmd)
	}
	return s
}
