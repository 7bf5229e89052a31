package rules

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"bashrs/internal/ast"
	"bashrs/internal/diag"
	"bashrs/internal/source"
	"bashrs/internal/suppress"
)

// Engine runs a Registry's applicable rules over one parsed script.
type Engine struct {
	Registry *Registry
}

// NewEngine returns an Engine backed by reg, or the package Default
// registry if reg is nil.
func NewEngine(reg *Registry) *Engine {
	if reg == nil {
		reg = Default
	}
	return &Engine{Registry: reg}
}

// Result is the outcome of one Run: the final sorted, suppression-filtered
// diagnostics and a per-severity tally, mirroring the registry contract's
// step 6 `{diagnostics, counts_by_severity}` shape.
type Result struct {
	Diagnostics []diag.Diagnostic
	Counts      map[diag.Severity]int
}

// Run executes every CompatDialect-applicable, non-disabled rule from
// e.Registry against file/script concurrently (one goroutine per rule body,
// per the x/sync/errgroup fan-out pattern), applies suppression directives,
// sorts the survivors, and tallies them by severity.
//
// A panicking rule body is recovered at its own goroutine boundary and
// turned into a CONFIG002 diagnostic tagged with the failing rule's code;
// it never aborts the other rules' goroutines.
func (e *Engine) Run(ctx context.Context, file *source.File, script *ast.Script, cfg Config, maxDiagnostics int) (Result, error) {
	applicable := e.Registry.ForDialect(DialectSh, cfg.Target)

	g, gctx := errgroup.WithContext(ctx)
	perRule := make([][]diag.Diagnostic, len(applicable))

	for i, rule := range applicable {
		if cfg.DisabledCodes[rule.Code] {
			continue
		}
		g.Go(func(i int, rule Rule) func() error {
			return func() error {
				select {
				case <-gctx.Done():
					return gctx.Err()
				default:
				}
				perRule[i] = runRuleBody(rule, file, script, cfg, maxDiagnostics)
				return nil
			}
		}(i, rule))
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	bag := diag.NewBag(maxDiagnostics)
	for _, ds := range perRule {
		for _, d := range ds {
			bag.Add(&d)
		}
	}

	collected := make([]diag.Diagnostic, 0, bag.Len())
	for _, d := range bag.Items() {
		collected = append(collected, *d)
	}
	directives := suppress.Scan(file)
	filtered := suppress.Apply(collected, directives)

	out := diag.NewBag(maxDiagnostics)
	for _, d := range filtered {
		if d.Severity < cfg.MinSeverity {
			continue
		}
		dd := d
		out.Add(&dd)
	}
	out.Sort()

	counts := map[diag.Severity]int{}
	for _, d := range out.Items() {
		counts[d.Severity]++
	}

	items := out.Items()
	diags := make([]diag.Diagnostic, len(items))
	for i, d := range items {
		diags[i] = *d
	}
	return Result{Diagnostics: diags, Counts: counts}, nil
}

// RunView executes the applicable View-backed rules (MAKE*/DOCKER*) for
// view's Dialect. Simpler than Run: file-format rules are few and cheap
// enough to run sequentially, and they have no shell-target filtering
// (Compatibility is always CompatNA for them).
func (e *Engine) RunView(view SourceView, cfg Config, maxDiagnostics int) Result {
	applicable := e.Registry.ForDialect(view.Dialect(), cfg.Target)
	bag := diag.NewBag(maxDiagnostics)
	for _, rule := range applicable {
		if cfg.DisabledCodes[rule.Code] || rule.View == nil {
			continue
		}
		func() {
			defer func() {
				if r := recover(); r != nil {
					d := diag.NewError(diag.CONFIG002, source.Span{File: view.FileID(), Start: source.Position{Line: 1, Col: 1}, End: source.Position{Line: 1, Col: 1}},
						fmt.Sprintf("rule %s failed: %v", rule.Code, r))
					bag.Add(&d)
				}
			}()
			rule.View(view, cfg, bag)
		}()
	}
	bag.Sort()
	counts := map[diag.Severity]int{}
	items := bag.Items()
	diags := make([]diag.Diagnostic, len(items))
	for i, d := range items {
		diags[i] = *d
		counts[d.Severity]++
	}
	return Result{Diagnostics: diags, Counts: counts}
}

// runRuleBody invokes one rule's Script func in isolation, converting a
// panic into a single CONFIG002 diagnostic instead of propagating it.
func runRuleBody(rule Rule, file *source.File, script *ast.Script, cfg Config, maxDiagnostics int) (result []diag.Diagnostic) {
	bag := diag.NewBag(maxDiagnostics)
	defer func() {
		if r := recover(); r != nil {
			span := source.Span{File: file.ID, Start: source.Position{Line: 1, Col: 1}, End: source.Position{Line: 1, Col: 1}}
			d := diag.NewError(diag.CONFIG002, span,
				fmt.Sprintf("rule %s failed: %v", rule.Code, r))
			result = []diag.Diagnostic{d}
		}
	}()
	if rule.Script != nil {
		rule.Script(file, script, cfg, bag)
	}
	items := bag.Items()
	out := make([]diag.Diagnostic, len(items))
	for i, d := range items {
		out[i] = *d
	}
	return out
}
