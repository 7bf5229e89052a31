package rules

import (
	"fmt"
	"sort"
	"sync"

	"bashrs/internal/ast"
	"bashrs/internal/diag"
	"bashrs/internal/source"
)

// Category classifies what a rule is checking for.
type Category uint8

const (
	CategorySecurity Category = iota
	CategoryDeterminism
	CategoryIdempotency
	CategoryQuoting
	CategoryPortability
	CategoryStyle
	CategoryBashBestPractice
)

func (c Category) String() string {
	switch c {
	case CategorySecurity:
		return "security"
	case CategoryDeterminism:
		return "determinism"
	case CategoryIdempotency:
		return "idempotency"
	case CategoryQuoting:
		return "quoting"
	case CategoryPortability:
		return "portability"
	case CategoryStyle:
		return "style"
	case CategoryBashBestPractice:
		return "bash-best-practice"
	}
	return "unknown"
}

// Compatibility narrows which --shell targets a rule applies to.
type Compatibility uint8

const (
	CompatUniversal Compatibility = iota
	CompatBashOnly
	CompatZshOnly
	CompatShOnly
	CompatBashZsh
	CompatNotSh
	// CompatNA marks a rule that isn't shell-dialect-specific at all
	// (MAKE*, DOCKER*, CONFIG* rules) — Applies always returns true for it.
	CompatNA
)

// Applies reports whether a rule with this compatibility tag should run
// against target. This is registry filter step 2 of the engine contract.
func (c Compatibility) Applies(target Shell) bool {
	switch c {
	case CompatUniversal, CompatNA:
		return true
	case CompatBashOnly:
		return target == ShellBash
	case CompatZshOnly:
		return target == ShellZsh
	case CompatShOnly:
		return target == ShellSh || target == ShellDash || target == ShellAsh
	case CompatBashZsh:
		return target == ShellBash || target == ShellZsh
	case CompatNotSh:
		return target != ShellSh && target != ShellDash && target != ShellAsh
	}
	return false
}

// ScriptFunc is a rule body that inspects the parsed AST (and, where useful,
// the raw source) of a shell script and appends findings to bag.
type ScriptFunc func(file *source.File, script *ast.Script, cfg Config, bag *diag.Bag)

// ViewFunc is a rule body that inspects a line-oriented SourceView, used by
// the Makefile/Dockerfile front ends.
type ViewFunc func(view SourceView, cfg Config, bag *diag.Bag)

// Rule is one registered check. Exactly one of Script/View is set, chosen
// to match Dialect (shell rules set Script, MAKE*/DOCKER* rules set View).
type Rule struct {
	Code            diag.Code
	Category        Category
	Compatibility   Compatibility
	DefaultSeverity diag.Severity
	HasAutofix      bool
	Dialect         Dialect

	Script ScriptFunc
	View   ViewFunc
}

// Registry is a process-wide, append-only catalog of rules. Once built by
// the package-level init (see register.go), it is never mutated again;
// Engine.Run only ever reads from it concurrently, so no locking is needed
// there — the mutex below only guards the construction window.
type Registry struct {
	mu    sync.Mutex
	rules []Rule
	byID  map[diag.Code]int
}

// NewRegistry returns an empty Registry ready for Register calls.
func NewRegistry() *Registry {
	return &Registry{byID: make(map[diag.Code]int)}
}

// Register adds rule to the registry. It panics on a duplicate code (a
// programming error, caught at init time) and on a rule missing a body.
func (r *Registry) Register(rule Rule) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.byID[rule.Code]; dup {
		panic(fmt.Sprintf("rules: duplicate registration for %s", rule.Code))
	}
	if rule.Dialect == DialectSh && rule.Script == nil {
		panic(fmt.Sprintf("rules: %s has no Script body", rule.Code))
	}
	if rule.Dialect != DialectSh && rule.View == nil {
		panic(fmt.Sprintf("rules: %s has no View body", rule.Code))
	}
	if rule.Dialect != DialectSh && rule.Compatibility != CompatNA {
		panic(fmt.Sprintf("rules: %s is file-format specific and must use CompatNA", rule.Code))
	}
	r.byID[rule.Code] = len(r.rules)
	r.rules = append(r.rules, rule)
}

// All returns a defensive copy of every registered rule.
func (r *Registry) All() []Rule {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Rule, len(r.rules))
	copy(out, r.rules)
	return out
}

// Get looks up a rule by code.
func (r *Registry) Get(code diag.Code) (Rule, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	idx, ok := r.byID[code]
	if !ok {
		return Rule{}, false
	}
	return r.rules[idx], true
}

// ForDialect returns the rules applicable to dialect and target, sorted by
// code for deterministic iteration order.
func (r *Registry) ForDialect(dialect Dialect, target Shell) []Rule {
	all := r.All()
	out := make([]Rule, 0, len(all))
	for _, rule := range all {
		if rule.Dialect != dialect {
			continue
		}
		if !rule.Compatibility.Applies(target) {
			continue
		}
		out = append(out, rule)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// Default is the process-wide registry populated by this package's init
// function in register.go. Callers needing a
// scoped registry for testing can build their own via NewRegistry.
var Default = NewRegistry()
