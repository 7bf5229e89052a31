package ast

import "bashrs/internal/source"

// BracketKind distinguishes POSIX `[ ]` from extended `[[ ]]` test commands.
type BracketKind uint8

const (
	BracketSingle BracketKind = iota // [ ... ]
	BracketDouble                    // [[ ... ]]
)

// TestOp identifies a unary or binary test operator.
type TestOp uint8

const (
	TestNone TestOp = iota

	// Unary string/number tests.
	TestStrEmpty    // -z
	TestStrNonEmpty // -n

	// Unary file tests.
	TestFileExists     // -e
	TestFileRegular    // -f
	TestFileDirectory  // -d
	TestFileReadable   // -r
	TestFileWritable   // -w
	TestFileExecutable // -x
	TestFileSymlink    // -L / -h
	TestFileSize       // -s

	// Binary operators.
	TestEq        // = / ==
	TestNe        // !=
	TestMatch     // =~ ([[ ]] only)
	TestLt        // < (lexicographic, [[ ]] only)
	TestGt        // > (lexicographic, [[ ]] only)
	TestNumEq     // -eq
	TestNumNe     // -ne
	TestNumLt     // -lt
	TestNumLe     // -le
	TestNumGt     // -gt
	TestNumGe     // -ge
)

// TestExprKind discriminates the variant stored in TestExpr.
type TestExprKind uint8

const (
	TestKindUnary TestExprKind = iota
	TestKindBinary
	TestKindNot
	TestKindAnd
	TestKindOr
	TestKindWord // a bare word, true iff non-empty
)

// TestExpr is one node of a `[ ]`/`[[ ]]` test expression tree, built with
// precedence `!` > `&&` > `||`.
type TestExpr struct {
	Span source.ByteSpan
	Kind TestExprKind

	Op       TestOp
	Operand  *Word      // TestKindUnary / TestKindWord
	Left     *Word      // TestKindBinary left operand
	Right    *Word      // TestKindBinary right operand
	Pattern  *Word      // TestKindBinary when Op == TestMatch: the ERE pattern word

	Sub      *TestExpr  // TestKindNot operand
	X, Y     *TestExpr  // TestKindAnd / TestKindOr operands
}
