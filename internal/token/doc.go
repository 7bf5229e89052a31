// Package token defines the lexical token kinds produced by the shell lexer.
// Invariants:
//   - Token.Text is a slice of the original source (no copies).
//   - Token.Span matches Text exactly.
//   - Operator/redirection kinds are reused across lexer modes (the same
//     Kind value means different things in Default vs Arithmetic mode); the
//     parser interprets tokens in light of the mode that produced them.
//   - Comments and horizontal whitespace are lexed as leading Trivia, never
//     as tokens in the main stream.
package token
