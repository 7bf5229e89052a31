// Package ast defines the shell abstract syntax tree: a plain tree of typed
// struct pointers owned by a single Script root. Nodes do not alias and
// carry no parent pointer; rules and the purifier walk top-down and thread
// their own context. Every node carries a source.ByteSpan recording the
// exact byte range it was parsed from.
package ast
