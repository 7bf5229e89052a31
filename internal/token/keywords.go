package token

var keywords = map[string]Kind{
	"if":       KwIf,
	"then":     KwThen,
	"elif":     KwElif,
	"else":     KwElse,
	"fi":       KwFi,
	"while":    KwWhile,
	"do":       KwDo,
	"done":     KwDone,
	"until":    KwUntil,
	"case":     KwCase,
	"in":       KwIn,
	"esac":     KwEsac,
	"for":      KwFor,
	"function": KwFunction,
	"select":   KwSelect,
	"break":    KwBreak,
	"continue": KwContinue,
	"return":   KwReturn,
	"exit":     KwExit,
	"trap":     KwTrap,
	"local":    KwLocal,
	"export":   KwExport,
	"readonly": KwReadonly,
	"declare":  KwDeclare,
	"typeset":  KwTypeset,
	"coproc":   KwCoproc,
	"time":     KwTime,
}

// LookupKeyword reports whether ident is a shell keyword, returning its Kind.
// Keywords are case-sensitive; only the lowercase spelling is recognized.
func LookupKeyword(ident string) (Kind, bool) {
	k, ok := keywords[ident]
	return k, ok
}
