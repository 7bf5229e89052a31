package token

import "testing"

func TestLookupKeyword_Positive(t *testing.T) {
	cases := map[string]Kind{
		"if":     KwIf,
		"then":   KwThen,
		"fi":     KwFi,
		"while":  KwWhile,
		"do":     KwDo,
		"done":   KwDone,
		"case":   KwCase,
		"esac":   KwEsac,
		"for":    KwFor,
		"trap":   KwTrap,
		"local":  KwLocal,
		"coproc": KwCoproc,
		"time":   KwTime,
	}

	for lexeme, want := range cases {
		got, ok := LookupKeyword(lexeme)
		if !ok {
			t.Fatalf("LookupKeyword(%q) = !ok, want %v", lexeme, want)
		}
		if got != want {
			t.Fatalf("LookupKeyword(%q) = %v, want %v", lexeme, got, want)
		}
	}
}

func TestLookupKeyword_Negative(t *testing.T) {
	notKw := []string{
		"If", "WHILE", "Done", // case-sensitive: only lowercase is a keyword
		"echo", "ls", "mkdir", // ordinary command names
		"function_name", "my-script",
	}
	for _, s := range notKw {
		if _, ok := LookupKeyword(s); ok {
			t.Fatalf("LookupKeyword(%q) returned ok=true, want false", s)
		}
	}
}
