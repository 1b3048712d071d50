package token

var keywords = map[string]Kind{
	"fn":     KwFn,
	"let":    KwLet,
	"return": KwReturn,
	"if":     KwIf,
	"else":   KwElse,
	"while":  KwWhile,
	"for":    KwFor,
	"in":     KwIn,
	"match":  KwMatch,
	"struct": KwStruct,
	"enum":   KwEnum,
	"true":   KwTrue,
	"false":  KwFalse,
}

// LookupKeyword returns the keyword kind for ident, if any.
func LookupKeyword(ident string) (Kind, bool) {
	k, ok := keywords[ident]
	return k, ok
}
