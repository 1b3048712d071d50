package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF

	// Ident represents an identifier token.
	Ident
	KwFn     // fn
	KwLet    // let
	KwReturn // return
	KwIf     // if
	KwElse   // else
	KwWhile  // while
	KwFor    // for
	KwIn     // in
	KwMatch  // match
	KwStruct // struct
	KwEnum   // enum
	KwTrue   // true
	KwFalse  // false

	IntLit    // 123
	FloatLit  // 1.5
	StringLit // "text"

	Plus        // +
	Minus       // -
	Star        // *
	Slash       // /
	Percent     // %
	Assign      // =
	PlusAssign  // +=
	MinusAssign // -=
	EqEq        // ==
	Bang        // !
	BangEq      // !=
	Lt          // <
	LtEq        // <=
	Gt          // >
	GtEq        // >=
	Amp         // &
	AndAnd      // &&
	Pipe        // |
	OrOr        // ||
	Question    // ?
	Colon       // :
	ColonColon  // ::
	Semicolon   // ;
	Comma       // ,
	Dot         // .
	DotDot      // ..
	Arrow       // ->
	FatArrow    // =>
	LParen      // (
	RParen      // )
	LBrace      // {
	RBrace      // }
	LBracket    // [
	RBracket    // ]
	Underscore  // _
)

var kindNames = [...]string{
	Invalid:     "Invalid",
	EOF:         "EOF",
	Ident:       "Ident",
	KwFn:        "fn",
	KwLet:       "let",
	KwReturn:    "return",
	KwIf:        "if",
	KwElse:      "else",
	KwWhile:     "while",
	KwFor:       "for",
	KwIn:        "in",
	KwMatch:     "match",
	KwStruct:    "struct",
	KwEnum:      "enum",
	KwTrue:      "true",
	KwFalse:     "false",
	IntLit:      "IntLit",
	FloatLit:    "FloatLit",
	StringLit:   "StringLit",
	Plus:        "+",
	Minus:       "-",
	Star:        "*",
	Slash:       "/",
	Percent:     "%",
	Assign:      "=",
	PlusAssign:  "+=",
	MinusAssign: "-=",
	EqEq:        "==",
	Bang:        "!",
	BangEq:      "!=",
	Lt:          "<",
	LtEq:        "<=",
	Gt:          ">",
	GtEq:        ">=",
	Amp:         "&",
	AndAnd:      "&&",
	Pipe:        "|",
	OrOr:        "||",
	Question:    "?",
	Colon:       ":",
	ColonColon:  "::",
	Semicolon:   ";",
	Comma:       ",",
	Dot:         ".",
	DotDot:      "..",
	Arrow:       "->",
	FatArrow:    "=>",
	LParen:      "(",
	RParen:      ")",
	LBrace:      "{",
	RBrace:      "}",
	LBracket:    "[",
	RBracket:    "]",
	Underscore:  "_",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "Kind(?)"
}
