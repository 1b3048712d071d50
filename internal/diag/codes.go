package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// lexical
	LexInfo               Code = 1000
	LexUnknownChar        Code = 1001
	LexUnterminatedString Code = 1002
	LexBadNumber          Code = 1003
	LexBadEscape          Code = 1004
	LexUnterminatedCmt    Code = 1005
	LexInvalidUTF8        Code = 1006

	// syntax
	SynInfo             Code = 2000
	SynUnexpectedToken  Code = 2001
	SynExpectSemicolon  Code = 2002
	SynExpectIdentifier Code = 2003
	SynExpectExpression Code = 2004
	SynExpectPattern    Code = 2005
	SynExpectType       Code = 2006
	SynUnclosedDelim    Code = 2007
	SynUnexpectedTopLvl Code = 2008

	// names and scopes
	SemaInfo           Code = 3000
	SemaNameError      Code = 3001
	SemaDuplicateParam Code = 3002
	SemaDuplicateFunc  Code = 3003
	SemaAssignToParam  Code = 3004
	SemaDuplicateType  Code = 3005

	// lowering
	LowInfo                 Code = 4000
	LowInexhaustiveMatch    Code = 4001
	LowUnsupportedConstruct Code = 4002
	LowUnreachableArm       Code = 4003

	// ownership
	OwnInfo                Code = 5000
	OwnDuplicationRequired Code = 5001
	OwnDuplicationInserted Code = 5002
	OwnMoveInLoop          Code = 5003

	// io and project
	IOLoadFileError   Code = 6001
	IOWriteFileError  Code = 6002
	ProjConfigInvalid Code = 6101

	// fatal
	FatalStackExhausted Code = 9001
	FatalInternal       Code = 9002
)

var (
	codeDescription = map[Code]string{
		UnknownCode:             "Unknown error",
		LexInfo:                 "Lexical information",
		LexUnknownChar:          "Unknown character",
		LexUnterminatedString:   "Unterminated string literal",
		LexBadNumber:            "Malformed number literal",
		LexBadEscape:            "Invalid escape sequence",
		LexUnterminatedCmt:      "Unterminated block comment",
		LexInvalidUTF8:          "Invalid UTF-8 in string literal",
		SynInfo:                 "Syntax information",
		SynUnexpectedToken:      "Unexpected token",
		SynExpectSemicolon:      "Expected ';'",
		SynExpectIdentifier:     "Expected identifier",
		SynExpectExpression:     "Expected expression",
		SynExpectPattern:        "Expected pattern",
		SynExpectType:           "Expected type",
		SynUnclosedDelim:        "Unclosed delimiter",
		SynUnexpectedTopLvl:     "Unexpected item at top level",
		SemaInfo:                "Name resolution information",
		SemaNameError:           "Unbound identifier",
		SemaDuplicateParam:      "Duplicate parameter name",
		SemaDuplicateFunc:       "Duplicate function definition",
		SemaAssignToParam:       "Parameter reassigned",
		SemaDuplicateType:       "Duplicate type definition",
		LowInfo:                 "Lowering information",
		LowInexhaustiveMatch:    "Inexhaustive match",
		LowUnsupportedConstruct: "Unsupported construct",
		LowUnreachableArm:       "Unreachable match arm",
		OwnInfo:                 "Ownership information",
		OwnDuplicationRequired:  "Duplication required on non-duplicable value",
		OwnDuplicationInserted:  "Value duplicated after move",
		OwnMoveInLoop:           "Value moved inside loop",
		IOLoadFileError:         "I/O load file error",
		IOWriteFileError:        "I/O write file error",
		ProjConfigInvalid:       "Invalid project configuration",
		FatalStackExhausted:     "Nesting depth exhausted",
		FatalInternal:           "Internal compiler error",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("SEM%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("LOW%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("OWN%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 9000 && ic < 10000:
		return fmt.Sprintf("FTL%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}

// IsFatal reports codes that abort the whole run rather than one function.
func (c Code) IsFatal() bool {
	return c >= 9000
}
