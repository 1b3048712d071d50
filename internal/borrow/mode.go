package borrow

// Mode is how a use of a binding is emitted.
type Mode uint8

const (
	Move Mode = iota
	BorrowShared
	BorrowExclusive
	Duplicate
)

func (m Mode) String() string {
	switch m {
	case Move:
		return "move"
	case BorrowShared:
		return "shared"
	case BorrowExclusive:
		return "exclusive"
	case Duplicate:
		return "duplicate"
	default:
		return "invalid"
	}
}

// Context is the syntactic position a use appears in.
type Context uint8

const (
	CtxDiscard      Context = iota // expression statement
	CtxReturn                      // return value or function tail
	CtxLetInit                     // let initializer
	CtxAssignValue                 // right side of an assignment
	CtxElement                     // tuple/list element, Some/Ok/Err payload
	CtxArgMove                     // argument of a consuming call
	CtxArgShared                   // argument bound to &T or a non-consuming call
	CtxArgExclusive                // argument bound to &mut T, mut_ref operand
	CtxRefArg                      // ref(x) operand
	CtxMacroArg                    // println-family argument
	CtxSubject                     // match subject
	CtxOperand                     // operator operand
	CtxConcatHead                  // owned left operand of string `+`
	CtxCondition                   // if/while condition, match guard
	CtxIterable                    // for iterable
	CtxReceiver                    // receiver of a reading method
	CtxReceiverMut                 // receiver of a mutating method
	CtxReceiverMove                // receiver of a consuming method (unwrap, into_iter)
	CtxMethodArg                   // argument of a method call
	CtxFieldBase                   // base of a field access
	CtxCallee                      // closure binding being called
	CtxClosureBody                 // value returned by a closure
	CtxTry                         // operand of `?`
	CtxSelfAssign                  // read of x inside `x = ...`
)

var contextNames = [...]string{
	CtxDiscard:      "statement",
	CtxReturn:       "return value",
	CtxLetInit:      "let initializer",
	CtxAssignValue:  "assigned value",
	CtxElement:      "collection element",
	CtxArgMove:      "consuming argument",
	CtxArgShared:    "borrowed argument",
	CtxArgExclusive: "mutably borrowed argument",
	CtxRefArg:       "ref operand",
	CtxMacroArg:     "macro argument",
	CtxSubject:      "match subject",
	CtxOperand:      "operand",
	CtxConcatHead:   "string concatenation head",
	CtxCondition:    "condition",
	CtxIterable:     "loop iterable",
	CtxReceiver:     "method receiver",
	CtxReceiverMut:  "mutating method receiver",
	CtxReceiverMove: "consuming method receiver",
	CtxMethodArg:    "method argument",
	CtxFieldBase:    "field access",
	CtxCallee:       "callee",
	CtxClosureBody:  "closure result",
	CtxTry:          "`?` operand",
	CtxSelfAssign:   "read inside its own reassignment",
}

func (c Context) String() string {
	if int(c) < len(contextNames) {
		return contextNames[c]
	}
	return "invalid"
}

// BaseMode is the mode a use gets before duplication is considered.
func (c Context) BaseMode() Mode {
	switch c {
	case CtxReturn, CtxLetInit, CtxAssignValue, CtxElement, CtxArgMove,
		CtxConcatHead, CtxReceiverMove, CtxMethodArg, CtxClosureBody, CtxTry:
		return Move
	case CtxArgExclusive, CtxReceiverMut, CtxSelfAssign:
		return BorrowExclusive
	default:
		return BorrowShared
	}
}

// ExplicitRef reports whether the emitter writes `&`/`&mut` at this
// position. Everywhere else Rust auto-references and the name stays bare.
func (c Context) ExplicitRef() bool {
	switch c {
	case CtxArgShared, CtxArgExclusive, CtxRefArg, CtxIterable:
		return true
	}
	return false
}
